package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/plutobets/pluto/internal/khronos"
	"github.com/plutobets/pluto/internal/pkg/retry"
)

// Bot wires the Discord session to the Khronos service wrappers. All
// terminal failures are converted to user-facing messages here; classified
// errors and stack traces never reach a channel.
type Bot struct {
	session     *discordgo.Session
	manager     *BetslipManager
	leaderboard *LeaderboardProvider
	matches     *khronos.MatchService
	accounts    *khronos.AccountService
	props       *khronos.PropsService
	footer      *FooterProvider
	welcome     *WelcomeQueue
	logger      *slog.Logger

	welcomeMessage string
}

// Deps carries everything the bot needs besides the session.
type Deps struct {
	Manager        *BetslipManager
	Leaderboard    *LeaderboardProvider
	Matches        *khronos.MatchService
	Accounts       *khronos.AccountService
	Props          *khronos.PropsService
	Footer         *FooterProvider
	Limiter        *DMLimiter
	WelcomeMessage string
	Logger         *slog.Logger
}

func New(session *discordgo.Session, deps Deps) *Bot {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	b := &Bot{
		session:        session,
		manager:        deps.Manager,
		leaderboard:    deps.Leaderboard,
		matches:        deps.Matches,
		accounts:       deps.Accounts,
		props:          deps.Props,
		footer:         deps.Footer,
		logger:         logger,
		welcomeMessage: deps.WelcomeMessage,
	}
	b.welcome = NewWelcomeQueue(&sessionDM{session: session}, deps.Limiter, logger)
	return b
}

var commands = []*discordgo.ApplicationCommand{
	{
		Name:        "bet",
		Description: "Place a bet on a team's upcoming game",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionString, Name: "team", Description: "Team to bet on", Required: true},
			{Type: discordgo.ApplicationCommandOptionNumber, Name: "amount", Description: "Amount to wager", Required: true},
		},
	},
	{Name: "cancelbet", Description: "Cancel your pending bet"},
	{
		Name:        "odds",
		Description: "Show upcoming games and odds for a team",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionString, Name: "team", Description: "Team to look up", Required: true},
		},
	},
	{Name: "leaderboard", Description: "Show the server leaderboard"},
	{Name: "stats", Description: "Show your balance and record"},
	{Name: "balance", Description: "Show your balance"},
	{Name: "props", Description: "Show open props"},
	{Name: "daily", Description: "Claim your daily allowance"},
}

// Start opens the gateway connection, registers commands and begins the
// welcome worker. It returns once the session is open.
func (b *Bot) Start(ctx context.Context) error {
	b.session.AddHandler(b.onInteraction)
	b.session.AddHandler(b.onGuildMemberAdd)
	b.session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}

	if _, err := b.session.ApplicationCommandBulkOverwrite(b.session.State.User.ID, "", commands); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	go b.welcome.Run(ctx)
	b.logger.Info("bot started", "user", b.session.State.User.Username)
	return nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) onGuildMemberAdd(_ *discordgo.Session, m *discordgo.GuildMemberAdd) {
	if b.welcomeMessage == "" || m.User == nil || m.User.Bot {
		return
	}
	b.welcome.Enqueue(m.User.ID, b.welcomeMessage)
}

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.onCommand(ctx, i)
	case discordgo.InteractionMessageComponent:
		b.onComponent(ctx, i)
	}
}

func (b *Bot) onCommand(ctx context.Context, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	switch data.Name {
	case "bet":
		b.handleBet(ctx, i, data)
	case "cancelbet":
		b.handleCancel(ctx, i)
	case "odds":
		b.handleOdds(ctx, i, data)
	case "leaderboard":
		b.handleLeaderboard(ctx, i, 0, false)
	case "stats":
		b.handleStats(ctx, i)
	case "balance":
		b.handleBalance(ctx, i)
	case "props":
		b.handleProps(ctx, i)
	case "daily":
		b.handleDaily(ctx, i)
	default:
		b.replyEphemeral(i, "Unknown command.")
	}
}

func (b *Bot) onComponent(ctx context.Context, i *discordgo.InteractionCreate) {
	data := i.MessageComponentData()
	switch {
	case data.CustomID == IDConfirmBet:
		b.handleConfirm(ctx, i)
	case data.CustomID == IDCancelBet:
		b.handleCancel(ctx, i)
	case data.CustomID == IDMatchSelect:
		if len(data.Values) == 1 {
			b.handleMatchSelect(ctx, i, data.Values[0])
		}
	default:
		// Nav IDs carry the target page, computed when the buttons were
		// built; the action only survives for validation.
		if _, page, ok := ParseNavID(data.CustomID); ok {
			b.handleLeaderboard(ctx, i, page, true)
			return
		}
		if propID, ok := ParsePropID(data.CustomID); ok {
			b.handleProp(ctx, i, propID)
			return
		}
		b.logger.Warn("unhandled component", "custom_id", data.CustomID)
	}
}

func (b *Bot) handleBet(ctx context.Context, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	var team string
	var amount float64
	for _, opt := range data.Options {
		switch opt.Name {
		case "team":
			team = opt.StringValue()
		case "amount":
			amount = opt.FloatValue()
		}
	}
	if team == "" || amount <= 0 {
		b.replyEphemeral(i, "Give me a team and a positive amount.")
		return
	}

	prompt, err := b.manager.Initialize(ctx, interactionUserID(i), i.GuildID, team, amount)
	if err != nil {
		b.replyEphemeral(i, khronos.UserMessage(err))
		return
	}

	footer := b.footer.Footer(ctx)
	if prompt.NeedsMatchSelect {
		b.replyComponents(i, matchSelectEmbed(prompt.Bet, footer), matchSelectMenu(prompt.Bet))
		return
	}
	b.replyComponents(i, betPromptEmbed(prompt.Bet, footer), confirmButtons())
}

func (b *Bot) handleMatchSelect(ctx context.Context, i *discordgo.InteractionCreate, matchID string) {
	pb, err := b.manager.SelectMatch(ctx, interactionUserID(i), matchID)
	if err != nil {
		if errors.Is(err, ErrNoPendingBet) {
			b.updateEphemeral(i, "That bet is no longer pending. Start a new one with /bet.")
			return
		}
		b.updateEphemeral(i, khronos.UserMessage(err))
		return
	}
	b.updateComponents(i, betPromptEmbed(pb, b.footer.Footer(ctx)), confirmButtons())
}

func (b *Bot) handleConfirm(ctx context.Context, i *discordgo.InteractionCreate) {
	receipt, err := b.manager.Confirm(ctx, interactionUserID(i))
	switch {
	case errors.Is(err, ErrNoPendingBet):
		b.updateEphemeral(i, "That bet is no longer pending. Start a new one with /bet.")
	case errors.Is(err, ErrMatchNotSelected):
		b.updateEphemeral(i, "Pick the matchup first.")
	case err != nil:
		b.updateEphemeral(i, khronos.UserMessage(err))
	default:
		b.updateComponents(i, betReceiptEmbed(receipt, b.footer.Footer(ctx)), nil)
	}
}

// handleCancel serves both the /cancelbet command and the Cancel button.
// Cancelling with nothing pending still reads as a cancellation.
func (b *Bot) handleCancel(ctx context.Context, i *discordgo.InteractionCreate) {
	if err := b.manager.Cancel(ctx, interactionUserID(i), i.GuildID); err != nil {
		b.logger.Error("cancel failed", "error", err)
	}
	msg := "Bet cancelled."
	if i.Type == discordgo.InteractionMessageComponent {
		b.updateEphemeral(i, msg)
		return
	}
	b.replyEphemeral(i, msg)
}

func (b *Bot) handleLeaderboard(ctx context.Context, i *discordgo.InteractionCreate, page int, update bool) {
	lb, err := b.leaderboard.Page(ctx, i.GuildID, page)
	if err != nil {
		b.replyEphemeral(i, khronos.UserMessage(err))
		return
	}
	if lb.TotalPages > 0 && page > lb.TotalPages-1 {
		// Asked past the end (e.g. "last" with a stale page count).
		lb, err = b.leaderboard.Page(ctx, i.GuildID, lb.TotalPages-1)
		if err != nil {
			b.replyEphemeral(i, khronos.UserMessage(err))
			return
		}
	}
	embed := leaderboardEmbed(lb, b.footer.Footer(ctx))
	buttons := navButtons(lb.Page, max(lb.TotalPages-1, 0))
	if update {
		b.updateComponents(i, embed, buttons)
		return
	}
	b.replyComponents(i, embed, buttons)
}

// handleStats fans out the profile and leaderboard fetches; either side
// failing alone should not sink the reply.
func (b *Bot) handleStats(ctx context.Context, i *discordgo.InteractionCreate) {
	userID := interactionUserID(i)

	profCh := make(chan retry.Result[*khronos.Profile], 1)
	lbCh := make(chan retry.Result[*khronos.LeaderboardPage], 1)
	go func() {
		p, err := b.accounts.Profile(ctx, userID, i.GuildID)
		profCh <- asResult(p, err)
	}()
	go func() {
		lb, err := b.leaderboard.Page(ctx, i.GuildID, 0)
		lbCh <- asResult(lb, err)
	}()

	profRes, lbRes := <-profCh, <-lbCh
	if !profRes.OK {
		b.replyEphemeral(i, khronos.UserMessage(profRes.Err))
		return
	}

	embed := statsEmbed(profRes.Value, b.footer.Footer(ctx))
	if lbRes.OK {
		for _, e := range lbRes.Value.Entries {
			if e.UserID == userID {
				embed.Description += fmt.Sprintf("\nServer rank: **#%d**", e.Rank)
				break
			}
		}
	}
	b.replyEmbed(i, embed)
}

func (b *Bot) handleOdds(ctx context.Context, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	var team string
	for _, opt := range data.Options {
		if opt.Name == "team" {
			team = opt.StringValue()
		}
	}
	if team == "" {
		b.replyEphemeral(i, "Give me a team to look up.")
		return
	}

	matches, err := b.matches.ForTeam(ctx, team)
	if err != nil {
		b.replyEphemeral(i, khronos.UserMessage(err))
		return
	}
	b.replyEmbed(i, oddsEmbed(team, matches, b.footer.Footer(ctx)))
}

func (b *Bot) handleBalance(ctx context.Context, i *discordgo.InteractionCreate) {
	profile, err := b.accounts.Profile(ctx, interactionUserID(i), i.GuildID)
	if err != nil {
		b.replyEphemeral(i, khronos.UserMessage(err))
		return
	}
	b.replyEphemeral(i, fmt.Sprintf("Your balance: **%.2f**", profile.Balance))
}

func (b *Bot) handleProps(ctx context.Context, i *discordgo.InteractionCreate) {
	props, err := b.props.Active(ctx, i.GuildID)
	if err != nil {
		b.replyEphemeral(i, khronos.UserMessage(err))
		return
	}
	b.replyComponents(i, propsEmbed(props, b.footer.Footer(ctx)), propButtons(props))
}

func (b *Bot) handleProp(ctx context.Context, i *discordgo.InteractionCreate, propID string) {
	err := b.props.Predict(ctx, khronos.PredictRequest{
		UserID:  interactionUserID(i),
		GuildID: i.GuildID,
		PropID:  propID,
		Choice:  "over",
	})
	if err != nil {
		b.updateEphemeral(i, khronos.UserMessage(err))
		return
	}
	b.updateEphemeral(i, "Prediction recorded.")
}

func (b *Bot) handleDaily(ctx context.Context, i *discordgo.InteractionCreate) {
	claim, err := b.accounts.ClaimDaily(ctx, interactionUserID(i), i.GuildID)
	if err != nil {
		b.replyEphemeral(i, khronos.UserMessage(err))
		return
	}
	b.replyEphemeral(i, fmt.Sprintf("Claimed **%.2f**! New balance: **%.2f**.", claim.Amount, claim.NewBalance))
}

func asResult[T any](v T, err error) retry.Result[T] {
	if err != nil {
		return retry.Err[T](retry.Classify(err, "bot.fanout"))
	}
	return retry.Ok(v)
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

// reply helpers. Response failures are logged, never propagated: by the
// time a respond call fails there is nobody left to tell.

func (b *Bot) respond(i *discordgo.InteractionCreate, resp *discordgo.InteractionResponse) {
	if err := b.session.InteractionRespond(i.Interaction, resp); err != nil {
		b.logger.Error("interaction respond failed", "error", err)
	}
}

func (b *Bot) replyEphemeral(i *discordgo.InteractionCreate, content string) {
	b.respond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content, Flags: discordgo.MessageFlagsEphemeral},
	})
}

func (b *Bot) replyEmbed(i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	b.respond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}},
	})
}

func (b *Bot) replyComponents(i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) {
	b.respond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	})
}

func (b *Bot) updateEphemeral(i *discordgo.InteractionCreate, content string) {
	b.respond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{Content: content, Embeds: []*discordgo.MessageEmbed{}, Components: []discordgo.MessageComponent{}},
	})
}

func (b *Bot) updateComponents(i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) {
	if components == nil {
		components = []discordgo.MessageComponent{}
	}
	b.respond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
}

// sessionDM adapts the discordgo session to the DMSender interface.
type sessionDM struct {
	session *discordgo.Session
}

func (s *sessionDM) SendDM(ctx context.Context, userID, message string) error {
	ch, err := s.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to open DM channel: %w", err)
	}
	if _, err := s.session.ChannelMessageSend(ch.ID, message, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to send DM: %w", err)
	}
	return nil
}
