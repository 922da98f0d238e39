package bot

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/plutobets/pluto/internal/khronos"
)

const (
	colorPending = 0xF1C40F
	colorSuccess = 0x2ECC71
	colorNeutral = 0x95A5A6
)

func embedFooter(cfg khronos.FooterConfig) *discordgo.MessageEmbedFooter {
	return &discordgo.MessageEmbedFooter{Text: cfg.Text, IconURL: cfg.IconURL}
}

// betPromptEmbed renders an initialized bet awaiting confirm/cancel.
func betPromptEmbed(pb *PendingBet, footer khronos.FooterConfig) *discordgo.MessageEmbed {
	desc := fmt.Sprintf("**%s** vs **%s**\nWager: **%.2f**\nPayout: **%.2f** (profit **%.2f**)",
		pb.Team, pb.Opponent, pb.Amount, pb.Payout, pb.Profit)
	if !pb.MatchDate.IsZero() {
		desc += "\nTip-off: " + pb.MatchDate.Format("Mon Jan 2, 3:04 PM MST")
	}
	return &discordgo.MessageEmbed{
		Title:       "Confirm your bet",
		Description: desc,
		Color:       colorPending,
		Footer:      embedFooter(footer),
	}
}

// matchSelectEmbed renders the disambiguation prompt.
func matchSelectEmbed(pb *PendingBet, footer khronos.FooterConfig) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Which game did you mean?",
		Description: fmt.Sprintf("**%s** has %d upcoming games. Pick one to continue.", pb.Team, len(pb.Matches)),
		Color:       colorPending,
		Footer:      embedFooter(footer),
	}
}

func betReceiptEmbed(r *khronos.BetReceipt, footer khronos.FooterConfig) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "Bet placed!",
		Description: fmt.Sprintf("**%.2f** on **%s**\nPotential payout: **%.2f** (profit **%.2f**)\nBalance: **%.2f**",
			r.Amount, r.Team, r.Payout, r.Profit, r.NewBalance),
		Color:  colorSuccess,
		Footer: embedFooter(footer),
	}
}

func leaderboardEmbed(page *khronos.LeaderboardPage, footer khronos.FooterConfig) *discordgo.MessageEmbed {
	var b strings.Builder
	for _, e := range page.Entries {
		fmt.Fprintf(&b, "**%d.** <@%s> — %.2f (%dW / %dL)\n", e.Rank, e.UserID, e.Balance, e.Won, e.Lost)
	}
	if b.Len() == 0 {
		b.WriteString("Nobody here yet. Place a bet to get on the board!")
	}
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Leaderboard — page %d/%d", page.Page+1, max(page.TotalPages, 1)),
		Description: b.String(),
		Color:       colorNeutral,
		Footer:      embedFooter(footer),
	}
}

// oddsEmbed lists a team's upcoming matchups with current odds.
func oddsEmbed(team string, matches []khronos.MatchOption, footer khronos.FooterConfig) *discordgo.MessageEmbed {
	var b strings.Builder
	for _, m := range matches {
		fmt.Fprintf(&b, "vs **%s** — %.2f (%s)\n", m.Opponent, m.Odds, m.StartTime.Format("Mon Jan 2, 3:04 PM MST"))
	}
	if b.Len() == 0 {
		b.WriteString("No upcoming games found for that team.")
	}
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Upcoming games: %s", team),
		Description: b.String(),
		Color:       colorNeutral,
		Footer:      embedFooter(footer),
	}
}

func statsEmbed(profile *khronos.Profile, footer khronos.FooterConfig) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "Your stats",
		Description: fmt.Sprintf("Balance: **%.2f**\nRecord: **%dW / %dL**\nPending bets: **%d**",
			profile.Balance, profile.Won, profile.Lost, profile.Pending),
		Color:  colorNeutral,
		Footer: embedFooter(footer),
	}
}

func propsEmbed(props []khronos.Prop, footer khronos.FooterConfig) *discordgo.MessageEmbed {
	var b strings.Builder
	for _, p := range props {
		fmt.Fprintf(&b, "**%s** — %s %.1f (O %.2f / U %.2f)\n", p.Description, p.Market, p.Point, p.OverOdds, p.UnderOdds)
	}
	if b.Len() == 0 {
		b.WriteString("No open props right now.")
	}
	return &discordgo.MessageEmbed{
		Title:       "Open props",
		Description: b.String(),
		Color:       colorNeutral,
		Footer:      embedFooter(footer),
	}
}

// propButtons builds one button per open prop. Discord caps a row at five
// buttons, so anything past the fifth prop stays list-only.
func propButtons(props []khronos.Prop) []discordgo.MessageComponent {
	if len(props) == 0 {
		return nil
	}
	n := min(len(props), 5)
	row := discordgo.ActionsRow{}
	for _, p := range props[:n] {
		label := p.Description
		if len(label) > 80 {
			label = label[:77] + "..."
		}
		row.Components = append(row.Components, discordgo.Button{
			Label:    label,
			Style:    discordgo.PrimaryButton,
			CustomID: PropID(p.ID),
		})
	}
	return []discordgo.MessageComponent{row}
}

// navButtons builds the pagination row for a leaderboard page. Each button
// carries its target page, resolved against the page count known at render
// time, so a press never asks the API for a page that doesn't exist.
func navButtons(page, lastPage int) []discordgo.MessageComponent {
	disabledPrev := page <= 0
	disabledNext := page >= lastPage
	id := func(a NavAction) string {
		return NavID(a, TargetPage(a, page, lastPage))
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Label: "«", Style: discordgo.SecondaryButton, CustomID: id(NavFirst), Disabled: disabledPrev},
			discordgo.Button{Label: "‹", Style: discordgo.SecondaryButton, CustomID: id(NavPrev), Disabled: disabledPrev},
			discordgo.Button{Label: "›", Style: discordgo.SecondaryButton, CustomID: id(NavNext), Disabled: disabledNext},
			discordgo.Button{Label: "»", Style: discordgo.SecondaryButton, CustomID: id(NavLast), Disabled: disabledNext},
		}},
	}
}

// confirmButtons builds the confirm/cancel row for a bet prompt.
func confirmButtons() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Label: "Confirm", Style: discordgo.SuccessButton, CustomID: IDConfirmBet},
			discordgo.Button{Label: "Cancel", Style: discordgo.DangerButton, CustomID: IDCancelBet},
		}},
	}
}

// matchSelectMenu builds the disambiguation select for an ambiguous bet.
func matchSelectMenu(pb *PendingBet) []discordgo.MessageComponent {
	opts := make([]discordgo.SelectMenuOption, 0, len(pb.Matches))
	for _, m := range pb.Matches {
		opts = append(opts, discordgo.SelectMenuOption{
			Label:       fmt.Sprintf("vs %s", m.Opponent),
			Description: m.StartTime.Format("Mon Jan 2, 3:04 PM MST"),
			Value:       m.MatchID,
		})
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{CustomID: IDMatchSelect, Placeholder: "Pick the matchup", Options: opts},
		}},
	}
}
