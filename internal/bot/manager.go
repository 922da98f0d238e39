package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/plutobets/pluto/internal/khronos"
	"github.com/plutobets/pluto/internal/pkg/cache"
)

// betAPI and oddsAPI are the slices of the Khronos client the manager needs.
type betAPI interface {
	Initialize(ctx context.Context, req khronos.InitRequest) (*khronos.Betslip, error)
	Place(ctx context.Context, req khronos.PlaceRequest) (*khronos.BetReceipt, error)
	CancelPending(ctx context.Context, userID, guildID string) error
}

type oddsAPI interface {
	Odds(ctx context.Context, matchID, team string) (*khronos.MatchOdds, error)
}

// BetslipManager coordinates the multi-step bet flow against the cache and
// the API. One pending entry per user; a new bet replaces any prior one.
type BetslipManager struct {
	bets   betAPI
	odds   oddsAPI
	cache  cache.Service
	ttl    time.Duration
	logger *slog.Logger
}

func NewBetslipManager(bets betAPI, odds oddsAPI, c cache.Service, ttl time.Duration, logger *slog.Logger) *BetslipManager {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BetslipManager{bets: bets, odds: odds, cache: c, ttl: ttl, logger: logger}
}

// BetPrompt describes what to show after initialization: either a
// confirm/cancel prompt, or a match-select when the team name matched
// several live games.
type BetPrompt struct {
	Bet              *PendingBet
	NeedsMatchSelect bool
}

// Initialize opens a betslip with the API and caches it as the user's
// pending bet, replacing any earlier entry.
func (m *BetslipManager) Initialize(ctx context.Context, userID, guildID, team string, amount float64) (*BetPrompt, error) {
	slip, err := m.bets.Initialize(ctx, khronos.InitRequest{
		UserID:  userID,
		GuildID: guildID,
		Team:    team,
		Amount:  amount,
	})
	if err != nil {
		return nil, err
	}

	pb := fromBetslip(slip)
	if err := m.cache.SetJSON(ctx, pendingKey(userID), pb, m.ttl); err != nil {
		return nil, fmt.Errorf("failed to cache pending bet: %w", err)
	}
	return &BetPrompt{Bet: pb, NeedsMatchSelect: pb.Ambiguous()}, nil
}

// SelectMatch resolves an ambiguous betslip to one matchup: it re-fetches
// odds for the chosen match, recomputes payout and profit, and overwrites
// the cached entry with the enriched data.
func (m *BetslipManager) SelectMatch(ctx context.Context, userID, matchID string) (*PendingBet, error) {
	pb, err := m.pending(ctx, userID)
	if err != nil {
		return nil, err
	}

	found := false
	for _, opt := range pb.Matches {
		if opt.MatchID == matchID {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("match %s is not among the pending bet's candidates: %w", matchID, ErrNoPendingBet)
	}

	odds, err := m.odds.Odds(ctx, matchID, pb.Team)
	if err != nil {
		return nil, err
	}

	pb.EventID = odds.EventID
	pb.Opponent = odds.Opponent
	pb.Odds = odds.Odds
	pb.MatchDate = odds.StartTime
	pb.Payout = roundCents(pb.Amount * odds.Odds)
	pb.Profit = roundCents(pb.Payout - pb.Amount)
	pb.Matches = nil

	if err := m.cache.SetJSON(ctx, pendingKey(userID), pb, m.ttl); err != nil {
		return nil, fmt.Errorf("failed to cache enriched bet: %w", err)
	}
	return pb, nil
}

// Confirm finalizes the user's pending bet. On success the cache entry is
// cleared; on a terminal API failure it is also cleared so the user can
// start over instead of being stuck behind a stale entry.
func (m *BetslipManager) Confirm(ctx context.Context, userID string) (*khronos.BetReceipt, error) {
	pb, err := m.pending(ctx, userID)
	if err != nil {
		return nil, err
	}
	if pb.Ambiguous() {
		return nil, ErrMatchNotSelected
	}

	receipt, err := m.bets.Place(ctx, khronos.PlaceRequest{
		UserID:  pb.UserID,
		GuildID: pb.GuildID,
		BetID:   pb.BetID,
		EventID: pb.EventID,
		Team:    pb.Team,
		Amount:  pb.Amount,
	})
	if err != nil {
		if rmErr := m.cache.Remove(ctx, pendingKey(userID)); rmErr != nil {
			m.logger.Warn("failed to clear pending bet after place failure", "user_id", userID, "error", rmErr)
		}
		return nil, err
	}

	if err := m.cache.Remove(ctx, pendingKey(userID)); err != nil {
		// The bet is placed; a lingering entry only expires later.
		m.logger.Warn("failed to clear pending bet after success", "user_id", userID, "error", err)
	}
	return receipt, nil
}

// Cancel abandons the user's pending bet. It tells the API to clear its
// pending state (best effort, a second clear is a server-side no-op) and
// drops the cache entry unconditionally. Cancelling with nothing pending
// still succeeds.
func (m *BetslipManager) Cancel(ctx context.Context, userID, guildID string) error {
	if err := m.bets.CancelPending(ctx, userID, guildID); err != nil {
		m.logger.Warn("failed to clear server-side pending betslip", "user_id", userID, "error", err)
	}
	if err := m.cache.Remove(ctx, pendingKey(userID)); err != nil {
		return fmt.Errorf("failed to clear pending bet: %w", err)
	}
	return nil
}

// pending reads the user's cache entry. A miss, whether never started or
// expired, is ErrNoPendingBet.
func (m *BetslipManager) pending(ctx context.Context, userID string) (*PendingBet, error) {
	var pb PendingBet
	ok, err := m.cache.GetJSON(ctx, pendingKey(userID), &pb)
	if err != nil {
		return nil, fmt.Errorf("failed to read pending bet: %w", err)
	}
	if !ok {
		return nil, ErrNoPendingBet
	}
	return &pb, nil
}
