package bot

import (
	"errors"
	"math"
	"time"

	"github.com/plutobets/pluto/internal/khronos"
)

// ErrNoPendingBet is returned when a confirm/select arrives for a user with
// no cached entry, either because the flow was never started or the TTL elapsed.
// Both cases read the same to the user.
var ErrNoPendingBet = errors.New("no pending bet for user")

// ErrMatchNotSelected is returned when a user confirms while the matchup is
// still ambiguous.
var ErrMatchNotSelected = errors.New("matchup not selected yet")

// PendingBet is the cache entry for a bet awaiting confirmation. Its
// presence under pending:<userID> is the sole source of truth for "this
// user is mid-flow"; the server-side betslip stays authoritative for money.
type PendingBet struct {
	BetID     string                `json:"bet_id"`
	UserID    string                `json:"user_id"`
	GuildID   string                `json:"guild_id"`
	Team      string                `json:"team"`
	Opponent  string                `json:"opponent"`
	Amount    float64               `json:"amount"`
	Odds      float64               `json:"odds"`
	Payout    float64               `json:"payout"`
	Profit    float64               `json:"profit"`
	EventID   string                `json:"event_id"`
	MatchDate time.Time             `json:"dateofmatchup"`
	Matches   []khronos.MatchOption `json:"matches,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
}

// Ambiguous reports whether the user still has to pick a matchup.
func (p *PendingBet) Ambiguous() bool {
	return len(p.Matches) > 1
}

func pendingKey(userID string) string {
	return "pending:" + userID
}

func fromBetslip(slip *khronos.Betslip) *PendingBet {
	return &PendingBet{
		BetID:     slip.BetID,
		UserID:    slip.UserID,
		GuildID:   slip.GuildID,
		Team:      slip.Team,
		Opponent:  slip.Opponent,
		Amount:    slip.Amount,
		Odds:      slip.Odds,
		Payout:    slip.Payout,
		Profit:    slip.Profit,
		EventID:   slip.EventID,
		MatchDate: slip.MatchDate,
		Matches:   slip.Matches,
		CreatedAt: time.Now().UTC(),
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
