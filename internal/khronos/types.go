package khronos

import "time"

// ServerException is the JSON error body the API returns on business-rule
// failures: {"exception": "...", "message": "...", "details": {...}}.
type ServerException struct {
	Exception string         `json:"exception"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
}

func (e *ServerException) Error() string {
	return e.Message
}

// MatchOption is one candidate matchup when a team name resolves to more
// than one live game.
type MatchOption struct {
	MatchID   string    `json:"match_id"`
	EventID   string    `json:"event_id"`
	Opponent  string    `json:"opponent"`
	StartTime time.Time `json:"start_time"`
	Odds      float64   `json:"odds"` // decimal odds for the selected team
}

// Betslip is the server's view of an initialized, not-yet-placed bet.
type Betslip struct {
	BetID     string        `json:"bet_id"`
	UserID    string        `json:"user_id"`
	GuildID   string        `json:"guild_id"`
	Team      string        `json:"team"`
	Opponent  string        `json:"opponent"`
	Amount    float64       `json:"amount"`
	Odds      float64       `json:"odds"`
	Payout    float64       `json:"payout"`
	Profit    float64       `json:"profit"`
	EventID   string        `json:"event_id"`
	MatchDate time.Time     `json:"dateofmatchup"`
	Matches   []MatchOption `json:"matches,omitempty"` // >1 when disambiguation is needed
}

// Ambiguous reports whether the user still has to pick a specific matchup.
func (b *Betslip) Ambiguous() bool {
	return len(b.Matches) > 1
}

// BetReceipt is returned once a bet is finalized.
type BetReceipt struct {
	BetID      string  `json:"bet_id"`
	Team       string  `json:"team"`
	Amount     float64 `json:"amount"`
	Payout     float64 `json:"payout"`
	Profit     float64 `json:"profit"`
	NewBalance float64 `json:"new_balance"`
}

// MatchOdds carries re-fetched odds for one specific matchup.
type MatchOdds struct {
	MatchID   string    `json:"match_id"`
	EventID   string    `json:"event_id"`
	Team      string    `json:"team"`
	Opponent  string    `json:"opponent"`
	Odds      float64   `json:"odds"`
	StartTime time.Time `json:"start_time"`
}

// FooterConfig is the embed footer text/icon configured server-side.
type FooterConfig struct {
	Text    string `json:"text"`
	IconURL string `json:"icon_url"`
}

// LeaderboardEntry is one row of a guild leaderboard page.
type LeaderboardEntry struct {
	Rank    int     `json:"rank"`
	UserID  string  `json:"user_id"`
	Balance float64 `json:"balance"`
	Won     int     `json:"won"`
	Lost    int     `json:"lost"`
}

// LeaderboardPage is one page of leaderboard rows.
type LeaderboardPage struct {
	Entries    []LeaderboardEntry `json:"entries"`
	Page       int                `json:"page"`
	TotalPages int                `json:"total_pages"`
}

// Prop is a processed/paired player prop available for predictions.
type Prop struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	Market      string    `json:"market"`
	Description string    `json:"description"`
	Point       float64   `json:"point"`
	OverOdds    float64   `json:"over_odds"`
	UnderOdds   float64   `json:"under_odds"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Profile is a user's betting account.
type Profile struct {
	UserID  string  `json:"user_id"`
	GuildID string  `json:"guild_id"`
	Balance float64 `json:"balance"`
	Won     int     `json:"won"`
	Lost    int     `json:"lost"`
	Pending int     `json:"pending"`
}

// ClaimResult is returned by the daily-claim endpoint.
type ClaimResult struct {
	Amount     float64 `json:"amount"`
	NewBalance float64 `json:"new_balance"`
}
