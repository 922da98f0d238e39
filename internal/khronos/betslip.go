package khronos

import (
	"context"
	"net/http"
	"net/url"

	"github.com/plutobets/pluto/internal/pkg/retry"
)

// BetslipService wraps the betslip endpoints. Each method is one remote
// operation through the retry executor; no betting math lives here.
type BetslipService struct {
	c *Client
}

func NewBetslipService(c *Client) *BetslipService {
	return &BetslipService{c: c}
}

// InitRequest starts a betslip for a team/amount pair.
type InitRequest struct {
	UserID  string  `json:"user_id"`
	GuildID string  `json:"guild_id"`
	Team    string  `json:"team"`
	Amount  float64 `json:"amount"`
}

// Initialize asks the API to open a betslip. When the team name resolves to
// several live matchups, the returned slip carries the candidates and no
// payout yet.
func (s *BetslipService) Initialize(ctx context.Context, req InitRequest) (*Betslip, error) {
	return retry.Do(ctx, s.c.ex, "betslip.Initialize", func(ctx context.Context) (*Betslip, error) {
		var out Betslip
		if err := s.c.do(ctx, http.MethodPost, "/betslips", nil, req, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// PlaceRequest finalizes a previously initialized betslip.
type PlaceRequest struct {
	UserID  string  `json:"user_id"`
	GuildID string  `json:"guild_id"`
	BetID   string  `json:"bet_id"`
	EventID string  `json:"event_id"`
	Team    string  `json:"team"`
	Amount  float64 `json:"amount"`
}

// Place finalizes the bet. The server debits the balance; this call must be
// treated as non-idempotent by callers.
func (s *BetslipService) Place(ctx context.Context, req PlaceRequest) (*BetReceipt, error) {
	return retry.Do(ctx, s.c.ex, "betslip.Place", func(ctx context.Context) (*BetReceipt, error) {
		var out BetReceipt
		if err := s.c.do(ctx, http.MethodPost, "/betslips/place", nil, req, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// CancelPending clears the server-side pending betslip for a user. Clearing
// an already-clear state is a no-op server-side, so callers may invoke this
// unconditionally.
func (s *BetslipService) CancelPending(ctx context.Context, userID, guildID string) error {
	q := url.Values{}
	q.Set("guild_id", guildID)
	return retry.DoErr(ctx, s.c.ex, "betslip.CancelPending", func(ctx context.Context) error {
		return s.c.do(ctx, http.MethodDelete, "/betslips/pending/"+url.PathEscape(userID), q, nil, nil)
	})
}
