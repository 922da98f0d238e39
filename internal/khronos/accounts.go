package khronos

import (
	"context"
	"net/http"
	"net/url"

	"github.com/plutobets/pluto/internal/pkg/retry"
)

// AccountService wraps the betting-account endpoints.
type AccountService struct {
	c *Client
}

func NewAccountService(c *Client) *AccountService {
	return &AccountService{c: c}
}

func (s *AccountService) Profile(ctx context.Context, userID, guildID string) (*Profile, error) {
	q := url.Values{}
	q.Set("guild_id", guildID)
	path := "/accounts/" + url.PathEscape(userID)
	return retry.Do(ctx, s.c.ex, "accounts.Profile", func(ctx context.Context) (*Profile, error) {
		var out Profile
		if err := s.c.do(ctx, http.MethodGet, path, q, nil, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// ClaimDaily credits the user's daily allowance. The server enforces the
// cooldown and reports ClaimCooldown when it has not elapsed.
func (s *AccountService) ClaimDaily(ctx context.Context, userID, guildID string) (*ClaimResult, error) {
	body := map[string]string{"guild_id": guildID}
	path := "/accounts/" + url.PathEscape(userID) + "/claim"
	return retry.Do(ctx, s.c.ex, "accounts.ClaimDaily", func(ctx context.Context) (*ClaimResult, error) {
		var out ClaimResult
		if err := s.c.do(ctx, http.MethodPost, path, nil, body, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}
