package khronos

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/plutobets/pluto/internal/pkg/retry"
)

// LeaderboardService wraps the guild leaderboard endpoints.
type LeaderboardService struct {
	c *Client
}

func NewLeaderboardService(c *Client) *LeaderboardService {
	return &LeaderboardService{c: c}
}

// Page fetches one leaderboard page for a guild (pages are 0-indexed).
func (s *LeaderboardService) Page(ctx context.Context, guildID string, page int) (*LeaderboardPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	path := "/guilds/" + url.PathEscape(guildID) + "/leaderboard"
	return retry.Do(ctx, s.c.ex, "leaderboard.Page", func(ctx context.Context) (*LeaderboardPage, error) {
		var out LeaderboardPage
		if err := s.c.do(ctx, http.MethodGet, path, q, nil, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}
