package khronos

import (
	"context"
	"net/http"
	"net/url"

	"github.com/plutobets/pluto/internal/pkg/retry"
)

// MatchService wraps the matchup/odds endpoints.
type MatchService struct {
	c *Client
}

func NewMatchService(c *Client) *MatchService {
	return &MatchService{c: c}
}

// ForTeam lists upcoming matchups for a team.
func (s *MatchService) ForTeam(ctx context.Context, team string) ([]MatchOption, error) {
	q := url.Values{}
	q.Set("team", team)
	return retry.Do(ctx, s.c.ex, "matches.ForTeam", func(ctx context.Context) ([]MatchOption, error) {
		var out []MatchOption
		if err := s.c.do(ctx, http.MethodGet, "/matches", q, nil, &out); err != nil {
			return nil, err
		}
		return out, nil
	})
}

// Odds fetches current odds for one specific matchup from the perspective
// of the given team.
func (s *MatchService) Odds(ctx context.Context, matchID, team string) (*MatchOdds, error) {
	q := url.Values{}
	q.Set("team", team)
	return retry.Do(ctx, s.c.ex, "matches.Odds", func(ctx context.Context) (*MatchOdds, error) {
		var out MatchOdds
		if err := s.c.do(ctx, http.MethodGet, "/matches/"+url.PathEscape(matchID)+"/odds", q, nil, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}
