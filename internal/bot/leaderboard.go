package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/plutobets/pluto/internal/khronos"
	"github.com/plutobets/pluto/internal/pkg/cache"
)

type leaderboardAPI interface {
	Page(ctx context.Context, guildID string, page int) (*khronos.LeaderboardPage, error)
}

// LeaderboardProvider is a read-through cache over leaderboard pages so nav
// button presses don't hit the API for data that just rendered. Entries are
// keyed per guild and page with a short TTL; standings going briefly stale
// is fine, a page render failing is not.
type LeaderboardProvider struct {
	api    leaderboardAPI
	cache  cache.Service
	ttl    time.Duration
	logger *slog.Logger
}

func NewLeaderboardProvider(api leaderboardAPI, c cache.Service, ttl time.Duration, logger *slog.Logger) *LeaderboardProvider {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LeaderboardProvider{api: api, cache: c, ttl: ttl, logger: logger}
}

func leaderboardKey(guildID string, page int) string {
	return fmt.Sprintf("leaderboard:%s:%d", guildID, page)
}

// Page returns one leaderboard page, fetching and caching on a miss.
func (p *LeaderboardProvider) Page(ctx context.Context, guildID string, page int) (*khronos.LeaderboardPage, error) {
	key := leaderboardKey(guildID, page)

	var lb khronos.LeaderboardPage
	ok, err := p.cache.GetJSON(ctx, key, &lb)
	if err != nil {
		p.logger.Warn("leaderboard cache read failed", "guild_id", guildID, "error", err)
	}
	if ok {
		return &lb, nil
	}

	fetched, err := p.api.Page(ctx, guildID, page)
	if err != nil {
		return nil, err
	}
	if err := p.cache.SetJSON(ctx, key, fetched, p.ttl); err != nil {
		p.logger.Warn("leaderboard cache write failed", "guild_id", guildID, "error", err)
	}
	return fetched, nil
}
