package bot

import (
	"context"
	"log/slog"
	"time"

	"github.com/plutobets/pluto/internal/khronos"
	"github.com/plutobets/pluto/internal/pkg/cache"
)

const footerCacheKey = "config:footer"

// defaultFooter is used when the footer config cannot be fetched; an embed
// without branding beats a failed reply.
var defaultFooter = khronos.FooterConfig{Text: "Pluto"}

type footerAPI interface {
	Config(ctx context.Context) (*khronos.FooterConfig, error)
}

// FooterProvider is a read-through cache over the footer config so embed
// renders don't hit the API every time.
type FooterProvider struct {
	api    footerAPI
	cache  cache.Service
	ttl    time.Duration
	logger *slog.Logger
}

func NewFooterProvider(api footerAPI, c cache.Service, ttl time.Duration, logger *slog.Logger) *FooterProvider {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FooterProvider{api: api, cache: c, ttl: ttl, logger: logger}
}

// Footer returns the current footer config, fetching and caching on a miss.
// Failures degrade to the default footer rather than failing the render.
func (p *FooterProvider) Footer(ctx context.Context) khronos.FooterConfig {
	var cfg khronos.FooterConfig
	ok, err := p.cache.GetJSON(ctx, footerCacheKey, &cfg)
	if err != nil {
		p.logger.Warn("footer cache read failed", "error", err)
	}
	if ok {
		return cfg
	}

	fetched, err := p.api.Config(ctx)
	if err != nil {
		p.logger.Warn("footer config fetch failed", "error", err)
		return defaultFooter
	}
	if err := p.cache.SetJSON(ctx, footerCacheKey, fetched, p.ttl); err != nil {
		p.logger.Warn("footer cache write failed", "error", err)
	}
	return *fetched
}
