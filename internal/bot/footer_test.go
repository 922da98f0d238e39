package bot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/plutobets/pluto/internal/khronos"
	"github.com/plutobets/pluto/internal/pkg/cache"
)

type fakeFooterAPI struct {
	cfg   *khronos.FooterConfig
	err   error
	calls int
}

func (f *fakeFooterAPI) Config(context.Context) (*khronos.FooterConfig, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.cfg, nil
}

func TestFooterProviderCachesConfig(t *testing.T) {
	api := &fakeFooterAPI{cfg: &khronos.FooterConfig{Text: "Pluto | bet responsibly"}}
	p := NewFooterProvider(api, cache.NewMemory(), time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	first := p.Footer(ctx)
	second := p.Footer(ctx)
	if first.Text != "Pluto | bet responsibly" || second.Text != first.Text {
		t.Errorf("footer = %q / %q", first.Text, second.Text)
	}
	if api.calls != 1 {
		t.Errorf("api calls = %d, want 1 (second read from cache)", api.calls)
	}
}

func TestFooterProviderDegradesToDefault(t *testing.T) {
	api := &fakeFooterAPI{err: errors.New("connection refused")}
	p := NewFooterProvider(api, cache.NewMemory(), time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))

	got := p.Footer(context.Background())
	if got != defaultFooter {
		t.Errorf("footer on failure = %+v, want default", got)
	}
}
