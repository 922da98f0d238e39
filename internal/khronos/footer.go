package khronos

import (
	"context"
	"net/http"

	"github.com/plutobets/pluto/internal/pkg/retry"
)

// FooterService fetches the embed footer configuration.
type FooterService struct {
	c *Client
}

func NewFooterService(c *Client) *FooterService {
	return &FooterService{c: c}
}

func (s *FooterService) Config(ctx context.Context) (*FooterConfig, error) {
	return retry.Do(ctx, s.c.ex, "footer.Config", func(ctx context.Context) (*FooterConfig, error) {
		var out FooterConfig
		if err := s.c.do(ctx, http.MethodGet, "/config/footer", nil, nil, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}
