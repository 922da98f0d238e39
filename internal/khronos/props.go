package khronos

import (
	"context"
	"net/http"
	"net/url"

	"github.com/plutobets/pluto/internal/pkg/retry"
)

// PropsService wraps the processed/paired props endpoints. The raw
// upstream-odds endpoints are not consumed here; the API owns pairing.
type PropsService struct {
	c *Client
}

func NewPropsService(c *Client) *PropsService {
	return &PropsService{c: c}
}

// Active lists the currently open props for a guild.
func (s *PropsService) Active(ctx context.Context, guildID string) ([]Prop, error) {
	q := url.Values{}
	q.Set("guild_id", guildID)
	return retry.Do(ctx, s.c.ex, "props.Active", func(ctx context.Context) ([]Prop, error) {
		var out []Prop
		if err := s.c.do(ctx, http.MethodGet, "/props/processed", q, nil, &out); err != nil {
			return nil, err
		}
		return out, nil
	})
}

// PredictRequest records a user's over/under pick on a prop.
type PredictRequest struct {
	UserID  string `json:"user_id"`
	GuildID string `json:"guild_id"`
	PropID  string `json:"prop_id"`
	Choice  string `json:"choice"` // "over" or "under"
}

func (s *PropsService) Predict(ctx context.Context, req PredictRequest) error {
	return retry.DoErr(ctx, s.c.ex, "props.Predict", func(ctx context.Context) error {
		return s.c.do(ctx, http.MethodPost, "/props/predictions", nil, req, nil)
	})
}
