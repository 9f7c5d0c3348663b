package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/abekenov/product-advisor/internal/common"
	"github.com/abekenov/product-advisor/internal/model"
	"github.com/abekenov/product-advisor/internal/service"
)

// Pusher adapts a provider Client to the service.Notifier contract, adding
// retries and a deterministic fallback. A recommendation is never failed
// because its push text could not be generated remotely.
type Pusher struct {
	client   Client
	fallback Client
	names    map[int64]string
}

// NewPusher wraps a provider client. Client names personalize the greeting
// when the profile table carries them; a nil map is fine.
func NewPusher(client Client, names map[int64]string) *Pusher {
	return &Pusher{
		client:   client,
		fallback: Fallback(),
		names:    names,
	}
}

// PushText generates the push message for a finished recommendation.
func (p *Pusher) PushText(ctx context.Context, rec *model.Recommendation, features *model.FeatureRecord) (string, error) {
	req := PushRequest{
		ClientID:   rec.ClientID,
		ClientName: p.names[rec.ClientID],
		Product:    rec.Product,
		Benefit:    rec.Benefit,
	}
	if features != nil {
		req.TopCategories = features.TopCategories
		req.TotalSpend = features.TotalSpend
	}

	var text string
	err := common.WithRetry(ctx, func() error {
		var genErr error
		text, genErr = p.client.GeneratePush(ctx, req)
		return genErr
	}, service.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
	})
	if err == nil {
		return text, nil
	}

	slog.Warn("Notification provider failed, using template fallback",
		"client_id", rec.ClientID, "error", err)
	return p.fallback.GeneratePush(ctx, req)
}

var _ service.Notifier = (*Pusher)(nil)
