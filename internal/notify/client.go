// Package notify generates client-facing push-notification text for a chosen
// recommendation. The decision engine treats providers as black boxes: they
// take the client, the winning product, and the benefit estimate, and return
// an opaque message string.
package notify

import (
	"context"

	"github.com/abekenov/product-advisor/internal/model"
)

// Client defines the interface for notification-text providers.
type Client interface {
	GeneratePush(ctx context.Context, req PushRequest) (string, error)
}

// PushRequest carries everything a provider may use to personalize the text.
type PushRequest struct {
	ClientID      int64
	ClientName    string
	Product       model.Product
	Benefit       float64
	TopCategories []string
	TotalSpend    float64
}

// Config holds provider configuration.
type Config struct {
	Provider string
	APIKey   string
	APIURL   string
	Model    string
}
