package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abekenov/product-advisor/internal/common"
	"github.com/abekenov/product-advisor/internal/model"
)

type stubClient struct {
	text  string
	err   error
	calls int
}

func (s *stubClient) GeneratePush(_ context.Context, _ PushRequest) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

func TestPusherUsesProviderText(t *testing.T) {
	stub := &stubClient{text: "provider text"}
	pusher := NewPusher(stub, map[int64]string{1: "Айгерим"})

	text, err := pusher.PushText(context.Background(), &model.Recommendation{
		ClientID: 1,
		Product:  model.ProductTravelCard,
		Benefit:  10_000,
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, "provider text", text)
	assert.Equal(t, 1, stub.calls)
}

func TestPusherFallsBackToTemplate(t *testing.T) {
	stub := &stubClient{err: &common.RetryableError{
		Err:       errors.New("provider unavailable"),
		Retryable: false,
	}}
	pusher := NewPusher(stub, map[int64]string{7: "Дана"})

	text, err := pusher.PushText(context.Background(), &model.Recommendation{
		ClientID: 7,
		Product:  model.ProductSavingsDeposit,
		Benefit:  82_500,
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, stub.calls)
	assert.Contains(t, text, "Дана, здравствуйте!")
	assert.Contains(t, text, "Депозит сберегательный")
}

func TestNewClientProviders(t *testing.T) {
	c, err := NewClient(Config{Provider: "template"})
	require.NoError(t, err)
	assert.IsType(t, templateClient{}, c)

	c, err = NewClient(Config{})
	require.NoError(t, err)
	assert.IsType(t, templateClient{}, c)

	_, err = NewClient(Config{Provider: "carrier-pigeon"})
	assert.Error(t, err)
}
