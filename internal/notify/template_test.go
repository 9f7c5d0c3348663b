package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abekenov/product-advisor/internal/model"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   string
	}{
		{name: "zero", amount: 0, want: "0 ₸"},
		{name: "under a thousand", amount: 999, want: "999 ₸"},
		{name: "thousands", amount: 12_345, want: "12 345 ₸"},
		{name: "millions", amount: 1_234_567, want: "1 234 567 ₸"},
		{name: "rounds half up", amount: 2_499.5, want: "2 500 ₸"},
		{name: "rounds down", amount: 2_499.4, want: "2 499 ₸"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(tt.amount))
		})
	}
}

func TestTemplateGeneratePush(t *testing.T) {
	client := newTemplateClient()

	text, err := client.GeneratePush(context.Background(), PushRequest{
		ClientID:   1,
		ClientName: "Айгерим",
		Product:    model.ProductTravelCard,
		Benefit:    27_400,
	})

	require.NoError(t, err)
	assert.Contains(t, text, "Айгерим, здравствуйте!")
	assert.Contains(t, text, "Карта для путешествий")
	assert.Contains(t, text, "27 400 ₸")
	assert.Contains(t, text, "Оформите в приложении")
}

func TestTemplateGeneratePushWithoutName(t *testing.T) {
	client := newTemplateClient()

	text, err := client.GeneratePush(context.Background(), PushRequest{
		Product: model.ProductGoldBars,
		Benefit: 10_000,
	})

	require.NoError(t, err)
	assert.Contains(t, text, "Здравствуйте!")
	assert.Contains(t, text, "Золотые слитки")
}

func TestTemplateIsDeterministic(t *testing.T) {
	client := newTemplateClient()
	req := PushRequest{ClientName: "Дана", Product: model.ProductInvestments, Benefit: 55_000}

	first, err := client.GeneratePush(context.Background(), req)
	require.NoError(t, err)
	second, err := client.GeneratePush(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
