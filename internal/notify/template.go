package notify

import (
	"context"
	"fmt"
	"strings"
)

// templateClient renders push text from a fixed template. It is the default
// provider and the fallback when a remote provider fails: deterministic, no
// network, never errors.
type templateClient struct{}

func newTemplateClient() Client {
	return templateClient{}
}

// GeneratePush renders the push message for one recommendation.
func (templateClient) GeneratePush(_ context.Context, req PushRequest) (string, error) {
	name := strings.TrimSpace(req.ClientName)
	greeting := "Здравствуйте!"
	if name != "" {
		greeting = fmt.Sprintf("%s, здравствуйте!", name)
	}

	return fmt.Sprintf("%s Вам может подойти продукт «%s»: ожидаемая выгода около %s за 3 месяца. Оформите в приложении.",
		greeting, req.Product.DisplayName(), FormatAmount(req.Benefit)), nil
}

// FormatAmount renders a KZT amount with thin-space thousand separators, the
// way the bank's push templates do.
func FormatAmount(amount float64) string {
	whole := int64(amount + 0.5)
	s := fmt.Sprintf("%d", whole)

	var b strings.Builder
	for i, digit := range s {
		if i > 0 && (len(s)-i)%3 == 0 && digit != '-' {
			b.WriteRune(' ')
		}
		b.WriteRune(digit)
	}
	b.WriteString(" ₸")
	return b.String()
}
