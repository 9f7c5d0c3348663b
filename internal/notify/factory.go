package notify

import (
	"fmt"
	"strings"
)

// NewClient creates a notification provider based on the configuration.
func NewClient(cfg Config) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "template":
		return newTemplateClient(), nil
	case "gemini":
		return newGeminiClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported notification provider: %s", cfg.Provider)
	}
}

// Fallback returns the provider used when the configured one fails.
func Fallback() Client {
	return newTemplateClient()
}
