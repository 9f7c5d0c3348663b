package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/abekenov/product-advisor/internal/common"
)

// geminiClient implements the Client interface for the Gemini API.
type geminiClient struct {
	httpClient *http.Client
	apiKey     string
	apiURL     string
	model      string
}

const defaultGeminiURL = "https://generativelanguage.googleapis.com/v1beta"

// newGeminiClient creates a new Gemini API client.
func newGeminiClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	apiURL := strings.TrimSuffix(cfg.APIURL, "/")
	if apiURL == "" {
		apiURL = defaultGeminiURL
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-1.5-flash"
	}

	return &geminiClient{
		apiKey: cfg.APIKey,
		apiURL: apiURL,
		model:  model,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

// GeneratePush asks Gemini for a personalized push message.
func (c *geminiClient) GeneratePush(ctx context.Context, req PushRequest) (string, error) {
	prompt := buildPrompt(req)

	requestBody := map[string]any{
		"contents": []map[string]any{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.apiURL, c.model, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", &common.RetryableError{Err: fmt.Errorf("gemini request failed: %w", err), Retryable: true}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return "", &common.RetryableError{
			Err:       fmt.Errorf("%w: gemini returned status %d", common.ErrNotifyUnavailable, resp.StatusCode),
			Retryable: true,
		}
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse gemini response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	text := strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", fmt.Errorf("gemini returned empty text")
	}
	return text, nil
}

func buildPrompt(req PushRequest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Клиенту с ID %d рекомендуется банковский продукт «%s» с ожидаемой выгодой %s за 3 месяца. ",
		req.ClientID, req.Product.DisplayName(), FormatAmount(req.Benefit))
	if len(req.TopCategories) > 0 {
		fmt.Fprintf(&sb, "Топ категории трат клиента: %s. ", strings.Join(req.TopCategories, ", "))
	}
	if req.TotalSpend > 0 {
		fmt.Fprintf(&sb, "Общая сумма трат за 3 месяца: %s. ", FormatAmount(req.TotalSpend))
	}
	sb.WriteString("Сгенерируй короткий персонализированный текст пуш-уведомления на русском языке, " +
		"объясняющий выгоду продукта. Ответь только текстом уведомления, без пояснений.")
	return sb.String()
}
