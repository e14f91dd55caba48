package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Caller is an abstraction over LLM providers. Stages depend on this
// interface so tests can stub model replies without any network access.
type Caller interface {
	// GenerateJSON generates JSON-leaning content using the specified model tier
	GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// GetModel returns the underlying provider model for a tier
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// NewCaller creates a new LLM caller based on configuration
func NewCaller(ctx context.Context, config *Config, apiKey string) (Caller, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	default:
		return NewGeminiClient(ctx, config, apiKey)
	}
}

// GeminiClient implements Caller for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
	sleep  func(time.Duration) // test seam for backoff delays
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
		sleep:  time.Sleep,
	}, nil
}

// GenerateJSON generates JSON content using the specified model tier.
// Transient failures (network errors, 429/5xx, empty candidate lists) are
// retried up to the configured budget with linear backoff.
func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(c.config.Temperature)
	model.SetTopP(c.config.TopP)
	model.SetTopK(c.config.TopK)
	model.SetMaxOutputTokens(c.config.MaxOutputTokens)
	model.ResponseMIMEType = "application/json"
	model.SafetySettings = safetySettings()

	return callWithRetry(ctx, c.config, c.sleep, func() (string, error) {
		resp, err := model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return "", wrapProviderError(err)
		}
		return extractTextFromResponse(resp)
	})
}

// GetModel returns the model name for a tier
func (c *GeminiClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// safetySettings returns the fixed content-safety thresholds applied to every
// call: harassment, hate speech, sexual content, and dangerous content each
// blocked at medium and above.
func safetySettings() []*genai.SafetySetting {
	return []*genai.SafetySetting{
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockMediumAndAbove},
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockMediumAndAbove},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockMediumAndAbove},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockMediumAndAbove},
	}
}

// callWithRetry runs attempt up to cfg.MaxAttempts times. The delay before
// retry N is N x cfg.BaseDelay (linear, not exponential). A success returns
// immediately; spending the whole budget returns ExhaustedRetriesError.
func callWithRetry(ctx context.Context, cfg *Config, sleep func(time.Duration), attempt func() (string, error)) (string, error) {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for n := 1; n <= maxAttempts; n++ {
		text, err := attempt()
		if err == nil {
			return text, nil
		}
		lastErr = err

		if n < maxAttempts {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			default:
			}
			sleep(time.Duration(n) * cfg.BaseDelay)
		}
	}

	return "", &ExhaustedRetriesError{Attempts: maxAttempts, LastErr: lastErr}
}

// wrapProviderError converts transport-level errors into APIError so callers
// can inspect the HTTP status without importing the provider SDK.
func wrapProviderError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return &APIError{StatusCode: gerr.Code, Message: gerr.Message, Cause: err}
	}
	return &APIError{Message: err.Error(), Cause: err}
}

// extractTextFromResponse extracts text from a Gemini API response.
// An empty candidate list counts as a failed attempt for retry purposes.
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", &APIError{Message: "no candidates in response"}
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", &APIError{Message: "no content in response"}
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", &APIError{Message: "no text parts in response"}
	}

	return strings.Join(parts, ""), nil
}
