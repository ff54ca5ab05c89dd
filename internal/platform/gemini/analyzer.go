package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/phrazzld/tasker-api/internal/config"
	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/enrichment"
	"google.golang.org/genai"
)

// promptFormat asks for a strict JSON reply so the response can be parsed
// without scraping prose. The shape matches responseSchema below.
const promptFormat = `Analyze this task and provide:
1. A concise 1-sentence summary (max 100 characters)
2. A suggested priority (low, medium, or high) based on urgency indicators

Task Title: %s
Task Description: %s

Respond ONLY with valid JSON in this exact format:
{"summary": "your summary here", "suggested_priority": "medium"}`

// responseSchema is the expected shape of the model's JSON reply.
type responseSchema struct {
	Summary           string `json:"summary"`
	SuggestedPriority string `json:"suggested_priority"`
}

// GeminiAnalyzer implements the enrichment.Analyzer interface using Google's
// Gemini API to summarize tasks and suggest priorities.
type GeminiAnalyzer struct {
	// logger is used for structured logging
	logger *slog.Logger

	// config contains LLM-specific configuration
	config config.LLMConfig

	// client is the Gemini API client for making requests
	client *genai.Client

	// model is the name of the Gemini model to use
	model string
}

// Ensure GeminiAnalyzer implements enrichment.Analyzer
var _ enrichment.Analyzer = (*GeminiAnalyzer)(nil)

// NewGeminiAnalyzer creates a new GeminiAnalyzer with the provided
// dependencies. Returns enrichment.ErrInvalidConfig if the configuration is
// unusable. Callers that have no API key should use
// enrichment.NewDisabledAnalyzer instead.
func NewGeminiAnalyzer(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*GeminiAnalyzer, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", enrichment.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", enrichment.ErrInvalidConfig)
	}

	if cfg.TimeoutSeconds <= 0 {
		return nil, fmt.Errorf("%w: timeout must be positive", enrichment.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			enrichment.ErrInvalidConfig, err)
	}

	return &GeminiAnalyzer{
		logger: logger.With(slog.String("component", "gemini_analyzer")),
		config: cfg,
		client: client,
		model:  cfg.ModelName,
	}, nil
}

// Analyze implements enrichment.Analyzer. It builds a prompt from the task
// title and description, calls the Gemini API with a per-attempt timeout and
// a bounded retry loop, and parses the structured reply.
func (a *GeminiAnalyzer) Analyze(ctx context.Context, title, description string) (*enrichment.Result, error) {
	if strings.TrimSpace(title) == "" && strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("%w: nothing to analyze", enrichment.ErrInvalidResponse)
	}

	prompt := fmt.Sprintf(promptFormat, title, description)

	raw, err := a.callWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return a.parseResponse(ctx, raw)
}

// callWithRetry makes a call to the Gemini API with exponential backoff retry
// logic. Each attempt runs under its own fixed timeout. Transient transport
// failures are retried up to config.MaxRetries additional times; permanent
// failures (unparsable or blocked responses) are returned immediately.
func (a *GeminiAnalyzer) callWithRetry(ctx context.Context, prompt string) (string, error) {
	maxRetries := a.config.MaxRetries
	baseDelaySeconds := a.config.RetryDelaySeconds
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	if maxRetries < 0 {
		a.logger.WarnContext(ctx, "invalid max retries value, using default", "max_retries", 2)
		maxRetries = 2
	}

	if baseDelaySeconds < 1 {
		a.logger.WarnContext(ctx, "invalid retry delay value, using default", "base_delay_seconds", 1)
		baseDelaySeconds = 1
	}

	timeout := time.Duration(a.config.TimeoutSeconds) * time.Second

	for attempt := 0; attempt <= maxRetries; attempt++ {
		attemptNum := attempt + 1 // For logging (1-based)
		a.logger.InfoContext(ctx, "calling analysis service",
			"attempt", attemptNum,
			"max_attempts", maxRetries+1)

		text, err := a.callOnce(ctx, prompt, timeout)
		if err == nil {
			a.logger.InfoContext(ctx, "analysis service call successful",
				"attempt", attemptNum)
			return text, nil
		}

		a.logger.ErrorContext(ctx, "analysis service call failed",
			"attempt", attemptNum,
			"error", err)

		// Permanent failures are never retried.
		if errors.Is(err, enrichment.ErrInvalidResponse) {
			return "", err
		}

		if attempt >= maxRetries {
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d)",
				enrichment.ErrTransientFailure, maxRetries)
		}

		// Exponential backoff with jitter:
		// delay = baseDelay * 2^attempt * (0.5 + rand(0, 0.5))
		backoffSeconds := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		jitterFactor := 0.5 + rng.Float64()*0.5
		delay := time.Duration(backoffSeconds * jitterFactor * float64(time.Second))

		a.logger.InfoContext(ctx, "retrying after delay",
			"attempt", attemptNum,
			"delay", delay.String())

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			a.logger.WarnContext(ctx, "analysis call cancelled during retry delay",
				"attempt", attemptNum,
				"ctx_err", ctx.Err())
			return "", fmt.Errorf("%w: %v", enrichment.ErrTransientFailure, ctx.Err())
		}
	}

	return "", fmt.Errorf("%w: failed after %d attempts",
		enrichment.ErrTransientFailure, maxRetries+1)
}

// callOnce performs a single API attempt under its own timeout and returns
// the raw response text.
func (a *GeminiAnalyzer) callOnce(ctx context.Context, prompt string, timeout time.Duration) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := a.client.Models.GenerateContent(
		attemptCtx,
		a.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		// Transport-level failures (including deadline exceeded) are
		// candidates for retry.
		return "", fmt.Errorf("%w: %v", enrichment.ErrTransientFailure, err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", enrichment.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: content blocked by safety filters", enrichment.ErrInvalidResponse)
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content in response", enrichment.ErrInvalidResponse)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty text in response", enrichment.ErrInvalidResponse)
	}

	return text, nil
}

// parseResponse converts the raw model reply into an enrichment.Result.
// A reply that is not the expected JSON shape is an ErrInvalidResponse; an
// out-of-range suggested priority in an otherwise well-formed reply is
// coerced to medium rather than failing the whole analysis.
func (a *GeminiAnalyzer) parseResponse(ctx context.Context, raw string) (*enrichment.Result, error) {
	var parsed responseSchema
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v",
			enrichment.ErrInvalidResponse, err)
	}

	if strings.TrimSpace(parsed.Summary) == "" {
		return nil, fmt.Errorf("%w: missing summary", enrichment.ErrInvalidResponse)
	}

	priority := domain.TaskPriority(parsed.SuggestedPriority)
	if !domain.IsValidTaskPriority(priority) {
		a.logger.WarnContext(ctx, "analysis service returned out-of-range priority, coercing to medium",
			"suggested_priority", parsed.SuggestedPriority)
		priority = domain.TaskPriorityMedium
	}

	return &enrichment.Result{
		Summary:           strings.TrimSpace(parsed.Summary),
		SuggestedPriority: priority,
	}, nil
}
