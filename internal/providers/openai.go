package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/fieldwise/takeoff/internal/engine"
)

const (
	OpenAIName         = "openai"
	openAIDefaultModel = "gpt-4o-mini"
)

const summarySystemPrompt = `You are a senior electrical estimator reviewing an automated
drawing takeoff. Write a short plain-language review for the bid packet: call out the
panel and circuit counts, the conduit picture, and anything in the flagged issues that
needs a second look before pricing. Keep it under 200 words. Do not invent quantities.`

// OpenAIConfig holds configuration for the OpenAI summary client.
type OpenAIConfig struct {
	APIKey     string
	Model      string // "gpt-4o-mini" (default)
	MaxTokens  int
	MaxRetries int           // Retry attempts for SDK transport
	Timeout    time.Duration // HTTP timeout
	BaseURL    string        // Optional (tests)
	HTTPClient *http.Client  // Optional (tests)
}

// OpenAIClient implements Summarizer using the official OpenAI SDK.
type OpenAIClient struct {
	model     string
	maxTokens int
	client    openai.Client
}

// NewOpenAIClient creates a new OpenAI summary client.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	if cfg.Model == "" {
		cfg.Model = openAIDefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 600
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIClient{
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		client:    openai.NewClient(opts...),
	}
}

// Name returns the provider identifier.
func (c *OpenAIClient) Name() string {
	return OpenAIName
}

// HealthCheck verifies the OpenAI API is reachable and the API key is valid.
func (c *OpenAIClient) HealthCheck(ctx context.Context) error {
	page, err := c.client.Models.List(ctx)
	if err != nil {
		return fmt.Errorf("openai models list failed: %w", mapOpenAIError(err))
	}
	if page == nil {
		return fmt.Errorf("openai models list returned nil response")
	}
	return nil
}

// Summarize sends the analysis result to the model and returns its review.
func (c *OpenAIClient) Summarize(ctx context.Context, result *engine.AnalysisResult) (*SummaryResult, error) {
	start := time.Now()

	if result == nil {
		return nil, fmt.Errorf("analysis result is required")
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(summarySystemPrompt),
			openai.UserMessage(summaryPrompt(result)),
		},
		MaxTokens: openai.Int(int64(c.maxTokens)),
	})
	if err != nil {
		return nil, mapOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return nil, fmt.Errorf("openai returned an empty summary")
	}

	return &SummaryResult{
		Text:          text,
		ModelUsed:     resp.Model,
		ExecutionTime: time.Since(start),
	}, nil
}

// summaryPrompt flattens an analysis result into the user message.
func summaryPrompt(result *engine.AnalysisResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Drawing set: %s (%d pages)\n", result.Filename, result.Pages)
	fmt.Fprintf(&sb, "Panels: %s\n", strings.Join(panelNames(result), ", "))
	fmt.Fprintf(&sb, "Circuits: %d\n", result.CircuitsCount)

	if len(result.ConduitRuns) > 0 {
		sb.WriteString("Conduit runs:\n")
		for _, run := range result.ConduitRuns {
			fmt.Fprintf(&sb, "  - %s %s x%d\n", run.Type, run.Size, run.RunCount)
		}
	}
	if len(result.Materials) > 0 {
		sb.WriteString("Material estimate:\n")
		for item, qty := range result.Materials {
			fmt.Fprintf(&sb, "  - %s: %d\n", item, qty)
		}
	}
	if len(result.FlaggedIssues) > 0 {
		sb.WriteString("Flagged issues:\n")
		for _, msg := range result.FlaggedIssues {
			fmt.Fprintf(&sb, "  - %s\n", msg)
		}
	}
	for _, note := range result.Notes {
		fmt.Fprintf(&sb, "Note: %s\n", note)
	}
	return sb.String()
}

func panelNames(result *engine.AnalysisResult) []string {
	if len(result.PanelsDetected) == 0 {
		return []string{"none detected"}
	}
	names := make([]string, 0, len(result.PanelsDetected))
	for _, p := range result.PanelsDetected {
		names = append(names, p.Name)
	}
	return names
}

func mapOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("OpenAI rate limited: %s", apiErr.Message)
		}
		if apiErr.Message != "" {
			return fmt.Errorf("OpenAI error (status %d): %s", apiErr.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("OpenAI error (status %d)", apiErr.StatusCode)
	}
	return err
}

var _ Summarizer = (*OpenAIClient)(nil)
