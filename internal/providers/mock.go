package providers

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/fieldwise/takeoff/internal/engine"
)

const MockName = "mock"

// MockSummarizer is a Summarizer for testing.
type MockSummarizer struct {
	// Configurable behavior
	Latency      time.Duration
	ShouldFail   bool
	ResponseText string

	// State
	requestCount atomic.Int64
}

// NewMockSummarizer creates a mock with sensible defaults.
func NewMockSummarizer() *MockSummarizer {
	return &MockSummarizer{
		ResponseText: "mock summary",
	}
}

// Name returns the provider identifier.
func (m *MockSummarizer) Name() string {
	return MockName
}

// HealthCheck always succeeds unless ShouldFail is set.
func (m *MockSummarizer) HealthCheck(_ context.Context) error {
	if m.ShouldFail {
		return fmt.Errorf("mock health check failure")
	}
	return nil
}

// Summarize returns the configured response.
func (m *MockSummarizer) Summarize(ctx context.Context, result *engine.AnalysisResult) (*SummaryResult, error) {
	start := time.Now()
	m.requestCount.Add(1)

	if m.Latency > 0 {
		select {
		case <-time.After(m.Latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.ShouldFail {
		return nil, fmt.Errorf("mock summarize failure")
	}
	if result == nil {
		return nil, fmt.Errorf("analysis result is required")
	}

	return &SummaryResult{
		Text:          m.ResponseText,
		ModelUsed:     MockName,
		ExecutionTime: time.Since(start),
	}, nil
}

// RequestCount returns how many summaries were requested.
func (m *MockSummarizer) RequestCount() int64 {
	return m.requestCount.Load()
}

var _ Summarizer = (*MockSummarizer)(nil)
