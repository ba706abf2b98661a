// Package providers holds clients for external model providers used to
// review finished takeoffs.
package providers

import (
	"context"
	"time"

	"github.com/fieldwise/takeoff/internal/engine"
)

// Summarizer produces a short narrative review of a finished analysis,
// the kind of note an estimator pastes at the top of a bid packet.
type Summarizer interface {
	// Name returns the provider identifier.
	Name() string

	// Summarize reviews an analysis result and returns prose.
	Summarize(ctx context.Context, result *engine.AnalysisResult) (*SummaryResult, error)

	// HealthCheck verifies the provider is reachable and credentials work.
	HealthCheck(ctx context.Context) error
}

// SummaryResult is the outcome of a summary request.
type SummaryResult struct {
	Text          string
	ModelUsed     string
	ExecutionTime time.Duration
}
