package endpoints

import (
	"fmt"
	"os"

	"github.com/fieldwise/takeoff/internal/api"
)

// Config holds dependencies needed by some endpoints.
type Config struct{}

// All returns all endpoint instances.
func All(cfg Config) []api.Endpoint {
	return []api.Endpoint{
		// System endpoints
		&HealthEndpoint{},
		&StatusEndpoint{},

		// Drawing analysis endpoints
		&AnalyzeEndpoint{},
		&BatchEndpoint{},
		&SummarizeEndpoint{},

		// Swagger/OpenAPI endpoints
		&SwaggerEndpoint{},
		&SwaggerUIEndpoint{},
	}
}

// readFileArg reads a file argument for CLI commands with a friendlier error.
func readFileArg(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
