package api

import (
	"net/http"

	"github.com/spf13/cobra"
)

// Endpoint defines both an HTTP route and its corresponding CLI command,
// so each takeoff operation (analyze, batch, summarize, ...) is declared
// once and reachable from both surfaces.
type Endpoint interface {
	// Route returns the HTTP method, path, and handler for this endpoint.
	Route() (method, path string, handler http.HandlerFunc)

	// RequiresEngine reports whether the endpoint runs drawings through
	// the analysis engine. Such routes are gated behind readiness; system
	// endpoints like health answer regardless.
	RequiresEngine() bool

	// Command returns a Cobra command that calls this endpoint via HTTP.
	// getServerURL is called at runtime to get the server URL (deferred evaluation).
	Command(getServerURL func() string) *cobra.Command
}
