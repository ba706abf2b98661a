package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/fieldwise/takeoff/internal/api"
	"github.com/fieldwise/takeoff/internal/svcctx"
)

// HealthResponse is the response for health check endpoints.
type HealthResponse struct {
	Status string `json:"status"`
}

// HealthEndpoint handles GET /health.
type HealthEndpoint struct{}

var _ api.Endpoint = (*HealthEndpoint)(nil)

func (e *HealthEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/health", e.handler
}

func (e *HealthEndpoint) RequiresEngine() bool { return false }

// handler godoc
//
//	@Summary	Check server health
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	HealthResponse
//	@Router		/health [get]
func (e *HealthEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (e *HealthEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp HealthResponse
			if err := client.Get(cmd.Context(), "/health", &resp); err != nil {
				return err
			}
			fmt.Printf("Status: %s\n", resp.Status)
			return nil
		},
	}
}

// StatusResponse is the detailed status response.
type StatusResponse struct {
	Server     string       `json:"server"`
	Engine     EngineStatus `json:"engine"`
	Summarizer string       `json:"summarizer"`
}

// EngineStatus shows the resolved analysis thresholds.
type EngineStatus struct {
	Overage         float64 `json:"overage"`
	HighConduitRuns int     `json:"high_conduit_runs"`
	HighPanelCount  int     `json:"high_panel_count"`
	StickLengthFt   int     `json:"stick_length_ft"`
}

// StatusEndpoint handles GET /status.
type StatusEndpoint struct{}

var _ api.Endpoint = (*StatusEndpoint)(nil)

func (e *StatusEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/status", e.handler
}

func (e *StatusEndpoint) RequiresEngine() bool { return false }

// handler godoc
//
//	@Summary	Get detailed server status
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	StatusResponse
//	@Router		/status [get]
func (e *StatusEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Server:     "running",
		Summarizer: "disabled",
	}

	if eng := svcctx.EngineFrom(r.Context()); eng != nil {
		cfg := eng.Config()
		resp.Engine = EngineStatus{
			Overage:         cfg.Overage,
			HighConduitRuns: cfg.HighConduitRuns,
			HighPanelCount:  cfg.HighPanelCount,
			StickLengthFt:   cfg.StickLengthFt,
		}
	}
	if sum := svcctx.SummarizerFrom(r.Context()); sum != nil {
		resp.Summarizer = sum.Name()
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *StatusEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Get detailed server status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp StatusResponse
			if err := client.Get(cmd.Context(), "/status", &resp); err != nil {
				return err
			}
			fmt.Printf("Server: %s\n", resp.Server)
			fmt.Printf("Engine:\n")
			fmt.Printf("  Overage:           %.0f%%\n", resp.Engine.Overage*100)
			fmt.Printf("  High conduit runs: %d\n", resp.Engine.HighConduitRuns)
			fmt.Printf("  High panel count:  %d\n", resp.Engine.HighPanelCount)
			fmt.Printf("  Stick length:      %d'\n", resp.Engine.StickLengthFt)
			fmt.Printf("Summarizer: %s\n", resp.Summarizer)
			return nil
		},
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
