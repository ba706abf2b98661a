package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/fieldwise/takeoff/internal/api"
	"github.com/fieldwise/takeoff/internal/engine"
	"github.com/fieldwise/takeoff/internal/svcctx"
)

// SummaryResponse carries the model's review of an analysis result.
type SummaryResponse struct {
	Summary string `json:"summary"`
	Model   string `json:"model"`
}

// SummarizeEndpoint handles POST /api/drawings/summarize. The request body
// is a previously returned analysis result; the response is a short
// narrative review from the configured model provider.
type SummarizeEndpoint struct{}

var _ api.Endpoint = (*SummarizeEndpoint)(nil)

func (e *SummarizeEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/drawings/summarize", e.handler
}

func (e *SummarizeEndpoint) RequiresEngine() bool { return true }

// handler godoc
//
//	@Summary		Generate a narrative review of an analysis result
//	@Description	Send a previously returned analysis result; requires summaries to be enabled in config
//	@Tags			drawings
//	@Accept			json
//	@Produce		json
//	@Param			result	body		engine.AnalysisResult	true	"Analysis result to review"
//	@Success		200		{object}	SummaryResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/api/drawings/summarize [post]
func (e *SummarizeEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	summarizer := svcctx.SummarizerFrom(r.Context())
	if summarizer == nil {
		writeError(w, http.StatusServiceUnavailable, "summaries are disabled; enable summary in config")
		return
	}

	var result engine.AnalysisResult
	if err := json.NewDecoder(r.Body).Decode(&result); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid analysis result: %v", err))
		return
	}
	if result.Filename == "" {
		writeError(w, http.StatusBadRequest, "analysis result has no filename")
		return
	}

	summary, err := summarizer.Summarize(r.Context(), &result)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("summary failed: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, SummaryResponse{
		Summary: summary.Text,
		Model:   summary.ModelUsed,
	})
}

func (e *SummarizeEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "summarize <result.json>",
		Short: "Generate a narrative review of a saved analysis result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readFileArg(args[0])
			if err != nil {
				return err
			}
			var result engine.AnalysisResult
			if err := json.Unmarshal(data, &result); err != nil {
				return fmt.Errorf("failed to parse %s: %w", args[0], err)
			}

			client := api.NewClient(getServerURL())
			var resp SummaryResponse
			if err := client.Post(cmd.Context(), "/api/drawings/summarize", &result, &resp); err != nil {
				return err
			}
			fmt.Println(resp.Summary)
			return nil
		},
	}
}
