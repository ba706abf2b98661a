package endpoints

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/fieldwise/takeoff/internal/api"
	"github.com/fieldwise/takeoff/internal/engine"
	"github.com/fieldwise/takeoff/internal/extract"
	"github.com/fieldwise/takeoff/internal/report"
	"github.com/fieldwise/takeoff/internal/svcctx"
)

// BatchEndpoint handles POST /api/drawings/batch with multiple drawing
// PDFs in one multipart upload.
type BatchEndpoint struct{}

var _ api.Endpoint = (*BatchEndpoint)(nil)

func (e *BatchEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/drawings/batch", e.handler
}

func (e *BatchEndpoint) RequiresEngine() bool { return true }

// handler godoc
//
//	@Summary		Analyze several drawing sets in one request
//	@Description	Upload multiple drawing PDFs; returns per-document results plus combined material totals and the union of issue categories
//	@Tags			drawings
//	@Accept			mpfd
//	@Produce		json
//	@Param			files	formData	file	true	"Drawing PDFs"
//	@Success		200		{object}	engine.BatchResult
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/drawings/batch [post]
func (e *BatchEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	maxFiles := 0
	if mgr := svcctx.ConfigManagerFrom(r.Context()); mgr != nil {
		maxFiles = mgr.Get().Batch.MaxFiles
	}

	paths, cleanup, err := saveUploads(r, maxFiles)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer cleanup()

	logger := svcctx.LoggerFrom(r.Context())
	docs, err := extract.DocumentSet(paths, logger)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("extraction failed: %v", err))
		return
	}

	eng := svcctx.EngineFrom(r.Context())
	batch, err := eng.AnalyzeBatch(docs)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, batch)
}

func (e *BatchEndpoint) Command(getServerURL func() string) *cobra.Command {
	var asSheet bool
	cmd := &cobra.Command{
		Use:   "batch <drawing.pdf> [drawing.pdf...]",
		Short: "Analyze several drawing sets on the server",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var batch engine.BatchResult
			if err := client.PostFiles(cmd.Context(), "/api/drawings/batch", args, &batch); err != nil {
				return err
			}
			if asSheet {
				fmt.Print(report.RenderBatch(&batch))
				return nil
			}
			return api.Output(&batch)
		},
	}
	cmd.Flags().BoolVar(&asSheet, "sheet", false, "Print a plain-text takeoff sheet instead of structured output")
	return cmd
}
