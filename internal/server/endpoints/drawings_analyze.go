package endpoints

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fieldwise/takeoff/internal/api"
	"github.com/fieldwise/takeoff/internal/engine"
	"github.com/fieldwise/takeoff/internal/extract"
	"github.com/fieldwise/takeoff/internal/report"
	"github.com/fieldwise/takeoff/internal/svcctx"
)

// AnalyzeEndpoint handles POST /api/drawings/analyze with a multipart
// PDF upload.
type AnalyzeEndpoint struct{}

var _ api.Endpoint = (*AnalyzeEndpoint)(nil)

func (e *AnalyzeEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/drawings/analyze", e.handler
}

func (e *AnalyzeEndpoint) RequiresEngine() bool { return true }

// handler godoc
//
//	@Summary		Analyze an electrical drawing set
//	@Description	Upload a drawing PDF and receive panel, circuit, conduit and material takeoff results
//	@Tags			drawings
//	@Accept			mpfd
//	@Produce		json
//	@Param			files	formData	file	true	"Drawing PDF"
//	@Param			markup	formData	file	false	"Markup sidecar JSON"
//	@Success		200		{object}	engine.AnalysisResult
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/drawings/analyze [post]
func (e *AnalyzeEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	paths, cleanup, err := saveUploads(r, 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer cleanup()

	if err := saveMarkup(r, paths[0]); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	logger := svcctx.LoggerFrom(r.Context())
	doc, err := extract.Document(paths[0], logger)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("extraction failed: %v", err))
		return
	}

	eng := svcctx.EngineFrom(r.Context())
	result, err := eng.Analyze(doc.Filename, doc.Pages)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (e *AnalyzeEndpoint) Command(getServerURL func() string) *cobra.Command {
	var (
		asSheet    bool
		markupPath string
	)
	cmd := &cobra.Command{
		Use:   "analyze <drawing.pdf>",
		Short: "Analyze a drawing set on the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := map[string][]string{"files": args}
			if markupPath != "" {
				fields["markup"] = []string{markupPath}
			}

			client := api.NewClient(getServerURL())
			var result engine.AnalysisResult
			if err := client.PostForm(cmd.Context(), "/api/drawings/analyze", fields, &result); err != nil {
				return err
			}
			if asSheet {
				fmt.Print(report.Render(&result))
				return nil
			}
			return api.Output(&result)
		},
	}
	cmd.Flags().BoolVar(&asSheet, "sheet", false, "Print a plain-text takeoff sheet instead of structured output")
	cmd.Flags().StringVar(&markupPath, "markup", "", "Markup sidecar JSON to upload with the drawing")
	return cmd
}

// saveUploads parses the multipart form, validates the uploaded PDFs and
// writes them to a temp directory. maxFiles of 0 means unlimited. The
// returned cleanup removes the temp directory.
func saveUploads(r *http.Request, maxFiles int) ([]string, func(), error) {
	const maxMemory = 500 << 20 // 500MB
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		return nil, nil, fmt.Errorf("failed to parse form: %v", err)
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		r.MultipartForm.RemoveAll()
		return nil, nil, fmt.Errorf("no files uploaded")
	}
	if maxFiles > 0 && len(files) > maxFiles {
		r.MultipartForm.RemoveAll()
		return nil, nil, fmt.Errorf("expected at most %d file(s), got %d", maxFiles, len(files))
	}

	for _, fh := range files {
		if !strings.HasSuffix(strings.ToLower(fh.Filename), ".pdf") {
			r.MultipartForm.RemoveAll()
			return nil, nil, fmt.Errorf("file %s is not a PDF", fh.Filename)
		}
	}

	tempDir, err := os.MkdirTemp("", "takeoff-upload-*")
	if err != nil {
		r.MultipartForm.RemoveAll()
		return nil, nil, fmt.Errorf("failed to create temp dir: %v", err)
	}
	cleanup := func() {
		os.RemoveAll(tempDir)
		r.MultipartForm.RemoveAll()
	}

	var paths []string
	for _, fh := range files {
		src, err := fh.Open()
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to open uploaded file: %v", err)
		}

		destPath := filepath.Join(tempDir, filepath.Base(fh.Filename))
		dst, err := os.Create(destPath)
		if err != nil {
			src.Close()
			cleanup()
			return nil, nil, fmt.Errorf("failed to create file: %v", err)
		}

		_, err = io.Copy(dst, src)
		src.Close()
		dst.Close()
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to save file: %v", err)
		}

		paths = append(paths, destPath)
	}

	return paths, cleanup, nil
}

// saveMarkup writes an optional uploaded markup sidecar next to the saved
// PDF so extraction picks it up. The upload is validated before being
// written; a bad sidecar fails the request rather than silently dropping
// field notes.
func saveMarkup(r *http.Request, pdfPath string) error {
	markups := r.MultipartForm.File["markup"]
	if len(markups) == 0 {
		return nil
	}
	if len(markups) > 1 {
		return fmt.Errorf("expected at most 1 markup file, got %d", len(markups))
	}

	src, err := markups[0].Open()
	if err != nil {
		return fmt.Errorf("failed to open markup upload: %v", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("failed to read markup upload: %v", err)
	}
	if _, err := extract.ParseSidecar(data); err != nil {
		return err
	}

	return os.WriteFile(extract.SidecarPath(pdfPath), data, 0o644)
}
