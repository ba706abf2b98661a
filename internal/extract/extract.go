// Package extract pulls machine-readable text out of drawing PDFs.
package extract

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"

	"github.com/fieldwise/takeoff/internal/engine"
)

// Document extracts per-page text from a PDF on disk. Pages with no text
// layer come back with empty Text; the analyzer treats those as scanned
// images. A markup sidecar next to the PDF, if present, contributes
// additional per-page notes.
func Document(path string, logger *slog.Logger) (*engine.Document, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("drawing not found: %s", path)
	}

	ctx, err := api.ReadContextFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}

	pageCount := ctx.PageCount
	pages := make([]engine.Page, 0, pageCount)
	textPages := 0

	for pageNr := 1; pageNr <= pageCount; pageNr++ {
		r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
		if err != nil {
			return nil, fmt.Errorf("failed to extract page %d content: %w", pageNr, err)
		}

		text := ""
		if r != nil {
			text, err = contentText(r)
			if err != nil {
				return nil, fmt.Errorf("failed to parse page %d content: %w", pageNr, err)
			}
		}
		if strings.TrimSpace(text) != "" {
			textPages++
		}
		pages = append(pages, engine.Page{Number: pageNr, Text: text})
	}

	doc := &engine.Document{
		Filename: filepath.Base(path),
		Pages:    pages,
	}

	sidecar, err := LoadSidecar(SidecarPath(path))
	if err != nil {
		return nil, err
	}
	if sidecar != nil {
		logger.Debug("applying markup sidecar", "file", doc.Filename, "pages", len(sidecar.Pages))
		sidecar.Apply(doc)
	}

	logger.Debug("extracted drawing text",
		"file", doc.Filename,
		"pages", pageCount,
		"text_pages", textPages)

	return doc, nil
}

// DocumentSet extracts a batch of PDFs concurrently. Results keep the
// input order.
func DocumentSet(paths []string, logger *slog.Logger) ([]engine.Document, error) {
	if logger == nil {
		logger = slog.Default()
	}

	// Validate all paths before doing any work
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("drawing not found: %s", p)
		}
	}

	maxWorkers := runtime.NumCPU()

	type result struct {
		idx int
		doc *engine.Document
		err error
	}

	results := make(chan result, len(paths))
	sem := make(chan struct{}, maxWorkers)

	for i, p := range paths {
		sem <- struct{}{} // acquire
		go func(idx int, path string) {
			defer func() { <-sem }() // release

			doc, err := Document(path, logger)
			results <- result{idx: idx, doc: doc, err: err}
		}(i, p)
	}

	docs := make([]engine.Document, len(paths))
	for range paths {
		r := <-results
		if r.err != nil {
			return nil, fmt.Errorf("failed to extract %s: %w", filepath.Base(paths[r.idx]), r.err)
		}
		docs[r.idx] = *r.doc
	}

	return docs, nil
}
