package engine

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestAnalyze(t *testing.T) {
	e := testEngine(t)

	t.Run("full pipeline over a small drawing set", func(t *testing.T) {
		pages := []Page{
			{Number: 1, Text: "PANEL SCHEDULE\nPANEL MDP-1\n42 CIRCUITS"},
			{Number: 2, Text: "LP-1\nEMT 3/4\", 5 RUNS\nOUTDOOR DISCONNECT"},
		}
		result, err := e.Analyze("office-e101.pdf", pages)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Filename != "office-e101.pdf" || result.Pages != 2 {
			t.Errorf("unexpected header fields: %+v", result)
		}
		if len(result.PanelsDetected) != 2 {
			t.Errorf("expected 2 panels, got %+v", result.PanelsDetected)
		}
		if result.CircuitsCount != 42 {
			t.Errorf("expected 42 circuits, got %d", result.CircuitsCount)
		}
		if got := result.Materials["Circuit Breakers"]; got != 49 {
			// ceil(42 * 1.15) = 49
			t.Errorf("expected 49 breakers, got %d", got)
		}
		if !hasCategory(result.Issues, CategoryEnvironmental) {
			t.Errorf("expected environmental flag, got %+v", result.Issues)
		}
		if result.ID == "" {
			t.Errorf("expected an analysis ID")
		}
		if len(result.FlaggedIssues) != len(result.Issues) {
			t.Errorf("message list out of sync with issues")
		}
	})

	t.Run("zero-page document degrades without error", func(t *testing.T) {
		result, err := e.Analyze("empty.pdf", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.PanelsDetected) != 0 || result.CircuitsCount != 0 {
			t.Errorf("expected no detections, got %+v", result)
		}
		if _, ok := result.Materials["Circuit Breakers"]; ok {
			t.Errorf("expected no breaker line for an empty document")
		}
		if !containsSubstring(result.Notes, "OCR") {
			t.Errorf("expected an OCR note, got %v", result.Notes)
		}
	})

	t.Run("image-only pages contribute no candidates", func(t *testing.T) {
		result, err := e.Analyze("scan.pdf", []Page{{Number: 1}, {Number: 2}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Pages != 2 || len(result.PanelsDetected) != 0 {
			t.Errorf("unexpected result %+v", result)
		}
		if !containsSubstring(result.Notes, "OCR") {
			t.Errorf("expected an OCR note, got %v", result.Notes)
		}
	})

	t.Run("missing filename violates the input contract", func(t *testing.T) {
		if _, err := e.Analyze("  ", nil); !errors.Is(err, ErrMissingFilename) {
			t.Errorf("expected ErrMissingFilename, got %v", err)
		}
	})

	t.Run("page numbers below 1 violate the input contract", func(t *testing.T) {
		_, err := e.Analyze("bad.pdf", []Page{{Number: 0, Text: "MDP-1"}})
		if !errors.Is(err, ErrInvalidPageNumber) {
			t.Errorf("expected ErrInvalidPageNumber, got %v", err)
		}
	})

	t.Run("repeated analysis yields identical quantities", func(t *testing.T) {
		pages := []Page{
			{Number: 1, Text: "MDP-1\n48 CIRCUITS\nEMT 3/4\", 7 RUNS"},
		}
		first, err := e.Analyze("repeat.pdf", pages)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := e.Analyze("repeat.pdf", pages)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(first.Materials, second.Materials) {
			t.Errorf("materials diverged:\nfirst:  %v\nsecond: %v", first.Materials, second.Materials)
		}
		if got := first.Materials["Circuit Breakers"]; got != 56 {
			t.Errorf("expected 56 breakers for 48 circuits, got %d", got)
		}
	})
}

func TestAnalyzeBatch(t *testing.T) {
	e := testEngine(t)

	t.Run("results keep input order and totals sum", func(t *testing.T) {
		docs := []Document{
			{Filename: "a.pdf", Pages: []Page{{Number: 1, Text: "MDP-1\n10 CIRCUITS"}}},
			{Filename: "b.pdf", Pages: []Page{{Number: 1, Text: "LP-1\n10 CIRCUITS\nTRANSFORMER"}}},
			{Filename: "c.pdf", Pages: nil},
		}
		batch, err := e.AnalyzeBatch(docs)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if batch.TotalFiles != 3 || len(batch.Results) != 3 {
			t.Fatalf("unexpected batch shape: %+v", batch)
		}
		for i, want := range []string{"a.pdf", "b.pdf", "c.pdf"} {
			if batch.Results[i].Filename != want {
				t.Errorf("result %d: expected %s, got %s", i, want, batch.Results[i].Filename)
			}
		}
		if got := batch.TotalMaterials["Panels"]; got != 2 {
			t.Errorf("expected 2 total panels, got %d", got)
		}
		// Each document contributes ceil(10 * 1.15) = 12 breakers.
		if got := batch.TotalMaterials["Circuit Breakers"]; got != 24 {
			t.Errorf("expected 24 total breakers, got %d", got)
		}
		if !reflect.DeepEqual(batch.IssueCategories, []string{CategoryTransformer}) {
			t.Errorf("expected transformer category union, got %v", batch.IssueCategories)
		}
	})

	t.Run("empty batch", func(t *testing.T) {
		batch, err := e.AnalyzeBatch(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if batch.TotalFiles != 0 || len(batch.Results) != 0 {
			t.Errorf("unexpected batch %+v", batch)
		}
	})

	t.Run("contract violation fails the batch", func(t *testing.T) {
		docs := []Document{
			{Filename: "ok.pdf"},
			{Filename: ""},
		}
		if _, err := e.AnalyzeBatch(docs); !errors.Is(err, ErrMissingFilename) {
			t.Errorf("expected ErrMissingFilename, got %v", err)
		}
	})
}

func containsSubstring(notes []string, substr string) bool {
	for _, n := range notes {
		if strings.Contains(n, substr) {
			return true
		}
	}
	return false
}
