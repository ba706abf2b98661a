package report

import (
	"strings"
	"testing"
	"time"

	"github.com/fieldwise/takeoff/internal/engine"
)

func TestRender(t *testing.T) {
	result := &engine.AnalysisResult{
		ID:       "abc",
		Filename: "office-e101.pdf",
		Pages:    3,
		PanelsDetected: []engine.Panel{
			{Name: "MDP-1", Type: engine.PanelDistribution, SourcePages: []int{1, 2}},
		},
		CircuitsCount: 42,
		ConduitRuns: []engine.ConduitRun{
			{Type: engine.ConduitEMT, Size: `3/4"`, RunCount: 5},
		},
		Materials: map[string]int{
			"Panels":           1,
			"Circuit Breakers": 49,
		},
		FlaggedIssues: []string{"⚠️ check this"},
		Notes:         []string{"✓ Panel schedule found"},
		AnalyzedAt:    time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}

	sheet := Render(result)

	for _, want := range []string{
		"TAKEOFF SHEET - office-e101.pdf",
		"Pages analyzed: 3",
		"MDP-1",
		"pages 1, 2",
		"Circuits counted: 42",
		"EMT",
		"5 runs",
		"Circuit Breakers",
		"⚠️ check this",
		"✓ Panel schedule found",
	} {
		if !strings.Contains(sheet, want) {
			t.Errorf("sheet missing %q:\n%s", want, sheet)
		}
	}

	// Materials print in sorted order for stable sheets.
	if strings.Index(sheet, "Circuit Breakers") > strings.Index(sheet, "Panels") {
		t.Errorf("expected material lines sorted alphabetically:\n%s", sheet)
	}
}

func TestRenderEmptyResult(t *testing.T) {
	sheet := Render(&engine.AnalysisResult{Filename: "empty.pdf"})
	for _, want := range []string{"(none detected)", "(nothing to order)"} {
		if !strings.Contains(sheet, want) {
			t.Errorf("sheet missing %q:\n%s", want, sheet)
		}
	}
	if strings.Contains(sheet, "FLAGGED FOR REVIEW") {
		t.Errorf("unexpected flag section for empty result:\n%s", sheet)
	}
}

func TestRenderBatch(t *testing.T) {
	batch := &engine.BatchResult{
		TotalFiles: 2,
		Results: []*engine.AnalysisResult{
			{Filename: "a.pdf"},
			{Filename: "b.pdf"},
		},
		TotalMaterials:  map[string]int{"Panels": 2},
		IssueCategories: []string{"transformer"},
	}

	sheet := RenderBatch(batch)

	for _, want := range []string{
		"BATCH TAKEOFF - 2 drawing sets",
		"COMBINED MATERIAL ESTIMATE",
		"Issue categories: transformer",
		"TAKEOFF SHEET - a.pdf",
		"TAKEOFF SHEET - b.pdf",
	} {
		if !strings.Contains(sheet, want) {
			t.Errorf("batch sheet missing %q:\n%s", want, sheet)
		}
	}
}
