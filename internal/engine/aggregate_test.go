package engine

import (
	"math/rand"
	"reflect"
	"testing"
)

func detectPages(t *testing.T, pages []Page) []Candidate {
	t.Helper()
	e := testEngine(t)
	var cands []Candidate
	for _, p := range pages {
		cands = append(cands, e.Detect(p.Number, Normalize(p.Text))...)
	}
	return cands
}

func TestAggregatePanelDedup(t *testing.T) {
	pages := []Page{
		{Number: 2, Text: "PANEL MDP-1 FED FROM UTILITY"},
		{Number: 7, Text: "MDP-1 RISER CONTINUES"},
	}
	agg := AggregateCandidates(detectPages(t, pages))

	if len(agg.Panels) != 1 {
		t.Fatalf("expected 1 aggregated panel, got %d", len(agg.Panels))
	}
	p := agg.Panels[0]
	if p.Name != "MDP-1" {
		t.Errorf("expected MDP-1, got %s", p.Name)
	}
	if !reflect.DeepEqual(p.SourcePages, []int{2, 7}) {
		t.Errorf("expected source pages [2 7], got %v", p.SourcePages)
	}
}

func TestAggregateConduitGrouping(t *testing.T) {
	t.Run("same type and size sums run counts", func(t *testing.T) {
		pages := []Page{
			{Number: 1, Text: `EMT 3/4", 5 RUNS`},
			{Number: 2, Text: `EMT 3/4", 5 RUNS`},
		}
		agg := AggregateCandidates(detectPages(t, pages))

		if len(agg.ConduitRuns) != 1 {
			t.Fatalf("expected 1 conduit group, got %d", len(agg.ConduitRuns))
		}
		run := agg.ConduitRuns[0]
		if run.Type != ConduitEMT || run.Size != `3/4"` || run.RunCount != 10 {
			t.Errorf("expected EMT 3/4\" x10, got %+v", run)
		}
	})

	t.Run("inch spellings group with quote notation", func(t *testing.T) {
		pages := []Page{
			{Number: 1, Text: `EMT 3/4-INCH, 5 RUNS`},
			{Number: 2, Text: `EMT 3/4-INCH, 5 RUNS`},
		}
		agg := AggregateCandidates(detectPages(t, pages))

		if len(agg.ConduitRuns) != 1 {
			t.Fatalf("expected 1 conduit group, got %d: %+v", len(agg.ConduitRuns), agg.ConduitRuns)
		}
		run := agg.ConduitRuns[0]
		if run.Type != ConduitEMT || run.Size != `3/4"` || run.RunCount != 10 {
			t.Errorf("expected EMT 3/4\" x10, got %+v", run)
		}
	})

	t.Run("unknown type is never merged into a known type", func(t *testing.T) {
		pages := []Page{
			{Number: 1, Text: `EMT 3/4"`},
			{Number: 2, Text: `3/4" CONDUIT`},
		}
		agg := AggregateCandidates(detectPages(t, pages))

		if len(agg.ConduitRuns) != 2 {
			t.Fatalf("expected 2 conduit groups, got %d: %+v", len(agg.ConduitRuns), agg.ConduitRuns)
		}
	})
}

func TestAggregateCircuitSum(t *testing.T) {
	pages := []Page{
		{Number: 1, Text: "24 CIRCUITS"},
		{Number: 2, Text: "18 CIRCUITS"},
		{Number: 3, Text: "20A 1P SPARE"},
	}
	agg := AggregateCandidates(detectPages(t, pages))

	if agg.CircuitsCount != 43 {
		t.Errorf("expected 43 circuits, got %d", agg.CircuitsCount)
	}
}

func TestAggregateTypeConflict(t *testing.T) {
	// Same designator claimed as both a lighting and a power panel.
	cands := []Candidate{
		{Kind: KindPanel, Page: 3, Seq: 0, Panel: &PanelCandidate{Name: "P-1", Type: PanelLighting}},
		{Kind: KindPanel, Page: 5, Seq: 0, Panel: &PanelCandidate{Name: "P-1", Type: PanelPower}},
	}
	agg := AggregateCandidates(cands)

	if len(agg.Panels) != 1 {
		t.Fatalf("expected 1 panel, got %d", len(agg.Panels))
	}
	if agg.Panels[0].Type != PanelLighting {
		t.Errorf("expected first-seen type lighting to win, got %s", agg.Panels[0].Type)
	}
	if len(agg.Notes) != 1 {
		t.Fatalf("expected a conflict note, got %v", agg.Notes)
	}

	t.Run("unknown never overrides known", func(t *testing.T) {
		cands := []Candidate{
			{Kind: KindPanel, Page: 1, Seq: 0, Panel: &PanelCandidate{Name: "P-2", Type: PanelUnknown}},
			{Kind: KindPanel, Page: 2, Seq: 0, Panel: &PanelCandidate{Name: "P-2", Type: PanelPower}},
			{Kind: KindPanel, Page: 3, Seq: 0, Panel: &PanelCandidate{Name: "P-2", Type: PanelUnknown}},
		}
		agg := AggregateCandidates(cands)
		if agg.Panels[0].Type != PanelPower {
			t.Errorf("expected power, got %s", agg.Panels[0].Type)
		}
		if len(agg.Notes) != 0 {
			t.Errorf("unknown observations are not conflicts, got %v", agg.Notes)
		}
	})
}

func TestAggregateOrderIndependence(t *testing.T) {
	pages := []Page{
		{Number: 1, Text: "PANEL SCHEDULE\nMDP-1\n42 CIRCUITS"},
		{Number: 2, Text: "LP-1\nEMT 3/4\", 5 RUNS"},
		{Number: 3, Text: "MDP-1\n3/4\" EMT\nTRANSFORMER T-1"},
		{Number: 4, Text: "PP-2\n12 CIRCUITS\nRGS 2\" OUTDOOR"},
	}

	baseline := AggregateCandidates(detectPages(t, pages))

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := make([]Page, len(pages))
		copy(shuffled, pages)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got := AggregateCandidates(detectPages(t, shuffled))
		if !reflect.DeepEqual(got, baseline) {
			t.Fatalf("aggregation depends on page order:\nbaseline: %+v\ngot:      %+v", baseline, got)
		}
	}
}
