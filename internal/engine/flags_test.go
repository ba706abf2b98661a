package engine

import (
	"strings"
	"testing"
)

func TestFlagOrdering(t *testing.T) {
	e := testEngine(t)

	// Outdoor keyword appears before the transformer keyword in the text;
	// flags must still follow fixed predicate order.
	corpus := Normalize("OUTDOOR FEEDER ROUTED TO TRANSFORMER T-1")
	issues, _ := e.Flag(&Aggregate{}, nil, corpus)

	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %d: %+v", len(issues), issues)
	}
	if issues[0].Category != CategoryTransformer {
		t.Errorf("expected transformer flag first, got %s", issues[0].Category)
	}
	if issues[1].Category != CategoryEnvironmental {
		t.Errorf("expected environmental flag second, got %s", issues[1].Category)
	}
}

func TestFlagThresholdBoundaries(t *testing.T) {
	e := testEngine(t)

	t.Run("conduit count at threshold does not fire", func(t *testing.T) {
		agg := &Aggregate{ConduitRuns: []ConduitRun{{Type: ConduitEMT, Size: `3/4"`, RunCount: 50}}}
		issues, _ := e.Flag(agg, nil, "")
		if hasCategory(issues, CategoryVoltageDrop) {
			t.Errorf("flag fired at threshold, expected exclusive boundary")
		}
	})

	t.Run("conduit count one above threshold fires", func(t *testing.T) {
		agg := &Aggregate{ConduitRuns: []ConduitRun{{Type: ConduitEMT, Size: `3/4"`, RunCount: 51}}}
		issues, _ := e.Flag(agg, nil, "")
		if !hasCategory(issues, CategoryVoltageDrop) {
			t.Errorf("expected voltage-drop flag above threshold")
		}
	})

	t.Run("panel count boundary", func(t *testing.T) {
		at := &Aggregate{Panels: make([]Panel, 20)}
		if issues, _ := e.Flag(at, nil, ""); hasCategory(issues, CategoryPanelCount) {
			t.Errorf("flag fired at panel threshold")
		}

		above := &Aggregate{Panels: make([]Panel, 21)}
		if issues, _ := e.Flag(above, nil, ""); !hasCategory(issues, CategoryPanelCount) {
			t.Errorf("expected panel-count flag above threshold")
		}
	})
}

func TestFlagKeywords(t *testing.T) {
	e := testEngine(t)

	t.Run("xfmr abbreviation", func(t *testing.T) {
		issues, _ := e.Flag(&Aggregate{}, nil, Normalize("75 KVA XFMR ON ROOF"))
		if !hasCategory(issues, CategoryTransformer) {
			t.Errorf("expected transformer flag for xfmr")
		}
	})

	t.Run("nema rating triggers environmental", func(t *testing.T) {
		issues, _ := e.Flag(&Aggregate{}, nil, Normalize("DISCONNECT IN NEMA 3R ENCLOSURE"))
		if !hasCategory(issues, CategoryEnvironmental) {
			t.Errorf("expected environmental flag for NEMA 3R")
		}
	})

	t.Run("short keywords are word bounded", func(t *testing.T) {
		issues, _ := e.Flag(&Aggregate{}, nil, Normalize("TYPICAL WPANEL DETAIL"))
		if hasCategory(issues, CategoryEnvironmental) {
			t.Errorf("wp must not match inside longer words")
		}
	})

	t.Run("ground level triggers physical hazard", func(t *testing.T) {
		issues, _ := e.Flag(&Aggregate{}, nil, Normalize("RECEPTACLES AT GROUND LEVEL"))
		if !hasCategory(issues, CategoryPhysicalHazard) {
			t.Errorf("expected physical-hazard flag")
		}
	})
}

func TestFlagNotes(t *testing.T) {
	e := testEngine(t)

	agg := &Aggregate{
		Panels:        []Panel{{Name: "MDP-1"}},
		CircuitsCount: 42,
		ConduitRuns:   []ConduitRun{{Type: ConduitEMT, Size: `3/4"`, RunCount: 5}},
		ScheduleSeen:  true,
	}
	materials, _ := e.ComputeMaterials(agg)
	_, notes := e.Flag(agg, materials, "")

	want := []string{
		"✓ Panel schedule found",
		"✓ Detected 1 panels across drawing set",
		"✓ Counted 42 circuit references",
		"✓ Found 5 conduit runs",
		"✓ Material estimates include 15% overage factor",
	}
	if len(notes) != len(want) {
		t.Fatalf("expected %d notes, got %d: %v", len(want), len(notes), notes)
	}
	for i, w := range want {
		if notes[i] != w {
			t.Errorf("note %d: expected %q, got %q", i, w, notes[i])
		}
	}

	t.Run("empty aggregate yields no confirmations", func(t *testing.T) {
		_, notes := e.Flag(&Aggregate{}, nil, "")
		if len(notes) != 0 {
			t.Errorf("expected no notes, got %v", notes)
		}
	})

	t.Run("overage note follows the computed materials", func(t *testing.T) {
		// Panels are discrete units; with no circuits or conduit the only
		// line items are panels and a zero breaker line, so no overage was
		// applied and no note should claim it was.
		agg := &Aggregate{Panels: []Panel{{Name: "LP-1"}}}
		materials, _ := e.ComputeMaterials(agg)
		_, notes := e.Flag(agg, materials, "")
		for _, n := range notes {
			if strings.Contains(n, "overage") {
				t.Errorf("unexpected overage note %q for discrete-only materials", n)
			}
		}

		agg = &Aggregate{ConduitRuns: []ConduitRun{{Type: ConduitEMT, Size: `3/4"`, RunCount: 2}}}
		materials, _ = e.ComputeMaterials(agg)
		_, notes = e.Flag(agg, materials, "")
		found := false
		for _, n := range notes {
			found = found || strings.Contains(n, "overage")
		}
		if !found {
			t.Errorf("expected overage note for conduit materials, got %v", notes)
		}
	})
}

func hasCategory(issues []Issue, category string) bool {
	for _, is := range issues {
		if is.Category == category {
			return true
		}
	}
	return false
}

func TestFlagMessagesAreHumanReadable(t *testing.T) {
	e := testEngine(t)
	agg := &Aggregate{ConduitRuns: []ConduitRun{{Type: ConduitEMT, RunCount: 100}}}
	issues, _ := e.Flag(agg, nil, "")
	if len(issues) == 0 || !strings.Contains(issues[0].Message, "voltage drop") {
		t.Errorf("expected a voltage drop message, got %+v", issues)
	}
}
