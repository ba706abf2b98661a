package engine

import (
	"fmt"
	"sort"
)

// AggregateCandidates merges candidate entities from all pages of one
// document into a consolidated view. The reduction is order-independent:
// candidates are sorted by (page, sequence) first, so shuffling page order
// upstream yields an identical Aggregate.
//
// Panels group by designator with unioned source pages; a non-Unknown type
// beats Unknown, and when two non-Unknown types conflict the first-seen
// (by page order) wins and the conflict is surfaced as a note. Circuits
// sum to a single count. Conduit groups by (type, size); unknown-typed
// observations are kept apart from known types even on a size match, since
// type drives material selection.
func AggregateCandidates(cands []Candidate) *Aggregate {
	sorted := make([]Candidate, len(cands))
	copy(sorted, cands)
	sortCandidates(sorted)

	agg := &Aggregate{}

	type panelState struct {
		panel     *Panel
		typePage  int
		pageSet   map[int]bool
		conflicts []string
	}
	panels := make(map[string]*panelState)
	var panelOrder []string

	type conduitKey struct {
		typ  ConduitType
		size string
	}
	conduits := make(map[conduitKey]*ConduitRun)
	var conduitOrder []conduitKey

	for _, c := range sorted {
		switch c.Kind {
		case KindPanel:
			name := c.Panel.Name
			ps, ok := panels[name]
			if !ok {
				ps = &panelState{
					panel:    &Panel{Name: name, Type: c.Panel.Type},
					typePage: c.Page,
					pageSet:  make(map[int]bool),
				}
				panels[name] = ps
				panelOrder = append(panelOrder, name)
			}
			ps.pageSet[c.Page] = true

			switch {
			case c.Panel.Type == PanelUnknown || c.Panel.Type == ps.panel.Type:
				// No new information.
			case ps.panel.Type == PanelUnknown:
				ps.panel.Type = c.Panel.Type
				ps.typePage = c.Page
			default:
				ps.conflicts = append(ps.conflicts, fmt.Sprintf(
					"Panel %s type conflict: reported as %s on page %d, keeping %s (first seen on page %d)",
					name, c.Panel.Type, c.Page, ps.panel.Type, ps.typePage))
			}

		case KindCircuit:
			agg.CircuitsCount += c.Circuit.Count

		case KindConduit:
			key := conduitKey{c.Conduit.Type, c.Conduit.Size}
			run, ok := conduits[key]
			if !ok {
				run = &ConduitRun{Type: key.typ, Size: key.size}
				conduits[key] = run
				conduitOrder = append(conduitOrder, key)
			}
			run.RunCount += c.Conduit.Count

		case KindContext:
			if c.Context == "panel_schedule" {
				agg.ScheduleSeen = true
			}
		}
	}

	for _, name := range panelOrder {
		ps := panels[name]
		pages := make([]int, 0, len(ps.pageSet))
		for p := range ps.pageSet {
			pages = append(pages, p)
		}
		sort.Ints(pages)
		ps.panel.SourcePages = pages
		agg.Panels = append(agg.Panels, *ps.panel)
		agg.Notes = append(agg.Notes, ps.conflicts...)
	}

	for _, key := range conduitOrder {
		agg.ConduitRuns = append(agg.ConduitRuns, *conduits[key])
	}

	return agg
}
