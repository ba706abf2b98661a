package engine

import (
	"fmt"
	"math"
)

// Material line item names. Conduit and coupling lines are derived per
// (type, size) group; see conduitLineName.
const (
	itemPanels   = "Panels"
	itemBreakers = "Circuit Breakers"
	itemWire     = "THHN Wire (feet)"
)

// ComputeMaterials converts the aggregated entities into purchasable
// quantities. Consumable quantities carry the configured overage factor
// and round up (never under-provision); panels are discrete units and get
// no overage. Kinds with zero entities produce no line item, except the
// breaker line, which always appears once panels are present: a panel with
// no discovered circuits is a signal worth surfacing, returned as a note.
// The computation is deterministic and idempotent over identical input.
func (e *Engine) ComputeMaterials(agg *Aggregate) (map[string]int, []string) {
	materials := make(map[string]int)
	var notes []string

	if n := len(agg.Panels); n > 0 {
		materials[itemPanels] = n
	}

	if agg.CircuitsCount > 0 || len(agg.Panels) > 0 {
		materials[itemBreakers] = e.withOverage(agg.CircuitsCount)
		if agg.CircuitsCount == 0 {
			notes = append(notes, "Panels detected with no circuit tally - verify panel schedules for breaker counts")
		}
	}

	for _, run := range agg.ConduitRuns {
		sticks := e.withOverage(run.RunCount)
		materials[e.conduitLineName(run)] = sticks
		if run.Type != ConduitUnknown {
			materials[couplingLineName(run)] = sticks
		}
	}

	if agg.CircuitsCount > 0 {
		materials[itemWire] = e.withOverage(agg.CircuitsCount * e.cfg.WireFeetPerCircuit)
	}

	return materials, notes
}

// withOverage applies the overage factor and rounds up.
func (e *Engine) withOverage(n int) int {
	if n <= 0 {
		return 0
	}
	return int(math.Ceil(float64(n) * (1 + e.cfg.Overage)))
}

// conduitLineName renders a purchasable line for a conduit group, e.g.
// `EMT 3/4" Conduit (10' sticks)`. Unknown-typed or unsized groups still
// get a line so detected quantities are never silently dropped.
func (e *Engine) conduitLineName(run ConduitRun) string {
	switch {
	case run.Type == ConduitUnknown && run.Size == "":
		return fmt.Sprintf("Conduit (unspecified type, %d' sticks)", e.cfg.StickLengthFt)
	case run.Type == ConduitUnknown:
		return fmt.Sprintf("Conduit %s (unspecified type, %d' sticks)", run.Size, e.cfg.StickLengthFt)
	case run.Size == "":
		return fmt.Sprintf("%s Conduit (%d' sticks)", run.Type, e.cfg.StickLengthFt)
	default:
		return fmt.Sprintf("%s %s Conduit (%d' sticks)", run.Type, run.Size, e.cfg.StickLengthFt)
	}
}

// couplingLineName pairs one coupling per stick for known conduit types.
func couplingLineName(run ConduitRun) string {
	if run.Size == "" {
		return fmt.Sprintf("%s Couplings", run.Type)
	}
	return fmt.Sprintf("%s %s Couplings", run.Type, run.Size)
}
