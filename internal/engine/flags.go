package engine

import (
	"fmt"
	"regexp"
	"strings"
)

// Issue categories, in predicate evaluation order. Consumers may rely on
// flag ordering for display priority.
const (
	CategoryVoltageDrop    = "voltage-drop"
	CategoryTransformer    = "transformer"
	CategoryEnvironmental  = "environmental"
	CategoryPhysicalHazard = "physical-hazard"
	CategoryPanelCount     = "panel-count"
)

var transformerRe = regexp.MustCompile(`\btransformers?\b|\bxfmr\b`)

// Flag evaluates the fixed, ordered list of risk predicates against the
// aggregated entities and the combined normalized text corpus. Predicates
// are independent and side-effect-free; any number may fire. Informational
// confirmations are returned separately as notes so reports can
// distinguish "found and fine" from "found and flagged".
func (e *Engine) Flag(agg *Aggregate, materials map[string]int, corpus string) ([]Issue, []string) {
	var issues []Issue

	if agg.TotalConduitRuns() > e.cfg.HighConduitRuns {
		issues = append(issues, Issue{
			Category: CategoryVoltageDrop,
			Message:  "⚠️ High conduit count detected - verify voltage drop calculations",
		})
	}

	if transformerRe.MatchString(corpus) {
		issues = append(issues, Issue{
			Category: CategoryTransformer,
			Message:  "🔌 Transformer detected - verify primary/secondary sizing",
		})
	}

	if matchesAny(e.outdoorRes, corpus) {
		issues = append(issues, Issue{
			Category: CategoryEnvironmental,
			Message:  "🌧️ Outdoor location - consider weatherproof/rigid conduit instead of EMT",
		})
	}

	if matchesAny(e.groundRes, corpus) {
		issues = append(issues, Issue{
			Category: CategoryPhysicalHazard,
			Message:  "⚡ Ground level installation - may require rigid conduit in strikable areas",
		})
	}

	if len(agg.Panels) > e.cfg.HighPanelCount {
		issues = append(issues, Issue{
			Category: CategoryPanelCount,
			Message:  "📋 High panel count - verify load calculations and service sizing",
		})
	}

	return issues, e.confirmations(agg, materials)
}

func (e *Engine) confirmations(agg *Aggregate, materials map[string]int) []string {
	var notes []string

	if agg.ScheduleSeen {
		notes = append(notes, "✓ Panel schedule found")
	}
	if n := len(agg.Panels); n > 0 {
		notes = append(notes, fmt.Sprintf("✓ Detected %d panels across drawing set", n))
	}
	if agg.CircuitsCount > 0 {
		notes = append(notes, fmt.Sprintf("✓ Counted %d circuit references", agg.CircuitsCount))
	}
	if n := agg.TotalConduitRuns(); n > 0 {
		notes = append(notes, fmt.Sprintf("✓ Found %d conduit runs", n))
	}
	if materialsCarryOverage(materials) {
		notes = append(notes, fmt.Sprintf("✓ Material estimates include %.0f%% overage factor", e.cfg.Overage*100))
	}

	return notes
}

// materialsCarryOverage reports whether any computed line item carries the
// overage factor. Panels are discrete units and are excluded; a zero
// quantity means no overage was applied.
func materialsCarryOverage(materials map[string]int) bool {
	for item, qty := range materials {
		if item != itemPanels && qty > 0 {
			return true
		}
	}
	return false
}

// matchesAny checks the corpus against a compiled keyword list.
func matchesAny(res []*regexp.Regexp, corpus string) bool {
	for _, re := range res {
		if re.MatchString(corpus) {
			return true
		}
	}
	return false
}

// compileKeywords turns configured keyword phrases into word-bounded
// matchers so short tokens like "wp" cannot match inside longer words.
func compileKeywords(keywords []string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		res = append(res, regexp.MustCompile(`\b`+regexp.QuoteMeta(k)+`\b`))
	}
	return res
}
