package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// rule is one entry in the ordered detection table. Rules are evaluated in
// ascending priority; a span consumed by a higher-priority rule is not
// re-matched by a lower-priority rule of the same kind. An extractor may
// return nil to decline a match without consuming its span.
type rule struct {
	kind     Kind
	name     string
	priority int
	re       *regexp.Regexp
	extract  func(line string, m []int) *Candidate
}

// Regex fragments shared across conduit rules. Sizes cover fractions
// ("3/4"), mixed numbers ("1-1/2") and decimals ("0.75"); the inch marker
// captures quote and spelled forms, hyphenated or not ("3/4-inch"). The
// marker is optional at the pattern level so spellings like "3/4 EMT" can
// match; extractors require it for bare integers, where a naked number is
// more likely a count than a trade size. Detection runs on normalized
// (lowercased) text.
const (
	conduitTypePat = `(emt|rgs|imc|pvc|fmc)`
	conduitSizePat = `([0-9]+(?:-[0-9]+/[0-9]+|/[0-9]+|\.[0-9]+)?)(\s*-?\s*(?:"|''|in\.|inch(?:es)?\b|in\b))?`
)

var panelPrefixTypes = map[string]PanelType{
	"mdp": PanelDistribution,
	"sdp": PanelSubDistribution,
	"lp":  PanelLighting,
	"pp":  PanelPower,
}

// panelContextWords are the words following "panel" that denote schedule
// headers rather than designators.
var panelContextWords = map[string]bool{
	"schedule":  true,
	"schedules": true,
	"board":     true,
	"boards":    true,
}

// defaultRules builds the detection table. Order within a priority tier
// follows declaration order; the table is sorted by priority once at
// engine construction.
func defaultRules() []rule {
	return []rule{
		{
			kind:     KindPanel,
			name:     "panel-designator",
			priority: 10,
			re:       regexp.MustCompile(`\b(mdp|sdp|lp|pp)\s?-?\s?([0-9]+[a-z]?)\b`),
			extract:  extractPanelDesignator,
		},
		{
			kind:     KindPanel,
			name:     "panel-designator-bare",
			priority: 15,
			re:       regexp.MustCompile(`\b(mdp|sdp)\b`),
			extract:  extractBarePanel,
		},
		{
			kind:     KindPanel,
			name:     "panel-named",
			priority: 20,
			re:       regexp.MustCompile(`\bpanel\s+([a-z][a-z0-9]*(?:-[a-z0-9]+)*)\b`),
			extract:  extractNamedPanel,
		},
		{
			kind:     KindContext,
			name:     "panel-schedule-context",
			priority: 30,
			re:       regexp.MustCompile(`\bpanel\s?boards?\b|\bpanel\s+schedules?\b`),
			extract: func(string, []int) *Candidate {
				return &Candidate{Kind: KindContext, Context: "panel_schedule"}
			},
		},
		{
			kind:     KindCircuit,
			name:     "circuit-tally",
			priority: 10,
			re:       regexp.MustCompile(`\b([0-9]+)\s*(?:circuits|ckts)\b`),
			extract:  extractCircuitTally,
		},
		{
			kind:     KindCircuit,
			name:     "breaker-pole",
			priority: 20,
			re:       regexp.MustCompile(`\b([123])\s?-?\s?p(?:ole)?\b`),
			extract:  extractBreakerPole,
		},
		{
			kind:     KindCircuit,
			name:     "circuit-ref",
			priority: 30,
			re:       regexp.MustCompile(`\bcircuit\s+#?[0-9]+\b`),
			extract: func(string, []int) *Candidate {
				return &Candidate{Kind: KindCircuit, Circuit: &CircuitCandidate{Count: 1, Poles: PoleUnknown}}
			},
		},
		{
			kind:     KindConduit,
			name:     "conduit-type-size",
			priority: 10,
			re: regexp.MustCompile(
				`(?:\b([0-9]+)\s+runs?\s+of\s+)?\b` + conduitTypePat + `\b(?:\s+conduit)?[,:]?\s*` +
					conduitSizePat + `(?:\s*[,x-]?\s*([0-9]+)\s+runs?\b)?`),
			extract: extractConduitTypeSize,
		},
		{
			kind:     KindConduit,
			name:     "conduit-size-type",
			priority: 20,
			re: regexp.MustCompile(
				`(?:\b([0-9]+)\s+runs?\s+of\s+)?` + conduitSizePat + `\s*` + conduitTypePat +
					`\b(?:\s*,?\s*([0-9]+)\s+runs?\b)?`),
			extract: extractConduitSizeType,
		},
		{
			kind:     KindConduit,
			name:     "conduit-type-only",
			priority: 30,
			re:       regexp.MustCompile(`\b` + conduitTypePat + `\s+conduit\b`),
			extract: func(line string, m []int) *Candidate {
				return &Candidate{Kind: KindConduit, Conduit: &ConduitCandidate{
					Type:  ConduitType(strings.ToUpper(group(line, m, 1))),
					Size:  "",
					Count: 1,
				}}
			},
		},
		{
			kind:     KindConduit,
			name:     "conduit-size-only",
			priority: 40,
			re:       regexp.MustCompile(conduitSizePat + `\s+conduit\b`),
			extract: func(line string, m []int) *Candidate {
				if !sizeDetected(group(line, m, 1), group(line, m, 2)) {
					return nil
				}
				return &Candidate{Kind: KindConduit, Conduit: &ConduitCandidate{
					Type:  ConduitUnknown,
					Size:  canonicalSize(group(line, m, 1)),
					Count: 1,
				}}
			},
		},
	}
}

// amperageRe matches amperage qualifiers; applied as a post-pass that
// attaches ratings to breaker candidates on the same line rather than as a
// counting rule (a bare "100a" is a rating, not a circuit).
var amperageRe = regexp.MustCompile(`\b([0-9]+)\s*(?:amps?|a)\b`)

// group returns submatch i of a FindAllStringSubmatchIndex result, or ""
// when the group did not participate.
func group(line string, m []int, i int) string {
	if 2*i+1 >= len(m) || m[2*i] < 0 {
		return ""
	}
	return line[m[2*i]:m[2*i+1]]
}

func extractPanelDesignator(line string, m []int) *Candidate {
	prefix := group(line, m, 1)
	suffix := group(line, m, 2)
	return &Candidate{Kind: KindPanel, Panel: &PanelCandidate{
		Name: canonicalPanelName(prefix, suffix),
		Type: panelPrefixTypes[prefix],
	}}
}

func extractBarePanel(line string, m []int) *Candidate {
	prefix := group(line, m, 1)
	return &Candidate{Kind: KindPanel, Panel: &PanelCandidate{
		Name: strings.ToUpper(prefix),
		Type: panelPrefixTypes[prefix],
	}}
}

// extractNamedPanel handles "panel <id>". Schedule-header words decline the
// match so the context rule can see the span. Recognized designator
// prefixes carry their type; anything else is a panel of unknown type
// (panel-like context is established by the "panel" keyword itself).
func extractNamedPanel(line string, m []int) *Candidate {
	id := group(line, m, 1)
	if panelContextWords[id] {
		return nil
	}
	pt := PanelUnknown
	for prefix, t := range panelPrefixTypes {
		if strings.HasPrefix(id, prefix) {
			rest := id[len(prefix):]
			if rest == "" || rest[0] == '-' || (rest[0] >= '0' && rest[0] <= '9') {
				pt = t
			}
			break
		}
	}
	return &Candidate{Kind: KindPanel, Panel: &PanelCandidate{
		Name: strings.ToUpper(id),
		Type: pt,
	}}
}

func extractCircuitTally(line string, m []int) *Candidate {
	n, err := strconv.Atoi(group(line, m, 1))
	if err != nil || n < 0 {
		// Malformed tally: keep the detection but fall back to a single
		// unqualified entry rather than discarding it.
		return &Candidate{Kind: KindCircuit, Circuit: &CircuitCandidate{Count: 1, Poles: PoleUnknown}}
	}
	return &Candidate{Kind: KindCircuit, Circuit: &CircuitCandidate{
		Count:    n,
		Explicit: true,
		Poles:    PoleUnknown,
	}}
}

func extractBreakerPole(line string, m []int) *Candidate {
	poles := PoleUnknown
	switch group(line, m, 1) {
	case "1":
		poles = SinglePole
	case "2":
		poles = TwoPole
	case "3":
		poles = ThreePole
	}
	return &Candidate{Kind: KindCircuit, Circuit: &CircuitCandidate{Count: 1, Poles: poles}}
}

func extractConduitTypeSize(line string, m []int) *Candidate {
	if !sizeDetected(group(line, m, 3), group(line, m, 4)) {
		return nil
	}
	return conduitCandidate(group(line, m, 2), group(line, m, 3), group(line, m, 1), group(line, m, 5))
}

func extractConduitSizeType(line string, m []int) *Candidate {
	if !sizeDetected(group(line, m, 2), group(line, m, 3)) {
		return nil
	}
	return conduitCandidate(group(line, m, 4), group(line, m, 2), group(line, m, 1), group(line, m, 5))
}

// sizeDetected reports whether a matched number is credibly a trade size.
// Fractions, mixed numbers and decimals stand on their own; a bare integer
// needs explicit inch notation ("EMT 4" names a size, "EMT 4 RUNS" does
// not).
func sizeDetected(size, marker string) bool {
	if size == "" {
		return false
	}
	return marker != "" || strings.ContainsAny(size, "/.")
}

func conduitCandidate(typ, size, leadCount, trailCount string) *Candidate {
	count := 1
	for _, s := range []string{leadCount, trailCount} {
		if s == "" {
			continue
		}
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			count = n
			break
		}
		// Malformed run count: record the observation as one run.
	}
	return &Candidate{Kind: KindConduit, Conduit: &ConduitCandidate{
		Type:  ConduitType(strings.ToUpper(typ)),
		Size:  canonicalSize(size),
		Count: count,
	}}
}

// canonicalSize renders a matched size token in drawing convention, e.g.
// `3/4"` or `1-1/2"`. The numeric value is never altered.
func canonicalSize(size string) string {
	if size == "" {
		return ""
	}
	return fmt.Sprintf("%s\"", size)
}

func canonicalPanelName(prefix, suffix string) string {
	if suffix == "" {
		return strings.ToUpper(prefix)
	}
	return strings.ToUpper(prefix) + "-" + strings.ToUpper(suffix)
}
