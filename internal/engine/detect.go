package engine

import (
	"sort"
	"strconv"
)

type span struct{ start, end int }

func overlapsAny(spans []span, s span) bool {
	for _, c := range spans {
		if s.start < c.end && c.start < s.end {
			return true
		}
	}
	return false
}

// Detect applies the ordered rule table to one page of normalized text and
// returns candidate entities carrying page provenance. Rules anchor per
// line; within a line, each entity kind tracks consumed spans so a text
// fragment claimed by a higher-priority rule cannot produce a second,
// conflicting candidate of the same kind. Detection is pure and never
// fails: unmatched text simply yields no candidates.
func (e *Engine) Detect(page int, normalized string) []Candidate {
	if normalized == "" {
		return nil
	}

	var out []Candidate
	seq := 0
	start := 0

	for start <= len(normalized) {
		end := start
		for end < len(normalized) && normalized[end] != '\n' {
			end++
		}
		line := normalized[start:end]

		lineCands := e.detectLine(page, line, &seq)
		out = append(out, lineCands...)

		if end >= len(normalized) {
			break
		}
		start = end + 1
	}

	return preferExplicitTallies(out)
}

func (e *Engine) detectLine(page int, line string, seq *int) []Candidate {
	if line == "" {
		return nil
	}

	consumed := make(map[Kind][]span)
	var cands []Candidate

	for _, r := range e.rules {
		for _, m := range r.re.FindAllStringSubmatchIndex(line, -1) {
			sp := span{m[0], m[1]}
			if overlapsAny(consumed[r.kind], sp) {
				continue
			}
			c := r.extract(line, m)
			if c == nil {
				continue
			}
			consumed[r.kind] = append(consumed[r.kind], sp)
			c.Page = page
			c.Seq = *seq
			*seq++
			cands = append(cands, *c)
		}
	}

	attachAmperage(line, cands)
	return cands
}

// attachAmperage applies amperage qualifiers found on a line to breaker
// candidates from the same line that lack a rating. Unparseable values
// leave the rating unset; the breaker detection itself is kept.
func attachAmperage(line string, cands []Candidate) {
	matches := amperageRe.FindAllStringSubmatchIndex(line, -1)
	if len(matches) == 0 {
		return
	}

	var ratings []int
	for _, m := range matches {
		n, err := strconv.Atoi(line[m[2]:m[3]])
		if err != nil || n <= 0 {
			continue
		}
		ratings = append(ratings, n)
	}

	ri := 0
	for i := range cands {
		if ri >= len(ratings) {
			return
		}
		if cands[i].Kind != KindCircuit || cands[i].Circuit.Explicit || cands[i].Circuit.Amperage != 0 {
			continue
		}
		cands[i].Circuit.Amperage = ratings[ri]
		ri++
	}
}

// preferExplicitTallies drops enumerated breaker entries for a page when
// the page also carries an explicit "N circuits" tally. Explicit counts
// are more reliable than enumeration, which fragments across lines in CAD
// exports.
func preferExplicitTallies(cands []Candidate) []Candidate {
	hasExplicit := false
	for _, c := range cands {
		if c.Kind == KindCircuit && c.Circuit.Explicit {
			hasExplicit = true
			break
		}
	}
	if !hasExplicit {
		return cands
	}

	out := cands[:0]
	for _, c := range cands {
		if c.Kind == KindCircuit && !c.Circuit.Explicit {
			continue
		}
		out = append(out, c)
	}
	return out
}

// sortCandidates orders candidates by (page, emission sequence) so that
// aggregation is independent of the order pages were processed in.
func sortCandidates(cands []Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Page != cands[j].Page {
			return cands[i].Page < cands[j].Page
		}
		return cands[i].Seq < cands[j].Seq
	})
}
