// Package engine implements the drawing analysis pipeline: per-page text
// normalization and entity detection, cross-page aggregation, material
// takeoff computation, and risk flagging for electrical construction
// drawings.
package engine

import "time"

// PanelType classifies a detected distribution panel.
type PanelType string

const (
	PanelDistribution    PanelType = "distribution"
	PanelSubDistribution PanelType = "sub_distribution"
	PanelLighting        PanelType = "lighting"
	PanelPower           PanelType = "power"
	PanelUnknown         PanelType = "unknown"
)

// PoleConfig is the pole configuration of a breaker entry.
type PoleConfig string

const (
	SinglePole  PoleConfig = "1-pole"
	TwoPole     PoleConfig = "2-pole"
	ThreePole   PoleConfig = "3-pole"
	PoleUnknown PoleConfig = "unknown"
)

// ConduitType is a raceway type abbreviation as noted on drawings.
type ConduitType string

const (
	ConduitEMT     ConduitType = "EMT"
	ConduitRGS     ConduitType = "RGS"
	ConduitIMC     ConduitType = "IMC"
	ConduitPVC     ConduitType = "PVC"
	ConduitFMC     ConduitType = "FMC"
	ConduitUnknown ConduitType = "unknown"
)

// Page is one page of extracted drawing text. Page numbers start at 1.
// Empty text is valid (image-only pages contribute no candidates).
type Page struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
}

// Document is the unit of analysis: a drawing file reduced to per-page text.
type Document struct {
	Filename string `json:"filename"`
	Pages    []Page `json:"pages"`
}

// Panel is an aggregated distribution panel. A designator observed on
// multiple pages aggregates into one Panel with unioned source pages.
type Panel struct {
	Name        string    `json:"name"`
	Type        PanelType `json:"type"`
	SourcePages []int     `json:"source_pages"`
}

// ConduitRun is an aggregated group of conduit observations. (Type, Size)
// is the aggregation key; RunCount is the number of distinct runs observed,
// not physical length.
type ConduitRun struct {
	Type     ConduitType `json:"type"`
	Size     string      `json:"size"`
	RunCount int         `json:"run_count"`
}

// Issue is one risk flag. Category is stable across wording changes so
// batch summaries can union categories; Message is the display string.
type Issue struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// AnalysisResult is the final structured result for one document.
// Constructed once by Analyze and immutable thereafter.
type AnalysisResult struct {
	ID             string         `json:"id"`
	Filename       string         `json:"filename"`
	Pages          int            `json:"pages"`
	PanelsDetected []Panel        `json:"panels_detected"`
	CircuitsCount  int            `json:"circuits_count"`
	ConduitRuns    []ConduitRun   `json:"conduit_runs"`
	Materials      map[string]int `json:"materials"`
	FlaggedIssues  []string       `json:"flagged_issues"`
	Issues         []Issue        `json:"issues"`
	Notes          []string       `json:"notes"`
	AnalyzedAt     time.Time      `json:"analyzed_at"`
}

// BatchResult holds per-document results in input order plus totals
// computed by associative reduction over the per-document materials.
type BatchResult struct {
	TotalFiles      int               `json:"total_files"`
	Results         []*AnalysisResult `json:"results"`
	TotalMaterials  map[string]int    `json:"total_materials"`
	IssueCategories []string          `json:"issue_categories"`
}

// Kind discriminates candidate entities emitted by the detector.
type Kind string

const (
	KindPanel   Kind = "panel"
	KindCircuit Kind = "circuit"
	KindConduit Kind = "conduit"
	KindContext Kind = "context"
)

// Candidate is an unconfirmed detection carrying page provenance.
// Exactly one of the entity payloads is set, matching Kind.
type Candidate struct {
	Kind Kind
	Page int
	Seq  int // emission order within the page, for deterministic tie-breaks

	Panel   *PanelCandidate
	Circuit *CircuitCandidate
	Conduit *ConduitCandidate
	Context string // context marker label, e.g. "panel_schedule"
}

// PanelCandidate is a single panel designator observation.
type PanelCandidate struct {
	Name string
	Type PanelType
}

// CircuitCandidate is either an explicit breaker tally ("42 circuits") or a
// single enumerated breaker entry. When a page carries both, explicit
// tallies win and enumerated entries on that page are discarded.
type CircuitCandidate struct {
	Count    int
	Explicit bool
	Poles    PoleConfig
	Amperage int // 0 when absent or unparseable
}

// ConduitCandidate is one conduit observation before grouping.
type ConduitCandidate struct {
	Type  ConduitType
	Size  string
	Count int
}

// Aggregate is the consolidated per-document view produced by aggregating
// candidates across all pages.
type Aggregate struct {
	Panels        []Panel
	CircuitsCount int
	ConduitRuns   []ConduitRun
	ScheduleSeen  bool
	Notes         []string // attribute-conflict notes, deterministic order
}

// TotalConduitRuns sums run counts across all conduit groups.
func (a *Aggregate) TotalConduitRuns() int {
	total := 0
	for _, c := range a.ConduitRuns {
		total += c.RunCount
	}
	return total
}
