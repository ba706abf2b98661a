package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Input-contract violations are the only errors the engine raises.
// Everything about drawing content, however messy, is degraded-but-valid
// data surfaced through notes.
var (
	ErrMissingFilename   = errors.New("document filename is required")
	ErrInvalidPageNumber = errors.New("page numbers must start at 1")
)

// Config holds the documented engine constants. Thresholds and keyword
// lists are deliberately configuration, not magic numbers; defaults follow
// the conventions the service has always shipped with.
type Config struct {
	// Overage is the waste/rework buffer applied once to consumable
	// material tallies. 0.15 = 15%.
	Overage float64 `mapstructure:"overage" yaml:"overage"`

	// HighConduitRuns is the exclusive threshold above which the
	// voltage-drop flag fires.
	HighConduitRuns int `mapstructure:"high_conduit_runs" yaml:"high_conduit_runs"`

	// HighPanelCount is the exclusive threshold above which the
	// high-panel-count flag fires.
	HighPanelCount int `mapstructure:"high_panel_count" yaml:"high_panel_count"`

	// StickLengthFt is the purchasing convention for conduit sticks.
	StickLengthFt int `mapstructure:"stick_length_ft" yaml:"stick_length_ft"`

	// WireFeetPerCircuit is the rough wire footage estimate per circuit.
	WireFeetPerCircuit int `mapstructure:"wire_feet_per_circuit" yaml:"wire_feet_per_circuit"`

	// OutdoorKeywords trigger the environmental-exposure flag.
	OutdoorKeywords []string `mapstructure:"outdoor_keywords" yaml:"outdoor_keywords"`

	// GroundKeywords trigger the physical-hazard flag.
	GroundKeywords []string `mapstructure:"ground_keywords" yaml:"ground_keywords"`

	// BatchWorkers bounds parallel document analysis in a batch.
	BatchWorkers int `mapstructure:"batch_workers" yaml:"batch_workers"`
}

// DefaultConfig returns the shipped defaults.
func DefaultConfig() Config {
	return Config{
		Overage:            0.15,
		HighConduitRuns:    50,
		HighPanelCount:     20,
		StickLengthFt:      10,
		WireFeetPerCircuit: 50,
		OutdoorKeywords:    []string{"outdoor", "exterior", "weatherproof", "wp", "nema 3r", "nema 4"},
		GroundKeywords:     []string{"ground level", "slab", "floor"},
		BatchWorkers:       4,
	}
}

// Engine runs the analysis pipeline. It is stateless between invocations:
// every Analyze call is a pure function of its input pages, so a single
// Engine may serve any number of concurrent callers.
type Engine struct {
	cfg        Config
	rules      []rule
	outdoorRes []*regexp.Regexp
	groundRes  []*regexp.Regexp
	logger     *slog.Logger
}

// New builds an Engine from config, compiling the rule table and keyword
// matchers once. Zero-valued config fields fall back to defaults.
func New(cfg Config, logger *slog.Logger) *Engine {
	def := DefaultConfig()
	if cfg.Overage <= 0 {
		cfg.Overage = def.Overage
	}
	if cfg.HighConduitRuns <= 0 {
		cfg.HighConduitRuns = def.HighConduitRuns
	}
	if cfg.HighPanelCount <= 0 {
		cfg.HighPanelCount = def.HighPanelCount
	}
	if cfg.StickLengthFt <= 0 {
		cfg.StickLengthFt = def.StickLengthFt
	}
	if cfg.WireFeetPerCircuit <= 0 {
		cfg.WireFeetPerCircuit = def.WireFeetPerCircuit
	}
	if len(cfg.OutdoorKeywords) == 0 {
		cfg.OutdoorKeywords = def.OutdoorKeywords
	}
	if len(cfg.GroundKeywords) == 0 {
		cfg.GroundKeywords = def.GroundKeywords
	}
	if cfg.BatchWorkers <= 0 {
		cfg.BatchWorkers = def.BatchWorkers
	}
	if logger == nil {
		logger = slog.Default()
	}

	rules := defaultRules()
	sort.SliceStable(rules, func(i, j int) bool { return rules[i].priority < rules[j].priority })

	return &Engine{
		cfg:        cfg,
		rules:      rules,
		outdoorRes: compileKeywords(cfg.OutdoorKeywords),
		groundRes:  compileKeywords(cfg.GroundKeywords),
		logger:     logger,
	}
}

// Config returns the resolved engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// Analyze runs one document through the full pipeline:
// normalize → detect (per page) → aggregate → materials → flags → result.
// Pages may arrive in any order; aggregation is order-independent. Empty
// pages contribute no candidates and never fail. The only errors are
// input-contract violations (missing filename, page number < 1).
func (e *Engine) Analyze(filename string, pages []Page) (*AnalysisResult, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, ErrMissingFilename
	}
	for _, p := range pages {
		if p.Number < 1 {
			return nil, fmt.Errorf("%w: got page %d", ErrInvalidPageNumber, p.Number)
		}
	}

	var candidates []Candidate
	var corpus strings.Builder
	hasText := false

	for _, p := range pages {
		normalized := Normalize(p.Text)
		if strings.TrimSpace(normalized) != "" {
			hasText = true
		}
		candidates = append(candidates, e.Detect(p.Number, normalized)...)
		corpus.WriteString(normalized)
		corpus.WriteByte('\n')
	}

	agg := AggregateCandidates(candidates)
	materials, materialNotes := e.ComputeMaterials(agg)
	issues, confirmations := e.Flag(agg, materials, corpus.String())

	notes := make([]string, 0, len(confirmations)+len(materialNotes)+len(agg.Notes)+1)
	notes = append(notes, confirmations...)
	notes = append(notes, materialNotes...)
	notes = append(notes, agg.Notes...)
	if !hasText {
		notes = append(notes, "No machine-readable text found - pages may be scanned images requiring OCR")
	}

	messages := make([]string, len(issues))
	for i, is := range issues {
		messages[i] = is.Message
	}

	result := &AnalysisResult{
		ID:             uuid.New().String(),
		Filename:       filename,
		Pages:          len(pages),
		PanelsDetected: agg.Panels,
		CircuitsCount:  agg.CircuitsCount,
		ConduitRuns:    agg.ConduitRuns,
		Materials:      materials,
		FlaggedIssues:  messages,
		Issues:         issues,
		Notes:          notes,
		AnalyzedAt:     time.Now().UTC(),
	}

	e.logger.Debug("analysis complete",
		"filename", filename,
		"pages", len(pages),
		"panels", len(agg.Panels),
		"circuits", agg.CircuitsCount,
		"conduit_groups", len(agg.ConduitRuns),
		"issues", len(issues))

	return result, nil
}

// AnalyzeBatch runs the pipeline once per document over a bounded worker
// pool and reduces per-document materials and issue categories into batch
// totals. Results keep input order. Documents share no state, so the runs
// are fully parallel; the final reduction is associative and
// order-independent. Any input-contract violation fails the whole batch.
func (e *Engine) AnalyzeBatch(docs []Document) (*BatchResult, error) {
	batch := &BatchResult{
		TotalFiles:     len(docs),
		Results:        make([]*AnalysisResult, len(docs)),
		TotalMaterials: make(map[string]int),
	}
	if len(docs) == 0 {
		return batch, nil
	}

	type outcome struct {
		idx    int
		result *AnalysisResult
		err    error
	}

	results := make(chan outcome, len(docs))
	sem := make(chan struct{}, e.cfg.BatchWorkers)

	for i, doc := range docs {
		sem <- struct{}{} // acquire
		go func(idx int, d Document) {
			defer func() { <-sem }() // release
			r, err := e.Analyze(d.Filename, d.Pages)
			results <- outcome{idx: idx, result: r, err: err}
		}(i, doc)
	}

	var firstErr error
	for range docs {
		o := <-results
		if o.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("document %d: %w", o.idx, o.err)
			}
			continue
		}
		batch.Results[o.idx] = o.result
	}
	if firstErr != nil {
		return nil, firstErr
	}

	categories := make(map[string]bool)
	for _, r := range batch.Results {
		for name, qty := range r.Materials {
			batch.TotalMaterials[name] += qty
		}
		for _, is := range r.Issues {
			categories[is.Category] = true
		}
	}
	for c := range categories {
		batch.IssueCategories = append(batch.IssueCategories, c)
	}
	sort.Strings(batch.IssueCategories)

	return batch, nil
}
