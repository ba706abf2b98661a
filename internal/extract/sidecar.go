package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	_ "embed"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/fieldwise/takeoff/internal/engine"
)

//go:embed sidecar.schema.json
var sidecarSchemaJSON []byte

// Sidecar carries field markup recorded alongside a drawing PDF. Estimators
// use it to note things the plotter never printed, like an addendum scrawled
// on the field set. Notes are appended to the page text so they take part
// in detection like any other callout.
type Sidecar struct {
	Pages []SidecarPage `json:"pages"`
}

// SidecarPage is the markup for a single sheet.
type SidecarPage struct {
	Page  int      `json:"page"`
	Notes []string `json:"notes,omitempty"`
}

// SidecarPath returns the markup file path for a drawing PDF.
// e.g. "office-e101.pdf" -> "office-e101.markup.json"
func SidecarPath(pdfPath string) string {
	base := strings.TrimSuffix(pdfPath, ".pdf")
	return base + ".markup.json"
}

// LoadSidecar reads and validates a markup sidecar. A missing file is not
// an error; the returned sidecar is nil.
func LoadSidecar(path string) (*Sidecar, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read markup sidecar: %w", err)
	}
	return ParseSidecar(data)
}

// ParseSidecar validates raw sidecar JSON against the markup schema and
// decodes it.
func ParseSidecar(data []byte) (*Sidecar, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("markup.schema.json", bytes.NewReader(sidecarSchemaJSON)); err != nil {
		return nil, fmt.Errorf("failed to load markup schema: %w", err)
	}
	schema, err := compiler.Compile("markup.schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile markup schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("markup sidecar is not valid JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("markup sidecar does not match schema: %w", err)
	}

	var sc Sidecar
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to decode markup sidecar: %w", err)
	}
	return &sc, nil
}

// Apply appends sidecar notes to the matching pages of a document. Notes
// for pages past the end of the document are dropped; markup files often
// outlive a re-plotted drawing set.
func (s *Sidecar) Apply(doc *engine.Document) {
	for _, mp := range s.Pages {
		if mp.Page < 1 || mp.Page > len(doc.Pages) {
			continue
		}
		if len(mp.Notes) == 0 {
			continue
		}
		p := &doc.Pages[mp.Page-1]
		var sb strings.Builder
		sb.WriteString(p.Text)
		for _, note := range mp.Notes {
			if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
				sb.WriteByte('\n')
			}
			sb.WriteString(note)
			sb.WriteByte('\n')
		}
		p.Text = sb.String()
	}
}
