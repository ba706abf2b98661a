package extract

import (
	"strings"
	"testing"

	"github.com/fieldwise/takeoff/internal/engine"
)

func TestContentText(t *testing.T) {
	t.Run("simple Tj strings", func(t *testing.T) {
		stream := `BT /F1 12 Tf 72 720 Td (PANEL MDP-1) Tj ET`
		got, err := contentText(strings.NewReader(stream))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "PANEL MDP-1\n" {
			t.Errorf("expected %q, got %q", "PANEL MDP-1\n", got)
		}
	})

	t.Run("positioning operators split lines", func(t *testing.T) {
		stream := `BT (PANEL SCHEDULE) Tj 0 -14 Td (42 CIRCUITS) Tj ET`
		got, err := contentText(strings.NewReader(stream))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := "PANEL SCHEDULE\n42 CIRCUITS\n"
		if got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})

	t.Run("TJ arrays with kerning adjustments", func(t *testing.T) {
		stream := `BT [(EMT 3/) -20 (4") -10 ( CONDUIT)] TJ ET`
		got, err := contentText(strings.NewReader(stream))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "EMT 3/4\" CONDUIT\n" {
			t.Errorf("expected conduit callout, got %q", got)
		}
	})

	t.Run("quote operators start new lines", func(t *testing.T) {
		stream := `BT (LP-1) ' (LP-2) ' ET`
		got, err := contentText(strings.NewReader(stream))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "LP-1\nLP-2\n" {
			t.Errorf("expected two lines, got %q", got)
		}
	})

	t.Run("escape sequences", func(t *testing.T) {
		stream := `BT (3\/4\" \(TYP\)) Tj ET`
		got, err := contentText(strings.NewReader(stream))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(got, `(TYP)`) {
			t.Errorf("expected parens preserved, got %q", got)
		}
	})

	t.Run("hex strings decode", func(t *testing.T) {
		// "MDP" = 4D 44 50
		stream := `BT <4D4450> Tj ET`
		got, err := contentText(strings.NewReader(stream))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "MDP\n" {
			t.Errorf("expected MDP, got %q", got)
		}
	})

	t.Run("utf16 hex strings keep latin text", func(t *testing.T) {
		// BOM FEFF then "LP" as 004C 0050
		stream := `BT <FEFF004C0050> Tj ET`
		got, err := contentText(strings.NewReader(stream))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "LP\n" {
			t.Errorf("expected LP, got %q", got)
		}
	})

	t.Run("strings bound to non-text operators are dropped", func(t *testing.T) {
		stream := `(ignored) SC BT (kept) Tj ET`
		got, err := contentText(strings.NewReader(stream))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "kept\n" {
			t.Errorf("expected only shown text, got %q", got)
		}
	})

	t.Run("empty stream", func(t *testing.T) {
		got, err := contentText(strings.NewReader(""))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "" {
			t.Errorf("expected empty text, got %q", got)
		}
	})

	t.Run("dictionaries and comments are skipped", func(t *testing.T) {
		stream := "% comment line\n<< /Type /Page >> BT (text) Tj ET"
		got, err := contentText(strings.NewReader(stream))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "text\n" {
			t.Errorf("expected text, got %q", got)
		}
	})
}

func TestParseSidecar(t *testing.T) {
	t.Run("valid sidecar", func(t *testing.T) {
		data := []byte(`{"pages":[{"page":2,"notes":["ADD EMT 1\" RUN TO ROOF"]}]}`)
		sc, err := ParseSidecar(data)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(sc.Pages) != 1 || sc.Pages[0].Page != 2 {
			t.Errorf("unexpected sidecar: %+v", sc)
		}
	})

	t.Run("missing pages key fails validation", func(t *testing.T) {
		if _, err := ParseSidecar([]byte(`{}`)); err == nil {
			t.Errorf("expected schema validation error")
		}
	})

	t.Run("page below 1 fails validation", func(t *testing.T) {
		data := []byte(`{"pages":[{"page":0,"notes":["x"]}]}`)
		if _, err := ParseSidecar(data); err == nil {
			t.Errorf("expected schema validation error")
		}
	})

	t.Run("unknown keys fail validation", func(t *testing.T) {
		data := []byte(`{"pages":[],"extra":true}`)
		if _, err := ParseSidecar(data); err == nil {
			t.Errorf("expected schema validation error")
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		if _, err := ParseSidecar([]byte(`{`)); err == nil {
			t.Errorf("expected parse error")
		}
	})
}

func TestSidecarApply(t *testing.T) {
	doc := &engine.Document{
		Filename: "site.pdf",
		Pages: []engine.Page{
			{Number: 1, Text: "PANEL MDP-1\n"},
			{Number: 2, Text: ""},
		},
	}
	sc := &Sidecar{Pages: []SidecarPage{
		{Page: 1, Notes: []string{"OUTDOOR DISCONNECT ADDED PER ADDENDUM 2"}},
		{Page: 2, Notes: []string{"6 CIRCUITS"}},
		{Page: 9, Notes: []string{"dropped, page out of range"}},
	}}

	sc.Apply(doc)

	if !strings.Contains(doc.Pages[0].Text, "ADDENDUM 2") {
		t.Errorf("expected note appended to page 1, got %q", doc.Pages[0].Text)
	}
	if doc.Pages[1].Text != "6 CIRCUITS\n" {
		t.Errorf("expected note on empty page, got %q", doc.Pages[1].Text)
	}
}

func TestSidecarPath(t *testing.T) {
	if got := SidecarPath("/plans/office-e101.pdf"); got != "/plans/office-e101.markup.json" {
		t.Errorf("unexpected sidecar path %q", got)
	}
}
