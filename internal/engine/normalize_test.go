package engine

import "testing"

func TestNormalize(t *testing.T) {
	t.Run("empty input yields empty output", func(t *testing.T) {
		if got := Normalize(""); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})

	t.Run("lowercases and collapses whitespace", func(t *testing.T) {
		got := Normalize("PANEL   MDP-1\t\tSCHEDULE")
		want := "panel mdp-1 schedule"
		if got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})

	t.Run("preserves line boundaries", func(t *testing.T) {
		got := Normalize("LINE ONE\nLINE  TWO\nLINE THREE")
		want := "line one\nline two\nline three"
		if got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})

	t.Run("strips non-printable characters", func(t *testing.T) {
		got := Normalize("EMT\x00 3/4\"\x07 RUN")
		want := "emt 3/4\" run"
		if got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})

	t.Run("numeric tokens pass through unchanged", func(t *testing.T) {
		got := Normalize("480V 3/4\" 1-1/2\" 0.75 IN 225AF")
		want := "480v 3/4\" 1-1/2\" 0.75 in 225af"
		if got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})

	t.Run("drops carriage returns", func(t *testing.T) {
		got := Normalize("LINE ONE\r\nLINE TWO")
		want := "line one\nline two"
		if got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})
}
