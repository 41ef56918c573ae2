package text

import "testing"

func TestFixedMeasurer(t *testing.T) {
	m := FixedMeasurer{CharWidth: 10, Ascent: 12, Descent: 4}
	if got := m.Advance("abc", Font{Size: 16}); got != 30 {
		t.Errorf("Advance = %v, want 30", got)
	}
	if got := m.Advance("", Font{}); got != 0 {
		t.Errorf("Advance(\"\") = %v, want 0", got)
	}
	mt := m.Metrics(Font{Size: 99})
	if mt.Ascent != 12 || mt.Descent != 4 {
		t.Errorf("Metrics = %+v", mt)
	}
}

func TestApproximateScalesWithSize(t *testing.T) {
	var m Approximate
	small := m.Advance("word", Font{Size: 10})
	large := m.Advance("word", Font{Size: 20})
	if large != 2*small {
		t.Errorf("advance must scale linearly with size: %v vs %v", small, large)
	}
	mt := m.Metrics(Font{Size: 10})
	if mt.Ascent+mt.Descent <= 0 {
		t.Error("line extent must be positive")
	}
}

func TestFontPathsFallback(t *testing.T) {
	fp := FontPaths{Regular: "r.ttf", Bold: "b.ttf"}
	if got := fp.path(Font{Bold: true}); got != "b.ttf" {
		t.Errorf("bold path = %q", got)
	}
	if got := fp.path(Font{Italic: true}); got != "r.ttf" {
		t.Errorf("missing italic must fall back to regular, got %q", got)
	}
}

func TestDefaultNeverNil(t *testing.T) {
	if Default() == nil {
		t.Fatal("Default must always return a usable measurer")
	}
}
