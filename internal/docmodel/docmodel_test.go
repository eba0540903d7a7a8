package docmodel

import "testing"

func TestDocumentLines(t *testing.T) {
	d := New()
	d.Heading("The /talker node").Blank().Subheading("Parameters:").Item("~rate")

	got := d.Lines()
	want := []string{"# The /talker node", "", "## Parameters:", "- ~rate"}
	if len(got) != len(want) {
		t.Fatalf("expected %d lines, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestBytesTerminatedByNewline(t *testing.T) {
	d := New()
	d.Heading("Title")

	got := string(d.Bytes())
	if got != "# Title\n" {
		t.Errorf("expected %q, got %q", "# Title\n", got)
	}
}

func TestLinesReturnsCopy(t *testing.T) {
	d := New()
	d.Text("original")

	lines := d.Lines()
	lines[0] = "mutated"

	if d.Lines()[0] != "original" {
		t.Error("Lines must not expose internal storage")
	}
}
