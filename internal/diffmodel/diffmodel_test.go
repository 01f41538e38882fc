package diffmodel

import "testing"

func intp(v int) *int { return &v }

func TestHunk_ToText_MixedLines(t *testing.T) {
	h := Hunk{
		Header: "@@ -5,3 +5,3 @@",
		Lines: []Line{
			{Type: Context, Content: "", OldNum: intp(5), NewNum: intp(5)},
			{Type: Add, Content: "fn foo() {}", NewNum: intp(6)},
			{Type: Delete, Content: "fn bar() {}", OldNum: intp(6)},
		},
	}
	want := "@@ -5,3 +5,3 @@\n \n+fn foo() {}\n-fn bar() {}\n"
	if got := h.ToText(); got != want {
		t.Errorf("ToText() = %q, want %q", got, want)
	}
}

func TestHunk_ToText_OnlyAdditions(t *testing.T) {
	h := Hunk{
		Header: "@@ -0,0 +1,2 @@",
		Lines: []Line{
			{Type: Add, Content: "fn first() {}", NewNum: intp(1)},
			{Type: Add, Content: "fn second() {}", NewNum: intp(2)},
		},
	}
	want := "@@ -0,0 +1,2 @@\n+fn first() {}\n+fn second() {}\n"
	if got := h.ToText(); got != want {
		t.Errorf("ToText() = %q, want %q", got, want)
	}
}

func TestHeader_ToStub(t *testing.T) {
	h := Header{Path: "a.go", Status: Renamed, OldPath: "b.go", Adds: 3, Dels: 1, HunkCount: 2}
	f := h.ToStub()
	if f.Path != "a.go" || f.OldPath != "b.go" || f.Status != Renamed {
		t.Errorf("stub identity wrong: %+v", f)
	}
	if f.Adds != 3 || f.Dels != 1 || f.RawHunkCount != 2 {
		t.Errorf("stub counters wrong: %+v", f)
	}
	if len(f.Hunks) != 0 {
		t.Errorf("stub should carry no hunks, got %d", len(f.Hunks))
	}
}

func TestEmitPatch(t *testing.T) {
	h := &Hunk{
		Header: "@@ -1,1 +1,1 @@",
		Lines: []Line{
			{Type: Delete, Content: "old", OldNum: intp(1)},
			{Type: Add, Content: "new", NewNum: intp(1)},
		},
	}
	patch := EmitPatch("main.go", h)
	want := "diff --git a/main.go b/main.go\n--- a/main.go\n+++ b/main.go\n@@ -1,1 +1,1 @@\n-old\n+new\n"
	if patch != want {
		t.Errorf("EmitPatch() = %q, want %q", patch, want)
	}
}
