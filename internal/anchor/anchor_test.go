package anchor

import (
	"reflect"
	"testing"

	"github.com/shhac/erview/internal/diffmodel"
)

func intp(v int) *int { return &v }

func ctx(content string, old, new int) diffmodel.Line {
	return diffmodel.Line{Type: diffmodel.Context, Content: content, OldNum: &old, NewNum: &new}
}

func del(content string, old int) diffmodel.Line {
	return diffmodel.Line{Type: diffmodel.Delete, Content: content, OldNum: &old}
}

func TestCapture_ContextOrdering(t *testing.T) {
	file := diffmodel.File{
		Path: "test.go",
		Hunks: []diffmodel.Hunk{
			{
				Header: "@@ -1,5 +1,5 @@",
				Lines: []diffmodel.Line{
					ctx("one", 1, 1),
					ctx("two", 2, 2),
					ctx("three", 3, 3),
					ctx("target", 4, 4),
					ctx("five", 5, 5),
					ctx("six", 6, 6),
					ctx("seven", 7, 7),
				},
			},
		},
	}

	a := Capture(file, 0, intp(4))

	if a.LineContent != "target" {
		t.Fatalf("LineContent = %q, want target", a.LineContent)
	}
	// Nearest-line-last ordering: the line immediately above ("three") must
	// be the final element so relocate's reversed-context scan (offset 0 =
	// nearest) lines up.
	wantBefore := []string{"one", "two", "three"}
	if !reflect.DeepEqual(a.ContextBefore, wantBefore) {
		t.Errorf("ContextBefore = %v, want %v", a.ContextBefore, wantBefore)
	}
	wantAfter := []string{"five", "six", "seven"}
	if !reflect.DeepEqual(a.ContextAfter, wantAfter) {
		t.Errorf("ContextAfter = %v, want %v", a.ContextAfter, wantAfter)
	}
}

func TestCapture_SkipsDeleteLines(t *testing.T) {
	file := diffmodel.File{
		Hunks: []diffmodel.Hunk{
			{
				Lines: []diffmodel.Line{
					ctx("one", 1, 1),
					del("deleted-above", 2),
					ctx("target", 3, 2),
					del("deleted-below", 4),
					ctx("three", 5, 3),
				},
			},
		},
	}

	a := Capture(file, 0, intp(2))

	if len(a.ContextBefore) != 1 || a.ContextBefore[0] != "one" {
		t.Errorf("ContextBefore = %v, want [one] (delete line skipped)", a.ContextBefore)
	}
	if len(a.ContextAfter) != 1 || a.ContextAfter[0] != "three" {
		t.Errorf("ContextAfter = %v, want [three] (delete line skipped)", a.ContextAfter)
	}
}

func TestCapture_CapsAtThreeContextLines(t *testing.T) {
	lines := []diffmodel.Line{
		ctx("a", 1, 1), ctx("b", 2, 2), ctx("c", 3, 3), ctx("d", 4, 4),
		ctx("target", 5, 5),
		ctx("e", 6, 6), ctx("f", 7, 7), ctx("g", 8, 8), ctx("h", 9, 9),
	}
	file := diffmodel.File{Hunks: []diffmodel.Hunk{{Lines: lines}}}

	a := Capture(file, 0, intp(5))

	if len(a.ContextBefore) != maxContext {
		t.Errorf("len(ContextBefore) = %d, want %d", len(a.ContextBefore), maxContext)
	}
	if len(a.ContextAfter) != maxContext {
		t.Errorf("len(ContextAfter) = %d, want %d", len(a.ContextAfter), maxContext)
	}
	if !reflect.DeepEqual(a.ContextBefore, []string{"b", "c", "d"}) {
		t.Errorf("ContextBefore = %v, want [b c d]", a.ContextBefore)
	}
	if !reflect.DeepEqual(a.ContextAfter, []string{"e", "f", "g"}) {
		t.Errorf("ContextAfter = %v, want [e f g]", a.ContextAfter)
	}
}

func TestCaptureHunkLevel(t *testing.T) {
	file := diffmodel.File{
		Hunks: []diffmodel.Hunk{
			{Header: "@@ -1,2 +1,2 @@"},
			{Header: "@@ -10,2 +10,2 @@ fn target()"},
		},
	}

	a := CaptureHunkLevel(file, 1)
	if a.HunkHeader != "@@ -10,2 +10,2 @@ fn target()" {
		t.Errorf("HunkHeader = %q", a.HunkHeader)
	}
	if a.LineStart != nil {
		t.Error("hunk-level anchor should have nil LineStart")
	}
}
