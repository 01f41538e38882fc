package relocate

import (
	"testing"

	"github.com/shhac/erview/internal/anchor"
	"github.com/shhac/erview/internal/diffmodel"
)

func makeFile(hunks ...diffmodel.Hunk) diffmodel.File {
	return diffmodel.File{Path: "test.go", Status: diffmodel.Modified, Hunks: hunks}
}

func makeHunk(header string, lines ...diffmodel.Line) diffmodel.Hunk {
	return diffmodel.Hunk{Header: header, OldStart: 1, OldCount: len(lines), NewStart: 1, NewCount: len(lines), Lines: lines}
}

func ctxLine(content string, old, new int) diffmodel.Line {
	return diffmodel.Line{Type: diffmodel.Context, Content: content, OldNum: &old, NewNum: &new}
}

func addLine(content string, new int) diffmodel.Line {
	return diffmodel.Line{Type: diffmodel.Add, Content: content, NewNum: &new}
}

func mkAnchor(lineStart *int, content string, before, after []string) anchor.Anchor {
	return anchor.Anchor{
		File:          "test.go",
		HunkIndex:     intp(0),
		LineStart:     lineStart,
		LineContent:   content,
		ContextBefore: before,
		ContextAfter:  after,
	}
}

func intp(v int) *int { return &v }

func TestRelocate_ExactMatchSamePosition(t *testing.T) {
	file := makeFile(makeHunk("@@ -1,3 +1,3 @@",
		ctxLine("fn foo() {", 1, 1),
		ctxLine("    let x = 1;", 2, 2),
		ctxLine("}", 3, 3),
	))
	a := mkAnchor(intp(2), "    let x = 1;", []string{"fn foo() {"}, []string{"}"})

	result := Relocate(a, file)
	if result.Outcome != Unchanged {
		t.Errorf("Outcome = %v, want Unchanged", result.Outcome)
	}
}

func TestRelocate_ExactMatchShifted(t *testing.T) {
	file := makeFile(makeHunk("@@ -1,5 +1,5 @@",
		addLine("// new comment", 1),
		addLine("// another", 2),
		ctxLine("fn foo() {", 3, 3),
		ctxLine("    let x = 1;", 4, 4),
		ctxLine("}", 5, 5),
	))
	a := mkAnchor(intp(2), "    let x = 1;", []string{"fn foo() {"}, []string{"}"})

	result := Relocate(a, file)
	if result.Outcome != Relocated || result.NewLineStart != 4 {
		t.Errorf("result = %+v, want Relocated at line 4", result)
	}
}

func TestRelocate_ContentMatchWithContextDisambiguation(t *testing.T) {
	file := makeFile(makeHunk("@@ -1,8 +1,8 @@",
		ctxLine("fn bar() {", 1, 1),
		ctxLine("    x()", 2, 2),
		ctxLine("}", 3, 3),
		ctxLine("fn foo() {", 4, 4),
		ctxLine("    let x = 1;", 5, 5),
		ctxLine("}", 6, 6),
		ctxLine("fn baz() {", 7, 7),
		ctxLine("}", 8, 8),
	))
	a := mkAnchor(intp(6), "}", []string{"    let x = 1;"}, []string{"fn baz() {"})

	result := Relocate(a, file)
	if result.Outcome == Lost {
		t.Fatal("should not be Lost")
	}
	if result.Outcome == Relocated && result.NewLineStart != 6 {
		t.Errorf("Relocated to wrong line: %d", result.NewLineStart)
	}
}

func TestRelocate_LineDeleted(t *testing.T) {
	file := makeFile(makeHunk("@@ -1,2 +1,2 @@",
		ctxLine("fn foo() {", 1, 1),
		ctxLine("}", 2, 2),
	))
	a := mkAnchor(intp(3), "    let x = 1;", []string{"fn foo() {"}, []string{"}"})

	result := Relocate(a, file)
	if result.Outcome != Lost {
		t.Errorf("Outcome = %v, want Lost", result.Outcome)
	}
}

func TestRelocate_FuzzyContextMatch(t *testing.T) {
	file := makeFile(makeHunk("@@ -1,3 +1,3 @@",
		ctxLine("fn foo() {", 1, 1),
		ctxLine("    let x = 2;", 2, 2),
		ctxLine("}", 3, 3),
	))
	a := mkAnchor(intp(2), "    let x = 1;", []string{"fn foo() {"}, []string{"}"})

	result := Relocate(a, file)
	if result.Outcome != Relocated {
		t.Fatalf("Outcome = %v, want Relocated via fuzzy context", result.Outcome)
	}
	if result.NewLineStart != 2 {
		t.Errorf("NewLineStart = %d, want 2", result.NewLineStart)
	}
}

func TestPass2Scored_TieYieldsNoSelection(t *testing.T) {
	// Two occurrences of the same content line, each flanked by identical
	// context, land on the same pass-2 score. Neither should win outright:
	// per spec, a tie at the top score means no selection, not a first-wins
	// default.
	file := makeFile(makeHunk("@@ -1,6 +1,6 @@",
		ctxLine("a", 1, 1),
		ctxLine("    let x = 1;", 2, 2),
		ctxLine("b", 3, 3),
		ctxLine("a", 4, 4),
		ctxLine("    let x = 1;", 5, 5),
		ctxLine("b", 6, 6),
	))
	a := mkAnchor(intp(2), "    let x = 1;", []string{"a"}, []string{"b"})

	_, ok := pass2Scored(a, file)
	if ok {
		t.Error("pass2Scored selected a candidate on a genuine tie, want fall-through")
	}
}

func TestRelocate_HunkLevelRelocated(t *testing.T) {
	file := makeFile(
		makeHunk("@@ -1,3 +1,3 @@ fn first()", ctxLine("fn first() {", 1, 1), ctxLine("}", 2, 2)),
		makeHunk("@@ -10,3 +10,3 @@ fn target()", ctxLine("fn target() {", 10, 10), ctxLine("}", 11, 11)),
	)

	a := anchor.Anchor{
		File:       "test.go",
		HunkIndex:  intp(0),
		HunkHeader: "@@ -10,3 +10,3 @@ fn target()",
	}

	result := Relocate(a, file)
	if result.Outcome != Relocated || result.NewHunkIndex != 1 {
		t.Errorf("result = %+v, want Relocated to hunk 1", result)
	}
}

func TestRelocate_NoContextFallback(t *testing.T) {
	file := makeFile(makeHunk("@@ -1,3 +3,3 @@",
		ctxLine("fn foo() {", 3, 3),
		ctxLine("    let x = 1;", 4, 4),
		ctxLine("}", 5, 5),
	))
	a := mkAnchor(intp(4), "    let x = 1;", nil, nil)

	result := Relocate(a, file)
	if result.Outcome == Lost {
		t.Error("should not be Lost even without context")
	}
}

func TestRelocate_AlreadyRelocatedSkipped(t *testing.T) {
	file := makeFile(makeHunk("@@ -1,3 +1,3 @@",
		ctxLine("fn foo() {", 1, 1),
		ctxLine("    let x = 1;", 2, 2),
		ctxLine("}", 3, 3),
	))
	a := mkAnchor(intp(2), "    let x = 1;", []string{"fn foo() {"}, []string{"}"})

	r1 := Relocate(a, file)
	r2 := Relocate(a, file)
	if r1.Outcome != Unchanged || r2.Outcome != Unchanged {
		t.Errorf("expected both Unchanged, got %v and %v", r1.Outcome, r2.Outcome)
	}
}

func TestRelocate_HunkLevelNoHeaderIsLost(t *testing.T) {
	file := makeFile(makeHunk("@@ -1,2 +1,2 @@", ctxLine("a", 1, 1), ctxLine("b", 2, 2)))
	a := anchor.Anchor{File: "test.go", HunkIndex: intp(0)}

	result := Relocate(a, file)
	if result.Outcome != Lost {
		t.Errorf("Outcome = %v, want Lost when hunk header is empty", result.Outcome)
	}
}
