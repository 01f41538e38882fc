package diffparse

import (
	"strings"
	"testing"

	"github.com/shhac/erview/internal/diffmodel"
)

func TestParse_SimpleDiff(t *testing.T) {
	raw := `diff --git a/src/main.rs b/src/main.rs
index abc123..def456 100644
--- a/src/main.rs
+++ b/src/main.rs
@@ -1,3 +1,4 @@ fn main()
 fn main() {
+    println!("hello");
     let x = 1;
 }
`
	files := Parse(raw)
	if len(files) != 1 {
		t.Fatalf("len(files) = %d, want 1", len(files))
	}
	f := files[0]
	if f.Path != "src/main.rs" {
		t.Errorf("Path = %q", f.Path)
	}
	if f.Adds != 1 || f.Dels != 0 {
		t.Errorf("Adds=%d Dels=%d, want 1/0", f.Adds, f.Dels)
	}
	if len(f.Hunks) != 1 || len(f.Hunks[0].Lines) != 4 {
		t.Errorf("Hunks = %+v", f.Hunks)
	}
}

func TestParse_NewFile(t *testing.T) {
	raw := `diff --git a/new.rs b/new.rs
new file mode 100644
index 0000000..abc1234
--- /dev/null
+++ b/new.rs
@@ -0,0 +1,2 @@
+fn hello() {}
+fn world() {}
`
	files := Parse(raw)
	if len(files) != 1 {
		t.Fatalf("len(files) = %d", len(files))
	}
	if files[0].Status != diffmodel.Added {
		t.Errorf("Status = %v, want Added", files[0].Status)
	}
	if files[0].Adds != 2 {
		t.Errorf("Adds = %d, want 2", files[0].Adds)
	}
}

func TestParse_DeletedFile(t *testing.T) {
	raw := `diff --git a/old.rs b/old.rs
deleted file mode 100644
index abc1234..0000000
--- a/old.rs
+++ /dev/null
@@ -1,3 +0,0 @@
-fn gone() {
-    // this file is gone
-}
`
	files := Parse(raw)
	if len(files) != 1 {
		t.Fatalf("len(files) = %d", len(files))
	}
	if files[0].Path != "old.rs" {
		t.Errorf("Path = %q", files[0].Path)
	}
	if files[0].Status != diffmodel.Deleted {
		t.Errorf("Status = %v, want Deleted", files[0].Status)
	}
	if files[0].Dels != 3 || files[0].Adds != 0 {
		t.Errorf("Dels=%d Adds=%d, want 3/0", files[0].Dels, files[0].Adds)
	}
}

func TestParse_RenamedFile(t *testing.T) {
	raw := `diff --git a/src/old_name.rs b/src/new_name.rs
similarity index 95%
rename from src/old_name.rs
rename to src/new_name.rs
index abc1234..def5678 100644
--- a/src/old_name.rs
+++ b/src/new_name.rs
@@ -1,3 +1,3 @@
 fn unchanged() {}
-fn old_fn() {}
+fn new_fn() {}
 fn also_unchanged() {}
`
	files := Parse(raw)
	if len(files) != 1 {
		t.Fatalf("len(files) = %d", len(files))
	}
	f := files[0]
	if f.Path != "src/new_name.rs" {
		t.Errorf("Path = %q", f.Path)
	}
	if f.Status != diffmodel.Renamed {
		t.Errorf("Status = %v, want Renamed", f.Status)
	}
	if f.OldPath != "src/old_name.rs" {
		t.Errorf("OldPath = %q", f.OldPath)
	}
}

func TestParse_MultipleFiles(t *testing.T) {
	raw := `diff --git a/foo.rs b/foo.rs
index aaa..bbb 100644
--- a/foo.rs
+++ b/foo.rs
@@ -1,2 +1,3 @@
 fn foo() {}
+fn bar() {}
 fn baz() {}
diff --git a/qux.rs b/qux.rs
index ccc..ddd 100644
--- a/qux.rs
+++ b/qux.rs
@@ -1,2 +1,1 @@
 fn qux() {}
-fn old() {}
`
	files := Parse(raw)
	if len(files) != 2 {
		t.Fatalf("len(files) = %d, want 2", len(files))
	}
	if files[0].Path != "foo.rs" || files[0].Adds != 1 || files[0].Dels != 0 {
		t.Errorf("files[0] = %+v", files[0])
	}
	if files[1].Path != "qux.rs" || files[1].Adds != 0 || files[1].Dels != 1 {
		t.Errorf("files[1] = %+v", files[1])
	}
}

func TestParse_MultipleHunksPerFile(t *testing.T) {
	raw := `diff --git a/src/lib.rs b/src/lib.rs
index aaa..bbb 100644
--- a/src/lib.rs
+++ b/src/lib.rs
@@ -1,4 +1,5 @@
 fn alpha() {}
+fn alpha_new() {}
 fn beta() {}
 fn gamma() {}
 fn delta() {}
@@ -20,4 +21,3 @@
 fn omega() {}
-fn removed() {}
 fn psi() {}
 fn chi() {}
`
	files := Parse(raw)
	if len(files) != 1 {
		t.Fatalf("len(files) = %d", len(files))
	}
	if len(files[0].Hunks) != 2 {
		t.Fatalf("len(Hunks) = %d, want 2", len(files[0].Hunks))
	}
	if len(files[0].Hunks[0].Lines) != 5 || len(files[0].Hunks[1].Lines) != 4 {
		t.Errorf("hunk line counts wrong: %d, %d", len(files[0].Hunks[0].Lines), len(files[0].Hunks[1].Lines))
	}
}

func TestParse_ContextLinesHaveBothLineNumbers(t *testing.T) {
	raw := `diff --git a/src/lib.rs b/src/lib.rs
index aaa..bbb 100644
--- a/src/lib.rs
+++ b/src/lib.rs
@@ -5,4 +5,4 @@
 context_before
-deleted_line
+added_line
 context_after
`
	files := Parse(raw)
	hunk := files[0].Hunks[0]

	before := hunk.Lines[0]
	if before.Type != diffmodel.Context || *before.OldNum != 5 || *before.NewNum != 5 {
		t.Errorf("context_before = %+v", before)
	}

	after := hunk.Lines[3]
	if after.Type != diffmodel.Context || *after.OldNum != 7 || *after.NewNum != 7 {
		t.Errorf("context_after = %+v", after)
	}
}

func TestParse_LineNumberTracking(t *testing.T) {
	raw := `diff --git a/src/lib.rs b/src/lib.rs
index aaa..bbb 100644
--- a/src/lib.rs
+++ b/src/lib.rs
@@ -10,5 +10,5 @@
 context_line
-deleted_a
-deleted_b
+added_x
+added_y
 context_end
`
	files := Parse(raw)
	hunk := files[0].Hunks[0]

	want := []struct {
		typ      diffmodel.LineType
		old, new *int
	}{
		{diffmodel.Context, intp(10), intp(10)},
		{diffmodel.Delete, intp(11), nil},
		{diffmodel.Delete, intp(12), nil},
		{diffmodel.Add, nil, intp(11)},
		{diffmodel.Add, nil, intp(12)},
		{diffmodel.Context, intp(13), intp(13)},
	}
	if len(hunk.Lines) != len(want) {
		t.Fatalf("len(Lines) = %d, want %d", len(hunk.Lines), len(want))
	}
	for i, w := range want {
		l := hunk.Lines[i]
		if l.Type != w.typ {
			t.Errorf("line %d: Type = %v, want %v", i, l.Type, w.typ)
		}
		if !intPtrEq(l.OldNum, w.old) {
			t.Errorf("line %d: OldNum = %v, want %v", i, derefOrNil(l.OldNum), derefOrNil(w.old))
		}
		if !intPtrEq(l.NewNum, w.new) {
			t.Errorf("line %d: NewNum = %v, want %v", i, derefOrNil(l.NewNum), derefOrNil(w.new))
		}
	}
}

func TestParse_NoNewlineAtEofIsSkipped(t *testing.T) {
	raw := "diff --git a/src/lib.rs b/src/lib.rs\nindex aaa..bbb 100644\n--- a/src/lib.rs\n+++ b/src/lib.rs\n@@ -1,2 +1,3 @@\n fn foo() {}\n+fn bar() {}\n fn baz() {}\n\\ No newline at end of file\n"
	files := Parse(raw)
	hunk := files[0].Hunks[0]
	if len(hunk.Lines) != 3 {
		t.Fatalf("len(Lines) = %d, want 3", len(hunk.Lines))
	}
	for _, l := range hunk.Lines {
		if strings.Contains(l.Content, "No newline") {
			t.Errorf("line content leaked the no-newline marker: %q", l.Content)
		}
	}
}

func TestParse_PathWithSpaceContainingB(t *testing.T) {
	raw := "diff --git a/foo b/bar.rs b/foo b/bar.rs\nindex aaa..bbb 100644\n--- a/foo b/bar.rs\n+++ b/foo b/bar.rs\n@@ -1,1 +1,1 @@\n-old\n+new\n"
	files := Parse(raw)
	if len(files) != 1 {
		t.Fatalf("len(files) = %d", len(files))
	}
	if files[0].Path != "foo b/bar.rs" {
		t.Errorf("Path = %q, want %q", files[0].Path, "foo b/bar.rs")
	}
}

func TestParse_ModeOnlyChangeNoHunk(t *testing.T) {
	raw := "diff --git a/script.sh b/script.sh\nold mode 100644\nnew mode 100755\n"
	files := Parse(raw)
	if len(files) != 1 {
		t.Fatalf("len(files) = %d", len(files))
	}
	if files[0].Path != "script.sh" {
		t.Errorf("Path = %q", files[0].Path)
	}
	if len(files[0].Hunks) != 0 || files[0].Adds != 0 || files[0].Dels != 0 {
		t.Errorf("expected no hunks/adds/dels, got %+v", files[0])
	}
}

func TestParse_AddsAndDelsAccumulateAcrossHunks(t *testing.T) {
	raw := `diff --git a/src/lib.rs b/src/lib.rs
index aaa..bbb 100644
--- a/src/lib.rs
+++ b/src/lib.rs
@@ -1,4 +1,5 @@
+fn extra_top() {}
 fn alpha() {}
-fn beta_old() {}
+fn beta_new() {}
 fn gamma() {}
@@ -50,3 +51,4 @@
 fn omega() {}
+fn omega_extra() {}
-fn omega_removed() {}
+fn omega_replaced() {}
`
	files := Parse(raw)
	if files[0].Adds != 4 || files[0].Dels != 2 {
		t.Errorf("Adds=%d Dels=%d, want 4/2", files[0].Adds, files[0].Dels)
	}
}

func TestParse_EmptyInput(t *testing.T) {
	if files := Parse(""); len(files) != 0 {
		t.Errorf("len(files) = %d, want 0", len(files))
	}
}

func TestParseHunkHeader(t *testing.T) {
	cases := []struct {
		line                                   string
		wantOK                                 bool
		oldStart, oldCount, newStart, newCount int
		wantHeader                             string
	}{
		{"@@ -10,4 +10,15 @@ impl Foo", true, 10, 4, 10, 15, "@@ -10,4 +10,15 @@ impl Foo"},
		{"@@ -1,3 +1,4 @@", true, 1, 3, 1, 4, "@@ -1,3 +1,4 @@"},
		{"@@ -1 +1 @@", true, 1, 1, 1, 1, "@@ -1,1 +1,1 @@"},
		{"@@ -0,0 +1,2 @@", true, 0, 0, 1, 2, "@@ -0,0 +1,2 @@"},
		{"@@ -1,3 +1,4", false, 0, 0, 0, 0, ""},
	}
	for _, c := range cases {
		h, ok := parseHunkHeader(c.line)
		if ok != c.wantOK {
			t.Errorf("%q: ok = %v, want %v", c.line, ok, c.wantOK)
			continue
		}
		if !ok {
			continue
		}
		if h.OldStart != c.oldStart || h.OldCount != c.oldCount || h.NewStart != c.newStart || h.NewCount != c.newCount {
			t.Errorf("%q: got start/count %d,%d,%d,%d", c.line, h.OldStart, h.OldCount, h.NewStart, h.NewCount)
		}
	}
}

func intp(v int) *int { return &v }

func intPtrEq(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func derefOrNil(p *int) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
