package diffparse

import (
	"testing"

	"github.com/shhac/erview/internal/diffmodel"
)

func TestScanHeaders_MatchesEagerParse(t *testing.T) {
	raw := `diff --git a/foo.rs b/foo.rs
index aaa..bbb 100644
--- a/foo.rs
+++ b/foo.rs
@@ -1,2 +1,3 @@
 fn foo() {}
+fn bar() {}
 fn baz() {}
diff --git a/qux.rs b/qux.rs
deleted file mode 100644
index ccc..ddd 100644
--- a/qux.rs
+++ /dev/null
@@ -1,2 +0,0 @@
-fn qux() {}
-fn old() {}
`
	headers := ScanHeaders(raw)
	eager := Parse(raw)

	if len(headers) != len(eager) {
		t.Fatalf("len(headers) = %d, len(eager) = %d", len(headers), len(eager))
	}
	for i := range headers {
		if headers[i].Path != eager[i].Path {
			t.Errorf("headers[%d].Path = %q, want %q", i, headers[i].Path, eager[i].Path)
		}
		if headers[i].Status != eager[i].Status {
			t.Errorf("headers[%d].Status = %v, want %v", i, headers[i].Status, eager[i].Status)
		}
		if headers[i].Adds != eager[i].Adds || headers[i].Dels != eager[i].Dels {
			t.Errorf("headers[%d] adds/dels = %d/%d, want %d/%d", i, headers[i].Adds, headers[i].Dels, eager[i].Adds, eager[i].Dels)
		}
	}
}

func TestParseAtOffset_ReproducesFileFromHeader(t *testing.T) {
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
	headers := ScanHeaders(raw)
	if len(headers) != 2 {
		t.Fatalf("len(headers) = %d, want 2", len(headers))
	}

	second := ParseAtOffset(raw, headers[1])
	if second.Path != "qux.rs" {
		t.Errorf("Path = %q, want qux.rs", second.Path)
	}
	if len(second.Hunks) != 1 || len(second.Hunks[0].Lines) != 2 {
		t.Errorf("Hunks = %+v", second.Hunks)
	}
}

func TestSnapToBoundary_AvoidsUTF8MidCodepoint(t *testing.T) {
	s := "a€b" // '€' is 3 bytes (0xE2 0x82 0xAC) starting at offset 1
	if got := snapToBoundary(s, 2); got != 4 {
		t.Errorf("snapToBoundary(mid-codepoint) = %d, want 4", got)
	}
	if got := snapToBoundary(s, 0); got != 0 {
		t.Errorf("snapToBoundary(boundary) = %d, want 0", got)
	}
	if got := snapToBoundary(s, len(s)+5); got != len(s) {
		t.Errorf("snapToBoundary(past end) = %d, want %d", got, len(s))
	}
}

func TestParseAtOffset_FallsBackToStub(t *testing.T) {
	header := diffmodel.Header{Path: "ghost.rs", Status: diffmodel.Modified, ByteOffset: 0, ByteLength: 0}
	f := ParseAtOffset("", header)
	if f.Path != "ghost.rs" {
		t.Errorf("Path = %q, want ghost.rs", f.Path)
	}
}
