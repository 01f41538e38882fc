package compact

import (
	"testing"

	"github.com/shhac/erview/internal/diffmodel"
)

func TestMatch_ExtensionPattern(t *testing.T) {
	if !Match("*.lock", "Cargo.lock") {
		t.Error("expected match")
	}
	if !Match("*.lock", "some/path/Gemfile.lock") {
		t.Error("expected match across directories")
	}
	if Match("*.lock", "lockfile.txt") {
		t.Error("expected no match")
	}
}

func TestMatch_ExactFilename(t *testing.T) {
	if !Match("package-lock.json", "package-lock.json") {
		t.Error("expected exact match")
	}
	if !Match("package-lock.json", "some/dir/package-lock.json") {
		t.Error("expected basename match across directories")
	}
	if Match("package-lock.json", "other.json") {
		t.Error("expected no match")
	}
}

func TestMatch_DirGlob(t *testing.T) {
	if !Match("__generated__/**", "__generated__/types.ts") {
		t.Error("expected match")
	}
	if !Match("__generated__/**", "__generated__/sub/file.rs") {
		t.Error("expected nested match")
	}
	if Match("__generated__/**", "src/generated.rs") {
		t.Error("expected no match outside dir")
	}
}

func TestMatch_GeneratedWildcard(t *testing.T) {
	if !Match("*.generated.*", "types.generated.ts") {
		t.Error("expected match")
	}
	if !Match("*.generated.*", "path/api.generated.go") {
		t.Error("expected match with directory prefix")
	}
	if Match("*.generated.*", "generated.ts") {
		t.Error("bare \"generated.ts\" should not match *.generated.*")
	}
}

func TestMatch_MinJS(t *testing.T) {
	if !Match("*.min.js", "bundle.min.js") {
		t.Error("expected match")
	}
	if !Match("*.min.css", "styles.min.css") {
		t.Error("expected match")
	}
	if Match("*.min.js", "bundle.js") {
		t.Error("expected no match")
	}
}

func TestApply_ByPattern(t *testing.T) {
	files := []diffmodel.File{
		{
			Path: "Cargo.lock",
			Hunks: []diffmodel.Hunk{{
				Header: "@@ -1,1 +1,1 @@",
				Lines:  []diffmodel.Line{{Type: diffmodel.Add, Content: "x"}},
			}},
		},
		{Path: "src/main.rs"},
	}

	Apply(files, DefaultConfig())

	if !files[0].Compacted {
		t.Error("Cargo.lock should be compacted")
	}
	if files[0].RawHunkCount != 1 {
		t.Errorf("RawHunkCount = %d, want 1", files[0].RawHunkCount)
	}
	if len(files[0].Hunks) != 0 {
		t.Error("hunks should be dropped after compaction")
	}
	if files[1].Compacted {
		t.Error("src/main.rs should not be compacted")
	}
}

func TestApply_BySizeThreshold(t *testing.T) {
	lines := make([]diffmodel.Line, 1100)
	for i := range lines {
		n := i
		lines[i] = diffmodel.Line{Type: diffmodel.Add, Content: "line", NewNum: &n}
	}
	files := []diffmodel.File{
		{Path: "src/big_file.rs", Hunks: []diffmodel.Hunk{{Header: "@@ -1,1 +1,1100 @@", Lines: lines}}},
	}

	Apply(files, DefaultConfig())

	if !files[0].Compacted {
		t.Error("oversized file should be compacted")
	}
	if files[0].RawHunkCount != 1 {
		t.Errorf("RawHunkCount = %d, want 1", files[0].RawHunkCount)
	}
}

func TestApply_Disabled(t *testing.T) {
	files := []diffmodel.File{{Path: "Cargo.lock", Hunks: []diffmodel.Hunk{{}}}}
	Apply(files, Config{Enabled: false})
	if files[0].Compacted {
		t.Error("compaction disabled, nothing should be marked compacted")
	}
}

func TestExpand_RestoresHunks(t *testing.T) {
	f := diffmodel.File{Path: "Cargo.lock", Compacted: true, RawHunkCount: 1}
	fresh := diffmodel.File{
		Hunks: []diffmodel.Hunk{{Header: "@@ -1,1 +1,1 @@"}},
		Adds:  1,
	}

	Expand(&f, fresh)

	if f.Compacted {
		t.Error("Expand should clear Compacted")
	}
	if len(f.Hunks) != 1 {
		t.Errorf("Hunks = %+v", f.Hunks)
	}
	if f.Adds != 1 {
		t.Errorf("Adds = %d, want 1", f.Adds)
	}
}
