package filter

import (
	"strings"
	"testing"

	"github.com/shhac/erview/internal/diffmodel"
)

func makeFile(path string, status diffmodel.Status, adds, dels int) diffmodel.File {
	return diffmodel.File{Path: path, Status: status, Adds: adds, Dels: dels}
}

func TestParse_EmptyString(t *testing.T) {
	if rules := Parse(""); len(rules) != 0 {
		t.Errorf("len(rules) = %d, want 0", len(rules))
	}
}

func TestParse_WhitespaceOnly(t *testing.T) {
	if rules := Parse("  ,  , "); len(rules) != 0 {
		t.Errorf("len(rules) = %d, want 0", len(rules))
	}
}

func TestParse_SimpleGlobInclude(t *testing.T) {
	rules := Parse("*.rs")
	if len(rules) != 1 || rules[0].Kind != KindGlob || !rules[0].Include {
		t.Errorf("rules = %+v", rules)
	}
}

func TestParse_ExplicitIncludeGlob(t *testing.T) {
	rules := Parse("+*.ts")
	if len(rules) != 1 || rules[0].Kind != KindGlob || !rules[0].Include {
		t.Errorf("rules = %+v", rules)
	}
}

func TestParse_ExcludeGlob(t *testing.T) {
	rules := Parse("-*.lock")
	if len(rules) != 1 || rules[0].Kind != KindGlob || rules[0].Include {
		t.Errorf("rules = %+v", rules)
	}
}

func TestParse_StatusAdded(t *testing.T) {
	rules := Parse("+added")
	if len(rules) != 1 || rules[0].Kind != KindStatus || rules[0].Status != StatusAdded || !rules[0].Include {
		t.Errorf("rules = %+v", rules)
	}
}

func TestParse_StatusCaseInsensitive(t *testing.T) {
	rules := Parse("+MODIFIED")
	if len(rules) != 1 || rules[0].Status != StatusModified {
		t.Errorf("rules = %+v", rules)
	}
}

func TestParse_ExcludeStatus(t *testing.T) {
	rules := Parse("-deleted")
	if len(rules) != 1 || rules[0].Include || rules[0].Status != StatusDeleted {
		t.Errorf("rules = %+v", rules)
	}
}

func TestParse_SizeGreaterThan(t *testing.T) {
	rules := Parse("+>10")
	if len(rules) != 1 || rules[0].Kind != KindSize || rules[0].Op != GreaterThan || rules[0].Threshold != 10 {
		t.Errorf("rules = %+v", rules)
	}
}

func TestParse_SizeLessThanExclude(t *testing.T) {
	rules := Parse("-<3")
	if len(rules) != 1 || rules[0].Include || rules[0].Op != LessThan || rules[0].Threshold != 3 {
		t.Errorf("rules = %+v", rules)
	}
}

func TestParse_MixedRules(t *testing.T) {
	rules := Parse("+*.ts, -*.lock, +>10, +added")
	if len(rules) != 4 {
		t.Fatalf("len(rules) = %d, want 4", len(rules))
	}
	if rules[0].Kind != KindGlob || !rules[0].Include {
		t.Errorf("rule 0 = %+v", rules[0])
	}
	if rules[1].Kind != KindGlob || rules[1].Include {
		t.Errorf("rule 1 = %+v", rules[1])
	}
	if rules[2].Kind != KindSize || !rules[2].Include {
		t.Errorf("rule 2 = %+v", rules[2])
	}
	if rules[3].Kind != KindStatus || !rules[3].Include {
		t.Errorf("rule 3 = %+v", rules[3])
	}
}

func TestParse_InvalidGlobSilentlySkipped(t *testing.T) {
	rules := Parse("[invalid, *.rs")
	if len(rules) != 1 || rules[0].GlobText != "*.rs" {
		t.Errorf("rules = %+v", rules)
	}
}

func TestParse_WhitespaceAroundSegments(t *testing.T) {
	rules := Parse("  +*.rs  ,  -*.lock  ")
	if len(rules) != 2 {
		t.Errorf("len(rules) = %d, want 2", len(rules))
	}
}

func TestParse_SizeWithSpaces(t *testing.T) {
	rules := Parse("+> 10")
	if len(rules) != 1 || rules[0].Threshold != 10 {
		t.Errorf("rules = %+v", rules)
	}
}

func TestApply_NoRulesAdmitsEverything(t *testing.T) {
	f := makeFile("anything.xyz", diffmodel.Modified, 0, 0)
	if !Apply(nil, f) {
		t.Error("empty rule set should admit every file")
	}
}

func TestApply_IncludeOnlyGlob(t *testing.T) {
	rules := Parse("*.rs")
	if !Apply(rules, makeFile("main.rs", diffmodel.Modified, 1, 0)) {
		t.Error("main.rs should match *.rs")
	}
	if Apply(rules, makeFile("main.go", diffmodel.Modified, 1, 0)) {
		t.Error("main.go should not match *.rs")
	}
}

func TestApply_ExcludeOverridesDefaultInclude(t *testing.T) {
	rules := Parse("-*.lock")
	if Apply(rules, makeFile("Cargo.lock", diffmodel.Modified, 0, 0)) {
		t.Error("Cargo.lock should be excluded")
	}
	if !Apply(rules, makeFile("main.rs", diffmodel.Modified, 0, 0)) {
		t.Error("main.rs should remain visible (no include rules, only an exclude)")
	}
}

func TestApply_IncludeThenExclude(t *testing.T) {
	rules := Parse("+*.ts,-*.test.ts")
	if !Apply(rules, makeFile("app.ts", diffmodel.Modified, 0, 0)) {
		t.Error("app.ts should be included")
	}
	if Apply(rules, makeFile("app.test.ts", diffmodel.Modified, 0, 0)) {
		t.Error("app.test.ts should be excluded even though it matches the include glob too")
	}
	if Apply(rules, makeFile("main.go", diffmodel.Modified, 0, 0)) {
		t.Error("main.go matches no include rule, should be hidden")
	}
}

func TestApply_SizeThreshold(t *testing.T) {
	rules := Parse("+>10")
	if Apply(rules, makeFile("small.go", diffmodel.Modified, 2, 3)) {
		t.Error("5 changed lines should not satisfy >10")
	}
	if !Apply(rules, makeFile("big.go", diffmodel.Modified, 8, 8)) {
		t.Error("16 changed lines should satisfy >10")
	}
}

func TestApply_StatusKeyword(t *testing.T) {
	rules := Parse("+added")
	if !Apply(rules, makeFile("new.go", diffmodel.Added, 5, 0)) {
		t.Error("added file should match +added")
	}
	if Apply(rules, makeFile("changed.go", diffmodel.Modified, 5, 0)) {
		t.Error("modified file should not match +added")
	}
}

func TestPresets_ContainDeliberateOverlap(t *testing.T) {
	var frontend, backend string
	for _, p := range Presets {
		switch p.Name {
		case "frontend":
			frontend = p.Expr
		case "backend":
			backend = p.Expr
		}
	}
	if frontend == "" || backend == "" {
		t.Fatal("expected both frontend and backend presets to be defined")
	}
	if !strings.Contains(","+frontend+",", ",*.ts,") || !strings.Contains(","+backend+",", ",*.ts,") {
		t.Errorf("expected *.ts in both frontend and backend presets: %q / %q", frontend, backend)
	}
}
