package claude

import (
	"testing"

	"github.com/shhac/erview/internal/sidecar"
)

func TestToReviewDocument_ConvertsFindingsAndRisk(t *testing.T) {
	result := &AnalysisResult{
		Summary: "looks fine",
		FileReviews: []FileReview{
			{
				File:    "main.go",
				Summary: "entry point",
				Comments: []ReviewComment{
					{Line: 10, Severity: "suggestion", Comment: "consider renaming"},
					{Line: 20, Severity: "critical", Comment: "SQL injection here"},
				},
			},
			{
				File:     "util.go",
				Summary:  "helpers",
				Comments: nil,
			},
		},
	}

	doc := ToReviewDocument(result, "deadbeef")
	if doc.DiffHash != "deadbeef" {
		t.Errorf("DiffHash = %q", doc.DiffHash)
	}

	main, ok := doc.Files["main.go"]
	if !ok {
		t.Fatal("missing main.go")
	}
	if main.Risk != severityToRisk("critical") {
		t.Errorf("main.go risk = %v, want worst finding (critical)", main.Risk)
	}
	if len(main.Findings) != 2 {
		t.Fatalf("len(Findings) = %d, want 2", len(main.Findings))
	}
	for _, f := range main.Findings {
		if f.ID == "" {
			t.Error("expected a non-empty uuid finding ID")
		}
	}
	if *main.Findings[0].LineStart != 10 {
		t.Errorf("LineStart = %d, want 10", *main.Findings[0].LineStart)
	}

	util, ok := doc.Files["util.go"]
	if !ok {
		t.Fatal("missing util.go")
	}
	if util.Risk != sidecar.RiskInfo {
		t.Errorf("util.go risk = %v, want Info (no findings)", util.Risk)
	}
	if len(util.Findings) != 0 {
		t.Errorf("len(Findings) = %d, want 0", len(util.Findings))
	}
}

func TestSeverityToRisk_UnknownFallsBackToInfo(t *testing.T) {
	if got := severityToRisk("praise"); got != sidecar.RiskInfo {
		t.Errorf("severityToRisk(praise) = %v, want Info", got)
	}
}
