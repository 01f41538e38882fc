package claude

import (
	"github.com/google/uuid"

	"github.com/shhac/erview/internal/sidecar"
)

// severityToRisk maps Claude's free-form severity vocabulary onto the
// sidecar document's four-level RiskLevel. "critical" has no dedicated
// level in the sidecar model, so it collapses into RiskHigh alongside
// "high" — the UI already renders RiskHigh as the top of the list.
func severityToRisk(s string) sidecar.RiskLevel {
	switch s {
	case "critical", "high":
		return sidecar.RiskHigh
	case "warning", "medium":
		return sidecar.RiskMedium
	case "suggestion", "low":
		return sidecar.RiskLow
	default:
		return sidecar.RiskInfo
	}
}

// ToReviewDocument converts a freshly produced AnalysisResult into the
// persisted sidecar shape, assigning each finding a stable uuid. diffHash
// is the content hash of the diff the analysis was run against.
func ToReviewDocument(result *AnalysisResult, diffHash string) *sidecar.ReviewDocument {
	doc := &sidecar.ReviewDocument{
		DiffHash:   diffHash,
		Files:      make(map[string]sidecar.FileReview, len(result.FileReviews)),
		FileHashes: make(map[string]string, len(result.FileReviews)),
	}

	for _, fr := range result.FileReviews {
		findings := make([]sidecar.Finding, 0, len(fr.Comments))
		worst := sidecar.RiskInfo
		for _, c := range fr.Comments {
			risk := severityToRisk(c.Severity)
			if risk < worst {
				worst = risk
			}
			f := sidecar.Finding{
				ID:       uuid.NewString(),
				Severity: risk,
				Category: c.Severity,
				Title:    truncate(c.Comment, 80),
				Description: c.Comment,
			}
			if c.Line > 0 {
				line := c.Line
				f.LineStart = &line
			}
			findings = append(findings, f)
		}

		doc.Files[fr.File] = sidecar.FileReview{
			Risk:     worst,
			Summary:  fr.Summary,
			Findings: findings,
		}
	}

	return doc
}
