package aggregate

import (
	"testing"

	"github.com/shhac/erview/internal/anchor"
	"github.com/shhac/erview/internal/diffmodel"
	"github.com/shhac/erview/internal/sidecar"
)

func intp(v int) *int { return &v }

func makeFiles(paths ...string) []diffmodel.File {
	files := make([]diffmodel.File, len(paths))
	for i, p := range paths {
		files[i] = diffmodel.File{Path: p, Hunks: []diffmodel.Hunk{{Header: "@@ -1,1 +1,1 @@"}, {Header: "@@ -5,1 +5,1 @@"}}}
	}
	return files
}

func TestViewMode_CyclesFourWays(t *testing.T) {
	m := ModeDefault
	seq := []ViewMode{ModeOverlay, ModeSidePanel, ModeAiReview, ModeDefault}
	for _, want := range seq {
		m = m.next()
		if m != want {
			t.Fatalf("next() = %v, want %v", m, want)
		}
	}
	for _, want := range []ViewMode{ModeAiReview, ModeSidePanel, ModeOverlay, ModeDefault} {
		m = m.prev()
		if m != want {
			t.Fatalf("prev() = %v, want %v", m, want)
		}
	}
}

func TestCycleViewMode_CollapsesToDefaultWithoutReviewData(t *testing.T) {
	s := NewState()
	s.CycleViewMode()
	if s.ViewMode != ModeDefault {
		t.Errorf("ViewMode = %v, want Default (no review data loaded)", s.ViewMode)
	}
}

func TestCycleViewMode_AdvancesWithReviewData(t *testing.T) {
	s := NewState()
	s.Review = &sidecar.ReviewDocument{Files: map[string]sidecar.FileReview{}}
	s.CycleViewMode()
	if s.ViewMode != ModeOverlay {
		t.Errorf("ViewMode = %v, want Overlay", s.ViewMode)
	}
	s.CycleViewModePrev()
	if s.ViewMode != ModeDefault {
		t.Errorf("ViewMode = %v, want Default", s.ViewMode)
	}
}

func TestSortedRiskFiles_OrdersByRiskThenPath(t *testing.T) {
	s := NewState()
	s.Review = &sidecar.ReviewDocument{
		Files: map[string]sidecar.FileReview{
			"z.go": {Risk: sidecar.RiskHigh},
			"a.go": {Risk: sidecar.RiskHigh},
			"b.go": {Risk: sidecar.RiskInfo},
			"c.go": {Risk: sidecar.RiskLow},
		},
	}
	rows := s.SortedRiskFiles()
	want := []string{"a.go", "z.go", "c.go", "b.go"}
	if len(rows) != len(want) {
		t.Fatalf("len(rows) = %d, want %d", len(rows), len(want))
	}
	for i, w := range want {
		if rows[i].Path != w {
			t.Errorf("rows[%d].Path = %q, want %q", i, rows[i].Path, w)
		}
	}
}

func TestReviewFocus_TogglingResetsCursor(t *testing.T) {
	s := NewState()
	s.Checklist = &sidecar.ChecklistDocument{Items: []sidecar.ChecklistItem{{ID: "1"}, {ID: "2"}, {ID: "3"}}}
	s.ReviewFocus = FocusFiles
	s.ReviewCursor = 5
	s.ToggleReviewFocus()
	if s.ReviewFocus != FocusChecklist || s.ReviewCursor != 0 {
		t.Errorf("after toggle: focus=%v cursor=%d", s.ReviewFocus, s.ReviewCursor)
	}
}

func TestReviewNextPrev_Clamped(t *testing.T) {
	s := NewState()
	s.Checklist = &sidecar.ChecklistDocument{Items: []sidecar.ChecklistItem{{ID: "1"}, {ID: "2"}}}
	s.ReviewFocus = FocusChecklist

	s.ReviewPrev()
	if s.ReviewCursor != 0 {
		t.Errorf("ReviewCursor = %d, want 0 (saturated)", s.ReviewCursor)
	}
	s.ReviewNext()
	if s.ReviewCursor != 1 {
		t.Errorf("ReviewCursor = %d, want 1", s.ReviewCursor)
	}
	s.ReviewNext()
	if s.ReviewCursor != 1 {
		t.Errorf("ReviewCursor = %d, want 1 (saturated at count-1)", s.ReviewCursor)
	}
}

func TestToggleChecklistItem_FlipsInPlace(t *testing.T) {
	s := NewState()
	s.Checklist = &sidecar.ChecklistDocument{Items: []sidecar.ChecklistItem{{ID: "a", Checked: false}}}
	if !s.ToggleChecklistItem("a") {
		t.Fatal("expected item to be found")
	}
	if !s.Checklist.Items[0].Checked {
		t.Error("expected Checked to flip to true")
	}
	if s.ToggleChecklistItem("missing") {
		t.Error("expected false for unknown id")
	}
}

func TestFindingsForHunk_FiltersByHunkIndex(t *testing.T) {
	s := NewState()
	s.Review = &sidecar.ReviewDocument{
		Files: map[string]sidecar.FileReview{
			"main.go": {Findings: []sidecar.Finding{
				{ID: "f1", HunkIndex: intp(0)},
				{ID: "f2", HunkIndex: intp(1)},
			}},
		},
	}
	got := s.FindingsForHunk("main.go", 1)
	if len(got) != 1 || got[0].ID != "f2" {
		t.Errorf("got = %+v", got)
	}
}

func TestFindingsForHunkByLineRange(t *testing.T) {
	s := NewState()
	s.Review = &sidecar.ReviewDocument{
		Files: map[string]sidecar.FileReview{
			"main.go": {Findings: []sidecar.Finding{
				{ID: "in-range", LineStart: intp(12)},
				{ID: "out-of-range", LineStart: intp(50)},
			}},
		},
	}
	got := s.FindingsForHunkByLineRange("main.go", 10, 5)
	if len(got) != 1 || got[0].ID != "in-range" {
		t.Errorf("got = %+v", got)
	}
}

func TestCommentsForHunk_FallsBackToLegacyOnlyWhenEmpty(t *testing.T) {
	s := NewState()
	s.Legacy = &sidecar.FeedbackDocument{
		Comments: []*sidecar.LegacyComment{
			{CommentID: "l1", File: "main.go", Pos: anchor.Anchor{HunkIndex: intp(0)}},
		},
	}
	got := s.CommentsForHunk("main.go", 0)
	if len(got) != 1 || got[0].ID() != "l1" {
		t.Errorf("expected legacy fallback, got %+v", got)
	}

	s.Questions = &sidecar.QuestionsDocument{
		Questions: []*sidecar.Question{
			{QuestionID: "q1", File: "main.go", Pos: anchor.Anchor{HunkIndex: intp(0)}},
		},
	}
	got = s.CommentsForHunk("main.go", 0)
	if len(got) != 1 || got[0].ID() != "q1" {
		t.Errorf("expected question to take priority over legacy, got %+v", got)
	}
}

func TestCommentsForLine_ExcludesReplies(t *testing.T) {
	s := NewState()
	s.Platform = &sidecar.PlatformCommentsDocument{
		Comments: []*sidecar.PlatformComment{
			{CommentID: "top", File: "main.go", Pos: anchor.Anchor{HunkIndex: intp(0), LineStart: intp(5)}},
			{CommentID: "reply", File: "main.go", Pos: anchor.Anchor{HunkIndex: intp(0), LineStart: intp(5)}, InReplyToID: "top"},
		},
	}
	got := s.CommentsForLine("main.go", 0, 5)
	if len(got) != 1 || got[0].ID() != "top" {
		t.Errorf("got = %+v", got)
	}
}

func TestCommentsForHunkOnly_RequiresNoLineStart(t *testing.T) {
	s := NewState()
	s.Questions = &sidecar.QuestionsDocument{
		Questions: []*sidecar.Question{
			{QuestionID: "hunk-level", File: "main.go", Pos: anchor.Anchor{HunkIndex: intp(0)}},
			{QuestionID: "line-level", File: "main.go", Pos: anchor.Anchor{HunkIndex: intp(0), LineStart: intp(3)}},
		},
	}
	got := s.CommentsForHunkOnly("main.go", 0)
	if len(got) != 1 || got[0].ID() != "hunk-level" {
		t.Errorf("got = %+v", got)
	}
}

func TestRepliesTo(t *testing.T) {
	s := NewState()
	s.Platform = &sidecar.PlatformCommentsDocument{
		Comments: []*sidecar.PlatformComment{
			{CommentID: "top", File: "main.go"},
			{CommentID: "r1", File: "main.go", InReplyToID: "top"},
			{CommentID: "r2", File: "main.go", InReplyToID: "top"},
		},
	}
	got := s.RepliesTo("top")
	if len(got) != 2 {
		t.Errorf("len(got) = %d, want 2", len(got))
	}
}

func TestVisibleFiles_SearchQueryAndReviewedFilter(t *testing.T) {
	s := NewState()
	s.Files = makeFiles("src/main.go", "src/util.go", "README.md")

	s.SearchQuery = "main"
	visible := s.VisibleFiles()
	if len(visible) != 1 || visible[0].File.Path != "src/main.go" {
		t.Errorf("visible = %+v", visible)
	}

	s.SearchQuery = ""
	s.ShowUnreviewedOnly = true
	s.Reviewed["src/main.go"] = true
	visible = s.VisibleFiles()
	if len(visible) != 2 {
		t.Errorf("len(visible) = %d, want 2 (main.go reviewed, excluded)", len(visible))
	}
}

func TestNextFilePrevFile_ClampAndSkipFiltered(t *testing.T) {
	s := NewState()
	s.Files = makeFiles("a.go", "b.go", "c.go")
	s.SelectedFile = 0

	s.NextFile()
	if s.SelectedFile != 1 {
		t.Errorf("SelectedFile = %d, want 1", s.SelectedFile)
	}
	s.NextFile()
	if s.SelectedFile != 2 {
		t.Errorf("SelectedFile = %d, want 2", s.SelectedFile)
	}
	s.NextFile()
	if s.SelectedFile != 2 {
		t.Errorf("SelectedFile = %d, want 2 (clamped at last)", s.SelectedFile)
	}

	s.PrevFile()
	if s.SelectedFile != 1 {
		t.Errorf("SelectedFile = %d, want 1", s.SelectedFile)
	}
}

func TestSnapToVisible_MovesToFirstVisibleWhenFilteredOut(t *testing.T) {
	s := NewState()
	s.Files = makeFiles("a.go", "b.go")
	s.SelectedFile = 0
	s.SearchQuery = "b"

	s.SnapToVisible()
	if s.SelectedFile != 1 {
		t.Errorf("SelectedFile = %d, want 1 (snapped to b.go)", s.SelectedFile)
	}
}

func TestOrphanedReplies_FindsRepliesToUnknownParent(t *testing.T) {
	s := NewState()
	s.Platform = &sidecar.PlatformCommentsDocument{
		Comments: []*sidecar.PlatformComment{
			{CommentID: "top", File: "main.go"},
			{CommentID: "r1", File: "main.go", InReplyToID: "top"},
			{CommentID: "orphan", File: "main.go", InReplyToID: "deleted-hunk-comment"},
		},
	}
	got := s.OrphanedReplies()
	if len(got) != 1 || got[0].ID() != "orphan" {
		t.Errorf("got = %+v", got)
	}
}

func TestReviewOrder_ResolvesGroups(t *testing.T) {
	s := NewState()
	s.Order = &sidecar.OrderDocument{
		Order: []sidecar.OrderEntry{
			{Path: "a.go", Reason: "entry point", Group: "core"},
			{Path: "b.go", Reason: "no group"},
		},
		Groups: map[string]sidecar.OrderGroup{
			"core": {Label: "Core", Color: "#ff0000"},
		},
	}
	rows := s.ReviewOrder()
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if !rows[0].HasGroup || rows[0].Group.Label != "Core" {
		t.Errorf("rows[0] = %+v, want resolved Core group", rows[0])
	}
	if rows[1].HasGroup {
		t.Errorf("rows[1].HasGroup = true, want false (no group)")
	}
}

func TestNextHunkPrevHunk_Clamped(t *testing.T) {
	s := NewState()
	s.Files = makeFiles("a.go")
	s.SelectedFile = 0

	s.PrevHunk()
	if s.CurrentHunk != 0 {
		t.Errorf("CurrentHunk = %d, want 0", s.CurrentHunk)
	}
	s.NextHunk()
	if s.CurrentHunk != 1 {
		t.Errorf("CurrentHunk = %d, want 1", s.CurrentHunk)
	}
	s.NextHunk()
	if s.CurrentHunk != 1 {
		t.Errorf("CurrentHunk = %d, want 1 (only 2 hunks, clamped)", s.CurrentHunk)
	}
}
