package sidecar

import "testing"

func TestStore_ReviewRoundTrip(t *testing.T) {
	s := New(t.TempDir())

	doc := ReviewDocument{
		DiffHash: "abc123",
		Files: map[string]FileReview{
			"main.go": {Risk: RiskLow, Summary: "looks fine"},
		},
		FileHashes: map[string]string{"main.go": "f1"},
	}
	if err := s.SaveReview(doc); err != nil {
		t.Fatalf("SaveReview failed: %v", err)
	}

	got, stale, err := s.LoadReview("abc123")
	if err != nil {
		t.Fatalf("LoadReview failed: %v", err)
	}
	if got == nil {
		t.Fatal("LoadReview returned nil")
	}
	if stale {
		t.Error("expected fresh, got stale")
	}
	if fr, ok := got.Files["main.go"]; !ok || fr.Risk != RiskLow {
		t.Errorf("Files = %+v", got.Files)
	}
}

func TestStore_ReviewStaleOnHashMismatch(t *testing.T) {
	s := New(t.TempDir())
	if err := s.SaveReview(ReviewDocument{DiffHash: "old"}); err != nil {
		t.Fatal(err)
	}

	got, stale, err := s.LoadReview("new")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("expected document to still load")
	}
	if !stale {
		t.Error("expected stale on hash mismatch")
	}
}

func TestStore_ReviewNotFound(t *testing.T) {
	s := New(t.TempDir())
	got, stale, err := s.LoadReview("whatever")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
	if stale {
		t.Error("a missing document should not report stale")
	}
}

func TestStaleFiles(t *testing.T) {
	doc := &ReviewDocument{
		Files: map[string]FileReview{
			"a.go": {},
			"b.go": {},
		},
		FileHashes: map[string]string{"a.go": "h1", "b.go": "h2"},
	}
	current := map[string]string{"a.go": "h1", "b.go": "CHANGED"}

	stale := StaleFiles(doc, current)
	if len(stale) != 1 || stale[0] != "b.go" {
		t.Errorf("StaleFiles = %v, want [b.go]", stale)
	}
}

func TestStore_QuestionsRoundTrip(t *testing.T) {
	s := New(t.TempDir())

	doc := QuestionsDocument{
		DiffHash:  "abc",
		Questions: []*Question{{QuestionID: "q1", File: "main.go", Text: "why this?"}},
	}
	if err := s.SaveQuestions(doc); err != nil {
		t.Fatalf("SaveQuestions failed: %v", err)
	}

	got, err := s.LoadQuestions()
	if err != nil {
		t.Fatalf("LoadQuestions failed: %v", err)
	}
	if len(got.Questions) != 1 || got.Questions[0].QuestionID != "q1" {
		t.Errorf("got = %+v", got)
	}
	if got.Questions[0].Author() != "You" {
		t.Errorf("Question author should always be You, got %q", got.Questions[0].Author())
	}
}

func TestStore_ReviewedMarker(t *testing.T) {
	s := New(t.TempDir())

	if _, found, err := s.LoadReviewed(); err != nil || found {
		t.Fatalf("expected not found, got found=%v err=%v", found, err)
	}

	if err := s.MarkReviewed("deadbeef"); err != nil {
		t.Fatalf("MarkReviewed failed: %v", err)
	}

	sha, found, err := s.LoadReviewed()
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("expected found")
	}
	if sha != "deadbeef" {
		t.Errorf("sha = %q, want %q", sha, "deadbeef")
	}
}

func TestDiffHash_Deterministic(t *testing.T) {
	a := DiffHash("some diff content")
	b := DiffHash("some diff content")
	if a != b {
		t.Error("DiffHash should be deterministic")
	}
	if a == DiffHash("different content") {
		t.Error("DiffHash should differ for different content")
	}
}

func TestComment_CapabilityMatrix(t *testing.T) {
	q := &Question{QuestionID: "q1"}
	if q.CanReply() || !q.CanDelete() || q.Synced() {
		t.Errorf("Question capabilities wrong: reply=%v delete=%v synced=%v", q.CanReply(), q.CanDelete(), q.Synced())
	}

	// A top-level GitHub-authored platform comment: repliable, not
	// deletable (it belongs to the forge), synced, and stale per its flag.
	p := &PlatformComment{CommentID: "gh-42", Origin: "github", By: "octocat", SyncedTag: true, StaleTag: true}
	if !p.CanReply() || p.CanDelete() || !p.Synced() || !p.Stale() {
		t.Errorf("PlatformComment capabilities wrong: reply=%v delete=%v synced=%v stale=%v",
			p.CanReply(), p.CanDelete(), p.Synced(), p.Stale())
	}
	if p.ID() != "gh-42" {
		t.Errorf("ID() = %q, want gh-42", p.ID())
	}

	// A reply can't itself be replied to.
	reply := &PlatformComment{CommentID: "gh-43", Origin: "github", By: "octocat", InReplyToID: "gh-42"}
	if reply.CanReply() {
		t.Error("a reply comment should not itself be repliable")
	}

	// A locally authored platform comment (not yet synced) remains deletable.
	local := &PlatformComment{CommentID: "local-1", Origin: "local", By: "You"}
	if !local.CanDelete() {
		t.Error("a locally authored platform comment should be deletable")
	}

	l := &LegacyComment{CommentID: "l1", Origin: "github", By: "octocat"}
	if l.CanDelete() {
		t.Error("a GitHub-authored legacy comment should not be deletable")
	}
	if l.Stale() {
		t.Error("legacy comments are never marked stale")
	}
}
