package git

import "testing"

func TestParseWorktreeList(t *testing.T) {
	input := "worktree /repo\n" +
		"HEAD abc123\n" +
		"branch refs/heads/main\n" +
		"\n" +
		"worktree /repo-detached\n" +
		"HEAD def456\n" +
		"detached\n"

	got := parseWorktreeList(input)
	want := []Worktree{
		{Path: "/repo", Branch: "main"},
		{Path: "/repo-detached", Branch: "(detached)"},
	}
	if len(got) != len(want) {
		t.Fatalf("len(got) = %d, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestParseWorktreeList_NoBranchLine(t *testing.T) {
	input := "worktree /bare\n"
	got := parseWorktreeList(input)
	if len(got) != 1 || got[0].Branch != "(detached)" {
		t.Errorf("got = %+v, want single (detached) entry", got)
	}
}

func TestParseWorktreeList_Empty(t *testing.T) {
	if got := parseWorktreeList(""); got != nil {
		t.Errorf("got = %+v, want nil", got)
	}
}

func TestDiffRaw_RejectsUnknownMode(t *testing.T) {
	_, err := DiffRaw("bogus", "main", ".")
	if err == nil {
		t.Fatal("expected error for unknown diff mode")
	}
}
