package git

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// RepoExists checks if a git repository exists at the given path.
func RepoExists(path string) bool {
	info, err := os.Stat(filepath.Join(path, ".git"))
	return err == nil && info.IsDir()
}

// EnsureRepo clones a repository if it doesn't exist, or fetches if it does.
// Returns the path to the repository.
func EnsureRepo(reposPath, owner, repo, token string) (string, error) {
	repoPath := filepath.Join(reposPath, repo)

	if RepoExists(repoPath) {
		// Update remote URL with current token and fetch
		authURL := authRemoteURL(owner, repo, token)
		if err := runGit(repoPath, "remote", "set-url", "origin", authURL); err != nil {
			return "", fmt.Errorf("failed to update remote URL: %w", err)
		}
		if err := Fetch(repoPath); err != nil {
			return "", fmt.Errorf("failed to fetch: %w", err)
		}
		return repoPath, nil
	}

	// Clone
	if err := os.MkdirAll(reposPath, 0o755); err != nil {
		return "", fmt.Errorf("failed to create repos directory: %w", err)
	}

	authURL := authRemoteURL(owner, repo, token)
	cmd := exec.Command("git", "clone", authURL, repoPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("failed to clone %s/%s: %w\n%s", owner, repo, err, string(out))
	}

	return repoPath, nil
}

// Fetch runs git fetch origin in the given repo.
func Fetch(repoPath string) error {
	return runGit(repoPath, "fetch", "origin")
}

// GetHeadSHA returns the commit SHA for a branch reference.
func GetHeadSHA(repoPath, branch string) (string, error) {
	ref := "origin/" + branch
	cmd := exec.Command("git", "rev-parse", ref)
	cmd.Dir = repoPath
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to get SHA for %s: %w", ref, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Worktree is one entry of `git worktree list`.
type Worktree struct {
	Path   string
	Branch string
}

// DiffRaw returns the raw unified-diff text for mode ("branch", "unstaged",
// or "staged") against base, run in dir. For "branch" the diff is against
// base directly; "unstaged"/"staged" ignore base entirely.
func DiffRaw(mode, base, dir string) (string, error) {
	var args []string
	switch mode {
	case "branch":
		args = []string{"diff", base, "--unified=3", "--no-color", "--no-ext-diff"}
	case "unstaged":
		args = []string{"diff", "--unified=3", "--no-color", "--no-ext-diff"}
	case "staged":
		args = []string{"diff", "--staged", "--unified=3", "--no-color", "--no-ext-diff"}
	default:
		return "", fmt.Errorf("unknown diff mode: %s", mode)
	}

	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if stderr.Len() > 0 && err != nil {
		return "", fmt.Errorf("git diff failed: %s", strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// ApplyPatch stages a single-hunk patch (as produced by diffmodel.EmitPatch)
// via `git apply --cached --unidiff-zero`.
func ApplyPatch(dir, patch string) error {
	cmd := exec.Command("git", "apply", "--cached", "--unidiff-zero")
	cmd.Dir = dir
	cmd.Stdin = strings.NewReader(patch)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to stage hunk: %s", strings.TrimSpace(string(out)))
	}
	return nil
}

// StageFile runs `git add` for a single file.
func StageFile(dir, path string) error {
	return runGit(dir, "add", "--", path)
}

// UnstageFile runs `git reset HEAD` for a single file.
func UnstageFile(dir, path string) error {
	return runGit(dir, "reset", "HEAD", "--", path)
}

// ListWorktrees lists every worktree registered against the repo at dir.
func ListWorktrees(dir string) ([]Worktree, error) {
	cmd := exec.Command("git", "worktree", "list", "--porcelain")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git worktree list failed: %w", err)
	}
	return parseWorktreeList(string(out)), nil
}

// parseWorktreeList parses `git worktree list --porcelain` output. Entries
// are separated by blank lines; a worktree with no "branch refs/heads/..."
// line (bare or detached HEAD) reports as "(detached)".
func parseWorktreeList(output string) []Worktree {
	var worktrees []Worktree
	var path, branch string
	flush := func() {
		if path == "" {
			return
		}
		if branch == "" {
			branch = "(detached)"
		}
		worktrees = append(worktrees, Worktree{Path: path, Branch: branch})
	}

	for _, line := range strings.Split(output, "\n") {
		switch {
		case strings.HasPrefix(line, "worktree "):
			flush()
			path = strings.TrimPrefix(line, "worktree ")
			branch = ""
		case strings.HasPrefix(line, "branch refs/heads/"):
			branch = strings.TrimPrefix(line, "branch refs/heads/")
		case line == "detached":
			branch = "(detached)"
		}
	}
	flush()

	return worktrees
}

func authRemoteURL(owner, repo, token string) string {
	return fmt.Sprintf("https://x-access-token:%s@github.com/%s/%s.git", token, owner, repo)
}

func runGit(repoPath string, args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = repoPath
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git %s failed: %w\n%s", strings.Join(args, " "), err, string(out))
	}
	return nil
}
