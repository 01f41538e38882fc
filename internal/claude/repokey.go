package claude

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

// RepoKey derives a stable, filesystem-safe cache key from a repository's
// absolute path: the directory's base name plus a short content hash, so
// two checkouts of differently-named repos never collide and two clones of
// the same repo at different paths are treated independently.
func RepoKey(repoPath string) string {
	clean := filepath.Clean(repoPath)
	sum := sha256.Sum256([]byte(clean))
	return filepath.Base(clean) + "-" + hex.EncodeToString(sum[:])[:12]
}
