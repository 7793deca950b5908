package search

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// writeNote creates root/rel with content and sets its modification time.
func writeNote(t *testing.T, root, rel, content string, mtime time.Time) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
	return path
}

func at(sec int64) time.Time {
	return time.Unix(sec, 0)
}

func mustBuild(t *testing.T, root string) *Index {
	t.Helper()
	idx, err := BuildIndex(root)
	require.NoError(t, err)
	return idx
}
