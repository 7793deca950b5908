package bleve_indexer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/noelzubin/obsidian_search/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildFixture(t *testing.T) *search.Index {
	t.Helper()
	root := t.TempDir()
	notes := map[string]string{
		"work/Foo.md":          "foo one\nbar\n\nsome FOO\nbaz",
		"work/plans/Q1.md":     "ship the (beta) v1.2\n*stars* and [brackets]",
		"home/你好.md":           "问候\n你好世界",
		"home/shopping.md":     "milk\neggs\nfoo bar",
		"archive/same.md":      "match me",
		"archive/deep/same.md": "match me too",
	}
	for rel, content := range notes {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		require.NoError(t, os.Chtimes(path, time.Unix(1, 0), time.Unix(1, 0)))
	}

	idx, err := search.BuildIndex(root)
	require.NoError(t, err)
	return idx
}

func TestSearchMatchesScanner(t *testing.T) {
	idx := buildFixture(t)
	s, err := New(idx)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	queries := []string{"foo", "FOO", "nihao", "你好", "wen", "(beta)", "v1.2", "*", "[brackets]", "match", " ", "e", "nothing here"}
	for _, q := range queries {
		t.Run(q, func(t *testing.T) {
			got, err := s.Search(q)
			require.NoError(t, err)
			assert.Equal(t, search.Search(idx, q), got)
		})
	}
}

func TestSearchPhoneticLine(t *testing.T) {
	s, err := New(buildFixture(t))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	results, err := s.Search("shijie")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, search.KindContent, results[0].Kind)
	assert.Equal(t, "你好世界", results[0].Description)
	assert.Equal(t, 2, results[0].LineNumber)
}

func TestSearchEmpty(t *testing.T) {
	s, err := New(buildFixture(t))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	results, err := s.Search("")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchEmptyIndex(t *testing.T) {
	idx, err := search.BuildIndex(t.TempDir())
	require.NoError(t, err)

	s, err := New(idx)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	results, err := s.Search("anything")
	require.NoError(t, err)
	assert.Empty(t, results)
}
