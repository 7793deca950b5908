package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/noelzubin/obsidian_search/search"
	"github.com/noelzubin/obsidian_search/search/bleve_indexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedRoot is a RootPathProvider returning a fixed value.
type fixedRoot struct {
	root  string
	reads int
}

func (f *fixedRoot) RootPath() (string, bool) {
	f.reads++
	return f.root, f.root != ""
}

func writeNote(t *testing.T, root, rel, content string, mtime int64) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	require.NoError(t, os.Chtimes(path, time.Unix(mtime, 0), time.Unix(mtime, 0)))
}

func vaultFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeNote(t, root, "V/A.md", "alpha", 100)
	writeNote(t, root, "V/B.md", "beta\n你好", 300)
	writeNote(t, root, "V/C.md", "gamma", 200)
	return root
}

// countingEngine counts how many searchers were created.
type countingEngine struct {
	builds int
}

func (e *countingEngine) engine(idx *search.Index) (search.Searcher, error) {
	e.builds++
	return search.NewScanner(idx), nil
}

func TestUnconfiguredRoot(t *testing.T) {
	engine := &countingEngine{}
	c := New(&fixedRoot{}, WithEngine(engine.engine))

	results, err := c.Enter()
	require.NoError(t, err)
	assert.Equal(t, []search.SearchResult{ConfigurationPrompt()}, results)

	results, err = c.Search("anything")
	require.NoError(t, err)
	assert.Equal(t, []search.SearchResult{ConfigurationPrompt()}, results)

	_, err = c.Select(search.SearchResult{Kind: search.KindTitle, Vault: "V"})
	assert.ErrorIs(t, err, ErrConfigurationMissing)
	assert.ErrorIs(t, c.Refresh(), ErrConfigurationMissing)

	assert.Zero(t, engine.builds)
	assert.Nil(t, c.Index())
}

func TestEnterReturnsRecentNotes(t *testing.T) {
	c := New(&fixedRoot{root: vaultFixture(t)}, WithRecentLimit(2))

	results, err := c.Enter()
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "B", results[0].Title)
	assert.Equal(t, "C", results[1].Title)
	assert.Equal(t, search.KindRecent, results[0].Kind)
}

func TestEnterInvalidRoot(t *testing.T) {
	c := New(&fixedRoot{root: filepath.Join(t.TempDir(), "gone")})

	_, err := c.Enter()

	var pathErr *search.PathError
	assert.ErrorAs(t, err, &pathErr)
}

func TestSearch(t *testing.T) {
	c := New(&fixedRoot{root: vaultFixture(t)})
	_, err := c.Enter()
	require.NoError(t, err)

	results, err := c.Search("")
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = c.Search("nihao")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "B", results[0].Title)
	assert.Equal(t, 2, results[0].LineNumber)
}

func TestSearchReusesIndex(t *testing.T) {
	engine := &countingEngine{}
	c := New(&fixedRoot{root: vaultFixture(t)}, WithEngine(engine.engine))
	_, err := c.Enter()
	require.NoError(t, err)

	_, err = c.Search("a")
	require.NoError(t, err)
	_, err = c.Search("al")
	require.NoError(t, err)

	assert.Equal(t, 1, engine.builds)
}

func TestSearchRebuildsWhenRootChanges(t *testing.T) {
	settings := &fixedRoot{root: vaultFixture(t)}
	c := New(settings)
	_, err := c.Enter()
	require.NoError(t, err)

	other := t.TempDir()
	writeNote(t, other, "W/delta.md", "delta", 1)
	settings.root = other

	results, err := c.Search("delta")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "W", results[0].Vault)
	assert.Equal(t, other, c.Root())
}

func TestSearchRebuildOnSearch(t *testing.T) {
	root := vaultFixture(t)
	engine := &countingEngine{}
	c := New(&fixedRoot{root: root}, WithEngine(engine.engine), WithRebuildOnSearch(true))
	_, err := c.Enter()
	require.NoError(t, err)

	writeNote(t, root, "V/new.md", "fresh", 1)
	results, err := c.Search("fresh")
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, 2, engine.builds)
}

func TestSearchServesStaleIndexWhenRootDisappears(t *testing.T) {
	root := vaultFixture(t)
	c := New(&fixedRoot{root: root}, WithRebuildOnSearch(true))
	_, err := c.Enter()
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(root))

	results, err := c.Search("alpha")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "A", results[0].Title)

	var pathErr *search.PathError
	assert.ErrorAs(t, c.Refresh(), &pathErr)
}

func TestSearchWithoutAnyIndex(t *testing.T) {
	c := New(&fixedRoot{root: filepath.Join(t.TempDir(), "gone")})

	results, err := c.Search("x")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchEngineError(t *testing.T) {
	failing := func(*search.Index) (search.Searcher, error) {
		return nil, errors.New("boom")
	}
	c := New(&fixedRoot{root: vaultFixture(t)}, WithEngine(failing))

	_, err := c.Enter()
	assert.EqualError(t, err, "boom")
}

func TestBleveEngine(t *testing.T) {
	root := vaultFixture(t)
	scan := New(&fixedRoot{root: root})
	bleve := New(&fixedRoot{root: root}, WithEngine(bleve_indexer.NewSearcher))
	t.Cleanup(func() { bleve.Close() })

	for _, q := range []string{"a", "nihao", "beta", "B"} {
		want, err := scan.Search(q)
		require.NoError(t, err)
		got, err := bleve.Search(q)
		require.NoError(t, err)
		assert.Equal(t, want, got, q)
	}
}

func TestSelect(t *testing.T) {
	c := New(&fixedRoot{root: vaultFixture(t)})

	uri, err := c.Select(search.SearchResult{Kind: search.KindContent, Vault: "My Vault", Filepath: "dir/B.md", LineNumber: 2})
	require.NoError(t, err)
	assert.Equal(t, "obsidian://advanced-uri?vault=My%20Vault&filepath=dir%2FB.md&line=2&openmode=true", uri)

	_, err = c.Select(ConfigurationPrompt())
	assert.ErrorIs(t, err, ErrNotSelectable)
}
