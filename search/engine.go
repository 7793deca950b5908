package search

import (
	"strings"

	"github.com/noelzubin/obsidian_search/search/translit"
)

// Query is a search string prepared for matching against records.
type Query struct {
	Raw      string
	Lower    string // Lowercased query for the literal match
	Phonetic string // Pinyin form of the query, empty if it has none
}

// NewQuery prepares q for matching.
func NewQuery(q string) Query {
	return Query{
		Raw:      q,
		Lower:    strings.ToLower(q),
		Phonetic: translit.Normalize(q),
	}
}

// Matches reports whether s contains the query, either literally ignoring
// case or by its pinyin.
func (q Query) Matches(s string) bool {
	if strings.Contains(strings.ToLower(s), q.Lower) {
		return true
	}
	return q.Phonetic != "" && strings.Contains(translit.Normalize(s), q.Phonetic)
}

type contentKey struct {
	title string
	line  int
}

// Collector turns matching records into results, emitting each title and
// each (title, line) pair at most once.
type Collector struct {
	titles   map[string]struct{}
	contents map[contentKey]struct{}
	results  []SearchResult
}

func NewCollector() *Collector {
	return &Collector{
		titles:   make(map[string]struct{}),
		contents: make(map[contentKey]struct{}),
	}
}

// HasTitle reports whether a title match was already added for title.
func (c *Collector) HasTitle(title string) bool {
	_, ok := c.titles[title]
	return ok
}

// AddTitle adds a title match for rec unless its title was already added.
func (c *Collector) AddTitle(rec LineRecord) {
	if _, ok := c.titles[rec.Title]; ok {
		return
	}
	c.titles[rec.Title] = struct{}{}
	c.results = append(c.results, SearchResult{
		Kind:        KindTitle,
		Title:       rec.Title,
		Description: "Vault: " + rec.Vault,
		Icon:        IconTitle,
		Filepath:    rec.RelativePath,
		Vault:       rec.Vault,
		LineNumber:  0,
	})
}

// AddContent adds a content match for rec unless the same title and line
// was already added.
func (c *Collector) AddContent(rec LineRecord) {
	key := contentKey{rec.Title, rec.LineNumber}
	if _, ok := c.contents[key]; ok {
		return
	}
	c.contents[key] = struct{}{}
	c.results = append(c.results, SearchResult{
		Kind:        KindContent,
		Title:       rec.Title,
		Description: rec.Text,
		Icon:        IconContent,
		Filepath:    rec.RelativePath,
		Vault:       rec.Vault,
		LineNumber:  rec.LineNumber,
	})
}

// Results returns what was collected so far.
func (c *Collector) Results() []SearchResult {
	return c.results
}

// Search returns the title and content matches of query in index order.
// An empty query returns no results.
func Search(idx *Index, query string) []SearchResult {
	if query == "" || idx == nil {
		return nil
	}

	q := NewQuery(query)
	c := NewCollector()
	for _, vault := range idx.Vaults() {
		for _, rec := range idx.Records(vault) {
			if !c.HasTitle(rec.Title) && q.Matches(rec.Title) {
				c.AddTitle(rec)
			}
			if q.Matches(rec.Text) {
				c.AddContent(rec)
			}
		}
	}
	return c.Results()
}

// scanner is the Searcher doing a linear pass over the index.
type scanner struct {
	index *Index
}

// NewScanner returns a Searcher scanning idx on every query.
func NewScanner(idx *Index) Searcher {
	return &scanner{index: idx}
}

func (s *scanner) Search(query string) ([]SearchResult, error) {
	return Search(s.index, query), nil
}
