package bleve_indexer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveSearch "github.com/blevesearch/bleve/v2/search"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/noelzubin/obsidian_search/search"
	"github.com/noelzubin/obsidian_search/search/translit"
	"github.com/samber/lo"
)

// Fields of an indexed line. Every field is a single keyword term so that
// a regexp over the term dictionary gives substring matching.
const (
	fieldTitle         = "title"
	fieldTitlePhonetic = "title_py"
	fieldText          = "text"
	fieldTextPhonetic  = "text_py"
)

// bleveIndexer is the implmentation of the Searcher interface which keeps
// the line records in an in-memory bleve index.
type bleveIndexer struct {
	index   bleve.Index
	records []search.LineRecord // Records by ordinal, which is the document id
}

// New indexes every record of idx in a new in-memory bleve index.
func New(idx *search.Index) (*bleveIndexer, error) {
	index, err := bleve.NewMemOnly(newMapping())
	if err != nil {
		return nil, err
	}

	records := idx.All()

	batch := index.NewBatch()
	for i, rec := range records {
		doc := map[string]interface{}{
			fieldTitle:         strings.ToLower(rec.Title),
			fieldTitlePhonetic: translit.Normalize(rec.Title),
			fieldText:          strings.ToLower(rec.Text),
			fieldTextPhonetic:  translit.Normalize(rec.Text),
		}
		if err := batch.Index(strconv.Itoa(i), doc); err != nil {
			index.Close()
			return nil, err
		}
	}
	if err := index.Batch(batch); err != nil {
		index.Close()
		return nil, err
	}

	return &bleveIndexer{index: index, records: records}, nil
}

// NewSearcher is New returning the search.Searcher interface.
func NewSearcher(idx *search.Index) (search.Searcher, error) {
	s, err := New(idx)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// newMapping maps every field with the keyword analyzer, keeping each
// value as one untouched term.
func newMapping() mapping.IndexMapping {
	keyword := bleve.NewKeywordFieldMapping()
	keyword.Store = false
	keyword.IncludeInAll = false
	keyword.IncludeTermVectors = false

	doc := bleve.NewDocumentMapping()
	for _, field := range []string{fieldTitle, fieldTitlePhonetic, fieldText, fieldTextPhonetic} {
		doc.AddFieldMappingsAt(field, keyword)
	}

	m := bleve.NewIndexMapping()
	m.DefaultMapping = doc
	return m
}

func (s *bleveIndexer) Close() error {
	return s.index.Close()
}

// Search returns the same results as search.Search: bleve finds the matching
// lines, then the records are walked in index order to emit them.
func (s *bleveIndexer) Search(qry string) ([]search.SearchResult, error) {
	if qry == "" || len(s.records) == 0 {
		return nil, nil
	}

	q := search.NewQuery(qry)

	titles, err := s.matching(q, fieldTitle, fieldTitlePhonetic)
	if err != nil {
		return nil, err
	}
	texts, err := s.matching(q, fieldText, fieldTextPhonetic)
	if err != nil {
		return nil, err
	}

	c := search.NewCollector()
	for i, rec := range s.records {
		if titles[i] {
			c.AddTitle(rec)
		}
		if texts[i] {
			c.AddContent(rec)
		}
	}
	return c.Results(), nil
}

// matching returns the ordinals of the records whose literal field or
// phonetic field contains the query.
func (s *bleveIndexer) matching(q search.Query, literalField, phoneticField string) (map[int]bool, error) {
	queries := []query.Query{containsQuery(literalField, q.Lower)}
	if q.Phonetic != "" {
		queries = append(queries, containsQuery(phoneticField, q.Phonetic))
	}

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(queries...), len(s.records), 0, false)
	res, err := s.index.Search(req)
	if err != nil {
		return nil, err
	}

	ords := lo.FilterMap(res.Hits, func(hit *bleveSearch.DocumentMatch, _ int) (int, bool) {
		ord, err := strconv.Atoi(hit.ID)
		return ord, err == nil
	})
	return lo.SliceToMap(ords, func(ord int) (int, bool) {
		return ord, true
	}), nil
}

// containsQuery matches terms of field that contain s.
func containsQuery(field, s string) query.Query {
	q := bleve.NewRegexpQuery(".*" + regexp.QuoteMeta(s) + ".*")
	q.SetField(field)
	return q
}
