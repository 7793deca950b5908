// Package session drives one search session: it builds the index when the
// session starts, answers queries while the user types and turns the chosen
// result into an Obsidian link.
//
// All calls are expected from a single goroutine. A rebuild or a search runs
// to completion before the next call is served.
package session

import (
	"errors"
	"io"
	"log/slog"

	"github.com/noelzubin/obsidian_search/editor"
	"github.com/noelzubin/obsidian_search/search"
)

var (
	// ErrConfigurationMissing is returned when no notes root is configured.
	ErrConfigurationMissing = errors.New("notes root path is not configured")
	// ErrNotSelectable is returned when selecting a result that is not a note.
	ErrNotSelectable = errors.New("result does not point to a note")
)

// DefaultRecentLimit is the number of recent notes shown when a session starts.
const DefaultRecentLimit = 10

// RootPathProvider gives the currently configured notes root.
type RootPathProvider interface {
	RootPath() (string, bool)
}

// Engine creates the searcher used to answer queries on a built index.
type Engine func(idx *search.Index) (search.Searcher, error)

// ScanEngine answers queries by scanning the index.
func ScanEngine(idx *search.Index) (search.Searcher, error) {
	return search.NewScanner(idx), nil
}

// Controller holds the index of the current session.
type Controller struct {
	settings        RootPathProvider
	engine          Engine
	logger          *slog.Logger
	recentLimit     int
	rebuildOnSearch bool

	root     string // Root the index was built from
	index    *search.Index
	searcher search.Searcher
}

// Option is a functional option for configuring the controller.
type Option func(*Controller)

// WithEngine sets how queries are answered. Defaults to ScanEngine.
func WithEngine(engine Engine) Option {
	return func(c *Controller) {
		c.engine = engine
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithRecentLimit sets how many recent notes Enter returns.
func WithRecentLimit(limit int) Option {
	return func(c *Controller) {
		c.recentLimit = limit
	}
}

// WithRebuildOnSearch makes every query rebuild the index first.
func WithRebuildOnSearch(rebuild bool) Option {
	return func(c *Controller) {
		c.rebuildOnSearch = rebuild
	}
}

// New returns a controller reading the notes root from settings.
func New(settings RootPathProvider, opts ...Option) *Controller {
	c := &Controller{
		settings:    settings,
		engine:      ScanEngine,
		logger:      slog.Default(),
		recentLimit: DefaultRecentLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ConfigurationPrompt is the single result shown while no root is configured.
func ConfigurationPrompt() search.SearchResult {
	return search.SearchResult{
		Kind:        search.KindNotice,
		Title:       "Obsidian root path is not set",
		Description: "Run `obsearch setting <path>` to set it",
	}
}

// Enter starts a session: the index is rebuilt and the most recently
// modified notes are returned. Without a configured root the only result is
// the configuration prompt.
func (c *Controller) Enter() ([]search.SearchResult, error) {
	root, ok := c.settings.RootPath()
	if !ok {
		return []search.SearchResult{ConfigurationPrompt()}, nil
	}

	if err := c.rebuild(root); err != nil {
		return nil, err
	}
	return search.RecentNotes(c.index, c.recentLimit), nil
}

// Search answers a query typed by the user.
//
// The index is rebuilt when the configured root changed since the last build,
// or on every query with WithRebuildOnSearch. If that rebuild fails, the
// failure is logged and the last index that was built keeps answering.
func (c *Controller) Search(query string) ([]search.SearchResult, error) {
	root, ok := c.settings.RootPath()
	if !ok {
		return []search.SearchResult{ConfigurationPrompt()}, nil
	}
	if query == "" {
		return nil, nil
	}

	if c.index == nil || c.rebuildOnSearch || root != c.root {
		if err := c.rebuild(root); err != nil {
			c.logger.Warn("rebuild failed, serving previous index",
				slog.String("root", root),
				slog.String("error", err.Error()))
		}
	}
	if c.searcher == nil {
		return nil, nil
	}

	return c.searcher.Search(query)
}

// Select returns the Obsidian link for the chosen result.
func (c *Controller) Select(r search.SearchResult) (string, error) {
	if _, ok := c.settings.RootPath(); !ok {
		return "", ErrConfigurationMissing
	}
	if r.Kind == search.KindNotice || r.Vault == "" {
		return "", ErrNotSelectable
	}
	return editor.DeepLink(r), nil
}

// Refresh rebuilds the index from the configured root.
func (c *Controller) Refresh() error {
	root, ok := c.settings.RootPath()
	if !ok {
		return ErrConfigurationMissing
	}
	return c.rebuild(root)
}

// Root returns the root the current index was built from.
func (c *Controller) Root() string {
	return c.root
}

// Index returns the current index, nil before the first build.
func (c *Controller) Index() *search.Index {
	return c.index
}

// Close releases the searcher.
func (c *Controller) Close() error {
	if closer, ok := c.searcher.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// rebuild replaces the index with a fresh one built from root. On error the
// current index is kept.
func (c *Controller) rebuild(root string) error {
	idx, err := search.BuildIndex(root)
	if err != nil {
		return err
	}

	searcher, err := c.engine(idx)
	if err != nil {
		return err
	}

	if err := c.Close(); err != nil {
		c.logger.Warn("failed to close previous searcher", slog.String("error", err.Error()))
	}

	for _, failure := range idx.Failures {
		c.logger.Warn("note skipped", slog.String("path", failure.Path), slog.String("error", failure.Err.Error()))
	}
	c.logger.Debug("index built",
		slog.String("root", root),
		slog.Int("vaults", len(idx.Vaults())),
		slog.Int("lines", idx.Len()),
		slog.Int("failures", len(idx.Failures)))

	c.root = root
	c.index = idx
	c.searcher = searcher
	return nil
}
