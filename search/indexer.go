package search

import (
	"os"
	"path/filepath"
	"strings"
)

// Index holds every line record of a notes root, grouped by vault.
// It is built in one pass and never modified afterwards.
type Index struct {
	vaults  []string                // Vault names in the order they were first seen
	records map[string][]LineRecord // Records per vault in walk order

	// Notes and directories that could not be indexed.
	Failures []FileError
}

func newIndex() *Index {
	return &Index{records: make(map[string][]LineRecord)}
}

func (idx *Index) add(rec LineRecord) {
	if _, ok := idx.records[rec.Vault]; !ok {
		idx.vaults = append(idx.vaults, rec.Vault)
	}
	idx.records[rec.Vault] = append(idx.records[rec.Vault], rec)
}

// Vaults returns the vault names in index order.
func (idx *Index) Vaults() []string {
	return idx.vaults
}

// Records returns the line records of a vault in index order.
func (idx *Index) Records(vault string) []LineRecord {
	return idx.records[vault]
}

// All returns the records of every vault, vault by vault.
func (idx *Index) All() []LineRecord {
	var all []LineRecord
	for _, vault := range idx.vaults {
		all = append(all, idx.records[vault]...)
	}
	return all
}

// Len returns the number of line records in the index.
func (idx *Index) Len() int {
	n := 0
	for _, recs := range idx.records {
		n += len(recs)
	}
	return n
}

// BuildIndex walks root and indexes every note below it.
//
// A note or directory that cannot be read is skipped and recorded in
// Index.Failures, as are notes lying directly in root. The only error
// returned is a *PathError for an unusable root.
func BuildIndex(root string) (*Index, error) {
	idx := newIndex()

	err := Walk(root, func(path string, err error) {
		if err != nil {
			idx.Failures = append(idx.Failures, FileError{Path: path, Err: err})
			return
		}
		if !strings.HasSuffix(path, NoteExtension) {
			return
		}

		vault, relPath, ok := splitNotePath(root, path)
		if !ok {
			idx.Failures = append(idx.Failures, FileError{Path: path, Err: ErrOutsideVault})
			return
		}

		if err := indexNote(idx, path, vault, relPath); err != nil {
			idx.Failures = append(idx.Failures, FileError{Path: path, Err: err})
		}
	})
	if err != nil {
		return nil, err
	}

	return idx, nil
}

// splitNotePath returns the vault of a note and its path inside the vault.
// Notes lying directly in root belong to no vault.
func splitNotePath(root, path string) (vault, relPath string, ok bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", "", false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 2 {
		return "", "", false
	}
	return parts[0], strings.Join(parts[1:], "/"), true
}

// indexNote reads a note and adds a record for each of its non blank lines.
func indexNote(idx *Index, path, vault, relPath string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	title := strings.TrimSuffix(filepath.Base(path), NoteExtension)
	modTime := info.ModTime()

	for i, line := range splitLines(string(content)) {
		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}
		idx.add(LineRecord{
			Title:        title,
			Text:         text,
			LineNumber:   i + 1,
			RelativePath: relPath,
			Vault:        vault,
			ModifiedAt:   modTime,
		})
	}
	return nil
}

// splitLines splits on "\n" and "\r\n".
func splitLines(content string) []string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
