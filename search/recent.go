package search

import (
	"sort"

	"github.com/samber/lo"
)

// RecentNotes returns up to limit notes, most recently modified first.
//
// Each note is represented by its first line record. Notes are de-duplicated
// by title within a vault only, so equally named notes in two vaults are both
// kept. Notes modified at the same time keep their index order.
func RecentNotes(idx *Index, limit int) []SearchResult {
	if idx == nil || limit <= 0 {
		return nil
	}

	var notes []LineRecord
	for _, vault := range idx.Vaults() {
		seen := make(map[string]struct{})
		for _, rec := range idx.Records(vault) {
			if _, ok := seen[rec.Title]; ok {
				continue
			}
			seen[rec.Title] = struct{}{}
			notes = append(notes, rec)
		}
	}

	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].ModifiedAt.After(notes[j].ModifiedAt)
	})

	if len(notes) > limit {
		notes = notes[:limit]
	}

	return lo.Map(notes, func(rec LineRecord, _ int) SearchResult {
		return SearchResult{
			Kind:        KindRecent,
			Title:       rec.Title,
			Description: rec.Text,
			Icon:        IconRecent,
			Filepath:    rec.RelativePath,
			Vault:       rec.Vault,
			LineNumber:  rec.LineNumber,
		}
	})
}
