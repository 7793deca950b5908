package search

import "time"

// Extension of the files that are treated as notes.
const NoteExtension = ".md"

// Icons shown next to each kind of result.
const (
	IconTitle   = "resource/title.png"
	IconContent = "resource/content.png"
	IconRecent  = "resource/recent.png"
)

// Kind tells what part of a note a result matched.
type Kind int

const (
	KindTitle Kind = iota
	KindContent
	KindRecent
	KindNotice // message for the user, not a note
)

func (k Kind) String() string {
	switch k {
	case KindTitle:
		return "title"
	case KindContent:
		return "content"
	case KindRecent:
		return "recent"
	case KindNotice:
		return "notice"
	}
	return "unknown"
}

// LineRecord is one non blank line of a note.
type LineRecord struct {
	Title        string    // File name without the extension
	Text         string    // Trimmed line content
	LineNumber   int       // 1-based position in the file, blank lines included
	RelativePath string    // Path inside the vault, '/' separated
	Vault        string    // Top level directory under the root
	ModifiedAt   time.Time // Modification time of the file
}

// SearchResult is a single entry shown in the list.
// LineNumber is 0 for title matches.
type SearchResult struct {
	Kind        Kind
	Title       string
	Description string
	Icon        string
	Filepath    string
	Vault       string
	LineNumber  int
}

// The searcher answers queries against an index that was already built.
type Searcher interface {
	Search(query string) ([]SearchResult, error) // Search the index for the given query.
}
