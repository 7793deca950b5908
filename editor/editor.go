package editor

import (
	"fmt"
	"net/url"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/noelzubin/obsidian_search/search"
	"github.com/pkg/browser"
)

// Editor hands notes over to Obsidian.
type Editor struct {
	Opening bool   // Is a link being opened
	OpenCmd string // Command to open the link with, system default if empty
}

// OpenFinished is sent once the link was handed over.
type OpenFinished struct {
	Err error
}

// DeepLink returns the obsidian advanced-uri link that opens the note of r at
// its line. Line 0 is passed through as is.
func DeepLink(r search.SearchResult) string {
	return fmt.Sprintf("obsidian://advanced-uri?vault=%s&filepath=%s&line=%d&openmode=true",
		encodeComponent(r.Vault), encodeComponent(r.Filepath), r.LineNumber)
}

// QueryEscape escapes more than encodeURIComponent does. Spaces become + and
// these marks are escaped too, so both are put back.
var componentReplacer = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeComponent escapes s the way encodeURIComponent does.
func encodeComponent(s string) string {
	return componentReplacer.Replace(url.QueryEscape(s))
}

// this opens up the link with an external command.
func openWith(app string, args ...string) tea.Cmd {
	return tea.ExecProcess(exec.Command(app, args...), func(err error) tea.Msg {
		return OpenFinished{Err: err}
	})
}

// this opens up the link with the default handler of the system.
func openDefault(uri string) tea.Cmd {
	return func() tea.Msg {
		return OpenFinished{Err: browser.OpenURL(uri)}
	}
}

func (m *Editor) Init() tea.Cmd {
	return nil
}

// Open opens uri in Obsidian.
func (m *Editor) Open(uri string) tea.Cmd {
	m.Opening = true
	if m.OpenCmd != "" {
		return openWith(m.OpenCmd, uri)
	}
	return openDefault(uri)
}

func (m Editor) Update(msg tea.Msg) (Editor, tea.Cmd) {
	switch msg.(type) {
	case OpenFinished:
		m.Opening = false
		return m, nil
	}

	return m, nil
}

// Doesnt render anything
func (m Editor) View() string {
	return ""
}
