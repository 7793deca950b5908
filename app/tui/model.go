package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/acarl005/stripansi"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/knipferrc/teacup/code"
	"github.com/noelzubin/obsidian_search/editor"
	"github.com/noelzubin/obsidian_search/search"
	"github.com/noelzubin/obsidian_search/session"
	"github.com/samber/lo"
)

var ListStyle = lipgloss.NewStyle().MarginTop(1)

var whitespaceRe = regexp.MustCompile(`\s{2,}|\t+`)

// Main app model for bubbletea
type Model struct {
	width     int                 // width of terminal
	height    int                 // height of terminal
	preview   *code.Bubble        // the preview widget model
	list      list.Model          // the list widget model
	textInput textinput.Model     // the input search widget model
	session   *session.Controller // builds the index and answers queries
	editor    editor.Editor       // for handing notes over to obsidian
	logger    *slog.Logger
}

// Create a new model for the app
func New(s *session.Controller, openCmd string, logger *slog.Logger) *Model {
	return &Model{
		list:      create_list_model(),
		textInput: create_text_input(),
		session:   s,
		editor:    editor.Editor{OpenCmd: openCmd},
		logger:    logger,
	}
}

// This is emitted when new results are available.
type ResultMsg struct {
	Results []search.SearchResult
	Err     error
}

// enterMsg starts the session once the program runs.
type enterMsg struct{}

func (m *Model) setListSize() {
	width := m.width
	height := m.height

	// If preview is open take half width
	if m.preview != nil {
		width = m.width / 2
	}

	m.list.SetSize(width, height-2)
}

func (m *Model) setPreviewSize() {
	if m.preview != nil {
		m.preview.SetSize(m.width/2, m.height)
	}
}

func (m *Model) updateSize(width, height int) {
	m.height = height
	m.width = width

	m.setListSize()
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tea.EnterAltScreen,
		func() tea.Msg {
			return enterMsg{}
		},
	)
}

// Formats the content of a line
// removes newslines and replaces tabs with single space.
func formatContent(content string) string {
	s := stripansi.Strip(content)
	s = strings.ReplaceAll(s, "\n", " ↵ ")
	return whitespaceRe.ReplaceAllString(s, " ")
}

// The session is not safe for concurrent use, so it is only called from
// Update and never from a tea.Cmd.
func (m *Model) enter() ResultMsg {
	results, err := m.session.Enter()
	return ResultMsg{results, err}
}

func (m *Model) search(query string) ResultMsg {
	results, err := m.session.Search(query)
	return ResultMsg{results, err}
}

func (m *Model) setResults(msg ResultMsg) tea.Cmd {
	if msg.Err != nil {
		m.logger.Error("search failed", slog.String("error", msg.Err.Error()))
		return m.list.SetItems([]list.Item{errorItem(msg.Err)})
	}
	return m.list.SetItems(lo.Map(msg.Results, func(r search.SearchResult, _ int) list.Item {
		return Note{r}
	}))
}

// The update fn for the bubbletea model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case enterMsg:
		cmds = append(cmds, m.setResults(m.enter()))
	case ResultMsg:
		cmds = append(cmds, m.setResults(msg))
	case editor.OpenFinished:
		if msg.Err != nil {
			m.logger.Error("failed to open obsidian", slog.String("error", msg.Err.Error()))
			cmds = append(cmds, m.list.SetItems([]list.Item{errorItem(msg.Err)}))
			break
		}
		// The note is in obsidian now, the session is over.
		return m, tea.Quit
	case tea.KeyMsg:
		// Keybindings:
		// Tab - move down in the list
		// Shift+Tab - move up in the list
		// Enter - open the selected note in obsidian
		// Ctrl+P - toggle preview for the selected note
		// Esc - close preview
		// Ctrl+R - rebuild the index
		// Ctrl+K - Preview lineup
		// Ctrl+J - Preview line down
		// Ctrl+C - quit the application
		switch msg.String() {
		case "tab":
			m.list.CursorDown()
		case "shift+tab":
			m.list.CursorUp()
		case "enter":
			if note, ok := m.list.SelectedItem().(Note); ok {
				uri, err := m.session.Select(note.result)
				if err != nil {
					m.logger.Debug("nothing to open", slog.String("error", err.Error()))
					break
				}
				m.logger.Info("opening note", slog.String("uri", uri))
				cmds = append(cmds, m.editor.Open(uri))
			}
		case "ctrl+p":
			if m.preview != nil {
				m.preview = nil
				break
			}
			if note, ok := m.list.SelectedItem().(Note); ok && note.result.Vault != "" {
				path := filepath.Join(m.session.Root(), note.result.Vault, filepath.FromSlash(note.result.Filepath))
				codeModel := code.New(false, true, lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"})
				codeModel.SetSize(m.width/2, m.height)
				cmds = append(cmds, codeModel.SetFileName(path))
				m.preview = &codeModel
			}
		case "esc":
			m.preview = nil
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+r":
			if err := m.session.Refresh(); err != nil {
				cmds = append(cmds, m.setResults(ResultMsg{Err: err}))
				break
			}
			if query := m.textInput.Value(); query != "" {
				cmds = append(cmds, m.setResults(m.search(query)))
			} else {
				cmds = append(cmds, m.setResults(m.enter()))
			}
		case "ctrl+k":
			if m.preview != nil {
				m.preview.Viewport.LineUp(5)
			}
		case "ctrl+j":
			if m.preview != nil {
				m.preview.Viewport.LineDown(5)
			}
		}
	case tea.WindowSizeMsg:
		m.updateSize(msg.Width, msg.Height)
	}

	// Update the widgets sizes
	m.setListSize()
	m.setPreviewSize()

	// save to compare if changed
	oldValue := m.textInput.Value()

	// pass on message to the other components
	m.textInput, cmd = m.textInput.Update(msg)
	cmds = append(cmds, cmd)

	m.editor, cmd = m.editor.Update(msg)
	cmds = append(cmds, cmd)

	if m.preview != nil {
		var newPreview code.Bubble
		newPreview, cmd = m.preview.Update(msg)
		cmds = append(cmds, cmd)
		m.preview = &newPreview
	}

	// If input has changed, search for the new value
	if newValue := m.textInput.Value(); oldValue != newValue {
		cmds = append(cmds, m.setResults(m.search(newValue)))
	}

	return m, tea.Batch(cmds...)
}

// View fn for bubbletea model
func (m Model) View() string {
	listContent := ListStyle.Render(m.list.View())

	// render list
	innerContent := listContent

	// if preview then preview takes up half the width
	if m.preview != nil {
		innerContent = lipgloss.JoinHorizontal(lipgloss.Left,
			listContent,      // render list
			m.preview.View(), // render preview.
		)
	}

	// render the input box and the content
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.textInput.View(), // render the text input
		innerContent,       // render the main content
	)
}

// Note implements list.Item interface
type Note struct {
	result search.SearchResult
}

func (n Note) Title() string {
	r := n.result
	switch r.Kind {
	case search.KindTitle:
		return "Title: " + r.Title
	case search.KindContent:
		return fmt.Sprintf("Content: %s - Line %d", r.Title, r.LineNumber)
	}
	return r.Title
}

func (n Note) Description() string { return formatContent(n.result.Description) }
func (n Note) FilterValue() string { return "" }

func errorItem(err error) Note {
	return Note{search.SearchResult{
		Kind:        search.KindNotice,
		Title:       "Error",
		Description: err.Error(),
	}}
}

// Create the list model
func create_list_model() list.Model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.SetShowFilter(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.Styles.NoItems = l.Styles.NoItems.Copy().PaddingLeft(2)
	return l
}

// Create the text input model
func create_text_input() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "keyword or pinyin"
	ti.Prompt = "Search:"
	ti.PromptStyle = lipgloss.NewStyle().
		Background(lipgloss.Color("62")).
		Foreground(lipgloss.Color("230")).
		MarginRight(1).
		MarginLeft(2).
		Padding(0, 1)
	ti.Focus()
	return ti
}
