package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytcat/internal/services"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SearchView ViewState = iota
	LoadingView
	ResultsView
)

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	catalog  services.Catalog
	view     ViewState
	width    int
	height   int
	input    textinput.Model
	results  list.Model
	query    string
	nextPage string
	loading  string
	seq      int    // identifies the in-flight request; stale replies are dropped
	abort    func() // aborts the in-flight request
	status   string
	err      error
	help     help.Model
	keys     keyMap
}

// NewModel creates a search browser backed by catalog.
func NewModel(ctx context.Context, catalog services.Catalog) *Model {
	input := textinput.New()
	input.Placeholder = "artist, song or album"
	input.Prompt = styles.prompt.Render("› ")
	input.Focus()

	results := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	results.SetFilteringEnabled(false)
	results.SetShowHelp(false)

	return &Model{
		ctx:     ctx,
		catalog: catalog,
		view:    SearchView,
		input:   input,
		results: results,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init starts the cursor blinking in the search box.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-6, 10)
		m.results.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case Msg:
		if msg.kind == MsgSongsLoaded {
			return m.handleLoaded(msg.data.(songsLoaded))
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case SearchView:
			return m.handleSearchKeys(msg)
		case LoadingView:
			return m.handleLoadingKeys(msg)
		case ResultsView:
			return m.handleResultsKeys(msg)
		}
	}

	return m.updateComponents(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case SearchView:
		return m.renderSearch()
	case LoadingView:
		return m.renderLoading()
	case ResultsView:
		return m.renderResults()
	default:
		return ""
	}
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		if len(m.results.Items()) == 0 {
			return m, tea.Quit
		}
		m.view = ResultsView
		return m, nil
	case "enter":
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}
		m.query = text
		return m, m.search(fetchSearch, services.SearchOptions{Text: text})
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleLoadingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.cancel()
		return m, tea.Quit
	case "esc":
		m.cancel()
		m.status = "Cancelled."
		m.view = m.restingView()
	}
	return m, nil
}

func (m *Model) handleResultsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "/":
		m.view = SearchView
		m.input.Focus()
		return m, textinput.Blink
	case "n":
		if m.nextPage == "" {
			m.status = "No more results."
			return m, nil
		}
		return m, m.search(fetchNext, services.SearchOptions{Text: m.query, PageToken: m.nextPage})
	case "enter":
		if item, ok := m.results.SelectedItem().(songItem); ok {
			return m, m.related(item)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

func (m *Model) handleLoaded(loaded songsLoaded) (tea.Model, tea.Cmd) {
	if loaded.seq != m.seq {
		return m, nil
	}
	m.abort = nil

	if loaded.err != nil {
		if !errors.Is(loaded.err, services.ErrAborted) {
			m.err = loaded.err
		}
		m.view = m.restingView()
		return m, nil
	}

	m.err = nil
	m.nextPage = loaded.nextPage
	items := songItems(loaded.songs)

	switch loaded.mode {
	case fetchNext:
		start := len(m.results.Items())
		cmd := m.results.SetItems(append(m.results.Items(), items...))
		m.results.Select(start)
		m.status = fmt.Sprintf("Loaded %d more.", len(items))
		m.view = ResultsView
		return m, cmd
	case fetchRelated:
		m.status = fmt.Sprintf("%d related songs.", len(items))
	default:
		m.results.Title = fmt.Sprintf("Results for %q", m.query)
		m.status = fmt.Sprintf("%d songs.", len(items))
	}

	cmd := m.results.SetItems(items)
	m.results.ResetSelected()
	m.view = ResultsView
	return m, cmd
}

func (m *Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case SearchView:
		m.input, cmd = m.input.Update(msg)
	case ResultsView:
		m.results, cmd = m.results.Update(msg)
	}
	return m, cmd
}

// begin records a new in-flight request, superseding any earlier one.
func (m *Model) begin(label string, abort func()) int {
	m.cancel()
	m.seq++
	m.abort = abort
	m.loading = label
	m.status = ""
	m.view = LoadingView
	return m.seq
}

func (m *Model) cancel() {
	if m.abort != nil {
		m.abort()
		m.abort = nil
	}
	m.seq++
}

func (m *Model) restingView() ViewState {
	if len(m.results.Items()) > 0 {
		return ResultsView
	}
	return SearchView
}

func (m *Model) search(mode fetchMode, opts services.SearchOptions) tea.Cmd {
	req := m.catalog.Search(m.ctx, opts)
	seq := m.begin(fmt.Sprintf("Searching for %q...", opts.Text), req.Abort)

	return func() tea.Msg {
		result, err := req.Wait()
		return songsLoadedMsg(songsLoaded{seq: seq, mode: mode, songs: result.Songs, nextPage: result.NextPageToken, err: err})
	}
}

func (m *Model) related(item songItem) tea.Cmd {
	req := m.catalog.RelatedSongs(m.ctx, item.song.ID, services.DefaultRelatedResults)
	seq := m.begin(fmt.Sprintf("Finding songs related to %q...", item.song.Title), req.Abort)
	m.results.Title = fmt.Sprintf("Related to %q", item.song.Title)

	return func() tea.Msg {
		songs, err := req.Wait()
		return songsLoadedMsg(songsLoaded{seq: seq, mode: fetchRelated, songs: songs, err: err})
	}
}

func (m *Model) renderSearch() string {
	title := styles.title.Render("Search YouTube")
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.search, m.keys.abort})
	return fmt.Sprintf("%s\n%s\n\n%s%s", title, m.input.View(), m.renderStatus(), helpView)
}

func (m *Model) renderLoading() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.abort})
	return fmt.Sprintf("%s\n\n%s", styles.warn.Render(m.loading), helpView)
}

func (m *Model) renderResults() string {
	bindings := []key.Binding{m.keys.related, m.keys.newText}
	if m.nextPage != "" {
		bindings = append(bindings, m.keys.next)
	}
	bindings = append(bindings, m.keys.quit)

	helpView := m.help.ShortHelpView(bindings)
	return fmt.Sprintf("%s\n%s%s", m.results.View(), m.renderStatus(), helpView)
}

func (m *Model) renderStatus() string {
	switch {
	case m.err != nil:
		return styles.err.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n"
	case m.status != "":
		return styles.ok.Render(m.status) + "\n\n"
	default:
		return ""
	}
}
