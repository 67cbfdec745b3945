package ui

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/vibevault/internal/formatter"
	"github.com/desertthunder/vibevault/internal/models"
	"github.com/desertthunder/vibevault/internal/search"
	"github.com/desertthunder/vibevault/internal/selection"
	"github.com/desertthunder/vibevault/internal/tasks"
)

// Focus identifies the pane that receives key presses.
type Focus int

const (
	FocusSearch Focus = iota
	FocusResults
	FocusSelection
	FocusImport
)

// Client is the gateway surface the TUI drives.
//
// Satisfied by [services.GatewayClient].
type Client interface {
	search.Searcher
	tasks.PlaylistExpander
	Play(ctx context.Context, songID string) (*models.Track, error)
}

// Options configures a [Model]. Zero values are replaced with defaults.
type Options struct {
	Store     *selection.Store
	Logger    *log.Logger
	ExportDir string // Directory export files are written to
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	client   Client
	session  *search.Session
	store    *selection.Store
	importer *tasks.ImportEngine
	logger   *log.Logger

	focus       Focus
	returnFocus Focus
	query       textinput.Model
	prompt      textinput.Model
	results     list.Model
	selected    list.Model
	help        help.Model
	keys        keyMap

	width     int
	height    int
	status    string
	exportDir string

	importing    bool
	progressChan chan tasks.ProgressUpdate
	doneChan     chan Msg
}

// NewModel creates a new TUI model driving client.
func NewModel(ctx context.Context, client Client, opts Options) *Model {
	if opts.Store == nil {
		opts.Store = selection.New()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	query := textinput.New()
	query.Placeholder = "Search tracks"
	query.Prompt = "🔍 "
	query.Focus()

	prompt := textinput.New()
	prompt.Placeholder = "https://open.spotify.com/playlist/..."
	prompt.Prompt = "Playlist URL: "

	m := &Model{
		ctx:       ctx,
		client:    client,
		session:   search.NewSession(opts.Logger),
		store:     opts.Store,
		importer:  tasks.NewImportEngine(client, opts.Store, opts.Logger),
		logger:    opts.Logger,
		focus:     FocusSearch,
		query:     query,
		prompt:    prompt,
		results:   newList("Results"),
		selected:  newList("Selection"),
		help:      help.New(),
		keys:      newKeyMap(),
		exportDir: opts.ExportDir,
	}
	m.resize(80, 24)
	m.refreshSelection()
	return m
}

func newList(title string) list.Model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)
	l.KeyMap.NextPage = key.NewBinding(key.WithKeys("right", "l", "pgdown"))
	return l
}

// Init starts the cursor blink on the search input.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.focus {
		case FocusSearch:
			return m.handleSearchKeys(msg)
		case FocusImport:
			return m.handleImportKeys(msg)
		default:
			return m.handleListKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgSearchResolved:
		if data := msg.data.(searchResolved); data.applied {
			m.refreshResults()
		}
		return m, nil

	case MsgPlaybackDone:
		data := msg.data.(playbackDone)
		if data.err != nil {
			m.logger.Error("playback failed", "id", data.item.ID, "error", data.err)
			return m, nil
		}
		name := data.item.Title
		if data.track != nil && data.track.Name != "" {
			name = data.track.Name
		}
		m.status = styles.ok.Render("▶ Playing " + name)
		return m, nil

	case MsgImportProgress:
		m.status = msg.data.(tasks.ProgressUpdate).Message
		return m, m.waitForImport()

	case MsgImportComplete:
		data := msg.data.(importComplete)
		m.importing = false
		m.progressChan = nil
		m.doneChan = nil
		if data.err != nil {
			m.status = ""
			return m, nil
		}
		m.prompt.Reset()
		m.closeImport()
		m.refreshSelection()
		m.refreshResults()
		m.status = styles.ok.Render(fmt.Sprintf("Imported %d of %d tracks", data.result.Added, data.result.Records))
		return m, nil

	case MsgExported:
		data := msg.data.(exported)
		if data.err != nil {
			m.logger.Error("export failed", "error", data.err)
			return m, nil
		}
		m.logger.Info("selection exported", "path", data.path)
		m.status = styles.ok.Render("Exported to " + data.path)
		return m, nil
	}
	return m, nil
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.focus), key.Matches(msg, m.keys.back):
		m.setFocus(FocusResults)
		return m, nil
	}

	before := m.query.Value()
	var cmd tea.Cmd
	m.query, cmd = m.query.Update(msg)
	if value := m.query.Value(); value != before {
		return m, tea.Batch(cmd, m.search(value))
	}
	return m, cmd
}

func (m *Model) handleImportKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.closeImport()
		return m, nil
	case key.Matches(msg, m.keys.submit):
		if m.importing || strings.TrimSpace(m.prompt.Value()) == "" {
			return m, nil
		}
		return m, m.startImport(strings.TrimSpace(m.prompt.Value()))
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.focus):
		m.cycleFocus()
		return m, nil
	case key.Matches(msg, m.keys.load):
		m.openImport()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.export):
		return m, m.export()
	case key.Matches(msg, m.keys.back):
		m.setFocus(FocusSearch)
		return m, nil
	}

	if m.focus == FocusResults {
		track, ok := m.currentResult()
		switch {
		case key.Matches(msg, m.keys.play):
			if !ok {
				return m, nil
			}
			return m, m.play(models.SelectedFromTrack(track))
		case key.Matches(msg, m.keys.toggle):
			if !ok {
				return m, nil
			}
			m.toggle(track)
			return m, nil
		}
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		return m, cmd
	}

	item, ok := m.currentSelection()
	switch {
	case key.Matches(msg, m.keys.play):
		if !ok {
			return m, nil
		}
		return m, m.play(item)
	case key.Matches(msg, m.keys.remove):
		if !ok {
			return m, nil
		}
		m.store.Remove(item)
		m.refreshSelection()
		m.refreshResults()
		return m, nil
	}
	var cmd tea.Cmd
	m.selected, cmd = m.selected.Update(msg)
	return m, cmd
}

// search records q on the session and returns the command that performs it, or nil when q is blank.
func (m *Model) search(q string) tea.Cmd {
	req, ok := m.session.SetQuery(q)
	m.refreshResults()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		applied := m.session.Run(m.ctx, m.client, req)
		return searchResolvedMsg(req, applied)
	}
}

func (m *Model) play(item models.SelectedItem) tea.Cmd {
	if !item.Playable() {
		m.logger.Warn("skipping playback of item without identifier", "title", item.Title, "artist", item.Artist)
		return nil
	}
	return func() tea.Msg {
		track, err := m.client.Play(m.ctx, item.ID)
		return playbackDoneMsg(item, track, err)
	}
}

func (m *Model) toggle(track models.Track) {
	item := models.SelectedFromTrack(track)
	if m.store.Toggle(item) {
		m.logger.Debug("added to selection", "id", item.ID, "title", item.Title)
	} else {
		m.logger.Debug("removed from selection", "id", item.ID, "title", item.Title)
	}
	m.refreshSelection()
	m.refreshResults()
}

func (m *Model) export() tea.Cmd {
	items := m.store.Items()
	path := filepath.Join(m.exportDir, fmt.Sprintf("selection_%d.%s", time.Now().Unix(), formatter.Extension(formatter.FormatCSV)))
	return func() tea.Msg {
		written, err := formatter.WriteSelection(items, formatter.FormatCSV, path)
		return exportedMsg(written, err)
	}
}

// startImport runs the import flow in the background and relays its progress.
func (m *Model) startImport(url string) tea.Cmd {
	m.importing = true
	m.progressChan = make(chan tasks.ProgressUpdate, 8)
	m.doneChan = make(chan Msg, 1)
	progress, done := m.progressChan, m.doneChan

	go func() {
		result, err := m.importer.Run(m.ctx, progress, url)
		close(progress)
		done <- importCompleteMsg(result, err)
	}()

	return m.waitForImport()
}

func (m *Model) waitForImport() tea.Cmd {
	progress, done := m.progressChan, m.doneChan
	if progress == nil {
		return nil
	}
	return func() tea.Msg {
		if update, ok := <-progress; ok {
			return importProgressMsg(update)
		}
		return <-done
	}
}

func (m *Model) openImport() {
	m.returnFocus = m.focus
	m.setFocus(FocusImport)
}

func (m *Model) closeImport() {
	if m.focus != FocusImport {
		return
	}
	m.setFocus(m.returnFocus)
}

func (m *Model) cycleFocus() {
	switch m.focus {
	case FocusSearch:
		m.setFocus(FocusResults)
	case FocusResults:
		m.setFocus(FocusSelection)
	default:
		m.setFocus(FocusSearch)
	}
}

func (m *Model) setFocus(f Focus) {
	m.focus = f
	m.query.Blur()
	m.prompt.Blur()
	switch f {
	case FocusSearch:
		m.query.Focus()
	case FocusImport:
		m.prompt.Focus()
	}
}

func (m *Model) currentResult() (models.Track, bool) {
	if item, ok := m.results.SelectedItem().(resultItem); ok {
		return item.track, true
	}
	return models.Track{}, false
}

func (m *Model) currentSelection() (models.SelectedItem, bool) {
	if item, ok := m.selected.SelectedItem().(selectionItem); ok {
		return item.item, true
	}
	return models.SelectedItem{}, false
}

func (m *Model) refreshResults() {
	tracks := m.session.Results()
	items := make([]list.Item, len(tracks))
	for i, t := range tracks {
		items[i] = resultItem{track: t, selected: m.store.Contains(models.SelectedFromTrack(t))}
	}
	m.results.SetItems(items)
}

func (m *Model) refreshSelection() {
	selected := m.store.Items()
	items := make([]list.Item, len(selected))
	for i, s := range selected {
		items[i] = selectionItem{item: s}
	}
	m.selected.SetItems(items)
	m.selected.Title = fmt.Sprintf("Selection (%d)", len(selected))
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	paneWidth := max(width/2-4, 20)
	paneHeight := max(height-10, 5)
	m.results.SetSize(paneWidth, paneHeight)
	m.selected.SetSize(paneWidth, paneHeight)
	m.query.Width = max(width-8, 10)
	m.prompt.Width = max(width-20, 10)
}

// Focus returns the pane that currently receives key presses.
func (m *Model) Focus() Focus { return m.focus }

// Session returns the search session backing the results pane.
func (m *Model) Session() *search.Session { return m.session }

// Store returns the selection backing the selection pane.
func (m *Model) Store() *selection.Store { return m.store }

// View renders the search input, both panes and the contextual help.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("vibevault"))
	b.WriteString("\n")
	b.WriteString(m.query.View())
	b.WriteString("\n\n")

	b.WriteString(m.renderPanes())
	b.WriteString("\n")

	if m.focus == FocusImport {
		b.WriteString(m.prompt.View())
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m *Model) renderPanes() string {
	results := m.renderResults()
	selected := m.selected.View()

	resultStyle, selectStyle := styles.pane, styles.pane
	switch m.focus {
	case FocusResults:
		resultStyle = styles.focused
	case FocusSelection:
		selectStyle = styles.focused
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, resultStyle.Render(results), selectStyle.Render(selected))
}

func (m *Model) renderResults() string {
	switch m.session.State() {
	case search.Idle:
		return styles.help.Render("Type to search")
	case search.Searching:
		if len(m.results.Items()) == 0 {
			return styles.warn.Render("Searching...")
		}
	case search.Failed:
		return styles.help.Render("No results")
	case search.Ready:
		if len(m.results.Items()) == 0 {
			return styles.help.Render("No results")
		}
	}
	return m.results.View()
}

func (m *Model) renderHelp() string {
	var bindings []key.Binding
	switch m.focus {
	case FocusSearch:
		bindings = []key.Binding{m.keys.focus, m.keys.back}
	case FocusResults:
		bindings = []key.Binding{m.keys.play, m.keys.toggle, m.keys.load, m.keys.export, m.keys.focus, m.keys.quit}
	case FocusSelection:
		bindings = []key.Binding{m.keys.play, m.keys.remove, m.keys.load, m.keys.export, m.keys.focus, m.keys.quit}
	case FocusImport:
		bindings = []key.Binding{m.keys.submit, m.keys.back}
	}
	return styles.help.Render(m.help.ShortHelpView(bindings))
}
