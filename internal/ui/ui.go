package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/skipify/internal/collections"
	"github.com/desertthunder/skipify/internal/models"
	"github.com/desertthunder/skipify/internal/shared"
)

// Tab is one of the collection views.
type Tab int

const (
	SongsTab Tab = iota
	PlaylistsTab
	FavoritesTab
	tabCount
)

func (t Tab) String() string {
	switch t {
	case SongsTab:
		return "Songs"
	case PlaylistsTab:
		return "Playlists"
	case FavoritesTab:
		return "Favorites"
	default:
		return "?"
	}
}

// Deps are the managers the TUI renders and mutates.
type Deps struct {
	Library   *collections.Library
	Playlists *collections.Playlists
	Favorites *collections.Favorites
	Session   collections.Session
	Events    <-chan collections.Event // optional
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	deps     Deps
	tab      Tab
	lists    [tabCount]list.Model
	playback models.PlaybackState
	status   string
	err      error
	width    int
	height   int
	help     help.Model
	keys     keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, deps Deps) *Model {
	m := &Model{
		ctx:  ctx,
		deps: deps,
		help: help.New(),
		keys: newKeyMap(),
	}
	for i := range m.lists {
		l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
		l.Title = Tab(i).String()
		l.SetShowHelp(false)
		m.lists[i] = l
	}
	return m
}

// Init loads every collection and starts listening for manager events.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.refresh(), m.waitForEvent())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for i := range m.lists {
			m.lists[i].SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		if m.lists[m.tab].FilterState() == list.Filtering {
			break
		}
		if model, cmd, handled := m.handleKeys(msg); handled {
			return model, cmd
		}

	case Msg:
		return m.handleMsg(msg)
	}

	var cmd tea.Cmd
	m.lists[m.tab], cmd = m.lists[m.tab].Update(msg)
	return m, cmd
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit, true
	case key.Matches(msg, m.keys.next):
		m.tab = (m.tab + 1) % tabCount
		return m, nil, true
	case key.Matches(msg, m.keys.refresh):
		m.status = "refreshing…"
		return m, m.refresh(), true
	case key.Matches(msg, m.keys.remove):
		return m, m.deleteSelected(), true
	case key.Matches(msg, m.keys.favorite) && m.tab == SongsTab:
		if song, ok := m.selectedSong(); ok {
			return m, m.toggleFavorite(song), true
		}
		return m, nil, true
	case key.Matches(msg, m.keys.play) && m.tab == SongsTab:
		if song, ok := m.selectedSong(); ok {
			m.play(song)
		}
		return m, nil, true
	case key.Matches(msg, m.keys.pause):
		m.playback.Toggle()
		return m, nil, true
	}
	return m, nil, false
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgRefreshed:
		err, _ := msg.data.(error)
		m.err = err
		m.status = ""
		return m, m.sync()
	case MsgMutated:
		res := msg.data.(mutation)
		m.err = res.err
		if res.err == nil {
			m.status = res.text
		}
		return m, m.sync()
	case MsgManagerEvent:
		ev := msg.data.(collections.Event)
		m.status = ev.String()
		return m, tea.Batch(m.sync(), m.waitForEvent())
	}
	return m, nil
}

// sync rebuilds every list from the current snapshots.
func (m *Model) sync() tea.Cmd {
	songs := m.deps.Library.Snapshot()

	songItems := []list.Item{}
	for _, s := range songs.All() {
		songItems = append(songItems, songItem{song: s, favorite: m.deps.Favorites.IsFavorite(s.ID)})
	}

	playlistItems := []list.Item{}
	for _, p := range m.deps.Playlists.Snapshot().All() {
		item := playlistItem{playlist: p}
		if members, err := m.deps.Playlists.Members(p.ID, songs); err == nil {
			for _, r := range members {
				if !r.Found() {
					item.missing++
				}
			}
		}
		playlistItems = append(playlistItems, item)
	}

	favoriteItems := []list.Item{}
	for _, r := range m.deps.Favorites.View(songs) {
		favoriteItems = append(favoriteItems, favoriteItem{resolved: r})
	}

	return tea.Batch(
		m.lists[SongsTab].SetItems(songItems),
		m.lists[PlaylistsTab].SetItems(playlistItems),
		m.lists[FavoritesTab].SetItems(favoriteItems),
	)
}

func (m *Model) refresh() tea.Cmd {
	return func() tea.Msg {
		return refreshedMsg(errors.Join(
			m.deps.Library.Refresh(m.ctx),
			m.deps.Playlists.Refresh(m.ctx),
			m.deps.Favorites.Refresh(m.ctx),
		))
	}
}

func (m *Model) waitForEvent() tea.Cmd {
	if m.deps.Events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-m.deps.Events
		if !ok {
			return nil
		}
		return eventMsg(ev)
	}
}

func (m *Model) selectedSong() (*models.Song, bool) {
	item, ok := m.lists[SongsTab].SelectedItem().(songItem)
	if !ok {
		return nil, false
	}
	return item.song, true
}

func (m *Model) play(song *models.Song) {
	if err := m.playback.Load(song); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.playback.Loaded(0)
	m.playback.Toggle()
}

func (m *Model) toggleFavorite(song *models.Song) tea.Cmd {
	return func() tea.Msg {
		on, err := m.deps.Favorites.Toggle(m.ctx, song)
		if on {
			return mutatedMsg("marked "+song.DisplayLabel(), err)
		}
		return mutatedMsg("unmarked "+song.DisplayLabel(), err)
	}
}

func (m *Model) deleteSelected() tea.Cmd {
	selected := m.lists[m.tab].SelectedItem()
	if selected == nil {
		return nil
	}

	return func() tea.Msg {
		var err error
		var label string
		switch item := selected.(type) {
		case songItem:
			label = item.song.DisplayLabel()
			err = remove(m.ctx, m.deps.Library.Manager, item.song)
		case playlistItem:
			label = item.playlist.DisplayLabel()
			err = remove(m.ctx, m.deps.Playlists.Manager, item.playlist)
		case favoriteItem:
			label = item.resolved.Label
			mark, ok := m.deps.Favorites.Find(item.resolved.ID)
			if !ok {
				err = shared.ErrNotFound
				break
			}
			err = remove(m.ctx, m.deps.Favorites.Manager, mark)
		}
		return mutatedMsg("deleted "+label, err)
	}
}

// remove deletes item from the sequence it came from.
func remove[T models.Entity](ctx context.Context, mgr *collections.Manager[T], item T) error {
	if item.Provenance() == models.SourceRemote {
		return mgr.DeleteRemote(ctx, item.EntityID())
	}
	if !mgr.DeleteLocal(ctx, item.EntityID()) {
		return shared.ErrNotFound
	}
	return nil
}

// View renders the active tab with its header and status lines.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")
	b.WriteString(m.lists[m.tab].View())
	b.WriteString("\n")
	b.WriteString(styles.help.Render(m.playback.String()))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(styles.err.Render(fmt.Sprintf("Error: %v", m.err)))
	case m.status != "":
		b.WriteString(styles.ok.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(m.keys.forTab(m.tab)))
	return b.String()
}

func (m *Model) renderTabs() string {
	tabs := make([]string, 0, tabCount)
	for t := range tabCount {
		if t == m.tab {
			tabs = append(tabs, styles.title.Render(t.String()))
		} else {
			tabs = append(tabs, styles.tab.Render(t.String()))
		}
	}

	mode := styles.warn.Render("○ disconnected")
	if m.deps.Session != nil && m.deps.Session.Connected() {
		mode = styles.ok.Render("● connected")
	}
	return strings.Join(tabs, "  ") + "    " + mode
}
