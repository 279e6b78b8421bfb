package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ncmx/internal/actions"
	"github.com/desertthunder/ncmx/internal/store"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PlaylistsView ViewState = iota
	DetailView
	CommentsView
)

// Engine is the part of tasks.Engine the TUI drives.
type Engine interface {
	Put(ctx context.Context, a actions.Action) error
	Select() store.State
	Subscribe(l store.Listener) func()
}

// Model represents the TUI application state.
type Model struct {
	ctx         context.Context
	engine      Engine
	changes     chan stateChange
	unsubscribe func()

	view     ViewState
	state    store.State
	selected int64
	width    int
	height   int
	err      error

	playlistList list.Model
	trackList    list.Model
	commentList  list.Model
	spinner      spinner.Model
	help         help.Model
	keys         keyMap
}

// NewModel creates a TUI model and subscribes it to engine commits. Call [Model.Close]
// once the program exits.
func NewModel(ctx context.Context, engine Engine) *Model {
	m := &Model{
		ctx:          ctx,
		engine:       engine,
		changes:      make(chan stateChange, 1),
		view:         PlaylistsView,
		state:        engine.Select(),
		playlistList: newList("Top Playlists"),
		trackList:    newList("Tracks"),
		commentList:  newList("Comments"),
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:         help.New(),
		keys:         newKeyMap(),
	}
	m.unsubscribe = engine.Subscribe(m.forward)
	return m
}

func newList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	return l
}

// forward runs on the store goroutine and must not block. Only the newest commit is kept.
func (m *Model) forward(a actions.Action, next store.State) {
	c := stateChange{action: a, state: next}
	select {
	case m.changes <- c:
	default:
		select {
		case <-m.changes:
		default:
		}
		select {
		case m.changes <- c:
		default:
		}
	}
}

// Close stops forwarding commits.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// Init starts the spinner, listens for commits and loads the first page of playlists.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForChange(), m.put(actions.PlaylistsRefreshRequested{}))
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for _, l := range []*list.Model{&m.playlistList, &m.trackList, &m.commentList} {
			l.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		switch msg.kind {
		case MsgStateChanged:
			change := msg.data.(stateChange)
			return m, tea.Batch(m.apply(change.state), m.waitForChange())
		case MsgPutFailed:
			m.err = msg.data.(error)
			return m, nil
		}

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		switch m.view {
		case PlaylistsView:
			return m.handlePlaylistKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		case CommentsView:
			return m.handleCommentKeys(msg)
		}
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case PlaylistsView:
		body = m.renderPlaylists()
	case DetailView:
		body = m.renderDetail()
	case CommentsView:
		body = m.renderComments()
	}

	return fmt.Sprintf("%s\n%s\n%s", body, m.renderStatus(), m.help.ShortHelpView(m.helpKeys()))
}

func (m *Model) handlePlaylistKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.playlistList.SelectedItem().(playlistItem); ok {
			m.selected = item.playlist.ID
			m.view = DetailView
			m.trackList.ResetSelected()
			return m, tea.Batch(m.apply(m.engine.Select()), m.put(actions.PlaylistDetailRequested{ID: m.selected}))
		}
		return m, nil
	case key.Matches(msg, m.keys.more):
		return m, m.put(actions.PlaylistsSyncRequested{})
	case key.Matches(msg, m.keys.refresh):
		return m, m.put(actions.PlaylistsRefreshRequested{})
	}
	return m.updateLists(msg)
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.view = PlaylistsView
		return m, nil
	case key.Matches(msg, m.keys.subscribe):
		return m, m.put(actions.SubscribeToggled{ID: m.selected})
	case key.Matches(msg, m.keys.comments):
		m.view = CommentsView
		m.commentList.ResetSelected()
		cmds := []tea.Cmd{m.apply(m.engine.Select())}
		if _, cached := m.state.Comments.Thread(m.selected); !cached {
			cmds = append(cmds, m.put(actions.CommentsSyncRequested{ID: m.selected}))
		}
		return m, tea.Batch(cmds...)
	case key.Matches(msg, m.keys.refresh):
		return m, m.put(actions.PlaylistDetailRequested{ID: m.selected})
	}
	return m.updateLists(msg)
}

func (m *Model) handleCommentKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.view = DetailView
		return m, nil
	case key.Matches(msg, m.keys.more):
		return m, m.put(actions.CommentsSyncRequested{ID: m.selected})
	case key.Matches(msg, m.keys.refresh):
		return m, m.put(actions.CommentsSyncRequested{ID: m.selected, Loading: true, Refresh: true})
	}
	return m.updateLists(msg)
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case PlaylistsView:
		m.playlistList, cmd = m.playlistList.Update(msg)
	case DetailView:
		m.trackList, cmd = m.trackList.Update(msg)
	case CommentsView:
		m.commentList, cmd = m.commentList.Update(msg)
	}
	return m, cmd
}

// apply copies a committed state into the lists.
func (m *Model) apply(s store.State) tea.Cmd {
	m.state = s
	cmds := []tea.Cmd{m.playlistList.SetItems(playlistItems(s.Playlists.Items))}

	if m.selected != 0 {
		playlist, _ := s.Details.Playlist(m.selected)
		cmds = append(cmds, m.trackList.SetItems(trackItems(playlist.Tracks)))

		thread, _ := s.Comments.Thread(m.selected)
		cmds = append(cmds, m.commentList.SetItems(commentItems(thread)))
	}
	return tea.Batch(cmds...)
}

func (m *Model) put(a actions.Action) tea.Cmd {
	return func() tea.Msg {
		if err := m.engine.Put(m.ctx, a); err != nil {
			return putFailedMsg(err)
		}
		return nil
	}
}

func (m *Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		select {
		case c := <-m.changes:
			return stateChangedMsg(c.action, c.state)
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *Model) loading() bool {
	switch m.view {
	case DetailView:
		return m.state.Details.Loading || m.state.Details.Subscribing
	case CommentsView:
		return m.state.Comments.Loading
	default:
		return m.state.Playlists.Loading || m.state.Playlists.Refreshing
	}
}

func (m *Model) renderPlaylists() string {
	return m.withSpinner(m.playlistList.View())
}

func (m *Model) renderDetail() string {
	playlist, cached := m.state.Details.Playlist(m.selected)
	if !cached {
		return m.withSpinner(styles.title.Render("Loading playlist..."))
	}

	status := "not subscribed"
	if playlist.Subscribed {
		status = styles.ok.Render("subscribed")
	}
	header := styles.title.Render(playlist.Name)
	info := fmt.Sprintf("by %s • %d tracks • %d subscribers • %s",
		playlist.Creator.Nickname, len(playlist.Tracks), playlist.SubscribedCount, status)

	return m.withSpinner(fmt.Sprintf("%s\n%s\n\n%s", header, info, m.trackList.View()))
}

func (m *Model) renderComments() string {
	thread, _ := m.state.Comments.Thread(m.selected)
	header := styles.title.Render(fmt.Sprintf("Comments (%d)", thread.Total))
	return m.withSpinner(fmt.Sprintf("%s\n%s", header, m.commentList.View()))
}

func (m *Model) withSpinner(body string) string {
	if !m.loading() {
		return body
	}
	return fmt.Sprintf("%s Loading...\n%s", m.spinner.View(), body)
}

// renderStatus shows the last put failure or the newest toast.
func (m *Model) renderStatus() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("✗ %v", m.err))
	}
	if n := len(m.state.Toasts); n > 0 {
		return RenderToast(m.state.Toasts[n-1])
	}
	return ""
}

func (m *Model) helpKeys() []key.Binding {
	switch m.view {
	case DetailView:
		return []key.Binding{m.keys.subscribe, m.keys.comments, m.keys.refresh, m.keys.back, m.keys.quit}
	case CommentsView:
		return []key.Binding{m.keys.more, m.keys.refresh, m.keys.back, m.keys.quit}
	default:
		return []key.Binding{m.keys.enter, m.keys.more, m.keys.refresh, m.keys.quit}
	}
}
