package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/moviweb/internal/models"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	UserListView ViewState = iota
	MovieListView
	ConfirmDeleteView
)

// Model represents the TUI application state.
type Model struct {
	ctx           context.Context
	view          ViewState
	data          models.DataManager
	width         int
	height        int
	userList      list.Model
	movieList     list.Model
	selectedUser  *models.User
	pendingDelete *models.Movie
	status        string
	err           error
	help          help.Model
	keys          keyMap
}

// NewModel creates a new TUI model over the given gateway.
func NewModel(ctx context.Context, data models.DataManager) *Model {
	m := &Model{
		ctx:  ctx,
		view: UserListView,
		data: data,
		help: help.New(),
		keys: newKeyMap(),
	}
	m.userList = newList("Users", nil)
	m.movieList = newList("Movies", nil)
	return m
}

func newList(title string, items []list.Item) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	return l
}

// ViewState returns the active view.
func (m *Model) ViewState() ViewState {
	return m.view
}

// Init initializes the TUI by fetching users.
func (m *Model) Init() tea.Cmd {
	return m.fetchUsers()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.userList.SetSize(msg.Width-4, msg.Height-8)
		m.movieList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case UserListView:
			return m.handleUserListKeys(msg)
		case MovieListView:
			return m.handleMovieListKeys(msg)
		case ConfirmDeleteView:
			return m.handleConfirmKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgUsersFetched:
		data := msg.data.(usersFetched)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.err = nil
		cmd := m.userList.SetItems(userItems(data.users))
		m.userList.Title = fmt.Sprintf("Users (%d)", len(data.users))
		return m, cmd

	case MsgMoviesFetched:
		data := msg.data.(moviesFetched)
		if data.err != nil {
			m.status = styles.err.Render(fmt.Sprintf("Failed to load movies: %v", data.err))
			return m, nil
		}
		user := data.user
		m.selectedUser = &user
		cmd := m.movieList.SetItems(movieItems(data.movies))
		m.movieList.Title = fmt.Sprintf("%s's movies (%d)", user.Name, len(data.movies))
		m.view = MovieListView
		return m, cmd

	case MsgMovieDeleted:
		data := msg.data.(movieDeleted)
		m.pendingDelete = nil
		m.view = MovieListView
		if data.err != nil {
			m.status = styles.err.Render(fmt.Sprintf("Delete failed: %v", data.err))
			return m, nil
		}
		m.status = styles.ok.Render(fmt.Sprintf("✓ Deleted %s", data.movie.Name))
		if m.selectedUser == nil {
			return m, nil
		}
		return m, m.fetchMovies(*m.selectedUser)
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress r to retry, q to quit", m.err))
	}

	switch m.view {
	case UserListView:
		return m.renderUserList()
	case MovieListView:
		return m.renderMovieList()
	case ConfirmDeleteView:
		return m.renderConfirm()
	default:
		return ""
	}
}

func (m *Model) handleUserListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.userList.FilterState() == list.Filtering {
		return m.updateLists(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.refresh):
		m.err = nil
		return m, m.fetchUsers()
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.userList.SelectedItem().(userItem); ok {
			m.status = ""
			return m, m.fetchMovies(item.user)
		}
		return m, nil
	}

	return m.updateLists(msg)
}

func (m *Model) handleMovieListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.movieList.FilterState() == list.Filtering {
		return m.updateLists(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = UserListView
		m.selectedUser = nil
		m.status = ""
		return m, m.fetchUsers()
	case key.Matches(msg, m.keys.remove):
		if item, ok := m.movieList.SelectedItem().(movieItem); ok {
			mv := item.movie
			m.pendingDelete = &mv
			m.view = ConfirmDeleteView
		}
		return m, nil
	}

	return m.updateLists(msg)
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.yes):
		if m.pendingDelete == nil {
			m.view = MovieListView
			return m, nil
		}
		return m, m.deleteMovie(*m.pendingDelete)
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.quit):
		m.pendingDelete = nil
		m.view = MovieListView
		return m, nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case UserListView:
		m.userList, cmd = m.userList.Update(msg)
	case MovieListView:
		m.movieList, cmd = m.movieList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchUsers() tea.Cmd {
	return func() tea.Msg {
		users, err := m.data.ListUsers(m.ctx)
		return usersFetchedMsg(users, err)
	}
}

func (m *Model) fetchMovies(user models.User) tea.Cmd {
	return func() tea.Msg {
		movies, err := m.data.ListMoviesForUser(m.ctx, user.ID)
		return moviesFetchedMsg(user, movies, err)
	}
}

func (m *Model) deleteMovie(mv models.Movie) tea.Cmd {
	return func() tea.Msg {
		return movieDeletedMsg(mv, m.data.DeleteMovie(m.ctx, mv.ID))
	}
}

func (m *Model) renderUserList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.refresh, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.userList.View(), helpView)
}

func (m *Model) renderMovieList() string {
	helpKeys := []key.Binding{m.keys.remove, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	out := m.movieList.View()
	if m.status != "" {
		out = fmt.Sprintf("%s\n%s", out, m.status)
	}
	return fmt.Sprintf("%s\n\n%s", out, helpView)
}

func (m *Model) renderConfirm() string {
	if m.pendingDelete == nil {
		return ""
	}

	title := styles.title.Render(fmt.Sprintf("Delete '%s'?", m.pendingDelete.Name))
	info := styles.warn.Render(fmt.Sprintf("\nDirector: %s\nYear: %d", m.pendingDelete.Director, m.pendingDelete.Year))
	rating := styles.rating(m.pendingDelete.Rating).Render(fmt.Sprintf("Rating: %.1f", m.pendingDelete.Rating))
	note := styles.muted.Render("This cannot be undone.")

	helpKeys := []key.Binding{m.keys.yes, m.keys.no}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s\n\n%s\n%s", title, info, rating, note, helpView)
}
