package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/moviweb/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgUsersFetched MsgKind = iota
	MsgMoviesFetched
	MsgMovieDeleted
)

type usersFetched struct {
	users []models.User
	err   error
}

type moviesFetched struct {
	user   models.User
	movies []models.Movie
	err    error
}

type movieDeleted struct {
	movie models.Movie
	err   error
}

// usersFetchedMsg is the constructor for [MsgUsersFetched]
func usersFetchedMsg(users []models.User, err error) Msg {
	return Msg{kind: MsgUsersFetched, data: usersFetched{users, err}}
}

// moviesFetchedMsg is the constructor for [MsgMoviesFetched]
func moviesFetchedMsg(user models.User, movies []models.Movie, err error) Msg {
	return Msg{kind: MsgMoviesFetched, data: moviesFetched{user, movies, err}}
}

// movieDeletedMsg is the constructor for [MsgMovieDeleted]
func movieDeletedMsg(movie models.Movie, err error) Msg {
	return Msg{kind: MsgMovieDeleted, data: movieDeleted{movie, err}}
}
