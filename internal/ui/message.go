package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/tasks"
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
	MsgStateChanged MsgKind = iota
	MsgPageLoaded
	MsgDetailsLoaded
	MsgTrailerOpened
)

type pageLoaded struct {
	op   tasks.Operation
	page *models.Page
}

type detailsLoaded struct {
	view *models.DetailView
	err  error
}

// stateChangedMsg is the constructor for [MsgStateChanged]
func stateChangedMsg(u tasks.Update) Msg {
	return Msg{kind: MsgStateChanged, data: u}
}

// pageLoadedMsg is the constructor for [MsgPageLoaded]. page is nil when the load failed.
func pageLoadedMsg(op tasks.Operation, page *models.Page) Msg {
	return Msg{kind: MsgPageLoaded, data: pageLoaded{op: op, page: page}}
}

// detailsLoadedMsg is the constructor for [MsgDetailsLoaded]
func detailsLoadedMsg(view *models.DetailView, err error) Msg {
	return Msg{kind: MsgDetailsLoaded, data: detailsLoaded{view: view, err: err}}
}

// trailerOpenedMsg is the constructor for [MsgTrailerOpened]
func trailerOpenedMsg(err error) Msg {
	return Msg{kind: MsgTrailerOpened, data: err}
}
