package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/skipify/internal/collections"
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
	MsgRefreshed MsgKind = iota
	MsgMutated
	MsgManagerEvent
)

type mutation struct {
	text string
	err  error
}

// refreshedMsg is the constructor for [MsgRefreshed]
func refreshedMsg(err error) Msg {
	return Msg{kind: MsgRefreshed, data: err}
}

// mutatedMsg is the constructor for [MsgMutated]
func mutatedMsg(text string, err error) Msg {
	return Msg{kind: MsgMutated, data: mutation{text, err}}
}

// eventMsg is the constructor for [MsgManagerEvent]
func eventMsg(ev collections.Event) Msg {
	return Msg{kind: MsgManagerEvent, data: ev}
}
