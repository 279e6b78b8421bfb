package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ncmx/internal/actions"
	"github.com/desertthunder/ncmx/internal/store"
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
	MsgPutFailed
)

type stateChange struct {
	action actions.Action
	state  store.State
}

// stateChangedMsg is the constructor for [MsgStateChanged]
func stateChangedMsg(a actions.Action, s store.State) Msg {
	return Msg{kind: MsgStateChanged, data: stateChange{action: a, state: s}}
}

// putFailedMsg is the constructor for [MsgPutFailed]
func putFailedMsg(err error) Msg {
	return Msg{kind: MsgPutFailed, data: err}
}
