package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytcat/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var _ tea.Msg = Msg{}

const (
	MsgSongsLoaded MsgKind = iota
)

// fetchMode says how loaded songs combine with what is on screen.
type fetchMode int

const (
	fetchSearch  fetchMode = iota // replace results with a new search
	fetchNext                     // append the next page
	fetchRelated                  // replace results with songs related to the selection
)

type songsLoaded struct {
	seq      int
	mode     fetchMode
	songs    models.SongSet
	nextPage string
	err      error
}

// songsLoadedMsg is the constructor for [MsgSongsLoaded]
func songsLoadedMsg(loaded songsLoaded) Msg {
	return Msg{kind: MsgSongsLoaded, data: loaded}
}
