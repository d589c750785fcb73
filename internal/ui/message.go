package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/texttube/internal/models"
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
	MsgVideosFetched MsgKind = iota
	MsgVideoDeleted
)

type videosFetched struct {
	videos []*models.Video
	err    error
}

type videoDeleted struct {
	id    string
	title string
	err   error
}

// videosFetchedMsg is the constructor for [MsgVideosFetched]
func videosFetchedMsg(videos []*models.Video, err error) Msg {
	return Msg{kind: MsgVideosFetched, data: videosFetched{videos, err}}
}

// videoDeletedMsg is the constructor for [MsgVideoDeleted]
func videoDeletedMsg(video *models.Video, err error) Msg {
	return Msg{kind: MsgVideoDeleted, data: videoDeleted{video.ID(), video.Title(), err}}
}
