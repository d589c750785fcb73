package ui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/desertthunder/texttube/internal/models"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ListView ViewState = iota
	ReaderView
	ConfirmView
)

// VideoSource is the catalogue the TUI browses.
type VideoSource interface {
	Search(q models.VideoQuery) ([]*models.Video, error)
	Delete(id string) error
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	source   VideoSource
	render   Renderer
	view     ViewState
	width    int
	height   int
	list     list.Model
	videos   []*models.Video
	sort     models.SortOrder
	selected *models.Video
	tab      Tab
	reader   viewport.Model
	status   string
	err      error
	help     help.Model
	keys     keyMap
}

// NewModel creates a new TUI model. A nil render falls back to [GlamourRenderer] with [DefaultStyle].
func NewModel(ctx context.Context, source VideoSource, render Renderer) *Model {
	if render == nil {
		render = GlamourRenderer(DefaultStyle)
	}

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "TextTube"
	l.SetShowHelp(false)

	return &Model{
		ctx:    ctx,
		source: source,
		render: render,
		view:   ListView,
		list:   l,
		sort:   models.SortNewest,
		reader: viewport.New(0, 0),
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Run starts the TUI on the alternate screen and blocks until it exits.
func Run(ctx context.Context, m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui failed: %w", err)
	}
	return nil
}

// Init loads the catalogue.
func (m *Model) Init() tea.Cmd {
	return m.fetchVideos()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-4)
		m.reader.Width = msg.Width - 4
		m.reader.Height = max(1, msg.Height-6)
		if m.view == ReaderView {
			m.refreshReader()
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ListView:
			return m.handleListKeys(msg)
		case ReaderView:
			return m.handleReaderKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		}

	case Msg:
		switch msg.kind {
		case MsgVideosFetched:
			data := msg.data.(videosFetched)
			if data.err != nil {
				m.err = data.err
				return m, nil
			}
			m.err = nil
			m.videos = data.videos
			cmd := m.list.SetItems(videoItems(data.videos))
			m.list.Title = fmt.Sprintf("TextTube · %s · %d件", m.sort.Label(), len(data.videos))
			return m, cmd

		case MsgVideoDeleted:
			data := msg.data.(videoDeleted)
			m.view = ListView
			m.selected = nil
			if data.err != nil {
				m.status = styles.err.Render(fmt.Sprintf("削除に失敗しました: %v", data.err))
				return m, nil
			}
			m.status = styles.ok.Render(fmt.Sprintf("✓ 削除しました: %s", data.title))
			return m, m.fetchVideos()
		}
	}

	return m.updateComponents(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress r to retry, q to quit", m.err))
	}

	switch m.view {
	case ListView:
		return m.renderList()
	case ReaderView:
		return m.renderReader()
	case ConfirmView:
		return m.renderConfirm()
	default:
		return ""
	}
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Keys belong to the filter input while the owner is typing.
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		if v := m.selectedVideo(); v != nil {
			m.selected = v
			m.tab = SummaryTab
			m.view = ReaderView
			m.refreshReader()
		}
		return m, nil
	case key.Matches(msg, m.keys.sort):
		m.sort = nextSort(m.sort)
		m.status = ""
		return m, m.fetchVideos()
	case key.Matches(msg, m.keys.refresh):
		m.status = ""
		return m, m.fetchVideos()
	case key.Matches(msg, m.keys.remove):
		if v := m.selectedVideo(); v != nil {
			m.selected = v
			m.view = ConfirmView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleReaderKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = ListView
		m.selected = nil
		return m, nil
	case key.Matches(msg, m.keys.tab):
		if m.tab == SummaryTab {
			m.tab = ScriptTab
		} else {
			m.tab = SummaryTab
		}
		m.refreshReader()
		return m, nil
	}

	var cmd tea.Cmd
	m.reader, cmd = m.reader.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.yes):
		return m, m.deleteVideo(m.selected)
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.quit):
		m.view = ListView
		m.selected = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case ListView:
		m.list, cmd = m.list.Update(msg)
	case ReaderView:
		m.reader, cmd = m.reader.Update(msg)
	}
	return m, cmd
}

func (m *Model) selectedVideo() *models.Video {
	if item, ok := m.list.SelectedItem().(videoItem); ok {
		return item.video
	}
	return nil
}

// refreshReader re-renders the selected video for the current tab and width.
func (m *Model) refreshReader() {
	if m.selected == nil {
		return
	}
	content, err := m.render(readerDocument(m.selected, m.tab), m.reader.Width)
	if err != nil {
		content = styles.err.Render(fmt.Sprintf("Failed to render: %v", err)) + "\n\n" + readerDocument(m.selected, m.tab)
	}
	m.reader.SetContent(content)
	m.reader.GotoTop()
}

func (m *Model) fetchVideos() tea.Cmd {
	q := models.VideoQuery{Sort: m.sort}
	return func() tea.Msg {
		videos, err := m.source.Search(q)
		return videosFetchedMsg(videos, err)
	}
}

func (m *Model) deleteVideo(v *models.Video) tea.Cmd {
	return func() tea.Msg {
		return videoDeletedMsg(v, m.source.Delete(v.ID()))
	}
}

func nextSort(current models.SortOrder) models.SortOrder {
	i := slices.Index(models.SortOrders, current)
	return models.SortOrders[(i+1)%len(models.SortOrders)]
}

func (m *Model) renderList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.sort, m.keys.remove, m.keys.refresh, m.keys.quit}
	parts := []string{m.list.View()}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	parts = append(parts, m.help.ShortHelpView(helpKeys))
	return strings.Join(parts, "\n\n")
}

func (m *Model) renderReader() string {
	tabs := make([]string, 0, 2)
	for _, t := range []Tab{SummaryTab, ScriptTab} {
		style := styles.tab
		if t == m.tab {
			style = styles.activeTab
		}
		tabs = append(tabs, style.Render(t.String()))
	}

	helpKeys := []key.Binding{m.keys.tab, m.keys.up, m.keys.down, m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n%s\n%s",
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		m.reader.View(),
		m.help.ShortHelpView(helpKeys),
	)
}

func (m *Model) renderConfirm() string {
	if m.selected == nil {
		return ""
	}
	title := styles.title.Render("本当にこの動画を削除しますか？")
	info := fmt.Sprintf("\n%s\n%s\n", m.selected.Title(), styles.help.Render(m.selected.ChannelName()))

	helpKeys := []key.Binding{m.keys.yes, m.keys.no}
	return fmt.Sprintf("%s\n%s\n%s", title, info, m.help.ShortHelpView(helpKeys))
}
