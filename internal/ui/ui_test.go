package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/texttube/internal/models"
)

type fakeSource struct {
	videos    []*models.Video
	searchErr error
	deleteErr error
	queries   []models.VideoQuery
	deleted   []string
}

func (f *fakeSource) Search(q models.VideoQuery) ([]*models.Video, error) {
	f.queries = append(f.queries, q)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.videos, nil
}

func (f *fakeSource) Delete(id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func plain(markdown string, width int) (string, error) { return markdown, nil }

func video(id, title, summary, script string) *models.Video {
	v := models.NewVideo(1, models.VideoInput{
		Title:          title,
		ChannelName:    "Gopher Channel",
		Summary:        summary,
		DetailedScript: script,
	})
	v.SetID(id)
	return v
}

func keyRunes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

// loaded returns a model that has run Init and received a window size.
func loaded(t *testing.T, src *fakeSource) *Model {
	t.Helper()
	m := NewModel(context.Background(), src, plain)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m.Update(m.Init()())
	return m
}

func TestModel(t *testing.T) {
	t.Run("loads videos", func(t *testing.T) {
		src := &fakeSource{videos: []*models.Video{video("a", "Go入門", "要約A", "スクリプトA"), video("b", "料理", "要約B", "")}}
		m := loaded(t, src)

		if len(m.list.Items()) != 2 {
			t.Fatalf("items = %d, want 2", len(m.list.Items()))
		}
		if src.queries[0].Sort != models.SortNewest {
			t.Errorf("sort = %q, want newest", src.queries[0].Sort)
		}
		if !strings.Contains(m.View(), "Go入門") {
			t.Error("list view should show titles")
		}
	})

	t.Run("reader tabs", func(t *testing.T) {
		src := &fakeSource{videos: []*models.Video{video("a", "Go入門", "要約A", "スクリプトA")}}
		m := loaded(t, src)

		m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		if m.view != ReaderView {
			t.Fatalf("view = %v, want ReaderView", m.view)
		}
		if out := m.View(); !strings.Contains(out, "要約A") || strings.Contains(out, "スクリプトA") {
			t.Errorf("summary tab should show the summary only:\n%s", out)
		}

		m.Update(tea.KeyMsg{Type: tea.KeyTab})
		if m.tab != ScriptTab || !strings.Contains(m.View(), "スクリプトA") {
			t.Errorf("script tab not shown:\n%s", m.View())
		}

		m.Update(tea.KeyMsg{Type: tea.KeyEsc})
		if m.view != ListView || m.selected != nil {
			t.Errorf("esc should return to the list")
		}
	})

	t.Run("sort cycles and refetches", func(t *testing.T) {
		src := &fakeSource{}
		m := loaded(t, src)

		_, cmd := m.Update(keyRunes("s"))
		if cmd == nil {
			t.Fatal("expected fetch command")
		}
		m.Update(cmd())

		if got := src.queries[len(src.queries)-1].Sort; got != models.SortMostViewed {
			t.Errorf("sort = %q, want %q", got, models.SortMostViewed)
		}
		if !strings.Contains(m.list.Title, models.SortMostViewed.Label()) {
			t.Errorf("title = %q", m.list.Title)
		}
	})

	t.Run("delete confirmed", func(t *testing.T) {
		src := &fakeSource{videos: []*models.Video{video("a", "Go入門", "s", "d")}}
		m := loaded(t, src)

		m.Update(keyRunes("d"))
		if m.view != ConfirmView || !strings.Contains(m.View(), "本当にこの動画を削除しますか？") {
			t.Fatalf("expected confirm view, got %v", m.view)
		}

		_, cmd := m.Update(keyRunes("y"))
		if cmd == nil {
			t.Fatal("expected delete command")
		}
		_, refetch := m.Update(cmd())

		if len(src.deleted) != 1 || src.deleted[0] != "a" {
			t.Errorf("deleted = %v", src.deleted)
		}
		if m.view != ListView || !strings.Contains(m.status, "削除しました") {
			t.Errorf("view = %v, status = %q", m.view, m.status)
		}
		if refetch == nil {
			t.Error("expected the list to reload")
		}
	})

	t.Run("delete cancelled", func(t *testing.T) {
		src := &fakeSource{videos: []*models.Video{video("a", "Go入門", "s", "d")}}
		m := loaded(t, src)

		m.Update(keyRunes("d"))
		m.Update(keyRunes("n"))
		if m.view != ListView || len(src.deleted) != 0 {
			t.Errorf("view = %v, deleted = %v", m.view, src.deleted)
		}
	})

	t.Run("delete failure", func(t *testing.T) {
		src := &fakeSource{videos: []*models.Video{video("a", "Go入門", "s", "d")}, deleteErr: errors.New("locked")}
		m := loaded(t, src)

		m.Update(keyRunes("d"))
		_, cmd := m.Update(keyRunes("y"))
		m.Update(cmd())
		if !strings.Contains(m.status, "削除に失敗しました") {
			t.Errorf("status = %q", m.status)
		}
	})

	t.Run("fetch error", func(t *testing.T) {
		m := loaded(t, &fakeSource{searchErr: errors.New("db closed")})
		if !strings.Contains(m.View(), "db closed") {
			t.Errorf("view = %q", m.View())
		}
	})

	t.Run("quit", func(t *testing.T) {
		m := loaded(t, &fakeSource{})
		_, cmd := m.Update(keyRunes("q"))
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})
}

func TestReaderDocument(t *testing.T) {
	v := video("a", "Go入門", "", "## 見出し")

	summary := readerDocument(v, SummaryTab)
	if !strings.Contains(summary, "# Go入門") || !strings.Contains(summary, "*要約が入力されていません*") {
		t.Errorf("summary document = %q", summary)
	}
	if !strings.Contains(summary, "約1分で読めます") {
		t.Errorf("summary document missing read time: %q", summary)
	}

	script := readerDocument(v, ScriptTab)
	if !strings.Contains(script, "## 見出し") {
		t.Errorf("script document = %q", script)
	}
}

func TestGlamourRenderer(t *testing.T) {
	out, err := GlamourRenderer("notty")("# Title\n\nSome **bold** text.", 60)
	if err != nil {
		t.Fatalf("render error = %v", err)
	}
	if !strings.Contains(out, "Title") || !strings.Contains(out, "bold") {
		t.Errorf("output = %q", out)
	}
}

func TestNextSort(t *testing.T) {
	got := []models.SortOrder{nextSort(models.SortNewest), nextSort(models.SortMostViewed), nextSort(models.SortOldest)}
	want := []models.SortOrder{models.SortMostViewed, models.SortOldest, models.SortNewest}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("nextSort step %d = %q, want %q", i, got[i], want[i])
		}
	}
}
