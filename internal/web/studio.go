package web

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/desertthunder/texttube/internal/markdown"
	"github.com/desertthunder/texttube/internal/models"
	"github.com/desertthunder/texttube/internal/services"
	"github.com/desertthunder/texttube/internal/shared"
)

const (
	emptySummaryPreview = "*要約が入力されていません*"
	emptyScriptPreview  = "*スクリプトが入力されていません*"
)

type studioPage struct {
	Videos []*models.Video
	Query  string
	Sort   models.SortOrder
	Total  int
}

type formPage struct {
	Action string
	Submit string
	Input  models.VideoInput
	Errors models.FieldErrors
	Video  *models.Video
}

type previewData struct {
	Summary template.HTML
	Script  template.HTML
}

func (a *App) studio(w http.ResponseWriter, r *http.Request) {
	q := models.VideoQuery{
		Query: strings.TrimSpace(r.URL.Query().Get("q")),
		Sort:  models.ParseSortOrder(r.URL.Query().Get("sort")),
	}

	videos, err := a.videos.Search(q)
	if err != nil {
		a.serverError(w, r, err)
		return
	}

	a.render(w, r, http.StatusOK, "studio", page{
		Title: "Studio デスク",
		Data:  studioPage{Videos: videos, Query: q.Query, Sort: q.Sort, Total: len(videos)},
	})
}

func (a *App) newVideoForm(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, http.StatusOK, "form", page{
		Title: "新規動画の作成",
		Data:  formPage{Action: "/studio/new", Submit: "作成する"},
	})
}

func (a *App) createVideo(w http.ResponseWriter, r *http.Request) {
	in, ok := a.readVideoForm(w, r)
	if !ok {
		return
	}

	if err := in.Validate(); err != nil {
		a.invalidForm(w, r, formPage{Action: "/studio/new", Submit: "作成する", Input: in}, err)
		return
	}

	services.ResolveThumbnail(&in)
	video := models.NewVideo(0, in)
	if err := a.videos.Create(video); err != nil {
		a.serverError(w, r, err)
		return
	}

	a.logger.Info("video created", "id", video.ID(), "title", video.Title())
	http.Redirect(w, r, "/studio", http.StatusSeeOther)
}

func (a *App) editVideoForm(w http.ResponseWriter, r *http.Request) {
	video, ok := a.loadVideo(w, r)
	if !ok {
		return
	}

	a.render(w, r, http.StatusOK, "form", page{
		Title: "動画の編集",
		Data: formPage{
			Action: "/studio/edit/" + video.ID(),
			Submit: "更新する",
			Input:  video.Input(),
			Video:  video,
		},
	})
}

func (a *App) updateVideo(w http.ResponseWriter, r *http.Request) {
	video, ok := a.loadVideo(w, r)
	if !ok {
		return
	}

	in, ok := a.readVideoForm(w, r)
	if !ok {
		return
	}

	if err := in.Validate(); err != nil {
		a.invalidForm(w, r, formPage{Action: "/studio/edit/" + video.ID(), Submit: "更新する", Input: in, Video: video}, err)
		return
	}

	services.ResolveThumbnail(&in)
	in.ViewCount = video.ViewCount()
	video.Apply(in)
	if err := a.videos.Update(video); err != nil {
		if errors.Is(err, shared.ErrVideoNotFound) {
			a.notFound(w, r)
			return
		}
		a.serverError(w, r, err)
		return
	}

	a.logger.Info("video updated", "id", video.ID())
	http.Redirect(w, r, "/studio", http.StatusSeeOther)
}

func (a *App) deleteVideo(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))

	err := a.videos.Delete(id)
	switch {
	case err == nil:
		a.logger.Info("video deleted", "id", id)
	case errors.Is(err, shared.ErrVideoNotFound):
		if wantsJSON(r) {
			writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": "video not found"})
			return
		}
		a.notFound(w, r)
		return
	default:
		a.logger.Error("delete failed", "id", id, "error", err)
		if wantsJSON(r) {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "delete failed"})
			return
		}
		a.serverError(w, r, err)
		return
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
		return
	}
	http.Redirect(w, r, "/studio", http.StatusSeeOther)
}

func (a *App) preview(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	summary := r.PostForm.Get("summary")
	if strings.TrimSpace(summary) == "" {
		summary = emptySummaryPreview
	}
	script := r.PostForm.Get("detailed_script")
	if strings.TrimSpace(script) == "" {
		script = emptyScriptPreview
	}

	doc := markdown.NewDocument()
	a.renderPartial(w, r, "preview", previewData{
		Summary: doc.Render(summary).HTML,
		Script:  doc.Render(script).HTML,
	})
}

func (a *App) lookup(w http.ResponseWriter, r *http.Request) {
	target := strings.TrimSpace(r.URL.Query().Get("url"))
	if target == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "url is required"})
		return
	}
	if a.meta == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "lookup disabled"})
		return
	}

	meta, err := a.meta.Lookup(r.Context(), target)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, meta)
	case errors.Is(err, shared.ErrUnsupportedURL):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "not a video URL"})
	case errors.Is(err, shared.ErrVideoNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "video not found"})
	case errors.Is(err, shared.ErrRateLimited):
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "too many lookups"})
	default:
		a.logger.Warn("metadata lookup failed", "url", target, "provider", a.meta.Name(), "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "lookup failed"})
	}
}

func (a *App) loadVideo(w http.ResponseWriter, r *http.Request) (*models.Video, bool) {
	video, err := a.videos.Get(strings.TrimSpace(r.PathValue("id")))
	if errors.Is(err, shared.ErrVideoNotFound) {
		a.notFound(w, r)
		return nil, false
	}
	if err != nil {
		a.serverError(w, r, err)
		return nil, false
	}
	return video, true
}

func (a *App) readVideoForm(w http.ResponseWriter, r *http.Request) (models.VideoInput, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return models.VideoInput{}, false
	}

	f := r.PostForm
	in := models.VideoInput{
		Title:               f.Get("title"),
		ChannelName:         f.Get("channel_name"),
		ChannelThumbnailURL: f.Get("channel_thumbnail_url"),
		ThumbnailURL:        f.Get("thumbnail_url"),
		OriginalURL:         f.Get("original_url"),
		Summary:             f.Get("summary"),
		DetailedScript:      f.Get("detailed_script"),
		Duration:            f.Get("duration"),
		PublishedAt:         f.Get("published_at"),
	}
	if v := strings.TrimSpace(f.Get("view_count")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			n = -1
		}
		in.ViewCount = n
	}
	in.Normalize()
	return in, true
}

func (a *App) invalidForm(w http.ResponseWriter, r *http.Request, data formPage, err error) {
	var fe models.FieldErrors
	if !errors.As(err, &fe) {
		a.serverError(w, r, err)
		return
	}
	data.Errors = fe
	a.render(w, r, http.StatusUnprocessableEntity, "form", page{Title: "入力内容を確認してください", Data: data})
}
