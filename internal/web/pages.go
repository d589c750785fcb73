package web

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/texttube/internal/markdown"
	"github.com/desertthunder/texttube/internal/models"
	"github.com/desertthunder/texttube/internal/server"
	"github.com/desertthunder/texttube/internal/services"
	"github.com/desertthunder/texttube/internal/shared"
)

type homePage struct {
	Videos   []*models.Video
	Channels []string
	Query    string
	Sort     models.SortOrder
	Channel  string
}

type watchPage struct {
	Video       *models.Video
	Summary     markdown.Section
	Script      markdown.Section
	Source      string
	ReadMinutes int
}

func userFrom(r *http.Request) *models.User {
	return server.UserFromContext(r.Context())
}

func (a *App) home(w http.ResponseWriter, r *http.Request) {
	q := models.VideoQuery{
		Query:   strings.TrimSpace(r.URL.Query().Get("q")),
		Sort:    models.ParseSortOrder(r.URL.Query().Get("sort")),
		Channel: strings.TrimSpace(r.URL.Query().Get("channel")),
	}

	videos, err := a.videos.Search(q)
	if err != nil {
		a.serverError(w, r, err)
		return
	}

	channels, err := a.videos.Channels()
	if err != nil {
		a.serverError(w, r, err)
		return
	}

	a.render(w, r, http.StatusOK, "home", page{
		Description: a.site.Description,
		Canonical:   a.absURL("/"),
		Data: homePage{
			Videos:   videos,
			Channels: channels,
			Query:    q.Query,
			Sort:     q.Sort,
			Channel:  q.Channel,
		},
	})
}

func (a *App) watch(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))

	if _, err := a.videos.IncrementViewCount(id); err != nil {
		if errors.Is(err, shared.ErrVideoNotFound) {
			a.notFound(w, r)
			return
		}
		// A failed counter must not hide the page.
		a.logger.Warn("view count not recorded", "id", id, "error", err)
	}

	video, err := a.videos.Get(id)
	if errors.Is(err, shared.ErrVideoNotFound) {
		a.notFound(w, r)
		return
	}
	if err != nil {
		a.serverError(w, r, err)
		return
	}

	// Both tabs share one page, so heading ids must not repeat between them.
	doc := markdown.NewDocument()
	summary := doc.Render(video.Summary())
	script := doc.Render(video.DetailedScript())

	description := video.Summary()
	if strings.TrimSpace(description) == "" {
		description = video.Title() + "の要約とスクリプトをテキストで読む"
	}

	a.render(w, r, http.StatusOK, "watch", page{
		Title:       video.Title(),
		Description: excerpt(160, description),
		Canonical:   a.absURL("/watch/" + video.ID()),
		OGImage:     a.absURL(services.ThumbnailURL(video.ThumbnailURL())),
		OGType:      "article",
		Data: watchPage{
			Video:       video,
			Summary:     summary,
			Script:      script,
			Source:      video.DetailedScript(),
			ReadMinutes: video.ReadTimeMinutes(),
		},
	})
}

// absURL resolves a site path against the configured base URL. Absolute URLs pass through.
func (a *App) absURL(p string) string {
	if p == "" || strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") || a.baseURL == "" {
		return p
	}
	base, err := url.Parse(a.baseURL)
	if err != nil {
		return p
	}
	ref, err := url.Parse(p)
	if err != nil {
		return p
	}
	return base.ResolveReference(ref).String()
}
