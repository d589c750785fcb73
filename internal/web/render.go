package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/desertthunder/texttube/internal/models"
	"github.com/desertthunder/texttube/internal/services"
	"github.com/desertthunder/texttube/internal/shared"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var pageNames = []string{"home", "watch", "login", "studio", "form", "error"}

type renderer struct {
	pages    map[string]*template.Template
	partials *template.Template
}

var funcs = template.FuncMap{
	"views":     shared.FormatViews,
	"count":     shared.FormatCount,
	"date":      formatDate,
	"duration":  shared.DisplayDuration,
	"thumbnail": services.ThumbnailURL,
	"avatar":    channelAvatar,
	"initial":   initial,
	"excerpt":   excerpt,
	"sorts":     func() []models.SortOrder { return models.SortOrders },
}

func newRenderer() (*renderer, error) {
	r := &renderer{pages: make(map[string]*template.Template, len(pageNames))}

	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/partials.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		r.pages[name] = t
	}

	partials, err := template.New("partials").Funcs(funcs).ParseFS(templateFS, "templates/partials.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse partials: %w", err)
	}
	r.partials = partials

	return r, nil
}

// page is the data every layout render receives.
type page struct {
	Site        shared.SiteConfig
	Title       string
	Description string
	Canonical   string
	OGImage     string
	OGType      string
	User        *models.User
	Path        string
	Data        any
}

// render executes the named page into a buffer first so a template error never leaves half a page on the wire.
func (a *App) render(w http.ResponseWriter, r *http.Request, status int, name string, p page) {
	t, ok := a.pages.pages[name]
	if !ok {
		a.serverError(w, r, fmt.Errorf("unknown page %q", name))
		return
	}

	p.Site = a.site
	p.Path = r.URL.Path
	p.User = userFrom(r)
	if p.OGType == "" {
		p.OGType = "website"
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		a.logger.Error("template execution failed", "page", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (a *App) renderPartial(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := a.pages.partials.ExecuteTemplate(&buf, name, data); err != nil {
		a.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// wantsJSON reports whether the caller is the delete/lookup script rather than a plain form post.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		r.Header.Get("X-Requested-With") != ""
}

func (a *App) notFound(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, http.StatusNotFound, "error", page{
		Title: "ページが見つかりません",
		Data:  errorPage{Status: http.StatusNotFound, Message: "お探しのページは見つかりませんでした。"},
	})
}

func (a *App) serverError(w http.ResponseWriter, r *http.Request, err error) {
	a.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	a.render(w, r, http.StatusInternalServerError, "error", page{
		Title: "エラーが発生しました",
		Data:  errorPage{Status: http.StatusInternalServerError, Message: "問題が発生しました。時間をおいて再度お試しください。"},
	})
}

type errorPage struct {
	Status  int
	Message string
}

func formatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		return shared.FormatDate(t)
	case *time.Time:
		if t == nil {
			return "-"
		}
		return shared.FormatDate(*t)
	default:
		return "-"
	}
}

// channelAvatar returns a usable channel image URL, or "" when the initial should be shown instead.
func channelAvatar(url string) string {
	if url == "" || strings.Contains(url, "youtube.com/@") {
		return ""
	}
	if !strings.HasPrefix(url, "http") {
		return services.PlaceholderThumbnail
	}
	return url
}

func initial(s string) string {
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return "?"
	}
	return string(r)
}

// excerpt shortens s to n runes, flattening newlines.
func excerpt(n int, s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "…"
}

func staticSub() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// staticHandler serves the embedded assets under /static/.
type staticHandler struct{}

func (staticHandler) Routes() []string { return []string{"GET /static/"} }

func (staticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	http.StripPrefix("/static/", http.FileServerFS(staticSub())).ServeHTTP(w, r)
}
