// Package web serves TextTube's pages: the public catalogue, the reader, the owner login, and the studio.
//
// Pages are rendered on the server with html/template from embedded templates. A small script
// (static/app.js) adds the interactive pieces: debounced search, the sort select, reader tabs,
// copy-to-clipboard, markdown preview, delete confirmation, and thumbnail auto-fill.
//
// Routes
//
//	GET  /                    → catalogue grid (q, sort, channel)
//	GET  /watch/{id}          → reader; counts a view first
//	GET  /login, POST /login  → owner sign-in
//	POST /logout              → sign-out
//	GET  /studio              → owner table (q, sort)
//	GET  /studio/new          → create form, POST to save
//	GET  /studio/edit/{id}    → edit form, POST to save
//	POST /studio/delete/{id}  → delete; JSON for fetch callers, redirect otherwise
//	POST /studio/preview      → rendered markdown fragment
//	GET  /studio/lookup       → oEmbed metadata JSON for the form
//	GET  /static/             → embedded assets
//	GET  /healthz             → liveness
package web

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/texttube/internal/auth"
	"github.com/desertthunder/texttube/internal/models"
	"github.com/desertthunder/texttube/internal/server"
	"github.com/desertthunder/texttube/internal/services"
	"github.com/desertthunder/texttube/internal/shared"
)

// SessionCookie is the name of the owner's session cookie.
const SessionCookie = "texttube_session"

// VideoStore is the persistence the pages need.
type VideoStore interface {
	Create(video *models.Video) error
	Get(id string) (*models.Video, error)
	Update(video *models.Video) error
	Delete(id string) error
	Search(q models.VideoQuery) ([]*models.Video, error)
	Channels() ([]string, error)
	IncrementViewCount(id string) (int, error)
}

// Options carries site settings into the app.
type Options struct {
	Site          shared.SiteConfig
	BaseURL       string
	SecureCookies bool
	// TrustProxy takes the client address from X-Forwarded-For and friends.
	// Leave it off unless a reverse proxy overwrites those headers.
	TrustProxy bool
	Logger     *log.Logger
}

// App holds the dependencies of every handler.
type App struct {
	videos   VideoStore
	auth     *auth.Service
	meta     services.MetadataService
	throttle *auth.Throttle
	pages    *renderer
	site     shared.SiteConfig
	baseURL  string
	secure   bool
	proxied  bool
	logger   *log.Logger
}

// New parses the templates and wires the app.
func New(videos VideoStore, authSvc *auth.Service, meta services.MetadataService, throttle *auth.Throttle, opts Options) (*App, error) {
	pages, err := newRenderer()
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	if throttle == nil {
		throttle = auth.NewThrottle(0, 1)
	}

	return &App{
		videos:   videos,
		auth:     authSvc,
		meta:     meta,
		throttle: throttle,
		pages:    pages,
		site:     opts.Site,
		baseURL:  opts.BaseURL,
		secure:   opts.SecureCookies,
		proxied:  opts.TrustProxy,
		logger:   logger,
	}, nil
}

// Handler builds the routed, middleware-wrapped handler for the whole site.
func (a *App) Handler() http.Handler {
	r := server.NewBasicRouter()
	r.Use(server.Sessions(a.auth, a.sessionCookie(""), a.logger))

	r.Handler(staticHandler{})
	r.HandleFunc(http.MethodGet, "/healthz", a.healthz)

	r.HandleFunc(http.MethodGet, "/{$}", a.home)
	r.HandleFunc(http.MethodGet, "/watch/{id}", a.watch)
	r.HandleFunc(http.MethodGet, "/login", a.loginForm)
	r.HandleFunc(http.MethodPost, "/login", a.login)
	r.HandleFunc(http.MethodPost, "/logout", a.logout)

	studio := r.With(server.RequireOwner("/login"))
	studio.HandleFunc(http.MethodGet, "/studio", a.studio)
	studio.HandleFunc(http.MethodGet, "/studio/new", a.newVideoForm)
	studio.HandleFunc(http.MethodPost, "/studio/new", a.createVideo)
	studio.HandleFunc(http.MethodGet, "/studio/edit/{id}", a.editVideoForm)
	studio.HandleFunc(http.MethodPost, "/studio/edit/{id}", a.updateVideo)
	studio.HandleFunc(http.MethodPost, "/studio/delete/{id}", a.deleteVideo)
	studio.HandleFunc(http.MethodPost, "/studio/preview", a.preview)
	studio.HandleFunc(http.MethodGet, "/studio/lookup", a.lookup)

	r.HandleFunc("", "/", a.notFound)

	mws := []server.Middleware{server.RequestID}
	if a.proxied {
		mws = append(mws, server.RealIP)
	}
	mws = append(mws, server.Logging(a.logger), server.Recoverer, server.SecurityHeaders)
	return server.Chain(r, mws...)
}

func (a *App) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

// sessionCookie is the session cookie carrying token, with the site's attributes.
func (a *App) sessionCookie(token string) http.Cookie {
	return http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (a *App) setSessionCookie(w http.ResponseWriter, token string) {
	c := a.sessionCookie(token)
	c.MaxAge = int(a.auth.TTL() / time.Second)
	http.SetCookie(w, &c)
}

func (a *App) clearSessionCookie(w http.ResponseWriter) {
	c := a.sessionCookie("")
	c.MaxAge = -1
	http.SetCookie(w, &c)
}
