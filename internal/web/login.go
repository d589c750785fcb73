package web

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/desertthunder/texttube/internal/shared"
)

const (
	msgInvalidCredentials = "ログイン情報が正しくありません。"
	msgTooManyAttempts    = "ログイン試行回数が多すぎます。しばらくしてから再度お試しください。"
)

type loginPage struct {
	Email string
	Next  string
	Error string
}

func (a *App) loginForm(w http.ResponseWriter, r *http.Request) {
	next := safeNext(r.URL.Query().Get("next"))
	if userFrom(r) != nil {
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}
	a.render(w, r, http.StatusOK, "login", page{Title: "管理者ログイン", Data: loginPage{Next: next}})
}

func (a *App) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	email := strings.TrimSpace(r.PostForm.Get("email"))
	password := r.PostForm.Get("password")
	next := safeNext(r.PostForm.Get("next"))
	data := loginPage{Email: email, Next: next}

	client := clientKey(r)
	if !a.throttle.Allow(client) {
		a.logger.Warn("login throttled", "client", client)
		data.Error = msgTooManyAttempts
		a.render(w, r, http.StatusTooManyRequests, "login", page{Title: "管理者ログイン", Data: data})
		return
	}

	token, _, err := a.auth.Login(email, password, r.UserAgent())
	if errors.Is(err, shared.ErrInvalidCredentials) {
		data.Error = msgInvalidCredentials
		a.render(w, r, http.StatusUnauthorized, "login", page{Title: "管理者ログイン", Data: data})
		return
	}
	if err != nil {
		a.serverError(w, r, err)
		return
	}

	a.throttle.Reset(client)
	a.setSessionCookie(w, token)
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (a *App) logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if err := a.auth.Logout(cookie.Value); err != nil {
			a.logger.Error("logout failed", "error", err)
		}
	}
	a.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/studio"
	}
	return next
}

func clientKey(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
