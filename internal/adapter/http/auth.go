package http

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"videoqc/internal/adapter/http/middleware"
	"videoqc/internal/adapter/http/ratelimit"
	"videoqc/internal/adapter/http/views"
	"videoqc/internal/infrastructure/logger"
	"videoqc/internal/service"
)

const (
	cookieName   = "auth_token"
	cookieMaxAge = 7 * 24 * 60 * 60
)

type AuthService interface {
	NeedsSetup() (bool, error)
	Setup(username, password string) error
	Login(username, password string) (string, error)
	ValidateToken(token string) (int64, error)
}

func setSessionCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		MaxAge:   maxAge,
		Path:     "/",
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// AuthMiddleware gates a handler behind a valid session, redirecting to
// setup on first run and to login otherwise.
func AuthMiddleware(authSvc AuthService, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if needs, err := authSvc.NeedsSetup(); err == nil && needs {
			http.Redirect(w, r, "/setup", http.StatusSeeOther)
			return
		}

		cookie, err := r.Cookie(cookieName)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if _, err := authSvc.ValidateToken(cookie.Value); err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		next(w, r)
	}
}

// SetupHandler serves the first-run account creation form.
func SetupHandler(authSvc AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		needs, err := authSvc.NeedsSetup()
		if err != nil {
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}
		if !needs {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		if r.Method == http.MethodGet {
			renderHTML(w, r, views.Setup("", middleware.TokenFrom(r.Context())))
			return
		}

		username := r.FormValue("username")
		password := r.FormValue("password")
		if err := authSvc.Setup(username, password); err != nil {
			logger.Warn.Printf("setup rejected for %s: %v", logger.Sanitize(username), err)
			w.WriteHeader(http.StatusBadRequest)
			renderHTML(w, r, views.Setup(setupErrorMessage(err), middleware.TokenFrom(r.Context())))
			return
		}

		logger.Info.Printf("admin account created: %s", logger.Sanitize(username))
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}

func setupErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrInvalidUsername):
		return "Username must be 3-50 characters: letters, digits, underscore or hyphen."
	case errors.Is(err, service.ErrWeakPassword):
		return "Password must be at least 8 characters."
	case errors.Is(err, service.ErrUserExists):
		return "An account already exists."
	default:
		return "Setup failed."
	}
}

// LoginHandler serves the login form and exchanges credentials for a
// session cookie, rate limited per client address.
func LoginHandler(authSvc AuthService, limiter *ratelimit.LoginRateLimiter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if needs, err := authSvc.NeedsSetup(); err == nil && needs {
			http.Redirect(w, r, "/setup", http.StatusSeeOther)
			return
		}

		if r.Method == http.MethodGet {
			renderHTML(w, r, views.Login("", middleware.TokenFrom(r.Context())))
			return
		}

		client := clientIP(r)
		if ok, remaining := limiter.Check(client); !ok {
			logger.Warn.Printf("login rate limited: client=%s", client)
			w.WriteHeader(http.StatusTooManyRequests)
			renderHTML(w, r, views.Login(fmt.Sprintf("Too many attempts. Try again in %s.", remaining.Round(time.Second)), middleware.TokenFrom(r.Context())))
			return
		}

		token, err := authSvc.Login(r.FormValue("username"), r.FormValue("password"))
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			renderHTML(w, r, views.Login("Invalid username or password.", middleware.TokenFrom(r.Context())))
			return
		}

		limiter.Reset(client)
		setSessionCookie(w, token, cookieMaxAge)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setSessionCookie(w, "", -1)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}

// clientIP extracts the remote address without the port, used as the
// rate-limit key.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}
