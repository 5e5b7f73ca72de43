package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
)

const (
	csrfCookieName = "csrf_token"
	csrfHeaderName = "X-CSRF-Token"
	csrfFormField  = "csrf_token"
	csrfMaxAge     = 86400
	csrfTokenSize  = 32
)

type csrfContextKey struct{}

// CSRF implements double-submit protection with HMAC-signed tokens.
// Safe methods receive a token cookie and carry the token in the
// request context so server-rendered forms can embed it; unsafe
// methods must echo the cookie token back in the csrf_token form
// field or the X-CSRF-Token header.
type CSRF struct {
	secret []byte
}

func NewCSRF(secret string) *CSRF {
	return &CSRF{secret: []byte(secret)}
}

func (c *CSRF) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ""
		if cookie, err := r.Cookie(csrfCookieName); err == nil && c.Valid(cookie.Value) {
			token = cookie.Value
		}
		if token == "" {
			token = c.newToken()
			c.setCookie(w, r, token)
		}

		if isSafeMethod(r.Method) {
			ctx := context.WithValue(r.Context(), csrfContextKey{}, token)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		if !c.validateRequest(r) {
			http.Error(w, "Forbidden - invalid CSRF token", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// TokenFrom returns the CSRF token the middleware stored for this
// request, or "" when the request did not pass through it.
func TokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(csrfContextKey{}).(string)
	return token
}

// newToken is base64url(32 random bytes || HMAC-SHA256 signature).
func (c *CSRF) newToken() string {
	random := make([]byte, csrfTokenSize)
	if _, err := rand.Read(random); err != nil {
		panic(err)
	}

	mac := hmac.New(sha256.New, c.secret)
	mac.Write(random)

	return base64.URLEncoding.EncodeToString(mac.Sum(random))
}

// Valid reports whether the token decodes and its signature verifies.
func (c *CSRF) Valid(token string) bool {
	decoded, err := base64.URLEncoding.DecodeString(token)
	if err != nil || len(decoded) != csrfTokenSize+sha256.Size {
		return false
	}

	mac := hmac.New(sha256.New, c.secret)
	mac.Write(decoded[:csrfTokenSize])

	return hmac.Equal(decoded[csrfTokenSize:], mac.Sum(nil))
}

// validateRequest requires the submitted token to match the cookie
// token and carry a valid signature.
func (c *CSRF) validateRequest(r *http.Request) bool {
	cookie, err := r.Cookie(csrfCookieName)
	if err != nil {
		return false
	}

	submitted := r.Header.Get(csrfHeaderName)
	if submitted == "" {
		submitted = r.FormValue(csrfFormField)
	}
	if submitted == "" || submitted != cookie.Value {
		return false
	}

	return c.Valid(submitted)
}

func (c *CSRF) setCookie(w http.ResponseWriter, r *http.Request, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   csrfMaxAge,
		Secure:   isTLS(r),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}
