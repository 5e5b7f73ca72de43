package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCSRFSecret = "test-secret-for-token-signing"

func csrfCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "csrf_token" {
			return c
		}
	}
	return nil
}

func TestCSRFSetsCookieAndContextTokenOnGET(t *testing.T) {
	csrf := NewCSRF(testCSRFSecret)

	var seen string
	handler := csrf.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = TokenFrom(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	cookie := csrfCookie(t, rec)
	require.NotNil(t, cookie, "csrf_token cookie should be set")
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.True(t, csrf.Valid(cookie.Value))

	assert.Equal(t, cookie.Value, seen, "context token should match the cookie")
}

func TestCSRFKeepsExistingCookie(t *testing.T) {
	csrf := NewCSRF(testCSRFSecret)
	handler := csrf.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	token := csrfCookie(t, first).Value

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "csrf_token", Value: token})
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, req)

	assert.Nil(t, csrfCookie(t, second), "valid cookie should not be reissued")
}

func TestCSRFRejectsPOSTWithoutToken(t *testing.T) {
	csrf := NewCSRF(testCSRFSecret)
	handler := csrf.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler should not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/upload", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCSRFAcceptsPOSTWithFormToken(t *testing.T) {
	csrf := NewCSRF(testCSRFSecret)

	called := false
	handler := csrf.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	token := csrfCookie(t, first).Value

	form := url.Values{"csrf_token": {token}}
	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "csrf_token", Value: token})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.True(t, called)
}

func TestCSRFAcceptsPOSTWithHeaderToken(t *testing.T) {
	csrf := NewCSRF(testCSRFSecret)

	called := false
	handler := csrf.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	token := csrfCookie(t, first).Value

	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	req.Header.Set("X-CSRF-Token", token)
	req.AddCookie(&http.Cookie{Name: "csrf_token", Value: token})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.True(t, called)
}

func TestCSRFRejectsMismatchedToken(t *testing.T) {
	csrf := NewCSRF(testCSRFSecret)
	handler := csrf.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler should not run")
	}))

	issuer := csrf.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	first := httptest.NewRecorder()
	issuer.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	token := csrfCookie(t, first).Value
	other := csrf.newToken()

	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	req.Header.Set("X-CSRF-Token", other)
	req.AddCookie(&http.Cookie{Name: "csrf_token", Value: token})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCSRFRejectsTokenSignedWithOtherSecret(t *testing.T) {
	csrf := NewCSRF(testCSRFSecret)
	foreign := NewCSRF("some-other-secret").newToken()

	assert.False(t, csrf.Valid(foreign))

	handler := csrf.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	req.Header.Set("X-CSRF-Token", foreign)
	req.AddCookie(&http.Cookie{Name: "csrf_token", Value: foreign})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCSRFValidRejectsGarbage(t *testing.T) {
	csrf := NewCSRF(testCSRFSecret)

	assert.False(t, csrf.Valid(""))
	assert.False(t, csrf.Valid("not-base64!!"))
	assert.False(t, csrf.Valid("c2hvcnQ="))
}
