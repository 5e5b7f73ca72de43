package http

import (
	"context"
	"net/http"
	"time"

	"videoqc/internal/adapter/http/middleware"
	"videoqc/internal/adapter/http/ratelimit"
	"videoqc/internal/service"
	"videoqc/static"
)

// Server bundles the route table and the underlying http.Server.
type Server struct {
	httpServer *http.Server
}

func NewServer(addr, secret string, handlers *Handlers, authSvc AuthService, bus *service.EventBus) *Server {
	limiter := ratelimit.NewLoginRateLimiter(5, time.Minute, 15*time.Minute)
	csrf := middleware.NewCSRF(secret)

	mux := http.NewServeMux()

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static.FS)))

	mux.HandleFunc("GET /setup", SetupHandler(authSvc))
	mux.HandleFunc("POST /setup", SetupHandler(authSvc))
	mux.HandleFunc("GET /login", LoginHandler(authSvc, limiter))
	mux.HandleFunc("POST /login", LoginHandler(authSvc, limiter))
	mux.HandleFunc("POST /logout", LogoutHandler())

	mux.HandleFunc("GET /{$}", AuthMiddleware(authSvc, handlers.Dashboard()))
	mux.HandleFunc("GET /upload", AuthMiddleware(authSvc, handlers.UploadPage()))
	mux.HandleFunc("POST /upload", AuthMiddleware(authSvc, handlers.Upload()))
	mux.HandleFunc("GET /media/{id}", AuthMiddleware(authSvc, handlers.MediaPage()))
	mux.HandleFunc("POST /media/{id}/convert", AuthMiddleware(authSvc, handlers.Convert()))
	mux.HandleFunc("POST /media/{id}/reprobe", AuthMiddleware(authSvc, handlers.Reprobe()))
	mux.HandleFunc("GET /media/{id}/download", AuthMiddleware(authSvc, handlers.Download()))
	mux.HandleFunc("POST /media/{id}/delete", AuthMiddleware(authSvc, handlers.DeleteMedia()))
	mux.HandleFunc("GET /events/{id}", AuthMiddleware(authSvc, handlers.SSEHandler(bus)))

	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           middleware.SecurityHeaders(csrf.Middleware(mux)),
			ReadHeaderTimeout: 10 * time.Second,
			// No WriteTimeout: SSE streams and large uploads outlive
			// any sensible fixed deadline.
		},
	}
}

func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
