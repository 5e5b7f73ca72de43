package http

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/a-h/templ"
	"github.com/google/uuid"

	"videoqc/internal/adapter/http/middleware"
	"videoqc/internal/adapter/http/validation"
	"videoqc/internal/adapter/http/views"
	"videoqc/internal/domain"
	"videoqc/internal/infrastructure/logger"
)

type MediaService interface {
	Upload(ctx context.Context, filename string, file *os.File) (*domain.Media, error)
	Get(id string) (*domain.Media, error)
	ListAll() ([]*domain.Media, error)
	Delete(id string) error
	Properties(m *domain.Media) (domain.VideoProperties, error)
	Reprobe(ctx context.Context, id string) (*domain.Media, error)
	RequestConversion(id string, req domain.ConversionRequest) (*domain.Job, error)
}

type Handlers struct {
	mediaSvc  MediaService
	maxSizeMB int
}

func NewHandlers(mediaSvc MediaService, maxSizeMB int) *Handlers {
	return &Handlers{
		mediaSvc:  mediaSvc,
		maxSizeMB: maxSizeMB,
	}
}

func renderHTML(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = c.Render(r.Context(), w)
}

func (h *Handlers) Dashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		media, err := h.mediaSvc.ListAll()
		if err != nil {
			logger.Error.Printf("dashboard list error: %v", err)
			media = []*domain.Media{}
		}
		renderHTML(w, r, views.Dashboard(media))
	}
}

func (h *Handlers) UploadPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderHTML(w, r, views.Upload(h.maxSizeMB, middleware.TokenFrom(r.Context())))
	}
}

// Upload receives the multipart file, spools it to a temp file and
// hands it to the media service. A failed probe fails the upload; the
// raw error text is shown.
func (h *Handlers) Upload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		maxBytes := int64(h.maxSizeMB) * 1024 * 1024
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

		if err := r.ParseMultipartForm(maxBytes); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			renderHTML(w, r, views.ErrorInline("File too large"))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			renderHTML(w, r, views.ErrorInline("Invalid file upload"))
			return
		}
		defer file.Close()

		filename := validation.SanitizeFilename(header.Filename)
		if !domain.IsVideoFilename(filename) {
			w.WriteHeader(http.StatusBadRequest)
			renderHTML(w, r, views.ErrorInline("Unsupported file type"))
			return
		}

		tmpPath := filepath.Join(os.TempDir(), "videoqc-upload-"+uuid.NewString())
		tmpFile, err := os.Create(tmpPath)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			renderHTML(w, r, views.ErrorInline("Failed to process upload"))
			return
		}
		defer tmpFile.Close()
		defer os.Remove(tmpPath)

		if _, err := io.Copy(tmpFile, file); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			renderHTML(w, r, views.ErrorInline("Failed to save file"))
			return
		}

		// The extension check above is cosmetic; the content decides.
		mime, allowed, err := validation.SniffVideo(tmpFile)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			renderHTML(w, r, views.ErrorInline("Failed to process upload"))
			return
		}
		if !allowed {
			logger.Warn.Printf("upload rejected: filename=%s, detected=%s", logger.Sanitize(filename), mime)
			w.WriteHeader(http.StatusBadRequest)
			renderHTML(w, r, views.ErrorInline("Unsupported file type"))
			return
		}

		media, err := h.mediaSvc.Upload(r.Context(), filename, tmpFile)
		if err != nil {
			logger.Error.Printf("upload error for %s: %s", logger.Sanitize(filename), logger.Sanitize(err.Error()))
			w.WriteHeader(http.StatusUnprocessableEntity)
			renderHTML(w, r, views.ErrorInline("Inspection failed: "+err.Error()))
			return
		}

		http.Redirect(w, r, "/media/"+media.ID, http.StatusSeeOther)
	}
}

// MediaPage derives the property record from the stored probe output
// and renders it with the convert action.
func (h *Handlers) MediaPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		media, ok := h.fetchMedia(w, r)
		if !ok {
			return
		}

		props, err := h.mediaSvc.Properties(media)
		renderHTML(w, r, views.MediaPage(media, props, err, middleware.TokenFrom(r.Context())))
	}
}

// Convert queues the conversion with the submitted override knobs;
// empty fields fall back to the delivery defaults.
func (h *Handlers) Convert() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		media, ok := h.fetchMedia(w, r)
		if !ok {
			return
		}

		req := domain.ConversionRequest{
			VideoCodec: strings.TrimSpace(r.FormValue("video_codec")),
			Resolution: strings.TrimSpace(r.FormValue("resolution")),
			Bitrate:    strings.TrimSpace(r.FormValue("bitrate")),
			AudioCodec: strings.TrimSpace(r.FormValue("audio_codec")),
		}

		if _, err := h.mediaSvc.RequestConversion(media.ID, req); err != nil {
			logger.Error.Printf("conversion request failed for %s: %v", media.ID, err)
			http.Error(w, "Failed to queue conversion", http.StatusConflict)
			return
		}

		http.Redirect(w, r, "/media/"+media.ID, http.StatusSeeOther)
	}
}

// Reprobe re-runs the inspection on the stored file.
func (h *Handlers) Reprobe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		media, ok := h.fetchMedia(w, r)
		if !ok {
			return
		}
		if _, err := h.mediaSvc.Reprobe(r.Context(), media.ID); err != nil {
			logger.Error.Printf("reprobe failed for %s: %v", media.ID, err)
			w.WriteHeader(http.StatusUnprocessableEntity)
			renderHTML(w, r, views.ErrorInline("Inspection failed: "+err.Error()))
			return
		}
		http.Redirect(w, r, "/media/"+media.ID, http.StatusSeeOther)
	}
}

// Download serves the converted file under the fixed delivery name and
// MIME label.
func (h *Handlers) Download() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		media, ok := h.fetchMedia(w, r)
		if !ok {
			return
		}
		if media.Status != domain.MediaStatusDone || media.ConvertedPath == "" {
			http.Error(w, "Conversion not finished", http.StatusConflict)
			return
		}

		w.Header().Set("Content-Type", domain.DownloadMIME)
		w.Header().Set("Content-Disposition", `attachment; filename="`+domain.DownloadName+`"`)
		http.ServeFile(w, r, media.ConvertedPath)
	}
}

func (h *Handlers) DeleteMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		media, ok := h.fetchMedia(w, r)
		if !ok {
			return
		}
		if err := h.mediaSvc.Delete(media.ID); err != nil {
			http.Error(w, "Delete failed", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func (h *Handlers) fetchMedia(w http.ResponseWriter, r *http.Request) (*domain.Media, bool) {
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "Missing media ID", http.StatusBadRequest)
		return nil, false
	}
	media, err := h.mediaSvc.Get(id)
	if err != nil {
		http.Error(w, "Media not found", http.StatusNotFound)
		return nil, false
	}
	return media, true
}
