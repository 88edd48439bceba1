package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/BillMorio/LinkedIn-Carousel/internal/domain/carousel"
	"github.com/BillMorio/LinkedIn-Carousel/internal/projectio"
	carouselerrors "github.com/BillMorio/LinkedIn-Carousel/pkg/errors"
)

func (s *Server) routes(r chi.Router) {
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/project", func(r chi.Router) {
			r.Get("/", s.handleGetProject)
			r.Put("/name", s.handleSetName)
			r.Put("/theme", s.handleSetTheme)
			r.Patch("/settings", s.handlePatchSettings)
			r.Put("/active", s.handleSetActive)
		})

		r.Route("/slides", func(r chi.Router) {
			r.Post("/", s.handleAddSlide)
			r.Post("/reorder", s.handleReorder)
			r.Route("/{id}", func(r chi.Router) {
				r.Delete("/", s.handleRemoveSlide)
				r.Patch("/content", s.handlePatchContent)
				r.Put("/variant", s.handleSetVariant)
				r.Get("/preview.png", s.handlePreview)
			})
		})

		r.Post("/import", s.handleImport)
		r.Get("/export", s.handleExport)
		r.Get("/themes", s.handleThemes)
	})
}

type projectResponse struct {
	Project       *carousel.Project `json:"project"`
	ActiveSlideID string            `json:"activeSlideId"`
}

type resultResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetProject(w http.ResponseWriter, _ *http.Request) {
	s.writeProject(w, http.StatusOK)
}

func (s *Server) writeProject(w http.ResponseWriter, status int) {
	writeJSON(w, status, projectResponse{
		Project:       s.store.Project(),
		ActiveSlideID: s.store.ActiveSlideID(),
	})
}

func (s *Server) handleSetName(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	s.store.UpdateProjectName(body.Name)
	s.writeProject(w, http.StatusOK)
}

func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ThemeID string `json:"themeId"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	if _, ok := s.store.Registry().Lookup(body.ThemeID); !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown theme %q", body.ThemeID))
		return
	}
	s.store.SetTheme(body.ThemeID)
	s.writeProject(w, http.StatusOK)
}

func (s *Server) handlePatchSettings(w http.ResponseWriter, r *http.Request) {
	var patch carousel.SettingsPatch
	if !s.decode(w, r, &patch) {
		return
	}
	if err := s.store.UpdateGlobalSettings(patch); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	s.writeProject(w, http.StatusOK)
}

func (s *Server) handleSetActive(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SlideID string `json:"slideId"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	if !s.store.SetActiveSlide(body.SlideID) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("slide %q not found", body.SlideID))
		return
	}
	s.writeProject(w, http.StatusOK)
}

func (s *Server) handleAddSlide(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Type    string          `json:"type"`
		Content carousel.Fields `json:"content"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	t, err := carousel.ParseSlideType(body.Type)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	slide, err := s.store.AddSlide(t, body.Content)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, slide)
}

func (s *Server) handlePatchContent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var patch carousel.Fields
	if !s.decode(w, r, &patch) {
		return
	}
	if !s.store.UpdateSlideContent(id, patch) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("slide %q not found", id))
		return
	}
	s.writeSlide(w, id)
}

func (s *Server) handleSetVariant(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var body struct {
		VariantID string `json:"variantId"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	if _, ok := s.store.Slide(id); !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("slide %q not found", id))
		return
	}
	if !s.store.SetSlideVariant(id, body.VariantID) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("variant %q is not available for this slide", body.VariantID))
		return
	}
	s.writeSlide(w, id)
}

func (s *Server) writeSlide(w http.ResponseWriter, id string) {
	slide, ok := s.store.Slide(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("slide %q not found", id))
		return
	}
	writeJSON(w, http.StatusOK, slide)
}

func (s *Server) handleRemoveSlide(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.store.RemoveSlide(id) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("slide %q not found", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		From int `json:"from"`
		To   int `json:"to"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	if !s.store.ReorderSlides(body.From, body.To) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("cannot move slide %d to %d", body.From, body.To))
		return
	}
	s.writeProject(w, http.StatusOK)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.store.Slide(id); !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("slide %q not found", id))
		return
	}

	data, err := s.exporter.Slide(s.store, id)
	if err != nil {
		s.log.Error(err, "preview failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.metrics.slidesRendered.Inc()

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.metrics.importResult(false)
		writeError(w, http.StatusBadRequest, fmt.Sprintf("read body: %v", err))
		return
	}
	if err := s.store.ImportProject(data); err != nil {
		s.metrics.importResult(false)
		writeError(w, statusFor(err), err.Error())
		return
	}
	s.metrics.importResult(true)
	writeJSON(w, http.StatusOK, resultResponse{Success: true})
}

func (s *Server) handleExport(w http.ResponseWriter, _ *http.Request) {
	p := s.store.Project()
	data, err := s.store.ExportProject()
	if err != nil {
		s.log.Error(err, "export failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", projectio.FileName(p)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleThemes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Registry().List())
}

// decode reads a JSON body into dst, answering 400 itself on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		perr := carouselerrors.NewParseError("request body", 0, err)
		writeError(w, http.StatusBadRequest, perr.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, resultResponse{Success: false, Error: message})
}

// statusFor maps typed errors onto HTTP status codes.
func statusFor(err error) int {
	var (
		verr *carouselerrors.ValidationError
		ierr *carouselerrors.ImportError
		perr *carouselerrors.ParseError
	)
	switch {
	case errors.As(err, &verr), errors.As(err, &ierr), errors.As(err, &perr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
