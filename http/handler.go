package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sagarc03/herostore"
)

type Service interface {
	List(ctx context.Context) ([]herostore.Hero, error)
	Get(ctx context.Context, id int) (herostore.Hero, error)
	Create(ctx context.Context, hero herostore.Hero, idOverride *int) (herostore.Hero, error)
	Update(ctx context.Context, hero herostore.Hero) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
	Load(ctx context.Context, heroes []herostore.Hero) (herostore.BulkResult, error)
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age" validate:"min=0"`
}

type HandlerConfig struct {
	StatusMode  StatusMode
	CORS        CORSConfig
	MaxBodySize int64 // 0 means no limit
}

// Handler serves the hero routes.
type Handler struct {
	config  HandlerConfig
	service Service
}

// NewHandler creates a new Handler with the given configuration and service.
func NewHandler(config *HandlerConfig, service Service) *Handler {
	cfg := *config
	if !cfg.StatusMode.IsValid() {
		cfg.StatusMode = StatusCompat
	}
	return &Handler{
		config:  cfg,
		service: service,
	}
}

// Router returns an http.Handler with all hero routes mounted.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(LegacyCORS)

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	r.Use(MaxBodySize(h.config.MaxBodySize))

	r.Get("/healthz", h.handleHealth)

	r.Route("/heroes", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Put("/", h.handleUpdate)
		r.Post("/", h.handleCreate)
		r.Options("/", h.handlePreflight)

		r.Post("/data", h.handleLoad)

		r.Get("/{id}", h.handleGet)
		r.Delete("/{id}", h.handleDelete)
		r.Options("/{id}", h.handlePreflight)
	})

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	WriteText(w, http.StatusOK, "ok")
}

func (h *Handler) handlePreflight(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	heroes, err := h.service.List(r.Context())
	if err != nil {
		h.fail(w, http.StatusTeapot, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, heroes)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, http.StatusTeapot, err)
		return
	}

	hero, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, http.StatusTeapot, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, hero)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	hero, err := herostore.ReadHero(r.Body)
	if err != nil {
		h.fail(w, http.StatusTeapot, invalidBody(err))
		return
	}

	updated, err := h.service.Update(r.Context(), hero)
	if err != nil {
		h.fail(w, http.StatusTeapot, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, UpdateResponse{Updated: updated, ID: hero.ID})
}

// handleCreate stores a new hero. In compat mode every failure is still
// answered with 200 and the error text as the body.
func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	hero, err := herostore.ReadHero(r.Body)
	if err != nil {
		h.fail(w, http.StatusOK, invalidBody(err))
		return
	}

	var idOverride *int
	if raw, ok := r.URL.Query()["id"]; ok && len(raw) > 0 {
		id, err := parseID(raw[0])
		if err != nil {
			h.fail(w, http.StatusOK, err)
			return
		}
		idOverride = &id
	}

	created, err := h.service.Create(r.Context(), hero, idOverride)
	if err != nil {
		h.fail(w, http.StatusOK, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, created)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, http.StatusTeapot, err)
		return
	}

	deleted, err := h.service.Delete(r.Context(), id)
	if err != nil {
		h.fail(w, http.StatusTeapot, err)
		return
	}

	if !deleted {
		_ = WriteJSON(w, http.StatusNotFound, DeleteResponse{Deleted: false, ID: id})
		return
	}

	_ = WriteJSON(w, http.StatusOK, DeleteResponse{Deleted: true, ID: id})
}

func (h *Handler) handleLoad(w http.ResponseWriter, r *http.Request) {
	heroes, err := herostore.ReadHeroes(r.Body)
	if err != nil {
		h.fail(w, http.StatusTeapot, invalidBody(err))
		return
	}

	result, err := h.service.Load(r.Context(), heroes)
	if err != nil {
		h.fail(w, http.StatusTeapot, err)
		return
	}

	slog.Info("bulk load complete", "created", len(result.Created), "failed", len(result.Failed))
	_ = WriteJSON(w, http.StatusOK, result)
}

// fail writes err as a plain-text body. compatStatus is used in compat
// mode, StatusFor(err) in strict mode.
func (h *Handler) fail(w http.ResponseWriter, compatStatus int, err error) {
	slog.Error("request error", "error", err)

	status := compatStatus
	if h.config.StatusMode == StatusStrict {
		status = StatusFor(err)
	}

	WriteText(w, status, err.Error())
}

func parseID(raw string) (int, error) {
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid hero id %q: %w", raw, herostore.ErrInvalidInput)
	}
	return int(id), nil
}

// invalidBody marks a request body that failed to decode as ErrInvalidInput.
func invalidBody(err error) error {
	return fmt.Errorf("decode request body: %w: %w", herostore.ErrInvalidInput, err)
}
