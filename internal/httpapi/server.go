package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"convertd/internal/pipeline"
	"convertd/pkg/types"
)

const welcomeMessage = "Welcome to the Fine-Tuning Orchestration API"

// Service defines the methods required by the HTTP API layer.
type Service interface {
	ListFinetuned() ([]string, error)
	ListGGUF() ([]types.GGUFModel, error)
	ListOllama(ctx context.Context) ([][]string, error)
	ConvertAndLoad(ctx context.Context, runID string, req types.ConvertAndLoadRequest) (pipeline.Result, error)
	Status() types.StatusResponse
	Ready(ctx context.Context) bool
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
			MaxAge:         300,
		}))
	}
	r.Use(middleware.Compress(5))
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	h := &handlers{svc: svc}
	r.Get("/", h.root)
	r.Get("/health", h.health)
	r.Get("/healthz", h.healthz)
	r.Get("/readyz", h.readyz)
	r.Get("/status", h.status)
	r.Route("/models", func(r chi.Router) {
		r.Get("/finetuned", h.finetuned)
		r.Get("/gguf", h.gguf)
		r.Get("/ollama", h.ollama)
		r.Post("/convert-and-load/{model_name}", h.convertAndLoad)
	})
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	MountSwagger(r)

	return r
}

type handlers struct {
	svc Service
}

// root godoc
// @Summary Welcome message
// @Tags meta
// @Produce json
// @Success 200 {object} types.MessageResponse
// @Router / [get]
func (h *handlers) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, types.MessageResponse{Message: welcomeMessage})
}

// health godoc
// @Summary Health check
// @Tags meta
// @Produce json
// @Success 200 {object} types.HealthResponse
// @Router /health [get]
func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, types.HealthResponse{Status: "ok"})
}

func (h *handlers) healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *handlers) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()
	if h.svc.Ready(ctx) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
		return
	}
	w.WriteHeader(http.StatusServiceUnavailable)
	_, _ = w.Write([]byte("unavailable"))
}

// status godoc
// @Summary Pipeline counters
// @Tags meta
// @Produce json
// @Success 200 {object} types.StatusResponse
// @Router /status [get]
func (h *handlers) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.Status())
}

// finetuned godoc
// @Summary List fine-tuned training runs
// @Description Training runs whose lora directory holds adapter_config.json, as "<model>::<run>".
// @Tags models
// @Produce json
// @Success 200 {object} types.FinetunedModelsResponse
// @Failure 500 {object} types.ErrorResponse
// @Router /models/finetuned [get]
func (h *handlers) finetuned(w http.ResponseWriter, r *http.Request) {
	models, err := h.svc.ListFinetuned()
	if err != nil {
		zlog.Error().Err(err).Msg("list finetuned models")
		writeJSONError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	writeJSON(w, types.FinetunedModelsResponse{Models: models})
}

// gguf godoc
// @Summary List converted GGUF files
// @Tags models
// @Produce json
// @Success 200 {object} types.GGUFModelsResponse
// @Failure 500 {object} types.ErrorResponse
// @Router /models/gguf [get]
func (h *handlers) gguf(w http.ResponseWriter, r *http.Request) {
	models, err := h.svc.ListGGUF()
	if err != nil {
		zlog.Error().Err(err).Msg("list gguf models")
		writeJSONError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	writeJSON(w, types.GGUFModelsResponse{Models: models})
}

// ollama godoc
// @Summary List models registered in the serving runtime
// @Description Rows of `ollama list` split on whitespace, header removed.
// @Tags models
// @Produce json
// @Success 200 {object} types.OllamaModelsResponse
// @Failure 500 {object} types.ErrorResponse
// @Router /models/ollama [get]
func (h *handlers) ollama(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()
	models, err := h.svc.ListOllama(ctx)
	if err != nil {
		zlog.Error().Err(err).Msg("list ollama models")
		writeJSONError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	if models == nil {
		models = [][]string{}
	}
	writeJSON(w, types.OllamaModelsResponse{Models: models})
}

// convertAndLoad godoc
// @Summary Merge, convert and load a fine-tuned model
// @Description Merges the LoRA adapter of the training run into its base model, converts the result to GGUF and registers it in the serving runtime.
// @Tags models
// @Accept json
// @Produce json
// @Param model_name path string true "Training run id, <model>::<run>"
// @Param request body types.ConvertAndLoadRequest true "Conversion parameters"
// @Success 200 {object} types.MessageResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Failure 415 {object} types.ErrorResponse
// @Failure 500 {object} types.ErrorResponse
// @Router /models/convert-and-load/{model_name} [post]
func (h *handlers) convertAndLoad(w http.ResponseWriter, r *http.Request) {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req types.ConvertAndLoadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeJSONError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	runID := chi.URLParam(r, "model_name")
	op := startOp("convert", r, map[string]any{"training_run_id": runID, "new_model_name": req.NewModelName})

	// The pipeline detaches from cancellation itself; the request context
	// only carries values here.
	if _, err := h.svc.ConvertAndLoad(r.Context(), runID, req); err != nil {
		status, msg := conversionStatus(err)
		op.end(status, err)
		writeJSONError(w, status, msg)
		return
	}
	op.end(http.StatusOK, nil)
	writeJSON(w, types.MessageResponse{Message: "Successfully converted and loaded model: " + runID})
}
