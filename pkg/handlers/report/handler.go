package report

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/de-tools/indicator-atlas/pkg/adapters"
	"github.com/de-tools/indicator-atlas/pkg/models/api"
	"github.com/de-tools/indicator-atlas/pkg/models/domain"
	"github.com/de-tools/indicator-atlas/pkg/services/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Pipeline is the part of pipeline.Runner the handlers use.
type Pipeline interface {
	Aggregate(ctx context.Context) (*domain.AggregateReport, error)
	Prompt(ctx context.Context, version string) (string, *domain.AggregateReport, error)
	Generate(ctx context.Context) (*pipeline.Result, error)
}

type Handler struct {
	pipeline Pipeline
}

func NewHandler(p Pipeline) *Handler {
	return &Handler{pipeline: p}
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	report, err := h.pipeline.Aggregate(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(adapters.MapAggregateReportDomainToApi(report))
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to encode summary")
	}
}

func (h *Handler) GetPrompt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	version := chi.URLParam(r, "version")

	text, _, err := h.pipeline.Prompt(ctx, version)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte(text)); err != nil {
		logger.Error().
			Err(err).
			Str("version", version).
			Msg("failed to write prompt")
	}
}

// CreateReport runs the whole pipeline and returns the HTML document. Nothing
// is written to disk.
func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	result, err := h.pipeline.Generate(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Run-Id", result.RunID)
	w.Header().Set("X-Model-Used", result.Document.ModelUsed)
	w.WriteHeader(http.StatusCreated)
	if _, err := w.Write([]byte(result.Document.HTML)); err != nil {
		logger.Error().
			Err(err).
			Str("run_id", result.RunID).
			Msg("failed to write report")
	}
}

func Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// StatusFor maps pipeline failures onto HTTP status codes.
func StatusFor(err error) int {
	switch pipeline.StageOf(err) {
	case pipeline.StageFetch:
		return http.StatusBadGateway
	case pipeline.StageAggregate:
		return http.StatusNotFound
	case pipeline.StagePrompt:
		return http.StatusBadRequest
	case pipeline.StageGenerate:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	stage := pipeline.StageOf(err)

	event := zerolog.Ctx(r.Context()).Warn()
	if stage == pipeline.StageUnknown {
		event = zerolog.Ctx(r.Context()).Error()
	}
	event.Err(err).
		Int("status", status).
		Str("stage", string(stage)).
		Msg("request failed")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(api.Error{Error: err.Error(), Kind: string(stage)})
}
