package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"arbiter/internal/adjudicate"
	"arbiter/internal/domain"
	"arbiter/internal/ledger"
	"arbiter/pkg/platform/httputil"
	"arbiter/pkg/requestcontext"
)

// Service defines the orchestrator operations the HTTP layer needs.
type Service interface {
	Adjudicate(ctx context.Context, c domain.Case) (*adjudicate.Result, error)
	Escalate(ctx context.Context, req adjudicate.EscalateRequest) (ledger.Entry, error)
}

// Handler wires adjudication endpoints to the orchestrator.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an adjudication handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the adjudication endpoint on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/adjudicate", h.HandleAdjudicate)
}

// RegisterEscalation mounts the escalation endpoint. It belongs behind
// authentication so the ledger records which subject escalated.
func (h *Handler) RegisterEscalation(r chi.Router) {
	r.Post("/escalate", h.HandleEscalate)
}

// HandleAdjudicate handles POST /adjudicate.
func (h *Handler) HandleAdjudicate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.Decode[AdjudicateRequest](w, r, h.logger)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.Adjudicate(ctx, req.ToCase())
	if err != nil {
		h.logger.ErrorContext(ctx, "adjudication failed",
			"request_id", requestID,
			"case_id", req.CaseID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "adjudication served",
		"request_id", requestID,
		"case_id", result.Decision.CaseID,
		"verdict", result.Decision.OverallVerdict,
		"from_cache", result.FromCache,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromResult(result))
}

// HandleEscalate handles POST /escalate.
func (h *Handler) HandleEscalate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.Decode[EscalateRequest](w, r, h.logger)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	entry, err := h.service.Escalate(ctx, req.ToDomain(requestcontext.Subject(ctx)))
	if err != nil {
		h.logger.ErrorContext(ctx, "escalation failed",
			"request_id", requestcontext.RequestID(ctx),
			"case_id", req.CaseID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, FromEscalation(entry))
}
