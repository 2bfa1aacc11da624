package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"arbiter/internal/ledger"
	dErrors "arbiter/pkg/domain-errors"
	"arbiter/pkg/platform/httputil"
	"arbiter/pkg/platform/sentinel"
	"arbiter/pkg/requestcontext"
)

// Service defines the ledger operations the HTTP layer needs.
type Service interface {
	Get(ctx context.Context, entryID string) (ledger.Entry, error)
	ListByCase(ctx context.Context, caseID string) ([]ledger.Entry, error)
	Verify(ctx context.Context, entryID string) (bool, error)
	VerifyAll(ctx context.Context) (ledger.Report, error)
}

// Handler exposes read and verification endpoints over the audit ledger. All
// routes require an authenticated subject; the ledger is an audit surface, not
// a public one.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a ledger handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts ledger endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/audit/entries/{entryID}", h.HandleGetEntry)
	r.Get("/audit/cases/{caseID}", h.HandleListCase)
	r.Post("/audit/entries/{entryID}/verify", h.HandleVerify)
	r.Post("/audit/verify-all", h.HandleVerifyAll)
}

// HandleGetEntry handles GET /audit/entries/{entryID}.
func (h *Handler) HandleGetEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entryID := chi.URLParam(r, "entryID")

	entry, err := h.service.Get(ctx, entryID)
	if err != nil {
		httputil.WriteError(w, translateStoreErr(err))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromEntry(entry))
}

// HandleListCase handles GET /audit/cases/{caseID}.
func (h *Handler) HandleListCase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caseID := chi.URLParam(r, "caseID")

	entries, err := h.service.ListByCase(ctx, caseID)
	if err != nil {
		h.logger.ErrorContext(ctx, "ledger case listing failed",
			"request_id", requestcontext.RequestID(ctx),
			"case_id", caseID,
			"error", err,
		)
		httputil.WriteError(w, translateStoreErr(err))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromEntries(entries))
}

// HandleVerify handles POST /audit/entries/{entryID}/verify.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entryID := chi.URLParam(r, "entryID")

	ok, err := h.service.Verify(ctx, entryID)
	if err != nil {
		httputil.WriteError(w, translateStoreErr(err))
		return
	}
	if !ok {
		h.logger.WarnContext(ctx, "ledger entry failed verification",
			"request_id", requestcontext.RequestID(ctx),
			"entry_id", entryID,
			"subject", requestcontext.Subject(ctx),
		)
	}
	httputil.WriteJSON(w, http.StatusOK, VerifyResponse{EntryID: entryID, Valid: ok})
}

// HandleVerifyAll handles POST /audit/verify-all. Sweeping the whole ledger is
// expensive; it exists for incident response, not routine traffic.
func (h *Handler) HandleVerifyAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	report, err := h.service.VerifyAll(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "ledger sweep failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "ledger sweep completed",
		"request_id", requestcontext.RequestID(ctx),
		"total", report.Total,
		"tampered", report.Tampered,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, report)
}

func translateStoreErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "ledger entry not found")
	}
	return err
}
