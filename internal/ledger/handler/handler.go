package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"consentd/internal/ledger"
	"consentd/internal/ledger/export"
	"consentd/internal/transport/http/shared"
	dErrors "consentd/pkg/domain-errors"
)

//go:generate mockgen -source=handler.go -destination=mocks/ledger_mocks.go -package=mocks Service

// Service defines the consent ledger operations the handler delegates to.
type Service interface {
	Save(ctx context.Context, req ledger.SaveRequest) (uuid.UUID, error)
	List(ctx context.Context, emailFilter string) ([]*ledger.ConsentRecord, error)
	Revoke(ctx context.Context, id string, note string) error
}

// Handler handles consent ledger endpoints. It performs no gating logic:
// acknowledgement checkboxes, age eligibility, and "at least one purpose"
// are the presentation layer's responsibility.
type Handler struct {
	logger *slog.Logger
	ledger Service
}

func New(ledger Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, ledger: ledger}
}

// Register registers the consent routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/consents", func(r chi.Router) {
		r.Post("/", h.handleSave)
		r.Get("/", h.handleList)
		r.Get("/export", h.handleExport)
		r.Post("/{id}/revoke", h.handleRevoke)
	})
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req saveConsentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid save consent request", "error", err.Error())
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	id, err := h.ledger.Save(ctx, ledger.SaveRequest{
		SubjectEmail: req.SubjectEmail,
		SubjectName:  req.SubjectName,
		Purposes:     req.Purposes,
		Text: ledger.TextSnapshot{
			ID:      req.Text.ID,
			Version: req.Text.Version,
			Hash:    req.Text.Hash,
		},
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to save consent", "error", err.Error())
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, saveConsentResponse{ID: id.String()})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	records, err := h.ledger.List(ctx, r.URL.Query().Get("email"))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list consents", "error", err.Error())
		shared.WriteError(w, err)
		return
	}

	responses := make([]consentResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, toConsentResponse(record))
	}
	shared.WriteJSON(w, http.StatusOK, listConsentsResponse{Consents: responses})
}

func (h *Handler) handleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var req revokeConsentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.WarnContext(ctx, "invalid revoke consent request", "error", err.Error())
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if err := h.ledger.Revoke(ctx, id, req.Note); err != nil {
		h.logger.ErrorContext(ctx, "failed to revoke consent", "error", err.Error())
		shared.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	records, err := h.ledger.List(ctx, r.URL.Query().Get("email"))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to export consents", "error", err.Error())
		shared.WriteError(w, err)
		return
	}

	data, err := export.CSV(records)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to render consent export", "error", err.Error())
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to render export"))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
