package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"consentd/internal/consenttext"
	"consentd/internal/transport/http/shared"
	dErrors "consentd/pkg/domain-errors"
)

//go:generate mockgen -source=handler.go -destination=mocks/text_mocks.go -package=mocks Service

// Service defines the consent text operations the handler delegates to.
type Service interface {
	Create(ctx context.Context, version, language, title, body string) (*consenttext.ConsentText, error)
	Latest(ctx context.Context, language string) (*consenttext.ConsentText, error)
	ListAll(ctx context.Context) ([]*consenttext.ConsentText, error)
}

// Handler handles consent text endpoints.
type Handler struct {
	logger *slog.Logger
	texts  Service
}

func New(texts Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, texts: texts}
}

// Register registers the consent text routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/texts", func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Get("/latest", h.handleLatest)
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid create text request", "error", err.Error())
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	text, err := h.texts.Create(ctx, req.Version, req.Language, req.Title, req.Body)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create consent text", "error", err.Error())
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, toTextResponse(text))
}

func (h *Handler) handleLatest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	text, err := h.texts.Latest(ctx, r.URL.Query().Get("language"))
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "failed to load latest consent text", "error", err.Error())
		}
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, toTextResponse(text))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	texts, err := h.texts.ListAll(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list consent texts", "error", err.Error())
		shared.WriteError(w, err)
		return
	}

	responses := make([]textResponse, 0, len(texts))
	for _, text := range texts {
		responses = append(responses, toTextResponse(text))
	}
	shared.WriteJSON(w, http.StatusOK, listTextsResponse{Texts: responses})
}
