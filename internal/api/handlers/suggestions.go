package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-keeper/internal/api/middleware"
	"github.com/dvloznov/finance-keeper/internal/domain"
	"github.com/dvloznov/finance-keeper/internal/store"
	"github.com/dvloznov/finance-keeper/internal/suggest"
)

// SuggestionsHandler serves the AI suggestions endpoint.
type SuggestionsHandler struct {
	repo      store.RecordRepository
	generator suggest.Generator
	log       zerolog.Logger
}

// NewSuggestionsHandler creates a new suggestions handler.
func NewSuggestionsHandler(repo store.RecordRepository, generator suggest.Generator, log zerolog.Logger) *SuggestionsHandler {
	return &SuggestionsHandler{repo: repo, generator: generator, log: log}
}

// GetSuggestions handles POST /api/suggestions. The server builds the records
// digest itself; the client has nothing to say about what the model sees.
func (h *SuggestionsHandler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	transactions, err := h.repo.ListRecords(ctx, user.UID, domain.RecordTypeTransaction)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load transactions for suggestions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load records")
		return
	}
	debts, err := h.repo.ListRecords(ctx, user.UID, domain.RecordTypeDebt)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load debts for suggestions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load records")
		return
	}
	receivables, err := h.repo.ListRecords(ctx, user.UID, domain.RecordTypeReceivable)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load receivables for suggestions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load records")
		return
	}

	digest := suggest.Digest(transactions, debts, receivables)

	suggestions, err := h.generator.Suggest(ctx, digest)
	if errors.Is(err, suggest.ErrEmptyRecords) {
		middleware.WriteError(w, http.StatusBadRequest, "No records to analyze yet")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Suggestion generation failed")
		middleware.WriteError(w, http.StatusBadGateway, "Failed to generate suggestions")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"suggestions": suggestions,
	})
}
