package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/recode/internal/api/shared"
	"github.com/phrazzld/recode/internal/domain"
	"github.com/phrazzld/recode/internal/platform/logger"
	"github.com/phrazzld/recode/internal/service"
)

// CardHandler handles card-related HTTP requests, including reviews.
type CardHandler struct {
	cards   service.CardService
	reviews service.ReviewService
	logger  *slog.Logger
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(cards service.CardService, reviews service.ReviewService, logger *slog.Logger) *CardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CardHandler{
		cards:   cards,
		reviews: reviews,
		logger:  logger.With(slog.String("component", "card_handler")),
	}
}

// List handles GET /api/cards, optionally filtered by ?deck_id=.
func (h *CardHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var deckID *uuid.UUID
	if raw := r.URL.Query().Get("deck_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			HandleAPIError(w, r, domain.NewValidationError("deck_id", "has invalid format"), "")
			return
		}
		deckID = &id
	}

	cards, err := h.cards.ListCards(r.Context(), userID, deckID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list cards")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, cards)
}

// Due handles GET /api/cards/due.
func (h *CardHandler) Due(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	cards, err := h.cards.GetDueCards(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get due cards")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, cards)
}

// Update handles PUT /api/cards/{id}. The schedule is never changed here.
func (h *CardHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateCardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	card, err := h.cards.UpdateCard(r.Context(), userID, cardID, domain.CardPatch{
		Question: req.Question,
		Answer:   req.Answer,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update card")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// Delete handles DELETE /api/cards/{id}.
func (h *CardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.cards.DeleteCard(r.Context(), userID, cardID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete card")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Review handles POST /api/cards/{id}/review. It grades the card and records
// the practice session.
func (h *CardHandler) Review(w http.ResponseWriter, r *http.Request) {
	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req ReviewRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.reviews.SubmitReview(r.Context(), userID, cardID, *req.Quality)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to submit review")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("review submitted",
		slog.String("card_id", cardID.String()),
		slog.Int("quality", *req.Quality),
		slog.Int("interval", result.Card.Stats.Interval),
		slog.Bool("mastered", result.Mastered))
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}
