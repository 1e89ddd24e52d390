package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/recode/internal/api/shared"
	"github.com/phrazzld/recode/internal/domain"
	"github.com/phrazzld/recode/internal/platform/logger"
	"github.com/phrazzld/recode/internal/service"
)

// DeckHandler handles deck requests and the card routes nested under a deck.
type DeckHandler struct {
	decks  service.DeckService
	cards  service.CardService
	logger *slog.Logger
}

// NewDeckHandler creates a new DeckHandler.
func NewDeckHandler(decks service.DeckService, cards service.CardService, logger *slog.Logger) *DeckHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeckHandler{
		decks:  decks,
		cards:  cards,
		logger: logger.With(slog.String("component", "deck_handler")),
	}
}

// List handles GET /api/decks.
func (h *DeckHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	decks, err := h.decks.ListDecks(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list decks")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, decks)
}

// Create handles POST /api/decks.
func (h *DeckHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req DeckRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	deck, err := h.decks.CreateDeck(r.Context(), userID, req.Name, req.Description)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create deck")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("deck created",
		slog.String("deck_id", deck.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, deck)
}

// Get handles GET /api/decks/{id}.
func (h *DeckHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	deck, err := h.decks.GetDeck(r.Context(), userID, deckID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get deck")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, deck)
}

// Update handles PUT /api/decks/{id}.
func (h *DeckHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateDeckRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	deck, err := h.decks.UpdateDeck(r.Context(), userID, deckID, domain.DeckPatch{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update deck")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, deck)
}

// Delete handles DELETE /api/decks/{id}. The deck's cards go with it.
func (h *DeckHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.decks.DeleteDeck(r.Context(), userID, deckID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete deck")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCards handles GET /api/decks/{id}/cards.
func (h *DeckHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	cards, err := h.cards.ListCards(r.Context(), userID, &deckID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list cards")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, cards)
}

// CreateCard handles POST /api/decks/{id}/cards.
func (h *DeckHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req CardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	card, err := h.cards.CreateCard(r.Context(), userID, deckID, domain.CardContent{
		Question: req.Question,
		Answer:   req.Answer,
		Type:     req.Type,
		Tags:     req.Tags,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create card")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, card)
}
