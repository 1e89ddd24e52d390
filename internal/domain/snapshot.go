package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// Snapshot is the export document of everything one user owns.
type Snapshot struct {
	Decks []*Deck `json:"decks"`
	Cards []*Card `json:"cards"`
	User  *User   `json:"user"`
}

// ImportDocument is a decoded import file. Ids inside it are references local
// to the document: decks and cards receive new ids when they are imported.
type ImportDocument struct {
	Decks []ImportDeck
	Cards []ImportCard
	User  ImportUser
}

// ImportDeck is a deck entry of an import document.
type ImportDeck struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ImportCard is a card entry of an import document.
type ImportCard struct {
	ID        string    `json:"id"`
	DeckID    string    `json:"deckId"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Type      string    `json:"type"`
	Tags      []string  `json:"tags"`
	Stats     *Schedule `json:"stats"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ImportUser is the user section of an import document. Only the
// configuration fields are read; ids and credentials are ignored.
type ImportUser struct {
	Name  *string    `json:"name"`
	Email *string    `json:"email"`
	Stats *UserStats `json:"stats"`
}

// DecodeImportDocument reads an import document. The decks, cards and user
// sections must all be present and non-null.
func DecodeImportDocument(r io.Reader) (*ImportDocument, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read import document: %w", err)
	}

	var sections map[string]json.RawMessage
	if err := json.Unmarshal(data, &sections); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	for _, key := range []string{"decks", "cards", "user"} {
		raw, ok := sections[key]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return nil, fmt.Errorf("%w: missing %q section", ErrInvalidSnapshot, key)
		}
	}

	doc := &ImportDocument{}
	if err := json.Unmarshal(sections["decks"], &doc.Decks); err != nil {
		return nil, fmt.Errorf("%w: decks: %v", ErrInvalidSnapshot, err)
	}
	if err := json.Unmarshal(sections["cards"], &doc.Cards); err != nil {
		return nil, fmt.Errorf("%w: cards: %v", ErrInvalidSnapshot, err)
	}
	if err := json.Unmarshal(sections["user"], &doc.User); err != nil {
		return nil, fmt.Errorf("%w: user: %v", ErrInvalidSnapshot, err)
	}
	return doc, nil
}

// ImportPlan is an import document resolved for one owner.
type ImportPlan struct {
	Decks []*Deck
	Cards []*Card
	User  UserPatch
}

// Plan re-keys the document for ownerID and validates every entity. A card
// whose deck reference does not match a deck in the document rejects the
// whole document.
func (d *ImportDocument) Plan(ownerID uuid.UUID, now time.Time) (*ImportPlan, error) {
	now = now.UTC()
	plan := &ImportPlan{
		Decks: make([]*Deck, 0, len(d.Decks)),
		Cards: make([]*Card, 0, len(d.Cards)),
		User:  UserPatch{Name: d.User.Name, Email: d.User.Email, Stats: d.User.Stats},
	}

	deckIDs := make(map[string]uuid.UUID, len(d.Decks))
	for i, in := range d.Decks {
		if _, dup := deckIDs[in.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate deck id %q", ErrInvalidSnapshot, in.ID)
		}
		deck := &Deck{
			ID:          uuid.New(),
			OwnerID:     ownerID,
			Name:        in.Name,
			Description: in.Description,
			CreatedAt:   orNow(in.CreatedAt, now),
			UpdatedAt:   orNow(in.UpdatedAt, now),
		}
		if err := deck.Validate(); err != nil {
			return nil, fmt.Errorf("%w: deck %d: %v", ErrInvalidSnapshot, i, err)
		}
		deckIDs[in.ID] = deck.ID
		plan.Decks = append(plan.Decks, deck)
	}

	for i, in := range d.Cards {
		deckID, ok := deckIDs[in.DeckID]
		if !ok {
			return nil, fmt.Errorf("%w: card %d references unknown deck %q", ErrInvalidSnapshot, i, in.DeckID)
		}
		card := &Card{
			ID:        uuid.New(),
			DeckID:    deckID,
			OwnerID:   ownerID,
			Question:  in.Question,
			Answer:    in.Answer,
			Type:      in.Type,
			Tags:      NormalizeTags(in.Tags),
			Stats:     NewSchedule(now),
			CreatedAt: orNow(in.CreatedAt, now),
			UpdatedAt: orNow(in.UpdatedAt, now),
		}
		if card.Type == "" {
			card.Type = DefaultCardType
		}
		if in.Stats != nil {
			card.Stats = normalizeSchedule(*in.Stats)
		}
		if err := card.Validate(); err != nil {
			return nil, fmt.Errorf("%w: card %d: %v", ErrInvalidSnapshot, i, err)
		}
		plan.Cards = append(plan.Cards, card)
	}

	if plan.User.Stats != nil {
		if err := plan.User.Stats.Validate(); err != nil {
			return nil, fmt.Errorf("%w: user: %v", ErrInvalidSnapshot, err)
		}
	}
	return plan, nil
}

func normalizeSchedule(s Schedule) Schedule {
	s.DueDate = s.DueDate.UTC()
	if s.LastReview != nil {
		t := s.LastReview.UTC()
		s.LastReview = &t
	}
	return s
}

func orNow(t, now time.Time) time.Time {
	if t.IsZero() {
		return now
	}
	return t.UTC()
}
