package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/recode/internal/api/shared"
	"github.com/phrazzld/recode/internal/domain"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

// newRequest builds a request authenticated as userID (unless it is
// uuid.Nil) with the given chi path parameters.
func newRequest(t *testing.T, method, target string, body any, userID uuid.UUID, params map[string]string) *http.Request {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	ctx := req.Context()
	if userID != uuid.Nil {
		ctx = shared.WithUserID(ctx, userID)
	}
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

func idParam(id uuid.UUID) map[string]string {
	return map[string]string{"id": id.String()}
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[shared.ErrorResponse](t, w).Error
}

func testUser() *domain.User {
	return &domain.User{
		ID:             uuid.New(),
		Email:          "ada@example.com",
		Name:           "ada",
		HashedPassword: "$2a$10$abcdefghijklmnopqrstuv",
		CreatedAt:      testTime,
		UpdatedAt:      testTime,
	}
}

func testDeck(ownerID uuid.UUID) *domain.Deck {
	return &domain.Deck{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      "Go",
		CreatedAt: testTime,
		UpdatedAt: testTime,
	}
}

func testCard(ownerID, deckID uuid.UUID) *domain.Card {
	return &domain.Card{
		ID:        uuid.New(),
		DeckID:    deckID,
		OwnerID:   ownerID,
		Question:  "What does defer do?",
		Answer:    "Runs at function return",
		Type:      domain.DefaultCardType,
		Tags:      []string{},
		Stats:     domain.NewSchedule(testTime),
		CreatedAt: testTime,
		UpdatedAt: testTime,
	}
}
