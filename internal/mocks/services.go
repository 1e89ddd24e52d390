package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/recode/internal/domain"
	"github.com/phrazzld/recode/internal/service"
)

// MockUserService implements service.UserService for testing
type MockUserService struct {
	RegisterFn         func(ctx context.Context, name, email, password string) (*domain.User, error)
	AuthenticateFn     func(ctx context.Context, email, password string) (*domain.User, error)
	GetUserFn          func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	UpdateUserStatsFn  func(ctx context.Context, userID uuid.UUID, patch domain.StatsPatch) (*domain.User, error)
	UpdateUserConfigFn func(ctx context.Context, userID uuid.UUID, patch domain.UserPatch) (*domain.User, error)

	// Default return values
	User         *domain.User
	DefaultError error
}

var _ service.UserService = (*MockUserService)(nil)

// Register implements service.UserService
func (m *MockUserService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, name, email, password)
	}
	return m.User, m.DefaultError
}

// Authenticate implements service.UserService
func (m *MockUserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	if m.AuthenticateFn != nil {
		return m.AuthenticateFn(ctx, email, password)
	}
	return m.User, m.DefaultError
}

// GetUser implements service.UserService
func (m *MockUserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if m.GetUserFn != nil {
		return m.GetUserFn(ctx, userID)
	}
	return m.User, m.DefaultError
}

// UpdateUserStats implements service.UserService
func (m *MockUserService) UpdateUserStats(
	ctx context.Context,
	userID uuid.UUID,
	patch domain.StatsPatch,
) (*domain.User, error) {
	if m.UpdateUserStatsFn != nil {
		return m.UpdateUserStatsFn(ctx, userID, patch)
	}
	return m.User, m.DefaultError
}

// UpdateUserConfig implements service.UserService
func (m *MockUserService) UpdateUserConfig(
	ctx context.Context,
	userID uuid.UUID,
	patch domain.UserPatch,
) (*domain.User, error) {
	if m.UpdateUserConfigFn != nil {
		return m.UpdateUserConfigFn(ctx, userID, patch)
	}
	return m.User, m.DefaultError
}

// MockDeckService implements service.DeckService for testing
type MockDeckService struct {
	CreateDeckFn func(ctx context.Context, ownerID uuid.UUID, name, description string) (*domain.Deck, error)
	ListDecksFn  func(ctx context.Context, ownerID uuid.UUID) ([]*domain.Deck, error)
	GetDeckFn    func(ctx context.Context, ownerID, deckID uuid.UUID) (*domain.Deck, error)
	UpdateDeckFn func(ctx context.Context, ownerID, deckID uuid.UUID, patch domain.DeckPatch) (*domain.Deck, error)
	DeleteDeckFn func(ctx context.Context, ownerID, deckID uuid.UUID) error

	// Default return values
	Deck         *domain.Deck
	Decks        []*domain.Deck
	DefaultError error
}

var _ service.DeckService = (*MockDeckService)(nil)

// CreateDeck implements service.DeckService
func (m *MockDeckService) CreateDeck(
	ctx context.Context,
	ownerID uuid.UUID,
	name, description string,
) (*domain.Deck, error) {
	if m.CreateDeckFn != nil {
		return m.CreateDeckFn(ctx, ownerID, name, description)
	}
	return m.Deck, m.DefaultError
}

// ListDecks implements service.DeckService
func (m *MockDeckService) ListDecks(ctx context.Context, ownerID uuid.UUID) ([]*domain.Deck, error) {
	if m.ListDecksFn != nil {
		return m.ListDecksFn(ctx, ownerID)
	}
	return m.Decks, m.DefaultError
}

// GetDeck implements service.DeckService
func (m *MockDeckService) GetDeck(ctx context.Context, ownerID, deckID uuid.UUID) (*domain.Deck, error) {
	if m.GetDeckFn != nil {
		return m.GetDeckFn(ctx, ownerID, deckID)
	}
	return m.Deck, m.DefaultError
}

// UpdateDeck implements service.DeckService
func (m *MockDeckService) UpdateDeck(
	ctx context.Context,
	ownerID, deckID uuid.UUID,
	patch domain.DeckPatch,
) (*domain.Deck, error) {
	if m.UpdateDeckFn != nil {
		return m.UpdateDeckFn(ctx, ownerID, deckID, patch)
	}
	return m.Deck, m.DefaultError
}

// DeleteDeck implements service.DeckService
func (m *MockDeckService) DeleteDeck(ctx context.Context, ownerID, deckID uuid.UUID) error {
	if m.DeleteDeckFn != nil {
		return m.DeleteDeckFn(ctx, ownerID, deckID)
	}
	return m.DefaultError
}

// MockCardService implements service.CardService for testing
type MockCardService struct {
	CreateCardFn  func(ctx context.Context, ownerID, deckID uuid.UUID, content domain.CardContent) (*domain.Card, error)
	ListCardsFn   func(ctx context.Context, ownerID uuid.UUID, deckID *uuid.UUID) ([]*domain.Card, error)
	GetCardFn     func(ctx context.Context, ownerID, cardID uuid.UUID) (*domain.Card, error)
	GetDueCardsFn func(ctx context.Context, ownerID uuid.UUID) ([]*domain.Card, error)
	UpdateCardFn  func(ctx context.Context, ownerID, cardID uuid.UUID, patch domain.CardPatch) (*domain.Card, error)
	DeleteCardFn  func(ctx context.Context, ownerID, cardID uuid.UUID) error

	// Default return values
	Card         *domain.Card
	Cards        []*domain.Card
	DefaultError error
}

var _ service.CardService = (*MockCardService)(nil)

// CreateCard implements service.CardService
func (m *MockCardService) CreateCard(
	ctx context.Context,
	ownerID, deckID uuid.UUID,
	content domain.CardContent,
) (*domain.Card, error) {
	if m.CreateCardFn != nil {
		return m.CreateCardFn(ctx, ownerID, deckID, content)
	}
	return m.Card, m.DefaultError
}

// ListCards implements service.CardService
func (m *MockCardService) ListCards(ctx context.Context, ownerID uuid.UUID, deckID *uuid.UUID) ([]*domain.Card, error) {
	if m.ListCardsFn != nil {
		return m.ListCardsFn(ctx, ownerID, deckID)
	}
	return m.Cards, m.DefaultError
}

// GetCard implements service.CardService
func (m *MockCardService) GetCard(ctx context.Context, ownerID, cardID uuid.UUID) (*domain.Card, error) {
	if m.GetCardFn != nil {
		return m.GetCardFn(ctx, ownerID, cardID)
	}
	return m.Card, m.DefaultError
}

// GetDueCards implements service.CardService
func (m *MockCardService) GetDueCards(ctx context.Context, ownerID uuid.UUID) ([]*domain.Card, error) {
	if m.GetDueCardsFn != nil {
		return m.GetDueCardsFn(ctx, ownerID)
	}
	return m.Cards, m.DefaultError
}

// UpdateCard implements service.CardService
func (m *MockCardService) UpdateCard(
	ctx context.Context,
	ownerID, cardID uuid.UUID,
	patch domain.CardPatch,
) (*domain.Card, error) {
	if m.UpdateCardFn != nil {
		return m.UpdateCardFn(ctx, ownerID, cardID, patch)
	}
	return m.Card, m.DefaultError
}

// DeleteCard implements service.CardService
func (m *MockCardService) DeleteCard(ctx context.Context, ownerID, cardID uuid.UUID) error {
	if m.DeleteCardFn != nil {
		return m.DeleteCardFn(ctx, ownerID, cardID)
	}
	return m.DefaultError
}

// MockReviewService implements service.ReviewService for testing
type MockReviewService struct {
	ApplyReviewFn    func(ctx context.Context, ownerID, cardID uuid.UUID, quality int) (*service.ReviewResult, error)
	RecordPracticeFn func(ctx context.Context, ownerID uuid.UUID) (domain.UserStats, error)
	SubmitReviewFn   func(ctx context.Context, ownerID, cardID uuid.UUID, quality int) (*service.ReviewResult, error)

	// Default return values
	Result       *service.ReviewResult
	Stats        domain.UserStats
	DefaultError error
}

var _ service.ReviewService = (*MockReviewService)(nil)

// ApplyReview implements service.ReviewService
func (m *MockReviewService) ApplyReview(
	ctx context.Context,
	ownerID, cardID uuid.UUID,
	quality int,
) (*service.ReviewResult, error) {
	if m.ApplyReviewFn != nil {
		return m.ApplyReviewFn(ctx, ownerID, cardID, quality)
	}
	return m.Result, m.DefaultError
}

// RecordPractice implements service.ReviewService
func (m *MockReviewService) RecordPractice(ctx context.Context, ownerID uuid.UUID) (domain.UserStats, error) {
	if m.RecordPracticeFn != nil {
		return m.RecordPracticeFn(ctx, ownerID)
	}
	return m.Stats, m.DefaultError
}

// SubmitReview implements service.ReviewService
func (m *MockReviewService) SubmitReview(
	ctx context.Context,
	ownerID, cardID uuid.UUID,
	quality int,
) (*service.ReviewResult, error) {
	if m.SubmitReviewFn != nil {
		return m.SubmitReviewFn(ctx, ownerID, cardID, quality)
	}
	return m.Result, m.DefaultError
}

// MockStatsService implements service.StatsService for testing
type MockStatsService struct {
	DashboardFn    func(ctx context.Context, ownerID uuid.UUID) (*service.Dashboard, error)
	ActivityFn     func(ctx context.Context, ownerID uuid.UUID) ([]domain.ActivityDay, error)
	ReconcileFn    func(ctx context.Context, ownerID uuid.UUID, repair bool) (*service.DriftReport, error)
	ReconcileAllFn func(ctx context.Context, repair bool) ([]service.DriftReport, error)

	// Default return values
	DashboardResult *service.Dashboard
	Days            []domain.ActivityDay
	Report          *service.DriftReport
	DefaultError    error
}

var _ service.StatsService = (*MockStatsService)(nil)

// Dashboard implements service.StatsService
func (m *MockStatsService) Dashboard(ctx context.Context, ownerID uuid.UUID) (*service.Dashboard, error) {
	if m.DashboardFn != nil {
		return m.DashboardFn(ctx, ownerID)
	}
	return m.DashboardResult, m.DefaultError
}

// Activity implements service.StatsService
func (m *MockStatsService) Activity(ctx context.Context, ownerID uuid.UUID) ([]domain.ActivityDay, error) {
	if m.ActivityFn != nil {
		return m.ActivityFn(ctx, ownerID)
	}
	return m.Days, m.DefaultError
}

// Reconcile implements service.StatsService
func (m *MockStatsService) Reconcile(ctx context.Context, ownerID uuid.UUID, repair bool) (*service.DriftReport, error) {
	if m.ReconcileFn != nil {
		return m.ReconcileFn(ctx, ownerID, repair)
	}
	return m.Report, m.DefaultError
}

// ReconcileAll implements service.StatsService
func (m *MockStatsService) ReconcileAll(ctx context.Context, repair bool) ([]service.DriftReport, error) {
	if m.ReconcileAllFn != nil {
		return m.ReconcileAllFn(ctx, repair)
	}
	return nil, m.DefaultError
}

// MockTransferService implements service.TransferService for testing
type MockTransferService struct {
	ExportFn func(ctx context.Context, ownerID uuid.UUID) (*domain.Snapshot, error)
	ImportFn func(ctx context.Context, ownerID uuid.UUID, doc *domain.ImportDocument) (*service.ImportResult, error)

	// Default return values
	Snapshot     *domain.Snapshot
	Result       *service.ImportResult
	DefaultError error
}

var _ service.TransferService = (*MockTransferService)(nil)

// Export implements service.TransferService
func (m *MockTransferService) Export(ctx context.Context, ownerID uuid.UUID) (*domain.Snapshot, error) {
	if m.ExportFn != nil {
		return m.ExportFn(ctx, ownerID)
	}
	return m.Snapshot, m.DefaultError
}

// Import implements service.TransferService
func (m *MockTransferService) Import(
	ctx context.Context,
	ownerID uuid.UUID,
	doc *domain.ImportDocument,
) (*service.ImportResult, error) {
	if m.ImportFn != nil {
		return m.ImportFn(ctx, ownerID, doc)
	}
	return m.Result, m.DefaultError
}
