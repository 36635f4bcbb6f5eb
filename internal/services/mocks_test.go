package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/hancards/server/internal/models"
)

// Ручные моки репозиториев и зависимостей сервисов на базе testify/mock.

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1) //nolint:errcheck // Acceptable for mocks
}

func (m *MockUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1) //nolint:errcheck // Acceptable for mocks
}

// MockFolderRepository is a mock implementation of repository.FolderRepository.
type MockFolderRepository struct {
	mock.Mock
}

func (m *MockFolderRepository) CreateFolder(ctx context.Context, folder *models.Folder) (int64, error) {
	args := m.Called(ctx, folder)
	return args.Get(0).(int64), args.Error(1) //nolint:errcheck // Acceptable for mocks
}

func (m *MockFolderRepository) GetFolderByID(ctx context.Context, folderID int64) (*models.Folder, error) {
	args := m.Called(ctx, folderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Folder), args.Error(1) //nolint:errcheck // Acceptable for mocks
}

func (m *MockFolderRepository) ListFoldersByUserID(ctx context.Context, userID int64) ([]models.Folder, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Folder), args.Error(1) //nolint:errcheck // Acceptable for mocks
}

func (m *MockFolderRepository) DeleteFolder(ctx context.Context, folderID int64) error {
	args := m.Called(ctx, folderID)
	return args.Error(0)
}

// MockCardRepository is a mock implementation of repository.CardRepository.
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) CreateCard(ctx context.Context, card *models.Card) (int64, error) {
	args := m.Called(ctx, card)
	return args.Get(0).(int64), args.Error(1) //nolint:errcheck // Acceptable for mocks
}

func (m *MockCardRepository) GetCardByID(ctx context.Context, cardID int64) (*models.Card, error) {
	args := m.Called(ctx, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1) //nolint:errcheck // Acceptable for mocks
}

func (m *MockCardRepository) ListCardsByFolder(ctx context.Context, folderID int64) ([]models.Card, error) {
	args := m.Called(ctx, folderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Card), args.Error(1) //nolint:errcheck // Acceptable for mocks
}

func (m *MockCardRepository) UpdateCard(ctx context.Context, cardID int64, patch models.UpdateCardRequest) error {
	args := m.Called(ctx, cardID, patch)
	return args.Error(0)
}

func (m *MockCardRepository) DeleteCard(ctx context.Context, cardID int64) error {
	args := m.Called(ctx, cardID)
	return args.Error(0)
}

func (m *MockCardRepository) MoveCard(ctx context.Context, cardID, folderID int64) error {
	args := m.Called(ctx, cardID, folderID)
	return args.Error(0)
}

func (m *MockCardRepository) SearchCards(ctx context.Context, userID int64, query string, folderID *int64) ([]models.Card, error) {
	args := m.Called(ctx, userID, query, folderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Card), args.Error(1) //nolint:errcheck // Acceptable for mocks
}

func (m *MockCardRepository) HasUserWord(ctx context.Context, userID int64, originalWord string) (bool, error) {
	args := m.Called(ctx, userID, originalWord)
	return args.Bool(0), args.Error(1)
}

func (m *MockCardRepository) ListCardTimesSince(ctx context.Context, userID int64, since time.Time) ([]time.Time, error) {
	args := m.Called(ctx, userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]time.Time), args.Error(1) //nolint:errcheck // Acceptable for mocks
}

func (m *MockCardRepository) FolderHasCards(ctx context.Context, folderID int64) (bool, error) {
	args := m.Called(ctx, folderID)
	return args.Bool(0), args.Error(1)
}

// MockLimiter is a mock implementation of ratelimit.Limiter.
type MockLimiter struct {
	mock.Mock
}

func (m *MockLimiter) Allow(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockContentGenerator is a mock implementation of services.ContentGenerator.
type MockContentGenerator struct {
	mock.Mock
}

func (m *MockContentGenerator) GenerateCardContent(ctx context.Context, word string) (*models.CardContent, error) {
	args := m.Called(ctx, word)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CardContent), args.Error(1) //nolint:errcheck // Acceptable for mocks
}
