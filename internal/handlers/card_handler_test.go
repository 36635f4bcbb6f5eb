package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hancards/server/internal/handlers"
	"github.com/hancards/server/internal/middleware"
	"github.com/hancards/server/internal/models"
	"github.com/hancards/server/internal/services"
)

// MockCardService is a mock implementation of CardService interface.
type MockCardService struct {
	mock.Mock
}

func (m *MockCardService) ListCardsByFolder(ctx context.Context, userID, folderID int64) ([]models.Card, error) {
	args := m.Called(ctx, userID, folderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Card), args.Error(1) //nolint:errcheck // Acceptable for mocks
}

func (m *MockCardService) SaveCard(ctx context.Context, userID int64, req models.SaveCardRequest) (int64, error) {
	args := m.Called(ctx, userID, req)
	return args.Get(0).(int64), args.Error(1) //nolint:errcheck // Acceptable for mocks
}

func (m *MockCardService) UpdateCard(ctx context.Context, userID, cardID int64, patch models.UpdateCardRequest) error {
	args := m.Called(ctx, userID, cardID, patch)
	return args.Error(0)
}

func (m *MockCardService) DeleteCard(ctx context.Context, userID, cardID int64) error {
	args := m.Called(ctx, userID, cardID)
	return args.Error(0)
}

func (m *MockCardService) MoveCard(ctx context.Context, userID, cardID, folderID int64) error {
	args := m.Called(ctx, userID, cardID, folderID)
	return args.Error(0)
}

func (m *MockCardService) SearchCards(ctx context.Context, userID int64, query string, folderID *int64) ([]models.Card, error) {
	args := m.Called(ctx, userID, query, folderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Card), args.Error(1) //nolint:errcheck // Acceptable for mocks
}

// newCardRouter монтирует маршруты карточек с подстановкой userID в контекст.
func newCardRouter(handler *handlers.CardHandler, userID int64) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Get("/api/folders/{folderID}/cards", handler.ListByFolder)
	r.Post("/api/cards", handler.Save)
	r.Patch("/api/cards/{cardID}", handler.Update)
	r.Delete("/api/cards/{cardID}", handler.Delete)
	r.Post("/api/cards/{cardID}/move", handler.Move)
	r.Get("/api/cards/search", handler.Search)
	return r
}

func TestCardHandler_ListByFolder(t *testing.T) {
	testUserID := int64(1)
	testFolderID := int64(10)
	cards := []models.Card{{ID: 7, FolderID: testFolderID, UserID: testUserID, OriginalWord: "你好"}}

	tests := []struct {
		name           string
		mockSetup      func(m *MockCardService)
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "Успешное получение",
			mockSetup: func(m *MockCardService) {
				m.On("ListCardsByFolder", mock.Anything, testUserID, testFolderID).
					Return(cards, nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Папка не найдена",
			mockSetup: func(m *MockCardService) {
				m.On("ListCardsByFolder", mock.Anything, testUserID, testFolderID).
					Return(nil, services.ErrFolderNotFound).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   "FOLDER_NOT_FOUND",
		},
		{
			name: "Чужая папка",
			mockSetup: func(m *MockCardService) {
				m.On("ListCardsByFolder", mock.Anything, testUserID, testFolderID).
					Return(nil, services.ErrForbidden).Once()
			},
			expectedStatus: http.StatusForbidden,
			expectedCode:   "FORBIDDEN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockCardService)
			tt.mockSetup(mockService)

			router := newCardRouter(handlers.NewCardHandler(mockService), testUserID)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/folders/10/cards", nil))

			require.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedCode != "" {
				assert.JSONEq(t, `{"error":"`+tt.expectedCode+`"}`, rr.Body.String())
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestCardHandler_Save(t *testing.T) {
	testUserID := int64(1)
	body := `{"folder_id":10,"original_word":"你好","translation":"hello",` +
		`"character_breakdown":["你 = you","好 = good"],` +
		`"example_sentences":["你好！","你好吗？","老师好。"]}`

	t.Run("Успешное сохранение", func(t *testing.T) {
		mockService := new(MockCardService)
		mockService.On("SaveCard", mock.Anything, testUserID, mock.AnythingOfType("models.SaveCardRequest")).
			Return(int64(7), nil).Once()

		router := newCardRouter(handlers.NewCardHandler(mockService), testUserID)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/cards", strings.NewReader(body)))

		require.Equal(t, http.StatusCreated, rr.Code)

		var resp struct {
			CardID int64 `json:"card_id"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, int64(7), resp.CardID)
		mockService.AssertExpectations(t)
	})

	t.Run("Неверное число примеров", func(t *testing.T) {
		mockService := new(MockCardService)
		mockService.On("SaveCard", mock.Anything, testUserID, mock.AnythingOfType("models.SaveCardRequest")).
			Return(int64(0), services.ErrInvalidExampleSentences).Once()

		router := newCardRouter(handlers.NewCardHandler(mockService), testUserID)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/cards", strings.NewReader(body)))

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"error":"INVALID_EXAMPLE_SENTENCES"}`, rr.Body.String())
	})
}

func TestCardHandler_Update(t *testing.T) {
	testUserID := int64(1)
	testCardID := int64(7)

	tests := []struct {
		name           string
		mockSetup      func(m *MockCardService)
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "Успешное обновление",
			mockSetup: func(m *MockCardService) {
				m.On("UpdateCard", mock.Anything, testUserID, testCardID,
					mock.AnythingOfType("models.UpdateCardRequest")).Return(nil).Once()
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name: "Карточка не найдена",
			mockSetup: func(m *MockCardService) {
				m.On("UpdateCard", mock.Anything, testUserID, testCardID,
					mock.AnythingOfType("models.UpdateCardRequest")).
					Return(services.ErrNotFound).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   "NOT_FOUND",
		},
		{
			name: "Чужая карточка",
			mockSetup: func(m *MockCardService) {
				m.On("UpdateCard", mock.Anything, testUserID, testCardID,
					mock.AnythingOfType("models.UpdateCardRequest")).
					Return(services.ErrForbidden).Once()
			},
			expectedStatus: http.StatusForbidden,
			expectedCode:   "FORBIDDEN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockCardService)
			tt.mockSetup(mockService)

			router := newCardRouter(handlers.NewCardHandler(mockService), testUserID)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodPatch, "/api/cards/7",
				strings.NewReader(`{"translation":"hi"}`)))

			require.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedCode != "" {
				assert.JSONEq(t, `{"error":"`+tt.expectedCode+`"}`, rr.Body.String())
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestCardHandler_Move(t *testing.T) {
	testUserID := int64(1)
	testCardID := int64(7)
	targetFolderID := int64(20)

	tests := []struct {
		name           string
		mockSetup      func(m *MockCardService)
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "Успешный перенос",
			mockSetup: func(m *MockCardService) {
				m.On("MoveCard", mock.Anything, testUserID, testCardID, targetFolderID).
					Return(nil).Once()
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name: "Целевая папка не найдена",
			mockSetup: func(m *MockCardService) {
				m.On("MoveCard", mock.Anything, testUserID, testCardID, targetFolderID).
					Return(services.ErrFolderNotFound).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   "FOLDER_NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockCardService)
			tt.mockSetup(mockService)

			router := newCardRouter(handlers.NewCardHandler(mockService), testUserID)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/cards/7/move",
				strings.NewReader(`{"folder_id":20}`)))

			require.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedCode != "" {
				assert.JSONEq(t, `{"error":"`+tt.expectedCode+`"}`, rr.Body.String())
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestCardHandler_Search(t *testing.T) {
	testUserID := int64(1)
	cards := []models.Card{{ID: 7, FolderID: 10, UserID: testUserID, OriginalWord: "你好"}}

	t.Run("Поиск по всем папкам", func(t *testing.T) {
		mockService := new(MockCardService)
		mockService.On("SearchCards", mock.Anything, testUserID, "你", (*int64)(nil)).
			Return(cards, nil).Once()

		router := newCardRouter(handlers.NewCardHandler(mockService), testUserID)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/cards/search?q=%E4%BD%A0", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Поиск в одной папке", func(t *testing.T) {
		mockService := new(MockCardService)
		mockService.On("SearchCards", mock.Anything, testUserID, "你",
			mock.MatchedBy(func(id *int64) bool { return id != nil && *id == 10 })).
			Return(cards, nil).Once()

		router := newCardRouter(handlers.NewCardHandler(mockService), testUserID)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/cards/search?q=%E4%BD%A0&folder_id=10", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Невалидный folder_id", func(t *testing.T) {
		mockService := new(MockCardService)

		router := newCardRouter(handlers.NewCardHandler(mockService), testUserID)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/cards/search?folder_id=abc", nil))

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"error":"INVALID_REQUEST"}`, rr.Body.String())
	})
}
