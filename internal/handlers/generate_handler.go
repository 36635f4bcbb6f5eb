package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/hancards/server/internal/middleware"
	"github.com/hancards/server/internal/models"
	"github.com/hancards/server/internal/openai"
	"github.com/hancards/server/internal/ratelimit"
	"github.com/hancards/server/internal/services"
)

// GenerateHandler обрабатывает HTTP-запросы на генерацию карточек.
type GenerateHandler struct {
	generationService services.GenerationService
}

// NewGenerateHandler создает новый экземпляр GenerateHandler.
func NewGenerateHandler(gs services.GenerationService) *GenerateHandler {
	return &GenerateHandler{generationService: gs}
}

// Generate обрабатывает POST запрос на генерацию карточки для слова.
// Каждая ошибка конвейера отображается в стабильный символический код.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		log.Printf("[GenerateHandler] Не удалось получить userID из контекста")
		writeError(w, http.StatusInternalServerError, "INTERNAL")
		return
	}

	var req models.GenerateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[GenerateHandler] Ошибка декодирования запроса: %v", err)
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST")
		return
	}

	cardID, err := h.generationService.GenerateCard(r.Context(), userID, req.OriginalWord, req.FolderID)
	if err != nil {
		h.writeGenerateError(w, userID, err)
		return
	}

	writeJSON(w, http.StatusCreated, models.CardIDResponse{CardID: cardID})
}

// writeGenerateError переводит ошибки конвейера генерации в HTTP-ответ.
func (h *GenerateHandler) writeGenerateError(w http.ResponseWriter, userID int64, err error) {
	var apiErr *openai.APIError
	switch {
	case errors.Is(err, services.ErrInvalidOriginalWord):
		writeError(w, http.StatusBadRequest, "INVALID_ORIGINAL_WORD")
	case errors.Is(err, services.ErrDuplicateCard):
		writeError(w, http.StatusConflict, "DUPLICATE_CARD")
	case errors.Is(err, ratelimit.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "RATE_LIMITED")
	case errors.Is(err, ratelimit.ErrRateLimitedDaily):
		writeError(w, http.StatusTooManyRequests, "RATE_LIMITED_DAILY")
	case errors.Is(err, services.ErrServerMisconfigured):
		writeError(w, http.StatusInternalServerError, "SERVER_MISCONFIGURED")
	case errors.As(err, &apiErr):
		// Код статуса OpenAI включается в символический код ошибки
		writeError(w, http.StatusBadGateway, fmt.Sprintf("OPENAI_ERROR_%d", apiErr.StatusCode))
	case errors.Is(err, services.ErrAiNoContent):
		writeError(w, http.StatusBadGateway, "OPENAI_NO_CONTENT")
	case errors.Is(err, services.ErrInvalidAiResponse):
		writeError(w, http.StatusBadGateway, "INVALID_AI_RESPONSE")
	case errors.Is(err, services.ErrAiCallFailed):
		writeError(w, http.StatusBadGateway, "AI_CALL_FAILED")
	case errors.Is(err, services.ErrPersistenceFailed):
		writeError(w, http.StatusInternalServerError, "PERSISTENCE_FAILED")
	default:
		log.Printf("[GenerateHandler] Непредвиденная ошибка генерации для пользователя %d: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "INTERNAL")
	}
}
