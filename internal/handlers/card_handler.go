package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hancards/server/internal/middleware"
	"github.com/hancards/server/internal/models"
	"github.com/hancards/server/internal/services"
)

// CardHandler обрабатывает HTTP-запросы, связанные с карточками.
type CardHandler struct {
	cardService services.CardService
}

// NewCardHandler создает новый экземпляр CardHandler.
func NewCardHandler(cs services.CardService) *CardHandler {
	return &CardHandler{cardService: cs}
}

// ListByFolder обрабатывает GET запрос на получение карточек папки.
func (h *CardHandler) ListByFolder(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		log.Printf("[CardHandler:ListByFolder] Не удалось получить userID из контекста")
		writeError(w, http.StatusInternalServerError, "INTERNAL")
		return
	}

	folderID, err := strconv.ParseInt(chi.URLParam(r, "folderID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST")
		return
	}

	cards, err := h.cardService.ListCardsByFolder(r.Context(), userID, folderID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFolderNotFound):
			writeError(w, http.StatusNotFound, "FOLDER_NOT_FOUND")
		case errors.Is(err, services.ErrForbidden):
			writeError(w, http.StatusForbidden, "FORBIDDEN")
		default:
			log.Printf("[CardHandler:ListByFolder] Ошибка получения карточек папки %d: %v", folderID, err)
			writeError(w, http.StatusInternalServerError, "INTERNAL")
		}
		return
	}

	writeJSON(w, http.StatusOK, cards)
}

// Save обрабатывает POST запрос на ручное сохранение карточки.
func (h *CardHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		log.Printf("[CardHandler:Save] Не удалось получить userID из контекста")
		writeError(w, http.StatusInternalServerError, "INTERNAL")
		return
	}

	var req models.SaveCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[CardHandler:Save] Ошибка декодирования запроса: %v", err)
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST")
		return
	}

	cardID, err := h.cardService.SaveCard(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND")
		case errors.Is(err, services.ErrForbidden):
			writeError(w, http.StatusForbidden, "FORBIDDEN")
		case errors.Is(err, services.ErrInvalidOriginalWord):
			writeError(w, http.StatusBadRequest, "INVALID_ORIGINAL_WORD")
		case errors.Is(err, services.ErrInvalidTranslation):
			writeError(w, http.StatusBadRequest, "INVALID_TRANSLATION")
		case errors.Is(err, services.ErrInvalidExampleSentences):
			writeError(w, http.StatusBadRequest, "INVALID_EXAMPLE_SENTENCES")
		default:
			log.Printf("[CardHandler:Save] Ошибка сохранения карточки пользователя %d: %v", userID, err)
			writeError(w, http.StatusInternalServerError, "INTERNAL")
		}
		return
	}

	writeJSON(w, http.StatusCreated, models.CardIDResponse{CardID: cardID})
}

// Update обрабатывает PATCH запрос на частичное обновление карточки.
func (h *CardHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		log.Printf("[CardHandler:Update] Не удалось получить userID из контекста")
		writeError(w, http.StatusInternalServerError, "INTERNAL")
		return
	}

	cardID, err := strconv.ParseInt(chi.URLParam(r, "cardID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST")
		return
	}

	var patch models.UpdateCardRequest
	if err = json.NewDecoder(r.Body).Decode(&patch); err != nil {
		log.Printf("[CardHandler:Update] Ошибка декодирования запроса: %v", err)
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST")
		return
	}

	if err = h.cardService.UpdateCard(r.Context(), userID, cardID, patch); err != nil {
		h.writeCardError(w, "Update", cardID, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete обрабатывает DELETE запрос на удаление карточки.
func (h *CardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		log.Printf("[CardHandler:Delete] Не удалось получить userID из контекста")
		writeError(w, http.StatusInternalServerError, "INTERNAL")
		return
	}

	cardID, err := strconv.ParseInt(chi.URLParam(r, "cardID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST")
		return
	}

	if err = h.cardService.DeleteCard(r.Context(), userID, cardID); err != nil {
		h.writeCardError(w, "Delete", cardID, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Move обрабатывает POST запрос на перенос карточки в другую папку.
func (h *CardHandler) Move(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		log.Printf("[CardHandler:Move] Не удалось получить userID из контекста")
		writeError(w, http.StatusInternalServerError, "INTERNAL")
		return
	}

	cardID, err := strconv.ParseInt(chi.URLParam(r, "cardID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST")
		return
	}

	var req models.MoveCardRequest
	if err = json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[CardHandler:Move] Ошибка декодирования запроса: %v", err)
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST")
		return
	}

	if err = h.cardService.MoveCard(r.Context(), userID, cardID, req.FolderID); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND")
		case errors.Is(err, services.ErrForbidden):
			writeError(w, http.StatusForbidden, "FORBIDDEN")
		case errors.Is(err, services.ErrFolderNotFound):
			writeError(w, http.StatusNotFound, "FOLDER_NOT_FOUND")
		default:
			log.Printf("[CardHandler:Move] Ошибка переноса карточки %d: %v", cardID, err)
			writeError(w, http.StatusInternalServerError, "INTERNAL")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Search обрабатывает GET запрос на поиск карточек по подстроке слова.
// Параметры: q — подстрока поиска, folder_id — ограничение одной папкой.
func (h *CardHandler) Search(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		log.Printf("[CardHandler:Search] Не удалось получить userID из контекста")
		writeError(w, http.StatusInternalServerError, "INTERNAL")
		return
	}

	var folderID *int64
	if raw := r.URL.Query().Get("folder_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_REQUEST")
			return
		}
		folderID = &id
	}

	cards, err := h.cardService.SearchCards(r.Context(), userID, r.URL.Query().Get("q"), folderID)
	if err != nil {
		log.Printf("[CardHandler:Search] Ошибка поиска карточек пользователя %d: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "INTERNAL")
		return
	}

	writeJSON(w, http.StatusOK, cards)
}

// writeCardError переводит общие ошибки операций над карточкой в HTTP-ответ.
func (h *CardHandler) writeCardError(w http.ResponseWriter, op string, cardID int64, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND")
	case errors.Is(err, services.ErrForbidden):
		writeError(w, http.StatusForbidden, "FORBIDDEN")
	case errors.Is(err, services.ErrInvalidTranslation):
		writeError(w, http.StatusBadRequest, "INVALID_TRANSLATION")
	case errors.Is(err, services.ErrInvalidExampleSentences):
		writeError(w, http.StatusBadRequest, "INVALID_EXAMPLE_SENTENCES")
	default:
		log.Printf("[CardHandler:%s] Ошибка операции над карточкой %d: %v", op, cardID, err)
		writeError(w, http.StatusInternalServerError, "INTERNAL")
	}
}
