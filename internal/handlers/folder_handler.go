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

// FolderHandler обрабатывает HTTP-запросы, связанные с папками.
type FolderHandler struct {
	folderService services.FolderService
}

// NewFolderHandler создает новый экземпляр FolderHandler.
func NewFolderHandler(fs services.FolderService) *FolderHandler {
	return &FolderHandler{folderService: fs}
}

// List обрабатывает GET запрос на получение всех папок пользователя.
func (h *FolderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		log.Printf("[FolderHandler:List] Не удалось получить userID из контекста")
		writeError(w, http.StatusInternalServerError, "INTERNAL")
		return
	}

	folders, err := h.folderService.ListFolders(r.Context(), userID)
	if err != nil {
		log.Printf("[FolderHandler:List] Ошибка получения папок пользователя %d: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "INTERNAL")
		return
	}

	writeJSON(w, http.StatusOK, folders)
}

// Create обрабатывает POST запрос на создание папки.
func (h *FolderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		log.Printf("[FolderHandler:Create] Не удалось получить userID из контекста")
		writeError(w, http.StatusInternalServerError, "INTERNAL")
		return
	}

	var req models.CreateFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[FolderHandler:Create] Ошибка декодирования запроса: %v", err)
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST")
		return
	}

	folderID, err := h.folderService.CreateFolder(r.Context(), userID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidFolderName):
			writeError(w, http.StatusBadRequest, "INVALID_FOLDER_NAME")
		case errors.Is(err, services.ErrFolderNameExists):
			writeError(w, http.StatusConflict, "FOLDER_NAME_EXISTS")
		default:
			log.Printf("[FolderHandler:Create] Ошибка создания папки для пользователя %d: %v", userID, err)
			writeError(w, http.StatusInternalServerError, "INTERNAL")
		}
		return
	}

	writeJSON(w, http.StatusCreated, models.CreateFolderResponse{FolderID: folderID})
}

// Delete обрабатывает DELETE запрос на удаление папки.
func (h *FolderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		log.Printf("[FolderHandler:Delete] Не удалось получить userID из контекста")
		writeError(w, http.StatusInternalServerError, "INTERNAL")
		return
	}

	folderID, err := strconv.ParseInt(chi.URLParam(r, "folderID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST")
		return
	}

	if err = h.folderService.DeleteFolder(r.Context(), userID, folderID); err != nil {
		switch {
		case errors.Is(err, services.ErrFolderNotFound):
			writeError(w, http.StatusNotFound, "FOLDER_NOT_FOUND")
		case errors.Is(err, services.ErrForbidden):
			writeError(w, http.StatusForbidden, "FORBIDDEN")
		case errors.Is(err, services.ErrFolderNotEmpty):
			writeError(w, http.StatusConflict, "FOLDER_NOT_EMPTY")
		default:
			log.Printf("[FolderHandler:Delete] Ошибка удаления папки %d: %v", folderID, err)
			writeError(w, http.StatusInternalServerError, "INTERNAL")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
