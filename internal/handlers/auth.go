package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/hancards/server/internal/models"
	"github.com/hancards/server/internal/services"
)

// AuthHandler обрабатывает HTTP-запросы, связанные с аутентификацией.
type AuthHandler struct {
	service services.AuthService // Зависимость от интерфейса, а не конкретной реализации
}

// NewAuthHandler создает новый экземпляр AuthHandler.
func NewAuthHandler(s services.AuthService) *AuthHandler {
	return &AuthHandler{service: s}
}

// Register обрабатывает запрос на регистрацию нового пользователя.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[AuthHandler] Ошибка декодирования запроса регистрации: %v", err)
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST")
		return
	}

	if req.Username == "" || req.Password == "" {
		log.Printf("[AuthHandler] Пустое имя пользователя или пароль при регистрации")
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST")
		return
	}

	log.Printf("[AuthHandler] Попытка регистрации пользователя: %s", req.Username)

	if err := h.service.Register(req.Username, req.Password); err != nil {
		if errors.Is(err, services.ErrUsernameTaken) {
			writeError(w, http.StatusConflict, "USERNAME_TAKEN")
			return
		}
		log.Printf("[AuthHandler] Ошибка регистрации пользователя %q: %v", req.Username, err)
		writeError(w, http.StatusInternalServerError, "INTERNAL")
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// Login обрабатывает запрос на вход пользователя.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[AuthHandler] Ошибка декодирования запроса входа: %v", err)
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST")
		return
	}

	if req.Username == "" || req.Password == "" {
		log.Printf("[AuthHandler] Пустое имя пользователя или пароль при входе")
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST")
		return
	}

	log.Printf("[AuthHandler] Попытка входа пользователя: %s", req.Username)

	token, err := h.service.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS")
			return
		}
		log.Printf("[AuthHandler] Ошибка входа пользователя %q: %v", req.Username, err)
		writeError(w, http.StatusInternalServerError, "INTERNAL")
		return
	}

	writeJSON(w, http.StatusOK, models.LoginResponse{Token: token})
}
