package handlers

import (
	"encoding/json"
	"log"
	"net/http"
)

// errorResponse представляет тело ответа с ошибкой. Клиент получает
// стабильный символический код и сам подбирает локализованное сообщение.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON отправляет ответ с указанным статусом и JSON-телом.
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// Статус уже отправлен, изменить ответ нельзя
		log.Printf("[Handlers] Ошибка кодирования JSON-ответа: %v", err)
	}
}

// writeError отправляет символический код ошибки с указанным статусом.
func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, errorResponse{Error: code})
}
