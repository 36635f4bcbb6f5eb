package handlers

import (
	"log"
	"net/http"

	"github.com/hancards/server/internal/middleware"
	"github.com/hancards/server/internal/services"
)

// SystemHandler обрабатывает служебные запросы о состоянии сервера.
type SystemHandler struct {
	openAIConfigured bool
	admins           services.Admins
}

// NewSystemHandler создает новый экземпляр SystemHandler.
func NewSystemHandler(openAIConfigured bool, admins services.Admins) *SystemHandler {
	return &SystemHandler{openAIConfigured: openAIConfigured, admins: admins}
}

// envResponse представляет тело ответа со сведениями об окружении.
type envResponse struct {
	OpenAIConfigured bool  `json:"openai_configured"`
	UserID           int64 `json:"user_id"`
	IsAdmin          bool  `json:"is_admin"`
}

// Env обрабатывает GET запрос на диагностические сведения об окружении.
// Ключи и секреты в ответ не попадают, только факт их наличия.
func (h *SystemHandler) Env(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		log.Printf("[SystemHandler:Env] Не удалось получить userID из контекста")
		writeError(w, http.StatusInternalServerError, "INTERNAL")
		return
	}

	writeJSON(w, http.StatusOK, envResponse{
		OpenAIConfigured: h.openAIConfigured,
		UserID:           userID,
		IsAdmin:          h.admins.IsAdmin(userID),
	})
}
