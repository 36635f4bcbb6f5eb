package services

import (
	"strconv"
	"strings"
)

// Admins хранит набор ID пользователей с правами администратора.
// Администратор может изменять, удалять и переносить чужие карточки
// и удалять чужие папки.
type Admins map[int64]struct{}

// ParseAdminIDs разбирает список ID администраторов из строки вида "1,2,3"
// (переменная окружения ADMIN_USER_IDS). Нечисловые элементы пропускаются.
func ParseAdminIDs(raw string) Admins {
	admins := make(Admins)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		admins[id] = struct{}{}
	}
	return admins
}

// IsAdmin сообщает, является ли пользователь администратором.
func (a Admins) IsAdmin(userID int64) bool {
	_, ok := a[userID]
	return ok
}
