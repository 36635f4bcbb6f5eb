package models

import "time"

// Folder представляет папку пользователя с карточками.
// У одного владельца имена папок уникальны без учета регистра.
type Folder struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CreateFolderRequest представляет тело запроса на создание папки.
type CreateFolderRequest struct {
	Name string `json:"name"`
}

// CreateFolderResponse представляет тело ответа при успешном создании папки.
type CreateFolderResponse struct {
	FolderID int64 `json:"folder_id"`
}
