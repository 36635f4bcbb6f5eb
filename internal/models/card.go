package models

import (
	"time"

	"github.com/lib/pq"
)

// Card представляет учебную карточку с китайским словом.
// Массивы строк хранятся в PostgreSQL как text[], поэтому используем pq.StringArray.
type Card struct {
	ID                 int64          `db:"id" json:"id"`
	FolderID           int64          `db:"folder_id" json:"folder_id"`
	UserID             int64          `db:"user_id" json:"user_id"`
	OriginalWord       string         `db:"original_word" json:"original_word"`
	Translation        string         `db:"translation" json:"translation"`
	CharacterBreakdown pq.StringArray `db:"character_breakdown" json:"character_breakdown"`
	ExampleSentences   pq.StringArray `db:"example_sentences" json:"example_sentences"`
	CreatedAt          time.Time      `db:"created_at" json:"created_at"`
}

// CardContent представляет сгенерированное содержимое карточки,
// которое возвращает модель в виде JSON-объекта с тремя полями.
type CardContent struct {
	Translation        string   `json:"translation"`
	CharacterBreakdown []string `json:"characterBreakdown"`
	ExampleSentences   []string `json:"exampleSentences"`
}

// GenerateCardRequest представляет тело запроса на генерацию карточки.
type GenerateCardRequest struct {
	OriginalWord string `json:"original_word"`
	FolderID     int64  `json:"folder_id"`
}

// SaveCardRequest представляет тело запроса на ручное сохранение карточки.
type SaveCardRequest struct {
	FolderID           int64    `json:"folder_id"`
	OriginalWord       string   `json:"original_word"`
	Translation        string   `json:"translation"`
	CharacterBreakdown []string `json:"character_breakdown"`
	ExampleSentences   []string `json:"example_sentences"`
}

// UpdateCardRequest представляет тело запроса на частичное обновление карточки.
// nil означает "поле не менять".
type UpdateCardRequest struct {
	Translation        *string  `json:"translation,omitempty"`
	CharacterBreakdown []string `json:"character_breakdown,omitempty"`
	ExampleSentences   []string `json:"example_sentences,omitempty"`
}

// MoveCardRequest представляет тело запроса на перенос карточки в другую папку.
type MoveCardRequest struct {
	FolderID int64 `json:"folder_id"`
}

// CardIDResponse представляет тело ответа с идентификатором карточки.
type CardIDResponse struct {
	CardID int64 `json:"card_id"`
}
