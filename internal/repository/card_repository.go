package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/hancards/server/internal/models"
)

// CardRepository определяет методы для работы с карточками в хранилище.
type CardRepository interface {
	CreateCard(ctx context.Context, card *models.Card) (int64, error)
	GetCardByID(ctx context.Context, cardID int64) (*models.Card, error)
	ListCardsByFolder(ctx context.Context, folderID int64) ([]models.Card, error)
	UpdateCard(ctx context.Context, cardID int64, patch models.UpdateCardRequest) error
	DeleteCard(ctx context.Context, cardID int64) error
	MoveCard(ctx context.Context, cardID, folderID int64) error
	SearchCards(ctx context.Context, userID int64, query string, folderID *int64) ([]models.Card, error)
	// HasUserWord проверяет по индексу (user_id, original_word), есть ли у
	// пользователя карточка с этим словом в любой папке.
	HasUserWord(ctx context.Context, userID int64, originalWord string) (bool, error)
	// ListCardTimesSince возвращает времена создания карточек пользователя
	// начиная с указанного момента. Резервный источник для лимита запросов.
	ListCardTimesSince(ctx context.Context, userID int64, since time.Time) ([]time.Time, error)
	// FolderHasCards сообщает, есть ли в папке хотя бы одна карточка.
	FolderHasCards(ctx context.Context, folderID int64) (bool, error)
}

// postgresCardRepository реализует CardRepository для PostgreSQL.
type postgresCardRepository struct {
	db *sqlx.DB
}

// NewPostgresCardRepository создает новый экземпляр репозитория карточек.
func NewPostgresCardRepository(db *sqlx.DB) CardRepository {
	return &postgresCardRepository{db: db}
}

const cardColumns = `id, folder_id, user_id, original_word, translation, character_breakdown, example_sentences, created_at`

// CreateCard вставляет новую карточку и возвращает ее ID.
// Время создания назначается сервером (DEFAULT now() на стороне БД).
func (r *postgresCardRepository) CreateCard(ctx context.Context, card *models.Card) (int64, error) {
	query := `INSERT INTO cards (folder_id, user_id, original_word, translation, character_breakdown, example_sentences)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	var cardID int64

	err := r.db.QueryRowxContext(ctx, query,
		card.FolderID,
		card.UserID,
		card.OriginalWord,
		card.Translation,
		pq.Array([]string(card.CharacterBreakdown)),
		pq.Array([]string(card.ExampleSentences)),
	).Scan(&cardID)
	if err != nil {
		log.Printf("[CardRepo] Ошибка создания карточки %q для пользователя %d: %v", card.OriginalWord, card.UserID, err)
		return 0, fmt.Errorf("ошибка выполнения запроса на создание карточки: %w", err)
	}

	log.Printf("[CardRepo] Карточка %q (ID: %d) создана для пользователя %d", card.OriginalWord, cardID, card.UserID)
	return cardID, nil
}

// GetCardByID находит карточку по ее ID.
func (r *postgresCardRepository) GetCardByID(ctx context.Context, cardID int64) (*models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE id=$1`
	var card models.Card

	err := r.db.GetContext(ctx, &card, query, cardID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCardNotFound
		}
		log.Printf("[CardRepo] Ошибка при поиске карточки ID %d: %v", cardID, err)
		return nil, fmt.Errorf("ошибка выполнения запроса на получение карточки: %w", err)
	}

	return &card, nil
}

// ListCardsByFolder возвращает все карточки папки.
func (r *postgresCardRepository) ListCardsByFolder(ctx context.Context, folderID int64) ([]models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE folder_id=$1 ORDER BY created_at`
	cards := []models.Card{}

	if err := r.db.SelectContext(ctx, &cards, query, folderID); err != nil {
		log.Printf("[CardRepo] Ошибка при получении карточек папки %d: %v", folderID, err)
		return nil, fmt.Errorf("ошибка выполнения запроса на получение карточек: %w", err)
	}

	return cards, nil
}

// UpdateCard выполняет частичное обновление полей карточки.
// Поля со значением nil не меняются. Инвариант трех примеров
// проверяется на уровне сервиса.
func (r *postgresCardRepository) UpdateCard(ctx context.Context, cardID int64, patch models.UpdateCardRequest) error {
	sets := make([]string, 0, 3)
	args := make([]interface{}, 0, 4)

	if patch.Translation != nil {
		args = append(args, *patch.Translation)
		sets = append(sets, fmt.Sprintf("translation=$%d", len(args)))
	}
	if patch.CharacterBreakdown != nil {
		args = append(args, pq.Array(patch.CharacterBreakdown))
		sets = append(sets, fmt.Sprintf("character_breakdown=$%d", len(args)))
	}
	if patch.ExampleSentences != nil {
		args = append(args, pq.Array(patch.ExampleSentences))
		sets = append(sets, fmt.Sprintf("example_sentences=$%d", len(args)))
	}
	if len(sets) == 0 {
		// Пустой патч — ничего не делаем
		return nil
	}

	args = append(args, cardID)
	query := fmt.Sprintf(`UPDATE cards SET %s WHERE id=$%d`, strings.Join(sets, ", "), len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Printf("[CardRepo] Ошибка обновления карточки ID %d: %v", cardID, err)
		return fmt.Errorf("ошибка выполнения запроса на обновление карточки: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка получения количества обновленных строк: %w", err)
	}
	if affected == 0 {
		return ErrCardNotFound
	}

	return nil
}

// DeleteCard удаляет карточку по ID.
func (r *postgresCardRepository) DeleteCard(ctx context.Context, cardID int64) error {
	query := `DELETE FROM cards WHERE id=$1`

	res, err := r.db.ExecContext(ctx, query, cardID)
	if err != nil {
		log.Printf("[CardRepo] Ошибка удаления карточки ID %d: %v", cardID, err)
		return fmt.Errorf("ошибка выполнения запроса на удаление карточки: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка получения количества удаленных строк: %w", err)
	}
	if affected == 0 {
		return ErrCardNotFound
	}

	log.Printf("[CardRepo] Карточка ID %d удалена", cardID)
	return nil
}

// MoveCard переносит карточку в другую папку.
func (r *postgresCardRepository) MoveCard(ctx context.Context, cardID, folderID int64) error {
	query := `UPDATE cards SET folder_id=$1 WHERE id=$2`

	res, err := r.db.ExecContext(ctx, query, folderID, cardID)
	if err != nil {
		log.Printf("[CardRepo] Ошибка переноса карточки ID %d в папку %d: %v", cardID, folderID, err)
		return fmt.Errorf("ошибка выполнения запроса на перенос карточки: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка получения количества обновленных строк: %w", err)
	}
	if affected == 0 {
		return ErrCardNotFound
	}

	return nil
}

// SearchCards ищет карточки пользователя по подстроке исходного слова,
// опционально ограничивая поиск одной папкой.
func (r *postgresCardRepository) SearchCards(ctx context.Context, userID int64, search string, folderID *int64) ([]models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE user_id=$1 AND original_word ILIKE $2`
	args := []interface{}{userID, "%" + search + "%"}
	if folderID != nil {
		args = append(args, *folderID)
		query += fmt.Sprintf(" AND folder_id=$%d", len(args))
	}
	query += " ORDER BY created_at"

	cards := []models.Card{}
	if err := r.db.SelectContext(ctx, &cards, query, args...); err != nil {
		log.Printf("[CardRepo] Ошибка поиска карточек пользователя %d по %q: %v", userID, search, err)
		return nil, fmt.Errorf("ошибка выполнения запроса на поиск карточек: %w", err)
	}

	return cards, nil
}

// HasUserWord проверяет наличие карточки с точным словом у пользователя.
// Запрос обслуживается индексом (user_id, original_word).
func (r *postgresCardRepository) HasUserWord(ctx context.Context, userID int64, originalWord string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM cards WHERE user_id=$1 AND original_word=$2)`
	var exists bool

	if err := r.db.GetContext(ctx, &exists, query, userID, originalWord); err != nil {
		log.Printf("[CardRepo] Ошибка проверки дубликата %q у пользователя %d: %v", originalWord, userID, err)
		return false, fmt.Errorf("ошибка выполнения запроса на проверку дубликата: %w", err)
	}

	return exists, nil
}

// ListCardTimesSince возвращает времена создания карточек пользователя
// начиная с указанного момента (включительно).
func (r *postgresCardRepository) ListCardTimesSince(ctx context.Context, userID int64, since time.Time) ([]time.Time, error) {
	query := `SELECT created_at FROM cards WHERE user_id=$1 AND created_at >= $2`
	times := []time.Time{}

	if err := r.db.SelectContext(ctx, &times, query, userID, since); err != nil {
		log.Printf("[CardRepo] Ошибка получения времен создания карточек пользователя %d: %v", userID, err)
		return nil, fmt.Errorf("ошибка выполнения запроса на получение времен создания: %w", err)
	}

	return times, nil
}

// FolderHasCards сообщает, есть ли в папке хотя бы одна карточка.
func (r *postgresCardRepository) FolderHasCards(ctx context.Context, folderID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM cards WHERE folder_id=$1)`
	var exists bool

	if err := r.db.GetContext(ctx, &exists, query, folderID); err != nil {
		log.Printf("[CardRepo] Ошибка проверки наличия карточек в папке %d: %v", folderID, err)
		return false, fmt.Errorf("ошибка выполнения запроса на проверку папки: %w", err)
	}

	return exists, nil
}

// Кастомная ошибка репозитория.
var ErrCardNotFound = errors.New("карточка не найдена")
