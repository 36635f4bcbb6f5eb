package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"

	"github.com/hancards/server/internal/models"
)

// FolderRepository определяет методы для работы с папками в хранилище.
type FolderRepository interface {
	CreateFolder(ctx context.Context, folder *models.Folder) (int64, error)
	GetFolderByID(ctx context.Context, folderID int64) (*models.Folder, error)
	ListFoldersByUserID(ctx context.Context, userID int64) ([]models.Folder, error)
	DeleteFolder(ctx context.Context, folderID int64) error
}

// postgresFolderRepository реализует FolderRepository для PostgreSQL.
type postgresFolderRepository struct {
	db *sqlx.DB
}

// NewPostgresFolderRepository создает новый экземпляр репозитория папок.
func NewPostgresFolderRepository(db *sqlx.DB) FolderRepository {
	return &postgresFolderRepository{db: db}
}

// CreateFolder создает новую папку и возвращает ее ID.
// Уникальность имени (без учета регистра) проверяется на уровне сервиса.
func (r *postgresFolderRepository) CreateFolder(ctx context.Context, folder *models.Folder) (int64, error) {
	query := `INSERT INTO folders (user_id, name) VALUES ($1, $2) RETURNING id`
	var folderID int64

	err := r.db.QueryRowxContext(ctx, query, folder.UserID, folder.Name).Scan(&folderID)
	if err != nil {
		log.Printf("[FolderRepo] Ошибка создания папки %q для пользователя %d: %v", folder.Name, folder.UserID, err)
		return 0, fmt.Errorf("ошибка выполнения запроса на создание папки: %w", err)
	}

	log.Printf("[FolderRepo] Папка %q (ID: %d) создана для пользователя %d", folder.Name, folderID, folder.UserID)
	return folderID, nil
}

// GetFolderByID находит папку по ее ID.
func (r *postgresFolderRepository) GetFolderByID(ctx context.Context, folderID int64) (*models.Folder, error) {
	query := `SELECT id, user_id, name, created_at FROM folders WHERE id=$1`
	var folder models.Folder

	err := r.db.GetContext(ctx, &folder, query, folderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFolderNotFound
		}
		log.Printf("[FolderRepo] Ошибка при поиске папки ID %d: %v", folderID, err)
		return nil, fmt.Errorf("ошибка выполнения запроса на получение папки: %w", err)
	}

	return &folder, nil
}

// ListFoldersByUserID возвращает все папки пользователя.
func (r *postgresFolderRepository) ListFoldersByUserID(ctx context.Context, userID int64) ([]models.Folder, error) {
	query := `SELECT id, user_id, name, created_at FROM folders WHERE user_id=$1 ORDER BY created_at`
	folders := []models.Folder{}

	if err := r.db.SelectContext(ctx, &folders, query, userID); err != nil {
		log.Printf("[FolderRepo] Ошибка при получении папок пользователя %d: %v", userID, err)
		return nil, fmt.Errorf("ошибка выполнения запроса на получение папок: %w", err)
	}

	return folders, nil
}

// DeleteFolder удаляет папку по ID.
// Проверка, что папка пуста, выполняется на уровне сервиса.
func (r *postgresFolderRepository) DeleteFolder(ctx context.Context, folderID int64) error {
	query := `DELETE FROM folders WHERE id=$1`

	res, err := r.db.ExecContext(ctx, query, folderID)
	if err != nil {
		log.Printf("[FolderRepo] Ошибка удаления папки ID %d: %v", folderID, err)
		return fmt.Errorf("ошибка выполнения запроса на удаление папки: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка получения количества удаленных строк: %w", err)
	}
	if affected == 0 {
		return ErrFolderNotFound
	}

	log.Printf("[FolderRepo] Папка ID %d удалена", folderID)
	return nil
}

// Кастомная ошибка репозитория.
var ErrFolderNotFound = errors.New("папка не найдена")
