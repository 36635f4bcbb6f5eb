package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hancards/server/internal/models"
	"github.com/hancards/server/internal/repository"
)

// Вспомогательная функция для создания мока БД и репозитория папок.
func setupFolderRepoMock(t *testing.T) (repository.FolderRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	return repository.NewPostgresFolderRepository(sqlxDB), mock
}

func TestCreateFolder(t *testing.T) {
	query := regexp.QuoteMeta(`INSERT INTO folders (user_id, name) VALUES ($1, $2) RETURNING id`)
	folder := &models.Folder{UserID: 1, Name: "HSK 1"}

	t.Run("Успешное создание", func(t *testing.T) {
		repo, mock := setupFolderRepoMock(t)
		rows := sqlmock.NewRows([]string{"id"}).AddRow(int64(10))
		mock.ExpectQuery(query).WithArgs(folder.UserID, folder.Name).WillReturnRows(rows)

		folderID, err := repo.CreateFolder(context.Background(), folder)
		require.NoError(t, err)
		assert.Equal(t, int64(10), folderID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Ошибка базы данных", func(t *testing.T) {
		repo, mock := setupFolderRepoMock(t)
		mock.ExpectQuery(query).WillReturnError(errors.New("database error"))

		folderID, err := repo.CreateFolder(context.Background(), folder)
		require.Error(t, err)
		assert.Zero(t, folderID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetFolderByID(t *testing.T) {
	query := regexp.QuoteMeta(`SELECT id, user_id, name, created_at FROM folders WHERE id=$1`)
	columns := []string{"id", "user_id", "name", "created_at"}

	t.Run("Папка найдена", func(t *testing.T) {
		repo, mock := setupFolderRepoMock(t)
		now := time.Now()
		rows := sqlmock.NewRows(columns).AddRow(int64(10), int64(1), "HSK 1", now)
		mock.ExpectQuery(query).WithArgs(int64(10)).WillReturnRows(rows)

		folder, err := repo.GetFolderByID(context.Background(), 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1), folder.UserID)
		assert.Equal(t, "HSK 1", folder.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Папка не найдена", func(t *testing.T) {
		repo, mock := setupFolderRepoMock(t)
		mock.ExpectQuery(query).WithArgs(int64(99)).WillReturnRows(sqlmock.NewRows(columns))

		folder, err := repo.GetFolderByID(context.Background(), 99)
		assert.Nil(t, folder)
		assert.ErrorIs(t, err, repository.ErrFolderNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListFoldersByUserID(t *testing.T) {
	query := regexp.QuoteMeta(`SELECT id, user_id, name, created_at FROM folders WHERE user_id=$1 ORDER BY created_at`)
	columns := []string{"id", "user_id", "name", "created_at"}

	t.Run("Несколько папок", func(t *testing.T) {
		repo, mock := setupFolderRepoMock(t)
		now := time.Now()
		rows := sqlmock.NewRows(columns).
			AddRow(int64(10), int64(1), "HSK 1", now).
			AddRow(int64(11), int64(1), "HSK 2", now)
		mock.ExpectQuery(query).WithArgs(int64(1)).WillReturnRows(rows)

		folders, err := repo.ListFoldersByUserID(context.Background(), 1)
		require.NoError(t, err)
		require.Len(t, folders, 2)
		assert.Equal(t, "HSK 1", folders[0].Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Папок нет", func(t *testing.T) {
		repo, mock := setupFolderRepoMock(t)
		mock.ExpectQuery(query).WithArgs(int64(2)).WillReturnRows(sqlmock.NewRows(columns))

		folders, err := repo.ListFoldersByUserID(context.Background(), 2)
		require.NoError(t, err)
		assert.Empty(t, folders)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeleteFolder(t *testing.T) {
	query := regexp.QuoteMeta(`DELETE FROM folders WHERE id=$1`)

	t.Run("Успешное удаление", func(t *testing.T) {
		repo, mock := setupFolderRepoMock(t)
		mock.ExpectExec(query).WithArgs(int64(10)).WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.DeleteFolder(context.Background(), 10))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Папка не найдена", func(t *testing.T) {
		repo, mock := setupFolderRepoMock(t)
		mock.ExpectExec(query).WithArgs(int64(99)).WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.DeleteFolder(context.Background(), 99), repository.ErrFolderNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
