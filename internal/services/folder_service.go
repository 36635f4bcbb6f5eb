package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/hancards/server/internal/models"
	"github.com/hancards/server/internal/repository"
)

// Ограничения на имя папки.
const (
	minFolderNameLen = 1
	maxFolderNameLen = 50
)

// FolderService определяет интерфейс для сервиса работы с папками.
type FolderService interface {
	ListFolders(ctx context.Context, userID int64) ([]models.Folder, error)
	CreateFolder(ctx context.Context, userID int64, name string) (int64, error)
	DeleteFolder(ctx context.Context, userID, folderID int64) error
}

var _ FolderService = (*folderService)(nil)

type folderService struct {
	folderRepo repository.FolderRepository
	cardRepo   repository.CardRepository
	admins     Admins
}

// NewFolderService создает новый экземпляр сервиса папок.
func NewFolderService(folderRepo repository.FolderRepository, cardRepo repository.CardRepository, admins Admins) FolderService {
	return &folderService{folderRepo: folderRepo, cardRepo: cardRepo, admins: admins}
}

// ListFolders возвращает все папки пользователя.
func (s *folderService) ListFolders(ctx context.Context, userID int64) ([]models.Folder, error) {
	folders, err := s.folderRepo.ListFoldersByUserID(ctx, userID)
	if err != nil {
		log.Printf("[FolderService] Ошибка получения папок пользователя %d: %v", userID, err)
		return nil, errors.New("внутренняя ошибка сервера при получении папок")
	}
	return folders, nil
}

// CreateFolder создает папку с проверкой имени.
// Имя обрезается по пробелам, длина 1-50 символов, уникальность
// проверяется без учета регистра среди папок того же владельца.
func (s *folderService) CreateFolder(ctx context.Context, userID int64, name string) (int64, error) {
	trimmed := strings.TrimSpace(name)
	nameLen := utf8.RuneCountInString(trimmed)
	if nameLen < minFolderNameLen || nameLen > maxFolderNameLen {
		return 0, ErrInvalidFolderName
	}

	existing, err := s.folderRepo.ListFoldersByUserID(ctx, userID)
	if err != nil {
		log.Printf("[FolderService] Ошибка проверки имени папки для пользователя %d: %v", userID, err)
		return 0, errors.New("внутренняя ошибка сервера при создании папки")
	}
	for _, f := range existing {
		if strings.EqualFold(f.Name, trimmed) {
			return 0, ErrFolderNameExists
		}
	}

	folderID, err := s.folderRepo.CreateFolder(ctx, &models.Folder{UserID: userID, Name: trimmed})
	if err != nil {
		log.Printf("[FolderService] Ошибка создания папки для пользователя %d: %v", userID, err)
		return 0, errors.New("внутренняя ошибка сервера при создании папки")
	}

	return folderID, nil
}

// DeleteFolder удаляет папку владельца (или любую — для администратора).
// Непустую папку удалить нельзя: сначала нужно перенести или удалить карточки.
func (s *folderService) DeleteFolder(ctx context.Context, userID, folderID int64) error {
	folder, err := s.folderRepo.GetFolderByID(ctx, folderID)
	if err != nil {
		if errors.Is(err, repository.ErrFolderNotFound) {
			return ErrFolderNotFound
		}
		log.Printf("[FolderService] Ошибка получения папки %d: %v", folderID, err)
		return errors.New("внутренняя ошибка сервера при удалении папки")
	}

	if folder.UserID != userID && !s.admins.IsAdmin(userID) {
		log.Printf("[FolderService] Пользователь %d пытался удалить чужую папку %d", userID, folderID)
		return ErrForbidden
	}

	hasCards, err := s.cardRepo.FolderHasCards(ctx, folderID)
	if err != nil {
		log.Printf("[FolderService] Ошибка проверки карточек в папке %d: %v", folderID, err)
		return errors.New("внутренняя ошибка сервера при удалении папки")
	}
	if hasCards {
		return ErrFolderNotEmpty
	}

	if err = s.folderRepo.DeleteFolder(ctx, folderID); err != nil {
		if errors.Is(err, repository.ErrFolderNotFound) {
			return ErrFolderNotFound
		}
		return fmt.Errorf("ошибка удаления папки: %w", err)
	}

	return nil
}

// Кастомные ошибки сервиса папок.
var (
	ErrInvalidFolderName = errors.New("имя папки должно содержать от 1 до 50 символов")
	ErrFolderNameExists  = errors.New("папка с таким именем уже существует")
	ErrFolderNotEmpty    = errors.New("папка не пуста")
	ErrFolderNotFound    = errors.New("папка не найдена")
)
