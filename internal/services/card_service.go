package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/hancards/server/internal/models"
	"github.com/hancards/server/internal/repository"
)

// Количество примеров предложений в карточке.
const exampleSentenceCount = 3

// CardService определяет интерфейс для сервиса работы с карточками.
type CardService interface {
	ListCardsByFolder(ctx context.Context, userID, folderID int64) ([]models.Card, error)
	SaveCard(ctx context.Context, userID int64, req models.SaveCardRequest) (int64, error)
	UpdateCard(ctx context.Context, userID, cardID int64, patch models.UpdateCardRequest) error
	DeleteCard(ctx context.Context, userID, cardID int64) error
	MoveCard(ctx context.Context, userID, cardID, folderID int64) error
	SearchCards(ctx context.Context, userID int64, query string, folderID *int64) ([]models.Card, error)
}

var _ CardService = (*cardService)(nil)

type cardService struct {
	cardRepo   repository.CardRepository
	folderRepo repository.FolderRepository
	admins     Admins
}

// NewCardService создает новый экземпляр сервиса карточек.
func NewCardService(cardRepo repository.CardRepository, folderRepo repository.FolderRepository, admins Admins) CardService {
	return &cardService{cardRepo: cardRepo, folderRepo: folderRepo, admins: admins}
}

// ListCardsByFolder возвращает карточки папки. Доступ только у владельца
// папки, администраторский обход здесь не действует.
func (s *cardService) ListCardsByFolder(ctx context.Context, userID, folderID int64) ([]models.Card, error) {
	folder, err := s.folderRepo.GetFolderByID(ctx, folderID)
	if err != nil {
		if errors.Is(err, repository.ErrFolderNotFound) {
			return nil, ErrFolderNotFound
		}
		log.Printf("[CardService] Ошибка получения папки %d: %v", folderID, err)
		return nil, errors.New("внутренняя ошибка сервера при получении карточек")
	}
	if folder.UserID != userID {
		return nil, ErrForbidden
	}

	cards, err := s.cardRepo.ListCardsByFolder(ctx, folderID)
	if err != nil {
		log.Printf("[CardService] Ошибка получения карточек папки %d: %v", folderID, err)
		return nil, errors.New("внутренняя ошибка сервера при получении карточек")
	}
	return cards, nil
}

// SaveCard сохраняет карточку, заполненную пользователем вручную.
// Карточка попадает только в собственную папку пользователя.
func (s *cardService) SaveCard(ctx context.Context, userID int64, req models.SaveCardRequest) (int64, error) {
	folder, err := s.folderRepo.GetFolderByID(ctx, req.FolderID)
	if err != nil {
		if errors.Is(err, repository.ErrFolderNotFound) {
			return 0, ErrNotFound
		}
		log.Printf("[CardService] Ошибка получения папки %d: %v", req.FolderID, err)
		return 0, errors.New("внутренняя ошибка сервера при сохранении карточки")
	}
	if folder.UserID != userID {
		return 0, ErrForbidden
	}

	word := strings.TrimSpace(req.OriginalWord)
	if word == "" {
		return 0, ErrInvalidOriginalWord
	}
	translation := strings.TrimSpace(req.Translation)
	if translation == "" {
		return 0, ErrInvalidTranslation
	}
	if len(req.ExampleSentences) != exampleSentenceCount {
		return 0, ErrInvalidExampleSentences
	}

	cardID, err := s.cardRepo.CreateCard(ctx, &models.Card{
		FolderID:           req.FolderID,
		UserID:             userID,
		OriginalWord:       word,
		Translation:        translation,
		CharacterBreakdown: req.CharacterBreakdown,
		ExampleSentences:   req.ExampleSentences,
	})
	if err != nil {
		log.Printf("[CardService] Ошибка сохранения карточки %q пользователя %d: %v", word, userID, err)
		return 0, errors.New("внутренняя ошибка сервера при сохранении карточки")
	}

	return cardID, nil
}

// UpdateCard частично обновляет карточку владельца (или любую — для администратора).
func (s *cardService) UpdateCard(ctx context.Context, userID, cardID int64, patch models.UpdateCardRequest) error {
	card, err := s.getOwnedCard(ctx, userID, cardID)
	if err != nil {
		return err
	}

	if patch.Translation != nil && strings.TrimSpace(*patch.Translation) == "" {
		return ErrInvalidTranslation
	}
	if patch.ExampleSentences != nil && len(patch.ExampleSentences) != exampleSentenceCount {
		return ErrInvalidExampleSentences
	}

	if err = s.cardRepo.UpdateCard(ctx, card.ID, patch); err != nil {
		if errors.Is(err, repository.ErrCardNotFound) {
			return ErrNotFound
		}
		log.Printf("[CardService] Ошибка обновления карточки %d: %v", cardID, err)
		return errors.New("внутренняя ошибка сервера при обновлении карточки")
	}
	return nil
}

// DeleteCard удаляет карточку владельца (или любую — для администратора).
func (s *cardService) DeleteCard(ctx context.Context, userID, cardID int64) error {
	card, err := s.getOwnedCard(ctx, userID, cardID)
	if err != nil {
		return err
	}

	if err = s.cardRepo.DeleteCard(ctx, card.ID); err != nil {
		if errors.Is(err, repository.ErrCardNotFound) {
			return ErrNotFound
		}
		log.Printf("[CardService] Ошибка удаления карточки %d: %v", cardID, err)
		return errors.New("внутренняя ошибка сервера при удалении карточки")
	}
	return nil
}

// MoveCard переносит карточку в другую папку. Целевая папка должна
// существовать и принадлежать пользователю (администратору — любая).
func (s *cardService) MoveCard(ctx context.Context, userID, cardID, folderID int64) error {
	card, err := s.getOwnedCard(ctx, userID, cardID)
	if err != nil {
		return err
	}

	folder, err := s.folderRepo.GetFolderByID(ctx, folderID)
	if err != nil {
		if errors.Is(err, repository.ErrFolderNotFound) {
			return ErrFolderNotFound
		}
		log.Printf("[CardService] Ошибка получения целевой папки %d: %v", folderID, err)
		return errors.New("внутренняя ошибка сервера при переносе карточки")
	}
	if folder.UserID != userID && !s.admins.IsAdmin(userID) {
		return ErrForbidden
	}

	if err = s.cardRepo.MoveCard(ctx, card.ID, folderID); err != nil {
		if errors.Is(err, repository.ErrCardNotFound) {
			return ErrNotFound
		}
		log.Printf("[CardService] Ошибка переноса карточки %d в папку %d: %v", cardID, folderID, err)
		return errors.New("внутренняя ошибка сервера при переносе карточки")
	}
	return nil
}

// SearchCards ищет карточки пользователя по подстроке исходного слова.
// Пустой запрос возвращает все карточки (опционально — одной папки).
func (s *cardService) SearchCards(ctx context.Context, userID int64, query string, folderID *int64) ([]models.Card, error) {
	cards, err := s.cardRepo.SearchCards(ctx, userID, strings.TrimSpace(query), folderID)
	if err != nil {
		log.Printf("[CardService] Ошибка поиска карточек пользователя %d: %v", userID, err)
		return nil, errors.New("внутренняя ошибка сервера при поиске карточек")
	}
	return cards, nil
}

// getOwnedCard загружает карточку и проверяет права на изменение:
// владелец или администратор.
func (s *cardService) getOwnedCard(ctx context.Context, userID, cardID int64) (*models.Card, error) {
	card, err := s.cardRepo.GetCardByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, repository.ErrCardNotFound) {
			return nil, ErrNotFound
		}
		log.Printf("[CardService] Ошибка получения карточки %d: %v", cardID, err)
		return nil, errors.New("внутренняя ошибка сервера при получении карточки")
	}
	if card.UserID != userID && !s.admins.IsAdmin(userID) {
		log.Printf("[CardService] Пользователь %d пытался изменить чужую карточку %d", userID, cardID)
		return nil, ErrForbidden
	}
	return card, nil
}

// Кастомные ошибки сервиса карточек.
var (
	ErrNotFound                = errors.New("запись не найдена")
	ErrForbidden               = errors.New("доступ запрещен")
	ErrInvalidTranslation      = errors.New("перевод не должен быть пустым")
	ErrInvalidExampleSentences = errors.New("требуется ровно три примера предложений")
)
