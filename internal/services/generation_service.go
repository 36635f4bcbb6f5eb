package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/hancards/server/internal/models"
	"github.com/hancards/server/internal/openai"
	"github.com/hancards/server/internal/ratelimit"
	"github.com/hancards/server/internal/repository"
)

// Максимальная длина исходного слова в символах.
const maxOriginalWordLen = 20

// ContentGenerator абстрагирует вызов модели, генерирующей содержимое карточки.
type ContentGenerator interface {
	GenerateCardContent(ctx context.Context, word string) (*models.CardContent, error)
}

// GenerationService определяет интерфейс конвейера генерации карточек.
type GenerationService interface {
	// GenerateCard проводит запрос через весь конвейер: валидация слова,
	// защита от дубликатов, лимит запросов, вызов модели, сохранение.
	GenerateCard(ctx context.Context, userID int64, originalWord string, folderID int64) (int64, error)
}

var _ GenerationService = (*generationService)(nil)

type generationService struct {
	cardRepo  repository.CardRepository
	limiter   ratelimit.Limiter
	generator ContentGenerator
}

// NewGenerationService создает новый экземпляр сервиса генерации карточек.
func NewGenerationService(cardRepo repository.CardRepository, limiter ratelimit.Limiter, generator ContentGenerator) GenerationService {
	return &generationService{cardRepo: cardRepo, limiter: limiter, generator: generator}
}

// GenerateCard реализует конвейер генерации. Ступени идут строго по порядку,
// провал любой ступени прерывает конвейер без вызова последующих.
func (s *generationService) GenerateCard(ctx context.Context, userID int64, originalWord string, folderID int64) (int64, error) {
	word := strings.TrimSpace(originalWord)
	if err := validateOriginalWord(word); err != nil {
		return 0, err
	}

	// Защита от дубликатов: одно слово — одна карточка на пользователя,
	// независимо от папки.
	exists, err := s.cardRepo.HasUserWord(ctx, userID, word)
	if err != nil {
		log.Printf("[Generation] Ошибка проверки дубликата %q у пользователя %d: %v", word, userID, err)
		return 0, errors.New("внутренняя ошибка сервера при проверке дубликата")
	}
	if exists {
		return 0, ErrDuplicateCard
	}

	// Лимит учитывает попытку до обращения к модели: неудачные вызовы
	// модели квоту не возвращают.
	if err = s.limiter.Allow(ctx, userID); err != nil {
		return 0, err
	}

	// ID попытки связывает записи журнала одного вызова модели.
	attemptID := uuid.NewString()
	log.Printf("[Generation] Попытка %s: пользователь %d, слово %q", attemptID, userID, word)

	content, err := s.generator.GenerateCardContent(ctx, word)
	if err != nil {
		log.Printf("[Generation] Попытка %s завершилась ошибкой: %v", attemptID, err)
		return 0, classifyGeneratorError(err)
	}

	cardID, err := s.cardRepo.CreateCard(ctx, &models.Card{
		FolderID:           folderID,
		UserID:             userID,
		OriginalWord:       word,
		Translation:        content.Translation,
		CharacterBreakdown: content.CharacterBreakdown,
		ExampleSentences:   content.ExampleSentences,
	})
	if err != nil {
		log.Printf("[Generation] Попытка %s: содержимое получено, но сохранение не удалось: %v", attemptID, err)
		return 0, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}

	log.Printf("[Generation] Попытка %s успешна: карточка ID %d", attemptID, cardID)
	return cardID, nil
}

// validateOriginalWord проверяет, что слово непустое, не длиннее 20 символов
// и содержит хотя бы один китайский иероглиф.
func validateOriginalWord(word string) error {
	if word == "" {
		return ErrInvalidOriginalWord
	}
	if utf8.RuneCountInString(word) > maxOriginalWordLen {
		return ErrInvalidOriginalWord
	}
	for _, r := range word {
		if unicode.Is(unicode.Han, r) {
			return nil
		}
	}
	return ErrInvalidOriginalWord
}

// classifyGeneratorError переводит ошибки клиента модели в ошибки сервиса.
// HTTP-ошибки OpenAI (*openai.APIError) пропускаются как есть: обработчику
// нужен код статуса.
func classifyGeneratorError(err error) error {
	var apiErr *openai.APIError
	switch {
	case errors.Is(err, openai.ErrMissingAPIKey):
		return ErrServerMisconfigured
	case errors.Is(err, openai.ErrNoContent):
		return ErrAiNoContent
	case errors.Is(err, openai.ErrInvalidResponse):
		return ErrInvalidAiResponse
	case errors.As(err, &apiErr):
		return err
	default:
		// Сетевые ошибки, таймаут, нечитаемый ответ
		return fmt.Errorf("%w: %v", ErrAiCallFailed, err)
	}
}

// Кастомные ошибки сервиса генерации.
var (
	ErrInvalidOriginalWord = errors.New("слово должно содержать китайские иероглифы и быть не длиннее 20 символов")
	ErrDuplicateCard       = errors.New("карточка с этим словом уже существует")
	ErrServerMisconfigured = errors.New("сервер не настроен для генерации карточек")
	ErrAiCallFailed        = errors.New("вызов модели не удался")
	ErrAiNoContent         = errors.New("модель вернула ответ без содержимого")
	ErrInvalidAiResponse   = errors.New("ответ модели не соответствует ожидаемой схеме")
	ErrPersistenceFailed   = errors.New("карточка сгенерирована, но не сохранена")
)
