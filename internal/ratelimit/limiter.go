// Package ratelimit реализует двухуровневый лимит генераций карточек:
// не более 5 в минуту и не более 20 в сутки на пользователя.
//
// Основной механизм — счетчики с фиксированными окнами в общем хранилище
// (Redis). Если хранилище счетчиков недоступно, лимит пересчитывается по
// временам создания карточек в БД. Если недоступны оба механизма, запрос
// отклоняется (fail closed): доступность лимита важнее доступности функции.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/hancards/server/internal/counter"
)

// Лимиты и окна. Окна фиксированные: ключ корзины = floor(unix / размер окна),
// поэтому всплеск на границе двух соседних корзин может пропустить до 2x
// номинальной скорости. Это осознанный компромисс, а не дефект.
const (
	keyPrefix = "rl:1"

	minuteWindow = time.Minute
	dayWindow    = 24 * time.Hour

	minuteLimit = 5
	dayLimit    = 20
)

// Ошибки лимитера. Возвращаются как стабильные сигналы превышения квоты.
var (
	ErrRateLimited      = errors.New("превышен лимит генераций в минуту")
	ErrRateLimitedDaily = errors.New("превышен суточный лимит генераций")
)

// Limiter определяет интерфейс проверки квоты перед генерацией карточки.
type Limiter interface {
	// Allow учитывает одну попытку генерации и возвращает nil, если квота
	// не исчерпана, либо ErrRateLimited / ErrRateLimitedDaily.
	Allow(ctx context.Context, userID int64) error
}

// History предоставляет времена создания карточек пользователя.
// Используется как резервный источник истины при недоступности счетчиков.
type History interface {
	ListCardTimesSince(ctx context.Context, userID int64, since time.Time) ([]time.Time, error)
}

var _ Limiter = (*TwoTierLimiter)(nil)

// TwoTierLimiter реализует Limiter с основным и резервным путями.
type TwoTierLimiter struct {
	counters counter.Store
	history  History

	// now вынесено в поле для подмены времени в тестах.
	now func() time.Time
}

// NewTwoTierLimiter создает новый лимитер.
func NewTwoTierLimiter(counters counter.Store, history History) *TwoTierLimiter {
	return &TwoTierLimiter{
		counters: counters,
		history:  history,
		now:      time.Now,
	}
}

// Allow проверяет минутную и суточную квоты пользователя.
// Минутная квота проверяется первой: при одновременном превышении обеих
// наружу уходит ErrRateLimited. Суточный инкремент при минутном отказе
// не выполняется, но уже выполненные инкременты не откатываются.
func (l *TwoTierLimiter) Allow(ctx context.Context, userID int64) error {
	now := l.now()

	err := l.allowPrimary(ctx, userID, now)
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrRateLimited) || errors.Is(err, ErrRateLimitedDaily) {
		return err
	}

	// Инфраструктурная ошибка хранилища счетчиков: не пропускаем ее наружу,
	// а пересчитываем квоты по временам создания карточек в БД.
	log.Printf("[RateLimit] Хранилище счетчиков недоступно, переключение на подсчет по БД: %v", err)
	return l.allowFallback(ctx, userID, now)
}

// allowPrimary учитывает попытку в хранилище счетчиков.
// Любая ошибка, кроме превышения квоты, означает деградацию основного пути.
func (l *TwoTierLimiter) allowPrimary(ctx context.Context, userID int64, now time.Time) error {
	minuteKey := bucketKey(userID, "m", now, minuteWindow)
	countMinute, err := l.counters.Incr(ctx, minuteKey)
	if err != nil {
		return err
	}
	if countMinute == 1 {
		// Первый инкремент корзины: ставим TTL, чтобы корзина самоудалилась
		if err = l.counters.Expire(ctx, minuteKey, minuteWindow); err != nil {
			return err
		}
	}
	if countMinute > minuteLimit {
		return ErrRateLimited
	}

	dayKey := bucketKey(userID, "d", now, dayWindow)
	countDay, err := l.counters.Incr(ctx, dayKey)
	if err != nil {
		return err
	}
	if countDay == 1 {
		if err = l.counters.Expire(ctx, dayKey, dayWindow); err != nil {
			return err
		}
	}
	if countDay > dayLimit {
		return ErrRateLimitedDaily
	}

	return nil
}

// allowFallback пересчитывает обе квоты по временам создания карточек.
// Если резервный путь тоже недоступен, запрос отклоняется (fail closed).
func (l *TwoTierLimiter) allowFallback(ctx context.Context, userID int64, now time.Time) error {
	times, err := l.history.ListCardTimesSince(ctx, userID, now.Add(-dayWindow))
	if err != nil {
		log.Printf("[RateLimit] Оба механизма лимита недоступны, запрос пользователя %d отклонен: %v", userID, err)
		return ErrRateLimited
	}

	minuteAgo := now.Add(-minuteWindow)
	var perMinute, perDay int
	for _, t := range times {
		if !t.Before(minuteAgo) {
			perMinute++
		}
		perDay++
	}

	if perMinute >= minuteLimit || perDay >= dayLimit {
		return ErrRateLimited
	}
	return nil
}

// bucketKey формирует ключ счетчика: префикс, ID пользователя,
// маркер гранулярности (m/d) и номер текущей корзины.
func bucketKey(userID int64, granularity string, now time.Time, window time.Duration) string {
	bucket := now.Unix() / int64(window.Seconds())
	return fmt.Sprintf("%s:%d:%s:%d", keyPrefix, userID, granularity, bucket)
}
