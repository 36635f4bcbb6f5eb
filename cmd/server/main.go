package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // Драйвер PostgreSQL
	"github.com/redis/go-redis/v9"

	"github.com/hancards/server/internal/counter"
	"github.com/hancards/server/internal/handlers"
	appmiddleware "github.com/hancards/server/internal/middleware"
	"github.com/hancards/server/internal/openai"
	"github.com/hancards/server/internal/ratelimit"
	"github.com/hancards/server/internal/repository"
	"github.com/hancards/server/internal/services"
)

const (
	defaultReadTimeout = 10 * time.Second
	// Запас над 10-секундным дедлайном вызова модели
	defaultWriteTimeout = 15 * time.Second
	defaultIdleTimeout  = 30 * time.Second

	redisPingTimeout = 2 * time.Second
)

// Структура для хранения инициализированных зависимостей.
type dependencies struct {
	db              *sqlx.DB
	redisClient     *redis.Client
	authHandler     *handlers.AuthHandler
	folderHandler   *handlers.FolderHandler
	cardHandler     *handlers.CardHandler
	generateHandler *handlers.GenerateHandler
	systemHandler   *handlers.SystemHandler
}

// main - точка входа. Вызывает run и обрабатывает ошибку.
func main() {
	if err := run(); err != nil {
		log.Printf("Ошибка выполнения сервера: %v", err)
		os.Exit(1)
	}
}

// run содержит основную логику запуска сервера и возвращает ошибку.
func run() error {
	log.Println("Запуск сервера HanCards...")

	cfg, err := parseFlags()
	if err != nil {
		return fmt.Errorf("ошибка разбора конфигурации: %w", err)
	}

	// Инициализация зависимостей
	deps, err := setupDependencies(cfg)
	if err != nil {
		return fmt.Errorf("ошибка инициализации зависимостей: %w", err)
	}
	defer func() {
		if deps.db != nil {
			if closeErr := deps.db.Close(); closeErr != nil {
				log.Printf("Ошибка закрытия соединения с БД: %v", closeErr)
			}
		}
		if deps.redisClient != nil {
			if closeErr := deps.redisClient.Close(); closeErr != nil {
				log.Printf("Ошибка закрытия соединения с Redis: %v", closeErr)
			}
		}
	}()

	// Настройка роутера
	r := setupRouter(cfg, deps)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		IdleTimeout:  defaultIdleTimeout,
	}

	log.Printf("Запуск HTTPS-сервера на порту %s...", cfg.Port)
	log.Printf("Используется сертификат: %s", cfg.CertFile)
	log.Printf("Используется ключ: %s", cfg.KeyFile)

	if err = server.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("ошибка запуска HTTPS-сервера: %w", err)
	}
	return nil
}

// setupDependencies инициализирует и возвращает все необходимые зависимости сервера.
func setupDependencies(cfg *config) (*dependencies, error) {
	deps := &dependencies{}
	var err error

	// 1. Подключение к БД
	deps.db, err = repository.NewPostgresDB(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации БД: %w", err)
	}

	// 2. Подключение к Redis. Недоступный Redis не мешает запуску:
	// лимитер переключится на подсчет по БД.
	deps.redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	pingCtx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err = deps.redisClient.Ping(pingCtx).Err(); err != nil {
		log.Printf("Redis по адресу %s недоступен, лимит будет считаться по БД: %v", cfg.RedisAddr, err)
	} else {
		log.Printf("Соединение с Redis (%s) успешно установлено.", cfg.RedisAddr)
	}

	// 3. Создание репозиториев
	userRepo := repository.NewPostgresUserRepository(deps.db)
	folderRepo := repository.NewPostgresFolderRepository(deps.db)
	cardRepo := repository.NewPostgresCardRepository(deps.db)

	// 4. Создание сервисов
	admins := services.ParseAdminIDs(cfg.AdminUserIDs)
	limiter := ratelimit.NewTwoTierLimiter(counter.NewRedisStore(deps.redisClient), cardRepo)
	openaiClient := openai.NewClient(cfg.OpenAIAPIKey)

	authService := services.NewAuthService(userRepo, cfg.JWTSecret)
	folderService := services.NewFolderService(folderRepo, cardRepo, admins)
	cardService := services.NewCardService(cardRepo, folderRepo, admins)
	generationService := services.NewGenerationService(cardRepo, limiter, openaiClient)

	// 5. Создание обработчиков
	deps.authHandler = handlers.NewAuthHandler(authService)
	deps.folderHandler = handlers.NewFolderHandler(folderService)
	deps.cardHandler = handlers.NewCardHandler(cardService)
	deps.generateHandler = handlers.NewGenerateHandler(generationService)
	deps.systemHandler = handlers.NewSystemHandler(cfg.OpenAIAPIKey != "", admins)

	return deps, nil
}

// setupRouter настраивает и возвращает роутер chi.
func setupRouter(cfg *config, deps *dependencies) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	// --- Маршруты --- //
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pong\n"))
	})

	r.Route("/api", func(r chi.Router) {
		// Публичные маршруты (регистрация, вход)
		r.Post("/register", deps.authHandler.Register)
		r.Post("/login", deps.authHandler.Login)

		// Приватные маршруты (требуют аутентификации)
		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.NewAuthenticator(cfg.JWTSecret))

			r.Route("/folders", func(r chi.Router) {
				r.Get("/", deps.folderHandler.List)
				r.Post("/", deps.folderHandler.Create)
				r.Delete("/{folderID}", deps.folderHandler.Delete)
				r.Get("/{folderID}/cards", deps.cardHandler.ListByFolder)
			})

			r.Route("/cards", func(r chi.Router) {
				r.Post("/", deps.cardHandler.Save)
				r.Get("/search", deps.cardHandler.Search)
				r.Post("/generate", deps.generateHandler.Generate)
				r.Patch("/{cardID}", deps.cardHandler.Update)
				r.Delete("/{cardID}", deps.cardHandler.Delete)
				r.Post("/{cardID}/move", deps.cardHandler.Move)
			})

			r.Get("/system/env", deps.systemHandler.Env)
		})
	})
	return r
}
