package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

const (
	// Порт по умолчанию для HTTPS (непривилегированный).
	defaultServerPort = "8443"

	// Адрес Redis по умолчанию для локальной разработки.
	defaultRedisAddr = "localhost:6379"

	// Переменные окружения.
	envServerPort   = "SERVER_PORT"
	envTLSCertFile  = "TLS_CERT_FILE"
	envTLSKeyFile   = "TLS_KEY_FILE"
	envDatabaseDSN  = "DATABASE_DSN"
	envRedisAddr    = "REDIS_ADDR"
	envJWTSecret    = "JWT_SECRET" //nolint:gosec // Имя переменной окружения, не секрет
	envOpenAIAPIKey = "OPENAI_API_KEY"
	envAdminUserIDs = "ADMIN_USER_IDS"
)

// config хранит конфигурацию сервера.
type config struct {
	Port         string
	CertFile     string
	KeyFile      string
	DatabaseDSN  string
	RedisAddr    string
	JWTSecret    string
	OpenAIAPIKey string
	AdminUserIDs string
}

// parseFlags разбирает флаги и переменные окружения, возвращает config или ошибку.
// Файл .env, если он есть, подгружается до чтения окружения.
func parseFlags() (*config, error) {
	if err := godotenv.Load(); err != nil {
		// Отсутствие .env — нормальная ситуация в продакшене
		log.Printf("Файл .env не загружен: %v", err)
	}

	cfg := &config{}

	// Определяем флаги
	flag.StringVar(&cfg.Port, "port", "",
		fmt.Sprintf("Порт для запуска HTTPS-сервера (env: %s, default: %s)", envServerPort, defaultServerPort))
	flag.StringVar(&cfg.CertFile, "cert-file", "",
		fmt.Sprintf("Путь к файлу TLS-сертификата (env: %s)", envTLSCertFile))
	flag.StringVar(&cfg.KeyFile, "key-file", "",
		fmt.Sprintf("Путь к файлу TLS-ключа (env: %s)", envTLSKeyFile))
	flag.StringVar(&cfg.DatabaseDSN, "database-dsn", "",
		fmt.Sprintf("Строка подключения к базе данных (env: %s)", envDatabaseDSN))
	flag.StringVar(&cfg.RedisAddr, "redis-addr", "",
		fmt.Sprintf("Адрес Redis для счетчиков лимита (env: %s, default: %s)", envRedisAddr, defaultRedisAddr))
	flag.StringVar(&cfg.JWTSecret, "jwt-secret", "",
		fmt.Sprintf("Секретный ключ для подписи JWT (env: %s)", envJWTSecret))
	flag.StringVar(&cfg.OpenAIAPIKey, "openai-api-key", "",
		fmt.Sprintf("Ключ OpenAI API (env: %s)", envOpenAIAPIKey))
	flag.StringVar(&cfg.AdminUserIDs, "admin-user-ids", "",
		fmt.Sprintf("ID администраторов через запятую (env: %s)", envAdminUserIDs))

	// Парсим флаги
	flag.Parse()

	// Применяем переменные окружения, если флаги не заданы
	if cfg.Port == "" {
		if value, ok := os.LookupEnv(envServerPort); ok {
			cfg.Port = value
		} else {
			cfg.Port = defaultServerPort
		}
	}
	if cfg.CertFile == "" {
		if value, ok := os.LookupEnv(envTLSCertFile); ok {
			cfg.CertFile = value
		}
	}
	if cfg.KeyFile == "" {
		if value, ok := os.LookupEnv(envTLSKeyFile); ok {
			cfg.KeyFile = value
		}
	}
	if cfg.DatabaseDSN == "" {
		if value, ok := os.LookupEnv(envDatabaseDSN); ok {
			cfg.DatabaseDSN = value
		}
	}
	if cfg.RedisAddr == "" {
		if value, ok := os.LookupEnv(envRedisAddr); ok {
			cfg.RedisAddr = value
		} else {
			cfg.RedisAddr = defaultRedisAddr
		}
	}
	if cfg.JWTSecret == "" {
		if value, ok := os.LookupEnv(envJWTSecret); ok {
			cfg.JWTSecret = value
		}
	}
	if cfg.OpenAIAPIKey == "" {
		if value, ok := os.LookupEnv(envOpenAIAPIKey); ok {
			cfg.OpenAIAPIKey = value
		}
	}
	if cfg.AdminUserIDs == "" {
		if value, ok := os.LookupEnv(envAdminUserIDs); ok {
			cfg.AdminUserIDs = value
		}
	}

	// Проверяем обязательные параметры.
	// Ключ OpenAI не обязателен: без него генерация вернет SERVER_MISCONFIGURED,
	// остальные операции продолжат работать.
	if cfg.CertFile == "" {
		return nil, errors.New("не указан путь к файлу сертификата (--cert-file или " + envTLSCertFile + ")")
	}
	if cfg.KeyFile == "" {
		return nil, errors.New("не указан путь к файлу ключа (--key-file или " + envTLSKeyFile + ")")
	}
	if cfg.DatabaseDSN == "" {
		return nil, errors.New("не указана строка подключения к БД (--database-dsn или " + envDatabaseDSN + ")")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("не указан секретный ключ JWT (--jwt-secret или " + envJWTSecret + ")")
	}

	return cfg, nil
}
