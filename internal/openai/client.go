// Package openai содержит клиент OpenAI Chat Completions API для генерации
// содержимого карточек. Выполняется ровно одна попытка с жестким дедлайном,
// повторы на этом уровне не делаются.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hancards/server/internal/models"
)

const (
	defaultBaseURL = "https://api.openai.com/v1/chat/completions"
	model          = "gpt-4o-mini"
	temperature    = 0.2

	// Жесткий дедлайн одного вызова. По его истечении запрос прерывается.
	defaultTimeout = 10 * time.Second

	systemPrompt = "You produce concise JSON only. No extra text."
)

// Ошибки клиента.
var (
	// ErrMissingAPIKey — не задан ключ API (ошибка конфигурации сервера).
	ErrMissingAPIKey = errors.New("не задан OPENAI_API_KEY")
	// ErrNoContent — успешный ответ без ожидаемого содержимого сообщения.
	ErrNoContent = errors.New("в ответе OpenAI отсутствует содержимое сообщения")
	// ErrInvalidResponse — содержимое не парсится как JSON или не проходит схему.
	ErrInvalidResponse = errors.New("ответ OpenAI не соответствует ожидаемой схеме")
)

// APIError представляет неуспешный HTTP-статус от OpenAI.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("OpenAI вернул статус %d: %s", e.StatusCode, e.Body)
}

// Client выполняет запросы к Chat Completions API.
type Client struct {
	apiKey     string
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// NewClient создает новый клиент OpenAI.
// Пустой apiKey допустим: ошибка конфигурации вернется при первом вызове.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		timeout:    defaultTimeout,
		httpClient: &http.Client{},
	}
}

// Структуры запроса и ответа Chat Completions API.
type chatRequest struct {
	Model          string         `json:"model"`
	Temperature    float64        `json:"temperature"`
	Messages       []chatMessage  `json:"messages"`
	ResponseFormat responseFormat `json:"response_format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerateCardContent запрашивает у модели содержимое карточки для слова
// и валидирует полученный JSON-объект.
func (c *Client) GenerateCardContent(ctx context.Context, word string) (*models.CardContent, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	reqBody := chatRequest{
		Model:       model,
		Temperature: temperature,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt(word)},
		},
		ResponseFormat: responseFormat{Type: "json_object"},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации запроса: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания HTTP-запроса: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// Сетевая ошибка или истекший дедлайн
		return nil, fmt.Errorf("ошибка вызова OpenAI: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ответа OpenAI: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var chatResp chatResponse
	if err = json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, fmt.Errorf("ошибка разбора ответа OpenAI: %w", err)
	}
	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == "" {
		return nil, ErrNoContent
	}

	var content models.CardContent
	if err = json.Unmarshal([]byte(chatResp.Choices[0].Message.Content), &content); err != nil {
		return nil, fmt.Errorf("%w: содержимое не является корректным JSON", ErrInvalidResponse)
	}
	if err = validateContent(&content); err != nil {
		return nil, err
	}

	return &content, nil
}

// userPrompt формирует инструкцию с точной требуемой формой JSON.
func userPrompt(word string) string {
	return "Create a Chinese study card as compact JSON with keys: " +
		"translation (string), characterBreakdown (array of strings), " +
		"exampleSentences (array of exactly 3 strings). " +
		"Use simplified characters and concise English in translation. " +
		"Original word: " + word
}

// validateContent проверяет содержимое по фиксированной схеме:
// непустой перевод, непустой разбор по иероглифам, ровно 3 непустых примера.
func validateContent(content *models.CardContent) error {
	if strings.TrimSpace(content.Translation) == "" {
		return fmt.Errorf("%w: пустое поле translation", ErrInvalidResponse)
	}
	if len(content.CharacterBreakdown) == 0 {
		return fmt.Errorf("%w: пустой characterBreakdown", ErrInvalidResponse)
	}
	for _, part := range content.CharacterBreakdown {
		if strings.TrimSpace(part) == "" {
			return fmt.Errorf("%w: пустой элемент characterBreakdown", ErrInvalidResponse)
		}
	}
	if len(content.ExampleSentences) != 3 {
		return fmt.Errorf("%w: ожидается ровно 3 примера, получено %d",
			ErrInvalidResponse, len(content.ExampleSentences))
	}
	for _, sentence := range content.ExampleSentences {
		if strings.TrimSpace(sentence) == "" {
			return fmt.Errorf("%w: пустой пример предложения", ErrInvalidResponse)
		}
	}
	return nil
}
