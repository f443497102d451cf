package wildberries

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/athebyme/wbcard-sync/internal/domain/mapper"
	"github.com/athebyme/wbcard-sync/pkg/interfaces"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	// DefaultAPIURL — боевой хост Wildberries Content API
	DefaultAPIURL = "https://content-api.wildberries.ru"

	cardsUpdatePath = "/content/v2/cards/update"

	// Лимит Wildberries на методы контента: 70 запросов в минуту
	defaultRequestsPerMinute = 70

	defaultTimeout = 30 * time.Second
)

// Config описывает подключение к Wildberries API
type Config struct {
	// APIURL — базовый адрес API. Пустое значение — DefaultAPIURL.
	APIURL string

	// Tokens — токены авторизации по идентификатору профиля
	Tokens map[uuid.UUID]string

	// RequestsPerMinute — лимит исходящих запросов.
	// Ноль или меньше — defaultRequestsPerMinute.
	RequestsPerMinute int

	// Timeout — таймаут одного HTTP-запроса
	Timeout time.Duration
}

// Client отправляет карточки товаров в Wildberries Content API.
// Исходящие запросы ограничены общим лимитером, чтобы не упереться
// в лимит маркетплейса при потоке сообщений.
type Client struct {
	baseURL    string
	tokens     map[uuid.UUID]string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     interfaces.LoggerPort
}

// NewClient создает клиент Wildberries API
func NewClient(cfg Config, logger interfaces.LoggerPort) *Client {
	baseURL := cfg.APIURL
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}

	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = defaultRequestsPerMinute
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:    baseURL,
		tokens:     cfg.Tokens,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1),
		logger:     logger,
	}
}

// Update отправляет карточки на обновление.
// Возвращает false при любом сбое отправки; сбой логируется здесь же
// и не эскалируется — карточка уйдет со следующим обновлением товара.
func (c *Client) Update(ctx context.Context, profile uuid.UUID, payloads []mapper.Payload) bool {
	token, ok := c.tokens[profile]
	if !ok {
		c.logger.ErrorWithContext(ctx, "Не найден токен Wildberries для профиля",
			interfaces.LogField{Key: "profile", Value: profile.String()},
		)
		return false
	}

	if err := c.limiter.Wait(ctx); err != nil {
		c.logger.WarnWithContext(ctx, "Отправка карточки прервана ожиданием лимита",
			interfaces.LogField{Key: "profile", Value: profile.String()},
			interfaces.LogField{Key: "error", Value: err.Error()},
		)
		return false
	}

	body, err := json.Marshal(payloads)
	if err != nil {
		c.logger.ErrorWithContext(ctx, "Не удалось сериализовать карточки для отправки",
			interfaces.LogField{Key: "profile", Value: profile.String()},
			interfaces.LogField{Key: "error", Value: err.Error()},
		)
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+cardsUpdatePath, bytes.NewReader(body))
	if err != nil {
		c.logger.ErrorWithContext(ctx, "Не удалось создать запрос к Wildberries API",
			interfaces.LogField{Key: "error", Value: err.Error()},
		)
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.ErrorWithContext(ctx, "Ошибка запроса к Wildberries API",
			interfaces.LogField{Key: "profile", Value: profile.String()},
			interfaces.LogField{Key: "error", Value: err.Error()},
		)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.ErrorWithContext(ctx, "Wildberries API отклонил обновление карточки",
			interfaces.LogField{Key: "profile", Value: profile.String()},
			interfaces.LogField{Key: "status", Value: resp.StatusCode},
			interfaces.LogField{Key: "response", Value: string(respBody)},
		)
		return false
	}

	return true
}

// Ping проверяет доступность API методом ping без авторизации
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/ping", nil)
	if err != nil {
		return fmt.Errorf("failed to create ping request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to ping wildberries api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("wildberries api ping returned status %d", resp.StatusCode)
	}

	return nil
}
