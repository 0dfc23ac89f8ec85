// Package customer содержит HTTP клиент для customer сервиса.
package customer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/shestoi/GoOrderSync/internal/pkg/result"
)

// Info — данные покупателя из customer сервиса
type Info struct {
	CustomerName string `json:"customer_name"`
	Address      string `json:"address"`
	OrdersCount  int    `json:"orders_count"`
}

// Параметры retry: до 3 попыток на transient ошибках (timeout, connection
// failure) с экспоненциальным backoff от 0.5s и jitter ±50%
const (
	DefaultTimeout = 5 * time.Second

	maxAttempts    = 3
	initialBackoff = 500 * time.Millisecond
	backoffFactor  = 2
)

// errorBody — структурированное тело ошибки customer сервиса
type errorBody struct {
	Error string `json:"error"`
}

// Client — синхронный клиент customer сервиса с retry.
// Исход всегда возвращается как Result: транспортные ошибки после
// исчерпания retry-бюджета превращаются в failure, не в panic/error.
type Client struct {
	logger     *zap.Logger
	baseURL    string
	httpClient *http.Client

	// sleep подменяется в тестах, чтобы не ждать реальный backoff
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient создаёт новый клиент customer сервиса
// timeout применяется и к установке соединения, и к запросу целиком
func NewClient(logger *zap.Logger, baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: timeout,
		}).DialContext,
	}

	return &Client{
		logger:  logger,
		baseURL: baseURL,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		sleep: sleepCtx,
	}
}

// FetchCustomer получает покупателя по ID
// Retry только на транспортных ошибках; полученный HTTP ответ (включая 404) —
// терминальный исход без расхода retry-бюджета
func (c *Client) FetchCustomer(ctx context.Context, id int64) result.Result[Info] {
	var lastReason string

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			backoff := retryBackoff(attempt)
			c.logger.Info("retrying customer fetch",
				zap.Int64("customer_id", id),
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", maxAttempts),
				zap.Duration("backoff", backoff),
			)
			if err := c.sleep(ctx, backoff); err != nil {
				return result.Failure[Info](lastReason)
			}
		}

		res, transientErr := c.fetchOnce(ctx, id)
		if transientErr == nil {
			return res
		}

		lastReason = transientReason(transientErr)
		c.logger.Warn("customer fetch failed",
			zap.Error(transientErr),
			zap.Int64("customer_id", id),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", maxAttempts),
		)
	}

	return result.Failure[Info](lastReason)
}

// fetchOnce выполняет одну попытку запроса.
// Возвращает (result, nil) для терминального исхода и (_, err) для
// transient транспортной ошибки, подлежащей retry.
func (c *Client) fetchOnce(ctx context.Context, id int64) (result.Result[Info], error) {
	url := fmt.Sprintf("%s/api/v1/customers/%d", c.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		// Некорректный запрос retry не спасёт
		return result.Failure[Info](fmt.Sprintf("Unexpected error: %v", err)), nil
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return result.Result[Info]{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var info Info
		if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
			return result.Failure[Info](fmt.Sprintf("Unexpected error: %v", err)), nil
		}
		return result.Success(info), nil
	}

	// Не-2xx: поднимаем error из тела ответа как причину failure
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Error == "" {
		return result.Failure[Info]("Unknown error"), nil
	}

	return result.Failure[Info](body.Error), nil
}

// transientReason переводит транспортную ошибку в текст причины failure
func transientReason(err error) string {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "Connection timeout - customer service unavailable"
	}
	return "Connection failed - customer service unavailable"
}

// retryBackoff вычисляет интервал перед попыткой attempt (attempt ≥ 2):
// база 0.5s × 2^(attempt-2), jitter ±50% против retry storm
func retryBackoff(attempt int) time.Duration {
	base := initialBackoff
	for i := 2; i < attempt; i++ {
		base *= backoffFactor
	}
	jittered := float64(base) * (0.5 + rand.Float64())
	return time.Duration(jittered)
}

// sleepCtx ждёт указанное время или до отмены контекста
func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
