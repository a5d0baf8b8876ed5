package audit

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisAppender публикует записи журнала в Redis список с ограничением
// длины (LPUSH + LTRIM). Удобен для внешнего мониторинга операций
// без доступа к файлам или таблице журнала.
type RedisAppender struct {
	client *redis.Client
	key    string
	maxLen int64
}

// RedisAppenderConfig - конфигурация redis appender
type RedisAppenderConfig struct {
	// Address - адрес Redis (host:port)
	Address string

	// Password - пароль (опционально)
	Password string

	// DB - номер базы Redis
	DB int

	// Key - ключ списка (по умолчанию sqlgate:audit)
	Key string

	// MaxLen - максимальная длина списка (0 = 10000)
	MaxLen int64
}

// NewRedisAppender создает redis appender
func NewRedisAppender(config RedisAppenderConfig) *RedisAppender {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Address,
		Password: config.Password,
		DB:       config.DB,
	})

	key := config.Key
	if key == "" {
		key = "sqlgate:audit"
	}
	maxLen := config.MaxLen
	if maxLen == 0 {
		maxLen = 10000
	}

	return &RedisAppender{client: client, key: key, maxLen: maxLen}
}

// Append публикует entry в список журнала
func (ra *RedisAppender) Append(ctx context.Context, entry *Entry) error {
	data, err := entry.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}

	pipe := ra.client.Pipeline()
	pipe.LPush(ctx, ra.key, data)
	pipe.LTrim(ctx, ra.key, 0, ra.maxLen-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to publish entry to redis: %w", err)
	}
	return nil
}

// Flush - записи не буферизуются
func (ra *RedisAppender) Flush() error { return nil }

// Close закрывает подключение к Redis
func (ra *RedisAppender) Close() error {
	return ra.client.Close()
}
