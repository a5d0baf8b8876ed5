package audit

import (
	"context"
	"fmt"

	"github.com/ruslano69/sqlgate/pkg/bag"
	"github.com/ruslano69/sqlgate/pkg/dbx"
	"github.com/ruslano69/sqlgate/pkg/sqlgen"
)

// DatabaseAppender - запись журнала в таблицу БД через тот же фасад.
// Handle журнала должен быть отдельным от handle приложения, иначе
// записи журнала начнут конкурировать за соединение с основными
// операциями.
type DatabaseAppender struct {
	db        *dbx.DB
	tableName string
}

// DatabaseAppenderConfig - конфигурация database appender
type DatabaseAppenderConfig struct {
	// DB - handle для записи журнала
	DB *dbx.DB

	// TableName - имя таблицы журнала (по умолчанию audit_log)
	TableName string
}

// NewDatabaseAppender создает database appender
func NewDatabaseAppender(config DatabaseAppenderConfig) (*DatabaseAppender, error) {
	if config.DB == nil {
		return nil, fmt.Errorf("database handle is required")
	}
	if config.TableName == "" {
		config.TableName = "audit_log"
	}
	return &DatabaseAppender{db: config.DB, tableName: config.TableName}, nil
}

// Append вставляет entry в таблицу журнала
func (da *DatabaseAppender) Append(ctx context.Context, entry *Entry) error {
	values := bag.New().
		Add("ts", entry.Timestamp).
		Add("operation", string(entry.Operation)).
		Add("status", string(entry.Status)).
		Add("table_name", entry.Table).
		Add("duration_ns", int64(entry.Duration)).
		Add("rows", entry.Rows).
		Add("attempts", entry.Attempts).
		Add("error", entry.Error)

	cmd, err := sqlgen.Insert(da.db.Driver(), da.tableName, values)
	if err != nil {
		return err
	}
	if _, err := da.db.Exec(ctx, cmd); err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}

// Flush - запись не буферизуется
func (da *DatabaseAppender) Flush() error { return nil }

// Close - handle журнала закрывает его владелец
func (da *DatabaseAppender) Close() error { return nil }
