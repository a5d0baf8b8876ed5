package audit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ruslano69/sqlgate/pkg/dbx"
)

// Appender - приемник записей журнала
type Appender interface {
	Append(ctx context.Context, entry *Entry) error
	Flush() error
	Close() error
}

// Logger рассылает записи по всем appender'ам.
// Безопасен для конкурентного использования.
type Logger struct {
	mu        sync.Mutex
	appenders []Appender
	onError   func(error)
}

// NewLogger создает журнал с набором appender'ов
func NewLogger(appenders ...Appender) *Logger {
	return &Logger{appenders: appenders}
}

// OnError устанавливает callback для ошибок записи.
// Без callback'а ошибки appender'ов молча игнорируются, чтобы сбой
// журнала не ломал основную операцию.
func (l *Logger) OnError(fn func(error)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onError = fn
}

// Log записывает entry во все appender'ы
func (l *Logger) Log(ctx context.Context, entry *Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, a := range l.appenders {
		if err := a.Append(ctx, entry); err != nil && l.onError != nil {
			l.onError(fmt.Errorf("audit append failed: %w", err))
		}
	}
}

// LogOperation выполняет fn и записывает результат с длительностью
func (l *Logger) LogOperation(ctx context.Context, op Operation, table string, fn func() (int64, error)) error {
	entry := NewEntry(op, table)
	start := time.Now()

	rows, err := fn()
	entry.Duration = time.Since(start)
	entry.Rows = rows
	if err != nil {
		entry.Fail(err)
	}

	l.Log(ctx, entry)
	return err
}

// LogCommand - LogOperation для заранее построенной команды: после
// выполнения fn в запись попадает количество попыток конвейера
// (cmd.Attempts, больше 1 при retry временных ошибок)
func (l *Logger) LogCommand(ctx context.Context, op Operation, table string, cmd *dbx.Command, fn func() (int64, error)) error {
	entry := NewEntry(op, table)
	start := time.Now()

	rows, err := fn()
	entry.Duration = time.Since(start)
	entry.Rows = rows
	entry.Attempts = cmd.Attempts
	if err != nil {
		entry.Fail(err)
	}

	l.Log(ctx, entry)
	return err
}

// Flush сбрасывает буферы всех appender'ов
func (l *Logger) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var firstErr error
	for _, a := range l.appenders {
		if err := a.Flush(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Close закрывает все appender'ы
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var firstErr error
	for _, a := range l.appenders {
		if err := a.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
