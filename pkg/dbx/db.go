// Package dbx - управляемый фасад доступа к БД.
//
// Каждый вызов к базе проходит через единый конвейер выполнения команд:
// привязка команды к соединению и активной транзакции, выполнение,
// классификация ошибок, повтор временных сбоев и отвязка команды.
//
// Handle владеет ровно одним живым соединением и НЕ безопасен для
// конкурентного использования без внешней синхронизации.
package dbx

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/ruslano69/sqlgate/pkg/drivers"
)

// DefaultRetryAttempts - количество повторов временных ошибок
// по умолчанию (повторов, не попыток: 1 повтор = максимум 2 попытки)
const DefaultRetryAttempts = 1

// Options - настройки handle.
// Значение передается явно при создании: скрытых process-wide
// умолчаний нет.
type Options struct {
	// RetryAttempts - количество повторов для временных ошибок:
	//   0  - использовать DefaultRetryAttempts
	//   <0 - повторы отключены
	RetryAttempts int
}

// DefaultOptions возвращает настройки по умолчанию
func DefaultOptions() Options {
	return Options{RetryAttempts: DefaultRetryAttempts}
}

// DB - handle базы данных. Лениво владеет одним соединением,
// держит ссылку на активную транзакцию и настройку retry.
type DB struct {
	driver drivers.Driver
	dsn    string
	opts   Options

	mu     sync.Mutex
	sqldb  *sql.DB
	conn   *sql.Conn
	tx     *Tx
	closed bool
}

// New создает handle. Соединение НЕ открывается до первого обращения.
func New(d drivers.Driver, dsn string, opts Options) (*DB, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: driver is nil", ErrInvalidArgument)
	}
	if dsn == "" {
		return nil, fmt.Errorf("%w: connection string is empty", ErrInvalidArgument)
	}
	return &DB{driver: d, dsn: dsn, opts: opts}, nil
}

// Open создает handle по типу БД из глобальной фабрики драйверов
func Open(dbType, dsn string, opts Options) (*DB, error) {
	d, err := drivers.Get(dbType)
	if err != nil {
		return nil, err
	}
	return New(d, dsn, opts)
}

// Driver возвращает драйвер handle
func (d *DB) Driver() drivers.Driver {
	return d.driver
}

// retryAttempts возвращает эффективное количество повторов
func (d *DB) retryAttempts() int {
	switch {
	case d.opts.RetryAttempts < 0:
		return 0
	case d.opts.RetryAttempts == 0:
		return DefaultRetryAttempts
	default:
		return d.opts.RetryAttempts
	}
}

// Conn возвращает соединение handle, открывая его при первом обращении.
// Для одного handle всегда возвращается одно и то же соединение.
// После Close возвращает ErrClosed, а не переподключается.
func (d *DB) Conn(ctx context.Context) (*sql.Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.connLocked(ctx)
}

func (d *DB) connLocked(ctx context.Context) (*sql.Conn, error) {
	if d.closed || d.dsn == "" {
		return nil, ErrClosed
	}
	if d.conn != nil {
		return d.conn, nil
	}

	if d.sqldb == nil {
		sqldb, err := sql.Open(d.driver.DriverName(), d.dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		d.sqldb = sqldb
	}

	conn, err := d.sqldb.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	d.conn = conn
	return d.conn, nil
}

// Ping проверяет доступность БД через соединение handle
func (d *DB) Ping(ctx context.Context) error {
	conn, err := d.Conn(ctx)
	if err != nil {
		return err
	}
	return conn.PingContext(ctx)
}

// ResetConnection закрывает текущее соединение; следующее обращение
// откроет новое. Недопустимо при активной транзакции.
func (d *DB) ResetConnection() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	if d.tx != nil && d.tx.Active() {
		return fmt.Errorf("cannot reset connection: %w", ErrTxActive)
	}
	if d.conn != nil {
		err := d.conn.Close()
		d.conn = nil
		if err != nil {
			return fmt.Errorf("failed to close connection: %w", err)
		}
	}
	return nil
}

// Close закрывает соединение и очищает строку подключения, после
// чего любое обращение к handle детерминированно завершается
// ошибкой ErrClosed. Повторные вызовы безопасны.
// Незавершенная транзакция откатывается.
func (d *DB) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}

	var firstErr error
	if d.tx != nil && d.tx.Active() {
		if err := d.tx.rollbackLocked(); err != nil {
			firstErr = err
		}
		d.tx = nil
	}
	if d.conn != nil {
		if err := d.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		d.conn = nil
	}
	if d.sqldb != nil {
		if err := d.sqldb.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		d.sqldb = nil
	}

	d.dsn = ""
	d.closed = true
	return firstErr
}
