// Package postgres - драйвер PostgreSQL для конвейера выполнения команд.
package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // database/sql драйвер "pgx"

	"github.com/ruslano69/sqlgate/pkg/drivers"
)

// Compile-time check: Driver должен реализовывать интерфейс drivers.Driver
var _ drivers.Driver = (*Driver)(nil)

// SQLSTATE коды временных ошибок PostgreSQL
const (
	codeSerializationFailure = "40001" // serialization_failure
	codeDeadlockDetected     = "40P01" // deadlock_detected
)

// Регистрация драйвера в глобальной фабрике
func init() {
	drivers.Register("postgres", &Driver{})
}

// Driver реализует диалект PostgreSQL (jackc/pgx через database/sql)
type Driver struct{}

// Name возвращает тип СУБД
func (d *Driver) Name() string { return "postgres" }

// DriverName возвращает имя драйвера для sql.Open
func (d *Driver) DriverName() string { return "pgx" }

// Placeholder возвращает нумерованный плейсхолдер $N
func (d *Driver) Placeholder(name string, ordinal int) string {
	return fmt.Sprintf("$%d", ordinal)
}

// BindsByName - PostgreSQL принимает аргументы позиционно
func (d *Driver) BindsByName() bool { return false }

// QuoteIdentifier экранирует идентификатор двойными кавычками
func (d *Driver) QuoteIdentifier(identifier string) string {
	return fmt.Sprintf("%q", identifier)
}

// IsTransient классифицирует deadlock и serialization failure
// как временные ошибки по SQLSTATE коду
func (d *Driver) IsTransient(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case codeSerializationFailure, codeDeadlockDetected:
		return true
	}
	return false
}

// ProcCall строит стандартный вызов процедуры CALL name($1, $2)
func (d *Driver) ProcCall(name string, args []string) string {
	return fmt.Sprintf("CALL %s(%s)", name, strings.Join(args, ", "))
}

// OutputClause - PostgreSQL не использует OUTPUT
func (d *Driver) OutputClause() string { return "" }

// ReturningSuffix возвращает RETURNING для возврата вставленной строки
func (d *Driver) ReturningSuffix() string { return " RETURNING *" }
