// Package odbc - универсальный ODBC драйвер для конвейера выполнения
// команд. Используется для СУБД без нативного Go драйвера.
package odbc

import (
	"errors"
	"fmt"
	"strings"

	goodbc "github.com/alexbrainman/odbc"

	"github.com/ruslano69/sqlgate/pkg/drivers"
)

// Compile-time check: Driver должен реализовывать интерфейс drivers.Driver
var _ drivers.Driver = (*Driver)(nil)

const (
	// stateSerializationFailure - стандартный SQLSTATE для deadlock/serialization
	stateSerializationFailure = "40001"
	// nativeDeadlockVictim - нативный код 1205 (SQL Server через ODBC)
	nativeDeadlockVictim = 1205
)

// Регистрация драйвера в глобальной фабрике
func init() {
	drivers.Register("odbc", &Driver{})
}

// Driver реализует обобщенный ODBC диалект (alexbrainman/odbc)
type Driver struct{}

// Name возвращает тип СУБД
func (d *Driver) Name() string { return "odbc" }

// DriverName возвращает имя драйвера для sql.Open
func (d *Driver) DriverName() string { return "odbc" }

// Placeholder возвращает позиционный плейсхолдер (единственная
// форма, которую гарантирует ODBC)
func (d *Driver) Placeholder(name string, ordinal int) string {
	return "?"
}

// BindsByName - ODBC принимает аргументы позиционно
func (d *Driver) BindsByName() bool { return false }

// QuoteIdentifier экранирует идентификатор двойными кавычками
// (стандарт SQL; конкретный DSN может требовать другого квотирования)
func (d *Driver) QuoteIdentifier(identifier string) string {
	return fmt.Sprintf("%q", identifier)
}

// IsTransient классифицирует временные ошибки по диагностическим
// записям ODBC: SQLSTATE 40001 или нативный код 1205
func (d *Driver) IsTransient(err error) bool {
	var oe *goodbc.Error
	if !errors.As(err, &oe) {
		return false
	}
	for _, rec := range oe.Diag {
		if rec.State == stateSerializationFailure || rec.NativeError == nativeDeadlockVictim {
			return true
		}
	}
	return false
}

// ProcCall строит канонический ODBC escape вызова процедуры
// {CALL name(?, ?)} - его понимает любой ODBC драйвер
func (d *Driver) ProcCall(name string, args []string) string {
	return fmt.Sprintf("{CALL %s(%s)}", name, strings.Join(args, ", "))
}

// OutputClause - обобщенный ODBC не возвращает вставленную строку
func (d *Driver) OutputClause() string { return "" }

// ReturningSuffix - обобщенный ODBC не возвращает вставленную строку
func (d *Driver) ReturningSuffix() string { return "" }
