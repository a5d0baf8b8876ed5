// Package sqlite - драйвер SQLite для конвейера выполнения команд.
package sqlite

import (
	"errors"
	"fmt"
	"strings"

	sqlite3 "modernc.org/sqlite"

	"github.com/ruslano69/sqlgate/pkg/drivers"
)

// Compile-time check: Driver должен реализовывать интерфейс drivers.Driver
var _ drivers.Driver = (*Driver)(nil)

// Коды временных ошибок SQLite
const (
	codeBusy   = 5 // SQLITE_BUSY - база заблокирована другим соединением
	codeLocked = 6 // SQLITE_LOCKED - таблица заблокирована в этом соединении
)

// Регистрация драйвера в глобальной фабрике
func init() {
	drivers.Register("sqlite", &Driver{})
}

// Driver реализует диалект SQLite (modernc.org/sqlite, без cgo)
type Driver struct{}

// Name возвращает тип СУБД
func (d *Driver) Name() string { return "sqlite" }

// DriverName возвращает имя драйвера для sql.Open
func (d *Driver) DriverName() string { return "sqlite" }

// Placeholder возвращает позиционный плейсхолдер
func (d *Driver) Placeholder(name string, ordinal int) string {
	return "?"
}

// BindsByName - SQLite принимает аргументы позиционно
func (d *Driver) BindsByName() bool { return false }

// QuoteIdentifier экранирует идентификатор двойными кавычками
func (d *Driver) QuoteIdentifier(identifier string) string {
	return fmt.Sprintf("%q", identifier)
}

// IsTransient классифицирует SQLITE_BUSY/SQLITE_LOCKED как временные
func (d *Driver) IsTransient(err error) bool {
	var se *sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	// Сравниваем primary код (младший байт расширенного кода)
	switch se.Code() & 0xff {
	case codeBusy, codeLocked:
		return true
	}
	return false
}

// ProcCall строит стандартный вызов CALL name(?, ?).
// SQLite не имеет хранимых процедур - текст дойдет до движка и
// вернется его ошибкой.
func (d *Driver) ProcCall(name string, args []string) string {
	return fmt.Sprintf("CALL %s(%s)", name, strings.Join(args, ", "))
}

// OutputClause - SQLite не использует OUTPUT
func (d *Driver) OutputClause() string { return "" }

// ReturningSuffix - SQLite поддерживает RETURNING с версии 3.35
func (d *Driver) ReturningSuffix() string { return " RETURNING *" }
