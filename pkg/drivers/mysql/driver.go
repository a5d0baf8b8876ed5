// Package mysql - драйвер MySQL/MariaDB для конвейера выполнения команд.
package mysql

import (
	"errors"
	"fmt"
	"strings"

	gomysql "github.com/go-sql-driver/mysql"

	"github.com/ruslano69/sqlgate/pkg/drivers"
)

// Compile-time check: Driver должен реализовывать интерфейс drivers.Driver
var _ drivers.Driver = (*Driver)(nil)

// Коды временных ошибок MySQL
const (
	codeLockWaitTimeout = 1205 // ER_LOCK_WAIT_TIMEOUT
	codeDeadlock        = 1213 // ER_LOCK_DEADLOCK
)

// Регистрация драйвера в глобальной фабрике
func init() {
	drivers.Register("mysql", &Driver{})
}

// Driver реализует диалект MySQL (go-sql-driver/mysql)
type Driver struct{}

// Name возвращает тип СУБД
func (d *Driver) Name() string { return "mysql" }

// DriverName возвращает имя драйвера для sql.Open
func (d *Driver) DriverName() string { return "mysql" }

// Placeholder возвращает позиционный плейсхолдер
func (d *Driver) Placeholder(name string, ordinal int) string {
	return "?"
}

// BindsByName - MySQL принимает аргументы позиционно
func (d *Driver) BindsByName() bool { return false }

// QuoteIdentifier экранирует идентификатор обратными кавычками
func (d *Driver) QuoteIdentifier(identifier string) string {
	return fmt.Sprintf("`%s`", identifier)
}

// IsTransient классифицирует deadlock и lock wait timeout
// как временные ошибки по номеру ошибки сервера
func (d *Driver) IsTransient(err error) bool {
	var me *gomysql.MySQLError
	if !errors.As(err, &me) {
		return false
	}
	switch me.Number {
	case codeDeadlock, codeLockWaitTimeout:
		return true
	}
	return false
}

// ProcCall строит стандартный вызов процедуры CALL name(?, ?)
func (d *Driver) ProcCall(name string, args []string) string {
	return fmt.Sprintf("CALL %s(%s)", name, strings.Join(args, ", "))
}

// OutputClause - MySQL не использует OUTPUT
func (d *Driver) OutputClause() string { return "" }

// ReturningSuffix - MySQL не поддерживает RETURNING
func (d *Driver) ReturningSuffix() string { return "" }
