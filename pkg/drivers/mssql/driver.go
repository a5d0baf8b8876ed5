// Package mssql - драйвер Microsoft SQL Server для конвейера
// выполнения команд.
package mssql

import (
	"errors"
	"fmt"
	"strings"

	gomssql "github.com/denisenkom/go-mssqldb"

	"github.com/ruslano69/sqlgate/pkg/drivers"
)

// Compile-time check: Driver должен реализовывать интерфейс drivers.Driver
var _ drivers.Driver = (*Driver)(nil)

// codeDeadlockVictim - транзакция выбрана жертвой deadlock (ошибка 1205)
const codeDeadlockVictim = 1205

// Регистрация драйвера в глобальной фабрике
func init() {
	drivers.Register("mssql", &Driver{})
}

// Driver реализует диалект MS SQL Server (denisenkom/go-mssqldb)
type Driver struct{}

// Name возвращает тип СУБД
func (d *Driver) Name() string { return "mssql" }

// DriverName возвращает имя драйвера для sql.Open
func (d *Driver) DriverName() string { return "sqlserver" }

// Placeholder возвращает именованный плейсхолдер @name
func (d *Driver) Placeholder(name string, ordinal int) string {
	return "@" + name
}

// BindsByName - MS SQL требует sql.Named аргументы
func (d *Driver) BindsByName() bool { return true }

// QuoteIdentifier экранирует идентификатор квадратными скобками
func (d *Driver) QuoteIdentifier(identifier string) string {
	return fmt.Sprintf("[%s]", identifier)
}

// IsTransient классифицирует жертву deadlock (1205) как временную ошибку
func (d *Driver) IsTransient(err error) bool {
	var me gomssql.Error
	if !errors.As(err, &me) {
		return false
	}
	return me.Number == codeDeadlockVictim
}

// ProcCall строит T-SQL вызов процедуры: EXEC name @A = @A.
// Слева имя параметра процедуры, справа плейсхолдер; имена совпадают,
// поэтому плейсхолдер используется в обеих позициях.
func (d *Driver) ProcCall(name string, args []string) string {
	if len(args) == 0 {
		return "EXEC " + name
	}
	pairs := make([]string, len(args))
	for i, a := range args {
		pairs[i] = a + " = " + a
	}
	return fmt.Sprintf("EXEC %s %s", name, strings.Join(pairs, ", "))
}

// OutputClause возвращает OUTPUT INSERTED.* для возврата вставленной строки
func (d *Driver) OutputClause() string { return " OUTPUT INSERTED.*" }

// ReturningSuffix - MS SQL использует OUTPUT, не RETURNING
func (d *Driver) ReturningSuffix() string { return "" }
