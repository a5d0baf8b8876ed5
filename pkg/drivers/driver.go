// Package drivers определяет capability-интерфейс драйвера СУБД.
// Конвейер выполнения команд работает только через этот интерфейс,
// поэтому за ним можно подставить любую СУБД.
package drivers

// Driver - интерфейс диалекта СУБД.
// Каждый конкретный драйвер (sqlite, postgres, mysql, mssql, odbc)
// реализует этот интерфейс и регистрируется в глобальной фабрике.
type Driver interface {
	// Name возвращает тип СУБД: "sqlite", "postgres", "mysql", "mssql", "odbc"
	Name() string

	// DriverName возвращает имя драйвера для database/sql (sql.Open)
	DriverName() string

	// Placeholder возвращает плейсхолдер параметра в тексте запроса.
	// name - имя параметра, ordinal - порядковый номер начиная с 1.
	//   PostgreSQL: "$1"
	//   MS SQL:     "@name"
	//   MySQL:      "?"
	//   SQLite:     "?"
	Placeholder(name string, ordinal int) string

	// BindsByName сообщает нужно ли передавать аргументы как sql.Named
	// (true для MS SQL), или позиционно в порядке параметров
	BindsByName() bool

	// QuoteIdentifier экранирует имя таблицы/колонки.
	//   PostgreSQL/SQLite: "name"
	//   MySQL:             `name`
	//   MS SQL:            [name]
	QuoteIdentifier(identifier string) string

	// IsTransient классифицирует ошибку как временную (deadlock и
	// подобные), которую безопасно повторить вне транзакции.
	// Классификация ведется по кодам ошибок драйвера, не по тексту.
	IsTransient(err error) bool

	// ProcCall возвращает текст вызова хранимой процедуры. args - уже
	// готовые плейсхолдеры аргументов в порядке привязки.
	//   MS SQL:  EXEC name @A = @A, @B = @B  (T-SQL не знает CALL)
	//   ODBC:    {CALL name(?, ?)}           (канонический escape ODBC)
	//   прочие:  CALL name($1, $2) / CALL name(?, ?)
	ProcCall(name string, args []string) string

	// OutputClause возвращает фрагмент между списком колонок и VALUES
	// для возврата вставленной строки (" OUTPUT INSERTED.*" для MS SQL,
	// "" для остальных)
	OutputClause() string

	// ReturningSuffix возвращает суффикс INSERT для возврата вставленной
	// строки (" RETURNING *" для PostgreSQL/SQLite, "" для остальных)
	ReturningSuffix() string
}
