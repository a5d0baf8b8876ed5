package dbx

import (
	"context"
	"database/sql"
)

// Runner - исполнитель SQL команды. Реализуется *sql.Conn и *sql.Tx.
// Конвейер назначает runner команде перед выполнением; вызывающий код
// может назначить его явно, если сам управляет транзакцией.
type Runner interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Param - именованный параметр команды
type Param struct {
	Name  string
	Value any
}

// Command - SQL команда: текст запроса плюс упорядоченный список
// именованных параметров. Создается заново на каждую операцию.
//
// Поле Runner обычно пусто - конвейер сам подставляет соединение
// handle и активную транзакцию, и отвязывает их после выполнения.
// Явно назначенный Runner конвейер не трогает и не отвязывает.
type Command struct {
	// Text - текст SQL запроса с плейсхолдерами диалекта
	Text string

	// Params - параметры в порядке появления плейсхолдеров
	Params []Param

	// Runner - явно назначенное соединение/транзакция (опционально).
	// Если назначен *sql.Tx, retry для команды отключается.
	Runner Runner

	// Attempts - количество попыток, выполненных конвейером при
	// последнем запуске команды (больше 1 при retry).
	// Заполняется ExecuteCommand.
	Attempts int
}

// NewCommand создает команду
func NewCommand(text string, params ...Param) *Command {
	return &Command{Text: text, Params: params}
}

// Bind добавляет параметр и возвращает команду (для цепочек)
func (c *Command) Bind(name string, value any) *Command {
	c.Params = append(c.Params, Param{Name: name, Value: value})
	return c
}

// args возвращает аргументы для database/sql.
// При byName=true (MS SQL) параметры оборачиваются в sql.Named,
// иначе передаются позиционно в порядке списка.
func (c *Command) args(byName bool) []any {
	if len(c.Params) == 0 {
		return nil
	}
	out := make([]any, 0, len(c.Params))
	for _, p := range c.Params {
		if byName {
			out = append(out, sql.Named(p.Name, p.Value))
		} else {
			out = append(out, p.Value)
		}
	}
	return out
}
