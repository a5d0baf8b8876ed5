// Package sqlgen строит параметризованные INSERT/UPDATE/DELETE команды
// и вызовы хранимых процедур из имени таблицы и property bag'ов.
//
// Значения всегда привязываются параметрами. Единственное исключение -
// явный сырой фрагмент (bag.Raw или строка вида [[expr]]): его текст
// вставляется в запрос как есть, без параметра. Имена таблиц и колонок
// интерполируются в текст (идентификаторы не могут быть параметрами
// в стандартном SQL) - недоверенный ввод сюда передавать нельзя.
package sqlgen

import (
	"fmt"
	"strings"

	"github.com/ruslano69/sqlgate/pkg/bag"
	"github.com/ruslano69/sqlgate/pkg/dbx"
	"github.com/ruslano69/sqlgate/pkg/drivers"
)

// Insert строит INSERT INTO <table> (<cols>) VALUES (<vals>).
// Порядок колонок - порядок полей bag'а.
// Вставленная строка у движка НЕ запрашивается: если она нужна,
// используется InsertReturning (OUTPUT/RETURNING).
func Insert(d drivers.Driver, table string, values *bag.Bag) (*dbx.Command, error) {
	return buildInsert(d, table, values, false)
}

// InsertReturning строит INSERT с возвратом вставленной строки
// (OUTPUT INSERTED.* для MS SQL, RETURNING * для PostgreSQL/SQLite).
// Для диалектов без такой возможности команда совпадает с Insert.
func InsertReturning(d drivers.Driver, table string, values *bag.Bag) (*dbx.Command, error) {
	return buildInsert(d, table, values, true)
}

func buildInsert(d drivers.Driver, table string, values *bag.Bag, returning bool) (*dbx.Command, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	if values == nil || values.Len() == 0 {
		return nil, fmt.Errorf("%w: insert values are empty", dbx.ErrInvalidArgument)
	}

	cmd := &dbx.Command{}
	cols := make([]string, 0, values.Len())
	vals := make([]string, 0, values.Len())

	for _, p := range values.Pairs() {
		cols = append(cols, d.QuoteIdentifier(p.Name))
		vals = append(vals, valueExpr(d, cmd, p))
	}

	output, suffix := "", ""
	if returning {
		output = d.OutputClause()
		suffix = d.ReturningSuffix()
	}

	cmd.Text = fmt.Sprintf("INSERT INTO %s (%s)%s VALUES (%s)%s",
		d.QuoteIdentifier(table),
		strings.Join(cols, ", "),
		output,
		strings.Join(vals, ", "),
		suffix,
	)
	return cmd, nil
}

// Update строит UPDATE <table> SET ... с WHERE по ключу.
// Nil ключ означает обновление ВСЕЙ таблицы - WHERE не строится.
func Update(d drivers.Driver, table string, set *bag.Bag, key *bag.Bag) (*dbx.Command, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	if set == nil || set.Len() == 0 {
		return nil, fmt.Errorf("%w: update set is empty", dbx.ErrInvalidArgument)
	}

	cmd := &dbx.Command{}
	assigns := make([]string, 0, set.Len())
	for _, p := range set.Pairs() {
		assigns = append(assigns, fmt.Sprintf("%s = %s",
			d.QuoteIdentifier(p.Name), valueExpr(d, cmd, p)))
	}

	cmd.Text = fmt.Sprintf("UPDATE %s SET %s%s",
		d.QuoteIdentifier(table),
		strings.Join(assigns, ", "),
		whereClause(d, cmd, key),
	)
	return cmd, nil
}

// Delete строит DELETE FROM <table> с WHERE по ключу.
// Nil ключ означает удаление ВСЕХ строк - WHERE не строится.
func Delete(d drivers.Driver, table string, key *bag.Bag) (*dbx.Command, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}

	cmd := &dbx.Command{}
	cmd.Text = fmt.Sprintf("DELETE FROM %s%s",
		d.QuoteIdentifier(table), whereClause(d, cmd, key))
	return cmd, nil
}

// Proc строит вызов хранимой процедуры в синтаксисе диалекта
// (EXEC для MS SQL, {CALL ...} для ODBC, CALL для остальных).
// Параметры всегда привязываются, сырые фрагменты НЕ распознаются.
func Proc(d drivers.Driver, name string, args *bag.Bag) (*dbx.Command, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: procedure name is empty", dbx.ErrInvalidArgument)
	}

	cmd := &dbx.Command{}
	params := make([]string, 0)
	if args != nil {
		for i, p := range args.Pairs() {
			cmd.Bind(p.Name, p.Value)
			params = append(params, d.Placeholder(p.Name, i+1))
		}
	}

	cmd.Text = d.ProcCall(name, params)
	return cmd, nil
}

// whereClause строит " WHERE f1 = v1 AND f2 = v2" из ключа.
// Для nil/пустого ключа возвращает "" - вызывающий код осознанно
// затрагивает всю таблицу, защиты от этого нет.
func whereClause(d drivers.Driver, cmd *dbx.Command, key *bag.Bag) string {
	if key == nil || key.Len() == 0 {
		return ""
	}
	conds := make([]string, 0, key.Len())
	for _, p := range key.Pairs() {
		conds = append(conds, fmt.Sprintf("%s = %s",
			d.QuoteIdentifier(p.Name), valueExpr(d, cmd, p)))
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

// valueExpr возвращает выражение значения: сырой SQL фрагмент
// вставляется как есть, любое другое значение привязывается
// именованным параметром
func valueExpr(d drivers.Driver, cmd *dbx.Command, p bag.Pair) string {
	if raw, ok := bag.AsRaw(p.Value); ok {
		return raw
	}
	name := uniqueParamName(cmd, p.Name)
	cmd.Bind(name, p.Value)
	return d.Placeholder(name, len(cmd.Params))
}

// uniqueParamName избегает конфликта имен параметров, когда одно
// поле встречается и в SET, и в WHERE (важно для именованной
// привязки MS SQL)
func uniqueParamName(cmd *dbx.Command, base string) string {
	name := base
	for n := 2; hasParam(cmd, name); n++ {
		name = fmt.Sprintf("%s%d", base, n)
	}
	return name
}

func hasParam(cmd *dbx.Command, name string) bool {
	for _, p := range cmd.Params {
		if p.Name == name {
			return true
		}
	}
	return false
}

func checkTable(table string) error {
	if table == "" {
		return fmt.Errorf("%w: table name is empty", dbx.ErrInvalidArgument)
	}
	return nil
}
