// Package bag конвертирует произвольные значения в упорядоченный
// property bag "имя поля -> значение" для построителя SQL выражений.
package bag

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/ruslano69/sqlgate/pkg/record"
)

// Pair - одно поле bag'а
type Pair struct {
	Name  string
	Value any
}

// Bag - упорядоченный набор пар "имя -> значение".
// Создается один раз на операцию и сразу потребляется построителем SQL.
type Bag struct {
	pairs []Pair
}

// New создает пустой bag
func New() *Bag {
	return &Bag{}
}

// Add добавляет пару в конец bag'а и возвращает bag (для цепочек)
func (b *Bag) Add(name string, value any) *Bag {
	b.pairs = append(b.pairs, Pair{Name: name, Value: value})
	return b
}

// Len возвращает количество пар
func (b *Bag) Len() int {
	return len(b.pairs)
}

// Pairs возвращает пары в порядке добавления
func (b *Bag) Pairs() []Pair {
	return b.pairs
}

// Get возвращает значение по имени (регистронезависимо)
func (b *Bag) Get(name string) (any, bool) {
	for _, p := range b.pairs {
		if strings.EqualFold(p.Name, name) {
			return p.Value, true
		}
	}
	return nil, false
}

// FromMap создает bag из map. Ключи сортируются для
// детерминированного порядка колонок.
func FromMap(m map[string]any) *Bag {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b := New()
	for _, k := range keys {
		b.Add(k, m[k])
	}
	return b
}

// FromStruct создает bag из структуры по экспортируемым полям.
// Имя колонки берется из тега `db:"..."`, поля с `db:"-"` пропускаются,
// без тега используется имя поля. Порядок - порядок объявления полей.
func FromStruct(v any) (*Bag, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("nil struct pointer")
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("expected struct, got %s", rv.Kind())
	}

	b := New()
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("db"); ok {
			if tag == "-" {
				continue
			}
			// Отрезаем опции тега вида `db:"name,omitempty"`
			if idx := strings.Index(tag, ","); idx >= 0 {
				tag = tag[:idx]
			}
			if tag != "" {
				name = tag
			}
		}
		b.Add(name, rv.Field(i).Interface())
	}
	return b, nil
}

// FromRecord создает bag из динамической записи
func FromRecord(r *record.Record) *Bag {
	b := New()
	for _, f := range r.Fields() {
		b.Add(f.Name, f.Value.Any())
	}
	return b
}

// From конвертирует произвольное входное значение в bag:
//   - nil          -> nil (ключ отсутствует, WHERE не строится)
//   - *Bag         -> как есть
//   - *Record      -> FromRecord
//   - map[string]any -> FromMap
//   - структура    -> FromStruct
//   - скаляр       -> одно поле "Value"
func From(v any) (*Bag, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case *Bag:
		return x, nil
	case Bag:
		return &x, nil
	case *record.Record:
		return FromRecord(x), nil
	case map[string]any:
		return FromMap(x), nil
	case Raw:
		return New().Add("Value", x), nil
	case time.Time:
		return New().Add("Value", x), nil
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Struct {
		return FromStruct(rv.Interface())
	}

	// Скаляр - одно безымянное поле
	return New().Add("Value", v), nil
}
