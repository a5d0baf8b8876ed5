package dbx

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/ruslano69/sqlgate/pkg/record"
)

// Loader - пользовательский загрузчик строки. Полностью заменяет
// маппинг по именам колонок и получает сырую строку результата.
type Loader[T any] func(rows *sql.Rows) (T, error)

// Get возвращает первый объект результата, смаппленный по именам
// колонок (регистронезависимо, тег `db:"..."` имеет приоритет над
// именем поля). Колонки без соответствующего поля молча игнорируются,
// поля без соответствующей колонки сохраняют нулевое значение,
// NULL оставляет значение по умолчанию.
//
// Для пустого результата возвращается found=false, а не пустой
// объект. Чтение останавливается после первой строки.
func Get[T any](ctx context.Context, d *DB, cmd *Command) (T, bool, error) {
	return GetFunc(ctx, d, cmd, scanStruct[T])
}

// Select возвращает все объекты результата (маппинг как в Get)
func Select[T any](ctx context.Context, d *DB, cmd *Command) ([]T, error) {
	return SelectFunc(ctx, d, cmd, scanStruct[T])
}

// GetFunc - Get с пользовательским загрузчиком строки
func GetFunc[T any](ctx context.Context, d *DB, cmd *Command, load Loader[T]) (T, bool, error) {
	var out T
	found := false
	reset := func() {
		var zero T
		out = zero
		found = false
	}
	err := d.stream(ctx, cmd, reset, func(rows *sql.Rows) (bool, error) {
		v, err := load(rows)
		if err != nil {
			return false, err
		}
		out = v
		found = true
		return false, nil
	})
	if err != nil {
		var zero T
		return zero, false, err
	}
	return out, found, nil
}

// SelectFunc - Select с пользовательским загрузчиком строки
func SelectFunc[T any](ctx context.Context, d *DB, cmd *Command, load Loader[T]) ([]T, error) {
	var out []T
	err := d.stream(ctx, cmd, func() { out = nil }, func(rows *sql.Rows) (bool, error) {
		v, err := load(rows)
		if err != nil {
			return false, err
		}
		out = append(out, v)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetRecord возвращает первую строку как динамическую запись.
// NULL нормализуется в record.Null, не в sentinel.
func (d *DB) GetRecord(ctx context.Context, cmd *Command) (*record.Record, bool, error) {
	var rec *record.Record
	err := d.stream(ctx, cmd, func() { rec = nil }, func(rows *sql.Rows) (bool, error) {
		r, err := scanRecord(rows)
		if err != nil {
			return false, err
		}
		rec = r
		return false, nil
	})
	if err != nil {
		return nil, false, err
	}
	return rec, rec != nil, nil
}

// SelectRecords возвращает все строки как динамические записи
func (d *DB) SelectRecords(ctx context.Context, cmd *Command) ([]*record.Record, error) {
	var out []*record.Record
	err := d.stream(ctx, cmd, func() { out = nil }, func(rows *sql.Rows) (bool, error) {
		r, err := scanRecord(rows)
		if err != nil {
			return false, err
		}
		out = append(out, r)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// scanRecord читает текущую строку в упорядоченную запись
func scanRecord(rows *sql.Rows) (*record.Record, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	raw := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}

	rec := record.New()
	for i, col := range cols {
		rec.Append(col, record.FromAny(raw[i]))
	}
	return rec, nil
}

// scanStruct читает текущую строку в структуру T по именам колонок
func scanStruct[T any](rows *sql.Rows) (T, error) {
	var out T
	rv := reflect.ValueOf(&out).Elem()
	if rv.Kind() != reflect.Struct {
		return out, fmt.Errorf("target type %T is not a struct", out)
	}

	cols, err := rows.Columns()
	if err != nil {
		return out, err
	}

	raw := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return out, err
	}

	index := fieldIndex(rv.Type())
	for i, col := range cols {
		fi, ok := index[strings.ToLower(col)]
		if !ok {
			continue // лишняя колонка - молча игнорируется
		}
		if raw[i] == nil {
			continue // NULL - поле остается со значением по умолчанию
		}
		if err := assignField(rv.Field(fi), raw[i]); err != nil {
			return out, fmt.Errorf("column %s: %w", col, err)
		}
	}
	return out, nil
}

// fieldIndex строит индекс "имя колонки (lower) -> номер поля".
// Имя берется из тега `db:"..."`, поля с `db:"-"` пропускаются.
func fieldIndex(t reflect.Type) map[string]int {
	index := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("db"); ok {
			if tag == "-" {
				continue
			}
			if idx := strings.Index(tag, ","); idx >= 0 {
				tag = tag[:idx]
			}
			if tag != "" {
				name = tag
			}
		}
		index[strings.ToLower(name)] = i
	}
	return index
}

// assignField присваивает значение колонки полю структуры с
// конвертацией в семантический тип поля
func assignField(fv reflect.Value, v any) error {
	// Указатель: выделяем и присваиваем в элемент
	if fv.Kind() == reflect.Pointer {
		p := reflect.New(fv.Type().Elem())
		if err := assignField(p.Elem(), v); err != nil {
			return err
		}
		fv.Set(p)
		return nil
	}

	// Прямое совпадение типов
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(fv.Type()) {
		fv.Set(rv)
		return nil
	}

	switch fv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := ToInt64(v)
		if err != nil {
			return err
		}
		fv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := ToInt64(v)
		if err != nil {
			return err
		}
		fv.SetUint(uint64(n))
	case reflect.Float32, reflect.Float64:
		f, err := ToFloat64(v)
		if err != nil {
			return err
		}
		fv.SetFloat(f)
	case reflect.Bool:
		b, err := ToBool(v)
		if err != nil {
			return err
		}
		fv.SetBool(b)
	case reflect.String:
		s, err := ToString(v)
		if err != nil {
			return err
		}
		fv.SetString(s)
	case reflect.Slice:
		if fv.Type().Elem().Kind() == reflect.Uint8 {
			s, err := ToString(v)
			if err != nil {
				return err
			}
			fv.SetBytes([]byte(s))
			return nil
		}
		return fmt.Errorf("unsupported field type %s", fv.Type())
	case reflect.Struct:
		if fv.Type() == reflect.TypeOf(time.Time{}) {
			t, err := ToTime(v)
			if err != nil {
				return err
			}
			fv.Set(reflect.ValueOf(t))
			return nil
		}
		return fmt.Errorf("unsupported field type %s", fv.Type())
	default:
		return fmt.Errorf("unsupported field type %s", fv.Type())
	}
	return nil
}
