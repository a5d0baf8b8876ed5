package record

import (
	"fmt"
	"strings"
	"time"
)

// Kind - тег типа динамического значения
type Kind int

const (
	// KindNull - значение NULL из БД
	KindNull Kind = iota
	// KindInt - целое число
	KindInt
	// KindFloat - число с плавающей точкой
	KindFloat
	// KindBool - логическое значение
	KindBool
	// KindString - строка
	KindString
	// KindBytes - бинарные данные
	KindBytes
	// KindTime - дата/время
	KindTime
)

// String возвращает имя тега
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindTime:
		return "time"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value - тегированное динамическое значение колонки.
// NULL из БД представляется как KindNull, а не как sentinel.
type Value struct {
	kind Kind
	i    int64
	f    float64
	b    bool
	s    string
	by   []byte
	t    time.Time
}

// Null возвращает NULL значение
func Null() Value {
	return Value{kind: KindNull}
}

// Int создает целочисленное значение
func Int(v int64) Value {
	return Value{kind: KindInt, i: v}
}

// Float создает значение с плавающей точкой
func Float(v float64) Value {
	return Value{kind: KindFloat, f: v}
}

// Bool создает логическое значение
func Bool(v bool) Value {
	return Value{kind: KindBool, b: v}
}

// String создает строковое значение
func String(v string) Value {
	return Value{kind: KindString, s: v}
}

// Bytes создает бинарное значение
func Bytes(v []byte) Value {
	return Value{kind: KindBytes, by: v}
}

// Time создает значение даты/времени
func Time(v time.Time) Value {
	return Value{kind: KindTime, t: v}
}

// FromAny конвертирует значение, полученное от database/sql драйвера,
// в тегированное Value. nil конвертируется в Null.
func FromAny(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case Value:
		return x
	case int64:
		return Int(x)
	case int:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int16:
		return Int(int64(x))
	case int8:
		return Int(int64(x))
	case uint:
		return Int(int64(x))
	case uint32:
		return Int(int64(x))
	case uint64:
		return Int(int64(x))
	case float64:
		return Float(x)
	case float32:
		return Float(float64(x))
	case bool:
		return Bool(x)
	case string:
		return String(x)
	case []byte:
		// Копируем: драйвер может переиспользовать буфер между строками
		cp := make([]byte, len(x))
		copy(cp, x)
		return Bytes(cp)
	case time.Time:
		return Time(x)
	default:
		return String(fmt.Sprintf("%v", x))
	}
}

// Kind возвращает тег значения
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull проверяет является ли значение NULL
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Any возвращает значение как any. Для NULL возвращает nil.
func (v Value) Any() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindBool:
		return v.b
	case KindString:
		return v.s
	case KindBytes:
		return v.by
	case KindTime:
		return v.t
	default:
		return nil
	}
}

// Int64 возвращает значение как int64 (0 для не-числовых)
func (v Value) Int64() int64 {
	switch v.kind {
	case KindInt:
		return v.i
	case KindFloat:
		return int64(v.f)
	case KindBool:
		if v.b {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// Float64 возвращает значение как float64
func (v Value) Float64() float64 {
	switch v.kind {
	case KindFloat:
		return v.f
	case KindInt:
		return float64(v.i)
	default:
		return 0
	}
}

// Bool возвращает значение как bool
func (v Value) Bool() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i != 0
	default:
		return false
	}
}

// Str возвращает значение как строку ("" для NULL)
func (v Value) Str() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindBytes:
		return string(v.by)
	case KindNull:
		return ""
	default:
		return fmt.Sprintf("%v", v.Any())
	}
}

// Time возвращает значение как time.Time (zero для не-временных)
func (v Value) Time() time.Time {
	if v.kind == KindTime {
		return v.t
	}
	return time.Time{}
}

// Field - именованное поле записи
type Field struct {
	Name  string
	Value Value
}

// Record - упорядоченная запись "имя поля -> значение".
// Порядок полей совпадает с порядком колонок результата.
type Record struct {
	fields []Field
}

// New создает пустую запись
func New() *Record {
	return &Record{}
}

// Append добавляет поле в конец записи
func (r *Record) Append(name string, v Value) {
	r.fields = append(r.fields, Field{Name: name, Value: v})
}

// Len возвращает количество полей
func (r *Record) Len() int {
	return len(r.fields)
}

// Fields возвращает поля в порядке добавления
func (r *Record) Fields() []Field {
	return r.fields
}

// Get возвращает значение поля по имени (регистронезависимо)
func (r *Record) Get(name string) (Value, bool) {
	for _, f := range r.fields {
		if strings.EqualFold(f.Name, name) {
			return f.Value, true
		}
	}
	return Null(), false
}

// Has проверяет наличие поля (регистронезависимо)
func (r *Record) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// At возвращает поле по позиции
func (r *Record) At(i int) Field {
	return r.fields[i]
}
