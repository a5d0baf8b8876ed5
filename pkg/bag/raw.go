package bag

import "strings"

// Raw - сырой SQL фрагмент, который построитель выражений вставляет
// в текст запроса как есть, БЕЗ привязки параметра.
//
// Это осознанная лазейка для выражений, которые нельзя передать
// параметром (например GETDATE() или NOW()). Ответственность за
// содержимое полностью на вызывающем коде: сюда нельзя передавать
// недоверенные данные.
//
//	b.Add("updated_at", bag.Raw("GETDATE()"))
type Raw string

// literal escape маркеры для строковой формы [[expr]]
const (
	literalOpen  = "[["
	literalClose = "]]"
)

// AsRaw проверяет является ли значение сырым SQL фрагментом и
// возвращает его текст. Распознаются две формы:
//   - явный тип Raw (предпочтительно)
//   - строка в скобках [[expr]] (совместимость со старым соглашением)
func AsRaw(v any) (string, bool) {
	switch x := v.(type) {
	case Raw:
		return string(x), true
	case string:
		if len(x) >= len(literalOpen)+len(literalClose) &&
			strings.HasPrefix(x, literalOpen) && strings.HasSuffix(x, literalClose) {
			return x[len(literalOpen) : len(x)-len(literalClose)], true
		}
	}
	return "", false
}
