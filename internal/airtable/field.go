package airtable

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Kind определяет форму значения поля, пришедшего из хранилища.
type Kind int

// Формы значения поля.
const (
	KindEmpty Kind = iota
	KindText
	KindNumber
	KindBool
	KindList
)

// Value значение поля записи. Хранилище отдаёт одно и то же поле то строкой,
// то числом, то списком (lookup, multiple select), поэтому на границе значение
// раскладывается в один из вариантов и дальше читается через методы.
type Value struct {
	kind Kind
	text string
	num  float64
	b    bool
	list []string
}

// Text создаёт строковое значение.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Number создаёт числовое значение.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Bool создаёт логическое значение.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// List создаёт списочное значение.
func List(items ...string) Value { return Value{kind: KindList, list: items} }

// Kind возвращает форму значения.
func (v Value) Kind() Kind { return v.kind }

// IsEmpty сообщает, что поле отсутствует или равно null.
func (v Value) IsEmpty() bool { return v.kind == KindEmpty }

// String возвращает значение как есть в строковом виде: список склеивается через ", ".
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return formatNumber(v.num)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindList:
		return strings.Join(v.list, ", ")
	default:
		return ""
	}
}

// Strings возвращает значение как список строк.
func (v Value) Strings() []string {
	switch v.kind {
	case KindList:
		out := make([]string, len(v.list))
		copy(out, v.list)
		return out
	case KindEmpty:
		return nil
	default:
		return []string{v.String()}
	}
}

// Float возвращает число, если значение числовое.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Truthy трактует значение как флаг: checkbox, "true"/"yes"/"1", ненулевое число.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.num != 0
	case KindText:
		switch strings.ToLower(strings.TrimSpace(v.text)) {
		case "true", "yes", "y", "1":
			return true
		}
	case KindList:
		return len(v.list) > 0
	}
	return false
}

// UnmarshalJSON раскладывает произвольное JSON-значение поля.
// Объекты (вложения, коллабораторы) внутри списка берутся по полю name, иначе пропускаются.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = fromAny(raw)
	return nil
}

// MarshalJSON кодирует значение обратно в JSON в исходной форме.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindText:
		return json.Marshal(v.text)
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	case KindList:
		return json.Marshal(v.list)
	default:
		return []byte("null"), nil
	}
}

func fromAny(raw any) Value {
	switch t := raw.(type) {
	case string:
		return Text(t)
	case float64:
		return Number(t)
	case bool:
		return Bool(t)
	case []any:
		items := make([]string, 0, len(t))
		for _, item := range t {
			switch it := item.(type) {
			case string:
				items = append(items, it)
			case float64:
				items = append(items, formatNumber(it))
			case bool:
				items = append(items, strconv.FormatBool(it))
			case map[string]any:
				if name, ok := it["name"].(string); ok {
					items = append(items, name)
				}
			}
		}
		return List(items...)
	default:
		return Value{}
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Fields поля записи по именам.
type Fields map[string]Value

// Get возвращает поле или пустое значение, если его нет.
func (f Fields) Get(name string) Value {
	if f == nil {
		return Value{}
	}
	return f[name]
}
