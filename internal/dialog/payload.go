package dialog

import "encoding/json"

// GetString Helper для безопасного чтения строк из payload
func GetString(p Payload, key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetInt читает целое: после JSON числа приходят как float64.
func GetInt(p Payload, key string) (int, bool) {
	switch v := p[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	}
	return 0, false
}

func GetStrings(p Payload, key string) []string {
	switch v := p[key].(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Put кладёт структуру в payload в JSON-представлении, чтобы после
// сохранения и чтения её можно было разобрать через Decode.
func Put(p Payload, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return err
	}
	p[key] = generic
	return nil
}

// Decode разбирает значение по ключу в dst; отсутствие ключа — не ошибка.
func Decode(p Payload, key string, dst any) (bool, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return false, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(raw, dst)
}

// Clone: поверхностная копия payload.
func (p Payload) Clone() Payload {
	out := make(Payload, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
