// Package validation собирает ошибки форм в виде «поле → сообщение».
// Такие ошибки никогда не роняют действие: их возвращают вызывающему,
// чтобы показать рядом с полем.
package validation

import (
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Errors map[string]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add перезаписывает сообщение поля, если оно уже было.
func (e Errors) Add(field, msg string) { e[field] = msg }

func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Err возвращает nil для пустого набора, чтобы не получить typed-nil в error.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// Struct проверяет теги `validate` и раскладывает ошибки по полям (имя берётся из json-тега).
// messages ищется сначала по "field.tag", потом по "field".
func Struct(v any, messages map[string]string) Errors {
	out := Errors{}
	err := validate.Struct(v)
	if err == nil {
		return out
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out.Add("_", err.Error())
		return out
	}
	for _, fe := range fieldErrs {
		field := fe.Field()
		if out.Has(field) {
			continue
		}
		if msg, ok := messages[field+"."+fe.Tag()]; ok {
			out.Add(field, msg)
			continue
		}
		if msg, ok := messages[field]; ok {
			out.Add(field, msg)
			continue
		}
		out.Add(field, "некорректное значение")
	}
	return out
}
