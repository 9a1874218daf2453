package report

import (
	"encoding"
	"reflect"
	"strings"
	"unicode"
)

// Option configures map conversion.
type Option func(*options)

type options struct {
	namingConvention func(string) string
	omitEmpty        bool
}

// SnakeCase converts field names to snake_case (e.g., FirstName -> first_name).
var SnakeCase Option = func(o *options) {
	o.namingConvention = toSnakeCase
}

// CamelCase converts field names to camelCase (e.g., FirstName -> firstName).
var CamelCase Option = func(o *options) {
	o.namingConvention = toCamelCase
}

// OmitEmpty omits fields with zero values from output.
var OmitEmpty Option = func(o *options) {
	o.omitEmpty = true
}

// ToMap converts a struct to a map keyed by converted field names. Values
// implementing encoding.TextMarshaler become their text form. The default
// naming is camelCase.
func ToMap(v any, opts ...Option) map[string]any {
	o := &options{namingConvention: toCamelCase}
	for _, opt := range opts {
		opt(o)
	}
	return structToMap(reflect.ValueOf(v), o)
}

var textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()

func structToMap(v reflect.Value, o *options) map[string]any {
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}

	result := make(map[string]any)
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		if !field.IsExported() {
			continue
		}
		if o.omitEmpty && isZeroValue(fieldValue) {
			continue
		}

		result[o.namingConvention(field.Name)] = convertValue(fieldValue, o)
	}

	return result
}

func convertValue(v reflect.Value, o *options) any {
	if v.Type().Implements(textMarshalerType) && (v.Kind() != reflect.Ptr || !v.IsNil()) {
		if text, err := v.Interface().(encoding.TextMarshaler).MarshalText(); err == nil {
			return string(text)
		}
	}

	switch v.Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			return nil
		}
		return convertValue(v.Elem(), o)
	case reflect.Struct:
		return structToMap(v, o)
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return []any{}
		}
		if v.Type().Elem().Kind() == reflect.String {
			result := make([]string, v.Len())
			for i := 0; i < v.Len(); i++ {
				result[i] = v.Index(i).String()
			}
			return result
		}
		result := make([]any, v.Len())
		for i := 0; i < v.Len(); i++ {
			result[i] = convertValue(v.Index(i), o)
		}
		return result
	case reflect.Map:
		if v.IsNil() {
			return nil
		}
		result := make(map[string]any)
		for _, key := range v.MapKeys() {
			result[key.String()] = convertValue(v.MapIndex(key), o)
		}
		return result
	case reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return convertValue(v.Elem(), o)
	default:
		return v.Interface()
	}
}

func isZeroValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Slice, reflect.Map:
		return v.IsNil() || v.Len() == 0
	case reflect.Struct:
		return v.IsZero()
	default:
		return false
	}
}

// toSnakeCase converts PascalCase to snake_case.
// Handles consecutive capitals (e.g., "ID" -> "id", "APIKey" -> "api_key").
func toSnakeCase(s string) string {
	runes := []rune(s)
	var result strings.Builder

	for i, r := range runes {
		if !unicode.IsUpper(r) {
			result.WriteRune(r)
			continue
		}
		if i > 0 {
			prevLower := unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || nextLower {
				result.WriteRune('_')
			}
		}
		result.WriteRune(unicode.ToLower(r))
	}
	return result.String()
}

// toCamelCase converts PascalCase to camelCase.
func toCamelCase(s string) string {
	if len(s) == 0 {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}
