package model

import "strings"

// FieldError is used to indicate an error with a specific draft field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

type ValidationError struct {
	Fields []FieldError
}

func (err *ValidationError) Error() string {
	parts := make([]string, 0, len(err.Fields))
	for _, f := range err.Fields {
		parts = append(parts, f.Field+" "+f.Error)
	}
	return "invalid draft: " + strings.Join(parts, "; ")
}
