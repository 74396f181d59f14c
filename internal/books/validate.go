package books

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Límites de campo. Espejados en el schema SQL (varchar).
const (
	MaxNameLen        = 255
	MaxAuthorLen      = 255
	MaxDescriptionLen = 1000
)

// Validate chequea los constraints de un CreateInput.
func (in CreateInput) Validate() error {
	var fields []FieldError
	fields = appendRequired(fields, "name", in.Name, MaxNameLen)
	fields = appendRequired(fields, "author", in.Author, MaxAuthorLen)
	fields = appendMax(fields, "description", in.Description, MaxDescriptionLen)
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Validate chequea los constraints de un UpdateInput.
// Solo valida los campos presentes; un campo presente no puede quedar vacío
// si es obligatorio.
func (in UpdateInput) Validate() error {
	var fields []FieldError
	if in.Name != nil {
		fields = appendRequired(fields, "name", *in.Name, MaxNameLen)
	}
	if in.Author != nil {
		fields = appendRequired(fields, "author", *in.Author, MaxAuthorLen)
	}
	if in.Description != nil {
		fields = appendMax(fields, "description", *in.Description, MaxDescriptionLen)
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func appendRequired(fields []FieldError, name, value string, max int) []FieldError {
	if strings.TrimSpace(value) == "" {
		return append(fields, FieldError{Field: name, Message: "is required"})
	}
	return appendMax(fields, name, value, max)
}

func appendMax(fields []FieldError, name, value string, max int) []FieldError {
	if utf8.RuneCountInString(value) > max {
		return append(fields, FieldError{Field: name, Message: "must be " + strconv.Itoa(max) + " characters or less"})
	}
	return fields
}
