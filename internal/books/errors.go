package books

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound cubre dos casos a propósito indistinguibles: el id no
	// existe, o existe pero pertenece a otro principal. Un solo resultado
	// hacia afuera evita filtrar la existencia de filas ajenas.
	ErrNotFound = errors.New("book not found")

	// ErrStorageUnavailable indica que el backend de persistencia falló
	// de forma inesperada. No se reintenta internamente.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// FieldError describe una violación de constraint en un campo puntual.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError agrupa los campos inválidos de un input.
// Se reporta antes de tocar storage.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsValidation verifica si el error es un *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound verifica si el error es ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
