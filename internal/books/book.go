// Package books implementa el dominio de la biblioteca personal:
// el modelo Book y el servicio CRUD scoped por dueño.
package books

import "time"

// Book es la única entidad persistente del sistema.
type Book struct {
	// ID es un UUID generado por el servidor, estable de por vida.
	ID string

	// OwnerID es el sub del principal que creó el libro.
	// Se fija una sola vez en el create y nunca viene del cliente.
	// No se expone en la API.
	OwnerID string

	Name        string
	Author      string
	Description string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateInput son los campos aceptados por createBook.
type CreateInput struct {
	Name        string
	Author      string
	Description string
}

// UpdateInput son los campos de updateBook. Todos opcionales:
// nil significa "no tocar", puntero a valor significa "reemplazar".
type UpdateInput struct {
	Name        *string
	Author      *string
	Description *string
}
