package books

import "context"

// Repository es el contrato de persistencia para Book.
// Lo implementan los drivers en internal/store (postgres, memory).
//
// Las operaciones son single-row: la atomicidad por fila la garantiza el
// engine subyacente, no hay transacciones multi-fila en este dominio.
type Repository interface {
	// Insert persiste un libro nuevo. El caller ya asignó id, owner y
	// timestamps.
	Insert(ctx context.Context, b *Book) error

	// ListByOwner retorna los libros del owner ordenados por created_at
	// descendente. Slice vacío si no tiene ninguno.
	ListByOwner(ctx context.Context, ownerID string) ([]Book, error)

	// GetByIDAndOwner retorna el libro solo si existe Y pertenece al owner.
	// ErrNotFound en cualquier otro caso; el driver no distingue entre
	// "no existe" y "es de otro".
	GetByIDAndOwner(ctx context.Context, id, ownerID string) (*Book, error)

	// Update reemplaza los campos mutables de la fila identificada por b.ID.
	// El ownership ya fue verificado por el pre-read del service.
	Update(ctx context.Context, b *Book) error

	// DeleteByID elimina la fila. Mismo contrato que Update respecto al
	// pre-read de ownership.
	DeleteByID(ctx context.Context, id string) error

	// Ping verifica que el backend esté accesible (readiness).
	Ping(ctx context.Context) error
}
