package books

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/bookshelf/internal/auth"
	"github.com/dropDatabas3/bookshelf/internal/observability/logger"
)

// Service ejecuta las cinco operaciones CRUD, siempre scoped al principal.
//
// El Principal se pasa explícito como primer argumento de cada operación:
// lo produce el Token Verifier una vez por request y se threadea hasta acá,
// sin estado ambiente. El ownership check de update/delete es un read
// separado previo a la mutación, no un "UPDATE ... WHERE owner" compuesto:
// así "no existe" y "no es tuyo" producen el mismo resultado hacia afuera.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// now retorna el instante actual truncado a microsegundos, la resolución
// de timestamptz en Postgres. Mantiene memory y postgres equivalentes.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// Create valida el input, fija owner/id/timestamps y persiste.
// ValidationError corta antes de cualquier acceso a storage.
func (s *Service) Create(ctx context.Context, p *auth.Principal, in CreateInput) (*Book, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	ts := now()
	b := &Book{
		ID:          uuid.NewString(),
		OwnerID:     p.SubjectID,
		Name:        in.Name,
		Author:      in.Author,
		Description: in.Description,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	if err := s.repo.Insert(ctx, b); err != nil {
		return nil, err
	}

	logger.From(ctx).Info("book created",
		logger.Op("books.create"),
		logger.BookID(b.ID),
	)
	return b, nil
}

// List retorna los libros del principal, más recientes primero.
func (s *Service) List(ctx context.Context, p *auth.Principal) ([]Book, error) {
	return s.repo.ListByOwner(ctx, p.SubjectID)
}

// Get retorna el libro solo si pertenece al principal.
// ErrNotFound tanto para "no existe" como para "es de otro".
func (s *Service) Get(ctx context.Context, p *auth.Principal, id string) (*Book, error) {
	return s.repo.GetByIDAndOwner(ctx, id, p.SubjectID)
}

// Update aplica un partial update sobre un libro del principal.
// Pre-read con filtro de ownership; si no aparece, ErrNotFound sin tocar
// nada. updated_at avanza estrictamente en cada update exitoso.
func (s *Service) Update(ctx context.Context, p *auth.Principal, id string, in UpdateInput) (*Book, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	b, err := s.repo.GetByIDAndOwner(ctx, id, p.SubjectID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		b.Name = *in.Name
	}
	if in.Author != nil {
		b.Author = *in.Author
	}
	if in.Description != nil {
		b.Description = *in.Description
	}

	ts := now()
	if !ts.After(b.UpdatedAt) {
		// El truncado a microsegundos puede empatar con el valor anterior
		ts = b.UpdatedAt.Add(time.Microsecond)
	}
	b.UpdatedAt = ts

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Delete elimina un libro del principal. Retorna true si borró,
// false si el id no existe o no le pertenece (mismo resultado adrede).
func (s *Service) Delete(ctx context.Context, p *auth.Principal, id string) (bool, error) {
	if _, err := s.repo.GetByIDAndOwner(ctx, id, p.SubjectID); err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, err
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return false, err
	}

	logger.From(ctx).Info("book deleted",
		logger.Op("books.delete"),
		logger.BookID(id),
	)
	return true, nil
}
