package pg

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/bookshelf/internal/books"
)

// storeErr normaliza fallos inesperados del backend como
// books.ErrStorageUnavailable, preservando la causa para logs.
func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", books.ErrStorageUnavailable, op, err)
}

func (s *Store) Insert(ctx context.Context, b *books.Book) error {
	const query = `
		INSERT INTO book (id, owner_id, name, author, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.pool.Exec(ctx, query,
		b.ID, b.OwnerID, b.Name, b.Author, nullIfEmpty(b.Description),
		b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return storeErr("insert book", err)
	}
	return nil
}

func (s *Store) ListByOwner(ctx context.Context, ownerID string) ([]books.Book, error) {
	const query = `
		SELECT id, owner_id, name, author, description, created_at, updated_at
		FROM book
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, storeErr("list books", err)
	}
	defer rows.Close()

	out := []books.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, storeErr("scan book", err)
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list books", err)
	}
	return out, nil
}

func (s *Store) GetByIDAndOwner(ctx context.Context, id, ownerID string) (*books.Book, error) {
	// El filtro por owner vive en el WHERE: una fila ajena es invisible,
	// igual que una inexistente.
	const query = `
		SELECT id, owner_id, name, author, description, created_at, updated_at
		FROM book
		WHERE id = $1 AND owner_id = $2
	`
	row := s.pool.QueryRow(ctx, query, id, ownerID)
	b, err := scanBook(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, books.ErrNotFound
	}
	if err != nil {
		// Un id que no parsea como UUID equivale a "no existe"
		if isInvalidUUID(err) {
			return nil, books.ErrNotFound
		}
		return nil, storeErr("get book", err)
	}
	return b, nil
}

func (s *Store) Update(ctx context.Context, b *books.Book) error {
	const query = `
		UPDATE book
		SET name = $2, author = $3, description = $4, updated_at = $5
		WHERE id = $1
	`
	tag, err := s.pool.Exec(ctx, query,
		b.ID, b.Name, b.Author, nullIfEmpty(b.Description), b.UpdatedAt,
	)
	if err != nil {
		return storeErr("update book", err)
	}
	if tag.RowsAffected() == 0 {
		// La fila desapareció entre el pre-read y el update
		return books.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteByID(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM book WHERE id = $1`, id)
	if err != nil {
		return storeErr("delete book", err)
	}
	if tag.RowsAffected() == 0 {
		return books.ErrNotFound
	}
	return nil
}

// scanBook funciona para pgx.Row y pgx.Rows.
func scanBook(row pgx.Row) (*books.Book, error) {
	var b books.Book
	var description *string
	if err := row.Scan(
		&b.ID, &b.OwnerID, &b.Name, &b.Author, &description,
		&b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if description != nil {
		b.Description = *description
	}
	return &b, nil
}

// nullIfEmpty inserta NULL para opcionales vacíos.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// isInvalidUUID detecta el error de pgx al bindear un UUID malformado.
func isInvalidUUID(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "uuid")
}
