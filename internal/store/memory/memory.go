// Package memory implementa books.Repository en un map en memoria.
// Útil para desarrollo y testing; no sobrevive reinicios.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/dropDatabas3/bookshelf/internal/books"
)

// row lleva un seq de inserción para desempatar created_at iguales:
// dos creates en el mismo microsegundo conservan orden de llegada.
type row struct {
	book books.Book
	seq  uint64
}

type Store struct {
	mu   sync.RWMutex
	seq  uint64
	data map[string]row // id -> row
}

func New() *Store {
	return &Store{data: make(map[string]row)}
}

func (s *Store) Insert(ctx context.Context, b *books.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.data[b.ID] = row{book: *b, seq: s.seq}
	return nil
}

func (s *Store) ListByOwner(ctx context.Context, ownerID string) ([]books.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []row{}
	for _, r := range s.data {
		if r.book.OwnerID == ownerID {
			out = append(out, r)
		}
	}
	// created_at descendente; empate por orden de inserción
	sort.Slice(out, func(i, j int) bool {
		if !out[i].book.CreatedAt.Equal(out[j].book.CreatedAt) {
			return out[i].book.CreatedAt.After(out[j].book.CreatedAt)
		}
		return out[i].seq > out[j].seq
	})

	list := make([]books.Book, len(out))
	for i, r := range out {
		list[i] = r.book
	}
	return list, nil
}

func (s *Store) GetByIDAndOwner(ctx context.Context, id, ownerID string) (*books.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.data[id]
	if !ok || r.book.OwnerID != ownerID {
		// "no existe" y "es de otro" son indistinguibles a propósito
		return nil, books.ErrNotFound
	}
	out := r.book
	return &out, nil
}

func (s *Store) Update(ctx context.Context, b *books.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.data[b.ID]
	if !ok {
		return books.ErrNotFound
	}
	r.book = *b
	s.data[b.ID] = r
	return nil
}

func (s *Store) DeleteByID(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[id]; !ok {
		return books.ErrNotFound
	}
	delete(s.data, id)
	return nil
}

func (s *Store) Ping(ctx context.Context) error { return nil }

// Len retorna la cantidad de filas. Solo para asserts en tests.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
