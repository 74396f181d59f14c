package books_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/bookshelf/internal/auth"
	"github.com/dropDatabas3/bookshelf/internal/books"
	"github.com/dropDatabas3/bookshelf/internal/store/memory"
)

var (
	u1 = &auth.Principal{SubjectID: "auth0|u1", Email: "u1@example.com"}
	u2 = &auth.Principal{SubjectID: "auth0|u2", Email: "u2@example.com"}
)

func newService() (*books.Service, *memory.Store) {
	st := memory.New()
	return books.NewService(st), st
}

func strPtr(s string) *string { return &s }

func TestCreateStampsOwnerAndTimestamps(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	b, err := svc.Create(ctx, u1, books.CreateInput{Name: "Dune", Author: "Herbert"})
	require.NoError(t, err)

	assert.NotEmpty(t, b.ID)
	assert.Equal(t, u1.SubjectID, b.OwnerID)
	assert.Equal(t, "Dune", b.Name)
	assert.Equal(t, "Herbert", b.Author)
	assert.Empty(t, b.Description)
	assert.False(t, b.CreatedAt.IsZero())
	assert.Equal(t, b.CreatedAt, b.UpdatedAt)
}

func TestCreateRoundTrip(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, u1, books.CreateInput{
		Name:        "Solaris",
		Author:      "Lem",
		Description: "contacto con un océano pensante",
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, u1, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestCreateValidationShortCircuits(t *testing.T) {
	svc, st := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, u1, books.CreateInput{Name: "", Author: "Herbert"})
	require.Error(t, err)
	assert.True(t, books.IsValidation(err))
	// Nada llegó a storage
	assert.Equal(t, 0, st.Len())

	var ve *books.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Fields, 1)
	assert.Equal(t, "name", ve.Fields[0].Field)
}

func TestCreateRejectsOverlengthFields(t *testing.T) {
	svc, st := newService()
	ctx := context.Background()

	long := make([]rune, books.MaxNameLen+1)
	for i := range long {
		long[i] = 'x'
	}

	_, err := svc.Create(ctx, u1, books.CreateInput{Name: string(long), Author: "A"})
	assert.True(t, books.IsValidation(err))
	assert.Equal(t, 0, st.Len())
}

func TestListScopedAndOrdered(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	first, err := svc.Create(ctx, u1, books.CreateInput{Name: "Dune", Author: "Herbert"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, u1, books.CreateInput{Name: "Hyperion", Author: "Simmons"})
	require.NoError(t, err)

	mine, err := svc.List(ctx, u1)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	// Más reciente primero
	assert.Equal(t, second.ID, mine[0].ID)
	assert.Equal(t, first.ID, mine[1].ID)

	// u2 no ve nada de u1
	theirs, err := svc.List(ctx, u2)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestCrossPrincipalAccessLooksLikeNotFound(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	b, err := svc.Create(ctx, u1, books.CreateInput{Name: "Dune", Author: "Herbert"})
	require.NoError(t, err)

	// get ajeno ≡ get inexistente
	_, err = svc.Get(ctx, u2, b.ID)
	assert.ErrorIs(t, err, books.ErrNotFound)
	_, err = svc.Get(ctx, u2, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, books.ErrNotFound)

	// update ajeno ≡ update inexistente
	_, err = svc.Update(ctx, u2, b.ID, books.UpdateInput{Name: strPtr("Mine Now")})
	assert.ErrorIs(t, err, books.ErrNotFound)

	// delete ajeno retorna false sin error
	ok, err := svc.Delete(ctx, u2, b.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	// La fila de u1 sigue intacta
	got, err := svc.Get(ctx, u1, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Name)
}

func TestDeleteScenario(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	b, err := svc.Create(ctx, u1, books.CreateInput{Name: "Dune", Author: "Herbert"})
	require.NoError(t, err)

	ok, err := svc.Delete(ctx, u1, b.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.Get(ctx, u1, b.ID)
	assert.ErrorIs(t, err, books.ErrNotFound)

	// Segundo delete: ya no existe
	ok, err = svc.Delete(ctx, u1, b.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPartialUpdate(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	b, err := svc.Create(ctx, u1, books.CreateInput{
		Name:        "Dune",
		Author:      "Herbrt",
		Description: "desert planet",
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, u1, b.ID, books.UpdateInput{Author: strPtr("Herbert")})
	require.NoError(t, err)

	assert.Equal(t, "Herbert", updated.Author)
	// Campos no provistos quedan como estaban
	assert.Equal(t, "Dune", updated.Name)
	assert.Equal(t, "desert planet", updated.Description)
	// Inmutables
	assert.Equal(t, b.ID, updated.ID)
	assert.Equal(t, b.OwnerID, updated.OwnerID)
	assert.Equal(t, b.CreatedAt, updated.CreatedAt)
	// updated_at avanza estrictamente
	assert.True(t, updated.UpdatedAt.After(b.UpdatedAt))
}

func TestUpdateValidatesBeforeStorage(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	b, err := svc.Create(ctx, u1, books.CreateInput{Name: "Dune", Author: "Herbert"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, u1, b.ID, books.UpdateInput{Name: strPtr("")})
	assert.True(t, books.IsValidation(err))

	got, err := svc.Get(ctx, u1, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Name, "la fila no debe mutarse")
	assert.Equal(t, b.UpdatedAt, got.UpdatedAt)
}

func TestUpdatedAtStrictlyAdvancesOnEveryUpdate(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	b, err := svc.Create(ctx, u1, books.CreateInput{Name: "Dune", Author: "Herbert"})
	require.NoError(t, err)

	prev := b.UpdatedAt
	for i := 0; i < 3; i++ {
		upd, err := svc.Update(ctx, u1, b.ID, books.UpdateInput{Author: strPtr("Herbert")})
		require.NoError(t, err)
		assert.True(t, upd.UpdatedAt.After(prev))
		prev = upd.UpdatedAt
	}
}
