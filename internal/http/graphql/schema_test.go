package graphql

import (
	"context"
	"testing"

	gql "github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/bookshelf/internal/auth"
	"github.com/dropDatabas3/bookshelf/internal/books"
	"github.com/dropDatabas3/bookshelf/internal/http/middlewares"
	"github.com/dropDatabas3/bookshelf/internal/store/memory"
)

var (
	alice = &auth.Principal{SubjectID: "auth0|alice", Email: "alice@example.com"}
	bob   = &auth.Principal{SubjectID: "auth0|bob", Email: "bob@example.com"}
)

func newTestSchema(t *testing.T) gql.Schema {
	t.Helper()
	schema, err := NewSchema(books.NewService(memory.New()))
	require.NoError(t, err)
	return schema
}

// exec corre una operación como el principal dado y exige que no haya
// errores de ejecución.
func exec(t *testing.T, schema gql.Schema, p *auth.Principal, query string, vars map[string]any) map[string]any {
	t.Helper()
	res := execRaw(schema, p, query, vars)
	require.Empty(t, res.Errors, "unexpected graphql errors: %v", res.Errors)
	data, ok := res.Data.(map[string]any)
	require.True(t, ok)
	return data
}

func execRaw(schema gql.Schema, p *auth.Principal, query string, vars map[string]any) *gql.Result {
	ctx := middlewares.WithPrincipal(context.Background(), p)
	return gql.Do(gql.Params{
		Schema:         schema,
		RequestString:  query,
		VariableValues: vars,
		Context:        ctx,
	})
}

const createMutation = `
mutation ($input: CreateBookInput!) {
  createBook(input: $input) { id name author description createdAt updatedAt }
}`

func createOne(t *testing.T, schema gql.Schema, p *auth.Principal, name, author string) map[string]any {
	t.Helper()
	data := exec(t, schema, p, createMutation, map[string]any{
		"input": map[string]any{"name": name, "author": author},
	})
	book, ok := data["createBook"].(map[string]any)
	require.True(t, ok)
	return book
}

func TestCreateBookReturnsFullPayload(t *testing.T) {
	schema := newTestSchema(t)

	data := exec(t, schema, alice, createMutation, map[string]any{
		"input": map[string]any{
			"name":        "El Aleph",
			"author":      "Borges",
			"description": "Cuentos",
		},
	})

	book := data["createBook"].(map[string]any)
	assert.NotEmpty(t, book["id"])
	assert.Equal(t, "El Aleph", book["name"])
	assert.Equal(t, "Borges", book["author"])
	assert.Equal(t, "Cuentos", book["description"])
	assert.NotEmpty(t, book["createdAt"])
	assert.NotEmpty(t, book["updatedAt"])
}

func TestBookPayloadNeverExposesOwner(t *testing.T) {
	schema := newTestSchema(t)

	res := execRaw(schema, alice, `
		mutation { createBook(input: {name: "X", author: "Y"}) { id ownerId } }`, nil)

	// El campo no existe en el tipo: error de validación del schema.
	require.NotEmpty(t, res.Errors)
	assert.Contains(t, res.Errors[0].Message, "ownerId")
}

func TestBooksListsOnlyCallersRows(t *testing.T) {
	schema := newTestSchema(t)

	createOne(t, schema, alice, "Ficciones", "Borges")
	createOne(t, schema, alice, "Rayuela", "Cortázar")
	createOne(t, schema, bob, "Dune", "Herbert")

	data := exec(t, schema, alice, `{ books { name } }`, nil)
	list := data["books"].([]any)
	require.Len(t, list, 2)

	data = exec(t, schema, bob, `{ books { name } }`, nil)
	list = data["books"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, "Dune", list[0].(map[string]any)["name"])
}

func TestBookReturnsNullForForeignOrMissing(t *testing.T) {
	schema := newTestSchema(t)

	created := createOne(t, schema, alice, "Ficciones", "Borges")
	id := created["id"].(string)

	q := `query ($id: ID!) { book(id: $id) { id name } }`

	// Dueño la ve
	data := exec(t, schema, alice, q, map[string]any{"id": id})
	require.NotNil(t, data["book"])

	// Otro usuario recibe null, no error
	data = exec(t, schema, bob, q, map[string]any{"id": id})
	assert.Nil(t, data["book"])

	// ID inexistente también null
	data = exec(t, schema, alice, q, map[string]any{"id": "no-such-id"})
	assert.Nil(t, data["book"])
}

func TestUpdateBookPartial(t *testing.T) {
	schema := newTestSchema(t)

	created := createOne(t, schema, alice, "Ficciones", "Borges")
	id := created["id"].(string)

	data := exec(t, schema, alice, `
		mutation ($id: ID!, $input: UpdateBookInput!) {
		  updateBook(id: $id, input: $input) { id name author updatedAt }
		}`, map[string]any{
		"id":    id,
		"input": map[string]any{"author": "J. L. Borges"},
	})

	updated := data["updateBook"].(map[string]any)
	assert.Equal(t, "Ficciones", updated["name"])
	assert.Equal(t, "J. L. Borges", updated["author"])
	assert.NotEqual(t, created["updatedAt"], updated["updatedAt"])
}

func TestUpdateBookForeignRowIsNull(t *testing.T) {
	schema := newTestSchema(t)

	created := createOne(t, schema, alice, "Ficciones", "Borges")
	id := created["id"].(string)

	data := exec(t, schema, bob, `
		mutation ($id: ID!) { updateBook(id: $id, input: {name: "hack"}) { id } }`,
		map[string]any{"id": id})
	assert.Nil(t, data["updateBook"])

	// La fila del dueño quedó intacta
	data = exec(t, schema, alice, `query ($id: ID!) { book(id: $id) { name } }`,
		map[string]any{"id": id})
	assert.Equal(t, "Ficciones", data["book"].(map[string]any)["name"])
}

func TestCreateBookValidationSurfacesAsError(t *testing.T) {
	schema := newTestSchema(t)

	res := execRaw(schema, alice, createMutation, map[string]any{
		"input": map[string]any{"name": "", "author": "Borges"},
	})

	require.NotEmpty(t, res.Errors)
	assert.Contains(t, res.Errors[0].Message, "name")
}

func TestDeleteBookLifecycle(t *testing.T) {
	schema := newTestSchema(t)

	created := createOne(t, schema, alice, "Dune", "Frank Herbert")
	id := created["id"].(string)

	del := `mutation ($id: ID!) { deleteBook(id: $id) }`

	// Ajeno: false, la fila sobrevive
	data := exec(t, schema, bob, del, map[string]any{"id": id})
	assert.Equal(t, false, data["deleteBook"])

	// Dueño: true
	data = exec(t, schema, alice, del, map[string]any{"id": id})
	assert.Equal(t, true, data["deleteBook"])

	// Ya no aparece en la lista
	listData := exec(t, schema, alice, `{ books { id } }`, nil)
	assert.Empty(t, listData["books"])

	// Segundo delete: false
	data = exec(t, schema, alice, del, map[string]any{"id": id})
	assert.Equal(t, false, data["deleteBook"])
}

func TestResolversRejectMissingPrincipal(t *testing.T) {
	schema := newTestSchema(t)

	res := gql.Do(gql.Params{
		Schema:        schema,
		RequestString: `{ books { id } }`,
		Context:       context.Background(),
	})
	require.NotEmpty(t, res.Errors)
}
