// Package graphql expone las cinco operaciones del dominio como un schema
// GraphQL: books, book, createBook, updateBook, deleteBook.
//
// Los resolvers asumen que RequireAuth ya corrió: el Principal viene del
// contexto y se pasa explícito al service en cada operación.
package graphql

import (
	"fmt"
	"time"

	"github.com/graphql-go/graphql"

	"github.com/dropDatabas3/bookshelf/internal/auth"
	"github.com/dropDatabas3/bookshelf/internal/books"
	"github.com/dropDatabas3/bookshelf/internal/http/middlewares"
	"github.com/dropDatabas3/bookshelf/internal/metrics"
)

// bookPayload es la representación wire de un Book.
// ownerId no existe acá: nunca se expone al cliente.
type bookPayload struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Author      string    `json:"author"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toPayload(b books.Book) bookPayload {
	p := bookPayload{
		ID:        b.ID,
		Name:      b.Name,
		Author:    b.Author,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
	if b.Description != "" {
		p.Description = &b.Description
	}
	return p
}

// principalFrom recupera el Principal inyectado por RequireAuth.
// Si no está, el router está mal cableado: mejor fallar que servir datos.
func principalFrom(p graphql.ResolveParams) (*auth.Principal, error) {
	pr := middlewares.GetPrincipal(p.Context)
	if pr == nil {
		return nil, fmt.Errorf("unauthenticated")
	}
	return pr, nil
}

// instrument envuelve un resolver con la métrica de operaciones.
func instrument(operation string, fn graphql.FieldResolveFn) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		out, err := fn(p)
		metrics.ObserveGraphQLOperation(operation, err != nil)
		return out, err
	}
}

// NewSchema construye el schema ejecutable sobre el service dado.
func NewSchema(svc *books.Service) (graphql.Schema, error) {
	bookType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Book",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"author":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"description": &graphql.Field{Type: graphql.String},
			"createdAt":   &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
			"updatedAt":   &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
		},
	})

	createInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CreateBookInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":        &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"author":      &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"description": &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	updateInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UpdateBookInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":        &graphql.InputObjectFieldConfig{Type: graphql.String},
			"author":      &graphql.InputObjectFieldConfig{Type: graphql.String},
			"description": &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"books": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(bookType))),
				Resolve: instrument("books", func(p graphql.ResolveParams) (any, error) {
					pr, err := principalFrom(p)
					if err != nil {
						return nil, err
					}
					list, err := svc.List(p.Context, pr)
					if err != nil {
						return nil, err
					}
					out := make([]bookPayload, len(list))
					for i, b := range list {
						out[i] = toPayload(b)
					}
					return out, nil
				}),
			},
			"book": &graphql.Field{
				Type: bookType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: instrument("book", func(p graphql.ResolveParams) (any, error) {
					pr, err := principalFrom(p)
					if err != nil {
						return nil, err
					}
					id, _ := p.Args["id"].(string)
					b, err := svc.Get(p.Context, pr, id)
					if books.IsNotFound(err) {
						// Ausencia, no error
						return nil, nil
					}
					if err != nil {
						return nil, err
					}
					return toPayload(*b), nil
				}),
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createBook": &graphql.Field{
				Type: graphql.NewNonNull(bookType),
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(createInput)},
				},
				Resolve: instrument("createBook", func(p graphql.ResolveParams) (any, error) {
					pr, err := principalFrom(p)
					if err != nil {
						return nil, err
					}
					in, _ := p.Args["input"].(map[string]any)
					b, err := svc.Create(p.Context, pr, books.CreateInput{
						Name:        stringArg(in, "name"),
						Author:      stringArg(in, "author"),
						Description: stringArg(in, "description"),
					})
					if err != nil {
						return nil, err
					}
					return toPayload(*b), nil
				}),
			},
			"updateBook": &graphql.Field{
				Type: bookType,
				Args: graphql.FieldConfigArgument{
					"id":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(updateInput)},
				},
				Resolve: instrument("updateBook", func(p graphql.ResolveParams) (any, error) {
					pr, err := principalFrom(p)
					if err != nil {
						return nil, err
					}
					id, _ := p.Args["id"].(string)
					in, _ := p.Args["input"].(map[string]any)
					b, err := svc.Update(p.Context, pr, id, books.UpdateInput{
						Name:        optStringArg(in, "name"),
						Author:      optStringArg(in, "author"),
						Description: optStringArg(in, "description"),
					})
					if books.IsNotFound(err) {
						// "no existe" y "no es tuyo" son el mismo null
						return nil, nil
					}
					if err != nil {
						return nil, err
					}
					return toPayload(*b), nil
				}),
			},
			"deleteBook": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: instrument("deleteBook", func(p graphql.ResolveParams) (any, error) {
					pr, err := principalFrom(p)
					if err != nil {
						return nil, err
					}
					id, _ := p.Args["id"].(string)
					return svc.Delete(p.Context, pr, id)
				}),
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}

func stringArg(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

// optStringArg distingue "no enviado" (nil) de "enviado vacío" (puntero a "").
func optStringArg(m map[string]any, key string) *string {
	if m == nil {
		return nil
	}
	v, ok := m[key]
	if !ok {
		return nil
	}
	s, _ := v.(string)
	return &s
}
