package graphql

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"

	httperrors "github.com/dropDatabas3/bookshelf/internal/http/errors"
	"github.com/dropDatabas3/bookshelf/internal/observability/logger"
)

// request es el body estándar de un POST GraphQL.
type request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

// NewHandler devuelve el handler POST /graphql sobre el schema dado.
//
// Los errores de resolver viajan en el array "errors" del resultado con
// status 200, como manda la convención GraphQL; sólo el transporte
// (body ilegible, método equivocado) usa códigos HTTP.
func NewHandler(schema graphql.Schema) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
			return
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httperrors.WriteError(w, httperrors.ErrInvalidJSON)
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        r.Context(),
		})

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			logger.From(r.Context()).Warn("graphql response write failed", logger.Err(err))
		}
	})
}
