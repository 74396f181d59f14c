package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/dropDatabas3/bookshelf/internal/auth"
	"github.com/dropDatabas3/bookshelf/internal/http/errors"
	"github.com/dropDatabas3/bookshelf/internal/metrics"
)

// TokenVerifier valida un bearer token crudo y produce el Principal.
// Lo implementa auth.Verifier; la interfaz existe para poder stubear
// la verificación en tests de transporte.
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (*auth.Principal, error)
}

// RequireAuth valida Authorization: Bearer <JWT> y guarda el Principal en
// el contexto. Si el token es inválido o no está presente, responde 401
// uniforme sin importar la operación: ningún request sin principal llega
// a la capa de datos.
func RequireAuth(v TokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ah := strings.TrimSpace(r.Header.Get("Authorization"))
			if ah == "" || !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
				metrics.ObserveTokenVerification(false)
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token", error_description="missing bearer token"`)
				errors.WriteError(w, errors.ErrTokenMissing)
				return
			}
			raw := strings.TrimSpace(ah[len("Bearer "):])

			p, err := v.Verify(r.Context(), raw)
			if err != nil {
				metrics.ObserveTokenVerification(false)
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token"`)
				errors.WriteError(w, errors.ErrTokenInvalid)
				return
			}
			metrics.ObserveTokenVerification(true)

			ctx := WithPrincipal(r.Context(), p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
