// Package auth convierte bearer tokens opacos en un Principal confiable.
//
// La verificación sigue el pipeline clásico OIDC: firma contra la clave
// pública publicada por el IdP (JWKS remoto, resuelta por kid), exp/nbf,
// issuer y audience. Cualquier fallo colapsa en ErrUnauthenticated: el
// caller no debe tocar datos si la verificación no pasó.
package auth

// Principal es la identidad autenticada derivada de un token válido.
// Vive solo durante el request; nunca se persiste.
type Principal struct {
	// SubjectID es el claim sub: identidad externa estable del usuario.
	// Todo el scoping de datos se hace contra este valor.
	SubjectID string

	// Email es el claim email, si el IdP lo incluye. Opcional.
	Email string
}
