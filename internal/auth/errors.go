package auth

import "errors"

var (
	// ErrUnauthenticated cubre todo fallo de verificación: token ausente,
	// malformado, firmado con clave desconocida, expirado, iss/aud
	// incorrectos o JWKS inalcanzable. El caller responde 401 sin
	// distinguir la causa hacia el cliente.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrKeyNotFound indica que el JWKS remoto no publica el kid pedido.
	ErrKeyNotFound = errors.New("signing key not found in jwks")

	// ErrKeyFetchLimited indica que el rate limiter bloqueó un fetch al
	// JWKS remoto dentro de la ventana actual.
	ErrKeyFetchLimited = errors.New("jwks fetch rate limited")
)
