package logger

import (
	"time"

	"go.uber.org/zap"
)

// =================================================================================
// CAMPOS ESTÁNDAR - HTTP
// =================================================================================

// RequestID crea un campo para el ID del request.
func RequestID(v string) zap.Field {
	return zap.String("request_id", v)
}

// Method crea un campo para el método HTTP.
func Method(v string) zap.Field {
	return zap.String("method", v)
}

// Path crea un campo para el path del request.
func Path(v string) zap.Field {
	return zap.String("path", v)
}

// Status crea un campo para el status code HTTP.
func Status(v int) zap.Field {
	return zap.Int("status", v)
}

// Duration crea un campo para la duración del request.
func Duration(v time.Duration) zap.Field {
	return zap.Duration("duration", v)
}

// DurationMs crea un campo para la duración en milisegundos.
func DurationMs(v int64) zap.Field {
	return zap.Int64("duration_ms", v)
}

// Bytes crea un campo para los bytes de respuesta.
func Bytes(v int) zap.Field {
	return zap.Int("bytes", v)
}

// ClientIP crea un campo para la IP del cliente.
func ClientIP(v string) zap.Field {
	return zap.String("client_ip", v)
}

// =================================================================================
// CAMPOS ESTÁNDAR - NEGOCIO
// =================================================================================

// UserID crea un campo para el subject del principal autenticado.
func UserID(v string) zap.Field {
	return zap.String("user_id", v)
}

// BookID crea un campo para el ID de un libro.
func BookID(v string) zap.Field {
	return zap.String("book_id", v)
}

// Operation crea un campo para la operación GraphQL ejecutada.
func Operation(v string) zap.Field {
	return zap.String("operation", v)
}

// KID crea un campo para el key id de una clave de firma.
func KID(v string) zap.Field {
	return zap.String("kid", v)
}

// Issuer crea un campo para el issuer de un token.
func Issuer(v string) zap.Field {
	return zap.String("issuer", v)
}

// =================================================================================
// CAMPOS GENERALES
// =================================================================================

// Op crea un campo para el nombre de la operación interna (debug/errores).
func Op(v string) zap.Field {
	return zap.String("op", v)
}

// Err crea un campo para un error.
func Err(err error) zap.Field {
	return zap.Error(err)
}

// Any crea un campo genérico.
func Any(key string, v any) zap.Field {
	return zap.Any(key, v)
}

// Count crea un campo numérico genérico.
func Count(v int) zap.Field {
	return zap.Int("count", v)
}
