package auth

import (
	"context"
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/dropDatabas3/bookshelf/internal/observability/logger"
	"github.com/dropDatabas3/bookshelf/internal/util"
)

// validMethods: solo esquemas asimétricos. Nunca aceptar HMAC ni "none":
// un atacante podría firmar con la clave pública publicada en el JWKS.
var validMethods = []string{"RS256", "RS384", "RS512", "ES256", "ES384", "ES512", "EdDSA"}

// leeway tolera el drift de reloj habitual entre el IdP y este servicio.
const leeway = 30 * time.Second

// Verifier valida bearer tokens contra el JWKS del IdP configurado.
type Verifier struct {
	keys     *KeySource
	issuer   string
	audience string
}

// NewVerifier crea un Verifier.
// issuer debe coincidir byte a byte con el claim iss que emite el IdP
// (Auth0 lo emite con trailing slash).
func NewVerifier(keys *KeySource, issuer, audience string) *Verifier {
	return &Verifier{keys: keys, issuer: issuer, audience: audience}
}

// Verify valida firma, exp/nbf, issuer y audience del token crudo y
// retorna el Principal derivado de sus claims.
//
// Cualquier fallo retorna un error que envuelve ErrUnauthenticated con la
// causa para logs; el caller no distingue causas hacia el cliente.
func (v *Verifier) Verify(ctx context.Context, raw string) (*Principal, error) {
	keyfunc := func(t *jwtv5.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		return v.keys.PublicKey(ctx, kid)
	}

	parser := jwtv5.NewParser(
		jwtv5.WithValidMethods(validMethods),
		jwtv5.WithIssuer(v.issuer),
		jwtv5.WithAudience(v.audience),
		jwtv5.WithExpirationRequired(),
		jwtv5.WithLeeway(leeway),
	)

	tok, err := parser.Parse(raw, keyfunc)
	if err != nil || !tok.Valid {
		if err == nil {
			err = jwtv5.ErrTokenUnverifiable
		}
		logger.From(ctx).Debug("token rejected",
			logger.Op("auth.verify"),
			logger.Any("token_prefix", util.MaskToken(raw)),
			logger.Err(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	claims, ok := tok.Claims.(jwtv5.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected claims type", ErrUnauthenticated)
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, fmt.Errorf("%w: token sin sub", ErrUnauthenticated)
	}
	email, _ := claims["email"].(string)

	return &Principal{SubjectID: sub, Email: email}, nil
}
