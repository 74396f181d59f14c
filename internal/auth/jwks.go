package auth

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dropDatabas3/bookshelf/internal/cache"
	"github.com/dropDatabas3/bookshelf/internal/metrics"
	"github.com/dropDatabas3/bookshelf/internal/observability/logger"
	"github.com/dropDatabas3/bookshelf/internal/rate"
)

// jwk es la representación wire de una clave pública del key set.
type jwk struct {
	KID string `json:"kid"`
	Kty string `json:"kty"`
	Alg string `json:"alg,omitempty"`
	Use string `json:"use,omitempty"`

	// RSA
	N string `json:"n,omitempty"`
	E string `json:"e,omitempty"`

	// EC / OKP
	Crv string `json:"crv,omitempty"`
	X   string `json:"x,omitempty"`
	Y   string `json:"y,omitempty"`
}

type jwksDocument struct {
	Keys []jwk `json:"keys"`
}

// KeySource resuelve claves públicas de firma por kid contra un JWKS remoto.
//
// Lookups exitosos se cachean (memory o redis según configuración) y los
// fetches al endpoint remoto pasan por un rate limiter fixed-window, para
// no martillar al IdP cuando llegan tokens con kids desconocidos.
// Fetches concurrentes por el mismo miss se colapsan con singleflight;
// si dos requests pueblan la misma entrada, la sobreescritura es benigna
// porque el valor es equivalente.
type KeySource struct {
	url     string
	ttl     time.Duration
	cache   cache.Client
	limiter rate.Limiter
	httpc   *http.Client

	sf singleflight.Group
}

const jwkCachePrefix = "jwk:"

// NewKeySource crea un KeySource para la URL del JWKS del IdP.
// ttl define cuánto se reusa una clave cacheada antes de refrescar.
func NewKeySource(url string, ttl time.Duration, c cache.Client, l rate.Limiter) *KeySource {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if l == nil {
		l = rate.NewMemoryLimiter(5, time.Minute)
	}
	return &KeySource{
		url:     url,
		ttl:     ttl,
		cache:   c,
		limiter: l,
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

// PublicKey retorna la clave pública para el kid dado.
// Cache hit no toca la red; miss dispara a lo sumo un fetch por kid
// dentro de la ventana del limiter.
func (s *KeySource) PublicKey(ctx context.Context, kid string) (crypto.PublicKey, error) {
	if kid == "" {
		return nil, fmt.Errorf("%w: token sin kid", ErrKeyNotFound)
	}

	if raw, err := s.cache.Get(ctx, jwkCachePrefix+kid); err == nil {
		var k jwk
		if json.Unmarshal([]byte(raw), &k) == nil {
			return publicKeyFromJWK(k)
		}
		// Entrada corrupta: descartar y refetch
		_ = s.cache.Delete(ctx, jwkCachePrefix+kid)
	}

	v, err, _ := s.sf.Do(kid, func() (any, error) {
		// Re-chequear el cache: otro vuelo pudo haberlo poblado
		if raw, err := s.cache.Get(ctx, jwkCachePrefix+kid); err == nil {
			var k jwk
			if json.Unmarshal([]byte(raw), &k) == nil {
				return k, nil
			}
		}

		keys, err := s.fetch(ctx)
		if err != nil {
			return nil, err
		}
		k, ok := keys[kid]
		if !ok {
			return nil, fmt.Errorf("%w: kid=%s", ErrKeyNotFound, kid)
		}
		return k, nil
	})
	if err != nil {
		return nil, err
	}
	return publicKeyFromJWK(v.(jwk))
}

// fetch trae el documento JWKS completo y puebla el cache por kid.
func (s *KeySource) fetch(ctx context.Context) (map[string]jwk, error) {
	res, err := s.limiter.Allow(ctx, "jwks_fetch")
	if err != nil {
		return nil, err
	}
	if !res.Allowed {
		logger.From(ctx).Warn("jwks fetch blocked by rate limiter",
			logger.Op("jwks.fetch"),
			logger.Any("retry_after", res.RetryAfter.String()),
		)
		metrics.ObserveJWKSFetch("rate_limited")
		return nil, ErrKeyFetchLimited
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpc.Do(req)
	if err != nil {
		metrics.ObserveJWKSFetch("error")
		return nil, fmt.Errorf("jwks fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ObserveJWKSFetch("error")
		return nil, fmt.Errorf("jwks fetch: unexpected status %d", resp.StatusCode)
	}

	var doc jwksDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		metrics.ObserveJWKSFetch("error")
		return nil, fmt.Errorf("jwks fetch: decode: %w", err)
	}
	metrics.ObserveJWKSFetch("ok")

	out := make(map[string]jwk, len(doc.Keys))
	for _, k := range doc.Keys {
		if k.KID == "" {
			continue
		}
		if k.Use != "" && k.Use != "sig" {
			continue
		}
		out[k.KID] = k
		if b, err := json.Marshal(k); err == nil {
			_ = s.cache.Set(ctx, jwkCachePrefix+k.KID, string(b), s.ttl)
		}
	}

	logger.From(ctx).Debug("jwks refreshed",
		logger.Op("jwks.fetch"),
		logger.Count(len(out)),
	)
	return out, nil
}

// publicKeyFromJWK materializa la clave pública según kty.
// Solo esquemas asimétricos: RSA, EC y OKP/Ed25519.
func publicKeyFromJWK(k jwk) (crypto.PublicKey, error) {
	switch k.Kty {
	case "RSA":
		return rsaKey(k)
	case "EC":
		return ecKey(k)
	case "OKP":
		return okpKey(k)
	default:
		return nil, fmt.Errorf("unsupported jwk kty %q", k.Kty)
	}
}

func rsaKey(k jwk) (*rsa.PublicKey, error) {
	nb, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, fmt.Errorf("jwk rsa n: %w", err)
	}
	eb, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, fmt.Errorf("jwk rsa e: %w", err)
	}
	e := 0
	for _, b := range eb {
		e = e<<8 | int(b)
	}
	if e <= 0 {
		return nil, errors.New("jwk rsa: invalid exponent")
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(nb), E: e}, nil
}

func ecKey(k jwk) (*ecdsa.PublicKey, error) {
	var curve elliptic.Curve
	switch k.Crv {
	case "P-256":
		curve = elliptic.P256()
	case "P-384":
		curve = elliptic.P384()
	case "P-521":
		curve = elliptic.P521()
	default:
		return nil, fmt.Errorf("unsupported jwk curve %q", k.Crv)
	}
	xb, err := base64.RawURLEncoding.DecodeString(k.X)
	if err != nil {
		return nil, fmt.Errorf("jwk ec x: %w", err)
	}
	yb, err := base64.RawURLEncoding.DecodeString(k.Y)
	if err != nil {
		return nil, fmt.Errorf("jwk ec y: %w", err)
	}
	return &ecdsa.PublicKey{
		Curve: curve,
		X:     new(big.Int).SetBytes(xb),
		Y:     new(big.Int).SetBytes(yb),
	}, nil
}

func okpKey(k jwk) (ed25519.PublicKey, error) {
	if k.Crv != "Ed25519" {
		return nil, fmt.Errorf("unsupported okp curve %q", k.Crv)
	}
	xb, err := base64.RawURLEncoding.DecodeString(k.X)
	if err != nil {
		return nil, fmt.Errorf("jwk okp x: %w", err)
	}
	if len(xb) != ed25519.PublicKeySize {
		return nil, errors.New("jwk okp: invalid key size")
	}
	return ed25519.PublicKey(xb), nil
}
