package auth

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/bookshelf/internal/cache"
	"github.com/dropDatabas3/bookshelf/internal/rate"
)

const (
	testAudience = "https://books.api"
	testKID      = "test-key-1"
)

// jwksFixture publica un JWKS por httptest y firma tokens con la clave privada.
type jwksFixture struct {
	srv     *httptest.Server
	priv    ed25519.PrivateKey
	fetches atomic.Int64
}

func newJWKSFixture(t *testing.T) *jwksFixture {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	f := &jwksFixture{priv: priv}
	doc := map[string]any{
		"keys": []map[string]any{
			{
				"kid": testKID,
				"kty": "OKP",
				"crv": "Ed25519",
				"alg": "EdDSA",
				"use": "sig",
				"x":   base64.RawURLEncoding.EncodeToString(pub),
			},
		},
	}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.fetches.Add(1)
		_ = json.NewEncoder(w).Encode(doc)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *jwksFixture) issuer() string { return f.srv.URL + "/" }

// sign emite un token EdDSA con los claims dados, completando los que falten.
func (f *jwksFixture) sign(t *testing.T, overrides map[string]any) string {
	t.Helper()
	claims := jwtv5.MapClaims{
		"iss":   f.issuer(),
		"aud":   testAudience,
		"sub":   "auth0|u1",
		"email": "u1@example.com",
		"exp":   time.Now().Add(5 * time.Minute).Unix(),
		"iat":   time.Now().Add(-10 * time.Second).Unix(),
	}
	for k, v := range overrides {
		claims[k] = v
	}
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodEdDSA, claims)
	tk.Header["kid"] = testKID
	signed, err := tk.SignedString(f.priv)
	require.NoError(t, err)
	return signed
}

func newVerifier(f *jwksFixture) *Verifier {
	ks := NewKeySource(f.srv.URL+"/.well-known/jwks.json", 10*time.Minute,
		cache.NewMemory("test", 0), rate.NewMemoryLimiter(5, time.Minute))
	return NewVerifier(ks, f.issuer(), testAudience)
}

func TestVerifyValidToken(t *testing.T) {
	f := newJWKSFixture(t)
	v := newVerifier(f)

	p, err := v.Verify(context.Background(), f.sign(t, nil))
	require.NoError(t, err)
	assert.Equal(t, "auth0|u1", p.SubjectID)
	assert.Equal(t, "u1@example.com", p.Email)
}

func TestVerifyRejections(t *testing.T) {
	f := newJWKSFixture(t)
	v := newVerifier(f)
	ctx := context.Background()

	cases := map[string]string{
		"expired":        f.sign(t, map[string]any{"exp": time.Now().Add(-2 * time.Minute).Unix()}),
		"not yet valid":  f.sign(t, map[string]any{"nbf": time.Now().Add(time.Hour).Unix()}),
		"wrong audience": f.sign(t, map[string]any{"aud": "https://other.api"}),
		"wrong issuer":   f.sign(t, map[string]any{"iss": "https://evil.example/"}),
		"missing sub":    f.sign(t, map[string]any{"sub": ""}),
		"garbage":        "not.a.jwt",
	}
	for name, tok := range cases {
		_, err := v.Verify(ctx, tok)
		assert.ErrorIs(t, err, ErrUnauthenticated, name)
	}
}

func TestVerifyRejectsSymmetricAlg(t *testing.T) {
	f := newJWKSFixture(t)
	v := newVerifier(f)

	// Token HS256 firmado con un secreto arbitrario: el método no está
	// en la lista de válidos, debe rechazarse antes de resolver claves.
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, jwtv5.MapClaims{
		"iss": f.issuer(),
		"aud": testAudience,
		"sub": "auth0|u1",
		"exp": time.Now().Add(time.Minute).Unix(),
	})
	tk.Header["kid"] = testKID
	signed, err := tk.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), signed)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestVerifyRejectsUnknownKID(t *testing.T) {
	f := newJWKSFixture(t)
	v := newVerifier(f)

	_, otherPriv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodEdDSA, jwtv5.MapClaims{
		"iss": f.issuer(),
		"aud": testAudience,
		"sub": "auth0|u1",
		"exp": time.Now().Add(time.Minute).Unix(),
	})
	tk.Header["kid"] = "rogue-kid"
	signed, err := tk.SignedString(otherPriv)
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), signed)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestKeySourceCachesAcrossVerifications(t *testing.T) {
	f := newJWKSFixture(t)
	v := newVerifier(f)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := v.Verify(ctx, f.sign(t, nil))
		require.NoError(t, err)
	}
	assert.Equal(t, int64(1), f.fetches.Load(), "cache hit should skip remote fetch")
}

func TestKeySourceRateLimitsFetches(t *testing.T) {
	f := newJWKSFixture(t)
	// Limiter de 1 por ventana: el primer miss consume el cupo.
	ks := NewKeySource(f.srv.URL+"/.well-known/jwks.json", 10*time.Minute,
		cache.NewMemory("test", 0), rate.NewMemoryLimiter(1, time.Hour))
	ctx := context.Background()

	_, err := ks.PublicKey(ctx, testKID)
	require.NoError(t, err)

	// kid desconocido: no está en cache, el fetch está bloqueado.
	_, err = ks.PublicKey(ctx, "unknown-kid")
	assert.ErrorIs(t, err, ErrKeyFetchLimited)
	assert.Equal(t, int64(1), f.fetches.Load())

	// El kid cacheado sigue resolviendo sin red.
	_, err = ks.PublicKey(ctx, testKID)
	assert.NoError(t, err)
}

func TestPublicKeyFromJWK_RSA(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	k := jwk{
		KID: "rsa-1",
		Kty: "RSA",
		N:   base64.RawURLEncoding.EncodeToString(priv.PublicKey.N.Bytes()),
		E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(priv.PublicKey.E)).Bytes()),
	}
	got, err := publicKeyFromJWK(k)
	require.NoError(t, err)

	pub, ok := got.(*rsa.PublicKey)
	require.True(t, ok)
	assert.Zero(t, pub.N.Cmp(priv.PublicKey.N))
	assert.Equal(t, priv.PublicKey.E, pub.E)
}

func TestPublicKeyFromJWK_UnsupportedKty(t *testing.T) {
	_, err := publicKeyFromJWK(jwk{KID: "x", Kty: "oct"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrKeyNotFound))
}
