package httpx

import (
	"net/http"
	"strings"

	"github.com/oneclicklabs/oneclick-access/pkg/cryptox"
	"github.com/oneclicklabs/oneclick-access/pkg/slogx"
)

// SecretVerifier reports whether a presented bearer credential is valid.
type SecretVerifier func(presented string) bool

// StaticSecret verifies against a raw shared secret in constant time.
func StaticSecret(secret string) SecretVerifier {
	return func(presented string) bool {
		return secret != "" && cryptox.ConstantTimeEquals(presented, secret)
	}
}

// HashedSecret verifies against an Argon2id PHC hash of the shared secret,
// so the raw secret never has to appear in configuration.
func HashedSecret(encodedHash string) SecretVerifier {
	return func(presented string) bool {
		return cryptox.VerifySecret(presented, encodedHash) == nil
	}
}

// BearerSecretMiddleware authenticates requests by a shared secret presented
// as a bearer credential. A missing or incorrect credential is rejected
// before the wrapped handler runs, so no state is read or mutated beyond the
// auth check itself.
func BearerSecretMiddleware(verify SecretVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer credential")
				return
			}

			presented := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))
			if !verify(presented) {
				log.Warn("bearer credential rejected")
				writeBearerError(w, "invalid bearer credential")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteJSON(w, http.StatusUnauthorized, map[string]string{
		"error":             "unauthorized",
		"error_description": desc,
	})
}
