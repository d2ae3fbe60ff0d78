// Package authmw guards the police dashboard routes with bearer tokens.
package authmw

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/go-core/xerrors"
)

const realm = "locono-police"

// BearerToken returns middleware that admits requests whose Authorization
// header carries one of tokens. Several tokens allow rotation without
// downtime. Comparison is constant-time. Panics if no non-empty token is given.
func BearerToken(logger log.Logger, tokens ...string) func(http.Handler) http.Handler {
	if logger == nil {
		logger = log.Nop()
	}
	var expected [][]byte
	for _, t := range tokens {
		if t != "" {
			expected = append(expected, []byte(t))
		}
	}
	if len(expected) == 0 {
		panic(xerrors.New("authmw: at least one token is required"))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := bearer(r.Header.Get("Authorization"))
			if !ok {
				deny(w, "missing or malformed authorization header")
				logger.Warn(r.Context(), "dashboard auth rejected", "reason", "malformed", "path", r.URL.Path)
				return
			}

			if !matchAny(got, expected) {
				deny(w, "invalid token")
				logger.Warn(r.Context(), "dashboard auth rejected", "reason", "invalid_token", "path", r.URL.Path)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// bearer extracts the credential from an Authorization header. The scheme is
// case-insensitive.
func bearer(h string) ([]byte, bool) {
	scheme, cred, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return nil, false
	}
	return []byte(cred), true
}

// matchAny checks every candidate so timing does not reveal which one matched.
func matchAny(got []byte, expected [][]byte) bool {
	match := 0
	for _, e := range expected {
		match |= subtle.ConstantTimeCompare(got, e)
	}
	return match == 1
}

func deny(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="`+realm+`"`)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}`))
}
