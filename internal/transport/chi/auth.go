package chi

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// publicPaths are served without a key.
var publicPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// AuthKeys lists accepted bearer tokens. Reader keys may browse and search the
// directory but cannot create libraries, generate reviews or call assist.
type AuthKeys struct {
	Editors []string
	Readers []string
}

type access int

const (
	accessNone access = iota
	accessRead
	accessEdit
)

// BearerAuthMiddleware validates Bearer tokens against keys. With no keys
// configured authentication is off.
func BearerAuthMiddleware(keys AuthKeys) func(http.Handler) http.Handler {
	editors, readers := nonEmpty(keys.Editors), nonEmpty(keys.Readers)

	return func(next http.Handler) http.Handler {
		if len(editors) == 0 && len(readers) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := publicPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			token, msg := bearerToken(r.Header.Get("Authorization"))
			if msg != "" {
				unauthorized(w, msg)
				return
			}

			switch grant(editors, readers, token) {
			case accessNone:
				unauthorized(w, "invalid api key")
			case accessRead:
				if !readOnly(r.Method) {
					writeError(w, http.StatusForbidden, ErrorCodeForbidden, "api key is read-only")
					return
				}
				next.ServeHTTP(w, r)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// bearerToken extracts the token; the scheme name is case-insensitive.
func bearerToken(header string) (token []byte, problem string) {
	if header == "" {
		return nil, "missing authorization header"
	}
	scheme, rest, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return nil, "authorization header must use Bearer scheme"
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return nil, "empty bearer token"
	}
	return []byte(rest), ""
}

func grant(editors, readers [][]byte, token []byte) access {
	// Both lists are always scanned so timing does not reveal which matched.
	edit, read := knownKey(editors, token), knownKey(readers, token)
	switch {
	case edit:
		return accessEdit
	case read:
		return accessRead
	default:
		return accessNone
	}
}

func readOnly(method string) bool {
	return method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="papyrus"`)
	writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, msg)
}

func nonEmpty(keys []string) [][]byte {
	out := make([][]byte, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			out = append(out, []byte(k))
		}
	}
	return out
}

// knownKey compares token against every key in constant time.
func knownKey(keys [][]byte, token []byte) bool {
	found := 0
	for _, k := range keys {
		found |= subtle.ConstantTimeCompare(k, token)
	}
	return found == 1
}
