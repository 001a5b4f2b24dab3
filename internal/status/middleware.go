package status

import (
	"net/http"
	"strings"
)

// AuthMiddleware validates API key authentication via Bearer token or
// X-API-Key header. Query parameter fallback covers websocket clients.
func AuthMiddleware(validKeys []string) func(http.Handler) http.Handler {
	keySet := make(map[string]bool, len(validKeys))
	for _, k := range validKeys {
		keySet[k] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				if keySet[strings.TrimPrefix(auth, "Bearer ")] {
					next.ServeHTTP(w, r)
					return
				}
			}

			if keySet[r.Header.Get("X-API-Key")] {
				next.ServeHTTP(w, r)
				return
			}

			if key := r.URL.Query().Get("api_key"); keySet[key] {
				next.ServeHTTP(w, r)
				return
			}

			http.Error(w, `{"error": "unauthorized"}`, http.StatusUnauthorized)
		})
	}
}
