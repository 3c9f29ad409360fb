package middleware

import "net/http"

// AdminKey guards debug routes with a shared key passed in the
// "X-Admin-Key" header. An empty configured key disables the guard,
// matching deployments that never set one.
func AdminKey(key string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			if r.Header.Get("X-Admin-Key") != key {
				http.Error(w, "Unauthorized: admin key required", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
