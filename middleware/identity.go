package middleware

import (
	"context"
	"net/http"
)

type contextKey string

const handleContextKey contextKey = "user_handle"

// Identity resolves the calling user's handle and stores it in the
// request context. The handle comes from the X-User-Handle header,
// with the user_id query or form value as a fallback for the older
// clients that pass identity inline. There is no session layer: the
// profile returned by login is kept client-side and replayed here.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handle := r.Header.Get("X-User-Handle")
		if handle == "" {
			handle = r.URL.Query().Get("user_id")
		}
		if handle == "" {
			handle = r.PostFormValue("user_id")
		}
		if handle == "" {
			http.Error(w, "missing user identity", http.StatusBadRequest)
			return
		}

		ctx := context.WithValue(r.Context(), handleContextKey, handle)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Handle returns the handle stored by Identity, or "" when the route
// was not wrapped.
func Handle(r *http.Request) string {
	h, _ := r.Context().Value(handleContextKey).(string)
	return h
}
