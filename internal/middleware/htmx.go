package middleware

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const htmxContextKey contextKey = "htmx.info"

// HTMXInfo captures the HX-* request headers the builder cares about.
type HTMXInfo struct {
	IsHTMX      bool
	IsBoosted   bool
	Target      string
	TriggerName string
}

// HTMX annotates the request context with HX-* header metadata so handlers
// can tell a fragment swap from a full-page navigation.
func HTMX() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			info := HTMXInfo{
				IsHTMX:      strings.EqualFold(r.Header.Get("HX-Request"), "true"),
				IsBoosted:   strings.EqualFold(r.Header.Get("HX-Boosted"), "true"),
				Target:      r.Header.Get("HX-Target"),
				TriggerName: r.Header.Get("HX-Trigger-Name"),
			}

			ctx := context.WithValue(r.Context(), htmxContextKey, info)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// HTMXInfoFromContext retrieves the metadata; zero value when absent.
func HTMXInfoFromContext(ctx context.Context) HTMXInfo {
	val, ok := ctx.Value(htmxContextKey).(HTMXInfo)
	if !ok {
		return HTMXInfo{}
	}
	return val
}

// IsHTMXRequest reports whether htmx initiated the current request.
func IsHTMXRequest(ctx context.Context) bool {
	return HTMXInfoFromContext(ctx).IsHTMX
}

// RequireHTMX guards builder fragment routes: direct navigation to a bare
// fragment URL gets a 404 instead of an unstyled sliver of markup.
func RequireHTMX() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsHTMXRequest(r.Context()) {
				http.NotFound(w, r)
				return
			}
			w.Header().Add("Vary", "HX-Request")
			next.ServeHTTP(w, r)
		})
	}
}
