package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
)

type ipCtxKey struct{}

// ClientIP resolves the caller's IP address and stores it in the request
// context. X-Forwarded-For takes precedence when the server sits behind a
// reverse proxy; the first entry is the originating client.
func ClientIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := resolveIP(r)
		ctx := context.WithValue(r.Context(), ipCtxKey{}, ip)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IPFrom returns the client IP stored by ClientIP, or "unknown".
func IPFrom(ctx context.Context) string {
	if ip, ok := ctx.Value(ipCtxKey{}).(string); ok && ip != "" {
		return ip
	}
	return "unknown"
}

func resolveIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if rip := r.Header.Get("X-Real-IP"); rip != "" {
		return rip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
