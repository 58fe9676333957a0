package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"shelfkeeper/internal/session"
)

type flashCtxKey struct{}

// LoadFlashes pops queued flash messages on GET requests and binds them to
// the request context for the page renderer. Writes never consume them, so
// a message queued before a redirect survives until the following GET.
func LoadFlashes(f *session.Flasher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			flashes, err := f.Pop(w, r)
			if err != nil {
				slog.WarnContext(r.Context(), "failed to load flash messages", "error", err)
			}
			if len(flashes) > 0 {
				r = r.WithContext(context.WithValue(r.Context(), flashCtxKey{}, flashes))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// FlashesFromCtx returns the messages LoadFlashes bound to ctx.
func FlashesFromCtx(ctx context.Context) []session.Flash {
	flashes, _ := ctx.Value(flashCtxKey{}).([]session.Flash)
	return flashes
}
