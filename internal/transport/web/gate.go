package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"whisperwall/internal/identity"
	"whisperwall/internal/session"
	"whisperwall/pkg/requestcontext"
)

// SessionCookie is the name of the cookie carrying the opaque session token.
const SessionCookie = "ww_session"

// SessionManager is the slice of session behavior the transport layer needs.
type SessionManager interface {
	Issue(ctx context.Context, principal identity.Principal, device string) (session.Record, error)
	Resolve(ctx context.Context, token string) (*session.Record, error)
	Revoke(ctx context.Context, token string) error
}

// RequireSession admits requests carrying a resolvable session cookie and
// places the principal on the request context. Everything else is bounced
// to the login page.
func RequireSession(sessions SessionManager, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				http.Redirect(w, r, "/login/", http.StatusSeeOther)
				return
			}

			record, err := sessions.Resolve(r.Context(), cookie.Value)
			if err != nil {
				logger.WarnContext(r.Context(), "session rejected",
					"error", err,
					"request_id", requestcontext.RequestID(r.Context()),
				)
				clearSessionCookie(w)
				http.Redirect(w, r, "/login/", http.StatusSeeOther)
				return
			}

			ctx := requestcontext.WithPrincipal(r.Context(), record.Principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func setSessionCookie(w http.ResponseWriter, record session.Record) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    record.Token,
		Path:     "/",
		Expires:  record.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
