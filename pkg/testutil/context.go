package testutil

import (
	"net/http"

	"whisperwall/internal/identity"
	"whisperwall/pkg/requestcontext"
)

// WithPrincipal places an authenticated principal on the request context,
// simulating what the session gate does for admitted requests.
func WithPrincipal(req *http.Request, userID int64, username string) *http.Request {
	ctx := requestcontext.WithPrincipal(req.Context(), identity.Principal{
		UserID:   userID,
		Username: username,
	})
	return req.WithContext(ctx)
}
