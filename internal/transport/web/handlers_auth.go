package web

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"whisperwall/internal/audit"
	"whisperwall/internal/identity"
	"whisperwall/internal/identity/service"
	"whisperwall/internal/platform/metrics"
	"whisperwall/internal/session/device"
	"whisperwall/pkg/requestcontext"
)

// AuthService runs an authentication strategy against submitted credentials.
type AuthService interface {
	Authenticate(ctx context.Context, strategy string, creds service.Credentials) (identity.Result, error)
}

// GoogleProvider drives the federated login flow.
type GoogleProvider interface {
	AuthCodeURL(state string) string
	FetchProfile(ctx context.Context, code string) (*service.FederatedProfile, error)
}

// StateSigner mints and checks the anti-forgery state carried through the
// federated redirect.
type StateSigner interface {
	Issue() (string, error)
	Validate(token string) error
}

// AuditPublisher forwards session lifecycle events to the audit pipeline.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type AuthHandler struct {
	auth     AuthService
	sessions SessionManager
	render   Renderer
	logger   *slog.Logger
	google   GoogleProvider
	state    StateSigner
	metrics  *metrics.Metrics
	auditor  AuditPublisher
}

type AuthOption func(*AuthHandler)

// WithGoogle enables the federated login routes. Without it they bounce to
// the login page.
func WithGoogle(provider GoogleProvider, signer StateSigner) AuthOption {
	return func(h *AuthHandler) {
		h.google = provider
		h.state = signer
	}
}

func WithAuthMetrics(m *metrics.Metrics) AuthOption {
	return func(h *AuthHandler) { h.metrics = m }
}

func WithAuthAudit(p AuditPublisher) AuthOption {
	return func(h *AuthHandler) { h.auditor = p }
}

func NewAuthHandler(auth AuthService, sessions SessionManager, render Renderer, logger *slog.Logger, opts ...AuthOption) *AuthHandler {
	h := &AuthHandler{
		auth:     auth,
		sessions: sessions,
		render:   render,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *AuthHandler) Register(r chi.Router) {
	r.Get("/register/", h.handleRegisterForm)
	r.Post("/register/", h.handleLocalLogin)
	r.Get("/login/", h.handleLoginForm)
	r.Post("/login/", h.handleLocalLogin)
	r.Get("/auth/google/", h.handleGoogleBegin)
	r.Get("/auth/google/secrets/", h.handleGoogleCallback)
}

// RegisterProtected mounts the routes that need an established session.
func (h *AuthHandler) RegisterProtected(r chi.Router) {
	r.Get("/logout/", h.handleLogout)
}

func (h *AuthHandler) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, "register.html", nil)
}

func (h *AuthHandler) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, "login.html", nil)
}

// handleLocalLogin backs both the registration and login forms: the local
// strategy registers unknown emails on first login, so the two submit paths
// share one flow.
func (h *AuthHandler) handleLocalLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/login/", http.StatusSeeOther)
		return
	}
	creds := service.Credentials{
		Email:    strings.TrimSpace(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
	}

	result, err := h.auth.Authenticate(r.Context(), service.StrategyLocal, creds)
	if err != nil {
		http.Redirect(w, r, "/login/", http.StatusSeeOther)
		return
	}
	h.establishSession(w, r, result.Principal)
}

func (h *AuthHandler) handleGoogleBegin(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		http.Redirect(w, r, "/login/", http.StatusSeeOther)
		return
	}
	state, err := h.state.Issue()
	if err != nil {
		h.logger.ErrorContext(r.Context(), "issue oauth state",
			"error", err,
			"request_id", requestcontext.RequestID(r.Context()),
		)
		http.Redirect(w, r, "/login/", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, h.google.AuthCodeURL(state), http.StatusFound)
}

func (h *AuthHandler) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		http.Redirect(w, r, "/login/", http.StatusSeeOther)
		return
	}
	if err := h.state.Validate(r.URL.Query().Get("state")); err != nil {
		h.logger.WarnContext(r.Context(), "oauth state rejected",
			"error", err,
			"request_id", requestcontext.RequestID(r.Context()),
		)
		http.Redirect(w, r, "/login/", http.StatusSeeOther)
		return
	}

	profile, err := h.google.FetchProfile(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		h.logger.WarnContext(r.Context(), "federated profile fetch failed",
			"error", err,
			"request_id", requestcontext.RequestID(r.Context()),
		)
		http.Redirect(w, r, "/login/", http.StatusSeeOther)
		return
	}

	result, err := h.auth.Authenticate(r.Context(), service.StrategyFederated, service.Credentials{Profile: profile})
	if err != nil {
		http.Redirect(w, r, "/login/", http.StatusSeeOther)
		return
	}
	h.establishSession(w, r, result.Principal)
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		if err := h.sessions.Revoke(r.Context(), cookie.Value); err != nil {
			h.logger.ErrorContext(r.Context(), "revoke session",
				"error", err,
				"request_id", requestcontext.RequestID(r.Context()),
			)
		} else {
			if h.metrics != nil {
				h.metrics.SessionsRevoked.Inc()
			}
			h.emit(r.Context(), audit.Event{Action: string(audit.EventSessionRevoked), UserID: principalID(r.Context())})
		}
	}
	clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) establishSession(w http.ResponseWriter, r *http.Request, principal identity.Principal) {
	record, err := h.sessions.Issue(r.Context(), principal, device.ParseUserAgent(r.UserAgent()))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "issue session",
			"error", err,
			"user_id", principal.UserID,
			"request_id", requestcontext.RequestID(r.Context()),
		)
		http.Redirect(w, r, "/login/", http.StatusSeeOther)
		return
	}
	if h.metrics != nil {
		h.metrics.SessionsCreated.Inc()
	}
	h.emit(r.Context(), audit.Event{
		Action:  string(audit.EventSessionCreated),
		UserID:  principal.UserID,
		Subject: principal.Username,
	})
	setSessionCookie(w, record)
	http.Redirect(w, r, "/secrets/", http.StatusSeeOther)
}

func (h *AuthHandler) renderPage(w http.ResponseWriter, r *http.Request, name string, data any) {
	if err := h.render.Render(w, name, data); err != nil {
		h.logger.ErrorContext(r.Context(), "render page",
			"page", name,
			"error", err,
			"request_id", requestcontext.RequestID(r.Context()),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (h *AuthHandler) emit(ctx context.Context, event audit.Event) {
	if h.auditor == nil {
		return
	}
	if err := h.auditor.Emit(ctx, event); err != nil {
		h.logger.ErrorContext(ctx, "emit audit event",
			"action", event.Action,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}

func principalID(ctx context.Context) int64 {
	principal, ok := requestcontext.Principal(ctx)
	if !ok {
		return 0
	}
	return principal.UserID
}
