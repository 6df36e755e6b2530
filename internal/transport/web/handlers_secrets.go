package web

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"whisperwall/internal/identity"
	"whisperwall/internal/secrets"
	dErrors "whisperwall/pkg/domain-errors"
	"whisperwall/pkg/requestcontext"
)

// SecretsService is the slice of secrets behavior the handlers need.
type SecretsService interface {
	Submit(ctx context.Context, principal identity.Principal, text string) (*secrets.Secret, error)
	List(ctx context.Context) ([]secrets.Secret, error)
}

type SecretsHandler struct {
	secrets SecretsService
	render  Renderer
	logger  *slog.Logger
}

func NewSecretsHandler(svc SecretsService, render Renderer, logger *slog.Logger) *SecretsHandler {
	return &SecretsHandler{secrets: svc, render: render, logger: logger}
}

func (h *SecretsHandler) Register(r chi.Router) {
	r.Get("/", h.handleHome)
}

// RegisterProtected mounts the routes behind the session gate.
func (h *SecretsHandler) RegisterProtected(r chi.Router) {
	r.Get("/secrets/", h.handleList)
	r.Get("/submit/", h.handleSubmitForm)
	r.Post("/submit/", h.handleSubmit)
}

func (h *SecretsHandler) handleHome(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, "home.html", nil)
}

type secretsPage struct {
	Username string
	Secrets  []secrets.Secret
}

func (h *SecretsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.secrets.List(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list secrets",
			"error", err,
			"request_id", requestcontext.RequestID(r.Context()),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	page := secretsPage{Secrets: list}
	if principal, ok := requestcontext.Principal(r.Context()); ok {
		page.Username = principal.Username
	}
	h.renderPage(w, r, "secrets.html", page)
}

func (h *SecretsHandler) handleSubmitForm(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, "submit.html", nil)
}

func (h *SecretsHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	principal, ok := requestcontext.Principal(r.Context())
	if !ok {
		http.Redirect(w, r, "/login/", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/submit/", http.StatusSeeOther)
		return
	}

	if _, err := h.secrets.Submit(r.Context(), principal, r.PostFormValue("secret")); err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeBadRequest {
			http.Redirect(w, r, "/submit/", http.StatusSeeOther)
			return
		}
		h.logger.ErrorContext(r.Context(), "submit secret",
			"error", err,
			"user_id", principal.UserID,
			"request_id", requestcontext.RequestID(r.Context()),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/secrets/", http.StatusSeeOther)
}

func (h *SecretsHandler) renderPage(w http.ResponseWriter, r *http.Request, name string, data any) {
	if err := h.render.Render(w, name, data); err != nil {
		h.logger.ErrorContext(r.Context(), "render page",
			"page", name,
			"error", err,
			"request_id", requestcontext.RequestID(r.Context()),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
