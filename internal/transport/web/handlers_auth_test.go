package web

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"whisperwall/internal/identity"
	"whisperwall/internal/identity/service"
	"whisperwall/internal/session"
	"whisperwall/internal/transport/web/mocks"
	dErrors "whisperwall/pkg/domain-errors"
)

//go:generate mockgen -source=handlers_auth.go -destination=mocks/auth-mocks.go -package=mocks
//go:generate mockgen -source=gate.go -destination=mocks/gate-mocks.go -package=mocks
//go:generate mockgen -source=handlers_secrets.go -destination=mocks/secrets-mocks.go -package=mocks

// stubRenderer records the last template rendered instead of producing HTML.
type stubRenderer struct {
	lastName string
	fail     bool
}

func (r *stubRenderer) Render(w io.Writer, name string, _ any) error {
	if r.fail {
		return assert.AnError
	}
	r.lastName = name
	_, err := io.WriteString(w, "<page:"+name+">")
	return err
}

type webFixture struct {
	auth     *mocks.MockAuthService
	sessions *mocks.MockSessionManager
	secrets  *mocks.MockSecretsService
	google   *mocks.MockGoogleProvider
	state    *mocks.MockStateSigner
	renderer *stubRenderer
	router   http.Handler
}

func newWebFixture(t *testing.T) *webFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &webFixture{
		auth:     mocks.NewMockAuthService(ctrl),
		sessions: mocks.NewMockSessionManager(ctrl),
		secrets:  mocks.NewMockSecretsService(ctrl),
		google:   mocks.NewMockGoogleProvider(ctrl),
		state:    mocks.NewMockStateSigner(ctrl),
		renderer: &stubRenderer{},
	}
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	authHandler := NewAuthHandler(f.auth, f.sessions, f.renderer, logger,
		WithGoogle(f.google, f.state))
	secretsHandler := NewSecretsHandler(f.secrets, f.renderer, logger)
	f.router = NewRouter(authHandler, secretsHandler, f.sessions, logger, nil, nil)
	return f
}

func (f *webFixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	return nil
}

type AuthHandlerSuite struct {
	suite.Suite
}

func (s *AuthHandlerSuite) TestForms() {
	s.T().Run("login form renders", func(t *testing.T) {
		f := newWebFixture(t)
		rec := f.do(httptest.NewRequest(http.MethodGet, "/login/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "login.html", f.renderer.lastName)
	})

	s.T().Run("register form renders", func(t *testing.T) {
		f := newWebFixture(t)
		rec := f.do(httptest.NewRequest(http.MethodGet, "/register/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "register.html", f.renderer.lastName)
	})

	s.T().Run("render failure surfaces as 500", func(t *testing.T) {
		f := newWebFixture(t)
		f.renderer.fail = true
		rec := f.do(httptest.NewRequest(http.MethodGet, "/login/", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func (s *AuthHandlerSuite) TestLocalLogin() {
	principal := identity.Principal{UserID: 7, Username: "alice@example.com"}
	form := url.Values{"username": {"alice@example.com"}, "password": {"pw123"}}

	s.T().Run("success sets cookie and redirects to secrets", func(t *testing.T) {
		f := newWebFixture(t)
		f.auth.EXPECT().
			Authenticate(gomock.Any(), service.StrategyLocal, service.Credentials{
				Email:    "alice@example.com",
				Password: "pw123",
			}).
			Return(identity.Result{Principal: principal}, nil)
		f.sessions.EXPECT().
			Issue(gomock.Any(), principal, gomock.Any()).
			Return(session.Record{
				Token:     "tok-123",
				Principal: principal,
				ExpiresAt: time.Now().Add(time.Hour),
			}, nil)

		rec := f.do(postForm("/login/", form))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/secrets/", rec.Header().Get("Location"))
		cookie := sessionCookie(rec)
		if assert.NotNil(t, cookie) {
			assert.Equal(t, "tok-123", cookie.Value)
			assert.True(t, cookie.HttpOnly)
		}
	})

	s.T().Run("register posts run the same flow", func(t *testing.T) {
		f := newWebFixture(t)
		f.auth.EXPECT().
			Authenticate(gomock.Any(), service.StrategyLocal, gomock.Any()).
			Return(identity.Result{Principal: principal, CreatedUser: true}, nil)
		f.sessions.EXPECT().
			Issue(gomock.Any(), principal, gomock.Any()).
			Return(session.Record{Token: "tok-456", Principal: principal, ExpiresAt: time.Now().Add(time.Hour)}, nil)

		rec := f.do(postForm("/register/", form))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/secrets/", rec.Header().Get("Location"))
	})

	s.T().Run("bad credentials bounce to login without a cookie", func(t *testing.T) {
		f := newWebFixture(t)
		f.auth.EXPECT().
			Authenticate(gomock.Any(), service.StrategyLocal, gomock.Any()).
			Return(identity.Result{}, dErrors.New(dErrors.CodeBadCredential, "password mismatch"))
		f.sessions.EXPECT().Issue(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		rec := f.do(postForm("/login/", form))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login/", rec.Header().Get("Location"))
		assert.Nil(t, sessionCookie(rec))
	})

	s.T().Run("session issue failure bounces to login", func(t *testing.T) {
		f := newWebFixture(t)
		f.auth.EXPECT().
			Authenticate(gomock.Any(), service.StrategyLocal, gomock.Any()).
			Return(identity.Result{Principal: principal}, nil)
		f.sessions.EXPECT().
			Issue(gomock.Any(), principal, gomock.Any()).
			Return(session.Record{}, assert.AnError)

		rec := f.do(postForm("/login/", form))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login/", rec.Header().Get("Location"))
	})
}

func (s *AuthHandlerSuite) TestGoogleFlow() {
	principal := identity.Principal{UserID: 3, Username: "Bea"}
	profile := &service.FederatedProfile{SubjectID: "goog-1", DisplayName: "Bea"}

	s.T().Run("begin redirects to the provider", func(t *testing.T) {
		f := newWebFixture(t)
		f.state.EXPECT().Issue().Return("state-token", nil)
		f.google.EXPECT().AuthCodeURL("state-token").Return("https://accounts.example.com/auth?state=state-token")

		rec := f.do(httptest.NewRequest(http.MethodGet, "/auth/google/", nil))

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "https://accounts.example.com/auth?state=state-token", rec.Header().Get("Location"))
	})

	s.T().Run("callback establishes a session", func(t *testing.T) {
		f := newWebFixture(t)
		f.state.EXPECT().Validate("state-token").Return(nil)
		f.google.EXPECT().FetchProfile(gomock.Any(), "code-abc").Return(profile, nil)
		f.auth.EXPECT().
			Authenticate(gomock.Any(), service.StrategyFederated, service.Credentials{Profile: profile}).
			Return(identity.Result{Principal: principal}, nil)
		f.sessions.EXPECT().
			Issue(gomock.Any(), principal, gomock.Any()).
			Return(session.Record{Token: "tok-g", Principal: principal, ExpiresAt: time.Now().Add(time.Hour)}, nil)

		rec := f.do(httptest.NewRequest(http.MethodGet, "/auth/google/secrets/?state=state-token&code=code-abc", nil))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/secrets/", rec.Header().Get("Location"))
	})

	s.T().Run("forged state never reaches the provider", func(t *testing.T) {
		f := newWebFixture(t)
		f.state.EXPECT().Validate("forged").Return(dErrors.New(dErrors.CodeProviderError, "state invalid"))
		f.google.EXPECT().FetchProfile(gomock.Any(), gomock.Any()).Times(0)

		rec := f.do(httptest.NewRequest(http.MethodGet, "/auth/google/secrets/?state=forged&code=code-abc", nil))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login/", rec.Header().Get("Location"))
	})

	s.T().Run("profile fetch failure bounces to login", func(t *testing.T) {
		f := newWebFixture(t)
		f.state.EXPECT().Validate("state-token").Return(nil)
		f.google.EXPECT().FetchProfile(gomock.Any(), "bad-code").
			Return(nil, dErrors.New(dErrors.CodeProviderError, "exchange failed"))

		rec := f.do(httptest.NewRequest(http.MethodGet, "/auth/google/secrets/?state=state-token&code=bad-code", nil))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login/", rec.Header().Get("Location"))
	})

	s.T().Run("unconfigured provider bounces to login", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
		auth := mocks.NewMockAuthService(ctrl)
		sessions := mocks.NewMockSessionManager(ctrl)
		secretsSvc := mocks.NewMockSecretsService(ctrl)
		router := NewRouter(
			NewAuthHandler(auth, sessions, &stubRenderer{}, logger),
			NewSecretsHandler(secretsSvc, &stubRenderer{}, logger),
			sessions, logger, nil, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/google/", nil))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login/", rec.Header().Get("Location"))
	})
}

func (s *AuthHandlerSuite) TestLogout() {
	principal := identity.Principal{UserID: 9, Username: "carol"}

	s.T().Run("revokes the session and clears the cookie", func(t *testing.T) {
		f := newWebFixture(t)
		record := &session.Record{Token: "tok-9", Principal: principal, ExpiresAt: time.Now().Add(time.Hour)}
		f.sessions.EXPECT().Resolve(gomock.Any(), "tok-9").Return(record, nil)
		f.sessions.EXPECT().Revoke(gomock.Any(), "tok-9").Return(nil)

		req := httptest.NewRequest(http.MethodGet, "/logout/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "tok-9"})
		rec := f.do(req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
		cookie := sessionCookie(rec)
		if assert.NotNil(t, cookie) {
			assert.Empty(t, cookie.Value)
			assert.Negative(t, cookie.MaxAge)
		}
	})

	s.T().Run("without a session it bounces to login", func(t *testing.T) {
		f := newWebFixture(t)
		rec := f.do(httptest.NewRequest(http.MethodGet, "/logout/", nil))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login/", rec.Header().Get("Location"))
	})
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerSuite))
}
