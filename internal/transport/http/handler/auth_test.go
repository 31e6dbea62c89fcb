package handler_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jeswinthayil/Lostandfound/internal/domain"
	"github.com/jeswinthayil/Lostandfound/internal/token"
	"github.com/jeswinthayil/Lostandfound/internal/transport/http/handler"
	"github.com/jeswinthayil/Lostandfound/internal/transport/http/middleware"
)

// fakeAuthUsecase implements the unexported authUsecaser interface via method matching.
type fakeAuthUsecase struct {
	register       func(ctx context.Context, name, email, password string) error
	verifyEmail    func(ctx context.Context, rawToken string) error
	login          func(ctx context.Context, email, password string) (string, error)
	logout         func(ctx context.Context, rawToken string) error
	forgotPassword func(ctx context.Context, email string) error
	resetPassword  func(ctx context.Context, rawToken, newPassword string) error
}

func (f *fakeAuthUsecase) Register(ctx context.Context, name, email, password string) error {
	return f.register(ctx, name, email, password)
}

func (f *fakeAuthUsecase) VerifyEmail(ctx context.Context, rawToken string) error {
	return f.verifyEmail(ctx, rawToken)
}

func (f *fakeAuthUsecase) Login(ctx context.Context, email, password string) (string, error) {
	return f.login(ctx, email, password)
}

func (f *fakeAuthUsecase) Logout(ctx context.Context, rawToken string) error {
	return f.logout(ctx, rawToken)
}

func (f *fakeAuthUsecase) ForgotPassword(ctx context.Context, email string) error {
	return f.forgotPassword(ctx, email)
}

func (f *fakeAuthUsecase) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	return f.resetPassword(ctx, rawToken, newPassword)
}

const authTestKey = "auth-handler-test-secret-32chars!"

func newAuthEngine(uc *fakeAuthUsecase, tokens *token.Service) *gin.Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := handler.NewAuthHandler(uc, logger)
	authRequired := middleware.Auth(tokens, &fakeRevocationRepo{}, logger)

	r := gin.New()
	r.POST("/api/auth/register", h.Register)
	r.GET("/api/auth/verify/:token", h.VerifyEmail)
	r.POST("/api/auth/login", h.Login)
	r.POST("/api/auth/logout", authRequired, h.Logout)
	r.POST("/api/auth/forgot-password", h.ForgotPassword)
	r.POST("/api/auth/reset-password", h.ResetPassword)
	return r
}

// ---- Register ----

func TestRegister_InvalidJSON_Returns400(t *testing.T) {
	engine := newAuthEngine(&fakeAuthUsecase{}, token.NewService([]byte(authTestKey)))
	w := do(engine, http.MethodPost, "/api/auth/register", "", `{bad json}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestRegister_ShortPassword_Returns400(t *testing.T) {
	engine := newAuthEngine(&fakeAuthUsecase{}, token.NewService([]byte(authTestKey)))
	w := do(engine, http.MethodPost, "/api/auth/register", "",
		`{"name":"Alice","email":"alice@kristujayanti.com","password":"short"}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestRegister_ForeignDomain_Returns403(t *testing.T) {
	uc := &fakeAuthUsecase{
		register: func(_ context.Context, _, _, _ string) error { return domain.ErrEmailNotAllowed },
	}
	engine := newAuthEngine(uc, token.NewService([]byte(authTestKey)))
	w := do(engine, http.MethodPost, "/api/auth/register", "",
		`{"name":"Mallory","email":"mallory@gmail.com","password":"password123"}`)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestRegister_DuplicateEmail_Returns409(t *testing.T) {
	uc := &fakeAuthUsecase{
		register: func(_ context.Context, _, _, _ string) error { return domain.ErrEmailTaken },
	}
	engine := newAuthEngine(uc, token.NewService([]byte(authTestKey)))
	w := do(engine, http.MethodPost, "/api/auth/register", "",
		`{"name":"Alice","email":"alice@kristujayanti.com","password":"password123"}`)

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

func TestRegister_Success_Returns201(t *testing.T) {
	uc := &fakeAuthUsecase{
		register: func(_ context.Context, _, _, _ string) error { return nil },
	}
	engine := newAuthEngine(uc, token.NewService([]byte(authTestKey)))
	w := do(engine, http.MethodPost, "/api/auth/register", "",
		`{"name":"Alice","email":"alice@kristujayanti.com","password":"password123"}`)

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", w.Code)
	}
}

// ---- VerifyEmail ----

func TestVerifyEmail_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"unknown token", domain.ErrTokenInvalid, http.StatusNotFound},
		{"expired token", domain.ErrTokenExpired, http.StatusGone},
		{"storage failure", errors.New("db down"), http.StatusInternalServerError},
		{"success", nil, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc := &fakeAuthUsecase{
				verifyEmail: func(_ context.Context, _ string) error { return tc.err },
			}
			engine := newAuthEngine(uc, token.NewService([]byte(authTestKey)))
			w := do(engine, http.MethodGet, "/api/auth/verify/sometoken", "", "")

			if w.Code != tc.want {
				t.Errorf("status = %d, want %d", w.Code, tc.want)
			}
		})
	}
}

// ---- Login ----

func TestLogin_BadCredentials_Returns401(t *testing.T) {
	uc := &fakeAuthUsecase{
		login: func(_ context.Context, _, _ string) (string, error) {
			return "", domain.ErrInvalidLogin
		},
	}
	engine := newAuthEngine(uc, token.NewService([]byte(authTestKey)))
	w := do(engine, http.MethodPost, "/api/auth/login", "",
		`{"email":"alice@kristujayanti.com","password":"wrong"}`)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestLogin_Unverified_Returns403(t *testing.T) {
	uc := &fakeAuthUsecase{
		login: func(_ context.Context, _, _ string) (string, error) {
			return "", domain.ErrNotVerified
		},
	}
	engine := newAuthEngine(uc, token.NewService([]byte(authTestKey)))
	w := do(engine, http.MethodPost, "/api/auth/login", "",
		`{"email":"alice@kristujayanti.com","password":"password123"}`)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestLogin_Success_ReturnsToken(t *testing.T) {
	const fakeJWT = "header.payload.signature"
	uc := &fakeAuthUsecase{
		login: func(_ context.Context, _, _ string) (string, error) { return fakeJWT, nil },
	}
	engine := newAuthEngine(uc, token.NewService([]byte(authTestKey)))
	w := do(engine, http.MethodPost, "/api/auth/login", "",
		`{"email":"alice@kristujayanti.com","password":"password123"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), fakeJWT) {
		t.Errorf("body %q does not contain the token", w.Body.String())
	}
}

// ---- Logout ----

func TestLogout_PassesThePresentedCredential(t *testing.T) {
	tokens := token.NewService([]byte(authTestKey))
	signed, err := tokens.Issue("alice@kristujayanti.com", domain.RoleUser)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	var gotRaw string
	uc := &fakeAuthUsecase{
		logout: func(_ context.Context, raw string) error {
			gotRaw = raw
			return nil
		},
	}
	engine := newAuthEngine(uc, tokens)
	w := do(engine, http.MethodPost, "/api/auth/logout", "Bearer "+signed, "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if gotRaw != signed {
		t.Error("logout did not receive the presented credential")
	}
}

func TestLogout_WithoutCredential_Returns401(t *testing.T) {
	engine := newAuthEngine(&fakeAuthUsecase{}, token.NewService([]byte(authTestKey)))
	w := do(engine, http.MethodPost, "/api/auth/logout", "", "")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

// ---- ForgotPassword / ResetPassword ----

func TestForgotPassword_UnknownUser_Returns404(t *testing.T) {
	uc := &fakeAuthUsecase{
		forgotPassword: func(_ context.Context, _ string) error { return domain.ErrUserNotFound },
	}
	engine := newAuthEngine(uc, token.NewService([]byte(authTestKey)))
	w := do(engine, http.MethodPost, "/api/auth/forgot-password", "",
		`{"email":"nobody@kristujayanti.com"}`)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestResetPassword_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"unknown token", domain.ErrTokenInvalid, http.StatusBadRequest},
		{"expired token", domain.ErrTokenExpired, http.StatusGone},
		{"success", nil, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc := &fakeAuthUsecase{
				resetPassword: func(_ context.Context, _, _ string) error { return tc.err },
			}
			engine := newAuthEngine(uc, token.NewService([]byte(authTestKey)))
			w := do(engine, http.MethodPost, "/api/auth/reset-password", "",
				`{"token":"sometoken","new_password":"password123"}`)

			if w.Code != tc.want {
				t.Errorf("status = %d, want %d", w.Code, tc.want)
			}
		})
	}
}
