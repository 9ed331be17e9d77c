package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amazighishop/shop_api/internal/middleware"
	"github.com/amazighishop/shop_api/internal/models"
	"github.com/amazighishop/shop_api/internal/service"
	"github.com/amazighishop/shop_api/internal/utils"
)

type stubAccounts struct {
	loginSession *service.Session
	loginErr     error
	registerErr  error
	resendErr    error
	resent       []string
}

func (s *stubAccounts) Login(ctx context.Context, email, password string) (*service.Session, error) {
	return s.loginSession, s.loginErr
}

func (s *stubAccounts) Register(ctx context.Context, in service.RegisterInput) (*models.User, error) {
	return &models.User{ID: 9, Name: in.Name, Email: in.Email, Role: models.RoleClient}, s.registerErr
}

func (s *stubAccounts) ResendCode(ctx context.Context, email string) error {
	s.resent = append(s.resent, email)
	return s.resendErr
}

func (s *stubAccounts) VerifyEmail(ctx context.Context, email, code string) (*service.Session, error) {
	return nil, utils.ErrInvalidCode
}

func (s *stubAccounts) ForgotPassword(ctx context.Context, email string) error { return nil }

func (s *stubAccounts) ResetPassword(ctx context.Context, in service.ResetPasswordInput) error {
	return utils.ErrInvalidResetToken
}

func authRouter(accounts AccountFlows) *gin.Engine {
	h := NewAuthHandler(accounts, 24*time.Hour, 15*time.Minute, false)
	r := gin.New()
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)
	r.POST("/register", h.Register)
	r.POST("/verify-email", h.VerifyEmail)
	r.POST("/verify-email/resend", h.ResendCode)
	r.POST("/reset-password", h.ResetPassword)
	r.POST("/password-strength", h.PasswordStrength)
	return r
}

func postJSON(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Login(t *testing.T) {
	const creds = `{"email":"amina@example.tn","password":"Secret#123"}`

	t.Run("success sets the session cookie", func(t *testing.T) {
		user := &models.User{ID: 3, Email: "amina@example.tn", Role: models.RoleClient}
		r := authRouter(&stubAccounts{loginSession: &service.Session{User: user, Token: "jwt-token", Redirect: "/client/payment-methods"}})

		w := postJSON(r, "/login", creds)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Set-Cookie"), middleware.SessionCookie+"=jwt-token")
		assert.Contains(t, w.Header().Get("Set-Cookie"), "HttpOnly")

		var data struct {
			Redirect     string `json:"redirect"`
			Capabilities struct {
				CanShop bool `json:"canShop"`
			} `json:"capabilities"`
		}
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
		assert.Equal(t, "/client/payment-methods", data.Redirect)
		assert.True(t, data.Capabilities.CanShop)
	})

	t.Run("bad credentials are a field error", func(t *testing.T) {
		r := authRouter(&stubAccounts{loginErr: utils.ErrInvalidCredentials})
		w := postJSON(r, "/login", creds)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, decode(t, w).Error.Fields, "email")
	})

	t.Run("blocked account notifies", func(t *testing.T) {
		r := authRouter(&stubAccounts{loginErr: utils.ErrAccountBlocked})
		w := postJSON(r, "/login", creds)

		assert.Equal(t, http.StatusForbidden, w.Code)
		env := decode(t, w)
		assert.Equal(t, "ACCOUNT_BLOCKED", env.Error.Code)
		assert.True(t, env.Error.Notify)
	})

	t.Run("unverified account is sent to verification", func(t *testing.T) {
		r := authRouter(&stubAccounts{loginErr: utils.ErrEmailNotVerified})
		w := postJSON(r, "/login", creds)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "/verify-email?email=amina%40example.tn", decode(t, w).Error.Redirect)
	})

	t.Run("missing password fails binding", func(t *testing.T) {
		r := authRouter(&stubAccounts{})
		w := postJSON(r, "/login", `{"email":"amina@example.tn"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, decode(t, w).Error.Fields, "password")
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	w := postJSON(authRouter(&stubAccounts{}), "/logout", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestAuthHandler_RegisterMailFailureStillCreates(t *testing.T) {
	r := authRouter(&stubAccounts{registerErr: utils.ErrMailDelivery})
	w := postJSON(r, "/register", `{"name":"Amina","email":"amina@example.tn","phone":"22 333 444","password":"Secret#123","password_confirmation":"Secret#123"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	var data struct {
		MailSent bool `json:"mail_sent"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
	assert.False(t, data.MailSent)
}

func TestAuthHandler_ResendUnknownAddressLooksNormal(t *testing.T) {
	stub := &stubAccounts{resendErr: utils.ErrNotFound}
	w := postJSON(authRouter(stub), "/verify-email/resend", `{"email":"nobody@example.tn"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"nobody@example.tn"}, stub.resent)
}

func TestAuthHandler_ResendVerifiedAddressLooksNormal(t *testing.T) {
	unknown := postJSON(authRouter(&stubAccounts{resendErr: utils.ErrNotFound}), "/verify-email/resend", `{"email":"nobody@example.tn"}`)
	verified := postJSON(authRouter(&stubAccounts{resendErr: utils.ErrAlreadyVerified}), "/verify-email/resend", `{"email":"amina@example.tn"}`)

	assert.Equal(t, http.StatusOK, verified.Code)
	assert.Equal(t, unknown.Code, verified.Code)
	assert.Equal(t, decode(t, unknown).Message, decode(t, verified).Message)
}

func TestAuthHandler_ResendDuringCooldown(t *testing.T) {
	stub := &stubAccounts{resendErr: &utils.CooldownError{RetryAfterSeconds: 30}}
	w := postJSON(authRouter(stub), "/verify-email/resend", `{"email":"amina@example.tn"}`)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "30", w.Header().Get("Retry-After"))
}

func TestAuthHandler_VerifyWrongCode(t *testing.T) {
	w := postJSON(authRouter(&stubAccounts{}), "/verify-email", `{"email":"amina@example.tn","code":"123456"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, decode(t, w).Error.Fields, "code")
}

func TestAuthHandler_ResetInvalidToken(t *testing.T) {
	w := postJSON(authRouter(&stubAccounts{}), "/reset-password",
		`{"token":"nope","email":"amina@example.tn","password":"Secret#123","password_confirmation":"Secret#123"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, decode(t, w).Error.Fields, "email")
}

func TestAuthHandler_PasswordStrength(t *testing.T) {
	tests := []struct {
		password string
		score    int
		hinted   bool
	}{
		{"", 0, true},
		{"abcdefgh", 2, true},
		{"Abcdefg1", 4, true},
		{"Secret#123", 5, false},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			w := postJSON(authRouter(&stubAccounts{}), "/password-strength", `{"password":"`+tt.password+`"}`)
			require.Equal(t, http.StatusOK, w.Code)

			var data struct {
				Score int    `json:"score"`
				Max   int    `json:"max"`
				Level string `json:"level"`
				Hint  string `json:"hint"`
			}
			require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
			assert.Equal(t, tt.score, data.Score)
			assert.Equal(t, service.MaxPasswordStrength, data.Max)
			assert.NotEmpty(t, data.Level)
			assert.Equal(t, tt.hinted, data.Hint != "")
		})
	}
}
