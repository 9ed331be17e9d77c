package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/amazighishop/shop_api/internal/auth"
	"github.com/amazighishop/shop_api/internal/i18n"
	"github.com/amazighishop/shop_api/internal/middleware"
	"github.com/amazighishop/shop_api/internal/models"
	"github.com/amazighishop/shop_api/internal/service"
	"github.com/amazighishop/shop_api/internal/utils"
)

// AccountFlows is the account lifecycle the auth pages drive.
type AccountFlows interface {
	Login(ctx context.Context, email, password string) (*service.Session, error)
	Register(ctx context.Context, in service.RegisterInput) (*models.User, error)
	ResendCode(ctx context.Context, email string) error
	VerifyEmail(ctx context.Context, email, code string) (*service.Session, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, in service.ResetPasswordInput) error
}

type AuthHandler struct {
	accounts      AccountFlows
	sessionTTL    time.Duration
	codeTTL       time.Duration
	secureCookies bool
}

func NewAuthHandler(accounts AccountFlows, sessionTTL, codeTTL time.Duration, secureCookies bool) *AuthHandler {
	return &AuthHandler{accounts: accounts, sessionTTL: sessionTTL, codeTTL: codeTTL, secureCookies: secureCookies}
}

type loginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

type registerRequest struct {
	Name                 string `json:"name" form:"name" binding:"required,max=30"`
	Email                string `json:"email" form:"email" binding:"required,email,max=255"`
	Phone                string `json:"phone" form:"phone" binding:"required"`
	Password             string `json:"password" form:"password" binding:"required"`
	PasswordConfirmation string `json:"password_confirmation" form:"password_confirmation" binding:"required"`
}

type verifyRequest struct {
	Email string `json:"email" form:"email" binding:"required,email"`
	Code  string `json:"code" form:"code" binding:"required,len=6,numeric"`
}

type strengthRequest struct {
	Password string `json:"password" form:"password" binding:"max=255"`
}

type emailRequest struct {
	Email string `json:"email" form:"email" binding:"required,email"`
}

type resetRequest struct {
	Token                string `json:"token" form:"token" binding:"required"`
	Email                string `json:"email" form:"email" binding:"required,email"`
	Password             string `json:"password" form:"password" binding:"required"`
	PasswordConfirmation string `json:"password_confirmation" form:"password_confirmation" binding:"required"`
}

func verifyRoute(email string) string {
	return "/verify-email?email=" + url.QueryEscape(email)
}

// Login handles POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bind(c, &req) {
		return
	}

	sess, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrInvalidCredentials):
			utils.ValidationError(c, tr(c, "auth.invalid_credentials"),
				map[string]string{"email": tr(c, "auth.invalid_credentials")})
		case errors.Is(err, utils.ErrAccountBlocked):
			utils.ErrorWith(c, http.StatusForbidden, &utils.ErrorInfo{
				Code:    "ACCOUNT_BLOCKED",
				Message: tr(c, "auth.blocked"),
				Notify:  true,
			})
		case errors.Is(err, utils.ErrEmailNotVerified):
			utils.ErrorWith(c, http.StatusForbidden, &utils.ErrorInfo{
				Code:     "EMAIL_NOT_VERIFIED",
				Message:  tr(c, "auth.not_verified"),
				Redirect: verifyRoute(req.Email),
			})
		default:
			respondError(c, err)
		}
		return
	}

	h.openSession(c, sess, "auth.logged_in")
}

func (h *AuthHandler) openSession(c *gin.Context, sess *service.Session, messageKey string) {
	middleware.SetSessionCookie(c, sess.Token, h.sessionTTL, h.secureCookies)
	utils.Success(c, http.StatusOK, tr(c, messageKey), gin.H{
		"user":         sess.User,
		"capabilities": auth.For(sess.User.Role),
		"redirect":     sess.Redirect,
	})
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.ClearSessionCookie(c, h.secureCookies)
	utils.Success(c, http.StatusOK, tr(c, "auth.logged_out"), gin.H{"redirect": middleware.LoginRoute})
}

// Register handles POST /register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bind(c, &req) {
		return
	}

	user, err := h.accounts.Register(c.Request.Context(), service.RegisterInput{
		Name:                 req.Name,
		Email:                req.Email,
		Phone:                req.Phone,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
	})
	if err != nil && !(user != nil && errors.Is(err, utils.ErrMailDelivery)) {
		respondError(c, err)
		return
	}

	message := tr(c, "auth.registered")
	if err != nil {
		// The account exists; the code can be resent from the verify page.
		message = tr(c, "auth.mail_failed")
	}
	utils.Success(c, http.StatusCreated, message, gin.H{
		"email":     user.Email,
		"mail_sent": err == nil,
		"redirect":  verifyRoute(user.Email),
	})
}

// VerifyEmail handles POST /verify-email
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req verifyRequest
	if !bind(c, &req) {
		return
	}

	sess, err := h.accounts.VerifyEmail(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrInvalidCode):
			utils.ValidationError(c, tr(c, "auth.code_invalid"), map[string]string{"code": tr(c, "auth.code_invalid")})
		case errors.Is(err, utils.ErrCodeExpired):
			utils.ValidationError(c, tr(c, "auth.code_expired"), map[string]string{"code": tr(c, "auth.code_expired")})
		case errors.Is(err, utils.ErrAlreadyVerified):
			utils.ErrorWith(c, http.StatusConflict, &utils.ErrorInfo{
				Code:     "ALREADY_VERIFIED",
				Message:  tr(c, "auth.already_verified"),
				Redirect: middleware.LoginRoute,
			})
		case errors.Is(err, utils.ErrAccountBlocked):
			utils.ErrorWith(c, http.StatusForbidden, &utils.ErrorInfo{Code: "ACCOUNT_BLOCKED", Message: tr(c, "auth.blocked"), Notify: true})
		default:
			respondError(c, err)
		}
		return
	}

	h.openSession(c, sess, "auth.verified")
}

// ResendCode handles POST /verify-email/resend
func (h *AuthHandler) ResendCode(c *gin.Context) {
	var req emailRequest
	if !bind(c, &req) {
		return
	}

	err := h.accounts.ResendCode(c.Request.Context(), req.Email)
	switch {
	case err == nil, errors.Is(err, utils.ErrNotFound), errors.Is(err, utils.ErrAlreadyVerified):
		// Unknown and already verified addresses get the same answer as
		// pending ones.
		utils.Success(c, http.StatusOK, trf(c, "auth.code_sent", int(h.codeTTL/time.Minute)), nil)
	default:
		respondError(c, err)
	}
}

// PasswordStrength handles POST /password-strength. It backs the advisory
// meter of the register and reset forms; Register still enforces the rules.
func (h *AuthHandler) PasswordStrength(c *gin.Context) {
	var req strengthRequest
	if !bind(c, &req) {
		return
	}

	score := service.PasswordStrength(req.Password)
	data := gin.H{
		"score": score,
		"max":   service.MaxPasswordStrength,
		"level": tr(c, strengthLevel(score)),
	}
	fe := utils.FieldErrors{}
	service.CheckPassword(fe, "password", req.Password, req.Password)
	if key, failed := fe["password"]; failed {
		data["hint"] = tr(c, key)
	}
	utils.Success(c, http.StatusOK, tr(c, "common.retrieved"), data)
}

func strengthLevel(score int) string {
	switch {
	case score >= service.MaxPasswordStrength:
		return "password.strong"
	case score >= 3:
		return "password.medium"
	}
	return "password.weak"
}

// ForgotPassword handles POST /forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req emailRequest
	if !bind(c, &req) {
		return
	}
	if err := h.accounts.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, tr(c, "auth.reset_sent"), nil)
}

// ResetPassword handles POST /reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetRequest
	if !bind(c, &req) {
		return
	}

	err := h.accounts.ResetPassword(c.Request.Context(), service.ResetPasswordInput{
		Token:                req.Token,
		Email:                req.Email,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
	})
	if err != nil {
		if errors.Is(err, utils.ErrInvalidResetToken) {
			utils.ValidationError(c, tr(c, "auth.reset_invalid"), map[string]string{"email": tr(c, "auth.reset_invalid")})
			return
		}
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, tr(c, "auth.password_reset"), gin.H{"redirect": middleware.LoginRoute})
}

// Me handles GET /me: the shared page props of every screen.
func (h *AuthHandler) Me(c *gin.Context) {
	lang := middleware.Language(c)
	user := middleware.CurrentUser(c)

	data := gin.H{
		"user":         user,
		"capabilities": middleware.Capabilities(c),
		"language":     lang,
		"direction":    i18n.Direction(lang),
		"dark_mode":    middleware.DarkMode(c),
	}
	if user != nil {
		data["home"] = auth.HomeRoute(user.Role)
	}
	if level, msg := middleware.TakeFlash(c); msg != "" {
		data["flash"] = gin.H{"level": level, "message": msg}
	}
	utils.Success(c, http.StatusOK, tr(c, "common.retrieved"), data)
}

// Unauthorized handles GET /unauthorized, the landing page of capability
// refusals.
func Unauthorized(c *gin.Context) {
	data := gin.H{}
	if user := middleware.CurrentUser(c); user != nil {
		data["home"] = auth.HomeRoute(user.Role)
	}
	utils.ErrorWith(c, http.StatusForbidden, &utils.ErrorInfo{
		Code:    "FORBIDDEN",
		Message: tr(c, "auth.unauthorized"),
		Extra:   data,
	})
}
