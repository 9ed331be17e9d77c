package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/amazighishop/shop_api/internal/auth"
	"github.com/amazighishop/shop_api/internal/cache"
	"github.com/amazighishop/shop_api/internal/config"
	"github.com/amazighishop/shop_api/internal/mail"
	"github.com/amazighishop/shop_api/internal/models"
	"github.com/amazighishop/shop_api/internal/repository"
	"github.com/amazighishop/shop_api/internal/utils"
)

const verificationCodeLength = 6

// AccountStore is the user persistence the account flows need.
type AccountStore interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailTaken(ctx context.Context, email string, excludeID int) (bool, error)
	Create(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id int, hash string) error
	MarkVerified(ctx context.Context, id int) error
}

// VerificationStore holds short lived codes, cooldowns and reset tokens.
type VerificationStore interface {
	SaveCode(ctx context.Context, email, code string, ttl time.Duration) error
	Code(ctx context.Context, email string) (string, error)
	DeleteCode(ctx context.Context, email string) error
	StartCooldown(ctx context.Context, email string, d time.Duration) error
	CooldownRemaining(ctx context.Context, email string) (time.Duration, error)
	SaveResetToken(ctx context.Context, token, email string, ttl time.Duration) error
	ResetEmail(ctx context.Context, token string) (string, error)
	DeleteResetToken(ctx context.Context, token string) error
}

// Session is what a successful login or verification hands back.
type Session struct {
	User     *models.User
	Token    string
	Redirect string
}

type RegisterInput struct {
	Name                 string
	Email                string
	Phone                string
	Password             string
	PasswordConfirmation string
}

type ResetPasswordInput struct {
	Token                string
	Email                string
	Password             string
	PasswordConfirmation string
}

type AuthService struct {
	users  AccountStore
	codes  VerificationStore
	mailer mail.Sender
	cfg    config.AuthConfig
	appURL string
}

func NewAuthService(users AccountStore, codes VerificationStore, mailer mail.Sender, cfg config.AuthConfig, appURL string) *AuthService {
	return &AuthService{
		users:  users,
		codes:  codes,
		mailer: mailer,
		cfg:    cfg,
		appURL: strings.TrimSuffix(appURL, "/"),
	}
}

// Login checks the credentials and opens a session. The password is checked
// before the account state so blocked or unverified accounts are only
// revealed to their owner.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	log.Debug().Str("email", email).Msg("Login attempt")

	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Warn().Str("email", email).Msg("Password verification failed")
		return nil, utils.ErrInvalidCredentials
	}
	if user.IsBlocked {
		log.Warn().Int("user_id", user.ID).Msg("Blocked account tried to log in")
		return nil, utils.ErrAccountBlocked
	}
	if !user.IsVerified() {
		return nil, utils.ErrEmailNotVerified
	}

	log.Info().Int("user_id", user.ID).Str("role", string(user.Role)).Msg("Login successful")
	return s.openSession(user)
}

// Register creates an unverified client account and mails its code. When
// the account is created but the mail fails, the user is returned together
// with an error wrapping utils.ErrMailDelivery.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	fe := utils.FieldErrors{}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	taken, err := s.users.EmailTaken(ctx, email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		fe.Add("email", "auth.email_taken")
	}

	phone, ok := NormalizePhone(in.Phone, s.cfg.PhoneCountryPrefix)
	if !ok {
		fe.Add("phone", "phone.invalid")
	}
	CheckPassword(fe, "password", in.Password, in.PasswordConfirmation)
	if err := fe.OrNil(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		Phone:        phone,
		PasswordHash: string(hash),
		Role:         models.RoleClient,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// A concurrent registration won the race past EmailTaken.
		if repository.IsUniqueViolation(err, "") {
			return nil, utils.FieldErrors{"email": "auth.email_taken"}
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	log.Info().Int("user_id", user.ID).Str("email", user.Email).Msg("Client registered")

	if err := s.sendCode(ctx, user); err != nil {
		return user, err
	}
	return user, nil
}

// ResendCode mails a fresh code unless the cooldown of the address is
// still running, in which case a *utils.CooldownError is returned.
func (s *AuthService) ResendCode(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return err
	}
	if user.IsVerified() {
		return utils.ErrAlreadyVerified
	}
	return s.sendCode(ctx, user)
}

func (s *AuthService) sendCode(ctx context.Context, user *models.User) error {
	remaining, err := s.codes.CooldownRemaining(ctx, user.Email)
	if err != nil {
		return err
	}
	if remaining > 0 {
		return &utils.CooldownError{RetryAfterSeconds: int((remaining + time.Second - 1) / time.Second)}
	}

	code, err := utils.GenerateNumericCode(verificationCodeLength)
	if err != nil {
		return err
	}
	if err := s.codes.SaveCode(ctx, user.Email, code, s.cfg.VerificationCodeTTL); err != nil {
		return err
	}

	err = s.mailer.Send(ctx, mail.Message{
		To:       user.Email,
		Name:     user.Name,
		Template: mail.TemplateVerification,
		Vars: map[string]string{
			"code":       code,
			"expires_in": strconv.Itoa(int(s.cfg.VerificationCodeTTL / time.Minute)),
		},
	})
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrMailDelivery, err)
	}

	if err := s.codes.StartCooldown(ctx, user.Email, s.cfg.ResendCooldown); err != nil {
		log.Error().Err(err).Str("email", user.Email).Msg("Failed to start resend cooldown")
	}
	log.Info().Int("user_id", user.ID).Msg("Verification code sent")
	return nil
}

// VerifyEmail consumes the code of email, marks the account verified and
// opens a session.
func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.ErrInvalidCode
		}
		return nil, err
	}
	if user.IsVerified() {
		return nil, utils.ErrAlreadyVerified
	}

	expected, err := s.codes.Code(ctx, user.Email)
	if err != nil {
		if errors.Is(err, cache.ErrMiss) {
			return nil, utils.ErrCodeExpired
		}
		return nil, err
	}
	if subtle.ConstantTimeCompare([]byte(expected), []byte(strings.TrimSpace(code))) != 1 {
		return nil, utils.ErrInvalidCode
	}

	if err := s.users.MarkVerified(ctx, user.ID); err != nil {
		return nil, err
	}
	if err := s.codes.DeleteCode(ctx, user.Email); err != nil {
		log.Error().Err(err).Str("email", user.Email).Msg("Failed to delete verification code")
	}
	now := time.Now()
	user.EmailVerifiedAt = &now

	log.Info().Int("user_id", user.ID).Msg("Email verified")
	if user.IsBlocked {
		return nil, utils.ErrAccountBlocked
	}
	return s.openSession(user)
}

// ForgotPassword mails a reset link when the account exists. It reports
// success either way so callers cannot probe for registered addresses.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			log.Debug().Str("email", email).Msg("Password reset requested for unknown address")
			return nil
		}
		return err
	}

	token, err := utils.GenerateToken()
	if err != nil {
		return err
	}
	if err := s.codes.SaveResetToken(ctx, token, user.Email, s.cfg.PasswordResetTTL); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset-password/%s?email=%s", s.appURL, token, url.QueryEscape(user.Email))
	err = s.mailer.Send(ctx, mail.Message{
		To:       user.Email,
		Name:     user.Name,
		Template: mail.TemplatePasswordReset,
		Vars: map[string]string{
			"reset_link": link,
			"expires_in": strconv.Itoa(int(s.cfg.PasswordResetTTL / time.Minute)),
		},
	})
	if err != nil {
		log.Error().Err(err).Int("user_id", user.ID).Msg("Failed to send password reset email")
		return nil
	}
	log.Info().Int("user_id", user.ID).Msg("Password reset link sent")
	return nil
}

// ResetPassword sets a new password for the account a reset token was
// issued to. The token is single use.
func (s *AuthService) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	fe := utils.FieldErrors{}
	CheckPassword(fe, "password", in.Password, in.PasswordConfirmation)
	if err := fe.OrNil(); err != nil {
		return err
	}

	issuedTo, err := s.codes.ResetEmail(ctx, in.Token)
	if err != nil {
		if errors.Is(err, cache.ErrMiss) {
			return utils.ErrInvalidResetToken
		}
		return err
	}
	if !strings.EqualFold(issuedTo, strings.TrimSpace(in.Email)) {
		return utils.ErrInvalidResetToken
	}

	user, err := s.users.GetByEmail(ctx, issuedTo)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.ErrInvalidResetToken
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return err
	}
	if !user.IsVerified() {
		if err := s.users.MarkVerified(ctx, user.ID); err != nil {
			return err
		}
	}
	if err := s.codes.DeleteResetToken(ctx, in.Token); err != nil {
		log.Error().Err(err).Msg("Failed to delete reset token")
	}

	log.Info().Int("user_id", user.ID).Msg("Password reset")
	return nil
}

// CurrentUser loads the user behind a session token.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	claims, err := utils.ValidateJWT(token)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

// EnsureAdmin creates the configured admin account when it does not exist.
func (s *AuthService) EnsureAdmin(ctx context.Context, seed config.AdminSeedConfig) error {
	if seed.Email == "" || seed.Password == "" {
		return nil
	}
	_, err := s.users.GetByEmail(ctx, seed.Email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, utils.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	now := time.Now()
	admin := &models.User{
		Name:            seed.Name,
		Email:           strings.ToLower(seed.Email),
		PasswordHash:    string(hash),
		Role:            models.RoleAdmin,
		EmailVerifiedAt: &now,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	log.Info().Str("email", admin.Email).Msg("Admin account created")
	return nil
}

func (s *AuthService) openSession(user *models.User) (*Session, error) {
	token, err := utils.GenerateJWT(user.ID, user.Email, s.cfg.SessionTTL)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Token: token, Redirect: auth.HomeRoute(user.Role)}, nil
}
