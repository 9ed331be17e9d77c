package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/amazighishop/shop_api/internal/cache"
	"github.com/amazighishop/shop_api/internal/config"
	"github.com/amazighishop/shop_api/internal/mail"
	"github.com/amazighishop/shop_api/internal/models"
	"github.com/amazighishop/shop_api/internal/utils"
)

type fakeAccounts struct {
	mu        sync.Mutex
	nextID    int
	users     map[int]*models.User
	orders    map[int]int
	createErr error
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{nextID: 1, users: map[int]*models.User{}}
}

func (f *fakeAccounts) add(u *models.User) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u.ID = f.nextID
	f.nextID++
	f.users[u.ID] = u
	return u
}

func (f *fakeAccounts) GetByID(_ context.Context, id int) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, utils.ErrNotFound
}

func (f *fakeAccounts) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (f *fakeAccounts) EmailTaken(ctx context.Context, email string, excludeID int) (bool, error) {
	u, err := f.GetByEmail(ctx, email)
	if err != nil {
		return false, nil
	}
	return u.ID != excludeID, nil
}

func (f *fakeAccounts) Create(_ context.Context, user *models.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	cp := *user
	f.add(&cp)
	user.ID = cp.ID
	return nil
}

func (f *fakeAccounts) UpdatePassword(_ context.Context, id int, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[id].PasswordHash = hash
	return nil
}

func (f *fakeAccounts) MarkVerified(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	f.users[id].EmailVerifiedAt = &now
	return nil
}

type fakeCodes struct {
	codes     map[string]string
	cooldowns map[string]time.Duration
	resets    map[string]string
}

func newFakeCodes() *fakeCodes {
	return &fakeCodes{codes: map[string]string{}, cooldowns: map[string]time.Duration{}, resets: map[string]string{}}
}

func (f *fakeCodes) SaveCode(_ context.Context, email, code string, _ time.Duration) error {
	f.codes[strings.ToLower(email)] = code
	return nil
}

func (f *fakeCodes) Code(_ context.Context, email string) (string, error) {
	if c, ok := f.codes[strings.ToLower(email)]; ok {
		return c, nil
	}
	return "", cache.ErrMiss
}

func (f *fakeCodes) DeleteCode(_ context.Context, email string) error {
	delete(f.codes, strings.ToLower(email))
	return nil
}

func (f *fakeCodes) StartCooldown(_ context.Context, email string, d time.Duration) error {
	f.cooldowns[strings.ToLower(email)] = d
	return nil
}

func (f *fakeCodes) CooldownRemaining(_ context.Context, email string) (time.Duration, error) {
	return f.cooldowns[strings.ToLower(email)], nil
}

func (f *fakeCodes) SaveResetToken(_ context.Context, token, email string, _ time.Duration) error {
	f.resets[token] = strings.ToLower(email)
	return nil
}

func (f *fakeCodes) ResetEmail(_ context.Context, token string) (string, error) {
	if e, ok := f.resets[token]; ok {
		return e, nil
	}
	return "", cache.ErrMiss
}

func (f *fakeCodes) DeleteResetToken(_ context.Context, token string) error {
	delete(f.resets, token)
	return nil
}

type fakeMailer struct {
	sent []mail.Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

var testAuthConfig = config.AuthConfig{
	SessionTTL:          time.Hour,
	VerificationCodeTTL: 15 * time.Minute,
	ResendCooldown:      60 * time.Second,
	PasswordResetTTL:    time.Hour,
	PhoneCountryPrefix:  "+216",
}

type authFixture struct {
	svc      *AuthService
	accounts *fakeAccounts
	codes    *fakeCodes
	mailer   *fakeMailer
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	utils.SetJWTSecret("test-secret")
	f := &authFixture{accounts: newFakeAccounts(), codes: newFakeCodes(), mailer: &fakeMailer{}}
	f.svc = NewAuthService(f.accounts, f.codes, f.mailer, testAuthConfig, "https://shop.example/")
	return f
}

func (f *authFixture) seedUser(t *testing.T, email, password string, role models.Role, verified, blocked bool) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{Name: "Test", Email: email, PasswordHash: string(hash), Role: role, IsBlocked: blocked}
	if verified {
		now := time.Now()
		u.EmailVerifiedAt = &now
	}
	return f.accounts.add(u)
}

func validRegistration() RegisterInput {
	return RegisterInput{
		Name:                 "Amira",
		Email:                "Amira@Example.tn",
		Phone:                "12 345 678",
		Password:             "Secret#2026",
		PasswordConfirmation: "Secret#2026",
	}
}

func TestAuthService_Login(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "admin@shop.tn", "Admin#2026", models.RoleAdmin, true, false)
	f.seedUser(t, "manager@shop.tn", "Manager#2026", models.RoleOrderManager, true, false)
	f.seedUser(t, "blocked@shop.tn", "Client#2026", models.RoleClient, true, true)
	f.seedUser(t, "new@shop.tn", "Client#2026", models.RoleClient, false, false)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
		redirect string
	}{
		{"admin lands on dashboard", "admin@shop.tn", "Admin#2026", nil, "/admin/dashboard"},
		{"order manager lands on orders", "MANAGER@shop.tn", "Manager#2026", nil, "/admin/orders"},
		{"wrong password", "admin@shop.tn", "nope", utils.ErrInvalidCredentials, ""},
		{"unknown email", "ghost@shop.tn", "Admin#2026", utils.ErrInvalidCredentials, ""},
		{"blocked account", "blocked@shop.tn", "Client#2026", utils.ErrAccountBlocked, ""},
		{"unverified account", "new@shop.tn", "Client#2026", utils.ErrEmailNotVerified, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess, err := f.svc.Login(ctx, tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.redirect, sess.Redirect)

			claims, err := utils.ValidateJWT(sess.Token)
			require.NoError(t, err)
			assert.Equal(t, sess.User.ID, claims.UserID)
		})
	}
}

func TestAuthService_Register(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user, err := f.svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	assert.Equal(t, "amira@example.tn", user.Email)
	assert.Equal(t, "+21612345678", user.Phone)
	assert.Equal(t, models.RoleClient, user.Role)
	assert.False(t, user.IsVerified())

	require.Len(t, f.mailer.sent, 1)
	msg := f.mailer.sent[0]
	assert.Equal(t, mail.TemplateVerification, msg.Template)
	assert.Len(t, msg.Vars["code"], 6)
	assert.Equal(t, "15", msg.Vars["expires_in"])
	assert.Equal(t, msg.Vars["code"], f.codes.codes["amira@example.tn"])
	assert.Equal(t, 60*time.Second, f.codes.cooldowns["amira@example.tn"])
}

func TestAuthService_Register_FieldErrors(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "amira@example.tn", "Secret#2026", models.RoleClient, true, false)

	in := validRegistration()
	in.Phone = "1234"
	in.Password = "short"
	in.PasswordConfirmation = "other"

	_, err := f.svc.Register(context.Background(), in)
	var fe utils.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "auth.email_taken", fe["email"])
	assert.Equal(t, "phone.invalid", fe["phone"])
	assert.Equal(t, "password.too_short", fe["password"])
	assert.Equal(t, "password.confirmation", fe["password_confirmation"])
	assert.Empty(t, f.mailer.sent)
}

func TestAuthService_Register_ConcurrentDuplicate(t *testing.T) {
	f := newAuthFixture(t)
	f.accounts.createErr = &pq.Error{Code: "23505", Constraint: "users_email_key"}

	_, err := f.svc.Register(context.Background(), validRegistration())

	var fe utils.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "auth.email_taken", fe["email"])
	assert.Empty(t, f.mailer.sent)
}

func TestAuthService_Register_MailFailureKeepsAccount(t *testing.T) {
	f := newAuthFixture(t)
	f.mailer.err = errors.New("emailjs down")

	user, err := f.svc.Register(context.Background(), validRegistration())
	assert.ErrorIs(t, err, utils.ErrMailDelivery)
	require.NotNil(t, user)
	assert.NotZero(t, user.ID)
	assert.Zero(t, f.codes.cooldowns["amira@example.tn"], "cooldown only starts once a mail went out")
}

func TestAuthService_ResendCode_Cooldown(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	f.codes.cooldowns["amira@example.tn"] = 42*time.Second + 300*time.Millisecond
	err = f.svc.ResendCode(ctx, "amira@example.tn")

	var cd *utils.CooldownError
	require.True(t, errors.As(err, &cd))
	assert.Equal(t, 43, cd.RetryAfterSeconds)
	assert.ErrorIs(t, err, utils.ErrResendCooldown)

	f.codes.cooldowns["amira@example.tn"] = 0
	require.NoError(t, f.svc.ResendCode(ctx, "amira@example.tn"))
	assert.Len(t, f.mailer.sent, 2)
}

func TestAuthService_VerifyEmail(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, validRegistration())
	require.NoError(t, err)
	code := f.codes.codes["amira@example.tn"]

	_, err = f.svc.VerifyEmail(ctx, "amira@example.tn", "000000x")
	assert.ErrorIs(t, err, utils.ErrInvalidCode)

	sess, err := f.svc.VerifyEmail(ctx, "amira@example.tn", code)
	require.NoError(t, err)
	assert.Equal(t, "/client/payment-methods", sess.Redirect)
	assert.True(t, sess.User.IsVerified())
	assert.NotContains(t, f.codes.codes, "amira@example.tn")

	_, err = f.svc.VerifyEmail(ctx, "amira@example.tn", code)
	assert.ErrorIs(t, err, utils.ErrAlreadyVerified)
}

func TestAuthService_VerifyEmail_Expired(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "late@shop.tn", "Client#2026", models.RoleClient, false, false)

	_, err := f.svc.VerifyEmail(context.Background(), "late@shop.tn", "123456")
	assert.ErrorIs(t, err, utils.ErrCodeExpired)
}

func TestAuthService_ForgotAndResetPassword(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	u := f.seedUser(t, "sara@shop.tn", "Client#2026", models.RoleClient, true, false)

	require.NoError(t, f.svc.ForgotPassword(ctx, "ghost@shop.tn"))
	assert.Empty(t, f.mailer.sent)

	require.NoError(t, f.svc.ForgotPassword(ctx, "sara@shop.tn"))
	require.Len(t, f.mailer.sent, 1)
	link := f.mailer.sent[0].Vars["reset_link"]
	assert.True(t, strings.HasPrefix(link, "https://shop.example/reset-password/"))

	var token string
	for tok := range f.codes.resets {
		token = tok
	}
	require.NotEmpty(t, token)
	assert.Contains(t, link, token)

	err := f.svc.ResetPassword(ctx, ResetPasswordInput{Token: token, Email: "other@shop.tn", Password: "NewPass#1", PasswordConfirmation: "NewPass#1"})
	assert.ErrorIs(t, err, utils.ErrInvalidResetToken)

	err = f.svc.ResetPassword(ctx, ResetPasswordInput{Token: token, Email: "sara@shop.tn", Password: "weak", PasswordConfirmation: "weak"})
	var fe utils.FieldErrors
	require.True(t, errors.As(err, &fe))

	err = f.svc.ResetPassword(ctx, ResetPasswordInput{Token: token, Email: "SARA@shop.tn", Password: "NewPass#1", PasswordConfirmation: "NewPass#1"})
	require.NoError(t, err)

	stored, _ := f.accounts.GetByID(ctx, u.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("NewPass#1")))

	err = f.svc.ResetPassword(ctx, ResetPasswordInput{Token: token, Email: "sara@shop.tn", Password: "NewPass#2", PasswordConfirmation: "NewPass#2"})
	assert.ErrorIs(t, err, utils.ErrInvalidResetToken)
}

func TestAuthService_ForgotPassword_MailFailureIsSilent(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "sara@shop.tn", "Client#2026", models.RoleClient, true, false)
	f.mailer.err = errors.New("down")

	assert.NoError(t, f.svc.ForgotPassword(context.Background(), "sara@shop.tn"))
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	seed := config.AdminSeedConfig{Name: "Admin", Email: "Admin@Shop.tn", Password: "Admin#2026"}

	require.NoError(t, f.svc.EnsureAdmin(ctx, seed))
	require.NoError(t, f.svc.EnsureAdmin(ctx, seed))
	assert.Len(t, f.accounts.users, 1)

	admin, err := f.accounts.GetByEmail(ctx, "admin@shop.tn")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.True(t, admin.IsVerified())

	require.NoError(t, f.svc.EnsureAdmin(ctx, config.AdminSeedConfig{}))
}

func TestAuthService_CurrentUser(t *testing.T) {
	f := newAuthFixture(t)
	u := f.seedUser(t, "sara@shop.tn", "Client#2026", models.RoleClient, true, false)
	token, err := utils.GenerateJWT(u.ID, u.Email, time.Minute)
	require.NoError(t, err)

	got, err := f.svc.CurrentUser(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	ghost, err := utils.GenerateJWT(999, "ghost@shop.tn", time.Minute)
	require.NoError(t, err)
	_, err = f.svc.CurrentUser(context.Background(), ghost)
	assert.ErrorIs(t, err, utils.ErrInvalidToken)
}
