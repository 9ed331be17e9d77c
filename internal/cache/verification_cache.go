package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// VerificationCache stores the short-lived secrets of the account flows:
// email verification codes, their resend cooldowns and password reset tokens.
type VerificationCache struct {
	kv KV
}

// NewVerificationCache creates a new VerificationCache.
func NewVerificationCache(kv KV) *VerificationCache {
	return &VerificationCache{kv: kv}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (c *VerificationCache) keyCode(email string) string {
	return fmt.Sprintf("verify:code:%s", normalizeEmail(email))
}

func (c *VerificationCache) keyCooldown(email string) string {
	return fmt.Sprintf("verify:cooldown:%s", normalizeEmail(email))
}

func (c *VerificationCache) keyReset(token string) string {
	return fmt.Sprintf("reset:token:%s", token)
}

// SaveCode stores the verification code of email for ttl, replacing any
// previous code.
func (c *VerificationCache) SaveCode(ctx context.Context, email, code string, ttl time.Duration) error {
	if err := c.kv.Set(ctx, c.keyCode(email), code, ttl); err != nil {
		return fmt.Errorf("failed to store verification code: %w", err)
	}
	return nil
}

// Code returns the pending code of email, or ErrMiss once it expired.
func (c *VerificationCache) Code(ctx context.Context, email string) (string, error) {
	return c.kv.Get(ctx, c.keyCode(email))
}

// DeleteCode removes the pending code of email.
func (c *VerificationCache) DeleteCode(ctx context.Context, email string) error {
	return c.kv.Delete(ctx, c.keyCode(email))
}

// StartCooldown blocks new codes for email during d.
func (c *VerificationCache) StartCooldown(ctx context.Context, email string, d time.Duration) error {
	return c.kv.Set(ctx, c.keyCooldown(email), "1", d)
}

// CooldownRemaining returns how long email must still wait; zero when free.
func (c *VerificationCache) CooldownRemaining(ctx context.Context, email string) (time.Duration, error) {
	d, err := c.kv.TTL(ctx, c.keyCooldown(email))
	if err == ErrMiss {
		return 0, nil
	}
	return d, err
}

// SaveResetToken maps a password reset token to its email for ttl.
func (c *VerificationCache) SaveResetToken(ctx context.Context, token, email string, ttl time.Duration) error {
	if err := c.kv.Set(ctx, c.keyReset(token), normalizeEmail(email), ttl); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}
	return nil
}

// ResetEmail returns the email a reset token was issued for, or ErrMiss.
func (c *VerificationCache) ResetEmail(ctx context.Context, token string) (string, error) {
	return c.kv.Get(ctx, c.keyReset(token))
}

// DeleteResetToken invalidates a reset token.
func (c *VerificationCache) DeleteResetToken(ctx context.Context, token string) error {
	return c.kv.Delete(ctx, c.keyReset(token))
}
