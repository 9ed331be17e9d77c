package utils

import "errors"

// Common application errors used across services.
var (
	ErrNotFound           = errors.New("NOT_FOUND")
	ErrInvalidToken       = errors.New("INVALID_TOKEN")
	ErrInvalidCredentials = errors.New("INVALID_CREDENTIALS")
	ErrAccountBlocked     = errors.New("ACCOUNT_BLOCKED")
	ErrEmailNotVerified   = errors.New("EMAIL_NOT_VERIFIED")
	ErrAlreadyVerified    = errors.New("ALREADY_VERIFIED")
	ErrInvalidCode        = errors.New("INVALID_CODE")
	ErrCodeExpired        = errors.New("CODE_EXPIRED")
	ErrResendCooldown     = errors.New("RESEND_COOLDOWN")
	ErrInvalidResetToken  = errors.New("INVALID_RESET_TOKEN")
	ErrMailDelivery       = errors.New("MAIL_DELIVERY_FAILED")
	ErrSelfAction         = errors.New("SELF_ACTION")

	ErrOrderFinalized     = errors.New("ORDER_FINALIZED")
	ErrPaymentMethodInUse = errors.New("PAYMENT_METHOD_IN_USE")
	ErrProductTypeInUse   = errors.New("PRODUCT_TYPE_IN_USE")
	ErrUserHasOrders      = errors.New("USER_HAS_ORDERS")
	ErrPriceUnavailable   = errors.New("PRICE_UNAVAILABLE")
	ErrEmptyCart          = errors.New("EMPTY_CART")
	ErrInvalidImage       = errors.New("INVALID_IMAGE")
)

// FieldErrors maps a request field to a validation message. It satisfies
// error so services can return field level failures through the usual path.
type FieldErrors map[string]string

func (f FieldErrors) Add(field, message string) {
	if _, exists := f[field]; !exists {
		f[field] = message
	}
}

func (f FieldErrors) Error() string {
	return "VALIDATION_ERROR"
}

// OrNil returns nil when no field failed, so callers can write `return fe.OrNil()`.
func (f FieldErrors) OrNil() error {
	if len(f) == 0 {
		return nil
	}
	return f
}

// CooldownError reports how long a caller must wait before retrying.
type CooldownError struct {
	RetryAfterSeconds int
}

func (e *CooldownError) Error() string {
	return ErrResendCooldown.Error()
}

func (e *CooldownError) Unwrap() error {
	return ErrResendCooldown
}

// InUseError carries the dependent row counts that block a deletion.
type InUseError struct {
	Err    error
	Prices int
	Orders int
}

func (e *InUseError) Error() string {
	return e.Err.Error()
}

func (e *InUseError) Unwrap() error {
	return e.Err
}
