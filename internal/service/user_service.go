package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/amazighishop/shop_api/internal/models"
	"github.com/amazighishop/shop_api/internal/repository"
	"github.com/amazighishop/shop_api/internal/utils"
)

type userStore interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
	EmailTaken(ctx context.Context, email string, excludeID int) (bool, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id int, hash string) error
	SetBlocked(ctx context.Context, id int, blocked bool) error
	Delete(ctx context.Context, id int) error
	CountOrders(ctx context.Context, id int) (int, error)
	List(ctx context.Context, filter repository.UserFilter) ([]models.User, int, error)
}

// UserInput is the back-office user form. An empty Password on update keeps
// the current one.
type UserInput struct {
	Name                 string
	Email                string
	Phone                string
	Role                 models.Role
	Password             string
	PasswordConfirmation string
}

type UserService struct {
	users       userStore
	phonePrefix string
}

func NewUserService(users userStore, phonePrefix string) *UserService {
	return &UserService{users: users, phonePrefix: phonePrefix}
}

func (s *UserService) List(ctx context.Context, filter repository.UserFilter) ([]models.User, int, error) {
	return s.users.List(ctx, filter)
}

func (s *UserService) Get(ctx context.Context, id int) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// Create adds an account from the back-office. Such accounts are verified.
func (s *UserService) Create(ctx context.Context, in UserInput) (*models.User, error) {
	user := &models.User{}
	if err := s.apply(ctx, user, in, true); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user.PasswordHash = string(hash)
	user.EmailVerifiedAt = &now

	if err := s.users.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err, "") {
			return nil, utils.FieldErrors{"email": "auth.email_taken"}
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	log.Info().Int("user_id", user.ID).Str("role", string(user.Role)).Msg("User created")
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id int, in UserInput) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, user, in, in.Password != ""); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, user); err != nil {
		if repository.IsUniqueViolation(err, "") {
			return nil, utils.FieldErrors{"email": "auth.email_taken"}
		}
		return nil, err
	}

	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
			return nil, err
		}
	}
	log.Info().Int("user_id", user.ID).Msg("User updated")
	return user, nil
}

// apply validates in and copies it onto user.
func (s *UserService) apply(ctx context.Context, user *models.User, in UserInput, checkPassword bool) error {
	fe := utils.FieldErrors{}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	taken, err := s.users.EmailTaken(ctx, email, user.ID)
	if err != nil {
		return err
	}
	if taken {
		fe.Add("email", "auth.email_taken")
	}

	phone := ""
	if strings.TrimSpace(in.Phone) != "" {
		if strings.HasPrefix(in.Phone, s.phonePrefix) {
			in.Phone = strings.TrimPrefix(in.Phone, s.phonePrefix)
		}
		var ok bool
		if phone, ok = NormalizePhone(in.Phone, s.phonePrefix); !ok {
			fe.Add("phone", "phone.invalid")
		}
	}
	if !in.Role.Valid() {
		fe.Add("role", "validation.oneof")
	}
	if checkPassword {
		CheckPassword(fe, "password", in.Password, in.PasswordConfirmation)
	}
	if err := fe.OrNil(); err != nil {
		return err
	}

	user.Name = strings.TrimSpace(in.Name)
	user.Email = email
	user.Phone = phone
	user.Role = in.Role
	return nil
}

// Delete removes an account without orders. Order history is kept, so an
// account that ordered can only be blocked. Admins cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, actorID, id int) error {
	if actorID == id {
		return utils.ErrSelfAction
	}
	orders, err := s.users.CountOrders(ctx, id)
	if err != nil {
		return err
	}
	if orders > 0 {
		return &utils.InUseError{Err: utils.ErrUserHasOrders, Orders: orders}
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if repository.IsForeignKeyViolation(err, "") {
			// An order landed between the count and the delete.
			return &utils.InUseError{Err: utils.ErrUserHasOrders, Orders: 1}
		}
		return err
	}
	log.Info().Int("user_id", id).Int("by", actorID).Msg("User deleted")
	return nil
}

func (s *UserService) SetBlocked(ctx context.Context, actorID, id int, blocked bool) error {
	if actorID == id {
		return utils.ErrSelfAction
	}
	if err := s.users.SetBlocked(ctx, id, blocked); err != nil {
		return err
	}
	log.Info().Int("user_id", id).Int("by", actorID).Bool("blocked", blocked).Msg("User block state changed")
	return nil
}
