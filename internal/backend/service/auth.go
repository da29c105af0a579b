package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/food_client/internal/backend/models"
	"github.com/Skotchmaster/food_client/internal/backend/repo"
	"github.com/Skotchmaster/food_client/internal/hash"
	wire "github.com/Skotchmaster/food_client/internal/models"
	"github.com/Skotchmaster/food_client/pkg/logging"
	"github.com/Skotchmaster/food_client/pkg/tokens"
)

const (
	RoleCustomer = "CUSTOMER"
	RoleAdmin    = "ADMIN"
)

type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
	TokenTTL  time.Duration
	HashCost  int
}

func (s *AuthService) Register(ctx context.Context, req wire.RegisterRequest) (*wire.RegisterResponse, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" || email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", ErrValidation)
	}

	pwHash, err := hash.HashPassword(req.Password, s.HashCost)
	if err != nil {
		if errors.Is(err, hash.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
		Roles:        RoleCustomer,
		FullName:     strings.TrimSpace(req.FullName),
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
	}
	if err := s.Repo.CreateUserIfNotExists(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			l.Warn("register_error", "status", 409, "reason", "user already exist")
			return nil, fmt.Errorf("%w: username or email already registered", ErrConflict)
		}
		l.Error("register_error", "status", 500, "error", err)
		return nil, err
	}

	l.Info("register_ok", "user_id", user.ID)
	return &wire.RegisterResponse{
		Message:  "User registered successfully",
		UserID:   user.ID,
		Username: user.Username,
	}, nil
}

// Login accepts a username or an email as identifier.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*wire.LoginResponse, error) {
	identifier = strings.TrimSpace(identifier)
	l := logging.FromContext(ctx).With("svc", "auth.login", "identifier", identifier)

	if identifier == "" || password == "" {
		return nil, fmt.Errorf("%w: login identifier and password are required", ErrValidation)
	}

	user, err := s.Repo.FindUserByLogin(ctx, identifier)
	if err == nil && !hash.CheckPassword(user.PasswordHash, password) {
		err = gorm.ErrRecordNotFound
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "invalid credentials")
			return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	exp := time.Now().Add(s.TokenTTL)
	token, err := tokens.CreateAccessToken(s.JWTSecret, user.ID, user.Username, user.RoleList(), exp)
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	dto := user.DTO()
	l.Info("login_ok", "user_id", user.ID)
	return &wire.LoginResponse{
		Token:       token,
		UserID:      dto.UserID,
		Username:    dto.Username,
		Email:       dto.Email,
		Roles:       dto.Roles,
		FullName:    dto.FullName,
		Address:     dto.Address,
		PhoneNumber: dto.PhoneNumber,
	}, nil
}

// MakeAdmin grants the admin role. Used by seeding.
func (s *AuthService) MakeAdmin(ctx context.Context, userID int64) error {
	_, err := s.Repo.UpdateUser(ctx, userID, map[string]any{"roles": RoleCustomer + "," + RoleAdmin})
	return err
}
