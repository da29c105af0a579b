package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/food_client/internal/backend/repo"
	wire "github.com/Skotchmaster/food_client/internal/models"
)

type UserService struct {
	Repo *repo.GormRepo
}

func (s *UserService) Me(ctx context.Context, userID int64) (*wire.User, error) {
	u, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// the token outlived its user
			return nil, fmt.Errorf("%w: user no longer exists", ErrUnauthorized)
		}
		return nil, err
	}
	dto := u.DTO()
	return &dto, nil
}

func (s *UserService) UpdateMe(ctx context.Context, userID int64, p wire.ProfileUpdate) (*wire.User, error) {
	fields := map[string]any{}
	if p.FullName != nil {
		fields["full_name"] = strings.TrimSpace(*p.FullName)
	}
	if p.PhoneNumber != nil {
		fields["phone_number"] = strings.TrimSpace(*p.PhoneNumber)
	}
	if p.Address != nil {
		fields["address"] = strings.TrimSpace(*p.Address)
	}

	u, err := s.Repo.UpdateUser(ctx, userID, fields)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user no longer exists", ErrUnauthorized)
		}
		return nil, err
	}
	dto := u.DTO()
	return &dto, nil
}
