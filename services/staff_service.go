package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/meinhoongagan/medcare/models"
	"github.com/meinhoongagan/medcare/repositories"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// StaffService manages receptionist accounts.
type StaffService struct {
	users repositories.IUserRepository
	auth  *AuthService
	log   *zap.Logger
}

func NewStaffService(users repositories.IUserRepository, auth *AuthService, log *zap.Logger) *StaffService {
	return &StaffService{users: users, auth: auth, log: log}
}

func (s *StaffService) ListReceptionists(ctx context.Context) ([]models.User, error) {
	return s.users.ListByRole(ctx, models.RoleReceptionist)
}

func (s *StaffService) CreateReceptionist(ctx context.Context, in UserInput) (*models.User, error) {
	in.Role = string(models.RoleReceptionist)
	return s.auth.Register(ctx, in)
}

// UpdateReceptionist changes name, username and, when given, password.
func (s *StaffService) UpdateReceptionist(ctx context.Context, id uint, in UserInput) (*models.User, error) {
	user, err := s.findReceptionist(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := fieldErrors{}
	if name := strings.TrimSpace(in.FullName); name != "" {
		user.FullName = name
	}
	if username := strings.TrimSpace(in.Username); username != "" && username != user.Username {
		if _, err := s.users.FindByUsername(ctx, username); err == nil {
			return nil, ErrUsernameTaken
		} else if !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
		user.Username = username
	}
	if in.Password != "" {
		if len(in.Password) < 6 {
			fields.add("password", "Password must be at least 6 characters")
		} else {
			hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
			if err != nil {
				return nil, fmt.Errorf("hash password: %w", err)
			}
			user.Password = string(hashed)
		}
	}
	if err := fields.err(); err != nil {
		return nil, err
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *StaffService) DeleteReceptionist(ctx context.Context, id uint) error {
	if _, err := s.findReceptionist(ctx, id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	s.log.Info("receptionist deleted", zap.Uint("id", id))
	return nil
}

func (s *StaffService) findReceptionist(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.Role != models.RoleReceptionist {
		return nil, ErrNotReceptionist
	}
	return user, nil
}
