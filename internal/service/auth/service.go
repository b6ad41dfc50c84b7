package auth

import (
	"context"
	"errors"

	"agencydesk/internal/model"
	"agencydesk/pkg/util"
)

type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Insert(ctx context.Context, u *model.User) (int, error)
}

type Service struct {
	users     UserStore
	jwtSecret string
}

func NewService(users UserStore, jwtSecret string) *Service {
	return &Service{
		users:     users,
		jwtSecret: jwtSecret,
	}
}

// Register creates a new admin user.
func (s *Service) Register(ctx context.Context, email, password string) (int, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return 0, err
	}
	if existing != nil {
		return 0, errors.New("email already exists")
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return 0, err
	}

	return s.users.Insert(ctx, &model.User{
		Email:        email,
		PasswordHash: hash,
		Role:         "admin",
	})
}

// Login checks admin credentials and returns a JWT.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", errors.New("invalid email or password")
	}

	if !util.CheckPassword(password, u.PasswordHash) {
		return "", errors.New("invalid email or password")
	}

	token, err := util.GenerateJWT(u.ID, s.jwtSecret)
	if err != nil {
		return "", err
	}

	return token, nil
}
