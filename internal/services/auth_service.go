package services

import (
	"context"
	"errors"
	"time"

	"barpos/internal/common"
	"barpos/internal/models"
	"barpos/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned on a bad username/password pair without
// revealing which half was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

const tokenTTL = 24 * time.Hour

type AuthServiceInterface interface {
	Register(ctx context.Context, username, password, role string) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type authService struct {
	userRepo  repositories.UserRepository
	jwtSecret string
	clock     clockwork.Clock
}

func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, clock clockwork.Clock) AuthServiceInterface {
	return &authService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		clock:     clock,
	}
}

func (s *authService) Register(ctx context.Context, username, password, role string) (*models.User, error) {
	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, common.NewConflict("username %q is already taken", username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if role == "" {
		role = "waiter"
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the password and issues an HS256 token with the user id as
// subject.
func (s *authService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	now := s.clock.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.NewNotFound("user", id)
	}
	return user, nil
}
