package service

import (
	"context"
	"time"

	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/internal/domain/repository"
	"github.com/sangkips/hotel-billing-api/pkg/apperror"
	"github.com/sangkips/hotel-billing-api/pkg/utils"
)

// AuthService issues bearer tokens for staff and members
type AuthService struct {
	userRepo   repository.UserRepository
	jwtManager *utils.JWTManager
	expiry     time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, jwtManager *utils.JWTManager, expiry time.Duration) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		expiry:     expiry,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	User        *entity.User
	AccessToken string
	ExpiresAt   time.Time
}

// Login authenticates a user and returns an access token
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		return nil, apperror.ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, []string{user.Role})
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		User:        user,
		AccessToken: token,
		ExpiresAt:   time.Now().Add(s.expiry),
	}, nil
}
