package service

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/impulsa/impulsa-backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

const tokenTTL = 24 * time.Hour

// AuthService handles registration and login. Tokens issued at login are
// signed JWTs, but nothing in the API verifies them: authentication here
// is a stub and the middleware only checks header presence.
type AuthService struct {
	userRepo    domain.UserRepository
	tokenSecret []byte
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo domain.UserRepository, tokenSecret string) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		tokenSecret: []byte(tokenSecret),
	}
}

// Register creates a new user. Unknown roles fall back to the plain user
// role rather than failing.
func (s *AuthService) Register(username, email, password string, role domain.Role) (*domain.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", domain.ErrInvalidInput)
	}
	if len(username) > domain.MaxUsernameLength {
		return nil, fmt.Errorf("%w: username exceeds %d characters", domain.ErrInvalidInput, domain.MaxUsernameLength)
	}
	if len(email) > domain.MaxEmailLength || !emailRegex.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email", domain.ErrInvalidInput)
	}
	if len(password) < domain.MinPasswordLength {
		return nil, fmt.Errorf("%w: password must have at least %d characters", domain.ErrInvalidInput, domain.MinPasswordLength)
	}
	if !domain.ValidRole(role) {
		role = domain.RoleUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.userRepo.Create(&domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, domain.ErrUsernameTaken
		}
		return nil, err
	}
	return user, nil
}

// Login authenticates by username or email and returns the user with a
// signed token.
func (s *AuthService) Login(identifier, password string) (*domain.User, string, error) {
	if identifier == "" || password == "" {
		return nil, "", fmt.Errorf("%w: username and password are required", domain.ErrInvalidInput)
	}

	user, err := s.userRepo.GetByUsernameOrEmail(identifier)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) issueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  fmt.Sprintf("%d", user.ID),
		"name": user.Username,
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.tokenSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
