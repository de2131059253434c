package service

import (
	"fmt"

	"github.com/impulsa/impulsa-backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles profile and admin user management
type UserService struct {
	userRepo domain.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo domain.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetProfile returns one user
func (s *UserService) GetProfile(userID int32) (*domain.User, error) {
	return s.userRepo.GetByID(userID)
}

// GetAll returns every user, newest first
func (s *UserService) GetAll() ([]*domain.User, error) {
	return s.userRepo.GetAll()
}

// GetMentors returns every user with the mentor role
func (s *UserService) GetMentors() ([]*domain.User, error) {
	return s.userRepo.GetByRole(domain.RoleMentor)
}

// UpdateProfile applies a partial update to a user. A supplied password
// is hashed; a supplied role must be valid.
func (s *UserService) UpdateProfile(userID int32, username, email, password *string, role *domain.Role) (*domain.User, error) {
	patch := &domain.UserPatch{}

	if username != nil {
		if *username == "" || len(*username) > domain.MaxUsernameLength {
			return nil, fmt.Errorf("%w: invalid username", domain.ErrInvalidInput)
		}
		patch.Username = username
	}
	if email != nil {
		if len(*email) > domain.MaxEmailLength || !emailRegex.MatchString(*email) {
			return nil, fmt.Errorf("%w: invalid email", domain.ErrInvalidInput)
		}
		patch.Email = email
	}
	if password != nil {
		if len(*password) < domain.MinPasswordLength {
			return nil, fmt.Errorf("%w: password must have at least %d characters", domain.ErrInvalidInput, domain.MinPasswordLength)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		hashed := string(hash)
		patch.PasswordHash = &hashed
	}
	if role != nil {
		if !domain.ValidRole(*role) {
			return nil, fmt.Errorf("%w: invalid role", domain.ErrInvalidInput)
		}
		patch.Role = role
	}

	return s.userRepo.Update(userID, patch)
}

// UpdateBusiness updates the entrepreneur's business profile fields.
// Nil fields are left untouched.
func (s *UserService) UpdateBusiness(userID int32, name, category, description *string) (*domain.User, error) {
	return s.userRepo.UpdateBusiness(userID, name, category, description)
}

// Delete removes a user permanently
func (s *UserService) Delete(userID int32) error {
	return s.userRepo.Delete(userID)
}
