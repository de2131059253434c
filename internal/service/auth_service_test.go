package service

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/impulsa/impulsa-backend/internal/domain"
	"github.com/impulsa/impulsa-backend/internal/testutil"
)

func authFixture(t *testing.T) (*AuthService, *testutil.MockUserRepository) {
	t.Helper()
	userRepo := testutil.NewMockUserRepository()
	return NewAuthService(userRepo, "test-secret"), userRepo
}

func TestRegister_CreatesUserWithHashedPassword(t *testing.T) {
	authService, repo := authFixture(t)

	user, err := authService.Register("ana", "ana@example.com", "secret123", domain.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, int32(1), user.ID)
	assert.Equal(t, domain.RoleUser, user.Role)

	stored := repo.Users[user.ID]
	assert.NotEqual(t, "secret123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret123")))
}

func TestRegister_UnknownRoleFallsBackToUser(t *testing.T) {
	authService, _ := authFixture(t)

	user, err := authService.Register("ana", "ana@example.com", "secret123", domain.Role("wizard"))
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)
}

func TestRegister_Validation(t *testing.T) {
	authService, _ := authFixture(t)

	cases := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{name: "missing username", username: "", email: "a@example.com", password: "secret123"},
		{name: "missing email", username: "ana", email: "", password: "secret123"},
		{name: "missing password", username: "ana", email: "a@example.com", password: ""},
		{name: "malformed email", username: "ana", email: "not-an-email", password: "secret123"},
		{name: "short password", username: "ana", email: "a@example.com", password: "abc"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := authService.Register(tc.username, tc.email, tc.password, domain.RoleUser)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	authService, _ := authFixture(t)

	_, err := authService.Register("ana", "ana@example.com", "secret123", domain.RoleUser)
	require.NoError(t, err)

	_, err = authService.Register("ana", "other@example.com", "secret123", domain.RoleUser)
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func TestLogin_ByUsernameAndByEmail(t *testing.T) {
	authService, _ := authFixture(t)

	registered, err := authService.Register("ana", "ana@example.com", "secret123", domain.RoleMentor)
	require.NoError(t, err)

	for _, identifier := range []string{"ana", "ana@example.com"} {
		user, token, err := authService.Login(identifier, "secret123")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
		assert.NotEmpty(t, token)
	}
}

func TestLogin_TokenCarriesSubjectAndRole(t *testing.T) {
	authService, _ := authFixture(t)

	_, err := authService.Register("ana", "ana@example.com", "secret123", domain.RoleMentor)
	require.NoError(t, err)

	_, token, err := authService.Login("ana", "secret123")
	require.NoError(t, err)

	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims := parsed.Claims.(jwt.MapClaims)
	sub, err := claims.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, "1", sub)
	assert.Equal(t, string(domain.RoleMentor), claims["role"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	authService, _ := authFixture(t)

	_, err := authService.Register("ana", "ana@example.com", "secret123", domain.RoleUser)
	require.NoError(t, err)

	_, _, err = authService.Login("ana", "wrong-password")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, _, err = authService.Login("nobody", "secret123")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_MissingFields(t *testing.T) {
	authService, _ := authFixture(t)

	_, _, err := authService.Login("", "secret123")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = authService.Login("ana", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
