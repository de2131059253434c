package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/impulsa/impulsa-backend/internal/domain"
	"github.com/impulsa/impulsa-backend/internal/testutil"
)

func userFixture(t *testing.T) (*UserService, *testutil.MockUserRepository) {
	t.Helper()
	userRepo := testutil.NewMockUserRepository()
	userRepo.AddUser(&domain.User{ID: 1, Username: "ana", Email: "ana@example.com", Role: domain.RoleUser})
	return NewUserService(userRepo), userRepo
}

func strPtr(s string) *string { return &s }

func TestUpdateProfile_PartialFields(t *testing.T) {
	userService, repo := userFixture(t)

	updated, err := userService.UpdateProfile(1, strPtr("ana_rdz"), nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "ana_rdz", updated.Username)
	assert.Equal(t, "ana@example.com", updated.Email)

	updated, err = userService.UpdateProfile(1, nil, strPtr("ana.rdz@example.com"), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "ana_rdz", updated.Username)
	assert.Equal(t, "ana.rdz@example.com", repo.Users[1].Email)
}

func TestUpdateProfile_HashesPassword(t *testing.T) {
	userService, repo := userFixture(t)

	_, err := userService.UpdateProfile(1, nil, nil, strPtr("hunter2secret"), nil)
	require.NoError(t, err)

	hash := repo.Users[1].PasswordHash
	assert.NotEqual(t, "hunter2secret", hash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter2secret")))
}

func TestUpdateProfile_Validation(t *testing.T) {
	userService, _ := userFixture(t)

	cases := []struct {
		name     string
		username *string
		email    *string
		password *string
		role     *domain.Role
	}{
		{name: "empty username", username: strPtr("")},
		{name: "overlong username", username: strPtr(strings.Repeat("a", domain.MaxUsernameLength+1))},
		{name: "malformed email", email: strPtr("not-an-email")},
		{name: "short password", password: strPtr("abc")},
		{name: "unknown role", role: roleP(domain.Role("superuser"))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := userService.UpdateProfile(1, tc.username, tc.email, tc.password, tc.role)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func roleP(r domain.Role) *domain.Role { return &r }

func TestUpdateProfile_RoleChange(t *testing.T) {
	userService, repo := userFixture(t)

	_, err := userService.UpdateProfile(1, nil, nil, nil, roleP(domain.RoleMentor))
	require.NoError(t, err)
	assert.Equal(t, domain.RoleMentor, repo.Users[1].Role)
}

func TestUpdateBusiness(t *testing.T) {
	userService, repo := userFixture(t)

	updated, err := userService.UpdateBusiness(1, strPtr("Dulces Ana"), strPtr("food"), nil)
	require.NoError(t, err)
	require.NotNil(t, updated.BusinessName)
	assert.Equal(t, "Dulces Ana", *updated.BusinessName)
	require.NotNil(t, repo.Users[1].BusinessCategory)
	assert.Equal(t, "food", *repo.Users[1].BusinessCategory)
	assert.Nil(t, repo.Users[1].BusinessDescription)
}

func TestGetMentors(t *testing.T) {
	userService, repo := userFixture(t)
	repo.AddUser(&domain.User{Username: "marta", Email: "marta@example.com", Role: domain.RoleMentor})
	repo.AddUser(&domain.User{Username: "admin", Email: "admin@example.com", Role: domain.RoleAdmin})

	mentors, err := userService.GetMentors()
	require.NoError(t, err)
	require.Len(t, mentors, 1)
	assert.Equal(t, "marta", mentors[0].Username)
}

func TestDeleteUser(t *testing.T) {
	userService, repo := userFixture(t)

	require.NoError(t, userService.Delete(1))
	assert.Empty(t, repo.Users)

	assert.ErrorIs(t, userService.Delete(1), domain.ErrUserNotFound)
}
