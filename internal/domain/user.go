package domain

import "time"

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMentor Role = "mentor"
	RoleUser   Role = "user"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	return r == RoleAdmin || r == RoleMentor || r == RoleUser
}

type User struct {
	ID                  int32      `json:"id"`
	Username            string     `json:"username"`
	Email               string     `json:"email"`
	PasswordHash        string     `json:"-"`
	Role                Role       `json:"role"`
	MentorID            *int32     `json:"mentorId,omitempty"`
	BusinessName        *string    `json:"businessName,omitempty"`
	BusinessCategory    *string    `json:"businessCategory,omitempty"`
	BusinessDescription *string    `json:"businessDescription,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsMentor reports whether the user has the mentor role.
func (u *User) IsMentor() bool {
	return u.Role == RoleMentor
}

// UserPatch carries optional profile updates. A nil field means
// "not supplied", which is distinct from an empty value.
type UserPatch struct {
	Username     *string
	Email        *string
	PasswordHash *string
	Role         *Role
}

// MonthlySignupCount is the number of users created in a calendar month.
type MonthlySignupCount struct {
	Year  int
	Month int
	Count int64
}

type UserRepository interface {
	Create(user *User) (*User, error)
	GetByID(id int32) (*User, error)
	GetByUsernameOrEmail(identifier string) (*User, error)
	GetAll() ([]*User, error)
	GetByRole(role Role) ([]*User, error)
	GetMentees(mentorID int32) ([]*User, error)
	Update(id int32, patch *UserPatch) (*User, error)
	UpdateBusiness(id int32, name, category, description *string) (*User, error)
	SetMentor(id int32, mentorID *int32) error
	Delete(id int32) error
	CountByRole(role Role) (int64, error)
	CountWithMentor() (int64, error)
	CountSignupsByMonth(since time.Time) ([]*MonthlySignupCount, error)
}
