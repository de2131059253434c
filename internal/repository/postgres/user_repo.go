package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/impulsa/impulsa-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository implements domain.UserRepository using PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, username, email, password_hash, role, mentor_id,
	business_name, business_category, business_description, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.MentorID,
		&u.BusinessName, &u.BusinessCategory, &u.BusinessDescription,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create persists a new user
func (r *UserRepository) Create(user *domain.User) (*domain.User, error) {
	ctx := context.Background()
	query := `
		INSERT INTO users (username, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns
	created, err := scanUser(r.pool.QueryRow(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.Role))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return created, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(id int32) (*domain.User, error) {
	ctx := context.Background()
	user, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// GetByUsernameOrEmail retrieves a user by username or email address
func (r *UserRepository) GetByUsernameOrEmail(identifier string) (*domain.User, error) {
	ctx := context.Background()
	user, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1 OR email = $1`, identifier))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by identifier: %w", err)
	}
	return user, nil
}

// GetAll retrieves every user, newest first
func (r *UserRepository) GetAll() ([]*domain.User, error) {
	return r.queryUsers(`SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`)
}

// GetByRole retrieves every user with the given role
func (r *UserRepository) GetByRole(role domain.Role) ([]*domain.User, error) {
	return r.queryUsers(`SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY username`, role)
}

// GetMentees retrieves the users assigned to a mentor
func (r *UserRepository) GetMentees(mentorID int32) ([]*domain.User, error) {
	return r.queryUsers(`SELECT `+userColumns+` FROM users WHERE mentor_id = $1 ORDER BY username`, mentorID)
}

func (r *UserRepository) queryUsers(query string, args ...any) ([]*domain.User, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Update applies the supplied patch fields to a user
func (r *UserRepository) Update(id int32, patch *domain.UserPatch) (*domain.User, error) {
	ctx := context.Background()

	sets := []string{"updated_at = now()"}
	args := []any{id}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if patch.Username != nil {
		sets = append(sets, "username = "+arg(*patch.Username))
	}
	if patch.Email != nil {
		sets = append(sets, "email = "+arg(*patch.Email))
	}
	if patch.PasswordHash != nil {
		sets = append(sets, "password_hash = "+arg(*patch.PasswordHash))
	}
	if patch.Role != nil {
		sets = append(sets, "role = "+arg(*patch.Role))
	}

	query := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE id = $1 RETURNING ` + userColumns
	user, err := scanUser(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// UpdateBusiness updates the business profile fields of a user
func (r *UserRepository) UpdateBusiness(id int32, name, category, description *string) (*domain.User, error) {
	ctx := context.Background()
	query := `
		UPDATE users SET
			business_name = COALESCE($2, business_name),
			business_category = COALESCE($3, business_category),
			business_description = COALESCE($4, business_description),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns
	user, err := scanUser(r.pool.QueryRow(ctx, query, id, name, category, description))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("update business: %w", err)
	}
	return user, nil
}

// SetMentor assigns or clears (nil) the mentor of a user
func (r *UserRepository) SetMentor(id int32, mentorID *int32) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET mentor_id = $2, updated_at = now() WHERE id = $1`, id, mentorID)
	if err != nil {
		return fmt.Errorf("set mentor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Delete removes a user permanently
func (r *UserRepository) Delete(id int32) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// CountByRole counts users with the given role
func (r *UserRepository) CountByRole(role domain.Role) (int64, error) {
	ctx := context.Background()
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, role).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count users by role: %w", err)
	}
	return count, nil
}

// CountWithMentor counts entrepreneurs that have a mentor assigned
func (r *UserRepository) CountWithMentor() (int64, error) {
	ctx := context.Background()
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE role = $1 AND mentor_id IS NOT NULL`,
		domain.RoleUser).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count users with mentor: %w", err)
	}
	return count, nil
}

// CountSignupsByMonth counts users created per calendar month since the
// given time, oldest month first
func (r *UserRepository) CountSignupsByMonth(since time.Time) ([]*domain.MonthlySignupCount, error) {
	ctx := context.Background()
	query := `
		SELECT EXTRACT(YEAR FROM created_at)::int AS year,
		       EXTRACT(MONTH FROM created_at)::int AS month,
		       COUNT(*) AS count
		FROM users
		WHERE created_at >= $1
		GROUP BY 1, 2
		ORDER BY 1, 2`
	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("count signups: %w", err)
	}
	defer rows.Close()

	var result []*domain.MonthlySignupCount
	for rows.Next() {
		var c domain.MonthlySignupCount
		if err := rows.Scan(&c.Year, &c.Month, &c.Count); err != nil {
			return nil, fmt.Errorf("scan signup count: %w", err)
		}
		result = append(result, &c)
	}
	return result, rows.Err()
}
