package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/impulsa/impulsa-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ParameterRepository implements domain.ParameterRepository using PostgreSQL
type ParameterRepository struct {
	pool *pgxpool.Pool
}

// NewParameterRepository creates a new ParameterRepository
func NewParameterRepository(pool *pgxpool.Pool) *ParameterRepository {
	return &ParameterRepository{pool: pool}
}

const parameterColumns = `id, user_id, month_year, target_monthly_sales,
	fixed_costs_monthly, loan_monthly_payment, working_days_per_month,
	default_price_per_unit, default_variable_cost_per_unit, created_at, updated_at`

func scanParameters(row pgx.Row) (*domain.MonthlyParameters, error) {
	var p domain.MonthlyParameters
	err := row.Scan(
		&p.ID, &p.UserID, &p.MonthYear, &p.TargetMonthlySales,
		&p.FixedCostsMonthly, &p.LoanMonthlyPayment, &p.WorkingDaysPerMonth,
		&p.DefaultPricePerUnit, &p.DefaultVariableCostPerUnit,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByUserMonth retrieves the parameter row for one user and month label
func (r *ParameterRepository) GetByUserMonth(userID int32, monthYear string) (*domain.MonthlyParameters, error) {
	ctx := context.Background()
	params, err := scanParameters(r.pool.QueryRow(ctx,
		`SELECT `+parameterColumns+` FROM monthly_parameters WHERE user_id = $1 AND month_year = $2`,
		userID, monthYear))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrParametersNotFound
		}
		return nil, fmt.Errorf("get parameters: %w", err)
	}
	return params, nil
}

// Create persists a new parameter row. The (user_id, month_year) pair is
// unique; a violation maps to domain.ErrAlreadyExists so callers can fall
// back to the concurrently created row.
func (r *ParameterRepository) Create(params *domain.MonthlyParameters) (*domain.MonthlyParameters, error) {
	ctx := context.Background()
	query := `
		INSERT INTO monthly_parameters (
			user_id, month_year, target_monthly_sales, fixed_costs_monthly,
			loan_monthly_payment, working_days_per_month,
			default_price_per_unit, default_variable_cost_per_unit
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + parameterColumns
	created, err := scanParameters(r.pool.QueryRow(ctx, query,
		params.UserID, params.MonthYear, params.TargetMonthlySales,
		params.FixedCostsMonthly, params.LoanMonthlyPayment, params.WorkingDaysPerMonth,
		params.DefaultPricePerUnit, params.DefaultVariableCostPerUnit))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, fmt.Errorf("insert parameters: %w", err)
	}
	return created, nil
}

// Update applies the supplied fields of the patch. Absent fields keep
// their stored value; supplied zeroes overwrite.
func (r *ParameterRepository) Update(userID int32, monthYear string, patch *domain.ParameterPatch) (*domain.MonthlyParameters, error) {
	ctx := context.Background()

	sets := []string{"updated_at = now()"}
	args := []any{userID, monthYear}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if patch.TargetMonthlySales != nil {
		sets = append(sets, "target_monthly_sales = "+arg(*patch.TargetMonthlySales))
	}
	if patch.FixedCostsMonthly != nil {
		sets = append(sets, "fixed_costs_monthly = "+arg(*patch.FixedCostsMonthly))
	}
	if patch.LoanMonthlyPayment != nil {
		sets = append(sets, "loan_monthly_payment = "+arg(*patch.LoanMonthlyPayment))
	}
	if patch.WorkingDaysPerMonth != nil {
		sets = append(sets, "working_days_per_month = "+arg(*patch.WorkingDaysPerMonth))
	}
	if patch.DefaultPricePerUnit != nil {
		sets = append(sets, "default_price_per_unit = "+arg(*patch.DefaultPricePerUnit))
	}
	if patch.DefaultVariableCostPerUnit != nil {
		sets = append(sets, "default_variable_cost_per_unit = "+arg(*patch.DefaultVariableCostPerUnit))
	}

	query := `UPDATE monthly_parameters SET ` + strings.Join(sets, ", ") +
		` WHERE user_id = $1 AND month_year = $2 RETURNING ` + parameterColumns
	params, err := scanParameters(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrParametersNotFound
		}
		return nil, fmt.Errorf("update parameters: %w", err)
	}
	return params, nil
}
