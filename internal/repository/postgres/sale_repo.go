package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/impulsa/impulsa-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SaleRepository implements domain.SaleRepository using PostgreSQL
type SaleRepository struct {
	pool *pgxpool.Pool
}

// NewSaleRepository creates a new SaleRepository
func NewSaleRepository(pool *pgxpool.Pool) *SaleRepository {
	return &SaleRepository{pool: pool}
}

const saleColumns = `id, user_id, sale_date, product_name, units_sold,
	price_per_unit, variable_cost_per_unit, created_at, updated_at`

func scanSale(row pgx.Row) (*domain.DailySale, error) {
	var s domain.DailySale
	err := row.Scan(
		&s.ID, &s.UserID, &s.SaleDate, &s.ProductName, &s.UnitsSold,
		&s.PricePerUnit, &s.VariableCostPerUnit, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Upsert inserts or overwrites the sale for (user_id, sale_date) in one
// atomic statement, so concurrent submissions for the same date cannot
// lose updates. The product name is only replaced when supplied.
func (r *SaleRepository) Upsert(sale *domain.DailySale) (*domain.DailySale, error) {
	ctx := context.Background()
	query := `
		INSERT INTO daily_sales (
			user_id, sale_date, product_name, units_sold,
			price_per_unit, variable_cost_per_unit
		)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, sale_date) DO UPDATE SET
			units_sold = EXCLUDED.units_sold,
			price_per_unit = EXCLUDED.price_per_unit,
			variable_cost_per_unit = EXCLUDED.variable_cost_per_unit,
			product_name = COALESCE(EXCLUDED.product_name, daily_sales.product_name),
			updated_at = now()
		RETURNING ` + saleColumns
	stored, err := scanSale(r.pool.QueryRow(ctx, query,
		sale.UserID, sale.SaleDate, sale.ProductName, sale.UnitsSold,
		sale.PricePerUnit, sale.VariableCostPerUnit))
	if err != nil {
		return nil, fmt.Errorf("upsert sale: %w", err)
	}
	return stored, nil
}

// GetByID retrieves one sale scoped to its owning user
func (r *SaleRepository) GetByID(userID, id int32) (*domain.DailySale, error) {
	ctx := context.Background()
	sale, err := scanSale(r.pool.QueryRow(ctx,
		`SELECT `+saleColumns+` FROM daily_sales WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSaleNotFound
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return sale, nil
}

// GetByMonth retrieves the user's sales inside [start, end], date ascending
func (r *SaleRepository) GetByMonth(userID int32, start, end time.Time) ([]*domain.DailySale, error) {
	ctx := context.Background()
	query := `
		SELECT ` + saleColumns + `
		FROM daily_sales
		WHERE user_id = $1 AND sale_date >= $2 AND sale_date <= $3
		ORDER BY sale_date ASC`
	rows, err := r.pool.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var sales []*domain.DailySale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

// Delete removes a sale permanently, scoped to its owning user
func (r *SaleRepository) Delete(userID, id int32) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM daily_sales WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSaleNotFound
	}
	return nil
}

// CountUsersWithSales counts distinct users with at least one sale in the
// date range, optionally restricted to one mentor's mentees
func (r *SaleRepository) CountUsersWithSales(mentorID *int32, start, end time.Time) (int64, error) {
	ctx := context.Background()
	query := `
		SELECT COUNT(DISTINCT s.user_id)
		FROM daily_sales s
		JOIN users u ON u.id = s.user_id
		WHERE s.sale_date >= $1 AND s.sale_date <= $2
		  AND ($3::int IS NULL OR u.mentor_id = $3)`
	var count int64
	if err := r.pool.QueryRow(ctx, query, start, end, mentorID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users with sales: %w", err)
	}
	return count, nil
}
