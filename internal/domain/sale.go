package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailySale is one day's recorded sales for a user. At most one record
// exists per (user, sale date); recording again for the same date
// overwrites the existing row.
type DailySale struct {
	ID                  int32           `json:"id"`
	UserID              int32           `json:"userId"`
	SaleDate            time.Time       `json:"saleDate"`
	ProductName         *string         `json:"productName,omitempty"`
	UnitsSold           int             `json:"unitsSold"`
	PricePerUnit        decimal.Decimal `json:"pricePerUnit"`
	VariableCostPerUnit decimal.Decimal `json:"variableCostPerUnit"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`
}

// Revenue is units sold times price per unit. Derived, never persisted.
func (s *DailySale) Revenue() decimal.Decimal {
	return s.PricePerUnit.Mul(decimal.NewFromInt(int64(s.UnitsSold)))
}

// TotalVariableCosts is units sold times variable cost per unit.
func (s *DailySale) TotalVariableCosts() decimal.Decimal {
	return s.VariableCostPerUnit.Mul(decimal.NewFromInt(int64(s.UnitsSold)))
}

// GrossProfit is revenue minus variable costs. Fixed costs and loan
// payments are not part of gross profit.
func (s *DailySale) GrossProfit() decimal.Decimal {
	return s.Revenue().Sub(s.TotalVariableCosts())
}

type SaleRepository interface {
	// Upsert inserts the sale or, when a row for (UserID, SaleDate)
	// already exists, overwrites its numeric fields and product name in a
	// single atomic statement. Returns the stored row.
	Upsert(sale *DailySale) (*DailySale, error)
	GetByID(userID, id int32) (*DailySale, error)
	// GetByMonth returns the user's sales whose date falls inside
	// [start, end], ordered by sale date ascending.
	GetByMonth(userID int32, start, end time.Time) ([]*DailySale, error)
	Delete(userID, id int32) error
	// CountUsersWithSales counts distinct users with at least one sale in
	// [start, end], optionally restricted to mentees of a mentor.
	CountUsersWithSales(mentorID *int32, start, end time.Time) (int64, error)
}
