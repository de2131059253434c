package service

import (
	"fmt"
	"time"

	"github.com/impulsa/impulsa-backend/internal/domain"
	"github.com/impulsa/impulsa-backend/internal/util"
	"github.com/shopspring/decimal"
)

// saleDateLayout is the wire format for sale dates.
const saleDateLayout = "2006-01-02"

// SaleService handles daily sale business logic
type SaleService struct {
	saleRepo domain.SaleRepository
	now      func() time.Time
}

// NewSaleService creates a new SaleService
func NewSaleService(saleRepo domain.SaleRepository) *SaleService {
	return &SaleService{
		saleRepo: saleRepo,
		now:      time.Now,
	}
}

// RecordSale stores the day's sales for a user. A second write for the
// same date overwrites the stored record rather than adding a line item.
func (s *SaleService) RecordSale(userID int32, saleDate string, unitsSold int, pricePerUnit, variableCostPerUnit decimal.Decimal, productName *string) (*domain.DailySale, error) {
	date, err := time.Parse(saleDateLayout, saleDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid sale_date %q, expected YYYY-MM-DD", domain.ErrInvalidInput, saleDate)
	}
	if unitsSold < 0 {
		return nil, fmt.Errorf("%w: units_sold must not be negative", domain.ErrInvalidInput)
	}
	if pricePerUnit.IsNegative() {
		return nil, fmt.Errorf("%w: price_per_unit must not be negative", domain.ErrInvalidInput)
	}
	if variableCostPerUnit.IsNegative() {
		return nil, fmt.Errorf("%w: variable_cost_per_unit must not be negative", domain.ErrInvalidInput)
	}
	if productName != nil && len(*productName) > domain.MaxProductNameLength {
		return nil, fmt.Errorf("%w: product_name exceeds %d characters", domain.ErrInvalidInput, domain.MaxProductNameLength)
	}

	return s.saleRepo.Upsert(&domain.DailySale{
		UserID:              userID,
		SaleDate:            date,
		ProductName:         productName,
		UnitsSold:           unitsSold,
		PricePerUnit:        pricePerUnit,
		VariableCostPerUnit: variableCostPerUnit,
	})
}

// ListSales returns the user's sales for a month, oldest date first. An
// empty month label means the current month.
func (s *SaleService) ListSales(userID int32, monthYear string) ([]*domain.DailySale, error) {
	if monthYear == "" {
		monthYear = util.CurrentMonthLabel(s.now())
	}
	year, month, err := util.ParseMonthLabel(monthYear)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	start, end := util.MonthBoundaries(year, month)
	sales, err := s.saleRepo.GetByMonth(userID, start, end)
	if err != nil {
		return nil, err
	}
	if sales == nil {
		sales = []*domain.DailySale{}
	}
	return sales, nil
}

// DeleteSale removes a sale permanently. Deleting a sale that does not
// exist, or that belongs to another user, fails with ErrSaleNotFound.
func (s *SaleService) DeleteSale(userID, saleID int32) error {
	return s.saleRepo.Delete(userID, saleID)
}
