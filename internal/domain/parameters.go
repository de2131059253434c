package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultWorkingDays is the working-day denominator used when a row is
// created lazily, before the user has configured anything.
const DefaultWorkingDays = 30

// MonthlyParameters is the per-user, per-month configuration driving the
// sales report. One row per (user, month label); created lazily with
// zeroed defaults on first access and never deleted.
type MonthlyParameters struct {
	ID                         int32            `json:"id"`
	UserID                     int32            `json:"userId"`
	MonthYear                  string           `json:"monthYear"`
	TargetMonthlySales         int              `json:"targetMonthlySales"`
	FixedCostsMonthly          decimal.Decimal  `json:"fixedCostsMonthly"`
	LoanMonthlyPayment         decimal.Decimal  `json:"loanMonthlyPayment"`
	WorkingDaysPerMonth        int              `json:"workingDaysPerMonth"`
	DefaultPricePerUnit        *decimal.Decimal `json:"defaultPricePerUnit,omitempty"`
	DefaultVariableCostPerUnit *decimal.Decimal `json:"defaultVariableCostPerUnit,omitempty"`
	CreatedAt                  time.Time        `json:"createdAt"`
	UpdatedAt                  time.Time        `json:"updatedAt"`
}

// DailyTargetUnits is the whole-unit daily goal: floor of the monthly
// target over the configured working days. Zero when working days is not
// positive.
func (p *MonthlyParameters) DailyTargetUnits() int {
	if p.WorkingDaysPerMonth <= 0 {
		return 0
	}
	return p.TargetMonthlySales / p.WorkingDaysPerMonth
}

// DailyFixedCosts spreads the monthly fixed costs over the working days.
func (p *MonthlyParameters) DailyFixedCosts() decimal.Decimal {
	if p.WorkingDaysPerMonth <= 0 {
		return decimal.Zero
	}
	return p.FixedCostsMonthly.Div(decimal.NewFromInt(int64(p.WorkingDaysPerMonth)))
}

// ParameterPatch carries a partial update. Nil means "field not
// supplied"; a non-nil pointer to a zero value is an explicit update to
// zero. The double pointers allow the two nullable defaults to be
// cleared (outer non-nil, inner nil) as well as set.
type ParameterPatch struct {
	TargetMonthlySales         *int
	FixedCostsMonthly          *decimal.Decimal
	LoanMonthlyPayment         *decimal.Decimal
	WorkingDaysPerMonth        *int
	DefaultPricePerUnit        **decimal.Decimal
	DefaultVariableCostPerUnit **decimal.Decimal
}

// Empty reports whether the patch supplies no fields at all.
func (p *ParameterPatch) Empty() bool {
	return p.TargetMonthlySales == nil &&
		p.FixedCostsMonthly == nil &&
		p.LoanMonthlyPayment == nil &&
		p.WorkingDaysPerMonth == nil &&
		p.DefaultPricePerUnit == nil &&
		p.DefaultVariableCostPerUnit == nil
}

type ParameterRepository interface {
	GetByUserMonth(userID int32, monthYear string) (*MonthlyParameters, error)
	// Create persists a new row. The (user, month) pair is unique;
	// ErrAlreadyExists signals a concurrent creation.
	Create(params *MonthlyParameters) (*MonthlyParameters, error)
	// Update applies the supplied fields of the patch to the existing
	// row and returns the stored result.
	Update(userID int32, monthYear string, patch *ParameterPatch) (*MonthlyParameters, error)
}
