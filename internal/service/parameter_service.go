package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/impulsa/impulsa-backend/internal/domain"
	"github.com/impulsa/impulsa-backend/internal/util"
)

// ParameterService handles monthly parameter business logic
type ParameterService struct {
	paramRepo domain.ParameterRepository
	now       func() time.Time
}

// NewParameterService creates a new ParameterService
func NewParameterService(paramRepo domain.ParameterRepository) *ParameterService {
	return &ParameterService{
		paramRepo: paramRepo,
		now:       time.Now,
	}
}

// GetOrCreate returns the parameter row for (user, month), creating it
// with zeroed defaults on first access. The read therefore has a write
// side effect; callers rely on the row existing afterwards. An empty
// month label means the current month.
func (s *ParameterService) GetOrCreate(userID int32, monthYear string) (*domain.MonthlyParameters, error) {
	monthYear, err := s.resolveMonth(monthYear)
	if err != nil {
		return nil, err
	}

	params, err := s.paramRepo.GetByUserMonth(userID, monthYear)
	if err == nil {
		return params, nil
	}
	if !errors.Is(err, domain.ErrParametersNotFound) {
		return nil, err
	}

	created, err := s.paramRepo.Create(&domain.MonthlyParameters{
		UserID:              userID,
		MonthYear:           monthYear,
		TargetMonthlySales:  0,
		WorkingDaysPerMonth: domain.DefaultWorkingDays,
	})
	if err != nil {
		// A concurrent request may have created the row first; fall
		// back to reading it.
		if errors.Is(err, domain.ErrAlreadyExists) {
			return s.paramRepo.GetByUserMonth(userID, monthYear)
		}
		return nil, err
	}
	return created, nil
}

// Update applies a partial patch to the parameter row, creating it first
// when absent. Supplied fields overwrite, including explicit zeroes;
// absent fields keep their stored value.
func (s *ParameterService) Update(userID int32, monthYear string, patch *domain.ParameterPatch) (*domain.MonthlyParameters, error) {
	monthYear, err := s.resolveMonth(monthYear)
	if err != nil {
		return nil, err
	}

	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	if _, err := s.GetOrCreate(userID, monthYear); err != nil {
		return nil, err
	}

	if patch.Empty() {
		return s.paramRepo.GetByUserMonth(userID, monthYear)
	}
	return s.paramRepo.Update(userID, monthYear, patch)
}

func (s *ParameterService) resolveMonth(monthYear string) (string, error) {
	if monthYear == "" {
		return util.CurrentMonthLabel(s.now()), nil
	}
	if _, _, err := util.ParseMonthLabel(monthYear); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return monthYear, nil
}

func validatePatch(patch *domain.ParameterPatch) error {
	if patch.TargetMonthlySales != nil && *patch.TargetMonthlySales < 0 {
		return fmt.Errorf("%w: target_monthly_sales must not be negative", domain.ErrInvalidInput)
	}
	if patch.WorkingDaysPerMonth != nil && *patch.WorkingDaysPerMonth <= 0 {
		return fmt.Errorf("%w: working_days_per_month must be positive", domain.ErrInvalidInput)
	}
	if patch.FixedCostsMonthly != nil && patch.FixedCostsMonthly.IsNegative() {
		return fmt.Errorf("%w: fixed_costs_monthly must not be negative", domain.ErrInvalidInput)
	}
	if patch.LoanMonthlyPayment != nil && patch.LoanMonthlyPayment.IsNegative() {
		return fmt.Errorf("%w: loan_monthly_payment must not be negative", domain.ErrInvalidInput)
	}
	if patch.DefaultPricePerUnit != nil && *patch.DefaultPricePerUnit != nil && (*patch.DefaultPricePerUnit).IsNegative() {
		return fmt.Errorf("%w: default_price_per_unit must not be negative", domain.ErrInvalidInput)
	}
	if patch.DefaultVariableCostPerUnit != nil && *patch.DefaultVariableCostPerUnit != nil && (*patch.DefaultVariableCostPerUnit).IsNegative() {
		return fmt.Errorf("%w: default_variable_cost_per_unit must not be negative", domain.ErrInvalidInput)
	}
	return nil
}
