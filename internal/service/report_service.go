package service

import (
	"fmt"
	"time"

	"github.com/impulsa/impulsa-backend/internal/domain"
	"github.com/impulsa/impulsa-backend/internal/util"
	"github.com/shopspring/decimal"
)

// atRiskThreshold flags a month when the projection lands below this
// fraction of the target.
var atRiskThreshold = decimal.NewFromFloat(0.8)

var oneHundred = decimal.NewFromInt(100)

// ReportService builds the monthly sales report: parameters, the raw
// sale records, and the derived statistics and projections. It is a
// stateless computation over current store contents; reads are not
// snapshot-isolated from concurrent writes, which is acceptable for a
// single-user dashboard.
type ReportService struct {
	paramService *ParameterService
	saleService  *SaleService
	now          func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(paramService *ParameterService, saleService *SaleService) *ReportService {
	return &ReportService{
		paramService: paramService,
		saleService:  saleService,
		now:          time.Now,
	}
}

// BuildReport assembles the full report for a user and month. An empty
// month label means the current month. Parameters are created with
// defaults when the user has never configured the month.
func (s *ReportService) BuildReport(userID int32, monthYear string) (*domain.SalesReport, error) {
	if monthYear == "" {
		monthYear = util.CurrentMonthLabel(s.now())
	}
	year, month, err := util.ParseMonthLabel(monthYear)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	params, err := s.paramService.GetOrCreate(userID, monthYear)
	if err != nil {
		return nil, err
	}

	sales, err := s.saleService.ListSales(userID, monthYear)
	if err != nil {
		return nil, err
	}

	stats := computeStatistics(params, sales, year, month, s.now())

	return &domain.SalesReport{
		MonthYear:  monthYear,
		Parameters: params,
		Sales:      sales,
		Statistics: stats,
	}, nil
}

// computeStatistics derives the full statistics block from a parameter
// snapshot and the month's sales.
func computeStatistics(params *domain.MonthlyParameters, sales []*domain.DailySale, year, month int, today time.Time) *domain.SalesStatistics {
	// Per-record sub-values are rounded to 2 decimals before summing.
	// This reproduces the historical totals exactly, at the cost of a
	// small cumulative rounding error versus summing raw values.
	totalUnits := 0
	totalRevenue := decimal.Zero
	totalVariableCosts := decimal.Zero
	totalGrossProfit := decimal.Zero
	for _, sale := range sales {
		totalUnits += sale.UnitsSold
		totalRevenue = totalRevenue.Add(sale.Revenue().Round(2))
		totalVariableCosts = totalVariableCosts.Add(sale.TotalVariableCosts().Round(2))
		totalGrossProfit = totalGrossProfit.Add(sale.GrossProfit().Round(2))
	}

	daysElapsed := util.DaysElapsed(year, month, today)
	workingDays := params.WorkingDaysPerMonth
	daysRemaining := workingDays - daysElapsed
	if daysRemaining < 0 {
		daysRemaining = 0
	}
	daysWithSales := len(sales)

	elapsedDec := decimal.NewFromInt(int64(daysElapsed))
	workingDaysDec := decimal.NewFromInt(int64(workingDays))
	totalUnitsDec := decimal.NewFromInt(int64(totalUnits))

	dailyFixedCosts := params.DailyFixedCosts()
	accumulatedFixedCosts := dailyFixedCosts.Mul(elapsedDec)
	accumulatedNetProfit := totalGrossProfit.Sub(accumulatedFixedCosts)

	// The loan is pro-rated by the elapsed fraction of the working month
	// here; the month-end projection below charges it in full.
	accumulatedNetProfitAfterLoan := accumulatedNetProfit
	if workingDays > 0 {
		loanAccrued := params.LoanMonthlyPayment.Mul(elapsedDec).Div(workingDaysDec)
		accumulatedNetProfitAfterLoan = accumulatedNetProfit.Sub(loanAccrued)
	}

	netProfitDailyAvg := decimal.Zero
	avgUnitsPerDay := decimal.Zero
	if daysWithSales > 0 {
		salesDaysDec := decimal.NewFromInt(int64(daysWithSales))
		netProfitDailyAvg = totalGrossProfit.Div(salesDaysDec).Sub(dailyFixedCosts)
		avgUnitsPerDay = totalUnitsDec.Div(salesDaysDec)
	}

	// Achieved pace over the elapsed days, despite the "needed" name.
	unitsPerDayNeeded := decimal.Zero
	if daysElapsed > 0 {
		unitsPerDayNeeded = totalUnitsDec.Div(elapsedDec)
	}

	projectedUnits := decimal.Zero
	projectedRevenue := decimal.Zero
	projectedGrossProfit := decimal.Zero
	projectedNetProfit := decimal.Zero
	projectedNetProfitAfterLoan := decimal.Zero
	if daysElapsed > 0 {
		projectedUnits = unitsPerDayNeeded.Mul(workingDaysDec)
		projectedRevenue = totalRevenue.Div(elapsedDec).Mul(workingDaysDec)
		projectedGrossProfit = totalGrossProfit.Div(elapsedDec).Mul(workingDaysDec)
		projectedNetProfit = projectedGrossProfit.Sub(params.FixedCostsMonthly)
		projectedNetProfitAfterLoan = projectedNetProfit.Sub(params.LoanMonthlyPayment)
	}

	unitsToTarget := decimal.NewFromInt(int64(params.TargetMonthlySales)).Sub(totalUnitsDec)
	if unitsToTarget.IsNegative() {
		unitsToTarget = decimal.Zero
	}
	unitsNeededDaily := decimal.Zero
	if daysRemaining > 0 {
		unitsNeededDaily = unitsToTarget.Div(decimal.NewFromInt(int64(daysRemaining)))
	}

	profitMarginDaily := decimal.Zero
	if daysWithSales > 0 && totalRevenue.IsPositive() {
		dailyRevenue := totalRevenue.Div(decimal.NewFromInt(int64(daysWithSales)))
		profitMarginDaily = netProfitDailyAvg.Div(dailyRevenue).Mul(oneHundred)
	}
	profitMarginAccumulated := decimal.Zero
	if totalRevenue.IsPositive() {
		profitMarginAccumulated = accumulatedNetProfit.Div(totalRevenue).Mul(oneHundred)
	}

	dailyTargetUnits := params.DailyTargetUnits()

	// Optimistic before any elapsed day: on target, not at risk.
	isOnTarget := true
	isAtRisk := false
	if daysElapsed > 0 {
		isOnTarget = unitsPerDayNeeded.GreaterThanOrEqual(decimal.NewFromInt(int64(dailyTargetUnits)))
		targetDec := decimal.NewFromInt(int64(params.TargetMonthlySales))
		isAtRisk = projectedUnits.LessThan(targetDec.Mul(atRiskThreshold))
	}

	return &domain.SalesStatistics{
		DaysElapsed:   daysElapsed,
		DaysRemaining: daysRemaining,
		DaysWithSales: daysWithSales,

		TotalUnits:         totalUnits,
		TotalRevenue:       totalRevenue.Round(2),
		TotalVariableCosts: totalVariableCosts.Round(2),
		TotalGrossProfit:   totalGrossProfit.Round(2),

		AccumulatedFixedCosts:         accumulatedFixedCosts.Round(2),
		AccumulatedNetProfit:          accumulatedNetProfit.Round(2),
		AccumulatedNetProfitAfterLoan: accumulatedNetProfitAfterLoan.Round(2),

		DailyTargetUnits:  dailyTargetUnits,
		AvgUnitsPerDay:    avgUnitsPerDay.Round(2),
		UnitsPerDayNeeded: unitsPerDayNeeded.Round(2),
		NetProfitDailyAvg: netProfitDailyAvg.Round(2),

		ProjectedUnitsMonthEnd:       projectedUnits.Round(2),
		ProjectedRevenueMonthEnd:     projectedRevenue.Round(2),
		ProjectedGrossProfitMonthEnd: projectedGrossProfit.Round(2),
		ProjectedNetProfitMonthEnd:   projectedNetProfit.Round(2),
		ProjectedNetProfitAfterLoan:  projectedNetProfitAfterLoan.Round(2),

		UnitsToTarget:    unitsToTarget.Round(2),
		UnitsNeededDaily: unitsNeededDaily.Round(2),

		ProfitMarginDaily:       profitMarginDaily.Round(2),
		ProfitMarginAccumulated: profitMarginAccumulated.Round(2),

		IsOnTarget: isOnTarget,
		IsAtRisk:   isAtRisk,
	}
}
