package domain

import "github.com/shopspring/decimal"

// SalesStatistics is the computed section of a sales report. Monetary and
// rate fields are rounded to 2 decimal places for presentation; the
// integer day/unit counters stay integers.
type SalesStatistics struct {
	DaysElapsed   int `json:"daysElapsed"`
	DaysRemaining int `json:"daysRemaining"`
	DaysWithSales int `json:"daysWithSales"`

	TotalUnits         int             `json:"totalUnits"`
	TotalRevenue       decimal.Decimal `json:"totalRevenue"`
	TotalVariableCosts decimal.Decimal `json:"totalVariableCosts"`
	TotalGrossProfit   decimal.Decimal `json:"totalGrossProfit"`

	AccumulatedFixedCosts          decimal.Decimal `json:"accumulatedFixedCosts"`
	AccumulatedNetProfit           decimal.Decimal `json:"accumulatedNetProfit"`
	AccumulatedNetProfitAfterLoan  decimal.Decimal `json:"accumulatedNetProfitAfterLoan"`

	DailyTargetUnits int             `json:"dailyTargetUnits"`
	AvgUnitsPerDay   decimal.Decimal `json:"avgUnitsPerDay"`
	// UnitsPerDayNeeded is the achieved average pace over the elapsed
	// days, not a forward-looking requirement. The name is kept for
	// compatibility with the existing clients; UnitsNeededDaily carries
	// the actual remaining-pace figure.
	UnitsPerDayNeeded decimal.Decimal `json:"unitsPerDayNeeded"`
	NetProfitDailyAvg decimal.Decimal `json:"netProfitDailyAvg"`

	ProjectedUnitsMonthEnd       decimal.Decimal `json:"projectedUnitsMonthEnd"`
	ProjectedRevenueMonthEnd     decimal.Decimal `json:"projectedRevenueMonthEnd"`
	ProjectedGrossProfitMonthEnd decimal.Decimal `json:"projectedGrossProfitMonthEnd"`
	ProjectedNetProfitMonthEnd   decimal.Decimal `json:"projectedNetProfitMonthEnd"`
	ProjectedNetProfitAfterLoan  decimal.Decimal `json:"projectedNetProfitAfterLoan"`

	UnitsToTarget    decimal.Decimal `json:"unitsToTarget"`
	UnitsNeededDaily decimal.Decimal `json:"unitsNeededDaily"`

	ProfitMarginDaily       decimal.Decimal `json:"profitMarginDaily"`
	ProfitMarginAccumulated decimal.Decimal `json:"profitMarginAccumulated"`

	IsOnTarget bool `json:"isOnTarget"`
	IsAtRisk   bool `json:"isAtRisk"`
}

// SalesReport is the full aggregate returned for a (user, month) pair:
// the month's parameters, the raw sale records, and the derived
// statistics. It is recomputed from current store contents on every call.
type SalesReport struct {
	MonthYear  string             `json:"monthYear"`
	Parameters *MonthlyParameters `json:"parameters"`
	Sales      []*DailySale       `json:"sales"`
	Statistics *SalesStatistics   `json:"statistics"`
}
