// Package calc holds the closed-form financial formulas of the farm.
// Every function is total: division by zero and out-of-domain inputs yield 0.
package calc

import "canefarm/entities"

const (
	ReformCostPerHectare = 15000.0
	// BaselineProductivity is the first-cut yield (t/ha) a reform resets to.
	BaselineProductivity = 110.0
	DefaultPricePerKgATR = 1.212
)

// degradation[i] is the yield loss applied when going from cycle i-1 to i.
var degradation = []float64{0, 0, 0.091, 0.10, 0.056, 0.059}

func ReformCost(area float64) float64 {
	return area * ReformCostPerHectare
}

// ExpectedProductivity degrades baseline through cycles 1..cycle. Cycles past
// the degradation table, or negative, give 0.
func ExpectedProductivity(baseline float64, cycle int) float64 {
	if cycle < 0 || cycle >= len(degradation) {
		return 0
	}
	f := 1.0
	for i := 1; i <= cycle; i++ {
		f *= 1 - degradation[i]
	}
	return baseline * f
}

// ATRRevenue prices tonnage by recoverable sugar: atr is kg ATR per tonne
// expressed as a percentage index.
func ATRRevenue(tonnage, atr, pricePerKgATR float64) float64 {
	return tonnage * 1000 * (atr / 100) * pricePerKgATR
}

// ReformROI is the yearly return (%) of reforming a plot at currentCycle.
func ReformROI(area float64, currentCycle int, pricePerKgATR float64) float64 {
	if currentCycle < 0 {
		return 0
	}
	cost := ReformCost(area)
	if cost <= 0 {
		return 0
	}
	gain := BaselineProductivity - ExpectedProductivity(BaselineProductivity, currentCycle)
	if gain <= 0 {
		return 0
	}
	return gain * area * pricePerKgATR / cost * 100
}

type Deductions struct {
	INSS     float64 `json:"inss"`
	Aplacana float64 `json:"aplacana"`
	Other    float64 `json:"other"`
}

func (d Deductions) Total() float64 { return d.INSS + d.Aplacana + d.Other }

func NetProfit(revenue, costs float64, d Deductions) float64 {
	return revenue - costs - d.Total()
}

type CashFlowMonth struct {
	Month    int     `json:"month"`
	Revenue  float64 `json:"revenue"`
	Expenses float64 `json:"expenses"`
	Balance  float64 `json:"balance"`
}

// CashFlowProjection accumulates a constant monthly result over months.
func CashFlowProjection(balance, monthlyRevenue, monthlyExpenses float64, months int) []CashFlowMonth {
	if months <= 0 {
		return []CashFlowMonth{}
	}
	out := make([]CashFlowMonth, 0, months)
	for m := 1; m <= months; m++ {
		balance += monthlyRevenue - monthlyExpenses
		out = append(out, CashFlowMonth{Month: m, Revenue: monthlyRevenue, Expenses: monthlyExpenses, Balance: balance})
	}
	return out
}

func BreakEvenPoint(fixedCosts, variableCostPerUnit, pricePerUnit float64) float64 {
	margin := pricePerUnit - variableCostPerUnit
	if margin <= 0 {
		return 0
	}
	return fixedCosts / margin
}

func AvailableBudget(previousRevenue, personalNeeds float64) float64 {
	if v := previousRevenue - personalNeeds; v > 0 {
		return v
	}
	return 0
}

func CostPerHectare(totalCost, area float64) float64 {
	if area <= 0 {
		return 0
	}
	return totalCost / area
}

func ProductivityPerHectare(tonnage, area float64) float64 {
	if area <= 0 {
		return 0
	}
	return tonnage / area
}

func AverageATR(ps []entities.Production) float64 {
	if len(ps) == 0 {
		return 0
	}
	var sum float64
	for _, p := range ps {
		sum += p.ATR
	}
	return sum / float64(len(ps))
}

func TotalRevenue(ps []entities.Production) float64 {
	var sum float64
	for _, p := range ps {
		sum += p.Revenue
	}
	return sum
}

func TotalCosts(ps []entities.Production) float64 {
	var sum float64
	for _, p := range ps {
		sum += p.Costs
	}
	return sum
}

type Efficiency struct {
	TotalArea           float64 `json:"total_area"`
	TotalProduction     float64 `json:"total_production"`
	AverageProductivity float64 `json:"average_productivity"`
	TotalRevenue        float64 `json:"total_revenue"`
	TotalCosts          float64 `json:"total_costs"`
	ProfitMargin        float64 `json:"profit_margin"` // %
}

func EfficiencyMetrics(plots []entities.Plot, ps []entities.Production) Efficiency {
	var e Efficiency
	for _, p := range plots {
		e.TotalArea += p.Area
	}
	for _, p := range ps {
		e.TotalProduction += p.Tonnage
	}
	e.TotalRevenue = TotalRevenue(ps)
	e.TotalCosts = TotalCosts(ps)
	e.AverageProductivity = ProductivityPerHectare(e.TotalProduction, e.TotalArea)
	if e.TotalRevenue > 0 {
		e.ProfitMargin = (e.TotalRevenue - e.TotalCosts) / e.TotalRevenue * 100
	}
	return e
}
