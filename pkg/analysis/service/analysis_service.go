package service

import (
	"context"

	"canefarm/pkg/calc"
	"canefarm/pkg/optimize"
)

// AnalysisService runs the farm-wide heuristics over the current plots and
// their category-derived cycles.
type AnalysisService interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
	Consolidation(ctx context.Context) (*optimize.Result, error)
	ReformPriority(ctx context.Context) ([]optimize.ReformPriority, error)
	PlotROI(ctx context.Context, plotID string) (*PlotROI, error)
	OptimalPlotSize(ctx context.Context, operationalCosts, machineryCapacity float64) (*OptimalSize, error)

	ROI(in ROIInput) ROIResult
	BreakEven(in BreakEvenInput) BreakEvenResult
	Projection(balance, monthlyRevenue, monthlyExpenses float64, months int) []calc.CashFlowMonth
	Price() float64
}

type CycleCount struct {
	Cycle int     `json:"cycle"`
	Name  string  `json:"name"`
	Plots int     `json:"plots"`
	Area  float64 `json:"area"`
}

type Dashboard struct {
	PlotCount        int            `json:"plot_count"`
	TotalArea        float64        `json:"total_area"`
	AverageArea      float64        `json:"average_area"`
	UnassignedPlots  int            `json:"unassigned_plots"`
	ByCycle          []CycleCount   `json:"by_cycle"`
	ByStatus         map[string]int `json:"by_status"`
	EstimatedRevenue float64        `json:"estimated_revenue"`
	Efficiency       int            `json:"efficiency"` // % of plots >= 5 ha
	PricePerKgATR    float64        `json:"price_per_kg_atr"`
}

type PlotROI struct {
	PlotID              string  `json:"plot_id"`
	Number              int     `json:"number"`
	Area                float64 `json:"area"`
	Cycle               int     `json:"cycle"`
	CycleName           string  `json:"cycle_name"`
	CurrentProductivity float64 `json:"current_productivity"`
	ReformProductivity  float64 `json:"reform_productivity"`
	ReformCost          float64 `json:"reform_cost"`
	ROI                 float64 `json:"roi"`
}

type OptimalSize struct {
	OptimalSize       float64 `json:"optimal_size"`
	OperationalCosts  float64 `json:"operational_costs"`
	MachineryCapacity float64 `json:"machinery_capacity"`
	PlotsBelow        int     `json:"plots_below"`
}

type ROIInput struct {
	Area          float64  `json:"area" query:"area" validate:"gt=0"`
	Cycle         int      `json:"cycle" query:"cycle" validate:"gte=0"`
	PricePerKgATR *float64 `json:"price_per_kg_atr" query:"price" validate:"omitempty,gt=0"`
}

type ROIResult struct {
	Area                 float64 `json:"area"`
	Cycle                int     `json:"cycle"`
	PricePerKgATR        float64 `json:"price_per_kg_atr"`
	ReformCost           float64 `json:"reform_cost"`
	ExpectedProductivity float64 `json:"expected_productivity"`
	ROI                  float64 `json:"roi"`
}

type BreakEvenInput struct {
	FixedCosts          float64 `json:"fixed_costs" validate:"gte=0"`
	VariableCostPerUnit float64 `json:"variable_cost_per_unit" validate:"gte=0"`
	PricePerUnit        float64 `json:"price_per_unit" validate:"gte=0"`
}

type BreakEvenResult struct {
	BreakEvenInput
	Units float64 `json:"units"`
	// Reachable is false when the unit price does not cover the variable cost.
	Reachable bool `json:"reachable"`
}
