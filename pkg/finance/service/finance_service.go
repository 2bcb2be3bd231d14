package service

import (
	"context"

	"canefarm/entities"
	"canefarm/pkg/calc"
	"canefarm/pkg/finance/repository"
)

type FinanceService interface {
	CreatePayment(ctx context.Context, in CreatePayment) (*entities.ATRPayment, error)
	ListPayments(ctx context.Context, productionID string) ([]entities.ATRPayment, error)
	DeletePayment(ctx context.Context, id string) error

	CreateSafra(ctx context.Context, in CreateSafra) (*entities.SafraPlanning, error)
	GetSafra(ctx context.Context, id string) (*SafraDetail, error)
	ListSafras(ctx context.Context) ([]entities.SafraPlanning, error)
	UpdatePartial(ctx context.Context, id string, patch SafraPatch) (*entities.SafraPlanning, error)
	DeleteSafra(ctx context.Context, id string) error

	// ProjectCashFlow replaces the stored projection of a safra, one row per
	// month starting at the safra start month.
	ProjectCashFlow(ctx context.Context, safraID string, req Projection) ([]entities.CashFlowEntry, error)
	CashFlow(ctx context.Context, safraID string) ([]entities.CashFlowEntry, error)

	CreateInput(ctx context.Context, in CreateInput) (*entities.InputApplication, error)
	ListInputs(ctx context.Context, f repository.InputFilter) ([]entities.InputApplication, error)
	DeleteInput(ctx context.Context, id string) error
	CostAnalysis(ctx context.Context) (*CostAnalysis, error)
}

type CreatePayment struct {
	ProductionID string          `json:"production_id" validate:"required"`
	ATRValue     *float64        `json:"atr_value" validate:"omitempty,gte=0"`
	PricePerKg   *float64        `json:"price_per_kg_atr" validate:"omitempty,gt=0"`
	Deductions   calc.Deductions `json:"deductions"`
	PaymentDate  string          `json:"payment_date" validate:"required"`
}

type CreateSafra struct {
	Year            string   `json:"year" validate:"required"`
	StartDate       string   `json:"start_date" validate:"required"`
	EndDate         string   `json:"end_date" validate:"required"`
	PreviousRevenue float64  `json:"previous_revenue" validate:"gte=0"`
	PersonalNeeds   float64  `json:"personal_needs" validate:"gte=0"`
	PlannedReforms  []string `json:"planned_reforms"`
	Status          string   `json:"status"`
}

type SafraPatch struct {
	StartDate       *string   `json:"start_date"`
	EndDate         *string   `json:"end_date"`
	PreviousRevenue *float64  `json:"previous_revenue" validate:"omitempty,gte=0"`
	PersonalNeeds   *float64  `json:"personal_needs" validate:"omitempty,gte=0"`
	PlannedReforms  *[]string `json:"planned_reforms"`
	Status          *string   `json:"status"`
}

type SafraDetail struct {
	entities.SafraPlanning
	PlannedReformArea float64                  `json:"planned_reform_area"`
	PlannedReformCost float64                  `json:"planned_reform_cost"`
	BudgetRemaining   float64                  `json:"budget_remaining"`
	CashFlow          []entities.CashFlowEntry `json:"cash_flow"`
}

type Projection struct {
	InitialBalance  float64 `json:"initial_balance"`
	MonthlyRevenue  float64 `json:"monthly_revenue" validate:"gte=0"`
	MonthlyExpenses float64 `json:"monthly_expenses" validate:"gte=0"`
	Months          int     `json:"months" validate:"gte=0,lte=120"`
}

type CreateInput struct {
	PlotID          string  `json:"plot_id" validate:"required"`
	InputType       string  `json:"input_type" validate:"required"`
	Product         string  `json:"product"`
	Quantity        float64 `json:"quantity" validate:"gt=0"`
	UnitCost        float64 `json:"unit_cost" validate:"gte=0"`
	ApplicationDate string  `json:"application_date" validate:"required"`
}

type InputCost struct {
	InputType      string  `json:"input_type"`
	TotalCost      float64 `json:"total_cost"`
	Quantity       float64 `json:"quantity"`
	Plots          int     `json:"plots"`
	Area           float64 `json:"area"`
	CostPerHectare float64 `json:"cost_per_hectare"`
	Share          float64 `json:"share"` // % of total
}

type CostAnalysis struct {
	TotalCost float64     `json:"total_cost"`
	ByType    []InputCost `json:"by_type"`
}
