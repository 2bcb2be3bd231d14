package repository

import (
	"context"

	"canefarm/entities"
)

type InputFilter struct {
	PlotID    string
	InputType string
}

// InputTotals aggregates input applications of one type.
type InputTotals struct {
	InputType string
	TotalCost float64
	Quantity  float64
	Plots     int
	Area      float64
}

type FinanceRepository interface {
	CreatePayment(ctx context.Context, p *entities.ATRPayment) error
	ListPayments(ctx context.Context, productionID string) ([]entities.ATRPayment, error)
	DeletePayment(ctx context.Context, id string) error

	CreateSafra(ctx context.Context, s *entities.SafraPlanning) error
	FindSafra(ctx context.Context, id string) (*entities.SafraPlanning, error)
	ListSafras(ctx context.Context) ([]entities.SafraPlanning, error)
	UpdateSafra(ctx context.Context, s *entities.SafraPlanning) error
	// DeleteSafra removes the plan with its cash-flow rows.
	DeleteSafra(ctx context.Context, id string) error

	// ReplaceCashFlow swaps the projection rows of a safra in one transaction.
	ReplaceCashFlow(ctx context.Context, safraID string, rows []entities.CashFlowEntry) error
	CashFlow(ctx context.Context, safraID string) ([]entities.CashFlowEntry, error)

	CreateInput(ctx context.Context, a *entities.InputApplication) error
	ListInputs(ctx context.Context, f InputFilter) ([]entities.InputApplication, error)
	DeleteInput(ctx context.Context, id string) error
	InputTotals(ctx context.Context) ([]InputTotals, error)
}
