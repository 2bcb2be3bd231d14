package repository

import (
	"context"

	"canefarm/entities"
)

type Filter struct {
	PlotID string
	Cycle  *int
}

// CycleTotals aggregates the productions of one cycle joined with plot areas.
type CycleTotals struct {
	Cycle      int
	PlotCount  int
	TotalArea  float64
	Tonnage    float64
	Revenue    float64
	Costs      float64
	AverageATR float64
}

type ProductionRepository interface {
	// Create fails with apperr.ErrConflict when the plot already has a
	// production for the cycle.
	Create(ctx context.Context, p *entities.Production) error
	FindByID(ctx context.Context, id string) (*entities.Production, error)
	List(ctx context.Context, f Filter) ([]entities.Production, error)
	Update(ctx context.Context, p *entities.Production) error
	Delete(ctx context.Context, id string) error
	TotalsByCycle(ctx context.Context) ([]CycleTotals, error)
}
