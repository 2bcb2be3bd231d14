package service

import (
	"context"

	"canefarm/entities"
	"canefarm/pkg/calc"
	"canefarm/pkg/production/repository"
)

type ProductionService interface {
	CreateProduction(ctx context.Context, in CreateProduction) (*entities.Production, error)
	GetProduction(ctx context.Context, id string) (*entities.Production, error)
	ListProductions(ctx context.Context, f repository.Filter) ([]entities.Production, error)
	UpdatePartial(ctx context.Context, id string, patch ProductionPatch) (*entities.Production, error)
	DeleteProduction(ctx context.Context, id string) error
	SummaryByCycle(ctx context.Context) ([]CycleSummary, error)
	Efficiency(ctx context.Context) (calc.Efficiency, error)
}

// CreateProduction records a harvest. Cycle defaults to the plot's
// category-derived cycle; Revenue defaults to the ATR revenue.
type CreateProduction struct {
	PlotID      string   `json:"plot_id" validate:"required"`
	Cycle       *int     `json:"cycle" validate:"omitempty,gte=0"`
	HarvestDate string   `json:"harvest_date" validate:"required"`
	Tonnage     float64  `json:"tonnage" validate:"gte=0"`
	ATR         float64  `json:"atr" validate:"gte=0"`
	Revenue     *float64 `json:"revenue" validate:"omitempty,gte=0"`
	Costs       float64  `json:"costs" validate:"gte=0"`
	Notes       *string  `json:"notes"`
}

type ProductionPatch struct {
	Cycle       *int     `json:"cycle" validate:"omitempty,gte=0"`
	HarvestDate *string  `json:"harvest_date"`
	Tonnage     *float64 `json:"tonnage" validate:"omitempty,gte=0"`
	ATR         *float64 `json:"atr" validate:"omitempty,gte=0"`
	Revenue     *float64 `json:"revenue" validate:"omitempty,gte=0"`
	Costs       *float64 `json:"costs" validate:"omitempty,gte=0"`
	Notes       *string  `json:"notes"`
}

type CycleSummary struct {
	Cycle        int     `json:"cycle"`
	CycleName    string  `json:"cycle_name"`
	PlotCount    int     `json:"plot_count"`
	TotalArea    float64 `json:"total_area"`
	Tonnage      float64 `json:"tonnage"`
	Revenue      float64 `json:"revenue"`
	Costs        float64 `json:"costs"`
	AverageATR   float64 `json:"average_atr"`
	Productivity float64 `json:"productivity"` // t/ha
}
