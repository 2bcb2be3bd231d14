package service

import (
	"context"

	"canefarm/entities"
)

type PlotService interface {
	CreatePlot(ctx context.Context, in CreatePlot) (*entities.Plot, error)
	GetPlot(ctx context.Context, id string) (*PlotView, error)
	ListPlots(ctx context.Context, status string) ([]PlotView, error)
	Unassigned(ctx context.Context) ([]entities.Plot, error)
	UpdatePartial(ctx context.Context, id string, patch PlotPatch) (*entities.Plot, error)
	DeletePlot(ctx context.Context, id string) error
}

// Assignments resolves the active category of each plot.
type Assignments interface {
	ActiveByPlot(ctx context.Context) (map[string]entities.Assignment, error)
}

type CreatePlot struct {
	Name            *string               `json:"name"`
	Area            float64               `json:"area"`
	Status          string                `json:"status"`
	PlantingDate    string                `json:"planting_date"`
	LastHarvestDate *string               `json:"last_harvest_date"`
	SoilType        *string               `json:"soil_type"`
	Notes           *string               `json:"notes"`
	Coordinates     []entities.Coordinate `json:"coordinates"`
}

type PlotPatch struct {
	Name            *string                `json:"name"`
	Area            *float64               `json:"area"`
	Status          *string                `json:"status"`
	PlantingDate    *string                `json:"planting_date"`
	LastHarvestDate *string                `json:"last_harvest_date"`
	SoilType        *string                `json:"soil_type"`
	Notes           *string                `json:"notes"`
	Coordinates     *[]entities.Coordinate `json:"coordinates"`
}

// PlotView is a plot with its category-derived cycle. Unassigned plots are
// at cycle 0.
type PlotView struct {
	entities.Plot
	Assigned     bool    `json:"assigned"`
	CategoryID   *string `json:"category_id,omitempty"`
	CategoryName *string `json:"category_name,omitempty"`
	Cycle        int     `json:"cycle"`
}
