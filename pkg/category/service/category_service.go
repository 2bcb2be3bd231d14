package service

import (
	"context"

	"canefarm/entities"
)

const (
	OnConflictAbort = "abort"
	OnConflictMove  = "move"
)

type CategoryService interface {
	CreateCategory(ctx context.Context, in CreateCategory) (*entities.Category, error)
	GetCategory(ctx context.Context, id string) (*CategoryDetail, error)
	ListCategories(ctx context.Context, cycle *int) ([]entities.Category, error)
	UpdatePartial(ctx context.Context, id string, patch CategoryPatch) (*entities.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	Assign(ctx context.Context, categoryID string, req AssignRequest) (*AssignResult, error)
	PreviewConflicts(ctx context.Context, categoryID string, plotIDs []string) ([]entities.Assignment, error)
	AssignSoilPreparations(ctx context.Context, categoryID string, req SoilPrepRequest) error
	History(ctx context.Context, categoryID string) ([]entities.CategoryHistory, error)

	Summaries(ctx context.Context) ([]Summary, error)
	// PlotCycles maps assigned plots to their derived cycle.
	PlotCycles(ctx context.Context) (map[string]int, error)
	ActiveByPlot(ctx context.Context) (map[string]entities.Assignment, error)
}

type CreateCategory struct {
	Cycle                int      `json:"cycle" validate:"gte=0,lte=10"`
	Name                 string   `json:"name" validate:"required"`
	ExpectedProductivity *float64 `json:"expected_productivity" validate:"omitempty,gte=0"`
	StandardRevenue      *float64 `json:"standard_revenue" validate:"omitempty,gte=0"`
	StandardCosts        *float64 `json:"standard_costs" validate:"omitempty,gte=0"`
	ParentCategoryID     *string  `json:"parent_category_id"`
}

type CategoryPatch struct {
	Name                 *string  `json:"name"`
	ExpectedProductivity *float64 `json:"expected_productivity" validate:"omitempty,gte=0"`
	StandardRevenue      *float64 `json:"standard_revenue" validate:"omitempty,gte=0"`
	StandardCosts        *float64 `json:"standard_costs" validate:"omitempty,gte=0"`
	ParentCategoryID     *string  `json:"parent_category_id"`
}

type AssignRequest struct {
	PlotIDs    []string `json:"plot_ids"`
	OnConflict string   `json:"on_conflict"` // abort|move
	ChangedBy  string   `json:"changed_by"`
	Notes      *string  `json:"notes"`
}

type AssignResult struct {
	Applied   bool                  `json:"applied"`
	Plots     int                   `json:"plots"`
	Moved     int                   `json:"moved"`
	Conflicts []entities.Assignment `json:"conflicts"`
}

type SoilPrepRequest struct {
	SoilPreparationIDs []string `json:"soil_preparation_ids"`
	ChangedBy          string   `json:"changed_by"`
	Notes              *string  `json:"notes"`
}

type CategoryDetail struct {
	entities.Category
	Plots            []entities.Plot            `json:"plots"`
	SoilPreparations []entities.SoilPreparation `json:"soil_preparations"`
	TotalArea        float64                    `json:"total_area"`
}

// Summary holds the expected figures of a category over its active plots.
type Summary struct {
	CategoryID      string  `json:"category_id"`
	Name            string  `json:"name"`
	Cycle           int     `json:"cycle"`
	PlotCount       int     `json:"plot_count"`
	TotalArea       float64 `json:"total_area"`
	ExpectedTonnage float64 `json:"expected_tonnage"`
	ExpectedRevenue float64 `json:"expected_revenue"`
	SoilPrepCost    float64 `json:"soil_prep_cost"` // per ha
	ExpectedCosts   float64 `json:"expected_costs"`
	ExpectedNet     float64 `json:"expected_net"`
}
