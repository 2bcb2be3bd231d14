package repository

import (
	"context"

	"canefarm/entities"
)

// AssignOp is one plot-set assignment applied atomically.
type AssignOp struct {
	CategoryID string
	PlotIDs    []string
	// Move deactivates same-cycle links of the plots in other categories.
	// Without it a conflicting assignment writes nothing.
	Move      bool
	ChangedBy string
	Notes     *string
}

type CategoryRepository interface {
	Create(ctx context.Context, c *entities.Category) error
	FindByID(ctx context.Context, id string) (*entities.Category, error)
	List(ctx context.Context, cycle *int) ([]entities.Category, error)
	Update(ctx context.Context, c *entities.Category) error
	// Delete deactivates the plot links, drops soil-preparation links and
	// removes the category in one transaction.
	Delete(ctx context.Context, id string) error

	// AssignPlots deactivates every active link of the category, then links
	// each plot id, in one transaction. An empty list clears the category.
	AssignPlots(ctx context.Context, categoryID string, plotIDs []string) error
	// Assign checks conflicts and applies op in one transaction, appending a
	// history row when anything is written. Conflicts found are returned.
	Assign(ctx context.Context, op AssignOp) ([]entities.Assignment, error)
	// Conflicts lists active links of plotIDs to other categories of cycle.
	Conflicts(ctx context.Context, categoryID string, cycle int, plotIDs []string) ([]entities.Assignment, error)

	ActivePlots(ctx context.Context, categoryID string) ([]entities.Plot, error)
	ActiveByPlot(ctx context.Context) (map[string]entities.Assignment, error)

	AssignSoilPreparations(ctx context.Context, categoryID string, soilPrepIDs []string, changedBy string, notes *string) error
	SoilPreparations(ctx context.Context, categoryID string) ([]entities.SoilPreparation, error)

	History(ctx context.Context, categoryID string) ([]entities.CategoryHistory, error)
}
