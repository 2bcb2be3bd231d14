package repository

import (
	"context"

	"canefarm/entities"
)

type PlotRepository interface {
	// Create assigns the next plot number inside the insert transaction.
	Create(ctx context.Context, p *entities.Plot) error
	FindByID(ctx context.Context, id string) (*entities.Plot, error)
	FindByIDs(ctx context.Context, ids []string) ([]entities.Plot, error)
	List(ctx context.Context, status string) ([]entities.Plot, error)
	Update(ctx context.Context, p *entities.Plot) error
	// Delete removes the plot and deactivates its category links.
	Delete(ctx context.Context, id string) error
}
