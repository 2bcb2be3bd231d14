package repository

import (
	"context"

	"canefarm/entities"
)

type SoilPrepRepository interface {
	// Create inserts the preparation and its actions and stores the
	// recomputed total cost, all in one transaction.
	Create(ctx context.Context, sp *entities.SoilPreparation, actions []entities.SoilPreparationAction) error
	FindByID(ctx context.Context, id string) (*entities.SoilPreparation, error)
	FindByIDs(ctx context.Context, ids []string) ([]entities.SoilPreparation, error)
	List(ctx context.Context, query string) ([]entities.SoilPreparation, error)
	Actions(ctx context.Context, id string) ([]entities.SoilPreparationAction, error)
	Update(ctx context.Context, sp *entities.SoilPreparation) error
	ReplaceActions(ctx context.Context, id string, actions []entities.SoilPreparationAction) (float64, error)
	Delete(ctx context.Context, id string) error
}
