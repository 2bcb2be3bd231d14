package repository

import (
	"context"

	"canefarm/entities"
)

type Filter struct {
	Category        string
	Type            string
	Query           string // name, brand or active ingredient
	IncludeInactive bool
}

type ProductRepository interface {
	Create(ctx context.Context, p *entities.Product) error
	// CreateMany inserts all products in one transaction.
	CreateMany(ctx context.Context, ps []entities.Product) error
	FindByID(ctx context.Context, id string) (*entities.Product, error)
	FindByIDs(ctx context.Context, ids []string) ([]entities.Product, error)
	ExistsByNameBrand(ctx context.Context, name, brand string) (bool, error)
	List(ctx context.Context, f Filter) ([]entities.Product, error)
	Update(ctx context.Context, p *entities.Product) error
	SoftDelete(ctx context.Context, id string) error
}
