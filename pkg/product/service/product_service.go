package service

import (
	"context"
	"io"

	"canefarm/entities"
	"canefarm/pkg/product/importer"
	"canefarm/pkg/product/repository"
)

type ProductService interface {
	CreateProduct(ctx context.Context, in entities.Product) (*entities.Product, error)
	GetProduct(ctx context.Context, id string) (*entities.Product, error)
	ListProducts(ctx context.Context, f repository.Filter) ([]entities.Product, error)
	// ReplaceProduct overwrites every mutable field; identity and creation
	// time are kept.
	ReplaceProduct(ctx context.Context, id string, in entities.Product) (*entities.Product, error)
	DeactivateProduct(ctx context.Context, id string) error
	Import(ctx context.Context, format string, r io.Reader) (*ImportReport, error)
	ImportURL(ctx context.Context, url string) (*ImportReport, error)
}

type ImportReport struct {
	Created    int                 `json:"created"`
	Duplicates []string            `json:"duplicates"`
	Skipped    []importer.RowError `json:"skipped"`
}
