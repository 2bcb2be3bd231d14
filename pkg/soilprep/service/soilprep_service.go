package service

import (
	"context"

	"canefarm/entities"
)

type SoilPrepService interface {
	CreateSoilPrep(ctx context.Context, in CreateSoilPrep) (*entities.SoilPreparation, error)
	GetSoilPrep(ctx context.Context, id string) (*entities.SoilPreparation, error)
	ListSoilPreps(ctx context.Context, query string) ([]entities.SoilPreparation, error)
	UpdatePartial(ctx context.Context, id string, patch SoilPrepPatch) (*entities.SoilPreparation, error)
	ReplaceActions(ctx context.Context, id string, actions []ActionInput) (*entities.SoilPreparation, error)
	DeleteSoilPrep(ctx context.Context, id string) error
}

type ActionInput struct {
	ProductID         string  `json:"product_id" validate:"required"`
	Dosage            float64 `json:"dosage" validate:"gt=0"`
	DosageUnit        string  `json:"dosage_unit"`
	ApplicationMethod *string `json:"application_method"`
	EngineerReport    *string `json:"engineer_report"`
}

type CreateSoilPrep struct {
	Name              string        `json:"name" validate:"required"`
	Description       *string       `json:"description"`
	EstimatedDuration int           `json:"estimated_duration" validate:"gte=0"`
	Actions           []ActionInput `json:"actions" validate:"dive"`
}

type SoilPrepPatch struct {
	Name              *string `json:"name"`
	Description       *string `json:"description"`
	EstimatedDuration *int    `json:"estimated_duration" validate:"omitempty,gte=0"`
}

type ReplaceActions struct {
	Actions []ActionInput `json:"actions" validate:"dive"`
}
