package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SoilPreparation is a "trato": an ordered bundle of product applications.
type SoilPreparation struct {
	ID                string                  `gorm:"primaryKey" json:"id"`
	Name              string                  `gorm:"index;not null" json:"name"`
	Description       *string                 `json:"description,omitempty"`
	TotalCost         float64                 `json:"total_cost"`         // per ha, recomputed from actions
	EstimatedDuration int                     `json:"estimated_duration"` // days
	Actions           []SoilPreparationAction `gorm:"-" json:"actions"`
	CreatedAt         time.Time               `json:"created_at"`
	UpdatedAt         time.Time               `json:"updated_at"`
}

func (SoilPreparation) TableName() string { return "soil_preparations" }

func (s *SoilPreparation) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

type SoilPreparationAction struct {
	ID                string  `gorm:"primaryKey" json:"id"`
	SoilPreparationID string  `gorm:"index" json:"soil_preparation_id"`
	ProductID         string  `gorm:"index" json:"product_id"`
	Dosage            float64 `json:"dosage"`
	DosageUnit        string  `json:"dosage_unit"`
	ApplicationMethod *string `json:"application_method,omitempty"`
	EngineerReport    *string `json:"engineer_report,omitempty"`
	Order             int     `gorm:"column:action_order" json:"order"`

	// filled on read
	ProductName string  `gorm:"-" json:"product_name,omitempty"`
	CostPerUnit float64 `gorm:"-" json:"cost_per_unit,omitempty"`
}

func (SoilPreparationAction) TableName() string { return "soil_preparation_actions" }

func (a *SoilPreparationAction) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
