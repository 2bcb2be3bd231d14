package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PlotActive   = "active"
	PlotReform   = "reform"
	PlotRotation = "rotation"
	PlotNew      = "new"
)

// PlotStatuses lists the lifecycle states a plot may be in.
var PlotStatuses = []string{PlotActive, PlotReform, PlotRotation, PlotNew}

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Plot is a talhão. Its cycle is not stored here: it is derived from the
// plot's active category link.
type Plot struct {
	ID              string       `gorm:"primaryKey" json:"id"`
	Number          int          `gorm:"uniqueIndex" json:"number"`
	Name            *string      `json:"name,omitempty"`
	Area            float64      `gorm:"not null" json:"area"` // hectares
	Status          string       `gorm:"index;default:active" json:"status"`
	PlantingDate    string       `json:"planting_date"` // YYYY-MM-DD
	LastHarvestDate *string      `json:"last_harvest_date,omitempty"`
	SoilType        *string      `json:"soil_type,omitempty"`
	Notes           *string      `json:"notes,omitempty"`
	Coordinates     []Coordinate `gorm:"serializer:json" json:"coordinates,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

func (Plot) TableName() string { return "plots" }

func (p *Plot) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = PlotActive
	}
	return nil
}

func IsPlotStatus(s string) bool {
	for _, v := range PlotStatuses {
		if v == s {
			return true
		}
	}
	return false
}
