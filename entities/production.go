package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Production is the harvest of one plot in one cycle.
type Production struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	PlotID      string    `gorm:"uniqueIndex:idx_productions_plot_cycle" json:"plot_id"`
	Cycle       int       `gorm:"uniqueIndex:idx_productions_plot_cycle;index" json:"cycle"`
	HarvestDate string    `json:"harvest_date"` // YYYY-MM-DD
	Tonnage     float64   `json:"tonnage"`
	ATR         float64   `gorm:"column:atr" json:"atr"` // kg ATR/t
	Revenue     float64   `json:"revenue"`
	Costs       float64   `json:"costs"`
	Notes       *string   `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Production) TableName() string { return "productions" }

func (p *Production) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
