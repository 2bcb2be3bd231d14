package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxCategoryCycle is the last cut a category may describe (tenth cut).
const MaxCategoryCycle = 10

type Category struct {
	ID                   string    `gorm:"primaryKey" json:"id"`
	Cycle                int       `gorm:"index" json:"cycle"`
	Name                 string    `gorm:"not null" json:"name"`
	ExpectedProductivity float64   `json:"expected_productivity"` // t/ha
	StandardRevenue      float64   `json:"standard_revenue"`      // per ha
	StandardCosts        float64   `json:"standard_costs"`        // per ha
	ParentCategoryID     *string   `json:"parent_category_id,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func (Category) TableName() string { return "categories" }

func (c *Category) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// PlotCategory links a plot to a category. Links are deactivated, never deleted.
type PlotCategory struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	PlotID     string    `gorm:"index" json:"plot_id"`
	CategoryID string    `gorm:"index" json:"category_id"`
	IsActive   bool      `gorm:"index" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (PlotCategory) TableName() string { return "plot_categories" }

func (pc *PlotCategory) BeforeCreate(*gorm.DB) error {
	if pc.ID == "" {
		pc.ID = uuid.NewString()
	}
	return nil
}

type CategorySoilPreparation struct {
	ID                string `gorm:"primaryKey" json:"id"`
	CategoryID        string `gorm:"index" json:"category_id"`
	SoilPreparationID string `gorm:"index" json:"soil_preparation_id"`
}

func (CategorySoilPreparation) TableName() string { return "category_soil_preparations" }

func (c *CategorySoilPreparation) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CategoryHistory is an append-only record of a category configuration change.
type CategoryHistory struct {
	ID                 string    `gorm:"primaryKey" json:"id"`
	CategoryID         string    `gorm:"index" json:"category_id"`
	ConfigurationDate  time.Time `json:"configuration_date"`
	PlotIDs            []string  `gorm:"serializer:json" json:"plot_ids"`
	SoilPreparationIDs []string  `gorm:"serializer:json" json:"soil_preparation_ids"`
	ChangedBy          string    `json:"changed_by"`
	Notes              *string   `json:"notes,omitempty"`
}

func (CategoryHistory) TableName() string { return "category_history" }

func (h *CategoryHistory) BeforeCreate(*gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	if h.ConfigurationDate.IsZero() {
		h.ConfigurationDate = time.Now().UTC()
	}
	return nil
}

// Assignment is the active category of a plot, and so its derived cycle.
type Assignment struct {
	PlotID       string    `json:"plot_id"`
	CategoryID   string    `json:"category_id"`
	CategoryName string    `json:"category_name"`
	Cycle        int       `json:"cycle"`
	Since        time.Time `json:"since"`
}
