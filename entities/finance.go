package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ATRPayment struct {
	ID                 string    `gorm:"primaryKey" json:"id"`
	ProductionID       string    `gorm:"index" json:"production_id"`
	ATRValue           float64   `gorm:"column:atr_value" json:"atr_value"`
	PricePerKgATR      float64   `gorm:"column:price_per_kg_atr" json:"price_per_kg_atr"`
	GrossValue         float64   `json:"gross_value"`
	DeductionsINSS     float64   `gorm:"column:deductions_inss" json:"deductions_inss"`
	DeductionsAplacana float64   `gorm:"column:deductions_aplacana" json:"deductions_aplacana"`
	DeductionsOther    float64   `gorm:"column:deductions_other" json:"deductions_other"`
	NetValue           float64   `json:"net_value"`
	PaymentDate        string    `json:"payment_date"`
	CreatedAt          time.Time `json:"created_at"`
}

func (ATRPayment) TableName() string { return "atr_payments" }

func (p *ATRPayment) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

const (
	SafraStatusPlanning  = "planning"
	SafraStatusActive    = "active"
	SafraStatusCompleted = "completed"
)

// SafraPlanning is the budget plan of one harvest season.
type SafraPlanning struct {
	ID              string    `gorm:"primaryKey" json:"id"`
	Year            string    `gorm:"index" json:"year"`
	StartDate       string    `json:"start_date"`
	EndDate         string    `json:"end_date"`
	PreviousRevenue float64   `json:"previous_revenue"`
	PersonalNeeds   float64   `json:"personal_needs"`
	AvailableBudget float64   `json:"available_budget"`
	PlannedReforms  []string  `gorm:"serializer:json" json:"planned_reforms"` // plot ids
	Status          string    `gorm:"default:planning" json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

func (SafraPlanning) TableName() string { return "safra_planning" }

func (s *SafraPlanning) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Status == "" {
		s.Status = SafraStatusPlanning
	}
	return nil
}

type CashFlowEntry struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	SafraID   string    `gorm:"index" json:"safra_id"`
	Seq       int       `json:"seq"`   // 1-based month index in the projection
	Month     string    `json:"month"` // YYYY-MM-01
	Revenue   float64   `json:"revenue"`
	Expenses  float64   `json:"expenses"`
	Balance   float64   `json:"balance"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (CashFlowEntry) TableName() string { return "cash_flow" }

func (c *CashFlowEntry) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

const (
	InputHerbicide  = "herbicide"
	InputFertilizer = "fertilizer"
	InputPesticide  = "pesticide"
	InputFuel       = "fuel"
	InputLabor      = "labor"
)

type InputApplication struct {
	ID               string    `gorm:"primaryKey" json:"id"`
	PlotID           string    `gorm:"index" json:"plot_id"`
	InputType        string    `gorm:"index" json:"input_type"` // herbicide|fertilizer|pesticide|fuel|labor
	Product          string    `json:"product"`
	Quantity         float64   `json:"quantity"`
	UnitCost         float64   `json:"unit_cost"`
	TotalCost        float64   `json:"total_cost"`
	ApplicationDate  string    `json:"application_date"`
	DosagePerHectare float64   `json:"dosage_per_hectare"`
	CreatedAt        time.Time `json:"created_at"`
}

func (InputApplication) TableName() string { return "input_applications" }

func (a *InputApplication) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

func IsInputType(s string) bool {
	switch s {
	case InputHerbicide, InputFertilizer, InputPesticide, InputFuel, InputLabor:
		return true
	}
	return false
}
