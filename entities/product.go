package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is an agricultural input in the catalog. Identity is immutable;
// products are retired by clearing IsActive.
type Product struct {
	ID       string `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"index;not null" json:"name" validate:"required"`
	Brand    string `json:"brand"`
	Category string `gorm:"index" json:"category"` // fertilizer|pesticide|herbicide|inoculant|soil_corrector|...
	Type     string `gorm:"index" json:"type"`

	// regulatory (MAPA)
	RegistrationNumber *string  `json:"registration_number,omitempty"`
	MapaClassification *string  `json:"mapa_classification,omitempty"`
	ActiveIngredient   *string  `json:"active_ingredient,omitempty"`
	Concentration      *string  `json:"concentration,omitempty"`
	FormulationType    *string  `json:"formulation_type,omitempty"`
	ToxicClass         *string  `json:"toxic_class,omitempty"`
	EnvironmentalClass *string  `json:"environmental_class,omitempty"`
	WithdrawalPeriod   *int     `json:"withdrawal_period,omitempty"` // days
	ReentryPeriod      *int     `json:"reentry_period,omitempty"`    // hours
	TargetCrops        []string `gorm:"serializer:json" json:"target_crops,omitempty"`
	TargetPests        []string `gorm:"serializer:json" json:"target_pests,omitempty"`

	// agronomic
	Activity           *string  `json:"activity,omitempty"`
	FertilizerType     *string  `json:"fertilizer_type,omitempty"`
	Species            *string  `json:"species,omitempty"`
	Guarantee          *string  `json:"guarantee,omitempty"`
	PhysicalNature     *string  `json:"physical_nature,omitempty"`
	ApplicationMethods []string `gorm:"serializer:json" json:"application_methods,omitempty"`
	MinDosage          *float64 `json:"min_dosage,omitempty"`
	MaxDosage          *float64 `json:"max_dosage,omitempty"`
	DosageUnit         *string  `json:"dosage_unit,omitempty"`

	// commercial
	UnitOfMeasure string   `json:"unit_of_measure"`
	CostPerUnit   float64  `json:"cost_per_unit" validate:"gte=0"`
	PackageSize   *float64 `json:"package_size,omitempty"`
	Supplier      *string  `json:"supplier,omitempty"`
	Manufacturer  *string  `json:"manufacturer,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Notes         *string  `json:"notes,omitempty"`

	IsActive  bool      `gorm:"index" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Product) TableName() string { return "products" }

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
