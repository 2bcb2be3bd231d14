package database

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"canefarm/entities"
	"canefarm/pkg/cycle"
)

//go:embed fixtures/sample.yaml
var sampleYAML []byte

type Fixture struct {
	Categories []FixtureCategory `yaml:"categories"`
	Plots      []FixturePlot     `yaml:"plots"`
	Products   []FixtureProduct  `yaml:"products"`
}

type FixtureCategory struct {
	Cycle                int      `yaml:"cycle"`
	Name                 string   `yaml:"name"`
	ExpectedProductivity *float64 `yaml:"expected_productivity"`
	StandardRevenue      *float64 `yaml:"standard_revenue"`
	StandardCosts        *float64 `yaml:"standard_costs"`
}

type FixturePlot struct {
	Number          int     `yaml:"number"`
	Name            *string `yaml:"name"`
	Area            float64 `yaml:"area"`
	Status          string  `yaml:"status"`
	PlantingDate    string  `yaml:"planting_date"`
	LastHarvestDate *string `yaml:"last_harvest_date"`
	SoilType        *string `yaml:"soil_type"`
	Notes           *string `yaml:"notes"`
	Cycle           *int    `yaml:"cycle"` // links the plot to the default category of this cycle
}

type FixtureProduct struct {
	Name               string   `yaml:"name"`
	Brand              string   `yaml:"brand"`
	Category           string   `yaml:"category"`
	Type               string   `yaml:"type"`
	RegistrationNumber *string  `yaml:"registration_number"`
	MapaClassification *string  `yaml:"mapa_classification"`
	ActiveIngredient   *string  `yaml:"active_ingredient"`
	ToxicClass         *string  `yaml:"toxic_class"`
	EnvironmentalClass *string  `yaml:"environmental_class"`
	Species            *string  `yaml:"species"`
	Guarantee          *string  `yaml:"guarantee"`
	UnitOfMeasure      string   `yaml:"unit_of_measure"`
	CostPerUnit        float64  `yaml:"cost_per_unit"`
	PackageSize        *float64 `yaml:"package_size"`
	Supplier           *string  `yaml:"supplier"`
	Manufacturer       *string  `yaml:"manufacturer"`
	MinDosage          *float64 `yaml:"min_dosage"`
	MaxDosage          *float64 `yaml:"max_dosage"`
	DosageUnit         *string  `yaml:"dosage_unit"`
	ApplicationMethods []string `yaml:"application_methods"`
	TargetCrops        []string `yaml:"target_crops"`
	Description        *string  `yaml:"description"`
}

type SeedReport struct {
	Categories int `json:"categories"`
	Plots      int `json:"plots"`
	Links      int `json:"links"`
	Products   int `json:"products"`
}

func ParseFixture(b []byte) (Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(b, &f); err != nil {
		return Fixture{}, fmt.Errorf("parse fixture: %w", err)
	}
	return f, nil
}

func LoadFixture(path string) (Fixture, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("read fixture: %w", err)
	}
	return ParseFixture(b)
}

// SampleFixture is the demo farm shipped with the binary.
func SampleFixture() (Fixture, error) { return ParseFixture(sampleYAML) }

// SeedDefaultCategories creates one category per reference cycle that has
// none yet. It returns how many were created.
func SeedDefaultCategories(ctx context.Context, s Store, table *cycle.Table) (int, error) {
	created := 0
	err := s.Transaction(ctx, func(tx *gorm.DB) error {
		for _, e := range table.All() {
			var n int64
			if err := tx.Model(&entities.Category{}).Where("cycle = ?", e.Cycle).Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				continue
			}
			c := categoryFromEntry(e)
			if err := tx.Create(&c).Error; err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("seed default categories: %w", err)
	}
	return created, nil
}

func categoryFromEntry(e cycle.Entry) entities.Category {
	return entities.Category{
		Cycle:                e.Cycle,
		Name:                 e.Name,
		ExpectedProductivity: e.ExpectedProductivity,
		StandardRevenue:      e.StandardRevenue,
		StandardCosts:        e.StandardCosts,
	}
}

// ensureDefaultCategory returns the oldest category of cycle c, creating one
// from the reference table when none exists.
func ensureDefaultCategory(tx *gorm.DB, table *cycle.Table, c int) (*entities.Category, error) {
	var cat entities.Category
	err := tx.Where("cycle = ?", c).Order("created_at asc, id asc").First(&cat).Error
	if err == nil {
		return &cat, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	e, ok := table.Lookup(c)
	if !ok {
		e = cycle.Entry{Cycle: c, Name: table.Name(c)}
	}
	cat = categoryFromEntry(e)
	if err := tx.Create(&cat).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

// SeedFixture inserts fixture rows that are not present yet. Plots are
// matched by number, categories by cycle and name, products by name and brand.
func SeedFixture(ctx context.Context, s Store, table *cycle.Table, f Fixture) (SeedReport, error) {
	var rep SeedReport
	err := s.Transaction(ctx, func(tx *gorm.DB) error {
		for _, fc := range f.Categories {
			if fc.Cycle < 0 || fc.Cycle > entities.MaxCategoryCycle || fc.Name == "" {
				return fmt.Errorf("category %q: invalid cycle or name", fc.Name)
			}
			var n int64
			if err := tx.Model(&entities.Category{}).Where("cycle = ? AND name = ?", fc.Cycle, fc.Name).Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				continue
			}
			e, _ := table.Lookup(fc.Cycle)
			c := categoryFromEntry(e)
			c.Cycle, c.Name = fc.Cycle, fc.Name
			if fc.ExpectedProductivity != nil {
				c.ExpectedProductivity = *fc.ExpectedProductivity
			}
			if fc.StandardRevenue != nil {
				c.StandardRevenue = *fc.StandardRevenue
			}
			if fc.StandardCosts != nil {
				c.StandardCosts = *fc.StandardCosts
			}
			if err := tx.Create(&c).Error; err != nil {
				return err
			}
			rep.Categories++
		}

		for _, fp := range f.Plots {
			if fp.Area <= 0 {
				return fmt.Errorf("plot %d: area must be > 0", fp.Number)
			}
			if fp.Number <= 0 {
				n, err := NextPlotNumber(tx)
				if err != nil {
					return err
				}
				fp.Number = n
			} else {
				var existing int64
				if err := tx.Model(&entities.Plot{}).Where("number = ?", fp.Number).Count(&existing).Error; err != nil {
					return err
				}
				if existing > 0 {
					continue
				}
			}
			p := entities.Plot{
				Number:          fp.Number,
				Name:            fp.Name,
				Area:            fp.Area,
				Status:          fp.Status,
				PlantingDate:    fp.PlantingDate,
				LastHarvestDate: fp.LastHarvestDate,
				SoilType:        fp.SoilType,
				Notes:           fp.Notes,
			}
			if p.Status != "" && !entities.IsPlotStatus(p.Status) {
				return fmt.Errorf("plot %d: unknown status %q", fp.Number, p.Status)
			}
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
			rep.Plots++
			if fp.Cycle == nil {
				continue
			}
			cat, err := ensureDefaultCategory(tx, table, *fp.Cycle)
			if err != nil {
				return err
			}
			if err := tx.Create(&entities.PlotCategory{PlotID: p.ID, CategoryID: cat.ID, IsActive: true}).Error; err != nil {
				return err
			}
			rep.Links++
		}

		for _, fp := range f.Products {
			var n int64
			if err := tx.Model(&entities.Product{}).Where("name = ? AND brand = ?", fp.Name, fp.Brand).Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				continue
			}
			p := entities.Product{
				Name: fp.Name, Brand: fp.Brand, Category: fp.Category, Type: fp.Type,
				RegistrationNumber: fp.RegistrationNumber, MapaClassification: fp.MapaClassification,
				ActiveIngredient: fp.ActiveIngredient, ToxicClass: fp.ToxicClass, EnvironmentalClass: fp.EnvironmentalClass,
				Species: fp.Species, Guarantee: fp.Guarantee,
				UnitOfMeasure: fp.UnitOfMeasure, CostPerUnit: fp.CostPerUnit, PackageSize: fp.PackageSize,
				Supplier: fp.Supplier, Manufacturer: fp.Manufacturer,
				MinDosage: fp.MinDosage, MaxDosage: fp.MaxDosage, DosageUnit: fp.DosageUnit,
				ApplicationMethods: fp.ApplicationMethods, TargetCrops: fp.TargetCrops,
				Description: fp.Description, IsActive: true,
			}
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
			rep.Products++
		}
		return nil
	})
	if err != nil {
		return SeedReport{}, fmt.Errorf("seed fixture: %w", err)
	}
	return rep, nil
}

// NextPlotNumber is MAX(number)+1, or 1 for an empty farm. Call it inside the
// inserting transaction.
func NextPlotNumber(tx *gorm.DB) (int, error) {
	var max sql.NullInt64
	if err := tx.Model(&entities.Plot{}).Select("MAX(number)").Row().Scan(&max); err != nil {
		return 0, err
	}
	return int(max.Int64) + 1, nil
}
