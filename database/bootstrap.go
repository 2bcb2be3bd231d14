// database/bootstrap.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"canefarm/entities"
	"canefarm/pkg/cycle"
)

// Models lists every table the application owns, in creation order.
func Models() []any {
	return []any{
		&entities.Plot{},
		&entities.Category{},
		&entities.PlotCategory{},
		&entities.CategorySoilPreparation{},
		&entities.CategoryHistory{},
		&entities.Product{},
		&entities.SoilPreparation{},
		&entities.SoilPreparationAction{},
		&entities.Production{},
		&entities.ATRPayment{},
		&entities.SafraPlanning{},
		&entities.CashFlowEntry{},
		&entities.InputApplication{},
	}
}

// LegacyCycle is a plot cycle read from the pre-category schema.
type LegacyCycle struct {
	PlotID string
	Cycle  int
}

// Migrate brings the schema up to date. A plots table still carrying
// current_cycle is converted into active category links; when seedDefaults
// is set every reference cycle gets a default category.
func Migrate(ctx context.Context, s Store, table *cycle.Table, seedDefaults bool, log *zap.Logger) error {
	db := s.DB(ctx)

	// IMPORTANT: strip the legacy column BEFORE AutoMigrate so the rebuilt
	// table matches entities.Plot
	legacy, err := takeLegacyCycles(db)
	if err != nil {
		return fmt.Errorf("legacy cycles: %w", err)
	}

	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}

	if seedDefaults {
		n, err := SeedDefaultCategories(ctx, s, table)
		if err != nil {
			return err
		}
		if n > 0 {
			log.Info("default categories seeded", zap.Int("created", n))
		}
	}

	if len(legacy) > 0 {
		if err := LinkLegacyCycles(ctx, s, table, legacy); err != nil {
			return fmt.Errorf("link legacy cycles: %w", err)
		}
		log.Info("legacy plot cycles migrated to categories", zap.Int("plots", len(legacy)))
	}
	return nil
}

type colInfo struct {
	Cid       int
	Name      string
	Type      string
	NotNull   int
	DfltValue sql.NullString
	Pk        int
}

func hasColumn(db *gorm.DB, table, column string) (bool, error) {
	var tbl string
	if err := db.Raw(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&tbl).Error; err != nil {
		return false, fmt.Errorf("check table exist: %w", err)
	}
	if tbl == "" {
		// fresh DB, nothing to do
		return false, nil
	}
	var cols []colInfo
	if err := db.Raw(fmt.Sprintf(`PRAGMA table_info(%s)`, table)).Scan(&cols).Error; err != nil {
		return false, fmt.Errorf("table_info: %w", err)
	}
	for _, c := range cols {
		if strings.EqualFold(c.Name, column) {
			return true, nil
		}
	}
	return false, nil
}

// takeLegacyCycles reads plots.current_cycle, then drops the column together
// with any index on it. Plots at cycle 0 are returned as well.
func takeLegacyCycles(db *gorm.DB) ([]LegacyCycle, error) {
	ok, err := hasColumn(db, "plots", "current_cycle")
	if err != nil || !ok {
		return nil, err
	}

	var out []LegacyCycle
	err = db.Transaction(func(tx *gorm.DB) error {
		type row struct {
			ID           string
			CurrentCycle sql.NullInt64
		}
		var rows []row
		if err := tx.Raw(`SELECT id, current_cycle FROM plots`).Scan(&rows).Error; err != nil {
			return err
		}
		for _, r := range rows {
			c := 0
			if r.CurrentCycle.Valid && r.CurrentCycle.Int64 > 0 {
				c = int(r.CurrentCycle.Int64)
			}
			out = append(out, LegacyCycle{PlotID: r.ID, Cycle: c})
		}

		var idx []struct{ Name string }
		if err := tx.Raw(`SELECT name FROM sqlite_master WHERE type='index' AND tbl_name='plots' AND sql LIKE '%current_cycle%'`).
			Scan(&idx).Error; err != nil {
			return err
		}
		for _, ix := range idx {
			if err := tx.Exec(fmt.Sprintf(`DROP INDEX IF EXISTS "%s"`, ix.Name)).Error; err != nil {
				return err
			}
		}
		return tx.Exec(`ALTER TABLE plots DROP COLUMN current_cycle`).Error
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// LinkLegacyCycles gives every listed plot without an active link an active
// link to the default category of its cycle, creating the category if needed.
func LinkLegacyCycles(ctx context.Context, s Store, table *cycle.Table, legacy []LegacyCycle) error {
	return s.Transaction(ctx, func(tx *gorm.DB) error {
		for _, l := range legacy {
			var active int64
			if err := tx.Model(&entities.PlotCategory{}).
				Where("plot_id = ? AND is_active = ?", l.PlotID, true).
				Count(&active).Error; err != nil {
				return err
			}
			if active > 0 {
				continue
			}
			cat, err := ensureDefaultCategory(tx, table, l.Cycle)
			if err != nil {
				return err
			}
			link := entities.PlotCategory{PlotID: l.PlotID, CategoryID: cat.ID, IsActive: true}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
