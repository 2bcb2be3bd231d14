package repositoryImp

import (
	"context"

	"gorm.io/gorm"

	"canefarm/database"
	"canefarm/entities"
	"canefarm/pkg/apperr"
	"canefarm/pkg/category/repository"
)

type categoryRepo struct{ s database.Store }

func New(s database.Store) repository.CategoryRepository { return &categoryRepo{s} }

func (r *categoryRepo) Create(ctx context.Context, c *entities.Category) error {
	return r.s.DB(ctx).Create(c).Error
}

func findCategory(tx *gorm.DB, id string) (*entities.Category, error) {
	var c entities.Category
	if err := tx.Where("id = ?", id).First(&c).Error; err != nil {
		return nil, apperr.NotFound("category "+id, err)
	}
	return &c, nil
}

func (r *categoryRepo) FindByID(ctx context.Context, id string) (*entities.Category, error) {
	return findCategory(r.s.DB(ctx), id)
}

func (r *categoryRepo) List(ctx context.Context, cycle *int) ([]entities.Category, error) {
	q := r.s.DB(ctx).Model(&entities.Category{})
	if cycle != nil {
		q = q.Where("cycle = ?", *cycle)
	}
	var out []entities.Category
	return out, q.Order("cycle asc, name asc").Find(&out).Error
}

func (r *categoryRepo) Update(ctx context.Context, c *entities.Category) error {
	return r.s.DB(ctx).Save(c).Error
}

func (r *categoryRepo) Delete(ctx context.Context, id string) error {
	return r.s.Transaction(ctx, func(tx *gorm.DB) error {
		if _, err := findCategory(tx, id); err != nil {
			return err
		}
		if err := tx.Model(&entities.PlotCategory{}).
			Where("category_id = ? AND is_active = ?", id, true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", id).Delete(&entities.CategorySoilPreparation{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&entities.Category{}).
			Where("parent_category_id = ?", id).
			Update("parent_category_id", nil).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entities.Category{}).Error
	})
}

func assignPlotsTx(tx *gorm.DB, categoryID string, plotIDs []string) error {
	if err := tx.Model(&entities.PlotCategory{}).
		Where("category_id = ? AND is_active = ?", categoryID, true).
		Update("is_active", false).Error; err != nil {
		return err
	}
	if len(plotIDs) == 0 {
		return nil
	}
	links := make([]entities.PlotCategory, 0, len(plotIDs))
	for _, id := range plotIDs {
		links = append(links, entities.PlotCategory{PlotID: id, CategoryID: categoryID, IsActive: true})
	}
	return tx.Create(&links).Error
}

func (r *categoryRepo) AssignPlots(ctx context.Context, categoryID string, plotIDs []string) error {
	return r.s.Transaction(ctx, func(tx *gorm.DB) error {
		return assignPlotsTx(tx, categoryID, plotIDs)
	})
}

type conflictRow struct {
	LinkID string
	entities.Assignment
}

const activeLinkSQL = `
SELECT pc.id AS link_id, pc.plot_id, pc.category_id, c.name AS category_name, c.cycle, pc.created_at AS since
FROM plot_categories pc
JOIN categories c ON c.id = pc.category_id
WHERE pc.is_active = ?`

func conflictsTx(tx *gorm.DB, categoryID string, cycle int, plotIDs []string) ([]conflictRow, error) {
	var rows []conflictRow
	if len(plotIDs) == 0 {
		return rows, nil
	}
	err := tx.Raw(activeLinkSQL+` AND c.cycle = ? AND c.id <> ? AND pc.plot_id IN ? ORDER BY pc.created_at ASC`,
		true, cycle, categoryID, plotIDs).Scan(&rows).Error
	return rows, err
}

func assignments(rows []conflictRow) []entities.Assignment {
	out := make([]entities.Assignment, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Assignment)
	}
	return out
}

func (r *categoryRepo) Conflicts(ctx context.Context, categoryID string, cycle int, plotIDs []string) ([]entities.Assignment, error) {
	rows, err := conflictsTx(r.s.DB(ctx), categoryID, cycle, plotIDs)
	if err != nil {
		return nil, err
	}
	return assignments(rows), nil
}

func (r *categoryRepo) Assign(ctx context.Context, op repository.AssignOp) ([]entities.Assignment, error) {
	var conflicts []entities.Assignment
	err := r.s.Transaction(ctx, func(tx *gorm.DB) error {
		cat, err := findCategory(tx, op.CategoryID)
		if err != nil {
			return err
		}
		rows, err := conflictsTx(tx, cat.ID, cat.Cycle, op.PlotIDs)
		if err != nil {
			return err
		}
		conflicts = assignments(rows)
		if len(rows) > 0 {
			if !op.Move {
				return nil
			}
			ids := make([]string, 0, len(rows))
			for _, row := range rows {
				ids = append(ids, row.LinkID)
			}
			if err := tx.Model(&entities.PlotCategory{}).
				Where("id IN ?", ids).
				Update("is_active", false).Error; err != nil {
				return err
			}
		}
		if err := assignPlotsTx(tx, cat.ID, op.PlotIDs); err != nil {
			return err
		}
		var soil []string
		if err := tx.Model(&entities.CategorySoilPreparation{}).
			Where("category_id = ?", cat.ID).
			Pluck("soil_preparation_id", &soil).Error; err != nil {
			return err
		}
		return tx.Create(&entities.CategoryHistory{
			CategoryID:         cat.ID,
			PlotIDs:            nonNil(op.PlotIDs),
			SoilPreparationIDs: nonNil(soil),
			ChangedBy:          op.ChangedBy,
			Notes:              op.Notes,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return conflicts, nil
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

func (r *categoryRepo) ActivePlots(ctx context.Context, categoryID string) ([]entities.Plot, error) {
	var out []entities.Plot
	err := r.s.DB(ctx).
		Joins("JOIN plot_categories pc ON pc.plot_id = plots.id").
		Where("pc.category_id = ? AND pc.is_active = ?", categoryID, true).
		Order("plots.number asc").
		Find(&out).Error
	return out, err
}

func (r *categoryRepo) ActiveByPlot(ctx context.Context) (map[string]entities.Assignment, error) {
	var rows []conflictRow
	if err := r.s.DB(ctx).Raw(activeLinkSQL+` ORDER BY pc.created_at ASC, pc.rowid ASC`, true).Scan(&rows).Error; err != nil {
		return nil, err
	}
	// later links overwrite earlier ones: the most recent active link wins
	out := make(map[string]entities.Assignment, len(rows))
	for _, row := range rows {
		out[row.PlotID] = row.Assignment
	}
	return out, nil
}

func (r *categoryRepo) AssignSoilPreparations(ctx context.Context, categoryID string, soilPrepIDs []string, changedBy string, notes *string) error {
	return r.s.Transaction(ctx, func(tx *gorm.DB) error {
		if _, err := findCategory(tx, categoryID); err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", categoryID).Delete(&entities.CategorySoilPreparation{}).Error; err != nil {
			return err
		}
		if len(soilPrepIDs) > 0 {
			links := make([]entities.CategorySoilPreparation, 0, len(soilPrepIDs))
			for _, id := range soilPrepIDs {
				links = append(links, entities.CategorySoilPreparation{CategoryID: categoryID, SoilPreparationID: id})
			}
			if err := tx.Create(&links).Error; err != nil {
				return err
			}
		}
		var plots []string
		if err := tx.Model(&entities.PlotCategory{}).
			Where("category_id = ? AND is_active = ?", categoryID, true).
			Pluck("plot_id", &plots).Error; err != nil {
			return err
		}
		return tx.Create(&entities.CategoryHistory{
			CategoryID:         categoryID,
			PlotIDs:            nonNil(plots),
			SoilPreparationIDs: nonNil(soilPrepIDs),
			ChangedBy:          changedBy,
			Notes:              notes,
		}).Error
	})
}

func (r *categoryRepo) SoilPreparations(ctx context.Context, categoryID string) ([]entities.SoilPreparation, error) {
	var out []entities.SoilPreparation
	err := r.s.DB(ctx).
		Joins("JOIN category_soil_preparations csp ON csp.soil_preparation_id = soil_preparations.id").
		Where("csp.category_id = ?", categoryID).
		Order("soil_preparations.name asc").
		Find(&out).Error
	return out, err
}

func (r *categoryRepo) History(ctx context.Context, categoryID string) ([]entities.CategoryHistory, error) {
	var out []entities.CategoryHistory
	err := r.s.DB(ctx).
		Where("category_id = ?", categoryID).
		Order("configuration_date desc").
		Find(&out).Error
	return out, err
}
