package repositoryImp

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"canefarm/database"
	"canefarm/entities"
	"canefarm/pkg/apperr"
	"canefarm/pkg/production/repository"
)

type productionRepo struct{ s database.Store }

func New(s database.Store) repository.ProductionRepository { return &productionRepo{s} }

func checkUnique(tx *gorm.DB, p *entities.Production) error {
	var n int64
	err := tx.Model(&entities.Production{}).
		Where("plot_id = ? AND cycle = ? AND id <> ?", p.PlotID, p.Cycle, p.ID).
		Count(&n).Error
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("production for plot %s cycle %d: %w", p.PlotID, p.Cycle, apperr.ErrConflict)
	}
	return nil
}

func (r *productionRepo) Create(ctx context.Context, p *entities.Production) error {
	return r.s.Transaction(ctx, func(tx *gorm.DB) error {
		if err := checkUnique(tx, p); err != nil {
			return err
		}
		return tx.Create(p).Error
	})
}

func (r *productionRepo) FindByID(ctx context.Context, id string) (*entities.Production, error) {
	var p entities.Production
	if err := r.s.DB(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, apperr.NotFound("production "+id, err)
	}
	return &p, nil
}

func (r *productionRepo) List(ctx context.Context, f repository.Filter) ([]entities.Production, error) {
	q := r.s.DB(ctx).Model(&entities.Production{})
	if f.PlotID != "" {
		q = q.Where("plot_id = ?", f.PlotID)
	}
	if f.Cycle != nil {
		q = q.Where("cycle = ?", *f.Cycle)
	}
	var out []entities.Production
	return out, q.Order("harvest_date desc, cycle desc").Find(&out).Error
}

func (r *productionRepo) Update(ctx context.Context, p *entities.Production) error {
	return r.s.Transaction(ctx, func(tx *gorm.DB) error {
		if err := checkUnique(tx, p); err != nil {
			return err
		}
		return tx.Save(p).Error
	})
}

func (r *productionRepo) Delete(ctx context.Context, id string) error {
	res := r.s.DB(ctx).Where("id = ?", id).Delete(&entities.Production{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("production "+id, gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *productionRepo) TotalsByCycle(ctx context.Context) ([]repository.CycleTotals, error) {
	var out []repository.CycleTotals
	err := r.s.DB(ctx).Table("productions pr").
		Select(`pr.cycle AS cycle,
			COUNT(DISTINCT pr.plot_id) AS plot_count,
			COALESCE(SUM(p.area), 0) AS total_area,
			COALESCE(SUM(pr.tonnage), 0) AS tonnage,
			COALESCE(SUM(pr.revenue), 0) AS revenue,
			COALESCE(SUM(pr.costs), 0) AS costs,
			COALESCE(AVG(pr.atr), 0) AS average_atr`).
		Joins("LEFT JOIN plots p ON p.id = pr.plot_id").
		Group("pr.cycle").
		Order("pr.cycle asc").
		Scan(&out).Error
	return out, err
}
