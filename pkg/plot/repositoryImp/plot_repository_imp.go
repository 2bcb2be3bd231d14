package repositoryImp

import (
	"context"

	"gorm.io/gorm"

	"canefarm/database"
	"canefarm/entities"
	"canefarm/pkg/apperr"
	"canefarm/pkg/plot/repository"
)

type plotRepo struct{ s database.Store }

func New(s database.Store) repository.PlotRepository { return &plotRepo{s} }

func (r *plotRepo) Create(ctx context.Context, p *entities.Plot) error {
	return r.s.Transaction(ctx, func(tx *gorm.DB) error {
		n, err := database.NextPlotNumber(tx)
		if err != nil {
			return err
		}
		p.Number = n
		return tx.Create(p).Error
	})
}

func (r *plotRepo) FindByID(ctx context.Context, id string) (*entities.Plot, error) {
	var p entities.Plot
	if err := r.s.DB(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, apperr.NotFound("plot "+id, err)
	}
	return &p, nil
}

func (r *plotRepo) FindByIDs(ctx context.Context, ids []string) ([]entities.Plot, error) {
	var out []entities.Plot
	if len(ids) == 0 {
		return out, nil
	}
	return out, r.s.DB(ctx).Where("id IN ?", ids).Order("number asc").Find(&out).Error
}

func (r *plotRepo) List(ctx context.Context, status string) ([]entities.Plot, error) {
	q := r.s.DB(ctx).Model(&entities.Plot{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []entities.Plot
	return out, q.Order("number asc").Find(&out).Error
}

func (r *plotRepo) Update(ctx context.Context, p *entities.Plot) error {
	return r.s.DB(ctx).Save(p).Error
}

func (r *plotRepo) Delete(ctx context.Context, id string) error {
	return r.s.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Model(&entities.PlotCategory{}).
			Where("plot_id = ? AND is_active = ?", id, true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&entities.Plot{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("plot "+id, gorm.ErrRecordNotFound)
		}
		return nil
	})
}
