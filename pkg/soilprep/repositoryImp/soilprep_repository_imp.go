package repositoryImp

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"canefarm/database"
	"canefarm/entities"
	"canefarm/pkg/apperr"
	"canefarm/pkg/soilprep/repository"
)

type soilPrepRepo struct{ s database.Store }

func New(s database.Store) repository.SoilPrepRepository { return &soilPrepRepo{s} }

const totalCostSQL = `SELECT COALESCE(SUM(a.dosage * p.cost_per_unit), 0)
FROM soil_preparation_actions a JOIN products p ON p.id = a.product_id
WHERE a.soil_preparation_id = ?`

func insertActions(tx *gorm.DB, id string, actions []entities.SoilPreparationAction) error {
	if len(actions) == 0 {
		return nil
	}
	rows := make([]entities.SoilPreparationAction, len(actions))
	for i, a := range actions {
		a.ID = ""
		a.SoilPreparationID = id
		a.Order = i + 1
		rows[i] = a
	}
	return tx.Create(&rows).Error
}

func recompute(tx *gorm.DB, id string) (float64, error) {
	var total float64
	if err := tx.Raw(totalCostSQL, id).Row().Scan(&total); err != nil {
		return 0, err
	}
	err := tx.Model(&entities.SoilPreparation{}).Where("id = ?", id).Update("total_cost", total).Error
	return total, err
}

func (r *soilPrepRepo) Create(ctx context.Context, sp *entities.SoilPreparation, actions []entities.SoilPreparationAction) error {
	return r.s.Transaction(ctx, func(tx *gorm.DB) error {
		sp.TotalCost = 0
		if err := tx.Create(sp).Error; err != nil {
			return err
		}
		if err := insertActions(tx, sp.ID, actions); err != nil {
			return err
		}
		total, err := recompute(tx, sp.ID)
		sp.TotalCost = total
		return err
	})
}

func (r *soilPrepRepo) FindByID(ctx context.Context, id string) (*entities.SoilPreparation, error) {
	var sp entities.SoilPreparation
	if err := r.s.DB(ctx).Where("id = ?", id).First(&sp).Error; err != nil {
		return nil, apperr.NotFound("soil preparation "+id, err)
	}
	return &sp, nil
}

func (r *soilPrepRepo) FindByIDs(ctx context.Context, ids []string) ([]entities.SoilPreparation, error) {
	var out []entities.SoilPreparation
	if len(ids) == 0 {
		return out, nil
	}
	return out, r.s.DB(ctx).Where("id IN ?", ids).Find(&out).Error
}

func (r *soilPrepRepo) List(ctx context.Context, query string) ([]entities.SoilPreparation, error) {
	q := r.s.DB(ctx).Model(&entities.SoilPreparation{})
	if query = strings.TrimSpace(query); query != "" {
		like := "%" + strings.ToLower(query) + "%"
		q = q.Where("lower(name) LIKE ? OR lower(description) LIKE ?", like, like)
	}
	var out []entities.SoilPreparation
	return out, q.Order("name asc").Find(&out).Error
}

type actionRow struct {
	entities.SoilPreparationAction
	ProductName string
	CostPerUnit float64
}

func (r *soilPrepRepo) Actions(ctx context.Context, id string) ([]entities.SoilPreparationAction, error) {
	var rows []actionRow
	err := r.s.DB(ctx).Table("soil_preparation_actions a").
		Select("a.*, p.name AS product_name, p.cost_per_unit AS cost_per_unit").
		Joins("LEFT JOIN products p ON p.id = a.product_id").
		Where("a.soil_preparation_id = ?", id).
		Order("a.action_order asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]entities.SoilPreparationAction, len(rows))
	for i, row := range rows {
		a := row.SoilPreparationAction
		a.ProductName = row.ProductName
		a.CostPerUnit = row.CostPerUnit
		out[i] = a
	}
	return out, nil
}

func (r *soilPrepRepo) Update(ctx context.Context, sp *entities.SoilPreparation) error {
	return r.s.DB(ctx).Model(sp).Select("name", "description", "estimated_duration", "updated_at").Updates(sp).Error
}

func (r *soilPrepRepo) ReplaceActions(ctx context.Context, id string, actions []entities.SoilPreparationAction) (float64, error) {
	var total float64
	err := r.s.Transaction(ctx, func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&entities.SoilPreparation{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return apperr.NotFound("soil preparation "+id, gorm.ErrRecordNotFound)
		}
		if err := tx.Where("soil_preparation_id = ?", id).Delete(&entities.SoilPreparationAction{}).Error; err != nil {
			return err
		}
		if err := insertActions(tx, id, actions); err != nil {
			return err
		}
		var err error
		total, err = recompute(tx, id)
		return err
	})
	return total, err
}

func (r *soilPrepRepo) Delete(ctx context.Context, id string) error {
	return r.s.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("soil_preparation_id = ?", id).Delete(&entities.SoilPreparationAction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("soil_preparation_id = ?", id).Delete(&entities.CategorySoilPreparation{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&entities.SoilPreparation{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("soil preparation "+id, gorm.ErrRecordNotFound)
		}
		return nil
	})
}
