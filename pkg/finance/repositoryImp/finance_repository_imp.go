package repositoryImp

import (
	"context"

	"gorm.io/gorm"

	"canefarm/database"
	"canefarm/entities"
	"canefarm/pkg/apperr"
	"canefarm/pkg/finance/repository"
)

type financeRepo struct{ s database.Store }

func New(s database.Store) repository.FinanceRepository { return &financeRepo{s} }

func deleteByID(db *gorm.DB, model any, op, id string) error {
	res := db.Where("id = ?", id).Delete(model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(op+" "+id, gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *financeRepo) CreatePayment(ctx context.Context, p *entities.ATRPayment) error {
	return r.s.DB(ctx).Create(p).Error
}

func (r *financeRepo) ListPayments(ctx context.Context, productionID string) ([]entities.ATRPayment, error) {
	q := r.s.DB(ctx).Model(&entities.ATRPayment{})
	if productionID != "" {
		q = q.Where("production_id = ?", productionID)
	}
	var out []entities.ATRPayment
	return out, q.Order("payment_date desc").Find(&out).Error
}

func (r *financeRepo) DeletePayment(ctx context.Context, id string) error {
	return deleteByID(r.s.DB(ctx), &entities.ATRPayment{}, "atr payment", id)
}

func (r *financeRepo) CreateSafra(ctx context.Context, s *entities.SafraPlanning) error {
	return r.s.DB(ctx).Create(s).Error
}

func (r *financeRepo) FindSafra(ctx context.Context, id string) (*entities.SafraPlanning, error) {
	var s entities.SafraPlanning
	if err := r.s.DB(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, apperr.NotFound("safra "+id, err)
	}
	return &s, nil
}

func (r *financeRepo) ListSafras(ctx context.Context) ([]entities.SafraPlanning, error) {
	var out []entities.SafraPlanning
	return out, r.s.DB(ctx).Order("year desc, start_date desc").Find(&out).Error
}

func (r *financeRepo) UpdateSafra(ctx context.Context, s *entities.SafraPlanning) error {
	return r.s.DB(ctx).Save(s).Error
}

func (r *financeRepo) DeleteSafra(ctx context.Context, id string) error {
	return r.s.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("safra_id = ?", id).Delete(&entities.CashFlowEntry{}).Error; err != nil {
			return err
		}
		return deleteByID(tx, &entities.SafraPlanning{}, "safra", id)
	})
}

func (r *financeRepo) ReplaceCashFlow(ctx context.Context, safraID string, rows []entities.CashFlowEntry) error {
	return r.s.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("safra_id = ?", safraID).Delete(&entities.CashFlowEntry{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

func (r *financeRepo) CashFlow(ctx context.Context, safraID string) ([]entities.CashFlowEntry, error) {
	var out []entities.CashFlowEntry
	return out, r.s.DB(ctx).Where("safra_id = ?", safraID).Order("seq asc").Find(&out).Error
}

func (r *financeRepo) CreateInput(ctx context.Context, a *entities.InputApplication) error {
	return r.s.DB(ctx).Create(a).Error
}

func (r *financeRepo) ListInputs(ctx context.Context, f repository.InputFilter) ([]entities.InputApplication, error) {
	q := r.s.DB(ctx).Model(&entities.InputApplication{})
	if f.PlotID != "" {
		q = q.Where("plot_id = ?", f.PlotID)
	}
	if f.InputType != "" {
		q = q.Where("input_type = ?", f.InputType)
	}
	var out []entities.InputApplication
	return out, q.Order("application_date desc").Find(&out).Error
}

func (r *financeRepo) DeleteInput(ctx context.Context, id string) error {
	return deleteByID(r.s.DB(ctx), &entities.InputApplication{}, "input application", id)
}

// Area counts each plot once per input type.
func (r *financeRepo) InputTotals(ctx context.Context) ([]repository.InputTotals, error) {
	var out []repository.InputTotals
	err := r.s.DB(ctx).Raw(`SELECT t.input_type AS input_type,
		t.total_cost AS total_cost,
		t.quantity AS quantity,
		t.plots AS plots,
		COALESCE((SELECT SUM(p.area) FROM plots p WHERE p.id IN
			(SELECT DISTINCT ia.plot_id FROM input_applications ia WHERE ia.input_type = t.input_type)), 0) AS area
		FROM (SELECT input_type, SUM(total_cost) AS total_cost, SUM(quantity) AS quantity,
			COUNT(DISTINCT plot_id) AS plots
			FROM input_applications GROUP BY input_type) t
		ORDER BY t.total_cost DESC`).Scan(&out).Error
	return out, err
}
