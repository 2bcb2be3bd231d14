package repositoryImp

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"canefarm/database"
	"canefarm/entities"
	"canefarm/pkg/apperr"
	"canefarm/pkg/product/repository"
)

type productRepo struct{ s database.Store }

func New(s database.Store) repository.ProductRepository { return &productRepo{s} }

func (r *productRepo) Create(ctx context.Context, p *entities.Product) error {
	return r.s.DB(ctx).Create(p).Error
}

func (r *productRepo) CreateMany(ctx context.Context, ps []entities.Product) error {
	if len(ps) == 0 {
		return nil
	}
	return r.s.Transaction(ctx, func(tx *gorm.DB) error {
		return tx.Create(&ps).Error
	})
}

func (r *productRepo) FindByID(ctx context.Context, id string) (*entities.Product, error) {
	var p entities.Product
	if err := r.s.DB(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, apperr.NotFound("product "+id, err)
	}
	return &p, nil
}

func (r *productRepo) FindByIDs(ctx context.Context, ids []string) ([]entities.Product, error) {
	var out []entities.Product
	if len(ids) == 0 {
		return out, nil
	}
	return out, r.s.DB(ctx).Where("id IN ?", ids).Find(&out).Error
}

func (r *productRepo) ExistsByNameBrand(ctx context.Context, name, brand string) (bool, error) {
	var n int64
	err := r.s.DB(ctx).Model(&entities.Product{}).
		Where("lower(name) = ? AND lower(brand) = ?", strings.ToLower(name), strings.ToLower(brand)).
		Count(&n).Error
	return n > 0, err
}

func (r *productRepo) List(ctx context.Context, f repository.Filter) ([]entities.Product, error) {
	q := r.s.DB(ctx).Model(&entities.Product{})
	if !f.IncludeInactive {
		q = q.Where("is_active = ?", true)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Query != "" {
		like := "%" + strings.ToLower(f.Query) + "%"
		q = q.Where("lower(name) LIKE ? OR lower(brand) LIKE ? OR lower(active_ingredient) LIKE ?", like, like, like)
	}
	var out []entities.Product
	return out, q.Order("name asc").Find(&out).Error
}

func (r *productRepo) Update(ctx context.Context, p *entities.Product) error {
	return r.s.DB(ctx).Save(p).Error
}

func (r *productRepo) SoftDelete(ctx context.Context, id string) error {
	res := r.s.DB(ctx).Model(&entities.Product{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("product "+id, gorm.ErrRecordNotFound)
	}
	return nil
}
