package serviceImp

import (
	"context"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"canefarm/entities"
	"canefarm/pkg/apperr"
	"canefarm/pkg/product/importer"
	"canefarm/pkg/product/repository"
	"canefarm/pkg/product/service"
)

type productSvc struct {
	r      repository.ProductRepository
	client *http.Client
	log    *zap.Logger
}

func NewProductService(r repository.ProductRepository, client *http.Client, log *zap.Logger) service.ProductService {
	return &productSvc{r: r, client: client, log: log}
}

func validate(p *entities.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return apperr.Invalid("name", "required")
	}
	if p.CostPerUnit < 0 {
		return apperr.Invalid("cost_per_unit", "must be >= 0")
	}
	if p.MinDosage != nil && p.MaxDosage != nil && *p.MinDosage > *p.MaxDosage {
		return apperr.Invalid("min_dosage", "must not exceed max_dosage")
	}
	if p.WithdrawalPeriod != nil && *p.WithdrawalPeriod < 0 {
		return apperr.Invalid("withdrawal_period", "must be >= 0")
	}
	if p.ReentryPeriod != nil && *p.ReentryPeriod < 0 {
		return apperr.Invalid("reentry_period", "must be >= 0")
	}
	return nil
}

func (s *productSvc) CreateProduct(ctx context.Context, in entities.Product) (*entities.Product, error) {
	if err := validate(&in); err != nil {
		return nil, err
	}
	in.ID = ""
	in.IsActive = true
	if err := s.r.Create(ctx, &in); err != nil {
		return nil, err
	}
	s.log.Info("product created", zap.String("product_id", in.ID), zap.String("name", in.Name))
	return &in, nil
}

func (s *productSvc) GetProduct(ctx context.Context, id string) (*entities.Product, error) {
	return s.r.FindByID(ctx, id)
}

func (s *productSvc) ListProducts(ctx context.Context, f repository.Filter) ([]entities.Product, error) {
	return s.r.List(ctx, f)
}

func (s *productSvc) ReplaceProduct(ctx context.Context, id string, in entities.Product) (*entities.Product, error) {
	cur, err := s.r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validate(&in); err != nil {
		return nil, err
	}
	in.ID = cur.ID
	in.CreatedAt = cur.CreatedAt
	in.IsActive = cur.IsActive
	if err := s.r.Update(ctx, &in); err != nil {
		return nil, err
	}
	return &in, nil
}

func (s *productSvc) DeactivateProduct(ctx context.Context, id string) error {
	if err := s.r.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.log.Info("product deactivated", zap.String("product_id", id))
	return nil
}

func (s *productSvc) Import(ctx context.Context, format string, r io.Reader) (*service.ImportReport, error) {
	res, err := importer.Parse(format, r)
	if err != nil {
		return nil, apperr.Invalid("file", err.Error())
	}
	return s.store(ctx, res)
}

func (s *productSvc) ImportURL(ctx context.Context, url string) (*service.ImportReport, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, apperr.Invalid("url", "must be http(s)")
	}
	res, err := importer.FetchHTML(s.client, url)
	if err != nil {
		return nil, apperr.Invalid("url", err.Error())
	}
	return s.store(ctx, res)
}

// store creates parsed products that are not in the catalog yet (matched by
// name and brand) in one transaction.
func (s *productSvc) store(ctx context.Context, res importer.Result) (*service.ImportReport, error) {
	rep := &service.ImportReport{Duplicates: []string{}, Skipped: res.Skipped}
	seen := map[string]bool{}
	var fresh []entities.Product
	for _, p := range res.Products {
		key := strings.ToLower(p.Name + "|" + p.Brand)
		if seen[key] {
			rep.Duplicates = append(rep.Duplicates, p.Name)
			continue
		}
		seen[key] = true
		exists, err := s.r.ExistsByNameBrand(ctx, p.Name, p.Brand)
		if err != nil {
			return nil, err
		}
		if exists {
			rep.Duplicates = append(rep.Duplicates, p.Name)
			continue
		}
		fresh = append(fresh, p)
	}
	if err := s.r.CreateMany(ctx, fresh); err != nil {
		return nil, err
	}
	rep.Created = len(fresh)
	s.log.Info("products imported",
		zap.Int("created", rep.Created), zap.Int("duplicates", len(rep.Duplicates)), zap.Int("skipped", len(rep.Skipped)))
	return rep, nil
}
