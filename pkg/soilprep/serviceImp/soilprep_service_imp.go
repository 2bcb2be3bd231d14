package serviceImp

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"canefarm/entities"
	"canefarm/pkg/apperr"
	"canefarm/pkg/soilprep/repository"
	"canefarm/pkg/soilprep/service"
)

// ProductLookup resolves product ids referenced by actions.
type ProductLookup interface {
	FindByIDs(ctx context.Context, ids []string) ([]entities.Product, error)
}

type soilPrepSvc struct {
	r        repository.SoilPrepRepository
	products ProductLookup
	log      *zap.Logger
}

func NewSoilPrepService(r repository.SoilPrepRepository, products ProductLookup, log *zap.Logger) service.SoilPrepService {
	return &soilPrepSvc{r: r, products: products, log: log}
}

func (s *soilPrepSvc) actions(ctx context.Context, in []service.ActionInput) ([]entities.SoilPreparationAction, error) {
	out := make([]entities.SoilPreparationAction, 0, len(in))
	ids := make([]string, 0, len(in))
	seen := map[string]bool{}
	for i, a := range in {
		if strings.TrimSpace(a.ProductID) == "" {
			return nil, apperr.Invalidf("actions", "action %d: product_id required", i+1)
		}
		if a.Dosage <= 0 {
			return nil, apperr.Invalidf("actions", "action %d: dosage must be > 0", i+1)
		}
		if !seen[a.ProductID] {
			seen[a.ProductID] = true
			ids = append(ids, a.ProductID)
		}
		out = append(out, entities.SoilPreparationAction{
			ProductID:         a.ProductID,
			Dosage:            a.Dosage,
			DosageUnit:        a.DosageUnit,
			ApplicationMethod: a.ApplicationMethod,
			EngineerReport:    a.EngineerReport,
		})
	}
	if len(ids) == 0 {
		return out, nil
	}
	found, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(found) != len(ids) {
		known := map[string]bool{}
		for _, p := range found {
			known[p.ID] = true
		}
		var missing []string
		for _, id := range ids {
			if !known[id] {
				missing = append(missing, id)
			}
		}
		return nil, apperr.Invalidf("actions", "unknown products %v", missing)
	}
	return out, nil
}

func (s *soilPrepSvc) CreateSoilPrep(ctx context.Context, in service.CreateSoilPrep) (*entities.SoilPreparation, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Invalid("name", "required")
	}
	if in.EstimatedDuration < 0 {
		return nil, apperr.Invalid("estimated_duration", "must be >= 0")
	}
	acts, err := s.actions(ctx, in.Actions)
	if err != nil {
		return nil, err
	}
	sp := &entities.SoilPreparation{Name: name, Description: in.Description, EstimatedDuration: in.EstimatedDuration}
	if err := s.r.Create(ctx, sp, acts); err != nil {
		return nil, err
	}
	s.log.Info("soil preparation created",
		zap.String("soil_preparation_id", sp.ID), zap.Int("actions", len(acts)), zap.Float64("total_cost", sp.TotalCost))
	return s.GetSoilPrep(ctx, sp.ID)
}

func (s *soilPrepSvc) GetSoilPrep(ctx context.Context, id string) (*entities.SoilPreparation, error) {
	sp, err := s.r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sp.Actions, err = s.r.Actions(ctx, id); err != nil {
		return nil, err
	}
	return sp, nil
}

func (s *soilPrepSvc) ListSoilPreps(ctx context.Context, query string) ([]entities.SoilPreparation, error) {
	return s.r.List(ctx, query)
}

func (s *soilPrepSvc) UpdatePartial(ctx context.Context, id string, p service.SoilPrepPatch) (*entities.SoilPreparation, error) {
	cur, err := s.r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return nil, apperr.Invalid("name", "required")
		}
		cur.Name = name
	}
	if p.Description != nil {
		cur.Description = p.Description
	}
	if p.EstimatedDuration != nil {
		if *p.EstimatedDuration < 0 {
			return nil, apperr.Invalid("estimated_duration", "must be >= 0")
		}
		cur.EstimatedDuration = *p.EstimatedDuration
	}
	if err := s.r.Update(ctx, cur); err != nil {
		return nil, err
	}
	return s.GetSoilPrep(ctx, id)
}

func (s *soilPrepSvc) ReplaceActions(ctx context.Context, id string, in []service.ActionInput) (*entities.SoilPreparation, error) {
	acts, err := s.actions(ctx, in)
	if err != nil {
		return nil, err
	}
	total, err := s.r.ReplaceActions(ctx, id, acts)
	if err != nil {
		return nil, err
	}
	s.log.Info("soil preparation actions replaced",
		zap.String("soil_preparation_id", id), zap.Int("actions", len(acts)), zap.Float64("total_cost", total))
	return s.GetSoilPrep(ctx, id)
}

func (s *soilPrepSvc) DeleteSoilPrep(ctx context.Context, id string) error {
	if err := s.r.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("soil preparation deleted", zap.String("soil_preparation_id", id))
	return nil
}
