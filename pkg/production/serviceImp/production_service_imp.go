package serviceImp

import (
	"context"
	"time"

	"go.uber.org/zap"

	"canefarm/entities"
	"canefarm/pkg/apperr"
	"canefarm/pkg/calc"
	"canefarm/pkg/cycle"
	"canefarm/pkg/production/repository"
	"canefarm/pkg/production/service"
)

// Plots resolves the plots productions refer to.
type Plots interface {
	FindByID(ctx context.Context, id string) (*entities.Plot, error)
	List(ctx context.Context, status string) ([]entities.Plot, error)
}

// Cycles maps assigned plots to their derived cycle.
type Cycles interface {
	PlotCycles(ctx context.Context) (map[string]int, error)
}

type productionSvc struct {
	r      repository.ProductionRepository
	plots  Plots
	cycles Cycles
	table  *cycle.Table
	price  float64
	log    *zap.Logger
}

func NewProductionService(r repository.ProductionRepository, plots Plots, cycles Cycles, table *cycle.Table, pricePerKgATR float64, log *zap.Logger) service.ProductionService {
	return &productionSvc{r: r, plots: plots, cycles: cycles, table: table, price: pricePerKgATR, log: log}
}

func checkDate(field, v string) error {
	if _, err := time.Parse("2006-01-02", v); err != nil {
		return apperr.Invalid(field, "must be YYYY-MM-DD")
	}
	return nil
}

func (s *productionSvc) CreateProduction(ctx context.Context, in service.CreateProduction) (*entities.Production, error) {
	if err := checkDate("harvest_date", in.HarvestDate); err != nil {
		return nil, err
	}
	if in.Tonnage < 0 || in.ATR < 0 || in.Costs < 0 {
		return nil, apperr.Invalid("production", "tonnage, atr and costs must be >= 0")
	}
	if _, err := s.plots.FindByID(ctx, in.PlotID); err != nil {
		return nil, err
	}
	p := &entities.Production{
		PlotID:      in.PlotID,
		HarvestDate: in.HarvestDate,
		Tonnage:     in.Tonnage,
		ATR:         in.ATR,
		Costs:       in.Costs,
		Notes:       in.Notes,
	}
	if in.Cycle != nil {
		if *in.Cycle < 0 {
			return nil, apperr.Invalid("cycle", "must be >= 0")
		}
		p.Cycle = *in.Cycle
	} else {
		cycles, err := s.cycles.PlotCycles(ctx)
		if err != nil {
			return nil, err
		}
		p.Cycle = cycles[in.PlotID]
	}
	if in.Revenue != nil {
		p.Revenue = *in.Revenue
	} else {
		p.Revenue = calc.ATRRevenue(p.Tonnage, p.ATR, s.price)
	}
	if err := s.r.Create(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info("production recorded",
		zap.String("production_id", p.ID), zap.String("plot_id", p.PlotID), zap.Int("cycle", p.Cycle), zap.Float64("tonnage", p.Tonnage))
	return p, nil
}

func (s *productionSvc) GetProduction(ctx context.Context, id string) (*entities.Production, error) {
	return s.r.FindByID(ctx, id)
}

func (s *productionSvc) ListProductions(ctx context.Context, f repository.Filter) ([]entities.Production, error) {
	return s.r.List(ctx, f)
}

func (s *productionSvc) UpdatePartial(ctx context.Context, id string, p service.ProductionPatch) (*entities.Production, error) {
	cur, err := s.r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Cycle != nil {
		if *p.Cycle < 0 {
			return nil, apperr.Invalid("cycle", "must be >= 0")
		}
		cur.Cycle = *p.Cycle
	}
	if p.HarvestDate != nil {
		if err := checkDate("harvest_date", *p.HarvestDate); err != nil {
			return nil, err
		}
		cur.HarvestDate = *p.HarvestDate
	}
	if p.Tonnage != nil {
		cur.Tonnage = *p.Tonnage
	}
	if p.ATR != nil {
		cur.ATR = *p.ATR
	}
	if p.Costs != nil {
		cur.Costs = *p.Costs
	}
	if p.Notes != nil {
		cur.Notes = p.Notes
	}
	switch {
	case p.Revenue != nil:
		cur.Revenue = *p.Revenue
	case p.Tonnage != nil || p.ATR != nil:
		cur.Revenue = calc.ATRRevenue(cur.Tonnage, cur.ATR, s.price)
	}
	if cur.Tonnage < 0 || cur.ATR < 0 || cur.Costs < 0 || cur.Revenue < 0 {
		return nil, apperr.Invalid("production", "values must be >= 0")
	}
	return cur, s.r.Update(ctx, cur)
}

func (s *productionSvc) DeleteProduction(ctx context.Context, id string) error {
	if err := s.r.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("production deleted", zap.String("production_id", id))
	return nil
}

func (s *productionSvc) SummaryByCycle(ctx context.Context) ([]service.CycleSummary, error) {
	rows, err := s.r.TotalsByCycle(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]service.CycleSummary, 0, len(rows))
	for _, t := range rows {
		out = append(out, service.CycleSummary{
			Cycle:        t.Cycle,
			CycleName:    s.table.Name(t.Cycle),
			PlotCount:    t.PlotCount,
			TotalArea:    t.TotalArea,
			Tonnage:      t.Tonnage,
			Revenue:      t.Revenue,
			Costs:        t.Costs,
			AverageATR:   t.AverageATR,
			Productivity: calc.ProductivityPerHectare(t.Tonnage, t.TotalArea),
		})
	}
	return out, nil
}

func (s *productionSvc) Efficiency(ctx context.Context) (calc.Efficiency, error) {
	plots, err := s.plots.List(ctx, "")
	if err != nil {
		return calc.Efficiency{}, err
	}
	ps, err := s.r.List(ctx, repository.Filter{})
	if err != nil {
		return calc.Efficiency{}, err
	}
	return calc.EfficiencyMetrics(plots, ps), nil
}
