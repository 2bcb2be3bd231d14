package serviceImp

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"canefarm/entities"
	"canefarm/pkg/analysis/service"
	"canefarm/pkg/calc"
	"canefarm/pkg/cycle"
	"canefarm/pkg/optimize"
)

type Plots interface {
	FindByID(ctx context.Context, id string) (*entities.Plot, error)
	List(ctx context.Context, status string) ([]entities.Plot, error)
}

type Cycles interface {
	PlotCycles(ctx context.Context) (map[string]int, error)
}

type analysisSvc struct {
	plots  Plots
	cycles Cycles
	table  *cycle.Table
	price  float64
	log    *zap.Logger
}

func NewAnalysisService(plots Plots, cycles Cycles, table *cycle.Table, pricePerKgATR float64, log *zap.Logger) service.AnalysisService {
	return &analysisSvc{plots: plots, cycles: cycles, table: table, price: pricePerKgATR, log: log}
}

func (s *analysisSvc) Price() float64 { return s.price }

func (s *analysisSvc) load(ctx context.Context) ([]optimize.Plot, map[string]int, error) {
	plots, err := s.plots.List(ctx, "")
	if err != nil {
		return nil, nil, err
	}
	cycles, err := s.cycles.PlotCycles(ctx)
	if err != nil {
		return nil, nil, err
	}
	return optimize.FromEntities(plots, cycles), cycles, nil
}

func (s *analysisSvc) Dashboard(ctx context.Context) (*service.Dashboard, error) {
	plots, cycles, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	d := &service.Dashboard{
		PlotCount:     len(plots),
		ByCycle:       []service.CycleCount{},
		ByStatus:      map[string]int{},
		Efficiency:    optimize.CurrentEfficiency(plots),
		PricePerKgATR: s.price,
	}
	byCycle := map[int]*service.CycleCount{}
	for _, p := range plots {
		d.TotalArea += p.Area
		d.ByStatus[p.Status]++
		if _, ok := cycles[p.ID]; !ok {
			d.UnassignedPlots++
		}
		cc, ok := byCycle[p.Cycle]
		if !ok {
			cc = &service.CycleCount{Cycle: p.Cycle, Name: s.table.Name(p.Cycle)}
			byCycle[p.Cycle] = cc
		}
		cc.Plots++
		cc.Area += p.Area
		d.EstimatedRevenue += calc.ExpectedProductivity(calc.BaselineProductivity, p.Cycle) * p.Area * s.price
	}
	if len(plots) > 0 {
		d.AverageArea = d.TotalArea / float64(len(plots))
	}
	for _, cc := range byCycle {
		d.ByCycle = append(d.ByCycle, *cc)
	}
	sort.Slice(d.ByCycle, func(i, j int) bool { return d.ByCycle[i].Cycle < d.ByCycle[j].Cycle })
	return d, nil
}

func (s *analysisSvc) Consolidation(ctx context.Context) (*optimize.Result, error) {
	plots, _, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	res := optimize.AnalyzeConsolidation(plots)
	s.log.Debug("consolidation analyzed",
		zap.Int("plots", len(plots)), zap.Int("candidates", len(res.Candidates)), zap.Float64("savings", res.ProjectedSavings))
	return &res, nil
}

func (s *analysisSvc) ReformPriority(ctx context.Context) ([]optimize.ReformPriority, error) {
	plots, _, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return optimize.EvaluateReformPriority(plots, s.price), nil
}

func (s *analysisSvc) PlotROI(ctx context.Context, plotID string) (*service.PlotROI, error) {
	p, err := s.plots.FindByID(ctx, plotID)
	if err != nil {
		return nil, err
	}
	cycles, err := s.cycles.PlotCycles(ctx)
	if err != nil {
		return nil, err
	}
	c := cycles[p.ID]
	return &service.PlotROI{
		PlotID:              p.ID,
		Number:              p.Number,
		Area:                p.Area,
		Cycle:               c,
		CycleName:           s.table.Name(c),
		CurrentProductivity: calc.ExpectedProductivity(calc.BaselineProductivity, c),
		ReformProductivity:  calc.BaselineProductivity,
		ReformCost:          calc.ReformCost(p.Area),
		ROI:                 calc.ReformROI(p.Area, c, s.price),
	}, nil
}

func (s *analysisSvc) OptimalPlotSize(ctx context.Context, operationalCosts, machineryCapacity float64) (*service.OptimalSize, error) {
	plots, _, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	out := &service.OptimalSize{
		OptimalSize:       optimize.OptimalPlotSize(plots, operationalCosts, machineryCapacity),
		OperationalCosts:  operationalCosts,
		MachineryCapacity: machineryCapacity,
	}
	for _, p := range plots {
		if p.Area < out.OptimalSize {
			out.PlotsBelow++
		}
	}
	return out, nil
}

func (s *analysisSvc) ROI(in service.ROIInput) service.ROIResult {
	price := s.price
	if in.PricePerKgATR != nil && *in.PricePerKgATR > 0 {
		price = *in.PricePerKgATR
	}
	return service.ROIResult{
		Area:                 in.Area,
		Cycle:                in.Cycle,
		PricePerKgATR:        price,
		ReformCost:           calc.ReformCost(in.Area),
		ExpectedProductivity: calc.ExpectedProductivity(calc.BaselineProductivity, in.Cycle),
		ROI:                  calc.ReformROI(in.Area, in.Cycle, price),
	}
}

func (s *analysisSvc) BreakEven(in service.BreakEvenInput) service.BreakEvenResult {
	return service.BreakEvenResult{
		BreakEvenInput: in,
		Units:          calc.BreakEvenPoint(in.FixedCosts, in.VariableCostPerUnit, in.PricePerUnit),
		Reachable:      in.PricePerUnit > in.VariableCostPerUnit,
	}
}

func (s *analysisSvc) Projection(balance, monthlyRevenue, monthlyExpenses float64, months int) []calc.CashFlowMonth {
	return calc.CashFlowProjection(balance, monthlyRevenue, monthlyExpenses, months)
}
