package serviceImp_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"canefarm/entities"
	"canefarm/pkg/analysis/service"
	"canefarm/pkg/analysis/serviceImp"
	"canefarm/pkg/apperr"
	"canefarm/pkg/calc"
	"canefarm/pkg/cycle"
)

type fakePlots []entities.Plot

func (f fakePlots) FindByID(_ context.Context, id string) (*entities.Plot, error) {
	for _, p := range f {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (f fakePlots) List(context.Context, string) ([]entities.Plot, error) { return f, nil }

type fakeCycles map[string]int

func (f fakeCycles) PlotCycles(context.Context) (map[string]int, error) { return f, nil }

const price = 1.2

func newSvc() service.AnalysisService {
	plots := fakePlots{
		{ID: "A", Number: 1, Area: 1.5, Status: entities.PlotReform},
		{ID: "C", Number: 3, Area: 8, Status: entities.PlotActive},
		{ID: "D", Number: 4, Area: 4, Status: entities.PlotNew},
	}
	return serviceImp.NewAnalysisService(plots, fakeCycles{"A": 5, "C": 1}, cycle.Default(), price, zap.NewNop())
}

func TestDashboard(t *testing.T) {
	d, err := newSvc().Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, d.PlotCount)
	assert.InDelta(t, 13.5, d.TotalArea, 1e-9)
	assert.InDelta(t, 4.5, d.AverageArea, 1e-9)
	assert.Equal(t, 1, d.UnassignedPlots)
	assert.Equal(t, map[string]int{"reform": 1, "active": 1, "new": 1}, d.ByStatus)
	assert.Equal(t, 33, d.Efficiency)

	require.Len(t, d.ByCycle, 3)
	assert.Equal(t, service.CycleCount{Cycle: 0, Name: "Plantio Novo", Plots: 1, Area: 4}, d.ByCycle[0])
	assert.Equal(t, "Primeiro Corte", d.ByCycle[1].Name)
	assert.Equal(t, 5, d.ByCycle[2].Cycle)

	want := calc.ExpectedProductivity(110, 5)*1.5*price +
		calc.ExpectedProductivity(110, 1)*8*price +
		calc.ExpectedProductivity(110, 0)*4*price
	assert.InDelta(t, want, d.EstimatedRevenue, 1e-6)
}

func TestPlotROIAndPriority(t *testing.T) {
	ctx := context.Background()
	svc := newSvc()

	r, err := svc.PlotROI(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, 5, r.Cycle)
	assert.Equal(t, "Quinto Corte", r.CycleName)
	assert.Equal(t, calc.ReformCost(1.5), r.ReformCost)
	assert.InDelta(t, calc.ReformROI(1.5, 5, price), r.ROI, 1e-9)

	_, err = svc.PlotROI(ctx, "nope")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	prio, err := svc.ReformPriority(ctx)
	require.NoError(t, err)
	require.Len(t, prio, 3)
	assert.Equal(t, "A", prio[0].Plot.ID)

	res, err := svc.Consolidation(ctx)
	require.NoError(t, err)
	assert.Equal(t, 33, res.CurrentEfficiency)
}

func TestCalculators(t *testing.T) {
	svc := newSvc()

	r := svc.ROI(service.ROIInput{Area: 10, Cycle: 5})
	assert.Equal(t, price, r.PricePerKgATR)
	assert.Equal(t, 150000.0, r.ReformCost)
	assert.InDelta(t, calc.ReformROI(10, 5, price), r.ROI, 1e-9)

	other := 2.0
	r = svc.ROI(service.ROIInput{Area: 10, Cycle: 5, PricePerKgATR: &other})
	assert.Equal(t, 2.0, r.PricePerKgATR)

	be := svc.BreakEven(service.BreakEvenInput{FixedCosts: 1000, VariableCostPerUnit: 5, PricePerUnit: 15})
	assert.Equal(t, 100.0, be.Units)
	assert.True(t, be.Reachable)
	be = svc.BreakEven(service.BreakEvenInput{FixedCosts: 1000, VariableCostPerUnit: 15, PricePerUnit: 15})
	assert.Zero(t, be.Units)
	assert.False(t, be.Reachable)

	assert.Len(t, svc.Projection(0, 10, 5, 12), 12)
	assert.Empty(t, svc.Projection(0, 10, 5, -1))
}

func TestOptimalPlotSize(t *testing.T) {
	out, err := newSvc().OptimalPlotSize(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 10.0, out.OptimalSize)
	assert.Equal(t, 3, out.PlotsBelow)
}
