package serviceImp_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"canefarm/entities"
	"canefarm/internal/testdb"
	"canefarm/pkg/apperr"
	"canefarm/pkg/calc"
	"canefarm/pkg/finance/repositoryImp"
	"canefarm/pkg/finance/service"
	"canefarm/pkg/finance/serviceImp"
	plotrepo "canefarm/pkg/plot/repositoryImp"
	prodrepo "canefarm/pkg/production/repositoryImp"
)

type fixture struct {
	svc  service.FinanceService
	big  *entities.Plot
	tiny *entities.Plot
	prod *entities.Production
}

func setup(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	store := testdb.New(t)
	plots := plotrepo.New(store)
	prods := prodrepo.New(store)

	big := &entities.Plot{Area: 10, PlantingDate: "2019-03-01"}
	tiny := &entities.Plot{Area: 2, PlantingDate: "2019-03-01"}
	require.NoError(t, plots.Create(ctx, big))
	require.NoError(t, plots.Create(ctx, tiny))
	prod := &entities.Production{PlotID: big.ID, Cycle: 1, HarvestDate: "2024-08-01", Tonnage: 1000, ATR: 130}
	require.NoError(t, prods.Create(ctx, prod))

	return fixture{
		svc:  serviceImp.NewFinanceService(repositoryImp.New(store), plots, prods, 1.2, zap.NewNop()),
		big:  big,
		tiny: tiny,
		prod: prod,
	}
}

func ptr[T any](v T) *T { return &v }

func TestATRPayment(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	p, err := f.svc.CreatePayment(ctx, service.CreatePayment{
		ProductionID: f.prod.ID,
		Deductions:   calc.Deductions{INSS: 1000, Aplacana: 500},
		PaymentDate:  "2024-09-10",
	})
	require.NoError(t, err)
	assert.Equal(t, 130.0, p.ATRValue)
	assert.InDelta(t, calc.ATRRevenue(1000, 130, 1.2), p.GrossValue, 1e-6)
	assert.InDelta(t, calc.ATRRevenue(1000, 130, 1.2)-1500, p.NetValue, 1e-6)

	p, err = f.svc.CreatePayment(ctx, service.CreatePayment{
		ProductionID: f.prod.ID, ATRValue: ptr(140.0), PricePerKg: ptr(1.0), PaymentDate: "2024-10-10",
	})
	require.NoError(t, err)
	assert.InDelta(t, calc.ATRRevenue(1000, 140, 1.0), p.NetValue, 1e-6)

	list, err := f.svc.ListPayments(ctx, f.prod.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2024-10-10", list[0].PaymentDate)

	_, err = f.svc.CreatePayment(ctx, service.CreatePayment{ProductionID: "missing", PaymentDate: "2024-10-10"})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	_, err = f.svc.CreatePayment(ctx, service.CreatePayment{
		ProductionID: f.prod.ID, PaymentDate: "2024-10-10", Deductions: calc.Deductions{Other: -1},
	})
	assert.True(t, apperr.IsValidation(err))

	require.NoError(t, f.svc.DeletePayment(ctx, p.ID))
	assert.True(t, errors.Is(f.svc.DeletePayment(ctx, p.ID), apperr.ErrNotFound))
}

func TestSafraPlanningAndCashFlow(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	_, err := f.svc.CreateSafra(ctx, service.CreateSafra{Year: "2025/26", StartDate: "2025-04-01", EndDate: "2025-03-01"})
	assert.True(t, apperr.IsValidation(err))
	_, err = f.svc.CreateSafra(ctx, service.CreateSafra{
		Year: "2025/26", StartDate: "2025-04-01", EndDate: "2026-03-31", PlannedReforms: []string{"nope"},
	})
	assert.True(t, apperr.IsValidation(err))

	sp, err := f.svc.CreateSafra(ctx, service.CreateSafra{
		Year:            "2025/26",
		StartDate:       "2025-11-15",
		EndDate:         "2026-10-31",
		PreviousRevenue: 300000,
		PersonalNeeds:   60000,
		PlannedReforms:  []string{f.tiny.ID, f.tiny.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, entities.SafraStatusPlanning, sp.Status)
	assert.Equal(t, 240000.0, sp.AvailableBudget)
	assert.Equal(t, []string{f.tiny.ID}, sp.PlannedReforms)

	rows, err := f.svc.ProjectCashFlow(ctx, sp.ID, service.Projection{
		InitialBalance: 1000, MonthlyRevenue: 500, MonthlyExpenses: 700, Months: 3,
	})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "2025-11-01", rows[0].Month)
	assert.Equal(t, "2026-01-01", rows[2].Month)
	assert.Equal(t, 400.0, rows[2].Balance)

	rows, err = f.svc.ProjectCashFlow(ctx, sp.ID, service.Projection{InitialBalance: 0, MonthlyRevenue: 10, Months: 2})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	d, err := f.svc.GetSafra(ctx, sp.ID)
	require.NoError(t, err)
	assert.Len(t, d.CashFlow, 2)
	assert.Equal(t, 2.0, d.PlannedReformArea)
	assert.Equal(t, calc.ReformCost(2), d.PlannedReformCost)
	assert.Equal(t, 240000-calc.ReformCost(2), d.BudgetRemaining)

	needs := 400000.0
	up, err := f.svc.UpdatePartial(ctx, sp.ID, service.SafraPatch{PersonalNeeds: &needs, Status: ptr(entities.SafraStatusActive)})
	require.NoError(t, err)
	assert.Zero(t, up.AvailableBudget)
	assert.Equal(t, entities.SafraStatusActive, up.Status)

	_, err = f.svc.UpdatePartial(ctx, sp.ID, service.SafraPatch{Status: ptr("done")})
	assert.True(t, apperr.IsValidation(err))

	rows, err = f.svc.ProjectCashFlow(ctx, sp.ID, service.Projection{Months: 0})
	require.NoError(t, err)
	assert.Empty(t, rows)

	require.NoError(t, f.svc.DeleteSafra(ctx, sp.ID))
	_, err = f.svc.CashFlow(ctx, sp.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestInputApplicationsCostAnalysis(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	_, err := f.svc.CreateInput(ctx, service.CreateInput{PlotID: f.big.ID, InputType: "seed", Quantity: 1, ApplicationDate: "2024-01-10"})
	assert.True(t, apperr.IsValidation(err))

	a, err := f.svc.CreateInput(ctx, service.CreateInput{
		PlotID: f.big.ID, InputType: entities.InputFertilizer, Product: "Ureia", Quantity: 500, UnitCost: 3, ApplicationDate: "2024-01-10",
	})
	require.NoError(t, err)
	assert.Equal(t, 1500.0, a.TotalCost)
	assert.Equal(t, 50.0, a.DosagePerHectare)

	_, err = f.svc.CreateInput(ctx, service.CreateInput{
		PlotID: f.big.ID, InputType: entities.InputFertilizer, Quantity: 100, UnitCost: 5, ApplicationDate: "2024-02-10",
	})
	require.NoError(t, err)
	_, err = f.svc.CreateInput(ctx, service.CreateInput{
		PlotID: f.tiny.ID, InputType: entities.InputHerbicide, Quantity: 4, UnitCost: 125, ApplicationDate: "2024-02-11",
	})
	require.NoError(t, err)

	ca, err := f.svc.CostAnalysis(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2500.0, ca.TotalCost)
	require.Len(t, ca.ByType, 2)
	fert := ca.ByType[0]
	assert.Equal(t, entities.InputFertilizer, fert.InputType)
	assert.Equal(t, 2000.0, fert.TotalCost)
	assert.Equal(t, 1, fert.Plots)
	assert.Equal(t, 10.0, fert.Area)
	assert.Equal(t, 200.0, fert.CostPerHectare)
	assert.Equal(t, 80.0, fert.Share)
	assert.Equal(t, 250.0, ca.ByType[1].CostPerHectare)
}
