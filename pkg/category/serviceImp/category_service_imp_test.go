package serviceImp_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"canefarm/database"
	"canefarm/entities"
	"canefarm/internal/testdb"
	"canefarm/pkg/apperr"
	"canefarm/pkg/category/repositoryImp"
	"canefarm/pkg/category/service"
	"canefarm/pkg/category/serviceImp"
	"canefarm/pkg/cycle"
	"canefarm/pkg/metrics"
	plotrepo "canefarm/pkg/plot/repositoryImp"
	soilrepo "canefarm/pkg/soilprep/repositoryImp"
)

type recorder map[string]int

func (r recorder) AssignmentOutcome(o string) { r[o]++ }

type env struct {
	store database.Store
	svc   service.CategoryService
	m     recorder
	plots []*entities.Plot
}

func setup(t *testing.T, n int) env {
	t.Helper()
	ctx := context.Background()
	store := testdb.Empty(t)
	plots := plotrepo.New(store)
	m := recorder{}
	e := env{
		store: store,
		svc:   serviceImp.NewCategoryService(repositoryImp.New(store), plots, soilrepo.New(store), cycle.Default(), m, zap.NewNop()),
		m:     m,
	}
	for i := 0; i < n; i++ {
		p := &entities.Plot{Area: float64(i + 1), PlantingDate: "2020-01-01"}
		require.NoError(t, plots.Create(ctx, p))
		e.plots = append(e.plots, p)
	}
	return e
}

func (e env) category(t *testing.T, cycle int, name string) *entities.Category {
	t.Helper()
	c, err := e.svc.CreateCategory(context.Background(), service.CreateCategory{Cycle: cycle, Name: name})
	require.NoError(t, err)
	return c
}

func (e env) activeLinks(t *testing.T, plotID string) []entities.PlotCategory {
	t.Helper()
	var out []entities.PlotCategory
	require.NoError(t, e.store.DB(context.Background()).
		Where("plot_id = ? AND is_active = ?", plotID, true).Find(&out).Error)
	return out
}

func outcome(m recorder, o string) int { return m[o] }

func TestCreateCategoryDefaults(t *testing.T) {
	ctx := context.Background()
	e := setup(t, 0)

	c := e.category(t, 1, "  Primeiro corte A ")
	assert.Equal(t, "Primeiro corte A", c.Name)
	assert.Equal(t, 110.0, c.ExpectedProductivity)
	assert.Equal(t, 19774.02, c.StandardRevenue)

	prod := 95.0
	c2, err := e.svc.CreateCategory(ctx, service.CreateCategory{Cycle: 8, Name: "Oitavo", ExpectedProductivity: &prod, ParentCategoryID: &c.ID})
	require.NoError(t, err)
	assert.Equal(t, 95.0, c2.ExpectedProductivity)
	assert.Zero(t, c2.StandardRevenue)

	_, err = e.svc.CreateCategory(ctx, service.CreateCategory{Cycle: 11, Name: "x"})
	assert.True(t, apperr.IsValidation(err))
	_, err = e.svc.CreateCategory(ctx, service.CreateCategory{Cycle: 1, Name: " "})
	assert.True(t, apperr.IsValidation(err))
	missing := "nope"
	_, err = e.svc.CreateCategory(ctx, service.CreateCategory{Cycle: 1, Name: "x", ParentCategoryID: &missing})
	assert.True(t, apperr.IsValidation(err))

	cycle := 1
	list, err := e.svc.ListCategories(ctx, &cycle)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, e.svc.DeleteCategory(ctx, c.ID))
	got, err := e.svc.GetCategory(ctx, c2.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ParentCategoryID)
	assert.True(t, errors.Is(e.svc.DeleteCategory(ctx, c.ID), apperr.ErrNotFound))
}

func TestAssignReplacesSet(t *testing.T) {
	ctx := context.Background()
	e := setup(t, 3)
	a, b := e.plots[0], e.plots[1]
	c := e.category(t, 2, "Segundo corte")

	res, err := e.svc.Assign(ctx, c.ID, service.AssignRequest{PlotIDs: []string{a.ID, b.ID, a.ID}, ChangedBy: "ana"})
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, 2, res.Plots)
	assert.Empty(t, res.Conflicts)

	d, err := e.svc.GetCategory(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, d.Plots, 2)
	assert.InDelta(t, a.Area+b.Area, d.TotalArea, 1e-9)

	cycles, err := e.svc.PlotCycles(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{a.ID: 2, b.ID: 2}, cycles)

	res, err = e.svc.Assign(ctx, c.ID, service.AssignRequest{PlotIDs: []string{}})
	require.NoError(t, err)
	assert.True(t, res.Applied)
	d, err = e.svc.GetCategory(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, d.Plots)

	var links int64
	require.NoError(t, e.store.DB(ctx).Model(&entities.PlotCategory{}).Where("category_id = ?", c.ID).Count(&links).Error)
	assert.Equal(t, int64(2), links, "links are deactivated, never deleted")

	hist, err := e.svc.History(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Empty(t, hist[0].PlotIDs)
	assert.ElementsMatch(t, []string{a.ID, b.ID}, hist[1].PlotIDs)
	assert.Equal(t, "ana", hist[1].ChangedBy)
	assert.Equal(t, 2, outcome(e.m, metrics.OutcomeApplied))

	_, err = e.svc.Assign(ctx, c.ID, service.AssignRequest{PlotIDs: []string{"ghost"}})
	assert.True(t, apperr.IsValidation(err))
	_, err = e.svc.Assign(ctx, c.ID, service.AssignRequest{OnConflict: "merge"})
	assert.True(t, apperr.IsValidation(err))
	assert.Equal(t, 2, outcome(e.m, metrics.OutcomeRejected))
	_, err = e.svc.Assign(ctx, "missing", service.AssignRequest{})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestAssignConflictAbort(t *testing.T) {
	ctx := context.Background()
	e := setup(t, 2)
	a, b := e.plots[0], e.plots[1]
	first := e.category(t, 3, "Terceiro A")
	second := e.category(t, 3, "Terceiro B")

	_, err := e.svc.Assign(ctx, first.ID, service.AssignRequest{PlotIDs: []string{a.ID}})
	require.NoError(t, err)

	preview, err := e.svc.PreviewConflicts(ctx, second.ID, []string{a.ID, b.ID})
	require.NoError(t, err)
	require.Len(t, preview, 1)
	assert.Equal(t, a.ID, preview[0].PlotID)
	assert.Equal(t, first.ID, preview[0].CategoryID)

	res, err := e.svc.Assign(ctx, second.ID, service.AssignRequest{PlotIDs: []string{a.ID, b.ID}})
	require.NoError(t, err)
	assert.False(t, res.Applied)
	require.Len(t, res.Conflicts, 1)
	assert.Equal(t, "Terceiro A", res.Conflicts[0].CategoryName)

	// nothing written
	assert.Empty(t, e.activeLinks(t, b.ID))
	links := e.activeLinks(t, a.ID)
	require.Len(t, links, 1)
	assert.Equal(t, first.ID, links[0].CategoryID)
	hist, err := e.svc.History(ctx, second.ID)
	require.NoError(t, err)
	assert.Empty(t, hist)
	assert.Equal(t, 1, outcome(e.m, metrics.OutcomeConflict))
}

func TestAssignConflictMove(t *testing.T) {
	ctx := context.Background()
	e := setup(t, 2)
	a := e.plots[0]
	first := e.category(t, 3, "Terceiro A")
	second := e.category(t, 3, "Terceiro B")
	other := e.category(t, 4, "Quarto")

	_, err := e.svc.Assign(ctx, first.ID, service.AssignRequest{PlotIDs: []string{a.ID}})
	require.NoError(t, err)
	_, err = e.svc.Assign(ctx, other.ID, service.AssignRequest{PlotIDs: []string{e.plots[1].ID}})
	require.NoError(t, err)

	res, err := e.svc.Assign(ctx, second.ID, service.AssignRequest{PlotIDs: []string{a.ID}, OnConflict: "move"})
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, 1, res.Moved)

	links := e.activeLinks(t, a.ID)
	require.Len(t, links, 1)
	assert.Equal(t, second.ID, links[0].CategoryID)

	as, err := e.svc.ActiveByPlot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Terceiro B", as[a.ID].CategoryName)
	assert.Equal(t, 4, as[e.plots[1].ID].Cycle)
	assert.Equal(t, 1, outcome(e.m, metrics.OutcomeMoved))
}

func TestSoilPreparationsAndSummaries(t *testing.T) {
	ctx := context.Background()
	e := setup(t, 2)
	c := e.category(t, 1, "Primeiro")

	sp := &entities.SoilPreparation{Name: "Trato"}
	require.NoError(t, soilrepo.New(e.store).Create(ctx, sp, nil))
	require.NoError(t, e.store.DB(ctx).Model(sp).Update("total_cost", 100.0).Error)

	err := e.svc.AssignSoilPreparations(ctx, c.ID, service.SoilPrepRequest{SoilPreparationIDs: []string{"nope"}})
	assert.True(t, apperr.IsValidation(err))
	require.NoError(t, e.svc.AssignSoilPreparations(ctx, c.ID, service.SoilPrepRequest{SoilPreparationIDs: []string{sp.ID}, ChangedBy: "rui"}))
	_, err = e.svc.Assign(ctx, c.ID, service.AssignRequest{PlotIDs: []string{e.plots[0].ID, e.plots[1].ID}})
	require.NoError(t, err)

	hist, err := e.svc.History(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, []string{sp.ID}, hist[0].SoilPreparationIDs)
	assert.Equal(t, []string{sp.ID}, hist[1].SoilPreparationIDs)
	assert.Empty(t, hist[1].PlotIDs)

	sums, err := e.svc.Summaries(ctx)
	require.NoError(t, err)
	require.Len(t, sums, 1)
	s := sums[0]
	assert.Equal(t, 2, s.PlotCount)
	assert.InDelta(t, 3, s.TotalArea, 1e-9)
	assert.InDelta(t, 330, s.ExpectedTonnage, 1e-9)
	assert.InDelta(t, 19774.02*3, s.ExpectedRevenue, 1e-6)
	assert.InDelta(t, (1984.43+100)*3, s.ExpectedCosts, 1e-6)
	assert.InDelta(t, s.ExpectedRevenue-s.ExpectedCosts, s.ExpectedNet, 1e-6)
}

func TestUpdatePartial(t *testing.T) {
	ctx := context.Background()
	e := setup(t, 0)
	c := e.category(t, 2, "Segundo")

	name := "Segundo corte"
	rev := 1.0
	up, err := e.svc.UpdatePartial(ctx, c.ID, service.CategoryPatch{Name: &name, StandardRevenue: &rev})
	require.NoError(t, err)
	assert.Equal(t, name, up.Name)
	assert.Equal(t, 1.0, up.StandardRevenue)
	assert.Equal(t, 100.0, up.ExpectedProductivity)

	_, err = e.svc.UpdatePartial(ctx, c.ID, service.CategoryPatch{ParentCategoryID: &c.ID})
	assert.True(t, apperr.IsValidation(err))
}

func TestAssignRollsBackOnFailedWrite(t *testing.T) {
	ctx := context.Background()
	e := setup(t, 3)
	a, b, c := e.plots[0], e.plots[1], e.plots[2]
	first := e.category(t, 2, "Segundo A")
	second := e.category(t, 2, "Segundo B")

	_, err := e.svc.Assign(ctx, first.ID, service.AssignRequest{PlotIDs: []string{a.ID, b.ID}})
	require.NoError(t, err)

	// the history row is the last write of an assignment
	require.NoError(t, e.store.DB(ctx).Migrator().DropTable(&entities.CategoryHistory{}))

	_, err = e.svc.Assign(ctx, first.ID, service.AssignRequest{PlotIDs: []string{c.ID}})
	require.Error(t, err)
	_, err = e.svc.Assign(ctx, second.ID, service.AssignRequest{PlotIDs: []string{a.ID}, OnConflict: "move"})
	require.Error(t, err)

	for _, p := range []*entities.Plot{a, b} {
		links := e.activeLinks(t, p.ID)
		require.Len(t, links, 1)
		assert.Equal(t, first.ID, links[0].CategoryID)
	}
	assert.Empty(t, e.activeLinks(t, c.ID))

	var total int64
	require.NoError(t, e.store.DB(ctx).Model(&entities.PlotCategory{}).Count(&total).Error)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, 2, outcome(e.m, metrics.OutcomeError))
}

func TestPlotCyclesFollowNewestLinkAcrossCycles(t *testing.T) {
	ctx := context.Background()
	e := setup(t, 1)
	p := e.plots[0]
	second := e.category(t, 2, "Segundo")
	third := e.category(t, 3, "Terceiro")

	_, err := e.svc.Assign(ctx, second.ID, service.AssignRequest{PlotIDs: []string{p.ID}})
	require.NoError(t, err)
	_, err = e.svc.Assign(ctx, third.ID, service.AssignRequest{PlotIDs: []string{p.ID}})
	require.NoError(t, err)

	// one active link per cycle is allowed
	assert.Len(t, e.activeLinks(t, p.ID), 2)
	cycles, err := e.svc.PlotCycles(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, cycles[p.ID])

	_, err = e.svc.Assign(ctx, second.ID, service.AssignRequest{PlotIDs: []string{p.ID}})
	require.NoError(t, err)
	cycles, err = e.svc.PlotCycles(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, cycles[p.ID])
}
