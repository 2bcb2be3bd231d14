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
	productrepo "canefarm/pkg/product/repositoryImp"
	"canefarm/pkg/soilprep/repositoryImp"
	"canefarm/pkg/soilprep/service"
	"canefarm/pkg/soilprep/serviceImp"
)

func TestSoilPrepLifecycle(t *testing.T) {
	ctx := context.Background()
	store := testdb.New(t)
	products := productrepo.New(store)
	svc := serviceImp.NewSoilPrepService(repositoryImp.New(store), products, zap.NewNop())

	urea := &entities.Product{Name: "Ureia", CostPerUnit: 3.1, IsActive: true}
	lime := &entities.Product{Name: "Calcario", CostPerUnit: 120, IsActive: true}
	require.NoError(t, products.Create(ctx, urea))
	require.NoError(t, products.Create(ctx, lime))

	_, err := svc.CreateSoilPrep(ctx, service.CreateSoilPrep{Name: "Trato", Actions: []service.ActionInput{
		{ProductID: "nope", Dosage: 1},
	}})
	assert.True(t, apperr.IsValidation(err))
	_, err = svc.CreateSoilPrep(ctx, service.CreateSoilPrep{Name: "Trato", Actions: []service.ActionInput{
		{ProductID: urea.ID, Dosage: 0},
	}})
	assert.True(t, apperr.IsValidation(err))

	sp, err := svc.CreateSoilPrep(ctx, service.CreateSoilPrep{
		Name:              "Trato soca",
		EstimatedDuration: 12,
		Actions: []service.ActionInput{
			{ProductID: lime.ID, Dosage: 1.5, DosageUnit: "t/ha"},
			{ProductID: urea.ID, Dosage: 2, DosageUnit: "kg/ha"},
		},
	})
	require.NoError(t, err)
	assert.InDelta(t, 1.5*120+2*3.1, sp.TotalCost, 1e-9)
	require.Len(t, sp.Actions, 2)
	assert.Equal(t, "Calcario", sp.Actions[0].ProductName)
	assert.Equal(t, 1, sp.Actions[0].Order)
	assert.Equal(t, "Ureia", sp.Actions[1].ProductName)
	assert.InDelta(t, 3.1, sp.Actions[1].CostPerUnit, 1e-9)

	sp, err = svc.ReplaceActions(ctx, sp.ID, []service.ActionInput{{ProductID: urea.ID, Dosage: 10}})
	require.NoError(t, err)
	assert.InDelta(t, 31.0, sp.TotalCost, 1e-9)
	require.Len(t, sp.Actions, 1)

	sp, err = svc.ReplaceActions(ctx, sp.ID, nil)
	require.NoError(t, err)
	assert.Zero(t, sp.TotalCost)
	assert.Empty(t, sp.Actions)

	_, err = svc.ReplaceActions(ctx, "missing", nil)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	name := "Trato cana planta"
	dur := 20
	sp, err = svc.UpdatePartial(ctx, sp.ID, service.SoilPrepPatch{Name: &name, EstimatedDuration: &dur})
	require.NoError(t, err)
	assert.Equal(t, name, sp.Name)
	assert.Equal(t, 20, sp.EstimatedDuration)

	list, err := svc.ListSoilPreps(ctx, "planta")
	require.NoError(t, err)
	assert.Len(t, list, 1)
	list, err = svc.ListSoilPreps(ctx, "xyz")
	require.NoError(t, err)
	assert.Empty(t, list)

	var cat entities.Category
	require.NoError(t, store.DB(ctx).Where("cycle = ?", 1).First(&cat).Error)
	require.NoError(t, store.DB(ctx).Create(&entities.CategorySoilPreparation{CategoryID: cat.ID, SoilPreparationID: sp.ID}).Error)

	require.NoError(t, svc.DeleteSoilPrep(ctx, sp.ID))
	var links int64
	require.NoError(t, store.DB(ctx).Model(&entities.CategorySoilPreparation{}).Where("soil_preparation_id = ?", sp.ID).Count(&links).Error)
	assert.Zero(t, links)
	_, err = svc.GetSoilPrep(ctx, sp.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.True(t, errors.Is(svc.DeleteSoilPrep(ctx, sp.ID), apperr.ErrNotFound))
}
