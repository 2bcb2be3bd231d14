package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"canefarm/database"
	"canefarm/entities"
	"canefarm/internal/testdb"
	"canefarm/pkg/cycle"
)

func TestOpenDrivers(t *testing.T) {
	s, err := database.Open("memory", "", nil)
	require.NoError(t, err)
	assert.Equal(t, database.DriverMemory, s.Driver())
	require.NoError(t, s.Ping(context.Background()))
	require.NoError(t, s.Close())

	path := filepath.Join(t.TempDir(), "farm.db")
	s, err = database.Open("", path, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, database.DriverSQLite, s.Driver())
	require.NoError(t, s.Ping(context.Background()))
	require.NoError(t, s.Close())

	_, err = database.Open("postgres", "", nil)
	assert.ErrorContains(t, err, "unknown storage driver")
}

func TestMigrateSeedsDefaultCategories(t *testing.T) {
	s := testdb.New(t)
	ctx := context.Background()

	var cats []entities.Category
	require.NoError(t, s.DB(ctx).Order("cycle").Find(&cats).Error)
	require.Len(t, cats, 6)
	assert.Equal(t, "Plantio Novo", cats[0].Name)
	assert.InDelta(t, 3734.20, cats[4].StandardCosts, 1e-9)

	// running again creates nothing new
	require.NoError(t, database.Migrate(ctx, s, cycle.Default(), true, zap.NewNop()))
	var n int64
	require.NoError(t, s.DB(ctx).Model(&entities.Category{}).Count(&n).Error)
	assert.EqualValues(t, 6, n)
}

func TestTransactionRollsBack(t *testing.T) {
	s := testdb.Empty(t)
	ctx := context.Background()

	err := s.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&entities.Plot{Number: 1, Area: 2, PlantingDate: "2024-01-01"}).Error; err != nil {
			return err
		}
		// duplicate number violates the unique index
		return tx.Create(&entities.Plot{Number: 1, Area: 3, PlantingDate: "2024-01-01"}).Error
	})
	require.Error(t, err)

	var n int64
	require.NoError(t, s.DB(ctx).Model(&entities.Plot{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestLegacyCurrentCycleMigration(t *testing.T) {
	s, err := database.Open(database.DriverMemory, "", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()
	db := s.DB(ctx)

	require.NoError(t, db.Exec(`CREATE TABLE plots (
    id TEXT PRIMARY KEY,
    number INTEGER,
    name TEXT,
    area REAL NOT NULL,
    current_cycle INTEGER DEFAULT 0,
    planting_date TEXT,
    last_harvest_date TEXT,
    status TEXT,
    coordinates TEXT,
    soil_type TEXT,
    notes TEXT,
    created_at DATETIME,
    updated_at DATETIME
)`).Error)
	require.NoError(t, db.Exec(`CREATE INDEX idx_plots_cycle ON plots(current_cycle)`).Error)
	require.NoError(t, db.Exec(`INSERT INTO plots (id, number, area, current_cycle, planting_date, status)
VALUES ('p1', 1, 2.5, 3, '2021-08-15', 'active'), ('p2', 2, 7, 0, '2024-08-15', 'new'), ('p3', 3, 4, 7, '2017-08-15', 'active')`).Error)

	require.NoError(t, database.Migrate(ctx, s, cycle.Default(), true, zap.NewNop()))

	assert.False(t, db.Migrator().HasColumn(&entities.Plot{}, "current_cycle"))

	type row struct {
		PlotID string
		Cycle  int
	}
	var rows []row
	require.NoError(t, db.Raw(`SELECT pc.plot_id, c.cycle FROM plot_categories pc
JOIN categories c ON c.id = pc.category_id WHERE pc.is_active = 1 ORDER BY pc.plot_id`).Scan(&rows).Error)
	assert.Equal(t, []row{{"p1", 3}, {"p2", 0}, {"p3", 7}}, rows)

	// cycle 7 had no default category; one was created with the fallback name
	var c7 entities.Category
	require.NoError(t, db.Where("cycle = ?", 7).First(&c7).Error)
	assert.Equal(t, "Ciclo 7", c7.Name)

	var p entities.Plot
	require.NoError(t, db.First(&p, "id = ?", "p1").Error)
	assert.InDelta(t, 2.5, p.Area, 1e-9)
	assert.Equal(t, "2021-08-15", p.PlantingDate)
}

func TestSeedFixture(t *testing.T) {
	s := testdb.New(t)
	ctx := context.Background()
	f, err := database.SampleFixture()
	require.NoError(t, err)
	require.Len(t, f.Plots, 19)

	rep, err := database.SeedFixture(ctx, s, cycle.Default(), f)
	require.NoError(t, err)
	assert.Equal(t, 19, rep.Plots)
	assert.Equal(t, 19, rep.Links)
	assert.Equal(t, len(f.Products), rep.Products)

	// idempotent
	rep, err = database.SeedFixture(ctx, s, cycle.Default(), f)
	require.NoError(t, err)
	assert.Equal(t, database.SeedReport{}, rep)

	next, err := database.NextPlotNumber(s.DB(ctx))
	require.NoError(t, err)
	assert.Equal(t, 20, next)
}

func TestSeedFixtureRejectsBadRows(t *testing.T) {
	s := testdb.New(t)
	f, err := database.ParseFixture([]byte(`
categories:
  - {cycle: 2, name: Irrigado, expected_productivity: 120}
plots:
  - {number: 1, area: 3, status: active, planting_date: "2024-01-01"}
  - {number: 2, area: 0, planting_date: "2024-01-01"}
`))
	require.NoError(t, err)
	_, err = database.SeedFixture(context.Background(), s, cycle.Default(), f)
	require.Error(t, err)

	var n int64
	require.NoError(t, s.DB(context.Background()).Model(&entities.Plot{}).Count(&n).Error)
	assert.Zero(t, n, "failed seed leaves nothing behind")
	require.NoError(t, s.DB(context.Background()).Model(&entities.Category{}).Where("name = ?", "Irrigado").Count(&n).Error)
	assert.Zero(t, n)
}
