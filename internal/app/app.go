// Package app wires stores, services and controllers for the server and CLI.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"canefarm/config"
	"canefarm/database"
	"canefarm/pkg/cycle"
	"canefarm/pkg/metrics"
	"canefarm/router"

	analysisCtrlImp "canefarm/pkg/analysis/controllerImp"
	analysisSvc "canefarm/pkg/analysis/service"
	analysisSvcImp "canefarm/pkg/analysis/serviceImp"

	authCtrlImp "canefarm/pkg/auth/controllerImp"

	categoryCtrlImp "canefarm/pkg/category/controllerImp"
	categoryRepoImp "canefarm/pkg/category/repositoryImp"
	categorySvc "canefarm/pkg/category/service"
	categorySvcImp "canefarm/pkg/category/serviceImp"

	financeCtrlImp "canefarm/pkg/finance/controllerImp"
	financeRepoImp "canefarm/pkg/finance/repositoryImp"
	financeSvc "canefarm/pkg/finance/service"
	financeSvcImp "canefarm/pkg/finance/serviceImp"

	healthCtrlImp "canefarm/pkg/health/controllerImp"

	plotCtrlImp "canefarm/pkg/plot/controllerImp"
	plotRepo "canefarm/pkg/plot/repository"
	plotRepoImp "canefarm/pkg/plot/repositoryImp"
	plotSvc "canefarm/pkg/plot/service"
	plotSvcImp "canefarm/pkg/plot/serviceImp"

	productCtrlImp "canefarm/pkg/product/controllerImp"
	productRepoImp "canefarm/pkg/product/repositoryImp"
	productSvc "canefarm/pkg/product/service"
	productSvcImp "canefarm/pkg/product/serviceImp"

	productionCtrlImp "canefarm/pkg/production/controllerImp"
	productionRepoImp "canefarm/pkg/production/repositoryImp"
	productionSvc "canefarm/pkg/production/service"
	productionSvcImp "canefarm/pkg/production/serviceImp"

	reportCtrlImp "canefarm/pkg/report/controllerImp"
	reportSvc "canefarm/pkg/report/service"
	reportSvcImp "canefarm/pkg/report/serviceImp"

	soilCtrlImp "canefarm/pkg/soilprep/controllerImp"
	soilRepoImp "canefarm/pkg/soilprep/repositoryImp"
	soilSvc "canefarm/pkg/soilprep/service"
	soilSvcImp "canefarm/pkg/soilprep/serviceImp"
)

type App struct {
	Cfg     config.AppConfig
	Log     *zap.Logger
	Store   database.Store
	Table   *cycle.Table
	Metrics *metrics.Metrics

	PlotRepo    plotRepo.PlotRepository
	Plots       plotSvc.PlotService
	Categories  categorySvc.CategoryService
	Products    productSvc.ProductService
	SoilPreps   soilSvc.SoilPrepService
	Productions productionSvc.ProductionService
	Finance     financeSvc.FinanceService
	Analysis    analysisSvc.AnalysisService
	Reports     reportSvc.ReportService
}

// Open loads the cycle table, opens and migrates the store and builds every
// service. A configured seed file is applied after migration.
func Open(ctx context.Context, cfg config.AppConfig, log *zap.Logger) (*App, error) {
	table := cycle.Default()
	if cfg.CycleTable != "" {
		t, err := cycle.LoadFromFile(cfg.CycleTable)
		if err != nil {
			return nil, err
		}
		table = t
		log.Info("cycle table loaded", zap.String("path", cfg.CycleTable))
	}

	store, err := database.Open(cfg.StorageDriver, cfg.DBPath, log)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, store, table, cfg.SeedDefaults, log); err != nil {
		store.Close()
		return nil, err
	}
	if cfg.SeedFile != "" {
		f, err := database.LoadFixture(cfg.SeedFile)
		if err != nil {
			store.Close()
			return nil, err
		}
		rep, err := database.SeedFixture(ctx, store, table, f)
		if err != nil {
			store.Close()
			return nil, err
		}
		log.Info("seed applied", zap.String("file", cfg.SeedFile),
			zap.Int("plots", rep.Plots), zap.Int("categories", rep.Categories), zap.Int("products", rep.Products))
	}
	return build(cfg, log, store, table), nil
}

func build(cfg config.AppConfig, log *zap.Logger, store database.Store, table *cycle.Table) *App {
	a := &App{Cfg: cfg, Log: log, Store: store, Table: table, Metrics: metrics.New()}

	plots := plotRepoImp.New(store)
	categories := categoryRepoImp.New(store)
	products := productRepoImp.New(store)
	soil := soilRepoImp.New(store)
	productions := productionRepoImp.New(store)
	finance := financeRepoImp.New(store)

	a.PlotRepo = plots
	a.Categories = categorySvcImp.NewCategoryService(categories, plots, soil, table, a.Metrics, log.Named("category"))
	a.Plots = plotSvcImp.NewPlotService(plots, a.Categories, log.Named("plot"))
	a.Products = productSvcImp.NewProductService(products, &http.Client{Timeout: 20 * time.Second}, log.Named("product"))
	a.SoilPreps = soilSvcImp.NewSoilPrepService(soil, products, log.Named("soilprep"))
	a.Productions = productionSvcImp.NewProductionService(productions, plots, a.Categories, table, cfg.PricePerKgATR, log.Named("production"))
	a.Finance = financeSvcImp.NewFinanceService(finance, plots, productions, cfg.PricePerKgATR, log.Named("finance"))
	a.Analysis = analysisSvcImp.NewAnalysisService(plots, a.Categories, table, cfg.PricePerKgATR, log.Named("analysis"))
	a.Reports = reportSvcImp.NewReportService(plots, a.Categories, a.Finance, table)
	return a
}

// Router registers every route on a fresh echo instance.
func (a *App) Router() *echo.Echo {
	return router.New(echo.New(), router.Controllers{
		Health:     healthCtrlImp.NewHealthCtrl(a.Store),
		Auth:       authCtrlImp.NewAuthController(),
		Plot:       plotCtrlImp.New(a.Plots),
		Category:   categoryCtrlImp.New(a.Categories),
		Product:    productCtrlImp.New(a.Products),
		SoilPrep:   soilCtrlImp.New(a.SoilPreps),
		Production: productionCtrlImp.New(a.Productions),
		Finance:    financeCtrlImp.New(a.Finance),
		Analysis:   analysisCtrlImp.New(a.Analysis),
		Report:     reportCtrlImp.New(a.Reports),
	}, router.Options{
		RequireOperator: a.Cfg.RequireOperator,
		Metrics:         a.Metrics,
		Log:             a.Log.Named("http"),
	})
}

func (a *App) Close() error {
	_ = a.Log.Sync()
	return a.Store.Close()
}
