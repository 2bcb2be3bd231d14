package router

import (
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	analysis "canefarm/pkg/analysis/controller"
	auth "canefarm/pkg/auth/controller"
	category "canefarm/pkg/category/controller"
	finance "canefarm/pkg/finance/controller"
	"canefarm/pkg/httpx"
	"canefarm/pkg/metrics"
	"canefarm/pkg/middleware"
	plot "canefarm/pkg/plot/controller"
	product "canefarm/pkg/product/controller"
	production "canefarm/pkg/production/controller"
	report "canefarm/pkg/report/controller"
	soilprep "canefarm/pkg/soilprep/controller"
)

type Controllers struct {
	Health     interface{ Health(echo.Context) error }
	Auth       auth.AuthController
	Plot       plot.PlotController
	Category   category.CategoryController
	Product    product.ProductController
	SoilPrep   soilprep.SoilPrepController
	Production production.ProductionController
	Finance    finance.FinanceController
	Analysis   analysis.AnalysisController
	Report     report.ReportController
}

type Options struct {
	RequireOperator bool
	Metrics         *metrics.Metrics
	Log             *zap.Logger
}

func requestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogURI:      true,
		LogMethod:   true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
				zap.String("operator", middleware.Operator(c)),
			}
			if v.Error != nil {
				log.Error("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			log.Info("request", fields...)
			return nil
		},
	})
}

func New(e *echo.Echo, h Controllers, opt Options) *echo.Echo {
	log := opt.Log
	if log == nil {
		log = zap.NewNop()
	}
	e.HideBanner = true
	e.Validator = httpx.NewValidator()
	e.Use(echoMiddleware.Recover())
	if opt.Metrics != nil {
		e.Use(opt.Metrics.Middleware())
		e.GET("/metrics", opt.Metrics.Handler())
	}
	e.Use(middleware.Operators())
	e.Use(requestLogger(log))

	e.GET("/health", h.Health.Health)
	e.GET("/whoami", h.Auth.WhoAmI)
	e.GET("/operator", h.Auth.SetOperator)

	api := e.Group("/api/v1", middleware.RequireOperator(opt.RequireOperator))

	api.POST("/plots", h.Plot.Create)
	api.GET("/plots", h.Plot.List)
	api.GET("/plots/unassigned", h.Plot.Unassigned)
	api.GET("/plots/:id", h.Plot.Get)
	api.PATCH("/plots/:id", h.Plot.Patch)
	api.DELETE("/plots/:id", h.Plot.Delete)

	api.POST("/categories", h.Category.Create)
	api.GET("/categories", h.Category.List)
	api.GET("/categories/summary", h.Category.Summary)
	api.GET("/categories/:id", h.Category.Get)
	api.PATCH("/categories/:id", h.Category.Patch)
	api.DELETE("/categories/:id", h.Category.Delete)
	api.PUT("/categories/:id/plots", h.Category.AssignPlots)
	api.POST("/categories/:id/conflicts", h.Category.Conflicts)
	api.PUT("/categories/:id/soil-preparations", h.Category.AssignSoilPreparations)
	api.GET("/categories/:id/history", h.Category.History)

	api.POST("/products", h.Product.Create)
	api.GET("/products", h.Product.List)
	api.POST("/products/import", h.Product.Import)
	api.GET("/products/:id", h.Product.Get)
	api.PUT("/products/:id", h.Product.Replace)
	api.DELETE("/products/:id", h.Product.Delete)

	api.POST("/soil-preparations", h.SoilPrep.Create)
	api.GET("/soil-preparations", h.SoilPrep.List)
	api.GET("/soil-preparations/:id", h.SoilPrep.Get)
	api.PATCH("/soil-preparations/:id", h.SoilPrep.Patch)
	api.PUT("/soil-preparations/:id/actions", h.SoilPrep.ReplaceActions)
	api.DELETE("/soil-preparations/:id", h.SoilPrep.Delete)

	api.POST("/productions", h.Production.Create)
	api.GET("/productions", h.Production.List)
	api.GET("/productions/summary", h.Production.Summary)
	api.GET("/productions/efficiency", h.Production.Efficiency)
	api.GET("/productions/:id", h.Production.Get)
	api.PATCH("/productions/:id", h.Production.Patch)
	api.DELETE("/productions/:id", h.Production.Delete)

	api.POST("/atr-payments", h.Finance.CreatePayment)
	api.GET("/atr-payments", h.Finance.ListPayments)
	api.DELETE("/atr-payments/:id", h.Finance.DeletePayment)

	api.POST("/safras", h.Finance.CreateSafra)
	api.GET("/safras", h.Finance.ListSafras)
	api.GET("/safras/:id", h.Finance.GetSafra)
	api.PATCH("/safras/:id", h.Finance.PatchSafra)
	api.DELETE("/safras/:id", h.Finance.DeleteSafra)
	api.POST("/safras/:id/cashflow", h.Finance.ProjectCashFlow)
	api.GET("/safras/:id/cashflow", h.Finance.CashFlow)

	api.POST("/input-applications", h.Finance.CreateInput)
	api.GET("/input-applications", h.Finance.ListInputs)
	api.GET("/input-applications/cost-analysis", h.Finance.CostAnalysis)
	api.DELETE("/input-applications/:id", h.Finance.DeleteInput)

	api.GET("/analysis/dashboard", h.Analysis.Dashboard)
	api.GET("/analysis/consolidation", h.Analysis.Consolidation)
	api.GET("/analysis/reform-priority", h.Analysis.ReformPriority)
	api.GET("/analysis/plots/:id/roi", h.Analysis.PlotROI)
	api.GET("/analysis/optimal-plot-size", h.Analysis.OptimalPlotSize)

	api.POST("/calculators/roi", h.Analysis.ROI)
	api.POST("/calculators/break-even", h.Analysis.BreakEven)
	api.POST("/calculators/cashflow", h.Analysis.CashFlow)

	api.GET("/reports/plots.xlsx", h.Report.Plots)
	api.GET("/reports/cashflow.xlsx", h.Report.CashFlow)
	api.GET("/reports/safras/:id/cashflow.xlsx", h.Report.SafraCashFlow)
	return e
}
