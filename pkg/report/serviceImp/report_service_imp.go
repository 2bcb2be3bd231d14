package serviceImp

import (
	"context"
	"fmt"
	"io"

	"canefarm/entities"
	"canefarm/pkg/calc"
	"canefarm/pkg/cycle"
	"canefarm/pkg/report"
	"canefarm/pkg/report/service"
)

type Plots interface {
	List(ctx context.Context, status string) ([]entities.Plot, error)
}

type Assignments interface {
	ActiveByPlot(ctx context.Context) (map[string]entities.Assignment, error)
}

type CashFlows interface {
	CashFlow(ctx context.Context, safraID string) ([]entities.CashFlowEntry, error)
}

type reportSvc struct {
	plots  Plots
	assign Assignments
	flows  CashFlows
	table  *cycle.Table
}

func NewReportService(plots Plots, assign Assignments, flows CashFlows, table *cycle.Table) service.ReportService {
	return &reportSvc{plots: plots, assign: assign, flows: flows, table: table}
}

func (s *reportSvc) Plots(ctx context.Context, w io.Writer) error {
	plots, err := s.plots.List(ctx, "")
	if err != nil {
		return err
	}
	as, err := s.assign.ActiveByPlot(ctx)
	if err != nil {
		return err
	}
	rows := make([]report.PlotRow, 0, len(plots))
	for _, p := range plots {
		r := report.PlotRow{Number: p.Number, Area: p.Area, Status: p.Status, PlantingDate: p.PlantingDate}
		if p.Name != nil {
			r.Name = *p.Name
		}
		if a, ok := as[p.ID]; ok {
			r.Cycle = a.Cycle
			r.Category = a.CategoryName
		}
		r.CycleName = s.table.Name(r.Cycle)
		rows = append(rows, r)
	}
	return report.WritePlots(w, rows)
}

func (s *reportSvc) SafraCashFlow(ctx context.Context, safraID string, w io.Writer) error {
	entries, err := s.flows.CashFlow(ctx, safraID)
	if err != nil {
		return err
	}
	rows := make([]report.CashFlowRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, report.CashFlowRow{Month: e.Month, Revenue: e.Revenue, Expenses: e.Expenses, Balance: e.Balance})
	}
	return report.WriteCashFlow(w, rows)
}

func (s *reportSvc) CashFlow(w io.Writer, balance, monthlyRevenue, monthlyExpenses float64, months int) error {
	proj := calc.CashFlowProjection(balance, monthlyRevenue, monthlyExpenses, months)
	rows := make([]report.CashFlowRow, 0, len(proj))
	for _, m := range proj {
		rows = append(rows, report.CashFlowRow{
			Month:    fmt.Sprintf("Mês %d", m.Month),
			Revenue:  m.Revenue,
			Expenses: m.Expenses,
			Balance:  m.Balance,
		})
	}
	return report.WriteCashFlow(w, rows)
}
