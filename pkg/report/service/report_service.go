package service

import (
	"context"
	"io"
)

type ReportService interface {
	Plots(ctx context.Context, w io.Writer) error
	// SafraCashFlow exports the stored projection of a safra.
	SafraCashFlow(ctx context.Context, safraID string, w io.Writer) error
	// CashFlow exports a projection that is not stored.
	CashFlow(w io.Writer, balance, monthlyRevenue, monthlyExpenses float64, months int) error
}
