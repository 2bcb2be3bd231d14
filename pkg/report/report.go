// Package report renders farm data as XLSX workbooks.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	SheetCashFlow = "Fluxo de Caixa"
	SheetPlots    = "Talhões"
	ContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type CashFlowRow struct {
	Month    string
	Revenue  float64
	Expenses float64
	Balance  float64
}

type PlotRow struct {
	Number       int
	Name         string
	Area         float64
	Status       string
	Cycle        int
	CycleName    string
	Category     string
	PlantingDate string
}

type sheet struct {
	name   string
	header []any
	rows   [][]any
	// money columns, 1-based
	money []int
}

func build(s sheet) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), s.name); err != nil {
		f.Close()
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetSheetRow(s.name, "A1", &s.header); err != nil {
		f.Close()
		return nil, err
	}
	last, _ := excelize.ColumnNumberToName(len(s.header))
	_ = f.SetCellStyle(s.name, "A1", last+"1", bold)
	_ = f.SetColWidth(s.name, "A", last, 16)

	for i, r := range s.rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(s.name, cell, &r); err != nil {
			f.Close()
			return nil, err
		}
	}
	if len(s.rows) > 0 {
		for _, col := range s.money {
			name, _ := excelize.ColumnNumberToName(col)
			_ = f.SetCellStyle(s.name, name+"2", fmt.Sprintf("%s%d", name, len(s.rows)+1), money)
		}
	}
	return f, nil
}

func write(w io.Writer, s sheet) error {
	f, err := build(s)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// WriteCashFlow writes one row per projected month.
func WriteCashFlow(w io.Writer, rows []CashFlowRow) error {
	s := sheet{
		name:   SheetCashFlow,
		header: []any{"Mês", "Receita", "Despesas", "Saldo"},
		money:  []int{2, 3, 4},
	}
	for _, r := range rows {
		s.rows = append(s.rows, []any{r.Month, r.Revenue, r.Expenses, r.Balance})
	}
	return write(w, s)
}

// WritePlots writes the plot register with each plot's category.
func WritePlots(w io.Writer, rows []PlotRow) error {
	s := sheet{
		name:   SheetPlots,
		header: []any{"Número", "Nome", "Área (ha)", "Status", "Ciclo", "Nome do Ciclo", "Categoria", "Plantio"},
	}
	for _, r := range rows {
		s.rows = append(s.rows, []any{r.Number, r.Name, r.Area, r.Status, r.Cycle, r.CycleName, r.Category, r.PlantingDate})
	}
	return write(w, s)
}
