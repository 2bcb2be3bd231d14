package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func open(t *testing.T, b *bytes.Buffer, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(b)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{sheet}, f.GetSheetList())
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return rows
}

func TestWriteCashFlow(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, WriteCashFlow(&b, []CashFlowRow{
		{Month: "2025-11-01", Revenue: 500, Expenses: 700, Balance: 800},
		{Month: "2025-12-01", Revenue: 500, Expenses: 700, Balance: 600},
	}))

	rows := open(t, &b, SheetCashFlow)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Mês", "Receita", "Despesas", "Saldo"}, rows[0])
	assert.Equal(t, "2025-12-01", rows[2][0])
}

func TestWritePlotsEmpty(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, WritePlots(&b, nil))
	rows := open(t, &b, SheetPlots)
	require.Len(t, rows, 1)
	assert.Len(t, rows[0], 8)
}

func TestWritePlots(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, WritePlots(&b, []PlotRow{
		{Number: 1, Name: "Baixada", Area: 12.5, Status: "active", Cycle: 2, CycleName: "Segundo Corte", Category: "Segundo Corte", PlantingDate: "2021-03-01"},
	}))
	rows := open(t, &b, SheetPlots)
	require.Len(t, rows, 2)
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "Baixada", rows[1][1])
	assert.Equal(t, "12.5", rows[1][2])
	assert.Equal(t, "Segundo Corte", rows[1][6])
}
