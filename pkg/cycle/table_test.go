package cycle

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDefaultTable(t *testing.T) {
	tb := Default()
	all := tb.All()
	require.Len(t, all, 6)
	for i, e := range all {
		assert.Equal(t, i, e.Cycle)
	}
	e, ok := tb.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, "Primeiro Corte", e.Name)
	assert.InDelta(t, 110, e.ExpectedProductivity, 1e-9)
	assert.InDelta(t, 19774.02, e.StandardRevenue, 1e-9)

	_, ok = tb.Lookup(7)
	assert.False(t, ok)
	assert.Equal(t, "Ciclo 7", tb.Name(7))
	assert.Equal(t, "Plantio Novo", tb.Name(0))
}

func TestLoadFromCSV(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "cycles.csv")
	csv := "\uFEFFCiclo,Nome,Produtividade,Receita,Custos\n" +
		"2,Segundo Corte,105,18000,1800\n" +
		"6,Sexto Corte,75,13000,0\n" +
		"x,bad,1,1,1\n"
	require.NoError(t, os.WriteFile(p, []byte(csv), 0o644))

	tb, err := LoadFromFile(p)
	require.NoError(t, err)
	e, _ := tb.Lookup(2)
	assert.InDelta(t, 105, e.ExpectedProductivity, 1e-9)
	assert.InDelta(t, 1800, e.StandardCosts, 1e-9)
	e, ok := tb.Lookup(6)
	require.True(t, ok)
	assert.Equal(t, "Sexto Corte", e.Name)
	assert.Len(t, tb.All(), 7)
	// untouched rows keep defaults
	e, _ = tb.Lookup(1)
	assert.InDelta(t, 110, e.ExpectedProductivity, 1e-9)
}

func TestLoadFromXLSX(t *testing.T) {
	x := excelize.NewFile()
	sheet := x.GetSheetName(0)
	rows := [][]any{
		{"cycle", "expected_productivity", "standard_revenue"},
		{3, 95.5, 17000},
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, x.SetSheetRow(sheet, cell, &r))
	}
	p := filepath.Join(t.TempDir(), "cycles.xlsx")
	require.NoError(t, x.SaveAs(p))

	tb, err := LoadFromFile(p)
	require.NoError(t, err)
	e, _ := tb.Lookup(3)
	assert.InDelta(t, 95.5, e.ExpectedProductivity, 1e-9)
	assert.InDelta(t, 17000, e.StandardRevenue, 1e-9)
	assert.Equal(t, "Terceiro Corte", e.Name)
}

func TestLoadFromFileErrors(t *testing.T) {
	tb, err := LoadFromFile("")
	require.NoError(t, err)
	assert.Len(t, tb.All(), 6)

	_, err = LoadFromFile("cycles.json")
	assert.Error(t, err)

	p := filepath.Join(t.TempDir(), "nocycle.csv")
	require.NoError(t, os.WriteFile(p, []byte("name,revenue\nA,1\n"), 0o644))
	_, err = LoadFromFile(p)
	assert.ErrorContains(t, err, "missing cycle column")
}
