package importer

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const registryPage = `<html><body>
<h1>Produtos registrados</h1>
<table>
  <tr><th>Produto</th><th>Marca</th><th>Categoria</th><th>Ingrediente Ativo</th><th>Classe Toxicológica</th><th>Carência</th><th>Culturas</th><th>Preço</th></tr>
  <tr><td>Velpar K</td><td>FMC</td><td>Herbicide</td><td>Hexazinona + Diurom</td><td>III</td><td>120 dias</td><td>cana; café</td><td>R$ 1.234,50</td></tr>
  <tr><td> </td><td>X</td><td></td><td></td><td></td><td></td><td></td><td>1</td></tr>
  <tr><td>Regent 800 WG</td><td>BASF</td><td>pesticide</td><td>Fipronil</td><td>II</td><td></td><td>cana</td><td>abc</td></tr>
  <tr><td>Ureia</td><td>Yara</td><td>fertilizer</td><td></td><td></td><td></td><td></td><td>3.10</td></tr>
</table>
<table><tr><td>ignored</td></tr></table>
</body></html>`

func TestParseHTML(t *testing.T) {
	res, err := ParseHTML(strings.NewReader(registryPage))
	require.NoError(t, err)
	require.Len(t, res.Products, 2)

	v := res.Products[0]
	assert.Equal(t, "Velpar K", v.Name)
	assert.Equal(t, "FMC", v.Brand)
	assert.Equal(t, "herbicide", v.Category)
	require.NotNil(t, v.ActiveIngredient)
	assert.Equal(t, "Hexazinona + Diurom", *v.ActiveIngredient)
	require.NotNil(t, v.WithdrawalPeriod)
	assert.Equal(t, 120, *v.WithdrawalPeriod)
	assert.Equal(t, []string{"cana", "café"}, v.TargetCrops)
	assert.InDelta(t, 1234.50, v.CostPerUnit, 1e-9)
	assert.True(t, v.IsActive)

	assert.InDelta(t, 3.10, res.Products[1].CostPerUnit, 1e-9)
	assert.Nil(t, res.Products[1].ActiveIngredient)

	require.Len(t, res.Skipped, 2)
	assert.Equal(t, RowError{Row: 3, Reason: "empty name"}, res.Skipped[0])
	assert.Equal(t, 4, res.Skipped[1].Row)
}

func TestParseHTMLErrors(t *testing.T) {
	_, err := ParseHTML(strings.NewReader("<p>no table here</p>"))
	assert.ErrorContains(t, err, "no table")

	_, err = ParseHTML(strings.NewReader("<table><tr><td>Marca</td></tr></table>"))
	assert.ErrorContains(t, err, "missing name column")
}

func TestParseXLSX(t *testing.T) {
	x := excelize.NewFile()
	sheet := x.GetSheetName(0)
	rows := [][]any{
		{"Nome", "Marca", "Categoria", "Unidade", "Custo", "Fornecedor"},
		{"Calcário Dolomítico", "Genérico", "soil_corrector", "t", 180, "Mineração Sul"},
		{"Gesso Agrícola", "Genérico", "soil_corrector", "t", "150,00", ""},
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, x.SetSheetRow(sheet, cell, &r))
	}
	buf, err := x.WriteToBuffer()
	require.NoError(t, err)

	res, err := Parse(FormatXLSX, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, res.Products, 2)
	assert.Equal(t, "t", res.Products[0].UnitOfMeasure)
	assert.InDelta(t, 180, res.Products[0].CostPerUnit, 1e-9)
	require.NotNil(t, res.Products[0].Supplier)
	assert.Equal(t, "Mineração Sul", *res.Products[0].Supplier)
	assert.InDelta(t, 150, res.Products[1].CostPerUnit, 1e-9)
	assert.Nil(t, res.Products[1].Supplier)
	assert.Empty(t, res.Skipped)
}

func TestParseUnknownFormat(t *testing.T) {
	_, err := Parse("pdf", strings.NewReader(""))
	assert.Error(t, err)
}

func TestFetchHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/json" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{}`))
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(registryPage))
	}))
	defer srv.Close()

	res, err := FetchHTML(srv.Client(), srv.URL+"/registry")
	require.NoError(t, err)
	assert.Len(t, res.Products, 2)

	_, err = FetchHTML(srv.Client(), srv.URL+"/json")
	assert.ErrorContains(t, err, "content-type")
}
