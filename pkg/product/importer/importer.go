// Package importer turns supplier spreadsheets and registry HTML tables into
// catalog products.
package importer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/xuri/excelize/v2"

	"canefarm/entities"
)

const (
	FormatXLSX = "xlsx"
	FormatHTML = "html"

	maxPageBytes = 4 << 20
)

// RowError reports a skipped input row (1-based, header is row 1).
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type Result struct {
	Products []entities.Product `json:"products"`
	Skipped  []RowError         `json:"skipped"`
}

// Parse dispatches on format.
func Parse(format string, r io.Reader) (Result, error) {
	switch strings.ToLower(format) {
	case FormatXLSX:
		return ParseXLSX(r)
	case FormatHTML:
		return ParseHTML(r)
	}
	return Result{}, fmt.Errorf("unsupported import format %q", format)
}

// ParseXLSX reads the first sheet of a workbook.
func ParseXLSX(r io.Reader) (Result, error) {
	x, err := excelize.OpenReader(r)
	if err != nil {
		return Result{}, fmt.Errorf("open workbook: %w", err)
	}
	defer x.Close()
	sheets := x.GetSheetList()
	if len(sheets) == 0 {
		return Result{}, errors.New("workbook has no sheets")
	}
	rows, err := x.GetRows(sheets[0])
	if err != nil {
		return Result{}, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return fromRows(rows)
}

// ParseHTML reads the first <table> of the page. The header comes from <th>
// cells, or the first row when the table has none.
func ParseHTML(r io.Reader) (Result, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Result{}, fmt.Errorf("parse html: %w", err)
	}
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return Result{}, errors.New("no table found")
	}
	var rows [][]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("th,td").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, strings.Join(strings.Fields(td.Text()), " "))
		})
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	})
	return fromRows(rows)
}

// FetchHTML downloads a registry page and parses its product table.
func FetchHTML(client *http.Client, url string) (Result, error) {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	resp, err := client.Get(url)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
	if resp.ContentLength > maxPageBytes {
		return Result{}, errors.New("page too large")
	}
	ct := strings.ToLower(resp.Header.Get("Content-Type"))
	if ct != "" && !strings.Contains(ct, "text/html") {
		return Result{}, fmt.Errorf("unsupported content-type: %s", ct)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return Result{}, err
	}
	return ParseHTML(bytes.NewReader(b))
}

func norm(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "\uFEFF") // BOM
	s = strings.ToLower(s)
	for _, r := range []string{" ", "-", "_", ".", "(", ")", "/"} {
		s = strings.ReplaceAll(s, r, "")
	}
	return s
}

// header aliases, English and Portuguese
var aliases = map[string][]string{
	"name":                {"name", "nome", "produto", "product", "nomecomercial"},
	"brand":               {"brand", "marca"},
	"category":            {"category", "categoria"},
	"type":                {"type", "tipo"},
	"registration_number": {"registration_number", "registro", "registromapa", "numeroregistro"},
	"mapa_classification": {"mapa_classification", "classificacao", "classificação"},
	"active_ingredient":   {"active_ingredient", "ingredienteativo", "principioativo", "princípioativo"},
	"concentration":       {"concentration", "concentracao", "concentração"},
	"formulation_type":    {"formulation_type", "formulacao", "formulação"},
	"toxic_class":         {"toxic_class", "classetoxicologica", "classetoxicológica"},
	"environmental_class": {"environmental_class", "classeambiental"},
	"withdrawal_period":   {"withdrawal_period", "carencia", "carência", "intervalodesegurança", "intervalodeseguranca"},
	"reentry_period":      {"reentry_period", "reentrada", "intervaloreentrada"},
	"target_crops":        {"target_crops", "culturas", "cultura"},
	"target_pests":        {"target_pests", "pragas", "alvos"},
	"unit_of_measure":     {"unit_of_measure", "unit", "unidade"},
	"cost_per_unit":       {"cost_per_unit", "cost", "price", "preco", "preço", "custo"},
	"supplier":            {"supplier", "fornecedor"},
	"manufacturer":        {"manufacturer", "fabricante", "titular"},
	"description":         {"description", "descricao", "descrição"},
}

func fromRows(rows [][]string) (Result, error) {
	res := Result{Products: []entities.Product{}, Skipped: []RowError{}}
	if len(rows) == 0 {
		return res, errors.New("empty table")
	}
	hmap := map[string]int{}
	for i, h := range rows[0] {
		hmap[norm(h)] = i
	}
	col := map[string]int{}
	for key, names := range aliases {
		col[key] = -1
		for _, n := range names {
			if idx, ok := hmap[norm(n)]; ok {
				col[key] = idx
				break
			}
		}
	}
	if col["name"] == -1 {
		return res, fmt.Errorf("missing name column. Found headers: %v", rows[0])
	}

	for i, rec := range rows[1:] {
		get := func(key string) string {
			idx := col[key]
			if idx < 0 || idx >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[idx])
		}
		opt := func(key string) *string {
			if v := get(key); v != "" {
				return &v
			}
			return nil
		}
		// "30 dias" -> 30
		optInt := func(key string) *int {
			f := strings.Fields(get(key))
			if len(f) == 0 {
				return nil
			}
			if v, err := strconv.Atoi(f[0]); err == nil {
				return &v
			}
			return nil
		}

		name := get("name")
		if name == "" {
			res.Skipped = append(res.Skipped, RowError{Row: i + 2, Reason: "empty name"})
			continue
		}
		p := entities.Product{
			Name:               name,
			Brand:              get("brand"),
			Category:           strings.ToLower(get("category")),
			Type:               strings.ToLower(get("type")),
			RegistrationNumber: opt("registration_number"),
			MapaClassification: opt("mapa_classification"),
			ActiveIngredient:   opt("active_ingredient"),
			Concentration:      opt("concentration"),
			FormulationType:    opt("formulation_type"),
			ToxicClass:         opt("toxic_class"),
			EnvironmentalClass: opt("environmental_class"),
			WithdrawalPeriod:   optInt("withdrawal_period"),
			ReentryPeriod:      optInt("reentry_period"),
			TargetCrops:        splitList(get("target_crops")),
			TargetPests:        splitList(get("target_pests")),
			UnitOfMeasure:      get("unit_of_measure"),
			Supplier:           opt("supplier"),
			Manufacturer:       opt("manufacturer"),
			Description:        opt("description"),
			IsActive:           true,
		}
		if raw := get("cost_per_unit"); raw != "" {
			v, err := parseMoney(raw)
			if err != nil || v < 0 {
				res.Skipped = append(res.Skipped, RowError{Row: i + 2, Reason: fmt.Sprintf("invalid cost %q", raw)})
				continue
			}
			p.CostPerUnit = v
		}
		res.Products = append(res.Products, p)
	}
	return res, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == ',' || r == '|' }) {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// parseMoney accepts "12.50", "12,50", "R$ 1.234,56".
func parseMoney(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	return strconv.ParseFloat(s, 64)
}
