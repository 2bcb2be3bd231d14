// Package cycle holds the reference figures of each production cycle.
package cycle

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Entry is the standard figure set of a cycle (all per hectare).
type Entry struct {
	Cycle                int     `json:"cycle" yaml:"cycle"`
	Name                 string  `json:"name" yaml:"name"`
	ExpectedProductivity float64 `json:"expected_productivity" yaml:"expected_productivity"` // t/ha
	StandardRevenue      float64 `json:"standard_revenue" yaml:"standard_revenue"`
	StandardCosts        float64 `json:"standard_costs" yaml:"standard_costs"`
}

type Table struct {
	rows map[int]Entry
}

var defaults = []Entry{
	{0, "Plantio Novo", 0, 0, 365.38},
	{1, "Primeiro Corte", 110, 19774.02, 1984.43},
	{2, "Segundo Corte", 100, 17976.38, 1759.43},
	{3, "Terceiro Corte", 90, 16178.75, 1674.44},
	{4, "Quarto Corte", 85, 15279.93, 3734.20},
	{5, "Quinto Corte", 80, 14381.11, 0},
}

// Default returns the built-in table for cycles 0..5.
func Default() *Table {
	t := &Table{rows: make(map[int]Entry, len(defaults))}
	for _, e := range defaults {
		t.rows[e.Cycle] = e
	}
	return t
}

func (t *Table) Lookup(c int) (Entry, bool) {
	e, ok := t.rows[c]
	return e, ok
}

// Name falls back to "Ciclo N" for cycles outside the table.
func (t *Table) Name(c int) string {
	if e, ok := t.rows[c]; ok && e.Name != "" {
		return e.Name
	}
	return fmt.Sprintf("Ciclo %d", c)
}

// All returns the entries ordered by cycle.
func (t *Table) All() []Entry {
	out := make([]Entry, 0, len(t.rows))
	for _, e := range t.rows {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Cycle < out[j].Cycle })
	return out
}

// LoadFromFile starts from the default table and overrides rows read from a
// CSV or XLSX file. An empty path returns the defaults.
func LoadFromFile(path string) (*Table, error) {
	t := Default()
	if path == "" {
		return t, nil
	}
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readCSV(path)
	case ".xlsx":
		rows, err = readXLSX(path)
	default:
		return nil, fmt.Errorf("cycle table %s: unsupported extension", path)
	}
	if err != nil {
		return nil, fmt.Errorf("cycle table %s: %w", path, err)
	}
	if err := t.apply(rows); err != nil {
		return nil, fmt.Errorf("cycle table %s: %w", path, err)
	}
	return t, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	var rows [][]string
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func readXLSX(path string) ([][]string, error) {
	x, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer x.Close()
	sheets := x.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	return x.GetRows(sheets[0])
}

func norm(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "\uFEFF") // BOM
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "_", "")
	return s
}

func (t *Table) apply(rows [][]string) error {
	if len(rows) == 0 {
		return errors.New("empty file")
	}
	head := rows[0]
	hmap := map[string]int{}
	for i, h := range head {
		hmap[norm(h)] = i
	}
	findAny := func(keys ...string) int {
		for _, k := range keys {
			if idx, ok := hmap[norm(k)]; ok {
				return idx
			}
		}
		return -1
	}

	cCycle := findAny("cycle", "ciclo", "cut", "corte")
	cName := findAny("name", "nome", "label")
	cProd := findAny("expected_productivity", "productivity", "produtividade", "tha", "t_ha")
	cRev := findAny("standard_revenue", "revenue", "receita")
	cCost := findAny("standard_costs", "costs", "cost", "custos", "custo")
	if cCycle == -1 {
		return fmt.Errorf("missing cycle column. Found headers: %v", head)
	}

	for _, rec := range rows[1:] {
		get := func(idx int) string {
			if idx < 0 || idx >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[idx])
		}
		c, err := strconv.Atoi(get(cCycle))
		if err != nil || c < 0 {
			continue // skip invalid rows
		}
		e, ok := t.rows[c]
		if !ok {
			e = Entry{Cycle: c}
		}
		if v := get(cName); v != "" {
			e.Name = v
		}
		num := func(idx int, dst *float64) {
			if v, err := strconv.ParseFloat(strings.ReplaceAll(get(idx), ",", "."), 64); err == nil && v >= 0 {
				*dst = v
			}
		}
		num(cProd, &e.ExpectedProductivity)
		num(cRev, &e.StandardRevenue)
		num(cCost, &e.StandardCosts)
		t.rows[c] = e
	}
	return nil
}
