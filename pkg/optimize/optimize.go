// Package optimize scores plots for consolidation and reform.
//
// Adjacency is approximated by consecutive plot numbers; there is no spatial
// model behind it.
package optimize

import (
	"math"
	"sort"
	"strings"

	"canefarm/entities"
	"canefarm/pkg/calc"
)

const (
	SmallPlotArea      = 5.0
	savingsPerMerge    = 500.0
	revenuePerHectare  = 19000.0
	maxMergeCandidates = 3
	maxPlotSize        = 25
	defaultPlotSize    = 10
)

// Plot is the view of a plot the heuristics work on: its cycle is the
// category-derived one.
type Plot struct {
	ID     string  `json:"id"`
	Number int     `json:"number"`
	Area   float64 `json:"area"`
	Cycle  int     `json:"cycle"`
	Status string  `json:"status"`
}

// FromEntities pairs plots with their derived cycles (missing → 0).
func FromEntities(plots []entities.Plot, cycles map[string]int) []Plot {
	out := make([]Plot, 0, len(plots))
	for _, p := range plots {
		out = append(out, Plot{ID: p.ID, Number: p.Number, Area: p.Area, Cycle: cycles[p.ID], Status: p.Status})
	}
	return out
}

type Candidate struct {
	Plots         []Plot  `json:"plots"`
	PotentialSize float64 `json:"potential_size"`
}

func (c Candidate) hasReform() bool {
	for _, p := range c.Plots {
		if p.Status == entities.PlotReform {
			return true
		}
	}
	return false
}

func (c Candidate) hasAreaBelow(a float64) bool {
	for _, p := range c.Plots {
		if p.Area < a {
			return true
		}
	}
	return false
}

type Recommendation struct {
	PlotID          string   `json:"plot_id"`
	RecommendedSize float64  `json:"recommended_size"`
	MergeCandidates []string `json:"merge_candidates"`
	PriorityScore   int      `json:"priority_score"`
}

type Phase struct {
	Phase       int      `json:"phase"`
	Actions     []string `json:"actions"`
	Mergers     int      `json:"mergers"`
	Cost        float64  `json:"cost"`
	ExpectedROI float64  `json:"expected_roi"`
}

type Result struct {
	CurrentEfficiency  int              `json:"current_efficiency"` // % of plots >= 5 ha
	Candidates         []Candidate      `json:"candidates"`
	OptimizedStructure []Recommendation `json:"optimized_structure"`
	ProjectedSavings   float64          `json:"projected_savings"`
	ImplementationPlan []Phase          `json:"implementation_plan"`
}

// AnalyzeConsolidation runs the full consolidation analysis over plots.
func AnalyzeConsolidation(plots []Plot) Result {
	var small []Plot
	for _, p := range plots {
		if p.Area < SmallPlotArea {
			small = append(small, p)
		}
	}
	cands := AdjacentPairs(small)
	return Result{
		CurrentEfficiency:  CurrentEfficiency(plots),
		Candidates:         cands,
		OptimizedStructure: OptimizedStructure(plots),
		ProjectedSavings:   ConsolidationSavings(cands),
		ImplementationPlan: ImplementationPlan(cands),
	}
}

// AdjacentPairs pairs plots whose numbers differ by exactly one.
func AdjacentPairs(plots []Plot) []Candidate {
	out := []Candidate{}
	for i := 0; i < len(plots)-1; i++ {
		for j := i + 1; j < len(plots); j++ {
			a, b := plots[i], plots[j]
			if a.Number-b.Number == 1 || b.Number-a.Number == 1 {
				out = append(out, Candidate{Plots: []Plot{a, b}, PotentialSize: a.Area + b.Area})
			}
		}
	}
	return out
}

func ConsolidationSavings(cands []Candidate) float64 {
	var total float64
	for _, c := range cands {
		n := len(c.Plots)
		if n == 0 {
			continue
		}
		total += float64(n-1) * savingsPerMerge
		gain := 0.05
		if c.PotentialSize > 10 {
			gain = 0.1
		}
		var rev float64
		for _, p := range c.Plots {
			rev += p.Area * revenuePerHectare
		}
		total += rev / float64(n) * gain
	}
	return total
}

// CurrentEfficiency is the rounded share of plots that are not small.
func CurrentEfficiency(plots []Plot) int {
	if len(plots) == 0 {
		return 0
	}
	big := 0
	for _, p := range plots {
		if p.Area >= SmallPlotArea {
			big++
		}
	}
	return int(math.Round(float64(big) / float64(len(plots)) * 100))
}

// PriorityScore ranks a plot for consolidation: smaller, older and
// reform-bound plots score higher. Scores are additive.
func PriorityScore(p Plot) int {
	score := 0
	switch {
	case p.Area < 2:
		score += 40
	case p.Area < 3:
		score += 30
	case p.Area < 5:
		score += 20
	}
	switch {
	case p.Cycle >= 4:
		score += 30
	case p.Cycle >= 2:
		score += 20
	}
	if p.Status == entities.PlotReform {
		score += 50
	}
	return score
}

// OptimizedStructure recommends a target size and merge partners for each
// small plot, highest priority first.
func OptimizedStructure(plots []Plot) []Recommendation {
	out := []Recommendation{}
	for _, p := range plots {
		if p.Area >= SmallPlotArea {
			continue
		}
		out = append(out, Recommendation{
			PlotID:          p.ID,
			RecommendedSize: math.Max(p.Area*2, SmallPlotArea),
			MergeCandidates: mergeCandidates(p, plots),
			PriorityScore:   PriorityScore(p),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PriorityScore > out[j].PriorityScore })
	return out
}

func mergeCandidates(target Plot, all []Plot) []string {
	ids := []string{}
	for _, p := range all {
		if len(ids) == maxMergeCandidates {
			break
		}
		d := p.Number - target.Number
		if p.ID != target.ID && d >= -2 && d <= 2 && p.Area < 10 {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// ImplementationPlan splits candidates into three phases with fixed cost per
// merger and expected ROI. Empty phases are left out.
func ImplementationPlan(cands []Candidate) []Phase {
	plan := []Phase{}

	var high, medium int
	for _, c := range cands {
		if high < 3 && c.hasReform() {
			high++
		}
	}
	for _, c := range cands {
		if medium < 2 && !c.hasReform() && c.hasAreaBelow(3) {
			medium++
		}
	}

	if high > 0 {
		plan = append(plan, Phase{
			Phase:       1,
			Actions:     []string{"Consolidar talhões em reforma", "Revisar limites das propriedades", "Atualizar sistema de irrigação"},
			Mergers:     high,
			Cost:        float64(high) * 25000,
			ExpectedROI: 0.25,
		})
	}
	if medium > 0 {
		plan = append(plan, Phase{
			Phase:       2,
			Actions:     []string{"Consolidar talhões pequenos", "Otimizar rotas de colheita", "Instalar novos pontos de água"},
			Mergers:     medium,
			Cost:        float64(medium) * 20000,
			ExpectedROI: 0.18,
		})
	}
	if rest := len(cands) - high - medium; rest > 0 {
		plan = append(plan, Phase{
			Phase:       3,
			Actions:     []string{"Consolidações finais", "Otimização geral do layout", "Implementação de melhorias tecnológicas"},
			Mergers:     rest,
			Cost:        float64(rest) * 15000,
			ExpectedROI: 0.12,
		})
	}
	return plan
}

type ReformPriority struct {
	Plot     Plot    `json:"plot"`
	Priority int     `json:"priority"`
	ROI      float64 `json:"roi"`
	Reason   string  `json:"reason"`
}

// EvaluateReformPriority ranks plots for reform by age, size, status and ROI.
func EvaluateReformPriority(plots []Plot, pricePerKgATR float64) []ReformPriority {
	out := make([]ReformPriority, 0, len(plots))
	for _, p := range plots {
		prio := 0
		var reasons []string
		switch {
		case p.Cycle >= 5:
			prio += 50
			reasons = append(reasons, "Fim do ciclo produtivo")
		case p.Cycle >= 4:
			prio += 30
			reasons = append(reasons, "Baixa produtividade")
		}
		switch {
		case p.Area < 2:
			prio += 40
			reasons = append(reasons, "Talhão muito pequeno")
		case p.Area < 5:
			prio += 20
			reasons = append(reasons, "Talhão pequeno")
		}
		if p.Status == entities.PlotReform {
			prio += 60
			reasons = append(reasons, "Já marcado para reforma")
		}
		roi := calc.ReformROI(p.Area, p.Cycle, pricePerKgATR)
		switch {
		case roi > 30:
			prio += 25
			reasons = append(reasons, "Alto retorno esperado")
		case roi > 15:
			prio += 10
			reasons = append(reasons, "Retorno moderado")
		}
		reason := strings.Join(reasons, ", ")
		if reason == "" {
			reason = "Avaliação padrão"
		}
		out = append(out, ReformPriority{Plot: p, Priority: prio, ROI: roi, Reason: reason})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority > out[j].Priority })
	return out
}

// OptimalPlotSize groups plots in 5 ha buckets and recommends one bucket
// above the most area-efficient one. machineryCapacity, when positive, also
// caps the result.
func OptimalPlotSize(plots []Plot, operationalCosts, machineryCapacity float64) float64 {
	limit := float64(maxPlotSize)
	if machineryCapacity > 0 && machineryCapacity < limit {
		limit = machineryCapacity
	}
	if operationalCosts <= 0 {
		return math.Min(defaultPlotSize, limit)
	}

	type bucket struct {
		n    int
		area float64
	}
	buckets := map[int]*bucket{}
	for _, p := range plots {
		k := int(math.Floor(p.Area/5)) * 5
		b, ok := buckets[k]
		if !ok {
			b = &bucket{}
			buckets[k] = b
		}
		b.n++
		b.area += p.Area
	}
	keys := make([]int, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	optimal := float64(defaultPlotSize)
	best := 0.0
	for _, k := range keys {
		b := buckets[k]
		if b.n < 2 || k < 5 {
			continue
		}
		eff := b.area / (float64(b.n) * operationalCosts)
		if eff > best {
			best = eff
			optimal = float64(k + 5)
		}
	}
	return math.Min(optimal, limit)
}
