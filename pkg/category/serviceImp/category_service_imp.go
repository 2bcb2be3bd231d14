package serviceImp

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"canefarm/entities"
	"canefarm/pkg/apperr"
	repo "canefarm/pkg/category/repository"
	"canefarm/pkg/category/service"
	"canefarm/pkg/cycle"
	"canefarm/pkg/metrics"
)

// PlotLookup resolves plot ids.
type PlotLookup interface {
	FindByIDs(ctx context.Context, ids []string) ([]entities.Plot, error)
}

// SoilPrepLookup resolves soil-preparation ids.
type SoilPrepLookup interface {
	FindByIDs(ctx context.Context, ids []string) ([]entities.SoilPreparation, error)
}

// Recorder counts assignment outcomes.
type Recorder interface {
	AssignmentOutcome(outcome string)
}

type categorySvc struct {
	r     repo.CategoryRepository
	plots PlotLookup
	soil  SoilPrepLookup
	table *cycle.Table
	rec   Recorder
	log   *zap.Logger
}

func NewCategoryService(r repo.CategoryRepository, plots PlotLookup, soil SoilPrepLookup, table *cycle.Table, rec Recorder, log *zap.Logger) service.CategoryService {
	return &categorySvc{r: r, plots: plots, soil: soil, table: table, rec: rec, log: log}
}

func (s *categorySvc) outcome(o string) {
	if s.rec != nil {
		s.rec.AssignmentOutcome(o)
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func (s *categorySvc) checkParent(ctx context.Context, self string, parent *string) error {
	if parent == nil || *parent == "" {
		return nil
	}
	if *parent == self {
		return apperr.Invalid("parent_category_id", "category cannot be its own parent")
	}
	if _, err := s.r.FindByID(ctx, *parent); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.Invalidf("parent_category_id", "unknown category %s", *parent)
		}
		return err
	}
	return nil
}

func (s *categorySvc) CreateCategory(ctx context.Context, in service.CreateCategory) (*entities.Category, error) {
	if in.Cycle < 0 || in.Cycle > entities.MaxCategoryCycle {
		return nil, apperr.Invalidf("cycle", "must be between 0 and %d", entities.MaxCategoryCycle)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Invalid("name", "required")
	}
	if err := s.checkParent(ctx, "", in.ParentCategoryID); err != nil {
		return nil, err
	}
	ref, _ := s.table.Lookup(in.Cycle)
	c := &entities.Category{
		Cycle:                in.Cycle,
		Name:                 name,
		ExpectedProductivity: ref.ExpectedProductivity,
		StandardRevenue:      ref.StandardRevenue,
		StandardCosts:        ref.StandardCosts,
		ParentCategoryID:     in.ParentCategoryID,
	}
	if in.ExpectedProductivity != nil {
		c.ExpectedProductivity = *in.ExpectedProductivity
	}
	if in.StandardRevenue != nil {
		c.StandardRevenue = *in.StandardRevenue
	}
	if in.StandardCosts != nil {
		c.StandardCosts = *in.StandardCosts
	}
	if err := s.r.Create(ctx, c); err != nil {
		return nil, err
	}
	s.log.Info("category created", zap.String("category_id", c.ID), zap.Int("cycle", c.Cycle), zap.String("name", c.Name))
	return c, nil
}

func (s *categorySvc) GetCategory(ctx context.Context, id string) (*service.CategoryDetail, error) {
	c, err := s.r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	plots, err := s.r.ActivePlots(ctx, id)
	if err != nil {
		return nil, err
	}
	soil, err := s.r.SoilPreparations(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &service.CategoryDetail{Category: *c, Plots: plots, SoilPreparations: soil}
	for _, p := range plots {
		d.TotalArea += p.Area
	}
	return d, nil
}

func (s *categorySvc) ListCategories(ctx context.Context, cycle *int) ([]entities.Category, error) {
	return s.r.List(ctx, cycle)
}

func (s *categorySvc) UpdatePartial(ctx context.Context, id string, p service.CategoryPatch) (*entities.Category, error) {
	cur, err := s.r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return nil, apperr.Invalid("name", "required")
		}
		cur.Name = name
	}
	if p.ExpectedProductivity != nil {
		cur.ExpectedProductivity = *p.ExpectedProductivity
	}
	if p.StandardRevenue != nil {
		cur.StandardRevenue = *p.StandardRevenue
	}
	if p.StandardCosts != nil {
		cur.StandardCosts = *p.StandardCosts
	}
	if p.ParentCategoryID != nil {
		if err := s.checkParent(ctx, cur.ID, p.ParentCategoryID); err != nil {
			return nil, err
		}
		if *p.ParentCategoryID == "" {
			cur.ParentCategoryID = nil
		} else {
			cur.ParentCategoryID = p.ParentCategoryID
		}
	}
	return cur, s.r.Update(ctx, cur)
}

func (s *categorySvc) DeleteCategory(ctx context.Context, id string) error {
	if err := s.r.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("category deleted", zap.String("category_id", id))
	return nil
}

func (s *categorySvc) checkPlots(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := s.plots.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(found) == len(ids) {
		return nil
	}
	known := make(map[string]bool, len(found))
	for _, p := range found {
		known[p.ID] = true
	}
	var missing []string
	for _, id := range ids {
		if !known[id] {
			missing = append(missing, id)
		}
	}
	return apperr.Invalidf("plot_ids", "unknown plots %v", missing)
}

func (s *categorySvc) Assign(ctx context.Context, categoryID string, req service.AssignRequest) (*service.AssignResult, error) {
	mode := strings.ToLower(strings.TrimSpace(req.OnConflict))
	if mode == "" {
		mode = service.OnConflictAbort
	}
	if mode != service.OnConflictAbort && mode != service.OnConflictMove {
		s.outcome(metrics.OutcomeRejected)
		return nil, apperr.Invalidf("on_conflict", "must be %q or %q", service.OnConflictAbort, service.OnConflictMove)
	}
	ids := dedupe(req.PlotIDs)
	if err := s.checkPlots(ctx, ids); err != nil {
		s.outcome(metrics.OutcomeRejected)
		return nil, err
	}

	conflicts, err := s.r.Assign(ctx, repo.AssignOp{
		CategoryID: categoryID,
		PlotIDs:    ids,
		Move:       mode == service.OnConflictMove,
		ChangedBy:  req.ChangedBy,
		Notes:      req.Notes,
	})
	if err != nil {
		s.outcome(metrics.OutcomeError)
		s.log.Error("assign plots failed", zap.String("category_id", categoryID), zap.Error(err))
		return nil, err
	}
	if conflicts == nil {
		conflicts = []entities.Assignment{}
	}

	res := &service.AssignResult{Plots: len(ids), Conflicts: conflicts}
	switch {
	case len(conflicts) > 0 && mode == service.OnConflictAbort:
		s.outcome(metrics.OutcomeConflict)
		s.log.Warn("assignment aborted on conflicts",
			zap.String("category_id", categoryID), zap.Int("conflicts", len(conflicts)))
		return res, nil
	case len(conflicts) > 0:
		res.Moved = len(conflicts)
		s.outcome(metrics.OutcomeMoved)
	default:
		s.outcome(metrics.OutcomeApplied)
	}
	res.Applied = true
	s.log.Info("plots assigned",
		zap.String("category_id", categoryID),
		zap.Int("plots", len(ids)),
		zap.Int("moved", res.Moved),
		zap.String("changed_by", req.ChangedBy))
	return res, nil
}

func (s *categorySvc) PreviewConflicts(ctx context.Context, categoryID string, plotIDs []string) ([]entities.Assignment, error) {
	c, err := s.r.FindByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	out, err := s.r.Conflicts(ctx, c.ID, c.Cycle, dedupe(plotIDs))
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []entities.Assignment{}
	}
	return out, nil
}

func (s *categorySvc) AssignSoilPreparations(ctx context.Context, categoryID string, req service.SoilPrepRequest) error {
	ids := dedupe(req.SoilPreparationIDs)
	if len(ids) > 0 {
		found, err := s.soil.FindByIDs(ctx, ids)
		if err != nil {
			return err
		}
		if len(found) != len(ids) {
			return apperr.Invalid("soil_preparation_ids", "unknown soil preparations")
		}
	}
	if err := s.r.AssignSoilPreparations(ctx, categoryID, ids, req.ChangedBy, req.Notes); err != nil {
		return err
	}
	s.log.Info("soil preparations assigned",
		zap.String("category_id", categoryID), zap.Int("count", len(ids)), zap.String("changed_by", req.ChangedBy))
	return nil
}

func (s *categorySvc) History(ctx context.Context, categoryID string) ([]entities.CategoryHistory, error) {
	if _, err := s.r.FindByID(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.r.History(ctx, categoryID)
}

func (s *categorySvc) Summaries(ctx context.Context) ([]service.Summary, error) {
	cats, err := s.r.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	out := make([]service.Summary, 0, len(cats))
	for _, c := range cats {
		plots, err := s.r.ActivePlots(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		soil, err := s.r.SoilPreparations(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		sm := service.Summary{CategoryID: c.ID, Name: c.Name, Cycle: c.Cycle, PlotCount: len(plots)}
		for _, p := range plots {
			sm.TotalArea += p.Area
		}
		for _, sp := range soil {
			sm.SoilPrepCost += sp.TotalCost
		}
		sm.ExpectedTonnage = c.ExpectedProductivity * sm.TotalArea
		sm.ExpectedRevenue = c.StandardRevenue * sm.TotalArea
		sm.ExpectedCosts = (c.StandardCosts + sm.SoilPrepCost) * sm.TotalArea
		sm.ExpectedNet = sm.ExpectedRevenue - sm.ExpectedCosts
		out = append(out, sm)
	}
	return out, nil
}

func (s *categorySvc) ActiveByPlot(ctx context.Context) (map[string]entities.Assignment, error) {
	return s.r.ActiveByPlot(ctx)
}

func (s *categorySvc) PlotCycles(ctx context.Context) (map[string]int, error) {
	as, err := s.r.ActiveByPlot(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(as))
	for id, a := range as {
		out[id] = a.Cycle
	}
	return out, nil
}
