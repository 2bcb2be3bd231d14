package serviceImp

import (
	"context"
	"time"

	"go.uber.org/zap"

	"canefarm/entities"
	"canefarm/pkg/apperr"
	repo "canefarm/pkg/plot/repository"
	"canefarm/pkg/plot/service"
)

type plotSvc struct {
	r   repo.PlotRepository
	a   service.Assignments
	log *zap.Logger
}

func NewPlotService(r repo.PlotRepository, a service.Assignments, log *zap.Logger) service.PlotService {
	return &plotSvc{r: r, a: a, log: log}
}

func validDate(field, v string) error {
	if _, err := time.Parse("2006-01-02", v); err != nil {
		return apperr.Invalidf(field, "%q is not a YYYY-MM-DD date", v)
	}
	return nil
}

func (s *plotSvc) CreatePlot(ctx context.Context, in service.CreatePlot) (*entities.Plot, error) {
	if in.Area <= 0 {
		return nil, apperr.Invalid("area", "must be > 0")
	}
	if in.Status == "" {
		in.Status = entities.PlotActive
	}
	if !entities.IsPlotStatus(in.Status) {
		return nil, apperr.Invalidf("status", "must be one of %v", entities.PlotStatuses)
	}
	if in.PlantingDate == "" {
		return nil, apperr.Invalid("planting_date", "required")
	}
	if err := validDate("planting_date", in.PlantingDate); err != nil {
		return nil, err
	}
	if in.LastHarvestDate != nil {
		if err := validDate("last_harvest_date", *in.LastHarvestDate); err != nil {
			return nil, err
		}
	}
	p := &entities.Plot{
		Name:            in.Name,
		Area:            in.Area,
		Status:          in.Status,
		PlantingDate:    in.PlantingDate,
		LastHarvestDate: in.LastHarvestDate,
		SoilType:        in.SoilType,
		Notes:           in.Notes,
		Coordinates:     in.Coordinates,
	}
	if err := s.r.Create(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info("plot created", zap.String("plot_id", p.ID), zap.Int("number", p.Number), zap.Float64("area", p.Area))
	return p, nil
}

func (s *plotSvc) view(p entities.Plot, as map[string]entities.Assignment) service.PlotView {
	v := service.PlotView{Plot: p}
	if a, ok := as[p.ID]; ok {
		id, name := a.CategoryID, a.CategoryName
		v.Assigned = true
		v.CategoryID = &id
		v.CategoryName = &name
		v.Cycle = a.Cycle
	}
	return v
}

func (s *plotSvc) GetPlot(ctx context.Context, id string) (*service.PlotView, error) {
	p, err := s.r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	as, err := s.a.ActiveByPlot(ctx)
	if err != nil {
		return nil, err
	}
	v := s.view(*p, as)
	return &v, nil
}

func (s *plotSvc) ListPlots(ctx context.Context, status string) ([]service.PlotView, error) {
	if status != "" && !entities.IsPlotStatus(status) {
		return nil, apperr.Invalidf("status", "must be one of %v", entities.PlotStatuses)
	}
	plots, err := s.r.List(ctx, status)
	if err != nil {
		return nil, err
	}
	as, err := s.a.ActiveByPlot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]service.PlotView, 0, len(plots))
	for _, p := range plots {
		out = append(out, s.view(p, as))
	}
	return out, nil
}

func (s *plotSvc) Unassigned(ctx context.Context) ([]entities.Plot, error) {
	plots, err := s.r.List(ctx, "")
	if err != nil {
		return nil, err
	}
	as, err := s.a.ActiveByPlot(ctx)
	if err != nil {
		return nil, err
	}
	out := []entities.Plot{}
	for _, p := range plots {
		if _, ok := as[p.ID]; !ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *plotSvc) UpdatePartial(ctx context.Context, id string, p service.PlotPatch) (*entities.Plot, error) {
	cur, err := s.r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		cur.Name = p.Name
	}
	if p.Area != nil {
		if *p.Area <= 0 {
			return nil, apperr.Invalid("area", "must be > 0")
		}
		cur.Area = *p.Area
	}
	if p.Status != nil {
		if !entities.IsPlotStatus(*p.Status) {
			return nil, apperr.Invalidf("status", "must be one of %v", entities.PlotStatuses)
		}
		cur.Status = *p.Status
	}
	if p.PlantingDate != nil {
		if err := validDate("planting_date", *p.PlantingDate); err != nil {
			return nil, err
		}
		cur.PlantingDate = *p.PlantingDate
	}
	if p.LastHarvestDate != nil {
		if err := validDate("last_harvest_date", *p.LastHarvestDate); err != nil {
			return nil, err
		}
		cur.LastHarvestDate = p.LastHarvestDate
	}
	if p.SoilType != nil {
		cur.SoilType = p.SoilType
	}
	if p.Notes != nil {
		cur.Notes = p.Notes
	}
	if p.Coordinates != nil {
		cur.Coordinates = *p.Coordinates
	}
	return cur, s.r.Update(ctx, cur)
}

func (s *plotSvc) DeletePlot(ctx context.Context, id string) error {
	if err := s.r.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("plot deleted", zap.String("plot_id", id))
	return nil
}
