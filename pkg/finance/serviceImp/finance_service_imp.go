package serviceImp

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"canefarm/entities"
	"canefarm/pkg/apperr"
	"canefarm/pkg/calc"
	"canefarm/pkg/finance/repository"
	"canefarm/pkg/finance/service"
)

type Plots interface {
	FindByID(ctx context.Context, id string) (*entities.Plot, error)
	FindByIDs(ctx context.Context, ids []string) ([]entities.Plot, error)
}

type Productions interface {
	FindByID(ctx context.Context, id string) (*entities.Production, error)
}

type financeSvc struct {
	r           repository.FinanceRepository
	plots       Plots
	productions Productions
	price       float64
	log         *zap.Logger
}

func NewFinanceService(r repository.FinanceRepository, plots Plots, productions Productions, pricePerKgATR float64, log *zap.Logger) service.FinanceService {
	return &financeSvc{r: r, plots: plots, productions: productions, price: pricePerKgATR, log: log}
}

const dateLayout = "2006-01-02"

func parseDate(field, v string) (time.Time, error) {
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, apperr.Invalid(field, "must be YYYY-MM-DD")
	}
	return t, nil
}

func (s *financeSvc) CreatePayment(ctx context.Context, in service.CreatePayment) (*entities.ATRPayment, error) {
	if _, err := parseDate("payment_date", in.PaymentDate); err != nil {
		return nil, err
	}
	d := in.Deductions
	if d.INSS < 0 || d.Aplacana < 0 || d.Other < 0 {
		return nil, apperr.Invalid("deductions", "must be >= 0")
	}
	prod, err := s.productions.FindByID(ctx, in.ProductionID)
	if err != nil {
		return nil, err
	}
	atr := prod.ATR
	if in.ATRValue != nil {
		atr = *in.ATRValue
	}
	price := s.price
	if in.PricePerKg != nil {
		if *in.PricePerKg <= 0 {
			return nil, apperr.Invalid("price_per_kg_atr", "must be > 0")
		}
		price = *in.PricePerKg
	}
	gross := calc.ATRRevenue(prod.Tonnage, atr, price)
	p := &entities.ATRPayment{
		ProductionID:       prod.ID,
		ATRValue:           atr,
		PricePerKgATR:      price,
		GrossValue:         gross,
		DeductionsINSS:     d.INSS,
		DeductionsAplacana: d.Aplacana,
		DeductionsOther:    d.Other,
		NetValue:           calc.NetProfit(gross, 0, d),
		PaymentDate:        in.PaymentDate,
	}
	if err := s.r.CreatePayment(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info("atr payment recorded",
		zap.String("production_id", prod.ID), zap.Float64("gross", p.GrossValue), zap.Float64("net", p.NetValue))
	return p, nil
}

func (s *financeSvc) ListPayments(ctx context.Context, productionID string) ([]entities.ATRPayment, error) {
	return s.r.ListPayments(ctx, productionID)
}

func (s *financeSvc) DeletePayment(ctx context.Context, id string) error {
	return s.r.DeletePayment(ctx, id)
}

func isSafraStatus(v string) bool {
	switch v {
	case entities.SafraStatusPlanning, entities.SafraStatusActive, entities.SafraStatusCompleted:
		return true
	}
	return false
}

func checkPeriod(start, end string) error {
	st, err := parseDate("start_date", start)
	if err != nil {
		return err
	}
	en, err := parseDate("end_date", end)
	if err != nil {
		return err
	}
	if en.Before(st) {
		return apperr.Invalid("end_date", "must not be before start_date")
	}
	return nil
}

func (s *financeSvc) checkReforms(ctx context.Context, ids []string) ([]string, error) {
	seen := map[string]bool{}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	if len(out) == 0 {
		return out, nil
	}
	found, err := s.plots.FindByIDs(ctx, out)
	if err != nil {
		return nil, err
	}
	if len(found) != len(out) {
		return nil, apperr.Invalid("planned_reforms", "unknown plots")
	}
	return out, nil
}

func (s *financeSvc) CreateSafra(ctx context.Context, in service.CreateSafra) (*entities.SafraPlanning, error) {
	if strings.TrimSpace(in.Year) == "" {
		return nil, apperr.Invalid("year", "required")
	}
	if err := checkPeriod(in.StartDate, in.EndDate); err != nil {
		return nil, err
	}
	if in.PreviousRevenue < 0 || in.PersonalNeeds < 0 {
		return nil, apperr.Invalid("budget", "revenue and personal needs must be >= 0")
	}
	if in.Status == "" {
		in.Status = entities.SafraStatusPlanning
	}
	if !isSafraStatus(in.Status) {
		return nil, apperr.Invalidf("status", "unknown status %q", in.Status)
	}
	reforms, err := s.checkReforms(ctx, in.PlannedReforms)
	if err != nil {
		return nil, err
	}
	sp := &entities.SafraPlanning{
		Year:            strings.TrimSpace(in.Year),
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
		PreviousRevenue: in.PreviousRevenue,
		PersonalNeeds:   in.PersonalNeeds,
		AvailableBudget: calc.AvailableBudget(in.PreviousRevenue, in.PersonalNeeds),
		PlannedReforms:  reforms,
		Status:          in.Status,
	}
	if err := s.r.CreateSafra(ctx, sp); err != nil {
		return nil, err
	}
	s.log.Info("safra planned", zap.String("safra_id", sp.ID), zap.String("year", sp.Year), zap.Float64("budget", sp.AvailableBudget))
	return sp, nil
}

func (s *financeSvc) GetSafra(ctx context.Context, id string) (*service.SafraDetail, error) {
	sp, err := s.r.FindSafra(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &service.SafraDetail{SafraPlanning: *sp}
	if len(sp.PlannedReforms) > 0 {
		plots, err := s.plots.FindByIDs(ctx, sp.PlannedReforms)
		if err != nil {
			return nil, err
		}
		for _, p := range plots {
			d.PlannedReformArea += p.Area
			d.PlannedReformCost += calc.ReformCost(p.Area)
		}
	}
	d.BudgetRemaining = sp.AvailableBudget - d.PlannedReformCost
	if d.CashFlow, err = s.r.CashFlow(ctx, id); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *financeSvc) ListSafras(ctx context.Context) ([]entities.SafraPlanning, error) {
	return s.r.ListSafras(ctx)
}

func (s *financeSvc) UpdatePartial(ctx context.Context, id string, p service.SafraPatch) (*entities.SafraPlanning, error) {
	cur, err := s.r.FindSafra(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.StartDate != nil {
		cur.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		cur.EndDate = *p.EndDate
	}
	if err := checkPeriod(cur.StartDate, cur.EndDate); err != nil {
		return nil, err
	}
	if p.PreviousRevenue != nil {
		cur.PreviousRevenue = *p.PreviousRevenue
	}
	if p.PersonalNeeds != nil {
		cur.PersonalNeeds = *p.PersonalNeeds
	}
	if cur.PreviousRevenue < 0 || cur.PersonalNeeds < 0 {
		return nil, apperr.Invalid("budget", "revenue and personal needs must be >= 0")
	}
	cur.AvailableBudget = calc.AvailableBudget(cur.PreviousRevenue, cur.PersonalNeeds)
	if p.PlannedReforms != nil {
		if cur.PlannedReforms, err = s.checkReforms(ctx, *p.PlannedReforms); err != nil {
			return nil, err
		}
	}
	if p.Status != nil {
		if !isSafraStatus(*p.Status) {
			return nil, apperr.Invalidf("status", "unknown status %q", *p.Status)
		}
		cur.Status = *p.Status
	}
	return cur, s.r.UpdateSafra(ctx, cur)
}

func (s *financeSvc) DeleteSafra(ctx context.Context, id string) error {
	return s.r.DeleteSafra(ctx, id)
}

func (s *financeSvc) ProjectCashFlow(ctx context.Context, safraID string, req service.Projection) ([]entities.CashFlowEntry, error) {
	if req.Months < 0 || req.Months > 120 {
		return nil, apperr.Invalid("months", "must be between 0 and 120")
	}
	sp, err := s.r.FindSafra(ctx, safraID)
	if err != nil {
		return nil, err
	}
	start, err := parseDate("start_date", sp.StartDate)
	if err != nil {
		return nil, err
	}
	first := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	months := calc.CashFlowProjection(req.InitialBalance, req.MonthlyRevenue, req.MonthlyExpenses, req.Months)
	rows := make([]entities.CashFlowEntry, 0, len(months))
	for _, m := range months {
		rows = append(rows, entities.CashFlowEntry{
			SafraID:  safraID,
			Seq:      m.Month,
			Month:    first.AddDate(0, m.Month-1, 0).Format(dateLayout),
			Revenue:  m.Revenue,
			Expenses: m.Expenses,
			Balance:  m.Balance,
		})
	}
	if err := s.r.ReplaceCashFlow(ctx, safraID, rows); err != nil {
		return nil, err
	}
	s.log.Info("cash flow projected", zap.String("safra_id", safraID), zap.Int("months", len(rows)))
	return rows, nil
}

func (s *financeSvc) CashFlow(ctx context.Context, safraID string) ([]entities.CashFlowEntry, error) {
	if _, err := s.r.FindSafra(ctx, safraID); err != nil {
		return nil, err
	}
	return s.r.CashFlow(ctx, safraID)
}

func (s *financeSvc) CreateInput(ctx context.Context, in service.CreateInput) (*entities.InputApplication, error) {
	if !entities.IsInputType(in.InputType) {
		return nil, apperr.Invalidf("input_type", "unknown input type %q", in.InputType)
	}
	if in.Quantity <= 0 {
		return nil, apperr.Invalid("quantity", "must be > 0")
	}
	if in.UnitCost < 0 {
		return nil, apperr.Invalid("unit_cost", "must be >= 0")
	}
	if _, err := parseDate("application_date", in.ApplicationDate); err != nil {
		return nil, err
	}
	plot, err := s.plots.FindByID(ctx, in.PlotID)
	if err != nil {
		return nil, err
	}
	a := &entities.InputApplication{
		PlotID:           plot.ID,
		InputType:        in.InputType,
		Product:          strings.TrimSpace(in.Product),
		Quantity:         in.Quantity,
		UnitCost:         in.UnitCost,
		TotalCost:        in.Quantity * in.UnitCost,
		ApplicationDate:  in.ApplicationDate,
	}
	if plot.Area > 0 {
		a.DosagePerHectare = in.Quantity / plot.Area
	}
	if err := s.r.CreateInput(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *financeSvc) ListInputs(ctx context.Context, f repository.InputFilter) ([]entities.InputApplication, error) {
	return s.r.ListInputs(ctx, f)
}

func (s *financeSvc) DeleteInput(ctx context.Context, id string) error {
	return s.r.DeleteInput(ctx, id)
}

func (s *financeSvc) CostAnalysis(ctx context.Context) (*service.CostAnalysis, error) {
	rows, err := s.r.InputTotals(ctx)
	if err != nil {
		return nil, err
	}
	out := &service.CostAnalysis{ByType: make([]service.InputCost, 0, len(rows))}
	for _, t := range rows {
		out.TotalCost += t.TotalCost
	}
	for _, t := range rows {
		c := service.InputCost{
			InputType:      t.InputType,
			TotalCost:      t.TotalCost,
			Quantity:       t.Quantity,
			Plots:          t.Plots,
			Area:           t.Area,
			CostPerHectare: calc.CostPerHectare(t.TotalCost, t.Area),
		}
		if out.TotalCost > 0 {
			c.Share = t.TotalCost / out.TotalCost * 100
		}
		out.ByType = append(out.ByType, c)
	}
	return out, nil
}
