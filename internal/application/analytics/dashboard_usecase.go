// Package analytics contiene los casos de uso del panel principal de la gestoría.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/gestoria-api/internal/application/dto"
	"github.com/jhoicas/gestoria-api/internal/domain/entity"
	"github.com/jhoicas/gestoria-api/internal/domain/repository"
)

const (
	dashboardMonths      = 6  // meses de las series
	dashboardTopTramites = 5  // tipos de trámite en el ranking
	dashboardRecent      = 10 // últimos expedientes
	dashboardIdle        = 5  // expedientes parados
	expiryWindowDays     = 30 // días de aviso de vencimiento de NIE
	idleDays             = 30 // días sin actualizar para considerar un expediente parado
)

// DashboardUseCase genera el resumen del panel principal.
//
// Fuente de datos: DashboardRepository (consultas read-only).
type DashboardUseCase struct {
	repo repository.DashboardRepository
	now  func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(repo repository.DashboardRepository) *DashboardUseCase {
	return &DashboardUseCase{repo: repo, now: time.Now}
}

// WithClock sustituye el reloj (tests).
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// GetSummary construye el DashboardSummaryDTO. Las consultas son independientes y se
// lanzan en paralelo; la primera que falle cancela el resto.
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()
	today := dto.Today(now)

	// ── Rangos de fecha ────────────────────────────────────────────────────────
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Nanosecond)
	seriesStart := monthStart.AddDate(0, -(dashboardMonths - 1), 0)
	expiryEnd := today.AddDate(0, 0, expiryWindowDays)
	idleBefore := now.AddDate(0, 0, -idleDays)

	var (
		totalClients int
		byStatus     map[entity.CaseStatus]int
		income       decimal.Decimal
		perMonth     []repository.MonthCount
		incomeMonth  []repository.MonthAmount
		top          []repository.TramiteCount
		recent       []*entity.CaseFileView
		expiring     []*entity.Client
		idle         []*entity.CaseFileView
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		totalClients, err = uc.repo.CountClients(gctx)
		return wrap("total clientes", err)
	})
	g.Go(func() (err error) {
		byStatus, err = uc.repo.CountCaseFilesByStatus(gctx)
		return wrap("expedientes por estado", err)
	})
	g.Go(func() (err error) {
		income, err = uc.repo.SumPayments(gctx, monthStart, monthEnd)
		return wrap("ingresos del mes", err)
	})
	g.Go(func() (err error) {
		perMonth, err = uc.repo.CaseFilesPerMonth(gctx, seriesStart)
		return wrap("expedientes por mes", err)
	})
	g.Go(func() (err error) {
		incomeMonth, err = uc.repo.IncomePerMonth(gctx, seriesStart)
		return wrap("ingresos por mes", err)
	})
	g.Go(func() (err error) {
		top, err = uc.repo.TopTramiteTypes(gctx, dashboardTopTramites)
		return wrap("top trámites", err)
	})
	g.Go(func() (err error) {
		recent, err = uc.repo.RecentCaseFiles(gctx, dashboardRecent)
		return wrap("últimos expedientes", err)
	})
	g.Go(func() (err error) {
		expiring, err = uc.repo.ExpiringDocuments(gctx, today, expiryEnd)
		return wrap("NIE por vencer", err)
	})
	g.Go(func() (err error) {
		idle, err = uc.repo.IdleCaseFiles(gctx, idleBefore, dashboardIdle)
		return wrap("expedientes parados", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// ── Construir DTO ──────────────────────────────────────────────────────────
	out := &dto.DashboardSummaryDTO{
		TotalClients:          totalClients,
		PendingDocumentsFiles: byStatus[entity.StatusPendingDocuments],
		MonthlyIncome:         income.Round(2),
		ByStatus:              make([]dto.StatusCountDTO, 0, len(entity.AllStatuses)),
		CaseFilesPerMonth:     countSeries(seriesStart, perMonth),
		IncomePerMonth:        amountSeries(seriesStart, incomeMonth),
		TopTramites:           make([]dto.TramiteCountDTO, 0, len(top)),
		RecentCaseFiles:       dto.NewCaseFileViewList(recent),
		ExpiringNIE:           make([]dto.ExpiringNIEDTO, 0, len(expiring)),
		IdleCaseFiles:         dto.NewCaseFileViewList(idle),
		DateLabel:             monthLabel(now),
	}
	for _, st := range entity.ActiveStatuses {
		out.ActiveCaseFiles += byStatus[st]
	}
	for _, st := range entity.AllStatuses {
		out.ByStatus = append(out.ByStatus, dto.StatusCountDTO{Status: string(st), Count: byStatus[st]})
	}
	for _, t := range top {
		out.TopTramites = append(out.TopTramites, dto.TramiteCountDTO{
			TramiteTypeID: t.TramiteTypeID, Name: t.Name, Count: t.Count,
		})
	}
	for _, c := range expiring {
		exp := dto.Today(*c.DocumentExpiry)
		out.ExpiringNIE = append(out.ExpiringNIE, dto.ExpiringNIEDTO{
			ClientID:       c.ID,
			Name:           c.FullName(),
			DocumentNumber: c.DocumentNumber,
			ExpiresOn:      exp.Format(dto.DateLayout),
			DaysLeft:       int(exp.Sub(today).Hours() / 24),
		})
	}
	sort.SliceStable(out.ExpiringNIE, func(i, j int) bool { return out.ExpiringNIE[i].DaysLeft < out.ExpiringNIE[j].DaysLeft })
	return out, nil
}

func wrap(what string, err error) error {
	if err != nil {
		return fmt.Errorf("dashboard: %s: %w", what, err)
	}
	return nil
}

// countSeries rellena con cero los meses sin expedientes.
func countSeries(start time.Time, rows []repository.MonthCount) []dto.MonthValueDTO {
	byMonth := make(map[string]int, len(rows))
	for _, r := range rows {
		byMonth[r.Month.Format("2006-01")] += r.Count
	}
	out := make([]dto.MonthValueDTO, 0, dashboardMonths)
	for i := 0; i < dashboardMonths; i++ {
		m := start.AddDate(0, i, 0)
		key := m.Format("2006-01")
		out = append(out, dto.MonthValueDTO{Month: key, Label: shortMonthLabel(m), Value: decimal.NewFromInt(int64(byMonth[key]))})
	}
	return out
}

// amountSeries rellena con cero los meses sin cobros.
func amountSeries(start time.Time, rows []repository.MonthAmount) []dto.MonthValueDTO {
	byMonth := make(map[string]decimal.Decimal, len(rows))
	for _, r := range rows {
		key := r.Month.Format("2006-01")
		byMonth[key] = byMonth[key].Add(r.Amount)
	}
	out := make([]dto.MonthValueDTO, 0, dashboardMonths)
	for i := 0; i < dashboardMonths; i++ {
		m := start.AddDate(0, i, 0)
		key := m.Format("2006-01")
		out = append(out, dto.MonthValueDTO{Month: key, Label: shortMonthLabel(m), Value: byMonth[key].Round(2)})
	}
	return out
}

var monthNames = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	return fmt.Sprintf("%s %d", monthNames[t.Month()-1], t.Year())
}

// shortMonthLabel ej: "Feb 26".
func shortMonthLabel(t time.Time) string {
	return fmt.Sprintf("%s %02d", monthNames[t.Month()-1][:3], t.Year()%100)
}
