package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestoria-api/internal/domain/casefile"
	"github.com/jhoicas/gestoria-api/internal/domain/entity"
	"github.com/jhoicas/gestoria-api/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo consultas del panel sobre el almacén en memoria.
type DashboardRepo struct{ s *Store }

// NewDashboardRepository construye el repo.
func NewDashboardRepository(s *Store) *DashboardRepo { return &DashboardRepo{s: s} }

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func (r *DashboardRepo) CountClients(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.clients), nil
}

func (r *DashboardRepo) CountCaseFilesByStatus(_ context.Context) (map[entity.CaseStatus]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := map[entity.CaseStatus]int{}
	for _, cf := range r.s.caseFiles {
		out[cf.Status]++
	}
	return out, nil
}

func (r *DashboardRepo) SumPayments(_ context.Context, from, to time.Time) (decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	total := decimal.Zero
	for _, p := range r.s.payments {
		if !p.PaidOn.Before(from) && !p.PaidOn.After(to) {
			total = total.Add(p.Amount)
		}
	}
	return total, nil
}

func (r *DashboardRepo) CaseFilesPerMonth(_ context.Context, since time.Time) ([]repository.MonthCount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	counts := map[time.Time]int{}
	for _, cf := range r.s.caseFiles {
		if cf.StartDate.Before(since) {
			continue
		}
		counts[monthStart(cf.StartDate)]++
	}
	out := make([]repository.MonthCount, 0, len(counts))
	for m, c := range counts {
		out = append(out, repository.MonthCount{Month: m, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out, nil
}

func (r *DashboardRepo) IncomePerMonth(_ context.Context, since time.Time) ([]repository.MonthAmount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sums := map[time.Time]decimal.Decimal{}
	for _, p := range r.s.payments {
		if p.PaidOn.Before(since) {
			continue
		}
		m := monthStart(p.PaidOn)
		sums[m] = sums[m].Add(p.Amount)
	}
	out := make([]repository.MonthAmount, 0, len(sums))
	for m, a := range sums {
		out = append(out, repository.MonthAmount{Month: m, Amount: a})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out, nil
}

func (r *DashboardRepo) TopTramiteTypes(_ context.Context, limit int) ([]repository.TramiteCount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	counts := map[string]int{}
	for _, cf := range r.s.caseFiles {
		counts[cf.TramiteTypeID]++
	}
	out := make([]repository.TramiteCount, 0, len(counts))
	for id, c := range counts {
		out = append(out, repository.TramiteCount{TramiteTypeID: id, Name: r.s.tramites[id].Name, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Name < out[j].Name
		}
		return out[i].Count > out[j].Count
	})
	return page(out, limit, 0), nil
}

func (r *DashboardRepo) RecentCaseFiles(_ context.Context, limit int) ([]*entity.CaseFileView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.CaseFileView, 0, len(r.s.caseFiles))
	for _, cf := range r.s.caseFiles {
		list = append(list, r.s.viewLocked(cf))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return page(list, limit, 0), nil
}

func (r *DashboardRepo) ExpiringDocuments(_ context.Context, from, to time.Time) ([]*entity.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Client
	for _, c := range r.s.clients {
		c := c
		if c.DocumentExpiry == nil || c.DocumentExpiry.Before(from) || c.DocumentExpiry.After(to) {
			continue
		}
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].DocumentExpiry.Before(*list[j].DocumentExpiry) })
	return list, nil
}

func (r *DashboardRepo) IdleCaseFiles(_ context.Context, before time.Time, limit int) ([]*entity.CaseFileView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.CaseFileView
	for _, cf := range r.s.caseFiles {
		if !casefile.IsActive(cf.Status) || !cf.UpdatedAt.Before(before) {
			continue
		}
		list = append(list, r.s.viewLocked(cf))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].UpdatedAt.Before(list[j].UpdatedAt) })
	return page(list, limit, 0), nil
}
