package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestoria-api/internal/domain/entity"
	"github.com/jhoicas/gestoria-api/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo consultas agregadas del panel (solo lectura).
type DashboardRepo struct {
	q Querier
}

// NewDashboardRepository construye el adaptador.
func NewDashboardRepository(q Querier) *DashboardRepo {
	return &DashboardRepo{q: q}
}

func (r *DashboardRepo) CountClients(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM clients`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count clients: %w", err)
	}
	return n, nil
}

func (r *DashboardRepo) CountCaseFilesByStatus(ctx context.Context) (map[entity.CaseStatus]int, error) {
	rows, err := r.q.Query(ctx, `SELECT estado, COUNT(*) FROM expedientes GROUP BY estado`)
	if err != nil {
		return nil, fmt.Errorf("count case files by status: %w", err)
	}
	defer rows.Close()
	out := map[entity.CaseStatus]int{}
	for rows.Next() {
		var st string
		var n int
		if err := rows.Scan(&st, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		out[entity.CaseStatus(st)] = n
	}
	return out, rows.Err()
}

func (r *DashboardRepo) SumPayments(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(importe), 0) FROM payments WHERE fecha_pago BETWEEN $1::date AND $2::date`,
		from, to).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum payments: %w", err)
	}
	return total, nil
}

func (r *DashboardRepo) CaseFilesPerMonth(ctx context.Context, since time.Time) ([]repository.MonthCount, error) {
	rows, err := r.q.Query(ctx, `
		SELECT date_trunc('month', fecha_inicio)::date AS mes, COUNT(*)
		FROM expedientes WHERE fecha_inicio >= $1::date
		GROUP BY mes ORDER BY mes`, since)
	if err != nil {
		return nil, fmt.Errorf("case files per month: %w", err)
	}
	defer rows.Close()
	var out []repository.MonthCount
	for rows.Next() {
		var m repository.MonthCount
		if err := rows.Scan(&m.Month, &m.Count); err != nil {
			return nil, fmt.Errorf("scan month count: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *DashboardRepo) IncomePerMonth(ctx context.Context, since time.Time) ([]repository.MonthAmount, error) {
	rows, err := r.q.Query(ctx, `
		SELECT date_trunc('month', fecha_pago)::date AS mes, SUM(importe)
		FROM payments WHERE fecha_pago >= $1::date
		GROUP BY mes ORDER BY mes`, since)
	if err != nil {
		return nil, fmt.Errorf("income per month: %w", err)
	}
	defer rows.Close()
	var out []repository.MonthAmount
	for rows.Next() {
		var m repository.MonthAmount
		if err := rows.Scan(&m.Month, &m.Amount); err != nil {
			return nil, fmt.Errorf("scan month amount: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *DashboardRepo) TopTramiteTypes(ctx context.Context, limit int) ([]repository.TramiteCount, error) {
	rows, err := r.q.Query(ctx, `
		SELECT t.id, t.nombre, COUNT(*) AS total
		FROM expedientes e JOIN tipos_tramite t ON t.id = e.tipo_tramite_id
		GROUP BY t.id, t.nombre
		ORDER BY total DESC, t.nombre
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("top tramite types: %w", err)
	}
	defer rows.Close()
	var out []repository.TramiteCount
	for rows.Next() {
		var t repository.TramiteCount
		if err := rows.Scan(&t.TramiteTypeID, &t.Name, &t.Count); err != nil {
			return nil, fmt.Errorf("scan tramite count: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *DashboardRepo) RecentCaseFiles(ctx context.Context, limit int) ([]*entity.CaseFileView, error) {
	return queryCaseFileViews(ctx, r.q, caseFileViewSelect+` ORDER BY e.created_at DESC LIMIT $1`, limit)
}

func (r *DashboardRepo) ExpiringDocuments(ctx context.Context, from, to time.Time) ([]*entity.Client, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+clientColumns+` FROM clients
		WHERE fecha_vencimiento_nie BETWEEN $1::date AND $2::date
		ORDER BY fecha_vencimiento_nie`, from, to)
	if err != nil {
		return nil, fmt.Errorf("expiring documents: %w", err)
	}
	defer rows.Close()
	var out []*entity.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *DashboardRepo) IdleCaseFiles(ctx context.Context, before time.Time, limit int) ([]*entity.CaseFileView, error) {
	return queryCaseFileViews(ctx, r.q, caseFileViewSelect+`
		WHERE e.estado = ANY($1) AND e.updated_at < $2
		ORDER BY e.updated_at LIMIT $3`, activeStatusStrings(), before, limit)
}

func activeStatusStrings() []string {
	out := make([]string, 0, len(entity.ActiveStatuses))
	for _, s := range entity.ActiveStatuses {
		out = append(out, string(s))
	}
	return out
}
