package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/gestoria-api/internal/domain/entity"
)

// MonthCount número de expedientes abiertos en un mes (Month = día 1 del mes).
type MonthCount struct {
	Month time.Time
	Count int
}

// MonthAmount ingresos cobrados en un mes.
type MonthAmount struct {
	Month  time.Time
	Amount decimal.Decimal
}

// TramiteCount expedientes por tipo de trámite.
type TramiteCount struct {
	TramiteTypeID string
	Name          string
	Count         int
}

// DashboardRepository consultas read-only del panel principal.
type DashboardRepository interface {
	CountClients(ctx context.Context) (int, error)
	CountCaseFilesByStatus(ctx context.Context) (map[entity.CaseStatus]int, error)
	// SumPayments suma los pagos con fecha_pago en [from, to].
	SumPayments(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	CaseFilesPerMonth(ctx context.Context, since time.Time) ([]MonthCount, error)
	IncomePerMonth(ctx context.Context, since time.Time) ([]MonthAmount, error)
	TopTramiteTypes(ctx context.Context, limit int) ([]TramiteCount, error)
	RecentCaseFiles(ctx context.Context, limit int) ([]*entity.CaseFileView, error)
	// ExpiringDocuments clientes cuyo NIE vence entre from y to (inclusive), por fecha ascendente.
	ExpiringDocuments(ctx context.Context, from, to time.Time) ([]*entity.Client, error)
	// IdleCaseFiles expedientes abiertos sin actualizar desde before, los más antiguos primero.
	IdleCaseFiles(ctx context.Context, before time.Time, limit int) ([]*entity.CaseFileView, error)
}
