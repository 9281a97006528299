package analytics_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestoria-api/internal/application/analytics"
	"github.com/jhoicas/gestoria-api/internal/domain/entity"
	"github.com/jhoicas/gestoria-api/internal/domain/repository"
	"github.com/jhoicas/gestoria-api/internal/infrastructure/memory"
)

var now = time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

func date(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func ptr[T any](v T) *T { return &v }

func seedDashboard(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	clients := memory.NewClientRepository(s)
	require.NoError(t, clients.Create(ctx, &entity.Client{ID: "c1", FirstName: "Ana", LastName: "Ruiz", DocumentNumber: "X1", DocumentExpiry: ptr(date(2026, 11, 2))}))
	require.NoError(t, clients.Create(ctx, &entity.Client{ID: "c2", FirstName: "Bilal", LastName: "Haddad", DocumentNumber: "X2", DocumentExpiry: ptr(date(2026, 10, 25))}))
	require.NoError(t, clients.Create(ctx, &entity.Client{ID: "c3", FirstName: "Carla", LastName: "Sousa", DocumentNumber: "X3", DocumentExpiry: ptr(date(2027, 6, 1))}))

	types := memory.NewTramiteTypeRepository(s)
	require.NoError(t, types.Create(ctx, &entity.TramiteType{ID: "t1", Name: "Arraigo", Code: "ARR", Active: true}))
	require.NoError(t, types.Create(ctx, &entity.TramiteType{ID: "t2", Name: "Nacionalidad", Code: "NAC", Active: true}))

	files := memory.NewCaseFileRepository(s)
	mk := func(n int, client, tramite string, st entity.CaseStatus, start, updated time.Time) {
		require.NoError(t, files.Create(ctx, &entity.CaseFile{
			ID: fmt.Sprintf("e%d", n), Number: fmt.Sprintf("26/%03d", n), ClientID: client, TramiteTypeID: tramite,
			Status: st, StartDate: start, CreatedAt: start, UpdatedAt: updated, AgreedPrice: decimal.NewFromInt(100),
		}))
	}
	mk(1, "c1", "t1", entity.StatusPendingDocuments, date(2026, 5, 10), date(2026, 6, 1))
	mk(2, "c1", "t1", entity.StatusPendingDocuments, date(2026, 9, 3), date(2026, 10, 18))
	mk(3, "c2", "t1", entity.StatusInProcess, date(2026, 10, 1), date(2026, 8, 1))
	mk(4, "c3", "t2", entity.StatusApproved, date(2026, 10, 5), date(2026, 1, 1))
	mk(5, "c3", "t2", entity.StatusArchived, date(2025, 12, 1), date(2026, 1, 1))

	payments := memory.NewPaymentRepository(s)
	pay := func(id string, amount string, on time.Time) {
		require.NoError(t, payments.Create(ctx, &entity.Payment{
			ID: id, CaseFileID: "e1", ClientID: "c1", Amount: decimal.RequireFromString(amount), PaidOn: on,
		}))
	}
	pay("p1", "100.25", date(2026, 10, 2))
	pay("p2", "49.75", date(2026, 10, 19))
	pay("p3", "80", date(2026, 8, 14))
	pay("p4", "999", date(2025, 10, 1))
	return s
}

func TestDashboard_Resumen(t *testing.T) {
	s := seedDashboard(t)
	uc := analytics.NewDashboardUseCase(memory.NewDashboardRepository(s)).WithClock(func() time.Time { return now })

	out, err := uc.GetSummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, out.TotalClients)
	assert.Equal(t, 3, out.ActiveCaseFiles, "pendiente x2 + en_tramite")
	assert.Equal(t, 2, out.PendingDocumentsFiles)
	assert.Equal(t, "150", out.MonthlyIncome.String())
	assert.Equal(t, "Octubre 2026", out.DateLabel)
	assert.Len(t, out.ByStatus, len(entity.AllStatuses))

	// Series: de mayo a octubre, meses vacíos a cero.
	require.Len(t, out.CaseFilesPerMonth, 6)
	assert.Equal(t, "2026-05", out.CaseFilesPerMonth[0].Month)
	assert.Equal(t, "May 26", out.CaseFilesPerMonth[0].Label)
	assert.Equal(t, "1", out.CaseFilesPerMonth[0].Value.String())
	assert.True(t, out.CaseFilesPerMonth[1].Value.IsZero())
	assert.Equal(t, "2", out.CaseFilesPerMonth[5].Value.String())

	require.Len(t, out.IncomePerMonth, 6)
	assert.Equal(t, "80", out.IncomePerMonth[3].Value.String())
	assert.Equal(t, "150", out.IncomePerMonth[5].Value.String())

	require.NotEmpty(t, out.TopTramites)
	assert.Equal(t, "Arraigo", out.TopTramites[0].Name)
	assert.Equal(t, 3, out.TopTramites[0].Count)

	assert.Len(t, out.RecentCaseFiles, 5)
	assert.Equal(t, "26/004", out.RecentCaseFiles[0].Number)

	require.Len(t, out.ExpiringNIE, 2, "solo los que vencen en 30 días")
	assert.Equal(t, "X2", out.ExpiringNIE[0].DocumentNumber)
	assert.Equal(t, 6, out.ExpiringNIE[0].DaysLeft)
	assert.Equal(t, 14, out.ExpiringNIE[1].DaysLeft)

	// Parados: abiertos y sin cambios hace más de 30 días; aprobado y archivado no cuentan.
	require.Len(t, out.IdleCaseFiles, 2)
	assert.Equal(t, "26/001", out.IdleCaseFiles[0].Number)
	assert.Equal(t, "26/003", out.IdleCaseFiles[1].Number)
}

type failingRepo struct {
	repository.DashboardRepository
}

func (failingRepo) CountClients(context.Context) (int, error) {
	return 0, errors.New("conexión perdida")
}

func TestDashboard_ErrorEnUnaConsulta(t *testing.T) {
	s := memory.NewStore()
	uc := analytics.NewDashboardUseCase(failingRepo{memory.NewDashboardRepository(s)})
	_, err := uc.GetSummary(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "total clientes")
}
