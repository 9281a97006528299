package casefile_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcase "github.com/jhoicas/gestoria-api/internal/application/casefile"
	"github.com/jhoicas/gestoria-api/internal/application/dto"
	"github.com/jhoicas/gestoria-api/internal/domain"
	casedomain "github.com/jhoicas/gestoria-api/internal/domain/casefile"
	"github.com/jhoicas/gestoria-api/internal/domain/entity"
	"github.com/jhoicas/gestoria-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var (
	testNow   = time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)
	testActor = entity.Actor{UserID: "00000000-0000-0000-0000-0000000000aa", Role: entity.RoleOperator}
)

type fixture struct {
	store     *memory.Store
	uc        *appcase.UseCase
	clientID  string
	tramiteID string
}

// newFixture crea un cliente y un trámite con nActive documentos activos y uno inactivo.
func newFixture(t *testing.T, nActive int, policy casedomain.Policy) *fixture {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()

	client := &entity.Client{ID: "5e3a7c10-2b1d-4f6a-8c9e-000000000c01", FirstName: "Amina", LastName: "El Idrissi", DocumentNumber: "X1234567L", CreatedAt: testNow}
	require.NoError(t, memory.NewClientRepository(s).Create(ctx, client))

	tramite := &entity.TramiteType{ID: "5e3a7c10-2b1d-4f6a-8c9e-000000000701", Name: "Arraigo social", Code: "ARR", BasePrice: decimal.NewFromInt(450), Active: true}
	require.NoError(t, memory.NewTramiteTypeRepository(s).Create(ctx, tramite))

	docRepo := memory.NewRequiredDocumentRepository(s)
	for i := 1; i <= nActive; i++ {
		require.NoError(t, docRepo.Create(ctx, &entity.RequiredDocument{
			ID: fmt.Sprintf("req-%d", i), TramiteTypeID: tramite.ID, Name: fmt.Sprintf("Documento %d", i), Order: i, Active: true,
		}))
	}
	require.NoError(t, docRepo.Create(ctx, &entity.RequiredDocument{
		ID: "req-inactivo", TramiteTypeID: tramite.ID, Name: "Obsoleto", Order: 99, Active: false,
	}))

	uc := appcase.NewUseCase(
		memory.NewTxRunner(s),
		memory.NewCaseFileRepository(s),
		memory.NewCaseDocumentRepository(s),
		memory.NewStatusHistoryRepository(s),
		memory.NewClientRepository(s),
		memory.NewTramiteTypeRepository(s),
		memory.NewRequiredDocumentRepository(s),
		memory.NewPaymentRepository(s),
		policy,
	).WithClock(func() time.Time { return testNow })

	return &fixture{store: s, uc: uc, clientID: client.ID, tramiteID: tramite.ID}
}

func (f *fixture) create(t *testing.T) *dto.CaseFileResponse {
	t.Helper()
	cf, err := f.uc.Create(context.Background(), testActor, dto.CreateCaseFileRequest{
		ClientID: f.clientID, TramiteTypeID: f.tramiteID,
	})
	require.NoError(t, err)
	return cf
}

func (f *fixture) history(t *testing.T, id string) []*dto.HistoryEntryResponse {
	t.Helper()
	h, err := f.uc.History(context.Background(), id)
	require.NoError(t, err)
	return h
}

// ──────────────────────────────────────────────────────────────────────────────
// Alta de expediente
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_NumeraSembraChecklistEHistorialInicial(t *testing.T) {
	f := newFixture(t, 3, casedomain.DefaultPolicy())
	cf := f.create(t)

	assert.Equal(t, "26/001", cf.Number)
	assert.Equal(t, string(entity.StatusPendingDocuments), cf.Status)
	assert.True(t, cf.AgreedPrice.Equal(decimal.NewFromInt(450)), "sin precio acordado se usa el precio base")
	assert.Equal(t, "Amina El Idrissi", cf.ClientName)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), cf.StartDate)

	docs, err := f.uc.Documents(context.Background(), cf.ID)
	require.NoError(t, err)
	require.Len(t, docs, 3, "un documento por cada requerido activo")
	for _, d := range docs {
		assert.Equal(t, string(entity.DocumentPending), d.Status)
	}

	h := f.history(t, cf.ID)
	require.Len(t, h, 1)
	assert.Nil(t, h[0].PreviousStatus, "la primera entrada no tiene estado anterior")
	assert.Equal(t, string(entity.StatusPendingDocuments), h[0].NewStatus)
	require.NotNil(t, h[0].UserID)
	assert.Equal(t, testActor.UserID, *h[0].UserID)
}

func TestCreate_NumerosCorrelativos(t *testing.T) {
	f := newFixture(t, 1, casedomain.DefaultPolicy())
	assert.Equal(t, "26/001", f.create(t).Number)
	assert.Equal(t, "26/002", f.create(t).Number)
	assert.Equal(t, "26/003", f.create(t).Number)
}

func TestCreate_PrecioAcordadoExplicito(t *testing.T) {
	f := newFixture(t, 1, casedomain.DefaultPolicy())
	price := decimal.RequireFromString("399.99")
	cf, err := f.uc.Create(context.Background(), testActor, dto.CreateCaseFileRequest{
		ClientID: f.clientID, TramiteTypeID: f.tramiteID, AgreedPrice: &price, StartDate: "2026-01-10",
	})
	require.NoError(t, err)
	assert.True(t, cf.AgreedPrice.Equal(price))
	assert.Equal(t, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), cf.StartDate)
}

func TestCreate_SinClienteOTramite_ErrorValidacion(t *testing.T) {
	f := newFixture(t, 1, casedomain.DefaultPolicy())
	_, err := f.uc.Create(context.Background(), testActor, dto.CreateCaseFileRequest{TramiteTypeID: f.tramiteID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Create(context.Background(), testActor, dto.CreateCaseFileRequest{ClientID: f.clientID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_ClienteInexistente_NotFound(t *testing.T) {
	f := newFixture(t, 1, casedomain.DefaultPolicy())
	_, err := f.uc.Create(context.Background(), testActor, dto.CreateCaseFileRequest{
		ClientID: "5e3a7c10-2b1d-4f6a-8c9e-00000000dead", TramiteTypeID: f.tramiteID,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_IDsNoUUID_ErrorValidacion(t *testing.T) {
	f := newFixture(t, 1, casedomain.DefaultPolicy())
	_, err := f.uc.Create(context.Background(), testActor, dto.CreateCaseFileRequest{
		ClientID: "abc", TramiteTypeID: f.tramiteID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Create(context.Background(), testActor, dto.CreateCaseFileRequest{
		ClientID: f.clientID, TramiteTypeID: "abc",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Un trámite desactivado no admite expedientes nuevos; los existentes siguen intactos.
func TestCreate_TramiteInactivo_ErrorValidacion(t *testing.T) {
	f := newFixture(t, 1, casedomain.DefaultPolicy())
	ctx := context.Background()
	existing := f.create(t)
	require.NoError(t, memory.NewTramiteTypeRepository(f.store).SetActive(ctx, f.tramiteID, false))

	_, err := f.uc.Create(ctx, testActor, dto.CreateCaseFileRequest{
		ClientID: f.clientID, TramiteTypeID: f.tramiteID,
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := f.uc.List(ctx, dto.CaseFileFilterRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, existing.ID, list.Items[0].ID)
}

// Si falla el historial inicial no queda ni el expediente ni su checklist.
func TestCreate_FalloEnHistorial_RevierteTodo(t *testing.T) {
	f := newFixture(t, 3, casedomain.DefaultPolicy())
	boom := errors.New("backend caído")
	f.store.FailOn("history.append", boom)

	_, err := f.uc.Create(context.Background(), testActor, dto.CreateCaseFileRequest{
		ClientID: f.clientID, TramiteTypeID: f.tramiteID,
	})
	require.ErrorIs(t, err, boom)

	list, err := f.uc.List(context.Background(), dto.CaseFileFilterRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
	assert.Equal(t, 0, list.Page.Total)

	// El número no se consume: el siguiente alta vuelve a ser 26/001.
	f.store.FailOn("history.append", nil)
	assert.Equal(t, "26/001", f.create(t).Number)
}

// Altas concurrentes nunca repiten número.
func TestCreate_Concurrente_NumerosUnicos(t *testing.T) {
	f := newFixture(t, 2, casedomain.DefaultPolicy())
	const n = 25

	var wg sync.WaitGroup
	numbers := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cf, err := f.uc.Create(context.Background(), testActor, dto.CreateCaseFileRequest{
				ClientID: f.clientID, TramiteTypeID: f.tramiteID,
			})
			if assert.NoError(t, err) {
				numbers <- cf.Number
			}
		}()
	}
	wg.Wait()
	close(numbers)

	seen := map[string]bool{}
	for num := range numbers {
		assert.False(t, seen[num], "número repetido: %s", num)
		seen[num] = true
	}
	assert.Len(t, seen, n)
	assert.True(t, seen["26/025"])
}

func TestCreate_ChecklistVacio_PoliticaPorDefectoNoAvanza(t *testing.T) {
	f := newFixture(t, 0, casedomain.DefaultPolicy())
	cf := f.create(t)
	assert.Equal(t, string(entity.StatusPendingDocuments), cf.Status)
	assert.Len(t, f.history(t, cf.ID), 1)
}

func TestCreate_ChecklistVacio_PoliticaAutoAvance(t *testing.T) {
	f := newFixture(t, 0, casedomain.Policy{AutoAdvanceEmptyChecklist: true, RecordSameStatus: true})
	cf := f.create(t)
	assert.Equal(t, string(entity.StatusDocumentsComplete), cf.Status)

	h := f.history(t, cf.ID)
	require.Len(t, h, 2)
	require.NotNil(t, h[0].PreviousStatus)
	assert.Equal(t, string(entity.StatusPendingDocuments), *h[0].PreviousStatus)
	assert.Equal(t, string(entity.StatusDocumentsComplete), h[0].NewStatus)
	assert.Nil(t, h[1].PreviousStatus)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cambio manual de estado
// ──────────────────────────────────────────────────────────────────────────────

func TestSetStatus_RegistraTransicion(t *testing.T) {
	f := newFixture(t, 1, casedomain.DefaultPolicy())
	cf := f.create(t)

	out, err := f.uc.SetStatus(context.Background(), testActor, cf.ID, "presentado")
	require.NoError(t, err)
	assert.Equal(t, "presentado", out.Status)

	h := f.history(t, cf.ID)
	require.Len(t, h, 2)
	require.NotNil(t, h[0].PreviousStatus)
	assert.Equal(t, "pendiente_documentos", *h[0].PreviousStatus)
	assert.Equal(t, "presentado", h[0].NewStatus)
}

// Cualquier estado puede pasar a cualquier otro, incluido archivado.
func TestSetStatus_SinOrdenForzado(t *testing.T) {
	f := newFixture(t, 1, casedomain.DefaultPolicy())
	cf := f.create(t)
	for _, st := range []string{"aprobado", "pendiente_documentos", "archivado", "en_tramite"} {
		out, err := f.uc.SetStatus(context.Background(), testActor, cf.ID, st)
		require.NoError(t, err)
		assert.Equal(t, st, out.Status)
	}
	assert.Len(t, f.history(t, cf.ID), 5)
}

func TestSetStatus_EstadoDesconocido(t *testing.T) {
	f := newFixture(t, 1, casedomain.DefaultPolicy())
	cf := f.create(t)
	_, err := f.uc.SetStatus(context.Background(), testActor, cf.ID, "cerrado")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	assert.Len(t, f.history(t, cf.ID), 1)
}

func TestSetStatus_ExpedienteInexistente(t *testing.T) {
	f := newFixture(t, 1, casedomain.DefaultPolicy())
	_, err := f.uc.SetStatus(context.Background(), testActor, "no-existe", "presentado")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Con la política por defecto, repetir el estado actual también deja entrada.
func TestSetStatus_MismoEstado_RegistraPorDefecto(t *testing.T) {
	f := newFixture(t, 1, casedomain.DefaultPolicy())
	cf := f.create(t)
	_, err := f.uc.SetStatus(context.Background(), testActor, cf.ID, "pendiente_documentos")
	require.NoError(t, err)

	h := f.history(t, cf.ID)
	require.Len(t, h, 2)
	assert.Equal(t, "pendiente_documentos", *h[0].PreviousStatus)
	assert.Equal(t, "pendiente_documentos", h[0].NewStatus)
}

func TestSetStatus_MismoEstado_PoliticaSinRegistro(t *testing.T) {
	f := newFixture(t, 1, casedomain.Policy{RecordSameStatus: false})
	cf := f.create(t)
	_, err := f.uc.SetStatus(context.Background(), testActor, cf.ID, "pendiente_documentos")
	require.NoError(t, err)
	assert.Len(t, f.history(t, cf.ID), 1)
}

// Si falla el historial, el estado tampoco cambia.
func TestSetStatus_FalloEnHistorial_NoCambiaEstado(t *testing.T) {
	f := newFixture(t, 1, casedomain.DefaultPolicy())
	cf := f.create(t)
	f.store.FailOn("history.append", errors.New("timeout"))

	_, err := f.uc.SetStatus(context.Background(), testActor, cf.ID, "presentado")
	require.Error(t, err)

	f.store.FailOn("history.append", nil)
	got, err := f.uc.Get(context.Background(), cf.ID)
	require.NoError(t, err)
	assert.Equal(t, "pendiente_documentos", got.Status)
	assert.Len(t, f.history(t, cf.ID), 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Checklist y transición automática
// ──────────────────────────────────────────────────────────────────────────────

func TestToggleDocument_TresDocumentos_TransicionAlTercero(t *testing.T) {
	f := newFixture(t, 3, casedomain.DefaultPolicy())
	ctx := context.Background()
	cf := f.create(t)
	docs, err := f.uc.Documents(ctx, cf.ID)
	require.NoError(t, err)
	require.Len(t, docs, 3)

	for _, d := range docs[:2] {
		out, err := f.uc.ToggleDocument(ctx, testActor, cf.ID, d.ID, true)
		require.NoError(t, err)
		assert.False(t, out.AutoCompleted)
		assert.Equal(t, "pendiente_documentos", out.Status)
		require.NotNil(t, out.Document.ReceivedAt)
	}
	assert.Len(t, f.history(t, cf.ID), 1, "con 2 de 3 recibidos no hay transición")

	out, err := f.uc.ToggleDocument(ctx, testActor, cf.ID, docs[2].ID, true)
	require.NoError(t, err)
	assert.True(t, out.AutoCompleted)
	assert.Equal(t, "documentos_completos", out.Status)

	h := f.history(t, cf.ID)
	require.Len(t, h, 2, "exactamente una entrada nueva")
	require.NotNil(t, h[0].PreviousStatus)
	assert.Equal(t, "pendiente_documentos", *h[0].PreviousStatus)
	assert.Equal(t, "documentos_completos", h[0].NewStatus)
}

// Volver un documento a pendiente no revierte el estado del expediente.
func TestToggleDocument_VolverAPendiente_NoRevierte(t *testing.T) {
	f := newFixture(t, 2, casedomain.DefaultPolicy())
	ctx := context.Background()
	cf := f.create(t)
	docs, _ := f.uc.Documents(ctx, cf.ID)
	for _, d := range docs {
		_, err := f.uc.ToggleDocument(ctx, testActor, cf.ID, d.ID, true)
		require.NoError(t, err)
	}

	out, err := f.uc.ToggleDocument(ctx, testActor, cf.ID, docs[0].ID, false)
	require.NoError(t, err)
	assert.Equal(t, "documentos_completos", out.Status)
	assert.Nil(t, out.Document.ReceivedAt)
	assert.Equal(t, "pendiente", out.Document.Status)
	assert.Len(t, f.history(t, cf.ID), 2)
}

// La regla solo actúa si el expediente está exactamente en pendiente_documentos.
func TestToggleDocument_OtroEstado_NoTransiciona(t *testing.T) {
	f := newFixture(t, 1, casedomain.DefaultPolicy())
	ctx := context.Background()
	cf := f.create(t)
	_, err := f.uc.SetStatus(ctx, testActor, cf.ID, "presentado")
	require.NoError(t, err)
	docs, _ := f.uc.Documents(ctx, cf.ID)

	out, err := f.uc.ToggleDocument(ctx, testActor, cf.ID, docs[0].ID, true)
	require.NoError(t, err)
	assert.False(t, out.AutoCompleted)
	assert.Equal(t, "presentado", out.Status)
	assert.Len(t, f.history(t, cf.ID), 2)
}

func TestToggleDocument_DocumentoDeOtroExpediente(t *testing.T) {
	f := newFixture(t, 1, casedomain.DefaultPolicy())
	ctx := context.Background()
	a := f.create(t)
	b := f.create(t)
	docsB, _ := f.uc.Documents(ctx, b.ID)

	_, err := f.uc.ToggleDocument(ctx, testActor, a.ID, docsB[0].ID, true)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Lectura, edición y borrado
// ──────────────────────────────────────────────────────────────────────────────

func TestDetail_IncluyeTotales(t *testing.T) {
	f := newFixture(t, 2, casedomain.DefaultPolicy())
	ctx := context.Background()
	cf := f.create(t)
	payRepo := memory.NewPaymentRepository(f.store)
	for i, amount := range []string{"200", "150"} {
		require.NoError(t, payRepo.Create(ctx, &entity.Payment{
			ID: fmt.Sprintf("pay-%d", i), CaseFileID: cf.ID, ClientID: f.clientID,
			Amount: decimal.RequireFromString(amount), PaidOn: testNow,
		}))
	}

	detail, err := f.uc.Detail(ctx, cf.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Documents, 2)
	assert.Len(t, detail.History, 1)
	assert.Len(t, detail.Payments, 2)
	assert.True(t, detail.Rollup.Paid.Equal(decimal.NewFromInt(350)))
	assert.True(t, detail.Rollup.Pending.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "Arraigo social", detail.CaseFile.TramiteName)
}

func TestUpdate_NoTocaNumeroNiEstado(t *testing.T) {
	f := newFixture(t, 1, casedomain.DefaultPolicy())
	ctx := context.Background()
	cf := f.create(t)
	official := "MAD-2026-000123"
	submitted := "2026-03-20"
	notes := "Cita en extranjería"

	out, err := f.uc.Update(ctx, cf.ID, dto.UpdateCaseFileRequest{
		OfficialNumber: &official, SubmissionDate: &submitted, Notes: &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, official, out.OfficialNumber)
	require.NotNil(t, out.SubmissionDate)
	assert.Equal(t, 20, out.SubmissionDate.Day())
	assert.Equal(t, cf.Number, out.Number)
	assert.Equal(t, cf.Status, out.Status)
}

func TestUpdate_PrecioNegativo(t *testing.T) {
	f := newFixture(t, 1, casedomain.DefaultPolicy())
	cf := f.create(t)
	neg := decimal.NewFromInt(-1)
	_, err := f.uc.Update(context.Background(), cf.ID, dto.UpdateCaseFileRequest{AgreedPrice: &neg})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDelete_EliminaEnCascada(t *testing.T) {
	f := newFixture(t, 2, casedomain.DefaultPolicy())
	ctx := context.Background()
	cf := f.create(t)
	require.NoError(t, f.uc.Delete(ctx, cf.ID))

	_, err := f.uc.Get(ctx, cf.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, f.uc.Delete(ctx, cf.ID), domain.ErrNotFound)
}

func TestList_FiltraPorEstado(t *testing.T) {
	f := newFixture(t, 1, casedomain.DefaultPolicy())
	ctx := context.Background()
	a := f.create(t)
	f.create(t)
	_, err := f.uc.SetStatus(ctx, testActor, a.ID, "aprobado")
	require.NoError(t, err)

	list, err := f.uc.List(ctx, dto.CaseFileFilterRequest{Status: "aprobado"})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, a.ID, list.Items[0].ID)

	_, err = f.uc.List(ctx, dto.CaseFileFilterRequest{Status: "inventado"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}
