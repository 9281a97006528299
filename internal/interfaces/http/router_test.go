package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestoria-api/internal/application/analytics"
	"github.com/jhoicas/gestoria-api/internal/application/billing"
	"github.com/jhoicas/gestoria-api/internal/application/casefile"
	"github.com/jhoicas/gestoria-api/internal/application/dto"
	"github.com/jhoicas/gestoria-api/internal/application/usecase"
	casedomain "github.com/jhoicas/gestoria-api/internal/domain/casefile"
	"github.com/jhoicas/gestoria-api/internal/infrastructure/memory"
	"github.com/jhoicas/gestoria-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/gestoria-api/internal/interfaces/http"
)

// newTestAPI monta el router completo sobre el almacén en memoria.
func newTestAPI(t *testing.T) *fiber.App {
	t.Helper()
	s := memory.NewStore()
	clients := memory.NewClientRepository(s)
	types := memory.NewTramiteTypeRepository(s)
	docs := memory.NewRequiredDocumentRepository(s)
	files := memory.NewCaseFileRepository(s)
	payments := memory.NewPaymentRepository(s)
	settings := memory.NewSettingsRepository(s)
	tx := memory.NewTxRunner(s)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ClientUC:  usecase.NewClientUseCase(clients, files, payments),
		TramiteUC: usecase.NewTramiteUseCase(types, docs),
		CaseFileUC: casefile.NewUseCase(tx, files, memory.NewCaseDocumentRepository(s), memory.NewStatusHistoryRepository(s),
			clients, types, docs, payments, casedomain.DefaultPolicy()),
		PaymentUC:   billing.NewPaymentUseCase(tx, payments, files, clients),
		ReceiptUC:   billing.NewReceiptUseCase(payments, files, clients, settings, pdf.NewReceiptGenerator()),
		DashboardUC: analytics.NewDashboardUseCase(memory.NewDashboardRepository(s)),
		ExportUC:    usecase.NewExportUseCase(clients, files, payments, types),
		UserUC:      usecase.NewUserUseCase(memory.NewUserRepository(s)),
		SettingsUC:  usecase.NewSettingsUseCase(settings),
		JWTSecret:   testJWTSecret,
	})
	return app
}

// call envía una petición JSON con el rol indicado y decodifica la respuesta en out (si no es nil).
func call(t *testing.T, app *fiber.App, role, method, path string, body any, out any) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, role))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	if out != nil {
		defer resp.Body.Close()
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, out), string(raw))
	}
	return resp
}

func TestAPI_FlujoCompletoExpediente(t *testing.T) {
	app := newTestAPI(t)

	// Catálogo (admin)
	var tramite dto.TramiteTypeResponse
	resp := call(t, app, "admin", http.MethodPost, "/api/tramites", map[string]any{
		"nombre": "Arraigo social", "codigo": "ARR", "precio_base": "450",
	}, &tramite)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var doc1, doc2 dto.RequiredDocumentResponse
	resp = call(t, app, "admin", http.MethodPost, "/api/tramites/"+tramite.ID+"/documents",
		map[string]any{"nombre_documento": "Pasaporte", "orden": 1}, &doc1)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = call(t, app, "admin", http.MethodPost, "/api/tramites/"+tramite.ID+"/documents",
		map[string]any{"nombre_documento": "Empadronamiento", "orden": 2}, &doc2)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Cliente (operador)
	var client dto.ClientResponse
	resp = call(t, app, "operador", http.MethodPost, "/api/clients", map[string]any{
		"nombre": "Omar", "apellidos": "Benali", "email": "omar@example.com", "telefono": "600111222",
		"nacionalidad": "Marruecos", "nie_pasaporte": "X0000001A",
	}, &client)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Expediente
	var cf dto.CaseFileResponse
	resp = call(t, app, "operador", http.MethodPost, "/api/expedientes", map[string]any{
		"cliente_id": client.ID, "tipo_tramite_id": tramite.ID,
	}, &cf)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Regexp(t, `^\d{2}/001$`, cf.Number)
	assert.Equal(t, "pendiente_documentos", cf.Status)
	assert.Equal(t, "450", cf.AgreedPrice.String())

	var checklist []dto.CaseDocumentResponse
	call(t, app, "operador", http.MethodGet, "/api/expedientes/"+cf.ID+"/documents", nil, &checklist)
	require.Len(t, checklist, 2)
	assert.Equal(t, "Pasaporte", checklist[0].Name)

	// Marcar todo como recibido → documentos_completos
	var toggled dto.ToggleDocumentResponse
	call(t, app, "operador", http.MethodPatch, "/api/expedientes/"+cf.ID+"/documents/"+checklist[0].ID,
		map[string]any{"recibido": true}, &toggled)
	assert.False(t, toggled.AutoCompleted)
	call(t, app, "operador", http.MethodPatch, "/api/expedientes/"+cf.ID+"/documents/"+checklist[1].ID,
		map[string]any{"recibido": true}, &toggled)
	assert.True(t, toggled.AutoCompleted)
	assert.Equal(t, "documentos_completos", toggled.Status)

	// Cambio manual de estado
	var updated dto.CaseFileResponse
	resp = call(t, app, "operador", http.MethodPatch, "/api/expedientes/"+cf.ID+"/status",
		map[string]any{"estado": "presentado"}, &updated)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "presentado", updated.Status)

	var history []dto.HistoryEntryResponse
	call(t, app, "operador", http.MethodGet, "/api/expedientes/"+cf.ID+"/history", nil, &history)
	require.Len(t, history, 3)
	assert.Equal(t, "presentado", history[0].NewStatus)
	assert.Nil(t, history[2].PreviousStatus)

	// Pagos y totales
	var payment dto.PaymentResponse
	resp = call(t, app, "operador", http.MethodPost, "/api/payments", map[string]any{
		"expediente_id": cf.ID, "importe": "200.50", "metodo_pago": "bizum",
	}, &payment)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, client.ID, payment.ClientID)

	var rollup dto.RollupResponse
	call(t, app, "operador", http.MethodGet, "/api/expedientes/"+cf.ID+"/rollup", nil, &rollup)
	assert.Equal(t, "200.5", rollup.Paid.String())
	assert.Equal(t, "249.5", rollup.Pending.String())

	call(t, app, "operador", http.MethodGet, "/api/clients/"+client.ID+"/rollup", nil, &rollup)
	assert.Equal(t, "450", rollup.Agreed.String())

	// Recibo PDF
	req := httptest.NewRequest(http.MethodGet, "/api/payments/"+payment.ID+"/receipt", nil)
	req.Header.Set("Authorization", tokenForRole(t, "operador"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "recibo_")
	assert.NotContains(t, resp.Header.Get("Content-Disposition"), "/")
	pdfBytes, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(pdfBytes, []byte("%PDF")))

	// Detalle del cliente con expedientes y pagos
	var detail dto.ClientDetailResponse
	call(t, app, "operador", http.MethodGet, "/api/clients/"+client.ID, nil, &detail)
	assert.Len(t, detail.CaseFiles, 1)
	assert.Len(t, detail.Payments, 1)

	// El trámite en uso no se puede borrar
	resp = call(t, app, "admin", http.MethodDelete, "/api/tramites/"+tramite.ID, nil, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAPI_ValidacionYErrores(t *testing.T) {
	app := newTestAPI(t)

	var errBody dto.ErrorResponse
	resp := call(t, app, "operador", http.MethodPost, "/api/clients", map[string]any{"nombre": "Sin apellidos"}, &errBody)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errBody.Code)
	assert.NotEmpty(t, errBody.Fields)

	resp = call(t, app, "operador", http.MethodGet, "/api/expedientes/no-existe", nil, &errBody)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errBody.Code)

	errBody = dto.ErrorResponse{}
	resp = call(t, app, "operador", http.MethodPost, "/api/expedientes", map[string]any{
		"cliente_id": "abc", "tipo_tramite_id": "abc",
	}, &errBody)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errBody.Code)
	require.Len(t, errBody.Fields, 2)
	assert.Equal(t, "cliente_id", errBody.Fields[0].Field)

	errBody = dto.ErrorResponse{}
	resp = call(t, app, "operador", http.MethodPost, "/api/payments", map[string]any{
		"expediente_id": "abc", "importe": "10",
	}, &errBody)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NotEmpty(t, errBody.Fields)
	assert.Equal(t, "expediente_id", errBody.Fields[0].Field)

	errBody = dto.ErrorResponse{}
	resp = call(t, app, "operador", http.MethodPatch, "/api/expedientes/x/documents/y", map[string]any{}, &errBody)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "recibido", errBody.Fields[0].Field)

	req := httptest.NewRequest(http.MethodPost, "/api/clients", strings.NewReader("{no es json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, "operador"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_TramiteInactivo_NoAbreExpedientes(t *testing.T) {
	app := newTestAPI(t)

	var tramite dto.TramiteTypeResponse
	resp := call(t, app, "admin", http.MethodPost, "/api/tramites", map[string]any{
		"nombre": "Reagrupación familiar", "codigo": "REA", "precio_base": "600",
	}, &tramite)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = call(t, app, "admin", http.MethodPatch, "/api/tramites/"+tramite.ID+"/active", map[string]any{"active": false}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var client dto.ClientResponse
	resp = call(t, app, "operador", http.MethodPost, "/api/clients", map[string]any{
		"nombre": "Nadia", "apellidos": "Haddad", "email": "nadia@example.com", "telefono": "600333444",
		"nacionalidad": "Argelia", "nie_pasaporte": "Y0000002B",
	}, &client)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var errBody dto.ErrorResponse
	resp = call(t, app, "operador", http.MethodPost, "/api/expedientes", map[string]any{
		"cliente_id": client.ID, "tipo_tramite_id": tramite.ID,
	}, &errBody)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errBody.Code)
}

func TestAPI_RutasDeAdmin(t *testing.T) {
	app := newTestAPI(t)

	for _, tc := range []struct {
		method, path string
	}{
		{http.MethodGet, "/api/export"},
		{http.MethodGet, "/api/users"},
		{http.MethodPost, "/api/tramites"},
		{http.MethodPut, "/api/settings"},
		{http.MethodDelete, "/api/clients/c1"},
		{http.MethodPatch, "/api/required-documents/d1/active"},
	} {
		resp := call(t, app, "operador", tc.method, tc.path, map[string]any{}, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, tc.method+" "+tc.path)
	}

	resp := call(t, app, "admin", http.MethodGet, "/api/export", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "gestoria-export-")

	resp = call(t, app, "operador", http.MethodGet, "/api/dashboard", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPI_UsuariosYAjustes(t *testing.T) {
	app := newTestAPI(t)

	var user dto.UserResponse
	resp := call(t, app, "admin", http.MethodPost, "/api/users", map[string]any{
		"nombre": "Lucía", "email": "lucia@example.com", "role": "operador",
	}, &user)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = call(t, app, "admin", http.MethodPatch, "/api/users/"+user.ID+"/role", map[string]any{"role": "admin"}, &user)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "admin", user.Role)

	resp = call(t, app, "admin", http.MethodPatch, "/api/users/"+user.ID+"/role", map[string]any{"role": "jefe"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var st dto.SettingsResponse
	resp = call(t, app, "admin", http.MethodPut, "/api/settings", map[string]any{
		"nombre_gestoria": "Gestoría Sur", "formato_numeracion": "YY/XXX",
	}, &st)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = call(t, app, "operador", http.MethodGet, "/api/settings", nil, &st)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Gestoría Sur", st.Name)
}

func TestAPI_PerfilPropio(t *testing.T) {
	app := newTestAPI(t)

	resp := call(t, app, "operador", http.MethodGet, "/api/me", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = call(t, app, "admin", http.MethodPost, "/api/users", map[string]any{
		"id": testUserID, "nombre": "Lucía", "email": "lucia@example.com", "role": "operador",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var me dto.UserResponse
	resp = call(t, app, "operador", http.MethodPut, "/api/me", map[string]any{
		"nombre": "Lucía Gómez", "email": "lucia.gomez@example.com", "avatar_url": "https://cdn.example.com/lucia.png",
		"role": "admin",
	}, &me)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, testUserID, me.ID)
	assert.Equal(t, "Lucía Gómez", me.Name)
	assert.Equal(t, "operador", me.Role)

	resp = call(t, app, "operador", http.MethodGet, "/api/me", nil, &me)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "https://cdn.example.com/lucia.png", me.AvatarURL)

	var errBody dto.ErrorResponse
	resp = call(t, app, "operador", http.MethodPut, "/api/me", map[string]any{"nombre": "Lucía"}, &errBody)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "email", errBody.Fields[0].Field)
}
