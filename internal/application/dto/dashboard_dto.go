package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard.
type DashboardSummaryDTO struct {
	TotalClients          int              `json:"total_clients"`
	ActiveCaseFiles       int              `json:"active_expedientes"` // los cuatro estados abiertos
	PendingDocumentsFiles int              `json:"pending_documents"`  // en pendiente_documentos
	MonthlyIncome         decimal.Decimal  `json:"monthly_income"`     // pagos del mes en curso
	ByStatus              []StatusCountDTO `json:"by_status"`

	CaseFilesPerMonth []MonthValueDTO `json:"expedientes_per_month"` // últimos 6 meses
	IncomePerMonth    []MonthValueDTO `json:"income_per_month"`

	TopTramites     []TramiteCountDTO   `json:"top_tramites"`
	RecentCaseFiles []*CaseFileResponse `json:"recent_expedientes"`
	ExpiringNIE     []ExpiringNIEDTO    `json:"expiring_nie"`
	IdleCaseFiles   []*CaseFileResponse `json:"idle_expedientes"`

	DateLabel string `json:"date_label"` // ej: "Octubre 2026"
}

// StatusCountDTO expedientes por estado.
type StatusCountDTO struct {
	Status string `json:"estado"`
	Count  int    `json:"count"`
}

// MonthValueDTO serie mensual; Month en formato YYYY-MM.
type MonthValueDTO struct {
	Month string          `json:"month"`
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// TramiteCountDTO uso de un tipo de trámite.
type TramiteCountDTO struct {
	TramiteTypeID string `json:"tipo_tramite_id"`
	Name          string `json:"nombre"`
	Count         int    `json:"count"`
}

// ExpiringNIEDTO cliente con NIE próximo a vencer.
type ExpiringNIEDTO struct {
	ClientID       string `json:"cliente_id"`
	Name           string `json:"nombre"`
	DocumentNumber string `json:"nie_pasaporte"`
	ExpiresOn      string `json:"fecha_vencimiento_nie"`
	DaysLeft       int    `json:"dias_restantes"`
}
