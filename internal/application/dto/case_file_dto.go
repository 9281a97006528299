package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCaseFileRequest entrada para abrir un expediente.
// Si AgreedPrice es nil se usa el precio base del trámite; si StartDate está vacío, hoy.
type CreateCaseFileRequest struct {
	ClientID      string           `json:"cliente_id" validate:"required,uuid"`
	TramiteTypeID string           `json:"tipo_tramite_id" validate:"required,uuid"`
	StartDate     string           `json:"fecha_inicio" validate:"omitempty,datetime=2006-01-02"`
	AgreedPrice   *decimal.Decimal `json:"precio_acordado"`
	Notes         string           `json:"observaciones" validate:"max=5000"`
}

// UpdateCaseFileRequest campos editables de un expediente (nunca número ni estado).
type UpdateCaseFileRequest struct {
	OfficialNumber *string          `json:"numero_expediente_oficial" validate:"omitempty,max=100"`
	StartDate      *string          `json:"fecha_inicio" validate:"omitempty,datetime=2006-01-02"`
	SubmissionDate *string          `json:"fecha_presentacion" validate:"omitempty,datetime=2006-01-02"`
	AgreedPrice    *decimal.Decimal `json:"precio_acordado"`
	Notes          *string          `json:"observaciones" validate:"omitempty,max=5000"`
}

// SetStatusRequest cambio manual de estado.
type SetStatusRequest struct {
	Status string `json:"estado" validate:"required"`
}

// ToggleDocumentRequest marca un documento como recibido o pendiente.
type ToggleDocumentRequest struct {
	Received *bool `json:"recibido" validate:"required"`
}

// CaseFileFilterRequest filtros de listado (query string).
type CaseFileFilterRequest struct {
	PageRequest
	Status   string `query:"estado"`
	ClientID string `query:"cliente_id"`
	Query    string `query:"q"`
}

// CaseFileResponse salida de un expediente.
type CaseFileResponse struct {
	ID             string          `json:"id"`
	Number         string          `json:"numero_expediente"`
	OfficialNumber string          `json:"numero_expediente_oficial"`
	ClientID       string          `json:"cliente_id"`
	ClientName     string          `json:"cliente_nombre,omitempty"`
	TramiteTypeID  string          `json:"tipo_tramite_id"`
	TramiteName    string          `json:"tipo_tramite_nombre,omitempty"`
	StartDate      time.Time       `json:"fecha_inicio"`
	SubmissionDate *time.Time      `json:"fecha_presentacion"`
	AgreedPrice    decimal.Decimal `json:"precio_acordado"`
	Notes          string          `json:"observaciones"`
	Status         string          `json:"estado"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CaseFileListResponse página de expedientes.
type CaseFileListResponse struct {
	Items []*CaseFileResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}

// CaseFileDetailResponse expediente con checklist, historial, pagos y totales.
type CaseFileDetailResponse struct {
	CaseFile  *CaseFileResponse       `json:"expediente"`
	Documents []*CaseDocumentResponse `json:"documents"`
	History   []*HistoryEntryResponse `json:"history"`
	Payments  []*PaymentResponse      `json:"payments"`
	Rollup    *RollupResponse         `json:"rollup"`
}

// CaseDocumentResponse ítem del checklist.
type CaseDocumentResponse struct {
	ID                 string     `json:"id"`
	RequiredDocumentID string     `json:"documento_requerido_id"`
	Name               string     `json:"nombre_documento"`
	Description        string     `json:"descripcion"`
	Order              int        `json:"orden"`
	Status             string     `json:"estado_documento"`
	ReceivedAt         *time.Time `json:"fecha_recibido"`
}

// ToggleDocumentResponse documento actualizado y estado resultante del expediente.
type ToggleDocumentResponse struct {
	Document      *CaseDocumentResponse `json:"document"`
	Status        string                `json:"estado"`
	AutoCompleted bool                  `json:"auto_completed"`
}

// HistoryEntryResponse entrada del historial de estados.
type HistoryEntryResponse struct {
	ID             string    `json:"id"`
	PreviousStatus *string   `json:"estado_anterior"`
	NewStatus      string    `json:"estado_nuevo"`
	ChangedAt      time.Time `json:"fecha_cambio"`
	UserID         *string   `json:"usuario_id"`
}
