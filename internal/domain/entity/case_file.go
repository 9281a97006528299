package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CaseStatus estado de un expediente. Los valores coinciden con la columna expedientes.estado.
type CaseStatus string

const (
	StatusPendingDocuments  CaseStatus = "pendiente_documentos"
	StatusDocumentsComplete CaseStatus = "documentos_completos"
	StatusSubmitted         CaseStatus = "presentado"
	StatusInProcess         CaseStatus = "en_tramite"
	StatusApproved          CaseStatus = "aprobado"
	StatusDenied            CaseStatus = "denegado"
	StatusArchived          CaseStatus = "archivado"
)

// AllStatuses en el orden natural del ciclo de vida.
var AllStatuses = []CaseStatus{
	StatusPendingDocuments,
	StatusDocumentsComplete,
	StatusSubmitted,
	StatusInProcess,
	StatusApproved,
	StatusDenied,
	StatusArchived,
}

// ActiveStatuses estados en los que el expediente sigue abierto.
var ActiveStatuses = []CaseStatus{
	StatusPendingDocuments,
	StatusDocumentsComplete,
	StatusSubmitted,
	StatusInProcess,
}

// CaseFile expediente de un cliente para un tipo de trámite.
// Number es inmutable una vez asignado.
type CaseFile struct {
	ID             string
	Number         string // YY/NNN
	OfficialNumber string // asignado por la administración
	ClientID       string
	TramiteTypeID  string
	StartDate      time.Time
	SubmissionDate *time.Time
	AgreedPrice    decimal.Decimal
	Notes          string
	Status         CaseStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CaseFileView expediente con los nombres de cliente y trámite ya resueltos (listados y detalle).
type CaseFileView struct {
	CaseFile
	ClientName  string
	TramiteName string
}
