package entity

import "time"

// DocumentStatus estado de un documento del checklist.
type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "pendiente"
	DocumentReceived DocumentStatus = "recibido"
)

// CaseDocument ítem del checklist de un expediente. Único por (expediente, documento requerido).
type CaseDocument struct {
	ID                 string
	CaseFileID         string
	RequiredDocumentID string
	Status             DocumentStatus
	ReceivedAt         *time.Time
	CreatedAt          time.Time

	// Solo lectura, resueltos desde documentos_requeridos.
	Name        string
	Description string
	Order       int
}

// Received indica si el documento ya fue entregado.
func (d *CaseDocument) Received() bool { return d.Status == DocumentReceived }
