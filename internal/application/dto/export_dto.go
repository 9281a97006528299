package dto

import "time"

// ExportDTO volcado completo en JSON. No es un formato de backup versionado.
type ExportDTO struct {
	ExportedAt   time.Time              `json:"exported_at"`
	Clients      []*ClientResponse      `json:"clients"`
	CaseFiles    []*CaseFileResponse    `json:"expedientes"`
	Payments     []*PaymentResponse     `json:"payments"`
	TramiteTypes []*TramiteTypeResponse `json:"tipos_tramite"`
}
