package casefile

import (
	"time"

	"github.com/jhoicas/gestoria-api/internal/domain"
	"github.com/jhoicas/gestoria-api/internal/domain/entity"
)

// Policy decisiones configurables del ciclo de vida.
type Policy struct {
	// AutoAdvanceEmptyChecklist: un expediente sin documentos requeridos pasa a documentos_completos al crearse.
	AutoAdvanceEmptyChecklist bool
	// RecordSameStatus: fijar el mismo estado que ya tiene también deja entrada en el historial.
	RecordSameStatus bool
}

// DefaultPolicy reproduce el comportamiento histórico: sin auto-avance y registrando siempre.
func DefaultPolicy() Policy {
	return Policy{AutoAdvanceEmptyChecklist: false, RecordSameStatus: true}
}

// ShouldRecord indica si la transición current -> next debe escribirse.
func (p Policy) ShouldRecord(current, next entity.CaseStatus) bool {
	return current != next || p.RecordSameStatus
}

// ValidStatus comprueba que el estado pertenezca al enum.
func ValidStatus(s entity.CaseStatus) bool {
	for _, st := range entity.AllStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// ParseStatus convierte el texto recibido en un estado válido.
func ParseStatus(s string) (entity.CaseStatus, error) {
	st := entity.CaseStatus(s)
	if !ValidStatus(st) {
		return "", domain.ErrInvalidStatus
	}
	return st, nil
}

// IsActive indica si el estado corresponde a un expediente abierto.
func IsActive(s entity.CaseStatus) bool {
	for _, st := range entity.ActiveStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// AllReceived es verdadero si todos los documentos están recibidos (también con checklist vacío).
func AllReceived(docs []*entity.CaseDocument) bool {
	for _, d := range docs {
		if !d.Received() {
			return false
		}
	}
	return true
}

// ShouldAutoComplete aplica la regla de transición automática: todo recibido y estado exactamente pendiente_documentos.
func ShouldAutoComplete(current entity.CaseStatus, docs []*entity.CaseDocument) bool {
	return current == entity.StatusPendingDocuments && AllReceived(docs)
}

// Transition cambia el estado del expediente y devuelve la entrada de historial (sin ID).
// userID vacío se registra como NULL.
func Transition(cf *entity.CaseFile, next entity.CaseStatus, userID string, now time.Time) *entity.StatusHistoryEntry {
	prev := cf.Status
	cf.Status = next
	cf.UpdatedAt = now
	entry := &entity.StatusHistoryEntry{
		CaseFileID: cf.ID,
		NewStatus:  next,
		ChangedAt:  now,
	}
	if prev != "" {
		entry.PreviousStatus = &prev
	}
	if userID != "" {
		uid := userID
		entry.UserID = &uid
	}
	return entry
}

// SeedChecklist crea los ítems pendientes del checklist a partir de los documentos requeridos activos.
func SeedChecklist(caseFileID string, templates []*entity.RequiredDocument, now time.Time) []*entity.CaseDocument {
	docs := make([]*entity.CaseDocument, 0, len(templates))
	for _, t := range templates {
		if !t.Active {
			continue
		}
		docs = append(docs, &entity.CaseDocument{
			CaseFileID:         caseFileID,
			RequiredDocumentID: t.ID,
			Status:             entity.DocumentPending,
			CreatedAt:          now,
			Name:               t.Name,
			Description:        t.Description,
			Order:              t.Order,
		})
	}
	return docs
}
