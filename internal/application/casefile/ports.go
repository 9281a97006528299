package casefile

import (
	"context"

	"github.com/jhoicas/gestoria-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con los repos del expediente atados a ella.
// Si fn devuelve error no se confirma nada.
type TxRunner interface {
	RunCaseFile(ctx context.Context, fn func(
		caseRepo repository.CaseFileRepository,
		docRepo repository.CaseDocumentRepository,
		historyRepo repository.StatusHistoryRepository,
	) error) error
}
