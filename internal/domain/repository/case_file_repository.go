package repository

import (
	"context"

	"github.com/jhoicas/gestoria-api/internal/domain/entity"
)

// MaxCaseFilesPerClient tope de expedientes de un cliente leídos de una vez (ficha y totales).
const MaxCaseFilesPerClient = 10000

// CaseFileFilter filtros del listado de expedientes. Query busca en número y nombre del cliente.
type CaseFileFilter struct {
	Status   entity.CaseStatus
	ClientID string
	Query    string
	Limit    int
	Offset   int
}

// CaseFileRepository define el puerto de persistencia para expedientes.
type CaseFileRepository interface {
	// NextNumber reserva el siguiente número "YY/NNN" del año. Debe llamarse dentro de la
	// misma transacción que Create: la reserva se serializa por año hasta el commit.
	NextNumber(ctx context.Context, year int) (string, error)
	Create(ctx context.Context, cf *entity.CaseFile) error
	GetByID(ctx context.Context, id string) (*entity.CaseFileView, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.CaseFile, error)
	List(ctx context.Context, filter CaseFileFilter) ([]*entity.CaseFileView, int, error)
	ListAll(ctx context.Context) ([]*entity.CaseFile, error)
	// Update persiste los campos editables; nunca el número ni el estado.
	Update(ctx context.Context, cf *entity.CaseFile) error
	UpdateStatus(ctx context.Context, cf *entity.CaseFile) error
	Delete(ctx context.Context, id string) error
}

// CaseDocumentRepository checklist de documentos de cada expediente.
type CaseDocumentRepository interface {
	CreateBatch(ctx context.Context, docs []*entity.CaseDocument) error
	GetByID(ctx context.Context, id string) (*entity.CaseDocument, error)
	ListByCaseFile(ctx context.Context, caseFileID string) ([]*entity.CaseDocument, error)
	UpdateStatus(ctx context.Context, doc *entity.CaseDocument) error
}

// StatusHistoryRepository historial de estados, solo inserción.
type StatusHistoryRepository interface {
	Append(ctx context.Context, entry *entity.StatusHistoryEntry) error
	// ListByCaseFile devuelve las entradas de la más reciente a la más antigua.
	ListByCaseFile(ctx context.Context, caseFileID string) ([]*entity.StatusHistoryEntry, error)
}
