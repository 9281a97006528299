package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/gestoria-api/internal/application/dto"
	"github.com/jhoicas/gestoria-api/internal/domain/repository"
)

// ExportUseCase volcado completo de clientes, expedientes, pagos y catálogo.
type ExportUseCase struct {
	clients   repository.ClientRepository
	caseFiles repository.CaseFileRepository
	payments  repository.PaymentRepository
	tramites  repository.TramiteTypeRepository
	now       func() time.Time
}

// NewExportUseCase construye el caso de uso.
func NewExportUseCase(
	clients repository.ClientRepository,
	caseFiles repository.CaseFileRepository,
	payments repository.PaymentRepository,
	tramites repository.TramiteTypeRepository,
) *ExportUseCase {
	return &ExportUseCase{clients: clients, caseFiles: caseFiles, payments: payments, tramites: tramites, now: time.Now}
}

// Export lee todas las tablas y arma el documento.
func (uc *ExportUseCase) Export(ctx context.Context) (*dto.ExportDTO, error) {
	clients, err := uc.clients.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("export: clientes: %w", err)
	}
	files, err := uc.caseFiles.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("export: expedientes: %w", err)
	}
	payments, err := uc.payments.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("export: pagos: %w", err)
	}
	types, err := uc.tramites.List(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("export: tipos de trámite: %w", err)
	}

	out := &dto.ExportDTO{
		ExportedAt:   uc.now().UTC(),
		Clients:      make([]*dto.ClientResponse, 0, len(clients)),
		CaseFiles:    make([]*dto.CaseFileResponse, 0, len(files)),
		Payments:     dto.NewPaymentList(payments),
		TramiteTypes: make([]*dto.TramiteTypeResponse, 0, len(types)),
	}
	for _, c := range clients {
		out.Clients = append(out.Clients, dto.NewClientResponse(c))
	}
	for _, cf := range files {
		out.CaseFiles = append(out.CaseFiles, dto.NewCaseFileResponse(cf))
	}
	for _, t := range types {
		out.TramiteTypes = append(out.TramiteTypes, dto.NewTramiteTypeResponse(t))
	}
	return out, nil
}

// ExportFilename nombre del adjunto: gestoria-export-YYYY-MM-DD.json.
func ExportFilename(t time.Time) string {
	return "gestoria-export-" + t.Format(dto.DateLayout) + ".json"
}
