// Package casefile orquesta el ciclo de vida de los expedientes: alta con número y checklist,
// cambios de estado con historial y la transición automática al completar documentos.
package casefile

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestoria-api/internal/application/dto"
	"github.com/jhoicas/gestoria-api/internal/domain"
	casedomain "github.com/jhoicas/gestoria-api/internal/domain/casefile"
	"github.com/jhoicas/gestoria-api/internal/domain/entity"
	"github.com/jhoicas/gestoria-api/internal/domain/finance"
	"github.com/jhoicas/gestoria-api/internal/domain/repository"
)

// UseCase casos de uso de expedientes.
type UseCase struct {
	tx           TxRunner
	caseFiles    repository.CaseFileRepository
	documents    repository.CaseDocumentRepository
	history      repository.StatusHistoryRepository
	clients      repository.ClientRepository
	tramites     repository.TramiteTypeRepository
	requiredDocs repository.RequiredDocumentRepository
	payments     repository.PaymentRepository
	policy       casedomain.Policy
	now          func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	tx TxRunner,
	caseFiles repository.CaseFileRepository,
	documents repository.CaseDocumentRepository,
	history repository.StatusHistoryRepository,
	clients repository.ClientRepository,
	tramites repository.TramiteTypeRepository,
	requiredDocs repository.RequiredDocumentRepository,
	payments repository.PaymentRepository,
	policy casedomain.Policy,
) *UseCase {
	return &UseCase{
		tx:           tx,
		caseFiles:    caseFiles,
		documents:    documents,
		history:      history,
		clients:      clients,
		tramites:     tramites,
		requiredDocs: requiredDocs,
		payments:     payments,
		policy:       policy,
		now:          time.Now,
	}
}

// WithClock sustituye el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// Create abre un expediente: número YY/NNN, checklist con los documentos activos del trámite
// y entrada inicial del historial, todo en una transacción.
func (uc *UseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateCaseFileRequest) (*dto.CaseFileResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	client, err := uc.clients.GetByID(ctx, in.ClientID)
	if err != nil {
		return nil, fmt.Errorf("obtener cliente: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("cliente %s: %w", in.ClientID, domain.ErrNotFound)
	}
	tramite, err := uc.tramites.GetByID(ctx, in.TramiteTypeID)
	if err != nil {
		return nil, fmt.Errorf("obtener tipo de trámite: %w", err)
	}
	if tramite == nil {
		return nil, fmt.Errorf("tipo de trámite %s: %w", in.TramiteTypeID, domain.ErrNotFound)
	}
	if !tramite.Active {
		return nil, fmt.Errorf("tipo de trámite %s inactivo: %w", tramite.ID, domain.ErrInvalidInput)
	}

	now := uc.now()
	startDate := dto.Today(now)
	if d, err := dto.ParseDate(in.StartDate); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	} else if d != nil {
		startDate = *d
	}
	agreed := tramite.BasePrice
	if in.AgreedPrice != nil {
		if in.AgreedPrice.IsNegative() {
			return nil, fmt.Errorf("precio acordado negativo: %w", domain.ErrInvalidInput)
		}
		agreed = *in.AgreedPrice
	}

	templates, err := uc.requiredDocs.ListByTramiteType(ctx, tramite.ID, true)
	if err != nil {
		return nil, fmt.Errorf("documentos requeridos: %w", err)
	}

	cf := &entity.CaseFile{
		ID:            uuid.New().String(),
		ClientID:      client.ID,
		TramiteTypeID: tramite.ID,
		StartDate:     startDate,
		AgreedPrice:   agreed,
		Notes:         in.Notes,
		CreatedAt:     now,
	}

	err = uc.tx.RunCaseFile(ctx, func(
		caseRepo repository.CaseFileRepository,
		docRepo repository.CaseDocumentRepository,
		historyRepo repository.StatusHistoryRepository,
	) error {
		number, err := caseRepo.NextNumber(ctx, now.Year())
		if err != nil {
			return fmt.Errorf("numerar expediente: %w", err)
		}
		cf.Number = number

		initial := casedomain.Transition(cf, entity.StatusPendingDocuments, actor.UserID, now)
		initial.ID = uuid.New().String()
		if err := caseRepo.Create(ctx, cf); err != nil {
			return err
		}

		docs := casedomain.SeedChecklist(cf.ID, templates, now)
		for _, d := range docs {
			d.ID = uuid.New().String()
		}
		if len(docs) > 0 {
			if err := docRepo.CreateBatch(ctx, docs); err != nil {
				return fmt.Errorf("checklist: %w", err)
			}
		}
		if err := historyRepo.Append(ctx, initial); err != nil {
			return fmt.Errorf("historial inicial: %w", err)
		}

		if len(docs) == 0 && uc.policy.AutoAdvanceEmptyChecklist {
			if _, err := uc.transition(ctx, caseRepo, historyRepo, cf, entity.StatusDocumentsComplete, actor, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := dto.NewCaseFileResponse(cf)
	out.ClientName = client.FullName()
	out.TramiteName = tramite.Name
	return out, nil
}

// SetStatus cambio manual de estado. La actualización y la entrada de historial son atómicas.
func (uc *UseCase) SetStatus(ctx context.Context, actor entity.Actor, caseFileID, status string) (*dto.CaseFileResponse, error) {
	next, err := casedomain.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	var cf *entity.CaseFile
	err = uc.tx.RunCaseFile(ctx, func(
		caseRepo repository.CaseFileRepository,
		_ repository.CaseDocumentRepository,
		historyRepo repository.StatusHistoryRepository,
	) error {
		var err error
		cf, err = lockCaseFile(ctx, caseRepo, caseFileID)
		if err != nil {
			return err
		}
		_, err = uc.transition(ctx, caseRepo, historyRepo, cf, next, actor, uc.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return dto.NewCaseFileResponse(cf), nil
}

// ToggleDocument marca un documento como recibido o pendiente. Si tras marcarlo recibido todos
// lo están y el expediente sigue en pendiente_documentos, pasa a documentos_completos.
// Volver a pendiente nunca revierte el estado del expediente.
func (uc *UseCase) ToggleDocument(ctx context.Context, actor entity.Actor, caseFileID, documentID string, received bool) (*dto.ToggleDocumentResponse, error) {
	var (
		doc  *entity.CaseDocument
		cf   *entity.CaseFile
		auto bool
	)
	err := uc.tx.RunCaseFile(ctx, func(
		caseRepo repository.CaseFileRepository,
		docRepo repository.CaseDocumentRepository,
		historyRepo repository.StatusHistoryRepository,
	) error {
		var err error
		cf, err = lockCaseFile(ctx, caseRepo, caseFileID)
		if err != nil {
			return err
		}
		doc, err = docRepo.GetByID(ctx, documentID)
		if err != nil {
			return fmt.Errorf("obtener documento: %w", err)
		}
		if doc == nil || doc.CaseFileID != cf.ID {
			return fmt.Errorf("documento %s: %w", documentID, domain.ErrNotFound)
		}

		now := uc.now()
		if received {
			day := dto.Today(now)
			doc.Status = entity.DocumentReceived
			doc.ReceivedAt = &day
		} else {
			doc.Status = entity.DocumentPending
			doc.ReceivedAt = nil
		}
		if err := docRepo.UpdateStatus(ctx, doc); err != nil {
			return fmt.Errorf("actualizar documento: %w", err)
		}
		if !received {
			return nil
		}

		docs, err := docRepo.ListByCaseFile(ctx, cf.ID)
		if err != nil {
			return fmt.Errorf("checklist: %w", err)
		}
		if casedomain.ShouldAutoComplete(cf.Status, docs) {
			auto, err = uc.transition(ctx, caseRepo, historyRepo, cf, entity.StatusDocumentsComplete, actor, now)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.ToggleDocumentResponse{
		Document:      dto.NewCaseDocumentResponse(doc),
		Status:        string(cf.Status),
		AutoCompleted: auto,
	}, nil
}

// transition aplica el cambio y escribe el historial con los repos de la transacción en curso.
// Devuelve false si la política descarta el cambio (mismo estado sin registro).
func (uc *UseCase) transition(
	ctx context.Context,
	caseRepo repository.CaseFileRepository,
	historyRepo repository.StatusHistoryRepository,
	cf *entity.CaseFile,
	next entity.CaseStatus,
	actor entity.Actor,
	now time.Time,
) (bool, error) {
	if !uc.policy.ShouldRecord(cf.Status, next) {
		return false, nil
	}
	entry := casedomain.Transition(cf, next, actor.UserID, now)
	entry.ID = uuid.New().String()
	if err := caseRepo.UpdateStatus(ctx, cf); err != nil {
		return false, fmt.Errorf("actualizar estado: %w", err)
	}
	if err := historyRepo.Append(ctx, entry); err != nil {
		return false, fmt.Errorf("historial: %w", err)
	}
	return true, nil
}

func lockCaseFile(ctx context.Context, caseRepo repository.CaseFileRepository, id string) (*entity.CaseFile, error) {
	cf, err := caseRepo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener expediente: %w", err)
	}
	if cf == nil {
		return nil, fmt.Errorf("expediente %s: %w", id, domain.ErrNotFound)
	}
	return cf, nil
}

// Get devuelve un expediente con nombres de cliente y trámite.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.CaseFileResponse, error) {
	v, err := uc.getView(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewCaseFileViewResponse(v), nil
}

func (uc *UseCase) getView(ctx context.Context, id string) (*entity.CaseFileView, error) {
	v, err := uc.caseFiles.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener expediente: %w", err)
	}
	if v == nil {
		return nil, fmt.Errorf("expediente %s: %w", id, domain.ErrNotFound)
	}
	return v, nil
}

// Detail devuelve el expediente con checklist, historial, pagos y totales.
// Las tres lecturas dependientes se lanzan en paralelo.
func (uc *UseCase) Detail(ctx context.Context, id string) (*dto.CaseFileDetailResponse, error) {
	v, err := uc.getView(ctx, id)
	if err != nil {
		return nil, err
	}

	type docsResult struct {
		docs []*entity.CaseDocument
		err  error
	}
	type historyResult struct {
		entries []*entity.StatusHistoryEntry
		err     error
	}
	type paymentsResult struct {
		payments []*entity.Payment
		err      error
	}
	docsCh := make(chan docsResult, 1)
	historyCh := make(chan historyResult, 1)
	paymentsCh := make(chan paymentsResult, 1)

	go func() {
		docs, err := uc.documents.ListByCaseFile(ctx, id)
		docsCh <- docsResult{docs, err}
	}()
	go func() {
		entries, err := uc.history.ListByCaseFile(ctx, id)
		historyCh <- historyResult{entries, err}
	}()
	go func() {
		payments, _, err := uc.payments.List(ctx, repository.PaymentFilter{CaseFileID: id})
		paymentsCh <- paymentsResult{payments, err}
	}()

	docs := <-docsCh
	hist := <-historyCh
	pays := <-paymentsCh
	if docs.err != nil {
		return nil, fmt.Errorf("detalle: checklist: %w", docs.err)
	}
	if hist.err != nil {
		return nil, fmt.Errorf("detalle: historial: %w", hist.err)
	}
	if pays.err != nil {
		return nil, fmt.Errorf("detalle: pagos: %w", pays.err)
	}

	out := &dto.CaseFileDetailResponse{
		CaseFile:  dto.NewCaseFileViewResponse(v),
		Documents: make([]*dto.CaseDocumentResponse, 0, len(docs.docs)),
		History:   make([]*dto.HistoryEntryResponse, 0, len(hist.entries)),
		Payments:  dto.NewPaymentList(pays.payments),
		Rollup:    dto.NewRollupResponse(finance.Rollup(v.AgreedPrice, amounts(pays.payments))),
	}
	for _, d := range docs.docs {
		out.Documents = append(out.Documents, dto.NewCaseDocumentResponse(d))
	}
	for _, e := range hist.entries {
		out.History = append(out.History, dto.NewHistoryEntryResponse(e))
	}
	return out, nil
}

func amounts(payments []*entity.Payment) []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(payments))
	for _, p := range payments {
		out = append(out, p.Amount)
	}
	return out
}

// List lista expedientes con filtros y paginación.
func (uc *UseCase) List(ctx context.Context, in dto.CaseFileFilterRequest) (*dto.CaseFileListResponse, error) {
	in.DefaultPage()
	filter := repository.CaseFileFilter{
		ClientID: in.ClientID,
		Query:    in.Query,
		Limit:    in.Limit,
		Offset:   in.Offset,
	}
	if in.Status != "" {
		st, err := casedomain.ParseStatus(in.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = st
	}
	list, total, err := uc.caseFiles.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listar expedientes: %w", err)
	}
	return &dto.CaseFileListResponse{
		Items: dto.NewCaseFileViewList(list),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// Update modifica los campos editables. El número y el estado no se tocan aquí.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.UpdateCaseFileRequest) (*dto.CaseFileResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	v, err := uc.getView(ctx, id)
	if err != nil {
		return nil, err
	}
	cf := v.CaseFile
	if in.OfficialNumber != nil {
		cf.OfficialNumber = *in.OfficialNumber
	}
	if in.StartDate != nil {
		d, err := dto.ParseDate(*in.StartDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
		if d != nil {
			cf.StartDate = *d
		}
	}
	if in.SubmissionDate != nil {
		d, err := dto.ParseDate(*in.SubmissionDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
		cf.SubmissionDate = d
	}
	if in.AgreedPrice != nil {
		if in.AgreedPrice.IsNegative() {
			return nil, fmt.Errorf("precio acordado negativo: %w", domain.ErrInvalidInput)
		}
		cf.AgreedPrice = *in.AgreedPrice
	}
	if in.Notes != nil {
		cf.Notes = *in.Notes
	}
	cf.UpdatedAt = uc.now()
	if err := uc.caseFiles.Update(ctx, &cf); err != nil {
		return nil, fmt.Errorf("actualizar expediente: %w", err)
	}
	out := dto.NewCaseFileResponse(&cf)
	out.ClientName = v.ClientName
	out.TramiteName = v.TramiteName
	return out, nil
}

// Delete elimina el expediente con su checklist, historial y pagos.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.getView(ctx, id); err != nil {
		return err
	}
	if err := uc.caseFiles.Delete(ctx, id); err != nil {
		return fmt.Errorf("eliminar expediente: %w", err)
	}
	return nil
}

// Documents devuelve el checklist ordenado por el orden de la plantilla.
func (uc *UseCase) Documents(ctx context.Context, id string) ([]*dto.CaseDocumentResponse, error) {
	if _, err := uc.getView(ctx, id); err != nil {
		return nil, err
	}
	docs, err := uc.documents.ListByCaseFile(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("checklist: %w", err)
	}
	out := make([]*dto.CaseDocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, dto.NewCaseDocumentResponse(d))
	}
	return out, nil
}

// History devuelve el historial de estados, el cambio más reciente primero.
func (uc *UseCase) History(ctx context.Context, id string) ([]*dto.HistoryEntryResponse, error) {
	if _, err := uc.getView(ctx, id); err != nil {
		return nil, err
	}
	entries, err := uc.history.ListByCaseFile(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("historial: %w", err)
	}
	out := make([]*dto.HistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.NewHistoryEntryResponse(e))
	}
	return out, nil
}
