package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/gestoria-api/internal/domain"
	"github.com/jhoicas/gestoria-api/internal/domain/entity"
	"github.com/jhoicas/gestoria-api/internal/domain/repository"
)

var (
	_ repository.CaseDocumentRepository  = (*CaseDocumentRepo)(nil)
	_ repository.StatusHistoryRepository = (*StatusHistoryRepo)(nil)
)

// CaseDocumentRepo checklist de expedientes (tabla expediente_documentos).
type CaseDocumentRepo struct {
	q Querier
}

// NewCaseDocumentRepository construye el adaptador.
func NewCaseDocumentRepository(q Querier) *CaseDocumentRepo {
	return &CaseDocumentRepo{q: q}
}

const caseDocumentSelect = `
	SELECT ed.id, ed.expediente_id, ed.documento_requerido_id, ed.estado_documento, ed.fecha_recibido, ed.created_at,
		dr.nombre_documento, COALESCE(dr.descripcion, ''), dr.orden
	FROM expediente_documentos ed
	JOIN documentos_requeridos dr ON dr.id = ed.documento_requerido_id`

func scanCaseDocument(row pgx.Row) (*entity.CaseDocument, error) {
	var d entity.CaseDocument
	var status string
	err := row.Scan(&d.ID, &d.CaseFileID, &d.RequiredDocumentID, &status, &d.ReceivedAt, &d.CreatedAt,
		&d.Name, &d.Description, &d.Order)
	if err != nil {
		return nil, err
	}
	d.Status = entity.DocumentStatus(status)
	return &d, nil
}

// CreateBatch inserta el checklist en un único pgx.Batch.
func (r *CaseDocumentRepo) CreateBatch(ctx context.Context, docs []*entity.CaseDocument) error {
	if len(docs) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, d := range docs {
		batch.Queue(`
			INSERT INTO expediente_documentos (id, expediente_id, documento_requerido_id, estado_documento, fecha_recibido, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			d.ID, d.CaseFileID, d.RequiredDocumentID, string(d.Status), dateOnly(d.ReceivedAt), d.CreatedAt)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for range docs {
		if _, err := br.Exec(); err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			if isForeignKeyViolation(err) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("insert case documents: %w", err)
		}
	}
	return nil
}

func (r *CaseDocumentRepo) GetByID(ctx context.Context, id string) (*entity.CaseDocument, error) {
	d, err := scanCaseDocument(r.q.QueryRow(ctx, caseDocumentSelect+` WHERE ed.id = $1`, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get case document: %w", err)
	}
	return d, nil
}

// ListByCaseFile en el orden de la plantilla.
func (r *CaseDocumentRepo) ListByCaseFile(ctx context.Context, caseFileID string) ([]*entity.CaseDocument, error) {
	rows, err := r.q.Query(ctx, caseDocumentSelect+` WHERE ed.expediente_id = $1 ORDER BY dr.orden, ed.created_at`, caseFileID)
	if err != nil {
		return nil, fmt.Errorf("list case documents: %w", err)
	}
	defer rows.Close()
	var list []*entity.CaseDocument
	for rows.Next() {
		d, err := scanCaseDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan case document: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

func (r *CaseDocumentRepo) UpdateStatus(ctx context.Context, doc *entity.CaseDocument) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE expediente_documentos SET estado_documento = $2, fecha_recibido = $3 WHERE id = $1`,
		doc.ID, string(doc.Status), dateOnly(doc.ReceivedAt))
	if err != nil {
		if isInvalidTextRepresentation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update case document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// StatusHistoryRepo historial de estados (tabla historial_estados). Solo inserción.
type StatusHistoryRepo struct {
	q Querier
}

// NewStatusHistoryRepository construye el adaptador.
func NewStatusHistoryRepository(q Querier) *StatusHistoryRepo {
	return &StatusHistoryRepo{q: q}
}

func (r *StatusHistoryRepo) Append(ctx context.Context, e *entity.StatusHistoryEntry) error {
	var prev *string
	if e.PreviousStatus != nil {
		s := string(*e.PreviousStatus)
		prev = &s
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO historial_estados (id, expediente_id, estado_anterior, estado_nuevo, fecha_cambio, usuario_id)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.CaseFileID, prev, string(e.NewStatus), e.ChangedAt, e.UserID)
	if err != nil {
		return fmt.Errorf("insert status history: %w", err)
	}
	return nil
}

// ListByCaseFile de la más reciente a la más antigua.
func (r *StatusHistoryRepo) ListByCaseFile(ctx context.Context, caseFileID string) ([]*entity.StatusHistoryEntry, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, expediente_id, estado_anterior, estado_nuevo, fecha_cambio, usuario_id::text
		FROM historial_estados WHERE expediente_id = $1
		ORDER BY fecha_cambio DESC, seq DESC`, caseFileID)
	if err != nil {
		return nil, fmt.Errorf("list status history: %w", err)
	}
	defer rows.Close()
	var list []*entity.StatusHistoryEntry
	for rows.Next() {
		var e entity.StatusHistoryEntry
		var prev *string
		var next string
		if err := rows.Scan(&e.ID, &e.CaseFileID, &prev, &next, &e.ChangedAt, &e.UserID); err != nil {
			return nil, fmt.Errorf("scan status history: %w", err)
		}
		if prev != nil {
			st := entity.CaseStatus(*prev)
			e.PreviousStatus = &st
		}
		e.NewStatus = entity.CaseStatus(next)
		list = append(list, &e)
	}
	return list, rows.Err()
}
