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
	_ repository.TramiteTypeRepository      = (*TramiteTypeRepo)(nil)
	_ repository.RequiredDocumentRepository = (*RequiredDocumentRepo)(nil)
)

// TramiteTypeRepo catálogo de tipos de trámite (tabla tipos_tramite).
type TramiteTypeRepo struct {
	q Querier
}

// NewTramiteTypeRepository construye el adaptador.
func NewTramiteTypeRepository(q Querier) *TramiteTypeRepo {
	return &TramiteTypeRepo{q: q}
}

const tramiteColumns = `id, nombre, codigo, precio_base, active, created_at, updated_at`

func scanTramite(row pgx.Row) (*entity.TramiteType, error) {
	var t entity.TramiteType
	if err := row.Scan(&t.ID, &t.Name, &t.Code, &t.BasePrice, &t.Active, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TramiteTypeRepo) Create(ctx context.Context, t *entity.TramiteType) error {
	query := `INSERT INTO tipos_tramite (` + tramiteColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, t.ID, t.Name, t.Code, t.BasePrice, t.Active, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert tramite type: %w", err)
	}
	return nil
}

func (r *TramiteTypeRepo) GetByID(ctx context.Context, id string) (*entity.TramiteType, error) {
	t, err := scanTramite(r.q.QueryRow(ctx, `SELECT `+tramiteColumns+` FROM tipos_tramite WHERE id = $1`, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tramite type: %w", err)
	}
	return t, nil
}

// List ordenado por nombre.
func (r *TramiteTypeRepo) List(ctx context.Context, onlyActive bool) ([]*entity.TramiteType, error) {
	query := `SELECT ` + tramiteColumns + ` FROM tipos_tramite`
	if onlyActive {
		query += ` WHERE active`
	}
	rows, err := r.q.Query(ctx, query+` ORDER BY nombre`)
	if err != nil {
		return nil, fmt.Errorf("list tramite types: %w", err)
	}
	defer rows.Close()
	var list []*entity.TramiteType
	for rows.Next() {
		t, err := scanTramite(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tramite type: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *TramiteTypeRepo) Update(ctx context.Context, t *entity.TramiteType) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE tipos_tramite SET nombre = $2, codigo = $3, precio_base = $4, active = $5, updated_at = $6 WHERE id = $1`,
		t.ID, t.Name, t.Code, t.BasePrice, t.Active, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isInvalidTextRepresentation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update tramite type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *TramiteTypeRepo) SetActive(ctx context.Context, id string, active bool) error {
	tag, err := r.q.Exec(ctx, `UPDATE tipos_tramite SET active = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		if isInvalidTextRepresentation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("set tramite type active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra el tipo y sus documentos requeridos. Si hay expedientes que lo usan devuelve ErrConflict.
func (r *TramiteTypeRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM tipos_tramite WHERE id = $1`, id); err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		if isInvalidTextRepresentation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete tramite type: %w", err)
	}
	return nil
}

// RequiredDocumentRepo plantillas de documentos (tabla documentos_requeridos).
type RequiredDocumentRepo struct {
	q Querier
}

// NewRequiredDocumentRepository construye el adaptador.
func NewRequiredDocumentRepository(q Querier) *RequiredDocumentRepo {
	return &RequiredDocumentRepo{q: q}
}

const requiredDocColumns = `id, tipo_tramite_id, nombre_documento, descripcion, orden, active, created_at`

func scanRequiredDoc(row pgx.Row) (*entity.RequiredDocument, error) {
	var d entity.RequiredDocument
	var desc *string
	if err := row.Scan(&d.ID, &d.TramiteTypeID, &d.Name, &desc, &d.Order, &d.Active, &d.CreatedAt); err != nil {
		return nil, err
	}
	d.Description = derefString(desc)
	return &d, nil
}

// Create devuelve ErrNotFound si el tipo de trámite no existe.
func (r *RequiredDocumentRepo) Create(ctx context.Context, d *entity.RequiredDocument) error {
	query := `INSERT INTO documentos_requeridos (` + requiredDocColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, d.ID, d.TramiteTypeID, d.Name, nullString(d.Description), d.Order, d.Active, d.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert required document: %w", err)
	}
	return nil
}

func (r *RequiredDocumentRepo) GetByID(ctx context.Context, id string) (*entity.RequiredDocument, error) {
	d, err := scanRequiredDoc(r.q.QueryRow(ctx, `SELECT `+requiredDocColumns+` FROM documentos_requeridos WHERE id = $1`, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get required document: %w", err)
	}
	return d, nil
}

func (r *RequiredDocumentRepo) ListByTramiteType(ctx context.Context, tramiteTypeID string, onlyActive bool) ([]*entity.RequiredDocument, error) {
	query := `SELECT ` + requiredDocColumns + ` FROM documentos_requeridos WHERE tipo_tramite_id = $1`
	if onlyActive {
		query += ` AND active`
	}
	rows, err := r.q.Query(ctx, query+` ORDER BY orden, created_at`, tramiteTypeID)
	if err != nil {
		return nil, fmt.Errorf("list required documents: %w", err)
	}
	defer rows.Close()
	var list []*entity.RequiredDocument
	for rows.Next() {
		d, err := scanRequiredDoc(rows)
		if err != nil {
			return nil, fmt.Errorf("scan required document: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

func (r *RequiredDocumentRepo) Update(ctx context.Context, d *entity.RequiredDocument) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE documentos_requeridos SET nombre_documento = $2, descripcion = $3, orden = $4, active = $5 WHERE id = $1`,
		d.ID, d.Name, nullString(d.Description), d.Order, d.Active,
	)
	if err != nil {
		if isInvalidTextRepresentation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update required document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *RequiredDocumentRepo) SetActive(ctx context.Context, id string, active bool) error {
	tag, err := r.q.Exec(ctx, `UPDATE documentos_requeridos SET active = $2 WHERE id = $1`, id, active)
	if err != nil {
		if isInvalidTextRepresentation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("set required document active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete devuelve ErrConflict si algún expediente ya tiene el documento en su checklist.
func (r *RequiredDocumentRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM documentos_requeridos WHERE id = $1`, id); err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		if isInvalidTextRepresentation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete required document: %w", err)
	}
	return nil
}
