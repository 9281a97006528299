package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/gestoria-api/internal/domain"
	"github.com/jhoicas/gestoria-api/internal/domain/casefile"
	"github.com/jhoicas/gestoria-api/internal/domain/entity"
	"github.com/jhoicas/gestoria-api/internal/domain/repository"
)

var _ repository.CaseFileRepository = (*CaseFileRepo)(nil)

// numberingLockKey clave base del advisory lock de numeración; se suma el año.
const numberingLockKey int64 = 0x45585044 << 16

const caseFileColumns = `e.id, e.numero_expediente, e.numero_expediente_oficial, e.cliente_id, e.tipo_tramite_id,
		e.fecha_inicio, e.fecha_presentacion, e.precio_acordado, e.observaciones, e.estado,
		e.created_at, e.updated_at`

const caseFileViewSelect = `SELECT ` + caseFileColumns + `, c.nombre, c.apellidos, COALESCE(t.nombre, '')
		FROM expedientes e
		JOIN clients c ON c.id = e.cliente_id
		LEFT JOIN tipos_tramite t ON t.id = e.tipo_tramite_id`

// CaseFileRepo implementación de CaseFileRepository (tabla expedientes).
type CaseFileRepo struct {
	q Querier
}

// NewCaseFileRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCaseFileRepository(q Querier) *CaseFileRepo {
	return &CaseFileRepo{q: q}
}

func caseFileDest(cf *entity.CaseFile, official, notes **string, status *string) []any {
	return []any{
		&cf.ID, &cf.Number, official, &cf.ClientID, &cf.TramiteTypeID,
		&cf.StartDate, &cf.SubmissionDate, &cf.AgreedPrice, notes, status,
		&cf.CreatedAt, &cf.UpdatedAt,
	}
}

func scanCaseFile(row pgx.Row) (*entity.CaseFile, error) {
	var cf entity.CaseFile
	var official, notes *string
	var status string
	if err := row.Scan(caseFileDest(&cf, &official, &notes, &status)...); err != nil {
		return nil, err
	}
	cf.OfficialNumber = derefString(official)
	cf.Notes = derefString(notes)
	cf.Status = entity.CaseStatus(status)
	return &cf, nil
}

func scanCaseFileView(row pgx.Row) (*entity.CaseFileView, error) {
	var v entity.CaseFileView
	var official, notes *string
	var status, firstName, lastName string
	dest := append(caseFileDest(&v.CaseFile, &official, &notes, &status), &firstName, &lastName, &v.TramiteName)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	v.OfficialNumber = derefString(official)
	v.Notes = derefString(notes)
	v.Status = entity.CaseStatus(status)
	v.ClientName = (&entity.Client{FirstName: firstName, LastName: lastName}).FullName()
	return &v, nil
}

// NextNumber toma un advisory lock por año (liberado en el commit) y calcula máximo + 1.
// Fuera de una transacción el lock se libera al instante y solo queda la UNIQUE como respaldo.
func (r *CaseFileRepo) NextNumber(ctx context.Context, year int) (string, error) {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, numberingLockKey+int64(year)); err != nil {
		return "", fmt.Errorf("lock numbering: %w", err)
	}
	rows, err := r.q.Query(ctx,
		`SELECT numero_expediente FROM expedientes WHERE numero_expediente LIKE $1`,
		casefile.YearPrefix(year)+"%",
	)
	if err != nil {
		return "", fmt.Errorf("list case numbers: %w", err)
	}
	defer rows.Close()
	var numbers []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return "", fmt.Errorf("scan case number: %w", err)
		}
		numbers = append(numbers, n)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	return casefile.FormatNumber(year, casefile.NextSequence(numbers, year)), nil
}

// Create inserta el expediente. Número repetido: ErrConflict; cliente o trámite inexistente: ErrNotFound.
func (r *CaseFileRepo) Create(ctx context.Context, cf *entity.CaseFile) error {
	query := `
		INSERT INTO expedientes (id, numero_expediente, numero_expediente_oficial, cliente_id, tipo_tramite_id,
			fecha_inicio, fecha_presentacion, precio_acordado, observaciones, estado, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		cf.ID, cf.Number, nullString(cf.OfficialNumber), cf.ClientID, cf.TramiteTypeID,
		dateOnly(&cf.StartDate), dateOnly(cf.SubmissionDate), cf.AgreedPrice, nullString(cf.Notes),
		string(cf.Status), cf.CreatedAt, cf.UpdatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrConflict
		case isForeignKeyViolation(err):
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert case file: %w", err)
	}
	return nil
}

// GetByID expediente con nombres de cliente y trámite.
func (r *CaseFileRepo) GetByID(ctx context.Context, id string) (*entity.CaseFileView, error) {
	v, err := scanCaseFileView(r.q.QueryRow(ctx, caseFileViewSelect+` WHERE e.id = $1`, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get case file: %w", err)
	}
	return v, nil
}

// GetForUpdate SELECT ... FOR UPDATE: serializa cambios de estado concurrentes sobre el mismo expediente.
func (r *CaseFileRepo) GetForUpdate(ctx context.Context, id string) (*entity.CaseFile, error) {
	cf, err := scanCaseFile(r.q.QueryRow(ctx,
		`SELECT `+caseFileColumns+` FROM expedientes e WHERE e.id = $1 FOR UPDATE`, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get case file for update: %w", err)
	}
	return cf, nil
}

// List con filtros de estado, cliente y texto; los más recientes primero.
func (r *CaseFileRepo) List(ctx context.Context, f repository.CaseFileFilter) ([]*entity.CaseFileView, int, error) {
	var conds []string
	var args []any
	if f.Status != "" {
		args = append(args, string(f.Status))
		conds = append(conds, fmt.Sprintf("e.estado = $%d", len(args)))
	}
	if f.ClientID != "" {
		args = append(args, f.ClientID)
		conds = append(conds, fmt.Sprintf("e.cliente_id = $%d", len(args)))
	}
	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		conds = append(conds, fmt.Sprintf("(e.numero_expediente ILIKE $%[1]d OR (c.nombre || ' ' || c.apellidos) ILIKE $%[1]d)", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM expedientes e JOIN clients c ON c.id = e.cliente_id` + where
	if err := r.q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		// un filtro con un id que no es UUID no coincide con nada
		if isInvalidTextRepresentation(err) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("count case files: %w", err)
	}

	query := caseFileViewSelect + where + ` ORDER BY e.created_at DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	}
	list, err := queryCaseFileViews(ctx, r.q, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func queryCaseFileViews(ctx context.Context, q Querier, query string, args ...any) ([]*entity.CaseFileView, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list case files: %w", err)
	}
	defer rows.Close()
	var list []*entity.CaseFileView
	for rows.Next() {
		v, err := scanCaseFileView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan case file: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// ListAll todos los expedientes ordenados por número (exportación).
func (r *CaseFileRepo) ListAll(ctx context.Context) ([]*entity.CaseFile, error) {
	rows, err := r.q.Query(ctx, `SELECT `+caseFileColumns+` FROM expedientes e ORDER BY e.numero_expediente`)
	if err != nil {
		return nil, fmt.Errorf("list case files: %w", err)
	}
	defer rows.Close()
	var list []*entity.CaseFile
	for rows.Next() {
		cf, err := scanCaseFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan case file: %w", err)
		}
		list = append(list, cf)
	}
	return list, rows.Err()
}

// Update persiste los campos editables. El número y el estado no se tocan.
func (r *CaseFileRepo) Update(ctx context.Context, cf *entity.CaseFile) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE expedientes SET numero_expediente_oficial = $2, fecha_inicio = $3, fecha_presentacion = $4,
			precio_acordado = $5, observaciones = $6, updated_at = $7
		WHERE id = $1`,
		cf.ID, nullString(cf.OfficialNumber), dateOnly(&cf.StartDate), dateOnly(cf.SubmissionDate),
		cf.AgreedPrice, nullString(cf.Notes), cf.UpdatedAt,
	)
	if err != nil {
		if isInvalidTextRepresentation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update case file: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStatus solo estado y updated_at.
func (r *CaseFileRepo) UpdateStatus(ctx context.Context, cf *entity.CaseFile) error {
	tag, err := r.q.Exec(ctx, `UPDATE expedientes SET estado = $2, updated_at = $3 WHERE id = $1`,
		cf.ID, string(cf.Status), cf.UpdatedAt)
	if err != nil {
		if isInvalidTextRepresentation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update case file status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el expediente; checklist, historial y pagos caen en cascada.
func (r *CaseFileRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM expedientes WHERE id = $1`, id); err != nil {
		if isInvalidTextRepresentation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete case file: %w", err)
	}
	return nil
}
