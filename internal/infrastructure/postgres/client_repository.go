package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/gestoria-api/internal/domain"
	"github.com/jhoicas/gestoria-api/internal/domain/entity"
	"github.com/jhoicas/gestoria-api/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

const clientColumns = `id, nombre, apellidos, email, telefono, nacionalidad, nie_pasaporte,
		fecha_vencimiento_nie, fecha_nacimiento, calle, numero, piso, puerta, observaciones,
		created_at, updated_at`

// ClientRepo implementación de ClientRepository (usable con pool o tx).
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

func scanClient(row pgx.Row) (*entity.Client, error) {
	var c entity.Client
	var email, phone, nationality, street, num, floor, door, obs *string
	err := row.Scan(
		&c.ID, &c.FirstName, &c.LastName, &email, &phone, &nationality, &c.DocumentNumber,
		&c.DocumentExpiry, &c.BirthDate, &street, &num, &floor, &door, &obs,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Email = derefString(email)
	c.Phone = derefString(phone)
	c.Nationality = derefString(nationality)
	c.Street = derefString(street)
	c.StreetNumber = derefString(num)
	c.Floor = derefString(floor)
	c.Door = derefString(door)
	c.Notes = derefString(obs)
	return &c, nil
}

// Create persiste un nuevo cliente.
func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	query := `
		INSERT INTO clients (` + clientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.FirstName, c.LastName, nullString(c.Email), nullString(c.Phone), nullString(c.Nationality),
		c.DocumentNumber, dateOnly(c.DocumentExpiry), dateOnly(c.BirthDate),
		nullString(c.Street), nullString(c.StreetNumber), nullString(c.Floor), nullString(c.Door),
		nullString(c.Notes), c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	c, err := scanClient(r.q.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

// List busca por nombre, apellidos, NIE o email (ILIKE); los más recientes primero.
func (r *ClientRepo) List(ctx context.Context, f repository.ClientFilter) ([]*entity.Client, int, error) {
	where := ``
	args := []any{}
	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		where = `WHERE (nombre || ' ' || apellidos) ILIKE $1 OR nie_pasaporte ILIKE $1 OR email ILIKE $1`
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM clients `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count clients: %w", err)
	}

	query := `SELECT ` + clientColumns + ` FROM clients ` + where + ` ORDER BY created_at DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	}
	list, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListAll todos los clientes (exportación).
func (r *ClientRepo) ListAll(ctx context.Context) ([]*entity.Client, error) {
	return r.query(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY created_at DESC`)
}

func (r *ClientRepo) query(ctx context.Context, query string, args ...any) ([]*entity.Client, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()
	var list []*entity.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update actualiza los datos del cliente.
func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	query := `
		UPDATE clients SET nombre = $2, apellidos = $3, email = $4, telefono = $5, nacionalidad = $6,
			nie_pasaporte = $7, fecha_vencimiento_nie = $8, fecha_nacimiento = $9, calle = $10, numero = $11,
			piso = $12, puerta = $13, observaciones = $14, updated_at = $15
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		c.ID, c.FirstName, c.LastName, nullString(c.Email), nullString(c.Phone), nullString(c.Nationality),
		c.DocumentNumber, dateOnly(c.DocumentExpiry), dateOnly(c.BirthDate),
		nullString(c.Street), nullString(c.StreetNumber), nullString(c.Floor), nullString(c.Door),
		nullString(c.Notes), c.UpdatedAt,
	)
	if err != nil {
		if isInvalidTextRepresentation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el cliente; expedientes, checklist, historial y pagos caen por ON DELETE CASCADE.
func (r *ClientRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id); err != nil {
		if isInvalidTextRepresentation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete client: %w", err)
	}
	return nil
}
