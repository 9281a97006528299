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
	_ repository.UserRepository     = (*UserRepo)(nil)
	_ repository.SettingsRepository = (*SettingsRepo)(nil)
)

// UserRepo perfiles (profiles) y roles (user_roles).
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create inserta perfil y rol con una sola sentencia (CTE) para que sea atómico sin tx explícita.
func (r *UserRepo) Create(ctx context.Context, u *entity.UserProfile) error {
	query := `
		WITH p AS (
			INSERT INTO profiles (id, nombre, email, avatar_url, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $5) RETURNING id
		)
		INSERT INTO user_roles (user_id, role) SELECT id, $6 FROM p`
	if _, err := r.q.Exec(ctx, query, u.ID, u.Name, u.Email, nullString(u.AvatarURL), u.CreatedAt, u.Role); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

const userSelect = `
	SELECT p.id, p.nombre, p.email, p.avatar_url, COALESCE(ur.role, ''), p.created_at, p.updated_at
	FROM profiles p LEFT JOIN user_roles ur ON ur.user_id = p.id`

func scanUser(row pgx.Row) (*entity.UserProfile, error) {
	var u entity.UserProfile
	var avatar *string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &avatar, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.AvatarURL = derefString(avatar)
	return &u, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.UserProfile, error) {
	u, err := scanUser(r.q.QueryRow(ctx, userSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *UserRepo) ListWithRoles(ctx context.Context) ([]*entity.UserProfile, error) {
	rows, err := r.q.Query(ctx, userSelect+` ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.UserProfile
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

func (r *UserRepo) GetRole(ctx context.Context, userID string) (string, error) {
	var role string
	err := r.q.QueryRow(ctx, `SELECT role FROM user_roles WHERE user_id::text = $1`, userID).Scan(&role)
	if err != nil {
		if noRows(err) {
			return "", nil
		}
		return "", fmt.Errorf("get role: %w", err)
	}
	return role, nil
}

// SetRole crea o reemplaza el rol. ErrNotFound si el perfil no existe.
func (r *UserRepo) SetRole(ctx context.Context, userID, role string) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO user_roles (user_id, role) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role`, userID, role)
	if err != nil {
		if isForeignKeyViolation(err) || isInvalidTextRepresentation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("set role: %w", err)
	}
	return nil
}

// UpdateProfile nombre, email y avatar del perfil. El rol va aparte (SetRole).
func (r *UserRepo) UpdateProfile(ctx context.Context, u *entity.UserProfile) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE profiles SET nombre = $2, email = $3, avatar_url = $4, updated_at = $5
		WHERE id = $1`,
		u.ID, u.Name, u.Email, nullString(u.AvatarURL), u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isInvalidTextRepresentation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SettingsRepo configuración de la gestoría (tabla gestoria_config, fila id = 1).
type SettingsRepo struct {
	q Querier
}

// NewSettingsRepository construye el adaptador.
func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{q: q}
}

func (r *SettingsRepo) Get(ctx context.Context) (*entity.AgencySettings, error) {
	var s entity.AgencySettings
	var logo, phone, email, address, city, postal *string
	err := r.q.QueryRow(ctx, `
		SELECT nombre_gestoria, logo_url, telefono, email, direccion, ciudad, codigo_postal, formato_numeracion, updated_at
		FROM gestoria_config WHERE id = 1`).
		Scan(&s.Name, &logo, &phone, &email, &address, &city, &postal, &s.NumberingFormat, &s.UpdatedAt)
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	s.LogoURL = derefString(logo)
	s.Phone = derefString(phone)
	s.Email = derefString(email)
	s.Address = derefString(address)
	s.City = derefString(city)
	s.PostalCode = derefString(postal)
	return &s, nil
}

func (r *SettingsRepo) Upsert(ctx context.Context, s *entity.AgencySettings) error {
	format := s.NumberingFormat
	if format == "" {
		format = entity.DefaultNumberingFormat
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO gestoria_config (id, nombre_gestoria, logo_url, telefono, email, direccion, ciudad, codigo_postal, formato_numeracion, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			nombre_gestoria = EXCLUDED.nombre_gestoria, logo_url = EXCLUDED.logo_url, telefono = EXCLUDED.telefono,
			email = EXCLUDED.email, direccion = EXCLUDED.direccion, ciudad = EXCLUDED.ciudad,
			codigo_postal = EXCLUDED.codigo_postal, formato_numeracion = EXCLUDED.formato_numeracion,
			updated_at = EXCLUDED.updated_at`,
		s.Name, nullString(s.LogoURL), nullString(s.Phone), nullString(s.Email), nullString(s.Address),
		nullString(s.City), nullString(s.PostalCode), format, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}
