package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/gestoria-api/internal/domain"
	"github.com/jhoicas/gestoria-api/internal/domain/casefile"
	"github.com/jhoicas/gestoria-api/internal/domain/entity"
	"github.com/jhoicas/gestoria-api/internal/domain/repository"
)

var (
	_ repository.ClientRepository           = (*ClientRepo)(nil)
	_ repository.TramiteTypeRepository      = (*TramiteTypeRepo)(nil)
	_ repository.RequiredDocumentRepository = (*RequiredDocumentRepo)(nil)
	_ repository.CaseFileRepository         = (*CaseFileRepo)(nil)
	_ repository.CaseDocumentRepository     = (*CaseDocumentRepo)(nil)
	_ repository.StatusHistoryRepository    = (*StatusHistoryRepo)(nil)
	_ repository.PaymentRepository          = (*PaymentRepo)(nil)
	_ repository.UserRepository             = (*UserRepo)(nil)
	_ repository.SettingsRepository         = (*SettingsRepo)(nil)
)

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// ── Clientes ──────────────────────────────────────────────────────────────────

// ClientRepo clientes en memoria.
type ClientRepo struct{ s *Store }

// NewClientRepository construye el repo.
func NewClientRepository(s *Store) *ClientRepo { return &ClientRepo{s: s} }

func (r *ClientRepo) Create(_ context.Context, c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.clients[c.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.clients[c.ID] = *c
	return nil
}

func (r *ClientRepo) GetByID(_ context.Context, id string) (*entity.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.clients[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *ClientRepo) List(_ context.Context, f repository.ClientFilter) ([]*entity.Client, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Client
	for _, c := range r.s.clients {
		c := c
		if f.Query != "" && !contains(c.FirstName+" "+c.LastName+" "+c.DocumentNumber+" "+c.Email, f.Query) {
			continue
		}
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return page(list, f.Limit, f.Offset), len(list), nil
}

func (r *ClientRepo) ListAll(ctx context.Context) ([]*entity.Client, error) {
	list, _, err := r.List(ctx, repository.ClientFilter{})
	return list, err
}

func (r *ClientRepo) Update(_ context.Context, c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.clients[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.clients[c.ID] = *c
	return nil
}

func (r *ClientRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.clients, id)
	for cfID, cf := range r.s.caseFiles {
		if cf.ClientID == id {
			r.s.deleteCaseFileLocked(cfID)
		}
	}
	for pID, p := range r.s.payments {
		if p.ClientID == id {
			delete(r.s.payments, pID)
		}
	}
	return nil
}

// ── Catálogo ──────────────────────────────────────────────────────────────────

// TramiteTypeRepo tipos de trámite en memoria.
type TramiteTypeRepo struct{ s *Store }

// NewTramiteTypeRepository construye el repo.
func NewTramiteTypeRepository(s *Store) *TramiteTypeRepo { return &TramiteTypeRepo{s: s} }

func (r *TramiteTypeRepo) Create(_ context.Context, t *entity.TramiteType) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.tramites {
		if existing.Code == t.Code {
			return domain.ErrDuplicate
		}
	}
	r.s.tramites[t.ID] = *t
	return nil
}

func (r *TramiteTypeRepo) GetByID(_ context.Context, id string) (*entity.TramiteType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.tramites[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *TramiteTypeRepo) List(_ context.Context, onlyActive bool) ([]*entity.TramiteType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.TramiteType
	for _, t := range r.s.tramites {
		t := t
		if onlyActive && !t.Active {
			continue
		}
		list = append(list, &t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *TramiteTypeRepo) Update(_ context.Context, t *entity.TramiteType) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tramites[t.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, existing := range r.s.tramites {
		if id != t.ID && existing.Code == t.Code {
			return domain.ErrDuplicate
		}
	}
	r.s.tramites[t.ID] = *t
	return nil
}

func (r *TramiteTypeRepo) SetActive(_ context.Context, id string, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tramites[id]
	if !ok {
		return domain.ErrNotFound
	}
	t.Active = active
	r.s.tramites[id] = t
	return nil
}

func (r *TramiteTypeRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, cf := range r.s.caseFiles {
		if cf.TramiteTypeID == id {
			return domain.ErrConflict
		}
	}
	delete(r.s.tramites, id)
	for docID, d := range r.s.requiredDocs {
		if d.TramiteTypeID == id {
			delete(r.s.requiredDocs, docID)
		}
	}
	return nil
}

// RequiredDocumentRepo plantillas de documentos en memoria.
type RequiredDocumentRepo struct{ s *Store }

// NewRequiredDocumentRepository construye el repo.
func NewRequiredDocumentRepository(s *Store) *RequiredDocumentRepo {
	return &RequiredDocumentRepo{s: s}
}

func (r *RequiredDocumentRepo) Create(_ context.Context, d *entity.RequiredDocument) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tramites[d.TramiteTypeID]; !ok {
		return domain.ErrNotFound
	}
	r.s.requiredDocs[d.ID] = *d
	return nil
}

func (r *RequiredDocumentRepo) GetByID(_ context.Context, id string) (*entity.RequiredDocument, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d, ok := r.s.requiredDocs[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r *RequiredDocumentRepo) ListByTramiteType(_ context.Context, tramiteTypeID string, onlyActive bool) ([]*entity.RequiredDocument, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.RequiredDocument
	for _, d := range r.s.requiredDocs {
		d := d
		if d.TramiteTypeID != tramiteTypeID || (onlyActive && !d.Active) {
			continue
		}
		list = append(list, &d)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Order < list[j].Order })
	return list, nil
}

func (r *RequiredDocumentRepo) Update(_ context.Context, d *entity.RequiredDocument) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.requiredDocs[d.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.requiredDocs[d.ID] = *d
	return nil
}

func (r *RequiredDocumentRepo) SetActive(_ context.Context, id string, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.requiredDocs[id]
	if !ok {
		return domain.ErrNotFound
	}
	d.Active = active
	r.s.requiredDocs[id] = d
	return nil
}

func (r *RequiredDocumentRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, cd := range r.s.caseDocs {
		if cd.RequiredDocumentID == id {
			return domain.ErrConflict
		}
	}
	delete(r.s.requiredDocs, id)
	return nil
}

// ── Expedientes ───────────────────────────────────────────────────────────────

// CaseFileRepo expedientes en memoria.
type CaseFileRepo struct{ s *Store }

// NewCaseFileRepository construye el repo.
func NewCaseFileRepository(s *Store) *CaseFileRepo { return &CaseFileRepo{s: s} }

func (r *CaseFileRepo) NextNumber(_ context.Context, year int) (string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.fail("casefile.next_number"); err != nil {
		return "", err
	}
	numbers := make([]string, 0, len(r.s.caseFiles))
	for _, cf := range r.s.caseFiles {
		numbers = append(numbers, cf.Number)
	}
	return casefile.FormatNumber(year, casefile.NextSequence(numbers, year)), nil
}

func (r *CaseFileRepo) Create(_ context.Context, cf *entity.CaseFile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.caseFiles {
		if existing.Number == cf.Number {
			return domain.ErrConflict
		}
	}
	if _, ok := r.s.clients[cf.ClientID]; !ok {
		return domain.ErrNotFound
	}
	r.s.caseFiles[cf.ID] = *cf
	return nil
}

func (s *Store) viewLocked(cf entity.CaseFile) *entity.CaseFileView {
	v := &entity.CaseFileView{CaseFile: cf}
	if c, ok := s.clients[cf.ClientID]; ok {
		v.ClientName = c.FullName()
	}
	if t, ok := s.tramites[cf.TramiteTypeID]; ok {
		v.TramiteName = t.Name
	}
	return v
}

func (r *CaseFileRepo) GetByID(_ context.Context, id string) (*entity.CaseFileView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	cf, ok := r.s.caseFiles[id]
	if !ok {
		return nil, nil
	}
	return r.s.viewLocked(cf), nil
}

func (r *CaseFileRepo) GetForUpdate(_ context.Context, id string) (*entity.CaseFile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	cf, ok := r.s.caseFiles[id]
	if !ok {
		return nil, nil
	}
	return &cf, nil
}

func (r *CaseFileRepo) List(_ context.Context, f repository.CaseFileFilter) ([]*entity.CaseFileView, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.CaseFileView
	for _, cf := range r.s.caseFiles {
		if f.Status != "" && cf.Status != f.Status {
			continue
		}
		if f.ClientID != "" && cf.ClientID != f.ClientID {
			continue
		}
		v := r.s.viewLocked(cf)
		if f.Query != "" && !contains(v.Number+" "+v.ClientName, f.Query) {
			continue
		}
		list = append(list, v)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return page(list, f.Limit, f.Offset), len(list), nil
}

func (r *CaseFileRepo) ListAll(_ context.Context) ([]*entity.CaseFile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.CaseFile, 0, len(r.s.caseFiles))
	for _, cf := range r.s.caseFiles {
		cf := cf
		list = append(list, &cf)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Number < list[j].Number })
	return list, nil
}

func (r *CaseFileRepo) Update(_ context.Context, cf *entity.CaseFile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.caseFiles[cf.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.OfficialNumber = cf.OfficialNumber
	cur.StartDate = cf.StartDate
	cur.SubmissionDate = cf.SubmissionDate
	cur.AgreedPrice = cf.AgreedPrice
	cur.Notes = cf.Notes
	cur.UpdatedAt = cf.UpdatedAt
	r.s.caseFiles[cf.ID] = cur
	return nil
}

func (r *CaseFileRepo) UpdateStatus(_ context.Context, cf *entity.CaseFile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("casefile.update_status"); err != nil {
		return err
	}
	cur, ok := r.s.caseFiles[cf.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Status = cf.Status
	cur.UpdatedAt = cf.UpdatedAt
	r.s.caseFiles[cf.ID] = cur
	return nil
}

func (r *CaseFileRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.deleteCaseFileLocked(id)
	return nil
}

func (s *Store) deleteCaseFileLocked(id string) {
	delete(s.caseFiles, id)
	for docID, d := range s.caseDocs {
		if d.CaseFileID == id {
			delete(s.caseDocs, docID)
		}
	}
	kept := s.history[:0]
	for _, e := range s.history {
		if e.CaseFileID != id {
			kept = append(kept, e)
		}
	}
	s.history = kept
	for pID, p := range s.payments {
		if p.CaseFileID == id {
			delete(s.payments, pID)
		}
	}
}

// CaseDocumentRepo checklist en memoria.
type CaseDocumentRepo struct{ s *Store }

// NewCaseDocumentRepository construye el repo.
func NewCaseDocumentRepository(s *Store) *CaseDocumentRepo { return &CaseDocumentRepo{s: s} }

func (r *CaseDocumentRepo) CreateBatch(_ context.Context, docs []*entity.CaseDocument) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("casedoc.create_batch"); err != nil {
		return err
	}
	for _, d := range docs {
		for _, existing := range r.s.caseDocs {
			if existing.CaseFileID == d.CaseFileID && existing.RequiredDocumentID == d.RequiredDocumentID {
				return domain.ErrDuplicate
			}
		}
		r.s.caseDocs[d.ID] = *d
	}
	return nil
}

func (s *Store) enrichDocLocked(d entity.CaseDocument) *entity.CaseDocument {
	if t, ok := s.requiredDocs[d.RequiredDocumentID]; ok {
		d.Name = t.Name
		d.Description = t.Description
		d.Order = t.Order
	}
	return &d
}

func (r *CaseDocumentRepo) GetByID(_ context.Context, id string) (*entity.CaseDocument, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d, ok := r.s.caseDocs[id]
	if !ok {
		return nil, nil
	}
	return r.s.enrichDocLocked(d), nil
}

func (r *CaseDocumentRepo) ListByCaseFile(_ context.Context, caseFileID string) ([]*entity.CaseDocument, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.CaseDocument
	for _, d := range r.s.caseDocs {
		if d.CaseFileID == caseFileID {
			list = append(list, r.s.enrichDocLocked(d))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Order < list[j].Order })
	return list, nil
}

func (r *CaseDocumentRepo) UpdateStatus(_ context.Context, doc *entity.CaseDocument) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.caseDocs[doc.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Status = doc.Status
	cur.ReceivedAt = doc.ReceivedAt
	r.s.caseDocs[doc.ID] = cur
	return nil
}

// StatusHistoryRepo historial en memoria (solo inserción).
type StatusHistoryRepo struct{ s *Store }

// NewStatusHistoryRepository construye el repo.
func NewStatusHistoryRepository(s *Store) *StatusHistoryRepo { return &StatusHistoryRepo{s: s} }

func (r *StatusHistoryRepo) Append(_ context.Context, e *entity.StatusHistoryEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("history.append"); err != nil {
		return err
	}
	r.s.history = append(r.s.history, *e)
	return nil
}

// ListByCaseFile del más reciente al más antiguo; a igual fecha, el último insertado primero.
func (r *StatusHistoryRepo) ListByCaseFile(_ context.Context, caseFileID string) ([]*entity.StatusHistoryEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.StatusHistoryEntry
	for i := len(r.s.history) - 1; i >= 0; i-- {
		e := r.s.history[i]
		if e.CaseFileID == caseFileID {
			list = append(list, &e)
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].ChangedAt.After(list[j].ChangedAt) })
	return list, nil
}

// ── Pagos ─────────────────────────────────────────────────────────────────────

// PaymentRepo pagos en memoria.
type PaymentRepo struct{ s *Store }

// NewPaymentRepository construye el repo.
func NewPaymentRepository(s *Store) *PaymentRepo { return &PaymentRepo{s: s} }

func (r *PaymentRepo) Create(_ context.Context, p *entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.caseFiles[p.CaseFileID]; !ok {
		return domain.ErrNotFound
	}
	r.s.payments[p.ID] = *p
	return nil
}

func (r *PaymentRepo) GetByID(_ context.Context, id string) (*entity.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.payments[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *PaymentRepo) List(_ context.Context, f repository.PaymentFilter) ([]*entity.Payment, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Payment
	for _, p := range r.s.payments {
		p := p
		if f.CaseFileID != "" && p.CaseFileID != f.CaseFileID {
			continue
		}
		if f.ClientID != "" && p.ClientID != f.ClientID {
			continue
		}
		list = append(list, &p)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].PaidOn.Equal(list[j].PaidOn) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].PaidOn.After(list[j].PaidOn)
	})
	return page(list, f.Limit, f.Offset), len(list), nil
}

func (r *PaymentRepo) ListAll(ctx context.Context) ([]*entity.Payment, error) {
	list, _, err := r.List(ctx, repository.PaymentFilter{})
	return list, err
}

func (r *PaymentRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.payments, id)
	return nil
}

// ── Usuarios y configuración ──────────────────────────────────────────────────

// UserRepo perfiles y roles en memoria.
type UserRepo struct{ s *Store }

// NewUserRepository construye el repo.
func NewUserRepository(s *Store) *UserRepo { return &UserRepo{s: s} }

func (r *UserRepo) Create(_ context.Context, u *entity.UserProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.ID == u.ID || strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrDuplicate
		}
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.UserProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) ListWithRoles(_ context.Context) ([]*entity.UserProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.UserProfile, 0, len(r.s.users))
	for _, u := range r.s.users {
		u := u
		list = append(list, &u)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (r *UserRepo) GetRole(_ context.Context, userID string) (string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.users[userID].Role, nil
}

func (r *UserRepo) SetRole(_ context.Context, userID, role string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.Role = role
	r.s.users[userID] = u
	return nil
}

func (r *UserRepo) UpdateProfile(_ context.Context, u *entity.UserProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.users[u.ID]
	if !ok {
		return domain.ErrNotFound
	}
	for id, existing := range r.s.users {
		if id != u.ID && strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrDuplicate
		}
	}
	current.Name = u.Name
	current.Email = u.Email
	current.AvatarURL = u.AvatarURL
	current.UpdatedAt = u.UpdatedAt
	r.s.users[u.ID] = current
	return nil
}

// SettingsRepo configuración de la gestoría en memoria.
type SettingsRepo struct{ s *Store }

// NewSettingsRepository construye el repo.
func NewSettingsRepository(s *Store) *SettingsRepo { return &SettingsRepo{s: s} }

func (r *SettingsRepo) Get(_ context.Context) (*entity.AgencySettings, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.settings == nil {
		return nil, nil
	}
	cp := *r.s.settings
	return &cp, nil
}

func (r *SettingsRepo) Upsert(_ context.Context, st *entity.AgencySettings) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *st
	r.s.settings = &cp
	return nil
}
