// Package memory implementa los puertos de repositorio en memoria.
// Lo usan los tests de aplicación y de HTTP; TxRunner restaura el estado si la función falla.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/gestoria-api/internal/domain/entity"
	"github.com/jhoicas/gestoria-api/internal/domain/repository"
)

// Store datos compartidos por todos los repos en memoria.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	clients      map[string]entity.Client
	tramites     map[string]entity.TramiteType
	requiredDocs map[string]entity.RequiredDocument
	caseFiles    map[string]entity.CaseFile
	caseDocs     map[string]entity.CaseDocument
	history      []entity.StatusHistoryEntry
	payments     map[string]entity.Payment
	users        map[string]entity.UserProfile
	settings     *entity.AgencySettings

	// failOn inyecta errores por operación (ej. "history.append") para probar rollback.
	failOn map[string]error
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		clients:      map[string]entity.Client{},
		tramites:     map[string]entity.TramiteType{},
		requiredDocs: map[string]entity.RequiredDocument{},
		caseFiles:    map[string]entity.CaseFile{},
		caseDocs:     map[string]entity.CaseDocument{},
		payments:     map[string]entity.Payment{},
		users:        map[string]entity.UserProfile{},
		failOn:       map[string]error{},
	}
}

// FailOn hace que la operación op devuelva err hasta que se limpie con FailOn(op, nil).
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failOn, op)
		return
	}
	s.failOn[op] = err
}

func (s *Store) fail(op string) error {
	return s.failOn[op]
}

type snapshot struct {
	clients      map[string]entity.Client
	tramites     map[string]entity.TramiteType
	requiredDocs map[string]entity.RequiredDocument
	caseFiles    map[string]entity.CaseFile
	caseDocs     map[string]entity.CaseDocument
	history      []entity.StatusHistoryEntry
	payments     map[string]entity.Payment
	users        map[string]entity.UserProfile
	settings     *entity.AgencySettings
}

func copyMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := snapshot{
		clients:      copyMap(s.clients),
		tramites:     copyMap(s.tramites),
		requiredDocs: copyMap(s.requiredDocs),
		caseFiles:    copyMap(s.caseFiles),
		caseDocs:     copyMap(s.caseDocs),
		history:      append([]entity.StatusHistoryEntry(nil), s.history...),
		payments:     copyMap(s.payments),
		users:        copyMap(s.users),
	}
	if s.settings != nil {
		cp := *s.settings
		snap.settings = &cp
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients = snap.clients
	s.tramites = snap.tramites
	s.requiredDocs = snap.requiredDocs
	s.caseFiles = snap.caseFiles
	s.caseDocs = snap.caseDocs
	s.history = snap.history
	s.payments = snap.payments
	s.users = snap.users
	s.settings = snap.settings
}

// TxRunner serializa las "transacciones" y deshace los cambios si fn devuelve error.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el almacén.
func NewTxRunner(s *Store) *TxRunner { return &TxRunner{s: s} }

// RunCaseFile ejecuta fn con los repos de expedientes.
func (r *TxRunner) RunCaseFile(ctx context.Context, fn func(
	caseRepo repository.CaseFileRepository,
	docRepo repository.CaseDocumentRepository,
	historyRepo repository.StatusHistoryRepository,
) error) error {
	return r.run(func() error {
		return fn(NewCaseFileRepository(r.s), NewCaseDocumentRepository(r.s), NewStatusHistoryRepository(r.s))
	})
}

// RunPayment ejecuta fn con los repos de cobro.
func (r *TxRunner) RunPayment(ctx context.Context, fn func(
	caseRepo repository.CaseFileRepository,
	paymentRepo repository.PaymentRepository,
) error) error {
	return r.run(func() error {
		return fn(NewCaseFileRepository(r.s), NewPaymentRepository(r.s))
	})
}

func (r *TxRunner) run(fn func() error) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()
	snap := r.s.snapshot()
	if err := fn(); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}
