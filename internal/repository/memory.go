package repository

import (
	"context"
	"fmt"
	"sync"

	"carstock/internal/apperr"
	"carstock/internal/model"
	"carstock/internal/utils"
)

// Memory is an in-memory implementation of the repository interfaces.
// It backs tests and offline development; the production adapter is
// ConvexClient.
type Memory struct {
	mu      sync.Mutex
	seq     int
	docs    map[string]model.Product // keyed by internal id
	backups []model.RemoteBackup
	users   []model.User
	err     error
}

// NewMemory returns an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{docs: map[string]model.Product{}}
}

// SetError makes every subsequent call fail with err (nil restores
// normal operation). Used to exercise degraded read paths.
func (m *Memory) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SetUsers replaces the remote user directory contents.
func (m *Memory) SetUsers(users []model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = users
}

// Backups returns a copy of the stored remote backups.
func (m *Memory) Backups() []model.RemoteBackup {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.RemoteBackup, len(m.backups))
	copy(out, m.backups)
	return out
}

// ListProducts implements ProductRepository.
func (m *Memory) ListProducts(ctx context.Context) ([]model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]model.Product, 0, len(m.docs))
	for _, p := range m.docs {
		out = append(out, p)
	}
	return out, nil
}

// FindByBusinessKey implements ProductRepository.
func (m *Memory) FindByBusinessKey(ctx context.Context, productNumber string) (model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return model.Product{}, m.err
	}
	key := utils.NormalizeDigits(productNumber)
	for _, p := range m.docs {
		if utils.NormalizeDigits(p.ProductNumber) == key {
			return p, nil
		}
	}
	return model.Product{}, fmt.Errorf("%w: product %q", apperr.ErrNotFound, productNumber)
}

// Insert implements ProductRepository. Duplicate business keys
// conflict, mirroring the remote mutation.
func (m *Memory) Insert(ctx context.Context, p model.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	key := utils.NormalizeDigits(p.ProductNumber)
	for _, existing := range m.docs {
		if utils.NormalizeDigits(existing.ProductNumber) == key {
			return fmt.Errorf("%w: product number already exists", apperr.ErrConflict)
		}
	}
	m.seq++
	p.ID = fmt.Sprintf("doc-%d", m.seq)
	m.docs[p.ID] = p
	return nil
}

// PatchFields implements ProductRepository.
func (m *Memory) PatchFields(ctx context.Context, id string, patch model.ProductPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	p, ok := m.docs[id]
	if !ok {
		return fmt.Errorf("%w: document %q", apperr.ErrNotFound, id)
	}
	if patch.ProductNumber != nil {
		p.ProductNumber = *patch.ProductNumber
	}
	if patch.ProductName != nil {
		p.ProductName = *patch.ProductName
	}
	if patch.CarName != nil {
		p.CarName = *patch.CarName
	}
	if patch.ModelNumber != nil {
		p.ModelNumber = *patch.ModelNumber
	}
	if patch.Type != nil {
		p.Type = *patch.Type
	}
	if patch.Quantity != nil {
		p.Quantity = *patch.Quantity
	}
	if patch.PriceIQD != nil {
		p.PriceIQD = *patch.PriceIQD
	}
	if patch.WholesalePriceIQD != nil {
		p.WholesalePriceIQD = *patch.WholesalePriceIQD
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.LastUpdate != nil {
		p.LastUpdate = *patch.LastUpdate
	}
	if patch.MessageID != nil {
		p.MessageID = *patch.MessageID
	}
	m.docs[id] = p
	return nil
}

// DeleteByID implements ProductRepository.
func (m *Memory) DeleteByID(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.docs[id]; !ok {
		return fmt.Errorf("%w: document %q", apperr.ErrNotFound, id)
	}
	delete(m.docs, id)
	return nil
}

// CreateBackup implements BackupRepository.
func (m *Memory) CreateBackup(ctx context.Context, b model.RemoteBackup) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.backups = append(m.backups, b)
	return nil
}

// PruneBackups implements BackupRepository, keeping the newest entries.
func (m *Memory) PruneBackups(ctx context.Context, keep int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if len(m.backups) > keep {
		m.backups = m.backups[len(m.backups)-keep:]
	}
	return nil
}

// ListUsers implements UserDirectory.
func (m *Memory) ListUsers(ctx context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]model.User, len(m.users))
	copy(out, m.users)
	return out, nil
}
