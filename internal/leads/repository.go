package leads

import (
	"context"
	"sync"
	"time"
)

// Repository defines the interface for lead storage. All implementations
// must make read-modify-write for a single phone atomic with respect to
// other updates of the same phone; different phones are independent.
type Repository interface {
	// GetOrCreate returns the lead for phone, inserting a fresh default
	// record when the phone has never been seen.
	GetOrCreate(ctx context.Context, phone string) (*Lead, error)
	// Get returns the lead or ErrLeadNotFound.
	Get(ctx context.Context, phone string) (*Lead, error)
	// Update merges the partial update into the lead (creating it first if
	// needed) and stamps updated_at.
	Update(ctx context.Context, phone string, upd Update) (*Lead, error)
	// Delete removes the record; deleting an absent phone is not an error.
	Delete(ctx context.Context, phone string) error
	// List returns a snapshot of every stored lead keyed by phone.
	List(ctx context.Context) (map[string]Lead, error)
}

// InMemoryRepository keeps leads in a map. Used by tests and as the
// ephemeral backend.
type InMemoryRepository struct {
	mu    sync.RWMutex
	leads map[string]*Lead
	now   func() time.Time
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		leads: make(map[string]*Lead),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *InMemoryRepository) getOrCreateLocked(phone string) *Lead {
	lead, ok := r.leads[phone]
	if !ok {
		now := r.now()
		lead = &Lead{CreatedAt: now, UpdatedAt: now}
		r.leads[phone] = lead
	}
	return lead
}

// GetOrCreate returns the existing lead or inserts a default one.
func (r *InMemoryRepository) GetOrCreate(ctx context.Context, phone string) (*Lead, error) {
	if phone == "" {
		return nil, ErrMissingPhone
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	lead := *r.getOrCreateLocked(phone)
	return &lead, nil
}

// Get returns the lead or ErrLeadNotFound.
func (r *InMemoryRepository) Get(ctx context.Context, phone string) (*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lead, ok := r.leads[phone]
	if !ok {
		return nil, ErrLeadNotFound
	}
	copy := *lead
	return &copy, nil
}

// Update merges the partial update and stamps updated_at.
func (r *InMemoryRepository) Update(ctx context.Context, phone string, upd Update) (*Lead, error) {
	if phone == "" {
		return nil, ErrMissingPhone
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	lead := r.getOrCreateLocked(phone)
	upd.apply(lead)
	lead.UpdatedAt = r.now()
	copy := *lead
	return &copy, nil
}

// Delete removes the record; absent phones are a no-op.
func (r *InMemoryRepository) Delete(ctx context.Context, phone string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.leads, phone)
	return nil
}

// List returns a snapshot of all leads.
func (r *InMemoryRepository) List(ctx context.Context) (map[string]Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Lead, len(r.leads))
	for phone, lead := range r.leads {
		out[phone] = *lead
	}
	return out, nil
}
