package leads

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/rrcordoba/volky/pkg/logging"
)

// FileRepository persists the whole store to a single JSON file, rewriting
// it on every mutation. Persistence is best effort: a missing or corrupt
// file loads as an empty store and failed writes leave the lead in memory
// for the rest of the process lifetime.
type FileRepository struct {
	path   string
	logger *logging.Logger

	mu    sync.Mutex
	leads map[string]*Lead
	now   func() time.Time
}

// NewFileRepository loads the store from path (or starts empty).
func NewFileRepository(path string, logger *logging.Logger) *FileRepository {
	if logger == nil {
		logger = logging.Default()
	}
	r := &FileRepository{
		path:   path,
		logger: logger,
		leads:  make(map[string]*Lead),
		now:    func() time.Time { return time.Now().In(storeLocation()) },
	}
	r.load()
	return r
}

func storeLocation() *time.Location {
	loc, err := time.LoadLocation("America/Mexico_City")
	if err != nil {
		return time.Local
	}
	return loc
}

func (r *FileRepository) load() {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.Warn("leads: could not read store file, starting empty", "path", r.path, "error", err)
		}
		return
	}
	var loaded map[string]*Lead
	if err := json.Unmarshal(data, &loaded); err != nil {
		r.logger.Warn("leads: corrupt store file, starting empty", "path", r.path, "error", err)
		return
	}
	if loaded != nil {
		r.leads = loaded
	}
}

// saveLocked rewrites the whole file. Errors are logged and swallowed.
func (r *FileRepository) saveLocked() {
	data, err := json.MarshalIndent(r.leads, "", "  ")
	if err != nil {
		r.logger.Warn("leads: could not encode store", "error", err)
		return
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		r.logger.Warn("leads: could not write store file", "path", r.path, "error", err)
	}
}

func (r *FileRepository) getOrCreateLocked(phone string) (*Lead, bool) {
	lead, ok := r.leads[phone]
	if ok {
		return lead, false
	}
	now := r.now()
	lead = &Lead{CreatedAt: now, UpdatedAt: now}
	r.leads[phone] = lead
	return lead, true
}

// GetOrCreate returns the existing record or inserts a default one,
// persisting on creation.
func (r *FileRepository) GetOrCreate(ctx context.Context, phone string) (*Lead, error) {
	if phone == "" {
		return nil, ErrMissingPhone
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	lead, created := r.getOrCreateLocked(phone)
	if created {
		r.saveLocked()
	}
	copy := *lead
	return &copy, nil
}

// Get returns the lead or ErrLeadNotFound.
func (r *FileRepository) Get(ctx context.Context, phone string) (*Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lead, ok := r.leads[phone]
	if !ok {
		return nil, ErrLeadNotFound
	}
	copy := *lead
	return &copy, nil
}

// Update merges the partial update, stamps updated_at and persists.
func (r *FileRepository) Update(ctx context.Context, phone string, upd Update) (*Lead, error) {
	if phone == "" {
		return nil, ErrMissingPhone
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	lead, _ := r.getOrCreateLocked(phone)
	upd.apply(lead)
	lead.UpdatedAt = r.now()
	r.saveLocked()
	copy := *lead
	return &copy, nil
}

// Delete removes the record and persists even when the phone was absent.
func (r *FileRepository) Delete(ctx context.Context, phone string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.leads, phone)
	r.saveLocked()
	return nil
}

// List returns a snapshot of all leads.
func (r *FileRepository) List(ctx context.Context) (map[string]Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]Lead, len(r.leads))
	for phone, lead := range r.leads {
		out[phone] = *lead
	}
	return out, nil
}
