package patients

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/elmarkeb/clinicdesk/internal/cache"
	"github.com/elmarkeb/clinicdesk/internal/docstore"
)

const (
	listKey   = "patients:all"
	keyPrefix = "patients:"
)

// Store defines the patient persistence operations the handler needs.
type Store interface {
	List(ctx context.Context) ([]Patient, error)
	Get(ctx context.Context, id string) (*Patient, error)
	Create(ctx context.Context, req *CreatePatientRequest) (*Patient, error)
	Update(ctx context.Context, id string, req *UpdatePatientRequest) (*Patient, error)
	Delete(ctx context.Context, id string) error
}

// Repository persists patients in the document store with a
// cache-aside entity cache.
type Repository struct {
	coll  *docstore.Collection
	cache *cache.Cache
	now   func() time.Time
}

var _ Store = (*Repository)(nil)

// NewRepository builds a repository over the patients collection. The
// cache may be nil.
func NewRepository(coll *docstore.Collection, c *cache.Cache) *Repository {
	if coll == nil {
		panic("patients: collection required")
	}
	return &Repository{coll: coll, cache: c, now: time.Now}
}

// List returns every patient, served from cache when possible.
func (r *Repository) List(ctx context.Context) ([]Patient, error) {
	var all []Patient
	if r.cache.Get(ctx, listKey, &all) {
		return all, nil
	}
	if err := r.coll.ListAll(ctx, &all); err != nil {
		return nil, fmt.Errorf("patients: list: %w", err)
	}
	r.cache.Set(ctx, listKey, all)
	return all, nil
}

// Get returns one patient by id.
func (r *Repository) Get(ctx context.Context, id string) (*Patient, error) {
	var p Patient
	if r.cache.Get(ctx, keyPrefix+id, &p) {
		return &p, nil
	}
	if err := r.coll.Get(ctx, id, &p); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("patients: load %s: %w", id, err)
	}
	r.cache.Set(ctx, keyPrefix+id, p)
	return &p, nil
}

// Create registers a new patient.
func (r *Repository) Create(ctx context.Context, req *CreatePatientRequest) (*Patient, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := &Patient{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Phone:        req.Phone,
		DateOfBirth:  req.DateOfBirth,
		Gender:       req.Gender,
		RegisteredAt: r.now().UTC().Format(time.RFC3339),
	}
	if err := r.coll.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("patients: create: %w", err)
	}
	r.cache.Invalidate(ctx, listKey)
	return p, nil
}

// Update applies a partial update and returns the stored record.
func (r *Repository) Update(ctx context.Context, id string, req *UpdatePatientRequest) (*Patient, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := r.coll.Update(ctx, id, req.fields()); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("patients: update %s: %w", id, err)
	}
	r.cache.Invalidate(ctx, listKey, keyPrefix+id)

	var p Patient
	if err := r.coll.Get(ctx, id, &p); err != nil {
		return nil, fmt.Errorf("patients: reload %s: %w", id, err)
	}
	return &p, nil
}

// Delete removes a patient. Appointments referencing the patient are
// kept; the aggregator falls back to the denormalized name.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.coll.Delete(ctx, id); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrPatientNotFound
		}
		return fmt.Errorf("patients: delete %s: %w", id, err)
	}
	r.cache.Invalidate(ctx, listKey, keyPrefix+id)
	return nil
}
