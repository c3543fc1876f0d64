package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/elmarkeb/clinicdesk/internal/cache"
	"github.com/elmarkeb/clinicdesk/internal/docstore"
)

const (
	listKey   = "appointments:all"
	keyPrefix = "appointments:"
)

// Store defines the appointment persistence operations the handlers
// and aggregators need.
type Store interface {
	List(ctx context.Context) ([]Appointment, error)
	ListRange(ctx context.Context, from, to time.Time) ([]Appointment, error)
	Get(ctx context.Context, id string) (*Appointment, error)
	Create(ctx context.Context, a *Appointment) error
	SetCompleted(ctx context.Context, id string, completed bool) (*Appointment, error)
}

// Repository persists appointments in the document store with a
// cache-aside entity cache. Range reads always hit the store: booking
// correctness depends on them being fresh.
type Repository struct {
	coll  *docstore.Collection
	cache *cache.Cache
}

var _ Store = (*Repository)(nil)

// NewRepository builds a repository over the appointments collection.
// The cache may be nil.
func NewRepository(coll *docstore.Collection, c *cache.Cache) *Repository {
	if coll == nil {
		panic("appointments: collection required")
	}
	return &Repository{coll: coll, cache: c}
}

// List returns every appointment, served from cache when possible.
func (r *Repository) List(ctx context.Context) ([]Appointment, error) {
	var all []Appointment
	if r.cache.Get(ctx, listKey, &all) {
		return all, nil
	}
	if err := r.coll.ListAll(ctx, &all); err != nil {
		return nil, fmt.Errorf("appointments: list: %w", err)
	}
	r.cache.Set(ctx, listKey, all)
	return all, nil
}

// ListRange returns appointments whose start lies in [from, to].
func (r *Repository) ListRange(ctx context.Context, from, to time.Time) ([]Appointment, error) {
	var appts []Appointment
	if err := r.coll.QueryRange(ctx, "startsAt", from, to, &appts); err != nil {
		return nil, fmt.Errorf("appointments: range: %w", err)
	}
	return appts, nil
}

// Get returns one appointment by id.
func (r *Repository) Get(ctx context.Context, id string) (*Appointment, error) {
	var a Appointment
	if err := r.coll.Get(ctx, id, &a); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("appointments: load %s: %w", id, err)
	}
	return &a, nil
}

// Create inserts a fully-formed appointment built by the booking flow.
func (r *Repository) Create(ctx context.Context, a *Appointment) error {
	if err := r.coll.Create(ctx, a); err != nil {
		return fmt.Errorf("appointments: create: %w", err)
	}
	r.cache.Invalidate(ctx, listKey)
	return nil
}

// SetCompleted toggles the completion flag, the only mutation an
// appointment supports.
func (r *Repository) SetCompleted(ctx context.Context, id string, completed bool) (*Appointment, error) {
	if err := r.coll.Update(ctx, id, map[string]any{"completed": completed}); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("appointments: set completed %s: %w", id, err)
	}
	r.cache.Invalidate(ctx, listKey, keyPrefix+id)

	var a Appointment
	if err := r.coll.Get(ctx, id, &a); err != nil {
		return nil, fmt.Errorf("appointments: reload %s: %w", id, err)
	}
	return &a, nil
}
