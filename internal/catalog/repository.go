package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/elmarkeb/clinicdesk/internal/cache"
	"github.com/elmarkeb/clinicdesk/internal/docstore"
)

const (
	listKey   = "services:all"
	keyPrefix = "services:"
)

// Store defines the catalog persistence operations the handler needs.
type Store interface {
	List(ctx context.Context) ([]Service, error)
	Get(ctx context.Context, id string) (*Service, error)
	Create(ctx context.Context, req *CreateServiceRequest) (*Service, error)
	Update(ctx context.Context, id string, req *UpdateServiceRequest) (*Service, error)
	Delete(ctx context.Context, id string) error
}

// Repository persists catalog services in the document store with a
// cache-aside entity cache.
type Repository struct {
	coll  *docstore.Collection
	cache *cache.Cache
}

var _ Store = (*Repository)(nil)

// NewRepository builds a repository over the services collection. The
// cache may be nil.
func NewRepository(coll *docstore.Collection, c *cache.Cache) *Repository {
	if coll == nil {
		panic("catalog: collection required")
	}
	return &Repository{coll: coll, cache: c}
}

// List returns every service, served from cache when possible.
func (r *Repository) List(ctx context.Context) ([]Service, error) {
	var all []Service
	if r.cache.Get(ctx, listKey, &all) {
		return all, nil
	}
	if err := r.coll.ListAll(ctx, &all); err != nil {
		return nil, fmt.Errorf("catalog: list: %w", err)
	}
	r.cache.Set(ctx, listKey, all)
	return all, nil
}

// Get returns one service by id.
func (r *Repository) Get(ctx context.Context, id string) (*Service, error) {
	var s Service
	if r.cache.Get(ctx, keyPrefix+id, &s) {
		return &s, nil
	}
	if err := r.coll.Get(ctx, id, &s); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("catalog: load %s: %w", id, err)
	}
	r.cache.Set(ctx, keyPrefix+id, s)
	return &s, nil
}

// Create adds a new service, tagging it with the default color when
// none is given.
func (r *Repository) Create(ctx context.Context, req *CreateServiceRequest) (*Service, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	color := req.Color
	if color == "" {
		color = DefaultColor
	}
	s := &Service{
		ID:    uuid.NewString(),
		Name:  req.Name,
		Price: req.Price,
		Color: color,
	}
	if err := r.coll.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("catalog: create: %w", err)
	}
	r.cache.Invalidate(ctx, listKey)
	return s, nil
}

// Update applies a partial update and returns the stored record.
func (r *Repository) Update(ctx context.Context, id string, req *UpdateServiceRequest) (*Service, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := r.coll.Update(ctx, id, req.fields()); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("catalog: update %s: %w", id, err)
	}
	r.cache.Invalidate(ctx, listKey, keyPrefix+id)

	var s Service
	if err := r.coll.Get(ctx, id, &s); err != nil {
		return nil, fmt.Errorf("catalog: reload %s: %w", id, err)
	}
	return &s, nil
}

// Delete removes a service. Appointments referencing it keep their
// denormalized service name; revenue counts it as zero from then on.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.coll.Delete(ctx, id); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrServiceNotFound
		}
		return fmt.Errorf("catalog: delete %s: %w", id, err)
	}
	r.cache.Invalidate(ctx, listKey, keyPrefix+id)
	return nil
}
