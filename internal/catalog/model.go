package catalog

import "strings"

// DefaultColor tags services created without an explicit display color.
const DefaultColor = "yellow"

// Service is a stored catalog entry: an offerable clinic service with
// its price and display color.
type Service struct {
	ID    string `dynamodbav:"id" json:"id"`
	Name  string `dynamodbav:"name" json:"name"`
	Price int64  `dynamodbav:"price" json:"price"`
	Color string `dynamodbav:"color,omitempty" json:"color,omitempty"`
}

// CreateServiceRequest is the request body for adding a service.
type CreateServiceRequest struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
	Color string `json:"color,omitempty"`
}

// Validate validates the create service request
func (r *CreateServiceRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrMissingName
	}
	if r.Price < 0 {
		return ErrNegativePrice
	}
	return nil
}

// UpdateServiceRequest carries the fields of a partial update; nil
// fields are left untouched.
type UpdateServiceRequest struct {
	Name  *string `json:"name,omitempty"`
	Price *int64  `json:"price,omitempty"`
	Color *string `json:"color,omitempty"`
}

// Validate validates the update service request
func (r *UpdateServiceRequest) Validate() error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return ErrMissingName
	}
	if r.Price != nil && *r.Price < 0 {
		return ErrNegativePrice
	}
	return nil
}

func (r *UpdateServiceRequest) fields() map[string]any {
	fields := make(map[string]any)
	if r.Name != nil {
		fields["name"] = *r.Name
	}
	if r.Price != nil {
		fields["price"] = *r.Price
	}
	if r.Color != nil {
		fields["color"] = *r.Color
	}
	return fields
}
