package patients

import (
	"strings"
	"time"
)

// Gender is the enumerated patient gender.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

const dateLayout = "2006-01-02"

// Patient is the stored patient record. Date of birth is the canonical
// field; age is derived for display.
type Patient struct {
	ID           string `dynamodbav:"id" json:"id"`
	Name         string `dynamodbav:"name" json:"name"`
	Phone        string `dynamodbav:"phone" json:"phone"`
	DateOfBirth  string `dynamodbav:"dateOfBirth" json:"dateOfBirth"`
	Gender       Gender `dynamodbav:"gender" json:"gender"`
	RegisteredAt string `dynamodbav:"registeredAt" json:"registeredAt"`
}

// Age derives full years from the date of birth at the given moment.
// Returns 0 when the date of birth is missing or malformed.
func (p *Patient) Age(now time.Time) int {
	dob, err := time.Parse(dateLayout, p.DateOfBirth)
	if err != nil {
		return 0
	}
	years := now.Year() - dob.Year()
	if now.YearDay() < dob.YearDay() {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// CreatePatientRequest is the request body for registering a patient.
type CreatePatientRequest struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"dateOfBirth"`
	Gender      Gender `json:"gender"`
}

// Validate validates the create patient request
func (r *CreatePatientRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrMissingName
	}
	if strings.TrimSpace(r.Phone) == "" {
		return ErrMissingPhone
	}
	if r.DateOfBirth != "" {
		if _, err := time.Parse(dateLayout, r.DateOfBirth); err != nil {
			return ErrInvalidDateOfBirth
		}
	}
	if r.Gender != "" && r.Gender != GenderMale && r.Gender != GenderFemale {
		return ErrInvalidGender
	}
	return nil
}

// UpdatePatientRequest carries the fields of a partial update; nil
// fields are left untouched.
type UpdatePatientRequest struct {
	Name        *string `json:"name,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	DateOfBirth *string `json:"dateOfBirth,omitempty"`
	Gender      *Gender `json:"gender,omitempty"`
}

// Validate validates the update patient request
func (r *UpdatePatientRequest) Validate() error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return ErrMissingName
	}
	if r.Phone != nil && strings.TrimSpace(*r.Phone) == "" {
		return ErrMissingPhone
	}
	if r.DateOfBirth != nil && *r.DateOfBirth != "" {
		if _, err := time.Parse(dateLayout, *r.DateOfBirth); err != nil {
			return ErrInvalidDateOfBirth
		}
	}
	if r.Gender != nil && *r.Gender != GenderMale && *r.Gender != GenderFemale {
		return ErrInvalidGender
	}
	return nil
}

func (r *UpdatePatientRequest) fields() map[string]any {
	fields := make(map[string]any)
	if r.Name != nil {
		fields["name"] = *r.Name
	}
	if r.Phone != nil {
		fields["phone"] = *r.Phone
	}
	if r.DateOfBirth != nil {
		fields["dateOfBirth"] = *r.DateOfBirth
	}
	if r.Gender != nil {
		fields["gender"] = string(*r.Gender)
	}
	return fields
}
