package appointments

import "time"

// Appointment is the stored appointment record. PatientName and
// ServiceName are denormalized fallbacks so the record stays renderable
// when the referenced patient or service has been deleted.
type Appointment struct {
	ID          string `dynamodbav:"id" json:"id"`
	PatientID   string `dynamodbav:"patientId" json:"patientId"`
	PatientName string `dynamodbav:"patientName,omitempty" json:"patientName,omitempty"`
	ServiceID   string `dynamodbav:"serviceId" json:"serviceId"`
	ServiceName string `dynamodbav:"serviceName,omitempty" json:"serviceName,omitempty"`
	StartsAt    string `dynamodbav:"startsAt" json:"startsAt"` // RFC3339, UTC
	Reason      string `dynamodbav:"reason,omitempty" json:"reason,omitempty"`
	Completed   bool   `dynamodbav:"completed" json:"completed"`
}

// Start parses the stored timestamp. A malformed timestamp yields the
// zero time, which sorts first and never matches a calendar day.
func (a *Appointment) Start() time.Time {
	t, err := time.Parse(time.RFC3339, a.StartsAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// StartTimes projects the appointment list onto its start timestamps,
// the input the slot engine works with.
func StartTimes(appts []Appointment) []time.Time {
	starts := make([]time.Time, 0, len(appts))
	for i := range appts {
		starts = append(starts, appts[i].Start())
	}
	return starts
}
