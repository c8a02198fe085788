package hospital

import "time"

// AppointmentStatus tracks the lifecycle of a scheduled visit.
type AppointmentStatus string

const (
	AppointmentBooked    AppointmentStatus = "Booked"
	AppointmentModified  AppointmentStatus = "Modified"
	AppointmentCanceled  AppointmentStatus = "Canceled"
	AppointmentCompleted AppointmentStatus = "Completed"
)

// PaymentStatus tracks the settlement state of an invoice.
type PaymentStatus string

const (
	PaymentPaid            PaymentStatus = "Paid"
	PaymentPending         PaymentStatus = "Pending"
	PaymentClaimInProgress PaymentStatus = "Claim In Progress"
)

// Patient is a master registration record. RecordNumber is the unique key
// every other record kind refers back to.
type Patient struct {
	ID           int       `json:"id"`
	RecordNumber string    `json:"record_number"`
	FullName     string    `json:"full_name"`
	BirthDate    time.Time `json:"birth_date"`
	Sex          string    `json:"sex"` // "L" or "P"
	Address      string    `json:"address"`
	Phone        string    `json:"phone"`
	Active       bool      `json:"active"`
	NationalID   string    `json:"national_id"`
	Guarantor    string    `json:"guarantor"`
}

// Appointment references a patient by record number. The reference is a
// lookup key, not an ownership relation; no integrity is enforced.
type Appointment struct {
	ID           int               `json:"id"`
	RecordNumber string            `json:"record_number"`
	ScheduledAt  time.Time         `json:"scheduled_at"`
	ProviderID   int               `json:"provider_id"`
	ProviderName string            `json:"provider_name"`
	ServiceType  string            `json:"service_type"`
	Status       AppointmentStatus `json:"status"`
}

// MedicalRecord is one clinical visit entry (RME).
type MedicalRecord struct {
	ID              int       `json:"id"`
	RecordNumber    string    `json:"record_number"`
	VisitDate       time.Time `json:"visit_date"`
	DiagnosisICD10  string    `json:"diagnosis_icd10"`
	ClinicalSummary string    `json:"clinical_summary"`
	TreatmentSNOMED string    `json:"treatment_snomedct"`
	AllergyHistory  string    `json:"allergy_history"`
	ProviderCode    int       `json:"provider_code"`
}

// InvoiceLineItem is one billed line on an invoice. LineTotal is stored as
// seeded, not recomputed from Quantity*UnitPrice.
type InvoiceLineItem struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	LineTotal   int64  `json:"line_total"`
}

// Invoice is a billing record with embedded line items. Total should equal
// the sum of line totals, but nothing here enforces that; the seeded value
// is displayed as-is.
type Invoice struct {
	ID               int               `json:"id"`
	RecordNumber     string            `json:"record_number"`
	IssuedAt         time.Time         `json:"issued_at"`
	DueDate          time.Time         `json:"due_date"`
	Total            int64             `json:"total"`
	Status           PaymentStatus     `json:"status"`
	PaymentMethod    string            `json:"payment_method,omitempty"`
	InsuranceClaimID string            `json:"insurance_claim_id,omitempty"`
	Lines            []InvoiceLineItem `json:"lines"`
}

// LineSum returns the sum of the invoice's line totals. Exposed so callers
// can check the total invariant; the store never does.
func (inv Invoice) LineSum() int64 {
	var sum int64
	for _, li := range inv.Lines {
		sum += li.LineTotal
	}
	return sum
}
