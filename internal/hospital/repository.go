package hospital

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrPatientNotFound is returned when a record number resolves to nothing.
var ErrPatientNotFound = errors.New("hospital: patient not found")

// Repository is the read-only data access surface. One list and one
// find-by-identifier-substring method per record kind, so a real
// persistence backend can replace the fixture store without touching the
// conversation or rendering layers.
type Repository interface {
	ListPatients(ctx context.Context) ([]Patient, error)
	ListAppointments(ctx context.Context) ([]Appointment, error)
	ListMedicalRecords(ctx context.Context) ([]MedicalRecord, error)
	ListInvoices(ctx context.Context) ([]Invoice, error)

	FindPatients(ctx context.Context, filter string) ([]Patient, error)
	FindAppointments(ctx context.Context, filter string) ([]Appointment, error)
	FindMedicalRecords(ctx context.Context, filter string) ([]MedicalRecord, error)
	FindInvoices(ctx context.Context, filter string) ([]Invoice, error)

	// ContextSummary builds the flat situational string handed to the
	// routing model on every turn.
	ContextSummary(ctx context.Context) (string, error)
}

// FixtureStore is an immutable in-memory Repository seeded once at
// construction. Nothing mutates after NewFixtureStore returns, so reads
// need no locking.
type FixtureStore struct {
	patients       []Patient
	appointments   []Appointment
	medicalRecords []MedicalRecord
	invoices       []Invoice
	nameByRec      map[string]string
}

// NewFixtureStore creates a store over the provided collections. Slices are
// copied so later mutation by the caller cannot leak in.
func NewFixtureStore(patients []Patient, appointments []Appointment, medicalRecords []MedicalRecord, invoices []Invoice) *FixtureStore {
	s := &FixtureStore{
		patients:       append([]Patient(nil), patients...),
		appointments:   append([]Appointment(nil), appointments...),
		medicalRecords: append([]MedicalRecord(nil), medicalRecords...),
		invoices:       append([]Invoice(nil), invoices...),
		nameByRec:      make(map[string]string, len(patients)),
	}
	for _, p := range s.patients {
		s.nameByRec[p.RecordNumber] = p.FullName
	}
	return s
}

// ListPatients returns all patients in insertion order.
func (s *FixtureStore) ListPatients(_ context.Context) ([]Patient, error) {
	return append([]Patient(nil), s.patients...), nil
}

// ListAppointments returns all appointments in insertion order.
func (s *FixtureStore) ListAppointments(_ context.Context) ([]Appointment, error) {
	return append([]Appointment(nil), s.appointments...), nil
}

// ListMedicalRecords returns all clinical entries in insertion order.
func (s *FixtureStore) ListMedicalRecords(_ context.Context) ([]MedicalRecord, error) {
	return append([]MedicalRecord(nil), s.medicalRecords...), nil
}

// ListInvoices returns all invoices in insertion order.
func (s *FixtureStore) ListInvoices(_ context.Context) ([]Invoice, error) {
	return append([]Invoice(nil), s.invoices...), nil
}

// FindPatients narrows patients by case-insensitive substring match against
// record number or full name. An empty filter returns everything.
func (s *FixtureStore) FindPatients(ctx context.Context, filter string) ([]Patient, error) {
	if strings.TrimSpace(filter) == "" {
		return s.ListPatients(ctx)
	}
	var out []Patient
	for _, p := range s.patients {
		if matches(filter, p.RecordNumber, p.FullName) {
			out = append(out, p)
		}
	}
	return out, nil
}

// FindAppointments narrows appointments by record number or the owning
// patient's name.
func (s *FixtureStore) FindAppointments(ctx context.Context, filter string) ([]Appointment, error) {
	if strings.TrimSpace(filter) == "" {
		return s.ListAppointments(ctx)
	}
	var out []Appointment
	for _, a := range s.appointments {
		if matches(filter, a.RecordNumber, s.patientName(a.RecordNumber)) {
			out = append(out, a)
		}
	}
	return out, nil
}

// FindMedicalRecords narrows clinical entries by record number or the
// owning patient's name.
func (s *FixtureStore) FindMedicalRecords(ctx context.Context, filter string) ([]MedicalRecord, error) {
	if strings.TrimSpace(filter) == "" {
		return s.ListMedicalRecords(ctx)
	}
	var out []MedicalRecord
	for _, m := range s.medicalRecords {
		if matches(filter, m.RecordNumber, s.patientName(m.RecordNumber)) {
			out = append(out, m)
		}
	}
	return out, nil
}

// FindInvoices narrows invoices by record number or the owning patient's
// name.
func (s *FixtureStore) FindInvoices(ctx context.Context, filter string) ([]Invoice, error) {
	if strings.TrimSpace(filter) == "" {
		return s.ListInvoices(ctx)
	}
	var out []Invoice
	for _, inv := range s.invoices {
		if matches(filter, inv.RecordNumber, s.patientName(inv.RecordNumber)) {
			out = append(out, inv)
		}
	}
	return out, nil
}

// ContextSummary lists every patient with their record number and counts
// appointments still on the calendar. Rebuilt fresh on every call; this is
// the model's only situational grounding.
func (s *FixtureStore) ContextSummary(_ context.Context) (string, error) {
	names := make([]string, 0, len(s.patients))
	for _, p := range s.patients {
		names = append(names, fmt.Sprintf("%s (%s)", p.FullName, p.RecordNumber))
	}
	active := 0
	for _, a := range s.appointments {
		if a.Status == AppointmentBooked || a.Status == AppointmentModified {
			active++
		}
	}
	return fmt.Sprintf("Patients: %s\nAppointments: %d active.", strings.Join(names, ", "), active), nil
}

func (s *FixtureStore) patientName(recordNumber string) string {
	return s.nameByRec[recordNumber]
}

func matches(filter string, recordNumber, name string) bool {
	f := strings.ToLower(strings.TrimSpace(filter))
	if f == "" {
		return true
	}
	if strings.Contains(strings.ToLower(recordNumber), f) {
		return true
	}
	return name != "" && strings.Contains(strings.ToLower(name), f)
}
