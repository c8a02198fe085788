package dataview

import (
	"context"
	"fmt"
	"strings"

	"github.com/wibisono/ais-console/internal/hospital"
	"github.com/wibisono/ais-console/internal/routing"
)

// Kind names which collection (or informational panel) a view shows.
type Kind string

const (
	KindCoordinator    Kind = "coordinator"
	KindPatients       Kind = "patients"
	KindAppointments   Kind = "appointments"
	KindMedicalRecords Kind = "medical_records"
	KindInvoices       Kind = "invoices"
)

// CoordinatorInfo is the fixed informational panel shown when no specialist
// agent is selected.
type CoordinatorInfo struct {
	Headline     string   `json:"headline"`
	Description  string   `json:"description"`
	StatusLines  []string `json:"status_lines"`
	QuickActions []string `json:"quick_actions"`
}

// View is the renderable structure handed to the presentation layer. Empty
// is only true for a filtered view with zero rows; an unfiltered empty
// collection is not a "nothing found" state.
type View struct {
	Agent    routing.AgentTag `json:"agent"`
	Kind     Kind             `json:"kind"`
	Filter   string           `json:"filter,omitempty"`
	Filtered bool             `json:"filtered"`
	Empty    bool             `json:"empty"`

	Info           *CoordinatorInfo         `json:"info,omitempty"`
	Patients       []hospital.Patient       `json:"patients,omitempty"`
	Appointments   []hospital.Appointment   `json:"appointments,omitempty"`
	MedicalRecords []hospital.MedicalRecord `json:"medical_records,omitempty"`
	Invoices       []hospital.Invoice       `json:"invoices,omitempty"`
}

// Rows reports how many records the view carries.
func (v View) Rows() int {
	return len(v.Patients) + len(v.Appointments) + len(v.MedicalRecords) + len(v.Invoices)
}

// Render derives the visible table for (agent, filter) over the store. Each
// specialist agent maps to exactly one collection; the coordinator gets the
// informational panel. Filtering is a case-insensitive substring match on
// record number or patient name, delegated to the repository.
func Render(ctx context.Context, agent routing.AgentTag, filter string, repo hospital.Repository) (View, error) {
	filter = strings.TrimSpace(filter)
	view := View{
		Agent:    agent,
		Filter:   filter,
		Filtered: filter != "",
	}

	var err error
	switch agent {
	case routing.AgentPatientManagement:
		view.Kind = KindPatients
		view.Patients, err = repo.FindPatients(ctx, filter)
	case routing.AgentAppointmentScheduling:
		view.Kind = KindAppointments
		view.Appointments, err = repo.FindAppointments(ctx, filter)
	case routing.AgentMedicalRecords:
		view.Kind = KindMedicalRecords
		view.MedicalRecords, err = repo.FindMedicalRecords(ctx, filter)
	case routing.AgentBilling:
		view.Kind = KindInvoices
		view.Invoices, err = repo.FindInvoices(ctx, filter)
	default:
		view.Kind = KindCoordinator
		view.Info, err = coordinatorInfo(ctx, repo)
		return view, err
	}
	if err != nil {
		return View{}, fmt.Errorf("dataview: rendering %s: %w", view.Kind, err)
	}

	view.Empty = view.Filtered && view.Rows() == 0
	return view, nil
}

func coordinatorInfo(ctx context.Context, repo hospital.Repository) (*CoordinatorInfo, error) {
	patients, err := repo.ListPatients(ctx)
	if err != nil {
		return nil, fmt.Errorf("dataview: coordinator info: %w", err)
	}
	appointments, err := repo.ListAppointments(ctx)
	if err != nil {
		return nil, fmt.Errorf("dataview: coordinator info: %w", err)
	}
	return &CoordinatorInfo{
		Headline:    "AIS Hospital Agent System",
		Description: "The coordinator routes requests to the Patient Management, Scheduling, Medical Records, and Billing desks over a central data foundation.",
		StatusLines: []string{
			"System Status: OPERATIONAL",
			fmt.Sprintf("Registered Patients: %d", len(patients)),
			fmt.Sprintf("Appointments On File: %d", len(appointments)),
		},
		QuickActions: []string{
			`"Show me invoice for Budi"`,
			`"Check medical history for RM-2024-001"`,
			`"Schedule appointment for Dr. Hartono"`,
		},
	}, nil
}
