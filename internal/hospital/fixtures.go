package hospital

import "time"

// Seed returns the fixture store loaded with the demo hospital dataset.
// Created once at process start and never mutated afterwards.
func Seed() *FixtureStore {
	return NewFixtureStore(seedPatients(), seedAppointments(), seedMedicalRecords(), seedInvoices())
}

func seedPatients() []Patient {
	return []Patient{
		{
			ID:           1,
			RecordNumber: "RM-2024-001",
			FullName:     "Budi Santoso",
			BirthDate:    time.Date(1980, time.May, 15, 0, 0, 0, 0, time.UTC),
			Sex:          "L",
			Address:      "Jl. Merdeka No. 10, Jakarta Selatan",
			Phone:        "081234567890",
			Active:       true,
			NationalID:   "3174000000000001",
			Guarantor:    "Siti Aminah (Istri)",
		},
		{
			ID:           2,
			RecordNumber: "RM-2024-002",
			FullName:     "Citra Lestari",
			BirthDate:    time.Date(1992, time.November, 20, 0, 0, 0, 0, time.UTC),
			Sex:          "P",
			Address:      "Jl. Sudirman No. 45, Jakarta Pusat",
			Phone:        "081987654321",
			Active:       true,
			NationalID:   "3171000000000002",
			Guarantor:    "Agus Wijaya (Suami)",
		},
	}
}

func seedAppointments() []Appointment {
	return []Appointment{
		{
			ID:           101,
			RecordNumber: "RM-2024-001",
			ScheduledAt:  time.Date(2024, time.May, 25, 10, 0, 0, 0, time.UTC),
			ProviderID:   501,
			ProviderName: "Dr. Hartono, Sp.PD",
			ServiceType:  "Konsultasi Penyakit Dalam",
			Status:       AppointmentBooked,
		},
	}
}

func seedMedicalRecords() []MedicalRecord {
	return []MedicalRecord{
		{
			ID:              5001,
			RecordNumber:    "RM-2024-001",
			VisitDate:       time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
			DiagnosisICD10:  "J00 (Acute nasopharyngitis)",
			ClinicalSummary: "Pasien mengeluh demam dan pilek selama 3 hari. Tidak ada sesak napas.",
			TreatmentSNOMED: "710001 (Prescription of paracetamol)",
			AllergyHistory:  "Tidak ada",
			ProviderCode:    501,
		},
	}
}

func seedInvoices() []Invoice {
	return []Invoice{
		{
			ID:            90001,
			RecordNumber:  "RM-2024-001",
			IssuedAt:      time.Date(2024, time.January, 10, 11, 30, 0, 0, time.UTC),
			DueDate:       time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
			Total:         450000,
			Status:        PaymentPaid,
			PaymentMethod: "Cash",
			Lines: []InvoiceLineItem{
				{ID: 1, Description: "Jasa Konsultasi Dokter Spesialis", Quantity: 1, UnitPrice: 300000, LineTotal: 300000},
				{ID: 2, Description: "Obat Paracetamol 500mg", Quantity: 10, UnitPrice: 5000, LineTotal: 50000},
				{ID: 3, Description: "Biaya Administrasi RS", Quantity: 1, UnitPrice: 100000, LineTotal: 100000},
			},
		},
	}
}
