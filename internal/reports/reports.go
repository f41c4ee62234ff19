// Package reports derives dashboard, billing and report figures from the
// current entity lists. Nothing here is persisted.
package reports

import (
	"cmp"
	"math"
	"slices"
	"time"

	"dentalcare-backend/internal/models"
)

type DashboardStats struct {
	TodayAppointments   int          `json:"todayAppointments"`
	NewPatients         int          `json:"newPatients"`
	PendingPayments     models.Cents `json:"pendingPayments"`
	TreatmentsCompleted int          `json:"treatmentsCompleted"`
	TotalPatients       int          `json:"totalPatients"`
	TotalAppointments   int          `json:"totalAppointments"`
	MonthlyAppointments int          `json:"monthlyAppointments"`
}

// Dashboard computes the headline counters as of now. "Today" and the current
// month are taken in now's location.
func Dashboard(now time.Time, patients []models.Patient, appointments []models.Appointment, treatments []models.Treatment, payments []models.Payment) DashboardStats {
	today := now.Format(models.DateLayout)
	month := now.Format("2006-01")
	weekAgo := now.AddDate(0, 0, -7)

	stats := DashboardStats{
		TreatmentsCompleted: len(treatments),
		TotalPatients:       len(patients),
		TotalAppointments:   len(appointments),
	}
	for _, a := range appointments {
		if a.Date == today {
			stats.TodayAppointments++
		}
		if len(a.Date) >= 7 && a.Date[:7] == month {
			stats.MonthlyAppointments++
		}
	}
	for _, p := range patients {
		if !p.CreatedAt.Before(weekAgo) {
			stats.NewPatients++
		}
	}
	for _, p := range payments {
		if p.Status == models.PaymentPending {
			stats.PendingPayments += models.ParseAmount(p.Amount)
		}
	}
	return stats
}

type BillingSummary struct {
	TotalCharges       models.Cents            `json:"totalCharges"`
	TotalPayments      models.Cents            `json:"totalPayments"`
	OutstandingBalance models.Cents            `json:"outstandingBalance"`
	PaymentProgress    float64                 `json:"paymentProgress"`
	PaymentsByMethod   map[string]models.Cents `json:"paymentsByMethod"`
}

// Billing totals charges (treatment costs) against payments. Callers pass
// lists already filtered to one patient for a per-patient summary.
func Billing(treatments []models.Treatment, payments []models.Payment) BillingSummary {
	s := BillingSummary{PaymentsByMethod: map[string]models.Cents{}}
	for _, t := range treatments {
		s.TotalCharges += models.ParseAmount(t.Cost)
	}
	for _, p := range payments {
		amount := models.ParseAmount(p.Amount)
		s.TotalPayments += amount
		s.PaymentsByMethod[p.PaymentMethod] += amount
	}
	s.OutstandingBalance = s.TotalCharges - s.TotalPayments
	s.PaymentProgress = Progress(s.TotalPayments, s.TotalCharges)
	return s
}

// Progress is paid/charged as a percentage rounded to two decimals, 0 when
// nothing was charged.
func Progress(paid, charged models.Cents) float64 {
	if charged == 0 {
		return 0
	}
	return math.Round(float64(paid)*10000/float64(charged)) / 100
}

type PatientBalance struct {
	PatientID    uint64       `json:"patientId"`
	PatientCode  string       `json:"patientCode"`
	Name         string       `json:"name"`
	TotalCharges models.Cents `json:"totalCharges"`
	TotalPaid    models.Cents `json:"totalPaid"`
	Balance      models.Cents `json:"balance"`
}

// Outstanding lists patients who still owe money, largest balance first.
func Outstanding(patients []models.Patient, treatments []models.Treatment, payments []models.Payment) []PatientBalance {
	charged := map[uint64]models.Cents{}
	paid := map[uint64]models.Cents{}
	for _, t := range treatments {
		charged[t.PatientID] += models.ParseAmount(t.Cost)
	}
	for _, p := range payments {
		paid[p.PatientID] += models.ParseAmount(p.Amount)
	}

	out := []PatientBalance{}
	for _, p := range patients {
		balance := charged[p.ID] - paid[p.ID]
		if balance <= 0 {
			continue
		}
		out = append(out, PatientBalance{
			PatientID:    p.ID,
			PatientCode:  p.PatientID,
			Name:         p.Name,
			TotalCharges: charged[p.ID],
			TotalPaid:    paid[p.ID],
			Balance:      balance,
		})
	}
	slices.SortStableFunc(out, func(a, b PatientBalance) int {
		return cmp.Compare(b.Balance, a.Balance)
	})
	return out
}

type TypeStats struct {
	Count   int          `json:"count"`
	Revenue models.Cents `json:"revenue"`
}

type Summary struct {
	TreatmentsByType     map[string]TypeStats    `json:"treatmentsByType"`
	RevenueByMonth       map[string]models.Cents `json:"revenueByMonth"`
	AppointmentsByStatus map[string]int          `json:"appointmentsByStatus"`
}

// Report groups treatments by type and month and appointments by status.
// Treatments with an unparseable date are left out of RevenueByMonth.
func Report(treatments []models.Treatment, appointments []models.Appointment) Summary {
	s := Summary{
		TreatmentsByType:     map[string]TypeStats{},
		RevenueByMonth:       map[string]models.Cents{},
		AppointmentsByStatus: map[string]int{},
	}
	for _, t := range treatments {
		cost := models.ParseAmount(t.Cost)
		ts := s.TreatmentsByType[t.TreatmentType]
		ts.Count++
		ts.Revenue += cost
		s.TreatmentsByType[t.TreatmentType] = ts

		if d, err := time.Parse(models.DateLayout, t.Date); err == nil {
			s.RevenueByMonth[d.Format("2006-01")] += cost
		}
	}
	for _, a := range appointments {
		s.AppointmentsByStatus[a.Status]++
	}
	return s
}
