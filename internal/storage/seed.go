package storage

import (
	"context"
	"fmt"
	"time"

	"dentalcare-backend/internal/models"
	"dentalcare-backend/pkg/utils"
)

const (
	DefaultDoctorUsername = "doctor"
	DefaultDoctorPassword = "password"
)

// SeedDefaults ensures the initial doctor account exists. It reports whether
// the account was created by this call.
func SeedDefaults(ctx context.Context, s Store) (*models.User, bool, error) {
	existing, err := s.GetUserByUsername(ctx, DefaultDoctorUsername)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	hash, err := utils.HashPassword(DefaultDoctorPassword)
	if err != nil {
		return nil, false, fmt.Errorf("hash seed password: %w", err)
	}
	user, err := s.CreateUser(ctx, models.User{
		Username: DefaultDoctorUsername,
		Password: hash,
		Name:     "Dr. Roberts",
		Email:    "dr.roberts@dentalcare.com",
		Phone:    "+254712345678",
		Role:     models.RoleDoctor,
	})
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func ptr[T any](v T) *T { return &v }

// SeedDemo loads a small sample clinic when no patients exist yet. Dates are
// relative to now so the dashboard has something to show.
func SeedDemo(ctx context.Context, s Store, doctorID uint64, now time.Time) error {
	existing, err := s.ListPatients(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	today := now.Format(models.DateLayout)
	lastWeek := now.AddDate(0, 0, -7).Format(models.DateLayout)

	patients := []models.PatientFields{
		{
			Name: ptr("Jane Wanjiku"), IDNumber: ptr("28745612"), Gender: ptr("female"),
			DOB: ptr("1990-04-12"), Phone: ptr("+254722000111"), Email: ptr("jane.wanjiku@example.com"),
			Address: ptr("Ngong Road, Nairobi"), Insurance: ptr("NHIF"), Service: ptr("General Dentistry"),
		},
		{
			Name: ptr("Peter Otieno"), IDNumber: ptr("31029877"), Gender: ptr("male"),
			DOB: ptr("1984-11-03"), Phone: ptr("+254733000222"), Email: ptr("peter.otieno@example.com"),
			Address: ptr("Kilimani, Nairobi"), Service: ptr("Orthodontics"),
		},
	}

	for i, in := range patients {
		p, err := s.CreatePatient(ctx, in)
		if err != nil {
			return fmt.Errorf("seed patient: %w", err)
		}

		if _, err := s.CreateMedicalHistory(ctx, models.MedicalHistoryFields{
			PatientID: &p.ID,
			Allergies: ptr("None known"),
		}); err != nil {
			return fmt.Errorf("seed medical history: %w", err)
		}

		if _, err := s.CreateAppointment(ctx, models.AppointmentFields{
			PatientID: &p.ID,
			DoctorID:  &doctorID,
			Date:      ptr(today),
			Time:      ptr(fmt.Sprintf("%02d:00 AM", 9+i)),
			Treatment: ptr("Check-up"),
			Status:    ptr(models.AppointmentConfirmed),
		}); err != nil {
			return fmt.Errorf("seed appointment: %w", err)
		}

		t, err := s.CreateTreatment(ctx, models.TreatmentFields{
			PatientID:     &p.ID,
			DoctorID:      &doctorID,
			Date:          ptr(lastWeek),
			TreatmentType: ptr("Filling"),
			Tooth:         ptr(fmt.Sprint(14 + i)),
			Cost:          ptr("120.00"),
		})
		if err != nil {
			return fmt.Errorf("seed treatment: %w", err)
		}

		if _, err := s.CreateDentalChartEntry(ctx, models.DentalChartFields{
			PatientID:   &p.ID,
			ToothNumber: t.Tooth,
			Status:      ptr(models.ToothTreated),
		}); err != nil {
			return fmt.Errorf("seed dental chart: %w", err)
		}

		status := models.PaymentCompleted
		if i > 0 {
			status = models.PaymentPending
		}
		if _, err := s.CreatePayment(ctx, models.PaymentFields{
			PatientID:     &p.ID,
			TreatmentID:   &t.ID,
			Amount:        ptr("120.00"),
			Date:          ptr(lastWeek),
			PaymentMethod: ptr("mpesa"),
			Status:        ptr(status),
		}); err != nil {
			return fmt.Errorf("seed payment: %w", err)
		}
	}
	return nil
}
