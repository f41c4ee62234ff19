// Package storage persists clinic entities behind one Store interface with an
// in-memory backend (development, tests) and a gorm backend (MySQL/Postgres).
//
// Lookups of a missing id return (nil, nil); updates of a missing id return
// (nil, nil); deletes of a missing id return (false, nil). Callers translate
// those into 404 responses. Backend failures are returned as errors.
package storage

import (
	"context"
	"errors"
	"fmt"

	"dentalcare-backend/internal/models"
)

var (
	// ErrInvalidReference is matched by every *ReferenceError.
	ErrInvalidReference = errors.New("invalid reference")
	// ErrDuplicate reports a unique constraint violation.
	ErrDuplicate = errors.New("duplicate value")
)

// ReferenceError reports a foreign key that points at no row.
type ReferenceError struct {
	Field  string
	Entity string
	ID     uint64
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s %d does not reference an existing %s", e.Field, e.ID, e.Entity)
}

func (e *ReferenceError) Is(target error) bool {
	return target == ErrInvalidReference
}

type UserStore interface {
	ListUsers(ctx context.Context, role string) ([]models.User, error)
	GetUser(ctx context.Context, id uint64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	SetUserFCMToken(ctx context.Context, id uint64, token string) error
}

type PatientStore interface {
	ListPatients(ctx context.Context) ([]models.Patient, error)
	SearchPatients(ctx context.Context, query string) ([]models.Patient, error)
	GetPatient(ctx context.Context, id uint64) (*models.Patient, error)
	GetPatientByCode(ctx context.Context, code string) (*models.Patient, error)
	CreatePatient(ctx context.Context, in models.PatientFields) (*models.Patient, error)
	UpdatePatient(ctx context.Context, id uint64, patch models.PatientFields) (*models.Patient, error)
	DeletePatient(ctx context.Context, id uint64) (bool, error)
}

type MedicalHistoryStore interface {
	ListMedicalHistory(ctx context.Context) ([]models.MedicalHistory, error)
	ListMedicalHistoryByPatient(ctx context.Context, patientID uint64) ([]models.MedicalHistory, error)
	GetMedicalHistory(ctx context.Context, id uint64) (*models.MedicalHistory, error)
	CreateMedicalHistory(ctx context.Context, in models.MedicalHistoryFields) (*models.MedicalHistory, error)
	UpdateMedicalHistory(ctx context.Context, id uint64, patch models.MedicalHistoryFields) (*models.MedicalHistory, error)
}

type AppointmentStore interface {
	ListAppointments(ctx context.Context) ([]models.Appointment, error)
	ListAppointmentsByDate(ctx context.Context, date string) ([]models.Appointment, error)
	ListAppointmentsByPatient(ctx context.Context, patientID uint64) ([]models.Appointment, error)
	GetAppointment(ctx context.Context, id uint64) (*models.Appointment, error)
	CreateAppointment(ctx context.Context, in models.AppointmentFields) (*models.Appointment, error)
	UpdateAppointment(ctx context.Context, id uint64, patch models.AppointmentFields) (*models.Appointment, error)
	DeleteAppointment(ctx context.Context, id uint64) (bool, error)
}

type TreatmentStore interface {
	ListTreatments(ctx context.Context) ([]models.Treatment, error)
	ListTreatmentsByPatient(ctx context.Context, patientID uint64) ([]models.Treatment, error)
	GetTreatment(ctx context.Context, id uint64) (*models.Treatment, error)
	CreateTreatment(ctx context.Context, in models.TreatmentFields) (*models.Treatment, error)
	UpdateTreatment(ctx context.Context, id uint64, patch models.TreatmentFields) (*models.Treatment, error)
	DeleteTreatment(ctx context.Context, id uint64) (bool, error)
}

type DentalChartStore interface {
	ListDentalChart(ctx context.Context) ([]models.DentalChart, error)
	ListDentalChartByPatient(ctx context.Context, patientID uint64) ([]models.DentalChart, error)
	GetDentalChartEntry(ctx context.Context, id uint64) (*models.DentalChart, error)
	CreateDentalChartEntry(ctx context.Context, in models.DentalChartFields) (*models.DentalChart, error)
	UpdateDentalChartEntry(ctx context.Context, id uint64, patch models.DentalChartFields) (*models.DentalChart, error)
}

type PaymentStore interface {
	ListPayments(ctx context.Context) ([]models.Payment, error)
	ListPaymentsByPatient(ctx context.Context, patientID uint64) ([]models.Payment, error)
	GetPayment(ctx context.Context, id uint64) (*models.Payment, error)
	CreatePayment(ctx context.Context, in models.PaymentFields) (*models.Payment, error)
	UpdatePayment(ctx context.Context, id uint64, patch models.PaymentFields) (*models.Payment, error)
	DeletePayment(ctx context.Context, id uint64) (bool, error)
}

// Store is the single source of truth for entity persistence.
type Store interface {
	UserStore
	PatientStore
	MedicalHistoryStore
	AppointmentStore
	TreatmentStore
	DentalChartStore
	PaymentStore
}
