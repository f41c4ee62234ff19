package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	"dentalcare-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStore persists entities in a relational database through gorm.
type GormStore struct {
	db  *gorm.DB
	now func() time.Time
}

var _ Store = (*GormStore)(nil)

// NewGormStore binds now to the session as well, so gorm's own
// CreatedAt/UpdatedAt stamps use the same clock.
func NewGormStore(db *gorm.DB, now func() time.Time) *GormStore {
	if now == nil {
		now = time.Now
	}
	return &GormStore{db: db.Session(&gorm.Session{NowFunc: now}), now: now}
}

// AutoMigrate creates or updates every clinic table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Patient{},
		&models.MedicalHistory{},
		&models.Appointment{},
		&models.Treatment{},
		&models.DentalChart{},
		&models.Payment{},
	)
}

// first loads one row by primary key, mapping a missing row to nil.
func first[T any](db *gorm.DB, id uint64) (*T, error) {
	var row T
	err := db.First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func exists[T any](db *gorm.DB, id uint64) (bool, error) {
	var n int64
	if err := db.Model(new(T)).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func requirePatient(db *gorm.DB, id uint64) error {
	ok, err := exists[models.Patient](db, id)
	if err != nil {
		return err
	}
	if !ok {
		return &ReferenceError{Field: "patientId", Entity: "patient", ID: id}
	}
	return nil
}

func requireDoctor(db *gorm.DB, id uint64) error {
	ok, err := exists[models.User](db, id)
	if err != nil {
		return err
	}
	if !ok {
		return &ReferenceError{Field: "doctorId", Entity: "user", ID: id}
	}
	return nil
}

func requireTreatment(db *gorm.DB, id *uint64) error {
	if id == nil {
		return nil
	}
	ok, err := exists[models.Treatment](db, *id)
	if err != nil {
		return err
	}
	if !ok {
		return &ReferenceError{Field: "treatmentId", Entity: "treatment", ID: *id}
	}
	return nil
}

func deleteByID[T any](db *gorm.DB, id uint64) (bool, error) {
	res := db.Delete(new(T), id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// ===== USERS =====

func (s *GormStore) ListUsers(ctx context.Context, role string) ([]models.User, error) {
	users := []models.User{}
	q := s.db.WithContext(ctx).Order("id")
	if role != "" {
		q = q.Where("role = ?", role)
	}
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *GormStore) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	return first[models.User](s.db.WithContext(ctx), id)
}

func (s *GormStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	if user.Role == "" {
		user.Role = models.RoleStaff
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.User{}).Where("username = ?", user.Username).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrDuplicate
		}
		return tx.Create(&user).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) SetUserFCMToken(ctx context.Context, id uint64, token string) error {
	return s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("fcm_token", token).Error
}

// ===== PATIENTS =====

func (s *GormStore) ListPatients(ctx context.Context) ([]models.Patient, error) {
	patients := []models.Patient{}
	if err := s.db.WithContext(ctx).Order("id").Find(&patients).Error; err != nil {
		return nil, err
	}
	return patients, nil
}

func (s *GormStore) SearchPatients(ctx context.Context, query string) ([]models.Patient, error) {
	patients := []models.Patient{}
	like := "%" + escapeLike(strings.ToLower(query)) + "%"
	raw := "%" + escapeLike(query) + "%"
	err := s.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR LOWER(patient_id) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?", like, like, like, raw).
		Order("id").
		Find(&patients).Error
	if err != nil {
		return nil, err
	}
	return patients, nil
}

func (s *GormStore) GetPatient(ctx context.Context, id uint64) (*models.Patient, error) {
	return first[models.Patient](s.db.WithContext(ctx), id)
}

func (s *GormStore) GetPatientByCode(ctx context.Context, code string) (*models.Patient, error) {
	var p models.Patient
	err := s.db.WithContext(ctx).Where("patient_id = ?", code).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePatient inserts under a unique placeholder code, then rewrites the
// code from the generated id in the same transaction.
func (s *GormStore) CreatePatient(ctx context.Context, in models.PatientFields) (*models.Patient, error) {
	var p models.Patient
	in.Apply(&p)
	p.PatientID = "tmp-" + uuid.NewString()
	p.CreatedAt = s.now()
	p.UpdatedAt = p.CreatedAt

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&p).Error; err != nil {
			return err
		}
		p.PatientID = models.PatientCode(p.ID)
		return tx.Model(&p).Update("patient_id", p.PatientID).Error
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *GormStore) UpdatePatient(ctx context.Context, id uint64, patch models.PatientFields) (*models.Patient, error) {
	var out *models.Patient
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := first[models.Patient](tx, id)
		if err != nil || p == nil {
			return err
		}
		patch.Apply(p)
		p.UpdatedAt = s.now()
		if err := tx.Save(p).Error; err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeletePatient removes the patient and its dependent rows explicitly so the
// cascade holds on schemas created without FK constraints.
func (s *GormStore) DeletePatient(ctx context.Context, id uint64) (bool, error) {
	deleted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, child := range []any{&models.Payment{}, &models.DentalChart{}, &models.Treatment{}, &models.Appointment{}, &models.MedicalHistory{}} {
			if err := tx.Where("patient_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		ok, err := deleteByID[models.Patient](tx, id)
		deleted = ok
		return err
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// ===== MEDICAL HISTORY =====

func (s *GormStore) ListMedicalHistory(ctx context.Context) ([]models.MedicalHistory, error) {
	rows := []models.MedicalHistory{}
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *GormStore) ListMedicalHistoryByPatient(ctx context.Context, patientID uint64) ([]models.MedicalHistory, error) {
	rows := []models.MedicalHistory{}
	if err := s.db.WithContext(ctx).Where("patient_id = ?", patientID).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *GormStore) GetMedicalHistory(ctx context.Context, id uint64) (*models.MedicalHistory, error) {
	return first[models.MedicalHistory](s.db.WithContext(ctx), id)
}

func (s *GormStore) CreateMedicalHistory(ctx context.Context, in models.MedicalHistoryFields) (*models.MedicalHistory, error) {
	var h models.MedicalHistory
	in.Apply(&h)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requirePatient(tx, h.PatientID); err != nil {
			return err
		}
		return tx.Create(&h).Error
	})
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (s *GormStore) UpdateMedicalHistory(ctx context.Context, id uint64, patch models.MedicalHistoryFields) (*models.MedicalHistory, error) {
	var out *models.MedicalHistory
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		h, err := first[models.MedicalHistory](tx, id)
		if err != nil || h == nil {
			return err
		}
		patch.Apply(h)
		if err := requirePatient(tx, h.PatientID); err != nil {
			return err
		}
		if err := tx.Save(h).Error; err != nil {
			return err
		}
		out = h
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ===== APPOINTMENTS =====

func (s *GormStore) findAppointments(ctx context.Context, where string, args ...any) ([]models.Appointment, error) {
	rows := []models.Appointment{}
	q := s.db.WithContext(ctx).Order("id")
	if where != "" {
		q = q.Where(where, args...)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	// Time is a 12-hour string, so SQL ordering cannot be used.
	models.SortAppointments(rows)
	return rows, nil
}

func (s *GormStore) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	return s.findAppointments(ctx, "")
}

func (s *GormStore) ListAppointmentsByDate(ctx context.Context, date string) ([]models.Appointment, error) {
	return s.findAppointments(ctx, "date = ?", date)
}

func (s *GormStore) ListAppointmentsByPatient(ctx context.Context, patientID uint64) ([]models.Appointment, error) {
	return s.findAppointments(ctx, "patient_id = ?", patientID)
}

func (s *GormStore) GetAppointment(ctx context.Context, id uint64) (*models.Appointment, error) {
	return first[models.Appointment](s.db.WithContext(ctx), id)
}

func (s *GormStore) CreateAppointment(ctx context.Context, in models.AppointmentFields) (*models.Appointment, error) {
	var a models.Appointment
	in.Apply(&a)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requirePatient(tx, a.PatientID); err != nil {
			return err
		}
		if err := requireDoctor(tx, a.DoctorID); err != nil {
			return err
		}
		return tx.Create(&a).Error
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *GormStore) UpdateAppointment(ctx context.Context, id uint64, patch models.AppointmentFields) (*models.Appointment, error) {
	var out *models.Appointment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		a, err := first[models.Appointment](tx, id)
		if err != nil || a == nil {
			return err
		}
		patch.Apply(a)
		if err := requirePatient(tx, a.PatientID); err != nil {
			return err
		}
		if err := requireDoctor(tx, a.DoctorID); err != nil {
			return err
		}
		if err := tx.Save(a).Error; err != nil {
			return err
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GormStore) DeleteAppointment(ctx context.Context, id uint64) (bool, error) {
	return deleteByID[models.Appointment](s.db.WithContext(ctx), id)
}

// ===== TREATMENTS =====

func (s *GormStore) ListTreatments(ctx context.Context) ([]models.Treatment, error) {
	rows := []models.Treatment{}
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *GormStore) ListTreatmentsByPatient(ctx context.Context, patientID uint64) ([]models.Treatment, error) {
	rows := []models.Treatment{}
	if err := s.db.WithContext(ctx).Where("patient_id = ?", patientID).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *GormStore) GetTreatment(ctx context.Context, id uint64) (*models.Treatment, error) {
	return first[models.Treatment](s.db.WithContext(ctx), id)
}

func (s *GormStore) CreateTreatment(ctx context.Context, in models.TreatmentFields) (*models.Treatment, error) {
	var t models.Treatment
	in.Apply(&t)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requirePatient(tx, t.PatientID); err != nil {
			return err
		}
		if err := requireDoctor(tx, t.DoctorID); err != nil {
			return err
		}
		return tx.Create(&t).Error
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *GormStore) UpdateTreatment(ctx context.Context, id uint64, patch models.TreatmentFields) (*models.Treatment, error) {
	var out *models.Treatment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := first[models.Treatment](tx, id)
		if err != nil || t == nil {
			return err
		}
		patch.Apply(t)
		if err := requirePatient(tx, t.PatientID); err != nil {
			return err
		}
		if err := requireDoctor(tx, t.DoctorID); err != nil {
			return err
		}
		if err := tx.Save(t).Error; err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteTreatment detaches linked payments before removing the treatment.
func (s *GormStore) DeleteTreatment(ctx context.Context, id uint64) (bool, error) {
	deleted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Payment{}).Where("treatment_id = ?", id).Update("treatment_id", nil).Error; err != nil {
			return err
		}
		ok, err := deleteByID[models.Treatment](tx, id)
		deleted = ok
		return err
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// ===== DENTAL CHART =====

func (s *GormStore) ListDentalChart(ctx context.Context) ([]models.DentalChart, error) {
	rows := []models.DentalChart{}
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *GormStore) ListDentalChartByPatient(ctx context.Context, patientID uint64) ([]models.DentalChart, error) {
	rows := []models.DentalChart{}
	if err := s.db.WithContext(ctx).Where("patient_id = ?", patientID).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *GormStore) GetDentalChartEntry(ctx context.Context, id uint64) (*models.DentalChart, error) {
	return first[models.DentalChart](s.db.WithContext(ctx), id)
}

func (s *GormStore) CreateDentalChartEntry(ctx context.Context, in models.DentalChartFields) (*models.DentalChart, error) {
	var e models.DentalChart
	in.Apply(&e)
	e.UpdatedAt = s.now()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requirePatient(tx, e.PatientID); err != nil {
			return err
		}
		return tx.Create(&e).Error
	})
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *GormStore) UpdateDentalChartEntry(ctx context.Context, id uint64, patch models.DentalChartFields) (*models.DentalChart, error) {
	var out *models.DentalChart
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		e, err := first[models.DentalChart](tx, id)
		if err != nil || e == nil {
			return err
		}
		patch.Apply(e)
		if err := requirePatient(tx, e.PatientID); err != nil {
			return err
		}
		e.UpdatedAt = s.now()
		if err := tx.Save(e).Error; err != nil {
			return err
		}
		out = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ===== PAYMENTS =====

func (s *GormStore) ListPayments(ctx context.Context) ([]models.Payment, error) {
	rows := []models.Payment{}
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *GormStore) ListPaymentsByPatient(ctx context.Context, patientID uint64) ([]models.Payment, error) {
	rows := []models.Payment{}
	if err := s.db.WithContext(ctx).Where("patient_id = ?", patientID).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *GormStore) GetPayment(ctx context.Context, id uint64) (*models.Payment, error) {
	return first[models.Payment](s.db.WithContext(ctx), id)
}

func (s *GormStore) CreatePayment(ctx context.Context, in models.PaymentFields) (*models.Payment, error) {
	var p models.Payment
	in.Apply(&p)
	p.CreatedAt = s.now()
	p.UpdatedAt = p.CreatedAt
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requirePatient(tx, p.PatientID); err != nil {
			return err
		}
		if err := requireTreatment(tx, p.TreatmentID); err != nil {
			return err
		}
		return tx.Create(&p).Error
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *GormStore) UpdatePayment(ctx context.Context, id uint64, patch models.PaymentFields) (*models.Payment, error) {
	var out *models.Payment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := first[models.Payment](tx, id)
		if err != nil || p == nil {
			return err
		}
		patch.Apply(p)
		if err := requirePatient(tx, p.PatientID); err != nil {
			return err
		}
		if err := requireTreatment(tx, p.TreatmentID); err != nil {
			return err
		}
		p.UpdatedAt = s.now()
		if err := tx.Save(p).Error; err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GormStore) DeletePayment(ctx context.Context, id uint64) (bool, error) {
	return deleteByID[models.Payment](s.db.WithContext(ctx), id)
}
