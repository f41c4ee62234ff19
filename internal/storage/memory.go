package storage

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"dentalcare-backend/internal/models"
)

// MemoryStore keeps every entity in process memory. Each instance owns its
// own maps and id counters.
type MemoryStore struct {
	mu  sync.RWMutex
	now func() time.Time

	nextID map[string]uint64

	users        map[uint64]models.User
	patients     map[uint64]models.Patient
	history      map[uint64]models.MedicalHistory
	appointments map[uint64]models.Appointment
	treatments   map[uint64]models.Treatment
	chart        map[uint64]models.DentalChart
	payments     map[uint64]models.Payment
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store. A nil clock defaults to time.Now.
func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{
		now:          now,
		nextID:       make(map[string]uint64),
		users:        make(map[uint64]models.User),
		patients:     make(map[uint64]models.Patient),
		history:      make(map[uint64]models.MedicalHistory),
		appointments: make(map[uint64]models.Appointment),
		treatments:   make(map[uint64]models.Treatment),
		chart:        make(map[uint64]models.DentalChart),
		payments:     make(map[uint64]models.Payment),
	}
}

func (s *MemoryStore) allocID(table string) uint64 {
	s.nextID[table]++
	return s.nextID[table]
}

// byID returns the values of m ordered by key.
func byID[T any](m map[uint64]T, keep func(T) bool) []T {
	keys := slices.Sorted(maps.Keys(m))
	out := make([]T, 0, len(keys))
	for _, k := range keys {
		if keep == nil || keep(m[k]) {
			out = append(out, m[k])
		}
	}
	return out
}

func cloneStr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneID(id *uint64) *uint64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func (s *MemoryStore) checkPatient(id uint64) error {
	if _, ok := s.patients[id]; !ok {
		return &ReferenceError{Field: "patientId", Entity: "patient", ID: id}
	}
	return nil
}

func (s *MemoryStore) checkDoctor(id uint64) error {
	if _, ok := s.users[id]; !ok {
		return &ReferenceError{Field: "doctorId", Entity: "user", ID: id}
	}
	return nil
}

func (s *MemoryStore) checkTreatment(id *uint64) error {
	if id == nil {
		return nil
	}
	if _, ok := s.treatments[*id]; !ok {
		return &ReferenceError{Field: "treatmentId", Entity: "treatment", ID: *id}
	}
	return nil
}

// ===== USERS =====

func (s *MemoryStore) ListUsers(_ context.Context, role string) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return byID(s.users, func(u models.User) bool { return role == "" || u.Role == role }), nil
}

func (s *MemoryStore) GetUser(_ context.Context, id uint64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *MemoryStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) CreateUser(_ context.Context, user models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == user.Username {
			return nil, ErrDuplicate
		}
	}
	user.ID = s.allocID("users")
	if user.Role == "" {
		user.Role = models.RoleStaff
	}
	s.users[user.ID] = user
	return &user, nil
}

func (s *MemoryStore) SetUserFCMToken(_ context.Context, id uint64, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil
	}
	u.FCMToken = token
	s.users[id] = u
	return nil
}

// ===== PATIENTS =====

func clonePatient(p models.Patient) *models.Patient {
	p.Insurance = cloneStr(p.Insurance)
	return &p
}

func (s *MemoryStore) ListPatients(_ context.Context) ([]models.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return byID(s.patients, nil), nil
}

func (s *MemoryStore) SearchPatients(_ context.Context, query string) ([]models.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q := strings.ToLower(query)
	return byID(s.patients, func(p models.Patient) bool {
		return strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.PatientID), q) ||
			strings.Contains(strings.ToLower(p.Email), q) ||
			strings.Contains(p.Phone, query)
	}), nil
}

func (s *MemoryStore) GetPatient(_ context.Context, id uint64) (*models.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.patients[id]
	if !ok {
		return nil, nil
	}
	return clonePatient(p), nil
}

func (s *MemoryStore) GetPatientByCode(_ context.Context, code string) (*models.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.patients {
		if p.PatientID == code {
			return clonePatient(p), nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) CreatePatient(_ context.Context, in models.PatientFields) (*models.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var p models.Patient
	in.Apply(&p)
	p.ID = s.allocID("patients")
	p.PatientID = models.PatientCode(p.ID)
	p.CreatedAt = s.now()
	p.UpdatedAt = p.CreatedAt
	s.patients[p.ID] = p
	return clonePatient(p), nil
}

func (s *MemoryStore) UpdatePatient(_ context.Context, id uint64, patch models.PatientFields) (*models.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.patients[id]
	if !ok {
		return nil, nil
	}
	patch.Apply(&p)
	p.UpdatedAt = s.now()
	s.patients[id] = p
	return clonePatient(p), nil
}

// DeletePatient removes the patient and every record that references it.
func (s *MemoryStore) DeletePatient(_ context.Context, id uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.patients[id]; !ok {
		return false, nil
	}
	delete(s.patients, id)
	maps.DeleteFunc(s.history, func(_ uint64, v models.MedicalHistory) bool { return v.PatientID == id })
	maps.DeleteFunc(s.appointments, func(_ uint64, v models.Appointment) bool { return v.PatientID == id })
	maps.DeleteFunc(s.treatments, func(_ uint64, v models.Treatment) bool { return v.PatientID == id })
	maps.DeleteFunc(s.chart, func(_ uint64, v models.DentalChart) bool { return v.PatientID == id })
	maps.DeleteFunc(s.payments, func(_ uint64, v models.Payment) bool { return v.PatientID == id })
	return true, nil
}

// ===== MEDICAL HISTORY =====

func cloneHistory(h models.MedicalHistory) *models.MedicalHistory {
	h.Allergies = cloneStr(h.Allergies)
	h.Conditions = cloneStr(h.Conditions)
	h.Medications = cloneStr(h.Medications)
	h.Notes = cloneStr(h.Notes)
	return &h
}

func (s *MemoryStore) ListMedicalHistory(_ context.Context) ([]models.MedicalHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return byID(s.history, nil), nil
}

func (s *MemoryStore) ListMedicalHistoryByPatient(_ context.Context, patientID uint64) ([]models.MedicalHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return byID(s.history, func(h models.MedicalHistory) bool { return h.PatientID == patientID }), nil
}

func (s *MemoryStore) GetMedicalHistory(_ context.Context, id uint64) (*models.MedicalHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.history[id]
	if !ok {
		return nil, nil
	}
	return cloneHistory(h), nil
}

func (s *MemoryStore) CreateMedicalHistory(_ context.Context, in models.MedicalHistoryFields) (*models.MedicalHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var h models.MedicalHistory
	in.Apply(&h)
	if err := s.checkPatient(h.PatientID); err != nil {
		return nil, err
	}
	h.ID = s.allocID("medical_history")
	s.history[h.ID] = h
	return cloneHistory(h), nil
}

func (s *MemoryStore) UpdateMedicalHistory(_ context.Context, id uint64, patch models.MedicalHistoryFields) (*models.MedicalHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.history[id]
	if !ok {
		return nil, nil
	}
	patch.Apply(&h)
	if err := s.checkPatient(h.PatientID); err != nil {
		return nil, err
	}
	s.history[id] = h
	return cloneHistory(h), nil
}

// ===== APPOINTMENTS =====

func cloneAppointment(a models.Appointment) *models.Appointment {
	a.Notes = cloneStr(a.Notes)
	return &a
}

func (s *MemoryStore) listAppointments(keep func(models.Appointment) bool) []models.Appointment {
	out := byID(s.appointments, keep)
	models.SortAppointments(out)
	return out
}

func (s *MemoryStore) ListAppointments(_ context.Context) ([]models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listAppointments(nil), nil
}

func (s *MemoryStore) ListAppointmentsByDate(_ context.Context, date string) ([]models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listAppointments(func(a models.Appointment) bool { return a.Date == date }), nil
}

func (s *MemoryStore) ListAppointmentsByPatient(_ context.Context, patientID uint64) ([]models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listAppointments(func(a models.Appointment) bool { return a.PatientID == patientID }), nil
}

func (s *MemoryStore) GetAppointment(_ context.Context, id uint64) (*models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.appointments[id]
	if !ok {
		return nil, nil
	}
	return cloneAppointment(a), nil
}

func (s *MemoryStore) checkAppointment(a models.Appointment) error {
	if err := s.checkPatient(a.PatientID); err != nil {
		return err
	}
	return s.checkDoctor(a.DoctorID)
}

func (s *MemoryStore) CreateAppointment(_ context.Context, in models.AppointmentFields) (*models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var a models.Appointment
	in.Apply(&a)
	if err := s.checkAppointment(a); err != nil {
		return nil, err
	}
	a.ID = s.allocID("appointments")
	s.appointments[a.ID] = a
	return cloneAppointment(a), nil
}

func (s *MemoryStore) UpdateAppointment(_ context.Context, id uint64, patch models.AppointmentFields) (*models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.appointments[id]
	if !ok {
		return nil, nil
	}
	patch.Apply(&a)
	if err := s.checkAppointment(a); err != nil {
		return nil, err
	}
	s.appointments[id] = a
	return cloneAppointment(a), nil
}

func (s *MemoryStore) DeleteAppointment(_ context.Context, id uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.appointments[id]; !ok {
		return false, nil
	}
	delete(s.appointments, id)
	return true, nil
}

// ===== TREATMENTS =====

func cloneTreatment(t models.Treatment) *models.Treatment {
	t.Tooth = cloneStr(t.Tooth)
	t.Notes = cloneStr(t.Notes)
	return &t
}

func (s *MemoryStore) ListTreatments(_ context.Context) ([]models.Treatment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return byID(s.treatments, nil), nil
}

func (s *MemoryStore) ListTreatmentsByPatient(_ context.Context, patientID uint64) ([]models.Treatment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return byID(s.treatments, func(t models.Treatment) bool { return t.PatientID == patientID }), nil
}

func (s *MemoryStore) GetTreatment(_ context.Context, id uint64) (*models.Treatment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.treatments[id]
	if !ok {
		return nil, nil
	}
	return cloneTreatment(t), nil
}

func (s *MemoryStore) checkTreatmentRefs(t models.Treatment) error {
	if err := s.checkPatient(t.PatientID); err != nil {
		return err
	}
	return s.checkDoctor(t.DoctorID)
}

func (s *MemoryStore) CreateTreatment(_ context.Context, in models.TreatmentFields) (*models.Treatment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var t models.Treatment
	in.Apply(&t)
	if err := s.checkTreatmentRefs(t); err != nil {
		return nil, err
	}
	t.ID = s.allocID("treatments")
	s.treatments[t.ID] = t
	return cloneTreatment(t), nil
}

func (s *MemoryStore) UpdateTreatment(_ context.Context, id uint64, patch models.TreatmentFields) (*models.Treatment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.treatments[id]
	if !ok {
		return nil, nil
	}
	patch.Apply(&t)
	if err := s.checkTreatmentRefs(t); err != nil {
		return nil, err
	}
	s.treatments[id] = t
	return cloneTreatment(t), nil
}

// DeleteTreatment removes the treatment and detaches payments linked to it.
func (s *MemoryStore) DeleteTreatment(_ context.Context, id uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.treatments[id]; !ok {
		return false, nil
	}
	delete(s.treatments, id)
	for pid, p := range s.payments {
		if p.TreatmentID != nil && *p.TreatmentID == id {
			p.TreatmentID = nil
			s.payments[pid] = p
		}
	}
	return true, nil
}

// ===== DENTAL CHART =====

func cloneChart(e models.DentalChart) *models.DentalChart {
	e.Notes = cloneStr(e.Notes)
	return &e
}

func (s *MemoryStore) ListDentalChart(_ context.Context) ([]models.DentalChart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return byID(s.chart, nil), nil
}

func (s *MemoryStore) ListDentalChartByPatient(_ context.Context, patientID uint64) ([]models.DentalChart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return byID(s.chart, func(e models.DentalChart) bool { return e.PatientID == patientID }), nil
}

func (s *MemoryStore) GetDentalChartEntry(_ context.Context, id uint64) (*models.DentalChart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.chart[id]
	if !ok {
		return nil, nil
	}
	return cloneChart(e), nil
}

func (s *MemoryStore) CreateDentalChartEntry(_ context.Context, in models.DentalChartFields) (*models.DentalChart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var e models.DentalChart
	in.Apply(&e)
	if err := s.checkPatient(e.PatientID); err != nil {
		return nil, err
	}
	e.ID = s.allocID("dental_chart")
	e.UpdatedAt = s.now()
	s.chart[e.ID] = e
	return cloneChart(e), nil
}

func (s *MemoryStore) UpdateDentalChartEntry(_ context.Context, id uint64, patch models.DentalChartFields) (*models.DentalChart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.chart[id]
	if !ok {
		return nil, nil
	}
	patch.Apply(&e)
	if err := s.checkPatient(e.PatientID); err != nil {
		return nil, err
	}
	e.UpdatedAt = s.now()
	s.chart[id] = e
	return cloneChart(e), nil
}

// ===== PAYMENTS =====

func clonePayment(p models.Payment) *models.Payment {
	p.TreatmentID = cloneID(p.TreatmentID)
	p.Notes = cloneStr(p.Notes)
	return &p
}

func (s *MemoryStore) ListPayments(_ context.Context) ([]models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return byID(s.payments, nil), nil
}

func (s *MemoryStore) ListPaymentsByPatient(_ context.Context, patientID uint64) ([]models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return byID(s.payments, func(p models.Payment) bool { return p.PatientID == patientID }), nil
}

func (s *MemoryStore) GetPayment(_ context.Context, id uint64) (*models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.payments[id]
	if !ok {
		return nil, nil
	}
	return clonePayment(p), nil
}

func (s *MemoryStore) checkPaymentRefs(p models.Payment) error {
	if err := s.checkPatient(p.PatientID); err != nil {
		return err
	}
	return s.checkTreatment(p.TreatmentID)
}

func (s *MemoryStore) CreatePayment(_ context.Context, in models.PaymentFields) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var p models.Payment
	in.Apply(&p)
	if err := s.checkPaymentRefs(p); err != nil {
		return nil, err
	}
	p.ID = s.allocID("payments")
	p.CreatedAt = s.now()
	p.UpdatedAt = p.CreatedAt
	s.payments[p.ID] = p
	return clonePayment(p), nil
}

func (s *MemoryStore) UpdatePayment(_ context.Context, id uint64, patch models.PaymentFields) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[id]
	if !ok {
		return nil, nil
	}
	patch.Apply(&p)
	if err := s.checkPaymentRefs(p); err != nil {
		return nil, err
	}
	p.UpdatedAt = s.now()
	s.payments[id] = p
	return clonePayment(p), nil
}

func (s *MemoryStore) DeletePayment(_ context.Context, id uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.payments[id]; !ok {
		return false, nil
	}
	delete(s.payments, id)
	return true, nil
}
