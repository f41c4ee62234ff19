package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dentalcare-backend/internal/cache"
	"dentalcare-backend/internal/handlers"
	"dentalcare-backend/internal/models"
	"dentalcare-backend/internal/routes"
	"dentalcare-backend/internal/storage"
	"dentalcare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var fixedNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func now() time.Time { return fixedNow }

type sentNotification struct {
	Token, Title string
	Data         map[string]string
}

type recordingNotifier struct {
	sent []sentNotification
}

func (n *recordingNotifier) SendNotification(_ context.Context, token, title, _ string, data map[string]string) error {
	n.sent = append(n.sent, sentNotification{Token: token, Title: title, Data: data})
	return nil
}

type fakeGateway struct {
	requests []utils.CheckoutRequest
	err      error
}

func (g *fakeGateway) CreateCheckout(_ context.Context, in utils.CheckoutRequest) (*utils.Checkout, error) {
	g.requests = append(g.requests, in)
	if g.err != nil {
		return nil, g.err
	}
	return &utils.Checkout{Token: "snap-token", RedirectURL: "https://pay.example/snap-token"}, nil
}

func (g *fakeGateway) VerifySignature(string, string, string, string) bool { return true }

type fixture struct {
	router   http.Handler
	store    *storage.MemoryStore
	notifier *recordingNotifier
	doctor   *models.User
}

type option func(*handlers.Options)

func newFixture(t *testing.T, opts ...option) *fixture {
	t.Helper()
	store := storage.NewMemoryStore(now)
	doctor, _, err := storage.SeedDefaults(context.Background(), store)
	require.NoError(t, err)

	notifier := &recordingNotifier{}
	o := handlers.Options{
		Store:    store,
		Notifier: notifier,
		Tokens:   utils.NewTokenIssuer("test-secret", time.Hour),
		Now:      now,
		Logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	r := routes.NewRouter(handlers.New(o), routes.Options{Tokens: o.Tokens, Logger: zerolog.Nop()})
	return &fixture{router: r, store: store, notifier: notifier, doctor: doctor}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func patientBody(name string) map[string]any {
	return map[string]any{
		"name":     name,
		"idNumber": "28745612",
		"gender":   "female",
		"dob":      "1990-04-12",
		"phone":    "+254722000111",
		"email":    "jane@example.com",
		"address":  "Ngong Road, Nairobi",
		"service":  "General Dentistry",
	}
}

func (f *fixture) createPatient(t *testing.T, name string) models.Patient {
	t.Helper()
	w := f.do(t, http.MethodPost, "/api/patients", patientBody(name))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeBody[models.Patient](t, w)
}

func (f *fixture) createTreatment(t *testing.T, patientID uint64, cost string) models.Treatment {
	t.Helper()
	w := f.do(t, http.MethodPost, "/api/treatments", map[string]any{
		"patientId":     patientID,
		"doctorId":      f.doctor.ID,
		"date":          "2024-04-20",
		"treatmentType": "Filling",
		"tooth":         "14",
		"cost":          cost,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeBody[models.Treatment](t, w)
}

func (f *fixture) createPayment(t *testing.T, body map[string]any) models.Payment {
	t.Helper()
	w := f.do(t, http.MethodPost, "/api/payments", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeBody[models.Payment](t, w)
}

func TestPatientLifecycle(t *testing.T) {
	f := newFixture(t)

	p := f.createPatient(t, "Jane Wanjiku")
	assert.Equal(t, "PT-00001", p.PatientID)
	assert.Nil(t, p.Insurance)

	w := f.do(t, http.MethodPut, "/api/patients/1", map[string]any{"phone": "+254700999888"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decodeBody[models.Patient](t, w)
	assert.Equal(t, "+254700999888", updated.Phone)
	assert.Equal(t, "Jane Wanjiku", updated.Name)
	assert.Equal(t, "PT-00001", updated.PatientID)

	w = f.do(t, http.MethodDelete, "/api/patients/1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, http.MethodGet, "/api/patients/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"status":404,"message":"Patient not found"}`, w.Body.String())
}

func TestCreatePatient_Validation(t *testing.T) {
	f := newFixture(t)

	body := patientBody("")
	delete(body, "name")
	w := f.do(t, http.MethodPost, "/api/patients", body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	errBody := decodeBody[utils.ErrorBody](t, w)
	assert.Contains(t, errBody.Message, "Validation error")
	assert.Contains(t, errBody.Message, "name is required")

	body = patientBody("Jane")
	body["dob"] = "12/04/1990"
	w = f.do(t, http.MethodPost, "/api/patients", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	list, err := f.store.ListPatients(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestInvalidIDAndMissingEntities(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/api/patients/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid ID")

	for _, path := range []string{
		"/api/appointments/9",
		"/api/treatments/9",
		"/api/payments/9",
		"/api/medical-history/9",
		"/api/dental-chart/9",
		"/api/users/99",
	} {
		w := f.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}

	w = f.do(t, http.MethodDelete, "/api/treatments/9", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = f.do(t, http.MethodPut, "/api/appointments/9", map[string]any{"status": "confirmed"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateAppointment_UnknownPatient(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/appointments", map[string]any{
		"patientId": 42,
		"doctorId":  f.doctor.ID,
		"date":      "2024-05-01",
		"time":      "09:00 AM",
		"treatment": "Check-up",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPatientSubresources_EmptyLists(t *testing.T) {
	f := newFixture(t)
	f.createPatient(t, "Jane Wanjiku")

	for _, sub := range []string{"medical-history", "appointments", "treatments", "dental-chart", "payments"} {
		w := f.do(t, http.MethodGet, "/api/patients/1/"+sub, nil)
		require.Equal(t, http.StatusOK, w.Code, sub)
		assert.JSONEq(t, `[]`, w.Body.String(), sub)
	}
}

func TestListPatients_Search(t *testing.T) {
	f := newFixture(t)
	f.createPatient(t, "Jane Wanjiku")
	f.createPatient(t, "Peter Otieno")

	w := f.do(t, http.MethodGet, "/api/patients?q=otieno", nil)
	require.Equal(t, http.StatusOK, w.Code)
	found := decodeBody[[]models.Patient](t, w)
	require.Len(t, found, 1)
	assert.Equal(t, "Peter Otieno", found[0].Name)
}

func TestListPatients_SearchByPhoneDigits(t *testing.T) {
	f := newFixture(t)
	for _, p := range []struct{ name, phone string }{
		{"Jane Wanjiku", "+254722111222"},
		{"Peter Otieno", "+254733444555"},
		{"Amina Hassan", "+254744111999"},
	} {
		body := patientBody(p.name)
		body["phone"] = p.phone
		w := f.do(t, http.MethodPost, "/api/patients", body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := f.do(t, http.MethodGet, "/api/patients?q=111", nil)
	require.Equal(t, http.StatusOK, w.Code)
	found := decodeBody[[]models.Patient](t, w)
	require.Len(t, found, 2)
	assert.Equal(t, "Jane Wanjiku", found[0].Name)
	assert.Equal(t, "Amina Hassan", found[1].Name)

	w = f.do(t, http.MethodGet, "/api/patients?q=HASSAN", nil)
	found = decodeBody[[]models.Patient](t, w)
	require.Len(t, found, 1)
	assert.Equal(t, "+254744111999", found[0].Phone)
}

func TestDeleteTwice_SecondIsNotFound(t *testing.T) {
	f := newFixture(t)
	p := f.createPatient(t, "Jane Wanjiku")
	f.createTreatment(t, p.ID, "50.00")
	f.createPayment(t, map[string]any{
		"patientId": p.ID, "amount": "50.00", "date": "2024-04-30", "paymentMethod": "cash",
	})
	w := f.do(t, http.MethodPost, "/api/appointments", map[string]any{
		"patientId": p.ID, "doctorId": f.doctor.ID, "date": "2024-05-01", "time": "09:00 AM", "treatment": "Check-up",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Children first so the patient cascade does not remove them.
	for _, path := range []string{
		"/api/appointments/1",
		"/api/payments/1",
		"/api/treatments/1",
		"/api/patients/1",
	} {
		w := f.do(t, http.MethodDelete, path, nil)
		assert.Equal(t, http.StatusNoContent, w.Code, path)
		w = f.do(t, http.MethodDelete, path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.Contains(t, w.Body.String(), "not found", path)
	}
}

func TestUpdatePatient_BlankNameRejected(t *testing.T) {
	f := newFixture(t)
	f.createPatient(t, "Jane Wanjiku")

	w := f.do(t, http.MethodPut, "/api/patients/1", map[string]any{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "name must not be blank")

	w = f.do(t, http.MethodGet, "/api/patients/1", nil)
	assert.Equal(t, "Jane Wanjiku", decodeBody[models.Patient](t, w).Name)
}

func TestListAppointments_ByDateInClockOrder(t *testing.T) {
	f := newFixture(t)
	p := f.createPatient(t, "Jane Wanjiku")

	for _, slot := range []struct{ date, time string }{
		{"2024-05-01", "02:00 PM"},
		{"2024-05-02", "08:00 AM"},
		{"2024-05-01", "09:30 AM"},
	} {
		w := f.do(t, http.MethodPost, "/api/appointments", map[string]any{
			"patientId": p.ID,
			"doctorId":  f.doctor.ID,
			"date":      slot.date,
			"time":      slot.time,
			"treatment": "Check-up",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := f.do(t, http.MethodGet, "/api/appointments?date=2024-05-01", nil)
	require.Equal(t, http.StatusOK, w.Code)
	appts := decodeBody[[]models.Appointment](t, w)
	require.Len(t, appts, 2)
	assert.Equal(t, "09:30 AM", appts[0].Time)
	assert.Equal(t, "02:00 PM", appts[1].Time)
	assert.Equal(t, models.AppointmentScheduled, appts[0].Status)

	w = f.do(t, http.MethodGet, "/api/appointments?date=05-01-2024", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuth_LoginAndRegister(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/auth/login", map[string]any{
		"username": storage.DefaultDoctorUsername,
		"password": storage.DefaultDoctorPassword,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	login := decodeBody[map[string]any](t, w)
	assert.NotEmpty(t, login["token"])
	assert.Equal(t, "Dr. Roberts", login["name"])
	assert.NotContains(t, w.Body.String(), "password")

	w = f.do(t, http.MethodPost, "/api/auth/login", map[string]any{"username": "doctor", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid username or password")

	w = f.do(t, http.MethodPost, "/api/auth/register", map[string]any{
		"username": "doctor",
		"password": "secret1",
		"name":     "Someone Else",
		"email":    "else@example.com",
		"phone":    "+254700000001",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Username already exists")

	w = f.do(t, http.MethodPost, "/api/auth/register", map[string]any{
		"username": "reception",
		"password": "secret1",
		"name":     "Front Desk",
		"email":    "desk@example.com",
		"phone":    "+254700000002",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	user := decodeBody[models.User](t, w)
	assert.Equal(t, models.RoleStaff, user.Role)
}

func TestAppointmentNotifiesDoctor(t *testing.T) {
	f := newFixture(t)
	p := f.createPatient(t, "Jane Wanjiku")

	w := f.do(t, http.MethodPost, "/api/auth/login", map[string]any{
		"username": "doctor",
		"password": "password",
		"fcmToken": "device-1",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodPost, "/api/appointments", map[string]any{
		"patientId": p.ID,
		"doctorId":  f.doctor.ID,
		"date":      "2024-05-01",
		"time":      "09:00 AM",
		"treatment": "Check-up",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.do(t, http.MethodPut, "/api/appointments/1", map[string]any{"notes": "bring x-rays"})
	require.Equal(t, http.StatusOK, w.Code)
	w = f.do(t, http.MethodPut, "/api/appointments/1", map[string]any{"status": "confirmed"})
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, f.notifier.sent, 2)
	assert.Equal(t, "device-1", f.notifier.sent[0].Token)
	assert.Equal(t, "New appointment", f.notifier.sent[0].Title)
	assert.Equal(t, "confirmed", f.notifier.sent[1].Data["status"])
}

func TestDashboardStats_SumsPendingOnly(t *testing.T) {
	f := newFixture(t)
	p := f.createPatient(t, "Jane Wanjiku")

	f.createPayment(t, map[string]any{
		"patientId": p.ID, "amount": "100.00", "date": "2024-04-30", "paymentMethod": "cash",
	})
	f.createPayment(t, map[string]any{
		"patientId": p.ID, "amount": "50.00", "date": "2024-04-30", "paymentMethod": "mpesa", "status": "completed",
	})
	w := f.do(t, http.MethodPost, "/api/appointments", map[string]any{
		"patientId": p.ID, "doctorId": f.doctor.ID, "date": "2024-05-01", "time": "09:00 AM", "treatment": "Check-up",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.do(t, http.MethodGet, "/api/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decodeBody[map[string]any](t, w)
	assert.InDelta(t, 100.0, stats["pendingPayments"], 0.001)
	assert.InDelta(t, 1, stats["todayAppointments"], 0)
	assert.InDelta(t, 1, stats["newPatients"], 0)
	assert.InDelta(t, 1, stats["monthlyAppointments"], 0)
}

func TestBillingSummary(t *testing.T) {
	f := newFixture(t)
	p := f.createPatient(t, "Jane Wanjiku")
	tr := f.createTreatment(t, p.ID, "200.00")
	f.createTreatment(t, p.ID, "120.00")
	f.createPayment(t, map[string]any{
		"patientId": p.ID, "treatmentId": tr.ID, "amount": "120.00", "date": "2024-04-21",
		"paymentMethod": "bank transfer", "status": "completed",
	})

	w := f.do(t, http.MethodGet, "/api/billing/summary?patientId=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := decodeBody[map[string]any](t, w)
	assert.InDelta(t, 320.0, summary["totalCharges"], 0.001)
	assert.InDelta(t, 120.0, summary["totalPayments"], 0.001)
	assert.InDelta(t, 200.0, summary["outstandingBalance"], 0.001)
	assert.InDelta(t, 37.5, summary["paymentProgress"], 0.001)

	w = f.do(t, http.MethodGet, "/api/billing/summary?patientId=99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodGet, "/api/billing/outstanding", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Jane Wanjiku")
}

func TestDeleteTreatment_DetachesPayments(t *testing.T) {
	f := newFixture(t)
	p := f.createPatient(t, "Jane Wanjiku")
	tr := f.createTreatment(t, p.ID, "80.00")
	pay := f.createPayment(t, map[string]any{
		"patientId": p.ID, "treatmentId": tr.ID, "amount": "80.00", "date": "2024-04-21", "paymentMethod": "cash",
	})

	w := f.do(t, http.MethodDelete, "/api/treatments/1", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, http.MethodGet, "/api/payments/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeBody[models.Payment](t, w)
	assert.Equal(t, pay.ID, got.ID)
	assert.Nil(t, got.TreatmentID)
}

func TestResponseCache_InvalidatedByMutation(t *testing.T) {
	f := newFixture(t, func(o *handlers.Options) {
		o.Cache = cache.NewMemory(time.Minute, now)
	})

	w := f.do(t, http.MethodGet, "/api/patients", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	// Written behind the handler's back: the cached list is served.
	name := "Peter Otieno"
	fields := models.PatientFields{}
	require.NoError(t, json.Unmarshal(mustJSON(t, patientBody(name)), &fields))
	_, err := f.store.CreatePatient(context.Background(), fields)
	require.NoError(t, err)

	w = f.do(t, http.MethodGet, "/api/patients", nil)
	assert.JSONEq(t, `[]`, w.Body.String())

	f.createPatient(t, "Jane Wanjiku")
	w = f.do(t, http.MethodGet, "/api/patients", nil)
	assert.Len(t, decodeBody[[]models.Patient](t, w), 2)
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestCheckoutPayment(t *testing.T) {
	gw := &fakeGateway{}
	f := newFixture(t, func(o *handlers.Options) { o.Gateway = gw })
	p := f.createPatient(t, "Jane Wanjiku")
	pending := f.createPayment(t, map[string]any{
		"patientId": p.ID, "amount": "150.50", "date": "2024-04-30", "paymentMethod": "credit card",
	})
	paid := f.createPayment(t, map[string]any{
		"patientId": p.ID, "amount": "20.00", "date": "2024-04-30", "paymentMethod": "cash", "status": "completed",
	})

	w := f.do(t, http.MethodPost, "/api/payments/1/checkout", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"orderId":"PAY-1","token":"snap-token","redirectUrl":"https://pay.example/snap-token"}`, w.Body.String())
	require.Len(t, gw.requests, 1)
	assert.Equal(t, int64(151), gw.requests[0].Amount)
	assert.Equal(t, "Jane Wanjiku", gw.requests[0].Name)
	assert.Equal(t, uint64(1), pending.ID)

	w = f.do(t, http.MethodPost, "/api/payments/2/checkout", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, uint64(2), paid.ID)

	gw.err = errors.New("upstream timeout")
	w = f.do(t, http.MethodPost, "/api/payments/1/checkout", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotContains(t, w.Body.String(), "upstream timeout")
}

func TestCheckoutPayment_GatewayDisabled(t *testing.T) {
	f := newFixture(t)
	p := f.createPatient(t, "Jane Wanjiku")
	f.createPayment(t, map[string]any{
		"patientId": p.ID, "amount": "10.00", "date": "2024-04-30", "paymentMethod": "cash",
	})

	w := f.do(t, http.MethodPost, "/api/payments/1/checkout", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMidtransNotification(t *testing.T) {
	const serverKey = "SB-Mid-server-test"
	f := newFixture(t, func(o *handlers.Options) {
		o.Gateway = utils.NewSnapGateway(serverKey, "sandbox")
	})
	p := f.createPatient(t, "Jane Wanjiku")
	f.createPayment(t, map[string]any{
		"patientId": p.ID, "amount": "150.00", "date": "2024-04-30", "paymentMethod": "credit card",
	})

	notification := func(orderID, status, signature string) map[string]any {
		return map[string]any{
			"order_id":           orderID,
			"status_code":        "200",
			"gross_amount":       "150.00",
			"transaction_status": status,
			"signature_key":      signature,
		}
	}

	w := f.do(t, http.MethodPost, "/api/payments/notifications", notification("PAY-1", "settlement", "forged"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	sig := utils.NotificationSignature("PAY-1", "200", "150.00", serverKey)
	w = f.do(t, http.MethodPost, "/api/payments/notifications", notification("PAY-1", "mystery", sig))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPost, "/api/payments/notifications", notification("PAY-1", "settlement", sig))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	got, err := f.store.GetPayment(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, got.Status)

	sig = utils.NotificationSignature("ORDER-7", "200", "150.00", serverKey)
	w = f.do(t, http.MethodPost, "/api/payments/notifications", notification("ORDER-7", "settlement", sig))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMapTransactionStatus(t *testing.T) {
	cases := []struct {
		tx, fraud, want string
		ok              bool
	}{
		{"capture", "accept", models.PaymentCompleted, true},
		{"capture", "challenge", models.PaymentPending, true},
		{"settlement", "", models.PaymentCompleted, true},
		{"expire", "", models.PaymentFailed, true},
		{"refund", "", models.PaymentRefunded, true},
		{"partial_refund", "", models.PaymentPartiallyPaid, true},
		{"authorize", "", "", false},
	}
	for _, tc := range cases {
		got, ok := handlers.MapTransactionStatus(tc.tx, tc.fraud)
		assert.Equal(t, tc.ok, ok, tc.tx)
		assert.Equal(t, tc.want, got, tc.tx)
	}
}
