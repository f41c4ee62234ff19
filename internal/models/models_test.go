package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func idPtr(v uint64) *uint64  { return &v }

func TestParseClock(t *testing.T) {
	cases := map[string]int{
		"12:00 AM": 0,
		"12:05 AM": 5,
		"09:00 AM": 9 * 60,
		"9:30 AM":  9*60 + 30,
		"12:00 PM": 12 * 60,
		"12:15 PM": 12*60 + 15,
		"01:00 PM": 13 * 60,
		"11:59 PM": 23*60 + 59,
	}
	for in, want := range cases {
		got, err := ParseClock(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "13:00 PM", "00:30 AM", "9:5 AM", "09:00", "09:00 am", "25:00 AM"} {
		_, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
}

func TestSortAppointments_SameDate(t *testing.T) {
	list := []Appointment{
		{ID: 1, Date: "2024-05-01", Time: "09:00 AM"},
		{ID: 2, Date: "2024-05-01", Time: "10:30 AM"},
		{ID: 3, Date: "2024-05-01", Time: "12:15 PM"},
		{ID: 4, Date: "2024-05-01", Time: "12:05 AM"},
	}
	SortAppointments(list)

	var times []string
	for _, a := range list {
		times = append(times, a.Time)
	}
	assert.Equal(t, []string{"12:05 AM", "09:00 AM", "10:30 AM", "12:15 PM"}, times)

	for i := 1; i < len(list); i++ {
		prev, _ := ParseClock(list[i-1].Time)
		cur, _ := ParseClock(list[i].Time)
		assert.LessOrEqual(t, prev, cur)
	}
}

func TestSortAppointments_DateThenTime(t *testing.T) {
	list := []Appointment{
		{ID: 1, Date: "2024-05-02", Time: "08:00 AM"},
		{ID: 2, Date: "2024-05-01", Time: "03:00 PM"},
		{ID: 3, Date: "2024-05-01", Time: "11:00 AM"},
	}
	SortAppointments(list)
	assert.Equal(t, uint64(3), list[0].ID)
	assert.Equal(t, uint64(2), list[1].ID)
	assert.Equal(t, uint64(1), list[2].ID)
}

func TestValidate_CreateReportsMissingFields(t *testing.T) {
	err := Validate(PatientFields{Name: strPtr("Jane")}, Create)
	require.Error(t, err)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := map[string]bool{}
	for _, fe := range verrs {
		fields[fe.Field] = true
	}
	for _, f := range []string{"idNumber", "gender", "dob", "phone", "email", "address", "service"} {
		assert.True(t, fields[f], "expected %s to be reported", f)
	}
	assert.False(t, fields["name"])
	assert.False(t, fields["insurance"])
	assert.Contains(t, err.Error(), "Validation error: ")
	assert.Contains(t, err.Error(), "dob is required")
}

func TestValidate_UpdateAllowsEmptyPatch(t *testing.T) {
	assert.NoError(t, Validate(PatientFields{}, Update))
	assert.NoError(t, Validate(AppointmentFields{}, Update))
	assert.NoError(t, Validate(PaymentFields{}, Update))
}

func TestValidate_FormatRules(t *testing.T) {
	cases := []struct {
		name  string
		in    Input
		field string
	}{
		{"bad dob", PatientFields{DOB: strPtr("01022000")}, "dob"},
		{"impossible dob", PatientFields{DOB: strPtr("2023-02-30")}, "dob"},
		{"bad email", PatientFields{Email: strPtr("nope")}, "email"},
		{"bad time", AppointmentFields{Time: strPtr("14:00")}, "time"},
		{"bad appointment status", AppointmentFields{Status: strPtr("done")}, "status"},
		{"negative cost", TreatmentFields{Cost: strPtr("-5")}, "cost"},
		{"three decimals", TreatmentFields{Cost: strPtr("1.005")}, "cost"},
		{"tooth out of range", TreatmentFields{Tooth: strPtr("33")}, "tooth"},
		{"bad chart status", DentalChartFields{Status: strPtr("broken")}, "status"},
		{"bad method", PaymentFields{PaymentMethod: strPtr("bitcoin")}, "paymentMethod"},
		{"bad payment status", PaymentFields{Status: strPtr("paid")}, "status"},
		{"zero patient id", PaymentFields{PatientID: idPtr(0)}, "patientId"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.in, Update)
			var verrs ValidationErrors
			require.ErrorAs(t, err, &verrs)
			require.Len(t, verrs, 1)
			assert.Equal(t, tc.field, verrs[0].Field)
		})
	}
}

func TestValidate_AcceptsSpacedPaymentMethods(t *testing.T) {
	for _, m := range PaymentMethods {
		assert.NoError(t, Validate(PaymentFields{PaymentMethod: strPtr(m)}, Update), m)
	}
}

func TestApply_EmptyPatchKeepsValues(t *testing.T) {
	notes := "sensitive"
	orig := Appointment{ID: 1, PatientID: 2, DoctorID: 3, Date: "2024-01-01", Time: "09:00 AM", Treatment: "Cleaning", Status: AppointmentConfirmed, Notes: &notes}
	got := orig
	AppointmentFields{}.Apply(&got)
	assert.Equal(t, orig, got)
}

func TestApply_OnlyPresentFieldsChange(t *testing.T) {
	p := Patient{Name: "Jane", Phone: "+254712345678", Email: "jane@example.com"}
	PatientFields{Phone: strPtr("+254700000000")}.Apply(&p)
	assert.Equal(t, "Jane", p.Name)
	assert.Equal(t, "+254700000000", p.Phone)
	assert.Equal(t, "jane@example.com", p.Email)
}

func TestApply_DoesNotAliasInput(t *testing.T) {
	in := PaymentFields{Notes: strPtr("first"), TreatmentID: idPtr(4)}
	var p Payment
	in.Apply(&p)
	*in.Notes = "changed"
	*in.TreatmentID = 9
	assert.Equal(t, "first", *p.Notes)
	assert.Equal(t, uint64(4), *p.TreatmentID)
}

func TestApply_Defaults(t *testing.T) {
	var a Appointment
	AppointmentFields{}.Apply(&a)
	assert.Equal(t, AppointmentScheduled, a.Status)

	var p Payment
	PaymentFields{}.Apply(&p)
	assert.Equal(t, PaymentPending, p.Status)
}

func TestParseAmount(t *testing.T) {
	assert.Equal(t, Cents(12000), ParseAmount("120"))
	assert.Equal(t, Cents(9950), ParseAmount("99.50"))
	assert.Equal(t, Cents(10), ParseAmount("0.1"))
	assert.Equal(t, Cents(0), ParseAmount("abc"))
	assert.Equal(t, Cents(0), ParseAmount("-3"))
	assert.Equal(t, Cents(0), ParseAmount("1e3"))
}

func TestCents_Encoding(t *testing.T) {
	assert.Equal(t, "0.30", (ParseAmount("0.10") + ParseAmount("0.20")).String())
	assert.Equal(t, "-12.05", Cents(-1205).String())
	assert.Equal(t, 150.5, Cents(15050).Float())

	body, err := json.Marshal(map[string]Cents{"amount": 705})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":7.05}`, string(body))
}

func TestPatientCode(t *testing.T) {
	assert.Equal(t, "PT-00001", PatientCode(1))
	assert.Equal(t, "PT-12345", PatientCode(12345))
}

func TestValidateStruct_RegisterInput(t *testing.T) {
	err := ValidateStruct(RegisterInput{Username: "doc", Password: "123", Name: "Doc", Email: "doc@x.io", Phone: "1", Role: "nurse"})
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := map[string]bool{}
	for _, fe := range verrs {
		fields[fe.Field] = true
	}
	assert.True(t, fields["password"])
	assert.True(t, fields["role"])
}

func TestValidate_ToothNumbersAreCanonical(t *testing.T) {
	for _, tooth := range []string{"1", "9", "10", "28", "32"} {
		assert.NoError(t, Validate(TreatmentFields{Tooth: strPtr(tooth)}, Update), tooth)
	}
	for _, tooth := range []string{"0", "05", "+5", "33", " 7", "7a"} {
		err := Validate(TreatmentFields{Tooth: strPtr(tooth)}, Update)
		var verrs ValidationErrors
		require.ErrorAs(t, err, &verrs, tooth)
		assert.Equal(t, "tooth", verrs[0].Field, tooth)
	}
}

func TestValidate_UpdateRejectsBlankRequiredFields(t *testing.T) {
	err := Validate(PatientFields{Name: strPtr("   ")}, Update)
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 1)
	assert.Equal(t, "name", verrs[0].Field)
	assert.Contains(t, err.Error(), "name must not be blank")

	assert.Error(t, Validate(AppointmentFields{Treatment: strPtr("")}, Update))
	assert.NoError(t, Validate(PatientFields{Insurance: strPtr("")}, Update))
}

func TestCanGrant(t *testing.T) {
	assert.True(t, CanGrant("", RoleStaff))
	assert.False(t, CanGrant("", RoleDoctor))
	assert.False(t, CanGrant(RoleStaff, RoleAdmin))
	assert.True(t, CanGrant(RoleDoctor, RoleDoctor))
	assert.False(t, CanGrant(RoleDoctor, RoleAdmin))
	assert.True(t, CanGrant(RoleAdmin, RoleAdmin))
	assert.False(t, CanGrant(RoleAdmin, "owner"))
}
