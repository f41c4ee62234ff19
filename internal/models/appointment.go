package models

const (
	AppointmentScheduled  = "scheduled"
	AppointmentConfirmed  = "confirmed"
	AppointmentCheckedIn  = "checked-in"
	AppointmentWaiting    = "waiting"
	AppointmentInProgress = "in-progress"
	AppointmentCompleted  = "completed"
	AppointmentCancelled  = "cancelled"
	AppointmentNoShow     = "no-show"
)

// AppointmentStatuses lists every appointment status in workflow order.
var AppointmentStatuses = []string{
	AppointmentScheduled,
	AppointmentConfirmed,
	AppointmentCheckedIn,
	AppointmentWaiting,
	AppointmentInProgress,
	AppointmentCompleted,
	AppointmentCancelled,
	AppointmentNoShow,
}

type Appointment struct {
	ID        uint64  `gorm:"primaryKey" json:"id"`
	PatientID uint64  `gorm:"not null;index" json:"patientId"`
	DoctorID  uint64  `gorm:"not null;index" json:"doctorId"`
	Date      string  `gorm:"size:10;not null;index" json:"date"` // YYYY-MM-DD
	Time      string  `gorm:"size:8;not null" json:"time"`        // hh:mm AM/PM
	Treatment string  `gorm:"size:255;not null" json:"treatment"`
	Status    string  `gorm:"size:20;not null;default:scheduled" json:"status"`
	Notes     *string `gorm:"type:text" json:"notes"`

	Doctor *User `gorm:"foreignKey:DoctorID" json:"-"`
}

type AppointmentFields struct {
	PatientID *uint64 `json:"patientId" binding:"omitnil,gt=0"`
	DoctorID  *uint64 `json:"doctorId" binding:"omitnil,gt=0"`
	Date      *string `json:"date" binding:"omitnil,isodate"`
	Time      *string `json:"time" binding:"omitnil,clock12"`
	Treatment *string `json:"treatment" binding:"omitnil,min=1"`
	Status    *string `json:"status" binding:"omitnil,oneof=scheduled confirmed checked-in waiting in-progress completed cancelled no-show"`
	Notes     *string `json:"notes"`
}

func (f AppointmentFields) missingFields() []FieldError {
	return missing(
		requiredID("patientId", f.PatientID),
		requiredID("doctorId", f.DoctorID),
		requiredString("date", f.Date),
		requiredString("time", f.Time),
		requiredString("treatment", f.Treatment),
	)
}

func (f AppointmentFields) Apply(dst *Appointment) {
	setID(&dst.PatientID, f.PatientID)
	setID(&dst.DoctorID, f.DoctorID)
	setString(&dst.Date, f.Date)
	setString(&dst.Time, f.Time)
	setString(&dst.Treatment, f.Treatment)
	setString(&dst.Status, f.Status)
	setOptional(&dst.Notes, f.Notes)
	if dst.Status == "" {
		dst.Status = AppointmentScheduled
	}
}
