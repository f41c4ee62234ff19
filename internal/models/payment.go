package models

import "time"

const (
	PaymentPending       = "pending"
	PaymentCompleted     = "completed"
	PaymentFailed        = "failed"
	PaymentRefunded      = "refunded"
	PaymentPartiallyPaid = "partially-paid"
)

// PaymentMethods lists accepted payment methods.
var PaymentMethods = []string{"mpesa", "cash", "insurance", "bank transfer", "credit card", "nhif", "corporate"}

// Payment is money received from a patient. A nil TreatmentID marks a general
// payment not tied to a specific treatment.
type Payment struct {
	ID            uint64    `gorm:"primaryKey" json:"id"`
	PatientID     uint64    `gorm:"not null;index" json:"patientId"`
	TreatmentID   *uint64   `gorm:"index" json:"treatmentId"`
	Amount        string    `gorm:"size:20;not null" json:"amount"`
	Date          string    `gorm:"size:10;not null" json:"date"`
	PaymentMethod string    `gorm:"column:payment_method;size:20;not null" json:"paymentMethod"`
	Status        string    `gorm:"size:20;not null" json:"status"`
	Notes         *string   `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// PaymentFields uses the `paymentmethod` tag because "bank transfer" and
// "credit card" contain spaces, which oneof cannot express.
type PaymentFields struct {
	PatientID     *uint64 `json:"patientId" binding:"omitnil,gt=0"`
	TreatmentID   *uint64 `json:"treatmentId" binding:"omitnil,gt=0"`
	Amount        *string `json:"amount" binding:"omitnil,money"`
	Date          *string `json:"date" binding:"omitnil,isodate"`
	PaymentMethod *string `json:"paymentMethod" binding:"omitnil,paymentmethod"`
	Status        *string `json:"status" binding:"omitnil,oneof=pending completed failed refunded partially-paid"`
	Notes         *string `json:"notes"`
}

func (f PaymentFields) missingFields() []FieldError {
	return missing(
		requiredID("patientId", f.PatientID),
		requiredString("amount", f.Amount),
		requiredString("date", f.Date),
		requiredString("paymentMethod", f.PaymentMethod),
	)
}

func (f PaymentFields) Apply(dst *Payment) {
	setID(&dst.PatientID, f.PatientID)
	if f.TreatmentID != nil {
		id := *f.TreatmentID
		dst.TreatmentID = &id
	}
	setString(&dst.Amount, f.Amount)
	setString(&dst.Date, f.Date)
	setString(&dst.PaymentMethod, f.PaymentMethod)
	setString(&dst.Status, f.Status)
	setOptional(&dst.Notes, f.Notes)
	if dst.Status == "" {
		dst.Status = PaymentPending
	}
}
