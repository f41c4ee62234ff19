package models

import (
	"fmt"
	"time"
)

// Patient is the root clinical record. PatientID is the human-readable code
// assigned once at creation; it is not part of PatientFields so it can never
// be patched.
type Patient struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	PatientID string    `gorm:"column:patient_id;uniqueIndex;size:40;not null" json:"patientId"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	IDNumber  string    `gorm:"column:id_number;size:50;not null" json:"idNumber"`
	Gender    string    `gorm:"size:20;not null" json:"gender"`
	DOB       string    `gorm:"column:dob;size:10;not null" json:"dob"` // YYYY-MM-DD
	Phone     string    `gorm:"size:20;not null" json:"phone"`
	Email     string    `gorm:"size:100;not null" json:"email"`
	Address   string    `gorm:"type:text;not null" json:"address"`
	Insurance *string   `gorm:"size:100" json:"insurance"`
	Service   string    `gorm:"size:100;not null" json:"service"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	MedicalHistory []MedicalHistory `gorm:"foreignKey:PatientID;constraint:OnDelete:CASCADE" json:"-"`
	Appointments   []Appointment    `gorm:"foreignKey:PatientID;constraint:OnDelete:CASCADE" json:"-"`
	Treatments     []Treatment      `gorm:"foreignKey:PatientID;constraint:OnDelete:CASCADE" json:"-"`
	DentalChart    []DentalChart    `gorm:"foreignKey:PatientID;constraint:OnDelete:CASCADE" json:"-"`
	Payments       []Payment        `gorm:"foreignKey:PatientID;constraint:OnDelete:CASCADE" json:"-"`
}

// PatientCode derives the human-readable patient code from the numeric id.
func PatientCode(id uint64) string {
	return fmt.Sprintf("PT-%05d", id)
}

// PatientFields carries the mutable patient attributes for both create and
// partial update.
type PatientFields struct {
	Name      *string `json:"name" binding:"omitnil,min=1"`
	IDNumber  *string `json:"idNumber" binding:"omitnil,min=1"`
	Gender    *string `json:"gender" binding:"omitnil,min=1"`
	DOB       *string `json:"dob" binding:"omitnil,isodate"`
	Phone     *string `json:"phone" binding:"omitnil,min=1"`
	Email     *string `json:"email" binding:"omitnil,email"`
	Address   *string `json:"address" binding:"omitnil,min=1"`
	Insurance *string `json:"insurance"`
	Service   *string `json:"service" binding:"omitnil,min=1"`
}

func (f PatientFields) missingFields() []FieldError {
	return missing(
		requiredString("name", f.Name),
		requiredString("idNumber", f.IDNumber),
		requiredString("gender", f.Gender),
		requiredString("dob", f.DOB),
		requiredString("phone", f.Phone),
		requiredString("email", f.Email),
		requiredString("address", f.Address),
		requiredString("service", f.Service),
	)
}

// Apply merges the present fields into dst.
func (f PatientFields) Apply(dst *Patient) {
	setString(&dst.Name, f.Name)
	setString(&dst.IDNumber, f.IDNumber)
	setString(&dst.Gender, f.Gender)
	setString(&dst.DOB, f.DOB)
	setString(&dst.Phone, f.Phone)
	setString(&dst.Email, f.Email)
	setString(&dst.Address, f.Address)
	setOptional(&dst.Insurance, f.Insurance)
	setString(&dst.Service, f.Service)
}
