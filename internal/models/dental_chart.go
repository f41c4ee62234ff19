package models

import "time"

const (
	ToothNeedsTreatment     = "needs-treatment"
	ToothTreatmentScheduled = "treatment-scheduled"
	ToothTreated            = "treated"
	ToothHealthy            = "healthy"
)

// DentalChart is one tooth's status for a patient.
type DentalChart struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	PatientID   uint64    `gorm:"not null;index" json:"patientId"`
	ToothNumber string    `gorm:"column:tooth_number;size:2;not null" json:"toothNumber"`
	Status      string    `gorm:"size:30;not null" json:"status"`
	Notes       *string   `gorm:"type:text" json:"notes"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (DentalChart) TableName() string {
	return "dental_chart"
}

type DentalChartFields struct {
	PatientID   *uint64 `json:"patientId" binding:"omitnil,gt=0"`
	ToothNumber *string `json:"toothNumber" binding:"omitnil,toothnum"`
	Status      *string `json:"status" binding:"omitnil,oneof=needs-treatment treatment-scheduled treated healthy"`
	Notes       *string `json:"notes"`
}

func (f DentalChartFields) missingFields() []FieldError {
	return missing(
		requiredID("patientId", f.PatientID),
		requiredString("toothNumber", f.ToothNumber),
		requiredString("status", f.Status),
	)
}

func (f DentalChartFields) Apply(dst *DentalChart) {
	setID(&dst.PatientID, f.PatientID)
	setString(&dst.ToothNumber, f.ToothNumber)
	setString(&dst.Status, f.Status)
	setOptional(&dst.Notes, f.Notes)
}
