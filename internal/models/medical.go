package models

// MedicalHistory holds free-text clinical background for a patient.
type MedicalHistory struct {
	ID          uint64  `gorm:"primaryKey" json:"id"`
	PatientID   uint64  `gorm:"not null;index" json:"patientId"`
	Allergies   *string `gorm:"type:text" json:"allergies"`
	Conditions  *string `gorm:"type:text" json:"conditions"`
	Medications *string `gorm:"type:text" json:"medications"`
	Notes       *string `gorm:"type:text" json:"notes"`
}

func (MedicalHistory) TableName() string {
	return "medical_history"
}

type MedicalHistoryFields struct {
	PatientID   *uint64 `json:"patientId" binding:"omitnil,gt=0"`
	Allergies   *string `json:"allergies"`
	Conditions  *string `json:"conditions"`
	Medications *string `json:"medications"`
	Notes       *string `json:"notes"`
}

func (f MedicalHistoryFields) missingFields() []FieldError {
	return missing(requiredID("patientId", f.PatientID))
}

func (f MedicalHistoryFields) Apply(dst *MedicalHistory) {
	setID(&dst.PatientID, f.PatientID)
	setOptional(&dst.Allergies, f.Allergies)
	setOptional(&dst.Conditions, f.Conditions)
	setOptional(&dst.Medications, f.Medications)
	setOptional(&dst.Notes, f.Notes)
}
