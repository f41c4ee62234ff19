package models

// Treatment is a procedure performed on a patient. Cost is a decimal string.
type Treatment struct {
	ID            uint64  `gorm:"primaryKey" json:"id"`
	PatientID     uint64  `gorm:"not null;index" json:"patientId"`
	DoctorID      uint64  `gorm:"not null;index" json:"doctorId"`
	Date          string  `gorm:"size:10;not null" json:"date"`
	TreatmentType string  `gorm:"column:treatment_type;size:100;not null" json:"treatmentType"`
	Tooth         *string `gorm:"size:2" json:"tooth"`
	Notes         *string `gorm:"type:text" json:"notes"`
	Cost          string  `gorm:"size:20;not null" json:"cost"`

	Doctor   *User     `gorm:"foreignKey:DoctorID" json:"-"`
	Payments []Payment `gorm:"foreignKey:TreatmentID;constraint:OnDelete:SET NULL" json:"-"`
}

type TreatmentFields struct {
	PatientID     *uint64 `json:"patientId" binding:"omitnil,gt=0"`
	DoctorID      *uint64 `json:"doctorId" binding:"omitnil,gt=0"`
	Date          *string `json:"date" binding:"omitnil,isodate"`
	TreatmentType *string `json:"treatmentType" binding:"omitnil,min=1"`
	Tooth         *string `json:"tooth" binding:"omitnil,toothnum"`
	Notes         *string `json:"notes"`
	Cost          *string `json:"cost" binding:"omitnil,money"`
}

func (f TreatmentFields) missingFields() []FieldError {
	return missing(
		requiredID("patientId", f.PatientID),
		requiredID("doctorId", f.DoctorID),
		requiredString("date", f.Date),
		requiredString("treatmentType", f.TreatmentType),
		requiredString("cost", f.Cost),
	)
}

func (f TreatmentFields) Apply(dst *Treatment) {
	setID(&dst.PatientID, f.PatientID)
	setID(&dst.DoctorID, f.DoctorID)
	setString(&dst.Date, f.Date)
	setString(&dst.TreatmentType, f.TreatmentType)
	setOptional(&dst.Tooth, f.Tooth)
	setOptional(&dst.Notes, f.Notes)
	setString(&dst.Cost, f.Cost)
}
