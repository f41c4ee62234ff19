package cache

// Invalidation lists what a mutation makes stale. Keys drop the key and its
// query variants; Trees also drop every descendant key.
type Invalidation struct {
	Keys  []Key
	Trees []Key
}

func subKeys(sub string, patientIDs []uint64) []Key {
	keys := make([]Key, 0, len(patientIDs))
	for _, id := range patientIDs {
		keys = append(keys, PatientSub(id, sub))
	}
	return keys
}

func entityChanged(coll Key, id uint64, sub string, patientIDs []uint64) Invalidation {
	keys := []Key{coll, coll.Item(id)}
	return Invalidation{Keys: append(keys, subKeys(sub, patientIDs)...)}
}

func UserCreated() Invalidation {
	return Invalidation{Keys: []Key{Users}}
}

func PatientCreated() Invalidation {
	return Invalidation{Keys: []Key{Patients}}
}

func PatientUpdated(id uint64) Invalidation {
	return Invalidation{Keys: []Key{Patients, Patients.Item(id)}}
}

// PatientDeleted covers the cascade: every child collection may have lost
// rows.
func PatientDeleted(id uint64) Invalidation {
	return Invalidation{
		Keys:  []Key{Patients},
		Trees: []Key{Patients.Item(id), MedicalHistory, Appointments, Treatments, DentalChart, Payments},
	}
}

// The patientIDs arguments below name every patient whose subresource list
// may have changed: the row's owner, plus the previous owner when an update
// moved it.

func MedicalHistoryChanged(id uint64, patientIDs ...uint64) Invalidation {
	return entityChanged(MedicalHistory, id, SubMedicalHistory, patientIDs)
}

func AppointmentChanged(id uint64, patientIDs ...uint64) Invalidation {
	return entityChanged(Appointments, id, SubAppointments, patientIDs)
}

func TreatmentChanged(id uint64, patientIDs ...uint64) Invalidation {
	return entityChanged(Treatments, id, SubTreatments, patientIDs)
}

// TreatmentDeleted also drops payments, whose treatmentId was cleared.
func TreatmentDeleted(id uint64, patientID uint64) Invalidation {
	inv := entityChanged(Treatments, id, SubTreatments, []uint64{patientID})
	inv.Keys = append(inv.Keys, PatientSub(patientID, SubPayments))
	inv.Trees = append(inv.Trees, Payments)
	return inv
}

func DentalChartChanged(id uint64, patientIDs ...uint64) Invalidation {
	return entityChanged(DentalChart, id, SubDentalChart, patientIDs)
}

func PaymentChanged(id uint64, patientIDs ...uint64) Invalidation {
	return entityChanged(Payments, id, SubPayments, patientIDs)
}
