// Package cache holds serialized GET responses under hierarchical keys.
//
// A Key names a collection ("appointments"), an item ("appointments:4") or a
// patient subresource ("patients:7:appointments"). Filtered variants of a key
// are stored under Key+"?"+query and are dropped together with their key.
package cache

import (
	"fmt"
	"net/url"
)

type Key string

// Collections with their own list endpoint.
const (
	Users          Key = "users"
	Patients       Key = "patients"
	MedicalHistory Key = "medical-history"
	Appointments   Key = "appointments"
	Treatments     Key = "treatments"
	DentalChart    Key = "dental-chart"
	Payments       Key = "payments"
)

// Patient subresource names.
const (
	SubMedicalHistory = "medical-history"
	SubAppointments   = "appointments"
	SubTreatments     = "treatments"
	SubDentalChart    = "dental-chart"
	SubPayments       = "payments"
)

// Item is the key of one row in a collection.
func (k Key) Item(id uint64) Key {
	return Key(fmt.Sprintf("%s:%d", k, id))
}

// PatientSub is the key of a patient's subresource list.
func PatientSub(patientID uint64, sub string) Key {
	return Key(fmt.Sprintf("%s:%d:%s", Patients, patientID, sub))
}

// WithQuery returns the storage key of a filtered variant. Empty queries map
// to the key itself.
func (k Key) WithQuery(q url.Values) string {
	if len(q) == 0 {
		return string(k)
	}
	return string(k) + "?" + q.Encode()
}
