package handlers

import (
	"context"
	"net/http"
	"strings"

	"dentalcare-backend/internal/cache"
	"dentalcare-backend/internal/models"
	"dentalcare-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// ListPatients returns every patient, or those matching ?q= by name, code,
// phone or email.
func (h *Handler) ListPatients(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	h.serveCached(c, cache.Patients.WithQuery(c.Request.URL.Query()), func(ctx context.Context) (any, error) {
		if q == "" {
			patients, err := h.store.ListPatients(ctx)
			return list(patients, err)
		}
		patients, err := h.store.SearchPatients(ctx, q)
		return list(patients, err)
	})
}

func (h *Handler) GetPatient(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	h.serveCached(c, string(cache.Patients.Item(id)), func(ctx context.Context) (any, error) {
		p, err := h.store.GetPatient(ctx, id)
		return notFoundOr(p, err, "Patient")
	})
}

// CreatePatient assigns the patient code; a code in the body is ignored.
func (h *Handler) CreatePatient(c *gin.Context) {
	var input models.PatientFields
	if !bindFields(c, &input, models.Create) {
		return
	}

	patient, err := h.store.CreatePatient(c.Request.Context(), input)
	if err != nil {
		fail(c, err)
		return
	}

	h.invalidate(c.Request.Context(), cache.PatientCreated())
	c.JSON(http.StatusCreated, patient)
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.PatientFields
	if !bindFields(c, &input, models.Update) {
		return
	}

	patient, err := h.store.UpdatePatient(c.Request.Context(), id, input)
	if err != nil {
		fail(c, err)
		return
	}
	if patient == nil {
		c.Error(apperror.NotFound("Patient not found"))
		return
	}

	h.invalidate(c.Request.Context(), cache.PatientUpdated(id))
	c.JSON(http.StatusOK, patient)
}

// DeletePatient also removes the patient's records.
func (h *Handler) DeletePatient(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	deleted, err := h.store.DeletePatient(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	if !deleted {
		c.Error(apperror.NotFound("Patient not found"))
		return
	}

	h.invalidate(c.Request.Context(), cache.PatientDeleted(id))
	c.Status(http.StatusNoContent)
}

// ===== PATIENT SUBRESOURCES =====
// These list by patient id and return [] for a patient with no records.

func (h *Handler) PatientMedicalHistory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	h.serveCached(c, string(cache.PatientSub(id, cache.SubMedicalHistory)), func(ctx context.Context) (any, error) {
		rows, err := h.store.ListMedicalHistoryByPatient(ctx, id)
		return list(rows, err)
	})
}

func (h *Handler) PatientAppointments(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	h.serveCached(c, string(cache.PatientSub(id, cache.SubAppointments)), func(ctx context.Context) (any, error) {
		rows, err := h.store.ListAppointmentsByPatient(ctx, id)
		return list(rows, err)
	})
}

func (h *Handler) PatientTreatments(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	h.serveCached(c, string(cache.PatientSub(id, cache.SubTreatments)), func(ctx context.Context) (any, error) {
		rows, err := h.store.ListTreatmentsByPatient(ctx, id)
		return list(rows, err)
	})
}

func (h *Handler) PatientDentalChart(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	h.serveCached(c, string(cache.PatientSub(id, cache.SubDentalChart)), func(ctx context.Context) (any, error) {
		rows, err := h.store.ListDentalChartByPatient(ctx, id)
		return list(rows, err)
	})
}

func (h *Handler) PatientPayments(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	h.serveCached(c, string(cache.PatientSub(id, cache.SubPayments)), func(ctx context.Context) (any, error) {
		rows, err := h.store.ListPaymentsByPatient(ctx, id)
		return list(rows, err)
	})
}
