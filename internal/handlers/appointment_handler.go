package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"dentalcare-backend/internal/cache"
	"dentalcare-backend/internal/models"
	"dentalcare-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// ListAppointments returns appointments in chronological order, optionally
// only those on ?date=YYYY-MM-DD.
func (h *Handler) ListAppointments(c *gin.Context) {
	date := c.Query("date")
	if date != "" && !models.IsISODate(date) {
		c.Error(apperror.Validation("Validation error: date must be a date in YYYY-MM-DD format"))
		return
	}
	h.serveCached(c, cache.Appointments.WithQuery(c.Request.URL.Query()), func(ctx context.Context) (any, error) {
		if date == "" {
			rows, err := h.store.ListAppointments(ctx)
			return list(rows, err)
		}
		rows, err := h.store.ListAppointmentsByDate(ctx, date)
		return list(rows, err)
	})
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	h.serveCached(c, string(cache.Appointments.Item(id)), func(ctx context.Context) (any, error) {
		row, err := h.store.GetAppointment(ctx, id)
		return notFoundOr(row, err, "Appointment")
	})
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var input models.AppointmentFields
	if !bindFields(c, &input, models.Create) {
		return
	}

	ctx := c.Request.Context()
	appt, err := h.store.CreateAppointment(ctx, input)
	if err != nil {
		fail(c, err)
		return
	}

	h.invalidate(ctx, cache.AppointmentChanged(appt.ID, appt.PatientID))
	h.notifyDoctor(ctx, appt, "New appointment",
		fmt.Sprintf("%s on %s at %s", appt.Treatment, appt.Date, appt.Time))
	c.JSON(http.StatusCreated, appt)
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.AppointmentFields
	if !bindFields(c, &input, models.Update) {
		return
	}

	ctx := c.Request.Context()
	before, err := h.store.GetAppointment(ctx, id)
	if err != nil {
		fail(c, err)
		return
	}
	if before == nil {
		c.Error(apperror.NotFound("Appointment not found"))
		return
	}
	appt, err := h.store.UpdateAppointment(ctx, id, input)
	if err != nil {
		fail(c, err)
		return
	}
	if appt == nil {
		c.Error(apperror.NotFound("Appointment not found"))
		return
	}

	h.invalidate(ctx, cache.AppointmentChanged(id, before.PatientID, appt.PatientID))
	if appt.Status != before.Status {
		h.notifyDoctor(ctx, appt, "Appointment "+appt.Status,
			fmt.Sprintf("%s on %s at %s is now %s", appt.Treatment, appt.Date, appt.Time, appt.Status))
	}
	c.JSON(http.StatusOK, appt)
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	appt, err := h.store.GetAppointment(ctx, id)
	if err != nil {
		fail(c, err)
		return
	}
	if appt == nil {
		c.Error(apperror.NotFound("Appointment not found"))
		return
	}
	deleted, err := h.store.DeleteAppointment(ctx, id)
	if err != nil {
		fail(c, err)
		return
	}
	if !deleted {
		c.Error(apperror.NotFound("Appointment not found"))
		return
	}

	h.invalidate(ctx, cache.AppointmentChanged(id, appt.PatientID))
	c.Status(http.StatusNoContent)
}

// notifyDoctor pushes to the assigned doctor's device. Failures are logged
// and never fail the request.
func (h *Handler) notifyDoctor(ctx context.Context, appt *models.Appointment, title, body string) {
	doctor, err := h.store.GetUser(ctx, appt.DoctorID)
	if err != nil || doctor == nil || doctor.FCMToken == "" {
		return
	}
	data := map[string]string{
		"appointment_id": strconv.FormatUint(appt.ID, 10),
		"patient_id":     strconv.FormatUint(appt.PatientID, 10),
		"status":         appt.Status,
	}
	if err := h.notifier.SendNotification(ctx, doctor.FCMToken, title, body, data); err != nil {
		h.log.Warn().Err(err).Uint64("doctor_id", doctor.ID).Msg("appointment notification failed")
	}
}
