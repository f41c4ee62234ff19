package handlers

import (
	"net/http"

	"dentalcare-backend/internal/models"
	"dentalcare-backend/internal/reports"
	"dentalcare-backend/pkg/apperror"
	"dentalcare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// The aggregate endpoints below always read fresh lists and are never cached.

func (h *Handler) DashboardStats(c *gin.Context) {
	ctx := c.Request.Context()
	patients, err := h.store.ListPatients(ctx)
	if err != nil {
		fail(c, err)
		return
	}
	appointments, err := h.store.ListAppointments(ctx)
	if err != nil {
		fail(c, err)
		return
	}
	treatments, err := h.store.ListTreatments(ctx)
	if err != nil {
		fail(c, err)
		return
	}
	payments, err := h.store.ListPayments(ctx)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, reports.Dashboard(h.now(), patients, appointments, treatments, payments))
}

// BillingSummary totals the whole clinic, or one patient with ?patientId=.
func (h *Handler) BillingSummary(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		treatments []models.Treatment
		payments   []models.Payment
		err        error
	)

	if raw := c.Query("patientId"); raw != "" {
		id, perr := utils.ParseID(raw)
		if perr != nil {
			c.Error(apperror.Validation("Validation error: patientId must be a positive id"))
			return
		}
		patient, err := h.store.GetPatient(ctx, id)
		if err != nil {
			fail(c, err)
			return
		}
		if patient == nil {
			c.Error(apperror.NotFound("Patient not found"))
			return
		}
		if treatments, err = h.store.ListTreatmentsByPatient(ctx, id); err != nil {
			fail(c, err)
			return
		}
		if payments, err = h.store.ListPaymentsByPatient(ctx, id); err != nil {
			fail(c, err)
			return
		}
	} else {
		if treatments, err = h.store.ListTreatments(ctx); err != nil {
			fail(c, err)
			return
		}
		if payments, err = h.store.ListPayments(ctx); err != nil {
			fail(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, reports.Billing(treatments, payments))
}

func (h *Handler) OutstandingBalances(c *gin.Context) {
	ctx := c.Request.Context()
	patients, err := h.store.ListPatients(ctx)
	if err != nil {
		fail(c, err)
		return
	}
	treatments, err := h.store.ListTreatments(ctx)
	if err != nil {
		fail(c, err)
		return
	}
	payments, err := h.store.ListPayments(ctx)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, reports.Outstanding(patients, treatments, payments))
}

func (h *Handler) ReportSummary(c *gin.Context) {
	ctx := c.Request.Context()
	treatments, err := h.store.ListTreatments(ctx)
	if err != nil {
		fail(c, err)
		return
	}
	appointments, err := h.store.ListAppointments(ctx)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, reports.Report(treatments, appointments))
}
