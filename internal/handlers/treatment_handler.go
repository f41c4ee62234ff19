package handlers

import (
	"context"
	"net/http"

	"dentalcare-backend/internal/cache"
	"dentalcare-backend/internal/models"
	"dentalcare-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListTreatments(c *gin.Context) {
	h.serveCached(c, string(cache.Treatments), func(ctx context.Context) (any, error) {
		rows, err := h.store.ListTreatments(ctx)
		return list(rows, err)
	})
}

func (h *Handler) GetTreatment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	h.serveCached(c, string(cache.Treatments.Item(id)), func(ctx context.Context) (any, error) {
		row, err := h.store.GetTreatment(ctx, id)
		return notFoundOr(row, err, "Treatment")
	})
}

func (h *Handler) CreateTreatment(c *gin.Context) {
	var input models.TreatmentFields
	if !bindFields(c, &input, models.Create) {
		return
	}

	row, err := h.store.CreateTreatment(c.Request.Context(), input)
	if err != nil {
		fail(c, err)
		return
	}

	h.invalidate(c.Request.Context(), cache.TreatmentChanged(row.ID, row.PatientID))
	c.JSON(http.StatusCreated, row)
}

func (h *Handler) UpdateTreatment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.TreatmentFields
	if !bindFields(c, &input, models.Update) {
		return
	}

	ctx := c.Request.Context()
	before, err := h.store.GetTreatment(ctx, id)
	if err != nil {
		fail(c, err)
		return
	}
	if before == nil {
		c.Error(apperror.NotFound("Treatment not found"))
		return
	}
	row, err := h.store.UpdateTreatment(ctx, id, input)
	if err != nil {
		fail(c, err)
		return
	}
	if row == nil {
		c.Error(apperror.NotFound("Treatment not found"))
		return
	}

	h.invalidate(ctx, cache.TreatmentChanged(id, before.PatientID, row.PatientID))
	c.JSON(http.StatusOK, row)
}

// DeleteTreatment keeps linked payments as general payments.
func (h *Handler) DeleteTreatment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	row, err := h.store.GetTreatment(ctx, id)
	if err != nil {
		fail(c, err)
		return
	}
	if row == nil {
		c.Error(apperror.NotFound("Treatment not found"))
		return
	}
	deleted, err := h.store.DeleteTreatment(ctx, id)
	if err != nil {
		fail(c, err)
		return
	}
	if !deleted {
		c.Error(apperror.NotFound("Treatment not found"))
		return
	}

	h.invalidate(ctx, cache.TreatmentDeleted(id, row.PatientID))
	c.Status(http.StatusNoContent)
}
