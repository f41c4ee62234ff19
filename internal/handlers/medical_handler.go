package handlers

import (
	"context"
	"net/http"

	"dentalcare-backend/internal/cache"
	"dentalcare-backend/internal/models"
	"dentalcare-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListMedicalHistory(c *gin.Context) {
	h.serveCached(c, string(cache.MedicalHistory), func(ctx context.Context) (any, error) {
		rows, err := h.store.ListMedicalHistory(ctx)
		return list(rows, err)
	})
}

func (h *Handler) GetMedicalHistory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	h.serveCached(c, string(cache.MedicalHistory.Item(id)), func(ctx context.Context) (any, error) {
		row, err := h.store.GetMedicalHistory(ctx, id)
		return notFoundOr(row, err, "Medical history")
	})
}

func (h *Handler) CreateMedicalHistory(c *gin.Context) {
	var input models.MedicalHistoryFields
	if !bindFields(c, &input, models.Create) {
		return
	}

	row, err := h.store.CreateMedicalHistory(c.Request.Context(), input)
	if err != nil {
		fail(c, err)
		return
	}

	h.invalidate(c.Request.Context(), cache.MedicalHistoryChanged(row.ID, row.PatientID))
	c.JSON(http.StatusCreated, row)
}

func (h *Handler) UpdateMedicalHistory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.MedicalHistoryFields
	if !bindFields(c, &input, models.Update) {
		return
	}

	ctx := c.Request.Context()
	before, err := h.store.GetMedicalHistory(ctx, id)
	if err != nil {
		fail(c, err)
		return
	}
	if before == nil {
		c.Error(apperror.NotFound("Medical history not found"))
		return
	}
	row, err := h.store.UpdateMedicalHistory(ctx, id, input)
	if err != nil {
		fail(c, err)
		return
	}
	if row == nil {
		c.Error(apperror.NotFound("Medical history not found"))
		return
	}

	h.invalidate(ctx, cache.MedicalHistoryChanged(id, before.PatientID, row.PatientID))
	c.JSON(http.StatusOK, row)
}
