package handlers

import (
	"context"
	"net/http"

	"dentalcare-backend/internal/cache"
	"dentalcare-backend/internal/models"
	"dentalcare-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListDentalChart(c *gin.Context) {
	h.serveCached(c, string(cache.DentalChart), func(ctx context.Context) (any, error) {
		rows, err := h.store.ListDentalChart(ctx)
		return list(rows, err)
	})
}

func (h *Handler) GetDentalChartEntry(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	h.serveCached(c, string(cache.DentalChart.Item(id)), func(ctx context.Context) (any, error) {
		row, err := h.store.GetDentalChartEntry(ctx, id)
		return notFoundOr(row, err, "Dental chart entry")
	})
}

func (h *Handler) CreateDentalChartEntry(c *gin.Context) {
	var input models.DentalChartFields
	if !bindFields(c, &input, models.Create) {
		return
	}

	row, err := h.store.CreateDentalChartEntry(c.Request.Context(), input)
	if err != nil {
		fail(c, err)
		return
	}

	h.invalidate(c.Request.Context(), cache.DentalChartChanged(row.ID, row.PatientID))
	c.JSON(http.StatusCreated, row)
}

func (h *Handler) UpdateDentalChartEntry(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.DentalChartFields
	if !bindFields(c, &input, models.Update) {
		return
	}

	ctx := c.Request.Context()
	before, err := h.store.GetDentalChartEntry(ctx, id)
	if err != nil {
		fail(c, err)
		return
	}
	if before == nil {
		c.Error(apperror.NotFound("Dental chart entry not found"))
		return
	}
	row, err := h.store.UpdateDentalChartEntry(ctx, id, input)
	if err != nil {
		fail(c, err)
		return
	}
	if row == nil {
		c.Error(apperror.NotFound("Dental chart entry not found"))
		return
	}

	h.invalidate(ctx, cache.DentalChartChanged(id, before.PatientID, row.PatientID))
	c.JSON(http.StatusOK, row)
}
