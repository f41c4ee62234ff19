package handlers

import (
	"context"
	"net/http"

	"dentalcare-backend/internal/cache"
	"dentalcare-backend/internal/models"
	"dentalcare-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListPayments(c *gin.Context) {
	h.serveCached(c, string(cache.Payments), func(ctx context.Context) (any, error) {
		rows, err := h.store.ListPayments(ctx)
		return list(rows, err)
	})
}

func (h *Handler) GetPayment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	h.serveCached(c, string(cache.Payments.Item(id)), func(ctx context.Context) (any, error) {
		row, err := h.store.GetPayment(ctx, id)
		return notFoundOr(row, err, "Payment")
	})
}

// CreatePayment records a payment; status defaults to pending and a missing
// treatmentId makes it a general payment.
func (h *Handler) CreatePayment(c *gin.Context) {
	var input models.PaymentFields
	if !bindFields(c, &input, models.Create) {
		return
	}

	row, err := h.store.CreatePayment(c.Request.Context(), input)
	if err != nil {
		fail(c, err)
		return
	}

	h.invalidate(c.Request.Context(), cache.PaymentChanged(row.ID, row.PatientID))
	c.JSON(http.StatusCreated, row)
}

func (h *Handler) UpdatePayment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.PaymentFields
	if !bindFields(c, &input, models.Update) {
		return
	}
	row, err := h.updatePayment(c.Request.Context(), id, input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

// updatePayment is shared by PUT and the gateway notification.
func (h *Handler) updatePayment(ctx context.Context, id uint64, input models.PaymentFields) (*models.Payment, error) {
	before, err := h.store.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	if before == nil {
		return nil, apperror.NotFound("Payment not found")
	}
	row, err := h.store.UpdatePayment(ctx, id, input)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, apperror.NotFound("Payment not found")
	}

	h.invalidate(ctx, cache.PaymentChanged(id, before.PatientID, row.PatientID))
	return row, nil
}

func (h *Handler) DeletePayment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	row, err := h.store.GetPayment(ctx, id)
	if err != nil {
		fail(c, err)
		return
	}
	if row == nil {
		c.Error(apperror.NotFound("Payment not found"))
		return
	}
	deleted, err := h.store.DeletePayment(ctx, id)
	if err != nil {
		fail(c, err)
		return
	}
	if !deleted {
		c.Error(apperror.NotFound("Payment not found"))
		return
	}

	h.invalidate(ctx, cache.PaymentChanged(id, row.PatientID))
	c.Status(http.StatusNoContent)
}
