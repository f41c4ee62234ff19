package handlers

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"dentalcare-backend/internal/models"
	"dentalcare-backend/pkg/apperror"
	"dentalcare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

const orderPrefix = "PAY-"

// MidtransNotification holds the notification fields we act on.
type MidtransNotification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
}

// MapTransactionStatus converts a Midtrans transaction status to a payment
// status. ok is false for statuses we do not know.
func MapTransactionStatus(transactionStatus, fraudStatus string) (status string, ok bool) {
	switch transactionStatus {
	case "capture":
		switch fraudStatus {
		case "challenge":
			return models.PaymentPending, true
		case "deny":
			return models.PaymentFailed, true
		default:
			return models.PaymentCompleted, true
		}
	case "settlement":
		return models.PaymentCompleted, true
	case "pending":
		return models.PaymentPending, true
	case "deny", "cancel", "expire", "failure":
		return models.PaymentFailed, true
	case "refund":
		return models.PaymentRefunded, true
	case "partial_refund":
		return models.PaymentPartiallyPaid, true
	}
	return "", false
}

// CheckoutPayment opens a Snap checkout for a pending payment.
func (h *Handler) CheckoutPayment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	// 1. Load the payment and its patient
	payment, err := h.store.GetPayment(ctx, id)
	if err != nil {
		fail(c, err)
		return
	}
	if payment == nil {
		c.Error(apperror.NotFound("Payment not found"))
		return
	}
	if payment.Status != models.PaymentPending {
		c.Error(apperror.Validation("Only pending payments can be checked out"))
		return
	}
	patient, err := h.store.GetPatient(ctx, payment.PatientID)
	if err != nil {
		fail(c, err)
		return
	}
	if patient == nil {
		c.Error(apperror.NotFound("Patient not found"))
		return
	}

	// 2. Ask the gateway for a checkout token
	orderID := fmt.Sprintf("%s%d", orderPrefix, payment.ID)
	checkout, err := h.gateway.CreateCheckout(ctx, utils.CheckoutRequest{
		OrderID:  orderID,
		Amount:   int64(math.Round(models.ParseAmount(payment.Amount).Float())),
		ItemID:   orderID,
		ItemName: "Dental care payment",
		Name:     patient.Name,
		Email:    patient.Email,
		Phone:    patient.Phone,
	})
	if errors.Is(err, utils.ErrGatewayDisabled) {
		c.Error(apperror.Unavailable("Payment gateway is not configured", err))
		return
	}
	if err != nil {
		c.Error(apperror.Unavailable("Payment gateway error", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orderId":     orderID,
		"token":       checkout.Token,
		"redirectUrl": checkout.RedirectURL,
	})
}

// HandleMidtransNotification applies a gateway status change to the payment
// named by order_id.
func (h *Handler) HandleMidtransNotification(c *gin.Context) {
	var n MidtransNotification

	// 1. Decode and authenticate the notification
	if !decode(c, &n) {
		return
	}
	if !h.gateway.VerifySignature(n.OrderID, n.StatusCode, n.GrossAmount, n.SignatureKey) {
		c.Error(apperror.Unauthorized("Invalid notification signature"))
		return
	}

	// 2. Map the gateway status
	status, ok := MapTransactionStatus(n.TransactionStatus, n.FraudStatus)
	if !ok {
		c.Error(apperror.Validation("Unknown transaction_status " + n.TransactionStatus))
		return
	}

	// 3. Resolve PAY-<id>
	id, err := utils.ParseID(strings.TrimPrefix(n.OrderID, orderPrefix))
	if err != nil || !strings.HasPrefix(n.OrderID, orderPrefix) {
		c.Error(apperror.NotFound("Payment not found"))
		return
	}

	h.log.Info().
		Str("order_id", n.OrderID).
		Str("transaction_status", n.TransactionStatus).
		Str("fraud_status", n.FraudStatus).
		Str("mapped_status", status).
		Msg("midtrans notification received")

	// 4. Update the payment
	if _, err := h.updatePayment(c.Request.Context(), id, models.PaymentFields{Status: &status}); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
