package utils

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

var ErrGatewayDisabled = errors.New("payment gateway is not configured")

type CheckoutRequest struct {
	OrderID  string
	Amount   int64
	ItemID   string
	ItemName string
	Name     string
	Email    string
	Phone    string
}

type Checkout struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirectUrl"`
}

// Gateway starts hosted checkouts and authenticates their notifications.
type Gateway interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*Checkout, error)
	VerifySignature(orderID, statusCode, grossAmount, signature string) bool
}

// DisabledGateway rejects every checkout.
type DisabledGateway struct{}

func (DisabledGateway) CreateCheckout(context.Context, CheckoutRequest) (*Checkout, error) {
	return nil, ErrGatewayDisabled
}

func (DisabledGateway) VerifySignature(string, string, string, string) bool { return false }

// SnapGateway creates Midtrans Snap transactions.
type SnapGateway struct {
	serverKey string
	client    snap.Client
}

func NewSnapGateway(serverKey, env string) *SnapGateway {
	g := &SnapGateway{serverKey: serverKey}
	e := midtrans.Sandbox
	if env == "production" {
		e = midtrans.Production
	}
	g.client.New(serverKey, e)
	return g
}

func (g *SnapGateway) CreateCheckout(_ context.Context, in CheckoutRequest) (*Checkout, error) {
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  in.OrderID,
			GrossAmt: in.Amount,
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: in.Name,
			Email: in.Email,
			Phone: in.Phone,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    in.ItemID,
				Name:  in.ItemName,
				Price: in.Amount,
				Qty:   1,
			},
		},
	}

	resp, errSnap := g.client.CreateTransaction(req)
	if errSnap != nil {
		return nil, errors.New("midtrans: " + errSnap.GetMessage())
	}
	return &Checkout{Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

// VerifySignature checks signature_key = SHA512(order_id + status_code +
// gross_amount + server key).
func (g *SnapGateway) VerifySignature(orderID, statusCode, grossAmount, signature string) bool {
	return subtle.ConstantTimeCompare([]byte(NotificationSignature(orderID, statusCode, grossAmount, g.serverKey)), []byte(signature)) == 1
}

func NotificationSignature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}
