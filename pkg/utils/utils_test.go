package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)
	assert.True(t, CheckPassword("secret1", hash))
	assert.False(t, CheckPassword("secret2", hash))
}

func TestParseID(t *testing.T) {
	id, err := ParseID("42")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)

	for _, bad := range []string{"", "0", "-1", "abc", "1.5"} {
		_, err := ParseID(bad)
		assert.ErrorIs(t, err, ErrInvalidID, bad)
	}
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	token, err := issuer.GenerateToken(7, "doctor")
	require.NoError(t, err)

	claims, err := issuer.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), claims.UserID)
	assert.Equal(t, "doctor", claims.Role)
}

func TestTokenIssuer_Rejects(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	token, err := issuer.GenerateToken(7, "staff")
	require.NoError(t, err)

	_, err = NewTokenIssuer("other-secret", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokenIssuer("test-secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.GenerateToken(7, "staff")
	require.NoError(t, err)
	_, err = issuer.ValidateToken(old)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.ValidateToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestErrorResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ErrorResponse(c, http.StatusNotFound, "Patient not found")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"status":404,"message":"Patient not found"}`, w.Body.String())
	assert.True(t, c.IsAborted())
}

func TestNotificationSignature(t *testing.T) {
	g := NewSnapGateway("SB-server-key", "sandbox")
	sig := NotificationSignature("PAY-1", "200", "120.00", "SB-server-key")
	assert.Len(t, sig, 128)
	assert.True(t, g.VerifySignature("PAY-1", "200", "120.00", sig))
	assert.False(t, g.VerifySignature("PAY-2", "200", "120.00", sig))
}

func TestDisabledGateway(t *testing.T) {
	_, err := DisabledGateway{}.CreateCheckout(context.Background(), CheckoutRequest{OrderID: "PAY-1"})
	assert.ErrorIs(t, err, ErrGatewayDisabled)
}

func TestNoopNotifier(t *testing.T) {
	assert.NoError(t, NoopNotifier{}.SendNotification(context.Background(), "tok", "t", "b", nil))
}
