package apperror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	e := New("REQ_001", "Cart must contain at least one item", http.StatusBadRequest)
	assert.Equal(t, "[REQ_001] Cart must contain at least one item", e.Error())

	wrapped := Wrap("GW_002", "Payment gateway unavailable", http.StatusBadGateway, errors.New("dial tcp: timeout"))
	assert.Contains(t, wrapped.Error(), "GW_002")
	assert.Contains(t, wrapped.Error(), "dial tcp: timeout")
}

func TestAppError_Unwrap(t *testing.T) {
	inner := errors.New("connection refused")
	e := ErrGatewayUnavailable(inner)
	assert.ErrorIs(t, e, inner)
}

func TestAppError_ErrorsAs(t *testing.T) {
	var appErr *AppError
	err := error(ErrGatewayRejected(errors.New(`{"status":400,"error":"bad_request"}`)))
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, "GW_001", appErr.Code)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
}

func TestStatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, ErrEmptyCart().HTTPStatus)
	assert.Equal(t, http.StatusBadRequest, ErrGatewayRejected(nil).HTTPStatus)
	assert.Equal(t, http.StatusBadGateway, ErrGatewayUnavailable(nil).HTTPStatus)
	assert.Equal(t, http.StatusServiceUnavailable, ErrMailUnavailable(nil).HTTPStatus)
	assert.Equal(t, http.StatusUnauthorized, ErrInvalidSignature().HTTPStatus)
}

func TestClientMessage_DoesNotLeakUpstreamDetail(t *testing.T) {
	upstream := errors.New(`{"message":"invalid access token","cause":[...]}`)
	e := ErrGatewayRejected(upstream)
	// Message is what reaches the client; the upstream body stays in Err.
	assert.NotContains(t, e.Message, "access token")
}
