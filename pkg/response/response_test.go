package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"checkout-bridge/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}

func TestOK_PassesDataThrough(t *testing.T) {
	c, w := testContext()
	OK(c, gin.H{"id": "pref-1", "checkoutUrl": "https://mp.example/init"})

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "pref-1", body["id"])
}

func TestError_AppError(t *testing.T) {
	c, w := testContext()
	Error(c, apperror.ErrGatewayRejected(errors.New("upstream detail")))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Payment gateway rejected the request", body.Error)
	assert.NotContains(t, w.Body.String(), "upstream detail")
}

func TestError_UnknownError(t *testing.T) {
	c, w := testContext()
	Error(c, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")
}
