package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ami-aftermarket/quotation-api/internal/domain"
)

func TestDecodeAndValidateZeroCostPart(t *testing.T) {
	// Consignment and warranty parts are carried at zero cost.
	body := `{"partNumber":"GSK-0001","description":"Consignment gasket","sourcingType":"Local","costPrice":0}`
	r := httptest.NewRequest(http.MethodPost, "/api/v1/parts", strings.NewReader(body))
	w := httptest.NewRecorder()

	var req domain.CreatePartRequest
	require.True(t, decodeAndValidate(w, r, &req))
	assert.Zero(t, req.CostPrice)

	body = `{"description":"Consignment gasket","stockOnHand":0,"sourcingType":"Local","costPrice":0}`
	r = httptest.NewRequest(http.MethodPut, "/api/v1/parts/GSK-0001", strings.NewReader(body))
	w = httptest.NewRecorder()

	var upd domain.UpdatePartRequest
	assert.True(t, decodeAndValidate(w, r, &upd))
}

func TestDecodeAndValidateNegativeCostPart(t *testing.T) {
	body := `{"partNumber":"GSK-0001","description":"Consignment gasket","sourcingType":"Local","costPrice":-1}`
	r := httptest.NewRequest(http.MethodPost, "/api/v1/parts", strings.NewReader(body))
	w := httptest.NewRecorder()

	var req domain.CreatePartRequest
	assert.False(t, decodeAndValidate(w, r, &req))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
