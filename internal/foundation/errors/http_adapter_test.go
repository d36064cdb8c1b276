package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHTTPErrorAdapter_StatusCodes(t *testing.T) {
	a := NewHTTPErrorAdapter(nil)

	require.Equal(t, http.StatusOK, a.StatusCodeFor(nil))
	require.Equal(t, http.StatusNotFound, a.StatusCodeFor(NotFoundError("page /missing").Build()))
	require.Equal(t, http.StatusBadRequest, a.StatusCodeFor(ConfigError("x").Build()))
	require.Equal(t, http.StatusUnprocessableEntity, a.StatusCodeFor(ParseError(errors.New("x"), "a.json").Build()))
	require.Equal(t, http.StatusServiceUnavailable, a.StatusCodeFor(NewError(CategoryRuntime, "no build yet").Build()))
	require.Equal(t, http.StatusInternalServerError, a.StatusCodeFor(errors.New("plain")))
}

func TestHTTPErrorAdapter_WriteErrorResponse(t *testing.T) {
	a := NewHTTPErrorAdapter(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/pages/missing", nil)

	a.WriteErrorResponse(rec, req, NotFoundError("page /missing").WithContext("url", "/missing").Build())

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body HTTPErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "page /missing not found", body.Error)
	require.Equal(t, "not_found", body.Code)
	require.Equal(t, "/missing", body.Details["url"])
}
