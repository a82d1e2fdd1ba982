package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHandler() *ErrorHandler {
	return NewErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), false)
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return problem
}

func TestHandleError_APIError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/kpis", nil)

	testHandler().HandleError(rec, req, ErrDatasetNotLoaded)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	problem := decodeProblem(t, rec)
	assert.Equal(t, TypeDatasetNotLoaded, problem["type"])
	assert.Equal(t, float64(http.StatusServiceUnavailable), problem["status"])
	assert.Equal(t, "/api/kpis", problem["instance"])
	assert.Equal(t, "DATASET_NOT_LOADED", problem["error_code"])
}

func TestHandleError_GenericError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/kpis", nil)

	testHandler().HandleError(rec, req, fmt.Errorf("disk on fire"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	problem := decodeProblem(t, rec)
	assert.Equal(t, TypeInternal, problem["type"])
	// Internal details never leak to the client.
	assert.NotContains(t, rec.Body.String(), "disk on fire")
}

func TestHandleError_ContextDeadline(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/outliers", nil)

	testHandler().HandleError(rec, req, context.DeadlineExceeded)

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	problem := decodeProblem(t, rec)
	assert.Equal(t, TypeTimeout, problem["type"])
}

func TestHandleError_Nil(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	testHandler().HandleError(rec, req, nil)

	assert.Empty(t, rec.Body.String())
}

func TestErrorToProblem_TypeMapping(t *testing.T) {
	handler := testHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	tests := []struct {
		err      *APIError
		wantType string
	}{
		{ErrValidationFailed, TypeValidation},
		{ErrUnknownColumn, TypeUnknownColumn},
		{ErrNotFound, TypeNotFound},
		{ErrSchemaInvalid, TypeDatasetSchema},
		{ErrEmptyDataset, TypeDatasetEmpty},
		{ErrDatasetNotLoaded, TypeDatasetNotLoaded},
		{ErrDatasetFetch, TypeDatasetFetch},
		{ErrRateLimitExceeded, TypeRateLimit},
		{ErrInternalServer, TypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.err.ErrorCode, func(t *testing.T) {
			problem := handler.ErrorToProblem(tt.err, req)
			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, tt.err.StatusCode, problem.Status)
		})
	}
}

func TestErrorToProblem_WrappedAPIError(t *testing.T) {
	wrapped := fmt.Errorf("handling request: %w", ErrEmptyDataset)

	problem := testHandler().ErrorToProblem(wrapped, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, TypeDatasetEmpty, problem.Type)
	assert.Equal(t, http.StatusUnprocessableEntity, problem.Status)
}

func TestHandlePanic(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/kpis", nil)

	testHandler().HandlePanic(rec, req, "boom")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	problem := decodeProblem(t, rec)
	assert.Equal(t, TypeInternal, problem["type"])
	assert.NotContains(t, rec.Body.String(), "boom", "panic values stay out of responses without includeStack")
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	handler := testHandler()

	rec := httptest.NewRecorder()
	handler.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	handler.MethodNotAllowed(rec, httptest.NewRequest(http.MethodDelete, "/api/kpis", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestProblemDetailsMarshalFlattensExtensions(t *testing.T) {
	problem := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Bad Request", "invalid n", "/api/outliers").
		WithExtension("error_code", "VALIDATION_FAILED")

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "VALIDATION_FAILED", decoded["error_code"])
	assert.Equal(t, "invalid n", decoded["detail"])
}

func TestValidationHelpers(t *testing.T) {
	apiErr := ErrValidation("n", "must be an integer")
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", apiErr.ErrorCode)

	multi := NewValidationErrors([]ValidationError{
		{Field: "group", Message: "oneof"},
		{Field: "value", Message: "oneof"},
	})
	assert.Equal(t, http.StatusBadRequest, multi.StatusCode)
	assert.NotNil(t, multi.Details)

	schema := SchemaError(fmt.Errorf("missing required columns: PU-Code"))
	assert.Equal(t, http.StatusUnprocessableEntity, schema.StatusCode)
	assert.Contains(t, schema.Details.(string), "PU-Code")
}
