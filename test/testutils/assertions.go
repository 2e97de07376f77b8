package testutils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// HTTPAssertions provides HTTP-specific assertion methods for recorded responses
type HTTPAssertions struct {
	t *testing.T
}

// NewHTTPAssertions creates a new HTTP assertions helper
func NewHTTPAssertions(t *testing.T) *HTTPAssertions {
	return &HTTPAssertions{t: t}
}

// StatusCode asserts the HTTP status code
func (ha *HTTPAssertions) StatusCode(rec *httptest.ResponseRecorder, expectedCode int, msgAndArgs ...interface{}) {
	require.NotNil(ha.t, rec, "Response should not be nil")
	assert.Equal(ha.t, expectedCode, rec.Code, msgAndArgs...)
}

// JSONResponse asserts that the response is valid JSON and unmarshals it
func (ha *HTTPAssertions) JSONResponse(rec *httptest.ResponseRecorder, target interface{}) {
	require.NotNil(ha.t, rec, "Response should not be nil")

	contentType := rec.Header().Get("Content-Type")
	assert.True(ha.t, strings.Contains(contentType, "application/json"),
		"Response should have JSON content type, got: %s", contentType)

	require.NoError(ha.t, json.Unmarshal(rec.Body.Bytes(), target), "Response should be valid JSON")
}

// ErrorResponse asserts the {error, message} body and returns the message
func (ha *HTTPAssertions) ErrorResponse(rec *httptest.ResponseRecorder, expectedStatus int, expectedError string) string {
	ha.StatusCode(rec, expectedStatus)

	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	ha.JSONResponse(rec, &body)

	assert.Equal(ha.t, expectedError, body.Error)
	return body.Message
}

// HasHeader asserts that a header exists
func (ha *HTTPAssertions) HasHeader(rec *httptest.ResponseRecorder, headerName string) {
	require.NotNil(ha.t, rec, "Response should not be nil")
	assert.NotEmpty(ha.t, rec.Header().Get(headerName), "Response should have header %s", headerName)
}

// NewJSONRequest builds a request with a JSON body
func NewJSONRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()

	var payload string
	switch b := body.(type) {
	case nil:
	case string:
		payload = b
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		payload = string(data)
	}

	req := httptest.NewRequest(method, target, strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return req
}
