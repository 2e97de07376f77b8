package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_StatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{"validation", NewValidationError("user.id is required"), http.StatusBadRequest},
		{"bad request", NewBadRequestError("bad"), http.StatusBadRequest},
		{"rate limited", NewAppError(CodeTooManyRequests, "slow down", ""), http.StatusTooManyRequests},
		{"upstream", NewUpstreamError("spoonacular", http.StatusPaymentRequired, "quota", nil), http.StatusInternalServerError},
		{"internal", NewInternalError(""), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.StatusCode())
		})
	}
}

func TestNewUpstreamError_Metadata(t *testing.T) {
	cause := stderrors.New("boom")
	err := NewUpstreamError("spoonacular", 402, `{"message":"quota"}`, cause)

	assert.Equal(t, CodeUpstream, err.Code)
	assert.Equal(t, 402, err.Metadata[MetaUpstreamStatus])
	assert.Equal(t, `{"message":"quota"}`, err.Metadata[MetaUpstreamPayload])
	assert.ErrorIs(t, err, cause)

	noResponse := NewUpstreamError("spoonacular", 0, "", cause)
	assert.NotContains(t, noResponse.Metadata, MetaUpstreamStatus)
}

func TestGetCode_UnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("tier 1: %w", NewUpstreamError("spoonacular", 500, "", nil))

	assert.Equal(t, CodeUpstream, GetCode(wrapped))
	assert.True(t, Is(wrapped, CodeUpstream))
	assert.Equal(t, CodeInternal, GetCode(stderrors.New("plain")))
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "unused"))

	original := NewValidationError("x")
	assert.Same(t, original, Wrap(original, "unused"))

	wrapped := Wrap(stderrors.New("boom"), "scoring failed")
	require.NotNil(t, wrapped)
	assert.Equal(t, CodeInternal, wrapped.Code)
	assert.Equal(t, "scoring failed", wrapped.Message)
}

func TestToErrorResponse_HidesUpstreamPayload(t *testing.T) {
	resp := ToErrorResponse(NewUpstreamError("spoonacular", 401, "secret-key-invalid", nil), "req-1")

	assert.Equal(t, "Upstream service error", resp.Error)
	assert.NotContains(t, resp.Message, "secret-key-invalid")
	assert.Equal(t, "req-1", resp.RequestID)

	validation := ToErrorResponse(NewValidationError("searchTerm is required"), "")
	assert.Equal(t, "searchTerm is required", validation.Message)
}
