package ports

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGatewayError(t *testing.T) {
	cause := errors.New("connection refused")
	err := &GatewayError{Method: "POST", Path: "/task/", Message: "connection refused", Err: cause}

	assert.Equal(t, "POST /task/: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.False(t, err.HasResponse())

	withReason := &GatewayError{Method: "PATCH", Path: "/task/4", StatusCode: 404, Message: "request failed with status code 404", Reason: "task not found"}
	assert.Equal(t, "PATCH /task/4: request failed with status code 404: task not found", withReason.Error())
	assert.True(t, withReason.HasResponse())
}

func TestReasonAndMessageOf(t *testing.T) {
	gwErr := &GatewayError{Method: "DELETE", Path: "/task/1", StatusCode: 409, Message: "request failed with status code 409", Reason: "locked"}
	wrapped := fmt.Errorf("delete: %w", gwErr)

	assert.Equal(t, "locked", ReasonOf(wrapped))
	assert.Equal(t, "request failed with status code 409", MessageOf(wrapped))

	plain := errors.New("boom")
	assert.Empty(t, ReasonOf(plain))
	assert.Equal(t, "boom", MessageOf(plain))
	assert.Empty(t, MessageOf(nil))
}
