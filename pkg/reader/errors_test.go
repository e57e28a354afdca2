package reader

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Message(t *testing.T) {
	t.Parallel()

	err := &Error{Kind: KindHTTP, StatusCode: 503, Message: "unavailable"}
	assert.Equal(t, "http error: status 503: unavailable", err.Error())
}

func TestError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := &Error{Kind: KindConnection, Message: "request failed", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestKindPredicates(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("fetching: %w", &Error{Kind: KindTimeout, Message: "deadline"})

	assert.True(t, IsTimeout(wrapped))
	assert.False(t, IsConnection(wrapped))
	assert.False(t, IsHTTP(wrapped))
	assert.False(t, IsTimeout(errors.New("plain")))
}

func TestResponse_Err(t *testing.T) {
	t.Parallel()

	ok := &Response{StatusCode: 200}
	require.NoError(t, ok.Err())

	bad := &Response{StatusCode: 500, Message: "boom"}
	err := bad.Err()
	require.Error(t, err)

	var typed *Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, KindHTTP, typed.Kind)
	assert.Equal(t, 500, typed.StatusCode)
}
