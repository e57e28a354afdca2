package poller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_AcceptsWellFormedList(t *testing.T) {
	t.Parallel()

	v := NewValidator()
	err := v.Validate([]string{"TrafficIndex_Sc1_Cont", "AnnouncementData", "v2.index"})
	require.NoError(t, err)
}

func TestValidate_RejectsEmptyList(t *testing.T) {
	t.Parallel()

	v := NewValidator()
	err := v.Validate(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one endpoint")
}

func TestValidate_RejectsDuplicates(t *testing.T) {
	t.Parallel()

	v := NewValidator()
	err := v.Validate([]string{"a", "b", "a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate endpoint")
}

func TestValidateEndpoint_RejectsBadNames(t *testing.T) {
	t.Parallel()

	v := NewValidator()

	for _, name := range []string{"", "has space", "a/b", "../etc", "?q"} {
		assert.Error(t, v.ValidateEndpoint(name), "name %q should be rejected", name)
	}
}

func TestValidateEndpoint_AcceptsTypicalNames(t *testing.T) {
	t.Parallel()

	v := NewValidator()

	for _, name := range []string{"TrafficIndex_Sc1_Cont", "x", "data-v2", "a.b.c"} {
		assert.NoError(t, v.ValidateEndpoint(name), "name %q should be accepted", name)
	}
}
