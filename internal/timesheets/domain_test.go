package timesheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, valid := range []string{"Open", "Submitted", "Approved", "Rejected"} {
		status, err := ParseStatus(valid)
		require.NoError(t, err)
		assert.Equal(t, Status(valid), status)
	}

	for _, invalid := range []string{"", "open", "Closed", "PENDING"} {
		_, err := ParseStatus(invalid)
		assert.Error(t, err, "input %q", invalid)
	}
}

func TestStatusLocked(t *testing.T) {
	assert.False(t, StatusOpen.Locked())
	assert.False(t, StatusRejected.Locked())
	assert.True(t, StatusSubmitted.Locked())
	assert.True(t, StatusApproved.Locked())
}

func TestValidateSubmit(t *testing.T) {
	cases := []struct {
		current    Status
		needsWrite bool
		wantErr    error
	}{
		{StatusOpen, true, nil},
		{StatusRejected, true, nil},
		{StatusSubmitted, false, nil},
		{StatusApproved, false, ErrInvalidTransition},
	}
	for _, tc := range cases {
		t.Run(string(tc.current), func(t *testing.T) {
			needsWrite, err := ValidateSubmit(tc.current)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.needsWrite, needsWrite)
		})
	}
}
