package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"10:00", false},
		{"00:00", false},
		{"23:59", false},
		{"24:00", true},
		{"10:60", true},
		{"10", true},
		{"abc", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ts, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, ts.String())
		})
	}
}

func TestTimeString_Comparisons(t *testing.T) {
	a := TimeString("09:30")
	b := TimeString("10:00")

	assert.True(t, a.IsBefore(b))
	assert.False(t, b.IsBefore(a))
	assert.True(t, b.IsAfter(a))
	assert.False(t, a.IsAfter(a))
}

func TestTimeString_AddMinutes(t *testing.T) {
	ts := TimeString("10:30")

	result, err := ts.AddMinutes(45)
	require.NoError(t, err)
	assert.Equal(t, TimeString("11:15"), result)

	// wraps past midnight
	late := TimeString("23:30")
	result, err = late.AddMinutes(60)
	require.NoError(t, err)
	assert.Equal(t, TimeString("00:30"), result)
}

func TestTimeString_MinutesBetween(t *testing.T) {
	a := TimeString("10:00")
	b := TimeString("10:29")

	diff, err := a.MinutesBetween(b)
	require.NoError(t, err)
	assert.Equal(t, 29, diff)

	// difference is symmetric
	diff, err = b.MinutesBetween(a)
	require.NoError(t, err)
	assert.Equal(t, 29, diff)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan("10:00:00"))
	assert.Equal(t, TimeString("10:00"), ts)

	require.NoError(t, ts.Scan([]byte("14:30")))
	assert.Equal(t, TimeString("14:30"), ts)

	require.NoError(t, ts.Scan(time.Date(2025, 10, 15, 9, 15, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("09:15"), ts)

	require.Error(t, ts.Scan(42))
}
