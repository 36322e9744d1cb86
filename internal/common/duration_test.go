package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"go seconds", "30s", 30 * time.Second, false},
		{"go mixed", "1h30m", 90 * time.Minute, false},
		{"iso seconds", "PT30S", 30 * time.Second, false},
		{"iso hours", "PT2H", 2 * time.Hour, false},
		{"whitespace", "  5s ", 5 * time.Second, false},
		{"invalid", "soon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDuration(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d)
		})
	}
}

func TestValidateInterval(t *testing.T) {
	d, err := ValidateInterval("5s", time.Second)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, d)

	_, err = ValidateInterval("100ms", time.Second)
	assert.Error(t, err)
}

func TestFormatDurationRemaining(t *testing.T) {
	tests := []struct {
		input    time.Duration
		expected string
	}{
		{0, "0 seconds"},
		{-time.Minute, "0 seconds"},
		{time.Second, "1 second"},
		{90 * time.Second, "1 minute, 30 seconds"},
		{26*time.Hour + 2*time.Minute, "1 day, 2 hours, 2 minutes"},
		{500 * time.Millisecond, "0 seconds"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatDurationRemaining(tt.input))
	}
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.0 KiB", FormatBytes(1024))
	assert.Equal(t, "1.5 MiB", FormatBytes(1536*1024))
}
