package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		name        string
		args        []string
		expected    *Config
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"pulse", "-a", "https://api.example.com/v1", "-t", "30", "-d", "/tmp/pulse", "-l", "debug"},
			expected: &Config{
				APIBaseURL:     "https://api.example.com/v1",
				RequestTimeout: 30 * time.Second,
				DataDir:        "/tmp/pulse",
				LogLevel:       "debug",
			},
		},
		{
			name:        "invalid timeout",
			args:        []string{"pulse", "-t", "abc"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config) })
				return
			}

			require.NotPanics(t, func() { parseFlags(config) })
			assert.Equal(t, tt.expected, config)
		})
	}
}
