package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		in      Config
		wantErr string
		check   func(t *testing.T, c *Config)
	}{
		{
			name: "defaults",
			in:   Config{Paths: []string{"defs"}},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, 30.0, c.TickRate)
				assert.Equal(t, 1, c.Sessions)
				assert.Equal(t, "text", c.LogFormat)
				assert.Equal(t, "info", c.LogLevel)
			},
		},
		{
			name: "case is normalised",
			in:   Config{Paths: []string{"defs"}, LogFormat: "JSON", LogLevel: "Debug"},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "json", c.LogFormat)
				assert.Equal(t, "debug", c.LogLevel)
			},
		},
		{
			name:    "no paths",
			in:      Config{},
			wantErr: "Config.Paths",
		},
		{
			name:    "empty path",
			in:      Config{Paths: []string{""}},
			wantErr: "Config.Paths[0]",
		},
		{
			name:    "negative tick rate",
			in:      Config{Paths: []string{"defs"}, TickRate: -1},
			wantErr: "Config.TickRate",
		},
		{
			name:    "bad log format",
			in:      Config{Paths: []string{"defs"}, LogFormat: "xml"},
			wantErr: "Config.LogFormat",
		},
		{
			name:    "port out of range",
			in:      Config{Paths: []string{"defs"}, HealthcheckPort: 70000},
			wantErr: "Config.HealthcheckPort",
		},
		{
			name:    "unknown backend",
			in:      Config{Paths: []string{"defs"}, SnapshotBackend: "tape"},
			wantErr: "Config.SnapshotBackend",
		},
		{
			name:    "file backend without DSN",
			in:      Config{Paths: []string{"defs"}, SnapshotBackend: "file"},
			wantErr: "needs a DSN",
		},
		{
			name: "memory backend without DSN",
			in:   Config{Paths: []string{"defs"}, SnapshotBackend: "memory"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := NewConfig(tc.in)

			if tc.wantErr != "" {
				require.ErrorContains(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			if tc.check != nil {
				tc.check(t, got)
			}
		})
	}
}
