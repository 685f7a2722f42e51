package contract

import (
	"testing"

	"github.com/expendo-io/expendo/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validInput returns a raw input that passes all validation.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Queues:       "DEV",
		Kind:         "estimate",
		Grain:        1,
		MinLength:    3,
		Confidence:   5,
		NoiseMethod:  "differences",
		Clamp:        "none",
		Output:       "text",
		Precision:    1,
		Color:        "yes",
		Workers:      4,
		CacheBackend: "sqlite",
	}
}

// TestProcessAndValidate tests the full validation pipeline.
func TestProcessAndValidate(t *testing.T) {
	t.Run("valid input", func(t *testing.T) {
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, validInput()))

		assert.Equal(t, []string{"DEV"}, cfg.Queues)
		assert.Equal(t, schema.EstimateKind, cfg.Kind)
		assert.Equal(t, 1, cfg.Grain)
		assert.Equal(t, "https://api.tracker.yandex.net", cfg.BaseURL)
		assert.Equal(t, schema.TextOut, cfg.Output)
		assert.Equal(t, schema.SQLiteBackend, cfg.CacheBackend)
		assert.True(t, cfg.UseColors)
	})

	t.Run("queues merge args and flag", func(t *testing.T) {
		input := validInput()
		input.QueueArgs = []string{"OPS"}
		input.Queues = "DEV, QA ,"
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.Equal(t, []string{"OPS", "DEV", "QA"}, cfg.Queues)
	})

	t.Run("categories are split and trimmed", func(t *testing.T) {
		input := validInput()
		input.Categories = "queue: DEV, tag: urgent"
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.Equal(t, []string{"queue: DEV", "tag: urgent"}, cfg.Categories)
	})

	t.Run("kind is case insensitive", func(t *testing.T) {
		input := validInput()
		input.Kind = "Burn"
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.Equal(t, schema.BurnKind, cfg.Kind)
	})

	errorTests := []struct {
		name    string
		mutate  func(*ConfigRawInput)
		message string
	}{
		{
			name:    "no queues",
			mutate:  func(in *ConfigRawInput) { in.Queues = "" },
			message: "at least one tracker queue",
		},
		{
			name:    "unknown kind",
			mutate:  func(in *ConfigRawInput) { in.Kind = "velocity" },
			message: "invalid kind",
		},
		{
			name:    "grain too small",
			mutate:  func(in *ConfigRawInput) { in.Grain = 0 },
			message: "grain must be between",
		},
		{
			name:    "grain too large",
			mutate:  func(in *ConfigRawInput) { in.Grain = 29 },
			message: "grain must be between",
		},
		{
			name:    "bad base date",
			mutate:  func(in *ConfigRawInput) { in.Base = "2026-01-01" },
			message: "invalid base date",
		},
		{
			name:    "bad period start",
			mutate:  func(in *ConfigRawInput) { in.From = "someday" },
			message: "invalid start date",
		},
		{
			name:    "min length below one",
			mutate:  func(in *ConfigRawInput) { in.MinLength = 0 },
			message: "min-length must be at least 1",
		},
		{
			name:    "non-positive confidence",
			mutate:  func(in *ConfigRawInput) { in.Confidence = 0 },
			message: "confidence must be greater than 0",
		},
		{
			name:    "unknown noise method",
			mutate:  func(in *ConfigRawInput) { in.NoiseMethod = "wavelet" },
			message: "invalid noise method",
		},
		{
			name:    "unknown clamp direction",
			mutate:  func(in *ConfigRawInput) { in.Clamp = "sideways" },
			message: "invalid clamp direction",
		},
		{
			name:    "bad project-from date",
			mutate:  func(in *ConfigRawInput) { in.ProjectFrom = "tomorrow" },
			message: "invalid project-from date",
		},
		{
			name:    "zero workers",
			mutate:  func(in *ConfigRawInput) { in.Workers = 0 },
			message: "workers must be greater than 0",
		},
		{
			name:    "unknown output format",
			mutate:  func(in *ConfigRawInput) { in.Output = "xml" },
			message: "invalid output format",
		},
		{
			name:    "precision out of range",
			mutate:  func(in *ConfigRawInput) { in.Precision = 5 },
			message: "precision must be between 0 and 4",
		},
		{
			name:    "bad color value",
			mutate:  func(in *ConfigRawInput) { in.Color = "maybe" },
			message: "invalid --color value",
		},
		{
			name:    "unknown cache backend",
			mutate:  func(in *ConfigRawInput) { in.CacheBackend = "redis" },
			message: "invalid cache backend",
		},
		{
			name:    "mysql without connection string",
			mutate:  func(in *ConfigRawInput) { in.CacheBackend = "mysql" },
			message: "cache-db-connect is required",
		},
	}

	for _, tt := range errorTests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			err := ProcessAndValidate(&Config{}, input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

// TestValidateDatabaseConnectionString tests backend-specific connection
// string checks.
func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name        string
		backend     schema.DatabaseBackend
		connStr     string
		expectError bool
	}{
		{name: "sqlite allows empty", backend: schema.SQLiteBackend, connStr: ""},
		{name: "none allows empty", backend: schema.NoneBackend, connStr: ""},
		{name: "valid mysql", backend: schema.MySQLBackend, connStr: "user:pass@tcp(localhost:3306)/expendo"},
		{name: "mysql empty", backend: schema.MySQLBackend, connStr: "", expectError: true},
		{name: "mysql missing tcp", backend: schema.MySQLBackend, connStr: "user:pass/expendo", expectError: true},
		{name: "mysql missing database", backend: schema.MySQLBackend, connStr: "user:pass@tcp(localhost:3306)", expectError: true},
		{name: "valid postgresql", backend: schema.PostgreSQLBackend, connStr: "host=localhost port=5432 dbname=expendo"},
		{name: "postgresql empty", backend: schema.PostgreSQLBackend, connStr: "", expectError: true},
		{name: "postgresql missing host", backend: schema.PostgreSQLBackend, connStr: "dbname=expendo", expectError: true},
		{name: "postgresql missing dbname", backend: schema.PostgreSQLBackend, connStr: "host=localhost", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.expectError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// TestConfigClone verifies the deep copy of slice fields.
func TestConfigClone(t *testing.T) {
	cfg := &Config{
		Queues:     []string{"DEV"},
		Categories: []string{"tag: urgent"},
		Grain:      7,
	}
	clone := cfg.Clone()
	clone.Queues[0] = "OPS"
	clone.Categories[0] = "queue: OPS"
	clone.Grain = 1

	assert.Equal(t, "DEV", cfg.Queues[0])
	assert.Equal(t, "tag: urgent", cfg.Categories[0])
	assert.Equal(t, 7, cfg.Grain)
}
