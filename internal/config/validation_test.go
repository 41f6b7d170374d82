package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		fields []string
	}{
		{"defaults", func(*Config) {}, nil},
		{"radians short form", func(c *Config) { c.Engine.AngleUnit = "rad" }, nil},
		{"host and port", func(c *Config) { c.Server.Address = "localhost:9090" }, nil},
		{"file output", func(c *Config) {
			c.Logging.Output = "file"
			c.Logging.FilePath = "/var/log/calc.log"
		}, nil},
		{"empty angle unit", func(c *Config) { c.Engine.AngleUnit = "" }, []string{"engine.angle_unit"}},
		{"gradians", func(c *Config) { c.Engine.AngleUnit = "gradians" }, []string{"engine.angle_unit"}},
		{"zero max denominator", func(c *Config) { c.Engine.MaxDenominator = 0 }, []string{"engine.max_denominator"}},
		{"bad address", func(c *Config) { c.Server.Address = "not an address" }, []string{"server.address"}},
		{"bad port", func(c *Config) { c.Server.Address = ":notaport" }, []string{"server.address"}},
		{"empty address", func(c *Config) { c.Server.Address = "" }, []string{"server.address"}},
		{"negative timeout", func(c *Config) { c.Server.ReadTimeout = -time.Second }, []string{"server.read_timeout"}},
		{"tiny timeout", func(c *Config) { c.Server.WriteTimeout = time.Millisecond }, []string{"server.write_timeout"}},
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }, []string{"logging.level"}},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, []string{"logging.format"}},
		{"bad output", func(c *Config) { c.Logging.Output = "syslog" }, []string{"logging.output"}},
		{"file output without path", func(c *Config) { c.Logging.Output = "both" }, []string{"logging.file_path"}},
		{"several errors", func(c *Config) {
			c.Engine.MaxDenominator = -1
			c.Logging.MaxAge = -1
		}, []string{"engine.max_denominator", "logging.max_age"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}

			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs), "expected ValidationErrors, got %v", err)
			var got []string
			for _, e := range verrs {
				got = append(got, e.Field)
			}
			assert.Equal(t, tt.fields, got)
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "engine.angle_unit", Message: "angle unit is required"},
		{Field: "logging.level", Message: "log level is required"},
	}
	assert.Equal(t,
		"configuration validation failed:\n  - engine.angle_unit: angle unit is required\n  - logging.level: log level is required",
		errs.Error())
	assert.Empty(t, ValidationErrors{}.Error())
}

func TestCheckAddress(t *testing.T) {
	for _, ok := range []string{":8080", "0.0.0.0:80", "[::1]:9000", "calc.example.com:443", "a-b:1"} {
		assert.NoError(t, checkAddress(ok), ok)
	}
	for _, bad := range []string{"8080", ":http", ":70000", "-ab:80", "a..b:80", "under_score:80"} {
		assert.Error(t, checkAddress(bad), bad)
	}
}

func TestLoadAndValidate(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte("engine:\n  angle_unit: radians\n"), 0644))
	cfg, err := LoadAndValidate(good)
	require.NoError(t, err)
	assert.Equal(t, "radians", cfg.Engine.AngleUnit)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("engine:\n  max_denominator: 0\n"), 0644))
	_, err = LoadAndValidate(bad)
	assert.Error(t, err)
}
