package config

import (
	"fmt"
	"net"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/duke-git/lancet/v2/slice"
)

var (
	angleUnits = []string{"degrees", "degree", "deg", "radians", "radian", "rad"}
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"json", "console"}
	logOutputs = []string{"stdout", "stderr", "file", "both"}

	hostnameLabel = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?$`)
)

// ValidationError is one invalid configuration key.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors collects every invalid key found in one pass.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	msgs := make([]string, len(e))
	for i := range e {
		msgs[i] = e[i].Error()
	}
	return "configuration validation failed:\n  - " + strings.Join(msgs, "\n  - ")
}

// HasErrors reports whether any key was invalid.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator checks a Config and reports every problem rather than the first.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new configuration validator.
func NewValidator() *Validator {
	return &Validator{}
}

// check records message for field unless ok holds.
func (v *Validator) check(ok bool, field, format string, args ...any) {
	if !ok {
		v.errors = append(v.errors, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}
}

// oneOf records an error when value (case-insensitive) is not in allowed.
func (v *Validator) oneOf(field, value string, allowed []string) {
	if value == "" {
		v.check(false, field, "value is required")
		return
	}
	v.check(slice.Contain(allowed, strings.ToLower(value)), field,
		"invalid value '%s', must be one of: %s", value, strings.Join(allowed, ", "))
}

// Validate checks every section of cfg.
func (v *Validator) Validate(cfg *Config) error {
	v.errors = nil

	v.validateEngine(&cfg.Engine)
	v.validateServer(&cfg.Server)
	v.validateLogging(&cfg.Logging)

	if v.errors.HasErrors() {
		return v.errors
	}
	return nil
}

func (v *Validator) validateEngine(cfg *EngineConfig) {
	v.oneOf("engine.angle_unit", cfg.AngleUnit, angleUnits)
	v.check(cfg.MaxDenominator >= 1, "engine.max_denominator", "max denominator must be at least 1")
}

func (v *Validator) validateServer(cfg *ServerConfig) {
	if cfg.Address == "" {
		v.check(false, "server.address", "address is required")
	} else if err := checkAddress(cfg.Address); err != nil {
		v.check(false, "server.address", "invalid address '%s': %v", cfg.Address, err)
	}

	v.checkTimeout("server.read_timeout", cfg.ReadTimeout)
	v.checkTimeout("server.write_timeout", cfg.WriteTimeout)
}

// checkTimeout accepts zero (no timeout) or at least one second.
func (v *Validator) checkTimeout(field string, d time.Duration) {
	v.check(d >= 0, field, "timeout must be non-negative")
	v.check(d <= 0 || d >= time.Second, field, "timeout should be at least 1 second")
}

func (v *Validator) validateLogging(cfg *LoggingConfig) {
	v.oneOf("logging.level", cfg.Level, logLevels)
	v.oneOf("logging.format", cfg.Format, logFormats)

	output := strings.ToLower(cfg.Output)
	if output != "" {
		v.oneOf("logging.output", output, logOutputs)
	}
	if output == "file" || output == "both" {
		v.check(cfg.FilePath != "", "logging.file_path", "file path is required when output is '%s'", cfg.Output)
	}

	v.check(cfg.MaxSize >= 0, "logging.max_size", "max size must be non-negative")
	v.check(cfg.MaxBackups >= 0, "logging.max_backups", "max backups must be non-negative")
	v.check(cfg.MaxAge >= 0, "logging.max_age", "max age must be non-negative")
}

// checkAddress accepts host:port and :port, where host is empty, an IP or a hostname.
func checkAddress(addr string) error {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 0 || n > 65535 {
		return fmt.Errorf("port %q is not a number in 0-65535", port)
	}
	if host == "" || net.ParseIP(host) != nil {
		return nil
	}
	if len(host) > 253 {
		return fmt.Errorf("hostname is too long")
	}
	for _, label := range strings.Split(host, ".") {
		if !hostnameLabel.MatchString(label) {
			return fmt.Errorf("invalid hostname label %q", label)
		}
	}
	return nil
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	return NewValidator().Validate(c)
}

// LoadAndValidate loads configuration from a file and validates it.
func LoadAndValidate(path string) (*Config, error) {
	cfg, err := LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
