package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultEnvPrefix is prepended to every env tag.
const DefaultEnvPrefix = "CALC_"

// Config represents the complete configuration for the calculator engine.
type Config struct {
	Engine  EngineConfig  `yaml:"engine"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// EngineConfig holds the evaluation defaults used when a caller does not pass its own.
type EngineConfig struct {
	PreferFraction bool   `yaml:"prefer_fraction" env:"ENGINE_PREFER_FRACTION"`
	AngleUnit      string `yaml:"angle_unit" env:"ENGINE_ANGLE_UNIT"`
	MaxDenominator int64  `yaml:"max_denominator" env:"ENGINE_MAX_DENOMINATOR"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Address       string        `yaml:"address" env:"SERVER_ADDRESS"`
	ReadTimeout   time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
	WriteTimeout  time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	EnableCORS    bool          `yaml:"enable_cors" env:"SERVER_ENABLE_CORS"`
	EnableMetrics bool          `yaml:"enable_metrics" env:"SERVER_ENABLE_METRICS"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `yaml:"level" env:"LOG_LEVEL"`
	Format     string `yaml:"format" env:"LOG_FORMAT"`
	Output     string `yaml:"output" env:"LOG_OUTPUT"`
	FilePath   string `yaml:"file_path" env:"LOG_FILE_PATH"`
	MaxSize    int    `yaml:"max_size" env:"LOG_MAX_SIZE"`
	MaxBackups int    `yaml:"max_backups" env:"LOG_MAX_BACKUPS"`
	MaxAge     int    `yaml:"max_age" env:"LOG_MAX_AGE"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			PreferFraction: false,
			AngleUnit:      "degrees",
			MaxDenominator: 1_000_000,
		},
		Server: ServerConfig{
			Address:       ":8080",
			ReadTimeout:   10 * time.Second,
			WriteTimeout:  10 * time.Second,
			EnableCORS:    true,
			EnableMetrics: true,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			Output:     "stdout",
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     28,
		},
	}
}

// Loader handles configuration loading from multiple sources.
type Loader struct {
	configPath string
	envPrefix  string
	cmdArgs    map[string]string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{
		envPrefix: DefaultEnvPrefix,
		cmdArgs:   make(map[string]string),
	}
}

// WithConfigPath sets the path to the YAML configuration file.
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// WithEnvPrefix sets the prefix for environment variables.
func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// WithCmdArgs sets command-line arguments for configuration override, keyed by
// dot-notation path such as "engine.angle_unit".
func (l *Loader) WithCmdArgs(args map[string]string) *Loader {
	l.cmdArgs = args
	return l
}

// Load builds the configuration in layers, each overriding the previous one:
// defaults, YAML file, environment, command-line.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	layers := []struct {
		name  string
		apply func(*Config) error
	}{
		{"从文件加载配置失败", l.applyFile},
		{"应用环境变量覆盖失败", l.applyEnv},
		{"应用命令行参数覆盖失败", l.applyCmdArgs},
	}
	for _, layer := range layers {
		if err := layer.apply(cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", layer.name, err)
		}
	}
	return cfg, nil
}

// applyFile merges the YAML file over cfg. No path, or a missing file, keeps cfg as is.
func (l *Loader) applyFile(cfg *Config) error {
	if l.configPath == "" {
		return nil
	}
	data, err := os.ReadFile(l.configPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("读取配置文件失败: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("解析配置文件失败: %w", err)
	}
	return nil
}

// applyEnv sets every leaf field whose prefixed env tag names a non-empty variable.
func (l *Loader) applyEnv(cfg *Config) error {
	return eachLeaf(reflect.ValueOf(cfg).Elem(), func(field reflect.Value, sf reflect.StructField) error {
		tag := sf.Tag.Get("env")
		if tag == "" {
			return nil
		}
		name := l.envPrefix + tag
		raw, ok := os.LookupEnv(name)
		if !ok || raw == "" {
			return nil
		}
		if err := setFieldValue(field, raw); err != nil {
			return fmt.Errorf("环境变量 %s: %w", name, err)
		}
		return nil
	})
}

// applyCmdArgs applies "section.key" overrides.
func (l *Loader) applyCmdArgs(cfg *Config) error {
	for key, value := range l.cmdArgs {
		if err := setConfigValue(cfg, key, value); err != nil {
			return fmt.Errorf("设置配置值 %s 失败: %w", key, err)
		}
	}
	return nil
}

// eachLeaf calls fn for every non-struct field, descending into nested structs.
func eachLeaf(v reflect.Value, fn func(reflect.Value, reflect.StructField) error) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := v.Field(i)
		if field.Kind() == reflect.Struct {
			if err := eachLeaf(field, fn); err != nil {
				return err
			}
			continue
		}
		if err := fn(field, t.Field(i)); err != nil {
			return err
		}
	}
	return nil
}

// setConfigValue follows a dot path of yaml keys, e.g. "engine.angle_unit".
func setConfigValue(cfg *Config, path, value string) error {
	v := reflect.ValueOf(cfg).Elem()
	parts := strings.Split(path, ".")
	for i, part := range parts {
		if v.Kind() != reflect.Struct {
			return fmt.Errorf("%s 不是配置段", strings.Join(parts[:i], "."))
		}
		field, ok := fieldByYAMLName(v, part)
		if !ok {
			return fmt.Errorf("未知的配置路径: %s", path)
		}
		v = field
	}
	if v.Kind() == reflect.Struct {
		return fmt.Errorf("%s 是配置段，不能直接赋值", path)
	}
	return setFieldValue(v, value)
}

func fieldByYAMLName(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		tag, _, _ := strings.Cut(t.Field(i).Tag.Get("yaml"), ",")
		if tag == name || strings.EqualFold(t.Field(i).Name, strings.ReplaceAll(name, "_", "")) {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// setFieldValue parses raw into the field's kind. Durations use time.ParseDuration.
func setFieldValue(field reflect.Value, raw string) error {
	if !field.CanSet() {
		return fmt.Errorf("字段不可写")
	}

	var err error
	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Bool:
		var b bool
		if b, err = strconv.ParseBool(raw); err == nil {
			field.SetBool(b)
		}
	case reflect.Int, reflect.Int32, reflect.Int64:
		var n int64
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			var d time.Duration
			d, err = time.ParseDuration(raw)
			n = int64(d)
		} else {
			n, err = strconv.ParseInt(raw, 10, 64)
		}
		if err == nil {
			field.SetInt(n)
		}
	case reflect.Float64:
		var f float64
		if f, err = strconv.ParseFloat(raw, 64); err == nil {
			field.SetFloat(f)
		}
	default:
		return fmt.Errorf("不支持的字段类型: %s", field.Kind())
	}
	if err != nil {
		return fmt.Errorf("无法解析 %q: %w", raw, err)
	}
	return nil
}

// Serialize serializes the configuration to YAML bytes.
func (c *Config) Serialize() ([]byte, error) {
	return yaml.Marshal(c)
}

// ParseConfig parses a YAML configuration from bytes on top of the defaults.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a YAML file path.
func LoadFromFile(path string) (*Config, error) {
	return NewLoader().WithConfigPath(path).Load()
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
