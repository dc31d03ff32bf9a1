package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/vk/bindgraph/internal/scope"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is read when no --config flag is given. It may be absent.
const DefaultConfigFile = "bindgraph.yaml"

// envPrefix namespaces the environment variables that override the file.
const envPrefix = "BINDGRAPH_"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Paths []string `yaml:"paths"` // hcl files or directories

	Format         string `yaml:"format"`
	OptionalMode   string `yaml:"optional_mode"`
	MaxErrors      int    `yaml:"max_errors"`
	Parallelism    int    `yaml:"parallelism"`
	FullValidation bool   `yaml:"full_validation"`
	Dump           bool   `yaml:"dump"`
	Metrics        bool   `yaml:"metrics"`

	LogFormat string `yaml:"log_format"`
	LogLevel  string `yaml:"log_level"`
	Port      int    `yaml:"port"`
}

// DefaultConfig returns the lowest-precedence configuration layer.
func DefaultConfig() Config {
	return Config{
		Format:       "text",
		OptionalMode: string(scope.Default),
		LogFormat:    "text",
		LogLevel:     "info",
		Port:         8080,
	}
}

// NewConfig validates cfg and returns a copy.
func NewConfig(cfg Config) (*Config, error) {
	var errs []error
	switch cfg.Format {
	case "json", "text", "hcl":
	default:
		errs = append(errs, fmt.Errorf("invalid format %q: must be 'json', 'text' or 'hcl'", cfg.Format))
	}
	if _, err := scope.ParseOptionalMode(cfg.OptionalMode); err != nil {
		errs = append(errs, err)
	}
	if cfg.MaxErrors < 0 {
		errs = append(errs, errors.New("max-errors cannot be negative"))
	}
	if cfg.Parallelism < 0 {
		errs = append(errs, errors.New("parallelism cannot be negative"))
	}
	if _, err := parseLogFormat(cfg.LogFormat); err != nil {
		errs = append(errs, err)
	}
	if _, err := parseLogLevel(cfg.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %d", cfg.Port))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFile overlays the YAML file at path onto cfg. A missing file is an
// error only when required is set.
func LoadFile(path string, required bool, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode config file %s: %w", path, err)
	}
	return nil
}

// LoadEnv loads the given .env files (default ".env", missing ones are
// ignored) and overlays every BINDGRAPH_* variable onto cfg.
func LoadEnv(cfg *Config, envFiles ...string) error {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}

	if v := env("PATHS", ""); v != "" {
		cfg.Paths = strings.Split(v, ",")
	}
	cfg.Format = env("FORMAT", cfg.Format)
	cfg.OptionalMode = env("OPTIONAL_MODE", cfg.OptionalMode)
	cfg.LogFormat = env("LOG_FORMAT", cfg.LogFormat)
	cfg.LogLevel = env("LOG_LEVEL", cfg.LogLevel)

	var err error
	if cfg.MaxErrors, err = envInt("MAX_ERRORS", cfg.MaxErrors); err != nil {
		return err
	}
	if cfg.Parallelism, err = envInt("PARALLELISM", cfg.Parallelism); err != nil {
		return err
	}
	if cfg.Port, err = envInt("PORT", cfg.Port); err != nil {
		return err
	}
	if cfg.FullValidation, err = envBool("FULL_VALIDATION", cfg.FullValidation); err != nil {
		return err
	}
	if cfg.Dump, err = envBool("DUMP", cfg.Dump); err != nil {
		return err
	}
	if cfg.Metrics, err = envBool("METRICS", cfg.Metrics); err != nil {
		return err
	}
	return nil
}

func env(name, fallback string) string {
	if v := os.Getenv(envPrefix + name); v != "" {
		return v
	}
	return fallback
}

func envInt(name string, fallback int) (int, error) {
	v := os.Getenv(envPrefix + name)
	if v == "" {
		return fallback, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s%s: %w", envPrefix, name, err)
	}
	return i, nil
}

func envBool(name string, fallback bool) (bool, error) {
	v := os.Getenv(envPrefix + name)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s%s: %w", envPrefix, name, err)
	}
	return b, nil
}
