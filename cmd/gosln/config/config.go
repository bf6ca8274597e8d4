// Package config loads gosln settings from defaults, gosln.yaml, GOSLN_
// environment variables and command-line flags.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/willibrandon/gosln/cmd/gosln/output"
	"github.com/willibrandon/gosln/observability"
	"github.com/willibrandon/gosln/solution"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "GOSLN_"

// ConfigFlag names the flag holding an explicit config file path.
const ConfigFlag = "config"

// defaultFiles are looked up in the working directory when no config file
// is given.
var defaultFiles = []string{"gosln.yaml", "gosln.yml"}

// Config holds the resolved CLI settings.
type Config struct {
	LogLevel      string `koanf:"log_level"`
	TraceExporter string `koanf:"trace_exporter"`
	OTLPEndpoint  string `koanf:"otlp_endpoint"`
	Verbosity     string `koanf:"verbosity"`
	MetricsFile   string `koanf:"metrics_file"`

	// DefaultConfiguration and DefaultPlatform select the solution
	// configuration when the solution file does not name one
	DefaultConfiguration string `koanf:"default_configuration"`
	DefaultPlatform      string `koanf:"default_platform"`

	// FileUsed is the config file that was read, if any
	FileUsed string `koanf:"-"`
}

// Defaults returns the settings used when nothing else is configured.
func Defaults() *Config {
	return &Config{
		LogLevel:             "warn",
		TraceExporter:        "none",
		OTLPEndpoint:         "localhost:4317",
		Verbosity:            "normal",
		DefaultConfiguration: "Debug",
		DefaultPlatform:      "Any CPU",
	}
}

// Load resolves the configuration. Precedence, highest first: flags that
// were set explicitly, environment, config file, defaults. flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	d := Defaults()
	if err := k.Load(confmap.Provider(map[string]any{
		"log_level":             d.LogLevel,
		"trace_exporter":        d.TraceExporter,
		"otlp_endpoint":         d.OTLPEndpoint,
		"verbosity":             d.Verbosity,
		"metrics_file":          d.MetricsFile,
		"default_configuration": d.DefaultConfiguration,
		"default_platform":      d.DefaultPlatform,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configFile, err := findConfigFile(flags)
	if err != nil {
		return nil, err
	}
	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
	}

	// GOSLN_LOG_LEVEL -> log_level
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed || f.Name == ConfigFlag {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.FileUsed = configFile

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// findConfigFile returns the explicit --config path, or the first default
// file present in the working directory.
func findConfigFile(flags *pflag.FlagSet) (string, error) {
	if flags != nil && flags.Lookup(ConfigFlag) != nil {
		if path, _ := flags.GetString(ConfigFlag); path != "" {
			if _, err := os.Stat(path); err != nil {
				return "", fmt.Errorf("config file %s: %w", path, err)
			}
			return path, nil
		}
	}
	for _, name := range defaultFiles {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}
	return "", nil
}

// Validate checks that every setting has a usable value.
func (c *Config) Validate() error {
	if _, err := observability.ParseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	if _, err := output.ParseVerbosity(c.Verbosity); err != nil {
		return fmt.Errorf("invalid verbosity: %w", err)
	}

	switch c.TraceExporter {
	case "none", "stdout":
	case "otlp":
		if c.OTLPEndpoint == "" {
			return fmt.Errorf("otlp_endpoint is required when trace_exporter is otlp")
		}
	default:
		return fmt.Errorf("invalid trace_exporter %q (none, stdout, otlp)", c.TraceExporter)
	}

	return nil
}

// LoggerLevel returns the parsed log level.
func (c *Config) LoggerLevel() observability.LogLevel {
	level, err := observability.ParseLogLevel(c.LogLevel)
	if err != nil {
		return observability.WarnLevel
	}
	return level
}

// ConsoleVerbosity returns the parsed console verbosity.
func (c *Config) ConsoleVerbosity() output.Verbosity {
	v, _ := output.ParseVerbosity(c.Verbosity)
	return v
}

// DefaultSolutionConfiguration returns the configured fallback solution
// configuration.
func (c *Config) DefaultSolutionConfiguration() solution.ConfigurationAndPlatform {
	return solution.NewConfigurationAndPlatform(c.DefaultConfiguration, c.DefaultPlatform)
}

// TracerConfig builds the tracing setup for the CLI.
func (c *Config) TracerConfig(version string) observability.TracerConfig {
	tc := observability.DefaultTracerConfig()
	tc.ServiceVersion = version
	tc.ExporterType = c.TraceExporter
	tc.OTLPEndpoint = c.OTLPEndpoint
	return tc
}
