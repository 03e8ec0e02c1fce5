package internal

import (
	"log/slog"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/flowscript/internal/flows"
	"github.com/starford/flowscript/internal/storage"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

var extensionRe = regexp.MustCompile(`^\.[A-Za-z0-9]+$`)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Flows  FlowsConfig       `yaml:"flows"`
	Source SourceConfig      `yaml:"source"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Flows.Validate(); err != nil {
		return err
	}
	return c.Source.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel  slog.Level `yaml:"log_level"`
	LogFormat string     `yaml:"log_format"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	if c.LogFormat == "" {
		c.LogFormat = LogFormatText
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.LogFormat, validation.In(LogFormatText, LogFormatJSON)),
	)
}

// FlowsConfig locates the flows document and sets how it is rewritten.
type FlowsConfig struct {
	Path   string `yaml:"path"`
	Indent int    `yaml:"indent"`
}

// Validate validates the flows configuration.
func (c *FlowsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.Indent, validation.Min(0), validation.Max(8)),
	)
}

// SourceConfig holds the script root and the rules for which files in it are scripts.
type SourceConfig struct {
	Root           string   `yaml:"root"`
	Extensions     []string `yaml:"extensions"`
	ExcludeMarkers []string `yaml:"exclude_markers"`
}

// Validate validates the source configuration.
func (c *SourceConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Root, validation.Required),
		validation.Field(&c.Extensions, validation.Required, validation.Each(validation.Match(extensionRe))),
	)
}

// Filter returns the storage filter described by the configuration.
func (c *SourceConfig) Filter() storage.Filter {
	return storage.Filter{
		Extensions:     c.Extensions,
		ExcludeMarkers: c.ExcludeMarkers,
	}
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	def := storage.DefaultFilter()
	return &Config{
		App: ApplicationConfig{
			LogLevel:  slog.LevelInfo,
			LogFormat: LogFormatText,
		},
		Flows: FlowsConfig{
			Path:   "flows.json",
			Indent: flows.DefaultIndent,
		},
		Source: SourceConfig{
			Root:           "src",
			Extensions:     def.Extensions,
			ExcludeMarkers: def.ExcludeMarkers,
		},
	}
}
