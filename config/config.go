package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/watzon/pigment/palette"
	"github.com/watzon/pigment/render"
)

// EnvPrefix is prepended to every environment override, e.g. PIGMENT_IMAGE_WIDTH
const EnvPrefix = "PIGMENT"

// Config holds all configuration for pigment
type Config struct {
	Image    ImageConfig
	Output   OutputConfig
	Log      LogConfig
	Schedule ScheduleConfig
	UI       UIConfig
	Extract  ExtractConfig
}

// ImageConfig controls the exported PNG
type ImageConfig struct {
	Width  int
	Height int
	Labels bool
}

// OutputConfig controls where files are written
type OutputConfig struct {
	Dir    string
	Format string
}

// LogConfig controls the logger
type LogConfig struct {
	Level  string
	Format string
	File   string
}

// ScheduleConfig controls the cron export job
type ScheduleConfig struct {
	Spec     string
	Timezone string
}

// UIConfig holds terminal UI settings
type UIConfig struct {
	CopiedDuration time.Duration `mapstructure:"copied_duration"`
}

// ExtractConfig controls palette extraction from images
type ExtractConfig struct {
	MaxSize int `mapstructure:"max_size"`
}

// DefaultConfig returns a new Config with default values
func DefaultConfig() *Config {
	return &Config{
		Image: ImageConfig{
			Width:  render.DefaultWidth,
			Height: render.DefaultHeight,
		},
		Output: OutputConfig{
			Dir:    ".",
			Format: string(palette.FormatCSS),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			File:   filepath.Join(os.TempDir(), "pigment.log"),
		},
		Schedule: ScheduleConfig{
			Spec:     "0 */6 * * *",
			Timezone: "UTC",
		},
		UI: UIConfig{
			CopiedDuration: 2 * time.Second,
		},
		Extract: ExtractConfig{
			MaxSize: 400,
		},
	}
}

// WithOutputDir sets the output directory
func (c *Config) WithOutputDir(dir string) *Config {
	c.Output.Dir = dir
	return c
}

// WithImageSize sets the exported image size
func (c *Config) WithImageSize(width, height int) *Config {
	c.Image.Width = width
	c.Image.Height = height
	return c
}

// WithLabels toggles hex labels on the exported image
func (c *Config) WithLabels(labels bool) *Config {
	c.Image.Labels = labels
	return c
}

// WithLogLevel sets the log level
func (c *Config) WithLogLevel(level string) *Config {
	c.Log.Level = level
	return c
}

// Load reads configuration from the config file and the environment on top of
// the defaults. PIGMENT_CONFIG points at an explicit file, otherwise
// $XDG_CONFIG_HOME/pigment/config.toml is used when present.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetConfigType("toml")
	if path := os.Getenv(EnvPrefix + "_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "pigment"))
		}
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("image.width", d.Image.Width)
	v.SetDefault("image.height", d.Image.Height)
	v.SetDefault("image.labels", d.Image.Labels)
	v.SetDefault("output.dir", d.Output.Dir)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("schedule.spec", d.Schedule.Spec)
	v.SetDefault("schedule.timezone", d.Schedule.Timezone)
	v.SetDefault("ui.copied_duration", d.UI.CopiedDuration)
	v.SetDefault("extract.max_size", d.Extract.MaxSize)
}

// Validate checks the configuration and reports every problem at once
func (c *Config) Validate() error {
	var errs []string

	if c.Image.Width <= 0 || c.Image.Height <= 0 {
		errs = append(errs, fmt.Sprintf("image size must be positive, got %dx%d", c.Image.Width, c.Image.Height))
	}
	if c.Output.Dir == "" {
		errs = append(errs, "output dir is required")
	}
	if _, err := palette.ParseFormat(c.Output.Format); err != nil {
		errs = append(errs, err.Error())
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Sprintf("invalid log level %q", c.Log.Level))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Sprintf("log format must be text or json, got %q", c.Log.Format))
	}
	if _, err := cron.ParseStandard(c.Schedule.Spec); err != nil {
		errs = append(errs, fmt.Sprintf("invalid schedule spec %q: %v", c.Schedule.Spec, err))
	}
	if _, err := time.LoadLocation(c.Schedule.Timezone); err != nil {
		errs = append(errs, fmt.Sprintf("invalid timezone %q", c.Schedule.Timezone))
	}
	if c.UI.CopiedDuration <= 0 {
		errs = append(errs, "ui copied duration must be positive")
	}
	if c.Extract.MaxSize <= 0 {
		errs = append(errs, "extract max size must be positive")
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n  - " + strings.Join(errs, "\n  - "))
	}
	return nil
}

// Location returns the schedule timezone, falling back to UTC
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Schedule.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// RenderOptions returns the image options for exports
func (c *Config) RenderOptions() render.Options {
	return render.Options{
		Width:  c.Image.Width,
		Height: c.Image.Height,
		Labels: c.Image.Labels,
	}
}
