// Package config holds the typed docxfill configuration and its viper
// bindings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// Name is the config file base name and the XDG subdirectory.
const Name = "docxfill"

// EnvPrefix is the prefix of environment overrides (DOCXFILL_OUTPUTS_DIR).
const EnvPrefix = "DOCXFILL"

// ConverterConfig holds settings for the external PDF converter.
type ConverterConfig struct {
	// Binary is the soffice executable; empty means auto-detect.
	Binary string `mapstructure:"binary" yaml:"binary"`

	// Args are extra shell-quoted arguments passed before the input file.
	Args string `mapstructure:"args" yaml:"args"`

	// Timeout bounds a single conversion.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// Config groups every setting of the CLI.
type Config struct {
	// TemplatesDir is searched for *.docx templates.
	TemplatesDir string `mapstructure:"templates_dir" yaml:"templates_dir"`

	// Match is an optional glob on template file names.
	Match string `mapstructure:"match" yaml:"match"`

	// OutputsDir receives the generated PDFs.
	OutputsDir string `mapstructure:"outputs_dir" yaml:"outputs_dir"`

	// OutputPrefix starts every output filename (CoverLetter_Acme_2026-01-02.pdf).
	OutputPrefix string `mapstructure:"output_prefix" yaml:"output_prefix"`

	// DateToken is the placeholder name filled with today's date.
	DateToken string `mapstructure:"date_token" yaml:"date_token"`

	// CompanyKeys are placeholder names tried in order for the filename.
	CompanyKeys []string `mapstructure:"company_keys" yaml:"company_keys"`

	Converter ConverterConfig `mapstructure:"converter" yaml:"converter"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		TemplatesDir: "Templates",
		OutputsDir:   "Outputs",
		OutputPrefix: "CoverLetter",
		DateToken:    "Date",
		CompanyKeys:  []string{"Company Name", "Company", "Employer"},
		Converter: ConverterConfig{
			Timeout: 2 * time.Minute,
		},
	}
}

// SetDefaults registers Default() values on v.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("templates_dir", d.TemplatesDir)
	v.SetDefault("match", d.Match)
	v.SetDefault("outputs_dir", d.OutputsDir)
	v.SetDefault("output_prefix", d.OutputPrefix)
	v.SetDefault("date_token", d.DateToken)
	v.SetDefault("company_keys", d.CompanyKeys)
	v.SetDefault("converter.binary", d.Converter.Binary)
	v.SetDefault("converter.args", d.Converter.Args)
	v.SetDefault("converter.timeout", d.Converter.Timeout)
}

// Init points v at cfgFile, or at docxfill.yaml in the working directory
// and the XDG config directory, and enables DOCXFILL_* overrides. It reports
// the config file used, empty when none was found.
func Init(v *viper.Viper, cfgFile string) (string, error) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(Name)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(xdg.ConfigHome, Name))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("read config: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings that can not work.
func (c Config) Validate() error {
	if c.TemplatesDir == "" {
		return fmt.Errorf("templates_dir must not be empty")
	}
	if c.OutputsDir == "" {
		return fmt.Errorf("outputs_dir must not be empty")
	}
	if c.Converter.Timeout < 0 {
		return fmt.Errorf("converter.timeout must not be negative, got %s", c.Converter.Timeout)
	}
	return nil
}

// EnsureOutputsDir creates the outputs directory when missing.
func (c Config) EnsureOutputsDir() error {
	if err := os.MkdirAll(c.OutputsDir, 0o755); err != nil {
		return fmt.Errorf("create outputs dir: %w", err)
	}
	return nil
}
