package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lamlight-dev/lamlight/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Settings keys.
const (
	KeyTempRoot     = "temp_root"
	KeyArchiveName  = "archive_name"
	KeyManifestName = "manifest_name"
	KeyConfigFile   = "config_file"
	KeyTemplateDir  = "template_dir"
	KeyPipCommand   = "pip_command"
	KeyBuildDir     = "build_dir"
	KeyHTTPTimeout  = "http_timeout"
	KeyUserAgent    = "user_agent"
	KeyLogLevel     = "log_level"
)

// Settings is the resolved tool configuration.
type Settings struct {
	TempRoot     string        `mapstructure:"temp_root"`
	ArchiveName  string        `mapstructure:"archive_name"`
	ManifestName string        `mapstructure:"manifest_name"`
	ConfigFile   string        `mapstructure:"config_file"`
	TemplateDir  string        `mapstructure:"template_dir"`
	PipCommand   string        `mapstructure:"pip_command"`
	BuildDir     string        `mapstructure:"build_dir"`
	HTTPTimeout  time.Duration `mapstructure:"http_timeout"`
	UserAgent    string        `mapstructure:"user_agent"`
	LogLevel     string        `mapstructure:"log_level"`
}

// Dir returns the path to the config directory (~/.lamlight/).
func Dir() string {
	if dir := os.Getenv(branding.EnvVar("HOME")); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file.
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyTempRoot, os.TempDir())
	v.SetDefault(KeyArchiveName, "pet.zip")
	v.SetDefault(KeyManifestName, "requirements.txt")
	v.SetDefault(KeyConfigFile, branding.ProjectFile())
	v.SetDefault(KeyTemplateDir, "")
	v.SetDefault(KeyPipCommand, "pip")
	v.SetDefault(KeyBuildDir, "build")
	v.SetDefault(KeyHTTPTimeout, 5*time.Minute)
	v.SetDefault(KeyUserAgent, branding.CLIName())
	v.SetDefault(KeyLogLevel, "warn")
}

// New returns a Viper instance bound to the config file and environment.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigFile(FilePath())
	v.SetConfigType(fileType)
	v.SetEnvPrefix(branding.EnvPrefix())
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load reads the config file, if any, and resolves Settings.
func Load(v *viper.Viper) (Settings, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(v.ConfigFileUsed()); statErr == nil {
			return Settings{}, fmt.Errorf("reading config file %s: %w", v.ConfigFileUsed(), err)
		}
		// A missing config file just means defaults and env.
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decoding settings: %w", err)
	}
	return s, nil
}

// Get returns a config value by key. Returns empty string if not set.
func Get(v *viper.Viper, key string) string {
	return v.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(v *viper.Viper, key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	v.Set(key, value)

	configFile := v.ConfigFileUsed()
	if configFile == "" {
		configFile = FilePath()
	}

	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
