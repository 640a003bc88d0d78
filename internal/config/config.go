package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Defaults applied when the config file or a key is missing.
const (
	DefaultName          = "YouTrack"
	DefaultFileName      = "Screenshot"
	DefaultFileFormat    = "png"
	DefaultOpenInBrowser = true
)

// Output holds the persisted YouTrack output settings.
type Output struct {
	Name          string `yaml:"name"            mapstructure:"name"`
	URL           string `yaml:"url"             mapstructure:"url"`
	Username      string `yaml:"username"        mapstructure:"username"`
	Password      string `yaml:"password"        mapstructure:"password"`
	FileName      string `yaml:"file_name"       mapstructure:"file_name"`
	FileFormat    string `yaml:"file_format"     mapstructure:"file_format"`
	OpenInBrowser bool   `yaml:"open_in_browser" mapstructure:"open_in_browser"`
	LastProjectID string `yaml:"last_project_id" mapstructure:"last_project_id"`
	LastIssueID   string `yaml:"last_issue_id"   mapstructure:"last_issue_id"`
}

// Formats lists the supported attachment formats.
var Formats = []string{"png", "jpg", "gif", "bmp", "tiff"}

// Default returns a config with every default applied and no URL.
func Default() Output {
	return Output{
		Name:          DefaultName,
		FileName:      DefaultFileName,
		FileFormat:    DefaultFileFormat,
		OpenInBrowser: DefaultOpenInBrowser,
	}
}

// DefaultPath returns the default config file path (~/.ytshot.yaml).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ytshot.yaml"
	}
	return filepath.Join(home, ".ytshot.yaml")
}

// Load reads config from the YAML file and applies env var overrides.
// configPath may be empty to use the default path.
func Load(configPath string) (Output, error) {
	cfg, err := load(configPath, true)
	if err != nil {
		return Output{}, err
	}
	cfg.FileFormat = NormalizeFormat(cfg.FileFormat)
	return cfg, nil
}

// LoadStored reads the file record as written, with defaults for missing
// keys but without env overrides or format normalization.
func LoadStored(configPath string) (Output, error) {
	return load(configPath, false)
}

func load(configPath string, withEnv bool) (Output, error) {
	v := viper.New()

	if configPath == "" {
		configPath = DefaultPath()
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetDefault("name", DefaultName)
	v.SetDefault("file_name", DefaultFileName)
	v.SetDefault("file_format", DefaultFileFormat)
	v.SetDefault("open_in_browser", DefaultOpenInBrowser)

	// Env var overrides
	if withEnv {
		v.BindEnv("url", "YOUTRACK_URL")
		v.BindEnv("username", "YOUTRACK_USERNAME")
		v.BindEnv("password", "YOUTRACK_PASSWORD")
	}

	// Read the config file (ignore "not found" errors so env vars still work)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return Output{}, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Output
	if err := v.Unmarshal(&cfg); err != nil {
		return Output{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

// Validate checks that required fields are present.
func (c Output) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("YouTrack URL is required (set in config file or YOUTRACK_URL env var)")
	}
	u, err := url.Parse(c.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("YouTrack URL %q must be an absolute http(s) URL", c.URL)
	}
	if strings.TrimSpace(c.FileName) == "" {
		return fmt.Errorf("file name template is required")
	}
	if !KnownFormat(c.FileFormat) {
		return fmt.Errorf("unsupported file format %q (want one of %s)", c.FileFormat, strings.Join(Formats, ", "))
	}
	return nil
}

// HasCredentials reports whether both username and password are stored.
func (c Output) HasCredentials() bool {
	return c.Username != "" && c.Password != ""
}

// NormalizeFormat lowercases the format and maps common aliases.
func NormalizeFormat(format string) string {
	f := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
	switch f {
	case "jpeg":
		return "jpg"
	case "tif":
		return "tiff"
	case "":
		return DefaultFileFormat
	}
	return f
}

// KnownFormat reports whether format is one of Formats.
func KnownFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// Save writes the config to the given path (or default path if empty).
func Save(cfg Output, configPath string) error {
	if configPath == "" {
		configPath = DefaultPath()
	}

	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Persist records a successful run in the file at configPath. Only the last
// project and issue change, plus the credentials when remember is set;
// values that came from env vars or flags are never written.
func Persist(configPath string, run Output, remember bool) error {
	stored, err := LoadStored(configPath)
	if err != nil {
		return err
	}

	stored.LastProjectID = run.LastProjectID
	stored.LastIssueID = run.LastIssueID
	if remember {
		stored.Username = run.Username
		stored.Password = run.Password
	}

	return Save(stored, configPath)
}
