// Package config loads jt settings from the environment, an optional
// config file and an optional .env file into an explicit Config value.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment variables read by Load.
const (
	EnvDomain    = "JIRA_DOMAIN"
	EnvAuth      = "JIRA_AUTH"
	EnvEditor    = "EDITOR"
	EnvCacheDir  = "JT_CACHE_DIR"
	EnvIssueType = "JT_ISSUE_TYPE"
)

// Defaults applied when a setting is absent everywhere.
const (
	DefaultEditor    = "vim"
	DefaultIssueType = "Task"
	DefaultEnvFile   = ".env"
)

// Options controls where Load looks for settings.
type Options struct {
	// ConfigFile is an explicit YAML config path. When empty, Load uses
	// <user config dir>/jt/config.yaml if it exists.
	ConfigFile string

	// EnvFile is a dotenv file merged into the process environment before
	// lookup. Variables already set are never overridden. Empty disables it.
	EnvFile string
}

// Config is the resolved configuration for one process invocation.
type Config struct {
	Domain    string `yaml:"domain"`
	Auth      string `yaml:"auth"`
	Editor    string `yaml:"editor,omitempty"`
	CacheDir  string `yaml:"cache-dir"`
	IssueType string `yaml:"issue-type"`

	// File is the config file that was read, if any.
	File string `yaml:"-"`
}

// Credentials are the values needed to talk to the Jira REST API.
type Credentials struct {
	Domain     string
	AuthHeader string
}

// MissingConfigError reports required settings that are blank or absent.
type MissingConfigError struct {
	Vars []string
}

func (e *MissingConfigError) Error() string {
	if len(e.Vars) == 1 {
		return "missing required environment variable: " + e.Vars[0]
	}
	return "missing required environment variables: " + strings.Join(e.Vars, " or ")
}

// Load builds a Config. Precedence, highest first: process environment
// (including values merged from the env file), config file, defaults.
func Load(opts Options) (*Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", opts.EnvFile, err)
		}
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("cache-dir", os.TempDir())
	v.SetDefault("issue-type", DefaultIssueType)

	bindings := map[string]string{
		"domain":     EnvDomain,
		"auth":       EnvAuth,
		"editor":     EnvEditor,
		"cache-dir":  EnvCacheDir,
		"issue-type": EnvIssueType,
	}
	for key, env := range bindings {
		_ = v.BindEnv(key, env) // only fails on an empty key
	}

	path := opts.ConfigFile
	if path == "" {
		path = defaultConfigPath()
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			// A missing default file is normal; a missing explicit one is not.
			if opts.ConfigFile != "" || !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
			path = ""
		}
	}

	return &Config{
		Domain:    strings.TrimSpace(v.GetString("domain")),
		Auth:      strings.TrimSpace(v.GetString("auth")),
		Editor:    strings.TrimSpace(v.GetString("editor")),
		CacheDir:  v.GetString("cache-dir"),
		IssueType: v.GetString("issue-type"),
		File:      path,
	}, nil
}

// defaultConfigPath returns <user config dir>/jt/config.yaml when the file
// exists, otherwise "".
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(dir, "jt", "config.yaml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// Credentials resolves the domain and Authorization header value.
// If both values are missing the error names both variables.
func (c *Config) Credentials() (Credentials, error) {
	var missing []string
	if c.Domain == "" {
		missing = append(missing, EnvDomain)
	}
	if c.Auth == "" {
		missing = append(missing, EnvAuth)
	}
	if len(missing) > 0 {
		return Credentials{}, &MissingConfigError{Vars: missing}
	}
	return Credentials{
		Domain:     c.Domain,
		AuthHeader: "Basic " + c.Auth,
	}, nil
}

// EditorCommand returns the configured editor, or DefaultEditor.
func (c *Config) EditorCommand() string {
	if c.Editor != "" {
		return c.Editor
	}
	return DefaultEditor
}

// BrowseURL returns the web URL of a ticket.
func (c *Config) BrowseURL(key string) string {
	return fmt.Sprintf("%s/browse/%s", baseURL(c.Domain), key)
}

// BaseURL is the site root for the domain. A bare host gets https.
func (c Credentials) BaseURL() string {
	return baseURL(c.Domain)
}

func baseURL(domain string) string {
	domain = strings.TrimSuffix(domain, "/")
	if strings.Contains(domain, "://") {
		return domain
	}
	return "https://" + domain
}

// Status describes which settings are configured, one line per variable.
func (c *Config) Status() []string {
	var lines []string
	if c.Domain != "" && c.Auth != "" {
		lines = append(lines, EnvDomain+": configured", EnvAuth+": configured")
	} else {
		if c.Domain == "" {
			lines = append(lines, EnvDomain+": not configured")
		}
		if c.Auth == "" {
			lines = append(lines, EnvAuth+": not configured")
		}
	}
	if c.Editor != "" {
		lines = append(lines, fmt.Sprintf("%s: configured (%s)", EnvEditor, c.Editor))
	} else {
		lines = append(lines, fmt.Sprintf("%s: not configured (defaults to %s)", EnvEditor, DefaultEditor))
	}
	return lines
}

// Redacted returns a copy safe to print: the auth token is masked.
func (c *Config) Redacted() Config {
	out := *c
	if out.Auth != "" {
		out.Auth = "********"
	}
	return out
}
