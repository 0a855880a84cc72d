// Package config loads process configuration from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultPort          = "8080"
	defaultGitHubBaseURL = "https://api.github.com"
	defaultGitHubTimeout = 10 * time.Second
	defaultMaxPages      = 100
	defaultLogLevel      = "info"

	minGitHubTimeout = 100 * time.Millisecond
)

// Config holds application configuration.
type Config struct {
	Port          string
	GitHubBaseURL string
	GitHubToken   string
	GitHubTimeout time.Duration
	MaxPages      int
	LogLevel      string
}

// Load reads the given .env files (".env" when none are named) and binds the environment.
// Missing .env files are ignored; variables already set in the environment win.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", defaultPort)
	v.SetDefault("GITHUB_API_URL", defaultGitHubBaseURL)
	v.SetDefault("GITHUB_TOKEN", "")
	v.SetDefault("GITHUB_TIMEOUT", defaultGitHubTimeout.String())
	v.SetDefault("GITHUB_MAX_PAGES", defaultMaxPages)
	v.SetDefault("LOG_LEVEL", defaultLogLevel)

	timeout, err := parseTimeout(v.GetString("GITHUB_TIMEOUT"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:          strings.TrimSpace(v.GetString("PORT")),
		GitHubBaseURL: strings.TrimRight(strings.TrimSpace(v.GetString("GITHUB_API_URL")), "/"),
		GitHubToken:   strings.TrimSpace(v.GetString("GITHUB_TOKEN")),
		GitHubTimeout: timeout,
		MaxPages:      v.GetInt("GITHUB_MAX_PAGES"),
		LogLevel:      strings.ToLower(strings.TrimSpace(v.GetString("LOG_LEVEL"))),
	}
	return cfg, cfg.Validate()
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT must not be empty")
	}
	u, err := url.Parse(c.GitHubBaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("GITHUB_API_URL %q is not an absolute http(s) URL", c.GitHubBaseURL)
	}
	if c.GitHubTimeout < minGitHubTimeout {
		return fmt.Errorf("GITHUB_TIMEOUT must be at least %s, got %s", minGitHubTimeout, c.GitHubTimeout)
	}
	if c.MaxPages < 1 {
		return fmt.Errorf("GITHUB_MAX_PAGES must be at least 1, got %d", c.MaxPages)
	}
	return nil
}

// parseTimeout accepts a Go duration ("10s", "1m30s") or a bare integer number of seconds.
func parseTimeout(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("GITHUB_TIMEOUT %q is not a duration: %w", raw, err)
	}
	return d, nil
}
