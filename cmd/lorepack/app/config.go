// Package app provides configuration, logging, and dependency wiring for
// the lorepack CLI. It centralizes the pieces every command needs so the
// commands themselves stay thin.
package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from config files,
// environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool

	// Config file actually used, if any
	ConfigFile string

	// Content sources
	PackDirs   []string
	AliasFiles []string
	TextFiles  []string
	ImageFiles []string

	// Resolution
	FuzzyThreshold float64

	// Watch
	WatchDebounce time.Duration

	// Wiki fallback
	WikiMode       string
	WikiLang       string
	WikiHost       string
	FandomSite     string
	WikiPathPrefix string
	WikiLimit      int

	// Logging
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// command-line flags (handled by cobra), environment variables, .env files,
// a config file (./lorepack.yaml or ~/.lorepack.yaml), then defaults.
func LoadConfig() (*Config, error) {
	// .env files load before viper binds the environment
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix("lorepack")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	v.SetDefault("pack_dirs", []string{"packs"})
	v.SetDefault("fuzzy_threshold", 0.6)
	v.SetDefault("watch_debounce", "500ms")
	v.SetDefault("wiki.mode", "mediawiki")
	v.SetDefault("wiki.lang", "en")
	v.SetDefault("wiki.host", "dwarffortresswiki.org")
	v.SetDefault("wiki.limit", 3)

	if configFile := v.GetString("config"); configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("lorepack")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	// A missing config file is fine; defaults and env cover everything
	_ = v.ReadInConfig()

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),

		ConfigFile: v.ConfigFileUsed(),

		PackDirs:   v.GetStringSlice("pack_dirs"),
		AliasFiles: v.GetStringSlice("alias_files"),
		TextFiles:  v.GetStringSlice("text_files"),
		ImageFiles: v.GetStringSlice("image_files"),

		FuzzyThreshold: v.GetFloat64("fuzzy_threshold"),
		WatchDebounce:  v.GetDuration("watch_debounce"),

		WikiMode:       v.GetString("wiki.mode"),
		WikiLang:       v.GetString("wiki.lang"),
		WikiHost:       v.GetString("wiki.host"),
		FandomSite:     v.GetString("wiki.fandom_site"),
		WikiPathPrefix: v.GetString("wiki.path_prefix"),
		WikiLimit:      v.GetInt("wiki.limit"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	return config, nil
}

// loadEnvFiles loads environment variables from .env files;
// .env.local overrides .env.
func loadEnvFiles() {
	for _, file := range []string{".env", ".env.local"} {
		if _, err := os.Stat(file); err == nil {
			_ = godotenv.Overload(file)
		}
	}
}

// getEnvOrDefault returns an environment variable or a default value.
func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
