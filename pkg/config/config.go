// Package config wires viper-backed configuration for the jwt-hack CLI.
// Precedence follows viper's usual order: flags, environment (JWT_HACK_*),
// config file, defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// DefaultAlphabet is the character set used by bruteforce cracking when no
// --chars flag is given.
const DefaultAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// CrackConfig holds settings for the crack subcommand.
type CrackConfig struct {
	Mode        string `mapstructure:"mode"`
	Wordlist    string `mapstructure:"wordlist"`
	Chars       string `mapstructure:"chars"`
	Max         int    `mapstructure:"max"`
	Concurrency int    `mapstructure:"concurrency"`
	Power       bool   `mapstructure:"power"`
	Verbose     bool   `mapstructure:"verbose"`
	MetricsAddr string `mapstructure:"metrics_addr"`
}

// PayloadConfig holds settings for the payload subcommand.
type PayloadConfig struct {
	JWKTrust    string `mapstructure:"jwk_trust"`
	JWKAttack   string `mapstructure:"jwk_attack"`
	JWKProtocol string `mapstructure:"jwk_protocol"`
	Target      string `mapstructure:"target"`
}

// Config holds configuration common to all subcommands.
type Config struct {
	LogLevel string        `mapstructure:"log_level"`
	NoColor  bool          `mapstructure:"no_color"`
	Crack    CrackConfig   `mapstructure:"crack"`
	Payload  PayloadConfig `mapstructure:"payload"`
}

// InitViper initializes Viper with common settings
func InitViper() *viper.Viper {
	v := viper.New()

	// Set config file name and paths
	v.SetConfigName("jwt-hack")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/jwt-hack/")

	// Environment variable settings
	v.SetEnvPrefix("JWT_HACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	return v
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("no_color", false)

	v.SetDefault("crack.mode", "dict")
	v.SetDefault("crack.chars", DefaultAlphabet)
	v.SetDefault("crack.max", 4)
	v.SetDefault("crack.concurrency", 20)
	v.SetDefault("crack.power", false)
	v.SetDefault("crack.verbose", false)
	v.SetDefault("crack.metrics_addr", "")

	v.SetDefault("payload.jwk_protocol", "https")
	v.SetDefault("payload.target", "all")
}

// Load reads the configuration from file and environment
func Load(v *viper.Viper, cfg any) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found; use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return nil
}

// BindFlags binds common CLI flags to Viper
func BindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	v.BindPFlag("log_level", cmd.PersistentFlags().Lookup("log-level"))
	v.BindPFlag("no_color", cmd.PersistentFlags().Lookup("no-color"))
}
