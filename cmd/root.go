// Package cmd implements the jwt-hack command tree.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hardwaylabs/jwt-hack/pkg/config"
	"github.com/hardwaylabs/jwt-hack/pkg/logger"
)

var cfgFile string

// v is initialized at declaration so subcommand init functions can bind
// flags to it regardless of file init order.
var v = config.InitViper()

var rootCmd = &cobra.Command{
	Use:   "jwt-hack",
	Short: "JSON Web Token security-testing toolkit",
	Long: `jwt-hack decodes, encodes and verifies JSON Web Tokens, recovers
HMAC signing secrets by dictionary or bruteforce search, and generates
attack payloads for security testing.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if cmd.Name() != "version" {
			logger.Banner()
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./jwt-hack.yaml)")

	config.BindFlags(rootCmd, v)
}

func initConfig() {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	}
}
