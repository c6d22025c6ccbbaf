package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/hardwaylabs/jwt-hack/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("jwt-hack %s (%s/%s)\n", version.Version, runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
