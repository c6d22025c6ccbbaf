package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hardwaylabs/jwt-hack/pkg/logger"
	"github.com/hardwaylabs/jwt-hack/pkg/token"
)

var verifyCmd = &cobra.Command{
	Use:   "verify TOKEN",
	Short: "Verify a JWT signature and optionally its expiration",
	Args:  cobra.ExactArgs(1),
	RunE:  runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().String("secret", "", "Secret key for HMAC algorithms (HS256, HS384, HS512)")
	verifyCmd.Flags().String("private-key", "", "Public or private key in PEM format for asymmetric algorithms")
	verifyCmd.Flags().Bool("validate-exp", false, "Validate the expiration claim (exp)")
}

func runVerify(cmd *cobra.Command, args []string) error {
	log := logger.New(logger.ComponentVerify)

	secret, _ := cmd.Flags().GetString("secret")
	keyPath, _ := cmd.Flags().GetString("private-key")
	validateExp, _ := cmd.Flags().GetBool("validate-exp")

	opts := token.VerifyOptions{Secret: secret, ValidateExp: validateExp}
	if keyPath != "" {
		pem, err := os.ReadFile(keyPath)
		if err != nil {
			return fmt.Errorf("cannot read key: %w", err)
		}
		opts.KeyPEM = pem
	}

	parsed, err := token.VerifyToken(args[0], opts)
	if err != nil {
		log.Fail("Verification failed", "error", err)
		return err
	}

	log.Success("Signature is valid", "alg", parsed.Method.Alg())
	if validateExp {
		log.Success("Expiration claim is valid")
	}
	return nil
}
