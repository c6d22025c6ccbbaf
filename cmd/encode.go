package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hardwaylabs/jwt-hack/pkg/logger"
	"github.com/hardwaylabs/jwt-hack/pkg/token"
)

var encodeCmd = &cobra.Command{
	Use:   "encode JSON",
	Short: "Encode a JSON claims document into a signed JWT",
	Args:  cobra.ExactArgs(1),
	RunE:  runEncode,
}

func init() {
	rootCmd.AddCommand(encodeCmd)
	encodeCmd.Flags().String("secret", "", "Secret key for HMAC algorithms (HS256, HS384, HS512)")
	encodeCmd.Flags().String("private-key", "", "RSA, ECDSA or Ed25519 private key in PEM format")
	encodeCmd.Flags().String("algorithm", "HS256", "Signing algorithm")
	encodeCmd.Flags().Bool("no-signature", false, "Use the 'none' algorithm (no signature)")
	encodeCmd.Flags().StringArray("header", nil, "Custom header parameter (format: key=value, repeatable)")
}

func runEncode(cmd *cobra.Command, args []string) error {
	log := logger.New(logger.ComponentEncode)

	secret, _ := cmd.Flags().GetString("secret")
	keyPath, _ := cmd.Flags().GetString("private-key")
	algorithm, _ := cmd.Flags().GetString("algorithm")
	noSignature, _ := cmd.Flags().GetBool("no-signature")
	headerFlags, _ := cmd.Flags().GetStringArray("header")

	headers, err := parseKeyValues(headerFlags)
	if err != nil {
		return err
	}

	opts := token.EncodeOptions{
		Algorithm:   algorithm,
		Secret:      secret,
		NoSignature: noSignature,
		Header:      headers,
	}
	if keyPath != "" {
		pem, err := os.ReadFile(keyPath)
		if err != nil {
			return fmt.Errorf("cannot read private key: %w", err)
		}
		opts.PrivateKeyPEM = pem
	}

	signed, err := token.Encode([]byte(args[0]), opts)
	if err != nil {
		return err
	}

	log.Success("Token encoded", "alg", opts.Algorithm)
	fmt.Println(signed)
	return nil
}

func parseKeyValues(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid header %q: expected key=value", pair)
		}
		out[key] = value
	}
	return out, nil
}
