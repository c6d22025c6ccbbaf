package cmd

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hardwaylabs/jwt-hack/pkg/logger"
	"github.com/hardwaylabs/jwt-hack/pkg/token"
)

var decodeCmd = &cobra.Command{
	Use:   "decode TOKEN",
	Short: "Decode a JWT and display its header, payload and signature",
	Args:  cobra.ExactArgs(1),
	RunE:  runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	log := logger.New(logger.ComponentDecode)

	tok, err := token.Decompose(args[0])
	if err != nil {
		return err
	}

	log.Info("Token decoded", "alg", tok.Alg)

	header, err := prettyJSON(tok.HeaderJSON)
	if err != nil {
		return err
	}
	fmt.Printf("Header:\n%s\n", header)

	if payload, err := prettyJSON(tok.Payload); err == nil {
		fmt.Printf("Payload:\n%s\n", payload)
	} else {
		// Payload segments are not required to be JSON.
		fmt.Printf("Payload (raw):\n%s\n", tok.Payload)
	}

	fmt.Printf("Signature (hex):\n%s\n", hex.EncodeToString(tok.Signature))
	return nil
}

func prettyJSON(raw []byte) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return "", err
	}
	return buf.String(), nil
}
