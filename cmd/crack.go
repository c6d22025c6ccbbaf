package cmd

import (
	"fmt"
	"io"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/hardwaylabs/jwt-hack/pkg/config"
	"github.com/hardwaylabs/jwt-hack/pkg/crack"
	"github.com/hardwaylabs/jwt-hack/pkg/logger"
	"github.com/hardwaylabs/jwt-hack/pkg/metrics"
	"github.com/hardwaylabs/jwt-hack/pkg/token"
)

var crackCmd = &cobra.Command{
	Use:   "crack TOKEN",
	Short: "Recover the HMAC signing secret of a JWT",
	Long: `Crack searches a candidate keyspace for the secret that reproduces the
token's signature. Dictionary mode streams a wordlist file; bruteforce
mode enumerates every string over an alphabet up to a maximum length.`,
	Args: cobra.ExactArgs(1),
	RunE: runCrack,
}

func init() {
	rootCmd.AddCommand(crackCmd)
	crackCmd.Flags().StringP("mode", "m", "dict", "Cracking mode: 'dict' or 'brute'")
	crackCmd.Flags().StringP("wordlist", "w", "", "Wordlist file (dictionary mode)")
	crackCmd.Flags().String("chars", config.DefaultAlphabet, "Character list (bruteforce mode)")
	crackCmd.Flags().Int("max", 4, "Max secret length (bruteforce mode)")
	crackCmd.Flags().IntP("concurrency", "c", 20, "Concurrency level")
	crackCmd.Flags().Bool("power", false, "Use all CPU cores")
	crackCmd.Flags().Bool("verbose", false, "Log every attempted candidate")
	crackCmd.Flags().String("metrics-addr", "", "Expose prometheus metrics on this address during the run")

	v.BindPFlag("crack.mode", crackCmd.Flags().Lookup("mode"))
	v.BindPFlag("crack.wordlist", crackCmd.Flags().Lookup("wordlist"))
	v.BindPFlag("crack.chars", crackCmd.Flags().Lookup("chars"))
	v.BindPFlag("crack.max", crackCmd.Flags().Lookup("max"))
	v.BindPFlag("crack.concurrency", crackCmd.Flags().Lookup("concurrency"))
	v.BindPFlag("crack.power", crackCmd.Flags().Lookup("power"))
	v.BindPFlag("crack.verbose", crackCmd.Flags().Lookup("verbose"))
	v.BindPFlag("crack.metrics_addr", crackCmd.Flags().Lookup("metrics-addr"))
}

func runCrack(cmd *cobra.Command, args []string) error {
	var cfg config.Config
	if err := config.Load(v, &cfg); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(logger.ComponentCrack)
	if cfg.Crack.Verbose {
		log = logger.NewVerbose(logger.ComponentCrack)
	}

	// Decompose before touching any candidate source: a malformed token
	// must fail with zero oracle evaluations.
	tok, err := token.Decompose(args[0])
	if err != nil {
		return err
	}

	src, err := buildSource(cfg.Crack, log)
	if err != nil {
		return err
	}
	if closer, ok := src.(io.Closer); ok {
		defer closer.Close()
	}

	workers := cfg.Crack.Concurrency
	if cfg.Crack.Power {
		workers = runtime.NumCPU()
	}

	if size := src.Size(); size != nil {
		log.Info("Keyspace computed", "candidates", size.String())
		if size.IsInt64() {
			metrics.KeyspaceSize.Set(float64(size.Int64()))
		}
	}

	if cfg.Crack.MetricsAddr != "" {
		server := metrics.Serve(cfg.Crack.MetricsAddr)
		defer server.Close()
		log.Info("Metrics endpoint up", "addr", cfg.Crack.MetricsAddr)
	}

	var attempts atomic.Uint64
	progress := func(candidate []byte, n uint64) {
		attempts.Store(n)
		metrics.CrackAttempts.Inc()
		if cfg.Crack.Verbose {
			log.Debug("Trying candidate", "candidate", string(candidate), "attempts", n)
		}
	}

	scheduler, err := crack.New(tok, src, crack.Options{Workers: workers, Progress: progress})
	if err != nil {
		return err
	}

	log.Info("Cracking started", "alg", tok.Alg, "mode", cfg.Crack.Mode, "workers", workers)

	// Periodic rate reporting for long runs; advisory only.
	stopTicker := make(chan struct{})
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		var last uint64
		for {
			select {
			case <-stopTicker:
				return
			case <-ticker.C:
				n := attempts.Load()
				log.Info("Progress", "attempts", n, "rate_per_sec", (n-last)/10)
				last = n
			}
		}
	}()

	result, err := scheduler.Run(cmd.Context())
	close(stopTicker)
	if err != nil {
		return err
	}

	switch result.Outcome {
	case crack.OutcomeFound:
		metrics.CrackMatches.Inc()
		log.Success("Secret found",
			"secret", string(result.Secret),
			"attempts", result.Attempts,
			"elapsed", result.Elapsed.Round(time.Millisecond))
		fmt.Println(string(result.Secret))
	case crack.OutcomeExhausted:
		log.Fail("No secret found",
			"attempts", result.Attempts,
			"elapsed", result.Elapsed.Round(time.Millisecond))
	}
	return nil
}

func buildSource(cfg config.CrackConfig, log *logger.Logger) (crack.Source, error) {
	switch cfg.Mode {
	case "dict":
		if cfg.Wordlist == "" {
			return nil, fmt.Errorf("dictionary mode requires --wordlist")
		}
		return crack.NewWordlistSource(cfg.Wordlist)
	case "brute":
		log.Info("Bruteforce configured", "chars", cfg.Chars, "max", cfg.Max)
		return crack.NewBruteSource(cfg.Chars, cfg.Max)
	default:
		return nil, fmt.Errorf("unknown crack mode %q (use 'dict' or 'brute')", cfg.Mode)
	}
}
