package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Checker-Finance/linxpay/pkg/config"
	"github.com/Checker-Finance/linxpay/pkg/linxpay"
	"github.com/Checker-Finance/linxpay/pkg/logger"
)

// cliContext holds what every subcommand needs once the root has run.
type cliContext struct {
	cfg    *config.Config
	logger *zap.Logger
	client *linxpay.Client
}

func newRootCommand() *cobra.Command {
	var (
		ctx      cliContext
		baseURI  string
		logLevel string
	)

	rootCmd := &cobra.Command{
		Use:           "linxpayctl",
		Short:         "Operator CLI for the LinxPay API",
		Long:          `Calls the LinxPay API with the account configured in LINXPAY_* environment variables (or .env).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx.cfg = config.Load()
			if baseURI != "" {
				ctx.cfg.BaseURI = baseURI
			}

			log, err := logger.New(ctx.cfg.Env, logLevel)
			if err != nil {
				return fmt.Errorf("failed to setup logging: %w", err)
			}
			ctx.logger = log.With(zap.String("component", "cli"))

			ctx.client, err = linxpay.New(ctx.cfg.Credentials(), ctx.cfg.ClientOptions(ctx.logger)...)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if ctx.logger != nil {
				_ = ctx.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&baseURI, "base-uri", "",
		"LinxPay API base URI (overrides LINXPAY_BASE_URI)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn",
		"Log level (debug, info, warn, error)")

	rootCmd.AddCommand(newPollCommand(&ctx))
	rootCmd.AddCommand(newRedeemCommand(&ctx))

	return rootCmd
}

// resultOutput is the JSON document printed for every call.
type resultOutput struct {
	Kind   string `json:"kind"`
	Status int    `json:"status,omitempty"`
	Body   any    `json:"body,omitempty"`
	Error  string `json:"error,omitempty"`
}

// printResult writes res as indented JSON and returns an error for anything
// but a success, so the exit code reflects the outcome.
func printResult(w io.Writer, res *linxpay.Result) error {
	out := resultOutput{
		Kind:   res.Kind.String(),
		Status: res.StatusCode,
		Body:   res.Body,
	}
	if res.Err != nil {
		out.Error = res.Err.Error()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return err
	}

	if !res.OK() {
		return fmt.Errorf("linxpay call failed: %s", res.Kind)
	}
	return nil
}
