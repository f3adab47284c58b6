package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd().ExecuteContext(ctx)
	cancel()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var env string
	root := &cobra.Command{
		Use:           "earningsctl",
		Short:         "Operate the earnings and billing reconciliation engine",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&env, "env-file", ".env", "optional env file read before the environment")

	root.AddCommand(migrateCmd(&env))
	root.AddCommand(seedCmd(&env))
	root.AddCommand(recomputeCmd(&env))
	root.AddCommand(finalizeEndedCmd(&env))
	return root
}
