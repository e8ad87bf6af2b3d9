package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:           "careforms-cli",
		Short:         "Request care documents from the document service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd, flags)
		},
	}
	flags.register(rootCmd)

	rootCmd.AddCommand(interactiveCmd(flags))
	rootCmd.AddCommand(generateCmd(flags))
	rootCmd.AddCommand(templateCmd())
	rootCmd.AddCommand(lookupCmd(flags))
	rootCmd.AddCommand(sectionsCmd())
	rootCmd.AddCommand(healthCmd(flags))
	rootCmd.AddCommand(contractCmd())
	return rootCmd
}
