package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/frontdesk/internal/cli"
	"github.com/example/frontdesk/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "frontdesk",
		Short:   "frontdesk - salon voice receptionist with supervisor escalation",
		Version: version.String(),
		Long: `frontdesk answers caller questions from the salon knowledge base and
escalates anything it cannot answer confidently to a human supervisor.
Supervisor answers are learned for future calls.`,
		SilenceUsage: true,
	}
	cli.BindGlobalFlags(rootCmd)

	// Setup and runtime
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.AskCmd())
	rootCmd.AddCommand(cli.IngestCmd())

	// Supervisor tools
	rootCmd.AddCommand(cli.SessionsCmd())
	rootCmd.AddCommand(cli.ResolveCmd())
	rootCmd.AddCommand(cli.SweepCmd())
	rootCmd.AddCommand(cli.MemberCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
