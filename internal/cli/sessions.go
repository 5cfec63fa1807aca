package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/frontdesk/internal/wire"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Inspect escalated sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List escalations, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		limit, _ := cmd.Flags().GetInt("limit")

		_, err := wire.SessionAdapter().List(NewContext(), strings.ToUpper(status), limit)
		return err
	},
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Show a session and its latest escalation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := wire.SessionAdapter().Show(NewContext(), args[0])
		return err
	},
}

func init() {
	sessionsListCmd.Flags().StringP("status", "s", "", "Filter by status (pending|resolved|unresolved)")
	sessionsListCmd.Flags().IntP("limit", "n", 0, "Maximum rows to show (0 = all)")

	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
}

// SessionsCmd returns the sessions command
func SessionsCmd() *cobra.Command {
	return sessionsCmd
}
