package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/frontdesk/internal/wire"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [session-id] [answer...]",
	Short: "Answer an escalated question",
	Long: `Record a supervisor answer for the session's latest escalation. The answer
is also added to the knowledge base so future callers get it directly.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.SessionAdapter().Resolve(NewContext(), args[0], strings.Join(args[1:], " "))
	},
}

// ResolveCmd returns the resolve command
func ResolveCmd() *cobra.Command {
	return resolveCmd
}
