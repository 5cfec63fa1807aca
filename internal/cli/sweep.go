package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/frontdesk/internal/wire"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Expire escalations left unanswered past the timeout",
	RunE: func(cmd *cobra.Command, args []string) error {
		watch, _ := cmd.Flags().GetBool("watch")
		sweeper := wire.Sweeper()

		if watch {
			ctx, stop := signal.NotifyContext(NewContext(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return sweeper.Run(ctx)
		}

		report, err := sweeper.SweepOnce(NewContext())
		if err != nil {
			return err
		}
		fmt.Printf("✓ Checked %d pending, expired %d", report.Checked, report.Expired)
		if report.Skipped > 0 {
			fmt.Printf(", skipped %d", report.Skipped)
		}
		fmt.Println()
		return nil
	},
}

func init() {
	sweepCmd.Flags().BoolP("watch", "w", false, "Keep sweeping every interval until interrupted")
}

// SweepCmd returns the sweep command
func SweepCmd() *cobra.Command {
	return sweepCmd
}
