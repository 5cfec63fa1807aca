package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/example/frontdesk/internal/wire"
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Talk to the receptionist from the terminal",
	Long: `Start a call session and type questions as the caller would say them.
Type "bye" or press Ctrl-D to hang up.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		phone, _ := cmd.Flags().GetString("phone")

		_, err := wire.CallAdapter(os.Stdin, os.Stdout).Converse(NewContext(), phone)
		return err
	},
}

func init() {
	askCmd.Flags().StringP("phone", "p", "", "Caller phone number")
}

// AskCmd returns the ask command
func AskCmd() *cobra.Command {
	return askCmd
}
