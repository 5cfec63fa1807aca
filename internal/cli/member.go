package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/frontdesk/internal/wire"
)

var memberCmd = &cobra.Command{
	Use:   "member",
	Short: "Check and register salon members",
}

var memberCheckCmd = &cobra.Command{
	Use:   "check [phone]",
	Short: "Check whether a phone number belongs to a member",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := wire.MemberAdapter().Check(NewContext(), args[0])
		return err
	},
}

var memberAddCmd = &cobra.Command{
	Use:   "add [phone]",
	Short: "Register a member",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.MemberAdapter().Add(NewContext(), args[0])
	},
}

func init() {
	memberCmd.AddCommand(memberCheckCmd)
	memberCmd.AddCommand(memberAddCmd)
}

// MemberCmd returns the member command
func MemberCmd() *cobra.Command {
	return memberCmd
}
