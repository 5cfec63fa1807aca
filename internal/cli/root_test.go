package cli

import (
	"errors"
	"testing"

	"github.com/spf13/cobra"
)

func TestBindGlobalFlags_ClosesServicesAfterFailure(t *testing.T) {
	closed := 0
	prev := closeServices
	closeServices = func() { closed++ }
	t.Cleanup(func() { closeServices = prev })

	root := &cobra.Command{Use: "frontdesk", SilenceUsage: true, SilenceErrors: true}
	BindGlobalFlags(root)
	root.AddCommand(&cobra.Command{
		Use: "serve",
		RunE: func(cmd *cobra.Command, args []string) error {
			return errors.New("listen tcp :5000: address already in use")
		},
	})
	root.SetArgs([]string{"serve"})

	if err := root.Execute(); err == nil {
		t.Fatal("expected command error")
	}
	if closed != 1 {
		t.Errorf("services closed %d times, want 1", closed)
	}
}
