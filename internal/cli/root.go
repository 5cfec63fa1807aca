// Package cli provides CLI commands for the frontdesk application.
package cli

import (
	gocontext "context"
	"sync"

	"github.com/spf13/cobra"

	"github.com/example/frontdesk/internal/config"
	"github.com/example/frontdesk/internal/wire"
)

var (
	configPath string
	verbose    bool

	// closeServices runs once per process after the command finishes,
	// including when RunE fails.
	closeServices = wire.Close
	finalizeOnce  sync.Once
)

// BindGlobalFlags registers --config and --verbose on root and hands them to
// the wire package before any command runs.
func BindGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to the frontdesk config file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		wire.Configure(configPath, verbose)
	}
	finalizeOnce.Do(func() {
		cobra.OnFinalize(func() { closeServices() })
	})
}

// NewContext creates the base context for a CLI invocation.
func NewContext() gocontext.Context {
	return gocontext.Background()
}
