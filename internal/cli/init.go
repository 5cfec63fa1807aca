package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/frontdesk/internal/config"
	"github.com/example/frontdesk/internal/db"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file and initialize the database",
	Long: `Write a default frontdesk config file (unless one exists) and create or
migrate the SQLite database it points at.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		seed, _ := cmd.Flags().GetBool("seed")
		offlineMode, _ := cmd.Flags().GetBool("offline")

		cfg, err := writeConfig(configPath, force, offlineMode)
		if err != nil {
			return err
		}

		conn, err := db.Open(cfg.Database.Driver, cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer conn.Close()

		version, err := db.CurrentVersion(conn)
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
		fmt.Printf("✓ Database %s at schema version %d\n", cfg.Database.Path, version)

		if seed {
			if err := db.SeedFixtures(conn, time.Now()); err != nil {
				return fmt.Errorf("failed to seed database: %w", err)
			}
			fmt.Println("✓ Seeded sample sessions and members")
		}

		fmt.Println()
		fmt.Println("Next steps:")
		fmt.Printf("  frontdesk ingest --file %s\n", cfg.Corpus.Path)
		fmt.Println("  frontdesk serve")
		return nil
	},
}

// writeConfig saves a default config at path unless one exists, and returns
// the effective configuration.
func writeConfig(path string, force, offlineMode bool) (*config.Config, error) {
	_, statErr := os.Stat(path)
	exists := statErr == nil
	if statErr != nil && !errors.Is(statErr, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to check config: %w", statErr)
	}

	if exists && !force {
		fmt.Printf("Config %s already exists (use --force to overwrite)\n", path)
		return config.Load(path)
	}

	cfg := config.Default()
	if offlineMode {
		cfg.Embedding.Provider = config.ProviderHashing
		cfg.Embedding.Dimensions = 512
		cfg.Synthesis.Provider = config.ProviderExtractive
	}
	if err := config.Save(path, cfg); err != nil {
		return nil, err
	}
	fmt.Printf("✓ Wrote config %s\n", path)
	return config.Load(path)
}

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
	initCmd.Flags().Bool("seed", false, "Insert sample sessions and members")
	initCmd.Flags().Bool("offline", false, "Use the offline embedding and synthesis providers")
}

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	return initCmd
}
