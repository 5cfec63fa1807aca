package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/frontdesk/internal/ports/primary"
	"github.com/example/frontdesk/internal/wire"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Rebuild the knowledge index from the salon corpus",
	Long: `Split the corpus file into sections, embed them and replace the vectors of
the namespace. Defaults come from the config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		namespace, _ := cmd.Flags().GetString("namespace")

		resp, err := wire.IngestService().Ingest(NewContext(), primary.IngestRequest{Path: file, Namespace: namespace})
		if err != nil {
			return err
		}

		fmt.Printf("✓ Ingested %d of %d sections into %q\n", resp.Inserted, resp.Sections, resp.Namespace)
		if resp.Failed > 0 {
			return fmt.Errorf("%d sections failed to ingest", resp.Failed)
		}
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringP("file", "f", "", "Corpus file (defaults to corpus.path)")
	ingestCmd.Flags().StringP("namespace", "n", "", "Vector namespace (defaults to retrieval.namespace)")
}

// IngestCmd returns the ingest command
func IngestCmd() *cobra.Command {
	return ingestCmd
}
