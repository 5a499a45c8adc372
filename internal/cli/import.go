package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lqsky7/leetfeedback/internal/catalog"
	"github.com/lqsky7/leetfeedback/pkg/model"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the server's problems with a JSON or YAML catalog",
		Long: `Replace the server's problems with a catalog file. The file is validated
locally first; .yaml/.yml files are read as YAML, anything else as JSON.
Attempt history is kept for problems whose id survives the import.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			problems, err := catalog.Load(args[0])
			if err != nil {
				return err
			}
			logger.Debug("catalog loaded", "path", args[0], "count", len(problems))

			resp, err := client.Put("/api/v1/problems", problems)
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}
			var data struct {
				Count int         `json:"count"`
				Stats model.Stats `json:"stats"`
			}
			if err := resp.decode(&data); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d problems (%d solved, %d unsolved, %d ignored).\n",
				data.Count, data.Stats.SolvedActive+data.Stats.SolvedIgnored,
				data.Stats.UnsolvedActive+data.Stats.UnsolvedIgnored, data.Stats.Ignored)
			return nil
		},
	}
}
