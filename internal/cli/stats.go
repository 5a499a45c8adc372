package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lqsky7/leetfeedback/pkg/model"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show problem counts by state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client.Get("/api/v1/stats", nil)
			if err != nil {
				return fmt.Errorf("stats: %w", err)
			}
			var s model.Stats
			if err := resp.decode(&s); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total:    %d\n", s.Total)
			fmt.Fprintf(out, "Active:   %d (%d solved, %d unsolved)\n", s.Active, s.SolvedActive, s.UnsolvedActive)
			fmt.Fprintf(out, "Ignored:  %d (%d solved, %d unsolved)\n", s.Ignored, s.SolvedIgnored, s.UnsolvedIgnored)
			return nil
		},
	}
}
