package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lqsky7/leetfeedback/pkg/model"
)

func newSolveCmd() *cobra.Command {
	var failed bool

	cmd := &cobra.Command{
		Use:   "solve <index>",
		Short: "Record an attempt on a problem",
		Long:  "Record an attempt on a problem. Every attempt counts as a try; an accepted one also marks the problem solved today.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseIndex(args[0])
			if err != nil {
				return err
			}

			resp, err := client.Post(fmt.Sprintf("/api/v1/problems/%d/attempts", idx), map[string]any{
				"accepted": !failed,
			})
			if err != nil {
				return fmt.Errorf("record attempt: %w", err)
			}
			var data struct {
				Attempt model.Attempt        `json:"attempt"`
				Problem model.IndexedProblem `json:"problem"`
			}
			if err := resp.decode(&data); err != nil {
				return err
			}

			verdict := "accepted"
			if failed {
				verdict = "failed"
			}
			p := data.Problem.Problem
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s attempt on %s (tries: %d, state: %s).\n",
				verdict, displayName(p), p.Solved.Tries, p.State())
			logger.Debug("attempt recorded", "attempt_id", data.Attempt.ID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&failed, "failed", false, "Record a failed attempt (counts a try, does not mark solved)")
	return cmd
}
