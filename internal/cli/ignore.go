package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lqsky7/leetfeedback/pkg/model"
)

func newIgnoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ignore <index>",
		Short: "Toggle whether a problem is ignored by the scheduler",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseIndex(args[0])
			if err != nil {
				return err
			}

			resp, err := client.Post(fmt.Sprintf("/api/v1/problems/%d/ignore", idx), nil)
			if err != nil {
				return fmt.Errorf("toggle ignore: %w", err)
			}
			var data model.IndexedProblem
			if err := resp.decode(&data); err != nil {
				return err
			}

			state := "active"
			if data.Problem.Ignored {
				state = "ignored"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Problem %d (%s) is now %s.\n", data.Index, displayName(data.Problem), state)
			return nil
		},
	}
}

func parseIndex(s string) (int, error) {
	idx, err := strconv.Atoi(s)
	if err != nil || idx < 0 {
		return 0, fmt.Errorf("invalid problem index %q: must be a non-negative integer", s)
	}
	return idx, nil
}
