package cli

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/lqsky7/leetfeedback/pkg/model"
)

func newListCmd() *cobra.Command {
	var (
		state  string
		limit  int
		offset int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if state != "" {
				q.Set("state", state)
			}
			q.Set("limit", strconv.Itoa(limit))
			q.Set("offset", strconv.Itoa(offset))

			resp, err := client.Get("/api/v1/problems", q)
			if err != nil {
				return fmt.Errorf("list problems: %w", err)
			}
			var data []model.IndexedProblem
			if err := resp.decode(&data); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(data) == 0 {
				fmt.Fprintln(out, "No problems found.")
				return nil
			}

			fmt.Fprintf(out, "%-5s  %-30s  %-6s  %-8s  %-5s  %-10s  %s\n", "INDEX", "PROBLEM", "LEVEL", "STATE", "TRIES", "SOLVED", "TOPIC")
			fmt.Fprintf(out, "%-5s  %-30s  %-6s  %-8s  %-5s  %-10s  %s\n", "-----", "-------", "-----", "-----", "-----", "------", "-----")
			for _, it := range data {
				p := it.Problem
				fmt.Fprintf(out, "%-5d  %-30s  %-6s  %-8s  %-5d  %-10s  %s\n",
					it.Index, displayName(p), p.Difficulty, p.State(), p.Solved.Tries, solvedDate(p), topic(p))
			}

			if resp.Pagination != nil && resp.Pagination.HasMore {
				fmt.Fprintf(out, "\n(%d of %d shown)\n", len(data), resp.Pagination.Total)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&state, "state", "", "Filter: solved, unsolved, ignored, active")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum rows")
	cmd.Flags().IntVar(&offset, "offset", 0, "Rows to skip")

	return cmd
}

func solvedDate(p model.Problem) string {
	if !p.Solved.Value || p.Solved.Date == 0 {
		return "-"
	}
	return time.UnixMilli(p.Solved.Date).UTC().Format(time.DateOnly)
}
