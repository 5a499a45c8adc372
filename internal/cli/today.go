package cli

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lqsky7/leetfeedback/pkg/model"
)

func newTodayCmd() *cobra.Command {
	var (
		count       int
		mode        string
		grandparent string
		parentTopic string
		where       string
	)

	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show today's practice batch",
		Long: `Show today's practice batch: new problems in catalog order, then solved
problems ranked by review urgency. Unset flags use the server defaults.

Examples:
  leetfeedback today --count 10 --mode focus-new
  leetfeedback today --grandparent Graphs,Trees
  leetfeedback today --where 'problem.difficulty == 2'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if cmd.Flags().Changed("count") {
				q.Set("count", strconv.Itoa(count))
			}
			if mode != "" {
				// Validate locally for a friendlier message.
				if _, err := model.ParseFocusMode(mode); err != nil {
					return err
				}
				q.Set("mode", mode)
			}
			if grandparent != "" {
				q.Set("grandparent", grandparent)
			}
			if parentTopic != "" {
				q.Set("parent_topic", parentTopic)
			}
			if where != "" {
				q.Set("where", where)
			}

			resp, err := client.Get("/api/v1/schedule/today", q)
			if err != nil {
				return fmt.Errorf("schedule: %w", err)
			}
			var res model.ScheduleResult
			if err := resp.decode(&res); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(res.Entries) == 0 {
				fmt.Fprintln(out, "Nothing to practice today.")
				return nil
			}

			fmt.Fprintf(out, "Today: %d of %d (%s; quota %d review / %d new; pools %d review / %d new)\n\n",
				len(res.Entries), res.Target, res.Mode, res.ReviewQuota, res.NewQuota, res.ReviewPool, res.NewPool)
			fmt.Fprintf(out, "%-5s  %-6s  %-6s  %-30s  %-6s  %s\n", "INDEX", "QUEUE", "SCORE", "PROBLEM", "LEVEL", "TOPIC")
			fmt.Fprintf(out, "%-5s  %-6s  %-6s  %-30s  %-6s  %s\n", "-----", "-----", "-----", "-------", "-----", "-----")
			for _, e := range res.Entries {
				score := "-"
				if e.Queue == "review" {
					score = fmt.Sprintf("%.3f", e.Score)
				}
				fmt.Fprintf(out, "%-5d  %-6s  %-6s  %-30s  %-6s  %s\n",
					e.Index, e.Queue, score, displayName(e.Problem), e.Problem.Difficulty, topic(e.Problem))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 0, "Number of problems (default: server setting)")
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Focus mode: only-review, focus-review, focus-new, only-new")
	cmd.Flags().StringVar(&grandparent, "grandparent", "", "Only these top-level topics (comma separated)")
	cmd.Flags().StringVar(&parentTopic, "parent-topic", "", "Only these parent topics (comma separated)")
	cmd.Flags().StringVar(&where, "where", "", "JavaScript predicate over `problem`")

	return cmd
}

func displayName(p model.Problem) string {
	name := p.Name
	if name == "" {
		name = p.ID
	}
	if len(name) > 30 {
		name = name[:27] + "..."
	}
	return name
}

func topic(p model.Problem) string {
	switch {
	case p.Grandparent != "" && p.ParentTopic != "":
		return p.Grandparent + " / " + p.ParentTopic
	case p.Grandparent != "":
		return p.Grandparent
	default:
		return p.ParentTopic
	}
}
