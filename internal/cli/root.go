package cli

import (
	"log/slog"
	"os"

	"github.com/lqsky7/leetfeedback/internal/logging"
	"github.com/spf13/cobra"
)

var (
	flagServer    string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	logger *slog.Logger
	client *Client
)

// defaultServer returns the default server URL, checking LEETFEEDBACK_SERVER env var first.
func defaultServer() string {
	if s := os.Getenv("LEETFEEDBACK_SERVER"); s != "" {
		return s
	}
	return "http://localhost:8080"
}

// NewRootCmd creates the root cobra command for the leetfeedback CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "leetfeedback",
		Short: "leetfeedback: daily practice batches from your solve history",
		Long:  "leetfeedback picks today's problems (new ones in order, solved ones by review urgency) and records your attempts.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagDebug {
				flagLogLevel = "debug"
			}
			logger = logging.NewLoggerWithWriter(logging.ParseLevel(flagLogLevel), flagLogFormat, cmd.ErrOrStderr())
			client = NewClient(flagServer, logger)
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagServer, "server", defaultServer(), "leetfeedback server URL (or LEETFEEDBACK_SERVER env)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newTodayCmd(),
		newStatsCmd(),
		newListCmd(),
		newIgnoreCmd(),
		newSolveCmd(),
		newImportCmd(),
	)

	return root
}
