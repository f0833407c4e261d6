package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/felixgeelhaar/hireflow/pkg/observability"
	"github.com/spf13/cobra"
)

var (
	actorFlag string
	verbose   bool
	logger    *slog.Logger
)

type commandTimerKey struct{}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hireflow",
	Short: "Hireflow - interview scheduling and candidate introductions",
	Long: `Hireflow coordinates interviews between employers and candidates:
employers propose availability, candidates pick slots, and confirmed
interviews get a meeting link. Employers reach candidates through
consent-gated introductions.

Commands act as the identity given by --as (role:id), defaulting to
HIREFLOW_ACTOR.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		// Events staged by this command share one correlation ID.
		ctx = observability.WithCorrelationID(ctx, "")
		if actor, err := CurrentActor(); err == nil {
			ctx = observability.WithActor(ctx, actor.String())
		}
		timer := observability.StartTimer(cmd.CommandPath(), logger, metrics())
		cmd.SetContext(context.WithValue(ctx, commandTimerKey{}, timer))
		logger.DebugContext(ctx, "command start", "command", cmd.CommandPath())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if timer, ok := cmd.Context().Value(commandTimerKey{}).(*observability.Timer); ok {
			timer.Stop(nil)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, DescribeError(err))
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&actorFlag, "as", "", "act as role:id (candidate, employer, admin)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// AddCommand adds a command to the root command.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// SetLogger sets the CLI logger.
func SetLogger(l *slog.Logger) {
	logger = l
}

func metrics() observability.Metrics {
	if app != nil && app.Container != nil {
		return app.Container.Metrics
	}
	return nil
}

// Verbose reports whether --verbose was given.
func Verbose() bool {
	return verbose
}
