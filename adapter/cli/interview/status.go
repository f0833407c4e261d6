package interview

import (
	"github.com/felixgeelhaar/hireflow/adapter/cli"
	"github.com/felixgeelhaar/hireflow/internal/interviews/application/commands"
	"github.com/felixgeelhaar/hireflow/internal/interviews/domain"
	"github.com/spf13/cobra"
)

var cancelReason string

var completeCmd = &cobra.Command{
	Use:   "complete [interview-id]",
	Short: "Mark a held interview as completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, actor, err := session()
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		interview, err := app.UpdateStatusHandler.Handle(cmd.Context(), commands.UpdateInterviewStatusCommand{
			Actor:           actor,
			InterviewID:     id,
			ExpectedVersion: cli.VersionFlag(expectedVersion),
			Status:          string(domain.StatusCompleted),
		})
		if err != nil {
			return err
		}
		printResult(cmd, app, interview)
		return nil
	},
}

var cancelCmd = &cobra.Command{
	Use:   "cancel [interview-id]",
	Short: "Cancel an interview",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, actor, err := session()
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		interview, err := app.UpdateStatusHandler.Cancel(cmd.Context(), commands.CancelInterviewCommand{
			Actor:           actor,
			InterviewID:     id,
			ExpectedVersion: cli.VersionFlag(expectedVersion),
			Reason:          cancelReason,
		})
		if err != nil {
			return err
		}
		printResult(cmd, app, interview)
		return nil
	},
}

func init() {
	cancelCmd.Flags().StringVarP(&cancelReason, "reason", "r", "", "why the interview is cancelled")
}
