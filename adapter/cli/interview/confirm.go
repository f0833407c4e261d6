package interview

import (
	"fmt"

	"github.com/felixgeelhaar/hireflow/adapter/cli"
	"github.com/felixgeelhaar/hireflow/internal/interviews/application/commands"
	"github.com/spf13/cobra"
)

var (
	confirmSlot        string
	confirmInterviewer string
	confirmPlatform    string
	rescheduleStarts   []string
)

var confirmCmd = &cobra.Command{
	Use:   "confirm [interview-id]",
	Short: "Confirm a selected slot and create the meeting link",
	Long: `Confirm one of the candidate's selected slots, assign an interviewer
from the employer's team, and request a meeting link.

A failed meeting link does not undo the confirmation; retry it with
"hireflow interview retry-link".

Examples:
  hireflow --as employer:acme interview confirm <id> --slot <slot-id> --interviewer int-1 --platform zoom`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, actor, err := session()
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		command := commands.ConfirmInterviewCommand{
			Actor:           actor,
			InterviewID:     id,
			ExpectedVersion: cli.VersionFlag(expectedVersion),
			InterviewerID:   confirmInterviewer,
			Platform:        confirmPlatform,
		}
		if confirmSlot != "" {
			slotID, err := parseID(confirmSlot)
			if err != nil {
				return err
			}
			command.SlotID = &slotID
		}

		interview, err := app.ConfirmInterviewHandler.Handle(cmd.Context(), command)
		if err != nil {
			return err
		}
		printResult(cmd, app, interview)
		return nil
	},
}

var rescheduleCmd = &cobra.Command{
	Use:   "reschedule [interview-id]",
	Short: "Move a scheduled interview back to the candidate for a new slot",
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
		starts, err := cli.ParseTimes(rescheduleStarts)
		if err != nil {
			return err
		}

		interview, err := app.RescheduleInterviewHandler.Handle(cmd.Context(), commands.RescheduleInterviewCommand{
			Actor:           actor,
			InterviewID:     id,
			ExpectedVersion: cli.VersionFlag(expectedVersion),
			ExtraStarts:     starts,
		})
		if err != nil {
			return err
		}
		printResult(cmd, app, interview)
		return nil
	},
}

var retryLinkCmd = &cobra.Command{
	Use:   "retry-link [interview-id]",
	Short: "Retry creating the meeting link for a scheduled interview",
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

		interview, err := app.RetryMeetingLinkHandler.Handle(cmd.Context(), commands.RetryMeetingLinkCommand{
			Actor:       actor,
			InterviewID: id,
		})
		if err != nil {
			return err
		}
		if interview.MeetingLink() == nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "meeting link still unavailable")
		}
		printResult(cmd, app, interview)
		return nil
	},
}

func init() {
	confirmCmd.Flags().StringVar(&confirmSlot, "slot", "", "selected slot id (defaults to the only selected slot)")
	confirmCmd.Flags().StringVar(&confirmInterviewer, "interviewer", "", "interviewer user id from the employer's team")
	confirmCmd.Flags().StringVar(&confirmPlatform, "platform", "zoom", "meeting platform (zoom, google_meet)")

	rescheduleCmd.Flags().StringArrayVar(&rescheduleStarts, "start", nil, "additional slot start time (RFC 3339); repeatable")
}
