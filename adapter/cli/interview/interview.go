// Package interview provides the interview scheduling commands.
package interview

import (
	"fmt"
	"io"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/felixgeelhaar/hireflow/adapter/cli"
	"github.com/felixgeelhaar/hireflow/internal/interviews/application/queries"
	"github.com/felixgeelhaar/hireflow/internal/interviews/domain"
	schedDomain "github.com/felixgeelhaar/hireflow/internal/scheduling/domain"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// Cmd is the interview command group
var Cmd = &cobra.Command{
	Use:   "interview",
	Short: "Schedule and manage interviews",
	Long: `Create interviews, propose and select time slots, confirm with a
meeting link, and move interviews through completion or cancellation.`,
}

// expectedVersion is shared by every mutating subcommand; -1 skips the check.
var expectedVersion int

func init() {
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(proposeCmd)
	Cmd.AddCommand(suggestCmd)
	Cmd.AddCommand(selectCmd)
	Cmd.AddCommand(confirmCmd)
	Cmd.AddCommand(rescheduleCmd)
	Cmd.AddCommand(completeCmd)
	Cmd.AddCommand(cancelCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(retryLinkCmd)

	for _, c := range []*cobra.Command{proposeCmd, selectCmd, confirmCmd, rescheduleCmd, completeCmd, cancelCmd} {
		c.Flags().IntVar(&expectedVersion, "expected-version", -1, "fail unless the interview is at this version")
	}
}

// session resolves the app and acting identity for a command.
func session() (*cli.App, sharedDomain.Actor, error) {
	app, err := cli.RequireApp()
	if err != nil {
		return nil, sharedDomain.Actor{}, err
	}
	actor, err := cli.CurrentActor()
	if err != nil {
		return nil, sharedDomain.Actor{}, err
	}
	return app, actor, nil
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.Wrapf(sharedDomain.ErrInvalidInput, "invalid interview id %q", raw)
	}
	return id, nil
}

func printSlots(w io.Writer, title string, slots []schedDomain.ProposedSlot) {
	fmt.Fprintf(w, "%s (%d):\n", title, len(slots))
	for _, s := range slots {
		fmt.Fprintf(w, "  %s  %s - %s\n", s.ID, s.Start.Format(time.RFC3339), s.End.Format("15:04"))
	}
}

func printInterview(w io.Writer, dto queries.InterviewDTO) {
	fmt.Fprintf(w, "Interview %s\n", dto.ID)
	fmt.Fprintf(w, "  status:    %s (%s)\n", dto.Status, dto.Stage)
	fmt.Fprintf(w, "  candidate: %s\n", dto.CandidateID)
	fmt.Fprintf(w, "  employer:  %s\n", dto.EmployerID)
	fmt.Fprintf(w, "  duration:  %d minutes\n", dto.DurationMinutes)
	if dto.ScheduledAt != nil {
		fmt.Fprintf(w, "  scheduled: %s\n", dto.ScheduledAt.Format(time.RFC3339))
	}
	if dto.InterviewerID != nil {
		fmt.Fprintf(w, "  interviewer: %s\n", *dto.InterviewerID)
	}
	if dto.MeetingPlatform != nil {
		fmt.Fprintf(w, "  platform:  %s\n", *dto.MeetingPlatform)
	}
	switch {
	case dto.MeetingLink != nil:
		fmt.Fprintf(w, "  link:      %s\n", *dto.MeetingLink)
	case dto.MeetingLinkError != nil:
		fmt.Fprintf(w, "  link:      %s (%s)\n", dto.MeetingLinkStatus, *dto.MeetingLinkError)
	}
	if dto.CancelReason != nil {
		fmt.Fprintf(w, "  reason:    %s\n", *dto.CancelReason)
	}
	fmt.Fprintf(w, "  version:   %d\n", dto.Version)
}

// printResult renders an interview returned by a command.
func printResult(cmd *cobra.Command, app *cli.App, interview *domain.Interview) {
	printInterview(cmd.OutOrStdout(), queries.ToDTO(interview, app.Clock.Now()))
}
