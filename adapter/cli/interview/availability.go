package interview

import (
	"time"

	"github.com/felixgeelhaar/hireflow/adapter/cli"
	"github.com/felixgeelhaar/hireflow/internal/interviews/application/commands"
	"github.com/felixgeelhaar/hireflow/internal/interviews/application/queries"
	schedDomain "github.com/felixgeelhaar/hireflow/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	proposeStarts []string
	weekStart     string
	weekDays      []string
	startHour     int
	endHour       int

	suggestFrom string
	suggestTo   string
)

var proposeCmd = &cobra.Command{
	Use:   "propose [interview-id]",
	Short: "Propose available slots for an interview",
	Long: `Propose slot start times, either one by one or as a weekly pattern.
Proposing a start that is already proposed withdraws it.

Examples:
  hireflow --as employer:acme interview propose <id> --start 2026-03-02T15:00:00Z --start 2026-03-03T10:00:00Z
  hireflow --as employer:acme interview propose <id> --week 2026-03-02 --days mon,wed --from-hour 9 --to-hour 12`,
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
		starts, err := cli.ParseTimes(proposeStarts)
		if err != nil {
			return err
		}

		command := commands.ProposeAvailabilityCommand{
			Actor:           actor,
			InterviewID:     id,
			ExpectedVersion: cli.VersionFlag(expectedVersion),
			Starts:          starts,
		}
		if weekStart != "" {
			pattern, err := weeklyPattern()
			if err != nil {
				return err
			}
			command.Pattern = pattern
		}

		slots, err := app.ProposeAvailabilityHandler.Handle(cmd.Context(), command)
		if err != nil {
			return err
		}
		printSlots(cmd.OutOrStdout(), "Proposed slots", slots)
		return nil
	},
}

func weeklyPattern() (*schedDomain.WeeklyPattern, error) {
	start, err := time.Parse(time.DateOnly, weekStart)
	if err != nil {
		return nil, err
	}
	days, err := schedDomain.ParseWeekdays(weekDays)
	if err != nil {
		return nil, err
	}
	return &schedDomain.WeeklyPattern{
		WeekStart: start,
		Days:      days,
		Hours:     schedDomain.HourRange{StartHour: startHour, EndHour: endHour},
	}, nil
}

var suggestCmd = &cobra.Command{
	Use:   "suggest [interview-id]",
	Short: "Suggest free slots from the interviewers' calendars",
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

		query := queries.SuggestAvailabilityQuery{Actor: actor, InterviewID: id}
		if suggestFrom != "" || suggestTo != "" {
			bounds, err := cli.ParseTimes([]string{suggestFrom, suggestTo})
			if err != nil {
				return err
			}
			query.From, query.To = bounds[0], bounds[1]
		}

		slots, err := app.SuggestAvailabilityHandler.Handle(cmd.Context(), query)
		if err != nil {
			return err
		}
		printSlots(cmd.OutOrStdout(), "Suggested slots", slots)
		return nil
	},
}

var selectSlotIDs []string

var selectCmd = &cobra.Command{
	Use:   "select [interview-id]",
	Short: "Select the slots that suit the candidate",
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
		slotIDs := make([]uuid.UUID, 0, len(selectSlotIDs))
		for _, raw := range selectSlotIDs {
			slotID, err := parseID(raw)
			if err != nil {
				return err
			}
			slotIDs = append(slotIDs, slotID)
		}

		selected, err := app.SelectSlotsHandler.Handle(cmd.Context(), commands.SelectSlotsCommand{
			Actor:           actor,
			InterviewID:     id,
			ExpectedVersion: cli.VersionFlag(expectedVersion),
			SlotIDs:         slotIDs,
		})
		if err != nil {
			return err
		}
		printSlots(cmd.OutOrStdout(), "Selected slots", selected)
		return nil
	},
}

func init() {
	proposeCmd.Flags().StringArrayVar(&proposeStarts, "start", nil, "slot start time (RFC 3339); repeatable")
	proposeCmd.Flags().StringVar(&weekStart, "week", "", "week start date (YYYY-MM-DD) for a weekly pattern")
	proposeCmd.Flags().StringSliceVar(&weekDays, "days", nil, "weekdays for the pattern, e.g. mon,wed,fri")
	proposeCmd.Flags().IntVar(&startHour, "from-hour", 9, "first hour of the pattern (UTC)")
	proposeCmd.Flags().IntVar(&endHour, "to-hour", 17, "hour the pattern ends (UTC, exclusive)")

	suggestCmd.Flags().StringVar(&suggestFrom, "from", "", "window start (RFC 3339)")
	suggestCmd.Flags().StringVar(&suggestTo, "to", "", "window end (RFC 3339)")

	selectCmd.Flags().StringSliceVar(&selectSlotIDs, "slot", nil, "proposed slot id; repeatable")
	_ = selectCmd.MarkFlagRequired("slot")
}
