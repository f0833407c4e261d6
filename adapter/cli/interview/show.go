package interview

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/hireflow/adapter/cli"
	"github.com/felixgeelhaar/hireflow/internal/interviews/application/queries"
	"github.com/spf13/cobra"
)

var (
	showJSON      bool
	listEmployer  string
	listCandidate string
	listStage     string
)

var showCmd = &cobra.Command{
	Use:   "show [interview-id]",
	Short: "Show an interview",
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

		dto, err := app.GetInterviewHandler.Handle(cmd.Context(), queries.GetInterviewQuery{Actor: actor, InterviewID: id})
		if err != nil {
			return err
		}
		if showJSON {
			return cli.PrintJSON(cmd.OutOrStdout(), dto)
		}
		printInterview(cmd.OutOrStdout(), *dto)
		printSlots(cmd.OutOrStdout(), "Available slots", dto.AvailableSlots)
		printSlots(cmd.OutOrStdout(), "Selected slots", dto.SelectedSlots)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List interviews visible to the current actor",
	Long: `List interviews. Candidates see their own interviews and employers see
their company's; admins may filter by employer or candidate.

Stages: scheduling, upcoming, interviewed, closed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, actor, err := session()
		if err != nil {
			return err
		}

		dtos, err := app.ListInterviewsHandler.Handle(cmd.Context(), queries.ListInterviewsQuery{
			Actor:       actor,
			EmployerID:  listEmployer,
			CandidateID: listCandidate,
			Stage:       listStage,
		})
		if err != nil {
			return err
		}
		if showJSON {
			return cli.PrintJSON(cmd.OutOrStdout(), dtos)
		}

		out := cmd.OutOrStdout()
		if len(dtos) == 0 {
			fmt.Fprintln(out, "No interviews found.")
			return nil
		}
		for _, dto := range dtos {
			when := "-"
			if dto.ScheduledAt != nil {
				when = dto.ScheduledAt.Format(time.RFC3339)
			}
			fmt.Fprintf(out, "%s  %-22s  %-12s  %-12s  %s\n", dto.ID, dto.Status, dto.CandidateID, dto.EmployerID, when)
		}
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "print JSON")
	listCmd.Flags().BoolVar(&showJSON, "json", false, "print JSON")
	listCmd.Flags().StringVar(&listEmployer, "employer", "", "filter by employer id")
	listCmd.Flags().StringVar(&listCandidate, "candidate", "", "filter by candidate id")
	listCmd.Flags().StringVar(&listStage, "stage", "", "filter by stage")
}
