package intro

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/hireflow/adapter/cli"
	"github.com/felixgeelhaar/hireflow/internal/introductions/application/queries"
	"github.com/felixgeelhaar/hireflow/internal/introductions/domain"
	"github.com/spf13/cobra"
)

var viewCmd = &cobra.Command{
	Use:   "view [candidate-id]",
	Short: "View a candidate profile",
	Long: `View a candidate profile. Contact details are hidden until the
candidate accepts an introduction from your company.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, actor, err := session()
		if err != nil {
			return err
		}
		view, err := app.ViewCandidateHandler.Handle(cmd.Context(), queries.ViewCandidateQuery{
			Actor:       actor,
			CandidateID: args[0],
		})
		if err != nil {
			return err
		}
		if asJSON {
			return cli.PrintJSON(cmd.OutOrStdout(), view)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s\n", view.Name)
		if view.Headline != "" {
			fmt.Fprintf(out, "  %s\n", view.Headline)
		}
		if view.Location != "" {
			fmt.Fprintf(out, "  location: %s\n", view.Location)
		}
		if len(view.Skills) > 0 {
			fmt.Fprintf(out, "  skills:   %s\n", strings.Join(view.Skills, ", "))
		}
		if view.Email != nil {
			fmt.Fprintf(out, "  email:    %s\n", *view.Email)
		}
		if view.Phone != nil {
			fmt.Fprintf(out, "  phone:    %s\n", *view.Phone)
		}
		if view.ResumeURL != nil {
			fmt.Fprintf(out, "  resume:   %s\n", *view.ResumeURL)
		}
		if view.IntroductionStatus != "" && view.IntroductionStatus != domain.StatusNone {
			fmt.Fprintf(out, "  introduction: %s (%s)\n", view.IntroductionStatus, view.Stage)
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show [introduction-id]",
	Short: "Show an introduction",
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
		dto, err := app.IntroductionsHandler.Get(cmd.Context(), queries.GetIntroductionQuery{Actor: actor, IntroductionID: id})
		if err != nil {
			return err
		}
		if asJSON {
			return cli.PrintJSON(cmd.OutOrStdout(), dto)
		}
		printIntroduction(cmd.OutOrStdout(), *dto)
		return nil
	},
}

var (
	listEmployer string
	listStage    string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List an employer's introductions",
	Long: `List introductions for your company, optionally by stage.

Stages: discovery, pending, connected, hiring, hired, closed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, actor, err := session()
		if err != nil {
			return err
		}
		dtos, err := app.IntroductionsHandler.List(cmd.Context(), queries.ListIntroductionsQuery{
			Actor:      actor,
			EmployerID: listEmployer,
			Stage:      domain.Stage(listStage),
		})
		if err != nil {
			return err
		}
		if asJSON {
			return cli.PrintJSON(cmd.OutOrStdout(), dtos)
		}

		out := cmd.OutOrStdout()
		if len(dtos) == 0 {
			fmt.Fprintln(out, "No introductions found.")
			return nil
		}
		for _, dto := range dtos {
			fmt.Fprintf(out, "%s  %-18s  %-10s  %s\n", dto.ID, dto.Status, dto.Stage, dto.CandidateID)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listEmployer, "employer", "", "employer id (admins only)")
	listCmd.Flags().StringVar(&listStage, "stage", "", "filter by stage")
}
