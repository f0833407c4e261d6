package intro

import (
	"github.com/felixgeelhaar/hireflow/adapter/cli"
	"github.com/felixgeelhaar/hireflow/internal/introductions/application/commands"
	"github.com/felixgeelhaar/hireflow/internal/introductions/application/queries"
	"github.com/spf13/cobra"
)

var requestCmd = &cobra.Command{
	Use:   "request [candidate-id]",
	Short: "Request an introduction to a candidate",
	Long: `Ask a candidate to share contact details with your company.

Examples:
  hireflow --as employer:acme intro request cand-1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, actor, err := session()
		if err != nil {
			return err
		}
		intro, err := app.RequestIntroductionHandler.Handle(cmd.Context(), commands.RequestIntroductionCommand{
			Actor:       actor,
			CandidateID: args[0],
		})
		if err != nil {
			return err
		}
		printIntroduction(cmd.OutOrStdout(), queries.ToDTO(intro))
		return nil
	},
}

var (
	accept  bool
	decline bool
)

var respondCmd = &cobra.Command{
	Use:   "respond [introduction-id]",
	Short: "Accept or decline an introduction request",
	Long: `Respond to an introduction request as the candidate.

Examples:
  hireflow --as candidate:cand-1 intro respond <id> --accept
  hireflow --as candidate:cand-1 intro respond <id> --decline`,
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
		intro, err := app.RespondIntroductionHandler.Handle(cmd.Context(), commands.RespondToIntroductionCommand{
			Actor:           actor,
			IntroductionID:  id,
			ExpectedVersion: cli.VersionFlag(expectedVersion),
			Accept:          accept,
		})
		if err != nil {
			return err
		}
		printIntroduction(cmd.OutOrStdout(), queries.ToDTO(intro))
		return nil
	},
}

var advanceAction string

var advanceCmd = &cobra.Command{
	Use:   "advance [introduction-id]",
	Short: "Move an introduction along the hiring pipeline",
	Long: `Advance an introduction after it was accepted.

Actions: start_interviewing, extend_offer, mark_hired, close_no_hire.`,
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
		intro, err := app.AdvanceIntroductionHandler.Handle(cmd.Context(), commands.AdvanceIntroductionCommand{
			Actor:           actor,
			IntroductionID:  id,
			ExpectedVersion: cli.VersionFlag(expectedVersion),
			Action:          advanceAction,
		})
		if err != nil {
			return err
		}
		printIntroduction(cmd.OutOrStdout(), queries.ToDTO(intro))
		return nil
	},
}

func init() {
	respondCmd.Flags().BoolVar(&accept, "accept", false, "accept the request")
	respondCmd.Flags().BoolVar(&decline, "decline", false, "decline the request")
	respondCmd.MarkFlagsMutuallyExclusive("accept", "decline")
	respondCmd.MarkFlagsOneRequired("accept", "decline")

	advanceCmd.Flags().StringVar(&advanceAction, "action", "", "pipeline action")
	_ = advanceCmd.MarkFlagRequired("action")
}
