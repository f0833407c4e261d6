package interview

import (
	"fmt"

	"github.com/felixgeelhaar/hireflow/internal/interviews/application/commands"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	applicationID string
	candidateID   string
	employerID    string
	duration      int
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an interview for an application",
	Long: `Create an interview awaiting employer availability.

Examples:
  hireflow --as employer:acme interview create --application 6f1c9a52-... --candidate cand-1 -d 45
  hireflow --as admin:ops interview create --application 6f1c9a52-... --candidate cand-1 --employer acme`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, actor, err := session()
		if err != nil {
			return err
		}

		appID := uuid.Nil
		if applicationID != "" {
			if appID, err = uuid.Parse(applicationID); err != nil {
				return fmt.Errorf("invalid application id: %w", err)
			}
		}

		id, err := app.CreateInterviewHandler.Handle(cmd.Context(), commands.CreateInterviewCommand{
			Actor:           actor,
			ApplicationID:   appID,
			CandidateID:     candidateID,
			EmployerID:      employerID,
			DurationMinutes: duration,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Interview created: %s\n", id)
		fmt.Fprintf(out, "  candidate: %s\n", candidateID)
		fmt.Fprintf(out, "  duration:  %d minutes\n", duration)
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&applicationID, "application", "", "application id (uuid)")
	createCmd.Flags().StringVar(&candidateID, "candidate", "", "candidate id")
	createCmd.Flags().StringVar(&employerID, "employer", "", "employer id (admins only; employers use their own)")
	createCmd.Flags().IntVarP(&duration, "duration", "d", 60, "interview length in minutes")
	_ = createCmd.MarkFlagRequired("application")
	_ = createCmd.MarkFlagRequired("candidate")
}
