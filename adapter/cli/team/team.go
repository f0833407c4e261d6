// Package team provides commands for managing an employer's interviewers.
package team

import (
	"fmt"

	"github.com/felixgeelhaar/hireflow/adapter/cli"
	"github.com/felixgeelhaar/hireflow/internal/team/domain"
	"github.com/spf13/cobra"
)

// Cmd is the team command group
var Cmd = &cobra.Command{
	Use:   "team",
	Short: "Manage the interviewers on an employer's team",
	Long: `Only members of an employer's team can be assigned as interviewers
when an interview is confirmed.`,
}

var (
	employerID  string
	memberName  string
	memberEmail string
)

var addCmd = &cobra.Command{
	Use:   "add [user-id]",
	Short: "Add an interviewer to the team",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		actor, err := cli.CurrentActor()
		if err != nil {
			return err
		}
		member := domain.Member{
			EmployerID: employerFor(actor.ID),
			UserID:     args[0],
			Name:       memberName,
			Email:      memberEmail,
		}
		if err := app.RosterService.AddMember(cmd.Context(), actor, member); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s to %s\n", member.UserID, member.EmployerID)
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove [user-id]",
	Short: "Remove an interviewer from the team",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		actor, err := cli.CurrentActor()
		if err != nil {
			return err
		}
		employer := employerFor(actor.ID)
		if err := app.RosterService.RemoveMember(cmd.Context(), actor, employer, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from %s\n", args[0], employer)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the team's interviewers",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		actor, err := cli.CurrentActor()
		if err != nil {
			return err
		}
		members, err := app.RosterService.ListMembers(cmd.Context(), actor, employerFor(actor.ID))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(members) == 0 {
			fmt.Fprintln(out, "No team members.")
			return nil
		}
		for _, m := range members {
			fmt.Fprintf(out, "%-16s  %-24s  %s\n", m.UserID, m.Name, m.Email)
		}
		return nil
	},
}

// employerFor defaults --employer to the acting employer.
func employerFor(actorID string) string {
	if employerID != "" {
		return employerID
	}
	return actorID
}

func init() {
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(removeCmd)
	Cmd.AddCommand(listCmd)

	Cmd.PersistentFlags().StringVar(&employerID, "employer", "", "employer id (defaults to the acting employer)")
	addCmd.Flags().StringVar(&memberName, "name", "", "display name")
	addCmd.Flags().StringVar(&memberEmail, "email", "", "email address")
}
