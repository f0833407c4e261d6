// Package candidate provides commands candidates use to manage their profile.
package candidate

import (
	"fmt"

	"github.com/felixgeelhaar/hireflow/adapter/cli"
	"github.com/felixgeelhaar/hireflow/internal/introductions/domain"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/spf13/cobra"
)

// Cmd is the candidate command group
var Cmd = &cobra.Command{
	Use:   "candidate",
	Short: "Manage candidate profiles",
}

var (
	candidateID string
	name        string
	headline    string
	location    string
	skills      []string
	email       string
	phone       string
	links       []string
	resumeURL   string
)

var setProfileCmd = &cobra.Command{
	Use:   "set-profile",
	Short: "Create or replace a candidate profile",
	Long: `Create or replace the acting candidate's profile. Contact details are
only shown to employers whose introduction you accept.

Examples:
  hireflow --as candidate:cand-1 candidate set-profile --name "Ada Lovelace" --skills go,sql --email ada@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		actor, err := cli.CurrentActor()
		if err != nil {
			return err
		}

		id := candidateID
		if id == "" {
			id = actor.ID
		}
		if !actor.Is(sharedDomain.RoleAdmin) && !(actor.Is(sharedDomain.RoleCandidate) && actor.ID == id) {
			return sharedDomain.NewForbiddenError("edit this profile", actor.Role)
		}
		if name == "" {
			return sharedDomain.NewInvalidInputError("name is required", "pass --name")
		}

		profile := domain.CandidateProfile{
			ID:       id,
			Name:     name,
			Headline: headline,
			Location: location,
			Skills:   skills,
			Contact: domain.ContactDetails{
				Email:     optional(email),
				Phone:     optional(phone),
				Links:     links,
				ResumeURL: optional(resumeURL),
			},
		}
		if err := app.Profiles.SaveProfile(cmd.Context(), profile); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Profile saved: %s\n", id)
		return nil
	},
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func init() {
	Cmd.AddCommand(setProfileCmd)

	setProfileCmd.Flags().StringVar(&candidateID, "candidate", "", "candidate id (admins only; defaults to the acting candidate)")
	setProfileCmd.Flags().StringVar(&name, "name", "", "full name")
	setProfileCmd.Flags().StringVar(&headline, "headline", "", "one-line summary")
	setProfileCmd.Flags().StringVar(&location, "location", "", "location")
	setProfileCmd.Flags().StringSliceVar(&skills, "skills", nil, "comma-separated skills")
	setProfileCmd.Flags().StringVar(&email, "email", "", "contact email")
	setProfileCmd.Flags().StringVar(&phone, "phone", "", "contact phone")
	setProfileCmd.Flags().StringSliceVar(&links, "link", nil, "profile link; repeatable")
	setProfileCmd.Flags().StringVar(&resumeURL, "resume", "", "resume URL")
}
