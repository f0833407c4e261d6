// Package intro provides the candidate introduction commands.
package intro

import (
	"fmt"
	"io"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/felixgeelhaar/hireflow/adapter/cli"
	"github.com/felixgeelhaar/hireflow/internal/introductions/application/queries"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// Cmd is the intro command group
var Cmd = &cobra.Command{
	Use:   "intro",
	Short: "Request and manage candidate introductions",
	Long: `Employers view candidate profiles and request introductions;
candidates accept or decline. Contact details are only shared once a
candidate accepts.`,
}

var (
	expectedVersion int
	asJSON          bool
)

func init() {
	Cmd.AddCommand(requestCmd)
	Cmd.AddCommand(respondCmd)
	Cmd.AddCommand(advanceCmd)
	Cmd.AddCommand(viewCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(listCmd)

	for _, c := range []*cobra.Command{respondCmd, advanceCmd} {
		c.Flags().IntVar(&expectedVersion, "expected-version", -1, "fail unless the introduction is at this version")
	}
	for _, c := range []*cobra.Command{viewCmd, showCmd, listCmd} {
		c.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	}
}

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
		return uuid.Nil, errors.Wrapf(sharedDomain.ErrInvalidInput, "invalid introduction id %q", raw)
	}
	return id, nil
}

func printIntroduction(w io.Writer, dto queries.IntroductionDTO) {
	fmt.Fprintf(w, "Introduction %s\n", dto.ID)
	fmt.Fprintf(w, "  status:    %s (%s)\n", dto.Status, dto.Stage)
	fmt.Fprintf(w, "  candidate: %s\n", dto.CandidateID)
	fmt.Fprintf(w, "  employer:  %s\n", dto.EmployerID)
	if dto.RequestedAt != nil {
		fmt.Fprintf(w, "  requested: %s\n", dto.RequestedAt.Format(time.RFC3339))
	}
	if dto.ProtectionEndsAt != nil {
		fmt.Fprintf(w, "  protected until: %s\n", dto.ProtectionEndsAt.Format(time.DateOnly))
	}
	fmt.Fprintf(w, "  version:   %d\n", dto.Version)
}
