package mcp

import (
	"context"

	introDomain "github.com/felixgeelhaar/hireflow/internal/introductions/domain"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/felixgeelhaar/hireflow/internal/team/domain"
	"github.com/felixgeelhaar/mcp-go"
)

type teamMemberInput struct {
	As         string `json:"as,omitempty"`
	EmployerID string `json:"employer_id,omitempty"`
	UserID     string `json:"user_id" jsonschema:"required"`
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
}

type teamListInput struct {
	As         string `json:"as,omitempty"`
	EmployerID string `json:"employer_id,omitempty"`
}

type teamMemberOutput struct {
	UserID string `json:"user_id"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
}

type teamListOutput struct {
	EmployerID string             `json:"employer_id"`
	Members    []teamMemberOutput `json:"members"`
}

type candidateProfileInput struct {
	As          string   `json:"as,omitempty"`
	CandidateID string   `json:"candidate_id,omitempty"`
	Name        string   `json:"name" jsonschema:"required"`
	Headline    string   `json:"headline,omitempty"`
	Location    string   `json:"location,omitempty"`
	Skills      []string `json:"skills,omitempty"`
	Email       *string  `json:"email,omitempty"`
	Phone       *string  `json:"phone,omitempty"`
	Links       []string `json:"links,omitempty"`
	ResumeURL   *string  `json:"resume_url,omitempty"`
}

type savedOutput struct {
	ID    string `json:"id"`
	Saved bool   `json:"saved"`
}

func registerTeamTools(srv *mcp.Server, t *toolset) {
	srv.Tool("team.add").
		Description("Add an interviewer to an employer's team").
		Handler(t.teamAdd)
	srv.Tool("team.remove").
		Description("Remove an interviewer from an employer's team").
		Handler(t.teamRemove)
	srv.Tool("team.list").
		Description("List an employer's interviewers").
		Handler(t.teamList)
	srv.Tool("candidate.set_profile").
		Description("Create or replace a candidate profile (the candidate or an admin)").
		Handler(t.candidateSetProfile)
}

// employerOf defaults an omitted employer to the acting employer.
func employerOf(actor sharedDomain.Actor, employerID string) string {
	if employerID != "" {
		return employerID
	}
	return actor.ID
}

func (t *toolset) teamAdd(ctx context.Context, input teamMemberInput) (*teamMemberOutput, error) {
	actor, err := t.actor(input.As)
	if err != nil {
		return nil, toolError(err)
	}
	member := domain.Member{
		EmployerID: employerOf(actor, input.EmployerID),
		UserID:     input.UserID,
		Name:       input.Name,
		Email:      input.Email,
	}
	if err := t.app.RosterService.AddMember(ctx, actor, member); err != nil {
		return nil, toolError(err)
	}
	return &teamMemberOutput{UserID: member.UserID, Name: member.Name, Email: member.Email}, nil
}

func (t *toolset) teamRemove(ctx context.Context, input teamMemberInput) (*savedOutput, error) {
	actor, err := t.actor(input.As)
	if err != nil {
		return nil, toolError(err)
	}
	if err := t.app.RosterService.RemoveMember(ctx, actor, employerOf(actor, input.EmployerID), input.UserID); err != nil {
		return nil, toolError(err)
	}
	return &savedOutput{ID: input.UserID, Saved: true}, nil
}

func (t *toolset) teamList(ctx context.Context, input teamListInput) (*teamListOutput, error) {
	actor, err := t.actor(input.As)
	if err != nil {
		return nil, toolError(err)
	}
	employerID := employerOf(actor, input.EmployerID)
	members, err := t.app.RosterService.ListMembers(ctx, actor, employerID)
	if err != nil {
		return nil, toolError(err)
	}
	out := &teamListOutput{EmployerID: employerID, Members: make([]teamMemberOutput, 0, len(members))}
	for _, m := range members {
		out.Members = append(out.Members, teamMemberOutput{UserID: m.UserID, Name: m.Name, Email: m.Email})
	}
	return out, nil
}

func (t *toolset) candidateSetProfile(ctx context.Context, input candidateProfileInput) (*savedOutput, error) {
	actor, err := t.actor(input.As)
	if err != nil {
		return nil, toolError(err)
	}
	id := input.CandidateID
	if id == "" {
		id = actor.ID
	}
	if !actor.Is(sharedDomain.RoleAdmin) && !(actor.Is(sharedDomain.RoleCandidate) && actor.ID == id) {
		return nil, toolError(sharedDomain.NewForbiddenError("edit this profile", actor.Role))
	}
	if input.Name == "" {
		return nil, toolError(sharedDomain.NewInvalidInputError("name is required", "pass name"))
	}
	profile := introDomain.CandidateProfile{
		ID:       id,
		Name:     input.Name,
		Headline: input.Headline,
		Location: input.Location,
		Skills:   input.Skills,
		Contact: introDomain.ContactDetails{
			Email:     input.Email,
			Phone:     input.Phone,
			Links:     input.Links,
			ResumeURL: input.ResumeURL,
		},
	}
	if err := t.app.Profiles.SaveProfile(ctx, profile); err != nil {
		return nil, toolError(err)
	}
	return &savedOutput{ID: id, Saved: true}, nil
}
