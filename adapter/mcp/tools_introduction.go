package mcp

import (
	"context"

	"github.com/felixgeelhaar/hireflow/internal/introductions/application/commands"
	"github.com/felixgeelhaar/hireflow/internal/introductions/application/queries"
	"github.com/felixgeelhaar/hireflow/internal/introductions/domain"
	"github.com/felixgeelhaar/mcp-go"
)

type introRequestInput struct {
	As          string `json:"as,omitempty"`
	CandidateID string `json:"candidate_id" jsonschema:"required"`
}

type introRespondInput struct {
	As              string `json:"as,omitempty"`
	IntroductionID  string `json:"introduction_id" jsonschema:"required"`
	ExpectedVersion *int   `json:"expected_version,omitempty"`
	Accept          bool   `json:"accept"`
}

type introAdvanceInput struct {
	As              string `json:"as,omitempty"`
	IntroductionID  string `json:"introduction_id" jsonschema:"required"`
	ExpectedVersion *int   `json:"expected_version,omitempty"`
	Action          string `json:"action" jsonschema:"required"`
}

type introViewInput struct {
	As          string `json:"as,omitempty"`
	CandidateID string `json:"candidate_id" jsonschema:"required"`
}

type introShowInput struct {
	As             string `json:"as,omitempty"`
	IntroductionID string `json:"introduction_id" jsonschema:"required"`
}

type introListInput struct {
	As         string `json:"as,omitempty"`
	EmployerID string `json:"employer_id,omitempty"`
	Stage      string `json:"stage,omitempty"`
}

type introListOutput struct {
	Introductions []queries.IntroductionDTO `json:"introductions"`
	Count         int                       `json:"count"`
}

func registerIntroductionTools(srv *mcp.Server, t *toolset) {
	srv.Tool("intro.request").
		Description("Request an introduction to a candidate (employer)").
		Handler(t.introRequest)
	srv.Tool("intro.respond").
		Description("Accept or decline an introduction request (candidate)").
		Handler(t.introRespond)
	srv.Tool("intro.advance").
		Description("Advance an accepted introduction: start_interviewing, extend_offer, mark_hired, close_no_hire").
		Handler(t.introAdvance)
	srv.Tool("intro.view").
		Description("View a candidate profile; contact details appear only after the candidate accepts").
		Handler(t.introView)
	srv.Tool("intro.show").
		Description("Show an introduction").
		Handler(t.introShow)
	srv.Tool("intro.list").
		Description("List an employer's introductions, optionally by stage").
		Handler(t.introList)
}

func (t *toolset) introRequest(ctx context.Context, input introRequestInput) (*queries.IntroductionDTO, error) {
	actor, err := t.actor(input.As)
	if err != nil {
		return nil, toolError(err)
	}
	return introResult(t.app.RequestIntroductionHandler.Handle(ctx, commands.RequestIntroductionCommand{
		Actor:       actor,
		CandidateID: input.CandidateID,
	}))
}

func (t *toolset) introRespond(ctx context.Context, input introRespondInput) (*queries.IntroductionDTO, error) {
	actor, err := t.actor(input.As)
	if err != nil {
		return nil, toolError(err)
	}
	id, err := parseUUID("introduction_id", input.IntroductionID)
	if err != nil {
		return nil, toolError(err)
	}
	return introResult(t.app.RespondIntroductionHandler.Handle(ctx, commands.RespondToIntroductionCommand{
		Actor:           actor,
		IntroductionID:  id,
		ExpectedVersion: optionalVersion(input.ExpectedVersion),
		Accept:          input.Accept,
	}))
}

func (t *toolset) introAdvance(ctx context.Context, input introAdvanceInput) (*queries.IntroductionDTO, error) {
	actor, err := t.actor(input.As)
	if err != nil {
		return nil, toolError(err)
	}
	id, err := parseUUID("introduction_id", input.IntroductionID)
	if err != nil {
		return nil, toolError(err)
	}
	return introResult(t.app.AdvanceIntroductionHandler.Handle(ctx, commands.AdvanceIntroductionCommand{
		Actor:           actor,
		IntroductionID:  id,
		ExpectedVersion: optionalVersion(input.ExpectedVersion),
		Action:          input.Action,
	}))
}

func (t *toolset) introView(ctx context.Context, input introViewInput) (*domain.CandidateView, error) {
	actor, err := t.actor(input.As)
	if err != nil {
		return nil, toolError(err)
	}
	view, err := t.app.ViewCandidateHandler.Handle(ctx, queries.ViewCandidateQuery{Actor: actor, CandidateID: input.CandidateID})
	if err != nil {
		return nil, toolError(err)
	}
	return &view, nil
}

func (t *toolset) introShow(ctx context.Context, input introShowInput) (*queries.IntroductionDTO, error) {
	actor, err := t.actor(input.As)
	if err != nil {
		return nil, toolError(err)
	}
	id, err := parseUUID("introduction_id", input.IntroductionID)
	if err != nil {
		return nil, toolError(err)
	}
	dto, err := t.app.IntroductionsHandler.Get(ctx, queries.GetIntroductionQuery{Actor: actor, IntroductionID: id})
	return dto, toolError(err)
}

func (t *toolset) introList(ctx context.Context, input introListInput) (*introListOutput, error) {
	actor, err := t.actor(input.As)
	if err != nil {
		return nil, toolError(err)
	}
	dtos, err := t.app.IntroductionsHandler.List(ctx, queries.ListIntroductionsQuery{
		Actor:      actor,
		EmployerID: input.EmployerID,
		Stage:      domain.Stage(input.Stage),
	})
	if err != nil {
		return nil, toolError(err)
	}
	return &introListOutput{Introductions: dtos, Count: len(dtos)}, nil
}

func introResult(intro *domain.Introduction, err error) (*queries.IntroductionDTO, error) {
	if err != nil {
		return nil, toolError(err)
	}
	dto := queries.ToDTO(intro)
	return &dto, nil
}
