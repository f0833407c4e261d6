package mcp

import (
	"context"
	"time"

	"github.com/felixgeelhaar/hireflow/adapter/cli"
	"github.com/felixgeelhaar/hireflow/internal/interviews/application/commands"
	"github.com/felixgeelhaar/hireflow/internal/interviews/application/queries"
	"github.com/felixgeelhaar/hireflow/internal/interviews/domain"
	schedDomain "github.com/felixgeelhaar/hireflow/internal/scheduling/domain"
	"github.com/felixgeelhaar/mcp-go"
	"github.com/google/uuid"
)

type interviewCreateInput struct {
	As              string `json:"as,omitempty"`
	ApplicationID   string `json:"application_id" jsonschema:"required"`
	CandidateID     string `json:"candidate_id" jsonschema:"required"`
	EmployerID      string `json:"employer_id,omitempty"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
}

type weeklyPatternInput struct {
	WeekStart string   `json:"week_start"`
	Days      []string `json:"days"`
	StartHour int      `json:"start_hour"`
	EndHour   int      `json:"end_hour"`
}

type interviewProposeInput struct {
	As              string              `json:"as,omitempty"`
	InterviewID     string              `json:"interview_id" jsonschema:"required"`
	ExpectedVersion *int                `json:"expected_version,omitempty"`
	Starts          []string            `json:"starts,omitempty"`
	Pattern         *weeklyPatternInput `json:"pattern,omitempty"`
}

type interviewSuggestInput struct {
	As          string `json:"as,omitempty"`
	InterviewID string `json:"interview_id" jsonschema:"required"`
	From        string `json:"from,omitempty"`
	To          string `json:"to,omitempty"`
}

type interviewSelectInput struct {
	As              string   `json:"as,omitempty"`
	InterviewID     string   `json:"interview_id" jsonschema:"required"`
	ExpectedVersion *int     `json:"expected_version,omitempty"`
	SlotIDs         []string `json:"slot_ids" jsonschema:"required"`
}

type interviewConfirmInput struct {
	As              string `json:"as,omitempty"`
	InterviewID     string `json:"interview_id" jsonschema:"required"`
	ExpectedVersion *int   `json:"expected_version,omitempty"`
	SlotID          string `json:"slot_id,omitempty"`
	InterviewerID   string `json:"interviewer_id" jsonschema:"required"`
	Platform        string `json:"platform,omitempty"`
}

type interviewRescheduleInput struct {
	As              string   `json:"as,omitempty"`
	InterviewID     string   `json:"interview_id" jsonschema:"required"`
	ExpectedVersion *int     `json:"expected_version,omitempty"`
	Starts          []string `json:"starts,omitempty"`
}

type interviewStatusInput struct {
	As              string `json:"as,omitempty"`
	InterviewID     string `json:"interview_id" jsonschema:"required"`
	ExpectedVersion *int   `json:"expected_version,omitempty"`
	Reason          string `json:"reason,omitempty"`
}

type interviewIDInput struct {
	As          string `json:"as,omitempty"`
	InterviewID string `json:"interview_id" jsonschema:"required"`
}

type interviewListInput struct {
	As          string `json:"as,omitempty"`
	EmployerID  string `json:"employer_id,omitempty"`
	CandidateID string `json:"candidate_id,omitempty"`
	Stage       string `json:"stage,omitempty"`
}

type slotsOutput struct {
	InterviewID string                     `json:"interview_id"`
	Slots       []schedDomain.ProposedSlot `json:"slots"`
}

type interviewListOutput struct {
	Interviews []queries.InterviewDTO `json:"interviews"`
	Count      int                    `json:"count"`
}

func registerInterviewTools(srv *mcp.Server, t *toolset) {
	srv.Tool("interview.create").
		Description("Create an interview for an application (employer or admin)").
		Handler(t.interviewCreate)
	srv.Tool("interview.propose").
		Description("Propose slot start times or a weekly pattern; proposing an existing start withdraws it").
		Handler(t.interviewPropose)
	srv.Tool("interview.suggest").
		Description("Suggest free slots for an interview from the interviewers' calendars").
		Handler(t.interviewSuggest)
	srv.Tool("interview.select").
		Description("Select proposed slots as the candidate").
		Handler(t.interviewSelect)
	srv.Tool("interview.confirm").
		Description("Confirm a selected slot, assign an interviewer and create the meeting link").
		Handler(t.interviewConfirm)
	srv.Tool("interview.reschedule").
		Description("Send a scheduled interview back to the candidate, optionally with new slots").
		Handler(t.interviewReschedule)
	srv.Tool("interview.complete").
		Description("Mark a held interview as completed").
		Handler(t.interviewComplete)
	srv.Tool("interview.cancel").
		Description("Cancel an interview").
		Handler(t.interviewCancel)
	srv.Tool("interview.retry_link").
		Description("Retry creating the meeting link for a scheduled interview").
		Handler(t.interviewRetryLink)
	srv.Tool("interview.show").
		Description("Show an interview with its available and selected slots").
		Handler(t.interviewShow)
	srv.Tool("interview.list").
		Description("List interviews visible to the actor, optionally by stage").
		Handler(t.interviewList)
}

func (t *toolset) interviewCreate(ctx context.Context, input interviewCreateInput) (*queries.InterviewDTO, error) {
	actor, err := t.actor(input.As)
	if err != nil {
		return nil, toolError(err)
	}
	appID, err := parseUUID("application_id", input.ApplicationID)
	if err != nil {
		return nil, toolError(err)
	}
	if input.DurationMinutes == 0 {
		input.DurationMinutes = 60
	}
	id, err := t.app.CreateInterviewHandler.Handle(ctx, commands.CreateInterviewCommand{
		Actor:           actor,
		ApplicationID:   appID,
		CandidateID:     input.CandidateID,
		EmployerID:      input.EmployerID,
		DurationMinutes: input.DurationMinutes,
	})
	if err != nil {
		return nil, toolError(err)
	}
	dto, err := t.app.GetInterviewHandler.Handle(ctx, queries.GetInterviewQuery{Actor: actor, InterviewID: id})
	return dto, toolError(err)
}

func (t *toolset) interviewPropose(ctx context.Context, input interviewProposeInput) (*slotsOutput, error) {
	actor, err := t.actor(input.As)
	if err != nil {
		return nil, toolError(err)
	}
	id, err := parseUUID("interview_id", input.InterviewID)
	if err != nil {
		return nil, toolError(err)
	}
	starts, err := cli.ParseTimes(input.Starts)
	if err != nil {
		return nil, toolError(err)
	}
	command := commands.ProposeAvailabilityCommand{
		Actor:           actor,
		InterviewID:     id,
		ExpectedVersion: optionalVersion(input.ExpectedVersion),
		Starts:          starts,
	}
	if p := input.Pattern; p != nil {
		weekStart, err := time.Parse(time.DateOnly, p.WeekStart)
		if err != nil {
			return nil, toolError(err)
		}
		days, err := schedDomain.ParseWeekdays(p.Days)
		if err != nil {
			return nil, toolError(err)
		}
		command.Pattern = &schedDomain.WeeklyPattern{
			WeekStart: weekStart,
			Days:      days,
			Hours:     schedDomain.HourRange{StartHour: p.StartHour, EndHour: p.EndHour},
		}
	}

	slots, err := t.app.ProposeAvailabilityHandler.Handle(ctx, command)
	if err != nil {
		return nil, toolError(err)
	}
	return &slotsOutput{InterviewID: id.String(), Slots: slots}, nil
}

func (t *toolset) interviewSuggest(ctx context.Context, input interviewSuggestInput) (*slotsOutput, error) {
	actor, err := t.actor(input.As)
	if err != nil {
		return nil, toolError(err)
	}
	id, err := parseUUID("interview_id", input.InterviewID)
	if err != nil {
		return nil, toolError(err)
	}
	from, err := parseOptionalTime("from", input.From)
	if err != nil {
		return nil, toolError(err)
	}
	to, err := parseOptionalTime("to", input.To)
	if err != nil {
		return nil, toolError(err)
	}
	slots, err := t.app.SuggestAvailabilityHandler.Handle(ctx, queries.SuggestAvailabilityQuery{
		Actor: actor, InterviewID: id, From: from, To: to,
	})
	if err != nil {
		return nil, toolError(err)
	}
	return &slotsOutput{InterviewID: id.String(), Slots: slots}, nil
}

func (t *toolset) interviewSelect(ctx context.Context, input interviewSelectInput) (*slotsOutput, error) {
	actor, err := t.actor(input.As)
	if err != nil {
		return nil, toolError(err)
	}
	id, err := parseUUID("interview_id", input.InterviewID)
	if err != nil {
		return nil, toolError(err)
	}
	slotIDs := make([]uuid.UUID, 0, len(input.SlotIDs))
	for _, raw := range input.SlotIDs {
		slotID, err := parseUUID("slot_id", raw)
		if err != nil {
			return nil, toolError(err)
		}
		slotIDs = append(slotIDs, slotID)
	}
	selected, err := t.app.SelectSlotsHandler.Handle(ctx, commands.SelectSlotsCommand{
		Actor:           actor,
		InterviewID:     id,
		ExpectedVersion: optionalVersion(input.ExpectedVersion),
		SlotIDs:         slotIDs,
	})
	if err != nil {
		return nil, toolError(err)
	}
	return &slotsOutput{InterviewID: id.String(), Slots: selected}, nil
}

func (t *toolset) interviewConfirm(ctx context.Context, input interviewConfirmInput) (*queries.InterviewDTO, error) {
	actor, err := t.actor(input.As)
	if err != nil {
		return nil, toolError(err)
	}
	id, err := parseUUID("interview_id", input.InterviewID)
	if err != nil {
		return nil, toolError(err)
	}
	if input.Platform == "" {
		input.Platform = string(domain.PlatformZoom)
	}
	command := commands.ConfirmInterviewCommand{
		Actor:           actor,
		InterviewID:     id,
		ExpectedVersion: optionalVersion(input.ExpectedVersion),
		InterviewerID:   input.InterviewerID,
		Platform:        input.Platform,
	}
	if input.SlotID != "" {
		slotID, err := parseUUID("slot_id", input.SlotID)
		if err != nil {
			return nil, toolError(err)
		}
		command.SlotID = &slotID
	}
	return t.interviewResult(t.app.ConfirmInterviewHandler.Handle(ctx, command))
}

func (t *toolset) interviewReschedule(ctx context.Context, input interviewRescheduleInput) (*queries.InterviewDTO, error) {
	actor, err := t.actor(input.As)
	if err != nil {
		return nil, toolError(err)
	}
	id, err := parseUUID("interview_id", input.InterviewID)
	if err != nil {
		return nil, toolError(err)
	}
	starts, err := cli.ParseTimes(input.Starts)
	if err != nil {
		return nil, toolError(err)
	}
	return t.interviewResult(t.app.RescheduleInterviewHandler.Handle(ctx, commands.RescheduleInterviewCommand{
		Actor:           actor,
		InterviewID:     id,
		ExpectedVersion: optionalVersion(input.ExpectedVersion),
		ExtraStarts:     starts,
	}))
}

func (t *toolset) interviewComplete(ctx context.Context, input interviewStatusInput) (*queries.InterviewDTO, error) {
	actor, err := t.actor(input.As)
	if err != nil {
		return nil, toolError(err)
	}
	id, err := parseUUID("interview_id", input.InterviewID)
	if err != nil {
		return nil, toolError(err)
	}
	return t.interviewResult(t.app.UpdateStatusHandler.Handle(ctx, commands.UpdateInterviewStatusCommand{
		Actor:           actor,
		InterviewID:     id,
		ExpectedVersion: optionalVersion(input.ExpectedVersion),
		Status:          string(domain.StatusCompleted),
		Reason:          input.Reason,
	}))
}

func (t *toolset) interviewCancel(ctx context.Context, input interviewStatusInput) (*queries.InterviewDTO, error) {
	actor, err := t.actor(input.As)
	if err != nil {
		return nil, toolError(err)
	}
	id, err := parseUUID("interview_id", input.InterviewID)
	if err != nil {
		return nil, toolError(err)
	}
	return t.interviewResult(t.app.UpdateStatusHandler.Cancel(ctx, commands.CancelInterviewCommand{
		Actor:           actor,
		InterviewID:     id,
		ExpectedVersion: optionalVersion(input.ExpectedVersion),
		Reason:          input.Reason,
	}))
}

func (t *toolset) interviewRetryLink(ctx context.Context, input interviewIDInput) (*queries.InterviewDTO, error) {
	actor, err := t.actor(input.As)
	if err != nil {
		return nil, toolError(err)
	}
	id, err := parseUUID("interview_id", input.InterviewID)
	if err != nil {
		return nil, toolError(err)
	}
	return t.interviewResult(t.app.RetryMeetingLinkHandler.Handle(ctx, commands.RetryMeetingLinkCommand{
		Actor:       actor,
		InterviewID: id,
	}))
}

func (t *toolset) interviewShow(ctx context.Context, input interviewIDInput) (*queries.InterviewDTO, error) {
	actor, err := t.actor(input.As)
	if err != nil {
		return nil, toolError(err)
	}
	id, err := parseUUID("interview_id", input.InterviewID)
	if err != nil {
		return nil, toolError(err)
	}
	dto, err := t.app.GetInterviewHandler.Handle(ctx, queries.GetInterviewQuery{Actor: actor, InterviewID: id})
	return dto, toolError(err)
}

func (t *toolset) interviewList(ctx context.Context, input interviewListInput) (*interviewListOutput, error) {
	actor, err := t.actor(input.As)
	if err != nil {
		return nil, toolError(err)
	}
	dtos, err := t.app.ListInterviewsHandler.Handle(ctx, queries.ListInterviewsQuery{
		Actor:       actor,
		EmployerID:  input.EmployerID,
		CandidateID: input.CandidateID,
		Stage:       input.Stage,
	})
	if err != nil {
		return nil, toolError(err)
	}
	return &interviewListOutput{Interviews: dtos, Count: len(dtos)}, nil
}

func (t *toolset) interviewResult(interview *domain.Interview, err error) (*queries.InterviewDTO, error) {
	if err != nil {
		return nil, toolError(err)
	}
	dto := queries.ToDTO(interview, t.app.Clock.Now())
	return &dto, nil
}
