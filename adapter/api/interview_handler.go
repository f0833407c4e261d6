package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/felixgeelhaar/hireflow/internal/interviews/application/commands"
	"github.com/felixgeelhaar/hireflow/internal/interviews/application/queries"
	"github.com/felixgeelhaar/hireflow/internal/interviews/domain"
	schedDomain "github.com/felixgeelhaar/hireflow/internal/scheduling/domain"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/google/uuid"
)

// InterviewHandler handles interview API requests.
type InterviewHandler struct {
	create     *commands.CreateInterviewHandler
	propose    *commands.ProposeAvailabilityHandler
	selectSlot *commands.SelectSlotsHandler
	confirm    *commands.ConfirmInterviewHandler
	reschedule *commands.RescheduleInterviewHandler
	status     *commands.UpdateInterviewStatusHandler
	retryLink  *commands.RetryMeetingLinkHandler
	get        *queries.GetInterviewHandler
	list       *queries.ListInterviewsHandler
	suggest    *queries.SuggestAvailabilityHandler
	clock      sharedDomain.Clock
	logger     *slog.Logger
}

// InterviewHandlerConfig holds dependencies for the interview handler.
type InterviewHandlerConfig struct {
	Create     *commands.CreateInterviewHandler
	Propose    *commands.ProposeAvailabilityHandler
	Select     *commands.SelectSlotsHandler
	Confirm    *commands.ConfirmInterviewHandler
	Reschedule *commands.RescheduleInterviewHandler
	Status     *commands.UpdateInterviewStatusHandler
	RetryLink  *commands.RetryMeetingLinkHandler
	Get        *queries.GetInterviewHandler
	List       *queries.ListInterviewsHandler
	Suggest    *queries.SuggestAvailabilityHandler
	Clock      sharedDomain.Clock
	Logger     *slog.Logger
}

// NewInterviewHandler creates a new interview handler.
func NewInterviewHandler(cfg InterviewHandlerConfig) *InterviewHandler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Clock == nil {
		cfg.Clock = sharedDomain.SystemClock{}
	}
	return &InterviewHandler{
		create:     cfg.Create,
		propose:    cfg.Propose,
		selectSlot: cfg.Select,
		confirm:    cfg.Confirm,
		reschedule: cfg.Reschedule,
		status:     cfg.Status,
		retryLink:  cfg.RetryLink,
		get:        cfg.Get,
		list:       cfg.List,
		suggest:    cfg.Suggest,
		clock:      cfg.Clock,
		logger:     cfg.Logger,
	}
}

type createInterviewRequest struct {
	ApplicationID uuid.UUID `json:"applicationId"`
	CandidateID   string    `json:"candidateId"`
	EmployerID    string    `json:"employerId"`
	Duration      int       `json:"duration"`
}

// Create handles POST /api/v1/interviews
func (h *InterviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req createInterviewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	id, err := h.create.Handle(r.Context(), commands.CreateInterviewCommand{
		Actor:           actor,
		ApplicationID:   req.ApplicationID,
		CandidateID:     req.CandidateID,
		EmployerID:      req.EmployerID,
		DurationMinutes: req.Duration,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	dto, err := h.get.Handle(r.Context(), queries.GetInterviewQuery{Actor: actor, InterviewID: id})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	setVersion(w, dto.Version)
	w.Header().Set("Location", "/api/v1/interviews/"+id.String())
	writeJSON(w, http.StatusCreated, dto)
}

// Get handles GET /api/v1/interviews/{id}
func (h *InterviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.target(w, r)
	if !ok {
		return
	}
	dto, err := h.get.Handle(r.Context(), queries.GetInterviewQuery{Actor: actor, InterviewID: id})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	setVersion(w, dto.Version)
	writeJSON(w, http.StatusOK, dto)
}

// List handles GET /api/v1/interviews
func (h *InterviewHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	q := r.URL.Query()
	dtos, err := h.list.Handle(r.Context(), queries.ListInterviewsQuery{
		Actor:       actor,
		EmployerID:  q.Get("employer_id"),
		CandidateID: q.Get("candidate_id"),
		Stage:       q.Get("stage"),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"interviews": dtos, "count": len(dtos)})
}

type patternRequest struct {
	WeekStart time.Time `json:"weekStart"`
	Days      []string  `json:"days"`
	StartHour int       `json:"startHour"`
	EndHour   int       `json:"endHour"`
}

func (p *patternRequest) toPattern() (*schedDomain.WeeklyPattern, error) {
	if p == nil {
		return nil, nil
	}
	days, err := schedDomain.ParseWeekdays(p.Days)
	if err != nil {
		return nil, err
	}
	return &schedDomain.WeeklyPattern{
		WeekStart: p.WeekStart,
		Days:      days,
		Hours:     schedDomain.HourRange{StartHour: p.StartHour, EndHour: p.EndHour},
	}, nil
}

type proposeRequest struct {
	Starts          []time.Time     `json:"starts"`
	Pattern         *patternRequest `json:"pattern"`
	ExpectedVersion *int            `json:"expectedVersion"`
}

// ProposeAvailability handles POST /api/v1/interviews/{id}/availability
func (h *InterviewHandler) ProposeAvailability(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.target(w, r)
	if !ok {
		return
	}
	var req proposeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	version, err := expectedVersion(r, req.ExpectedVersion)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	pattern, err := req.Pattern.toPattern()
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	slots, err := h.propose.Handle(r.Context(), commands.ProposeAvailabilityCommand{
		Actor:           actor,
		InterviewID:     id,
		ExpectedVersion: version,
		Starts:          req.Starts,
		Pattern:         pattern,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"proposedSlots": slots})
}

// SuggestAvailability handles GET /api/v1/interviews/{id}/availability/suggestions
func (h *InterviewHandler) SuggestAvailability(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.target(w, r)
	if !ok {
		return
	}
	query := queries.SuggestAvailabilityQuery{Actor: actor, InterviewID: id}
	for name, dst := range map[string]*time.Time{"from": &query.From, "to": &query.To} {
		raw := r.URL.Query().Get(name)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			badRequest(w, name+" must be an RFC 3339 timestamp")
			return
		}
		*dst = t
	}

	slots, err := h.suggest.Handle(r.Context(), query)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"slots": slots})
}

type selectRequest struct {
	SlotIDs         []uuid.UUID `json:"slotIds"`
	ExpectedVersion *int        `json:"expectedVersion"`
}

// SelectSlots handles POST /api/v1/interviews/{id}/selection
func (h *InterviewHandler) SelectSlots(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.target(w, r)
	if !ok {
		return
	}
	var req selectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	version, err := expectedVersion(r, req.ExpectedVersion)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	selected, err := h.selectSlot.Handle(r.Context(), commands.SelectSlotsCommand{
		Actor:           actor,
		InterviewID:     id,
		ExpectedVersion: version,
		SlotIDs:         req.SlotIDs,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"selectedSlots": selected})
}

type confirmRequest struct {
	SlotID          *uuid.UUID `json:"slotId"`
	MeetingPlatform string     `json:"meetingPlatform"`
	InterviewerID   string     `json:"interviewerId"`
	ExpectedVersion *int       `json:"expectedVersion"`
}

// Confirm handles POST /api/v1/interviews/{id}/confirm
func (h *InterviewHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.target(w, r)
	if !ok {
		return
	}
	var req confirmRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	version, err := expectedVersion(r, req.ExpectedVersion)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	interview, err := h.confirm.Handle(r.Context(), commands.ConfirmInterviewCommand{
		Actor:           actor,
		InterviewID:     id,
		ExpectedVersion: version,
		SlotID:          req.SlotID,
		InterviewerID:   req.InterviewerID,
		Platform:        req.MeetingPlatform,
	})
	h.respond(w, r, interview, err)
}

type rescheduleRequest struct {
	Starts          []time.Time `json:"starts"`
	ExpectedVersion *int        `json:"expectedVersion"`
}

// Reschedule handles POST /api/v1/interviews/{id}/reschedule
func (h *InterviewHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.target(w, r)
	if !ok {
		return
	}
	var req rescheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	version, err := expectedVersion(r, req.ExpectedVersion)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	interview, err := h.reschedule.Handle(r.Context(), commands.RescheduleInterviewCommand{
		Actor:           actor,
		InterviewID:     id,
		ExpectedVersion: version,
		ExtraStarts:     req.Starts,
	})
	h.respond(w, r, interview, err)
}

type statusRequest struct {
	Status          string `json:"status"`
	Reason          string `json:"reason"`
	ExpectedVersion *int   `json:"expectedVersion"`
}

// UpdateStatus handles PATCH /api/v1/interviews/{id}
func (h *InterviewHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.target(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	version, err := expectedVersion(r, req.ExpectedVersion)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	interview, err := h.status.Handle(r.Context(), commands.UpdateInterviewStatusCommand{
		Actor:           actor,
		InterviewID:     id,
		ExpectedVersion: version,
		Status:          req.Status,
		Reason:          req.Reason,
	})
	h.respond(w, r, interview, err)
}

// Cancel handles DELETE /api/v1/interviews/{id}
func (h *InterviewHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.target(w, r)
	if !ok {
		return
	}
	version, err := expectedVersion(r, nil)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	interview, err := h.status.Cancel(r.Context(), commands.CancelInterviewCommand{
		Actor:           actor,
		InterviewID:     id,
		ExpectedVersion: version,
		Reason:          r.URL.Query().Get("reason"),
	})
	h.respond(w, r, interview, err)
}

// RetryMeetingLink handles POST /api/v1/interviews/{id}/meeting-link/retry
func (h *InterviewHandler) RetryMeetingLink(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.target(w, r)
	if !ok {
		return
	}
	interview, err := h.retryLink.Handle(r.Context(), commands.RetryMeetingLinkCommand{Actor: actor, InterviewID: id})
	h.respond(w, r, interview, err)
}

// target resolves the actor and the interview ID of a per-interview route.
func (h *InterviewHandler) target(w http.ResponseWriter, r *http.Request) (sharedDomain.Actor, uuid.UUID, bool) {
	actor, err := actorFromRequest(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return sharedDomain.Actor{}, uuid.Nil, false
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return sharedDomain.Actor{}, uuid.Nil, false
	}
	return actor, id, true
}

func (h *InterviewHandler) respond(w http.ResponseWriter, r *http.Request, interview *domain.Interview, err error) {
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	setVersion(w, interview.Version())
	writeJSON(w, http.StatusOK, queries.ToDTO(interview, h.clock.Now()))
}
