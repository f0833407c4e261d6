package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/felixgeelhaar/hireflow/internal/introductions/application/commands"
	"github.com/felixgeelhaar/hireflow/internal/introductions/application/queries"
	"github.com/felixgeelhaar/hireflow/internal/introductions/domain"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
)

// ProfileStore saves candidate profiles.
type ProfileStore interface {
	SaveProfile(ctx context.Context, profile domain.CandidateProfile) error
}

// IntroductionHandler handles introduction and candidate API requests.
type IntroductionHandler struct {
	request  *commands.RequestIntroductionHandler
	respond  *commands.RespondToIntroductionHandler
	advance  *commands.AdvanceIntroductionHandler
	view     *queries.ViewCandidateHandler
	intros   *queries.IntroductionsHandler
	profiles ProfileStore
	logger   *slog.Logger
}

// IntroductionHandlerConfig holds dependencies for the introduction handler.
type IntroductionHandlerConfig struct {
	Request  *commands.RequestIntroductionHandler
	Respond  *commands.RespondToIntroductionHandler
	Advance  *commands.AdvanceIntroductionHandler
	View     *queries.ViewCandidateHandler
	Intros   *queries.IntroductionsHandler
	Profiles ProfileStore
	Logger   *slog.Logger
}

// NewIntroductionHandler creates a new introduction handler.
func NewIntroductionHandler(cfg IntroductionHandlerConfig) *IntroductionHandler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &IntroductionHandler{
		request:  cfg.Request,
		respond:  cfg.Respond,
		advance:  cfg.Advance,
		view:     cfg.View,
		intros:   cfg.Intros,
		profiles: cfg.Profiles,
		logger:   cfg.Logger,
	}
}

// Request handles POST /api/v1/introductions
func (h *IntroductionHandler) Request(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req struct {
		CandidateID string `json:"candidateId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if req.CandidateID == "" {
		badRequest(w, "candidateId is required")
		return
	}

	intro, err := h.request.Handle(r.Context(), commands.RequestIntroductionCommand{Actor: actor, CandidateID: req.CandidateID})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	setVersion(w, intro.Version())
	writeJSON(w, http.StatusCreated, queries.ToDTO(intro))
}

// Get handles GET /api/v1/introductions/{id}
func (h *IntroductionHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	dto, err := h.intros.Get(r.Context(), queries.GetIntroductionQuery{Actor: actor, IntroductionID: id})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	setVersion(w, dto.Version)
	writeJSON(w, http.StatusOK, dto)
}

// List handles GET /api/v1/introductions
func (h *IntroductionHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	dtos, err := h.intros.List(r.Context(), queries.ListIntroductionsQuery{
		Actor:      actor,
		EmployerID: r.URL.Query().Get("employer_id"),
		Stage:      domain.Stage(r.URL.Query().Get("stage")),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"introductions": dtos, "count": len(dtos)})
}

// Respond handles POST /api/v1/introductions/{id}/response
func (h *IntroductionHandler) Respond(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req struct {
		Accept          *bool `json:"accept"`
		ExpectedVersion *int  `json:"expectedVersion"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if req.Accept == nil {
		badRequest(w, "accept is required")
		return
	}
	version, err := expectedVersion(r, req.ExpectedVersion)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	intro, err := h.respond.Handle(r.Context(), commands.RespondToIntroductionCommand{
		Actor:           actor,
		IntroductionID:  id,
		ExpectedVersion: version,
		Accept:          *req.Accept,
	})
	h.write(w, r, intro, err)
}

// Advance handles POST /api/v1/introductions/{id}/advance
func (h *IntroductionHandler) Advance(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req struct {
		Action          string `json:"action"`
		ExpectedVersion *int   `json:"expectedVersion"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	version, err := expectedVersion(r, req.ExpectedVersion)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	intro, err := h.advance.Handle(r.Context(), commands.AdvanceIntroductionCommand{
		Actor:           actor,
		IntroductionID:  id,
		ExpectedVersion: version,
		Action:          req.Action,
	})
	h.write(w, r, intro, err)
}

// ViewCandidate handles GET /api/v1/candidates/{id}
func (h *IntroductionHandler) ViewCandidate(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	view, err := h.view.Handle(r.Context(), queries.ViewCandidateQuery{Actor: actor, CandidateID: r.PathValue("id")})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type profileRequest struct {
	Name      string   `json:"name"`
	Headline  string   `json:"headline"`
	Location  string   `json:"location"`
	Skills    []string `json:"skills"`
	Email     *string  `json:"email"`
	Phone     *string  `json:"phone"`
	Links     []string `json:"links"`
	ResumeURL *string  `json:"resumeUrl"`
}

// SaveProfile handles PUT /api/v1/candidates/{id}. Candidates may only
// write their own profile.
func (h *IntroductionHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	candidateID := r.PathValue("id")
	if !actor.Is(sharedDomain.RoleAdmin) && !(actor.Is(sharedDomain.RoleCandidate) && actor.ID == candidateID) {
		writeError(w, r, h.logger, sharedDomain.NewForbiddenError("edit this profile", actor.Role))
		return
	}
	var req profileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if req.Name == "" {
		badRequest(w, "name is required")
		return
	}

	profile := domain.CandidateProfile{
		ID:       candidateID,
		Name:     req.Name,
		Headline: req.Headline,
		Location: req.Location,
		Skills:   req.Skills,
		Contact: domain.ContactDetails{
			Email:     req.Email,
			Phone:     req.Phone,
			Links:     req.Links,
			ResumeURL: req.ResumeURL,
		},
	}
	if err := h.profiles.SaveProfile(r.Context(), profile); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *IntroductionHandler) write(w http.ResponseWriter, r *http.Request, intro *domain.Introduction, err error) {
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	setVersion(w, intro.Version())
	writeJSON(w, http.StatusOK, queries.ToDTO(intro))
}
