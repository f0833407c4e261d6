package cli

import (
	"context"

	internalApp "github.com/felixgeelhaar/hireflow/internal/app"
	interviewCommands "github.com/felixgeelhaar/hireflow/internal/interviews/application/commands"
	interviewQueries "github.com/felixgeelhaar/hireflow/internal/interviews/application/queries"
	introCommands "github.com/felixgeelhaar/hireflow/internal/introductions/application/commands"
	introQueries "github.com/felixgeelhaar/hireflow/internal/introductions/application/queries"
	introDomain "github.com/felixgeelhaar/hireflow/internal/introductions/domain"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	teamApp "github.com/felixgeelhaar/hireflow/internal/team/application"
)

// ProfileStore saves candidate profiles.
type ProfileStore interface {
	SaveProfile(ctx context.Context, profile introDomain.CandidateProfile) error
}

// App holds the CLI application dependencies.
type App struct {
	// Actor is used when no --as flag is given.
	Actor sharedDomain.Actor
	Clock sharedDomain.Clock

	// Interview Command Handlers
	CreateInterviewHandler     *interviewCommands.CreateInterviewHandler
	ProposeAvailabilityHandler *interviewCommands.ProposeAvailabilityHandler
	SelectSlotsHandler         *interviewCommands.SelectSlotsHandler
	ConfirmInterviewHandler    *interviewCommands.ConfirmInterviewHandler
	RescheduleInterviewHandler *interviewCommands.RescheduleInterviewHandler
	UpdateStatusHandler        *interviewCommands.UpdateInterviewStatusHandler
	RetryMeetingLinkHandler    *interviewCommands.RetryMeetingLinkHandler

	// Interview Query Handlers
	GetInterviewHandler        *interviewQueries.GetInterviewHandler
	ListInterviewsHandler      *interviewQueries.ListInterviewsHandler
	SuggestAvailabilityHandler *interviewQueries.SuggestAvailabilityHandler

	// Introduction Command Handlers
	RequestIntroductionHandler *introCommands.RequestIntroductionHandler
	RespondIntroductionHandler *introCommands.RespondToIntroductionHandler
	AdvanceIntroductionHandler *introCommands.AdvanceIntroductionHandler

	// Introduction Query Handlers
	ViewCandidateHandler *introQueries.ViewCandidateHandler
	IntroductionsHandler *introQueries.IntroductionsHandler

	// Team and profiles
	RosterService *teamApp.RosterService
	Profiles      ProfileStore

	// Container backs long-running commands such as serve.
	Container *internalApp.Container
}

// NewApp creates a new CLI application from a wired container.
func NewApp(c *internalApp.Container, actor sharedDomain.Actor) *App {
	return &App{
		Actor:                      actor,
		Clock:                      c.Clock,
		CreateInterviewHandler:     c.CreateInterviewHandler,
		ProposeAvailabilityHandler: c.ProposeAvailabilityHandler,
		SelectSlotsHandler:         c.SelectSlotsHandler,
		ConfirmInterviewHandler:    c.ConfirmInterviewHandler,
		RescheduleInterviewHandler: c.RescheduleInterviewHandler,
		UpdateStatusHandler:        c.UpdateStatusHandler,
		RetryMeetingLinkHandler:    c.RetryMeetingLinkHandler,
		GetInterviewHandler:        c.GetInterviewHandler,
		ListInterviewsHandler:      c.ListInterviewsHandler,
		SuggestAvailabilityHandler: c.SuggestAvailabilityHandler,
		RequestIntroductionHandler: c.RequestIntroductionHandler,
		RespondIntroductionHandler: c.RespondIntroductionHandler,
		AdvanceIntroductionHandler: c.AdvanceIntroductionHandler,
		ViewCandidateHandler:       c.ViewCandidateHandler,
		IntroductionsHandler:       c.IntroductionsHandler,
		RosterService:              c.RosterService,
		Profiles:                   c.Repos.Directory,
		Container:                  c,
	}
}

// Global app instance (set by main)
var app *App

// SetApp sets the global app instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global app instance.
func GetApp() *App {
	return app
}

// CurrentActor resolves the acting identity from --as, falling back to the
// app's configured actor.
func CurrentActor() (sharedDomain.Actor, error) {
	if actorFlag != "" {
		return sharedDomain.ParseActor(actorFlag)
	}
	if app == nil {
		return sharedDomain.Actor{}, errNotInitialized
	}
	return app.Actor, nil
}
