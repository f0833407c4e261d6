package api

import (
	"github.com/felixgeelhaar/hireflow/internal/app"
)

// HandlersFromContainer builds every API handler from the application container.
func HandlersFromContainer(c *app.Container) Handlers {
	return Handlers{
		Interviews: NewInterviewHandler(InterviewHandlerConfig{
			Create:     c.CreateInterviewHandler,
			Propose:    c.ProposeAvailabilityHandler,
			Select:     c.SelectSlotsHandler,
			Confirm:    c.ConfirmInterviewHandler,
			Reschedule: c.RescheduleInterviewHandler,
			Status:     c.UpdateStatusHandler,
			RetryLink:  c.RetryMeetingLinkHandler,
			Get:        c.GetInterviewHandler,
			List:       c.ListInterviewsHandler,
			Suggest:    c.SuggestAvailabilityHandler,
			Clock:      c.Clock,
			Logger:     c.Logger,
		}),
		Introductions: NewIntroductionHandler(IntroductionHandlerConfig{
			Request:  c.RequestIntroductionHandler,
			Respond:  c.RespondIntroductionHandler,
			Advance:  c.AdvanceIntroductionHandler,
			View:     c.ViewCandidateHandler,
			Intros:   c.IntroductionsHandler,
			Profiles: c.Repos.Directory,
			Logger:   c.Logger,
		}),
		Team:    NewTeamHandler(c.RosterService, c.Logger),
		Health:  c.Health,
		Metrics: c.Metrics,
	}
}
