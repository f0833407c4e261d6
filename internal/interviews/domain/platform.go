package domain

import (
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
)

// MeetingPlatform is the video platform used for a scheduled interview.
type MeetingPlatform string

const (
	PlatformZoom       MeetingPlatform = "zoom"
	PlatformGoogleMeet MeetingPlatform = "google_meet"
)

// ParseMeetingPlatform accepts "zoom" or "google_meet".
func ParseMeetingPlatform(raw string) (MeetingPlatform, error) {
	switch MeetingPlatform(raw) {
	case PlatformZoom, PlatformGoogleMeet:
		return MeetingPlatform(raw), nil
	default:
		return "", sharedDomain.NewInvalidInputError(
			"unsupported meeting platform "+raw,
			`Use "zoom" or "google_meet".`,
		)
	}
}

// LinkStatus tracks best-effort meeting link creation.
type LinkStatus string

const (
	LinkNone    LinkStatus = "none"
	LinkPending LinkStatus = "pending"
	LinkCreated LinkStatus = "created"
	LinkFailed  LinkStatus = "failed"
)
