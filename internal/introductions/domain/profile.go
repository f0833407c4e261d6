package domain

import "time"

// ContactDetails are the fields an introduction gates.
type ContactDetails struct {
	Email     *string
	Phone     *string
	Links     []string
	ResumeURL *string
}

// CandidateProfile is a candidate as the directory stores it.
type CandidateProfile struct {
	ID       string
	Name     string
	Headline string
	Location string
	Skills   []string
	Contact  ContactDetails
}

// CandidateView is what an employer receives. Contact fields are nil
// unless the introduction exposes them; they serialize as null.
type CandidateView struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Headline           string     `json:"headline"`
	Location           string     `json:"location"`
	Skills             []string   `json:"skills"`
	Email              *string    `json:"email"`
	Phone              *string    `json:"phone"`
	Links              []string   `json:"links"`
	ResumeURL          *string    `json:"resumeUrl"`
	IntroductionID     string     `json:"introductionId"`
	IntroductionStatus Status     `json:"introductionStatus"`
	Stage              Stage      `json:"stage"`
	RequestedAt        *time.Time `json:"requestedAt"`
	ProtectionEndsAt   *time.Time `json:"protectionEndsAt"`
}

// GateProfile builds the employer-facing view of profile under intro.
func GateProfile(profile CandidateProfile, intro *Introduction) CandidateView {
	skills := profile.Skills
	if skills == nil {
		skills = []string{}
	}
	view := CandidateView{
		ID:                 profile.ID,
		Name:               profile.Name,
		Headline:           profile.Headline,
		Location:           profile.Location,
		Skills:             skills,
		IntroductionID:     intro.ID().String(),
		IntroductionStatus: intro.Status(),
		Stage:              intro.Stage(),
		RequestedAt:        intro.RequestedAt(),
		ProtectionEndsAt:   intro.ProtectionEndsAt(),
	}
	if !intro.ExposesContact() {
		return view
	}

	view.Email = profile.Contact.Email
	view.Phone = profile.Contact.Phone
	view.ResumeURL = profile.Contact.ResumeURL
	view.Links = append([]string{}, profile.Contact.Links...)
	return view
}
