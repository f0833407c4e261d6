package persistence

import (
	"encoding/json"
	"time"

	"github.com/felixgeelhaar/hireflow/internal/introductions/domain"
	"github.com/google/uuid"
)

const introductionColumns = `id, candidate_id, employer_id, status, requested_at, responded_at,
	protection_ends_at, created_at, updated_at, version`

const profileColumns = `id, name, headline, location, skills, email, phone, links, resume_url`

func pairKey(intro *domain.Introduction) string {
	return intro.CandidateID() + "/" + intro.EmployerID()
}

type introductionRow struct {
	ID               uuid.UUID
	CandidateID      string
	EmployerID       string
	Status           string
	RequestedAt      *time.Time
	RespondedAt      *time.Time
	ProtectionEndsAt *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Version          int
}

func (r introductionRow) toIntroduction() (*domain.Introduction, error) {
	status, err := domain.ParseStatus(r.Status)
	if err != nil {
		return nil, err
	}
	return domain.RehydrateIntroduction(domain.IntroductionState{
		ID:               r.ID,
		CandidateID:      r.CandidateID,
		EmployerID:       r.EmployerID,
		Status:           status,
		RequestedAt:      r.RequestedAt,
		RespondedAt:      r.RespondedAt,
		ProtectionEndsAt: r.ProtectionEndsAt,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
		Version:          r.Version,
	}), nil
}

type profileRow struct {
	ID        string
	Name      string
	Headline  string
	Location  string
	Skills    []byte
	Email     *string
	Phone     *string
	Links     []byte
	ResumeURL *string
}

func (r profileRow) toProfile() (*domain.CandidateProfile, error) {
	profile := &domain.CandidateProfile{
		ID:       r.ID,
		Name:     r.Name,
		Headline: r.Headline,
		Location: r.Location,
		Contact: domain.ContactDetails{
			Email:     r.Email,
			Phone:     r.Phone,
			ResumeURL: r.ResumeURL,
		},
	}
	if err := json.Unmarshal(r.Skills, &profile.Skills); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(r.Links, &profile.Contact.Links); err != nil {
		return nil, err
	}
	return profile, nil
}

func encodeList(values []string) ([]byte, error) {
	if values == nil {
		values = []string{}
	}
	return json.Marshal(values)
}
