package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/hireflow/internal/introductions/domain"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	sharedPersistence "github.com/felixgeelhaar/hireflow/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

// SQLiteIntroductionRepository implements domain.Repository using SQLite.
type SQLiteIntroductionRepository struct {
	db *sql.DB
}

// NewSQLiteIntroductionRepository creates a new SQLite introduction repository.
func NewSQLiteIntroductionRepository(db *sql.DB) *SQLiteIntroductionRepository {
	return &SQLiteIntroductionRepository{db: db}
}

// Save inserts a new introduction or updates an existing one when the stored
// version still matches.
func (r *SQLiteIntroductionRepository) Save(ctx context.Context, intro *domain.Introduction) error {
	exec := sharedPersistence.SQLiteExecutor(ctx, r.db)

	if intro.Version() == 0 {
		result, err := exec.ExecContext(ctx, `
			INSERT INTO introductions (`+introductionColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 1)
			ON CONFLICT (candidate_id, employer_id) DO NOTHING
		`,
			intro.ID().String(),
			intro.CandidateID(),
			intro.EmployerID(),
			string(intro.Status()),
			sharedPersistence.FormatNullTime(intro.RequestedAt()),
			sharedPersistence.FormatNullTime(intro.RespondedAt()),
			sharedPersistence.FormatNullTime(intro.ProtectionEndsAt()),
			sharedPersistence.FormatTime(intro.CreatedAt()),
			sharedPersistence.FormatTime(intro.UpdatedAt()),
		)
		if err != nil {
			return err
		}
		inserted, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if inserted == 0 {
			return sharedDomain.NewConcurrentCreateError("introduction", pairKey(intro))
		}
		intro.SetVersion(1)
		return nil
	}

	result, err := exec.ExecContext(ctx, `
		UPDATE introductions SET
			status = ?,
			requested_at = ?,
			responded_at = ?,
			protection_ends_at = ?,
			updated_at = ?,
			version = version + 1
		WHERE id = ? AND version = ?
	`,
		string(intro.Status()),
		sharedPersistence.FormatNullTime(intro.RequestedAt()),
		sharedPersistence.FormatNullTime(intro.RespondedAt()),
		sharedPersistence.FormatNullTime(intro.ProtectionEndsAt()),
		sharedPersistence.FormatTime(intro.UpdatedAt()),
		intro.ID().String(),
		intro.Version(),
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		var current int
		err := exec.QueryRowContext(ctx, `SELECT version FROM introductions WHERE id = ?`, intro.ID().String()).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return sharedDomain.NewNotFoundError("introduction", intro.ID())
		}
		if err != nil {
			return err
		}
		return sharedDomain.NewStaleStateError(intro.ID(), intro.Version(), current)
	}
	intro.SetVersion(intro.Version() + 1)
	return nil
}

// FindByID retrieves an introduction by its ID.
func (r *SQLiteIntroductionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Introduction, error) {
	return r.one(ctx, `WHERE id = ?`, id.String())
}

// FindByPair retrieves the introduction between a candidate and an employer.
func (r *SQLiteIntroductionRepository) FindByPair(ctx context.Context, candidateID, employerID string) (*domain.Introduction, error) {
	return r.one(ctx, `WHERE candidate_id = ? AND employer_id = ?`, candidateID, employerID)
}

// FindByEmployer retrieves every introduction of an employer.
func (r *SQLiteIntroductionRepository) FindByEmployer(ctx context.Context, employerID string) ([]*domain.Introduction, error) {
	return r.many(ctx, `WHERE employer_id = ? ORDER BY updated_at DESC`, employerID)
}

// FindRequestedBefore retrieves pending requests made before cutoff.
func (r *SQLiteIntroductionRepository) FindRequestedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Introduction, error) {
	return r.many(ctx, `WHERE status = ? AND requested_at <= ? ORDER BY requested_at LIMIT ?`,
		string(domain.StatusIntroRequested), sharedPersistence.FormatTime(cutoff), limit)
}

func (r *SQLiteIntroductionRepository) one(ctx context.Context, where string, args ...any) (*domain.Introduction, error) {
	row := sharedPersistence.SQLiteExecutor(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+introductionColumns+` FROM introductions `+where, args...)
	intro, err := scanSQLiteIntroduction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return intro, err
}

func (r *SQLiteIntroductionRepository) many(ctx context.Context, where string, args ...any) ([]*domain.Introduction, error) {
	rows, err := sharedPersistence.SQLiteExecutor(ctx, r.db).QueryContext(ctx,
		`SELECT `+introductionColumns+` FROM introductions `+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	intros := make([]*domain.Introduction, 0)
	for rows.Next() {
		intro, err := scanSQLiteIntroduction(rows)
		if err != nil {
			return nil, err
		}
		intros = append(intros, intro)
	}
	return intros, rows.Err()
}

type sqlScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteIntroduction(s sqlScanner) (*domain.Introduction, error) {
	var (
		id                              string
		requested, responded, protected sql.NullString
		createdAt, updatedAt            string
		r                               introductionRow
	)
	err := s.Scan(
		&id,
		&r.CandidateID,
		&r.EmployerID,
		&r.Status,
		&requested,
		&responded,
		&protected,
		&createdAt,
		&updatedAt,
		&r.Version,
	)
	if err != nil {
		return nil, err
	}
	if r.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse introduction id: %w", err)
	}
	if r.CreatedAt, err = sharedPersistence.ParseTime(createdAt); err != nil {
		return nil, err
	}
	if r.UpdatedAt, err = sharedPersistence.ParseTime(updatedAt); err != nil {
		return nil, err
	}
	r.RequestedAt = sharedPersistence.ParseNullTime(requested)
	r.RespondedAt = sharedPersistence.ParseNullTime(responded)
	r.ProtectionEndsAt = sharedPersistence.ParseNullTime(protected)
	return r.toIntroduction()
}

// SQLiteCandidateDirectory implements domain.CandidateDirectory using SQLite.
type SQLiteCandidateDirectory struct {
	db *sql.DB
}

// NewSQLiteCandidateDirectory creates a new SQLite candidate directory.
func NewSQLiteCandidateDirectory(db *sql.DB) *SQLiteCandidateDirectory {
	return &SQLiteCandidateDirectory{db: db}
}

// FindProfile returns nil when the candidate is unknown.
func (d *SQLiteCandidateDirectory) FindProfile(ctx context.Context, candidateID string) (*domain.CandidateProfile, error) {
	var (
		r                       profileRow
		skills, links           string
		email, phone, resumeURL sql.NullString
	)
	err := sharedPersistence.SQLiteExecutor(ctx, d.db).QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM candidate_profiles WHERE id = ?`, candidateID).
		Scan(&r.ID, &r.Name, &r.Headline, &r.Location, &skills, &email, &phone, &links, &resumeURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.Skills = []byte(skills)
	r.Links = []byte(links)
	r.Email = sharedPersistence.NullStringPtr(email)
	r.Phone = sharedPersistence.NullStringPtr(phone)
	r.ResumeURL = sharedPersistence.NullStringPtr(resumeURL)
	return r.toProfile()
}

// SaveProfile inserts or replaces a candidate profile.
func (d *SQLiteCandidateDirectory) SaveProfile(ctx context.Context, profile domain.CandidateProfile) error {
	skills, err := encodeList(profile.Skills)
	if err != nil {
		return err
	}
	links, err := encodeList(profile.Contact.Links)
	if err != nil {
		return err
	}
	_, err = sharedPersistence.SQLiteExecutor(ctx, d.db).ExecContext(ctx, `
		INSERT INTO candidate_profiles (`+profileColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			headline = excluded.headline,
			location = excluded.location,
			skills = excluded.skills,
			email = excluded.email,
			phone = excluded.phone,
			links = excluded.links,
			resume_url = excluded.resume_url
	`,
		profile.ID, profile.Name, profile.Headline, profile.Location, string(skills),
		sharedPersistence.NullString(profile.Contact.Email),
		sharedPersistence.NullString(profile.Contact.Phone),
		string(links),
		sharedPersistence.NullString(profile.Contact.ResumeURL),
	)
	return err
}
