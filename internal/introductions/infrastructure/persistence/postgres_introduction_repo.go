package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/hireflow/internal/introductions/domain"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	sharedPersistence "github.com/felixgeelhaar/hireflow/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresIntroductionRepository implements domain.Repository using PostgreSQL.
type PostgresIntroductionRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresIntroductionRepository creates a new PostgreSQL introduction repository.
func NewPostgresIntroductionRepository(pool *pgxpool.Pool) *PostgresIntroductionRepository {
	return &PostgresIntroductionRepository{pool: pool}
}

// Save inserts a new introduction or updates an existing one when the stored
// version still matches.
func (r *PostgresIntroductionRepository) Save(ctx context.Context, intro *domain.Introduction) error {
	exec := sharedPersistence.Executor(ctx, r.pool)

	if intro.Version() == 0 {
		tag, err := exec.Exec(ctx, `
			INSERT INTO introductions (`+introductionColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 1)
			ON CONFLICT (candidate_id, employer_id) DO NOTHING
		`,
			intro.ID(),
			intro.CandidateID(),
			intro.EmployerID(),
			string(intro.Status()),
			intro.RequestedAt(),
			intro.RespondedAt(),
			intro.ProtectionEndsAt(),
			intro.CreatedAt(),
			intro.UpdatedAt(),
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return sharedDomain.NewConcurrentCreateError("introduction", pairKey(intro))
		}
		intro.SetVersion(1)
		return nil
	}

	tag, err := exec.Exec(ctx, `
		UPDATE introductions SET
			status = $3,
			requested_at = $4,
			responded_at = $5,
			protection_ends_at = $6,
			updated_at = $7,
			version = version + 1
		WHERE id = $1 AND version = $2
	`,
		intro.ID(),
		intro.Version(),
		string(intro.Status()),
		intro.RequestedAt(),
		intro.RespondedAt(),
		intro.ProtectionEndsAt(),
		intro.UpdatedAt(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var current int
		err := exec.QueryRow(ctx, `SELECT version FROM introductions WHERE id = $1`, intro.ID()).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
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
func (r *PostgresIntroductionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Introduction, error) {
	return r.one(ctx, `WHERE id = $1`, id)
}

// FindByPair retrieves the introduction between a candidate and an employer.
func (r *PostgresIntroductionRepository) FindByPair(ctx context.Context, candidateID, employerID string) (*domain.Introduction, error) {
	return r.one(ctx, `WHERE candidate_id = $1 AND employer_id = $2`, candidateID, employerID)
}

// FindByEmployer retrieves every introduction of an employer.
func (r *PostgresIntroductionRepository) FindByEmployer(ctx context.Context, employerID string) ([]*domain.Introduction, error) {
	return r.many(ctx, `WHERE employer_id = $1 ORDER BY updated_at DESC`, employerID)
}

// FindRequestedBefore retrieves pending requests made before cutoff.
func (r *PostgresIntroductionRepository) FindRequestedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Introduction, error) {
	return r.many(ctx, `WHERE status = $1 AND requested_at <= $2 ORDER BY requested_at LIMIT $3`,
		string(domain.StatusIntroRequested), cutoff, limit)
}

func (r *PostgresIntroductionRepository) one(ctx context.Context, where string, args ...any) (*domain.Introduction, error) {
	query := `SELECT ` + introductionColumns + ` FROM introductions ` + where
	if sharedPersistence.InTransaction(ctx) {
		query += ` FOR UPDATE`
	}
	intro, err := scanIntroduction(sharedPersistence.Executor(ctx, r.pool).QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return intro, err
}

func (r *PostgresIntroductionRepository) many(ctx context.Context, where string, args ...any) ([]*domain.Introduction, error) {
	rows, err := sharedPersistence.Executor(ctx, r.pool).Query(ctx,
		`SELECT `+introductionColumns+` FROM introductions `+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	intros := make([]*domain.Introduction, 0)
	for rows.Next() {
		intro, err := scanIntroduction(rows)
		if err != nil {
			return nil, err
		}
		intros = append(intros, intro)
	}
	return intros, rows.Err()
}

func scanIntroduction(row pgx.Row) (*domain.Introduction, error) {
	var r introductionRow
	err := row.Scan(
		&r.ID,
		&r.CandidateID,
		&r.EmployerID,
		&r.Status,
		&r.RequestedAt,
		&r.RespondedAt,
		&r.ProtectionEndsAt,
		&r.CreatedAt,
		&r.UpdatedAt,
		&r.Version,
	)
	if err != nil {
		return nil, err
	}
	return r.toIntroduction()
}

// PostgresCandidateDirectory implements domain.CandidateDirectory using PostgreSQL.
type PostgresCandidateDirectory struct {
	pool *pgxpool.Pool
}

// NewPostgresCandidateDirectory creates a new PostgreSQL candidate directory.
func NewPostgresCandidateDirectory(pool *pgxpool.Pool) *PostgresCandidateDirectory {
	return &PostgresCandidateDirectory{pool: pool}
}

// FindProfile returns nil when the candidate is unknown.
func (d *PostgresCandidateDirectory) FindProfile(ctx context.Context, candidateID string) (*domain.CandidateProfile, error) {
	var r profileRow
	err := sharedPersistence.Executor(ctx, d.pool).QueryRow(ctx,
		`SELECT `+profileColumns+` FROM candidate_profiles WHERE id = $1`, candidateID).
		Scan(&r.ID, &r.Name, &r.Headline, &r.Location, &r.Skills, &r.Email, &r.Phone, &r.Links, &r.ResumeURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r.toProfile()
}

// SaveProfile inserts or replaces a candidate profile.
func (d *PostgresCandidateDirectory) SaveProfile(ctx context.Context, profile domain.CandidateProfile) error {
	skills, err := encodeList(profile.Skills)
	if err != nil {
		return err
	}
	links, err := encodeList(profile.Contact.Links)
	if err != nil {
		return err
	}
	_, err = sharedPersistence.Executor(ctx, d.pool).Exec(ctx, `
		INSERT INTO candidate_profiles (`+profileColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			headline = EXCLUDED.headline,
			location = EXCLUDED.location,
			skills = EXCLUDED.skills,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			links = EXCLUDED.links,
			resume_url = EXCLUDED.resume_url
	`,
		profile.ID, profile.Name, profile.Headline, profile.Location, skills,
		profile.Contact.Email, profile.Contact.Phone, links, profile.Contact.ResumeURL,
	)
	return err
}
