package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/hireflow/internal/interviews/domain"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	sharedPersistence "github.com/felixgeelhaar/hireflow/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresInterviewRepository implements domain.Repository using PostgreSQL.
type PostgresInterviewRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresInterviewRepository creates a new PostgreSQL interview repository.
func NewPostgresInterviewRepository(pool *pgxpool.Pool) *PostgresInterviewRepository {
	return &PostgresInterviewRepository{pool: pool}
}

// Save inserts a new interview or updates an existing one when the stored
// version still matches.
func (r *PostgresInterviewRepository) Save(ctx context.Context, interview *domain.Interview) error {
	slots, err := encodeSlots(interview)
	if err != nil {
		return err
	}
	exec := sharedPersistence.Executor(ctx, r.pool)

	if interview.Version() == 0 {
		_, err := exec.Exec(ctx, `
			INSERT INTO interviews (`+interviewColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, 1)
		`,
			interview.ID(),
			interview.ApplicationID(),
			interview.CandidateID(),
			interview.EmployerID(),
			interview.DurationMinutes(),
			string(interview.Status()),
			slots.proposed,
			slots.selected,
			slots.busy,
			interview.ScheduledAt(),
			platformString(interview.MeetingPlatform()),
			interview.InterviewerID(),
			interview.MeetingLink(),
			string(interview.MeetingLinkStatus()),
			interview.MeetingLinkError(),
			interview.RescheduleCount(),
			interview.CancelReason(),
			interview.CreatedAt(),
			interview.UpdatedAt(),
		)
		if err != nil {
			return err
		}
		interview.SetVersion(1)
		return nil
	}

	tag, err := exec.Exec(ctx, `
		UPDATE interviews SET
			status = $3,
			proposed_slots = $4,
			selected_slots = $5,
			busy_slots = $6,
			scheduled_at = $7,
			meeting_platform = $8,
			interviewer_id = $9,
			meeting_link = $10,
			meeting_link_status = $11,
			meeting_link_error = $12,
			reschedule_count = $13,
			cancel_reason = $14,
			updated_at = $15,
			version = version + 1
		WHERE id = $1 AND version = $2
	`,
		interview.ID(),
		interview.Version(),
		string(interview.Status()),
		slots.proposed,
		slots.selected,
		slots.busy,
		interview.ScheduledAt(),
		platformString(interview.MeetingPlatform()),
		interview.InterviewerID(),
		interview.MeetingLink(),
		string(interview.MeetingLinkStatus()),
		interview.MeetingLinkError(),
		interview.RescheduleCount(),
		interview.CancelReason(),
		interview.UpdatedAt(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return r.staleError(ctx, exec, interview)
	}
	interview.SetVersion(interview.Version() + 1)
	return nil
}

func (r *PostgresInterviewRepository) staleError(ctx context.Context, exec sharedPersistence.DBExecutor, interview *domain.Interview) error {
	var current int
	err := exec.QueryRow(ctx, `SELECT version FROM interviews WHERE id = $1`, interview.ID()).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return sharedDomain.NewNotFoundError("interview", interview.ID())
	}
	if err != nil {
		return err
	}
	return sharedDomain.NewStaleStateError(interview.ID(), interview.Version(), current)
}

// FindByID retrieves an interview by its ID.
func (r *PostgresInterviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Interview, error) {
	// Lock the row when called inside a transaction so concurrent commands serialize.
	query := `SELECT ` + interviewColumns + ` FROM interviews WHERE id = $1`
	if sharedPersistence.InTransaction(ctx) {
		query += ` FOR UPDATE`
	}

	row, err := scanInterview(sharedPersistence.Executor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return row.toInterview()
}

// FindByEmployer retrieves every interview of an employer.
func (r *PostgresInterviewRepository) FindByEmployer(ctx context.Context, employerID string) ([]*domain.Interview, error) {
	return r.query(ctx, `WHERE employer_id = $1 ORDER BY created_at`, employerID)
}

// FindByCandidate retrieves every interview of a candidate.
func (r *PostgresInterviewRepository) FindByCandidate(ctx context.Context, candidateID string) ([]*domain.Interview, error) {
	return r.query(ctx, `WHERE candidate_id = $1 ORDER BY created_at`, candidateID)
}

// FindAwaiting retrieves interviews waiting on a party, oldest first.
func (r *PostgresInterviewRepository) FindAwaiting(ctx context.Context, limit int) ([]*domain.Interview, error) {
	return r.query(ctx, `WHERE status = ANY($1) ORDER BY updated_at LIMIT $2`, awaitingStatuses, limit)
}

// FindNeedingLink retrieves upcoming scheduled interviews without a link.
func (r *PostgresInterviewRepository) FindNeedingLink(ctx context.Context, startsAfter time.Time, limit int) ([]*domain.Interview, error) {
	return r.query(ctx, `
		WHERE status = $1 AND meeting_link_status IN ($2, $3) AND scheduled_at > $4
		ORDER BY scheduled_at LIMIT $5
	`, string(domain.StatusScheduled), string(domain.LinkPending), string(domain.LinkFailed), startsAfter, limit)
}

func (r *PostgresInterviewRepository) query(ctx context.Context, where string, args ...any) ([]*domain.Interview, error) {
	rows, err := sharedPersistence.Executor(ctx, r.pool).Query(ctx, `SELECT `+interviewColumns+` FROM interviews `+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	interviews := make([]*domain.Interview, 0)
	for rows.Next() {
		row, err := scanInterview(rows)
		if err != nil {
			return nil, err
		}
		interview, err := row.toInterview()
		if err != nil {
			return nil, err
		}
		interviews = append(interviews, interview)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return interviews, nil
}

func scanInterview(s pgx.Row) (interviewRow, error) {
	var row interviewRow
	err := s.Scan(
		&row.ID,
		&row.ApplicationID,
		&row.CandidateID,
		&row.EmployerID,
		&row.DurationMinutes,
		&row.Status,
		&row.ProposedSlots,
		&row.SelectedSlots,
		&row.BusySlots,
		&row.ScheduledAt,
		&row.MeetingPlatform,
		&row.InterviewerID,
		&row.MeetingLink,
		&row.LinkStatus,
		&row.LinkError,
		&row.RescheduleCount,
		&row.CancelReason,
		&row.CreatedAt,
		&row.UpdatedAt,
		&row.Version,
	)
	return row, err
}
