package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/hireflow/internal/interviews/domain"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	sharedPersistence "github.com/felixgeelhaar/hireflow/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

// SQLiteInterviewRepository implements domain.Repository using SQLite.
type SQLiteInterviewRepository struct {
	db *sql.DB
}

// NewSQLiteInterviewRepository creates a new SQLite interview repository.
func NewSQLiteInterviewRepository(db *sql.DB) *SQLiteInterviewRepository {
	return &SQLiteInterviewRepository{db: db}
}

// Save inserts a new interview or updates an existing one when the stored
// version still matches.
func (r *SQLiteInterviewRepository) Save(ctx context.Context, interview *domain.Interview) error {
	slots, err := encodeSlots(interview)
	if err != nil {
		return err
	}
	exec := sharedPersistence.SQLiteExecutor(ctx, r.db)

	if interview.Version() == 0 {
		_, err := exec.ExecContext(ctx, `
			INSERT INTO interviews (`+interviewColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)
		`,
			interview.ID().String(),
			interview.ApplicationID().String(),
			interview.CandidateID(),
			interview.EmployerID(),
			interview.DurationMinutes(),
			string(interview.Status()),
			string(slots.proposed),
			string(slots.selected),
			string(slots.busy),
			sharedPersistence.FormatNullTime(interview.ScheduledAt()),
			sharedPersistence.NullString(platformString(interview.MeetingPlatform())),
			sharedPersistence.NullString(interview.InterviewerID()),
			sharedPersistence.NullString(interview.MeetingLink()),
			string(interview.MeetingLinkStatus()),
			sharedPersistence.NullString(interview.MeetingLinkError()),
			interview.RescheduleCount(),
			sharedPersistence.NullString(interview.CancelReason()),
			sharedPersistence.FormatTime(interview.CreatedAt()),
			sharedPersistence.FormatTime(interview.UpdatedAt()),
		)
		if err != nil {
			return err
		}
		interview.SetVersion(1)
		return nil
	}

	result, err := exec.ExecContext(ctx, `
		UPDATE interviews SET
			status = ?,
			proposed_slots = ?,
			selected_slots = ?,
			busy_slots = ?,
			scheduled_at = ?,
			meeting_platform = ?,
			interviewer_id = ?,
			meeting_link = ?,
			meeting_link_status = ?,
			meeting_link_error = ?,
			reschedule_count = ?,
			cancel_reason = ?,
			updated_at = ?,
			version = version + 1
		WHERE id = ? AND version = ?
	`,
		string(interview.Status()),
		string(slots.proposed),
		string(slots.selected),
		string(slots.busy),
		sharedPersistence.FormatNullTime(interview.ScheduledAt()),
		sharedPersistence.NullString(platformString(interview.MeetingPlatform())),
		sharedPersistence.NullString(interview.InterviewerID()),
		sharedPersistence.NullString(interview.MeetingLink()),
		string(interview.MeetingLinkStatus()),
		sharedPersistence.NullString(interview.MeetingLinkError()),
		interview.RescheduleCount(),
		sharedPersistence.NullString(interview.CancelReason()),
		sharedPersistence.FormatTime(interview.UpdatedAt()),
		interview.ID().String(),
		interview.Version(),
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return r.staleError(ctx, exec, interview)
	}
	interview.SetVersion(interview.Version() + 1)
	return nil
}

func (r *SQLiteInterviewRepository) staleError(ctx context.Context, exec sharedPersistence.SQLExecutor, interview *domain.Interview) error {
	var current int
	err := exec.QueryRowContext(ctx, `SELECT version FROM interviews WHERE id = ?`, interview.ID().String()).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return sharedDomain.NewNotFoundError("interview", interview.ID())
	}
	if err != nil {
		return err
	}
	return sharedDomain.NewStaleStateError(interview.ID(), interview.Version(), current)
}

// FindByID retrieves an interview by its ID.
func (r *SQLiteInterviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Interview, error) {
	row := sharedPersistence.SQLiteExecutor(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+interviewColumns+` FROM interviews WHERE id = ?`, id.String())
	interview, err := scanSQLiteInterview(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return interview, err
}

// FindByEmployer retrieves every interview of an employer.
func (r *SQLiteInterviewRepository) FindByEmployer(ctx context.Context, employerID string) ([]*domain.Interview, error) {
	return r.query(ctx, `WHERE employer_id = ? ORDER BY created_at`, employerID)
}

// FindByCandidate retrieves every interview of a candidate.
func (r *SQLiteInterviewRepository) FindByCandidate(ctx context.Context, candidateID string) ([]*domain.Interview, error) {
	return r.query(ctx, `WHERE candidate_id = ? ORDER BY created_at`, candidateID)
}

// FindAwaiting retrieves interviews waiting on a party, oldest first.
func (r *SQLiteInterviewRepository) FindAwaiting(ctx context.Context, limit int) ([]*domain.Interview, error) {
	return r.query(ctx, `WHERE status IN (?, ?) ORDER BY updated_at LIMIT ?`,
		awaitingStatuses[0], awaitingStatuses[1], limit)
}

// FindNeedingLink retrieves upcoming scheduled interviews without a link.
func (r *SQLiteInterviewRepository) FindNeedingLink(ctx context.Context, startsAfter time.Time, limit int) ([]*domain.Interview, error) {
	return r.query(ctx, `
		WHERE status = ? AND meeting_link_status IN (?, ?) AND scheduled_at > ?
		ORDER BY scheduled_at LIMIT ?
	`, string(domain.StatusScheduled), string(domain.LinkPending), string(domain.LinkFailed),
		sharedPersistence.FormatTime(startsAfter), limit)
}

func (r *SQLiteInterviewRepository) query(ctx context.Context, where string, args ...any) ([]*domain.Interview, error) {
	rows, err := sharedPersistence.SQLiteExecutor(ctx, r.db).QueryContext(ctx,
		`SELECT `+interviewColumns+` FROM interviews `+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	interviews := make([]*domain.Interview, 0)
	for rows.Next() {
		interview, err := scanSQLiteInterview(rows)
		if err != nil {
			return nil, err
		}
		interviews = append(interviews, interview)
	}
	return interviews, rows.Err()
}

type sqlScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteInterview(s sqlScanner) (*domain.Interview, error) {
	var (
		id, applicationID        string
		proposed, selected, busy string
		scheduledAt              sql.NullString
		platform, interviewer    sql.NullString
		link, linkError, reason  sql.NullString
		createdAt, updatedAt     string
		row                      interviewRow
	)
	err := s.Scan(
		&id,
		&applicationID,
		&row.CandidateID,
		&row.EmployerID,
		&row.DurationMinutes,
		&row.Status,
		&proposed,
		&selected,
		&busy,
		&scheduledAt,
		&platform,
		&interviewer,
		&link,
		&row.LinkStatus,
		&linkError,
		&row.RescheduleCount,
		&reason,
		&createdAt,
		&updatedAt,
		&row.Version,
	)
	if err != nil {
		return nil, err
	}

	if row.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse interview id: %w", err)
	}
	if row.ApplicationID, err = uuid.Parse(applicationID); err != nil {
		return nil, fmt.Errorf("parse application id: %w", err)
	}
	if row.CreatedAt, err = sharedPersistence.ParseTime(createdAt); err != nil {
		return nil, err
	}
	if row.UpdatedAt, err = sharedPersistence.ParseTime(updatedAt); err != nil {
		return nil, err
	}
	row.ProposedSlots = []byte(proposed)
	row.SelectedSlots = []byte(selected)
	row.BusySlots = []byte(busy)
	row.ScheduledAt = sharedPersistence.ParseNullTime(scheduledAt)
	row.MeetingPlatform = sharedPersistence.NullStringPtr(platform)
	row.InterviewerID = sharedPersistence.NullStringPtr(interviewer)
	row.MeetingLink = sharedPersistence.NullStringPtr(link)
	row.LinkError = sharedPersistence.NullStringPtr(linkError)
	row.CancelReason = sharedPersistence.NullStringPtr(reason)
	return row.toInterview()
}
