package persistence

import (
	"context"
	"database/sql"

	sharedPersistence "github.com/felixgeelhaar/hireflow/internal/shared/infrastructure/persistence"
	"github.com/felixgeelhaar/hireflow/internal/team/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRosterRepository implements domain.Repository using PostgreSQL.
type PostgresRosterRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRosterRepository creates a new PostgreSQL roster repository.
func NewPostgresRosterRepository(pool *pgxpool.Pool) *PostgresRosterRepository {
	return &PostgresRosterRepository{pool: pool}
}

// Add inserts or updates a member.
func (r *PostgresRosterRepository) Add(ctx context.Context, m domain.Member) error {
	_, err := sharedPersistence.Executor(ctx, r.pool).Exec(ctx, `
		INSERT INTO team_members (employer_id, user_id, name, email)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (employer_id, user_id) DO UPDATE SET name = EXCLUDED.name, email = EXCLUDED.email
	`, m.EmployerID, m.UserID, m.Name, m.Email)
	return err
}

// Remove deletes a member. Removing an unknown member is not an error.
func (r *PostgresRosterRepository) Remove(ctx context.Context, employerID, userID string) error {
	_, err := sharedPersistence.Executor(ctx, r.pool).Exec(ctx,
		`DELETE FROM team_members WHERE employer_id = $1 AND user_id = $2`, employerID, userID)
	return err
}

// ListByEmployer returns the employer's members ordered by user ID.
func (r *PostgresRosterRepository) ListByEmployer(ctx context.Context, employerID string) ([]domain.Member, error) {
	rows, err := sharedPersistence.Executor(ctx, r.pool).Query(ctx, `
		SELECT employer_id, user_id, name, email FROM team_members
		WHERE employer_id = $1 ORDER BY user_id
	`, employerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]domain.Member, 0)
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(&m.EmployerID, &m.UserID, &m.Name, &m.Email); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// SQLiteRosterRepository implements domain.Repository using SQLite.
type SQLiteRosterRepository struct {
	db *sql.DB
}

// NewSQLiteRosterRepository creates a new SQLite roster repository.
func NewSQLiteRosterRepository(db *sql.DB) *SQLiteRosterRepository {
	return &SQLiteRosterRepository{db: db}
}

// Add inserts or updates a member.
func (r *SQLiteRosterRepository) Add(ctx context.Context, m domain.Member) error {
	_, err := sharedPersistence.SQLiteExecutor(ctx, r.db).ExecContext(ctx, `
		INSERT INTO team_members (employer_id, user_id, name, email)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (employer_id, user_id) DO UPDATE SET name = excluded.name, email = excluded.email
	`, m.EmployerID, m.UserID, m.Name, m.Email)
	return err
}

// Remove deletes a member. Removing an unknown member is not an error.
func (r *SQLiteRosterRepository) Remove(ctx context.Context, employerID, userID string) error {
	_, err := sharedPersistence.SQLiteExecutor(ctx, r.db).ExecContext(ctx,
		`DELETE FROM team_members WHERE employer_id = ? AND user_id = ?`, employerID, userID)
	return err
}

// ListByEmployer returns the employer's members ordered by user ID.
func (r *SQLiteRosterRepository) ListByEmployer(ctx context.Context, employerID string) ([]domain.Member, error) {
	rows, err := sharedPersistence.SQLiteExecutor(ctx, r.db).QueryContext(ctx, `
		SELECT employer_id, user_id, name, email FROM team_members
		WHERE employer_id = ? ORDER BY user_id
	`, employerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]domain.Member, 0)
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(&m.EmployerID, &m.UserID, &m.Name, &m.Email); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// Roster adapts a Repository to the interviewer roster port.
type Roster struct {
	Repo domain.Repository
}

// Members returns the user IDs on the employer's team.
func (r Roster) Members(ctx context.Context, employerID string) ([]string, error) {
	members, err := r.Repo.ListByEmployer(ctx, employerID)
	if err != nil {
		return nil, err
	}
	return domain.UserIDs(members), nil
}
