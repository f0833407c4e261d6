package app

import (
	"context"
	"database/sql"
	"fmt"

	interviewDomain "github.com/felixgeelhaar/hireflow/internal/interviews/domain"
	interviewPersistence "github.com/felixgeelhaar/hireflow/internal/interviews/infrastructure/persistence"
	introDomain "github.com/felixgeelhaar/hireflow/internal/introductions/domain"
	introPersistence "github.com/felixgeelhaar/hireflow/internal/introductions/infrastructure/persistence"
	sharedApplication "github.com/felixgeelhaar/hireflow/internal/shared/application"
	"github.com/felixgeelhaar/hireflow/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/hireflow/internal/shared/infrastructure/outbox"
	sharedPersistence "github.com/felixgeelhaar/hireflow/internal/shared/infrastructure/persistence"
	teamDomain "github.com/felixgeelhaar/hireflow/internal/team/domain"
	teamPersistence "github.com/felixgeelhaar/hireflow/internal/team/infrastructure/persistence"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories groups every store the application needs for one backend.
type Repositories struct {
	Interviews    interviewDomain.Repository
	Introductions introDomain.Repository
	Directory     CandidateDirectory
	Roster        teamDomain.Repository
	Outbox        outbox.Repository
	UnitOfWork    sharedApplication.UnitOfWork
}

// CandidateDirectory reads and seeds candidate profiles.
type CandidateDirectory interface {
	introDomain.CandidateDirectory
	SaveProfile(ctx context.Context, profile introDomain.CandidateProfile) error
}

// RepositoryFactory creates repositories based on the database driver.
type RepositoryFactory struct {
	driver database.Driver
	pool   *pgxpool.Pool
	db     *sql.DB
}

// NewPostgresRepositoryFactory creates a factory over a pgx pool.
func NewPostgresRepositoryFactory(pool *pgxpool.Pool) *RepositoryFactory {
	return &RepositoryFactory{driver: database.DriverPostgres, pool: pool}
}

// NewSQLiteRepositoryFactory creates a factory over a SQLite handle.
func NewSQLiteRepositoryFactory(db *sql.DB) *RepositoryFactory {
	return &RepositoryFactory{driver: database.DriverSQLite, db: db}
}

// Driver returns the backend the factory builds for.
func (f *RepositoryFactory) Driver() database.Driver {
	return f.driver
}

// Build creates the full repository set for the configured driver.
func (f *RepositoryFactory) Build() (*Repositories, error) {
	switch f.driver {
	case database.DriverPostgres:
		if f.pool == nil {
			return nil, fmt.Errorf("postgres pool not configured")
		}
		return &Repositories{
			Interviews:    interviewPersistence.NewPostgresInterviewRepository(f.pool),
			Introductions: introPersistence.NewPostgresIntroductionRepository(f.pool),
			Directory:     introPersistence.NewPostgresCandidateDirectory(f.pool),
			Roster:        teamPersistence.NewPostgresRosterRepository(f.pool),
			Outbox:        outbox.NewPostgresRepository(f.pool),
			UnitOfWork:    sharedPersistence.NewPostgresUnitOfWork(f.pool),
		}, nil

	case database.DriverSQLite:
		if f.db == nil {
			return nil, fmt.Errorf("sqlite database not configured")
		}
		return &Repositories{
			Interviews:    interviewPersistence.NewSQLiteInterviewRepository(f.db),
			Introductions: introPersistence.NewSQLiteIntroductionRepository(f.db),
			Directory:     introPersistence.NewSQLiteCandidateDirectory(f.db),
			Roster:        teamPersistence.NewSQLiteRosterRepository(f.db),
			Outbox:        outbox.NewSQLiteRepository(f.db),
			UnitOfWork:    sharedPersistence.NewSQLiteUnitOfWork(f.db),
		}, nil

	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}
