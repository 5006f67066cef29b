package db

import (
  "fmt"
  "gorm.io/driver/postgres"
  "gorm.io/gorm"
  "github.com/devmatch/devmatch-backend/internal/types"
  "github.com/devmatch/devmatch-backend/internal/utils"
  "github.com/devmatch/devmatch-backend/internal/logger"
)

type PostgresService struct {
  db *gorm.DB
  log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
  serviceLog := log.With("service", "PostgresService")

  log.Info("Loading environment variables...")
  postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
  postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
  postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
  postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
  postgresName := utils.GetEnv("POSTGRES_NAME", "devmatch", log)

  dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

  log.Info("Connecting to Postgres...")
  db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
    DisableForeignKeyConstraintWhenMigrating: true,
  })
  if err != nil {
    log.Error("Failed to connect to Postgres", "error", err)
    return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
  }

  if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
    log.Error("Failed to enable uuid-ossp extension", "error", err)
    return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
  }

  return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
  s.log.Info("Auto migrating postgres tables...")
  err := s.db.AutoMigrate(
    &types.Contract{},
    &types.Milestone{},
    &types.Delivery{},
    &types.Feedback{},
    &types.FeedbackDispute{},
    &types.UserReputation{},
  )
  if err != nil {
    s.log.Error("Auto migration failed for postgres tables", "error", err)
    return err
  }
  return s.EnsureConstraints()
}

// EnsureConstraints creates the partial unique indexes AutoMigrate cannot
// express. They close the concurrent-write races at commit time: a second
// pending/active contract for the same (job, developer), a second unreviewed
// delivery and a second open dispute all fail as unique violations.
func (s *PostgresService) EnsureConstraints() error {
  s.log.Info("Ensuring partial unique indexes...")
  stmts := []string{
    `CREATE UNIQUE INDEX IF NOT EXISTS uniq_contract_open_per_job_dev
       ON contracts (job_id, developer_id)
       WHERE status IN ('PENDING_TEST_APPROVAL', 'ACTIVE')`,
    `CREATE UNIQUE INDEX IF NOT EXISTS uniq_delivery_unreviewed_per_milestone
       ON deliveries (milestone_id)
       WHERE reviewed = false`,
    `CREATE UNIQUE INDEX IF NOT EXISTS uniq_dispute_open_per_feedback
       ON feedback_disputes (feedback_id)
       WHERE status = 'OPEN'`,
  }
  for _, stmt := range stmts {
    if err := s.db.Exec(stmt).Error; err != nil {
      s.log.Error("Failed to create partial unique index", "error", err)
      return fmt.Errorf("failed to create partial unique index: %w", err)
    }
  }
  return nil
}

func (s *PostgresService) DB() *gorm.DB {
  return s.db
}
