package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"
  "github.com/devmatch/devmatch-backend/internal/logger"
  "github.com/devmatch/devmatch-backend/internal/types"
)

type ReputationRepo interface {
  Upsert(ctx context.Context, tx *gorm.DB, rep *types.UserReputation) error
  GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserReputation, error)
  DeleteByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
}

type reputationRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewReputationRepo(db *gorm.DB, baseLog *logger.Logger) ReputationRepo {
  return &reputationRepo{db: db, log: baseLog.With("repo", "ReputationRepo")}
}

func (rr *reputationRepo) Upsert(ctx context.Context, tx *gorm.DB, rep *types.UserReputation) error {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }

  return transaction.WithContext(ctx).
    Clauses(clause.OnConflict{
      Columns:   []clause.Column{{Name: "user_id"}},
      DoUpdates: clause.AssignmentColumns([]string{"score_medio", "total_feedbacks", "updated_at"}),
    }).
    Create(rep).Error
}

func (rr *reputationRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserReputation, error) {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }

  var results []*types.UserReputation
  if err := transaction.WithContext(ctx).
    Where("user_id = ?", userID).
    Limit(1).
    Find(&results).Error; err != nil {
    return nil, err
  }
  if len(results) == 0 {
    return nil, nil
  }
  return results[0], nil
}

func (rr *reputationRepo) DeleteByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }
  return transaction.WithContext(ctx).
    Where("user_id = ?", userID).
    Delete(&types.UserReputation{}).Error
}
