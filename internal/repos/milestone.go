package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/devmatch/devmatch-backend/internal/logger"
  "github.com/devmatch/devmatch-backend/internal/types"
)

type MilestoneRepo interface {
  Create(ctx context.Context, tx *gorm.DB, milestone *types.Milestone) (*types.Milestone, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, milestoneIDs []uuid.UUID) ([]*types.Milestone, error)
  Update(ctx context.Context, tx *gorm.DB, milestone *types.Milestone) error
  ListByContractID(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) ([]*types.Milestone, error)
}

type milestoneRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewMilestoneRepo(db *gorm.DB, baseLog *logger.Logger) MilestoneRepo {
  return &milestoneRepo{db: db, log: baseLog.With("repo", "MilestoneRepo")}
}

func (mr *milestoneRepo) Create(ctx context.Context, tx *gorm.DB, milestone *types.Milestone) (*types.Milestone, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }

  if err := transaction.WithContext(ctx).Create(milestone).Error; err != nil {
    return nil, err
  }
  return milestone, nil
}

func (mr *milestoneRepo) GetByIDs(ctx context.Context, tx *gorm.DB, milestoneIDs []uuid.UUID) ([]*types.Milestone, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }

  var results []*types.Milestone
  if len(milestoneIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", milestoneIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (mr *milestoneRepo) Update(ctx context.Context, tx *gorm.DB, milestone *types.Milestone) error {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  return transaction.WithContext(ctx).Save(milestone).Error
}

func (mr *milestoneRepo) ListByContractID(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) ([]*types.Milestone, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }

  var results []*types.Milestone
  if err := transaction.WithContext(ctx).
    Where("contract_id = ?", contractID).
    Order("created_at ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
