package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/devmatch/devmatch-backend/internal/apierr"
  "github.com/devmatch/devmatch-backend/internal/logger"
  "github.com/devmatch/devmatch-backend/internal/types"
)

type DisputeRepo interface {
  Create(ctx context.Context, tx *gorm.DB, dispute *types.FeedbackDispute) (*types.FeedbackDispute, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, disputeIDs []uuid.UUID) ([]*types.FeedbackDispute, error)
  Update(ctx context.Context, tx *gorm.DB, dispute *types.FeedbackDispute) error
  ListOpen(ctx context.Context, tx *gorm.DB) ([]*types.FeedbackDispute, error)
  ListByOpenedBy(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.FeedbackDispute, error)
  CountOpenByOpenedBy(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
}

type disputeRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewDisputeRepo(db *gorm.DB, baseLog *logger.Logger) DisputeRepo {
  return &disputeRepo{db: db, log: baseLog.With("repo", "DisputeRepo")}
}

func (dr *disputeRepo) Create(ctx context.Context, tx *gorm.DB, dispute *types.FeedbackDispute) (*types.FeedbackDispute, error) {
  transaction := tx
  if transaction == nil {
    transaction = dr.db
  }

  if err := transaction.WithContext(ctx).Create(dispute).Error; err != nil {
    if isUniqueViolation(err, "uniq_dispute_open_per_feedback") {
      return nil, apierr.Conflict("feedback already has an open dispute")
    }
    return nil, err
  }
  return dispute, nil
}

func (dr *disputeRepo) GetByIDs(ctx context.Context, tx *gorm.DB, disputeIDs []uuid.UUID) ([]*types.FeedbackDispute, error) {
  transaction := tx
  if transaction == nil {
    transaction = dr.db
  }

  var results []*types.FeedbackDispute
  if len(disputeIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", disputeIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (dr *disputeRepo) Update(ctx context.Context, tx *gorm.DB, dispute *types.FeedbackDispute) error {
  transaction := tx
  if transaction == nil {
    transaction = dr.db
  }
  return transaction.WithContext(ctx).Save(dispute).Error
}

// ListOpen is the admin queue, oldest first.
func (dr *disputeRepo) ListOpen(ctx context.Context, tx *gorm.DB) ([]*types.FeedbackDispute, error) {
  transaction := tx
  if transaction == nil {
    transaction = dr.db
  }

  var results []*types.FeedbackDispute
  if err := transaction.WithContext(ctx).
    Where("status = ?", types.DisputeOpen).
    Order("created_at ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (dr *disputeRepo) ListByOpenedBy(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.FeedbackDispute, error) {
  transaction := tx
  if transaction == nil {
    transaction = dr.db
  }

  var results []*types.FeedbackDispute
  if err := transaction.WithContext(ctx).
    Where("opened_by_user_id = ?", userID).
    Order("created_at DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (dr *disputeRepo) CountOpenByOpenedBy(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = dr.db
  }

  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.FeedbackDispute{}).
    Where("opened_by_user_id = ? AND status = ?", userID, types.DisputeOpen).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}
