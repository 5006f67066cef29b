package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/devmatch/devmatch-backend/internal/apierr"
  "github.com/devmatch/devmatch-backend/internal/logger"
  "github.com/devmatch/devmatch-backend/internal/types"
)

type FeedbackRepo interface {
  Create(ctx context.Context, tx *gorm.DB, feedback *types.Feedback) (*types.Feedback, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, feedbackIDs []uuid.UUID) ([]*types.Feedback, error)
  ListByRatedID(ctx context.Context, tx *gorm.DB, ratedID uuid.UUID) ([]*types.Feedback, error)
  ListByRaterID(ctx context.Context, tx *gorm.DB, raterID uuid.UUID) ([]*types.Feedback, error)
  // ListEffectiveByRatedID skips feedback overturned by an AJUSTADA dispute
  // decision; it feeds the reputation recompute.
  ListEffectiveByRatedID(ctx context.Context, tx *gorm.DB, ratedID uuid.UUID) ([]*types.Feedback, error)
  ExistsByProjectAndRater(ctx context.Context, tx *gorm.DB, projectID, raterID uuid.UUID) (bool, error)
}

type feedbackRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewFeedbackRepo(db *gorm.DB, baseLog *logger.Logger) FeedbackRepo {
  return &feedbackRepo{db: db, log: baseLog.With("repo", "FeedbackRepo")}
}

func (fr *feedbackRepo) Create(ctx context.Context, tx *gorm.DB, feedback *types.Feedback) (*types.Feedback, error) {
  transaction := tx
  if transaction == nil {
    transaction = fr.db
  }

  if err := transaction.WithContext(ctx).Create(feedback).Error; err != nil {
    if isUniqueViolation(err, "idx_project_rater") {
      return nil, apierr.Duplicate("you already rated this project")
    }
    return nil, err
  }
  return feedback, nil
}

func (fr *feedbackRepo) GetByIDs(ctx context.Context, tx *gorm.DB, feedbackIDs []uuid.UUID) ([]*types.Feedback, error) {
  transaction := tx
  if transaction == nil {
    transaction = fr.db
  }

  var results []*types.Feedback
  if len(feedbackIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", feedbackIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (fr *feedbackRepo) ListByRatedID(ctx context.Context, tx *gorm.DB, ratedID uuid.UUID) ([]*types.Feedback, error) {
  return fr.listBy(ctx, tx, "rated_id = ?", ratedID)
}

func (fr *feedbackRepo) ListByRaterID(ctx context.Context, tx *gorm.DB, raterID uuid.UUID) ([]*types.Feedback, error) {
  return fr.listBy(ctx, tx, "rater_id = ?", raterID)
}

func (fr *feedbackRepo) listBy(ctx context.Context, tx *gorm.DB, cond string, userID uuid.UUID) ([]*types.Feedback, error) {
  transaction := tx
  if transaction == nil {
    transaction = fr.db
  }

  var results []*types.Feedback
  if err := transaction.WithContext(ctx).
    Where(cond, userID).
    Order("data_avaliacao DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (fr *feedbackRepo) ListEffectiveByRatedID(ctx context.Context, tx *gorm.DB, ratedID uuid.UUID) ([]*types.Feedback, error) {
  transaction := tx
  if transaction == nil {
    transaction = fr.db
  }

  var results []*types.Feedback
  if err := transaction.WithContext(ctx).
    Where(`rated_id = ? AND NOT EXISTS (
      SELECT 1 FROM feedback_disputes d
      WHERE d.feedback_id = feedback.id AND d.decisao_mediacao = ?
    )`, ratedID, types.DecisionAjustada).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (fr *feedbackRepo) ExistsByProjectAndRater(ctx context.Context, tx *gorm.DB, projectID, raterID uuid.UUID) (bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = fr.db
  }

  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.Feedback{}).
    Where("project_id = ? AND rater_id = ?", projectID, raterID).
    Count(&count).Error; err != nil {
    return false, err
  }
  return count > 0, nil
}
