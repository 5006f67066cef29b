package services

import (
  "context"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/devmatch/devmatch-backend/internal/logger"
  "github.com/devmatch/devmatch-backend/internal/repos"
  "github.com/devmatch/devmatch-backend/internal/types"
)

// ReputationService maintains the per-user aggregate of effective feedback.
// Feedback overturned by an AJUSTADA dispute decision is excluded from the
// recompute; the feedback rows themselves are never rewritten.
type ReputationService interface {
  Recompute(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
  InvalidateCached(ctx context.Context, userID uuid.UUID)
  Get(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserReputation, error)
}

type reputationService struct {
  db             *gorm.DB
  log            *logger.Logger
  feedbackRepo   repos.FeedbackRepo
  reputationRepo repos.ReputationRepo
  cache          ReputationCache
}

func NewReputationService(
  db *gorm.DB,
  baseLog *logger.Logger,
  feedbackRepo repos.FeedbackRepo,
  reputationRepo repos.ReputationRepo,
  cache ReputationCache,
) ReputationService {
  return &reputationService{
    db:             db,
    log:            baseLog.With("service", "ReputationService"),
    feedbackRepo:   feedbackRepo,
    reputationRepo: reputationRepo,
    cache:          cache,
  }
}

func (s *reputationService) Recompute(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
  feedbacks, err := s.feedbackRepo.ListEffectiveByRatedID(ctx, tx, userID)
  if err != nil {
    return err
  }

  if len(feedbacks) == 0 {
    return s.reputationRepo.DeleteByUserID(ctx, tx, userID)
  }

  var sum float64
  for _, f := range feedbacks {
    sum += f.Stars()
  }
  media := sum / float64(len(feedbacks))

  rep := &types.UserReputation{
    UserID:         userID,
    ScoreMedio:     roundOneDecimal(media),
    TotalFeedbacks: int64(len(feedbacks)),
    UpdatedAt:      time.Now().UTC(),
  }
  if err := s.reputationRepo.Upsert(ctx, tx, rep); err != nil {
    return err
  }
  s.log.Debug("Reputation recomputed", "user_id", userID, "score_medio", rep.ScoreMedio, "total", rep.TotalFeedbacks)
  return nil
}

// InvalidateCached drops the cached aggregate. Recompute runs inside the
// caller's transaction and never touches the cache: a Get racing an in-tx
// invalidation could repopulate it from the pre-commit row. Callers
// invalidate after their transaction commits.
func (s *reputationService) InvalidateCached(ctx context.Context, userID uuid.UUID) {
  s.cache.Invalidate(ctx, userID)
}

func (s *reputationService) Get(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserReputation, error) {
  if rep, ok := s.cache.Get(ctx, userID); ok {
    return rep, nil
  }
  rep, err := s.reputationRepo.GetByUserID(ctx, tx, userID)
  if err != nil {
    return nil, err
  }
  if rep != nil {
    s.cache.Set(ctx, userID, rep)
  }
  return rep, nil
}

func roundOneDecimal(v float64) float64 {
  return float64(int(v*10+0.5)) / 10
}
