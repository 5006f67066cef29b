package services

import (
  "context"
  "strings"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/devmatch/devmatch-backend/internal/apierr"
  "github.com/devmatch/devmatch-backend/internal/logger"
  "github.com/devmatch/devmatch-backend/internal/repos"
  "github.com/devmatch/devmatch-backend/internal/types"
)

const minDisputeJustificationLen = 20

// OpenDisputeCommand is the validated boundary input for a contestation.
type OpenDisputeCommand struct {
  FeedbackID           uuid.UUID
  JustificativaDisputa string
  EvidenciasPath       string
}

type DisputeService interface {
  Open(ctx context.Context, tx *gorm.DB, cmd OpenDisputeCommand, actingUserID uuid.UUID) (*types.FeedbackDispute, error)
  Decide(ctx context.Context, tx *gorm.DB, disputeID uuid.UUID, decision types.DisputeDecision, actingAdminID uuid.UUID) (*types.FeedbackDispute, error)
  ListOpen(ctx context.Context, tx *gorm.DB) ([]*types.FeedbackDispute, error)
  ListMine(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.FeedbackDispute, error)
}

type disputeService struct {
  db           *gorm.DB
  log          *logger.Logger
  disputeRepo  repos.DisputeRepo
  feedbackRepo repos.FeedbackRepo
  reputation   ReputationService
  admins       AdminChecker
}

func NewDisputeService(
  db *gorm.DB,
  baseLog *logger.Logger,
  disputeRepo repos.DisputeRepo,
  feedbackRepo repos.FeedbackRepo,
  reputation ReputationService,
  admins AdminChecker,
) DisputeService {
  return &disputeService{
    db:           db,
    log:          baseLog.With("service", "DisputeService"),
    disputeRepo:  disputeRepo,
    feedbackRepo: feedbackRepo,
    reputation:   reputation,
    admins:       admins,
  }
}

// Open lets the rated party contest a feedback entry. One OPEN dispute per
// feedback is the partial unique index, so a concurrent second open loses.
func (s *disputeService) Open(ctx context.Context, tx *gorm.DB, cmd OpenDisputeCommand, actingUserID uuid.UUID) (*types.FeedbackDispute, error) {
  if len(strings.TrimSpace(cmd.JustificativaDisputa)) < minDisputeJustificationLen {
    return nil, apierr.Validation("justificativaDisputa must have at least %d characters", minDisputeJustificationLen)
  }

  feedbacks, err := s.feedbackRepo.GetByIDs(ctx, tx, []uuid.UUID{cmd.FeedbackID})
  if err != nil {
    return nil, err
  }
  if len(feedbacks) == 0 || feedbacks[0] == nil {
    return nil, apierr.NotFound("feedback not found")
  }
  feedback := feedbacks[0]
  if actingUserID != feedback.RatedID {
    return nil, apierr.Authorization("only the rated party may dispute a feedback")
  }

  dispute := &types.FeedbackDispute{
    FeedbackID:           feedback.ID,
    OpenedByUserID:       actingUserID,
    JustificativaDisputa: cmd.JustificativaDisputa,
    EvidenciasPath:       cmd.EvidenciasPath,
    Status:               types.DisputeOpen,
    CreatedAt:            time.Now().UTC(),
  }
  created, err := s.disputeRepo.Create(ctx, tx, dispute)
  if err != nil {
    s.log.Warn("Open dispute failed", "error", err, "feedback_id", cmd.FeedbackID)
    return nil, err
  }
  s.log.Info("Dispute opened", "dispute_id", created.ID, "feedback_id", feedback.ID)
  return created, nil
}

// Decide closes the dispute with the admin's binding decision. AJUSTADA
// marks the feedback as overturned for aggregation, so the rated party's
// reputation is recomputed; stored scores stay untouched.
func (s *disputeService) Decide(ctx context.Context, tx *gorm.DB, disputeID uuid.UUID, decision types.DisputeDecision, actingAdminID uuid.UUID) (*types.FeedbackDispute, error) {
  if !decision.Valid() {
    return nil, apierr.Validation("decisao must be %s or %s", types.DecisionMantida, types.DecisionAjustada)
  }
  if !s.admins.IsAdmin(ctx, actingAdminID) {
    return nil, apierr.Authorization("only an admin may decide a dispute")
  }

  var decided *types.FeedbackDispute
  var recomputedUserID uuid.UUID
  err := s.inTransaction(tx, func(txn *gorm.DB) error {
    disputes, err := s.disputeRepo.GetByIDs(ctx, txn, []uuid.UUID{disputeID})
    if err != nil {
      return err
    }
    if len(disputes) == 0 || disputes[0] == nil {
      return apierr.NotFound("dispute not found")
    }
    dispute := disputes[0]
    if dispute.Status != types.DisputeOpen {
      return apierr.InvalidState("dispute is already closed")
    }

    now := time.Now().UTC()
    dispute.Status = types.DisputeClosed
    dispute.DecisaoMediacao = &decision
    dispute.ResolvedAt = &now
    if err := s.disputeRepo.Update(ctx, txn, dispute); err != nil {
      return err
    }

    if decision == types.DecisionAjustada {
      feedbacks, err := s.feedbackRepo.GetByIDs(ctx, txn, []uuid.UUID{dispute.FeedbackID})
      if err != nil {
        return err
      }
      if len(feedbacks) > 0 && feedbacks[0] != nil {
        if err := s.reputation.Recompute(ctx, txn, feedbacks[0].RatedID); err != nil {
          return err
        }
        recomputedUserID = feedbacks[0].RatedID
      }
    }
    decided = dispute
    return nil
  })
  if err != nil {
    s.log.Warn("Decide dispute failed", "error", err, "dispute_id", disputeID)
    return nil, err
  }
  if recomputedUserID != uuid.Nil {
    s.reputation.InvalidateCached(ctx, recomputedUserID)
  }
  s.log.Info("Dispute decided", "dispute_id", disputeID, "decisao", decision, "admin_id", actingAdminID)
  return decided, nil
}

func (s *disputeService) ListOpen(ctx context.Context, tx *gorm.DB) ([]*types.FeedbackDispute, error) {
  return s.disputeRepo.ListOpen(ctx, tx)
}

func (s *disputeService) ListMine(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.FeedbackDispute, error) {
  return s.disputeRepo.ListByOpenedBy(ctx, tx, userID)
}

func (s *disputeService) inTransaction(tx *gorm.DB, fn func(txn *gorm.DB) error) error {
  if tx != nil {
    return fn(tx)
  }
  return s.db.Transaction(fn)
}
