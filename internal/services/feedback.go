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

const minFeedbackCommentLen = 20

// SubmitFeedbackCommand is the validated boundary input for a rating.
type SubmitFeedbackCommand struct {
  ProjectID         uuid.UUID
  RatedID           uuid.UUID
  RatedRole         types.FeedbackRole
  QualidadeTecnica  int
  CumprimentoPrazos int
  Comunicacao       int
  Colaboracao       int
  Comentario        string
}

// FeedbackEligibility names one finished contract the user has not rated yet.
type FeedbackEligibility struct {
  ProjectID        uuid.UUID          `json:"projectId"`
  CounterpartyID   uuid.UUID          `json:"counterpartyId"`
  CounterpartyRole types.FeedbackRole `json:"counterpartyRole"`
}

// FeedbackSummary are the dashboard counters for one user.
type FeedbackSummary struct {
  ProjetosFinalizados int64 `json:"projetosFinalizados"`
  FeedbacksRecebidos  int64 `json:"feedbacksRecebidos"`
  FeedbacksRealizados int64 `json:"feedbacksRealizados"`
  ContestacoesAbertas int64 `json:"contestacoesAbertas"`
}

type FeedbackService interface {
  Submit(ctx context.Context, tx *gorm.DB, raterID uuid.UUID, cmd SubmitFeedbackCommand) (*types.Feedback, error)
  Eligibility(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]FeedbackEligibility, error)
  GetReceived(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Feedback, error)
  GetGiven(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Feedback, error)
  GetByID(ctx context.Context, tx *gorm.DB, feedbackID uuid.UUID) (*types.Feedback, error)
  Summary(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*FeedbackSummary, error)
}

type feedbackService struct {
  db           *gorm.DB
  log          *logger.Logger
  feedbackRepo repos.FeedbackRepo
  contractRepo repos.ContractRepo
  disputeRepo  repos.DisputeRepo
  reputation   ReputationService
}

func NewFeedbackService(
  db *gorm.DB,
  baseLog *logger.Logger,
  feedbackRepo repos.FeedbackRepo,
  contractRepo repos.ContractRepo,
  disputeRepo repos.DisputeRepo,
  reputation ReputationService,
) FeedbackService {
  return &feedbackService{
    db:           db,
    log:          baseLog.With("service", "FeedbackService"),
    feedbackRepo: feedbackRepo,
    contractRepo: contractRepo,
    disputeRepo:  disputeRepo,
    reputation:   reputation,
  }
}

// Submit records a rating and refreshes the rated user's reputation in one
// transaction. Eligibility requires a finished contract joining rater and
// rated on the project; the one-feedback-per-rater rule is the unique index,
// not a read-then-write check, so a concurrent duplicate loses cleanly.
func (s *feedbackService) Submit(ctx context.Context, tx *gorm.DB, raterID uuid.UUID, cmd SubmitFeedbackCommand) (*types.Feedback, error) {
  if cmd.ProjectID == uuid.Nil || cmd.RatedID == uuid.Nil {
    return nil, apierr.Validation("projectId and ratedId are required")
  }
  if !cmd.RatedRole.Valid() {
    return nil, apierr.Validation("ratedRole must be %s or %s", types.RoleCompany, types.RoleDeveloper)
  }
  for _, score := range []int{cmd.QualidadeTecnica, cmd.CumprimentoPrazos, cmd.Comunicacao, cmd.Colaboracao} {
    if score < 1 || score > 5 {
      return nil, apierr.Validation("scores must be between 1 and 5")
    }
  }
  comentario := strings.TrimSpace(cmd.Comentario)
  if comentario != "" && len(comentario) < minFeedbackCommentLen {
    return nil, apierr.Validation("comentario must have at least %d characters when present", minFeedbackCommentLen)
  }

  if err := s.checkEligible(ctx, tx, raterID, cmd); err != nil {
    return nil, err
  }

  feedback := &types.Feedback{
    ProjectID:         cmd.ProjectID,
    RaterID:           raterID,
    RatedID:           cmd.RatedID,
    RatedRole:         cmd.RatedRole,
    QualidadeTecnica:  cmd.QualidadeTecnica,
    CumprimentoPrazos: cmd.CumprimentoPrazos,
    Comunicacao:       cmd.Comunicacao,
    Colaboracao:       cmd.Colaboracao,
    Comentario:        cmd.Comentario,
    DataAvaliacao:     time.Now().UTC(),
  }
  feedback.Estrelas = feedback.Stars()

  err := s.inTransaction(tx, func(txn *gorm.DB) error {
    created, err := s.feedbackRepo.Create(ctx, txn, feedback)
    if err != nil {
      return err
    }
    feedback = created
    return s.reputation.Recompute(ctx, txn, feedback.RatedID)
  })
  if err != nil {
    s.log.Warn("Submit feedback failed", "error", err, "project_id", cmd.ProjectID, "rater_id", raterID)
    return nil, err
  }
  s.reputation.InvalidateCached(ctx, feedback.RatedID)
  s.log.Info("Feedback submitted", "feedback_id", feedback.ID, "project_id", cmd.ProjectID, "estrelas", feedback.Estrelas)
  return feedback, nil
}

// checkEligible verifies a finished contract joins rater and rated on the
// project, and that the declared role matches the counterparty's actual role.
func (s *feedbackService) checkEligible(ctx context.Context, tx *gorm.DB, raterID uuid.UUID, cmd SubmitFeedbackCommand) error {
  finished, err := s.contractRepo.ListFinishedForUser(ctx, tx, raterID)
  if err != nil {
    return err
  }
  for _, contract := range finished {
    if contract.JobID != cmd.ProjectID {
      continue
    }
    counterpartyID, counterpartyRole, ok := contract.OtherParty(raterID)
    if !ok || counterpartyID != cmd.RatedID {
      continue
    }
    if counterpartyRole != cmd.RatedRole {
      return apierr.Validation("ratedRole %s does not match the counterparty's role in this contract", cmd.RatedRole)
    }
    return nil
  }
  return apierr.Validation("feedback requires a finished contract between rater and rated for this project")
}

func (s *feedbackService) Eligibility(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]FeedbackEligibility, error) {
  finished, err := s.contractRepo.ListFinishedForUser(ctx, tx, userID)
  if err != nil {
    return nil, err
  }

  entries := []FeedbackEligibility{}
  for _, contract := range finished {
    counterpartyID, counterpartyRole, ok := contract.OtherParty(userID)
    if !ok {
      continue
    }
    exists, err := s.feedbackRepo.ExistsByProjectAndRater(ctx, tx, contract.JobID, userID)
    if err != nil {
      return nil, err
    }
    if exists {
      continue
    }
    entries = append(entries, FeedbackEligibility{
      ProjectID:        contract.JobID,
      CounterpartyID:   counterpartyID,
      CounterpartyRole: counterpartyRole,
    })
  }
  return entries, nil
}

func (s *feedbackService) GetReceived(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Feedback, error) {
  return s.feedbackRepo.ListByRatedID(ctx, tx, userID)
}

func (s *feedbackService) GetGiven(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Feedback, error) {
  return s.feedbackRepo.ListByRaterID(ctx, tx, userID)
}

func (s *feedbackService) GetByID(ctx context.Context, tx *gorm.DB, feedbackID uuid.UUID) (*types.Feedback, error) {
  feedbacks, err := s.feedbackRepo.GetByIDs(ctx, tx, []uuid.UUID{feedbackID})
  if err != nil {
    return nil, err
  }
  if len(feedbacks) == 0 || feedbacks[0] == nil {
    return nil, apierr.NotFound("feedback not found")
  }
  return feedbacks[0], nil
}

func (s *feedbackService) Summary(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*FeedbackSummary, error) {
  finished, err := s.contractRepo.ListFinishedForUser(ctx, tx, userID)
  if err != nil {
    return nil, err
  }
  received, err := s.feedbackRepo.ListByRatedID(ctx, tx, userID)
  if err != nil {
    return nil, err
  }
  given, err := s.feedbackRepo.ListByRaterID(ctx, tx, userID)
  if err != nil {
    return nil, err
  }
  openDisputes, err := s.disputeRepo.CountOpenByOpenedBy(ctx, tx, userID)
  if err != nil {
    return nil, err
  }

  return &FeedbackSummary{
    ProjetosFinalizados: int64(len(finished)),
    FeedbacksRecebidos:  int64(len(received)),
    FeedbacksRealizados: int64(len(given)),
    ContestacoesAbertas: openDisputes,
  }, nil
}

func (s *feedbackService) inTransaction(tx *gorm.DB, fn func(txn *gorm.DB) error) error {
  if tx != nil {
    return fn(tx)
  }
  return s.db.Transaction(fn)
}
