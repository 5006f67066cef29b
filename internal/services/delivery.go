package services

import (
  "context"
  "encoding/json"
  "strings"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/devmatch/devmatch-backend/internal/apierr"
  "github.com/devmatch/devmatch-backend/internal/logger"
  "github.com/devmatch/devmatch-backend/internal/repos"
  "github.com/devmatch/devmatch-backend/internal/types"
)

const (
  minDeliveryDescriptionLen = 50
  minReviewCommentLen       = 20
)

// SubmitDeliveryCommand is the validated boundary input for a submission.
// ArquivosEntrega carries opaque file/link references.
type SubmitDeliveryCommand struct {
  MilestoneID      uuid.UUID
  DescricaoEntrega string
  ArquivosEntrega  []string
  HorasTrabalhadas *float64
}

type DeliveryService interface {
  Submit(ctx context.Context, tx *gorm.DB, cmd SubmitDeliveryCommand, actingUserID uuid.UUID) (*types.Delivery, error)
  Review(ctx context.Context, tx *gorm.DB, deliveryID uuid.UUID, approved bool, comentario string, actingUserID uuid.UUID) (*types.Delivery, error)
  GetByID(ctx context.Context, tx *gorm.DB, deliveryID uuid.UUID) (*types.Delivery, error)
  ListByMilestone(ctx context.Context, tx *gorm.DB, milestoneID uuid.UUID) ([]*types.Delivery, error)
  ListByDeveloper(ctx context.Context, tx *gorm.DB, developerID uuid.UUID) ([]*types.Delivery, error)
}

type deliveryService struct {
  db            *gorm.DB
  log           *logger.Logger
  deliveryRepo  repos.DeliveryRepo
  milestoneRepo repos.MilestoneRepo
  contractRepo  repos.ContractRepo
}

func NewDeliveryService(
  db *gorm.DB,
  baseLog *logger.Logger,
  deliveryRepo repos.DeliveryRepo,
  milestoneRepo repos.MilestoneRepo,
  contractRepo repos.ContractRepo,
) DeliveryService {
  return &deliveryService{
    db:            db,
    log:           baseLog.With("service", "DeliveryService"),
    deliveryRepo:  deliveryRepo,
    milestoneRepo: milestoneRepo,
    contractRepo:  contractRepo,
  }
}

// Submit creates a delivery and moves the milestone to DELIVERED in one
// transaction. A milestone takes a submission when the developer has accepted
// it, or again after a rejected review. The one-unreviewed-delivery rule is a
// commit-time constraint, so concurrent submits cannot both win.
func (s *deliveryService) Submit(ctx context.Context, tx *gorm.DB, cmd SubmitDeliveryCommand, actingUserID uuid.UUID) (*types.Delivery, error) {
  if len(strings.TrimSpace(cmd.DescricaoEntrega)) < minDeliveryDescriptionLen {
    return nil, apierr.Validation("descricaoEntrega must have at least %d characters", minDeliveryDescriptionLen)
  }
  if len(cmd.ArquivosEntrega) == 0 {
    return nil, apierr.Validation("arquivosEntrega must not be empty")
  }
  if cmd.HorasTrabalhadas != nil && *cmd.HorasTrabalhadas < 0 {
    return nil, apierr.Validation("horasTrabalhadas must not be negative")
  }

  var created *types.Delivery
  err := s.inTransaction(tx, func(txn *gorm.DB) error {
    milestone, err := s.getMilestone(ctx, txn, cmd.MilestoneID)
    if err != nil {
      return err
    }
    contract, err := s.getContract(ctx, txn, milestone.ContractID)
    if err != nil {
      return err
    }
    if actingUserID != contract.DeveloperID {
      return apierr.Authorization("only the contract's developer may submit a delivery")
    }
    if milestone.Status != types.MilestoneAcceptedByDev && milestone.Status != types.MilestoneRejected {
      return apierr.InvalidState("milestone is %s, not awaiting a delivery", milestone.Status)
    }

    arquivos, err := json.Marshal(cmd.ArquivosEntrega)
    if err != nil {
      return err
    }
    delivery := &types.Delivery{
      MilestoneID:      milestone.ID,
      DeveloperID:      actingUserID,
      DescricaoEntrega: cmd.DescricaoEntrega,
      ArquivosEntrega:  arquivos,
      HorasTrabalhadas: cmd.HorasTrabalhadas,
      SubmittedAt:      time.Now().UTC(),
      Reviewed:         false,
    }
    created, err = s.deliveryRepo.Create(ctx, txn, delivery)
    if err != nil {
      return err
    }

    milestone.Status = types.MilestoneDelivered
    return s.milestoneRepo.Update(ctx, txn, milestone)
  })
  if err != nil {
    s.log.Warn("Submit delivery failed", "error", err, "milestone_id", cmd.MilestoneID)
    return nil, err
  }
  s.log.Info("Delivery submitted", "delivery_id", created.ID, "milestone_id", cmd.MilestoneID)
  return created, nil
}

// Review is terminal for the delivery. A rejection needs a substantive
// comment and re-opens the milestone for a fresh submission.
func (s *deliveryService) Review(ctx context.Context, tx *gorm.DB, deliveryID uuid.UUID, approved bool, comentario string, actingUserID uuid.UUID) (*types.Delivery, error) {
  if !approved && len(strings.TrimSpace(comentario)) < minReviewCommentLen {
    return nil, apierr.Validation("comentarioRevisao must have at least %d characters when rejecting", minReviewCommentLen)
  }

  var reviewed *types.Delivery
  err := s.inTransaction(tx, func(txn *gorm.DB) error {
    delivery, err := s.getDelivery(ctx, txn, deliveryID)
    if err != nil {
      return err
    }
    milestone, err := s.getMilestone(ctx, txn, delivery.MilestoneID)
    if err != nil {
      return err
    }
    contract, err := s.getContract(ctx, txn, milestone.ContractID)
    if err != nil {
      return err
    }
    if actingUserID != contract.CompanyID {
      return apierr.Authorization("only the contract's company may review a delivery")
    }
    if delivery.Reviewed {
      return apierr.InvalidState("delivery has already been reviewed")
    }

    now := time.Now().UTC()
    delivery.Reviewed = true
    delivery.Approved = &approved
    delivery.ComentarioRevisao = comentario
    delivery.DataRevisao = &now
    if err := s.deliveryRepo.Update(ctx, txn, delivery); err != nil {
      return err
    }

    if approved {
      milestone.Status = types.MilestoneApproved
    } else {
      milestone.Status = types.MilestoneRejected
    }
    if err := s.milestoneRepo.Update(ctx, txn, milestone); err != nil {
      return err
    }
    reviewed = delivery
    return nil
  })
  if err != nil {
    s.log.Warn("Review delivery failed", "error", err, "delivery_id", deliveryID)
    return nil, err
  }
  s.log.Info("Delivery reviewed", "delivery_id", deliveryID, "approved", approved)
  return reviewed, nil
}

func (s *deliveryService) GetByID(ctx context.Context, tx *gorm.DB, deliveryID uuid.UUID) (*types.Delivery, error) {
  return s.getDelivery(ctx, tx, deliveryID)
}

func (s *deliveryService) ListByMilestone(ctx context.Context, tx *gorm.DB, milestoneID uuid.UUID) ([]*types.Delivery, error) {
  if _, err := s.getMilestone(ctx, tx, milestoneID); err != nil {
    return nil, err
  }
  return s.deliveryRepo.ListByMilestoneID(ctx, tx, milestoneID)
}

func (s *deliveryService) ListByDeveloper(ctx context.Context, tx *gorm.DB, developerID uuid.UUID) ([]*types.Delivery, error) {
  return s.deliveryRepo.ListByDeveloperID(ctx, tx, developerID)
}

func (s *deliveryService) inTransaction(tx *gorm.DB, fn func(txn *gorm.DB) error) error {
  if tx != nil {
    return fn(tx)
  }
  return s.db.Transaction(fn)
}

func (s *deliveryService) getDelivery(ctx context.Context, tx *gorm.DB, deliveryID uuid.UUID) (*types.Delivery, error) {
  deliveries, err := s.deliveryRepo.GetByIDs(ctx, tx, []uuid.UUID{deliveryID})
  if err != nil {
    return nil, err
  }
  if len(deliveries) == 0 || deliveries[0] == nil {
    return nil, apierr.NotFound("delivery not found")
  }
  return deliveries[0], nil
}

func (s *deliveryService) getMilestone(ctx context.Context, tx *gorm.DB, milestoneID uuid.UUID) (*types.Milestone, error) {
  milestones, err := s.milestoneRepo.GetByIDs(ctx, tx, []uuid.UUID{milestoneID})
  if err != nil {
    return nil, err
  }
  if len(milestones) == 0 || milestones[0] == nil {
    return nil, apierr.NotFound("milestone not found")
  }
  return milestones[0], nil
}

func (s *deliveryService) getContract(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) (*types.Contract, error) {
  contracts, err := s.contractRepo.GetByIDs(ctx, tx, []uuid.UUID{contractID})
  if err != nil {
    return nil, err
  }
  if len(contracts) == 0 || contracts[0] == nil {
    return nil, apierr.NotFound("contract not found")
  }
  return contracts[0], nil
}
