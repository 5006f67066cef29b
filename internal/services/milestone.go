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

// ProposeMilestoneCommand is the validated boundary input for a proposal.
type ProposeMilestoneCommand struct {
  ContractID         uuid.UUID
  Titulo             string
  Descricao          string
  DueDate            *time.Time
  ValorMilestone     float64
  CriteriosAceitacao string
}

type MilestoneService interface {
  Propose(ctx context.Context, tx *gorm.DB, cmd ProposeMilestoneCommand, actingUserID uuid.UUID) (*types.Milestone, error)
  RespondAsDeveloper(ctx context.Context, tx *gorm.DB, milestoneID uuid.UUID, decision types.MilestoneStatus, actingUserID uuid.UUID) (*types.Milestone, error)
  GetByID(ctx context.Context, tx *gorm.DB, milestoneID uuid.UUID) (*types.Milestone, error)
  ListByContract(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) ([]*types.Milestone, error)
}

type milestoneService struct {
  db            *gorm.DB
  log           *logger.Logger
  milestoneRepo repos.MilestoneRepo
  contractRepo  repos.ContractRepo
}

func NewMilestoneService(
  db *gorm.DB,
  baseLog *logger.Logger,
  milestoneRepo repos.MilestoneRepo,
  contractRepo repos.ContractRepo,
) MilestoneService {
  return &milestoneService{
    db:            db,
    log:           baseLog.With("service", "MilestoneService"),
    milestoneRepo: milestoneRepo,
    contractRepo:  contractRepo,
  }
}

func (s *milestoneService) Propose(ctx context.Context, tx *gorm.DB, cmd ProposeMilestoneCommand, actingUserID uuid.UUID) (*types.Milestone, error) {
  if strings.TrimSpace(cmd.Titulo) == "" {
    return nil, apierr.Validation("titulo is required")
  }
  if cmd.ValorMilestone <= 0 {
    return nil, apierr.Validation("valorMilestone must be greater than zero")
  }

  contract, err := s.loadContract(ctx, tx, cmd.ContractID)
  if err != nil {
    return nil, err
  }
  if actingUserID != contract.CompanyID {
    return nil, apierr.Authorization("only the contract's company may propose milestones")
  }
  if contract.Status != types.ContractActive {
    return nil, apierr.InvalidState("contract is %s, not active", contract.Status)
  }

  milestone := &types.Milestone{
    ContractID:         contract.ID,
    Titulo:             cmd.Titulo,
    Descricao:          cmd.Descricao,
    DueDate:            cmd.DueDate,
    ValorMilestone:     cmd.ValorMilestone,
    CriteriosAceitacao: cmd.CriteriosAceitacao,
    Status:             types.MilestoneProposed,
  }
  created, err := s.milestoneRepo.Create(ctx, tx, milestone)
  if err != nil {
    s.log.Warn("Propose milestone failed", "error", err, "contract_id", contract.ID)
    return nil, err
  }
  s.log.Info("Milestone proposed", "milestone_id", created.ID, "contract_id", contract.ID)
  return created, nil
}

// RespondAsDeveloper records the developer's accept/reject answer to a
// proposal. Repeating the same answer is a no-op; answering after delivery
// work started is an invalid state.
func (s *milestoneService) RespondAsDeveloper(ctx context.Context, tx *gorm.DB, milestoneID uuid.UUID, decision types.MilestoneStatus, actingUserID uuid.UUID) (*types.Milestone, error) {
  if decision != types.MilestoneAcceptedByDev && decision != types.MilestoneRejectedByDev {
    return nil, apierr.Validation("decision must be %s or %s", types.MilestoneAcceptedByDev, types.MilestoneRejectedByDev)
  }

  milestone, err := s.getMilestone(ctx, tx, milestoneID)
  if err != nil {
    return nil, err
  }
  contract, err := s.loadContract(ctx, tx, milestone.ContractID)
  if err != nil {
    return nil, err
  }
  if actingUserID != contract.DeveloperID {
    return nil, apierr.Authorization("only the contract's developer may respond to a milestone")
  }

  if milestone.Status == decision {
    return milestone, nil
  }
  if milestone.Status != types.MilestoneProposed {
    return nil, apierr.InvalidState("milestone is %s, not awaiting a developer response", milestone.Status)
  }

  milestone.Status = decision
  if err := s.milestoneRepo.Update(ctx, tx, milestone); err != nil {
    return nil, err
  }
  s.log.Info("Milestone answered by developer", "milestone_id", milestone.ID, "status", decision)
  return milestone, nil
}

func (s *milestoneService) GetByID(ctx context.Context, tx *gorm.DB, milestoneID uuid.UUID) (*types.Milestone, error) {
  return s.getMilestone(ctx, tx, milestoneID)
}

func (s *milestoneService) ListByContract(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) ([]*types.Milestone, error) {
  if _, err := s.loadContract(ctx, tx, contractID); err != nil {
    return nil, err
  }
  return s.milestoneRepo.ListByContractID(ctx, tx, contractID)
}

func (s *milestoneService) getMilestone(ctx context.Context, tx *gorm.DB, milestoneID uuid.UUID) (*types.Milestone, error) {
  milestones, err := s.milestoneRepo.GetByIDs(ctx, tx, []uuid.UUID{milestoneID})
  if err != nil {
    return nil, err
  }
  if len(milestones) == 0 || milestones[0] == nil {
    return nil, apierr.NotFound("milestone not found")
  }
  return milestones[0], nil
}

func (s *milestoneService) loadContract(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) (*types.Contract, error) {
  contracts, err := s.contractRepo.GetByIDs(ctx, tx, []uuid.UUID{contractID})
  if err != nil {
    return nil, err
  }
  if len(contracts) == 0 || contracts[0] == nil {
    return nil, apierr.NotFound("contract not found")
  }
  return contracts[0], nil
}
