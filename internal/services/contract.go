package services

import (
  "context"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/devmatch/devmatch-backend/internal/apierr"
  "github.com/devmatch/devmatch-backend/internal/logger"
  "github.com/devmatch/devmatch-backend/internal/repos"
  "github.com/devmatch/devmatch-backend/internal/types"
)

type ContractService interface {
  Create(ctx context.Context, tx *gorm.DB, jobID, companyID, developerID uuid.UUID, contractType types.ContractType) (*types.Contract, error)
  Activate(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) (*types.Contract, error)
  Finish(ctx context.Context, tx *gorm.DB, contractID, actingUserID uuid.UUID) (*types.Contract, error)
  Cancel(ctx context.Context, tx *gorm.DB, contractID, actingUserID uuid.UUID) (*types.Contract, error)
  GetByID(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) (*types.Contract, error)
  ListActiveForCompany(ctx context.Context, tx *gorm.DB, companyID uuid.UUID) ([]*types.Contract, error)
  ListActiveForDeveloper(ctx context.Context, tx *gorm.DB, developerID uuid.UUID) ([]*types.Contract, error)
  ListFinishedForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Contract, error)
}

type contractService struct {
  db           *gorm.DB
  log          *logger.Logger
  contractRepo repos.ContractRepo
}

func NewContractService(db *gorm.DB, baseLog *logger.Logger, contractRepo repos.ContractRepo) ContractService {
  return &contractService{
    db:           db,
    log:          baseLog.With("service", "ContractService"),
    contractRepo: contractRepo,
  }
}

// Create registers the contract produced by an external test-approval event.
// It starts in PENDING_TEST_APPROVAL; the (job, developer) exclusivity is a
// commit-time constraint, so a concurrent duplicate loses with a conflict.
func (s *contractService) Create(ctx context.Context, tx *gorm.DB, jobID, companyID, developerID uuid.UUID, contractType types.ContractType) (*types.Contract, error) {
  if jobID == uuid.Nil || companyID == uuid.Nil || developerID == uuid.Nil {
    return nil, apierr.Validation("vagaId, companyId and developerId are required")
  }
  if !contractType.Valid() {
    return nil, apierr.Validation("unknown contract type %q", contractType)
  }

  contract := &types.Contract{
    JobID:        jobID,
    CompanyID:    companyID,
    DeveloperID:  developerID,
    ContractType: contractType,
    Status:       types.ContractPendingTestApproval,
    StartedAt:    time.Now().UTC(),
  }

  created, err := s.contractRepo.Create(ctx, tx, contract)
  if err != nil {
    s.log.Warn("Create contract failed", "error", err, "job_id", jobID, "developer_id", developerID)
    return nil, err
  }
  s.log.Info("Contract created", "contract_id", created.ID, "job_id", jobID)
  return created, nil
}

func (s *contractService) Activate(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) (*types.Contract, error) {
  contract, err := s.getContract(ctx, tx, contractID)
  if err != nil {
    return nil, err
  }
  if contract.Status != types.ContractPendingTestApproval {
    return nil, apierr.InvalidState("contract is %s, not pending test approval", contract.Status)
  }

  contract.Status = types.ContractActive
  if err := s.contractRepo.Update(ctx, tx, contract); err != nil {
    return nil, err
  }
  s.log.Info("Contract activated", "contract_id", contract.ID)
  return contract, nil
}

// Finish is company-only. Authorization is checked against the contract's
// stored owner, never against session state.
func (s *contractService) Finish(ctx context.Context, tx *gorm.DB, contractID, actingUserID uuid.UUID) (*types.Contract, error) {
  contract, err := s.getContract(ctx, tx, contractID)
  if err != nil {
    return nil, err
  }
  if actingUserID != contract.CompanyID {
    return nil, apierr.Authorization("only the contract's company may finish it")
  }
  if contract.Status != types.ContractActive {
    return nil, apierr.InvalidState("contract is %s, not active", contract.Status)
  }

  now := time.Now().UTC()
  contract.Status = types.ContractFinished
  contract.EndedAt = &now
  if err := s.contractRepo.Update(ctx, tx, contract); err != nil {
    return nil, err
  }
  s.log.Info("Contract finished", "contract_id", contract.ID, "company_id", actingUserID)
  return contract, nil
}

// Cancel may be called by either party while the contract is not terminal.
func (s *contractService) Cancel(ctx context.Context, tx *gorm.DB, contractID, actingUserID uuid.UUID) (*types.Contract, error) {
  contract, err := s.getContract(ctx, tx, contractID)
  if err != nil {
    return nil, err
  }
  if actingUserID != contract.CompanyID && actingUserID != contract.DeveloperID {
    return nil, apierr.Authorization("only a contract party may cancel it")
  }
  if contract.Status.Terminal() {
    return nil, apierr.InvalidState("contract is already %s", contract.Status)
  }

  now := time.Now().UTC()
  contract.Status = types.ContractCancelled
  contract.EndedAt = &now
  if err := s.contractRepo.Update(ctx, tx, contract); err != nil {
    return nil, err
  }
  s.log.Info("Contract cancelled", "contract_id", contract.ID, "acting_user_id", actingUserID)
  return contract, nil
}

func (s *contractService) GetByID(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) (*types.Contract, error) {
  return s.getContract(ctx, tx, contractID)
}

func (s *contractService) ListActiveForCompany(ctx context.Context, tx *gorm.DB, companyID uuid.UUID) ([]*types.Contract, error) {
  return s.contractRepo.ListActiveForCompany(ctx, tx, companyID)
}

func (s *contractService) ListActiveForDeveloper(ctx context.Context, tx *gorm.DB, developerID uuid.UUID) ([]*types.Contract, error) {
  return s.contractRepo.ListActiveForDeveloper(ctx, tx, developerID)
}

func (s *contractService) ListFinishedForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Contract, error) {
  return s.contractRepo.ListFinishedForUser(ctx, tx, userID)
}

func (s *contractService) getContract(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) (*types.Contract, error) {
  contracts, err := s.contractRepo.GetByIDs(ctx, tx, []uuid.UUID{contractID})
  if err != nil {
    return nil, err
  }
  if len(contracts) == 0 || contracts[0] == nil {
    return nil, apierr.NotFound("contract not found")
  }
  return contracts[0], nil
}
