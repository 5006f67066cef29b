package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/devmatch/devmatch-backend/internal/apierr"
  "github.com/devmatch/devmatch-backend/internal/logger"
  "github.com/devmatch/devmatch-backend/internal/types"
)

type ContractRepo interface {
  Create(ctx context.Context, tx *gorm.DB, contract *types.Contract) (*types.Contract, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, contractIDs []uuid.UUID) ([]*types.Contract, error)
  Update(ctx context.Context, tx *gorm.DB, contract *types.Contract) error
  ListActiveForCompany(ctx context.Context, tx *gorm.DB, companyID uuid.UUID) ([]*types.Contract, error)
  ListActiveForDeveloper(ctx context.Context, tx *gorm.DB, developerID uuid.UUID) ([]*types.Contract, error)
  ListFinishedForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Contract, error)
}

type contractRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewContractRepo(db *gorm.DB, baseLog *logger.Logger) ContractRepo {
  return &contractRepo{db: db, log: baseLog.With("repo", "ContractRepo")}
}

func (cr *contractRepo) Create(ctx context.Context, tx *gorm.DB, contract *types.Contract) (*types.Contract, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  if err := transaction.WithContext(ctx).Create(contract).Error; err != nil {
    if isUniqueViolation(err, "uniq_contract_open_per_job_dev") {
      return nil, apierr.Conflict("an active or pending contract already exists for this job and developer")
    }
    return nil, err
  }
  return contract, nil
}

func (cr *contractRepo) GetByIDs(ctx context.Context, tx *gorm.DB, contractIDs []uuid.UUID) ([]*types.Contract, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  var results []*types.Contract
  if len(contractIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", contractIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (cr *contractRepo) Update(ctx context.Context, tx *gorm.DB, contract *types.Contract) error {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  return transaction.WithContext(ctx).Save(contract).Error
}

func (cr *contractRepo) ListActiveForCompany(ctx context.Context, tx *gorm.DB, companyID uuid.UUID) ([]*types.Contract, error) {
  return cr.listByPartyAndStatus(ctx, tx, "company_id", companyID, types.ContractActive)
}

func (cr *contractRepo) ListActiveForDeveloper(ctx context.Context, tx *gorm.DB, developerID uuid.UUID) ([]*types.Contract, error) {
  return cr.listByPartyAndStatus(ctx, tx, "developer_id", developerID, types.ContractActive)
}

func (cr *contractRepo) listByPartyAndStatus(ctx context.Context, tx *gorm.DB, column string, userID uuid.UUID, status types.ContractStatus) ([]*types.Contract, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  var results []*types.Contract
  if err := transaction.WithContext(ctx).
    Where(column+" = ? AND status = ?", userID, status).
    Order("started_at DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (cr *contractRepo) ListFinishedForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Contract, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  var results []*types.Contract
  if err := transaction.WithContext(ctx).
    Where("status = ? AND (company_id = ? OR developer_id = ?)", types.ContractFinished, userID, userID).
    Order("ended_at DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
