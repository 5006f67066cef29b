package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/devmatch/devmatch-backend/internal/apierr"
  "github.com/devmatch/devmatch-backend/internal/logger"
  "github.com/devmatch/devmatch-backend/internal/types"
)

type DeliveryRepo interface {
  Create(ctx context.Context, tx *gorm.DB, delivery *types.Delivery) (*types.Delivery, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, deliveryIDs []uuid.UUID) ([]*types.Delivery, error)
  Update(ctx context.Context, tx *gorm.DB, delivery *types.Delivery) error
  ListByMilestoneID(ctx context.Context, tx *gorm.DB, milestoneID uuid.UUID) ([]*types.Delivery, error)
  ListByDeveloperID(ctx context.Context, tx *gorm.DB, developerID uuid.UUID) ([]*types.Delivery, error)
}

type deliveryRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewDeliveryRepo(db *gorm.DB, baseLog *logger.Logger) DeliveryRepo {
  return &deliveryRepo{db: db, log: baseLog.With("repo", "DeliveryRepo")}
}

func (dr *deliveryRepo) Create(ctx context.Context, tx *gorm.DB, delivery *types.Delivery) (*types.Delivery, error) {
  transaction := tx
  if transaction == nil {
    transaction = dr.db
  }

  if err := transaction.WithContext(ctx).Create(delivery).Error; err != nil {
    if isUniqueViolation(err, "uniq_delivery_unreviewed_per_milestone") {
      return nil, apierr.Conflict("milestone already has an unreviewed delivery")
    }
    return nil, err
  }
  return delivery, nil
}

func (dr *deliveryRepo) GetByIDs(ctx context.Context, tx *gorm.DB, deliveryIDs []uuid.UUID) ([]*types.Delivery, error) {
  transaction := tx
  if transaction == nil {
    transaction = dr.db
  }

  var results []*types.Delivery
  if len(deliveryIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", deliveryIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (dr *deliveryRepo) Update(ctx context.Context, tx *gorm.DB, delivery *types.Delivery) error {
  transaction := tx
  if transaction == nil {
    transaction = dr.db
  }
  return transaction.WithContext(ctx).Save(delivery).Error
}

func (dr *deliveryRepo) ListByMilestoneID(ctx context.Context, tx *gorm.DB, milestoneID uuid.UUID) ([]*types.Delivery, error) {
  transaction := tx
  if transaction == nil {
    transaction = dr.db
  }

  var results []*types.Delivery
  if err := transaction.WithContext(ctx).
    Where("milestone_id = ?", milestoneID).
    Order("submitted_at ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (dr *deliveryRepo) ListByDeveloperID(ctx context.Context, tx *gorm.DB, developerID uuid.UUID) ([]*types.Delivery, error) {
  transaction := tx
  if transaction == nil {
    transaction = dr.db
  }

  var results []*types.Delivery
  if err := transaction.WithContext(ctx).
    Where("perfil_dev_id = ?", developerID).
    Order("submitted_at DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
