package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/devmatch/devmatch-backend/internal/apierr"
	"github.com/devmatch/devmatch-backend/internal/logger"
	"github.com/devmatch/devmatch-backend/internal/types"
)

// testTx is non-nil so services run the callback directly instead of opening
// a real transaction on the nil test db.
var testTx = new(gorm.DB)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

type fakeContractRepo struct {
	contracts map[uuid.UUID]*types.Contract
	createErr error
	updates   int
}

func newFakeContractRepo() *fakeContractRepo {
	return &fakeContractRepo{contracts: map[uuid.UUID]*types.Contract{}}
}

func (f *fakeContractRepo) Create(ctx context.Context, tx *gorm.DB, contract *types.Contract) (*types.Contract, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if contract.ID == uuid.Nil {
		contract.ID = uuid.New()
	}
	f.contracts[contract.ID] = contract
	return contract, nil
}

func (f *fakeContractRepo) GetByIDs(ctx context.Context, tx *gorm.DB, contractIDs []uuid.UUID) ([]*types.Contract, error) {
	out := []*types.Contract{}
	for _, id := range contractIDs {
		if c, ok := f.contracts[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeContractRepo) Update(ctx context.Context, tx *gorm.DB, contract *types.Contract) error {
	f.updates++
	f.contracts[contract.ID] = contract
	return nil
}

func (f *fakeContractRepo) ListActiveForCompany(ctx context.Context, tx *gorm.DB, companyID uuid.UUID) ([]*types.Contract, error) {
	out := []*types.Contract{}
	for _, c := range f.contracts {
		if c.CompanyID == companyID && c.Status == types.ContractActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeContractRepo) ListActiveForDeveloper(ctx context.Context, tx *gorm.DB, developerID uuid.UUID) ([]*types.Contract, error) {
	out := []*types.Contract{}
	for _, c := range f.contracts {
		if c.DeveloperID == developerID && c.Status == types.ContractActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeContractRepo) ListFinishedForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Contract, error) {
	out := []*types.Contract{}
	for _, c := range f.contracts {
		if c.Status == types.ContractFinished && (c.CompanyID == userID || c.DeveloperID == userID) {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeMilestoneRepo struct {
	milestones map[uuid.UUID]*types.Milestone
	updates    int
}

func newFakeMilestoneRepo() *fakeMilestoneRepo {
	return &fakeMilestoneRepo{milestones: map[uuid.UUID]*types.Milestone{}}
}

func (f *fakeMilestoneRepo) Create(ctx context.Context, tx *gorm.DB, milestone *types.Milestone) (*types.Milestone, error) {
	if milestone.ID == uuid.Nil {
		milestone.ID = uuid.New()
	}
	f.milestones[milestone.ID] = milestone
	return milestone, nil
}

func (f *fakeMilestoneRepo) GetByIDs(ctx context.Context, tx *gorm.DB, milestoneIDs []uuid.UUID) ([]*types.Milestone, error) {
	out := []*types.Milestone{}
	for _, id := range milestoneIDs {
		if m, ok := f.milestones[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMilestoneRepo) Update(ctx context.Context, tx *gorm.DB, milestone *types.Milestone) error {
	f.updates++
	f.milestones[milestone.ID] = milestone
	return nil
}

func (f *fakeMilestoneRepo) ListByContractID(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) ([]*types.Milestone, error) {
	out := []*types.Milestone{}
	for _, m := range f.milestones {
		if m.ContractID == contractID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeDeliveryRepo struct {
	deliveries map[uuid.UUID]*types.Delivery
	createErr  error
}

func newFakeDeliveryRepo() *fakeDeliveryRepo {
	return &fakeDeliveryRepo{deliveries: map[uuid.UUID]*types.Delivery{}}
}

func (f *fakeDeliveryRepo) Create(ctx context.Context, tx *gorm.DB, delivery *types.Delivery) (*types.Delivery, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if delivery.ID == uuid.Nil {
		delivery.ID = uuid.New()
	}
	f.deliveries[delivery.ID] = delivery
	return delivery, nil
}

func (f *fakeDeliveryRepo) GetByIDs(ctx context.Context, tx *gorm.DB, deliveryIDs []uuid.UUID) ([]*types.Delivery, error) {
	out := []*types.Delivery{}
	for _, id := range deliveryIDs {
		if d, ok := f.deliveries[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDeliveryRepo) Update(ctx context.Context, tx *gorm.DB, delivery *types.Delivery) error {
	f.deliveries[delivery.ID] = delivery
	return nil
}

func (f *fakeDeliveryRepo) ListByMilestoneID(ctx context.Context, tx *gorm.DB, milestoneID uuid.UUID) ([]*types.Delivery, error) {
	out := []*types.Delivery{}
	for _, d := range f.deliveries {
		if d.MilestoneID == milestoneID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDeliveryRepo) ListByDeveloperID(ctx context.Context, tx *gorm.DB, developerID uuid.UUID) ([]*types.Delivery, error) {
	out := []*types.Delivery{}
	for _, d := range f.deliveries {
		if d.DeveloperID == developerID {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeFeedbackRepo struct {
	feedbacks  map[uuid.UUID]*types.Feedback
	overturned map[uuid.UUID]bool
}

func newFakeFeedbackRepo() *fakeFeedbackRepo {
	return &fakeFeedbackRepo{
		feedbacks:  map[uuid.UUID]*types.Feedback{},
		overturned: map[uuid.UUID]bool{},
	}
}

func (f *fakeFeedbackRepo) Create(ctx context.Context, tx *gorm.DB, feedback *types.Feedback) (*types.Feedback, error) {
	for _, existing := range f.feedbacks {
		if existing.ProjectID == feedback.ProjectID && existing.RaterID == feedback.RaterID {
			return nil, apierr.Duplicate("you already rated this project")
		}
	}
	if feedback.ID == uuid.Nil {
		feedback.ID = uuid.New()
	}
	f.feedbacks[feedback.ID] = feedback
	return feedback, nil
}

func (f *fakeFeedbackRepo) GetByIDs(ctx context.Context, tx *gorm.DB, feedbackIDs []uuid.UUID) ([]*types.Feedback, error) {
	out := []*types.Feedback{}
	for _, id := range feedbackIDs {
		if fb, ok := f.feedbacks[id]; ok {
			out = append(out, fb)
		}
	}
	return out, nil
}

func (f *fakeFeedbackRepo) ListByRatedID(ctx context.Context, tx *gorm.DB, ratedID uuid.UUID) ([]*types.Feedback, error) {
	out := []*types.Feedback{}
	for _, fb := range f.feedbacks {
		if fb.RatedID == ratedID {
			out = append(out, fb)
		}
	}
	return out, nil
}

func (f *fakeFeedbackRepo) ListByRaterID(ctx context.Context, tx *gorm.DB, raterID uuid.UUID) ([]*types.Feedback, error) {
	out := []*types.Feedback{}
	for _, fb := range f.feedbacks {
		if fb.RaterID == raterID {
			out = append(out, fb)
		}
	}
	return out, nil
}

func (f *fakeFeedbackRepo) ListEffectiveByRatedID(ctx context.Context, tx *gorm.DB, ratedID uuid.UUID) ([]*types.Feedback, error) {
	out := []*types.Feedback{}
	for _, fb := range f.feedbacks {
		if fb.RatedID == ratedID && !f.overturned[fb.ID] {
			out = append(out, fb)
		}
	}
	return out, nil
}

func (f *fakeFeedbackRepo) ExistsByProjectAndRater(ctx context.Context, tx *gorm.DB, projectID, raterID uuid.UUID) (bool, error) {
	for _, fb := range f.feedbacks {
		if fb.ProjectID == projectID && fb.RaterID == raterID {
			return true, nil
		}
	}
	return false, nil
}

type fakeDisputeRepo struct {
	disputes  map[uuid.UUID]*types.FeedbackDispute
	createErr error
}

func newFakeDisputeRepo() *fakeDisputeRepo {
	return &fakeDisputeRepo{disputes: map[uuid.UUID]*types.FeedbackDispute{}}
}

func (f *fakeDisputeRepo) Create(ctx context.Context, tx *gorm.DB, dispute *types.FeedbackDispute) (*types.FeedbackDispute, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, existing := range f.disputes {
		if existing.FeedbackID == dispute.FeedbackID && existing.Status == types.DisputeOpen {
			return nil, apierr.Conflict("this feedback already has an open dispute")
		}
	}
	if dispute.ID == uuid.Nil {
		dispute.ID = uuid.New()
	}
	f.disputes[dispute.ID] = dispute
	return dispute, nil
}

func (f *fakeDisputeRepo) GetByIDs(ctx context.Context, tx *gorm.DB, disputeIDs []uuid.UUID) ([]*types.FeedbackDispute, error) {
	out := []*types.FeedbackDispute{}
	for _, id := range disputeIDs {
		if d, ok := f.disputes[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDisputeRepo) Update(ctx context.Context, tx *gorm.DB, dispute *types.FeedbackDispute) error {
	f.disputes[dispute.ID] = dispute
	return nil
}

func (f *fakeDisputeRepo) ListOpen(ctx context.Context, tx *gorm.DB) ([]*types.FeedbackDispute, error) {
	out := []*types.FeedbackDispute{}
	for _, d := range f.disputes {
		if d.Status == types.DisputeOpen {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDisputeRepo) ListByOpenedBy(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.FeedbackDispute, error) {
	out := []*types.FeedbackDispute{}
	for _, d := range f.disputes {
		if d.OpenedByUserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDisputeRepo) CountOpenByOpenedBy(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	var n int64
	for _, d := range f.disputes {
		if d.OpenedByUserID == userID && d.Status == types.DisputeOpen {
			n++
		}
	}
	return n, nil
}

type fakeReputationRepo struct {
	reps    map[uuid.UUID]*types.UserReputation
	deletes int
}

func newFakeReputationRepo() *fakeReputationRepo {
	return &fakeReputationRepo{reps: map[uuid.UUID]*types.UserReputation{}}
}

func (f *fakeReputationRepo) Upsert(ctx context.Context, tx *gorm.DB, rep *types.UserReputation) error {
	f.reps[rep.UserID] = rep
	return nil
}

func (f *fakeReputationRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserReputation, error) {
	return f.reps[userID], nil
}

func (f *fakeReputationRepo) DeleteByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	f.deletes++
	delete(f.reps, userID)
	return nil
}

type fakeReputationService struct {
	recomputed  []uuid.UUID
	invalidated []uuid.UUID
}

func (f *fakeReputationService) Recompute(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	f.recomputed = append(f.recomputed, userID)
	return nil
}

func (f *fakeReputationService) InvalidateCached(ctx context.Context, userID uuid.UUID) {
	f.invalidated = append(f.invalidated, userID)
}

func (f *fakeReputationService) Get(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserReputation, error) {
	return nil, nil
}

type fakeAdminChecker struct {
	admins map[uuid.UUID]bool
}

func (f *fakeAdminChecker) IsAdmin(ctx context.Context, userID uuid.UUID) bool {
	return f.admins[userID]
}

type fakeReputationCache struct {
	entries     map[uuid.UUID]*types.UserReputation
	invalidated []uuid.UUID
	sets        int
}

func newFakeReputationCache() *fakeReputationCache {
	return &fakeReputationCache{entries: map[uuid.UUID]*types.UserReputation{}}
}

func (f *fakeReputationCache) Get(ctx context.Context, userID uuid.UUID) (*types.UserReputation, bool) {
	rep, ok := f.entries[userID]
	return rep, ok
}

func (f *fakeReputationCache) Set(ctx context.Context, userID uuid.UUID, rep *types.UserReputation) {
	f.sets++
	f.entries[userID] = rep
}

func (f *fakeReputationCache) Invalidate(ctx context.Context, userID uuid.UUID) {
	f.invalidated = append(f.invalidated, userID)
	delete(f.entries, userID)
}
