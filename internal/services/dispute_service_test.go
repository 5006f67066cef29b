package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/devmatch/devmatch-backend/internal/apierr"
	"github.com/devmatch/devmatch-backend/internal/types"
)

type disputeFixture struct {
	svc         DisputeService
	disputeRepo *fakeDisputeRepo
	reputation  *fakeReputationService
	feedback    *types.Feedback
	adminID     uuid.UUID
}

func newDisputeFixture(t *testing.T) *disputeFixture {
	t.Helper()
	disputeRepo := newFakeDisputeRepo()
	feedbackRepo := newFakeFeedbackRepo()
	reputation := &fakeReputationService{}
	adminID := uuid.New()
	admins := &fakeAdminChecker{admins: map[uuid.UUID]bool{adminID: true}}

	feedback := &types.Feedback{
		ID:        uuid.New(),
		ProjectID: uuid.New(),
		RaterID:   uuid.New(),
		RatedID:   uuid.New(),
		RatedRole: types.RoleDeveloper,
	}
	feedbackRepo.feedbacks[feedback.ID] = feedback

	return &disputeFixture{
		svc:         NewDisputeService(nil, testLogger(t), disputeRepo, feedbackRepo, reputation, admins),
		disputeRepo: disputeRepo,
		reputation:  reputation,
		feedback:    feedback,
		adminID:     adminID,
	}
}

const disputeJustification = "a avaliacao nao reflete o trabalho entregue"

func TestDisputeOpenByRatedParty(t *testing.T) {
	fx := newDisputeFixture(t)

	dispute, err := fx.svc.Open(context.Background(), testTx, OpenDisputeCommand{
		FeedbackID:           fx.feedback.ID,
		JustificativaDisputa: disputeJustification,
	}, fx.feedback.RatedID)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if dispute.Status != types.DisputeOpen {
		t.Fatalf("status: want=%s got=%s", types.DisputeOpen, dispute.Status)
	}
	if dispute.DecisaoMediacao != nil {
		t.Fatalf("decisao: want=nil got=%v", *dispute.DecisaoMediacao)
	}
}

func TestDisputeOpenShortJustification(t *testing.T) {
	fx := newDisputeFixture(t)

	_, err := fx.svc.Open(context.Background(), testTx, OpenDisputeCommand{
		FeedbackID:           fx.feedback.ID,
		JustificativaDisputa: "injusto",
	}, fx.feedback.RatedID)
	if apierr.CodeOf(err) != apierr.CodeValidation {
		t.Fatalf("code: want=%s got=%s (err=%v)", apierr.CodeValidation, apierr.CodeOf(err), err)
	}
}

func TestDisputeOpenByRaterIsForbidden(t *testing.T) {
	fx := newDisputeFixture(t)

	_, err := fx.svc.Open(context.Background(), testTx, OpenDisputeCommand{
		FeedbackID:           fx.feedback.ID,
		JustificativaDisputa: disputeJustification,
	}, fx.feedback.RaterID)
	if apierr.CodeOf(err) != apierr.CodeAuthorization {
		t.Fatalf("code: want=%s got=%s (err=%v)", apierr.CodeAuthorization, apierr.CodeOf(err), err)
	}
}

func TestDisputeOpenMissingFeedback(t *testing.T) {
	fx := newDisputeFixture(t)

	_, err := fx.svc.Open(context.Background(), testTx, OpenDisputeCommand{
		FeedbackID:           uuid.New(),
		JustificativaDisputa: disputeJustification,
	}, fx.feedback.RatedID)
	if apierr.CodeOf(err) != apierr.CodeNotFound {
		t.Fatalf("code: want=%s got=%s (err=%v)", apierr.CodeNotFound, apierr.CodeOf(err), err)
	}
}

func TestDisputeSecondOpenLoses(t *testing.T) {
	fx := newDisputeFixture(t)

	cmd := OpenDisputeCommand{FeedbackID: fx.feedback.ID, JustificativaDisputa: disputeJustification}
	if _, err := fx.svc.Open(context.Background(), testTx, cmd, fx.feedback.RatedID); err != nil {
		t.Fatalf("first Open: %v", err)
	}
	_, err := fx.svc.Open(context.Background(), testTx, cmd, fx.feedback.RatedID)
	if apierr.CodeOf(err) != apierr.CodeConflict {
		t.Fatalf("code: want=%s got=%s (err=%v)", apierr.CodeConflict, apierr.CodeOf(err), err)
	}
}

func TestDisputeDecideMantida(t *testing.T) {
	fx := newDisputeFixture(t)
	opened, _ := fx.svc.Open(context.Background(), testTx, OpenDisputeCommand{
		FeedbackID:           fx.feedback.ID,
		JustificativaDisputa: disputeJustification,
	}, fx.feedback.RatedID)

	decided, err := fx.svc.Decide(context.Background(), testTx, opened.ID, types.DecisionMantida, fx.adminID)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if decided.Status != types.DisputeClosed {
		t.Fatalf("status: want=%s got=%s", types.DisputeClosed, decided.Status)
	}
	if decided.DecisaoMediacao == nil || *decided.DecisaoMediacao != types.DecisionMantida {
		t.Fatalf("decisao: want=%s got=%v", types.DecisionMantida, decided.DecisaoMediacao)
	}
	if decided.ResolvedAt == nil {
		t.Fatalf("resolved_at not set")
	}
	if len(fx.reputation.recomputed) != 0 {
		t.Fatalf("recompute calls after MANTIDA: want=0 got=%d", len(fx.reputation.recomputed))
	}
	if len(fx.reputation.invalidated) != 0 {
		t.Fatalf("cache invalidations after MANTIDA: want=0 got=%d", len(fx.reputation.invalidated))
	}
}

func TestDisputeDecideAjustadaRecomputesReputation(t *testing.T) {
	fx := newDisputeFixture(t)
	opened, _ := fx.svc.Open(context.Background(), testTx, OpenDisputeCommand{
		FeedbackID:           fx.feedback.ID,
		JustificativaDisputa: disputeJustification,
	}, fx.feedback.RatedID)

	if _, err := fx.svc.Decide(context.Background(), testTx, opened.ID, types.DecisionAjustada, fx.adminID); err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if len(fx.reputation.recomputed) != 1 || fx.reputation.recomputed[0] != fx.feedback.RatedID {
		t.Fatalf("recompute calls: want=[%s] got=%v", fx.feedback.RatedID, fx.reputation.recomputed)
	}
	if len(fx.reputation.invalidated) != 1 || fx.reputation.invalidated[0] != fx.feedback.RatedID {
		t.Fatalf("cache invalidations: want=[%s] got=%v", fx.feedback.RatedID, fx.reputation.invalidated)
	}
}

func TestDisputeDecideByNonAdminIsForbidden(t *testing.T) {
	fx := newDisputeFixture(t)
	opened, _ := fx.svc.Open(context.Background(), testTx, OpenDisputeCommand{
		FeedbackID:           fx.feedback.ID,
		JustificativaDisputa: disputeJustification,
	}, fx.feedback.RatedID)

	_, err := fx.svc.Decide(context.Background(), testTx, opened.ID, types.DecisionMantida, fx.feedback.RatedID)
	if apierr.CodeOf(err) != apierr.CodeAuthorization {
		t.Fatalf("code: want=%s got=%s (err=%v)", apierr.CodeAuthorization, apierr.CodeOf(err), err)
	}
}

func TestDisputeDecideUnknownDecision(t *testing.T) {
	fx := newDisputeFixture(t)

	_, err := fx.svc.Decide(context.Background(), testTx, uuid.New(), types.DisputeDecision("ANULADA"), fx.adminID)
	if apierr.CodeOf(err) != apierr.CodeValidation {
		t.Fatalf("code: want=%s got=%s (err=%v)", apierr.CodeValidation, apierr.CodeOf(err), err)
	}
}

func TestDisputeDecideTwiceIsInvalidState(t *testing.T) {
	fx := newDisputeFixture(t)
	opened, _ := fx.svc.Open(context.Background(), testTx, OpenDisputeCommand{
		FeedbackID:           fx.feedback.ID,
		JustificativaDisputa: disputeJustification,
	}, fx.feedback.RatedID)

	if _, err := fx.svc.Decide(context.Background(), testTx, opened.ID, types.DecisionMantida, fx.adminID); err != nil {
		t.Fatalf("Decide: %v", err)
	}
	_, err := fx.svc.Decide(context.Background(), testTx, opened.ID, types.DecisionAjustada, fx.adminID)
	if apierr.CodeOf(err) != apierr.CodeInvalidState {
		t.Fatalf("code: want=%s got=%s (err=%v)", apierr.CodeInvalidState, apierr.CodeOf(err), err)
	}
}

func TestDisputeReopenAfterDecisionAllowed(t *testing.T) {
	fx := newDisputeFixture(t)
	opened, _ := fx.svc.Open(context.Background(), testTx, OpenDisputeCommand{
		FeedbackID:           fx.feedback.ID,
		JustificativaDisputa: disputeJustification,
	}, fx.feedback.RatedID)
	if _, err := fx.svc.Decide(context.Background(), testTx, opened.ID, types.DecisionMantida, fx.adminID); err != nil {
		t.Fatalf("Decide: %v", err)
	}

	// only one OPEN dispute per feedback; a closed one does not block
	if _, err := fx.svc.Open(context.Background(), testTx, OpenDisputeCommand{
		FeedbackID:           fx.feedback.ID,
		JustificativaDisputa: disputeJustification,
	}, fx.feedback.RatedID); err != nil {
		t.Fatalf("Open after close: %v", err)
	}
}
