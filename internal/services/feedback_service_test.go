package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/devmatch/devmatch-backend/internal/apierr"
	"github.com/devmatch/devmatch-backend/internal/types"
)

type feedbackFixture struct {
	svc          FeedbackService
	feedbackRepo *fakeFeedbackRepo
	contractRepo *fakeContractRepo
	disputeRepo  *fakeDisputeRepo
	reputation   *fakeReputationService
	contract     *types.Contract
}

func newFeedbackFixture(t *testing.T) *feedbackFixture {
	t.Helper()
	contractRepo := newFakeContractRepo()
	feedbackRepo := newFakeFeedbackRepo()
	disputeRepo := newFakeDisputeRepo()
	reputation := &fakeReputationService{}

	ended := time.Now().UTC()
	contract := &types.Contract{
		ID:          uuid.New(),
		JobID:       uuid.New(),
		CompanyID:   uuid.New(),
		DeveloperID: uuid.New(),
		Status:      types.ContractFinished,
		EndedAt:     &ended,
	}
	contractRepo.contracts[contract.ID] = contract

	return &feedbackFixture{
		svc:          NewFeedbackService(nil, testLogger(t), feedbackRepo, contractRepo, disputeRepo, reputation),
		feedbackRepo: feedbackRepo,
		contractRepo: contractRepo,
		disputeRepo:  disputeRepo,
		reputation:   reputation,
		contract:     contract,
	}
}

func (fx *feedbackFixture) companyRatesDeveloper() SubmitFeedbackCommand {
	return SubmitFeedbackCommand{
		ProjectID:         fx.contract.JobID,
		RatedID:           fx.contract.DeveloperID,
		RatedRole:         types.RoleDeveloper,
		QualidadeTecnica:  5,
		CumprimentoPrazos: 4,
		Comunicacao:       5,
		Colaboracao:       5,
	}
}

func TestFeedbackSubmitComputesStars(t *testing.T) {
	fx := newFeedbackFixture(t)

	feedback, err := fx.svc.Submit(context.Background(), testTx, fx.contract.CompanyID, fx.companyRatesDeveloper())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	// estrelas is the exact mean of 5,4,5,5
	if feedback.Estrelas != 4.75 {
		t.Fatalf("estrelas: want=4.75 got=%v", feedback.Estrelas)
	}
	if len(fx.reputation.recomputed) != 1 || fx.reputation.recomputed[0] != fx.contract.DeveloperID {
		t.Fatalf("recompute calls: want=[%s] got=%v", fx.contract.DeveloperID, fx.reputation.recomputed)
	}
	if len(fx.reputation.invalidated) != 1 || fx.reputation.invalidated[0] != fx.contract.DeveloperID {
		t.Fatalf("cache invalidations: want=[%s] got=%v", fx.contract.DeveloperID, fx.reputation.invalidated)
	}
}

func TestFeedbackSubmitScoreRange(t *testing.T) {
	fx := newFeedbackFixture(t)

	for _, score := range []int{0, 6, -1} {
		cmd := fx.companyRatesDeveloper()
		cmd.Comunicacao = score
		_, err := fx.svc.Submit(context.Background(), testTx, fx.contract.CompanyID, cmd)
		if apierr.CodeOf(err) != apierr.CodeValidation {
			t.Fatalf("score %d: want=%s got=%s (err=%v)", score, apierr.CodeValidation, apierr.CodeOf(err), err)
		}
	}
}

func TestFeedbackSubmitShortCommentRejected(t *testing.T) {
	fx := newFeedbackFixture(t)

	cmd := fx.companyRatesDeveloper()
	cmd.Comentario = "otimo dev"
	_, err := fx.svc.Submit(context.Background(), testTx, fx.contract.CompanyID, cmd)
	if apierr.CodeOf(err) != apierr.CodeValidation {
		t.Fatalf("code: want=%s got=%s (err=%v)", apierr.CodeValidation, apierr.CodeOf(err), err)
	}

	cmd.Comentario = ""
	if _, err := fx.svc.Submit(context.Background(), testTx, fx.contract.CompanyID, cmd); err != nil {
		t.Fatalf("empty comment should pass: %v", err)
	}
}

func TestFeedbackSubmitRequiresFinishedContract(t *testing.T) {
	fx := newFeedbackFixture(t)
	fx.contract.Status = types.ContractActive

	_, err := fx.svc.Submit(context.Background(), testTx, fx.contract.CompanyID, fx.companyRatesDeveloper())
	if apierr.CodeOf(err) != apierr.CodeValidation {
		t.Fatalf("code: want=%s got=%s (err=%v)", apierr.CodeValidation, apierr.CodeOf(err), err)
	}
}

func TestFeedbackSubmitRoleMismatch(t *testing.T) {
	fx := newFeedbackFixture(t)

	cmd := fx.companyRatesDeveloper()
	cmd.RatedRole = types.RoleCompany
	_, err := fx.svc.Submit(context.Background(), testTx, fx.contract.CompanyID, cmd)
	if apierr.CodeOf(err) != apierr.CodeValidation {
		t.Fatalf("code: want=%s got=%s (err=%v)", apierr.CodeValidation, apierr.CodeOf(err), err)
	}
}

func TestFeedbackSubmitDuplicateLoses(t *testing.T) {
	fx := newFeedbackFixture(t)

	if _, err := fx.svc.Submit(context.Background(), testTx, fx.contract.CompanyID, fx.companyRatesDeveloper()); err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	_, err := fx.svc.Submit(context.Background(), testTx, fx.contract.CompanyID, fx.companyRatesDeveloper())
	if apierr.CodeOf(err) != apierr.CodeDuplicate {
		t.Fatalf("code: want=%s got=%s (err=%v)", apierr.CodeDuplicate, apierr.CodeOf(err), err)
	}
}

func TestFeedbackBothPartiesMayRate(t *testing.T) {
	fx := newFeedbackFixture(t)

	if _, err := fx.svc.Submit(context.Background(), testTx, fx.contract.CompanyID, fx.companyRatesDeveloper()); err != nil {
		t.Fatalf("company Submit: %v", err)
	}
	devCmd := SubmitFeedbackCommand{
		ProjectID:         fx.contract.JobID,
		RatedID:           fx.contract.CompanyID,
		RatedRole:         types.RoleCompany,
		QualidadeTecnica:  4,
		CumprimentoPrazos: 4,
		Comunicacao:       3,
		Colaboracao:       4,
	}
	if _, err := fx.svc.Submit(context.Background(), testTx, fx.contract.DeveloperID, devCmd); err != nil {
		t.Fatalf("developer Submit: %v", err)
	}
}

func TestFeedbackEligibilitySkipsRatedProjects(t *testing.T) {
	fx := newFeedbackFixture(t)

	entries, err := fx.svc.Eligibility(context.Background(), testTx, fx.contract.CompanyID)
	if err != nil {
		t.Fatalf("Eligibility: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries: want=1 got=%d", len(entries))
	}
	if entries[0].CounterpartyID != fx.contract.DeveloperID || entries[0].CounterpartyRole != types.RoleDeveloper {
		t.Fatalf("counterparty: got=%+v", entries[0])
	}

	if _, err := fx.svc.Submit(context.Background(), testTx, fx.contract.CompanyID, fx.companyRatesDeveloper()); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	entries, err = fx.svc.Eligibility(context.Background(), testTx, fx.contract.CompanyID)
	if err != nil {
		t.Fatalf("Eligibility: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("entries after rating: want=0 got=%d", len(entries))
	}
}

func TestFeedbackSummaryCounts(t *testing.T) {
	fx := newFeedbackFixture(t)

	if _, err := fx.svc.Submit(context.Background(), testTx, fx.contract.CompanyID, fx.companyRatesDeveloper()); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	summary, err := fx.svc.Summary(context.Background(), testTx, fx.contract.CompanyID)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.ProjetosFinalizados != 1 {
		t.Fatalf("projetos finalizados: want=1 got=%d", summary.ProjetosFinalizados)
	}
	if summary.FeedbacksRealizados != 1 {
		t.Fatalf("feedbacks realizados: want=1 got=%d", summary.FeedbacksRealizados)
	}
	if summary.FeedbacksRecebidos != 0 {
		t.Fatalf("feedbacks recebidos: want=0 got=%d", summary.FeedbacksRecebidos)
	}
	if summary.ContestacoesAbertas != 0 {
		t.Fatalf("contestacoes abertas: want=0 got=%d", summary.ContestacoesAbertas)
	}
}

func TestFeedbackGetByIDMissing(t *testing.T) {
	fx := newFeedbackFixture(t)

	_, err := fx.svc.GetByID(context.Background(), testTx, uuid.New())
	if apierr.CodeOf(err) != apierr.CodeNotFound {
		t.Fatalf("code: want=%s got=%s (err=%v)", apierr.CodeNotFound, apierr.CodeOf(err), err)
	}
}
