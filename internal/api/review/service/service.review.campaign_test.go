package reviewsvc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	auditsvc "access_governance/internal/api/audit/service"
	"access_governance/internal/api/review/dto"
	"access_governance/internal/api/review/models"
	"access_governance/internal/common"
)

// memoryAuditRecorder gom các bản audit vào bộ nhớ để kiểm tra
type memoryAuditRecorder struct {
	records []auditsvc.RecordInput
}

func (r *memoryAuditRecorder) Record(ctx context.Context, input auditsvc.RecordInput) {
	r.records = append(r.records, input)
}

// memoryCampaignStore giả lập collection chiến dịch cho vòng CAS
type memoryCampaignStore struct {
	campaign models.Campaign
	loads    int
	writes   int

	// Số lần ghi đầu tiên bị ép trượt version, mô phỏng người ghi đồng thời
	conflicts int
}

// newMemoryCampaignService dựng CampaignService chạy trên store trong bộ nhớ,
// không cần MongoDB
func newMemoryCampaignService(campaign models.Campaign) (*CampaignService, *memoryCampaignStore, *memoryAuditRecorder) {
	store := &memoryCampaignStore{campaign: campaign}
	recorder := &memoryAuditRecorder{}

	svc := &CampaignService{audit: recorder}
	svc.loadCampaign = func(ctx context.Context, id primitive.ObjectID) (models.Campaign, error) {
		store.loads++
		return store.campaign, nil
	}
	svc.writeCAS = func(ctx context.Context, id primitive.ObjectID, currentVersion int64, c *models.Campaign) (models.Campaign, error) {
		store.writes++
		if store.conflicts > 0 {
			store.conflicts--
			store.campaign.Version++
			return models.Campaign{}, common.ErrNotFound
		}
		if currentVersion != store.campaign.Version {
			return models.Campaign{}, common.ErrNotFound
		}
		saved := *c
		saved.Version = currentVersion + 1
		store.campaign = saved
		return saved, nil
	}
	return svc, store, recorder
}

func TestUpdateWithMutatorRetriesAfterConcurrentWrite(t *testing.T) {
	campaign := *newTestCampaign(models.CampaignStatusDraft, newTestSubject("s1", newTestItem("i1")))
	campaign.ID = primitive.NewObjectID()
	campaign.Version = 3

	svc, store, _ := newMemoryCampaignService(campaign)
	store.conflicts = 1

	var seenVersions []int64
	updated, err := svc.UpdateWithMutator(context.Background(), campaign.ID, func(c *models.Campaign) error {
		seenVersions = append(seenVersions, c.Version)
		c.Description = "đã chỉnh sau khi nạp lại"
		return nil
	})
	require.NoError(t, err)

	// Mutator được chạy lại trên bản vừa nạp lại với version mới
	assert.Equal(t, []int64{3, 4}, seenVersions)
	assert.Equal(t, 2, store.loads)
	assert.Equal(t, 2, store.writes)
	assert.Equal(t, int64(5), updated.Version)
	assert.Equal(t, "đã chỉnh sau khi nạp lại", store.campaign.Description)
}

func TestUpdateWithMutatorStopsAfterMaxRetries(t *testing.T) {
	campaign := *newTestCampaign(models.CampaignStatusDraft, newTestSubject("s1", newTestItem("i1")))
	campaign.ID = primitive.NewObjectID()

	svc, store, _ := newMemoryCampaignService(campaign)
	store.conflicts = maxCASRetries

	mutatorCalls := 0
	_, err := svc.UpdateWithMutator(context.Background(), campaign.ID, func(c *models.Campaign) error {
		mutatorCalls++
		return nil
	})
	require.Error(t, err)
	assert.True(t, common.IsVersionConflict(err))
	assert.Equal(t, maxCASRetries, mutatorCalls)
	assert.Equal(t, maxCASRetries, store.writes)
}

func TestMutatingOperationsEmitOneAuditRecordEach(t *testing.T) {
	campaign := *newSubmittableCampaign()
	campaign.ID = primitive.NewObjectID()

	svc, _, recorder := newMemoryCampaignService(campaign)
	actor := Actor{ID: primitive.NewObjectID(), Email: "reviewer@example.com"}
	ctx := context.Background()

	_, err := svc.RecordItemDecision(ctx, campaign.ID, &dto.ItemDecisionInput{
		ItemID:       "i1",
		DecisionType: models.DecisionTypeApprove,
	}, actor)
	require.NoError(t, err)

	_, err = svc.Submit(ctx, campaign.ID, &dto.SubmitInput{
		ReviewerName:        "Nguyễn Thị Lan",
		ReviewerEmail:       "lan@example.com",
		ReviewerAttestation: true,
	}, actor)
	require.NoError(t, err)

	_, err = svc.RecordApproval(ctx, campaign.ID, &dto.ApprovalInput{
		Decision:      models.SecondDecisionApproved,
		ApproverName:  "Trần Văn Minh",
		ApproverEmail: "minh@example.com",
	}, actor)
	require.NoError(t, err)

	_, err = svc.RecordRemediation(ctx, campaign.ID, &dto.RemediationInput{
		TicketID: "REM-1",
		Status:   "IN_PROGRESS",
	}, actor)
	require.NoError(t, err)

	_, err = svc.Complete(ctx, campaign.ID, &dto.CompleteInput{
		VerifiedBy: "lan@example.com",
	}, actor)
	require.NoError(t, err)

	require.Len(t, recorder.records, 5)
	actions := make([]string, 0, len(recorder.records))
	for _, record := range recorder.records {
		actions = append(actions, record.Action)
		assert.Equal(t, actor.ID, record.ActorID)
		assert.Equal(t, actor.Email, record.ActorEmail)
		assert.Equal(t, "AccessReviewCampaign", record.TargetType)
		assert.Equal(t, campaign.ID.Hex(), record.TargetID)
	}
	assert.Equal(t, []string{
		"campaign_item_decide",
		"campaign_submit",
		"campaign_second_level_approval",
		"campaign_remediation",
		"campaign_complete",
	}, actions)
}

func TestFailedOperationEmitsNoAuditRecord(t *testing.T) {
	campaign := *newSubmittableCampaign()
	campaign.ID = primitive.NewObjectID()
	campaign.Status = models.CampaignStatusCompleted

	svc, _, recorder := newMemoryCampaignService(campaign)

	_, err := svc.RecordItemDecision(context.Background(), campaign.ID, &dto.ItemDecisionInput{
		ItemID:       "i1",
		DecisionType: models.DecisionTypeApprove,
	}, Actor{Email: "reviewer@example.com"})
	require.Error(t, err)
	assert.Empty(t, recorder.records)
}

func TestUpdateAndDeleteAuditCarryActor(t *testing.T) {
	campaign := *newSubmittableCampaign()
	campaign.ID = primitive.NewObjectID()

	svc, store, recorder := newMemoryCampaignService(campaign)
	actor := Actor{ID: primitive.NewObjectID(), Email: "owner@example.com"}
	ctx := context.Background()

	_, err := svc.Update(ctx, campaign.ID, &dto.CampaignUpdateInput{
		Description: "đợt rà soát bổ sung",
	}, actor)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, campaign.ID, actor))

	require.Len(t, recorder.records, 2)
	assert.Equal(t, "campaign_update", recorder.records[0].Action)
	assert.Equal(t, "campaign_delete", recorder.records[1].Action)
	for _, record := range recorder.records {
		assert.Equal(t, actor.ID, record.ActorID)
		assert.Equal(t, actor.Email, record.ActorEmail)
	}
	assert.NotZero(t, store.campaign.DeletedAt)
}

func TestUpdateRejectsEmptySubjectList(t *testing.T) {
	campaign := *newSubmittableCampaign()
	campaign.ID = primitive.NewObjectID()

	svc, store, recorder := newMemoryCampaignService(campaign)

	_, err := svc.Update(context.Background(), campaign.ID, &dto.CampaignUpdateInput{
		Subjects: []models.Subject{},
	}, Actor{Email: "owner@example.com"})
	require.Error(t, err)

	var appErr *common.Error
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Details, "chiến dịch phải có ít nhất một subject cần rà soát")

	// Không có gì được ghi xuống store và không phát sinh bản audit nào
	assert.Equal(t, 0, store.writes)
	assert.Empty(t, recorder.records)
	assert.NotEmpty(t, store.campaign.Subjects)
}

func TestValidateCampaignDataRequiresSubjects(t *testing.T) {
	err := validateCampaignData(testPeriodStart, testPeriodEnd, testDueDate, nil)
	require.Error(t, err)

	var appErr *common.Error
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Details, "chiến dịch phải có ít nhất một subject cần rà soát")
}

func TestReadFiltersExcludeSoftDeleted(t *testing.T) {
	svc := &CampaignService{}

	base, ok := svc.mergeNotDeleted(nil).(bson.M)
	require.True(t, ok)
	assert.Equal(t, bson.M{"$exists": false}, base["deletedAt"])

	merged, ok := svc.mergeNotDeleted(bson.M{"status": models.CampaignStatusDraft}).(bson.M)
	require.True(t, ok)
	clauses, ok := merged["$and"].([]interface{})
	require.True(t, ok)
	require.Len(t, clauses, 2)
	assert.Equal(t, bson.M{"status": models.CampaignStatusDraft}, clauses[0])
	deleted, ok := clauses[1].(bson.M)
	require.True(t, ok)
	assert.Equal(t, bson.M{"$exists": false}, deleted["deletedAt"])
}
