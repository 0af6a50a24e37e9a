package assessment_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/starpathlabs/constellation-backend/internal/data/repos/assessment"
	"github.com/starpathlabs/constellation-backend/internal/data/repos/testutil"
	types "github.com/starpathlabs/constellation-backend/internal/domain"
)

func TestAssessmentRepo_LatestByUserAndType(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, tx, "assessment-latest@example.com")
	repo := assessment.NewAssessmentRepo(db, log)

	old := testutil.SeedAssessment(t, ctx, tx, u.ID, types.AssessmentTypeStarCard, `{"thinking":10}`)
	if err := tx.Model(old).Update("created_at", old.CreatedAt.Add(-time.Hour)).Error; err != nil {
		t.Fatalf("age old assessment: %v", err)
	}
	latest := testutil.SeedAssessment(t, ctx, tx, u.ID, types.AssessmentTypeStarCard, `{"thinking":25}`)
	testutil.SeedAssessment(t, ctx, tx, u.ID, types.AssessmentTypeFlow, `{"flowScore":42}`)

	got, err := repo.LatestByUserAndType(ctx, tx, u.ID, types.AssessmentTypeStarCard)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if got == nil {
		t.Fatalf("expected a row")
	}
	if got.ID != latest.ID {
		t.Fatalf("expected most recent row, got %s", got.ID)
	}

	missing, err := repo.LatestByUserAndType(ctx, tx, u.ID, types.AssessmentTypeCantrilLadder)
	if err != nil {
		t.Fatalf("latest missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for absent type")
	}
}

func TestAssessmentRepo_FullDeleteByUserIDs(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, tx, "assessment-delete@example.com")
	other := testutil.SeedUser(t, ctx, tx, "assessment-keep@example.com")
	repo := assessment.NewAssessmentRepo(db, log)

	testutil.SeedAssessment(t, ctx, tx, u.ID, types.AssessmentTypeStarCard, `{}`)
	testutil.SeedAssessment(t, ctx, tx, u.ID, types.AssessmentTypeFlow, `{}`)
	testutil.SeedAssessment(t, ctx, tx, other.ID, types.AssessmentTypeStarCard, `{}`)

	n, err := repo.FullDeleteByUserIDs(ctx, tx, []uuid.UUID{u.ID})
	if err != nil {
		t.Fatalf("full delete: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 deleted, got %d", n)
	}

	count, err := repo.CountByUserIDs(ctx, tx, []uuid.UUID{other.ID})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("other user's rows were touched")
	}
}

func TestStarCardRepo_UpsertOnePerUser(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, tx, "starcard-upsert@example.com")
	repo := assessment.NewStarCardRepo(db, log)

	first := &types.StarCard{
		ID: uuid.New(), UserID: u.ID,
		Thinking: 20, Acting: 45, Feeling: 15, Planning: 20,
		State: types.StarCardStatePartial,
	}
	if _, err := repo.Upsert(ctx, tx, first); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	second := &types.StarCard{
		ID: uuid.New(), UserID: u.ID,
		Thinking: 25, Acting: 40, Feeling: 15, Planning: 20,
		State: types.StarCardStateComplete,
	}
	if _, err := repo.Upsert(ctx, tx, second); err != nil {
		t.Fatalf("upsert again: %v", err)
	}

	got, err := repo.GetByUserID(ctx, tx, u.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatalf("expected a row")
	}
	if got.ID != first.ID {
		t.Fatalf("second upsert inserted a new row")
	}
	if got.Thinking != 25 || got.State != types.StarCardStateComplete {
		t.Fatalf("row not updated: %+v", got)
	}
}

func TestFlowAttributesRepo_Upsert(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, tx, "flow-upsert@example.com")
	repo := assessment.NewFlowAttributesRepo(db, log)

	testutil.SeedFlowAttributes(t, ctx, tx, u.ID, 38, `["focused"]`)

	row, err := repo.GetByUserID(ctx, tx, u.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	row.FlowScore = 44
	if _, err := repo.Upsert(ctx, tx, row); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := repo.GetByUserID(ctx, tx, u.ID)
	if err != nil {
		t.Fatalf("get again: %v", err)
	}
	if got.FlowScore != 44 {
		t.Fatalf("flow score not updated, got %d", got.FlowScore)
	}
}
