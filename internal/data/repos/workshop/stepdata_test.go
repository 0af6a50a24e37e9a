package workshop_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/starpathlabs/constellation-backend/internal/data/repos/testutil"
	"github.com/starpathlabs/constellation-backend/internal/data/repos/workshop"
	types "github.com/starpathlabs/constellation-backend/internal/domain"
	"gorm.io/datatypes"
)

func TestStepDataRepo_UpsertReplacesData(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, tx, "stepdata-upsert@example.com")
	repo := workshop.NewStepDataRepo(db, log)

	first := &types.WorkshopStepData{
		ID:       uuid.New(),
		UserID:   u.ID,
		Workshop: "ast",
		StepID:   "2-1",
		Data:     datatypes.JSON([]byte(`{"draft":true}`)),
	}
	if _, err := repo.Upsert(ctx, tx, first); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	second := &types.WorkshopStepData{
		ID:       uuid.New(),
		UserID:   u.ID,
		Workshop: "ast",
		StepID:   "2-1",
		Data:     datatypes.JSON([]byte(`{"draft":false}`)),
	}
	if _, err := repo.Upsert(ctx, tx, second); err != nil {
		t.Fatalf("upsert again: %v", err)
	}

	got, err := repo.GetByUserWorkshopStep(ctx, tx, u.ID, "ast", "2-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatalf("expected a row")
	}
	if got.ID != first.ID {
		t.Fatalf("upsert created a second row instead of updating")
	}
	if string(got.Data) != `{"draft":false}` {
		t.Fatalf("data not replaced, got %s", got.Data)
	}
}

func TestStepDataRepo_MarkCompletedAndCompletedStepIDs(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, tx, "stepdata-complete@example.com")
	repo := workshop.NewStepDataRepo(db, log)

	testutil.SeedStepData(t, ctx, tx, u.ID, "ast", "1-1", false)
	testutil.SeedStepData(t, ctx, tx, u.ID, "ast", "2-1", true)
	testutil.SeedStepData(t, ctx, tx, u.ID, "ia", "ia-1-1", true)

	if err := repo.MarkCompleted(ctx, tx, u.ID, "ast", "1-1"); err != nil {
		t.Fatalf("mark completed: %v", err)
	}

	got, err := repo.GetByUserWorkshopStep(ctx, tx, u.ID, "ast", "1-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Completed || got.CompletedAt == nil {
		t.Fatalf("expected completed with timestamp, got %+v", got)
	}

	ids, err := repo.CompletedStepIDs(ctx, tx, u.ID, "ast")
	if err != nil {
		t.Fatalf("completed step ids: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 completed ast steps, got %v", ids)
	}
}

func TestStepDataRepo_MarkCompletedCreatesRowWhenAbsent(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, tx, "stepdata-complete-new@example.com")
	repo := workshop.NewStepDataRepo(db, log)

	// Content and video steps never save step data first.
	if err := repo.MarkCompleted(ctx, tx, u.ID, "ast", "1-1"); err != nil {
		t.Fatalf("mark completed: %v", err)
	}

	got, err := repo.GetByUserWorkshopStep(ctx, tx, u.ID, "ast", "1-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatalf("expected a completion row to be created")
	}
	if !got.Completed || got.CompletedAt == nil {
		t.Fatalf("expected completed with timestamp, got %+v", got)
	}

	ids, err := repo.CompletedStepIDs(ctx, tx, u.ID, "ast")
	if err != nil {
		t.Fatalf("completed step ids: %v", err)
	}
	if len(ids) != 1 || ids[0] != "1-1" {
		t.Fatalf("expected [1-1], got %v", ids)
	}
}

func TestStepDataRepo_MarkCompletedKeepsSavedData(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, tx, "stepdata-complete-keep@example.com")
	repo := workshop.NewStepDataRepo(db, log)

	saved := &types.WorkshopStepData{
		ID:       uuid.New(),
		UserID:   u.ID,
		Workshop: "ast",
		StepID:   "2-1",
		Data:     datatypes.JSON([]byte(`{"answer":42}`)),
	}
	if _, err := repo.Upsert(ctx, tx, saved); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if err := repo.MarkCompleted(ctx, tx, u.ID, "ast", "2-1"); err != nil {
		t.Fatalf("mark completed: %v", err)
	}

	got, err := repo.GetByUserWorkshopStep(ctx, tx, u.ID, "ast", "2-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != saved.ID {
		t.Fatalf("completion created a second row instead of updating")
	}
	if !got.Completed {
		t.Fatalf("expected row marked completed")
	}
	if string(got.Data) != `{"answer":42}` {
		t.Fatalf("completion clobbered saved data: %s", got.Data)
	}
}

func TestStepDataRepo_SoftDeleteHidesRows(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, tx, "stepdata-soft@example.com")
	repo := workshop.NewStepDataRepo(db, log)

	testutil.SeedStepData(t, ctx, tx, u.ID, "ast", "1-1", true)
	testutil.SeedStepData(t, ctx, tx, u.ID, "ast", "2-1", false)

	n, err := repo.SoftDeleteByUserIDs(ctx, tx, []uuid.UUID{u.ID})
	if err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 rows soft deleted, got %d", n)
	}

	rows, err := repo.GetByUserWorkshop(ctx, tx, u.ID, "ast")
	if err != nil {
		t.Fatalf("get after soft delete: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("soft deleted rows still visible: %d", len(rows))
	}

	active, err := repo.CountActiveByUserIDs(ctx, tx, []uuid.UUID{u.ID})
	if err != nil {
		t.Fatalf("count active: %v", err)
	}
	if active != 0 {
		t.Fatalf("expected 0 active rows, got %d", active)
	}
}

func TestStepDataRepo_FullDeleteRemovesRows(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, tx, "stepdata-full@example.com")
	repo := workshop.NewStepDataRepo(db, log)

	testutil.SeedStepData(t, ctx, tx, u.ID, "ia", "ia-1-1", true)

	if _, err := repo.SoftDeleteByUserIDs(ctx, tx, []uuid.UUID{u.ID}); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	// Hard delete must also clear rows that were already soft deleted.
	n, err := repo.FullDeleteByUserIDs(ctx, tx, []uuid.UUID{u.ID})
	if err != nil {
		t.Fatalf("full delete: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 row hard deleted, got %d", n)
	}
}
