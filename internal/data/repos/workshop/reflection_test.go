package workshop_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/starpathlabs/constellation-backend/internal/data/repos/testutil"
	"github.com/starpathlabs/constellation-backend/internal/data/repos/workshop"
	types "github.com/starpathlabs/constellation-backend/internal/domain"
)

func TestReflectionRepo_UpsertKeepsCompletion(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, tx, "reflection-upsert@example.com")
	repo := workshop.NewReflectionRepo(db, log)

	row := &types.ReflectionResponse{
		ID:       uuid.New(),
		UserID:   u.ID,
		SetID:    "rounding-out",
		ItemID:   "strengths",
		Response: "first pass at an answer",
	}
	if _, err := repo.Upsert(ctx, tx, row); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := repo.MarkCompleted(ctx, tx, u.ID, "rounding-out", "strengths"); err != nil {
		t.Fatalf("mark completed: %v", err)
	}

	// A later save rewrites the text but must not clear completion.
	again := &types.ReflectionResponse{
		ID:       uuid.New(),
		UserID:   u.ID,
		SetID:    "rounding-out",
		ItemID:   "strengths",
		Response: "a longer, revised answer",
	}
	if _, err := repo.Upsert(ctx, tx, again); err != nil {
		t.Fatalf("upsert after complete: %v", err)
	}

	got, err := repo.GetByUserSetItem(ctx, tx, u.ID, "rounding-out", "strengths")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatalf("expected a row")
	}
	if got.Response != "a longer, revised answer" {
		t.Fatalf("response not updated: %q", got.Response)
	}
	if !got.Completed {
		t.Fatalf("completion flag was cleared by save")
	}
}

func TestReflectionRepo_GetByUserSet(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, tx, "reflection-set@example.com")
	repo := workshop.NewReflectionRepo(db, log)

	testutil.SeedReflection(t, ctx, tx, u.ID, "rounding-out", "strengths", "answer one", true)
	testutil.SeedReflection(t, ctx, tx, u.ID, "rounding-out", "values", "answer two", false)
	testutil.SeedReflection(t, ctx, tx, u.ID, "future-self", "vision", "other set", false)

	rows, err := repo.GetByUserSet(ctx, tx, u.ID, "rounding-out")
	if err != nil {
		t.Fatalf("get by set: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
}

func TestReflectionRepo_FullDeleteAndCount(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, tx, "reflection-delete@example.com")
	repo := workshop.NewReflectionRepo(db, log)

	testutil.SeedReflection(t, ctx, tx, u.ID, "rounding-out", "strengths", "x", false)
	testutil.SeedReflection(t, ctx, tx, u.ID, "rounding-out", "values", "y", false)

	count, err := repo.CountByUserIDs(ctx, tx, []uuid.UUID{u.ID})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2, got %d", count)
	}

	n, err := repo.FullDeleteByUserIDs(ctx, tx, []uuid.UUID{u.ID})
	if err != nil {
		t.Fatalf("full delete: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 deleted, got %d", n)
	}
}
