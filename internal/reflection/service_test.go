package reflection_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/starpathlabs/constellation-backend/internal/data/repos"
	"github.com/starpathlabs/constellation-backend/internal/data/repos/testutil"
	"github.com/starpathlabs/constellation-backend/internal/platform/apierr"
	"github.com/starpathlabs/constellation-backend/internal/progression"
	"github.com/starpathlabs/constellation-backend/internal/reflection"
	"gorm.io/gorm"
)

func newService(t *testing.T, tx *gorm.DB) *reflection.Service {
	t.Helper()
	catalog, err := progression.Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	log := testutil.Logger(t)
	return reflection.NewService(
		catalog,
		repos.NewReflectionRepo(tx, log),
		repos.NewWorkshopStatusRepo(tx, log),
		log,
	)
}

func TestGetOrInitSet_EmptySetCursorAtFirstItem(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, tx, "reflect-init@example.com")
	svc := newService(t, tx)

	view, err := svc.GetOrInitSet(ctx, u.ID, "rounding-out")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(view.Items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(view.Items))
	}
	if view.Cursor != "strengths" {
		t.Fatalf("expected cursor at first item, got %q", view.Cursor)
	}
	for _, it := range view.Items {
		if it.Response != "" || it.Completed {
			t.Fatalf("fresh set should have no state: %+v", it)
		}
	}
}

func TestSaveAndComplete_AdvancesCursor(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, tx, "reflect-advance@example.com")
	svc := newService(t, tx)

	answer := "when I am deep in a hard problem my planning strength carries me"
	if _, err := svc.Save(ctx, u.ID, "rounding-out", "strengths", answer); err != nil {
		t.Fatalf("save: %v", err)
	}

	view, err := svc.Complete(ctx, u.ID, "rounding-out", "strengths")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if view.Cursor != "values" {
		t.Fatalf("cursor should advance to the second item, got %q", view.Cursor)
	}
	if !view.Items[0].Completed {
		t.Fatalf("first item should be completed")
	}
}

func TestSave_RejectsEmptyAfterTrim(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, tx, "reflect-empty@example.com")
	svc := newService(t, tx)

	_, err := svc.Save(ctx, u.ID, "rounding-out", "strengths", "   \n\t ")
	if err == nil {
		t.Fatalf("expected rejection")
	}
	ae := apierr.From(err)
	if ae.Status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", ae.Status)
	}
}

func TestSave_RejectsLockedWorkshop(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, tx, "reflect-locked@example.com")
	log := testutil.Logger(t)
	if err := repos.NewWorkshopStatusRepo(tx, log).SetLocked(ctx, tx, u.ID, "ast", true); err != nil {
		t.Fatalf("lock workshop: %v", err)
	}
	svc := newService(t, tx)

	_, err := svc.Save(ctx, u.ID, "rounding-out", "strengths", "an answer of reasonable length")
	if err == nil {
		t.Fatalf("expected rejection")
	}
	ae := apierr.From(err)
	if ae.Status != http.StatusConflict || ae.Code != "step_locked" {
		t.Fatalf("expected 409 step_locked, got %d %s", ae.Status, ae.Code)
	}
}

func TestComplete_RejectsShortResponse(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, tx, "reflect-short@example.com")
	svc := newService(t, tx)

	// 19 characters after trim, one below the default minimum.
	if _, err := svc.Save(ctx, u.ID, "rounding-out", "strengths", " "+strings.Repeat("a", 19)+" "); err != nil {
		t.Fatalf("save: %v", err)
	}
	_, err := svc.Complete(ctx, u.ID, "rounding-out", "strengths")
	if err == nil {
		t.Fatalf("expected rejection")
	}
	ae := apierr.From(err)
	if ae.Status != http.StatusUnprocessableEntity || ae.Code != "response_too_short" {
		t.Fatalf("expected 422 response_too_short, got %d %s", ae.Status, ae.Code)
	}

	// Exactly the minimum passes.
	if _, err := svc.Save(ctx, u.ID, "rounding-out", "strengths", strings.Repeat("a", 20)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := svc.Complete(ctx, u.ID, "rounding-out", "strengths"); err != nil {
		t.Fatalf("complete at minimum: %v", err)
	}
}

func TestComplete_UsesPerItemOverride(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, tx, "reflect-override@example.com")
	svc := newService(t, tx)

	// 25 chars clears the default but not the 30-char override.
	if _, err := svc.Save(ctx, u.ID, "star-strengths", "uniqueContribution", strings.Repeat("b", 25)); err != nil {
		t.Fatalf("save: %v", err)
	}
	_, err := svc.Complete(ctx, u.ID, "star-strengths", "uniqueContribution")
	if err == nil {
		t.Fatalf("expected rejection below per-item minimum")
	}
	if ae := apierr.From(err); ae.Code != "response_too_short" {
		t.Fatalf("expected response_too_short, got %s", ae.Code)
	}
}

func TestUnknownSetAndItem(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, tx, "reflect-unknown@example.com")
	svc := newService(t, tx)

	if _, err := svc.GetOrInitSet(ctx, u.ID, "no-such-set"); err == nil {
		t.Fatalf("expected unknown set error")
	}
	_, err := svc.Save(ctx, u.ID, "rounding-out", "no-such-item", "some text here")
	if err == nil {
		t.Fatalf("expected unknown item error")
	}
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Code != "invalid_identifier" {
		t.Fatalf("expected invalid_identifier, got %v", err)
	}
}
