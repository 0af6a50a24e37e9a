package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	types "github.com/starpathlabs/constellation-backend/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
		Role:      "participant",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedTestUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := SeedUser(tb, ctx, tx, email)
	if err := tx.WithContext(ctx).Model(u).Update("is_test_user", true).Error; err != nil {
		tb.Fatalf("seed test user: %v", err)
	}
	u.IsTestUser = true
	return u
}

func SeedStepData(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, workshop, stepID string, completed bool) *types.WorkshopStepData {
	tb.Helper()
	row := &types.WorkshopStepData{
		ID:        uuid.New(),
		UserID:    userID,
		Workshop:  workshop,
		StepID:    stepID,
		Data:      datatypes.JSON([]byte(`{}`)),
		Completed: completed,
	}
	if completed {
		row.CompletedAt = PtrTime(time.Now().UTC())
	}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed step data: %v", err)
	}
	return row
}

func SeedReflection(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, setID, itemID, response string, completed bool) *types.ReflectionResponse {
	tb.Helper()
	row := &types.ReflectionResponse{
		ID:        uuid.New(),
		UserID:    userID,
		SetID:     setID,
		ItemID:    itemID,
		Response:  response,
		Completed: completed,
	}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed reflection: %v", err)
	}
	return row
}

func SeedAssessment(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, assessmentType, results string) *types.UserAssessment {
	tb.Helper()
	row := &types.UserAssessment{
		ID:             uuid.New(),
		UserID:         userID,
		AssessmentType: assessmentType,
		Results:        datatypes.JSON([]byte(results)),
	}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed assessment: %v", err)
	}
	return row
}

func SeedStarCard(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, thinking, acting, feeling, planning int) *types.StarCard {
	tb.Helper()
	row := &types.StarCard{
		ID:       uuid.New(),
		UserID:   userID,
		Thinking: thinking,
		Acting:   acting,
		Feeling:  feeling,
		Planning: planning,
		State:    types.StarCardStateComplete,
	}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed star card: %v", err)
	}
	return row
}

func SeedFlowAttributes(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, score int, attrs string) *types.FlowAttributes {
	tb.Helper()
	row := &types.FlowAttributes{
		ID:         uuid.New(),
		UserID:     userID,
		Attributes: datatypes.JSON([]byte(attrs)),
		FlowScore:  score,
	}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed flow attributes: %v", err)
	}
	return row
}

func SeedReport(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, reportType, html string) *types.HolisticReport {
	tb.Helper()
	row := &types.HolisticReport{
		ID:         uuid.New(),
		UserID:     userID,
		ReportType: reportType,
		HTML:       html,
		Metadata:   datatypes.JSON([]byte(`{}`)),
	}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed report: %v", err)
	}
	return row
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrTime(v time.Time) *time.Time { return &v }
