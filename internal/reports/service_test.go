package reports_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/starpathlabs/constellation-backend/internal/data/repos"
	"github.com/starpathlabs/constellation-backend/internal/data/repos/testutil"
	types "github.com/starpathlabs/constellation-backend/internal/domain"
	"github.com/starpathlabs/constellation-backend/internal/progression"
	"github.com/starpathlabs/constellation-backend/internal/reports"
	"gorm.io/gorm"
)

type fakeLLM struct {
	prose   string
	err     error
	prompts []string
}

func (f *fakeLLM) GenerateText(_ context.Context, _, user string, _ int) (string, error) {
	f.prompts = append(f.prompts, user)
	if f.err != nil {
		return "", f.err
	}
	return f.prose, nil
}

func (f *fakeLLM) Model() string { return "fake-model" }

type failingRenderer struct{ called bool }

func (r *failingRenderer) EnsureImage(context.Context, uuid.UUID) error {
	r.called = true
	return errors.New("render broke")
}

func newService(t *testing.T, tx *gorm.DB, llm *fakeLLM, renderer reports.StarCardRenderer) *reports.Service {
	t.Helper()
	catalog, err := progression.Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	log := testutil.Logger(t)
	return reports.NewService(
		repos.NewUserRepo(tx, log),
		repos.NewStarCardRepo(tx, log),
		repos.NewFlowAttributesRepo(tx, log),
		repos.NewAssessmentRepo(tx, log),
		repos.NewReflectionRepo(tx, log),
		repos.NewReportRepo(tx, log),
		catalog,
		llm,
		renderer,
		log,
	)
}

func seedReportInputs(t *testing.T, ctx context.Context, tx *gorm.DB, email string) *types.User {
	t.Helper()
	u := testutil.SeedUser(t, ctx, tx, email)
	testutil.SeedStarCard(t, ctx, tx, u.ID, 20, 45, 15, 20)
	testutil.SeedFlowAttributes(t, ctx, tx, u.ID, 42, `["focused","absorbed"]`)
	testutil.SeedAssessment(t, ctx, tx, u.ID, types.AssessmentTypeCantrilLadder,
		`{"wellBeingLevel":6,"futureWellBeingLevel":9}`)
	testutil.SeedReflection(t, ctx, tx, u.ID, "rounding-out", "strengths",
		"deep work with the team carries me through hard problems", true)
	return u
}

func TestFetchInputs_DerivesLabels(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	u := seedReportInputs(t, ctx, tx, "report-inputs@example.com")
	svc := newService(t, tx, &fakeLLM{prose: "## x"}, nil)

	in, err := svc.FetchInputs(ctx, u.ID)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if in.Constellation.Archetype != "Dynamic Organizer" {
		t.Fatalf("expected Dynamic Organizer, got %q", in.Constellation.Archetype)
	}
	if in.FlowCategory != reports.FlowAware {
		t.Fatalf("expected Flow Aware, got %q", in.FlowCategory)
	}
	if in.CantrilNow != 6 || in.CantrilFuture != 9 {
		t.Fatalf("ladder not read: %d/%d", in.CantrilNow, in.CantrilFuture)
	}
	if len(in.Reflections) != 1 {
		t.Fatalf("expected 1 reflection, got %d", len(in.Reflections))
	}
}

func TestFetchInputs_RequiresStarCard(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, tx, "report-nocard@example.com")
	svc := newService(t, tx, &fakeLLM{prose: "## x"}, nil)

	if _, err := svc.FetchInputs(ctx, u.ID); err == nil {
		t.Fatalf("expected error without a star card")
	}
}

func TestGenerate_PersistsBothDocuments(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	u := seedReportInputs(t, ctx, tx, "report-generate@example.com")
	llm := &fakeLLM{prose: "## Strengths\n\nYou move teams with **momentum**."}
	svc := newService(t, tx, llm, nil)

	res, err := svc.Generate(ctx, u.ID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(llm.prompts) != 2 {
		t.Fatalf("expected two LLM calls, got %d", len(llm.prompts))
	}

	log := testutil.Logger(t)
	reportRepo := repos.NewReportRepo(tx, log)
	for _, id := range []uuid.UUID{res.PersonalID, res.ProfessionalID} {
		rows, err := reportRepo.GetByIDs(ctx, tx, []uuid.UUID{id})
		if err != nil {
			t.Fatalf("read back: %v", err)
		}
		if len(rows) != 1 {
			t.Fatalf("document %s not persisted", id)
		}
		if !strings.Contains(rows[0].HTML, "<strong>momentum</strong>") {
			t.Fatalf("prose not converted into document")
		}
		if !strings.Contains(rows[0].HTML, "Dynamic Organizer") {
			t.Fatalf("labels missing from document shell")
		}
	}
}

func TestGenerate_RendererFailureDoesNotAbort(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	u := seedReportInputs(t, ctx, tx, "report-renderfail@example.com")
	renderer := &failingRenderer{}
	svc := newService(t, tx, &fakeLLM{prose: "## ok"}, renderer)

	if _, err := svc.Generate(ctx, u.ID); err != nil {
		t.Fatalf("generate should survive renderer failure: %v", err)
	}
	if !renderer.called {
		t.Fatalf("renderer was never invoked")
	}
}

func TestGenerate_LLMFailurePropagates(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	u := seedReportInputs(t, ctx, tx, "report-llmfail@example.com")
	svc := newService(t, tx, &fakeLLM{err: errors.New("rate limited")}, nil)

	if _, err := svc.Generate(ctx, u.ID); err == nil {
		t.Fatalf("expected upstream error")
	}
}

func TestLatest_MostRecentWins(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, tx, "report-latest@example.com")
	old := testutil.SeedReport(t, ctx, tx, u.ID, types.ReportTypePersonal, "<p>old</p>")
	if err := tx.Model(old).Update("created_at", old.CreatedAt.Add(-time.Hour)).Error; err != nil {
		t.Fatalf("age old report: %v", err)
	}
	latest := testutil.SeedReport(t, ctx, tx, u.ID, types.ReportTypePersonal, "<p>new</p>")

	svc := newService(t, tx, &fakeLLM{prose: "x"}, nil)
	got, err := svc.Latest(ctx, u.ID, types.ReportTypePersonal)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if got == nil || got.ID != latest.ID {
		t.Fatalf("expected newest document")
	}

	if _, err := svc.Latest(ctx, u.ID, "weekly"); err == nil {
		t.Fatalf("expected rejection of unknown type")
	}
}
