package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/starpathlabs/constellation-backend/internal/clients/openai"
	"github.com/starpathlabs/constellation-backend/internal/data/repos"
	types "github.com/starpathlabs/constellation-backend/internal/domain"
	"github.com/starpathlabs/constellation-backend/internal/platform/apierr"
	"github.com/starpathlabs/constellation-backend/internal/platform/logger"
	"github.com/starpathlabs/constellation-backend/internal/progression"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
)

const (
	ReportTypePersonal     = types.ReportTypePersonal
	ReportTypeProfessional = types.ReportTypeProfessional
)

// StarCardRenderer is satisfied by the starcard package. Rendering or
// uploading the card may fail without failing the report.
type StarCardRenderer interface {
	EnsureImage(ctx context.Context, userID uuid.UUID) error
}

// Inputs is the assembled source data for one generation run.
type Inputs struct {
	User          *types.User
	Quadrants     Quadrants
	Constellation Constellation
	FlowScore     int
	FlowCategory  string
	FlowAttrs     []string
	CantrilNow    int
	CantrilFuture int
	Reflections   []ReflectionEntry
}

// Result references the two persisted documents.
type Result struct {
	PersonalID     uuid.UUID `json:"personal_id"`
	ProfessionalID uuid.UUID `json:"professional_id"`
}

type Service struct {
	users       repos.UserRepo
	starCards   repos.StarCardRepo
	flow        repos.FlowAttributesRepo
	assessments repos.AssessmentRepo
	reflections repos.ReflectionRepo
	reports     repos.ReportRepo
	catalog     *progression.Catalog
	llm         openai.Client
	renderer    StarCardRenderer
	log         *logger.Logger
}

func NewService(
	users repos.UserRepo,
	starCards repos.StarCardRepo,
	flow repos.FlowAttributesRepo,
	assessments repos.AssessmentRepo,
	reflections repos.ReflectionRepo,
	reports repos.ReportRepo,
	catalog *progression.Catalog,
	llm openai.Client,
	renderer StarCardRenderer,
	baseLog *logger.Logger,
) *Service {
	return &Service{
		users:       users,
		starCards:   starCards,
		flow:        flow,
		assessments: assessments,
		reflections: reflections,
		reports:     reports,
		catalog:     catalog,
		llm:         llm,
		renderer:    renderer,
		log:         baseLog.With("service", "ReportService"),
	}
}

// FetchInputs loads the most recent row per source concurrently.
func (s *Service) FetchInputs(ctx context.Context, userID uuid.UUID) (*Inputs, error) {
	in := &Inputs{}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		users, err := s.users.GetByIDs(gctx, nil, []uuid.UUID{userID})
		if err != nil {
			return err
		}
		if len(users) == 0 {
			return apierr.BadRequest("invalid_identifier", errors.New("unknown user"))
		}
		in.User = users[0]
		return nil
	})

	g.Go(func() error {
		card, err := s.starCards.GetByUserID(gctx, nil, userID)
		if err != nil {
			return err
		}
		if card == nil {
			return apierr.BadRequest("invalid_request", errors.New("star card assessment not completed"))
		}
		in.Quadrants = Quadrants{
			Thinking: card.Thinking,
			Acting:   card.Acting,
			Feeling:  card.Feeling,
			Planning: card.Planning,
		}
		return nil
	})

	g.Go(func() error {
		fa, err := s.flow.GetByUserID(gctx, nil, userID)
		if err != nil {
			return err
		}
		if fa == nil {
			return nil
		}
		in.FlowScore = fa.FlowScore
		var attrs []string
		if len(fa.Attributes) > 0 {
			_ = json.Unmarshal(fa.Attributes, &attrs)
		}
		in.FlowAttrs = attrs
		return nil
	})

	g.Go(func() error {
		row, err := s.assessments.LatestByUserAndType(gctx, nil, userID, types.AssessmentTypeCantrilLadder)
		if err != nil {
			return err
		}
		if row == nil {
			return nil
		}
		var ladder struct {
			WellBeingLevel       int `json:"wellBeingLevel"`
			FutureWellBeingLevel int `json:"futureWellBeingLevel"`
		}
		_ = json.Unmarshal(row.Results, &ladder)
		in.CantrilNow = ladder.WellBeingLevel
		in.CantrilFuture = ladder.FutureWellBeingLevel
		return nil
	})

	g.Go(func() error {
		entries, err := s.fetchReflections(gctx, userID)
		if err != nil {
			return err
		}
		in.Reflections = entries
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	in.Constellation = Classify(in.Quadrants)
	in.FlowCategory = FlowCategory(in.FlowScore)
	return in, nil
}

// fetchReflections walks every catalog set in order and collects the user's
// stored answers with their prompts.
func (s *Service) fetchReflections(ctx context.Context, userID uuid.UUID) ([]ReflectionEntry, error) {
	var entries []ReflectionEntry
	for _, rs := range s.catalog.ReflectionSets {
		rows, err := s.reflections.GetByUserSet(ctx, nil, userID, rs.ID)
		if err != nil {
			return nil, err
		}
		byItem := make(map[string]*types.ReflectionResponse, len(rows))
		for _, row := range rows {
			byItem[row.ItemID] = row
		}
		for _, it := range rs.Items {
			row, ok := byItem[it.ID]
			if !ok || row.Response == "" {
				continue
			}
			entries = append(entries, ReflectionEntry{Prompt: it.Prompt, Response: row.Response})
		}
	}
	return entries, nil
}

// Generate runs the full pipeline and persists both documents. The caller
// (worker activity or synchronous fallback) owns job bookkeeping.
func (s *Service) Generate(ctx context.Context, userID uuid.UUID) (*Result, error) {
	in, err := s.FetchInputs(ctx, userID)
	if err != nil {
		return nil, err
	}

	// The card image is a nice-to-have for the report page. Failure is
	// logged and generation continues.
	if s.renderer != nil {
		if err := s.renderer.EnsureImage(ctx, userID); err != nil {
			s.log.Warn("star card image generation failed", "user_id", userID.String(), "error", err.Error())
		}
	}

	personal, err := s.generateOne(ctx, ReportTypePersonal, userID, in)
	if err != nil {
		return nil, err
	}
	professional, err := s.generateOne(ctx, ReportTypeProfessional, userID, in)
	if err != nil {
		return nil, err
	}

	s.log.Info("report generated",
		"user_id", userID.String(),
		"personal_id", personal.ID.String(),
		"professional_id", professional.ID.String(),
	)
	return &Result{PersonalID: personal.ID, ProfessionalID: professional.ID}, nil
}

const systemPrompt = "You are a thoughtful strengths-development writer for a team workshop program. You write grounded, specific prose from assessment data and participant reflections."

func (s *Service) generateOne(ctx context.Context, reportType string, userID uuid.UUID, in *Inputs) (*types.HolisticReport, error) {
	prompt := BuildPrompt(reportType, PromptInput{
		FirstName:     in.User.FirstName,
		Constellation: in.Constellation,
		Quadrants:     in.Quadrants,
		FlowScore:     in.FlowScore,
		FlowCategory:  in.FlowCategory,
		FlowAttrs:     in.FlowAttrs,
		CantrilNow:    in.CantrilNow,
		CantrilFuture: in.CantrilFuture,
		Reflections:   in.Reflections,
	})

	prose, err := s.llm.GenerateText(ctx, systemPrompt, prompt, 4096)
	if err != nil {
		return nil, apierr.Upstream(fmt.Errorf("report generation: %w", err))
	}

	body := MarkdownToHTML(prose)
	doc := renderDocument(reportType, in.User.FirstName, in.Constellation, in.FlowCategory, body)

	meta, _ := json.Marshal(map[string]any{
		"archetype":     in.Constellation.Archetype,
		"pattern":       in.Constellation.Pattern,
		"flow_category": in.FlowCategory,
		"model":         s.llm.Model(),
	})

	row := &types.HolisticReport{
		ID:         uuid.New(),
		UserID:     userID,
		ReportType: reportType,
		HTML:       doc,
		Metadata:   datatypes.JSON(meta),
	}
	return s.reports.Create(ctx, nil, row)
}

// Latest returns the most recent document of one type, or nil.
func (s *Service) Latest(ctx context.Context, userID uuid.UUID, reportType string) (*types.HolisticReport, error) {
	if reportType != ReportTypePersonal && reportType != ReportTypeProfessional {
		return nil, apierr.BadRequest("invalid_request", errors.New("unknown report type"))
	}
	return s.reports.LatestByUserAndType(ctx, nil, userID, reportType)
}
