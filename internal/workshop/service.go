// Package workshop is the step-data and assessment surface: saving the
// per-step JSON blobs, marking steps complete through the progression
// resolver, and deriving star card / flow rows from assessment saves.
package workshop

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/starpathlabs/constellation-backend/internal/data/repos"
	types "github.com/starpathlabs/constellation-backend/internal/domain"
	"github.com/starpathlabs/constellation-backend/internal/platform/apierr"
	"github.com/starpathlabs/constellation-backend/internal/platform/logger"
	"github.com/starpathlabs/constellation-backend/internal/progression"
	"github.com/starpathlabs/constellation-backend/internal/realtime"
	"github.com/starpathlabs/constellation-backend/internal/realtime/bus"
)

type Service struct {
	steps       repos.StepDataRepo
	status      repos.WorkshopStatusRepo
	assessments repos.AssessmentRepo
	starCards   repos.StarCardRepo
	flow        repos.FlowAttributesRepo
	catalog     *progression.Catalog
	bus         bus.Bus
	log         *logger.Logger
}

func NewService(
	steps repos.StepDataRepo,
	status repos.WorkshopStatusRepo,
	assessments repos.AssessmentRepo,
	starCards repos.StarCardRepo,
	flow repos.FlowAttributesRepo,
	catalog *progression.Catalog,
	eventBus bus.Bus,
	baseLog *logger.Logger,
) *Service {
	return &Service{
		steps:       steps,
		status:      status,
		assessments: assessments,
		starCards:   starCards,
		flow:        flow,
		catalog:     catalog,
		bus:         eventBus,
		log:         baseLog.With("service", "WorkshopService"),
	}
}

// Navigation resolves the full accessible/completed step map for one
// workshop, plus the next incomplete step.
type Navigation struct {
	Workshop string                  `json:"workshop"`
	Steps    []progression.StepState `json:"steps"`
	NextStep string                  `json:"next_step,omitempty"`
}

func (s *Service) Navigation(ctx context.Context, userID uuid.UUID, workshop string) (*Navigation, error) {
	w, ok := s.catalog.Workshop(workshop)
	if !ok {
		return nil, apierr.BadRequest("invalid_identifier", errors.New("unknown workshop"))
	}
	completedIDs, err := s.steps.CompletedStepIDs(ctx, nil, userID, workshop)
	if err != nil {
		return nil, err
	}
	completed := progression.NewCompletedSet(completedIDs)
	return &Navigation{
		Workshop: w.Name,
		Steps:    w.States(completed),
		NextStep: w.NextStep(completed),
	}, nil
}

func (s *Service) GetStep(ctx context.Context, userID uuid.UUID, workshop, stepID string) (*types.WorkshopStepData, error) {
	if err := s.requireStep(workshop, stepID); err != nil {
		return nil, err
	}
	return s.steps.GetByUserWorkshopStep(ctx, nil, userID, workshop, stepID)
}

func (s *Service) SaveStep(ctx context.Context, userID uuid.UUID, workshop, stepID string, data json.RawMessage) (*types.WorkshopStepData, error) {
	if err := s.requireStep(workshop, stepID); err != nil {
		return nil, err
	}
	if len(data) == 0 || string(data) == "null" {
		return nil, apierr.BadRequest("invalid_request", errors.New("step data is required"))
	}
	row := &types.WorkshopStepData{
		ID:       uuid.New(),
		UserID:   userID,
		Workshop: workshop,
		StepID:   stepID,
		Data:     datatypes.JSON(data),
	}
	return s.steps.Upsert(ctx, nil, row)
}

// CompleteStep marks one step done. The step must be accessible under the
// progression rules; completing a locked or out-of-order step is rejected.
func (s *Service) CompleteStep(ctx context.Context, userID uuid.UUID, workshop, stepID string) (*Navigation, error) {
	w, ok := s.catalog.Workshop(workshop)
	if !ok || w.StepIndex(stepID) < 0 {
		return nil, apierr.BadRequest("invalid_identifier", errors.New("unknown workshop or step"))
	}

	completedIDs, err := s.steps.CompletedStepIDs(ctx, nil, userID, workshop)
	if err != nil {
		return nil, err
	}
	completed := progression.NewCompletedSet(completedIDs)
	if !w.Accessible(stepID, completed) {
		return nil, apierr.New(http.StatusConflict, "step_locked", errors.New("step is not accessible yet"))
	}

	if err := s.steps.MarkCompleted(ctx, nil, userID, workshop, stepID); err != nil {
		return nil, err
	}
	s.publish(ctx, userID, realtime.EventStepCompleted, map[string]any{
		"workshop": workshop,
		"step_id":  stepID,
	})

	completed[stepID] = true
	return &Navigation{
		Workshop: w.Name,
		Steps:    w.States(completed),
		NextStep: w.NextStep(completed),
	}, nil
}

// SubmitAssessment inserts a new assessment row and maintains the derived
// star card / flow attribute rows for the types that have one.
func (s *Service) SubmitAssessment(ctx context.Context, userID uuid.UUID, assessmentType string, results json.RawMessage) (*types.UserAssessment, error) {
	switch assessmentType {
	case types.AssessmentTypeStarCard, types.AssessmentTypeFlow,
		types.AssessmentTypeCantrilLadder, types.AssessmentTypeStepReflect:
	default:
		return nil, apierr.BadRequest("invalid_identifier", errors.New("unknown assessment type"))
	}
	if len(results) == 0 || string(results) == "null" {
		return nil, apierr.BadRequest("invalid_request", errors.New("assessment results are required"))
	}

	row := &types.UserAssessment{
		ID:             uuid.New(),
		UserID:         userID,
		AssessmentType: assessmentType,
		Results:        datatypes.JSON(results),
	}
	created, err := s.assessments.Create(ctx, nil, []*types.UserAssessment{row})
	if err != nil {
		return nil, err
	}

	switch assessmentType {
	case types.AssessmentTypeStarCard:
		if err := s.deriveStarCard(ctx, userID, results); err != nil {
			return nil, err
		}
		s.publish(ctx, userID, realtime.EventStarCardUpdated, nil)
	case types.AssessmentTypeFlow:
		if err := s.deriveFlow(ctx, userID, results); err != nil {
			return nil, err
		}
	}
	return created[0], nil
}

func (s *Service) deriveStarCard(ctx context.Context, userID uuid.UUID, results json.RawMessage) error {
	var scores struct {
		Thinking int `json:"thinking"`
		Acting   int `json:"acting"`
		Feeling  int `json:"feeling"`
		Planning int `json:"planning"`
	}
	if err := json.Unmarshal(results, &scores); err != nil {
		return apierr.BadRequest("invalid_request", err)
	}
	card := &types.StarCard{
		ID:       uuid.New(),
		UserID:   userID,
		Thinking: scores.Thinking,
		Acting:   scores.Acting,
		Feeling:  scores.Feeling,
		Planning: scores.Planning,
		State:    types.StarCardStateComplete,
	}
	if scores.Thinking+scores.Acting+scores.Feeling+scores.Planning == 0 {
		card.State = types.StarCardStateEmpty
	}
	_, err := s.starCards.Upsert(ctx, nil, card)
	return err
}

func (s *Service) deriveFlow(ctx context.Context, userID uuid.UUID, results json.RawMessage) error {
	var flow struct {
		FlowScore  int             `json:"flowScore"`
		Attributes json.RawMessage `json:"attributes"`
	}
	if err := json.Unmarshal(results, &flow); err != nil {
		return apierr.BadRequest("invalid_request", err)
	}
	row := &types.FlowAttributes{
		ID:        uuid.New(),
		UserID:    userID,
		FlowScore: flow.FlowScore,
	}
	if len(flow.Attributes) > 0 {
		row.Attributes = datatypes.JSON(flow.Attributes)
	}
	_, err := s.flow.Upsert(ctx, nil, row)
	return err
}

func (s *Service) requireStep(workshop, stepID string) error {
	w, ok := s.catalog.Workshop(workshop)
	if !ok || w.StepIndex(stepID) < 0 {
		return apierr.BadRequest("invalid_identifier", errors.New("unknown workshop or step"))
	}
	return nil
}

func (s *Service) publish(ctx context.Context, userID uuid.UUID, event realtime.Event, data any) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, realtime.Message{
		Channel: userID.String(),
		Event:   event,
		Data:    data,
	}); err != nil {
		s.log.Warn("event publish failed", "event", string(event), "error", err.Error())
	}
}
