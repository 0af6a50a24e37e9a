// Package reflection drives the sequential free-text prompt sets. The server
// holds the reveal cursor: the first incomplete item in catalog order is the
// one the client shows next, so a reload always resumes in the right place.
package reflection

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/starpathlabs/constellation-backend/internal/data/repos"
	types "github.com/starpathlabs/constellation-backend/internal/domain"
	"github.com/starpathlabs/constellation-backend/internal/platform/apierr"
	"github.com/starpathlabs/constellation-backend/internal/platform/logger"
	"github.com/starpathlabs/constellation-backend/internal/progression"
)

type Item struct {
	ID        string `json:"id"`
	Prompt    string `json:"prompt"`
	MinLen    int    `json:"min_len"`
	Response  string `json:"response"`
	Completed bool   `json:"completed"`
}

// SetView is the full state of one reflection set for one user. Cursor is
// the ID of the first incomplete item, empty when the set is finished.
type SetView struct {
	SetID  string `json:"set_id"`
	Items  []Item `json:"items"`
	Cursor string `json:"cursor"`
}

type Service struct {
	catalog     *progression.Catalog
	reflections repos.ReflectionRepo
	status      repos.WorkshopStatusRepo
	log         *logger.Logger
}

func NewService(
	catalog *progression.Catalog,
	reflections repos.ReflectionRepo,
	status repos.WorkshopStatusRepo,
	baseLog *logger.Logger,
) *Service {
	return &Service{
		catalog:     catalog,
		reflections: reflections,
		status:      status,
		log:         baseLog.With("service", "ReflectionService"),
	}
}

func (s *Service) set(setID string) (*progression.ReflectionSet, error) {
	rs, ok := s.catalog.ReflectionSet(setID)
	if !ok {
		return nil, apierr.BadRequest("invalid_identifier", errors.New("unknown reflection set"))
	}
	return rs, nil
}

// GetOrInitSet assembles the set view from stored responses. Items with no
// row yet appear with an empty response; nothing is written.
func (s *Service) GetOrInitSet(ctx context.Context, userID uuid.UUID, setID string) (*SetView, error) {
	rs, err := s.set(setID)
	if err != nil {
		return nil, err
	}

	rows, err := s.reflections.GetByUserSet(ctx, nil, userID, setID)
	if err != nil {
		return nil, err
	}
	byItem := make(map[string]*types.ReflectionResponse, len(rows))
	for _, row := range rows {
		byItem[row.ItemID] = row
	}

	view := &SetView{SetID: setID, Items: make([]Item, 0, len(rs.Items))}
	for _, it := range rs.Items {
		item := Item{
			ID:     it.ID,
			Prompt: it.Prompt,
			MinLen: rs.MinLen(it.ID),
		}
		if row, ok := byItem[it.ID]; ok {
			item.Response = row.Response
			item.Completed = row.Completed
		}
		if view.Cursor == "" && !item.Completed {
			view.Cursor = item.ID
		}
		view.Items = append(view.Items, item)
	}
	return view, nil
}

// Save upserts one response. The text survives a trim check only; length
// validation happens at Complete, so drafts of any length persist.
func (s *Service) Save(ctx context.Context, userID uuid.UUID, setID, itemID, text string) (*types.ReflectionResponse, error) {
	rs, err := s.set(setID)
	if err != nil {
		return nil, err
	}
	if _, ok := rs.Item(itemID); !ok {
		return nil, apierr.BadRequest("invalid_identifier", errors.New("unknown reflection item"))
	}
	if strings.TrimSpace(text) == "" {
		return nil, apierr.BadRequest("invalid_request", errors.New("empty response"))
	}
	if err := s.requireUnlocked(ctx, userID, setID); err != nil {
		return nil, err
	}

	row := &types.ReflectionResponse{
		ID:       uuid.New(),
		UserID:   userID,
		SetID:    setID,
		ItemID:   itemID,
		Response: text,
	}
	saved, err := s.reflections.Upsert(ctx, nil, row)
	if err != nil {
		return nil, err
	}
	s.log.Debug("reflection saved", "user_id", userID.String(), "set_id", setID, "item_id", itemID)
	return saved, nil
}

// Complete marks one item done and returns the refreshed set view. The
// stored response must meet the item's minimum trimmed length.
func (s *Service) Complete(ctx context.Context, userID uuid.UUID, setID, itemID string) (*SetView, error) {
	rs, err := s.set(setID)
	if err != nil {
		return nil, err
	}
	if _, ok := rs.Item(itemID); !ok {
		return nil, apierr.BadRequest("invalid_identifier", errors.New("unknown reflection item"))
	}
	if err := s.requireUnlocked(ctx, userID, setID); err != nil {
		return nil, err
	}

	row, err := s.reflections.GetByUserSetItem(ctx, nil, userID, setID, itemID)
	if err != nil {
		return nil, err
	}
	stored := ""
	if row != nil {
		stored = row.Response
	}
	if len(strings.TrimSpace(stored)) < rs.MinLen(itemID) {
		return nil, apierr.New(http.StatusUnprocessableEntity, "response_too_short",
			errors.New("stored response below minimum length"))
	}

	if err := s.reflections.MarkCompleted(ctx, nil, userID, setID, itemID); err != nil {
		return nil, err
	}
	s.log.Info("reflection completed", "user_id", userID.String(), "set_id", setID, "item_id", itemID)
	return s.GetOrInitSet(ctx, userID, setID)
}

func (s *Service) requireUnlocked(ctx context.Context, userID uuid.UUID, setID string) error {
	w, ok := s.catalog.WorkshopForSet(setID)
	if !ok {
		// Sets not bound to a step cannot be locked.
		return nil
	}
	st, err := s.status.GetByUserWorkshop(ctx, nil, userID, w.Name)
	if err != nil {
		return err
	}
	if st != nil && st.Locked {
		return apierr.New(http.StatusConflict, "step_locked", errors.New("workshop is locked"))
	}
	return nil
}
