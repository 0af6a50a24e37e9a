package starcard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/starpathlabs/constellation-backend/internal/clients/gcs"
	"github.com/starpathlabs/constellation-backend/internal/data/repos"
	"github.com/starpathlabs/constellation-backend/internal/platform/apierr"
	"github.com/starpathlabs/constellation-backend/internal/platform/logger"
)

type Service struct {
	users     repos.UserRepo
	starCards repos.StarCardRepo
	flow      repos.FlowAttributesRepo
	bucket    gcs.BucketService
	renderer  *Renderer
	log       *logger.Logger
}

// NewService builds the card service. bucket may be nil, in which case
// EnsureImage renders but skips the upload.
func NewService(
	users repos.UserRepo,
	starCards repos.StarCardRepo,
	flow repos.FlowAttributesRepo,
	bucket gcs.BucketService,
	renderer *Renderer,
	baseLog *logger.Logger,
) *Service {
	return &Service{
		users:     users,
		starCards: starCards,
		flow:      flow,
		bucket:    bucket,
		renderer:  renderer,
		log:       baseLog.With("service", "StarCardService"),
	}
}

func (s *Service) cardData(ctx context.Context, userID uuid.UUID) (*CardData, error) {
	users, err := s.users.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, apierr.BadRequest("invalid_identifier", errors.New("unknown user"))
	}
	card, err := s.starCards.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, apierr.BadRequest("invalid_request", errors.New("star card assessment not completed"))
	}

	data := &CardData{
		FirstName: users[0].FirstName,
		LastName:  users[0].LastName,
		Thinking:  card.Thinking,
		Acting:    card.Acting,
		Feeling:   card.Feeling,
		Planning:  card.Planning,
	}
	fa, err := s.flow.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if fa != nil && len(fa.Attributes) > 0 {
		_ = json.Unmarshal(fa.Attributes, &data.FlowAttrs)
	}
	return data, nil
}

// Generate renders the PNG for the HTTP endpoint.
func (s *Service) Generate(ctx context.Context, userID uuid.UUID) (bytes.Buffer, error) {
	data, err := s.cardData(ctx, userID)
	if err != nil {
		return bytes.Buffer{}, err
	}
	return s.renderer.Render(*data)
}

// EnsureImage renders the card and uploads a versioned copy, recording the
// key and public URL on the star card row. Old objects are deleted best
// effort after the new one lands.
func (s *Service) EnsureImage(ctx context.Context, userID uuid.UUID) error {
	buf, err := s.Generate(ctx, userID)
	if err != nil {
		return err
	}
	if s.bucket == nil {
		return nil
	}

	card, err := s.starCards.GetByUserID(ctx, nil, userID)
	if err != nil {
		return err
	}
	if card == nil {
		// A concurrent reset can remove the row between the render read
		// and this one.
		return apierr.BadRequest("invalid_request", errors.New("star card no longer exists"))
	}
	oldKey := card.ImageBucketKey

	newKey := fmt.Sprintf("starcard/%s/%d.png", userID.String(), time.Now().UnixNano())
	if err := s.bucket.UploadFile(ctx, gcs.BucketCategoryStarCard, newKey, bytes.NewReader(buf.Bytes())); err != nil {
		return fmt.Errorf("failed to upload star card: %w", err)
	}

	url := s.bucket.GetPublicURL(gcs.BucketCategoryStarCard, newKey)
	if err := s.starCards.UpdateImage(ctx, nil, userID, newKey, url); err != nil {
		return err
	}

	if oldKey != "" && oldKey != newKey {
		if err := s.bucket.DeleteFile(ctx, gcs.BucketCategoryStarCard, oldKey); err != nil {
			s.log.Warn("failed to delete old star card image (ignored)", "old_key", oldKey, "error", err.Error())
		}
	}
	return nil
}
