package starcard_test

import (
	"context"
	"io"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/starpathlabs/constellation-backend/internal/clients/gcs"
	"github.com/starpathlabs/constellation-backend/internal/data/repos"
	"github.com/starpathlabs/constellation-backend/internal/data/repos/testutil"
	types "github.com/starpathlabs/constellation-backend/internal/domain"
	"github.com/starpathlabs/constellation-backend/internal/starcard"
)

// vanishingCardRepo serves the card once and nil afterwards, the shape a
// concurrent reset leaves between two reads.
type vanishingCardRepo struct {
	repos.StarCardRepo
	reads atomic.Int32
}

func (r *vanishingCardRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.StarCard, error) {
	if r.reads.Add(1) > 1 {
		return nil, nil
	}
	return r.StarCardRepo.GetByUserID(ctx, tx, userID)
}

type stubBucket struct{}

func (stubBucket) UploadFile(ctx context.Context, category gcs.BucketCategory, key string, file io.Reader) error {
	return nil
}
func (stubBucket) DeleteFile(ctx context.Context, category gcs.BucketCategory, key string) error {
	return nil
}
func (stubBucket) DownloadFile(ctx context.Context, category gcs.BucketCategory, key string) (io.ReadCloser, error) {
	return nil, nil
}
func (stubBucket) ListKeys(ctx context.Context, category gcs.BucketCategory, prefix string) ([]string, error) {
	return nil, nil
}
func (stubBucket) DeletePrefix(ctx context.Context, category gcs.BucketCategory, prefix string) error {
	return nil
}
func (stubBucket) GetPublicURL(category gcs.BucketCategory, key string) string { return "" }

func TestEnsureImage_CardDeletedBetweenReads(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, tx, "starcard-vanish@example.com")
	testutil.SeedStarCard(t, ctx, tx, u.ID, 30, 30, 20, 20)

	renderer, err := starcard.NewRenderer()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	cards := &vanishingCardRepo{StarCardRepo: repos.NewStarCardRepo(tx, log)}
	svc := starcard.NewService(
		repos.NewUserRepo(tx, log),
		cards,
		repos.NewFlowAttributesRepo(tx, log),
		stubBucket{},
		renderer,
		log,
	)

	if err := svc.EnsureImage(ctx, u.ID); err == nil {
		t.Fatalf("expected an error when the card row disappears mid-generation")
	}
}
