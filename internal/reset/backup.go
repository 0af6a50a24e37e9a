package reset

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	types "github.com/starpathlabs/constellation-backend/internal/domain"
	"gorm.io/gorm"
)

// Snapshot is the backup document written before any delete runs. It holds
// every row a reset will touch, so a bad reset can be reconstructed by hand.
type Snapshot struct {
	UserID   uuid.UUID `json:"user_id"`
	TakenAt  time.Time `json:"taken_at"`
	TestUser bool      `json:"test_user"`

	Assessments   []*types.UserAssessment     `json:"assessments"`
	StarCards     []*types.StarCard           `json:"star_cards"`
	Flow          []*types.FlowAttributes     `json:"flow_attributes"`
	StepData      []*types.WorkshopStepData   `json:"workshop_step_data"`
	Reflections   []*types.ReflectionResponse `json:"reflection_responses"`
	Reports       []*types.HolisticReport     `json:"holistic_reports"`
	ReportJobs    []*types.ReportJob          `json:"report_jobs"`
	Conversations []*types.CoachConversation  `json:"coach_conversations"`
	Messages      []*types.CoachMessage       `json:"coach_messages"`
	Notes         []*types.BetaNote           `json:"beta_notes"`
	Status        []*types.WorkshopStatus     `json:"workshop_status"`
}

// CollectSnapshot reads every target table for the user, soft-deleted rows
// included.
func CollectSnapshot(ctx context.Context, db *gorm.DB, user *types.User) (*Snapshot, error) {
	snap := &Snapshot{
		UserID:   user.ID,
		TakenAt:  time.Now().UTC(),
		TestUser: user.IsTestUser,
	}

	read := func(dest any, model any) error {
		return db.WithContext(ctx).Unscoped().Model(model).
			Where("user_id = ?", user.ID).Find(dest).Error
	}

	if err := read(&snap.Assessments, &types.UserAssessment{}); err != nil {
		return nil, err
	}
	if err := read(&snap.StarCards, &types.StarCard{}); err != nil {
		return nil, err
	}
	if err := read(&snap.Flow, &types.FlowAttributes{}); err != nil {
		return nil, err
	}
	if err := read(&snap.StepData, &types.WorkshopStepData{}); err != nil {
		return nil, err
	}
	if err := read(&snap.Reflections, &types.ReflectionResponse{}); err != nil {
		return nil, err
	}
	if err := read(&snap.Reports, &types.HolisticReport{}); err != nil {
		return nil, err
	}
	if err := read(&snap.ReportJobs, &types.ReportJob{}); err != nil {
		return nil, err
	}
	if err := read(&snap.Conversations, &types.CoachConversation{}); err != nil {
		return nil, err
	}
	if err := read(&snap.Notes, &types.BetaNote{}); err != nil {
		return nil, err
	}
	if err := read(&snap.Status, &types.WorkshopStatus{}); err != nil {
		return nil, err
	}

	for _, conv := range snap.Conversations {
		var msgs []*types.CoachMessage
		if err := db.WithContext(ctx).
			Where("conversation_id = ?", conv.ID).
			Find(&msgs).Error; err != nil {
			return nil, err
		}
		snap.Messages = append(snap.Messages, msgs...)
	}
	return snap, nil
}

// WriteSnapshot serializes the snapshot into the backup directory
// (RESET_BACKUP_DIR, default the system temp dir) and returns the path.
func WriteSnapshot(snap *Snapshot) (string, error) {
	dir := os.Getenv("RESET_BACKUP_DIR")
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	name := fmt.Sprintf("reset-backup-%s-%s.json", snap.UserID, snap.TakenAt.Format("20060102T150405Z"))
	path := filepath.Join(dir, name)

	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return path, nil
}
