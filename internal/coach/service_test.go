package coach_test

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/starpathlabs/constellation-backend/internal/coach"
	"github.com/starpathlabs/constellation-backend/internal/data/repos"
	"github.com/starpathlabs/constellation-backend/internal/data/repos/testutil"
	"github.com/starpathlabs/constellation-backend/internal/progression"
)

type cannedLLM struct{ reply string }

func (c cannedLLM) GenerateText(ctx context.Context, system, user string, maxTokens int) (string, error) {
	return c.reply, nil
}
func (c cannedLLM) Model() string { return "test-model" }

func TestSendMessage_NewConversationPersistsBothTurns(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, tx, "coach-turns@example.com")
	catalog, err := progression.Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	coachRepo := repos.NewCoachRepo(tx, log)
	svc := coach.NewService(coachRepo, catalog, cannedLLM{reply: "Keep going."}, log)

	reply, err := svc.SendMessage(ctx, u.ID, nil, progression.WorkshopAST, "How do I start?")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if reply.Message != "Keep going." {
		t.Fatalf("unexpected reply: %q", reply.Message)
	}

	msgs, err := coachRepo.GetMessages(ctx, tx, reply.ConversationID)
	if err != nil {
		t.Fatalf("get messages: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected user and assistant turns, got %d", len(msgs))
	}
}

func TestSendMessage_TitleTruncatesOnRuneBoundary(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, tx, "coach-title@example.com")
	catalog, err := progression.Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	coachRepo := repos.NewCoachRepo(tx, log)
	svc := coach.NewService(coachRepo, catalog, cannedLLM{reply: "ok"}, log)

	// Two-byte runes ensure byte 80 lands mid-rune.
	text := strings.Repeat("é", 100)
	reply, err := svc.SendMessage(ctx, u.ID, nil, progression.WorkshopAST, text)
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	conv, err := coachRepo.GetConversation(ctx, tx, reply.ConversationID)
	if err != nil {
		t.Fatalf("get conversation: %v", err)
	}
	if len(conv.Title) > 80 {
		t.Fatalf("title too long: %d bytes", len(conv.Title))
	}
	if !utf8.ValidString(conv.Title) {
		t.Fatalf("title is not valid UTF-8: %q", conv.Title)
	}
}
