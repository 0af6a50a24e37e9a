package realtime

import (
	"testing"

	"github.com/google/uuid"
	"github.com/starpathlabs/constellation-backend/internal/platform/logger"
)

func testHub(t *testing.T) *Hub {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewHub(log)
}

func TestHub_DispatchReachesOwnChannelOnly(t *testing.T) {
	h := testHub(t)
	alice := uuid.New()
	bob := uuid.New()

	ca := h.Register(alice)
	cb := h.Register(bob)
	defer h.Unregister(ca)
	defer h.Unregister(cb)

	h.Dispatch(Message{Channel: alice.String(), Event: EventReportReady})

	select {
	case msg := <-ca.Outbound:
		if msg.Event != EventReportReady {
			t.Fatalf("wrong event: %s", msg.Event)
		}
	default:
		t.Fatalf("alice did not receive the event")
	}

	select {
	case msg := <-cb.Outbound:
		t.Fatalf("bob received alice's event: %+v", msg)
	default:
	}
}

func TestHub_SlowClientDropsInsteadOfBlocking(t *testing.T) {
	h := testHub(t)
	userID := uuid.New()
	c := h.Register(userID)
	defer h.Unregister(c)

	// Overfill the buffer; Dispatch must not block.
	for i := 0; i < cap(c.Outbound)+5; i++ {
		h.Dispatch(Message{Channel: userID.String(), Event: EventStepCompleted})
	}
	if got := len(c.Outbound); got != cap(c.Outbound) {
		t.Fatalf("expected full buffer, got %d", got)
	}
}

func TestHub_UnregisterClosesAndCleansUp(t *testing.T) {
	h := testHub(t)
	userID := uuid.New()
	c := h.Register(userID)

	if got := h.ClientCount(userID.String()); got != 1 {
		t.Fatalf("expected 1 client, got %d", got)
	}
	h.Unregister(c)
	if got := h.ClientCount(userID.String()); got != 0 {
		t.Fatalf("expected 0 clients, got %d", got)
	}
	if _, open := <-c.Outbound; open {
		t.Fatalf("outbound channel should be closed")
	}

	// Double unregister is a no-op.
	h.Unregister(c)
}
