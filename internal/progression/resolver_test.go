package progression

import "testing"

func testWorkshop(t *testing.T) *Workshop {
	t.Helper()
	c, err := Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	w, ok := c.Workshop(WorkshopAST)
	if !ok {
		t.Fatalf("ast workshop missing")
	}
	return w
}

func TestAccessible_FirstStepAlwaysOpen(t *testing.T) {
	w := testWorkshop(t)
	if !w.Accessible("1-1", nil) {
		t.Fatalf("first step should be accessible with nothing completed")
	}
}

func TestAccessible_RequiresPredecessor(t *testing.T) {
	w := testWorkshop(t)

	if w.Accessible("2-2", NewCompletedSet([]string{"1-1"})) {
		t.Fatalf("2-2 should be closed while 2-1 is incomplete")
	}
	if !w.Accessible("2-2", NewCompletedSet([]string{"1-1", "2-1"})) {
		t.Fatalf("2-2 should open once 2-1 is completed")
	}
}

func TestAccessible_CompletedStepsRevisitable(t *testing.T) {
	w := testWorkshop(t)

	// Completed is enough on its own; the predecessor chain is not rechecked.
	if !w.Accessible("3-3", NewCompletedSet([]string{"3-3"})) {
		t.Fatalf("completed step should stay accessible")
	}
}

func TestAccessible_OverridesBeatPositionalRule(t *testing.T) {
	w := testWorkshop(t)

	if !w.Accessible("5-2", nil) {
		t.Fatalf("always-open step should be accessible with nothing completed")
	}

	all := make([]string, 0, len(w.Steps))
	for _, s := range w.Steps {
		if s.ID != "6-1" {
			all = append(all, s.ID)
		}
	}
	if w.Accessible("6-1", NewCompletedSet(all)) {
		t.Fatalf("locked step should stay closed even with everything else done")
	}
}

func TestAccessible_UnknownStep(t *testing.T) {
	w := testWorkshop(t)
	if w.Accessible("9-9", NewCompletedSet([]string{"1-1"})) {
		t.Fatalf("unknown step should never be accessible")
	}
}

func TestNextStep_SkipsCompletedAndLocked(t *testing.T) {
	w := testWorkshop(t)

	if got := w.NextStep(nil); got != "1-1" {
		t.Fatalf("expected 1-1 first, got %q", got)
	}
	if got := w.NextStep(NewCompletedSet([]string{"1-1", "2-1"})); got != "2-2" {
		t.Fatalf("expected 2-2, got %q", got)
	}

	all := make([]string, 0, len(w.Steps))
	for _, s := range w.Steps {
		if s.ID != "6-1" {
			all = append(all, s.ID)
		}
	}
	if got := w.NextStep(NewCompletedSet(all)); got != "" {
		t.Fatalf("expected no next step, got %q", got)
	}
}

func TestStates_MatchesCatalogOrder(t *testing.T) {
	w := testWorkshop(t)

	states := w.States(NewCompletedSet([]string{"1-1"}))
	if len(states) != len(w.Steps) {
		t.Fatalf("expected %d states, got %d", len(w.Steps), len(states))
	}
	if !states[0].Completed || !states[0].Accessible {
		t.Fatalf("1-1 should be completed and accessible: %+v", states[0])
	}
	if !states[1].Accessible || states[1].Completed {
		t.Fatalf("2-1 should be open and incomplete: %+v", states[1])
	}
	if states[2].Accessible {
		t.Fatalf("2-2 should be closed: %+v", states[2])
	}
}
