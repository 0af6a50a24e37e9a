package progression

// CompletedSet is the set of step IDs a user has completed in a workshop.
type CompletedSet map[string]bool

func NewCompletedSet(ids []string) CompletedSet {
	s := make(CompletedSet, len(ids))
	for _, id := range ids {
		s[id] = true
	}
	return s
}

// Accessible reports whether the user may enter stepID.
//
// Order of evaluation: completed steps are always revisitable, then the
// override tables, then the positional rule (index 0 open, index i>0 open
// iff step i-1 is completed). Unknown steps are never accessible.
func (w *Workshop) Accessible(stepID string, completed CompletedSet) bool {
	i := w.StepIndex(stepID)
	if i < 0 {
		return false
	}
	if completed[stepID] {
		return true
	}
	if w.locked(stepID) {
		return false
	}
	if w.alwaysOpen(stepID) {
		return true
	}
	if i == 0 {
		return true
	}
	return completed[w.Steps[i-1].ID]
}

// NextStep returns the first step in order that is not yet completed, or
// empty when the workshop is finished. Locked steps are skipped.
func (w *Workshop) NextStep(completed CompletedSet) string {
	for _, s := range w.Steps {
		if completed[s.ID] {
			continue
		}
		if w.locked(s.ID) {
			continue
		}
		return s.ID
	}
	return ""
}

// StepState is the per-step view the navigation endpoint returns.
type StepState struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Kind       string `json:"kind"`
	Accessible bool   `json:"accessible"`
	Completed  bool   `json:"completed"`
}

// States resolves every step against the completed set, in catalog order.
func (w *Workshop) States(completed CompletedSet) []StepState {
	out := make([]StepState, 0, len(w.Steps))
	for _, s := range w.Steps {
		out = append(out, StepState{
			ID:         s.ID,
			Title:      s.Title,
			Kind:       s.Kind,
			Accessible: w.Accessible(s.ID, completed),
			Completed:  completed[s.ID],
		})
	}
	return out
}
