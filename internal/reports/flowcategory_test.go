package reports

import "testing"

func TestFlowCategory_Example(t *testing.T) {
	if got := FlowCategory(42); got != FlowAware {
		t.Fatalf("score 42: expected %q, got %q", FlowAware, got)
	}
}

func TestFlowCategory_Boundaries(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{100, FlowFluent},
		{50, FlowFluent},
		{49, FlowAware},
		{39, FlowAware},
		{38, FlowDeveloping},
		{26, FlowDeveloping},
		{25, FlowBeginner},
		{0, FlowBeginner},
		{-1, FlowBeginner},
	}
	for _, tc := range cases {
		if got := FlowCategory(tc.score); got != tc.want {
			t.Errorf("score %d: expected %q, got %q", tc.score, tc.want, got)
		}
	}
}

// Every score in a wide range maps to exactly one category.
func TestFlowCategory_TotalAndNonOverlapping(t *testing.T) {
	valid := map[string]bool{
		FlowFluent: true, FlowAware: true, FlowDeveloping: true, FlowBeginner: true,
	}
	for score := -10; score <= 110; score++ {
		got := FlowCategory(score)
		if !valid[got] {
			t.Fatalf("score %d mapped to unknown category %q", score, got)
		}
	}
}
