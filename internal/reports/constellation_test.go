package reports

import "testing"

func TestClassify_DistinctiveDynamicOrganizer(t *testing.T) {
	c := Classify(Quadrants{Acting: 45, Planning: 20, Thinking: 20, Feeling: 15})

	// gap(45,20)=25: above both the balanced and complementary cutoffs.
	if c.Pattern != PatternDistinctive {
		t.Fatalf("expected %q, got %q", PatternDistinctive, c.Pattern)
	}
	if c.Archetype != "Dynamic Organizer" {
		t.Fatalf("expected Dynamic Organizer, got %q", c.Archetype)
	}
	if c.Ordered[0] != "Acting" {
		t.Fatalf("expected Acting ranked first, got %v", c.Ordered)
	}
}

func TestClassify_GapBuckets(t *testing.T) {
	cases := []struct {
		name string
		q    Quadrants
		want string
	}{
		{"dominant at gap 40", Quadrants{Thinking: 70, Acting: 30}, PatternDominant},
		{"distinctive just under dominant", Quadrants{Thinking: 69, Acting: 30, Feeling: 1}, PatternDistinctive},
		{"balanced at gap 0", Quadrants{Thinking: 25, Acting: 25, Feeling: 25, Planning: 25}, PatternBalanced},
		{"balanced at gap 5", Quadrants{Thinking: 30, Acting: 25, Feeling: 25, Planning: 20}, PatternBalanced},
		{"complementary at gap 6", Quadrants{Thinking: 31, Acting: 25, Feeling: 24, Planning: 20}, PatternComplementary},
		{"complementary at gap 10", Quadrants{Thinking: 35, Acting: 25, Feeling: 20, Planning: 20}, PatternComplementary},
		{"distinctive at gap 11", Quadrants{Thinking: 36, Acting: 25, Feeling: 20, Planning: 19}, PatternDistinctive},
	}
	for _, tc := range cases {
		if got := Classify(tc.q).Pattern; got != tc.want {
			t.Errorf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestClassify_Idempotent(t *testing.T) {
	q := Quadrants{Thinking: 28, Acting: 26, Feeling: 24, Planning: 22}
	first := Classify(q)
	for i := 0; i < 10; i++ {
		again := Classify(q)
		if again.Archetype != first.Archetype || again.Pattern != first.Pattern {
			t.Fatalf("classification changed between runs: %+v vs %+v", first, again)
		}
	}
}

func TestClassify_AllTopTwoPairsNamed(t *testing.T) {
	names := []string{"Thinking", "Acting", "Feeling", "Planning"}
	values := map[string]*int{}
	q := Quadrants{}
	values["Thinking"] = &q.Thinking
	values["Acting"] = &q.Acting
	values["Feeling"] = &q.Feeling
	values["Planning"] = &q.Planning

	for _, first := range names {
		for _, second := range names {
			if first == second {
				continue
			}
			q = Quadrants{}
			*values[first] = 50
			*values[second] = 30
			c := Classify(q)
			if c.Archetype == fallbackArchetype {
				t.Errorf("pair %s-%s has no archetype", first, second)
			}
		}
	}
}

func TestClassify_TiesResolveByInputOrder(t *testing.T) {
	// Thinking and Acting tie for first; the fixed input order makes
	// Thinking rank 1 deterministically.
	c := Classify(Quadrants{Thinking: 30, Acting: 30, Feeling: 20, Planning: 20})
	if c.Ordered[0] != "Thinking" || c.Ordered[1] != "Acting" {
		t.Fatalf("unexpected tie order: %v", c.Ordered)
	}
	if c.Archetype != "Strategic Executor" {
		t.Fatalf("tie should resolve Thinking-Acting, got %q", c.Archetype)
	}
}
