package reports

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func promptInput() PromptInput {
	return PromptInput{
		FirstName:     "Jordan",
		Constellation: Classify(Quadrants{Acting: 45, Planning: 20, Thinking: 20, Feeling: 15}),
		Quadrants:     Quadrants{Acting: 45, Planning: 20, Thinking: 20, Feeling: 15},
		FlowScore:     42,
		FlowCategory:  FlowCategory(42),
		CantrilNow:    6,
		CantrilFuture: 9,
		Reflections: []ReflectionEntry{
			{Prompt: "What absorbs you?", Response: "Building systems with my team."},
			{Prompt: "Key insight?", Response: "I plan best under momentum."},
		},
	}
}

func TestBuildPrompt_EmbedsLabelsAndReflections(t *testing.T) {
	got := BuildPrompt(ReportTypePersonal, promptInput())

	for _, want := range []string{
		"Dynamic Organizer",
		"Distinctive Profile",
		"Flow Aware",
		"Building systems with my team.",
		"I plan best under momentum.",
		"Jordan",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}

func TestBuildPrompt_AudienceDiffersByType(t *testing.T) {
	personal := BuildPrompt(ReportTypePersonal, promptInput())
	professional := BuildPrompt(ReportTypeProfessional, promptInput())
	if personal == professional {
		t.Fatalf("report types should produce different prompts")
	}
	if !strings.Contains(professional, "colleagues") {
		t.Fatalf("professional prompt should address colleagues")
	}
}

func TestBuildPrompt_TruncationKeepsValidUTF8(t *testing.T) {
	in := promptInput()
	in.Budget = 900
	in.Reflections = []ReflectionEntry{
		{Prompt: "Réflexion?", Response: strings.Repeat("héroïque déjà vu à côté ", 200)},
	}

	for budget := 850; budget <= 950; budget++ {
		in.Budget = budget
		got := BuildPrompt(ReportTypePersonal, in)
		if len(got) > budget {
			t.Fatalf("budget %d exceeded: %d", budget, len(got))
		}
		if !utf8.ValidString(got) {
			t.Fatalf("budget %d split a rune", budget)
		}
	}
}

func TestBuildPrompt_RespectsBudget(t *testing.T) {
	in := promptInput()
	in.Budget = 2000
	long := strings.Repeat("a very long reflection answer ", 200)
	in.Reflections = []ReflectionEntry{
		{Prompt: "First?", Response: long},
		{Prompt: "Second?", Response: long},
		{Prompt: "Third?", Response: long},
	}

	got := BuildPrompt(ReportTypePersonal, in)
	if len(got) > 2000 {
		t.Fatalf("prompt exceeds budget: %d", len(got))
	}
	if !strings.Contains(got, "truncated") {
		t.Fatalf("expected truncation notice when budget is hit")
	}
}

func TestBuildPrompt_SmallBudgetStillBounded(t *testing.T) {
	in := promptInput()
	in.Budget = 300
	got := BuildPrompt(ReportTypePersonal, in)
	if len(got) > 300 {
		t.Fatalf("prompt exceeds tiny budget: %d", len(got))
	}
}
