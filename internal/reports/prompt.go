package reports

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefaultPromptBudget caps the assembled prompt. Verbatim reflections are
// the unbounded part, so they are what gets trimmed to fit.
const DefaultPromptBudget = 24000

// ReflectionEntry is one prompt/answer pair fed to the model.
type ReflectionEntry struct {
	Prompt   string
	Response string
}

// PromptInput carries everything the prompt embeds.
type PromptInput struct {
	FirstName     string
	Constellation Constellation
	Quadrants     Quadrants
	FlowScore     int
	FlowCategory  string
	FlowAttrs     []string
	CantrilNow    int
	CantrilFuture int
	Reflections   []ReflectionEntry

	// Budget overrides DefaultPromptBudget when > 0.
	Budget int
}

const truncationNotice = "\n[entry truncated]"

// BuildPrompt assembles the generation prompt for one report type. The
// result never exceeds the character budget: reflections are included in
// order and truncated or dropped once the budget is reached.
func BuildPrompt(reportType string, in PromptInput) string {
	budget := in.Budget
	if budget <= 0 {
		budget = DefaultPromptBudget
	}

	var b strings.Builder
	audience := "the participant themselves, in a warm second-person voice"
	if reportType == "professional" {
		audience = "the participant's colleagues and manager, in a professional third-person voice"
	}

	fmt.Fprintf(&b, "You are writing a strengths development report for %s.\n", audience)
	fmt.Fprintf(&b, "Participant first name: %s\n\n", in.FirstName)
	fmt.Fprintf(&b, "Strengths constellation: %s (%s)\n", in.Constellation.Archetype, in.Constellation.Pattern)
	fmt.Fprintf(&b, "Strength order: %s\n", strings.Join(in.Constellation.Ordered, ", "))
	fmt.Fprintf(&b, "Percentages: Thinking %d, Acting %d, Feeling %d, Planning %d\n",
		in.Quadrants.Thinking, in.Quadrants.Acting, in.Quadrants.Feeling, in.Quadrants.Planning)
	fmt.Fprintf(&b, "Flow: score %d, category %s\n", in.FlowScore, in.FlowCategory)
	if len(in.FlowAttrs) > 0 {
		fmt.Fprintf(&b, "Flow attributes: %s\n", strings.Join(in.FlowAttrs, ", "))
	}
	fmt.Fprintf(&b, "Well-being ladder: now %d, future %d\n\n", in.CantrilNow, in.CantrilFuture)
	b.WriteString("Use the participant's own reflections below as the primary source material. Quote sparingly, paraphrase generously.\n")
	b.WriteString("Write in markdown with ## section headers. Do not invent facts that are not grounded in the data above.\n\n")
	b.WriteString("Reflections:\n")

	for _, r := range in.Reflections {
		entry := fmt.Sprintf("Q: %s\nA: %s\n\n", r.Prompt, r.Response)
		remaining := budget - b.Len()
		if remaining <= 0 {
			break
		}
		if len(entry) > remaining {
			cut := remaining - len(truncationNotice) - 2
			if cut <= 0 {
				break
			}
			if cut > len(entry) {
				cut = len(entry)
			}
			b.WriteString(truncOnRune(entry, cut))
			b.WriteString(truncationNotice)
			b.WriteString("\n\n")
			break
		}
		b.WriteString(entry)
	}

	out := b.String()
	if len(out) > budget {
		out = truncOnRune(out, budget)
	}
	return out
}

// truncOnRune cuts s to at most n bytes without splitting a rune.
func truncOnRune(s string, n int) string {
	if n >= len(s) {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
