package reports

// Flow categories by score. Thresholds are total and non-overlapping:
// every score maps to exactly one category.
const (
	FlowFluent     = "Flow Fluent"
	FlowAware      = "Flow Aware"
	FlowDeveloping = "Flow Developing"
	FlowBeginner   = "Flow Beginner"
)

func FlowCategory(score int) string {
	switch {
	case score >= 50:
		return FlowFluent
	case score >= 39:
		return FlowAware
	case score >= 26:
		return FlowDeveloping
	default:
		return FlowBeginner
	}
}
