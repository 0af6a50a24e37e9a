package reports

import (
	"fmt"
	"html"
	"strings"
)

// Fixed HTML shell around the converted prose. The stored document is
// self-contained so it can be rendered or emailed as-is.
const documentShell = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8"/>
<title>%s</title>
<style>
body { font-family: Georgia, serif; max-width: 720px; margin: 2rem auto; color: #1a1a2e; }
h1, h2, h3 { color: #16213e; }
.report-header { border-bottom: 2px solid #0f3460; padding-bottom: 1rem; margin-bottom: 2rem; }
.report-badge { color: #0f3460; font-size: 0.9rem; text-transform: uppercase; letter-spacing: 0.1em; }
blockquote { border-left: 3px solid #0f3460; margin-left: 0; padding-left: 1rem; color: #444; }
</style>
</head>
<body>
<div class="report-header">
<div class="report-badge">%s</div>
<h1>%s</h1>
<p>%s &middot; %s</p>
</div>
%s
</body>
</html>`

func renderDocument(reportType, firstName string, c Constellation, flowCategory, bodyHTML string) string {
	label := "Personal Development Report"
	if reportType == ReportTypeProfessional {
		label = "Professional Profile Report"
	}
	title := fmt.Sprintf("%s Strengths Constellation", strings.TrimSpace(firstName))
	return fmt.Sprintf(documentShell,
		html.EscapeString(title),
		html.EscapeString(label),
		html.EscapeString(c.Archetype),
		html.EscapeString(c.Pattern),
		html.EscapeString(flowCategory),
		bodyHTML,
	)
}
