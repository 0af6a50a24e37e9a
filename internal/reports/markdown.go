package reports

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

// The LLM returns markdown prose; the stored documents are HTML. The
// conversion is a fixed set of regex passes over escaped text, enough for
// the subset the prompts ask the model to produce.

var (
	reH3     = regexp.MustCompile(`(?m)^### (.+)$`)
	reH2     = regexp.MustCompile(`(?m)^## (.+)$`)
	reH1     = regexp.MustCompile(`(?m)^# (.+)$`)
	reHR     = regexp.MustCompile(`(?m)^(---|\*\*\*)\s*$`)
	reQuote  = regexp.MustCompile(`(?m)^&gt; ?(.*)$`)
	reBullet = regexp.MustCompile(`(?m)^[-*] (.+)$`)
	reNum    = regexp.MustCompile(`(?m)^\d+\. (.+)$`)
	reBold   = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	reItalic = regexp.MustCompile(`\*([^*]+)\*`)
	reCode   = regexp.MustCompile("`([^`]+)`")
)

// MarkdownToHTML converts the markdown subset used by the report prose:
// headers, bold, italic, inline code, lists, blockquotes, horizontal rules,
// and blank-line paragraph splitting. Input text is HTML-escaped first.
func MarkdownToHTML(md string) string {
	s := html.EscapeString(strings.ReplaceAll(md, "\r\n", "\n"))

	s = reH3.ReplaceAllString(s, "<h3>$1</h3>")
	s = reH2.ReplaceAllString(s, "<h2>$1</h2>")
	s = reH1.ReplaceAllString(s, "<h1>$1</h1>")
	s = reHR.ReplaceAllString(s, "<hr/>")
	s = reQuote.ReplaceAllString(s, "<blockquote>$1</blockquote>")
	s = reBullet.ReplaceAllString(s, "<li>$1</li>")
	s = reNum.ReplaceAllString(s, "<li>$1</li>")
	s = reBold.ReplaceAllString(s, "<strong>$1</strong>")
	s = reItalic.ReplaceAllString(s, "<em>$1</em>")
	s = reCode.ReplaceAllString(s, "<code>$1</code>")

	s = wrapListItems(s)

	var out []string
	for _, block := range strings.Split(s, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		if isBlockLevel(block) {
			out = append(out, block)
			continue
		}
		out = append(out, fmt.Sprintf("<p>%s</p>", strings.ReplaceAll(block, "\n", "<br/>")))
	}
	return strings.Join(out, "\n")
}

// wrapListItems groups consecutive <li> lines into one <ul>.
func wrapListItems(s string) string {
	lines := strings.Split(s, "\n")
	var out []string
	inList := false
	for _, line := range lines {
		isItem := strings.HasPrefix(strings.TrimSpace(line), "<li>")
		if isItem && !inList {
			out = append(out, "<ul>")
			inList = true
		}
		if !isItem && inList {
			out = append(out, "</ul>")
			inList = false
		}
		out = append(out, line)
	}
	if inList {
		out = append(out, "</ul>")
	}
	return strings.Join(out, "\n")
}

func isBlockLevel(block string) bool {
	for _, prefix := range []string{"<h1>", "<h2>", "<h3>", "<ul>", "<blockquote>", "<hr/>"} {
		if strings.HasPrefix(block, prefix) {
			return true
		}
	}
	return false
}
