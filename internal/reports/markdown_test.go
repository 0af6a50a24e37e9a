package reports

import (
	"strings"
	"testing"
)

func TestMarkdownToHTML_Headers(t *testing.T) {
	got := MarkdownToHTML("# Title\n\n## Section\n\n### Sub")
	for _, want := range []string{"<h1>Title</h1>", "<h2>Section</h2>", "<h3>Sub</h3>"} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in %q", want, got)
		}
	}
}

func TestMarkdownToHTML_InlineStyles(t *testing.T) {
	got := MarkdownToHTML("some **bold** and *italic* and `code` here")
	for _, want := range []string{"<strong>bold</strong>", "<em>italic</em>", "<code>code</code>"} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in %q", want, got)
		}
	}
}

func TestMarkdownToHTML_ListsAndQuotes(t *testing.T) {
	got := MarkdownToHTML("- one\n- two\n\n> a quote\n\n---")
	if !strings.Contains(got, "<ul>\n<li>one</li>\n<li>two</li>\n</ul>") {
		t.Fatalf("list not wrapped: %q", got)
	}
	if !strings.Contains(got, "<blockquote>a quote</blockquote>") {
		t.Fatalf("blockquote missing: %q", got)
	}
	if !strings.Contains(got, "<hr/>") {
		t.Fatalf("rule missing: %q", got)
	}
}

func TestMarkdownToHTML_Paragraphs(t *testing.T) {
	got := MarkdownToHTML("first paragraph\n\nsecond paragraph\nwith a continuation")
	if !strings.Contains(got, "<p>first paragraph</p>") {
		t.Fatalf("first paragraph missing: %q", got)
	}
	if !strings.Contains(got, "<p>second paragraph<br/>with a continuation</p>") {
		t.Fatalf("continuation not joined: %q", got)
	}
}

func TestMarkdownToHTML_EscapesHTML(t *testing.T) {
	got := MarkdownToHTML("before <script>alert(1)</script> after")
	if strings.Contains(got, "<script>") {
		t.Fatalf("raw html leaked through: %q", got)
	}
	if !strings.Contains(got, "&lt;script&gt;") {
		t.Fatalf("expected escaped markup: %q", got)
	}
}

func TestMarkdownToHTML_NumberedList(t *testing.T) {
	got := MarkdownToHTML("1. first\n2. second")
	if !strings.Contains(got, "<li>first</li>") || !strings.Contains(got, "<li>second</li>") {
		t.Fatalf("numbered items missing: %q", got)
	}
}
