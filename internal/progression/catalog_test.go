package progression

import "testing"

func TestLoad_EmbeddedCatalog(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	for _, name := range []string{WorkshopAST, WorkshopIA} {
		w, ok := c.Workshop(name)
		if !ok {
			t.Fatalf("workshop %q missing", name)
		}
		if len(w.Steps) == 0 {
			t.Fatalf("workshop %q has no steps", name)
		}
	}

	// Every step that names a reflection set must resolve.
	for _, w := range c.Workshops {
		for _, s := range w.Steps {
			if s.ReflectionSet == "" {
				continue
			}
			if _, ok := c.ReflectionSet(s.ReflectionSet); !ok {
				t.Fatalf("step %s names missing set %s", s.ID, s.ReflectionSet)
			}
		}
	}
}

func TestParse_RejectsDuplicateSteps(t *testing.T) {
	raw := []byte(`
workshops:
  - name: ast
    steps:
      - id: "1-1"
      - id: "1-1"
`)
	if _, err := Parse(raw); err == nil {
		t.Fatalf("expected duplicate step error")
	}
}

func TestParse_RejectsUnknownOverride(t *testing.T) {
	raw := []byte(`
workshops:
  - name: ast
    steps:
      - id: "1-1"
    locked:
      - "9-9"
`)
	if _, err := Parse(raw); err == nil {
		t.Fatalf("expected unknown override error")
	}
}

func TestReflectionSet_MinLen(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	rs, ok := c.ReflectionSet("star-strengths")
	if !ok {
		t.Fatalf("set missing")
	}
	if got := rs.MinLen("strength1"); got != DefaultMinResponseLen {
		t.Fatalf("expected default %d, got %d", DefaultMinResponseLen, got)
	}
	if got := rs.MinLen("uniqueContribution"); got != 30 {
		t.Fatalf("expected override 30, got %d", got)
	}
}
