package ollama

import (
	"strings"
	"testing"
)

func TestRenderTemplate(t *testing.T) {
	out, err := RenderTemplate("hello {{.Name}}", map[string]any{"Name": "world"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "hello world" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRenderTemplate_BadTemplate(t *testing.T) {
	if _, err := RenderTemplate("{{.Broken", nil); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := RenderTemplate("{{.Missing.Field}}", map[string]any{}); err == nil {
		t.Fatalf("expected execute error")
	}
}

func TestRenderTemplate_EscapesNothing(t *testing.T) {
	out, err := RenderTemplate(`{"track":"{{.T}}"}`, map[string]any{"T": "AI/Data"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "AI/Data") {
		t.Fatalf("expected raw value in output, got %q", out)
	}
}
