package msgcat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmbeddedMessages(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := c.Render("status.checkmate", map[string]any{"Winner": "black"})
	if err != nil || got != "Checkmate. black wins" {
		t.Fatalf("Render = %q, %v", got, err)
	}
	if _, err := c.Render("status.checkmate", map[string]any{}); err == nil {
		t.Fatalf("missing field should fail")
	}
	if _, err := c.Render("no.such.key", nil); err == nil {
		t.Fatalf("unknown key should fail")
	}
	if s := c.Text("no.such.key", nil, "fallback"); s != "fallback" {
		t.Fatalf("Text fallback = %q", s)
	}
}

func TestOverrideDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("error:\n  illegal_move: \"nope\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s, _ := c.Render("error.illegal_move", nil); s != "nope" {
		t.Fatalf("override = %q", s)
	}
	if s, _ := c.Render("error.not_your_turn", nil); !strings.Contains(s, "turn") {
		t.Fatalf("default lost: %q", s)
	}

	if err := os.WriteFile(filepath.Join(dir, "b.yml"), []byte("error:\n  illegal_move: \"again\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := New(dir); err == nil {
		t.Fatalf("duplicate keys across files should fail")
	}
}
