package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	statex "github.com/tanakrit-w/giftwise/agent/state"
)

func newTestMenu(input string) (*menu, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &menu{
		app: &app{store: statex.NewMemoryStore()},
		in:  bufio.NewReader(strings.NewReader(input)),
		out: out,
	}, out
}

func TestMenuExitsWhenInputExhausted(t *testing.T) {
	t.Parallel()

	m, out := newTestMenu("")
	if err := m.run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "Goodbye!") {
		t.Fatalf("missing farewell: %s", out.String())
	}
}

func TestMenuExitsAfterInvalidChoiceThenEOF(t *testing.T) {
	t.Parallel()

	m, out := newTestMenu("99\n")
	if err := m.run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "Invalid choice") {
		t.Fatalf("invalid choice not reported: %s", out.String())
	}
	if !strings.Contains(out.String(), "Goodbye!") {
		t.Fatalf("menu did not stop at end of input: %s", out.String())
	}
}

func TestMenuExplicitExit(t *testing.T) {
	t.Parallel()

	m, out := newTestMenu("8\n")
	if err := m.run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "Goodbye!") {
		t.Fatalf("missing farewell: %s", out.String())
	}
}

func TestMenuHandlesUnterminatedFinalLine(t *testing.T) {
	t.Parallel()

	// No trailing newline on the exit choice.
	m, _ := newTestMenu("8")
	if err := m.run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestChatReturnsWhenInputExhausted(t *testing.T) {
	t.Parallel()

	// Must return rather than spin on empty reads.
	m, out := newTestMenu("")
	m.chat(context.Background())
	if !strings.Contains(out.String(), "Chat Mode") {
		t.Fatalf("chat banner missing: %s", out.String())
	}
}
