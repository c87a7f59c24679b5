package answer

import (
	"context"
	"log"
	"os"
	"strings"
	"testing"

	"clinical-intel-be/pkg/llm"
)

type capturingProvider struct {
	lastHistory []llm.Message
	response    string
}

func (c *capturingProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	c.lastHistory = history
	return c.response, nil
}

func (c *capturingProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return c.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

func TestGenerateJoinsContextWithNewlines(t *testing.T) {
	p := &capturingProvider{response: "  The patient takes metformin.  "}
	g := NewGenerator(p, log.New(os.Stdout, "", 0))

	chunks := []string{"chunk one", "chunk two", "chunk three"}
	answer, err := g.Generate(context.Background(), "What medication?", chunks)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if answer != "The patient takes metformin." {
		t.Errorf("answer = %q, want trimmed response", answer)
	}

	if len(p.lastHistory) != 2 {
		t.Fatalf("history length = %d, want 2", len(p.lastHistory))
	}
	if p.lastHistory[0].Role != "system" {
		t.Errorf("first message role = %q, want system", p.lastHistory[0].Role)
	}

	user := p.lastHistory[1]
	if user.Role != "user" {
		t.Errorf("second message role = %q, want user", user.Role)
	}
	if !strings.Contains(user.Content, "chunk one\nchunk two\nchunk three") {
		t.Errorf("context block not joined by newlines: %q", user.Content)
	}
	if !strings.Contains(user.Content, "Question: What medication?") {
		t.Errorf("question missing from user turn: %q", user.Content)
	}
}
