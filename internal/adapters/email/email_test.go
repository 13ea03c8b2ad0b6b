package email

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// TestNoopSender_RecordsRequests tests that sends are captured in order.
func TestNoopSender_RecordsRequests(t *testing.T) {
	s := NewNoopSender()
	ctx := context.Background()

	first, err := s.Send(ctx, SendRequest{To: []string{"john@example.com"}, Subject: "one"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	second, _ := s.Send(ctx, SendRequest{To: []string{"maria@example.com"}, Subject: "two"})
	if first.MessageID == second.MessageID {
		t.Errorf("expected distinct message IDs, got %q twice", first.MessageID)
	}

	sent := s.Sent()
	if len(sent) != 2 || sent[0].Subject != "one" || sent[1].Subject != "two" {
		t.Fatalf("unexpected sent list %+v", sent)
	}
}

// TestNoopSender_NoRecipients tests that an empty To list is refused.
func TestNoopSender_NoRecipients(t *testing.T) {
	s := NewNoopSender()
	if _, err := s.Send(context.Background(), SendRequest{Subject: "x"}); !errors.Is(err, ErrNoRecipients) {
		t.Fatalf("expected ErrNoRecipients, got %v", err)
	}
	if len(s.Sent()) != 0 {
		t.Error("refused request should not be recorded")
	}
}

// TestRenderMarkdown tests heading and list output and that raw HTML is escaped.
func TestRenderMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains string
		absent   string
	}{
		{"heading", "# Training plan for John", "<h1>Training plan for John</h1>", ""},
		{"ordered list", "1. Wall volley\n2. Mini tennis", "<ol>", ""},
		{"bold", "**Focus:** Technique", "<strong>Focus:</strong>", ""},
		{"raw html escaped", "<script>alert(1)</script>", "", "<script>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := RenderMarkdown(tt.input)
			if err != nil {
				t.Fatalf("RenderMarkdown: %v", err)
			}
			if tt.contains != "" && !strings.Contains(out, tt.contains) {
				t.Errorf("expected %q in %q", tt.contains, out)
			}
			if tt.absent != "" && strings.Contains(out, tt.absent) {
				t.Errorf("did not expect %q in %q", tt.absent, out)
			}
		})
	}
}
