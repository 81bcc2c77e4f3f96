package coach

import (
	"testing"

	"legacy-guardians/internal/models"
)

func TestTranscriptAppendAndResolve(t *testing.T) {
	tr := NewTranscript("Welcome aboard!")
	if tr.Len() != 1 {
		t.Fatalf("len after greeting = %d, want 1", tr.Len())
	}

	tr.Append(models.SenderUser, "Should I buy nvidia?")
	pendingID := tr.AppendPending()

	msgs := tr.Messages()
	if len(msgs) != 3 {
		t.Fatalf("len = %d, want 3", len(msgs))
	}
	if msgs[2].Text != ThinkingText || !msgs[2].Pending {
		t.Errorf("placeholder = %+v, want pending %q", msgs[2], ThinkingText)
	}

	if !tr.Resolve(pendingID, "Chips are hot, but size the position.") {
		t.Fatal("resolve of known id failed")
	}
	msgs = tr.Messages()
	if msgs[2].Pending {
		t.Error("resolved message still pending")
	}
	if msgs[2].Text != "Chips are hot, but size the position." {
		t.Errorf("resolved text = %q", msgs[2].Text)
	}
	// Order is append-only: resolution must not move the message.
	if msgs[1].Sender != models.SenderUser {
		t.Error("transcript order changed on resolve")
	}
}

func TestTranscriptResolveUnknownIDIsNoOp(t *testing.T) {
	tr := NewTranscript("")
	tr.Append(models.SenderUser, "hello")
	if tr.Resolve("msg-99", "late reply") {
		t.Error("resolving unknown id reported success")
	}
	if got := tr.Messages()[0].Text; got != "hello" {
		t.Errorf("message mutated by stale resolve: %q", got)
	}
}

func TestTranscriptMessagesIsACopy(t *testing.T) {
	tr := NewTranscript("hi")
	msgs := tr.Messages()
	msgs[0].Text = "mutated"
	if tr.Messages()[0].Text != "hi" {
		t.Error("external mutation leaked into transcript")
	}
}
