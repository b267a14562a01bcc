package notify

import (
	"testing"

	"script-tty/internal/config"
)

func TestNewWithoutConfigReturnsNil(t *testing.T) {
	n, err := New(nil)
	if err != nil || n != nil {
		t.Fatalf("New(nil) = %v, %v, want nil, nil", n, err)
	}

	n, err = New(&config.Config{})
	if err != nil || n != nil {
		t.Fatalf("New(empty config) = %v, %v, want nil, nil", n, err)
	}

	n, err = New(&config.Config{TelegramBotToken: "tok"})
	if err != nil || n != nil {
		t.Fatalf("New(token without chat IDs) = %v, %v, want nil, nil", n, err)
	}
}

func TestNilNotifierSessionEndedIsNoOp(t *testing.T) {
	var n *Notifier
	if err := n.SessionEnded("cmd", "screen"); err != nil {
		t.Errorf("nil Notifier.SessionEnded should be a no-op, got %v", err)
	}
}

func TestNeedsMonospace(t *testing.T) {
	if needsMonospace("plain short line\nanother line") {
		t.Error("ordinary short text should not be flagged monospace")
	}
	boxy := "┌──────┐\n│ hello │\n└──────┘"
	if !needsMonospace(boxy) {
		t.Error("box-drawing output should be flagged monospace")
	}
	indented := "    column a   column b\n    1          2\n    3          4"
	if !needsMonospace(indented) {
		t.Error("heavily indented tabular output should be flagged monospace")
	}
}
