package llmclient

import "testing"

func TestLimiter_AllowBurst(t *testing.T) {
	l := NewLimiter(1, 2)
	if !l.Allow("client-a") {
		t.Error("expected first request to be allowed")
	}
	if !l.Allow("client-a") {
		t.Error("expected second request within burst to be allowed")
	}
	if l.Allow("client-a") {
		t.Error("expected third immediate request to be denied")
	}
}

func TestLimiter_PerClientIsolation(t *testing.T) {
	l := NewLimiter(1, 1)
	if !l.Allow("client-a") {
		t.Fatal("expected client-a first request allowed")
	}
	if !l.Allow("client-b") {
		t.Error("client-b should have its own bucket, unaffected by client-a")
	}
}
