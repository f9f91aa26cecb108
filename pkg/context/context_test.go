package ctxutil

import (
	"context"
	"net/http/httptest"
	"testing"
)

func TestNewContextWithRequest(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	req.Header.Set("User-Agent", "test-agent")

	ctx := NewContextWithRequest(context.Background(), req, "handler", "Me")

	if got := GetModule(ctx); got != "handler" {
		t.Errorf("module = %q, want handler", got)
	}
	if got := GetFunction(ctx); got != "Me" {
		t.Errorf("function = %q, want Me", got)
	}
	if got := GetUserAgent(ctx); got != "test-agent" {
		t.Errorf("user agent = %q, want test-agent", got)
	}
	if GetStartTime(ctx).IsZero() {
		t.Error("expected start time to be set")
	}
}

func TestUserIDRoundTrip(t *testing.T) {
	ctx := context.Background()
	if _, ok := GetUserID(ctx); ok {
		t.Fatal("expected no user id on empty context")
	}

	ctx = WithUserID(ctx, 42)
	id, ok := GetUserID(ctx)
	if !ok || id != 42 {
		t.Errorf("GetUserID() = %d, %v; want 42, true", id, ok)
	}

	m := ContextToMap(WithRequestID(ctx, "req-1"))
	if m["request_id"] != "req-1" || m["user_id"] != uint(42) {
		t.Errorf("unexpected context map: %v", m)
	}
}
