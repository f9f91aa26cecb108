package logger

import (
	"context"
	"errors"
	"testing"

	ctxutil "github.com/Payphone-Digital/tokenauth/pkg/context"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestContextLogBuilderExtractsFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { Logger = nil })

	ctx := ctxutil.WithRequestID(context.Background(), "req-123")
	ctx = ctxutil.WithUserID(ctx, 7)
	ctx = ctxutil.WithFunction(ctx, "service", "Validate")

	WarnWithContext(ctx, "token rejected").
		String("reason", "expired").
		Err(errors.New("boom")).
		Log()

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}

	fields := entries[0].ContextMap()
	if fields["request_id"] != "req-123" {
		t.Errorf("request_id = %v", fields["request_id"])
	}
	if fields["user_id"] != uint64(7) {
		t.Errorf("user_id = %v (%T)", fields["user_id"], fields["user_id"])
	}
	if fields["function"] != "Validate" || fields["reason"] != "expired" {
		t.Errorf("unexpected fields: %v", fields)
	}
	if entries[0].Level != zapcore.WarnLevel {
		t.Errorf("level = %v, want warn", entries[0].Level)
	}
}

func TestContextLogBuilderRespectsLevel(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { Logger = nil })

	DebugWithContext(context.Background(), "hidden").String("k", "v").Log()
	InfoWithContext(context.Background(), "shown").Log()

	if logs.Len() != 1 {
		t.Fatalf("expected only the info entry, got %d", logs.Len())
	}
}

func TestGetLoggerBeforeInit(t *testing.T) {
	Logger = nil
	if GetLogger() == nil {
		t.Fatal("expected no-op logger before init")
	}
	InfoWithContext(nil, "no panic").Log()
}
