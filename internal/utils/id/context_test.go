package id

import (
	"context"
	"strings"
	"testing"
)

func TestRunIDRoundTrip(t *testing.T) {
	ctx := WithRunID(context.Background(), "run-abc")
	if got := RunIDFromContext(ctx); got != "run-abc" {
		t.Fatalf("expected run-abc, got %q", got)
	}
}

func TestWithRunIDIgnoresEmpty(t *testing.T) {
	ctx := context.Background()
	if WithRunID(ctx, "") != ctx {
		t.Fatalf("expected empty run id to leave context untouched")
	}
}

func TestLogIDFallsBackToRunID(t *testing.T) {
	ctx := WithRunID(context.Background(), "run-1")
	if got := LogIDFromContext(ctx); got != "run-1" {
		t.Fatalf("expected fallback to run id, got %q", got)
	}
	ctx = WithLogID(ctx, "log-2")
	if got := LogIDFromContext(ctx); got != "log-2" {
		t.Fatalf("expected explicit log id, got %q", got)
	}
}

func TestFromNilContext(t *testing.T) {
	//nolint:staticcheck // exercising nil handling
	if got := RunIDFromContext(nil); got != "" {
		t.Fatalf("expected empty id from nil context, got %q", got)
	}
}

func TestNewRunIDPrefixAndUniqueness(t *testing.T) {
	a := NewRunID()
	b := NewRunID()
	if !strings.HasPrefix(a, "run-") {
		t.Fatalf("expected run- prefix, got %q", a)
	}
	if a == b {
		t.Fatalf("expected distinct ids, got %q twice", a)
	}
}

func TestShort(t *testing.T) {
	if got := Short("run-0190-abcd"); got != "abcd" {
		t.Fatalf("expected abcd, got %q", got)
	}
	if got := Short("plain"); got != "plain" {
		t.Fatalf("expected plain, got %q", got)
	}
}
