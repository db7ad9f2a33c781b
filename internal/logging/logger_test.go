package logging

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"promptpipe/internal/observability"
	"promptpipe/internal/utils/id"
)

type recordingLogger struct {
	lines []string
}

func (r *recordingLogger) Debug(format string, args ...any) { r.add("DEBUG", format, args...) }
func (r *recordingLogger) Info(format string, args ...any)  { r.add("INFO", format, args...) }
func (r *recordingLogger) Warn(format string, args ...any)  { r.add("WARN", format, args...) }
func (r *recordingLogger) Error(format string, args ...any) { r.add("ERROR", format, args...) }

func (r *recordingLogger) add(level, format string, args ...any) {
	r.lines = append(r.lines, level+" "+fmt.Sprintf(format, args...))
}

func TestWithLogIDHandlesTypedNilPointers(t *testing.T) {
	var recorder *recordingLogger
	var logger Logger = recorder
	if !IsNil(logger) {
		t.Fatalf("expected typed nil pointer to be detected")
	}
	safe := WithLogID(logger, "abcdef")
	if IsNil(safe) {
		t.Fatalf("expected WithLogID to return a usable logger")
	}
	safe.Info("hello %s", "world") // should not panic
}

func TestFromObservabilityFormatsMessages(t *testing.T) {
	buf := &bytes.Buffer{}
	base := observability.NewLogger(observability.LogConfig{
		Level:  "info",
		Format: "text",
		Output: buf,
	})

	logger := FromObservabilityWithComponent(base, "test")
	logger.Info("hello %s", "world")

	if want := "hello world"; !bytes.Contains(buf.Bytes(), []byte(want)) {
		t.Fatalf("expected %q in output, got %q", want, buf.String())
	}
	if want := "component=test"; !bytes.Contains(buf.Bytes(), []byte(want)) {
		t.Fatalf("expected %q in output, got %q", want, buf.String())
	}
}

func TestNewComponentLoggerUsesBase(t *testing.T) {
	buf := &bytes.Buffer{}
	SetBase(observability.NewLogger(observability.LogConfig{Level: "debug", Output: buf}))
	defer SetBase(nil)

	NewComponentLogger("ProviderRunner").Debug("spawned pid=%d", 42)
	if !bytes.Contains(buf.Bytes(), []byte("spawned pid=42")) {
		t.Fatalf("expected component logger to write through base, got %q", buf.String())
	}
}

func TestNewComponentLoggerWithoutBaseDiscards(t *testing.T) {
	SetBase(nil)
	logger := NewComponentLogger("CLI")
	if _, ok := logger.(nopLogger); !ok {
		t.Fatalf("expected nop logger before base is set, got %T", logger)
	}
}

func TestFromContextPrefixesRunID(t *testing.T) {
	rec := &recordingLogger{}
	ctx := id.WithRunID(context.Background(), "run-0190-abcdef")

	FromContext(ctx, rec).Info("starting")
	if len(rec.lines) != 1 || rec.lines[0] != "INFO logid=abcdef starting" {
		t.Fatalf("unexpected lines %v", rec.lines)
	}

	FromContext(context.Background(), rec).Info("plain")
	if rec.lines[1] != "INFO plain" {
		t.Fatalf("expected untagged line, got %q", rec.lines[1])
	}
}
