package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestWithContext_CorrelationID(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("test", "info", &buf)

	ctx := WithCorrelationID(context.Background(), "req-123")
	cl := WithContext(ctx, l)
	cl.Info("hello")

	var out map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if got := out["correlation_id"]; got != "req-123" {
		t.Errorf("correlation_id = %v, want %q", got, "req-123")
	}
	if got := out["service"]; got != "test" {
		t.Errorf("service = %v, want %q", got, "test")
	}
}

func TestWithContext_NoCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("test", "info", &buf)

	cl := WithContext(context.Background(), l)
	cl.Info("plain")

	var out map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if _, ok := out["correlation_id"]; ok {
		t.Error("correlation_id should be absent when not set on the context")
	}
}

func TestFromContext_Fallback(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("test", "debug", &buf)

	ctx := NewContext(context.Background(), l)
	if got := FromContext(ctx); got != l {
		t.Error("FromContext should return the stored logger")
	}
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("test", "error", &buf)

	l.Info("should be dropped")
	if buf.Len() != 0 {
		t.Errorf("info line should be filtered at error level, got %q", buf.String())
	}

	l.Error("kept")
	if buf.Len() == 0 {
		t.Error("error line should be written")
	}
}
