package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestLogActionCarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	al := NewLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	ctx := WithRequestID(context.Background(), "req-42")
	al.LogCreate(ctx, "user-1", "project", "p-1")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for k, want := range map[string]string{
		"action":      "create",
		"resource":    "project",
		"resource_id": "p-1",
		"user_id":     "user-1",
		"request_id":  "req-42",
	} {
		if line[k] != want {
			t.Fatalf("%s: expected %q, got %v", k, want, line[k])
		}
	}
}

func TestNilLoggerIsNoop(t *testing.T) {
	var al *Logger
	al.LogUpdate(context.Background(), "u", "project", "p")
}
