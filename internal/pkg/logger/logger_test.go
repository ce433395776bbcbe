package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewWithOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOutput(&buf, "debug", "json")
	if l.GetLevel() != logrus.DebugLevel {
		t.Fatalf("expected debug level, got %s", l.GetLevel())
	}

	l.WithField("component", "matches").Info("generated")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected json output: %v", err)
	}
	if entry["component"] != "matches" || entry["msg"] != "generated" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestNewWithOutput_UnknownLevelIsInfo(t *testing.T) {
	l := NewWithOutput(&bytes.Buffer{}, "loud", "text")
	if l.GetLevel() != logrus.InfoLevel {
		t.Fatalf("expected info level, got %s", l.GetLevel())
	}
}
