package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("", "", &buf)
	if err != nil {
		t.Fatal(err)
	}
	if log.GetLevel() != logrus.InfoLevel {
		t.Errorf("default level = %s", log.GetLevel())
	}

	log.WithField("file", "a.xlsx").Error("Error reading file")
	out := buf.String()
	if !strings.Contains(out, "level=error") || !strings.Contains(out, "file=a.xlsx") {
		t.Errorf("unexpected output: %q", out)
	}
	if strings.Contains(out, "time=") {
		t.Error("text output should not carry timestamps")
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("debug", "json", &buf)
	if err != nil {
		t.Fatal(err)
	}
	log.WithField("student", "e1").Debug("extracted")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["student"] != "e1" || entry["level"] != "debug" {
		t.Errorf("entry = %v", entry)
	}
}

func TestNewInvalid(t *testing.T) {
	if _, err := New("loud", "text", &bytes.Buffer{}); err == nil {
		t.Error("expected error for bad level")
	}
	if _, err := New("info", "xml", &bytes.Buffer{}); err == nil {
		t.Error("expected error for bad format")
	}
}
