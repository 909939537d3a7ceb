package doctor

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/klytics/answerkit/internal/cli"
	"github.com/klytics/answerkit/internal/config"
	"github.com/klytics/answerkit/internal/fixtures"
	"github.com/klytics/answerkit/internal/roster"
)

func testEnv(t *testing.T) *cli.Env {
	t.Helper()
	home := t.TempDir()
	cfg := &config.Config{Pattern: roster.DefaultPattern, Duplicates: "allow", HeaderRows: 1}
	cfg.History.Enabled = true
	cfg.History.Path = filepath.Join(home, ".answerkit", "history.jsonl")
	log := logrus.New()
	log.SetOutput(io.Discard)
	return &cli.Env{Config: cfg, Log: log}
}

func statusOf(checks []Check, name string) string {
	for _, c := range checks {
		if c.Name == name {
			return c.Status
		}
	}
	return ""
}

func TestRunChecksConfigOnly(t *testing.T) {
	checks := RunChecks(testEnv(t), "")
	for _, name := range []string{"Go Runtime", "Config Values", "Layout", "History"} {
		if statusOf(checks, name) != "ok" {
			t.Errorf("%s should be ok: %+v", name, checks)
		}
	}
	if statusOf(checks, "Submissions") != "" {
		t.Error("no folder given, no submissions check expected")
	}
}

func TestRunChecksInvalidConfig(t *testing.T) {
	env := testEnv(t)
	env.Config.Duplicates = "merge"
	checks := RunChecks(env, "")
	if statusOf(checks, "Config duplicates") != "error" {
		t.Errorf("expected a duplicates error: %+v", checks)
	}
}

func TestRunChecksFolder(t *testing.T) {
	dir := t.TempDir()
	fixtures.Write(filepath.Join(dir, fixtures.FileName("e100")), fixtures.Exam([]any{"A"}, nil, nil))
	os.WriteFile(filepath.Join(dir, fixtures.FileName("e200")), []byte("corrupt"), 0644)
	os.WriteFile(filepath.Join(dir, "readme.xlsx"), []byte("x"), 0644)

	checks := RunChecks(testEnv(t), dir)
	if statusOf(checks, "Submissions") != "ok" {
		t.Errorf("submissions: %+v", checks)
	}
	if statusOf(checks, "Unreadable e200") != "warning" {
		t.Errorf("e200 should be flagged: %+v", checks)
	}
	if statusOf(checks, "Unreadable e100") != "" {
		t.Errorf("e100 is readable: %+v", checks)
	}
	if statusOf(checks, "Skipped readme.xlsx") != "warning" {
		t.Errorf("readme.xlsx should be reported as skipped: %+v", checks)
	}
}

func TestRunChecksIdenticalWorkbooks(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, fixtures.FileName("e100"))
	fixtures.Write(first, fixtures.Exam([]any{"A"}, nil, nil))
	data, err := os.ReadFile(first)
	if err != nil {
		t.Fatal(err)
	}
	os.WriteFile(filepath.Join(dir, fixtures.FileName("e101")), data, 0644)

	checks := RunChecks(testEnv(t), dir)
	for _, c := range checks {
		if c.Name == "Identical workbooks" && c.Message == "e100, e101" {
			return
		}
	}
	t.Errorf("expected an identical workbooks warning: %+v", checks)
}
