// Package history keeps an append-only JSONL journal of compile runs.
package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Entry records one compile run.
type Entry struct {
	Timestamp  time.Time `json:"timestamp"`
	InputDir   string    `json:"input_dir"`
	OutputFile string    `json:"output_file,omitempty"`
	Format     string    `json:"format,omitempty"`
	Students   int       `json:"students"`
	Failed     int       `json:"failed"`
	Skipped    int       `json:"skipped"`
	DurationMs int64     `json:"duration_ms"`
	ExitCode   int       `json:"exit_code"`
}

// Journal appends entries to a file.
type Journal struct {
	FilePath string
	Enabled  bool
}

// New creates a Journal. A disabled journal or an empty path records nothing.
func New(filePath string, enabled bool) *Journal {
	return &Journal{FilePath: filePath, Enabled: enabled}
}

// Record appends an entry. Best effort: a journal that cannot be written
// never fails the run.
func (j *Journal) Record(e Entry) {
	if j == nil || !j.Enabled || j.FilePath == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(j.FilePath), 0755); err != nil {
		return
	}

	f, err := os.OpenFile(j.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(e)
	if err != nil {
		return
	}
	_, _ = f.Write(append(data, '\n'))
}

// ReadEntries reads every entry in the journal, oldest first. A missing
// file yields no entries.
func ReadEntries(filePath string) ([]Entry, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []Entry
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			continue // skip malformed lines
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Last returns at most n of the newest entries, oldest first.
func Last(entries []Entry, n int) []Entry {
	if n <= 0 || n >= len(entries) {
		return entries
	}
	return entries[len(entries)-n:]
}

// Clear truncates the journal.
func Clear(filePath string) error {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil
	}
	return os.Truncate(filePath, 0)
}
