// Package roster finds submission workbooks in a folder and derives the
// student identifier of each from its file name.
package roster

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultPattern matches the file names the exam platform produces, e.g.
// "Exam Deliverables_e1234567_attempt_2024-05-02.xlsx".
const DefaultPattern = `Exam Deliverables_(e\d+)_attempt`

// LoosePattern matches a student token anywhere in the name.
const LoosePattern = `(e\d+)`

// Extension is the workbook extension submissions must carry.
const Extension = ".xlsx"

// DuplicatePolicy decides what happens when two files yield the same id.
type DuplicatePolicy string

const (
	// DuplicatesAllow keeps every row.
	DuplicatesAllow DuplicatePolicy = "allow"
	// DuplicatesWarn keeps every row and logs a warning per repeat.
	DuplicatesWarn DuplicatePolicy = "warn"
	// DuplicatesReject fails the scan.
	DuplicatesReject DuplicatePolicy = "reject"
)

// ParsePolicy validates a policy name. Empty means allow.
func ParsePolicy(s string) (DuplicatePolicy, error) {
	switch p := DuplicatePolicy(strings.ToLower(s)); p {
	case "":
		return DuplicatesAllow, nil
	case DuplicatesAllow, DuplicatesWarn, DuplicatesReject:
		return p, nil
	default:
		return "", fmt.Errorf("unknown duplicates policy %q — use allow, warn or reject", s)
	}
}

// Submission is one student workbook.
type Submission struct {
	StudentID  string    `json:"studentId"`
	Path       string    `json:"path"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// Skipped is a workbook that was not turned into a submission.
type Skipped struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Roster is the result of scanning a submissions folder.
type Roster struct {
	Dir         string              `json:"dir"`
	Submissions []Submission        `json:"submissions"`
	Skipped     []Skipped           `json:"skipped,omitempty"`
	Duplicates  map[string][]string `json:"duplicates,omitempty"`
	ScannedAt   time.Time           `json:"scannedAt"`
}

// Options configures a scan.
type Options struct {
	// Pattern extracts the student id; its first capture group (or the whole
	// match when it has none) is the id. Empty means DefaultPattern.
	Pattern    string
	Recursive  bool
	Duplicates DuplicatePolicy
	Logger     logrus.FieldLogger
}

// Matcher turns file names into student ids.
type Matcher struct {
	re *regexp.Regexp
}

// NewMatcher compiles an id pattern.
func NewMatcher(pattern string) (*Matcher, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid student id pattern %q: %w", pattern, err)
	}
	return &Matcher{re: re}, nil
}

// StudentID returns the id embedded in name.
func (m *Matcher) StudentID(name string) (string, error) {
	match := m.re.FindStringSubmatch(name)
	if match == nil {
		return "", fmt.Errorf("no student id in %q (pattern %s)", name, m.re)
	}
	if len(match) > 1 && match[1] != "" {
		return match[1], nil
	}
	return match[0], nil
}

// Scan lists the workbooks in dir in directory order. Workbooks whose name
// carries no student id are reported in Skipped, never as errors.
func Scan(dir string, opts Options) (*Roster, error) {
	matcher, err := NewMatcher(opts.Pattern)
	if err != nil {
		return nil, err
	}
	policy := opts.Duplicates
	if policy == "" {
		policy = DuplicatesAllow
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("could not resolve path: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("could not access %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	r := &Roster{Dir: root, ScannedAt: time.Now()}
	seen := make(map[string]string)

	walkFn := func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible
		}
		if d.IsDir() {
			if path != root && (!opts.Recursive || strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}

		name := d.Name()
		if !strings.EqualFold(filepath.Ext(name), Extension) {
			return nil
		}
		// Office lock files and hidden files.
		if strings.HasPrefix(name, "~$") || strings.HasPrefix(name, ".") {
			return nil
		}

		id, err := matcher.StudentID(name)
		if err != nil {
			r.Skipped = append(r.Skipped, Skipped{Path: path, Reason: err.Error()})
			return nil
		}

		if first, dup := seen[id]; dup {
			if r.Duplicates == nil {
				r.Duplicates = make(map[string][]string)
			}
			if len(r.Duplicates[id]) == 0 {
				r.Duplicates[id] = []string{first}
			}
			r.Duplicates[id] = append(r.Duplicates[id], path)

			switch policy {
			case DuplicatesReject:
				return fmt.Errorf("duplicate student id %s in %s and %s", id, first, path)
			case DuplicatesWarn:
				log.WithFields(logrus.Fields{"student": id, "file": path, "first": first}).
					Warn("duplicate student id")
			}
		} else {
			seen[id] = path
		}

		sub := Submission{StudentID: id, Path: path, Name: name}
		if finfo, err := d.Info(); err == nil {
			sub.Size = finfo.Size()
			sub.ModifiedAt = finfo.ModTime()
		}
		r.Submissions = append(r.Submissions, sub)
		return nil
	}

	if err := filepath.WalkDir(root, walkFn); err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	return r, nil
}
