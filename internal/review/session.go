// Package review provides an interactive REPL for browsing a compiled
// answer table.
package review

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/klytics/answerkit/internal/answers"
	"github.com/klytics/answerkit/internal/output"
)

// errExit is returned by Eval for "exit" and "quit".
var errExit = errors.New("exit")

// Session manages an interactive review session.
type Session struct {
	Table          *answers.Table
	Source         string
	LastOutput     string
	CommandHistory []string
	HistoryFile    string
	StartTime      time.Time

	// KnownCommands is the list of commands for completion.
	KnownCommands []string
}

// NewSession creates a session over t. source names where t came from.
func NewSession(t *answers.Table, source string) *Session {
	home, _ := os.UserHomeDir()
	return &Session{
		Table:       t,
		Source:      source,
		HistoryFile: filepath.Join(home, ".answerkit", "review_history"),
		StartTime:   time.Now(),
		KnownCommands: []string{
			"list", "show", "slot", "missing", "failed", "stats",
			"history", "help", "exit", "quit",
		},
	}
}

// Run starts the REPL loop. Blocks until 'exit' or Ctrl+D.
func (s *Session) Run() error {
	os.MkdirAll(filepath.Dir(s.HistoryFile), 0755)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "answers> ",
		HistoryFile:     s.HistoryFile,
		AutoComplete:    readline.NewPrefixCompleter(s.buildCompleter()...),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Fprintf(rl.Stdout(), "Reviewing %s: %d students, %d questions\n", s.Source, len(s.Table.Records), len(s.Table.Slots))
	fmt.Fprintln(rl.Stdout(), "Type 'help' for commands, 'exit' to quit.")
	fmt.Fprintln(rl.Stdout())

	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF or interrupt
			return nil
		}

		out, err := s.Eval(line)
		if errors.Is(err, errExit) {
			fmt.Fprintf(rl.Stdout(), "\nSession ended. %d commands run in %s.\n",
				len(s.CommandHistory)-1, formatDuration(time.Since(s.StartTime)))
			return nil
		}
		if err != nil {
			fmt.Fprintf(rl.Stderr(), "Error: %s\n", err)
			continue
		}
		fmt.Fprint(rl.Stdout(), out)
	}
}

// Eval runs a single command line and returns its output.
func (s *Session) Eval(line string) (string, error) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return "", nil
	}
	s.CommandHistory = append(s.CommandHistory, strings.Join(args, " "))

	var buf bytes.Buffer
	var err error
	switch args[0] {
	case "exit", "quit":
		return "", errExit
	case "help":
		printHelp(&buf)
	case "history":
		for i, cmd := range s.CommandHistory {
			fmt.Fprintf(&buf, "  %d  %s\n", i+1, cmd)
		}
	case "list":
		s.list(&buf)
	case "show":
		if len(args) != 2 {
			return "", fmt.Errorf("usage: show <student id>")
		}
		err = s.show(&buf, args[1])
	case "slot":
		if len(args) != 2 {
			return "", fmt.Errorf("usage: slot <question>")
		}
		err = s.slot(&buf, args[1])
	case "missing":
		s.missing(&buf)
	case "failed":
		s.failed(&buf)
	case "stats":
		s.stats(&buf)
	default:
		return "", fmt.Errorf("unknown command %q — type 'help'", args[0])
	}
	if err != nil {
		return "", err
	}

	s.LastOutput = buf.String()
	return s.LastOutput, nil
}

func (s *Session) list(w io.Writer) {
	rows := make([][]string, len(s.Table.Records))
	for i, r := range s.Table.Records {
		rows[i] = append([]string{r.StudentID}, r.Answers.Strings()...)
	}
	output.PrintTable(w, s.Table.Header(), rows)
	fmt.Fprintf(w, "  (%d students)\n", len(rows))
}

func (s *Session) show(w io.Writer, id string) error {
	recs := s.Table.Find(id)
	if len(recs) == 0 {
		return fmt.Errorf("no student %q", id)
	}
	for i, r := range recs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s", r.StudentID)
		if r.File != "" {
			fmt.Fprintf(w, "  (%s)", filepath.Base(r.File))
		}
		fmt.Fprintln(w)
		output.PrintFields(w, s.Table.Slots, r.Answers.Strings())
	}
	return nil
}

func (s *Session) slotIndex(label string) (int, error) {
	for i, l := range s.Table.Slots {
		if l == label {
			return i, nil
		}
	}
	return 0, fmt.Errorf("no question %q — questions are %s", label, strings.Join(s.Table.Slots, ", "))
}

func (s *Session) slot(w io.Writer, label string) error {
	idx, err := s.slotIndex(label)
	if err != nil {
		return err
	}
	rows := make([][]string, len(s.Table.Records))
	for i, r := range s.Table.Records {
		rows[i] = []string{r.StudentID, r.Answers[idx].String()}
	}
	output.PrintTable(w, []string{answers.IDColumn, label}, rows)
	return nil
}

// missing lists students with at least one absent answer, most gaps first.
func (s *Session) missing(w io.Writer) {
	type gap struct {
		id     string
		absent []string
	}
	var gaps []gap
	for _, r := range s.Table.Records {
		var absent []string
		for i, v := range r.Answers {
			if v.IsAbsent() {
				absent = append(absent, s.Table.Slots[i])
			}
		}
		if len(absent) > 0 {
			gaps = append(gaps, gap{r.StudentID, absent})
		}
	}
	sort.SliceStable(gaps, func(i, j int) bool { return len(gaps[i].absent) > len(gaps[j].absent) })

	if len(gaps) == 0 {
		fmt.Fprintln(w, "Every student answered every question")
		return
	}
	rows := make([][]string, len(gaps))
	for i, g := range gaps {
		rows[i] = []string{g.id, strconv.Itoa(len(g.absent)), strings.Join(g.absent, " ")}
	}
	output.PrintTable(w, []string{answers.IDColumn, "Missing", "Questions"}, rows)
}

// failed lists rows with no answers at all: unreadable workbooks, or blank
// ones.
func (s *Session) failed(w io.Writer) {
	var ids []string
	for _, r := range s.Table.Records {
		if r.Failed() || r.Answers.AbsentCount() == len(s.Table.Slots) {
			ids = append(ids, r.StudentID)
		}
	}
	if len(ids) == 0 {
		fmt.Fprintln(w, "No blank rows")
		return
	}
	for _, id := range ids {
		fmt.Fprintf(w, "  %s\n", id)
	}
	fmt.Fprintf(w, "  (%d blank rows)\n", len(ids))
}

func (s *Session) stats(w io.Writer) {
	total := len(s.Table.Records)
	rows := make([][]string, len(s.Table.Slots))
	for i, label := range s.Table.Slots {
		answered := 0
		distinct := map[string]bool{}
		for _, r := range s.Table.Records {
			if v := r.Answers[i]; !v.IsAbsent() {
				answered++
				distinct[v.String()] = true
			}
		}
		rows[i] = []string{label, fmt.Sprintf("%d/%d", answered, total), strconv.Itoa(len(distinct))}
	}
	output.PrintTable(w, []string{"Question", "Answered", "Distinct"}, rows)
}

// Complete returns tab-completion candidates for the given input.
func (s *Session) Complete(input string) []string {
	parts := strings.Fields(input)
	trailing := strings.HasSuffix(input, " ")

	if len(parts) == 0 || (len(parts) == 1 && !trailing) {
		prefix := ""
		if len(parts) == 1 {
			prefix = parts[0]
		}
		return filterPrefix(s.KnownCommands, prefix)
	}

	if len(parts) > 2 || (len(parts) == 2 && trailing) {
		return nil
	}
	prefix := ""
	if len(parts) == 2 {
		prefix = parts[1]
	}
	return filterPrefix(s.argumentsFor(parts[0]), prefix)
}

func (s *Session) argumentsFor(cmd string) []string {
	switch cmd {
	case "show":
		seen := map[string]bool{}
		var ids []string
		for _, r := range s.Table.Records {
			if !seen[r.StudentID] {
				seen[r.StudentID] = true
				ids = append(ids, r.StudentID)
			}
		}
		sort.Strings(ids)
		return ids
	case "slot":
		return s.Table.Slots
	}
	return nil
}

func filterPrefix(items []string, prefix string) []string {
	var out []string
	for _, item := range items {
		if strings.HasPrefix(item, prefix) {
			out = append(out, item)
		}
	}
	return out
}

func (s *Session) buildCompleter() []readline.PrefixCompleterInterface {
	var items []readline.PrefixCompleterInterface
	for _, cmd := range s.KnownCommands {
		var subItems []readline.PrefixCompleterInterface
		for _, arg := range s.argumentsFor(cmd) {
			subItems = append(subItems, readline.PcItem(arg))
		}
		items = append(items, readline.PcItem(cmd, subItems...))
	}
	return items
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  list          all students and answers")
	fmt.Fprintln(w, "  show <id>     one student's answers")
	fmt.Fprintln(w, "  slot <n>      every student's answer to question n")
	fmt.Fprintln(w, "  missing       students with unanswered questions")
	fmt.Fprintln(w, "  failed        rows with no answers at all")
	fmt.Fprintln(w, "  stats         answered and distinct counts per question")
	fmt.Fprintln(w, "  history       commands run in this session")
	fmt.Fprintln(w, "  exit          leave the session")
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm %ds", m, s)
}
