package ui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

// Entry is one recorded call.
type Entry struct {
	Method string
	Level  int
	Value  string
}

type recording struct {
	mu      sync.Mutex
	entries []Entry
	answers []string
	buf     bytes.Buffer
}

// RecordingUI captures output and answers prompts from a script. Running out
// of answers panics so a wrong script fails the test loudly.
type RecordingUI struct {
	rec         *recording
	level       int
	interactive bool
}

// NewRecordingUI returns a RecordingUI that is interactive exactly when
// answers are supplied.
func NewRecordingUI(answers ...string) *RecordingUI {
	return &RecordingUI{
		rec:         &recording{answers: answers},
		interactive: len(answers) > 0,
	}
}

func (r *RecordingUI) record(method, value string) {
	r.rec.mu.Lock()
	defer r.rec.mu.Unlock()
	r.rec.entries = append(r.rec.entries, Entry{Method: method, Level: r.level, Value: value})
}

func (r *RecordingUI) answer(method string) string {
	r.rec.mu.Lock()
	defer r.rec.mu.Unlock()
	if len(r.rec.answers) == 0 {
		panic(fmt.Sprintf("RecordingUI: no scripted answer left for %s", method))
	}
	a := r.rec.answers[0]
	r.rec.answers = r.rec.answers[1:]
	return a
}

func (r *RecordingUI) Style(t StyledText) string { return t.Text }

func (r *RecordingUI) Info(format string, args ...any) {
	r.record("Info", fmt.Sprintf(format, args...))
}

func (r *RecordingUI) Success(format string, args ...any) {
	r.record("Success", fmt.Sprintf(format, args...))
}

func (r *RecordingUI) Warn(format string, args ...any) {
	r.record("Warn", fmt.Sprintf(format, args...))
}

func (r *RecordingUI) Error(format string, args ...any) {
	r.record("Error", fmt.Sprintf(format, args...))
}

func (r *RecordingUI) Section(title string) {
	r.record("Section", title)
}

func (r *RecordingUI) KeyValue(rows [][2]string) {
	for _, row := range rows {
		r.record("KeyValue", row[0]+": "+row[1])
	}
}

// Table records one entry per row with the cells joined by " | ".
func (r *RecordingUI) Table(headers []string, rows [][]string) {
	if len(headers) > 0 {
		r.record("TableHeader", strings.Join(headers, " | "))
	}
	for _, row := range rows {
		r.record("TableRow", strings.Join(row, " | "))
	}
}

func (r *RecordingUI) JSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	r.record("JSON", string(b))
	return nil
}

func (r *RecordingUI) Spinner(msg string) func() {
	r.record("Spinner", msg)
	return func() {}
}

func (r *RecordingUI) Interactive() bool { return r.interactive }

// Confirm takes "y"/"yes" and "n"/"no"; "" picks the default.
func (r *RecordingUI) Confirm(prompt string, defaultYes bool) bool {
	r.record("Confirm", prompt)
	switch strings.ToLower(strings.TrimSpace(r.answer("Confirm"))) {
	case "":
		return defaultYes
	case "y", "yes":
		return true
	}
	return false
}

// Choose records the prompt and one "Option" entry per option. It takes a
// 1-based index, an option's text, or "" to skip.
func (r *RecordingUI) Choose(prompt string, options []string) int {
	r.record("Choose", prompt)
	for _, opt := range options {
		r.record("Option", opt)
	}
	a := strings.TrimSpace(r.answer("Choose"))
	if a == "" {
		return -1
	}
	if idx, err := strconv.Atoi(a); err == nil && idx >= 1 && idx <= len(options) {
		return idx - 1
	}
	for i, opt := range options {
		if strings.EqualFold(a, opt) {
			return i
		}
	}
	panic(fmt.Sprintf("RecordingUI: answer %q matches none of %v", a, options))
}

func (r *RecordingUI) Indent() UI {
	return &RecordingUI{rec: r.rec, level: r.level + 1, interactive: r.interactive}
}

func (r *RecordingUI) Writer() io.Writer {
	return &recordingWriter{r}
}

type recordingWriter struct{ r *RecordingUI }

func (w *recordingWriter) Write(p []byte) (int, error) {
	w.r.rec.mu.Lock()
	defer w.r.rec.mu.Unlock()
	return w.r.rec.buf.Write(p)
}

// Entries returns every recorded call in order.
func (r *RecordingUI) Entries() []Entry {
	r.rec.mu.Lock()
	defer r.rec.mu.Unlock()
	return append([]Entry(nil), r.rec.entries...)
}

// Messages returns the values recorded by method, in order.
func (r *RecordingUI) Messages(method string) []string {
	var out []string
	for _, e := range r.Entries() {
		if e.Method == method {
			out = append(out, e.Value)
		}
	}
	return out
}

// HasMessage reports whether any entry contains substr, ignoring case.
func (r *RecordingUI) HasMessage(substr string) bool {
	lower := strings.ToLower(substr)
	for _, e := range r.Entries() {
		if strings.Contains(strings.ToLower(e.Value), lower) {
			return true
		}
	}
	return false
}

// Output is everything written through Writer.
func (r *RecordingUI) Output() string {
	r.rec.mu.Lock()
	defer r.rec.mu.Unlock()
	return r.rec.buf.String()
}
