package ui

import (
	"encoding/json"
	"io"
)

// Severity is the visual weight of a value embedded in a line of output.
type Severity uint8

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityWarn
	SeverityError
)

// StyledText is a value plus the severity it should be rendered with.
// It marshals to JSON as the bare text.
type StyledText struct {
	Text     string
	Severity Severity
}

func Plain(text string) StyledText   { return StyledText{Text: text} }
func Good(text string) StyledText    { return StyledText{Text: text, Severity: SeveritySuccess} }
func Caution(text string) StyledText { return StyledText{Text: text, Severity: SeverityWarn} }
func Bad(text string) StyledText     { return StyledText{Text: text, Severity: SeverityError} }

func (s StyledText) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Text)
}

// UI is everything a command prints or asks. TerminalUI talks to the user,
// RecordingUI captures calls in tests.
type UI interface {
	// Style renders t for embedding in another line. Without colours it is
	// t.Text.
	Style(t StyledText) string

	Info(format string, args ...any)
	Success(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)

	// Section prints a titled separator.
	Section(title string)

	// KeyValue prints label/value pairs with the values in one column.
	KeyValue(rows [][2]string)

	// Table prints a bordered table. headers may be empty.
	Table(headers []string, rows [][]string)

	// JSON prints v as indented JSON and nothing else.
	JSON(v any) error

	// Spinner shows msg until the returned stop function is called.
	Spinner(msg string) func()

	// Interactive reports whether prompts can be answered.
	Interactive() bool

	// Confirm asks a yes/no question; an empty answer picks the default.
	Confirm(prompt string, defaultYes bool) bool

	// Choose lists options and returns the 0-based index picked, or -1 when
	// the user skips with an empty answer.
	Choose(prompt string, options []string) int

	// Indent returns a UI one level deeper sharing the same streams.
	Indent() UI

	// Writer prefixes every line written to it with the current indent.
	Writer() io.Writer
}
