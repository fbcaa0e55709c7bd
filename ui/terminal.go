package ui

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"
	"github.com/logrusorgru/aurora"
	runewidth "github.com/mattn/go-runewidth"
	indent "github.com/openconfig/goyang/pkg/indent"
	"golang.org/x/term"
)

const (
	indentUnit   = "  "
	sectionWidth = 60
	promptPrefix = "> "
)

type TerminalUI struct {
	level       int
	out         io.Writer
	in          *bufio.Reader
	au          aurora.Aurora
	colors      bool
	interactive bool
}

// NewTerminalUI writes to stdout and reads stdin. Colours, the spinner and
// prompts are only enabled on a terminal.
func NewTerminalUI() *TerminalUI {
	return NewTerminalUIWithIO(
		os.Stdout,
		os.Stdin,
		term.IsTerminal(int(os.Stdout.Fd())),
		term.IsTerminal(int(os.Stdin.Fd())),
	)
}

func NewTerminalUIWithIO(out io.Writer, in io.Reader, colors, interactive bool) *TerminalUI {
	return &TerminalUI{
		out:         out,
		in:          bufio.NewReader(in),
		au:          aurora.NewAurora(colors),
		colors:      colors,
		interactive: interactive,
	}
}

func (u *TerminalUI) prefix() string {
	return strings.Repeat(indentUnit, u.level)
}

func (u *TerminalUI) line(s string) {
	fmt.Fprintf(u.out, "%s%s\n", u.prefix(), s)
}

func (u *TerminalUI) Style(t StyledText) string {
	switch t.Severity {
	case SeveritySuccess:
		return u.au.Green(t.Text).String()
	case SeverityWarn:
		return u.au.Yellow(t.Text).String()
	case SeverityError:
		return u.au.Red(t.Text).String()
	}
	return t.Text
}

func (u *TerminalUI) Info(format string, args ...any) {
	u.line(fmt.Sprintf(format, args...))
}

func (u *TerminalUI) Success(format string, args ...any) {
	u.line(u.au.Green(fmt.Sprintf(format, args...)).String())
}

func (u *TerminalUI) Warn(format string, args ...any) {
	u.line(u.au.Yellow(fmt.Sprintf(format, args...)).String())
}

func (u *TerminalUI) Error(format string, args ...any) {
	u.line(u.au.Red(fmt.Sprintf(format, args...)).String())
}

func (u *TerminalUI) Section(title string) {
	titled := " " + title + " "
	bars := sectionWidth - runewidth.StringWidth(titled)
	if bars < 6 {
		bars = 6
	}
	left := bars / 2
	sep := strings.Repeat("-", left) + u.au.Bold(titled).String() + strings.Repeat("-", bars-left)
	fmt.Fprintf(u.out, "\n%s%s\n", u.prefix(), sep)
}

// visibleWidth ignores ANSI sequences and counts wide runes twice.
func visibleWidth(s string) int {
	return runewidth.StringWidth(ansi.Strip(s))
}

func (u *TerminalUI) KeyValue(rows [][2]string) {
	width := 0
	for _, r := range rows {
		if w := visibleWidth(r[0]); w > width {
			width = w
		}
	}
	for _, r := range rows {
		label := r[0] + ":" + strings.Repeat(" ", width-visibleWidth(r[0]))
		u.line(u.au.Faint(label).String() + "  " + r[1])
	}
}

func (u *TerminalUI) Table(headers []string, rows [][]string) {
	if len(rows) == 0 && len(headers) == 0 {
		return
	}
	border := lipgloss.NewStyle()
	head := lipgloss.NewStyle().Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	if u.colors {
		border = border.Foreground(lipgloss.Color("240"))
		head = head.Bold(true)
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(border).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return head
			}
			return cell
		}).
		Rows(rows...)
	if len(headers) > 0 {
		t = t.Headers(headers...)
	}
	fmt.Fprintln(u.Writer(), t.String())
}

func (u *TerminalUI) JSON(v any) error {
	enc := json.NewEncoder(u.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (u *TerminalUI) Spinner(msg string) func() {
	if !u.interactive || !u.colors {
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(u.out))
	s.Suffix = " " + msg
	s.Start()
	return s.Stop
}

func (u *TerminalUI) Interactive() bool {
	return u.interactive
}

func (u *TerminalUI) readLine() string {
	fmt.Fprintf(u.out, "%s%s", u.prefix(), promptPrefix)
	text, _ := u.in.ReadString('\n')
	return strings.TrimSpace(text)
}

func (u *TerminalUI) Confirm(prompt string, defaultYes bool) bool {
	options := "[y/N]"
	if defaultYes {
		options = "[Y/n]"
	}
	for {
		u.Info("%s %s", prompt, options)
		switch strings.ToLower(u.readLine()) {
		case "":
			return defaultYes
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}
		u.Error("please answer y or n")
	}
}

func (u *TerminalUI) Choose(prompt string, options []string) int {
	for i, opt := range options {
		u.Info("%d. %s", i+1, opt)
	}
	for {
		u.Info("%s [1-%d, empty to skip]", prompt, len(options))
		input := u.readLine()
		if input == "" {
			return -1
		}
		if idx, err := strconv.Atoi(input); err == nil && idx >= 1 && idx <= len(options) {
			return idx - 1
		}
		u.Error("please enter a number between 1 and %d", len(options))
	}
}

func (u *TerminalUI) Indent() UI {
	child := *u
	child.level++
	return &child
}

func (u *TerminalUI) Writer() io.Writer {
	if u.level == 0 {
		return u.out
	}
	return indent.NewWriter(u.out, u.prefix())
}
