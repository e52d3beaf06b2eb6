package review

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/mattborgard/reimburse-parser/internal/form"
	"github.com/mattborgard/reimburse-parser/internal/validate"
)

const (
	minValueWidth = 20
	maxValueWidth = 50
)

// ConsolePrompter renders the review session on a terminal.
type ConsolePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewConsolePrompter(in io.Reader, out io.Writer) *ConsolePrompter {
	return &ConsolePrompter{in: bufio.NewReader(in), out: out}
}

// ShowRecord prints the record as a bordered table with one row per field
// and that field's validation status alongside.
func (c *ConsolePrompter) ShowRecord(rec form.Record, report validate.Report) {
	fieldWidth := 0
	valueWidth := minValueWidth
	for _, name := range form.AllFields {
		if len(name) > fieldWidth {
			fieldWidth = len(name)
		}
		if l := len(rec[name].Value); l > valueWidth {
			valueWidth = l
		}
	}
	if valueWidth > maxValueWidth {
		valueWidth = maxValueWidth
	}

	border := fmt.Sprintf("+-%s-+-%s-+-%s-+",
		strings.Repeat("-", fieldWidth),
		strings.Repeat("-", valueWidth),
		strings.Repeat("-", 18))

	fmt.Fprintln(c.out, "\n=== Extracted Data ===")
	fmt.Fprintln(c.out, border)
	fmt.Fprintf(c.out, "| %-*s | %-*s | %-18s |\n", fieldWidth, "Field", valueWidth, "Value", "Status")
	fmt.Fprintln(c.out, border)
	for _, name := range form.AllFields {
		value := rec[name].Value
		if value == "" {
			value = "(empty)"
		}
		if len(value) > valueWidth {
			value = value[:valueWidth-3] + "..."
		}
		fmt.Fprintf(c.out, "| %-*s | %-*s | %-18s |\n", fieldWidth, name, valueWidth, value, report[name])
	}
	fmt.Fprintln(c.out, border)
}

func (c *ConsolePrompter) ShowRaw(text string) {
	fmt.Fprintln(c.out, "\n=== Raw OCR Text ===")
	fmt.Fprintln(c.out, text)
	fmt.Fprintln(c.out, "=== End Raw Text ===")
}

func (c *ConsolePrompter) Prompt(label string) (string, error) {
	fmt.Fprintf(c.out, "\n%s\n> ", label)
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *ConsolePrompter) Say(format string, args ...any) {
	fmt.Fprintf(c.out, format+"\n", args...)
}

// Confirm asks a yes/no question, defaulting on a blank answer.
func (c *ConsolePrompter) Confirm(prompt string, def bool) bool {
	hint := "Y/n"
	if !def {
		hint = "y/N"
	}
	answer, err := c.Prompt(fmt.Sprintf("%s (%s)", prompt, hint))
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "":
		return def
	case "y", "yes":
		return true
	}
	return false
}
