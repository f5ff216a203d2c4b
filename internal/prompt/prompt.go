// Package prompt asks the user for a template and placeholder values on a
// line based terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/bobiverse/docxfill"
	"github.com/bobiverse/docxfill/internal/catalog"
)

// ErrExit is returned when the user typed "exit" or closed the input.
var ErrExit = errors.New("exit requested")

var (
	heading = color.New(color.FgCyan, color.Bold)
	faint   = color.New(color.Faint)
	warn    = color.New(color.FgYellow)
)

// IsInteractive reports whether f is a terminal.
func IsInteractive(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Prompter reads answers from in and writes questions to out.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New prompter
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// readLine returns the next trimmed line. A last line without newline is
// still returned, io.EOF comes only when nothing was left.
func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// SelectTemplate lists entries and asks for a number until a valid one or
// "exit" is entered.
func (p *Prompter) SelectTemplate(entries []catalog.Entry) (catalog.Entry, error) {
	heading.Fprintln(p.out, "\nAvailable templates:")
	for i, e := range entries {
		fmt.Fprintf(p.out, "  %d. %s\n", i+1, e.Name)
	}
	faint.Fprintln(p.out, "\n  Type 'exit' to quit")

	for {
		fmt.Fprint(p.out, "\nSelect template number: ")
		choice, err := p.readLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return catalog.Entry{}, ErrExit
			}
			return catalog.Entry{}, fmt.Errorf("read selection: %w", err)
		}

		if strings.EqualFold(choice, "exit") {
			return catalog.Entry{}, ErrExit
		}

		n, err := strconv.Atoi(choice)
		if err != nil {
			warn.Fprintln(p.out, "\nInvalid input. Please enter a number or 'exit'.")
			continue
		}
		if n < 1 || n > len(entries) {
			warn.Fprintln(p.out, "\nInvalid selection. Please try again.")
			continue
		}
		return entries[n-1], nil
	}
}

// Values asks for every placeholder not already in preset, in the given
// order. The date placeholder is answered with today's date and shown as
// "(auto)". The result holds the answers and the auto date, not preset.
func (p *Prompter) Values(placeholders []docxfill.Placeholder, preset docxfill.Values, dateToken string, today time.Time) (docxfill.Values, error) {
	answers := docxfill.Values{}

	heading.Fprintln(p.out, "\nEnter values for each field:")
	fmt.Fprintln(p.out, strings.Repeat("-", 40))

	for _, ph := range placeholders {
		if v, ok := preset.Get(string(ph)); ok {
			fmt.Fprintf(p.out, "  %s: %s ", ph, v)
			faint.Fprintln(p.out, "(set)")
			continue
		}

		if docxfill.IsDateToken(ph, dateToken) {
			v := docxfill.DateValue(today)
			fmt.Fprintf(p.out, "  %s: %s ", ph, v)
			faint.Fprintln(p.out, "(auto)")
			answers.Set(string(ph), v)
			continue
		}

		fmt.Fprintf(p.out, "  %s: ", ph)
		v, err := p.readLine()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", ph, err)
		}
		answers.Set(string(ph), v)
	}

	return answers, nil
}
