// cmd/intake/prompt.go
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	errBack = errors.New("back")
	errQuit = errors.New("quit")
)

const (
	cmdBack = ":back"
	cmdQuit = ":quit"
)

// prompter reads one answer per line. ":back" and ":quit" are recognised at
// every prompt; end of input counts as ":quit".
type prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	return &prompter{scanner: scanner, out: out}
}

func (p *prompter) read() (string, error) {
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", errQuit
	}
	text := strings.TrimSpace(p.scanner.Text())
	switch text {
	case cmdBack:
		return "", errBack
	case cmdQuit:
		return "", errQuit
	}
	return text, nil
}

// line asks for free text. An empty answer keeps current.
func (p *prompter) line(label, current string) (string, error) {
	if current != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", label, current)
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}
	text, err := p.read()
	if err != nil {
		return "", err
	}
	if text == "" {
		return current, nil
	}
	return text, nil
}

// choose lists options and accepts either a number or the option itself.
// An empty answer keeps current.
func (p *prompter) choose(label string, options []string, current string) (string, error) {
	for {
		fmt.Fprintf(p.out, "%s\n", label)
		for i, opt := range options {
			marker := " "
			if opt == current {
				marker = "*"
			}
			fmt.Fprintf(p.out, "  %s %2d) %s\n", marker, i+1, opt)
		}
		fmt.Fprint(p.out, "> ")

		text, err := p.read()
		if err != nil {
			return "", err
		}
		if text == "" {
			return current, nil
		}
		if n, convErr := strconv.Atoi(text); convErr == nil && n >= 1 && n <= len(options) {
			return options[n-1], nil
		}
		for _, opt := range options {
			if strings.EqualFold(opt, text) {
				return opt, nil
			}
		}
		fmt.Fprintf(p.out, "  %q is not one of the options\n", text)
	}
}

func (p *prompter) confirm(label string) (bool, error) {
	fmt.Fprintf(p.out, "%s [y/N]: ", label)
	text, err := p.read()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(text) {
	case "y", "yes", "s", "sim":
		return true, nil
	}
	return false, nil
}

// splitList parses a comma separated answer, dropping blanks.
func splitList(text string) []string {
	out := []string{}
	for _, part := range strings.Split(text, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// terminalNotifier prints wizard toasts.
type terminalNotifier struct {
	out io.Writer
}

func newTerminalNotifier(out io.Writer) *terminalNotifier {
	return &terminalNotifier{out: out}
}

func (n *terminalNotifier) Error(message string) {
	fmt.Fprintf(n.out, "✗ %s\n", message)
}

func (n *terminalNotifier) Success(message string) {
	fmt.Fprintf(n.out, "✓ %s\n", message)
}
