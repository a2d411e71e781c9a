package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPrompter(input string) (*prompter, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return newPrompter(strings.NewReader(input), out), out
}

func TestPrompter_Line(t *testing.T) {
	p, out := newTestPrompter("  Ana Souza  \n\n")

	got, err := p.line("Full name", "")
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", got)

	got, err = p.line("Full name", "Ana Souza")
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", got, "empty answer keeps the current value")
	assert.Contains(t, out.String(), "Full name [Ana Souza]: ")
}

func TestPrompter_Commands(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"back", ":back\n", errBack},
		{"quit", ":quit\n", errQuit},
		{"end of input", "", errQuit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newTestPrompter(tt.input)
			_, err := p.line("Email", "")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPrompter_Choose(t *testing.T) {
	options := []string{"menos-1", "1-2", "2-3"}

	tests := []struct {
		name    string
		input   string
		current string
		want    string
	}{
		{"by number", "2\n", "", "1-2"},
		{"by value", "2-3\n", "", "2-3"},
		{"case insensitive", "MENOS-1\n", "", "menos-1"},
		{"keeps current", "\n", "2-3", "2-3"},
		{"retries invalid answer", "9\nnope\n1\n", "", "menos-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newTestPrompter(tt.input)
			got, err := p.choose("Python experience", options, tt.current)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrompter_Confirm(t *testing.T) {
	p, _ := newTestPrompter("y\nsim\n\nno\n")
	for _, want := range []bool{true, true, false, false} {
		got, err := p.confirm("Change it?")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"go", "python"}, splitList(" go, ,python ,"))
	assert.Equal(t, []string{}, splitList(""))
}

func TestTerminalNotifier(t *testing.T) {
	out := &bytes.Buffer{}
	n := newTerminalNotifier(out)
	n.Error("Invalid email")
	n.Success("Done")
	assert.Equal(t, "✗ Invalid email\n✓ Done\n", out.String())
}
