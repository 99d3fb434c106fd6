// Package selector asks the user which palette color to track.
package selector

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ayusman/huedetect/internal/palette"
)

// ErrCancelled is returned when the user dismisses the selection.
var ErrCancelled = errors.New("color selection cancelled")

// Selector defines the interface for color selection front ends.
type Selector interface {
	// Select blocks until the user picks a color or cancels.
	Select(ctx context.Context) (palette.Name, error)
}

// Fixed always selects the same color.
type Fixed palette.Name

// Select returns the fixed color.
func (f Fixed) Select(ctx context.Context) (palette.Name, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return palette.Name(f), nil
}

// Prompt presents a numbered menu on out and reads the choice from in.
// An empty answer picks palette.Default(); "q" cancels.
type Prompt struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompt creates a Prompt reading from in and writing to out.
func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Select shows the menu until a valid answer is read.
func (p *Prompt) Select(ctx context.Context) (palette.Name, error) {
	entries := palette.All()

	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		p.printMenu(entries)

		line, err := p.in.ReadString('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return 0, fmt.Errorf("read selection: %w", err)
			}
			if strings.TrimSpace(line) == "" {
				return 0, ErrCancelled
			}
		}

		name, ok, cancelled := parseChoice(strings.TrimSpace(line), entries)
		if cancelled {
			return 0, ErrCancelled
		}
		if ok {
			return name, nil
		}

		if errors.Is(err, io.EOF) {
			return 0, ErrCancelled
		}
		fmt.Fprintln(p.out, "Please select a color!")
	}
}

func (p *Prompt) printMenu(entries []palette.Entry) {
	fmt.Fprintln(p.out, "Choose a primary color:")
	for i, e := range entries {
		suffix := ""
		if e.Name == palette.Default() {
			suffix = " (default)"
		}
		fmt.Fprintf(p.out, "  %d) %s%s\n", i+1, e.Name, suffix)
	}
	fmt.Fprintln(p.out, "  q) Cancel")
	fmt.Fprint(p.out, "> ")
}

// parseChoice accepts an empty answer, a menu number or a color name.
func parseChoice(choice string, entries []palette.Entry) (name palette.Name, ok, cancelled bool) {
	switch strings.ToLower(choice) {
	case "":
		return palette.Default(), true, false
	case "q", "quit", "cancel":
		return 0, false, true
	}

	if n, err := strconv.Atoi(choice); err == nil {
		if n >= 1 && n <= len(entries) {
			return entries[n-1].Name, true, false
		}
		return 0, false, false
	}

	if parsed, err := palette.Parse(choice); err == nil {
		return parsed, true, false
	}
	return 0, false, false
}
