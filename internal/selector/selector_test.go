package selector

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/huedetect/internal/palette"
)

func TestFixed(t *testing.T) {
	got, err := Fixed(palette.Green).Select(context.Background())
	require.NoError(t, err)
	assert.Equal(t, palette.Green, got)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Fixed(palette.Green).Select(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPrompt_Select(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      palette.Name
		cancelled bool
	}{
		{name: "empty picks default", input: "\n", want: palette.Red},
		{name: "number", input: "2\n", want: palette.Blue},
		{name: "name", input: "green\n", want: palette.Green},
		{name: "no trailing newline", input: "3", want: palette.Green},
		{name: "retry after invalid", input: "purple\n9\n3\n", want: palette.Green},
		{name: "quit", input: "q\n", cancelled: true},
		{name: "eof", input: "", cancelled: true},
		{name: "invalid then eof", input: "nope", cancelled: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrompt(strings.NewReader(tt.input), &out)

			got, err := p.Select(context.Background())
			if tt.cancelled {
				assert.ErrorIs(t, err, ErrCancelled)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrompt_Menu(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompt(strings.NewReader("x\n1\n"), &out)

	_, err := p.Select(context.Background())
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "1) Red (default)")
	assert.Contains(t, text, "2) Blue")
	assert.Contains(t, text, "3) Green")
	assert.Contains(t, text, "Please select a color!")
	assert.Equal(t, 2, strings.Count(text, "Choose a primary color:"))
}

func TestPrompt_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPrompt(strings.NewReader("1\n"), &bytes.Buffer{}).Select(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
