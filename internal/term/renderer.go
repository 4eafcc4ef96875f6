package term

import (
	"io"
	"strings"

	"github.com/fatih/color"
)

// Renderer prints streamed tokens with the conversational color scheme:
// regular text in light blue, action items in red. It tracks the trailing
// line of the accumulated response so a token belonging to an "ACTION:" line
// is highlighted even when the marker arrived in an earlier token.
type Renderer struct {
	out          io.Writer
	trailingLine strings.Builder

	blue *color.Color
	red  *color.Color
}

func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{
		out:  out,
		blue: color.New(color.FgHiBlue),
		red:  color.New(color.FgHiRed),
	}
}

// Token prints one streamed token.
func (r *Renderer) Token(token string) {
	c := r.blue
	if strings.HasPrefix(strings.TrimSpace(token), "ACTION:") || strings.Contains(r.trailingLine.String(), "ACTION:") {
		c = r.red
	}
	c.Fprint(r.out, token)

	if i := strings.LastIndexByte(token, '\n'); i >= 0 {
		r.trailingLine.Reset()
		r.trailingLine.WriteString(token[i+1:])
	} else {
		r.trailingLine.WriteString(token)
	}
}

// Error prints a terminal error message in red.
func (r *Renderer) Error(msg string) {
	r.red.Fprintln(r.out, msg)
}

// Reset clears line-tracking state between turns.
func (r *Renderer) Reset() {
	r.trailingLine.Reset()
}
