package components

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Markup writes HTML fragments to w and keeps the first write error.
// String arguments passed to Printf are escaped; Raw is written verbatim.
type Markup struct {
	ctx context.Context
	w   io.Writer
	err error
}

// NewMarkup wraps w for the duration of one component render.
func NewMarkup(ctx context.Context, w io.Writer) *Markup {
	return &Markup{ctx: ctx, w: w}
}

// Raw writes trusted markup.
func (m *Markup) Raw(s string) {
	if m.err != nil {
		return
	}
	_, m.err = io.WriteString(m.w, s)
}

// Printf formats into the output, escaping string and Stringer arguments.
// URLs should be passed through templ.URL so unsafe schemes are neutralised.
func (m *Markup) Printf(format string, args ...any) {
	if m.err != nil {
		return
	}
	escaped := make([]any, len(args))
	for i, arg := range args {
		switch v := arg.(type) {
		case string:
			escaped[i] = templ.EscapeString(v)
		case templ.SafeURL:
			escaped[i] = templ.EscapeString(string(v))
		case fmt.Stringer:
			escaped[i] = templ.EscapeString(v.String())
		default:
			escaped[i] = v
		}
	}
	_, m.err = fmt.Fprintf(m.w, format, escaped...)
}

// Render writes a nested component.
func (m *Markup) Render(c templ.Component) {
	if m.err != nil || c == nil {
		return
	}
	m.err = c.Render(m.ctx, m.w)
}

// Err reports the first failure.
func (m *Markup) Err() error {
	return m.err
}
