package script

import (
	"errors"
	"fmt"

	"github.com/gogpu/vtext/internal/logging"
	"github.com/gogpu/vtext/viewport"
)

// ErrExpectation is wrapped by errors of failed expect commands.
var ErrExpectation = errors.New("expectation failed")

// Host is the view a script drives.
type Host interface {
	SetSize(width, height float64)
	SetText(s string)
	Append(s string)
	Replace(start, end int, s string) error
	ScrollTo(y float64)
	ScrollBy(dy float64)
	Layout() viewport.Result
	Offset() float64
	Extent() float64

	// Load replaces the text with the contents of a file.
	Load(path string) error
	// Render writes a snapshot of the view to a file.
	Render(path string) error
}

// Run executes the commands of s against h in order and stops at the first
// error, which is an *Error carrying the command position.
func Run(s *Script, h Host) error {
	var last viewport.Result
	for _, c := range s.Commands {
		logging.Logger().Debug("script: run", "command", c.Name(), "pos", c.Pos.String())
		if err := run(c, h, &last); err != nil {
			return &Error{Pos: c.Pos, Err: err}
		}
	}
	return nil
}

func run(c *Command, h Host, last *viewport.Result) error {
	switch {
	case c.Size != nil:
		h.SetSize(c.Size.Width, c.Size.Height)
	case c.Resize != nil:
		h.SetSize(c.Resize.Width, c.Resize.Height)
	case c.Text != nil:
		h.SetText(string(*c.Text))
	case c.Load != nil:
		return h.Load(string(*c.Load))
	case c.Append != nil:
		h.Append(string(*c.Append))
	case c.Edit != nil:
		return h.Replace(c.Edit.Start, c.Edit.End, string(c.Edit.Text))
	case c.Scroll != nil:
		if c.Scroll.By {
			h.ScrollBy(c.Scroll.Value)
		} else {
			h.ScrollTo(c.Scroll.Value)
		}
	case c.Layout:
		*last = h.Layout()
	case c.Render != nil:
		return h.Render(string(*c.Render))
	case c.Expect != nil:
		return expect(c.Expect, h, *last)
	}
	return nil
}

func expect(e *Expect, h Host, last viewport.Result) error {
	got, err := measure(e.Field, h, last)
	if err != nil {
		return err
	}
	op := e.Op
	if op == "" || op == "==" {
		op = "="
	}

	var ok bool
	switch op {
	case "=":
		ok = got == e.Value
	case "!=":
		ok = got != e.Value
	case "<":
		ok = got < e.Value
	case "<=":
		ok = got <= e.Value
	case ">":
		ok = got > e.Value
	case ">=":
		ok = got >= e.Value
	}
	if !ok {
		return fmt.Errorf("%w: %s is %v, want %s %v", ErrExpectation, e.Field, got, op, e.Value)
	}
	return nil
}

// measure returns the named value. Result fields refer to the last layout
// command.
func measure(field string, h Host, last viewport.Result) (float64, error) {
	switch field {
	case "attached":
		return float64(last.Attached), nil
	case "created":
		return float64(last.Created), nil
	case "reused":
		return float64(last.Reused), nil
	case "reattached":
		return float64(last.Reattached), nil
	case "detached":
		return float64(last.Detached), nil
	case "evicted":
		return float64(last.Evicted), nil
	case "redraws":
		return float64(last.Redraws), nil
	case "deltas":
		return float64(len(last.Deltas)), nil
	case "offset":
		return h.Offset(), nil
	case "extent":
		return h.Extent(), nil
	default:
		return 0, fmt.Errorf("unknown field %q", field)
	}
}
