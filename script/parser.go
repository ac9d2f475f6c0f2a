// Package script parses and runs scenario scripts that drive a text view.
//
// A script is a list of commands, one per line:
//
//	# comments start with a hash
//	size 320 480
//	load "testdata/novel.txt"
//	layout
//	expect created > 0
//	scroll 1200
//	scroll by -40
//	edit 0 5 "Hello"
//	append "\nthe end"
//	resize 200 480
//	render "frame.png"
//	expect offset = 1160
//
// Strings use Go syntax. Commands run in order against a Host.
package script

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	scriptLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "Comment", Pattern: `#[^\n]*`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+)`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Op", Pattern: `<=|>=|!=|==|[<>=]`},
	})

	scriptParser = participle.MustBuild[Script](
		participle.Lexer(scriptLexer),
		participle.Elide("Whitespace", "Comment"),
	)
)

// Script is the root AST node of a scenario script.
type Script struct {
	Commands []*Command `parser:"Newline* ( @@ Newline* )*"`
}

// Command is a single scenario step. Exactly one field is set.
type Command struct {
	Pos lexer.Position

	Size   *Size   `parser:"  'size' @@"`
	Text   *String `parser:"| 'text' @String"`
	Load   *String `parser:"| 'load' @String"`
	Append *String `parser:"| 'append' @String"`
	Edit   *Edit   `parser:"| 'edit' @@"`
	Resize *Size   `parser:"| 'resize' @@"`
	Scroll *Scroll `parser:"| 'scroll' @@"`
	Layout bool    `parser:"| @'layout'"`
	Render *String `parser:"| 'render' @String"`
	Expect *Expect `parser:"| 'expect' @@"`
}

// Name returns the command keyword.
func (c *Command) Name() string {
	switch {
	case c == nil:
		return "unknown"
	case c.Size != nil:
		return "size"
	case c.Text != nil:
		return "text"
	case c.Load != nil:
		return "load"
	case c.Append != nil:
		return "append"
	case c.Edit != nil:
		return "edit"
	case c.Resize != nil:
		return "resize"
	case c.Scroll != nil:
		return "scroll"
	case c.Layout:
		return "layout"
	case c.Render != nil:
		return "render"
	case c.Expect != nil:
		return "expect"
	default:
		return "unknown"
	}
}

// Size is a width and height in points.
type Size struct {
	Width  float64 `parser:"@Number"`
	Height float64 `parser:"@Number"`
}

// Edit replaces the bytes [Start, End) with Text.
type Edit struct {
	Start int    `parser:"@Number"`
	End   int    `parser:"@Number"`
	Text  String `parser:"@String"`
}

// Scroll moves to an absolute offset, or by a delta with "by".
type Scroll struct {
	By    bool    `parser:"@'by'?"`
	Value float64 `parser:"@Number"`
}

// Expect compares a measured value with a number. Op defaults to "=".
type Expect struct {
	Field string  `parser:"@Ident"`
	Op    string  `parser:"@Op?"`
	Value float64 `parser:"@Number"`
}

// String is a quoted string literal, unquoted on capture.
type String string

// Capture implements participle.Capture.
func (s *String) Capture(values []string) error {
	v, err := strconv.Unquote(values[0])
	if err != nil {
		return fmt.Errorf("invalid string %s: %w", values[0], err)
	}
	*s = String(v)
	return nil
}

// Error is a parse or run error at a position in the script.
type Error struct {
	Pos lexer.Position
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("script: %s: %v", e.Pos, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Parse parses a script from r. filename is used in error positions.
func Parse(filename string, r io.Reader) (*Script, error) {
	s, err := scriptParser.Parse(filename, r)
	if err != nil {
		return nil, positioned(err)
	}
	return s, nil
}

// ParseString parses a script from a string.
func ParseString(filename, input string) (*Script, error) {
	s, err := scriptParser.ParseString(filename, input)
	if err != nil {
		return nil, positioned(err)
	}
	return s, nil
}

func positioned(err error) error {
	var perr participle.Error
	if errors.As(err, &perr) {
		return &Error{Pos: perr.Position(), Err: errors.New(perr.Message())}
	}
	return fmt.Errorf("script: %w", err)
}
