// Package termfmt styles terminal output with ANSI escapes: bold text, OSC 8
// hyperlinks and the 16 basic colours.
//
// Adapted from https://github.com/shabbyrobe/golib/blob/master/termfmt/termfmt.go
// (MIT license).
package termfmt

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type Escape interface {
	Wrap(out string) string
}

// Style wraps a value in escapes when formatted with any fmt verb.
type Style struct {
	escapes []Escape
	v       any
}

var _ fmt.Formatter = Style{}

var enabled = true

// SetEnabled turns styling on or off globally. Disabled styles print the bare
// value, which is what pipes and files want.
func SetEnabled(on bool) { enabled = on }

func Bold() Style               { return (Style{}).Bold() }
func Linked(link string) Style  { return (Style{}).Linked(link) }
func Fg(c Color) Style          { return (Style{}).Fg(c) }
func With(escs ...Escape) Style { return (Style{}).With(escs...) }

func (c Style) Bold() Style              { return c.With(BoldEscape{}) }
func (c Style) Fg(col Color) Style       { return c.With(ColorEscape{Color: col}) }
func (c Style) Linked(link string) Style { return c.With(Link{URL: link}) }

func (c Style) With(escs ...Escape) Style {
	c.escapes = append(append([]Escape(nil), c.escapes...), escs...)
	return c
}

// V sets the value to print.
func (c Style) V(v any) Style {
	c.v = v
	return c
}

func (c Style) Format(f fmt.State, verb rune) {
	v := printable(fmt.Sprintf(valueFormat(f, verb), c.v))
	if enabled {
		for i := len(c.escapes) - 1; i >= 0; i-- {
			v = c.escapes[i].Wrap(v)
		}
	}
	_, _ = f.Write([]byte(v))
}

// valueFormat rebuilds the directive Format was called with, so width and
// flags apply to the value rather than to the escapes.
func valueFormat(f fmt.State, verb rune) string {
	var b strings.Builder
	b.WriteByte('%')
	for _, flag := range " +-0#" {
		if f.Flag(int(flag)) {
			b.WriteRune(flag)
		}
	}
	if width, ok := f.Width(); ok {
		b.WriteString(strconv.Itoa(width))
	}
	if prec, ok := f.Precision(); ok {
		b.WriteString("." + strconv.Itoa(prec))
	}
	b.WriteRune(verb)
	return b.String()
}

// Link is an OSC 8 terminal hyperlink.
type Link struct {
	URL string
}

func (l Link) Wrap(out string) string {
	return "\x1b]8;;" + printable(l.URL) + "\x1b\\" + out + "\x1b]8;;\x1b\\"
}

type BoldEscape struct{}

func (BoldEscape) Wrap(v string) string { return "\x1b[1m" + v + "\x1b[0m" }

type Color uint8

const (
	DefaultColor Color = iota

	Black
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	LightGrey

	DarkGrey
	LightRed
	LightGreen
	LightYellow
	LightBlue
	LightMagenta
	LightCyan
	White
)

type ColorEscape struct {
	Color Color
	Bg    bool
}

// code is the SGR parameter: 30-37 and 90-97 for foregrounds, ten more for
// backgrounds, 39/49 for the default.
func (c ColorEscape) code() int {
	code := 39
	switch {
	case c.Color == DefaultColor:
	case c.Color < DarkGrey:
		code = 30 + int(c.Color) - 1
	default:
		code = 90 + int(c.Color-DarkGrey)
	}
	if c.Bg {
		code += 10
	}
	return code
}

func (c ColorEscape) Wrap(out string) string {
	return fmt.Sprintf("\x1b[%dm%s\x1b[0m", c.code(), out)
}

func printable(v string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsGraphic(r) || r == '\n' || r == '\t' {
			return r
		}
		return -1
	}, v)
}
