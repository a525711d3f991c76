package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/cloudlens/cloudlens/value"
)

// Printer is an output sink with an indentation cursor. It mirrors
// github.com/arnodel/jsonstream/printer.go's Printer interface, trimmed
// to what cmd/cloudlens's flat rendering needs: main builds its printer
// with IndentSize -1, so there NewLine/Indent/Dedent write nothing and
// every record prints on one line.
type Printer interface {
	Indent()
	Dedent()
	NewLine()
	PrintBytes([]byte)
}

// DefaultPrinter writes to an io.Writer, indenting by IndentSize spaces
// per level. IndentSize < 0 disables newlines entirely (single-line
// output); IndentSize == 0 still breaks lines but without indentation.
type DefaultPrinter struct {
	io.Writer
	IndentSize  int
	indentLevel int
}

var _ Printer = &DefaultPrinter{}

func (p *DefaultPrinter) NewLine() {
	if p.IndentSize < 0 {
		return
	}
	fmt.Fprintln(p.Writer)
	for i := p.IndentSize * p.indentLevel; i > 0; i-- {
		fmt.Fprint(p.Writer, " ")
	}
}

func (p *DefaultPrinter) Indent() {
	p.indentLevel++
	p.NewLine()
}

func (p *DefaultPrinter) Dedent() {
	p.indentLevel--
	p.NewLine()
}

func (p *DefaultPrinter) PrintBytes(b []byte) {
	p.Writer.Write(b)
}

// Colorizer assigns ANSI color codes to a record's scalar kinds and to
// object keys, mirroring github.com/arnodel/jsonstream/colorizer.go's
// role but keyed on value.Kind rather than a token.Scalar's ScalarType.
type Colorizer struct {
	KeyColorCode    []byte
	StringColorCode []byte
	NumberColorCode []byte
	BoolColorCode   []byte
	NullColorCode   []byte
	ResetCode       []byte
}

func (c *Colorizer) scalarColor(k value.Kind) []byte {
	switch k {
	case value.String:
		return c.StringColorCode
	case value.Number:
		return c.NumberColorCode
	case value.Bool:
		return c.BoolColorCode
	default:
		return c.NullColorCode
	}
}

// PrintValue renders v to p, recursively, applying c's colors when c is
// non-nil (nil means "no color").
func (c *Colorizer) PrintValue(p Printer, v value.Value) {
	switch v.Kind() {
	case value.Null:
		c.printScalar(p, value.Null, "null")
	case value.Bool:
		b, _ := v.AsBool()
		c.printScalar(p, value.Bool, strconv.FormatBool(b))
	case value.Number:
		n, _ := v.AsNumber()
		c.printScalar(p, value.Number, strconv.FormatFloat(n, 'g', -1, 64))
	case value.String:
		s, _ := v.AsString()
		c.printScalar(p, value.String, strconv.Quote(s))
	case value.Array:
		items, _ := v.AsArray()
		p.PrintBytes([]byte{'['})
		p.Indent()
		for i, item := range items {
			if i > 0 {
				p.PrintBytes([]byte{','})
				p.NewLine()
			}
			c.PrintValue(p, item)
		}
		p.Dedent()
		p.PrintBytes([]byte{']'})
	case value.Object:
		keys, _ := v.Keys()
		p.PrintBytes([]byte{'{'})
		p.Indent()
		for i, k := range keys {
			if i > 0 {
				p.PrintBytes([]byte{','})
				p.NewLine()
			}
			if c != nil {
				p.PrintBytes(c.KeyColorCode)
			}
			p.PrintBytes([]byte(strconv.Quote(k)))
			if c != nil {
				p.PrintBytes(c.ResetCode)
			}
			p.PrintBytes([]byte(": "))
			child, _ := v.Get(value.Path{{Kind: value.FieldStep, Field: k}})
			c.PrintValue(p, child)
		}
		p.Dedent()
		p.PrintBytes([]byte{'}'})
	}
}

func (c *Colorizer) printScalar(p Printer, kind value.Kind, text string) {
	if c != nil {
		p.PrintBytes(c.scalarColor(kind))
	}
	p.PrintBytes([]byte(text))
	if c != nil {
		p.PrintBytes(c.ResetCode)
	}
}

var (
	resetCode  = []byte("\033[0m")
	keyCode    = []byte("\033[34;1m")
	stringCode = []byte("\033[33m")
	numberCode = []byte("\033[37m")
	boolCode   = []byte("\033[32m")
	nullCode   = []byte("\033[32m")
)

var defaultColorizer = Colorizer{
	KeyColorCode:    keyCode,
	StringColorCode: stringCode,
	NumberColorCode: numberCode,
	BoolColorCode:   boolCode,
	NullColorCode:   nullCode,
	ResetCode:       resetCode,
}
