// Command cloudlens is a small line-processing CLI demonstrating the
// cloudlens pipeline library: register pattern-matching and
// end-of-stream stages on the command line, run the pipeline once, and
// print each record a -match stage accepts.
//
// Structure (flag parsing, SIGPIPE handling, panic-recover with a stack
// trace, colorable stdout, fatalError) mirrors
// github.com/arnodel/jsonstream/cmd/jp/main.go; this is a demo binary,
// not the library's contract.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/cloudlens/cloudlens"
	"github.com/cloudlens/cloudlens/source"
	"github.com/cloudlens/cloudlens/value"
)

type stringList []string

func (l *stringList) String() string     { return fmt.Sprint([]string(*l)) }
func (l *stringList) Set(s string) error { *l = append(*l, s); return nil }

func main() {
	// Ignore SIGPIPE so a closed stdout does not kill the process; write
	// errors on stdout are not checked.
	signal.Ignore(syscall.SIGPIPE)

	defer func() {
		if e := recover(); e != nil {
			fmt.Fprintf(os.Stderr, "%s: %s", e, debug.Stack())
			os.Exit(1)
		}
	}()

	var matchPatterns stringList
	var atEndMessages stringList
	var inputFormat string
	var colorMode string
	var withHistory bool
	var traceOn bool

	flag.Usage = printUsage
	flag.Var(&matchPatterns, "match", "register a pattern stage, format 'PATTERN' or 'PATTERN=>key' (repeatable)")
	flag.Var(&atEndMessages, "at-end", "register a deferred stage printing TEXT after exhaustion (repeatable)")
	flag.StringVar(&inputFormat, "in", "text", "input format: text (newline-delimited) or json")
	flag.StringVar(&colorMode, "color", "auto", "colorize output: auto, always, never")
	flag.BoolVar(&withHistory, "history", false, "run(with_history=true): buffer and replay the drained stream")
	flag.BoolVar(&traceOn, "trace", false, "enable stage-firing diagnostics (requires a -tags debug build)")
	flag.Parse()

	var colorizer *Colorizer
	switch colorMode {
	case "always":
		colorizer = &defaultColorizer
	case "never":
		colorizer = nil
	case "auto":
		if isatty.IsTerminal(os.Stdout.Fd()) {
			colorizer = &defaultColorizer
		}
	default:
		fatalError("invalid -color value: %q (use auto, always, or never)", colorMode)
	}

	var stdout io.Writer = os.Stdout
	if colorizer != nil {
		stdout = colorable.NewColorableStdout()
	}
	out := bufio.NewWriter(stdout)
	defer out.Flush()
	printer := &DefaultPrinter{Writer: out, IndentSize: -1}

	stream := buildStream(inputFormat)
	stream.Trace(traceOn)

	for _, spec := range matchPatterns {
		pat, key := splitMatchSpec(spec)
		if _, err := stream.ProcessMatch(pat, key, func(rec *value.Value) {
			colorizer.PrintValue(printer, *rec)
			printer.NewLine()
			fmt.Fprintln(out)
		}); err != nil {
			fatalError("error: %s", err)
		}
	}

	for _, msg := range atEndMessages {
		msg := msg
		stream.ProcessAtEnd(func(rec *value.Value) {
			fmt.Fprintln(out, msg)
		})
	}

	stream.Run(withHistory)
}

// splitMatchSpec parses a -match argument of the form "PATTERN" or
// "PATTERN=>key" into a pattern and a key, defaulting to "message" when
// no key is given.
func splitMatchSpec(spec string) (pattern, key string) {
	if idx := indexOfArrow(spec); idx >= 0 {
		return spec[:idx], spec[idx+2:]
	}
	return spec, "message"
}

func indexOfArrow(s string) int {
	for i := 0; i+1 < len(s); i++ {
		if s[i] == '=' && s[i+1] == '>' {
			return i
		}
	}
	return -1
}

func buildStream(inputFormat string) *cloudlens.Stream {
	switch inputFormat {
	case "text":
		scanner := bufio.NewScanner(os.Stdin)
		return cloudlens.FromFunc(func() (value.Value, bool) {
			if !scanner.Scan() {
				return value.Value{}, false
			}
			rec := value.NewObject()
			rec.Set(value.MustParsePath("message"), value.NewString(scanner.Text()))
			return rec, true
		})
	case "json":
		dec := json.NewDecoder(os.Stdin)
		dec.UseNumber()
		var pending []value.Value
		var pos int
		return cloudlens.FromFunc(func() (value.Value, bool) {
			for {
				if pos < len(pending) {
					v := pending[pos]
					pos++
					return v, true
				}
				v, err := source.DecodeJSONValue(dec)
				if err != nil {
					return value.Value{}, false
				}
				if items, ok := v.AsArray(); ok {
					pending = items
				} else {
					pending = []value.Value{v}
				}
				pos = 0
			}
		})
	default:
		fatalError("invalid -in value: %q (use text or json)", inputFormat)
		return nil
	}
}

func fatalError(msg string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, msg+"\n", args...)
	os.Exit(1)
}

func printUsage() {
	fmt.Fprint(os.Stderr, `cloudlens - log pipeline processor

USAGE:
  cloudlens [options] < input

DESCRIPTION:
  cloudlens reads newline-delimited text (or JSON) from stdin, registers
  a sequence of pattern-matching and end-of-stream stages, runs the
  pipeline once, and prints each record a -match stage accepts.

OPTIONS:
`)
	flag.PrintDefaults()
	fmt.Fprint(os.Stderr, `
EXAMPLES:
  # Tag and print lines starting with "error NNN"
  cloudlens -match '^error (?<n:Number>\d+)' < app.log

  # Print lines starting with "error", then "done" after the last line
  cloudlens -match '^error' -at-end 'done' < app.log
`)
}
