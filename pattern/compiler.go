// Package pattern compiles CloudLens pattern strings — plain substrings,
// or regular expressions carrying named, typed capture-group declarations
// — into a form a Stage can evaluate against a record repeatedly.
//
// The shape (compile once at registration time, hand the result to a
// runner many times) is grounded on
// github.com/arnodel/jsonstream/jsonpathtransformer/compiler.go, which
// compiles a jsonpath query into selector/segment runners ahead of
// execution rather than re-parsing per record.
package pattern

import (
	"fmt"
	"regexp"
	"strings"
)

// CaptureType is the type a named capture group is converted to when its
// group participates in a match.
type CaptureType uint8

const (
	CaptureString CaptureType = iota
	CaptureNumber
	CaptureDate
)

func (t CaptureType) String() string {
	switch t {
	case CaptureString:
		return "String"
	case CaptureNumber:
		return "Number"
	case CaptureDate:
		return "Date"
	default:
		return "invalid"
	}
}

func parseCaptureType(s string) (CaptureType, bool) {
	switch s {
	case "String":
		return CaptureString, true
	case "Number":
		return CaptureNumber, true
	case "Date":
		return CaptureDate, true
	default:
		return 0, false
	}
}

// CaptureDescriptor is a single named-group declaration extracted from a
// pattern, in source order.
type CaptureDescriptor struct {
	Name   string
	Type   CaptureType
	Format string
}

// Kind identifies which variant a Compiled pattern is.
type Kind uint8

const (
	// Empty disables pattern filtering: the stage fires on key presence
	// alone.
	Empty Kind = iota
	// Simple matches by substring containment.
	Simple
	// Regex matches with a compiled regular expression, possibly
	// carrying capture descriptors.
	Regex
)

// Compiled is the result of compiling a pattern string.
type Compiled struct {
	Kind     Kind
	Literal  string // set when Kind == Simple
	Regexp   *regexp.Regexp
	Captures []CaptureDescriptor
}

// InvalidPatternError reports that the regex engine rejected a pattern
// after declaration rewriting.
type InvalidPatternError struct {
	Pattern string
	Err     error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("pattern: invalid pattern %q: %v", e.Pattern, e.Err)
}

func (e *InvalidPatternError) Unwrap() error { return e.Err }

// UnnamedGroupsError reports that the rewritten regex has a different
// number of capturing groups than the number of declared captures —
// meaning the user pattern contains plain (unnamed) capturing groups,
// which are not allowed.
type UnnamedGroupsError struct {
	Pattern  string
	Declared int
	Found    int
}

func (e *UnnamedGroupsError) Error() string {
	return fmt.Sprintf("pattern: %q declares %d named capture(s) but the compiled regex has %d capturing group(s); anonymous capture groups are not allowed", e.Pattern, e.Declared, e.Found)
}

// InvalidDeclarationError reports a malformed named-group declaration:
// a bad identifier, unknown type, or a missing Date format.
type InvalidDeclarationError struct {
	Pattern string
	Reason  string
}

func (e *InvalidDeclarationError) Error() string {
	return fmt.Sprintf("pattern: invalid capture declaration in %q: %s", e.Pattern, e.Reason)
}

// metacharacters is the set of regex metacharacters that, if absent from a
// pattern, let it compile to Simple substring matching instead of a full
// regex.
const metacharacters = `*?+[](){}^$|\.` + "/"

func looksLikeRegex(pattern string) bool {
	return strings.ContainsAny(pattern, metacharacters)
}

// Compile compiles a user pattern string: empty patterns match anything,
// patterns without regex metacharacters become plain substring tests, and
// everything else compiles as a regex with optional named, typed capture
// declarations.
func Compile(pattern string) (Compiled, error) {
	if pattern == "" {
		return Compiled{Kind: Empty}, nil
	}
	if !looksLikeRegex(pattern) {
		return Compiled{Kind: Simple, Literal: pattern}, nil
	}

	rewritten, captures, err := rewriteDeclarations(pattern)
	if err != nil {
		return Compiled{}, err
	}

	re, err := regexp.Compile(rewritten)
	if err != nil {
		return Compiled{}, &InvalidPatternError{Pattern: pattern, Err: err}
	}
	if re.NumSubexp() != len(captures) {
		return Compiled{}, &UnnamedGroupsError{
			Pattern:  pattern,
			Declared: len(captures),
			Found:    re.NumSubexp(),
		}
	}

	return Compiled{Kind: Regex, Regexp: re, Captures: captures}, nil
}

// rewriteDeclarations scans pattern for `(?<NAME[:TYPE[[FORMAT]]]>BODY)`
// declarations, rewrites each to an anonymous group `(BODY)`, and returns
// the rewritten pattern plus the capture descriptors in source order.
func rewriteDeclarations(pattern string) (string, []CaptureDescriptor, error) {
	var out strings.Builder
	var captures []CaptureDescriptor
	i := 0
	n := len(pattern)

	for i < n {
		if pattern[i] == '\\' && i+1 < n {
			out.WriteByte(pattern[i])
			out.WriteByte(pattern[i+1])
			i += 2
			continue
		}
		if strings.HasPrefix(pattern[i:], "(?<") {
			cap, body, next, err := parseDeclaration(pattern, i)
			if err != nil {
				return "", nil, err
			}
			captures = append(captures, cap)
			out.WriteByte('(')
			out.WriteString(body)
			out.WriteByte(')')
			i = next
			continue
		}
		out.WriteByte(pattern[i])
		i++
	}

	return out.String(), captures, nil
}

var identRune = func(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
}

func isValidName(name string) bool {
	if name == "" {
		return false
	}
	first := name[0]
	if !(first >= 'A' && first <= 'Z' || first >= 'a' && first <= 'z') {
		return false
	}
	for i := 1; i < len(name); i++ {
		if !identRune(name[i]) {
			return false
		}
	}
	return true
}

// parseDeclaration parses one `(?<NAME[:TYPE[[FORMAT]]]>BODY)` declaration
// starting at pattern[start:], where pattern[start:start+3] == "(?<". It
// returns the capture descriptor, the rewritten body (without its
// enclosing parens), and the index just past the declaration's closing
// ')'.
func parseDeclaration(pattern string, start int) (CaptureDescriptor, string, int, error) {
	n := len(pattern)
	i := start + 3

	nameStart := i
	for i < n && pattern[i] != ':' && pattern[i] != '>' {
		i++
	}
	if i >= n {
		return CaptureDescriptor{}, "", 0, &InvalidDeclarationError{Pattern: pattern, Reason: "unterminated declaration header"}
	}
	name := pattern[nameStart:i]
	if !isValidName(name) {
		return CaptureDescriptor{}, "", 0, &InvalidDeclarationError{Pattern: pattern, Reason: fmt.Sprintf("invalid capture name %q", name)}
	}

	captureType := CaptureString
	format := ""

	if pattern[i] == ':' {
		i++
		typeStart := i
		for i < n && pattern[i] != '[' && pattern[i] != '>' {
			i++
		}
		if i >= n {
			return CaptureDescriptor{}, "", 0, &InvalidDeclarationError{Pattern: pattern, Reason: "unterminated type in declaration header"}
		}
		typeStr := pattern[typeStart:i]
		ct, ok := parseCaptureType(typeStr)
		if !ok {
			return CaptureDescriptor{}, "", 0, &InvalidDeclarationError{Pattern: pattern, Reason: fmt.Sprintf("unknown capture type %q", typeStr)}
		}
		captureType = ct

		if pattern[i] == '[' {
			i++
			formatStart := i
			for i < n && pattern[i] != ']' {
				i++
			}
			if i >= n {
				return CaptureDescriptor{}, "", 0, &InvalidDeclarationError{Pattern: pattern, Reason: "unterminated format specifier"}
			}
			format = pattern[formatStart:i]
			i++ // past ']'
		}
	}

	if captureType == CaptureDate && format == "" {
		return CaptureDescriptor{}, "", 0, &InvalidDeclarationError{Pattern: pattern, Reason: fmt.Sprintf("capture %q has type Date but no format", name)}
	}

	if i >= n || pattern[i] != '>' {
		return CaptureDescriptor{}, "", 0, &InvalidDeclarationError{Pattern: pattern, Reason: "missing '>' in declaration header"}
	}
	i++ // past '>'

	bodyStart := i
	depth := 0
	inClass := false
	for i < n {
		c := pattern[i]
		if c == '\\' && i+1 < n {
			i += 2
			continue
		}
		if inClass {
			if c == ']' {
				inClass = false
			}
			i++
			continue
		}
		switch c {
		case '[':
			inClass = true
		case '(':
			depth++
		case ')':
			if depth == 0 {
				body := pattern[bodyStart:i]
				return CaptureDescriptor{Name: name, Type: captureType, Format: format}, body, i + 1, nil
			}
			depth--
		}
		i++
	}

	return CaptureDescriptor{}, "", 0, &InvalidDeclarationError{Pattern: pattern, Reason: "unterminated capture body (missing ')')"}
}
