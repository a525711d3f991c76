package pattern

import (
	"strconv"
	"strings"
	"time"

	"github.com/cloudlens/cloudlens/value"
)

// Evaluate matches subject against c and, for a Regex pattern with
// declared captures, applies them to rec. Matching is first-match-only:
// declared captures bind positionally to regex groups 1..n, a
// non-participating group removes its field, and a participating group
// converts by type and is written only on successful conversion — a
// failed conversion leaves any prior value at that field untouched.
func Evaluate(c Compiled, subject string, rec *value.Value) bool {
	switch c.Kind {
	case Empty:
		return true
	case Simple:
		return strings.Contains(subject, c.Literal)
	case Regex:
		loc := c.Regexp.FindStringSubmatchIndex(subject)
		if loc == nil {
			return false
		}
		applyCaptures(c.Captures, subject, loc, rec)
		return true
	default:
		return false
	}
}

// applyCaptures binds each declared capture in order to the corresponding
// regex group using the index pairs in loc (as returned by
// FindStringSubmatchIndex: loc[0],loc[1] is the whole match, loc[2i],
// loc[2i+1] is capture group i).
func applyCaptures(captures []CaptureDescriptor, subject string, loc []int, rec *value.Value) {
	for i, cap := range captures {
		start, end := loc[2*(i+1)], loc[2*(i+1)+1]
		field := value.Path{{Kind: value.FieldStep, Field: cap.Name}}

		if start < 0 {
			rec.Remove(field)
			continue
		}

		text := subject[start:end]
		switch cap.Type {
		case CaptureString:
			rec.Set(field, value.NewString(text))
		case CaptureNumber:
			if n, err := strconv.ParseFloat(text, 64); err == nil {
				rec.Set(field, value.NewNumber(n))
			}
			// parse failure: leave any prior value untouched.
		case CaptureDate:
			if secs, err := parseDate(text, cap.Format); err == nil {
				rec.Set(field, value.NewNumber(secs))
			}
			// parse failure: leave any prior value untouched.
		}
	}
}

// parseDate parses text using a Java/Logstash-style format string (e.g.
// yyyy-MM-dd' 'HH:mm:ss.SSS) and returns the parsed time as seconds since
// the Unix epoch.
func parseDate(text, format string) (float64, error) {
	t, err := time.Parse(translateDateFormat(format), text)
	if err != nil {
		return 0, err
	}
	return float64(t.Unix()) + float64(t.Nanosecond())/1e9, nil
}

// translateDateFormat converts a Java SimpleDateFormat-style layout (the
// convention Date captures use) into a Go reference-time layout. No
// library in the retrieved corpus performs this translation, so it is
// hand-rolled directly against stdlib time.Parse; see DESIGN.md.
func translateDateFormat(format string) string {
	var out strings.Builder
	n := len(format)
	i := 0
	for i < n {
		c := format[i]
		switch {
		case c == '\'':
			i++
			for i < n {
				if format[i] == '\'' {
					if i+1 < n && format[i+1] == '\'' {
						out.WriteByte('\'')
						i += 2
						continue
					}
					i++
					break
				}
				out.WriteByte(format[i])
				i++
			}
		case isDateLetter(c):
			j := i
			for j < n && format[j] == c {
				j++
			}
			out.WriteString(goLayoutToken(c, j-i))
			i = j
		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String()
}

func isDateLetter(c byte) bool {
	switch c {
	case 'y', 'M', 'd', 'H', 'm', 's', 'S':
		return true
	default:
		return false
	}
}

func goLayoutToken(letter byte, count int) string {
	switch letter {
	case 'y':
		if count >= 4 {
			return "2006"
		}
		return "06"
	case 'M':
		if count >= 2 {
			return "01"
		}
		return "1"
	case 'd':
		if count >= 2 {
			return "02"
		}
		return "2"
	case 'H':
		return "15"
	case 'm':
		if count >= 2 {
			return "04"
		}
		return "4"
	case 's':
		if count >= 2 {
			return "05"
		}
		return "5"
	case 'S':
		return strings.Repeat("0", count)
	default:
		return strings.Repeat(string(letter), count)
	}
}
