package source

import (
	"bufio"
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"github.com/cloudlens/cloudlens/value"
)

// OpenError reports that a file-backed source could not be opened or
// parsed.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("source: cannot open %q: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// textFileSource streams a line-oriented text file, one record per line,
// each wrapped as {"message": line} with trailing CR/LF trimmed. The file
// is opened eagerly at construction time so a bad path is reported
// fail-fast, but lines are read lazily one per Next() call, and the
// handle is closed automatically on EOF or by an explicit Close.
type textFileSource struct {
	file    *os.File
	scanner *bufio.Scanner
	done    bool
}

// FromTextFile opens path and returns a Source yielding one record per
// line.
func FromTextFile(path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	return &textFileSource{file: f, scanner: bufio.NewScanner(f)}, nil
}

func (s *textFileSource) Next() (value.Value, bool) {
	if s.done {
		return value.Value{}, false
	}
	if !s.scanner.Scan() {
		s.close()
		return value.Value{}, false
	}
	rec := value.NewObject()
	rec.Set(value.MustParsePath("message"), value.NewString(s.scanner.Text()))
	return rec, true
}

// Close releases the file handle early, before exhaustion.
func (s *textFileSource) Close() error {
	return s.close()
}

func (s *textFileSource) close() error {
	if s.done {
		return nil
	}
	s.done = true
	return s.file.Close()
}

// jsonFileSource streams the contents of a JSON file: if the root value
// is an array, its elements are streamed one at a time; otherwise the
// whole document is a single-element sequence. It also tolerates a
// JSON-Lines-style file of concatenated top-level documents,
// since a root object followed by further top-level values is simply
// read as additional single-element "documents" by the same decoder loop.
type jsonFileSource struct {
	file    *os.File
	dec     *json.Decoder
	pending []value.Value
	pos     int
	done    bool
}

// FromJSONFile opens path and decodes it as described above.
func FromJSONFile(path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	dec := json.NewDecoder(f)
	dec.UseNumber()
	return &jsonFileSource{file: f, dec: dec}, nil
}

func (s *jsonFileSource) Next() (value.Value, bool) {
	for {
		if s.pos < len(s.pending) {
			v := s.pending[s.pos]
			s.pos++
			return v, true
		}
		if s.done {
			return value.Value{}, false
		}

		v, err := DecodeJSONValue(s.dec)
		if err != nil {
			s.close()
			return value.Value{}, false
		}

		if arr, ok := v.AsArray(); ok {
			s.pending = arr
		} else {
			s.pending = []value.Value{v}
		}
		s.pos = 0
	}
}

// Close releases the file handle early.
func (s *jsonFileSource) Close() error {
	return s.close()
}

func (s *jsonFileSource) close() error {
	if s.done {
		return nil
	}
	s.done = true
	return s.file.Close()
}

// DecodeJSONValue reads one JSON value from dec via its token stream
// rather than decoding into a generic interface{} target: Decode into
// map[string]interface{} loses field order (Go map iteration is
// unspecified), which would make value.Value's whole order-preserving
// object design pointless for JSON-sourced records. Reading the decoder's
// own token stream — Delim('{'), string keys, nested values, Delim('}')
// — and building the object field by field in the order the tokens
// arrive keeps that order intact, the way jsondecoder.go in
// github.com/arnodel/jsonstream streams field/value pairs without ever
// materializing an intermediate Go map. dec must have UseNumber set so
// numeric tokens arrive as json.Number rather than a lossy float64.
func DecodeJSONValue(dec *json.Decoder) (value.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return value.Value{}, err
	}
	return decodeJSONToken(dec, tok)
}

func decodeJSONToken(dec *json.Decoder, tok json.Token) (value.Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeJSONObject(dec)
		case '[':
			return decodeJSONArray(dec)
		default:
			return value.Value{}, fmt.Errorf("source: unexpected delimiter %q", t)
		}
	case nil:
		return value.NewNull(), nil
	case bool:
		return value.NewBool(t), nil
	case json.Number:
		f, err := bigFloatValue(t)
		if err != nil {
			return value.Value{}, fmt.Errorf("source: invalid JSON number %q: %w", t, err)
		}
		return value.NewNumber(f), nil
	case string:
		return value.NewString(t), nil
	default:
		return value.Value{}, fmt.Errorf("source: unrecognized JSON token %v", tok)
	}
}

func decodeJSONObject(dec *json.Decoder) (value.Value, error) {
	obj := value.NewObject()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return value.Value{}, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return value.Value{}, fmt.Errorf("source: expected object key, got %v", keyTok)
		}
		val, err := DecodeJSONValue(dec)
		if err != nil {
			return value.Value{}, err
		}
		obj.Set(value.Path{{Kind: value.FieldStep, Field: key}}, val)
	}
	if _, err := dec.Token(); err != nil { // consume closing '}'
		return value.Value{}, err
	}
	return obj, nil
}

func decodeJSONArray(dec *json.Decoder) (value.Value, error) {
	var items []value.Value
	for dec.More() {
		val, err := DecodeJSONValue(dec)
		if err != nil {
			return value.Value{}, err
		}
		items = append(items, val)
	}
	if _, err := dec.Token(); err != nil { // consume closing ']'
		return value.Value{}, err
	}
	return value.NewArray(items...), nil
}

// bigFloatValue converts a json.Number to float64 by parsing its literal
// text as a big.Float with a 64-bit mantissa and rounding that to the
// nearest float64. The result has float64 precision, so integers beyond
// 2^53 are not represented exactly.
func bigFloatValue(n json.Number) (float64, error) {
	bf, _, err := big.ParseFloat(string(n), 10, 64, big.ToNearestEven)
	if err != nil {
		return 0, err
	}
	f, _ := bf.Float64()
	return f, nil
}
