// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package verb

import (
	"fmt"
	"strings"
)

// Radix selects the digit encoding used for vector tokens in a trace
// file.
//
type Radix int

// Supported encodings.
const (
	Bin Radix = iota // binary digit strings, one character per bit
	Hex              // hexadecimal digit strings, one character per nibble
)

// Decode failure reasons.
const (
	ReasonArity     = "wrong field count"
	ReasonMalformed = "malformed token"
	ReasonWidth     = "width mismatch"
	ReasonTruncated = "truncated"
)

// A DecodeError describes a transaction that violates its schema. It
// is fatal to the single transaction involved and carries the
// offending field name when known, plus the 1-based line number on the
// decode side.
//
type DecodeError struct {
	Reason string
	Field  string
	Line   int
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	if e.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", e.Line)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, "field %q: ", e.Field)
	}
	b.WriteString(e.Reason)
	return b.String()
}

// Encode serializes one transaction into a trace line: one token per
// field in schema order, tokens separated by a single space, no line
// terminator. The values must match the schema's arity and widths; a
// violation fails with a *DecodeError, mirroring the decode side.
//
func Encode(s Schema, values []Vector, r Radix) (string, error) {
	if len(values) != len(s) {
		return "", &DecodeError{Reason: ReasonArity}
	}
	var b strings.Builder
	for i, f := range s {
		if values[i].Width != f.Width || values[i].Bits > MaxValue(f.Width) {
			return "", &DecodeError{Reason: ReasonWidth, Field: f.Name}
		}
		if i > 0 {
			b.WriteRune(' ')
		}
		switch r {
		case Hex:
			b.WriteString(values[i].Hex())
		default:
			b.WriteString(values[i].Bin())
		}
	}
	return b.String(), nil
}

// Decode parses one trace line against the schema. It is strict: the
// line must contain exactly one valid token of the expected radix and
// width per schema field. Any deviation fails with a *DecodeError
// carrying lineNo; nothing is rounded, truncated or inferred.
//
func Decode(line string, s Schema, r Radix, lineNo int) ([]Vector, error) {
	toks := strings.Split(line, " ")
	if len(toks) != len(s) {
		return nil, &DecodeError{Reason: ReasonArity, Line: lineNo}
	}
	vals := make([]Vector, len(s))
	for i, f := range s {
		var (
			v   Vector
			err error
		)
		switch r {
		case Hex:
			v, err = ParseHex(toks[i], f.Width)
		default:
			v, err = ParseBin(toks[i], f.Width)
		}
		if err != nil {
			// a token of valid digits failing to parse can only be a
			// width problem (wrong length or value overflow)
			reason := ReasonWidth
			if !validDigits(toks[i], r) {
				reason = ReasonMalformed
			}
			return nil, &DecodeError{Reason: reason, Field: f.Name, Line: lineNo}
		}
		vals[i] = v
	}
	return vals, nil
}

func validDigits(tok string, r Radix) bool {
	if tok == "" {
		return false
	}
	for _, c := range tok {
		switch r {
		case Hex:
			if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
				return false
			}
		default:
			if c != '0' && c != '1' {
				return false
			}
		}
	}
	return true
}
