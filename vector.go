// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package verb

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// A Vector is a fixed-width unsigned bit-vector. The width is static
// and known to both producer and consumer of a channel; serialized
// vectors always occupy exactly the declared width.
//
type Vector struct {
	Width int
	Bits  uint64
}

// NewVector returns a Vector of the given width holding value.
// The value must fit in width bits.
//
func NewVector(width int, value uint64) (Vector, error) {
	if width < 1 || width > MaxWidth {
		return Vector{}, errors.Errorf("width %d out of range 1..%d", width, MaxWidth)
	}
	if value > MaxValue(width) {
		return Vector{}, errors.Errorf("value %d does not fit in %d bits", value, width)
	}
	return Vector{Width: width, Bits: value}, nil
}

// MaxValue returns the largest value representable in width bits.
//
func MaxValue(width int) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return 1<<uint(width) - 1
}

// Bin returns the binary digit string of v, zero padded to exactly
// Width characters.
//
func (v Vector) Bin() string {
	s := strconv.FormatUint(v.Bits, 2)
	if len(s) < v.Width {
		s = strings.Repeat("0", v.Width-len(s)) + s
	}
	return s
}

// Hex returns the hexadecimal digit string of v, zero padded to
// ceil(Width/4) characters.
//
func (v Vector) Hex() string {
	n := (v.Width + 3) / 4
	s := strconv.FormatUint(v.Bits, 16)
	if len(s) < n {
		s = strings.Repeat("0", n-len(s)) + s
	}
	return s
}

// ParseBin parses a binary token into a Vector of the given width.
// The token must be exactly width characters of '0' and '1'.
//
func ParseBin(tok string, width int) (Vector, error) {
	if width < 1 || width > MaxWidth {
		return Vector{}, errors.Errorf("width %d out of range 1..%d", width, MaxWidth)
	}
	if len(tok) != width {
		return Vector{}, errors.Errorf("token %q: got %d digits, want %d", tok, len(tok), width)
	}
	var bits uint64
	for _, r := range tok {
		if r != '0' && r != '1' {
			return Vector{}, errors.Errorf("token %q: invalid binary digit %q", tok, r)
		}
		bits = bits<<1 | uint64(r-'0')
	}
	return Vector{Width: width, Bits: bits}, nil
}

// ParseHex parses a hexadecimal token into a Vector of the given
// width. The token must be exactly ceil(width/4) characters and its
// value must fit in width bits.
//
func ParseHex(tok string, width int) (Vector, error) {
	if width < 1 || width > MaxWidth {
		return Vector{}, errors.Errorf("width %d out of range 1..%d", width, MaxWidth)
	}
	if n := (width + 3) / 4; len(tok) != n {
		return Vector{}, errors.Errorf("token %q: got %d digits, want %d", tok, len(tok), n)
	}
	bits, err := strconv.ParseUint(tok, 16, 64)
	if err != nil {
		return Vector{}, errors.Errorf("token %q: invalid hexadecimal digits", tok)
	}
	if bits > MaxValue(width) {
		return Vector{}, errors.Errorf("token %q: value does not fit in %d bits", tok, width)
	}
	return Vector{Width: width, Bits: bits}, nil
}
