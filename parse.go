// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package verb

import (
	"unicode"

	"github.com/pkg/errors"
)

// ParseSchema parses a channel schema description and returns the
// corresponding Schema. The description is a comma separated list of
// field names, each with an optional width in brackets (1 bit when
// omitted). For example:
//
//	ParseSchema("cin, in0[4]") // Schema{{"cin", 1}, {"in0", 4}}
//
func ParseSchema(spec string) (Schema, error) {
	var s Schema

	rs := []rune(spec)
	p := 0

	skipSpace := func() {
		for p < len(rs) && unicode.IsSpace(rs[p]) {
			p++
		}
	}

	skipSpace()
	if p == len(rs) {
		return nil, parseError(spec, p, "empty schema")
	}
	for {
		skipSpace()
		if p == len(rs) || !(unicode.IsLetter(rs[p]) || rs[p] == '_') {
			return nil, parseError(spec, p, "expected field name")
		}
		start := p
		for p < len(rs) && (unicode.IsLetter(rs[p]) || unicode.IsDigit(rs[p]) || rs[p] == '_') {
			p++
		}
		f := Field{Name: string(rs[start:p]), Width: 1}
		skipSpace()
		if p < len(rs) && rs[p] == '[' {
			p++
			skipSpace()
			if p == len(rs) || !unicode.IsDigit(rs[p]) {
				return nil, parseError(spec, p, "missing field width")
			}
			w := 0
			for p < len(rs) && unicode.IsDigit(rs[p]) {
				w = w*10 + int(rs[p]-'0')
				p++
			}
			skipSpace()
			if p == len(rs) || rs[p] != ']' {
				return nil, parseError(spec, p, "missing close bracket")
			}
			p++
			f.Width = w
			skipSpace()
		}
		s = append(s, f)
		if p == len(rs) {
			break
		}
		if rs[p] != ',' {
			return nil, parseError(spec, p, "expected comma or end of input")
		}
		p++
	}

	if err := s.Validate(); err != nil {
		return nil, errors.Wrapf(err, "in %q", spec)
	}
	return s, nil
}

func parseError(in string, pos int, msg string) error {
	return errors.Errorf("in %q at pos %d: %s", in, pos+1, msg)
}
