// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package verb

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// MaxWidth is the widest supported field, in bits.
const MaxWidth = 64

// A Field describes one named signal slot in a transaction: its name
// and its fixed width in bits.
//
type Field struct {
	Name  string
	Width int
}

// A Schema is the ordered list of fields making up one channel's
// transactions. The order is the wire order: tokens appear in a trace
// line in schema order. Both the producer and the consumer of a queue
// must agree on the schema before the queue is opened.
//
type Schema []Field

// Validate checks that the schema is usable: non-empty, distinct field
// names, and every width within 1..MaxWidth.
//
func (s Schema) Validate() error {
	if len(s) == 0 {
		return errors.New("empty schema")
	}
	seen := make(map[string]bool, len(s))
	for _, f := range s {
		if f.Name == "" {
			return errors.New("schema field with empty name")
		}
		if f.Width < 1 || f.Width > MaxWidth {
			return errors.Errorf("field %q: width %d out of range 1..%d", f.Name, f.Width, MaxWidth)
		}
		if seen[f.Name] {
			return errors.Errorf("duplicate field name %q", f.Name)
		}
		seen[f.Name] = true
	}
	return nil
}

// Width returns the total bit width of one transaction.
//
func (s Schema) Width() int {
	w := 0
	for _, f := range s {
		w += f.Width
	}
	return w
}

// Index returns the position of the named field, or -1.
//
func (s Schema) Index(name string) int {
	for i, f := range s {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// String formats the schema in the same syntax accepted by
// ParseSchema.
//
func (s Schema) String() string {
	var b strings.Builder
	for i, f := range s {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Name)
		if f.Width > 1 {
			b.WriteRune('[')
			b.WriteString(strconv.Itoa(f.Width))
			b.WriteRune(']')
		}
	}
	return b.String()
}
