// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package verb

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// EndOfQueue is returned by Reader.Next once every transaction in the
// queue has been consumed.
var EndOfQueue = errors.New("end of queue")

// An UnderrunError reports a queue holding fewer transactions than the
// reader was armed to expect. It is fatal to the session: a short
// queue is never silently padded.
//
type UnderrunError struct {
	Want int
	Got  int
}

func (e *UnderrunError) Error() string {
	return fmt.Sprintf("queue underrun: expected %d transactions, got %d", e.Want, e.Got)
}

// A Writer appends transactions to a queue file. The writer side owns
// the file exclusively for the session's duration; there is no seek
// and no rewrite of already written records.
//
// Callers must make sure to call Close on every exit path, including
// generation-time failure, so that the underlying file is flushed and
// released.
//
type Writer struct {
	f      *os.File
	w      *bufio.Writer
	schema Schema
	radix  Radix
	n      int
	closed bool
}

// OpenWriter creates (or truncates) the queue file at path for
// appending transactions conforming to schema.
//
func OpenWriter(path string, schema Schema, radix Radix) (*Writer, error) {
	if err := schema.Validate(); err != nil {
		return nil, errors.Wrap(err, "open writer")
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(err, "open writer")
	}
	return &Writer{f: f, w: bufio.NewWriter(f), schema: schema, radix: radix}, nil
}

// Append validates the transaction against the writer's schema and
// appends it to the queue.
//
func (w *Writer) Append(values ...Vector) error {
	if w.closed {
		return errors.New("append on closed writer")
	}
	line, err := Encode(w.schema, values, w.radix)
	if err != nil {
		return errors.Wrapf(err, "transaction %d", w.n)
	}
	if _, err = w.w.WriteString(line); err != nil {
		return errors.Wrapf(err, "transaction %d", w.n)
	}
	if err = w.w.WriteByte('\n'); err != nil {
		return errors.Wrapf(err, "transaction %d", w.n)
	}
	w.n++
	return nil
}

// Count returns the number of transactions appended so far.
//
func (w *Writer) Count() int { return w.n }

// Schema returns the writer's channel schema.
//
func (w *Writer) Schema() Schema { return w.schema }

// Flush writes buffered transactions through to the file.
//
func (w *Writer) Flush() error {
	if w.closed {
		return nil
	}
	return errors.Wrap(w.w.Flush(), "flush queue")
}

// Close flushes and releases the queue file. Close is idempotent.
//
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	ferr := w.w.Flush()
	cerr := w.f.Close()
	if ferr != nil {
		return errors.Wrap(ferr, "close queue")
	}
	return errors.Wrap(cerr, "close queue")
}

// A Reader consumes a queue file strictly front to back, one
// transaction per call to Next. The reader side owns the file
// exclusively; the producer must have finished writing before the
// reader opens it.
//
type Reader struct {
	f      *os.File
	r      *bufio.Reader
	schema Schema
	radix  Radix
	n      int
	expect int
	closed bool
}

// OpenReader opens the queue file at path for consumption of
// transactions conforming to schema.
//
func OpenReader(path string, schema Schema, radix Radix) (*Reader, error) {
	if err := schema.Validate(); err != nil {
		return nil, errors.Wrap(err, "open reader")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open reader")
	}
	return &Reader{f: f, r: bufio.NewReader(f), schema: schema, radix: radix}, nil
}

// Expect arms the reader with the session's planned transaction count.
// Reaching end of file before n transactions then yields an
// *UnderrunError instead of a clean EndOfQueue.
//
func (r *Reader) Expect(n int) { r.expect = n }

// Next returns the next transaction in the queue. It returns
// EndOfQueue at a clean end of file, an *UnderrunError when the queue
// ends short of the expected count, and a *DecodeError for a malformed
// or truncated record.
//
func (r *Reader) Next() ([]Vector, error) {
	if r.closed {
		return nil, errors.New("read on closed reader")
	}
	line, err := r.r.ReadString('\n')
	if err == io.EOF {
		if line != "" {
			// data without a line terminator is a partial record
			return nil, &DecodeError{Reason: ReasonTruncated, Line: r.n + 1}
		}
		if r.expect > 0 && r.n < r.expect {
			return nil, &UnderrunError{Want: r.expect, Got: r.n}
		}
		return nil, EndOfQueue
	}
	if err != nil {
		return nil, errors.Wrapf(err, "transaction %d", r.n)
	}
	r.n++
	vals, err := Decode(strings.TrimSuffix(line, "\n"), r.schema, r.radix, r.n)
	if err != nil {
		return nil, err
	}
	return vals, nil
}

// Count returns the number of transactions consumed so far.
//
func (r *Reader) Count() int { return r.n }

// Schema returns the reader's channel schema.
//
func (r *Reader) Schema() Schema { return r.schema }

// Close releases the queue file. Close is idempotent.
//
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return errors.Wrap(r.f.Close(), "close queue")
}
