// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

/*
Package verb coordinates functional verification of a hardware design
by splitting the work between a software functional model and a
timing-aware HDL testbench that talk to each other only through trace
files.

The model side uses this package to serialize stimulus and expected
responses into append-only transaction queues, driven by a coverage
engine (see the coverage sub-package) that steers generation toward
unexercised scenarios. The testbench side consumes the stimulus file in
order, drives the design, and records every comparison, timeout and
stability check in an append-only event log. The verdict analyzer
reduces that log to a pass/fail judgment with a structured failure
list.

No simulator lives here. The HDL glue code, clock generation and the
design itself are external collaborators bound only by the file formats
and the coverage contract defined by this package.
*/
package verb
