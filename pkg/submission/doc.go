// Package submission turns a filled-in contact form into a delivered record.
//
// A Form is validated and normalized into a Record synchronously, before any
// network work. The Pipeline then offers the record to an ordered list of
// transports (direct POST, hidden-frame GET, mail client handoff) and stops at
// the first one that succeeds. Every transport is tried at most once and never
// in parallel with another.
package submission
