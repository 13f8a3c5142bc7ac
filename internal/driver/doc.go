// Package driver runs one repair pass against files on disk.
//
// It resolves the input and output encodings, guards the output with a lock
// file so two runs cannot write it at once, and wires the decoded input and the
// encoding output writer into tsvmend.Repair. Every stream it opens is closed
// on every exit path; a close failure after a successful pass is reported as
// the failure of the run.
package driver
