// # tsvmend: Repair TSV Files With Unescaped Embedded Newlines
//
// tsvmend rebuilds fixed-width tab-separated records whose fields were written
// with raw line breaks. Physical lines are joined until a record reaches its
// expected column count, and every absorbed line break is replaced by a literal
// escape marker so the repaired field stays on one line.
//
// # Features
//
// - Streaming physical line reader that accepts LF, CR, and CRLF terminators.
// - Record reassembly with a configurable column count, delimiter, and escape marker.
// - Two split modes: `SplitPreserve` keeps every empty field, `SplitTrimTrailing` uses the legacy split rule that drops trailing empty fields.
// - Buffered writer that terminates every field with the delimiter, with an optional CRLF line ending.
// - Structured error reporting via `LineError` and `ErrFieldOverflow`.
// - `Repair` wires the three stages into a single pass and reports `Stats`.
//
// # Getting Started
//
// The command in `cmd/tsvmend` converts `data.tsv` (UTF-16LE) into `dataOut.tsv` (UTF-8)
// in the working directory. Library callers decode their input first and hand `Repair`
// UTF-8 text.
package tsvmend
