// Package operand implements the argument scanners (C1): given a raw
// operand string and an offset, each scanner either consumes a prefix of
// the string and returns a parsed value, or declines.
package operand

// RelocationRequest describes one symbol reference discovered while
// scanning an operand. It names the target symbol, which section it should
// resolve against, the bit offset within the eventual packed field where
// the resolved value should be patched in, and whether the reference is
// PC-relative.
type RelocationRequest struct {
	Symbol   string
	Section  string // "text" or "data"
	Offset   int    // bit offset within the field, rebased by callers that nest scanners (e.g. register_offset)
	Relative bool
}

// Parsed is the result of a successful scan: how many characters of the
// input were consumed, the field's bit width, its packed integer value, and
// any symbol relocations the field still needs resolved.
type Parsed struct {
	LengthInChars int
	NBits         int
	AsInt         uint64
	Symbols       []RelocationRequest
	TypeName      string
}

// Scanner is implemented by each of the fixed argument variants.
type Scanner interface {
	// Attempt tries to consume an operand starting at offset in line. It
	// returns ok=false (not an error) when the input simply doesn't match
	// this variant's shape, so the caller can try the next candidate.
	Attempt(line string, offset int) (Parsed, bool)
	TypeName() string
}
