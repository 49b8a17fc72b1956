package operand

// PaddingScanner never fails: it consumes zero characters and always
// yields an all-zero field of its declared width.
type PaddingScanner struct {
	NBits int
}

func (s PaddingScanner) TypeName() string { return "padding" }

func (s PaddingScanner) Attempt(line string, offset int) (Parsed, bool) {
	return Parsed{LengthInChars: 0, NBits: s.NBits, AsInt: 0, TypeName: s.TypeName()}, true
}
