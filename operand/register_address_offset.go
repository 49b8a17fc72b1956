package operand

// RegisterAddressOffsetScanner recognises `[%reg + offset]`:
// RegisterOffsetScanner wrapped in brackets.
type RegisterAddressOffsetScanner struct {
	Group       RegisterSet
	PaddingBits int
	OffsetBits  int
	Relative    bool
	Section     string
}

func (s RegisterAddressOffsetScanner) TypeName() string { return "register_address_offset" }

func (s RegisterAddressOffsetScanner) Attempt(line string, offset int) (Parsed, bool) {
	if offset >= len(line) || line[offset] != '[' {
		return Parsed{}, false
	}
	inner := RegisterOffsetScanner{
		Group:       s.Group,
		PaddingBits: s.PaddingBits,
		OffsetBits:  s.OffsetBits,
		Relative:    s.Relative,
		Section:     s.Section,
	}
	parsed, ok := inner.Attempt(line, offset+1)
	if !ok {
		return Parsed{}, false
	}
	closeAt := offset + 1 + parsed.LengthInChars
	if closeAt >= len(line) || line[closeAt] != ']' {
		return Parsed{}, false
	}
	parsed.LengthInChars += 2
	parsed.TypeName = s.TypeName()
	return parsed, true
}
