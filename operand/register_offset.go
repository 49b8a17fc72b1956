package operand

// RegisterOffsetScanner recognises `%reg + offset`, where offset is either
// a label reference or a bare numeric address. The packed field layout is
// [register bits][padding bits][offset bits] from high to low; any symbol
// relocation the offset half carries is rebased by padding_bits plus the
// register width so its recorded bit position is relative to the whole
// field, not just the offset sub-field.
type RegisterOffsetScanner struct {
	Group       RegisterSet
	PaddingBits int
	OffsetBits  int
	Relative    bool
	Section     string
}

func (s RegisterOffsetScanner) TypeName() string { return "register_offset" }

func (s RegisterOffsetScanner) Attempt(line string, offset int) (Parsed, bool) {
	reg := RegisterScanner{Group: s.Group}
	register, ok := reg.Attempt(line, offset)
	if !ok {
		return Parsed{}, false
	}
	pos := offset + register.LengthInChars

	m := rePlus.FindString(line[pos:])
	if m == "" {
		return Parsed{}, false
	}
	pos += len(m)

	label := LabelScanner{NBits: s.OffsetBits, Section: s.Section, Relative: s.Relative}
	addr, ok := label.Attempt(line, pos)
	if !ok {
		addrScanner := AddressScanner{NBits: s.OffsetBits}
		addr, ok = addrScanner.Attempt(line, pos)
		if !ok {
			return Parsed{}, false
		}
	}

	rebase := s.PaddingBits + register.NBits
	symbols := make([]RelocationRequest, len(addr.Symbols))
	for i, sym := range addr.Symbols {
		sym.Offset += rebase
		symbols[i] = sym
	}

	return Parsed{
		LengthInChars: (pos + addr.LengthInChars) - offset,
		NBits:         s.PaddingBits + s.OffsetBits + register.NBits,
		AsInt:         (register.AsInt << uint(s.PaddingBits+s.OffsetBits)) | addr.AsInt,
		TypeName:      s.TypeName(),
		Symbols:       symbols,
	}, true
}
