package operand

import "regexp"

var reIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*`)
var reWhitespace = regexp.MustCompile(`^\s+`)
var rePlus = regexp.MustCompile(`^\s*\+\s*`)

// LabelScanner recognises a symbol reference: an identifier, optionally
// preceded by an ABSOLUTE/OFFSET override keyword and optionally followed
// by a `+ N` addend. Relative on the returned RelocationRequest reflects
// whichever of the declared default and the override applies; any addend
// is folded into AsInt immediately, so the field packs with the addend as
// its initial value and the linker's patch lands on that baseline.
type LabelScanner struct {
	NBits    int
	Section  string // "text" or "data": which section this symbol resolves against
	Relative bool   // default relocation kind absent an override keyword
}

func (s LabelScanner) TypeName() string { return "label" }

func (s LabelScanner) Attempt(line string, offset int) (Parsed, bool) {
	pos := offset
	relative := s.Relative

	rest := line[pos:]
	switch {
	case hasPrefixWord(rest, "ABSOLUTE"):
		relative = false
		pos += len("ABSOLUTE")
		pos += len(reWhitespace.FindString(line[pos:]))
	case hasPrefixWord(rest, "OFFSET"):
		relative = true
		pos += len("OFFSET")
		pos += len(reWhitespace.FindString(line[pos:]))
	}

	name := reIdentifier.FindString(line[pos:])
	if name == "" {
		return Parsed{}, false
	}
	pos += len(name)

	var addend uint64
	if m := rePlus.FindString(line[pos:]); m != "" {
		afterPlus := pos + len(m)
		length, value, ok := scanNumericLiteral(line, afterPlus)
		if ok {
			addend = value
			pos = afterPlus + length
		}
	}

	return Parsed{
		LengthInChars: pos - offset,
		NBits:         s.NBits,
		AsInt:         addend,
		TypeName:      s.TypeName(),
		Symbols: []RelocationRequest{{
			Symbol:   name,
			Section:  s.Section,
			Offset:   0,
			Relative: relative,
		}},
	}, true
}

func hasPrefixWord(s, word string) bool {
	if len(s) < len(word) || s[:len(word)] != word {
		return false
	}
	if len(s) == len(word) {
		return true
	}
	c := s[len(word)]
	return c == ' ' || c == '\t'
}
