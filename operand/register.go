package operand

import (
	"regexp"
	"sort"
	"strings"
)

var reRegisterName = regexp.MustCompile(`^[a-zA-Z0-9]+`)

// RegisterSet is the minimal view of an ISA register group a scanner needs:
// the bit width used to encode an index, and the name->index mapping. It
// lets this package avoid importing the isa package (which in turn needs
// to build scanners out of operand types); isa.RegisterGroup satisfies this
// interface directly.
type RegisterSet interface {
	Bits() int
	IndexOf(name string) (int, bool)
	Names() []string
}

// RegisterScanner recognises a `%`-prefixed register name drawn from a
// named register group.
type RegisterScanner struct {
	Group RegisterSet
}

func (s RegisterScanner) TypeName() string {
	names := append([]string(nil), s.Group.Names()...)
	sort.Strings(names)
	return strings.Join(names, "|") + " register"
}

func (s RegisterScanner) Attempt(line string, offset int) (Parsed, bool) {
	if offset >= len(line) || line[offset] != '%' {
		return Parsed{}, false
	}
	name := reRegisterName.FindString(line[offset+1:])
	if name == "" {
		return Parsed{}, false
	}
	idx, ok := s.Group.IndexOf(name)
	if !ok {
		return Parsed{}, false
	}
	return Parsed{
		LengthInChars: len(name) + 1,
		NBits:         s.Group.Bits(),
		AsInt:         uint64(idx),
		TypeName:      s.TypeName(),
	}, true
}
