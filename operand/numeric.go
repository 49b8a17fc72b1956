package operand

import (
	"fmt"
	"regexp"
	"strconv"
)

var (
	reDecimal = regexp.MustCompile(`^\d+`)
	reHex     = regexp.MustCompile(`^0x[0-9a-fA-F]+`)
	reBinary  = regexp.MustCompile(`^0b[01]+`)
)

// ParseError reports an operand whose literal value is out of range, or
// malformed in some way a scanner's Attempt would otherwise have to
// silently swallow. It carries no position of its own; the driver stamps
// position/line context onto whatever error a scan step returns.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string { return e.Message }

// scanNumericLiteral recognises a decimal, 0x-hex, or 0b-binary literal
// starting at offset, trying the prefixed forms first so a leading 0x/0b
// is never misread as a decimal zero. It returns the consumed length and the parsed value; ok is false if none
// of the three forms matched at offset.
func scanNumericLiteral(line string, offset int) (length int, value uint64, ok bool) {
	rest := line[offset:]
	if m := reHex.FindString(rest); m != "" {
		v, err := strconv.ParseUint(m[2:], 16, 64)
		if err != nil {
			return 0, 0, false
		}
		return len(m), v, true
	}
	if m := reBinary.FindString(rest); m != "" {
		v, err := strconv.ParseUint(m[2:], 2, 64)
		if err != nil {
			return 0, 0, false
		}
		return len(m), v, true
	}
	if m := reDecimal.FindString(rest); m != "" {
		v, err := strconv.ParseUint(m, 10, 64)
		if err != nil {
			return 0, 0, false
		}
		return len(m), v, true
	}
	return 0, 0, false
}

// checkRange enforces that value fits in nBits unsigned. Go's uint64
// already excludes negative literals at this layer, so only the upper
// bound needs checking here.
func checkRange(value uint64, nBits int) error {
	if nBits < 64 && value >= (uint64(1)<<uint(nBits)) {
		return &ParseError{Message: fmt.Sprintf("value %d does not fit in %d bits", value, nBits)}
	}
	return nil
}
