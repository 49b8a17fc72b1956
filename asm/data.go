package asm

import (
	"github.com/monistode/assembler/isa"
	"github.com/monistode/assembler/operand"
)

// DataPacker packs data-section pseudo-ops into raw bytes. `ascii "..."`
// and `asciiz "..."` are the only two commands it understands, differing
// only in whether a trailing NUL terminator is appended.
type DataPacker struct {
	Config *isa.Configuration
}

// Pack packs one data-section command (mnemonic "ascii" or "asciiz") and
// its quoted-string operand into bytes.
func (p *DataPacker) Pack(mnemonic, operandString string) ([]byte, error) {
	var terminate bool
	switch mnemonic {
	case "ascii":
		terminate = false
	case "asciiz":
		terminate = true
	default:
		return nil, &PackError{Mnemonic: mnemonic, Message: "unknown data directive"}
	}

	value, ok := operand.ScanString(operandString, firstNonSpace(operandString))
	if !ok {
		return nil, &PackError{Mnemonic: mnemonic, Message: "expected a quoted string operand"}
	}

	out := append([]byte(nil), value.Bytes...)
	if terminate {
		out = append(out, 0)
	}
	return out, nil
}

func firstNonSpace(s string) int {
	for i, c := range s {
		if c != ' ' && c != '\t' {
			return i
		}
	}
	return len(s)
}
