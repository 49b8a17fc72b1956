// Package asm implements the two bit-packers: TextPacker (C4) packs one
// instruction's operands and opcode into a word stream, and DataPacker (C7)
// packs data-section pseudo-ops (ascii/asciiz) into raw bytes.
package asm

import (
	"fmt"

	"github.com/monistode/assembler/codec"
	"github.com/monistode/assembler/isa"
	"github.com/monistode/assembler/object"
	"github.com/monistode/assembler/operand"
	"github.com/monistode/assembler/signature"
)

// PackError reports a failure to assemble one instruction or data-section
// command. It carries the offending mnemonic and wraps the underlying
// cause.
type PackError struct {
	Mnemonic string
	Message  string
	Wrapped  error
}

func (e *PackError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", e.Mnemonic, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Mnemonic, e.Message)
}

func (e *PackError) Unwrap() error { return e.Wrapped }

// TextPacker packs instructions for one ISA configuration into a text
// section's word stream.
type TextPacker struct {
	Config *isa.Configuration
}

// Pack assembles one instruction line (mnemonic plus its raw operand
// string) into whole words: operands accumulate into a (code, bits) pair
// in declaration order with the opcode spliced in after
// PreOpcodeArguments() arguments, and every time the accumulator holds a
// whole word's worth of bits that word is flushed out. wordOffset is the
// word index, within the section, where this instruction begins; it is
// used only to compute relocation positions.
func (p *TextPacker) Pack(mnemonic, operandString string, wordOffset int) ([]uint64, []object.Relocation, error) {
	candidates := p.Config.CommandsNamed(mnemonic)
	if len(candidates) == 0 {
		return nil, nil, &PackError{Mnemonic: mnemonic, Message: "unknown mnemonic"}
	}

	var signatures [][]operand.Scanner
	commandForSignature := make(map[int]isa.Command)
	for i, cmd := range candidates {
		sig, err := codec.BuildSignature(cmd, p.Config, "text")
		if err != nil {
			return nil, nil, &PackError{Mnemonic: mnemonic, Message: "building signature", Wrapped: err}
		}
		signatures = append(signatures, sig)
		commandForSignature[i] = cmd
	}

	parsed, matchedIndex, err := signature.MatchIndexed(operandString, signatures)
	if err != nil {
		return nil, nil, &PackError{Mnemonic: mnemonic, Message: "matching operands", Wrapped: err}
	}
	cmd := commandForSignature[matchedIndex]

	preOpcode, err := cmd.PreOpcodeArguments(p.Config.OpcodeOffset)
	if err != nil {
		return nil, nil, &PackError{Mnemonic: mnemonic, Message: "resolving opcode position", Wrapped: err}
	}

	var code uint64
	bits := 0
	totalBits := 0 // cumulative bits written so far, never reset by a flush
	var words []uint64
	var relocs []object.Relocation

	byteBits := p.Config.TextByteLength

	flush := func() {
		for bits >= byteBits {
			shift := uint(bits - byteBits)
			word := (code >> shift) & (uint64(1)<<uint(byteBits) - 1)
			words = append(words, word)
			bits -= byteBits
			if bits > 0 {
				code &= uint64(1)<<uint(bits) - 1
			} else {
				code = 0
			}
		}
	}

	appendField := func(p2 operand.Parsed) {
		for _, sym := range p2.Symbols {
			cumBit := totalBits + sym.Offset
			relocs = append(relocs, object.Relocation{
				Target:     object.SymbolRef{Name: sym.Symbol, Section: sym.Section},
				Section:    "text",
				WordOffset: wordOffset + cumBit/byteBits,
				BitOffset:  cumBit % byteBits,
				SizeBits:   p2.NBits - sym.Offset,
				Relative:   sym.Relative,
			})
		}
		code = (code << uint(p2.NBits)) | p2.AsInt
		bits += p2.NBits
		totalBits += p2.NBits
		flush()
	}

	for i := 0; i < preOpcode; i++ {
		appendField(parsed[i])
	}

	code = (code << uint(p.Config.OpcodeLength)) | cmd.Opcode
	bits += p.Config.OpcodeLength
	totalBits += p.Config.OpcodeLength
	flush()

	for i := preOpcode; i < len(parsed); i++ {
		appendField(parsed[i])
	}

	if bits != 0 {
		return nil, nil, &PackError{Mnemonic: mnemonic, Message: fmt.Sprintf("instruction not word-aligned: %d leftover bits", bits)}
	}

	return words, relocs, nil
}
